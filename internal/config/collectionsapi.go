package config

import "time"

// CollectionsAPIConfig controls how we talk to a remote collections API.
type CollectionsAPIConfig struct {
	BaseURL string        `env:"COLLECTIONS_API_BASE_URL" envDefault:"http://localhost:4000/api"`
	APIKey  string        `env:"COLLECTIONS_API_KEY"`
	Timeout time.Duration `env:"COLLECTIONS_API_TIMEOUT" envDefault:"10s"`
}
