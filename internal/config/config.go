package config

import (
	"fmt"
	"strings"
)

// Config holds runtime configuration for the server.
type Config struct {
	Port           string `env:"PORT" envDefault:"4000"`
	Provider       string `env:"PROVIDER" envDefault:"fixture"`
	Log            LogConfig
	CollectionsAPI CollectionsAPIConfig
	Storage        StorageConfig
	Session        SessionConfig
	API            APIConfig
	Cache          CacheConfig
	Metrics        MetricsConfig
}

// Load reads configuration from environment variables with sensible defaults.
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	cfg.Provider = strings.ToLower(strings.TrimSpace(cfg.Provider))
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects values that cannot be wired into a working server.
func (c Config) Validate() error {
	switch c.Provider {
	case ProviderFixture, ProviderHTTP, ProviderDatabase:
	default:
		return fmt.Errorf("unknown provider %q", c.Provider)
	}
	if c.Provider == ProviderDatabase {
		if err := c.Storage.Validate(); err != nil {
			return err
		}
	}
	if c.Provider == ProviderHTTP && strings.TrimSpace(c.CollectionsAPI.BaseURL) == "" {
		return fmt.Errorf("COLLECTIONS_API_BASE_URL is required for the http provider")
	}
	if c.Cache.RenderWait <= 0 || c.Cache.FetchTimeout <= 0 {
		return fmt.Errorf("cache render wait and fetch timeout must be positive")
	}
	return nil
}
