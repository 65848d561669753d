package config

import "time"

// CacheConfig tunes the keyed collection cache.
type CacheConfig struct {
	RenderWait   time.Duration `env:"CACHE_RENDER_WAIT" envDefault:"2s"`
	FetchTimeout time.Duration `env:"CACHE_FETCH_TIMEOUT" envDefault:"15s"`
	MaxAge       time.Duration `env:"CACHE_MAX_AGE" envDefault:"0s"`
	IdleTTL      time.Duration `env:"CACHE_IDLE_TTL" envDefault:"10m"`
	SweepEvery   time.Duration `env:"CACHE_SWEEP_INTERVAL" envDefault:"1m"`
}
