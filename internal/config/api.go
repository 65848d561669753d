package config

// APIConfig guards the JSON collection endpoints this service exposes.
type APIConfig struct {
	// Token, when set, must arrive as a bearer token on /api requests.
	Token          string   `env:"API_TOKEN"`
	AllowedOrigins []string `env:"API_ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:*"`
}
