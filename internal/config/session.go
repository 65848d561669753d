package config

// SessionConfig configures verification of session tokens.
// An empty secret leaves every request anonymous unless DevUser is set.
type SessionConfig struct {
	Secret     string `env:"SESSION_SECRET"`
	CookieName string `env:"SESSION_COOKIE" envDefault:"session"`
	Issuer     string `env:"SESSION_ISSUER"`
	// DevUser signs every request in as this user. Local development only.
	DevUser string `env:"SESSION_DEV_USER"`
}
