package config

import "fmt"

// StorageConfig points the database provider at sqlite or postgres.
type StorageConfig struct {
	Driver string `env:"DB_DRIVER" envDefault:"sqlite3"`
	DSN    string `env:"DB_DSN" envDefault:"./collections.db"`
}

// Validate checks the driver is one the storage package registers.
func (s StorageConfig) Validate() error {
	switch s.Driver {
	case DriverSQLite, DriverPostgres:
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", s.Driver)
	}
	if s.DSN == "" {
		return fmt.Errorf("DB_DSN is required")
	}
	return nil
}
