package config

import "time"

const (
	ProviderFixture  = "fixture"
	ProviderHTTP     = "http"
	ProviderDatabase = "database"

	DriverSQLite   = "sqlite3"
	DriverPostgres = "pgx"

	defaultPort     = "4000"
	defaultProvider = ProviderFixture

	defaultAPIBaseURL = "http://localhost:4000/api"
	defaultAPITimeout = 10 * time.Second

	defaultStorageDriver = DriverSQLite
	defaultStorageDSN    = "./collections.db"

	defaultSessionCookie = "session"

	// Long enough for a typical upstream round trip, short enough that a slow
	// source still shows the loading placeholder instead of a hanging page.
	defaultRenderWait   = 2 * time.Second
	defaultFetchTimeout = 15 * time.Second
	defaultIdleTTL      = 10 * time.Minute
	defaultSweepEvery   = time.Minute

	defaultMetricsPort = "9090"
	defaultServiceName = "game-collections-service"
)
