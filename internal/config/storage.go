package config

// StorageConfig selects the repository backend.
type StorageConfig struct {
	Backend     string // memory or postgres
	DatabaseURL string
	MinConns    int
	MaxConns    int
}

func loadStorage() StorageConfig {
	backend := envOrDefault(envStorageBackend, defaultStorageBackend)
	// A database URL implies postgres unless explicitly overridden.
	url := envOrDefault(envDatabaseURL, "")
	if backend == defaultStorageBackend && url != "" {
		backend = BackendPostgres
	}
	return StorageConfig{
		Backend:     backend,
		DatabaseURL: url,
		MinConns:    intEnvOrDefault(envDBMinConns, defaultDBMinConns),
		MaxConns:    intEnvOrDefault(envDBMaxConns, defaultDBMaxConns),
	}
}
