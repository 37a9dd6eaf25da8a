// Package config reads runtime configuration from environment variables
// with sensible defaults, so the service boots with no configuration at all
// (in-memory storage and snapshots).
package config

// Config holds runtime configuration for the server.
type Config struct {
	Port         string
	TickInterval Duration
	// SimSeed seeds the random source when non-zero, for reproducible runs.
	SimSeed   int64
	LogLevel  string
	LogFormat string
	Storage   StorageConfig
	Snapshots SnapshotConfig
	Metrics   MetricsConfig
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	return Config{
		Port:         envOrDefault(envPort, defaultPort),
		TickInterval: durationEnvOrDefault(envTickInterval, defaultTickInterval),
		SimSeed:      int64EnvOrDefault(envSimSeed, 0),
		LogLevel:     envOrDefault(envLogLevel, "info"),
		LogFormat:    envOrDefault(envLogFormat, "json"),
		Storage:      loadStorage(),
		Snapshots:    loadSnapshots(),
		Metrics:      loadMetrics(),
	}
}
