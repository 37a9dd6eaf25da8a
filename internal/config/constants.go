package config

import "time"

const (
	envPort         = "PORT"
	envTickInterval = "TICK_INTERVAL"
	envSimSeed      = "SIM_SEED"

	envLogLevel  = "LOG_LEVEL"
	envLogFormat = "LOG_FORMAT"

	envStorageBackend = "STORAGE_BACKEND"
	envDatabaseURL    = "DATABASE_URL"
	envDBMinConns     = "DB_MIN_CONNS"
	envDBMaxConns     = "DB_MAX_CONNS"

	envSnapshotBackend = "SNAPSHOT_BACKEND"
	envRedisAddr       = "REDIS_ADDR"
	envRedisPassword   = "REDIS_PASSWORD"
	envRedisDB         = "REDIS_DB"
	envSnapshotTTL     = "SNAPSHOT_TTL"

	envMetricsPort  = "METRICS_PORT"
	envMetricsOn    = "METRICS_ENABLED"
	envOtelEndpoint = "OTEL_EXPORTER_OTLP_ENDPOINT"
	envOtelService  = "OTEL_SERVICE_NAME"
	envOtelInsecure = "OTEL_EXPORTER_OTLP_INSECURE"

	defaultPort = "4000"
	// One tick per wall-clock minute keeps simulated time roughly real-time.
	defaultTickInterval = Duration(time.Minute)

	// BackendMemory keeps everything in process; BackendPostgres and
	// BackendRedis use external services.
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"

	defaultStorageBackend  = BackendMemory
	defaultSnapshotBackend = BackendMemory
	defaultRedisAddr       = "localhost:6379"
	defaultSnapshotTTL     = Duration(time.Hour)
	defaultDBMinConns      = 2
	defaultDBMaxConns      = 10

	defaultMetricsPort = "9090"
)
