package config

import "time"

// SnapshotConfig selects where the tracker's progression state lives.
type SnapshotConfig struct {
	Backend       string // memory or redis
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	TTL           time.Duration
}

func loadSnapshots() SnapshotConfig {
	return SnapshotConfig{
		Backend:       envOrDefault(envSnapshotBackend, defaultSnapshotBackend),
		RedisAddr:     envOrDefault(envRedisAddr, defaultRedisAddr),
		RedisPassword: envOrDefault(envRedisPassword, ""),
		RedisDB:       intEnvOrDefault(envRedisDB, 0),
		TTL:           durationEnvOrDefault(envSnapshotTTL, defaultSnapshotTTL),
	}
}
