package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "4000", cfg.Port)
	assert.Equal(t, time.Minute, cfg.TickInterval)
	assert.Equal(t, int64(0), cfg.SimSeed)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, BackendMemory, cfg.Storage.Backend)
	assert.Equal(t, BackendMemory, cfg.Snapshots.Backend)
	assert.Equal(t, time.Hour, cfg.Snapshots.TTL)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv(envPort, "8080")
	t.Setenv(envTickInterval, "5s")
	t.Setenv(envSimSeed, "42")
	t.Setenv(envLogLevel, "debug")

	cfg := Load()
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 5*time.Second, cfg.TickInterval)
	assert.Equal(t, int64(42), cfg.SimSeed)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestDatabaseURLImpliesPostgres(t *testing.T) {
	t.Setenv(envDatabaseURL, "postgres://localhost:5432/sim")

	cfg := Load()
	assert.Equal(t, BackendPostgres, cfg.Storage.Backend)
	assert.Equal(t, "postgres://localhost:5432/sim", cfg.Storage.DatabaseURL)
}

func TestExplicitRedisSnapshotBackend(t *testing.T) {
	t.Setenv(envSnapshotBackend, BackendRedis)
	t.Setenv(envRedisAddr, "redis:6379")
	t.Setenv(envRedisDB, "2")

	cfg := Load()
	assert.Equal(t, BackendRedis, cfg.Snapshots.Backend)
	assert.Equal(t, "redis:6379", cfg.Snapshots.RedisAddr)
	assert.Equal(t, 2, cfg.Snapshots.RedisDB)
}

func TestDurationEnvRejectsInvalid(t *testing.T) {
	t.Setenv(envTickInterval, "not-a-duration")
	assert.Equal(t, time.Minute, Load().TickInterval)

	t.Setenv(envTickInterval, "-5s")
	assert.Equal(t, time.Minute, Load().TickInterval)
}

func TestIntEnvRejectsNonPositive(t *testing.T) {
	t.Setenv(envDBMaxConns, "0")
	cfg := Load()
	assert.Equal(t, 10, cfg.Storage.MaxConns)
}

func TestBoolEnv(t *testing.T) {
	cases := map[string]bool{
		"1": true, "true": true, "YES": true,
		"0": false, "false": false, "no": false,
		"maybe": true, // falls back to the default
	}
	for raw, want := range cases {
		t.Setenv(envMetricsOn, raw)
		assert.Equal(t, want, Load().Metrics.Enabled, "value %q", raw)
	}
}
