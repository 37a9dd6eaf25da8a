package server

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/courtwire/nba-sim-service/internal/config"
	"github.com/courtwire/nba-sim-service/internal/repository"
	"github.com/courtwire/nba-sim-service/internal/repository/memory"
	"github.com/courtwire/nba-sim-service/internal/repository/postgres"
	"github.com/courtwire/nba-sim-service/internal/sim"
	"github.com/courtwire/nba-sim-service/internal/snapshots"
)

// buildStore selects the repository backend. The returned close func is
// always non-nil.
func buildStore(ctx context.Context, cfg config.Config, logger *slog.Logger) (repository.Store, func(), error) {
	switch cfg.Storage.Backend {
	case config.BackendPostgres:
		pg, err := postgres.New(ctx, postgres.Config{
			DatabaseURL: cfg.Storage.DatabaseURL,
			MinConns:    cfg.Storage.MinConns,
			MaxConns:    cfg.Storage.MaxConns,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("connect postgres: %w", err)
		}
		return pg, pg.Close, nil
	case config.BackendMemory:
		return memory.NewStore(), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}

// buildSnapshots selects where the tracker state lives.
func buildSnapshots(cfg config.Config) (snapshots.Store, func(), error) {
	switch cfg.Snapshots.Backend {
	case config.BackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Snapshots.RedisAddr,
			Password: cfg.Snapshots.RedisPassword,
			DB:       cfg.Snapshots.RedisDB,
		})
		return snapshots.NewRedisStore(client), func() { _ = client.Close() }, nil
	case config.BackendMemory:
		return snapshots.NewMemoryStore(), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown snapshot backend %q", cfg.Snapshots.Backend)
	}
}

// buildSampler returns a deterministic sampler when a seed is configured.
func buildSampler(cfg config.Config) *sim.Sampler {
	if cfg.SimSeed != 0 {
		return sim.NewSeededSampler(cfg.SimSeed)
	}
	return sim.NewSampler()
}
