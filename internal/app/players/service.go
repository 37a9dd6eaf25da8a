// Package players exposes the read-side roster and player box score queries.
package players

import (
	"context"

	domainplayers "github.com/courtwire/nba-sim-service/internal/domain/players"
	"github.com/courtwire/nba-sim-service/internal/domain/stats"
	"github.com/courtwire/nba-sim-service/internal/repository"
)

// Service coordinates player queries against the repository.
type Service struct {
	store repository.Store
}

// NewService constructs a Service over the given store.
func NewService(store repository.Store) *Service {
	return &Service{store: store}
}

// Roster returns a team's players.
func (s *Service) Roster(ctx context.Context, teamID string) ([]domainplayers.Player, error) {
	return s.store.ListRoster(ctx, teamID)
}

// GameLine returns one player's box score row for a game.
func (s *Service) GameLine(ctx context.Context, gameID, playerID string) (stats.PlayerStatistic, error) {
	return s.store.GetPlayerStat(ctx, gameID, playerID)
}
