// Package games exposes the read-side game queries backing the HTTP API.
package games

import (
	"context"
	"fmt"

	domaingames "github.com/courtwire/nba-sim-service/internal/domain/games"
	"github.com/courtwire/nba-sim-service/internal/domain/stats"
	"github.com/courtwire/nba-sim-service/internal/domain/teams"
	"github.com/courtwire/nba-sim-service/internal/repository"
)

// DefaultEventLimit caps event pages when the caller does not ask for one.
const DefaultEventLimit = 20

// Detail is a game joined with both team records.
type Detail struct {
	Game     domaingames.Game `json:"game"`
	HomeTeam teams.Team       `json:"home_team"`
	AwayTeam teams.Team       `json:"away_team"`
}

// Statistics bundles the team and player box scores for one game.
type Statistics struct {
	TeamStats   []stats.GameStatistic   `json:"team_stats"`
	PlayerStats []stats.PlayerStatistic `json:"player_stats"`
}

// Service coordinates game queries against the repository.
type Service struct {
	store repository.Store
}

// NewService constructs a Service over the given store.
func NewService(store repository.Store) *Service {
	return &Service{store: store}
}

// Games returns games matching the filter.
func (s *Service) Games(ctx context.Context, filter repository.GameFilter) ([]domaingames.Game, error) {
	return s.store.ListGames(ctx, filter)
}

// GameByID returns a single game with its teams resolved.
func (s *Service) GameByID(ctx context.Context, id string) (Detail, error) {
	g, err := s.store.GetGame(ctx, id)
	if err != nil {
		return Detail{}, err
	}
	home, err := s.store.GetTeam(ctx, g.HomeTeamID)
	if err != nil {
		return Detail{}, fmt.Errorf("load home team: %w", err)
	}
	away, err := s.store.GetTeam(ctx, g.AwayTeamID)
	if err != nil {
		return Detail{}, fmt.Errorf("load away team: %w", err)
	}
	return Detail{Game: g, HomeTeam: home, AwayTeam: away}, nil
}

// Events pages through a game's play-by-play log. Passing sinceID returns
// only events after that sequence number, so clients can poll incrementally.
func (s *Service) Events(ctx context.Context, gameID string, sinceID int64, limit int) ([]domaingames.Event, error) {
	if limit <= 0 {
		limit = DefaultEventLimit
	}
	if _, err := s.store.GetGame(ctx, gameID); err != nil {
		return nil, err
	}
	return s.store.ListEvents(ctx, gameID, sinceID, limit)
}

// Statistics returns both box scores for a game.
func (s *Service) Statistics(ctx context.Context, gameID string) (Statistics, error) {
	if _, err := s.store.GetGame(ctx, gameID); err != nil {
		return Statistics{}, err
	}
	teamStats, err := s.store.ListTeamStats(ctx, gameID)
	if err != nil {
		return Statistics{}, fmt.Errorf("list team stats: %w", err)
	}
	playerStats, err := s.store.ListPlayerStats(ctx, gameID)
	if err != nil {
		return Statistics{}, fmt.Errorf("list player stats: %w", err)
	}
	return Statistics{TeamStats: teamStats, PlayerStats: playerStats}, nil
}
