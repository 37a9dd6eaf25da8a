// Package repository defines the persistence contracts consumed by the
// simulation engine, tracker, scheduler, and read-side services.
package repository

import (
	"context"
	"errors"

	"github.com/courtwire/nba-sim-service/internal/domain/games"
	"github.com/courtwire/nba-sim-service/internal/domain/players"
	"github.com/courtwire/nba-sim-service/internal/domain/seasons"
	"github.com/courtwire/nba-sim-service/internal/domain/stats"
	"github.com/courtwire/nba-sim-service/internal/domain/teams"
)

// ErrNotFound is returned when a requested entity does not exist.
var ErrNotFound = errors.New("not found")

// GameFilter narrows ListGames results. Zero values mean "no constraint".
type GameFilter struct {
	IDs      []string
	Status   games.GameStatus
	SeasonID string
}

// GameRepository persists games.
type GameRepository interface {
	GetGame(ctx context.Context, id string) (games.Game, error)
	ListGames(ctx context.Context, filter GameFilter) ([]games.Game, error)
	CreateGame(ctx context.Context, g games.Game) error
	SaveGame(ctx context.Context, g games.Game) error
}

// EventRepository appends and reads the play-by-play log. AppendEvent assigns
// the per-game monotonic sequence number and creation timestamp.
type EventRepository interface {
	AppendEvent(ctx context.Context, ev games.Event) (games.Event, error)
	ListEvents(ctx context.Context, gameID string, sinceID int64, limit int) ([]games.Event, error)
}

// StatsRepository persists team and player box scores.
type StatsRepository interface {
	CreateTeamStat(ctx context.Context, s stats.GameStatistic) error
	SaveTeamStat(ctx context.Context, s stats.GameStatistic) error
	ListTeamStats(ctx context.Context, gameID string) ([]stats.GameStatistic, error)
	UpsertPlayerStat(ctx context.Context, s stats.PlayerStatistic) error
	GetPlayerStat(ctx context.Context, gameID, playerID string) (stats.PlayerStatistic, error)
	ListPlayerStats(ctx context.Context, gameID string) ([]stats.PlayerStatistic, error)
}

// TeamRepository reads teams and rosters.
type TeamRepository interface {
	GetTeam(ctx context.Context, id string) (teams.Team, error)
	ListTeams(ctx context.Context) ([]teams.Team, error)
	ListRoster(ctx context.Context, teamID string) ([]players.Player, error)
}

// SeasonRepository reads seasons and persists standings rows.
type SeasonRepository interface {
	ActiveSeason(ctx context.Context) (seasons.Season, error)
	GetTeamSeason(ctx context.Context, teamID, seasonID string) (seasons.TeamSeason, error)
	SaveTeamSeason(ctx context.Context, ts seasons.TeamSeason) error
}

// Store bundles all repositories behind one handle. WithinTx runs fn against
// a store whose writes commit or roll back atomically; implementations
// without transactions run fn directly.
type Store interface {
	GameRepository
	EventRepository
	StatsRepository
	TeamRepository
	SeasonRepository

	WithinTx(ctx context.Context, fn func(Store) error) error
}
