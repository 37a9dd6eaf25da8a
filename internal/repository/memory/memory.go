// Package memory provides a mutex-guarded in-memory Store used by tests and
// the default development wiring.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/courtwire/nba-sim-service/internal/domain/games"
	"github.com/courtwire/nba-sim-service/internal/domain/players"
	"github.com/courtwire/nba-sim-service/internal/domain/seasons"
	"github.com/courtwire/nba-sim-service/internal/domain/stats"
	"github.com/courtwire/nba-sim-service/internal/domain/teams"
	"github.com/courtwire/nba-sim-service/internal/repository"
)

type playerStatKey struct {
	gameID   string
	playerID string
}

type teamStatKey struct {
	gameID string
	teamID string
}

type teamSeasonKey struct {
	teamID   string
	seasonID string
}

// Store keeps all entities in maps guarded by a single RWMutex.
type Store struct {
	mu sync.RWMutex

	games       map[string]games.Game
	events      map[string][]games.Event
	eventSeq    map[string]int64
	teamStats   map[teamStatKey]stats.GameStatistic
	playerStats map[playerStatKey]stats.PlayerStatistic
	teams       map[string]teams.Team
	rosters     map[string][]players.Player
	seasons     map[string]seasons.Season
	teamSeasons map[teamSeasonKey]seasons.TeamSeason

	now func() time.Time
}

// NewStore constructs an empty Store.
func NewStore() *Store {
	return &Store{
		games:       make(map[string]games.Game),
		events:      make(map[string][]games.Event),
		eventSeq:    make(map[string]int64),
		teamStats:   make(map[teamStatKey]stats.GameStatistic),
		playerStats: make(map[playerStatKey]stats.PlayerStatistic),
		teams:       make(map[string]teams.Team),
		rosters:     make(map[string][]players.Player),
		seasons:     make(map[string]seasons.Season),
		teamSeasons: make(map[teamSeasonKey]seasons.TeamSeason),
		now:         time.Now,
	}
}

// SetNow overrides the clock used for event timestamps; intended for tests.
func (s *Store) SetNow(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// GetGame retrieves a game by id.
func (s *Store) GetGame(_ context.Context, id string) (games.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	g, ok := s.games[id]
	if !ok {
		return games.Game{}, fmt.Errorf("game %s: %w", id, repository.ErrNotFound)
	}
	return g, nil
}

// ListGames returns games matching the filter, ordered by scheduled time
// then id for stable output.
func (s *Store) ListGames(_ context.Context, filter repository.GameFilter) ([]games.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var idSet map[string]struct{}
	if len(filter.IDs) > 0 {
		idSet = make(map[string]struct{}, len(filter.IDs))
		for _, id := range filter.IDs {
			idSet[id] = struct{}{}
		}
	}

	result := make([]games.Game, 0, len(s.games))
	for _, g := range s.games {
		if idSet != nil {
			if _, ok := idSet[g.ID]; !ok {
				continue
			}
		}
		if filter.Status != "" && g.Status != filter.Status {
			continue
		}
		if filter.SeasonID != "" && g.SeasonID != filter.SeasonID {
			continue
		}
		result = append(result, g)
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].ScheduledAt.Equal(result[j].ScheduledAt) {
			return result[i].ScheduledAt.Before(result[j].ScheduledAt)
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

// CreateGame inserts a new game, rejecting duplicates.
func (s *Store) CreateGame(_ context.Context, g games.Game) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.games[g.ID]; exists {
		return fmt.Errorf("game %s already exists", g.ID)
	}
	s.games[g.ID] = g
	return nil
}

// SaveGame replaces an existing game.
func (s *Store) SaveGame(_ context.Context, g games.Game) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.games[g.ID]; !exists {
		return fmt.Errorf("game %s: %w", g.ID, repository.ErrNotFound)
	}
	s.games[g.ID] = g
	return nil
}

// AppendEvent assigns the next per-game sequence number and stores the event.
func (s *Store) AppendEvent(_ context.Context, ev games.Event) (games.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.eventSeq[ev.GameID]++
	ev.Sequence = s.eventSeq[ev.GameID]
	if ev.CreatedAt.IsZero() {
		ev.CreatedAt = s.now()
	}
	s.events[ev.GameID] = append(s.events[ev.GameID], ev)
	return ev, nil
}

// ListEvents returns events after sinceID in sequence order, up to limit
// (limit <= 0 means no cap).
func (s *Store) ListEvents(_ context.Context, gameID string, sinceID int64, limit int) ([]games.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := s.events[gameID]
	result := make([]games.Event, 0, len(all))
	for _, ev := range all {
		if ev.Sequence <= sinceID {
			continue
		}
		result = append(result, ev)
		if limit > 0 && len(result) >= limit {
			break
		}
	}
	return result, nil
}

// CreateTeamStat inserts a zeroed team box score row.
func (s *Store) CreateTeamStat(_ context.Context, stat stats.GameStatistic) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := teamStatKey{gameID: stat.GameID, teamID: stat.TeamID}
	if _, exists := s.teamStats[key]; exists {
		return fmt.Errorf("team stat for game %s team %s already exists", stat.GameID, stat.TeamID)
	}
	s.teamStats[key] = stat
	return nil
}

// SaveTeamStat upserts a team box score row.
func (s *Store) SaveTeamStat(_ context.Context, stat stats.GameStatistic) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.teamStats[teamStatKey{gameID: stat.GameID, teamID: stat.TeamID}] = stat
	return nil
}

// ListTeamStats returns both team rows for a game, home first.
func (s *Store) ListTeamStats(_ context.Context, gameID string) ([]stats.GameStatistic, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]stats.GameStatistic, 0, 2)
	for key, stat := range s.teamStats {
		if key.gameID == gameID {
			result = append(result, stat)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].HomeTeam != result[j].HomeTeam {
			return result[i].HomeTeam
		}
		return result[i].TeamID < result[j].TeamID
	})
	return result, nil
}

// UpsertPlayerStat writes a player box score row keyed on (game, player).
func (s *Store) UpsertPlayerStat(_ context.Context, stat stats.PlayerStatistic) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.playerStats[playerStatKey{gameID: stat.GameID, playerID: stat.PlayerID}] = stat
	return nil
}

// GetPlayerStat retrieves one player's row for a game.
func (s *Store) GetPlayerStat(_ context.Context, gameID, playerID string) (stats.PlayerStatistic, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stat, ok := s.playerStats[playerStatKey{gameID: gameID, playerID: playerID}]
	if !ok {
		return stats.PlayerStatistic{}, fmt.Errorf("player stat for game %s player %s: %w", gameID, playerID, repository.ErrNotFound)
	}
	return stat, nil
}

// ListPlayerStats returns all player rows for a game ordered by player id.
func (s *Store) ListPlayerStats(_ context.Context, gameID string) ([]stats.PlayerStatistic, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]stats.PlayerStatistic, 0, 10)
	for key, stat := range s.playerStats {
		if key.gameID == gameID {
			result = append(result, stat)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].PlayerID < result[j].PlayerID })
	return result, nil
}

// GetTeam retrieves a team by id.
func (s *Store) GetTeam(_ context.Context, id string) (teams.Team, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.teams[id]
	if !ok {
		return teams.Team{}, fmt.Errorf("team %s: %w", id, repository.ErrNotFound)
	}
	return t, nil
}

// ListTeams returns all teams ordered by id.
func (s *Store) ListTeams(_ context.Context) ([]teams.Team, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]teams.Team, 0, len(s.teams))
	for _, t := range s.teams {
		result = append(result, t)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// ListRoster returns a copy of a team's roster.
func (s *Store) ListRoster(_ context.Context, teamID string) ([]players.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	roster := s.rosters[teamID]
	result := make([]players.Player, len(roster))
	copy(result, roster)
	return result, nil
}

// ActiveSeason returns the single active season.
func (s *Store) ActiveSeason(_ context.Context) (seasons.Season, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, season := range s.seasons {
		if season.Active {
			return season, nil
		}
	}
	return seasons.Season{}, fmt.Errorf("active season: %w", repository.ErrNotFound)
}

// GetTeamSeason retrieves a standings row.
func (s *Store) GetTeamSeason(_ context.Context, teamID, seasonID string) (seasons.TeamSeason, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ts, ok := s.teamSeasons[teamSeasonKey{teamID: teamID, seasonID: seasonID}]
	if !ok {
		return seasons.TeamSeason{}, fmt.Errorf("team season %s/%s: %w", teamID, seasonID, repository.ErrNotFound)
	}
	return ts, nil
}

// SaveTeamSeason upserts a standings row.
func (s *Store) SaveTeamSeason(_ context.Context, ts seasons.TeamSeason) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.teamSeasons[teamSeasonKey{teamID: ts.TeamID, seasonID: ts.SeasonID}] = ts
	return nil
}

// WithinTx runs fn against the same store. The memory backend has no
// transactions; callers get read-committed semantics at best.
func (s *Store) WithinTx(_ context.Context, fn func(repository.Store) error) error {
	return fn(s)
}

// AddTeam seeds a team and its roster; intended for tests and dev fixtures.
func (s *Store) AddTeam(t teams.Team, roster []players.Player) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.teams[t.ID] = t
	s.rosters[t.ID] = append([]players.Player(nil), roster...)
}

// AddSeason seeds a season; intended for tests and dev fixtures.
func (s *Store) AddSeason(season seasons.Season) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seasons[season.ID] = season
}

var _ repository.Store = (*Store)(nil)
