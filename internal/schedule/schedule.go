// Package schedule creates scheduled games: random exhibition slates and the
// next week's league round, which avoids repeating recent matchups.
package schedule

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/courtwire/nba-sim-service/internal/domain/games"
	"github.com/courtwire/nba-sim-service/internal/domain/seasons"
	"github.com/courtwire/nba-sim-service/internal/domain/teams"
	"github.com/courtwire/nba-sim-service/internal/logging"
	"github.com/courtwire/nba-sim-service/internal/repository"
	"github.com/courtwire/nba-sim-service/internal/sim"
)

var (
	// ErrInsufficientTeams is returned when the league has too few teams
	// for the requested number of games.
	ErrInsufficientTeams = errors.New("not enough teams to schedule games")

	// ErrNoActiveSeason is returned when scheduling requires a season and
	// none is active.
	ErrNoActiveSeason = errors.New("no active season found")
)

// Matchup pairs a home and away team.
type Matchup struct {
	HomeTeamID string `json:"home_team_id"`
	AwayTeamID string `json:"away_team_id"`
}

// Scheduler creates scheduled game rows.
type Scheduler struct {
	store   repository.Store
	sampler *sim.Sampler
	logger  *slog.Logger
	now     func() time.Time
	newID   func() string
}

func NewScheduler(store repository.Store, sampler *sim.Sampler, logger *slog.Logger) *Scheduler {
	if sampler == nil {
		sampler = sim.NewSampler()
	}
	return &Scheduler{
		store:   store,
		sampler: sampler,
		logger:  logger,
		now:     time.Now,
		newID:   uuid.NewString,
	}
}

// SetNow overrides the clock used for scheduled dates in tests.
func (s *Scheduler) SetNow(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// ScheduleNextWeek pairs up the league's teams for one round of games a week
// out. Matchups already played this season or listed by the caller are
// avoided on the first pass; if that leaves open slots, a second pass fills
// them ignoring history.
func (s *Scheduler) ScheduleNextWeek(ctx context.Context, played []Matchup) ([]games.Game, error) {
	season, err := s.store.ActiveSeason(ctx)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNoActiveSeason
		}
		return nil, fmt.Errorf("load active season: %w", err)
	}

	league, err := s.store.ListTeams(ctx)
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}
	if len(league) < 2 {
		return nil, ErrInsufficientTeams
	}

	recent := map[string]struct{}{}
	for _, m := range played {
		markMatchup(recent, m.HomeTeamID, m.AwayTeamID)
	}
	existing, err := s.store.ListGames(ctx, repository.GameFilter{SeasonID: season.ID})
	if err != nil {
		return nil, fmt.Errorf("list season games: %w", err)
	}
	for _, g := range existing {
		markMatchup(recent, g.HomeTeamID, g.AwayTeamID)
	}

	shuffled := append([]teams.Team{}, league...)
	s.sampler.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	gamesPerWeek := len(league) / 2
	matchups := pairTeams(shuffled, recent, gamesPerWeek)

	scheduledAt := s.now().AddDate(0, 0, 7)
	created := make([]games.Game, 0, len(matchups))
	for _, m := range matchups {
		g, err := s.createScheduledGame(ctx, season.ID, m, scheduledAt)
		if err != nil {
			return nil, err
		}
		created = append(created, g)
	}

	logging.Info(s.logger, "next week scheduled",
		logging.FieldSeasonID, season.ID,
		logging.FieldCount, len(created))
	return created, nil
}

// CreateScheduledGames creates count games between randomly paired teams at
// the given time, with no matchup-history constraints.
func (s *Scheduler) CreateScheduledGames(ctx context.Context, season seasons.Season, scheduledAt time.Time, count int) ([]games.Game, error) {
	league, err := s.store.ListTeams(ctx)
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}
	if len(league) < count*2 {
		return nil, fmt.Errorf("need at least %d teams for %d games: %w", count*2, count, ErrInsufficientTeams)
	}

	shuffled := append([]teams.Team{}, league...)
	s.sampler.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	created := make([]games.Game, 0, count)
	for i := 0; i < count; i++ {
		m := Matchup{
			HomeTeamID: shuffled[i*2].ID,
			AwayTeamID: shuffled[i*2+1].ID,
		}
		g, err := s.createScheduledGame(ctx, season.ID, m, scheduledAt)
		if err != nil {
			return nil, err
		}
		created = append(created, g)
	}
	return created, nil
}

func (s *Scheduler) createScheduledGame(ctx context.Context, seasonID string, m Matchup, scheduledAt time.Time) (games.Game, error) {
	g := games.Game{
		ID:                 s.newID(),
		SeasonID:           seasonID,
		HomeTeamID:         m.HomeTeamID,
		AwayTeamID:         m.AwayTeamID,
		Status:             games.StatusScheduled,
		ScheduledAt:        scheduledAt,
		QuarterTimeSeconds: games.QuarterLengthSeconds,
	}
	if err := s.store.CreateGame(ctx, g); err != nil {
		return games.Game{}, fmt.Errorf("create game: %w", err)
	}
	return g, nil
}

// pairTeams greedily pairs teams that have not met recently, then relaxes
// the history constraint to fill remaining slots. Each team plays at most
// once per round.
func pairTeams(shuffled []teams.Team, recent map[string]struct{}, limit int) []Matchup {
	matchups := make([]Matchup, 0, limit)
	used := map[string]bool{}

	for _, home := range shuffled {
		if len(matchups) >= limit {
			break
		}
		if used[home.ID] {
			continue
		}
		for _, away := range shuffled {
			if away.ID == home.ID || used[away.ID] {
				continue
			}
			if _, met := recent[matchupKey(home.ID, away.ID)]; met {
				continue
			}
			matchups = append(matchups, Matchup{HomeTeamID: home.ID, AwayTeamID: away.ID})
			used[home.ID] = true
			used[away.ID] = true
			break
		}
	}

	if len(matchups) < limit {
		for _, home := range shuffled {
			if len(matchups) >= limit {
				break
			}
			if used[home.ID] {
				continue
			}
			for _, away := range shuffled {
				if away.ID == home.ID || used[away.ID] {
					continue
				}
				matchups = append(matchups, Matchup{HomeTeamID: home.ID, AwayTeamID: away.ID})
				used[home.ID] = true
				used[away.ID] = true
				break
			}
		}
	}
	return matchups
}

func matchupKey(homeID, awayID string) string {
	return homeID + "|" + awayID
}

func markMatchup(recent map[string]struct{}, homeID, awayID string) {
	recent[matchupKey(homeID, awayID)] = struct{}{}
	recent[matchupKey(awayID, homeID)] = struct{}{}
}
