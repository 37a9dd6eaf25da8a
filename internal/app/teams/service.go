// Package teams exposes the read-side team and standings queries.
package teams

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/courtwire/nba-sim-service/internal/domain/seasons"
	domainteams "github.com/courtwire/nba-sim-service/internal/domain/teams"
	"github.com/courtwire/nba-sim-service/internal/repository"
)

// StandingsRow joins a team with its season record.
type StandingsRow struct {
	Team   domainteams.Team   `json:"team"`
	Record seasons.TeamSeason `json:"record"`
}

// Service coordinates team queries against the repository.
type Service struct {
	store repository.Store
}

// NewService constructs a Service over the given store.
func NewService(store repository.Store) *Service {
	return &Service{store: store}
}

// Teams returns every team in the league.
func (s *Service) Teams(ctx context.Context) ([]domainteams.Team, error) {
	return s.store.ListTeams(ctx)
}

// TeamByID returns a single team.
func (s *Service) TeamByID(ctx context.Context, id string) (domainteams.Team, error) {
	return s.store.GetTeam(ctx, id)
}

// Standings returns the active season's table sorted by win percentage,
// wins breaking ties. Teams without a season row are omitted.
func (s *Service) Standings(ctx context.Context) ([]StandingsRow, error) {
	season, err := s.store.ActiveSeason(ctx)
	if err != nil {
		return nil, fmt.Errorf("load active season: %w", err)
	}

	league, err := s.store.ListTeams(ctx)
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}

	rows := make([]StandingsRow, 0, len(league))
	for _, t := range league {
		record, err := s.store.GetTeamSeason(ctx, t.ID, season.ID)
		if errors.Is(err, repository.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("load record for team %s: %w", t.ID, err)
		}
		rows = append(rows, StandingsRow{Team: t, Record: record})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		pi, pj := rows[i].Record.WinPercentage(), rows[j].Record.WinPercentage()
		if pi != pj {
			return pi > pj
		}
		return rows[i].Record.Wins > rows[j].Record.Wins
	})
	return rows, nil
}
