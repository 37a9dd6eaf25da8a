package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/courtwire/nba-sim-service/internal/domain/seasons"
	"github.com/courtwire/nba-sim-service/internal/repository"
)

// ActiveSeason returns the single active season.
func (s *Store) ActiveSeason(ctx context.Context) (seasons.Season, error) {
	var season seasons.Season
	err := s.q.QueryRow(ctx, `
		SELECT id, name, active, start_date, end_date
		FROM seasons WHERE active ORDER BY start_date DESC LIMIT 1`).
		Scan(&season.ID, &season.Name, &season.Active, &season.StartDate, &season.EndDate)
	if errors.Is(err, pgx.ErrNoRows) {
		return seasons.Season{}, fmt.Errorf("active season: %w", repository.ErrNotFound)
	}
	if err != nil {
		return seasons.Season{}, fmt.Errorf("active season: %w", err)
	}
	return season, nil
}

// GetTeamSeason retrieves a standings row.
func (s *Store) GetTeamSeason(ctx context.Context, teamID, seasonID string) (seasons.TeamSeason, error) {
	var ts seasons.TeamSeason
	err := s.q.QueryRow(ctx, `
		SELECT team_id, season_id, games_played, wins, losses, points_for, points_against
		FROM team_seasons WHERE team_id = $1 AND season_id = $2`, teamID, seasonID).
		Scan(&ts.TeamID, &ts.SeasonID, &ts.GamesPlayed, &ts.Wins, &ts.Losses, &ts.PointsFor, &ts.PointsAgainst)
	if errors.Is(err, pgx.ErrNoRows) {
		return seasons.TeamSeason{}, fmt.Errorf("team season %s/%s: %w", teamID, seasonID, repository.ErrNotFound)
	}
	if err != nil {
		return seasons.TeamSeason{}, fmt.Errorf("get team season %s/%s: %w", teamID, seasonID, err)
	}
	return ts, nil
}

// SaveTeamSeason upserts a standings row.
func (s *Store) SaveTeamSeason(ctx context.Context, ts seasons.TeamSeason) error {
	_, err := s.q.Exec(ctx, `
		INSERT INTO team_seasons (team_id, season_id, games_played, wins, losses, points_for, points_against)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (team_id, season_id) DO UPDATE SET
			games_played = EXCLUDED.games_played,
			wins = EXCLUDED.wins, losses = EXCLUDED.losses,
			points_for = EXCLUDED.points_for, points_against = EXCLUDED.points_against`,
		ts.TeamID, ts.SeasonID, ts.GamesPlayed, ts.Wins, ts.Losses, ts.PointsFor, ts.PointsAgainst)
	if err != nil {
		return fmt.Errorf("save team season %s/%s: %w", ts.TeamID, ts.SeasonID, err)
	}
	return nil
}
