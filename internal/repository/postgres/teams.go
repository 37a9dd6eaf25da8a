package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/courtwire/nba-sim-service/internal/domain/players"
	"github.com/courtwire/nba-sim-service/internal/domain/teams"
	"github.com/courtwire/nba-sim-service/internal/repository"
)

// GetTeam retrieves a team by id.
func (s *Store) GetTeam(ctx context.Context, id string) (teams.Team, error) {
	var t teams.Team
	err := s.q.QueryRow(ctx, `
		SELECT id, name, city, abbreviation FROM teams WHERE id = $1`, id).
		Scan(&t.ID, &t.Name, &t.City, &t.Abbreviation)
	if errors.Is(err, pgx.ErrNoRows) {
		return teams.Team{}, fmt.Errorf("team %s: %w", id, repository.ErrNotFound)
	}
	if err != nil {
		return teams.Team{}, fmt.Errorf("get team %s: %w", id, err)
	}
	return t, nil
}

// ListTeams returns all teams ordered by id.
func (s *Store) ListTeams(ctx context.Context) ([]teams.Team, error) {
	rows, err := s.q.Query(ctx, `SELECT id, name, city, abbreviation FROM teams ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}
	defer rows.Close()

	var result []teams.Team
	for rows.Next() {
		var t teams.Team
		if err := rows.Scan(&t.ID, &t.Name, &t.City, &t.Abbreviation); err != nil {
			return nil, fmt.Errorf("scan team: %w", err)
		}
		result = append(result, t)
	}
	return result, rows.Err()
}

// ListRoster returns a team's players ordered by id.
func (s *Store) ListRoster(ctx context.Context, teamID string) ([]players.Player, error) {
	rows, err := s.q.Query(ctx, `
		SELECT id, team_id, first_name, last_name, position, jersey_number
		FROM players WHERE team_id = $1 ORDER BY id`, teamID)
	if err != nil {
		return nil, fmt.Errorf("list roster for team %s: %w", teamID, err)
	}
	defer rows.Close()

	var result []players.Player
	for rows.Next() {
		var p players.Player
		if err := rows.Scan(&p.ID, &p.TeamID, &p.FirstName, &p.LastName, &p.Position, &p.JerseyNumber); err != nil {
			return nil, fmt.Errorf("scan player: %w", err)
		}
		result = append(result, p)
	}
	return result, rows.Err()
}
