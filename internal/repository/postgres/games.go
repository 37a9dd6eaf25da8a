package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/courtwire/nba-sim-service/internal/domain/games"
	"github.com/courtwire/nba-sim-service/internal/repository"
)

const gameColumns = `id, season_id, home_team_id, away_team_id, status,
	scheduled_at, started_at, ended_at, home_team_score, away_team_score,
	current_quarter, quarter_time_seconds`

func scanGame(row pgx.Row) (games.Game, error) {
	var g games.Game
	var status string
	var startedAt, endedAt *time.Time
	err := row.Scan(&g.ID, &g.SeasonID, &g.HomeTeamID, &g.AwayTeamID, &status,
		&g.ScheduledAt, &startedAt, &endedAt, &g.HomeScore, &g.AwayScore,
		&g.CurrentQuarter, &g.QuarterTimeSeconds)
	if err != nil {
		return games.Game{}, err
	}
	g.Status = games.GameStatus(status)
	g.StartedAt = startedAt
	g.EndedAt = endedAt
	return g, nil
}

// GetGame retrieves a game by id.
func (s *Store) GetGame(ctx context.Context, id string) (games.Game, error) {
	row := s.q.QueryRow(ctx, `SELECT `+gameColumns+` FROM games WHERE id = $1`, id)
	g, err := scanGame(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return games.Game{}, fmt.Errorf("game %s: %w", id, repository.ErrNotFound)
	}
	if err != nil {
		return games.Game{}, fmt.Errorf("get game %s: %w", id, err)
	}
	return g, nil
}

// ListGames returns games matching the filter ordered by scheduled time.
func (s *Store) ListGames(ctx context.Context, filter repository.GameFilter) ([]games.Game, error) {
	var (
		clauses []string
		args    []any
	)
	if len(filter.IDs) > 0 {
		args = append(args, filter.IDs)
		clauses = append(clauses, fmt.Sprintf("id = ANY($%d)", len(args)))
	}
	if filter.Status != "" {
		args = append(args, string(filter.Status))
		clauses = append(clauses, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.SeasonID != "" {
		args = append(args, filter.SeasonID)
		clauses = append(clauses, fmt.Sprintf("season_id = $%d", len(args)))
	}

	query := `SELECT ` + gameColumns + ` FROM games`
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY scheduled_at, id"

	rows, err := s.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}
	defer rows.Close()

	var result []games.Game
	for rows.Next() {
		g, err := scanGame(rows)
		if err != nil {
			return nil, fmt.Errorf("scan game: %w", err)
		}
		result = append(result, g)
	}
	return result, rows.Err()
}

// CreateGame inserts a new game row.
func (s *Store) CreateGame(ctx context.Context, g games.Game) error {
	_, err := s.q.Exec(ctx, `
		INSERT INTO games (id, season_id, home_team_id, away_team_id, status,
			scheduled_at, started_at, ended_at, home_team_score, away_team_score,
			current_quarter, quarter_time_seconds)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		g.ID, g.SeasonID, g.HomeTeamID, g.AwayTeamID, string(g.Status),
		g.ScheduledAt, g.StartedAt, g.EndedAt, g.HomeScore, g.AwayScore,
		g.CurrentQuarter, g.QuarterTimeSeconds)
	if err != nil {
		return fmt.Errorf("create game %s: %w", g.ID, err)
	}
	return nil
}

// SaveGame updates an existing game row.
func (s *Store) SaveGame(ctx context.Context, g games.Game) error {
	tag, err := s.q.Exec(ctx, `
		UPDATE games SET status = $2, started_at = $3, ended_at = $4,
			home_team_score = $5, away_team_score = $6,
			current_quarter = $7, quarter_time_seconds = $8
		WHERE id = $1`,
		g.ID, string(g.Status), g.StartedAt, g.EndedAt,
		g.HomeScore, g.AwayScore, g.CurrentQuarter, g.QuarterTimeSeconds)
	if err != nil {
		return fmt.Errorf("save game %s: %w", g.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("game %s: %w", g.ID, repository.ErrNotFound)
	}
	return nil
}
