package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/courtwire/nba-sim-service/internal/domain/stats"
	"github.com/courtwire/nba-sim-service/internal/repository"
)

// CreateTeamStat inserts a zeroed team box score row.
func (s *Store) CreateTeamStat(ctx context.Context, stat stats.GameStatistic) error {
	_, err := s.q.Exec(ctx, `
		INSERT INTO game_statistics (game_id, team_id, is_home_team,
			q1_score, q2_score, q3_score, q4_score, ot_score,
			points, assists, turnovers, fouls,
			field_goals_made, field_goals_attempted,
			three_pointers_made, three_pointers_attempted,
			free_throws_made, free_throws_attempted, attack_count)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)`,
		stat.GameID, stat.TeamID, stat.HomeTeam,
		stat.Q1Score, stat.Q2Score, stat.Q3Score, stat.Q4Score, stat.OTScore,
		stat.Points, stat.Assists, stat.Turnovers, stat.Fouls,
		stat.FieldGoalsMade, stat.FieldGoalsAttempted,
		stat.ThreePointersMade, stat.ThreePointersAttempted,
		stat.FreeThrowsMade, stat.FreeThrowsAttempted, stat.AttackCount)
	if err != nil {
		return fmt.Errorf("create team stat game=%s team=%s: %w", stat.GameID, stat.TeamID, err)
	}
	return nil
}

// SaveTeamStat upserts a team box score row.
func (s *Store) SaveTeamStat(ctx context.Context, stat stats.GameStatistic) error {
	_, err := s.q.Exec(ctx, `
		INSERT INTO game_statistics (game_id, team_id, is_home_team,
			q1_score, q2_score, q3_score, q4_score, ot_score,
			points, assists, turnovers, fouls,
			field_goals_made, field_goals_attempted,
			three_pointers_made, three_pointers_attempted,
			free_throws_made, free_throws_attempted, attack_count,
			field_goal_percentage, three_point_percentage, free_throw_percentage)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22)
		ON CONFLICT (game_id, team_id) DO UPDATE SET
			q1_score = EXCLUDED.q1_score, q2_score = EXCLUDED.q2_score,
			q3_score = EXCLUDED.q3_score, q4_score = EXCLUDED.q4_score,
			ot_score = EXCLUDED.ot_score,
			points = EXCLUDED.points, assists = EXCLUDED.assists,
			turnovers = EXCLUDED.turnovers, fouls = EXCLUDED.fouls,
			field_goals_made = EXCLUDED.field_goals_made,
			field_goals_attempted = EXCLUDED.field_goals_attempted,
			three_pointers_made = EXCLUDED.three_pointers_made,
			three_pointers_attempted = EXCLUDED.three_pointers_attempted,
			free_throws_made = EXCLUDED.free_throws_made,
			free_throws_attempted = EXCLUDED.free_throws_attempted,
			attack_count = EXCLUDED.attack_count,
			field_goal_percentage = EXCLUDED.field_goal_percentage,
			three_point_percentage = EXCLUDED.three_point_percentage,
			free_throw_percentage = EXCLUDED.free_throw_percentage`,
		stat.GameID, stat.TeamID, stat.HomeTeam,
		stat.Q1Score, stat.Q2Score, stat.Q3Score, stat.Q4Score, stat.OTScore,
		stat.Points, stat.Assists, stat.Turnovers, stat.Fouls,
		stat.FieldGoalsMade, stat.FieldGoalsAttempted,
		stat.ThreePointersMade, stat.ThreePointersAttempted,
		stat.FreeThrowsMade, stat.FreeThrowsAttempted, stat.AttackCount,
		stat.FieldGoalPercentage, stat.ThreePointPercent, stat.FreeThrowPercentage)
	if err != nil {
		return fmt.Errorf("save team stat game=%s team=%s: %w", stat.GameID, stat.TeamID, err)
	}
	return nil
}

const teamStatColumns = `game_id, team_id, is_home_team,
	q1_score, q2_score, q3_score, q4_score, ot_score,
	points, assists, turnovers, fouls,
	field_goals_made, field_goals_attempted,
	three_pointers_made, three_pointers_attempted,
	free_throws_made, free_throws_attempted, attack_count,
	field_goal_percentage, three_point_percentage, free_throw_percentage`

// ListTeamStats returns both team rows for a game, home first.
func (s *Store) ListTeamStats(ctx context.Context, gameID string) ([]stats.GameStatistic, error) {
	rows, err := s.q.Query(ctx, `
		SELECT `+teamStatColumns+` FROM game_statistics
		WHERE game_id = $1 ORDER BY is_home_team DESC, team_id`, gameID)
	if err != nil {
		return nil, fmt.Errorf("list team stats for game %s: %w", gameID, err)
	}
	defer rows.Close()

	var result []stats.GameStatistic
	for rows.Next() {
		var stat stats.GameStatistic
		if err := rows.Scan(&stat.GameID, &stat.TeamID, &stat.HomeTeam,
			&stat.Q1Score, &stat.Q2Score, &stat.Q3Score, &stat.Q4Score, &stat.OTScore,
			&stat.Points, &stat.Assists, &stat.Turnovers, &stat.Fouls,
			&stat.FieldGoalsMade, &stat.FieldGoalsAttempted,
			&stat.ThreePointersMade, &stat.ThreePointersAttempted,
			&stat.FreeThrowsMade, &stat.FreeThrowsAttempted, &stat.AttackCount,
			&stat.FieldGoalPercentage, &stat.ThreePointPercent, &stat.FreeThrowPercentage); err != nil {
			return nil, fmt.Errorf("scan team stat: %w", err)
		}
		result = append(result, stat)
	}
	return result, rows.Err()
}

const playerStatColumns = `game_id, player_id, team_id, seconds_played,
	points, assists, field_goals_made, field_goals_attempted,
	three_pointers_made, three_pointers_attempted,
	free_throws_made, free_throws_attempted`

func scanPlayerStat(row pgx.Row) (stats.PlayerStatistic, error) {
	var stat stats.PlayerStatistic
	err := row.Scan(&stat.GameID, &stat.PlayerID, &stat.TeamID, &stat.SecondsPlayed,
		&stat.Points, &stat.Assists, &stat.FieldGoalsMade, &stat.FieldGoalsAttempted,
		&stat.ThreePointersMade, &stat.ThreePointersAttempted,
		&stat.FreeThrowsMade, &stat.FreeThrowsAttempted)
	return stat, err
}

// UpsertPlayerStat writes a player box score row keyed on (game, player).
func (s *Store) UpsertPlayerStat(ctx context.Context, stat stats.PlayerStatistic) error {
	_, err := s.q.Exec(ctx, `
		INSERT INTO player_statistics (game_id, player_id, team_id, seconds_played,
			points, assists, field_goals_made, field_goals_attempted,
			three_pointers_made, three_pointers_attempted,
			free_throws_made, free_throws_attempted)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (game_id, player_id) DO UPDATE SET
			seconds_played = EXCLUDED.seconds_played,
			points = EXCLUDED.points, assists = EXCLUDED.assists,
			field_goals_made = EXCLUDED.field_goals_made,
			field_goals_attempted = EXCLUDED.field_goals_attempted,
			three_pointers_made = EXCLUDED.three_pointers_made,
			three_pointers_attempted = EXCLUDED.three_pointers_attempted,
			free_throws_made = EXCLUDED.free_throws_made,
			free_throws_attempted = EXCLUDED.free_throws_attempted`,
		stat.GameID, stat.PlayerID, stat.TeamID, stat.SecondsPlayed,
		stat.Points, stat.Assists, stat.FieldGoalsMade, stat.FieldGoalsAttempted,
		stat.ThreePointersMade, stat.ThreePointersAttempted,
		stat.FreeThrowsMade, stat.FreeThrowsAttempted)
	if err != nil {
		return fmt.Errorf("upsert player stat game=%s player=%s: %w", stat.GameID, stat.PlayerID, err)
	}
	return nil
}

// GetPlayerStat retrieves one player's row for a game.
func (s *Store) GetPlayerStat(ctx context.Context, gameID, playerID string) (stats.PlayerStatistic, error) {
	row := s.q.QueryRow(ctx, `
		SELECT `+playerStatColumns+` FROM player_statistics
		WHERE game_id = $1 AND player_id = $2`, gameID, playerID)
	stat, err := scanPlayerStat(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return stats.PlayerStatistic{}, fmt.Errorf("player stat game=%s player=%s: %w", gameID, playerID, repository.ErrNotFound)
	}
	if err != nil {
		return stats.PlayerStatistic{}, fmt.Errorf("get player stat game=%s player=%s: %w", gameID, playerID, err)
	}
	return stat, nil
}

// ListPlayerStats returns all player rows for a game ordered by player id.
func (s *Store) ListPlayerStats(ctx context.Context, gameID string) ([]stats.PlayerStatistic, error) {
	rows, err := s.q.Query(ctx, `
		SELECT `+playerStatColumns+` FROM player_statistics
		WHERE game_id = $1 ORDER BY player_id`, gameID)
	if err != nil {
		return nil, fmt.Errorf("list player stats for game %s: %w", gameID, err)
	}
	defer rows.Close()

	var result []stats.PlayerStatistic
	for rows.Next() {
		stat, err := scanPlayerStat(rows)
		if err != nil {
			return nil, fmt.Errorf("scan player stat: %w", err)
		}
		result = append(result, stat)
	}
	return result, rows.Err()
}
