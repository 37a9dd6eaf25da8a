package postgres

import (
	"context"
	"fmt"

	"github.com/courtwire/nba-sim-service/internal/domain/games"
)

// AppendEvent inserts an event, assigning the next per-game sequence number
// inside the insert so concurrent writers for different games never collide.
func (s *Store) AppendEvent(ctx context.Context, ev games.Event) (games.Event, error) {
	row := s.q.QueryRow(ctx, `
		INSERT INTO game_events (game_id, sequence, event_type, score_value,
			quarter, quarter_time, description, home_score, away_score,
			team_id, player_id, secondary_player_id, created_at)
		VALUES ($1,
			(SELECT COALESCE(MAX(sequence), 0) + 1 FROM game_events WHERE game_id = $1),
			$2, $3, $4, $5, $6, $7, $8, NULLIF($9, ''), NULLIF($10, ''), NULLIF($11, ''), NOW())
		RETURNING sequence, created_at`,
		ev.GameID, string(ev.Type), ev.ScoreValue, ev.Quarter, ev.QuarterTime,
		ev.Description, ev.HomeScore, ev.AwayScore,
		ev.TeamID, ev.PlayerID, ev.SecondaryPlayerID)
	if err := row.Scan(&ev.Sequence, &ev.CreatedAt); err != nil {
		return games.Event{}, fmt.Errorf("append event for game %s: %w", ev.GameID, err)
	}
	return ev, nil
}

// ListEvents returns events after sinceID in sequence order, up to limit
// (limit <= 0 means no cap).
func (s *Store) ListEvents(ctx context.Context, gameID string, sinceID int64, limit int) ([]games.Event, error) {
	query := `
		SELECT sequence, event_type, score_value, quarter, quarter_time,
			description, home_score, away_score,
			COALESCE(team_id, ''), COALESCE(player_id, ''), COALESCE(secondary_player_id, ''),
			created_at
		FROM game_events
		WHERE game_id = $1 AND sequence > $2
		ORDER BY sequence`
	args := []any{gameID, sinceID}
	if limit > 0 {
		query += " LIMIT $3"
		args = append(args, limit)
	}

	rows, err := s.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list events for game %s: %w", gameID, err)
	}
	defer rows.Close()

	var result []games.Event
	for rows.Next() {
		ev := games.Event{GameID: gameID}
		var eventType string
		if err := rows.Scan(&ev.Sequence, &eventType, &ev.ScoreValue, &ev.Quarter,
			&ev.QuarterTime, &ev.Description, &ev.HomeScore, &ev.AwayScore,
			&ev.TeamID, &ev.PlayerID, &ev.SecondaryPlayerID, &ev.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		ev.Type = games.EventType(eventType)
		result = append(result, ev)
	}
	return result, rows.Err()
}
