package games

import (
	"fmt"
	"time"
)

// EventType enumerates the play-by-play event kinds the engine emits.
type EventType string

const (
	EventGameStart    EventType = "game_start"
	EventGameEnd      EventType = "game_end"
	EventQuarterStart EventType = "quarter_start"
	EventQuarterEnd   EventType = "quarter_end"
	EventFieldGoal    EventType = "field_goal"
	EventThreePointer EventType = "three_pointer"
	EventFreeThrow    EventType = "free_throw"
	EventTurnover     EventType = "turnover"
	EventFoul         EventType = "foul"
)

// Event is an immutable append-only play-by-play entry. Sequence numbers are
// per-game and monotonic, so ordering by Sequence reflects temporal order and
// clients can page with since_id semantics.
type Event struct {
	Sequence          int64     `json:"id"`
	GameID            string    `json:"gameId"`
	Type              EventType `json:"type"`
	ScoreValue        int       `json:"scoreValue"`
	Quarter           int       `json:"quarter"`
	QuarterTime       int       `json:"quarterTime"`
	Description       string    `json:"description"`
	HomeScore         int       `json:"homeScore"`
	AwayScore         int       `json:"awayScore"`
	TeamID            string    `json:"teamId,omitempty"`
	PlayerID          string    `json:"playerId,omitempty"`
	SecondaryPlayerID string    `json:"secondaryPlayerId,omitempty"`
	CreatedAt         time.Time `json:"createdAt"`
}

// PeriodLabel renders "Quarter N" for regulation periods and "Overtime N" past
// them, matching play-by-play descriptions.
func PeriodLabel(quarter int) string {
	if quarter <= QuarterCount {
		return fmt.Sprintf("Quarter %d", quarter)
	}
	return fmt.Sprintf("Overtime %d", quarter-QuarterCount)
}
