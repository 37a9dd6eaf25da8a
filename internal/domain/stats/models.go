package stats

import "math"

// GameStatistic is the per-team box score for a single game. All counters
// default to zero so accumulation never has to guard against missing fields.
type GameStatistic struct {
	GameID   string `json:"gameId"`
	TeamID   string `json:"teamId"`
	HomeTeam bool   `json:"isHomeTeam"`

	Q1Score int `json:"q1Score"`
	Q2Score int `json:"q2Score"`
	Q3Score int `json:"q3Score"`
	Q4Score int `json:"q4Score"`
	OTScore int `json:"otScore"`

	Points                 int `json:"points"`
	Assists                int `json:"assists"`
	Turnovers              int `json:"turnovers"`
	Fouls                  int `json:"fouls"`
	FieldGoalsMade         int `json:"fieldGoalsMade"`
	FieldGoalsAttempted    int `json:"fieldGoalsAttempted"`
	ThreePointersMade      int `json:"threePointersMade"`
	ThreePointersAttempted int `json:"threePointersAttempted"`
	FreeThrowsMade         int `json:"freeThrowsMade"`
	FreeThrowsAttempted    int `json:"freeThrowsAttempted"`
	AttackCount            int `json:"attackCount"`

	// Percentages are derived from made/attempted on demand, not trusted
	// mid-game. Nil means no attempts yet.
	FieldGoalPercentage *float64 `json:"fieldGoalPercentage,omitempty"`
	ThreePointPercent   *float64 `json:"threePointPercentage,omitempty"`
	FreeThrowPercentage *float64 `json:"freeThrowPercentage,omitempty"`
}

// RecomputePercentages refreshes the derived shooting percentages from the
// current made/attempted counters. Zero-attempt splits stay nil.
func (s *GameStatistic) RecomputePercentages() {
	s.FieldGoalPercentage = Percentage(s.FieldGoalsMade, s.FieldGoalsAttempted)
	s.ThreePointPercent = Percentage(s.ThreePointersMade, s.ThreePointersAttempted)
	s.FreeThrowPercentage = Percentage(s.FreeThrowsMade, s.FreeThrowsAttempted)
}

// AddQuarterPoints credits points to the subtotal for the given quarter.
// Overtime periods share a single OT bucket.
func (s *GameStatistic) AddQuarterPoints(quarter, points int) {
	switch quarter {
	case 1:
		s.Q1Score += points
	case 2:
		s.Q2Score += points
	case 3:
		s.Q3Score += points
	case 4:
		s.Q4Score += points
	default:
		s.OTScore += points
	}
}

// PlayerStatistic is the per-player box score line, unique on (game, player).
type PlayerStatistic struct {
	GameID   string `json:"gameId"`
	PlayerID string `json:"playerId"`
	TeamID   string `json:"teamId"`

	SecondsPlayed          int `json:"secondsPlayed"`
	Points                 int `json:"points"`
	Assists                int `json:"assists"`
	FieldGoalsMade         int `json:"fieldGoalsMade"`
	FieldGoalsAttempted    int `json:"fieldGoalsAttempted"`
	ThreePointersMade      int `json:"threePointersMade"`
	ThreePointersAttempted int `json:"threePointersAttempted"`
	FreeThrowsMade         int `json:"freeThrowsMade"`
	FreeThrowsAttempted    int `json:"freeThrowsAttempted"`
}

// PointsConsistent verifies the scoring identity
// points == 2*(FGM-3PM) + 3*3PM + FTM. Field goal counters include threes.
func (s PlayerStatistic) PointsConsistent() bool {
	expected := 2*(s.FieldGoalsMade-s.ThreePointersMade) + 3*s.ThreePointersMade + s.FreeThrowsMade
	return s.Points == expected
}

// Percentage computes made/attempted as a percentage rounded to one decimal.
// Returns nil when there were no attempts.
func Percentage(made, attempted int) *float64 {
	if attempted <= 0 {
		return nil
	}
	pct := math.Round(float64(made)/float64(attempted)*1000) / 10
	return &pct
}
