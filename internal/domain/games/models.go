package games

import "time"

// GameStatus tracks a game's lifecycle. Transitions are one-directional:
// scheduled -> in_progress -> completed.
type GameStatus string

const (
	StatusScheduled  GameStatus = "scheduled"
	StatusInProgress GameStatus = "in_progress"
	StatusCompleted  GameStatus = "completed"
	StatusPostponed  GameStatus = "postponed"
	StatusCancelled  GameStatus = "cancelled"
)

// Regulation timing constants.
const (
	QuarterLengthSeconds  = 720
	OvertimeLengthSeconds = 300
	QuarterCount          = 4
	RegulationMinutes     = 48
)

// Game is the canonical game shape shared by the engine, tracker, and API.
type Game struct {
	ID                 string     `json:"id"`
	SeasonID           string     `json:"seasonId"`
	HomeTeamID         string     `json:"homeTeamId"`
	AwayTeamID         string     `json:"awayTeamId"`
	Status             GameStatus `json:"status"`
	ScheduledAt        time.Time  `json:"scheduledAt"`
	StartedAt          *time.Time `json:"startedAt,omitempty"`
	EndedAt            *time.Time `json:"endedAt,omitempty"`
	HomeScore          int        `json:"homeScore"`
	AwayScore          int        `json:"awayScore"`
	CurrentQuarter     int        `json:"currentQuarter"`
	QuarterTimeSeconds int        `json:"quarterTimeSeconds"`
}

// Tied reports whether the score is level.
func (g Game) Tied() bool {
	return g.HomeScore == g.AwayScore
}

// WinnerID returns the leading team's id, or "" while tied.
func (g Game) WinnerID() string {
	switch {
	case g.HomeScore > g.AwayScore:
		return g.HomeTeamID
	case g.AwayScore > g.HomeScore:
		return g.AwayTeamID
	default:
		return ""
	}
}

// InOvertime reports whether play has advanced past regulation.
func (g Game) InOvertime() bool {
	return g.CurrentQuarter > QuarterCount
}
