package sim

import (
	"math"

	"github.com/courtwire/nba-sim-service/internal/domain/games"
)

// TotalMinutesPlayed converts a game's quarter/time fields into total
// basketball-minutes elapsed, counting a partially-played minute as played.
func TotalMinutesPlayed(g games.Game) int {
	quarter := g.CurrentQuarter
	if quarter < 1 {
		quarter = 1
	}
	completed := (quarter - 1) * 12
	secondsPlayed := games.QuarterLengthSeconds - g.QuarterTimeSeconds
	return completed + int(math.Ceil(float64(secondsPlayed)/60))
}

// MinuteToQuarter converts a total minute number (0-47) to a regulation
// quarter (1-4). Overtime periods are advanced by the engine's quarter loop,
// not by this formula.
func MinuteToQuarter(minute int) int {
	return minute/12 + 1
}

// QuarterTimeRemaining returns the seconds left in the current quarter after
// the given total minute has been played.
func QuarterTimeRemaining(totalMinute int) int {
	quarterMinute := totalMinute % 12
	return (12 - quarterMinute - 1) * 60
}
