package seasons

import "time"

// Season groups games and standings for one league year.
type Season struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Active    bool      `json:"active"`
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
}

// TeamSeason is a team's running standings row for a season.
type TeamSeason struct {
	TeamID        string `json:"teamId"`
	SeasonID      string `json:"seasonId"`
	GamesPlayed   int    `json:"gamesPlayed"`
	Wins          int    `json:"wins"`
	Losses        int    `json:"losses"`
	PointsFor     int    `json:"pointsFor"`
	PointsAgainst int    `json:"pointsAgainst"`
}

// WinPercentage returns wins over games played, or 0 before any games.
func (ts TeamSeason) WinPercentage() float64 {
	if ts.GamesPlayed == 0 {
		return 0
	}
	return float64(ts.Wins) / float64(ts.GamesPlayed)
}
