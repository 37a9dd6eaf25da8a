package sim

import (
	"github.com/courtwire/nba-sim-service/internal/domain/games"
	"github.com/courtwire/nba-sim-service/internal/domain/players"
	"github.com/courtwire/nba-sim-service/internal/domain/stats"
	"github.com/courtwire/nba-sim-service/internal/domain/teams"
)

// Lineup size the possession model draws shooters and defenders from.
const activePlayersPerTeam = 5

// Score is a home/away score pair.
type Score struct {
	Home int `json:"home"`
	Away int `json:"away"`
}

// MinuteUpdate reports what happened during one simulated game-minute.
type MinuteUpdate struct {
	Events       []games.Event `json:"events"`
	InitialScore Score         `json:"initial_score"`
	FinalScore   Score         `json:"final_score"`
}

// Session carries the working state of one game simulation run. All
// accumulation happens here and is flushed to the store by the engine, so
// two games never share mutable state and a session can be rebuilt from
// persisted rows after a restart.
type Session struct {
	Game games.Game
	Mode string

	Home teams.Team
	Away teams.Team

	HomeActive []players.Player
	AwayActive []players.Player

	HomeStat stats.GameStatistic
	AwayStat stats.GameStatistic

	// PlayerStats is keyed by player id and covers both lineups.
	PlayerStats map[string]*stats.PlayerStatistic

	possessions int
}

func (s *Session) team(home bool) teams.Team {
	if home {
		return s.Home
	}
	return s.Away
}

func (s *Session) active(home bool) []players.Player {
	if home {
		return s.HomeActive
	}
	return s.AwayActive
}

func (s *Session) teamStat(home bool) *stats.GameStatistic {
	if home {
		return &s.HomeStat
	}
	return &s.AwayStat
}

// teammates returns the lineup players on the given side excluding one player.
func (s *Session) teammates(home bool, excludeID string) []players.Player {
	lineup := s.active(home)
	out := make([]players.Player, 0, len(lineup))
	for _, p := range lineup {
		if p.ID != excludeID {
			out = append(out, p)
		}
	}
	return out
}

func (s *Session) score() Score {
	return Score{Home: s.Game.HomeScore, Away: s.Game.AwayScore}
}
