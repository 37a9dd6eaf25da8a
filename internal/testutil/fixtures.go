package testutil

import (
	"context"
	"fmt"

	"github.com/courtwire/nba-sim-service/internal/domain/games"
	"github.com/courtwire/nba-sim-service/internal/domain/players"
	"github.com/courtwire/nba-sim-service/internal/domain/seasons"
	"github.com/courtwire/nba-sim-service/internal/domain/teams"
	"github.com/courtwire/nba-sim-service/internal/repository/memory"
)

// SampleTeam returns a team fixture with a deterministic id and roster-free shape.
func SampleTeam(n int) teams.Team {
	return teams.Team{
		ID:           fmt.Sprintf("team-%d", n),
		Name:         fmt.Sprintf("Team %d", n),
		City:         fmt.Sprintf("City %d", n),
		Abbreviation: fmt.Sprintf("T%02d", n),
	}
}

// SampleRoster returns size players for the given team.
func SampleRoster(teamID string, size int) []players.Player {
	roster := make([]players.Player, 0, size)
	for i := 0; i < size; i++ {
		roster = append(roster, players.Player{
			ID:           fmt.Sprintf("%s-player-%d", teamID, i),
			TeamID:       teamID,
			FirstName:    "Player",
			LastName:     fmt.Sprintf("%s-%d", teamID, i),
			Position:     "G",
			JerseyNumber: fmt.Sprintf("%d", i),
		})
	}
	return roster
}

// SampleSeason returns an active season fixture.
func SampleSeason() seasons.Season {
	return seasons.Season{
		ID:        "season-1",
		Name:      "2025-26",
		Active:    true,
		StartDate: MustParseRFC3339("2025-10-01T00:00:00Z"),
		EndDate:   MustParseRFC3339("2026-06-30T00:00:00Z"),
	}
}

// ScheduledGame returns a scheduled game fixture between the two teams.
func ScheduledGame(id, homeID, awayID string) games.Game {
	return games.Game{
		ID:                 id,
		SeasonID:           "season-1",
		HomeTeamID:         homeID,
		AwayTeamID:         awayID,
		Status:             games.StatusScheduled,
		ScheduledAt:        MustParseRFC3339("2026-01-15T19:00:00Z"),
		QuarterTimeSeconds: games.QuarterLengthSeconds,
	}
}

// SeedLeague populates a memory store with an active season, teamCount teams
// with ten-player rosters, and standings rows at zero. Returns the team ids.
func SeedLeague(ctx context.Context, store *memory.Store, teamCount int) ([]string, error) {
	season := SampleSeason()
	store.AddSeason(season)

	ids := make([]string, 0, teamCount)
	for i := 0; i < teamCount; i++ {
		t := SampleTeam(i)
		store.AddTeam(t, SampleRoster(t.ID, 10))
		ids = append(ids, t.ID)
		ts := seasons.TeamSeason{TeamID: t.ID, SeasonID: season.ID}
		if err := store.SaveTeamSeason(ctx, ts); err != nil {
			return nil, err
		}
	}
	return ids, nil
}

// SeedScheduledGame creates a scheduled game between the first two seeded teams.
func SeedScheduledGame(ctx context.Context, store *memory.Store, id string) (games.Game, error) {
	g := ScheduledGame(id, "team-0", "team-1")
	if err := store.CreateGame(ctx, g); err != nil {
		return games.Game{}, err
	}
	return g, nil
}
