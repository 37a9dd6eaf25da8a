package standings

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/courtwire/nba-sim-service/internal/domain/games"
	"github.com/courtwire/nba-sim-service/internal/repository/memory"
	"github.com/courtwire/nba-sim-service/internal/testutil"
)

func newUpdater(t *testing.T) (*memory.Store, *Updater) {
	t.Helper()
	store := memory.NewStore()
	_, err := testutil.SeedLeague(context.Background(), store, 2)
	require.NoError(t, err)
	logger, _ := testutil.NewBufferLogger()
	return store, NewUpdater(store, logger)
}

func completedGame(home, away int) games.Game {
	g := testutil.ScheduledGame("g1", "team-0", "team-1")
	g.Status = games.StatusCompleted
	g.HomeScore = home
	g.AwayScore = away
	return g
}

func TestRecordCompletedGameHomeWin(t *testing.T) {
	ctx := context.Background()
	store, u := newUpdater(t)

	require.NoError(t, u.RecordCompletedGame(ctx, completedGame(110, 98)))

	homeRow, err := store.GetTeamSeason(ctx, "team-0", "season-1")
	require.NoError(t, err)
	assert.Equal(t, 1, homeRow.GamesPlayed)
	assert.Equal(t, 1, homeRow.Wins)
	assert.Equal(t, 0, homeRow.Losses)
	assert.Equal(t, 110, homeRow.PointsFor)
	assert.Equal(t, 98, homeRow.PointsAgainst)

	awayRow, err := store.GetTeamSeason(ctx, "team-1", "season-1")
	require.NoError(t, err)
	assert.Equal(t, 0, awayRow.Wins)
	assert.Equal(t, 1, awayRow.Losses)
	assert.Equal(t, 98, awayRow.PointsFor)
	assert.Equal(t, 110, awayRow.PointsAgainst)
}

func TestRecordCompletedGameAwayWin(t *testing.T) {
	ctx := context.Background()
	store, u := newUpdater(t)

	require.NoError(t, u.RecordCompletedGame(ctx, completedGame(95, 101)))

	homeRow, err := store.GetTeamSeason(ctx, "team-0", "season-1")
	require.NoError(t, err)
	assert.Equal(t, 1, homeRow.Losses)

	awayRow, err := store.GetTeamSeason(ctx, "team-1", "season-1")
	require.NoError(t, err)
	assert.Equal(t, 1, awayRow.Wins)
}

func TestRecordCompletedGameTieCountsAsLossForBoth(t *testing.T) {
	ctx := context.Background()
	store, u := newUpdater(t)

	require.NoError(t, u.RecordCompletedGame(ctx, completedGame(100, 100)))

	for _, teamID := range []string{"team-0", "team-1"} {
		row, err := store.GetTeamSeason(ctx, teamID, "season-1")
		require.NoError(t, err)
		assert.Equal(t, 0, row.Wins, teamID)
		assert.Equal(t, 1, row.Losses, teamID)
	}
}

func TestRecordCompletedGameMissingStandingsRowSkips(t *testing.T) {
	ctx := context.Background()
	store, u := newUpdater(t)

	g := completedGame(110, 98)
	g.SeasonID = "other-season"
	require.NoError(t, u.RecordCompletedGame(ctx, g))

	// Original season rows stay untouched.
	row, err := store.GetTeamSeason(ctx, "team-0", "season-1")
	require.NoError(t, err)
	assert.Equal(t, 0, row.GamesPlayed)
}
