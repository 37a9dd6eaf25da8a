package games

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domaingames "github.com/courtwire/nba-sim-service/internal/domain/games"
	"github.com/courtwire/nba-sim-service/internal/repository"
	"github.com/courtwire/nba-sim-service/internal/repository/memory"
	"github.com/courtwire/nba-sim-service/internal/testutil"
)

func newService(t *testing.T) (*memory.Store, *Service) {
	t.Helper()
	store := memory.NewStore()
	_, err := testutil.SeedLeague(context.Background(), store, 2)
	require.NoError(t, err)
	return store, NewService(store)
}

func TestGameByIDResolvesTeams(t *testing.T) {
	ctx := context.Background()
	store, svc := newService(t)
	_, err := testutil.SeedScheduledGame(ctx, store, "g1")
	require.NoError(t, err)

	detail, err := svc.GameByID(ctx, "g1")
	require.NoError(t, err)
	assert.Equal(t, "g1", detail.Game.ID)
	assert.Equal(t, "team-0", detail.HomeTeam.ID)
	assert.Equal(t, "team-1", detail.AwayTeam.ID)

	_, err = svc.GameByID(ctx, "missing")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestEventsDefaultsLimit(t *testing.T) {
	ctx := context.Background()
	store, svc := newService(t)
	_, err := testutil.SeedScheduledGame(ctx, store, "g1")
	require.NoError(t, err)

	for i := 0; i < DefaultEventLimit+5; i++ {
		_, err := store.AppendEvent(ctx, domaingames.Event{GameID: "g1", Type: domaingames.EventTurnover})
		require.NoError(t, err)
	}

	events, err := svc.Events(ctx, "g1", 0, 0)
	require.NoError(t, err)
	assert.Len(t, events, DefaultEventLimit)

	events, err = svc.Events(ctx, "g1", int64(DefaultEventLimit), 0)
	require.NoError(t, err)
	assert.Len(t, events, 5)
}

func TestEventsUnknownGame(t *testing.T) {
	ctx := context.Background()
	_, svc := newService(t)
	_, err := svc.Events(ctx, "missing", 0, 0)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestStatisticsUnknownGame(t *testing.T) {
	ctx := context.Background()
	_, svc := newService(t)
	_, err := svc.Statistics(ctx, "missing")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
