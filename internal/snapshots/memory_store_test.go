package snapshots

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func activeState() State {
	s := DefaultState()
	s.IsActive = true
	s.ActiveGames = []string{"g1"}
	s.GameProgress["g1"] = GameProgress{CurrentMinute: 3, TotalMinutes: 48}
	return s
}

func TestMemoryStorePutGet(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	_, ok, err := store.Get(ctx, StateKey)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Put(ctx, StateKey, activeState(), time.Minute))

	got, ok, err := store.Get(ctx, StateKey)
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, got.IsActive)
	assert.Equal(t, 3, got.GameProgress["g1"].CurrentMinute)
}

func TestMemoryStoreExpiry(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	now := time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)
	store.SetNow(func() time.Time { return now })

	require.NoError(t, store.Put(ctx, StateKey, activeState(), time.Minute))

	now = now.Add(30 * time.Second)
	_, ok, err := store.Get(ctx, StateKey)
	require.NoError(t, err)
	assert.True(t, ok)

	now = now.Add(31 * time.Second)
	_, ok, err = store.Get(ctx, StateKey)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryStoreDelete(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.Put(ctx, StateKey, activeState(), time.Minute))
	require.NoError(t, store.Delete(ctx, StateKey))

	_, ok, err := store.Get(ctx, StateKey)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryStoreIsolatesCopies(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	original := activeState()
	require.NoError(t, store.Put(ctx, StateKey, original, time.Minute))

	// Mutating what we stored or what we read must not leak through.
	original.GameProgress["g1"] = GameProgress{CurrentMinute: 99}
	got, _, err := store.Get(ctx, StateKey)
	require.NoError(t, err)
	assert.Equal(t, 3, got.GameProgress["g1"].CurrentMinute)

	got.GameProgress["g1"] = GameProgress{CurrentMinute: 77}
	again, _, err := store.Get(ctx, StateKey)
	require.NoError(t, err)
	assert.Equal(t, 3, again.GameProgress["g1"].CurrentMinute)
}

func TestCloneIsDeep(t *testing.T) {
	s := activeState()
	c := s.Clone()
	c.GameProgress["g1"] = GameProgress{CurrentMinute: 99}
	c.ActiveGames[0] = "other"

	assert.Equal(t, 3, s.GameProgress["g1"].CurrentMinute)
	assert.Equal(t, "g1", s.ActiveGames[0])
}
