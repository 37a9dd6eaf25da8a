// Package snapshots persists the cross-tick simulation progression state in a
// durable key-value store so ticks can be driven by an external scheduler.
package snapshots

import (
	"context"
	"time"
)

// StateKey is the well-known key the tracker stores its progression under.
const StateKey = "simulation_state"

// DefaultTTL is advisory: the state is rewritten every tick, so expiry
// mid-simulation indicates a stalled tracker rather than normal churn.
const DefaultTTL = time.Hour

// GameProgress tracks one game's advancement through its 48 minutes.
type GameProgress struct {
	CurrentMinute int `json:"current_minute"`
	TotalMinutes  int `json:"total_minutes"`
	HomeScore     int `json:"home_score"`
	AwayScore     int `json:"away_score"`
}

// State is the durable progression snapshot. It is exclusively owned and
// mutated by the tracker; everyone else reads copies.
type State struct {
	IsActive       bool                    `json:"is_active"`
	ActiveGames    []string                `json:"active_games"`
	CompletedGames []string                `json:"completed_games"`
	GameProgress   map[string]GameProgress `json:"game_progress"`
}

// DefaultState returns the empty, inactive state used when nothing is stored.
func DefaultState() State {
	return State{
		ActiveGames:    []string{},
		CompletedGames: []string{},
		GameProgress:   map[string]GameProgress{},
	}
}

// Clone deep-copies the state so callers can't mutate the tracker's view.
func (s State) Clone() State {
	out := State{
		IsActive:       s.IsActive,
		ActiveGames:    append([]string{}, s.ActiveGames...),
		CompletedGames: append([]string{}, s.CompletedGames...),
		GameProgress:   make(map[string]GameProgress, len(s.GameProgress)),
	}
	for id, p := range s.GameProgress {
		out.GameProgress[id] = p
	}
	return out
}

// Store defines how progression snapshots are loaded and saved.
type Store interface {
	// Get returns the stored state and whether one was present.
	Get(ctx context.Context, key string) (State, bool, error)
	// Put stores the state under key with the given TTL.
	Put(ctx context.Context, key string, state State, ttl time.Duration) error
	// Delete removes the stored state.
	Delete(ctx context.Context, key string) error
}
