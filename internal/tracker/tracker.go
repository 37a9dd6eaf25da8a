// Package tracker runs real-time game progression: it advances every active
// game by one simulated minute per tick and keeps the cross-tick state in a
// durable snapshot so an external scheduler can drive it.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/courtwire/nba-sim-service/internal/domain/games"
	"github.com/courtwire/nba-sim-service/internal/logging"
	"github.com/courtwire/nba-sim-service/internal/metrics"
	"github.com/courtwire/nba-sim-service/internal/repository"
	"github.com/courtwire/nba-sim-service/internal/sim"
	"github.com/courtwire/nba-sim-service/internal/snapshots"
	"github.com/courtwire/nba-sim-service/internal/standings"
)

// ErrNoValidGames is returned by StartSimulation when none of the requested
// games are in scheduled status.
var ErrNoValidGames = errors.New("no valid games to simulate")

// GameUpdate is one game's outcome for a single tick.
type GameUpdate struct {
	Minute int `json:"minute"`
	sim.MinuteUpdate
}

// UpdateResult summarizes one tick across all games.
type UpdateResult struct {
	ActiveGames    []string              `json:"active_games"`
	CompletedGames []string              `json:"completed_games"`
	Updates        map[string]GameUpdate `json:"updates"`
}

// Tracker owns the progression snapshot. All mutations go through its mutex,
// so concurrent ticks and control calls serialize instead of racing on the
// read-modify-write cycle. Sessions live in process memory and are rebuilt
// from persisted rows when missing.
type Tracker struct {
	store     repository.Store
	engine    *sim.Engine
	snaps     snapshots.Store
	standings *standings.Updater
	logger    *slog.Logger
	metrics   *metrics.Recorder
	ttl       time.Duration

	mu       sync.Mutex
	sessions map[string]*sim.Session
}

func New(store repository.Store, engine *sim.Engine, snaps snapshots.Store, updater *standings.Updater, logger *slog.Logger, recorder *metrics.Recorder) *Tracker {
	return &Tracker{
		store:     store,
		engine:    engine,
		snaps:     snaps,
		standings: updater,
		logger:    logger,
		metrics:   recorder,
		ttl:       snapshots.DefaultTTL,
		sessions:  map[string]*sim.Session{},
	}
}

// StartSimulation initializes every scheduled game in the id list and
// activates the progression snapshot. Games already started or finished are
// filtered out; if nothing survives the filter it returns ErrNoValidGames.
func (t *Tracker) StartSimulation(ctx context.Context, gameIDs []string) (snapshots.State, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	candidates, err := t.store.ListGames(ctx, repository.GameFilter{
		IDs:    gameIDs,
		Status: games.StatusScheduled,
	})
	if err != nil {
		return snapshots.State{}, fmt.Errorf("list games: %w", err)
	}
	if len(candidates) == 0 {
		return snapshots.State{}, ErrNoValidGames
	}

	state := snapshots.DefaultState()
	state.IsActive = true

	for _, g := range candidates {
		sess, err := t.engine.InitializeGame(ctx, g, metrics.ModeRealTime)
		if err != nil {
			return snapshots.State{}, err
		}
		t.sessions[g.ID] = sess

		state.ActiveGames = append(state.ActiveGames, g.ID)
		state.GameProgress[g.ID] = snapshots.GameProgress{
			TotalMinutes: games.RegulationMinutes,
			HomeScore:    sess.Game.HomeScore,
			AwayScore:    sess.Game.AwayScore,
		}
	}

	if err := t.putState(ctx, state); err != nil {
		return snapshots.State{}, err
	}

	logging.Info(t.logger, "simulation started", logging.FieldCount, len(state.ActiveGames))
	return state, nil
}

// ProcessUpdate advances every active game by one minute. Games reaching the
// 48-minute cap are finalized and moved to the completed list; the snapshot
// stays active even when everything completes so the progression remains
// readable until StopSimulation.
func (t *Tracker) ProcessUpdate(ctx context.Context) (UpdateResult, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	state, err := t.loadState(ctx)
	if err != nil {
		return UpdateResult{}, err
	}

	result := UpdateResult{
		ActiveGames:    []string{},
		CompletedGames: append([]string{}, state.CompletedGames...),
		Updates:        map[string]GameUpdate{},
	}
	if !state.IsActive || len(state.ActiveGames) == 0 {
		return result, nil
	}

	remaining := make([]string, 0, len(state.ActiveGames))
	for _, gameID := range state.ActiveGames {
		g, err := t.store.GetGame(ctx, gameID)
		if err != nil || g.Status != games.StatusInProgress {
			if err != nil && !errors.Is(err, repository.ErrNotFound) {
				return result, fmt.Errorf("load game %s: %w", gameID, err)
			}
			logging.Warn(t.logger, "skipping game not in progress", logging.FieldGameID, gameID)
			remaining = append(remaining, gameID)
			continue
		}

		sess, err := t.session(ctx, g)
		if err != nil {
			return result, err
		}

		progress := state.GameProgress[gameID]
		currentMinute := progress.CurrentMinute

		update, err := t.engine.SimulateMinute(ctx, sess)
		if err != nil {
			return result, fmt.Errorf("simulate minute for game %s: %w", gameID, err)
		}

		minute := currentMinute + 1
		result.Updates[gameID] = GameUpdate{Minute: minute, MinuteUpdate: update}

		progress.CurrentMinute = minute
		progress.HomeScore = sess.Game.HomeScore
		progress.AwayScore = sess.Game.AwayScore
		state.GameProgress[gameID] = progress

		if currentMinute >= progress.TotalMinutes-1 {
			if err := t.completeGame(ctx, sess); err != nil {
				return result, err
			}
			state.CompletedGames = append(state.CompletedGames, gameID)
			result.CompletedGames = append(result.CompletedGames, gameID)
			delete(t.sessions, gameID)
			continue
		}
		remaining = append(remaining, gameID)
	}

	state.ActiveGames = remaining
	if err := t.putState(ctx, state); err != nil {
		return result, err
	}

	result.ActiveGames = append([]string{}, state.ActiveGames...)
	return result, nil
}

// StopSimulation force-finalizes any games still in progress and deactivates
// the snapshot. Stopping an inactive simulation is a no-op.
func (t *Tracker) StopSimulation(ctx context.Context) (snapshots.State, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	state, err := t.loadState(ctx)
	if err != nil {
		return snapshots.State{}, err
	}
	if !state.IsActive {
		return state, nil
	}

	for _, gameID := range state.ActiveGames {
		g, err := t.store.GetGame(ctx, gameID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				continue
			}
			return state, fmt.Errorf("load game %s: %w", gameID, err)
		}
		if g.Status != games.StatusInProgress {
			continue
		}

		sess, err := t.session(ctx, g)
		if err != nil {
			return state, err
		}
		if err := t.completeGame(ctx, sess); err != nil {
			return state, err
		}
		state.CompletedGames = append(state.CompletedGames, gameID)
		delete(t.sessions, gameID)
	}

	state.IsActive = false
	state.ActiveGames = []string{}
	if err := t.putState(ctx, state); err != nil {
		return state, err
	}

	logging.Info(t.logger, "simulation stopped", logging.FieldCount, len(state.CompletedGames))
	return state, nil
}

// State returns the current progression snapshot, or the inactive default
// when nothing is stored.
func (t *Tracker) State(ctx context.Context) (snapshots.State, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.loadState(ctx)
}

func (t *Tracker) loadState(ctx context.Context) (snapshots.State, error) {
	state, ok, err := t.snaps.Get(ctx, snapshots.StateKey)
	if err != nil {
		t.metrics.RecordSnapshotError()
		return snapshots.State{}, fmt.Errorf("load snapshot: %w", err)
	}
	if !ok {
		return snapshots.DefaultState(), nil
	}
	return state, nil
}

func (t *Tracker) putState(ctx context.Context, state snapshots.State) error {
	if err := t.snaps.Put(ctx, snapshots.StateKey, state, t.ttl); err != nil {
		t.metrics.RecordSnapshotError()
		logging.Error(t.logger, "snapshot write failed", err)
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

// session returns the in-memory session for a game, rebuilding it from
// persisted rows after a process restart. The stored game row is
// authoritative for clock and score fields.
func (t *Tracker) session(ctx context.Context, g games.Game) (*sim.Session, error) {
	if sess, ok := t.sessions[g.ID]; ok {
		sess.Game = g
		return sess, nil
	}
	sess, err := t.engine.ResumeSession(ctx, g, metrics.ModeRealTime)
	if err != nil {
		return nil, err
	}
	t.sessions[g.ID] = sess
	return sess, nil
}

func (t *Tracker) completeGame(ctx context.Context, sess *sim.Session) error {
	if err := t.engine.EndGame(ctx, sess); err != nil {
		return err
	}
	return t.standings.RecordCompletedGame(ctx, sess.Game)
}
