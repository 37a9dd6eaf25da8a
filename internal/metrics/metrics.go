package metrics

import (
	"sync"
	"time"
)

type simStats struct {
	possessions    int
	minutes        int
	gamesStarted   int
	gamesCompleted int
	tickCycles     int
	tickErrors     int
	snapshotErrors int
	statFlushes    int
	lastTickTime   time.Duration
}

// Recorder captures lightweight, in-memory metrics about simulation activity.
// It is intentionally simple so it can be read synchronously in tests; the
// optional otel instruments export the same signals.
type Recorder struct {
	mu    sync.Mutex
	stats simStats
	otel  *otelInstruments
}

func NewRecorder() *Recorder {
	return newRecorder(nil)
}

func newRecorder(otel *otelInstruments) *Recorder {
	return &Recorder{otel: otel}
}

// RecordPossession counts one simulated possession in the given mode.
func (r *Recorder) RecordPossession(mode string) {
	if r == nil {
		return
	}
	r.mu.Lock()
	r.stats.possessions++
	r.mu.Unlock()
	if r.otel != nil {
		r.otel.recordPossession(mode)
	}
}

// RecordSimMinute counts one simulated game-minute.
func (r *Recorder) RecordSimMinute() {
	if r == nil {
		return
	}
	r.mu.Lock()
	r.stats.minutes++
	r.mu.Unlock()
	if r.otel != nil {
		r.otel.recordSimMinute()
	}
}

// RecordGameStarted counts a game entering in_progress.
func (r *Recorder) RecordGameStarted(mode string) {
	if r == nil {
		return
	}
	r.mu.Lock()
	r.stats.gamesStarted++
	r.mu.Unlock()
	if r.otel != nil {
		r.otel.recordGameStarted(mode)
	}
}

// RecordGameCompleted counts a finalized game.
func (r *Recorder) RecordGameCompleted(mode string) {
	if r == nil {
		return
	}
	r.mu.Lock()
	r.stats.gamesCompleted++
	r.mu.Unlock()
	if r.otel != nil {
		r.otel.recordGameCompleted(mode)
	}
}

// RecordTickCycle tracks one tracker tick with its duration and outcome.
func (r *Recorder) RecordTickCycle(duration time.Duration, err error) {
	if r == nil {
		return
	}
	r.mu.Lock()
	r.stats.tickCycles++
	r.stats.lastTickTime = duration
	if err != nil {
		r.stats.tickErrors++
	}
	r.mu.Unlock()
	if r.otel != nil {
		r.otel.recordTickCycle(duration, err)
	}
}

// RecordSnapshotError counts a failed progression snapshot write.
func (r *Recorder) RecordSnapshotError() {
	if r == nil {
		return
	}
	r.mu.Lock()
	r.stats.snapshotErrors++
	r.mu.Unlock()
	if r.otel != nil {
		r.otel.recordSnapshotError()
	}
}

// RecordStatFlush counts a stats write-behind flush.
func (r *Recorder) RecordStatFlush() {
	if r == nil {
		return
	}
	r.mu.Lock()
	r.stats.statFlushes++
	r.mu.Unlock()
}

// Snapshot of the recorder's counters, for tests and debug endpoints.
type Snapshot struct {
	Possessions    int
	Minutes        int
	GamesStarted   int
	GamesCompleted int
	TickCycles     int
	TickErrors     int
	SnapshotErrors int
	StatFlushes    int
	LastTickTime   time.Duration
}

// Stats returns a copy of the current counters.
func (r *Recorder) Stats() Snapshot {
	if r == nil {
		return Snapshot{}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return Snapshot{
		Possessions:    r.stats.possessions,
		Minutes:        r.stats.minutes,
		GamesStarted:   r.stats.gamesStarted,
		GamesCompleted: r.stats.gamesCompleted,
		TickCycles:     r.stats.tickCycles,
		TickErrors:     r.stats.tickErrors,
		SnapshotErrors: r.stats.snapshotErrors,
		StatFlushes:    r.stats.statFlushes,
		LastTickTime:   r.stats.lastTickTime,
	}
}

// RecordHTTPRequest forwards request telemetry to the otel instruments.
func (r *Recorder) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	if r == nil || r.otel == nil {
		return
	}
	r.otel.recordHTTPRequest(method, path, status, duration)
}
