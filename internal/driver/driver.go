// Package driver runs the real-time tick loop: one tracker update per
// interval, approximating one game-minute per wall-clock interval.
package driver

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/courtwire/nba-sim-service/internal/logging"
	"github.com/courtwire/nba-sim-service/internal/metrics"
	"github.com/courtwire/nba-sim-service/internal/tracker"
)

const defaultInterval = time.Minute

// Driver ticks the tracker on an interval until stopped.
type Driver struct {
	tracker  *tracker.Tracker
	logger   *slog.Logger
	metrics  *metrics.Recorder
	interval time.Duration

	ticker   *time.Ticker
	done     chan struct{}
	stopOnce sync.Once
	startMu  sync.Mutex
	started  bool

	statusMu sync.RWMutex
	status   Status
}

// Status describes the recent health of the tick loop.
type Status struct {
	ConsecutiveFailures int
	LastError           string
	LastAttempt         time.Time
	LastSuccess         time.Time
}

// IsReady reports whether the loop is not failing repeatedly. An idle loop
// that has not ticked yet is still ready; ticks with no active simulation
// are successful no-ops.
func (s Status) IsReady() bool {
	return s.ConsecutiveFailures < 3
}

// New constructs a Driver with sane defaults.
func New(t *tracker.Tracker, logger *slog.Logger, recorder *metrics.Recorder, interval time.Duration) *Driver {
	if interval <= 0 {
		interval = defaultInterval
	}
	return &Driver{
		tracker:  t,
		logger:   logger,
		metrics:  recorder,
		interval: interval,
		done:     make(chan struct{}),
	}
}

// Start begins ticking until the context is cancelled or Stop is called.
// Ticks only fire on the interval; starting the loop does not advance games.
func (d *Driver) Start(ctx context.Context) {
	d.startMu.Lock()
	if d.started {
		d.startMu.Unlock()
		return
	}
	d.started = true
	d.startMu.Unlock()

	d.ticker = time.NewTicker(d.interval)

	go func() {
		logging.Info(d.logger, "tick loop started",
			logging.FieldDurationMS, d.interval.Milliseconds())
		for {
			select {
			case <-ctx.Done():
				d.stopTicker()
				logging.Info(d.logger, "tick loop stopped")
				return
			case <-d.done:
				d.stopTicker()
				logging.Info(d.logger, "tick loop stopped")
				return
			case <-d.ticker.C:
				d.tickOnce(ctx)
			}
		}
	}()
}

// Stop halts the tick loop.
func (d *Driver) Stop(ctx context.Context) error {
	_ = ctx
	d.stopOnce.Do(func() {
		close(d.done)
		d.stopTicker()
	})
	return nil
}

func (d *Driver) tickOnce(ctx context.Context) {
	start := time.Now()
	d.recordAttempt(start)

	result, err := d.tracker.ProcessUpdate(ctx)
	duration := time.Since(start)
	if d.metrics != nil {
		d.metrics.RecordTickCycle(duration, err)
	}
	if err != nil {
		logging.Error(d.logger, "tick failed", err,
			logging.FieldDurationMS, duration.Milliseconds())
		d.recordFailure(err, start)
		return
	}

	d.recordSuccess(start)
	if len(result.Updates) > 0 {
		logging.Info(d.logger, "tick advanced games",
			logging.FieldCount, len(result.Updates),
			logging.FieldDurationMS, duration.Milliseconds())
	}
}

func (d *Driver) stopTicker() {
	if d.ticker != nil {
		d.ticker.Stop()
	}
}

func (d *Driver) recordAttempt(at time.Time) {
	d.statusMu.Lock()
	defer d.statusMu.Unlock()
	d.status.LastAttempt = at
}

func (d *Driver) recordSuccess(at time.Time) {
	d.statusMu.Lock()
	defer d.statusMu.Unlock()
	d.status.ConsecutiveFailures = 0
	d.status.LastError = ""
	d.status.LastSuccess = at
}

func (d *Driver) recordFailure(err error, at time.Time) {
	d.statusMu.Lock()
	defer d.statusMu.Unlock()
	d.status.ConsecutiveFailures++
	if err != nil {
		d.status.LastError = err.Error()
	}
	d.status.LastAttempt = at
}

// Status returns a snapshot of the loop's recent health.
func (d *Driver) Status() Status {
	d.statusMu.RLock()
	defer d.statusMu.RUnlock()
	return d.status
}
