package sim

import "errors"

var (
	// ErrMissingActiveRoster is returned when a team has no players to put
	// on the floor, which makes the possession model undefined.
	ErrMissingActiveRoster = errors.New("no active roster")

	// ErrGameNotScheduled is returned when a simulation is requested for a
	// game that already started, finished, or was called off.
	ErrGameNotScheduled = errors.New("game is not in scheduled status")
)
