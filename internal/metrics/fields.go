package metrics

// Common metric attribute keys to keep telemetry consistent/searchable.
const (
	AttrMethod = "method"
	AttrPath   = "path"
	AttrStatus = "status"
	AttrMode   = "mode"
	AttrResult = "result"
)

// Simulation modes used as the AttrMode attribute value.
const (
	ModeFullGame = "full_game"
	ModeRealTime = "real_time"
)
