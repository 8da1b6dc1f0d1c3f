package playback

import (
	"time"

	"github.com/llehouerou/airwaves/internal/catalog"
)

// StateChange is emitted when the playback phase changes.
type StateChange struct {
	Previous Phase
	Current  Phase
}

// StationChange is emitted when the current station changes.
//
// Emitted by:
//   - PlayStation with a station other than the current one
//   - Stop, when a station was current (Current is nil)
//
// NOT emitted by the pause toggle of PlayStation on the current station.
type StationChange struct {
	Previous *catalog.Station
	Current  *catalog.Station
}

// ErrorEvent is emitted once per failed attempt.
type ErrorEvent struct {
	Station catalog.Station
	Kind    FailureKind
	Message string
	Err     error
}

// VolumeChange is emitted when the volume changes.
type VolumeChange struct {
	Volume float64
}

// SleepTick is emitted every second while the sleep timer runs. Remaining
// is zero on the final tick, when playback gets paused.
type SleepTick struct {
	Remaining time.Duration
}
