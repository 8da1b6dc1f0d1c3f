// internal/playback/state.go
package playback

// Phase is the playback phase of a session.
//
//	Idle --PlayStation--> Loading --data--> Playing --buffering--> Stalled
//	Stalled --data--> Playing
//	Loading --response timeout--> Errored
//	Stalled --stall grace--> Errored
//	Playing/Loading/Stalled --pause--> Paused --resume--> Loading
//	any --Stop--> Idle
//
// Paused keeps the current station. Errored keeps it too, so the caller can
// show which station failed; a fresh PlayStation is needed to retry.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhasePlaying
	PhasePaused
	PhaseStalled
	PhaseErrored
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "Idle"
	case PhaseLoading:
		return "Loading"
	case PhasePlaying:
		return "Playing"
	case PhasePaused:
		return "Paused"
	case PhaseStalled:
		return "Stalled"
	case PhaseErrored:
		return "Errored"
	default:
		return "Unknown"
	}
}

// IsPlaying reports whether audio is, or was just, flowing. A stalled stream
// still counts as playing until its grace period runs out.
func (p Phase) IsPlaying() bool {
	return p == PhasePlaying || p == PhaseStalled
}

// IsLoading reports whether the session waits for data.
func (p Phase) IsLoading() bool {
	return p == PhaseLoading || p == PhaseStalled
}

// IsActive reports whether a decoder is attached and running.
func (p Phase) IsActive() bool {
	return p == PhaseLoading || p == PhasePlaying || p == PhaseStalled
}
