// internal/playback/state_test.go
package playback

import "testing"

func TestPhase_String(t *testing.T) {
	tests := []struct {
		phase Phase
		want  string
	}{
		{PhaseIdle, "Idle"},
		{PhaseLoading, "Loading"},
		{PhasePlaying, "Playing"},
		{PhasePaused, "Paused"},
		{PhaseStalled, "Stalled"},
		{PhaseErrored, "Errored"},
		{Phase(99), "Unknown"},
	}
	for _, tt := range tests {
		if got := tt.phase.String(); got != tt.want {
			t.Errorf("%d.String() = %q, want %q", tt.phase, got, tt.want)
		}
	}
}

func TestPhase_Flags(t *testing.T) {
	tests := []struct {
		phase   Phase
		playing bool
		loading bool
		active  bool
	}{
		{PhaseIdle, false, false, false},
		{PhaseLoading, false, true, true},
		{PhasePlaying, true, false, true},
		{PhasePaused, false, false, false},
		{PhaseStalled, true, true, true},
		{PhaseErrored, false, false, false},
	}
	for _, tt := range tests {
		if got := tt.phase.IsPlaying(); got != tt.playing {
			t.Errorf("%v.IsPlaying() = %v, want %v", tt.phase, got, tt.playing)
		}
		if got := tt.phase.IsLoading(); got != tt.loading {
			t.Errorf("%v.IsLoading() = %v, want %v", tt.phase, got, tt.loading)
		}
		if got := tt.phase.IsActive(); got != tt.active {
			t.Errorf("%v.IsActive() = %v, want %v", tt.phase, got, tt.active)
		}
	}
}
