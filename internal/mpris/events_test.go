package mpris

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/airwaves/internal/playback"
)

type recorder struct {
	mu    sync.Mutex
	calls []string
}

func (r *recorder) add(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, name)
	if name == "volume" {
		return errors.New("bus gone")
	}
	return nil
}

func (r *recorder) OnPlayPause() error { return r.add("status") }
func (r *recorder) OnTitle() error     { return r.add("title") }
func (r *recorder) OnVolume() error    { return r.add("volume") }

func (r *recorder) snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}

func TestForward(t *testing.T) {
	state := make(chan playback.StateChange)
	station := make(chan playback.StationChange)
	volume := make(chan playback.VolumeChange)
	done := make(chan struct{})
	stop := make(chan struct{})
	rec := &recorder{}

	finished := make(chan struct{})
	go func() {
		forward(feed{state, station, volume, done}, rec, stop, zerolog.Nop())
		close(finished)
	}()

	station <- playback.StationChange{}
	state <- playback.StateChange{Previous: playback.PhaseIdle, Current: playback.PhaseLoading}
	state <- playback.StateChange{Previous: playback.PhaseLoading, Current: playback.PhasePlaying}
	state <- playback.StateChange{Previous: playback.PhasePlaying, Current: playback.PhasePaused}
	volume <- playback.VolumeChange{}
	close(done)

	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatal("forward did not return after the subscription closed")
	}
	require.Equal(t, []string{"title", "status", "status", "volume"}, rec.snapshot())
}

func TestForward_Stop(t *testing.T) {
	stop := make(chan struct{})
	finished := make(chan struct{})
	go func() {
		forward(feed{done: make(chan struct{})}, &recorder{}, stop, zerolog.Nop())
		close(finished)
	}()
	close(stop)
	assert.Eventually(t, func() bool {
		select {
		case <-finished:
			return true
		default:
			return false
		}
	}, time.Second, 5*time.Millisecond)
}
