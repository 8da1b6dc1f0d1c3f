package playback

import (
	"errors"
	"testing"
	"testing/synctest"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/airwaves/internal/catalog"
	"github.com/llehouerou/airwaves/internal/player"
)

func TestSubscription_DeliversEachKind(t *testing.T) {
	sub := newSubscription()
	st := &catalog.Station{ID: "st-1", Name: "Jazz FM"}

	sub.sendState(StateChange{Previous: PhaseIdle, Current: PhaseLoading})
	sub.sendStation(StationChange{Current: st})
	sub.sendVolume(VolumeChange{Volume: 0.4})
	sub.sendSleep(SleepTick{Remaining: 30 * time.Second})
	sub.sendError(ErrorEvent{Station: *st, Kind: FailureSourceStalled, Err: errors.New("gone")})

	assert.Equal(t, PhaseLoading, (<-sub.StateChanged).Current)
	sc := <-sub.StationChanged
	assert.Nil(t, sc.Previous)
	require.NotNil(t, sc.Current)
	assert.Equal(t, "st-1", sc.Current.ID)
	assert.InDelta(t, 0.4, (<-sub.VolumeChanged).Volume, 1e-9)
	assert.Equal(t, 30*time.Second, (<-sub.SleepTicked).Remaining)
	ev := <-sub.Error
	assert.Equal(t, FailureSourceStalled, ev.Kind)
	assert.Equal(t, "st-1", ev.Station.ID)
}

func TestSubscription_CloseSignalsDone(t *testing.T) {
	synctest.Test(t, func(_ *testing.T) {
		sub := newSubscription()
		sub.close()
		<-sub.Done
	})
}

func TestSession_FansOutToEverySubscriber(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		cfg := DefaultConfig(player.NewMock())
		cfg.Clock = clockwork.NewFakeClock()
		s := New(cfg)
		first, second := s.Subscribe(), s.Subscribe()

		require.NoError(t, s.UpdateVolume(0.3))
		assert.InDelta(t, 0.3, (<-first.VolumeChanged).Volume, 1e-9)
		assert.InDelta(t, 0.3, (<-second.VolumeChanged).Volume, 1e-9)

		require.NoError(t, s.Close())
		<-first.Done
		<-second.Done
	})
}

func TestSubscription_DropsWhenFull(t *testing.T) {
	sub := newSubscription()
	for i := range eventBufferSize + 5 {
		sub.sendVolume(VolumeChange{Volume: float64(i)})
	}

	var got []float64
	for len(sub.VolumeChanged) > 0 {
		got = append(got, (<-sub.VolumeChanged).Volume)
	}
	require.Len(t, got, eventBufferSize)
	assert.Equal(t, 0.0, got[0], "oldest events are kept")
	assert.Equal(t, float64(eventBufferSize-1), got[eventBufferSize-1])
}
