package mpris

import (
	"github.com/quarckster/go-mpris-server/pkg/types"
	"github.com/rs/zerolog"

	"github.com/llehouerou/airwaves/internal/playback"
)

// emitter announces MPRIS property changes to the bus.
type emitter interface {
	OnPlayPause() error
	OnTitle() error
	OnVolume() error
}

// feed is the part of a playback subscription MPRIS cares about.
type feed struct {
	state   <-chan playback.StateChange
	station <-chan playback.StationChange
	volume  <-chan playback.VolumeChange
	done    <-chan struct{}
}

func feedOf(sub *playback.Subscription) feed {
	return feed{sub.StateChanged, sub.StationChanged, sub.VolumeChanged, sub.Done}
}

// forward relays session events as MPRIS property changes until stop or
// the subscription closes. Phase changes that keep the MPRIS status, such
// as Loading to Playing, are not announced.
func forward(f feed, e emitter, stop <-chan struct{}, log zerolog.Logger) {
	status := types.PlaybackStatusStopped
	for {
		var err error
		select {
		case <-stop:
			return
		case <-f.done:
			return
		case c := <-f.state:
			next := playbackStatus(c.Current)
			if next == status {
				continue
			}
			status = next
			err = e.OnPlayPause()
		case <-f.station:
			err = e.OnTitle()
		case <-f.volume:
			err = e.OnVolume()
		}
		if err != nil {
			log.Debug().Err(err).Str("component", "mpris").Msg("property change not sent")
		}
	}
}
