//go:build linux

package mpris

import (
	"github.com/quarckster/go-mpris-server/pkg/events"
	"github.com/quarckster/go-mpris-server/pkg/server"
	"github.com/quarckster/go-mpris-server/pkg/types"
	"github.com/rs/zerolog"

	"github.com/llehouerou/airwaves/internal/playback"
)

// Adapter exposes the playback session over MPRIS2 on the session bus.
type Adapter struct {
	server *server.Server
	stop   chan struct{}
}

// New registers the player on the session bus and starts relaying
// session events as property changes.
func New(service playback.Service, log zerolog.Logger) (*Adapter, error) {
	a := &Adapter{
		server: server.NewServer("airwaves", rootAdapter{}, &playerAdapter{service: service}),
		stop:   make(chan struct{}),
	}

	go func() {
		if err := a.server.Listen(); err != nil {
			log.Warn().Err(err).Str("component", "mpris").Msg("mpris server stopped")
		}
	}()
	if sub := service.Subscribe(); sub != nil {
		go forward(feedOf(sub), events.NewEventHandler(a.server).Player, a.stop, log)
	}
	return a, nil
}

// Close stops relaying and releases the bus name.
func (a *Adapter) Close() error {
	close(a.stop)
	return a.server.Stop()
}

// rootAdapter implements OrgMprisMediaPlayer2Adapter. The terminal owns
// the window and the process lifecycle.
type rootAdapter struct{}

func (rootAdapter) Raise() error                { return nil }
func (rootAdapter) Quit() error                 { return nil }
func (rootAdapter) CanQuit() (bool, error)      { return false, nil }
func (rootAdapter) CanRaise() (bool, error)     { return false, nil }
func (rootAdapter) HasTrackList() (bool, error) { return false, nil }
func (rootAdapter) Identity() (string, error)   { return identity, nil }
func (rootAdapter) SupportedMimeTypes() ([]string, error) {
	return supportedMimeTypes, nil
}

//nolint:revive // Method name required by interface.
func (rootAdapter) SupportedUriSchemes() ([]string, error) {
	return []string{"http", "https"}, nil
}

// playerAdapter implements OrgMprisMediaPlayer2PlayerAdapter on top of
// the playback session. A live stream has no queue, no position and a
// fixed rate, so those members are inert.
type playerAdapter struct {
	service playback.Service
}

func (p *playerAdapter) Pause() error     { return p.service.Pause() }
func (p *playerAdapter) PlayPause() error { return p.service.TogglePlay() }
func (p *playerAdapter) Stop() error      { return p.service.Stop() }

// Play resumes a paused or stopped station and leaves an active one alone.
func (p *playerAdapter) Play() error {
	if p.service.Phase().IsActive() {
		return nil
	}
	return p.service.TogglePlay()
}

func (p *playerAdapter) PlaybackStatus() (types.PlaybackStatus, error) {
	return playbackStatus(p.service.Phase()), nil
}

func (p *playerAdapter) Metadata() (types.Metadata, error) {
	if st := p.service.CurrentStation(); st != nil {
		return stationMetadata(*st), nil
	}
	return types.Metadata{}, nil
}

func (p *playerAdapter) Volume() (float64, error)  { return p.service.Volume(), nil }
func (p *playerAdapter) SetVolume(v float64) error { return p.service.UpdateVolume(v) }
func (p *playerAdapter) CanPlay() (bool, error) {
	return p.service.CurrentStation() != nil, nil
}

func (*playerAdapter) Next() error                                  { return nil }
func (*playerAdapter) Previous() error                              { return nil }
func (*playerAdapter) Seek(types.Microseconds) error                { return nil }
func (*playerAdapter) SetPosition(string, types.Microseconds) error { return nil }
func (*playerAdapter) SetRate(float64) error                        { return nil }
func (*playerAdapter) Position() (int64, error)                     { return 0, nil }
func (*playerAdapter) Rate() (float64, error)                       { return 1, nil }
func (*playerAdapter) MinimumRate() (float64, error)                { return 1, nil }
func (*playerAdapter) MaximumRate() (float64, error)                { return 1, nil }
func (*playerAdapter) CanGoNext() (bool, error)                     { return false, nil }
func (*playerAdapter) CanGoPrevious() (bool, error)                 { return false, nil }
func (*playerAdapter) CanPause() (bool, error)                      { return true, nil }
func (*playerAdapter) CanSeek() (bool, error)                       { return false, nil }
func (*playerAdapter) CanControl() (bool, error)                    { return true, nil }

//nolint:revive // Method name required by interface.
func (*playerAdapter) OpenUri(string) error { return nil }
