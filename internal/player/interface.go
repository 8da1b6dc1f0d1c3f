// internal/player/interface.go
package player

import (
	"context"

	"github.com/llehouerou/airwaves/internal/stream"
)

// Source is the stream a decoder is attached to.
type Source struct {
	URL  string
	Kind stream.Kind
}

// Backend attaches decoders to stream sources.
//
// emit may be called from any goroutine until the returned Decoder is closed.
type Backend interface {
	Attach(src Source, emit func(Event)) (Decoder, error)
}

// Decoder is one attached audio source.
type Decoder interface {
	// Play requests playback. It may fail, which callers treat as a rejection.
	Play(ctx context.Context) error
	Pause()
	SetVolume(level float64)
	// Recover reloads the source in place after a recoverable error.
	Recover(ctx context.Context) error
	Close() error
}

// Verify implementations at compile time.
var (
	_ Backend = (*StreamBackend)(nil)
	_ Decoder = (*streamDecoder)(nil)
	_ Backend = (*Mock)(nil)
	_ Decoder = (*MockDecoder)(nil)
)
