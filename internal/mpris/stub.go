//go:build !linux

package mpris

import (
	"github.com/rs/zerolog"

	"github.com/llehouerou/airwaves/internal/playback"
)

// Adapter does nothing outside Linux, where there is no MPRIS bus.
type Adapter struct{}

func New(playback.Service, zerolog.Logger) (*Adapter, error) { return &Adapter{}, nil }

func (*Adapter) Close() error { return nil }
