package errmsg

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/llehouerou/airwaves/internal/catalog"
	"github.com/llehouerou/airwaves/internal/playback"
	"github.com/llehouerou/airwaves/internal/state"
)

func TestFormat(t *testing.T) {
	assert.Empty(t, Format(OpStationsLoad, nil))
	assert.Equal(t, "Failed to load stations: connection refused",
		Format(OpStationsLoad, errors.New("connection refused")))
	assert.Equal(t, "Failed to search stations: station directory unavailable",
		Format(OpStationSearch, fmt.Errorf("search: %w: status 502", catalog.ErrUpstream)))
	assert.Equal(t, "Failed to toggle playback: Station not responding",
		Format(OpPlaybackToggle, &playback.Failure{Kind: playback.FailureSourceUnresponsive}))
}

func TestFormatWith(t *testing.T) {
	assert.Empty(t, FormatWith(OpRegionLoad, "Europe", nil))
	assert.Equal(t, "Failed to load genre 'jazz': timeout",
		FormatWith(OpGenreLoad, "jazz", errors.New("timeout")))
	assert.Equal(t, "Failed to load genre: timeout",
		FormatWith(OpGenreLoad, "", errors.New("timeout")))
	assert.Equal(t, "Failed to start playback 'FIP': Station has no stream address",
		FormatWith(OpPlaybackStart, "FIP", &playback.Failure{Kind: playback.FailurePlaybackRejected, Err: playback.ErrNoStream}))
}

func TestDescribe(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{fmt.Errorf("region: %w", catalog.ErrInvalidRegion), "unknown region"},
		{fmt.Errorf("add: %w", state.ErrAlreadyFavorite), "already in favorites"},
		{state.ErrFavoriteNotFound, "not in favorites"},
		{fmt.Errorf("play: %w", playback.ErrClosed), "player is shutting down"},
		{errors.New("disk full"), "disk full"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Describe(tt.err), "%v", tt.err)
	}
}
