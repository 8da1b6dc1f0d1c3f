// Package mpris exposes the playback session as an MPRIS2 media player so
// desktop media keys and widgets can control it.
package mpris

import (
	"fmt"
	"hash/fnv"
	"strings"

	"github.com/godbus/dbus/v5"
	"github.com/quarckster/go-mpris-server/pkg/types"

	"github.com/llehouerou/airwaves/internal/catalog"
	"github.com/llehouerou/airwaves/internal/playback"
)

const identity = "Airwaves"

var supportedMimeTypes = []string{
	"audio/mpeg", "audio/aac", "audio/aacp", "audio/ogg", "audio/flac",
	"application/ogg", "application/vnd.apple.mpegurl", "audio/x-mpegurl", "audio/x-scpls",
}

// playbackStatus maps a session phase to an MPRIS status. A station that
// is still connecting reports Playing, matching what the user asked for.
func playbackStatus(p playback.Phase) types.PlaybackStatus {
	switch p {
	case playback.PhaseLoading, playback.PhasePlaying, playback.PhaseStalled:
		return types.PlaybackStatusPlaying
	case playback.PhasePaused:
		return types.PlaybackStatusPaused
	default:
		return types.PlaybackStatusStopped
	}
}

// stationMetadata describes a station as an MPRIS track: the station name
// as title, its tags as artists and its country as album.
func stationMetadata(st catalog.Station) types.Metadata {
	meta := types.Metadata{
		TrackId: dbus.ObjectPath(formatTrackID(st.ID)),
		Title:   strings.TrimSpace(st.Name),
		Artist:  st.TagList(),
		Album:   st.Country,
	}
	if strings.HasPrefix(st.Favicon, "http://") || strings.HasPrefix(st.Favicon, "https://") {
		meta.ArtUrl = st.Favicon
	}
	return meta
}

func formatTrackID(stationID string) string {
	h := fnv.New64a()
	h.Write([]byte(stationID))
	return fmt.Sprintf("/org/mpris/MediaPlayer2/Station/%x", h.Sum64())
}
