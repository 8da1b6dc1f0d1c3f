// Package stream classifies radio stream URLs and resolves playlist indirections.
package stream

import "strings"

// Kind is the container or protocol family of a stream URL.
type Kind int

const (
	KindUnknown Kind = iota
	KindHLS
	KindPLS
	KindM3U
	KindASX
	KindOgg
	KindOpus
	KindFLAC
	KindAAC
	KindMP3
)

// String returns the lowercase kind name.
func (k Kind) String() string {
	switch k {
	case KindHLS:
		return "hls"
	case KindPLS:
		return "pls"
	case KindM3U:
		return "m3u"
	case KindASX:
		return "asx"
	case KindOgg:
		return "ogg"
	case KindOpus:
		return "opus"
	case KindFLAC:
		return "flac"
	case KindAAC:
		return "aac"
	case KindMP3:
		return "mp3"
	case KindUnknown:
		return "unknown"
	default:
		return "unknown"
	}
}

// IsPlaylist reports whether the URL points at a playlist that must be
// resolved to a concrete stream before decoding.
func (k Kind) IsPlaylist() bool {
	return k == KindPLS || k == KindM3U || k == KindASX
}

// IsAdaptive reports whether the kind goes through the segmented (HLS) path.
func (k Kind) IsAdaptive() bool {
	return k == KindHLS
}

// Classify returns the stream kind for a URL by suffix and substring matching.
//
// Rules are checked in a fixed order and the first match wins, so
// "stream.m3u8" is HLS and never M3U, and "/aac-mp3-relay" is AAC.
// Matching is case-insensitive. A suffix matches the whole URL or the URL
// without its query or fragment. Classify does no I/O.
func Classify(rawURL string) Kind {
	u := strings.ToLower(rawURL)
	p := u
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}

	switch {
	case strings.Contains(u, "m3u8"):
		return KindHLS
	case endsWith(u, p, ".pls") || strings.Contains(u, "/listen.pls"):
		return KindPLS
	case endsWith(u, p, ".m3u"):
		return KindM3U
	case endsWith(u, p, ".asx"):
		return KindASX
	case strings.Contains(u, "ogg"):
		return KindOgg
	case endsWith(u, p, ".opus"):
		return KindOpus
	case endsWith(u, p, ".flac"):
		return KindFLAC
	case strings.Contains(u, "aac"):
		return KindAAC
	case strings.Contains(u, "mp3"):
		return KindMP3
	default:
		return KindUnknown
	}
}

func endsWith(u, path, suffix string) bool {
	return strings.HasSuffix(u, suffix) || strings.HasSuffix(path, suffix)
}

// KindFromContentType maps an HTTP Content-Type to a stream kind.
// Parameters such as charset are ignored.
func KindFromContentType(contentType string) Kind {
	ct := strings.ToLower(strings.TrimSpace(contentType))
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}

	switch ct {
	case "application/vnd.apple.mpegurl", "application/x-mpegurl":
		return KindHLS
	case "audio/x-scpls":
		return KindPLS
	case "audio/x-mpegurl", "audio/mpegurl":
		return KindM3U
	case "video/x-ms-asf", "audio/x-ms-asx":
		return KindASX
	case "application/ogg", "audio/ogg", "audio/vorbis":
		return KindOgg
	case "audio/opus":
		return KindOpus
	case "audio/flac", "audio/x-flac":
		return KindFLAC
	case "audio/aac", "audio/aacp", "audio/x-aac", "audio/mp4":
		return KindAAC
	case "audio/mpeg", "audio/mp3", "audio/x-mpeg":
		return KindMP3
	default:
		return KindUnknown
	}
}
