package playback

import (
	"errors"
	"fmt"
)

var (
	// ErrClosed is returned by operations on a closed session.
	ErrClosed = errors.New("playback session closed")
	// ErrNoStream is returned when a station has no stream URL.
	ErrNoStream = errors.New("station has no stream url")

	errStreamEnded = errors.New("stream ended")
)

// FailureKind classifies why a playback attempt failed.
type FailureKind int

const (
	// FailureSourceUnresponsive means no data arrived within the response timeout.
	FailureSourceUnresponsive FailureKind = iota + 1
	// FailureSourceStalled means data stopped after a successful start.
	FailureSourceStalled
	// FailureDecodeFatal means the decoder reported an unrecoverable error.
	FailureDecodeFatal
	// FailureDecodeRecoverable means recoverable errors persisted after the
	// in-place retries were used up.
	FailureDecodeRecoverable
	// FailurePlaybackRejected means the play request itself failed.
	FailurePlaybackRejected
)

// String returns the kind name.
func (k FailureKind) String() string {
	switch k {
	case FailureSourceUnresponsive:
		return "SourceUnresponsive"
	case FailureSourceStalled:
		return "SourceStalled"
	case FailureDecodeFatal:
		return "DecodeFatal"
	case FailureDecodeRecoverable:
		return "DecodeRecoverable"
	case FailurePlaybackRejected:
		return "PlaybackRejected"
	default:
		return "Unknown"
	}
}

// Failure is the terminal error of a playback attempt.
type Failure struct {
	Kind FailureKind
	Err  error
}

func (f *Failure) Error() string {
	if f.Err == nil {
		return f.Kind.String()
	}
	return fmt.Sprintf("%s: %v", f.Kind, f.Err)
}

func (f *Failure) Unwrap() error { return f.Err }

// Message returns the user-facing text for the failure.
func (f *Failure) Message() string {
	switch f.Kind {
	case FailureSourceUnresponsive:
		return "Station not responding"
	case FailureSourceStalled:
		return "Stream stopped delivering audio"
	case FailureDecodeFatal:
		return "Stream format not supported or broken"
	case FailureDecodeRecoverable:
		return "Stream keeps failing"
	case FailurePlaybackRejected:
		if errors.Is(f.Err, ErrNoStream) {
			return "Station has no stream address"
		}
		return "Playback could not start"
	default:
		return "Playback failed"
	}
}
