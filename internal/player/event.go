package player

import "fmt"

// EventType identifies a decoder signal.
type EventType int

const (
	// EventData means audio bytes are flowing from the source.
	EventData EventType = iota
	// EventBuffering means the source stopped delivering data for a while.
	EventBuffering
	// EventManifestReady means an adaptive manifest was loaded and playback may start.
	EventManifestReady
	// EventError reports a decoder or transport error.
	EventError
	// EventEnded means the source closed the stream.
	EventEnded
)

// String returns the event type name.
func (t EventType) String() string {
	switch t {
	case EventData:
		return "data"
	case EventBuffering:
		return "buffering"
	case EventManifestReady:
		return "manifest-ready"
	case EventError:
		return "error"
	case EventEnded:
		return "ended"
	default:
		return "unknown"
	}
}

// ErrorClass groups errors the way the recovery policy needs them.
type ErrorClass int

const (
	ClassOther ErrorClass = iota
	ClassNetwork
	ClassMedia
)

// String returns the class name.
func (c ErrorClass) String() string {
	switch c {
	case ClassNetwork:
		return "network"
	case ClassMedia:
		return "media"
	case ClassOther:
		return "other"
	default:
		return "other"
	}
}

// Event is a signal from a Decoder.
type Event struct {
	Type  EventType
	Err   error
	Fatal bool
	Class ErrorClass
}

// String formats the event for logs.
func (e Event) String() string {
	if e.Type != EventError {
		return e.Type.String()
	}
	kind := "recoverable"
	if e.Fatal {
		kind = "fatal"
	}
	return fmt.Sprintf("error(%s %s): %v", kind, e.Class, e.Err)
}

// DataEvent returns a data signal.
func DataEvent() Event { return Event{Type: EventData} }

// BufferingEvent returns a buffering signal.
func BufferingEvent() Event { return Event{Type: EventBuffering} }

// ManifestReadyEvent returns a manifest-ready signal.
func ManifestReadyEvent() Event { return Event{Type: EventManifestReady} }

// EndedEvent returns an end-of-stream signal.
func EndedEvent() Event { return Event{Type: EventEnded} }

// ErrorEvent returns an error signal.
func ErrorEvent(err error, class ErrorClass, fatal bool) Event {
	return Event{Type: EventError, Err: err, Class: class, Fatal: fatal}
}
