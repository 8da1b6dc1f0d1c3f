package playback

// eventBufferSize is how many undelivered events of each kind a
// subscriber may lag behind before new ones are dropped.
const eventBufferSize = 16

// Subscription delivers session events to one subscriber. Sends never
// block the session: a full channel drops the event. Done closes when the
// session does.
type Subscription struct {
	StateChanged   <-chan StateChange
	StationChanged <-chan StationChange
	VolumeChanged  <-chan VolumeChange
	SleepTicked    <-chan SleepTick
	Error          <-chan ErrorEvent
	Done           <-chan struct{}

	state   chan StateChange
	station chan StationChange
	volume  chan VolumeChange
	sleep   chan SleepTick
	errs    chan ErrorEvent
	done    chan struct{}
}

func newSubscription() *Subscription {
	s := &Subscription{
		state:   make(chan StateChange, eventBufferSize),
		station: make(chan StationChange, eventBufferSize),
		volume:  make(chan VolumeChange, eventBufferSize),
		sleep:   make(chan SleepTick, eventBufferSize),
		errs:    make(chan ErrorEvent, eventBufferSize),
		done:    make(chan struct{}),
	}
	s.StateChanged, s.StationChanged, s.VolumeChanged = s.state, s.station, s.volume
	s.SleepTicked, s.Error, s.Done = s.sleep, s.errs, s.done
	return s
}

func (s *Subscription) close() { close(s.done) }

func offer[T any](ch chan T, v T) {
	select {
	case ch <- v:
	default:
	}
}

func (s *Subscription) sendState(e StateChange)     { offer(s.state, e) }
func (s *Subscription) sendStation(e StationChange) { offer(s.station, e) }
func (s *Subscription) sendVolume(e VolumeChange)   { offer(s.volume, e) }
func (s *Subscription) sendSleep(e SleepTick)       { offer(s.sleep, e) }
func (s *Subscription) sendError(e ErrorEvent)      { offer(s.errs, e) }
