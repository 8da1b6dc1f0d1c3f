// internal/playback/session.go
package playback

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"github.com/llehouerou/airwaves/internal/catalog"
	"github.com/llehouerou/airwaves/internal/health"
	"github.com/llehouerou/airwaves/internal/notify"
	"github.com/llehouerou/airwaves/internal/player"
	"github.com/llehouerou/airwaves/internal/sleeptimer"
	"github.com/llehouerou/airwaves/internal/stream"
)

// Default session tuning.
const (
	DefaultResponseTimeout = 20 * time.Second
	DefaultStallGrace      = 20 * time.Second
	DefaultMaxRecoveries   = 1
	DefaultVolume          = 1.0
)

const inboxSize = 64

// Config configures a session. Backend is required.
type Config struct {
	Backend  player.Backend
	Health   *health.Registry // nil keeps counts in memory only
	Notifier notify.Notifier  // nil disables notifications
	Clock    clockwork.Clock  // nil uses the real clock
	Logger   zerolog.Logger

	ResponseTimeout time.Duration
	StallGrace      time.Duration
	MaxRecoveries   int
	Volume          float64
}

// DefaultConfig returns a config with the default timeouts and volume.
func DefaultConfig(backend player.Backend) Config {
	return Config{
		Backend:         backend,
		ResponseTimeout: DefaultResponseTimeout,
		StallGrace:      DefaultStallGrace,
		MaxRecoveries:   DefaultMaxRecoveries,
		Volume:          DefaultVolume,
	}
}

// Verify session implements Service at compile time.
var _ Service = (*session)(nil)

type eventKind int

const (
	evDecoder eventKind = iota
	evPlayResult
	evRecoverResult
	evResponseTimeout
	evStallTimeout
)

// loopEvent is an asynchronous input to the session loop. token ties it to
// the attempt that produced it.
type loopEvent struct {
	token  uint64
	kind   eventKind
	event  player.Event
	err    error
	seq    uint64
	resume bool
	timer  *loopTimer
}

// loopTimer is one armed timeout. The loop only acts on an expiry whose
// timer is still the one stored in the session.
type loopTimer struct {
	t    clockwork.Timer
	stop chan struct{}
}

func (lt *loopTimer) disarm() {
	lt.t.Stop()
	close(lt.stop)
}

// snapshot is the read side of the session state.
type snapshot struct {
	station *catalog.Station
	phase   Phase
	errText string
	volume  float64
	kind    stream.Kind
}

type session struct {
	backend  player.Backend
	health   *health.Registry
	notifier notify.Notifier
	clock    clockwork.Clock
	log      zerolog.Logger
	cfg      Config
	sleep    *sleeptimer.Timer

	ctx    context.Context
	cancel context.CancelFunc

	cmds     chan func()
	inbox    chan loopEvent
	done     chan struct{}
	loopDone chan struct{}
	once     sync.Once

	// Owned by the loop goroutine.
	station       *catalog.Station
	phase         Phase
	errText       string
	volume        float64
	kind          stream.Kind
	decoder       player.Decoder
	token         uint64
	manifestReady bool
	resuming      bool
	started       bool
	recoveries    int
	respTimer     *loopTimer
	stallTimer    *loopTimer
	playSeq       uint64
	playCancel    context.CancelFunc

	snapMu sync.RWMutex
	snap   snapshot

	subsMu sync.RWMutex
	subs   []*Subscription
}

// New creates a playback session and starts its loop.
func New(cfg Config) Service {
	if cfg.Health == nil {
		cfg.Health = health.NewRegistry(nil)
	}
	if cfg.Clock == nil {
		cfg.Clock = clockwork.NewRealClock()
	}
	if cfg.ResponseTimeout <= 0 {
		cfg.ResponseTimeout = DefaultResponseTimeout
	}
	if cfg.StallGrace <= 0 {
		cfg.StallGrace = DefaultStallGrace
	}
	cfg.MaxRecoveries = max(cfg.MaxRecoveries, 0)

	ctx, cancel := context.WithCancel(context.Background())
	s := &session{
		backend:  cfg.Backend,
		health:   cfg.Health,
		notifier: cfg.Notifier,
		clock:    cfg.Clock,
		log:      cfg.Logger.With().Str("component", "playback").Logger(),
		cfg:      cfg,
		ctx:      ctx,
		cancel:   cancel,
		cmds:     make(chan func()),
		inbox:    make(chan loopEvent, inboxSize),
		done:     make(chan struct{}),
		loopDone: make(chan struct{}),
		volume:   clampVolume(cfg.Volume),
	}
	s.sleep = sleeptimer.New(cfg.Clock, s.onSleepTick, s.onSleepExpire)
	s.publish()

	go s.loop()
	return s
}

func (s *session) loop() {
	defer close(s.loopDone)
	for {
		select {
		case <-s.done:
			s.teardown()
			s.publish()
			return
		case fn := <-s.cmds:
			fn()
		case ev := <-s.inbox:
			s.handle(ev)
			s.publish()
		}
	}
}

// do runs fn on the loop goroutine and waits for it.
func (s *session) do(fn func()) error {
	reply := make(chan struct{})
	cmd := func() {
		fn()
		s.publish()
		close(reply)
	}
	select {
	case s.cmds <- cmd:
	case <-s.done:
		return ErrClosed
	}
	<-reply
	return nil
}

// post queues an event for the loop. It drops the event once the session
// is closed.
func (s *session) post(ev loopEvent) {
	select {
	case s.inbox <- ev:
	case <-s.done:
	}
}

func (s *session) emitter(token uint64) func(player.Event) {
	return func(e player.Event) {
		s.post(loopEvent{token: token, kind: evDecoder, event: e})
	}
}

// PlayStation starts the station, or toggles pause when it is already current.
func (s *session) PlayStation(st catalog.Station) error {
	return s.do(func() {
		if s.station != nil && s.station.ID == st.ID && st.ID != "" {
			switch {
			case s.phase.IsActive():
				s.pause()
				return
			case s.phase == PhasePaused:
				s.resume()
				return
			}
		}
		s.startAttempt(st)
	})
}

// TogglePlay pauses or resumes the current station. No-op without one.
func (s *session) TogglePlay() error {
	return s.do(func() {
		if s.station == nil {
			return
		}
		switch {
		case s.phase.IsActive():
			s.pause()
		case s.phase == PhasePaused:
			s.resume()
		default:
			s.startAttempt(*s.station)
		}
	})
}

// Pause pauses an active stream. No-op otherwise.
func (s *session) Pause() error {
	return s.do(func() {
		if s.phase.IsActive() {
			s.pause()
		}
	})
}

// Stop releases the decoder and returns to Idle from any phase.
func (s *session) Stop() error {
	return s.do(s.stop)
}

// UpdateVolume clamps v to [0, 1] and applies it right away.
func (s *session) UpdateVolume(v float64) error {
	return s.do(func() {
		s.volume = clampVolume(v)
		if s.decoder != nil {
			s.decoder.SetVolume(s.volume)
		}
		s.broadcast(func(sub *Subscription) { sub.sendVolume(VolumeChange{Volume: s.volume}) })
	})
}

func (s *session) startAttempt(st catalog.Station) {
	s.teardown()

	prev := s.station
	station := st
	s.station = &station
	if prev == nil || prev.ID != station.ID {
		s.broadcast(func(sub *Subscription) {
			sub.sendStation(StationChange{Previous: prev, Current: &station})
		})
	}

	url := station.StreamURL()
	s.kind = stream.Classify(url)
	s.errText = ""
	s.recoveries = 0
	s.started = false
	s.resuming = false
	s.manifestReady = !s.kind.IsAdaptive()
	s.setPhase(PhaseLoading)

	s.log.Debug().
		Str("station", station.ID).
		Str("kind", s.kind.String()).
		Str("url", url).
		Msg("starting attempt")

	if url == "" {
		s.fail(FailurePlaybackRejected, ErrNoStream, true)
		return
	}

	dec, err := s.backend.Attach(player.Source{URL: url, Kind: s.kind}, s.emitter(s.token))
	if err != nil {
		s.fail(FailurePlaybackRejected, err, true)
		return
	}
	s.decoder = dec
	dec.SetVolume(s.volume)

	s.respTimer = s.arm(evResponseTimeout, s.cfg.ResponseTimeout)
	if s.manifestReady {
		s.requestPlay()
	}
}

func (s *session) pause() {
	s.cancelPlay()
	s.disarmTimers()
	s.resuming = false
	if s.decoder != nil {
		s.decoder.Pause()
	}
	s.setPhase(PhasePaused)
}

func (s *session) resume() {
	if s.decoder == nil {
		s.startAttempt(*s.station)
		return
	}
	s.resuming = true
	s.setPhase(PhaseLoading)
	s.respTimer = s.arm(evResponseTimeout, s.cfg.ResponseTimeout)
	if s.manifestReady {
		s.requestPlay()
	}
}

func (s *session) stop() {
	s.teardown()
	prev := s.station
	s.station = nil
	s.errText = ""
	s.kind = stream.KindUnknown
	s.resuming = false
	s.setPhase(PhaseIdle)
	if prev != nil {
		s.broadcast(func(sub *Subscription) { sub.sendStation(StationChange{Previous: prev}) })
	}
}

// teardown releases the decoder, disarms the timers and invalidates every
// event of the current attempt.
func (s *session) teardown() {
	s.cancelPlay()
	s.disarmTimers()
	if s.decoder != nil {
		if err := s.decoder.Close(); err != nil {
			s.log.Debug().Err(err).Msg("close decoder")
		}
		s.decoder = nil
	}
	s.token++
}

// requestPlay asks the decoder to play without blocking the loop. The
// result comes back as an evPlayResult event.
func (s *session) requestPlay() {
	s.cancelPlay()
	ctx, cancel := context.WithCancel(s.ctx)
	s.playCancel = cancel
	seq := s.playSeq
	token := s.token
	resume := s.resuming
	dec := s.decoder
	go func() {
		err := dec.Play(ctx)
		s.post(loopEvent{token: token, kind: evPlayResult, err: err, seq: seq, resume: resume})
	}()
}

func (s *session) cancelPlay() {
	s.playSeq++
	if s.playCancel != nil {
		s.playCancel()
		s.playCancel = nil
	}
}

func (s *session) arm(kind eventKind, d time.Duration) *loopTimer {
	lt := &loopTimer{t: s.clock.NewTimer(d), stop: make(chan struct{})}
	token := s.token
	go func() {
		select {
		case <-lt.t.Chan():
			s.post(loopEvent{token: token, kind: kind, timer: lt})
		case <-lt.stop:
		}
	}()
	return lt
}

func (s *session) disarmTimers() {
	s.disarmResponse()
	s.disarmStall()
}

func (s *session) disarmResponse() {
	if s.respTimer != nil {
		s.respTimer.disarm()
		s.respTimer = nil
	}
}

func (s *session) disarmStall() {
	if s.stallTimer != nil {
		s.stallTimer.disarm()
		s.stallTimer = nil
	}
}

func (s *session) handle(ev loopEvent) {
	if ev.token != s.token {
		return
	}
	switch ev.kind {
	case evDecoder:
		s.handleDecoder(ev.event)
	case evPlayResult:
		if ev.seq != s.playSeq || ev.err == nil {
			return
		}
		if errors.Is(ev.err, context.Canceled) || !s.phase.IsActive() {
			return
		}
		// A rejected resume is the caller's environment, not the station.
		s.fail(FailurePlaybackRejected, ev.err, !ev.resume)
	case evRecoverResult:
		if ev.err != nil && s.phase.IsActive() {
			s.fail(FailureDecodeRecoverable, ev.err, true)
		}
	case evResponseTimeout:
		if ev.timer != s.respTimer || s.phase != PhaseLoading {
			return
		}
		s.respTimer = nil
		s.fail(FailureSourceUnresponsive, nil, true)
	case evStallTimeout:
		if ev.timer != s.stallTimer || s.phase != PhaseStalled {
			return
		}
		s.stallTimer = nil
		s.fail(FailureSourceStalled, nil, true)
	}
}

func (s *session) handleDecoder(e player.Event) {
	s.log.Debug().Stringer("event", e).Stringer("phase", s.phase).Msg("decoder event")

	switch e.Type {
	case player.EventData:
		if s.phase != PhaseLoading && s.phase != PhaseStalled {
			return
		}
		s.disarmTimers()
		s.resuming = false
		s.recoveries = 0
		s.errText = ""
		if !s.started && s.station != nil {
			s.started = true
			if err := s.health.RecordSuccess(s.station.ID); err != nil {
				s.log.Warn().Err(err).Str("station", s.station.ID).Msg("record health success")
			}
		}
		s.setPhase(PhasePlaying)

	case player.EventBuffering:
		if s.phase != PhasePlaying {
			return
		}
		s.setPhase(PhaseStalled)
		s.stallTimer = s.arm(evStallTimeout, s.cfg.StallGrace)

	case player.EventManifestReady:
		s.manifestReady = true
		if s.phase == PhaseLoading {
			s.requestPlay()
		}

	case player.EventEnded:
		s.handleDecodeError(player.ErrorEvent(errStreamEnded, player.ClassNetwork, false))

	case player.EventError:
		s.handleDecodeError(e)
	}
}

func (s *session) handleDecodeError(e player.Event) {
	if !s.phase.IsActive() {
		return
	}
	if e.Fatal {
		s.fail(FailureDecodeFatal, e.Err, true)
		return
	}
	if s.recoveries >= s.cfg.MaxRecoveries {
		s.fail(FailureDecodeRecoverable, e.Err, true)
		return
	}
	s.recoveries++
	s.log.Warn().Err(e.Err).Int("attempt", s.recoveries).Msg("recovering stream in place")

	if s.phase == PhasePlaying {
		s.setPhase(PhaseStalled)
		s.stallTimer = s.arm(evStallTimeout, s.cfg.StallGrace)
	}

	dec := s.decoder
	token := s.token
	ctx := s.ctx
	go func() {
		err := dec.Recover(ctx)
		s.post(loopEvent{token: token, kind: evRecoverResult, err: err})
	}()
}

// fail ends the attempt in Errored. The station stays current.
func (s *session) fail(kind FailureKind, err error, recordHealth bool) {
	s.teardown()

	f := &Failure{Kind: kind, Err: err}
	s.errText = f.Message()
	s.resuming = false
	s.setPhase(PhaseErrored)

	var station catalog.Station
	if s.station != nil {
		station = *s.station
	}
	s.log.Warn().Err(err).Str("station", station.ID).Stringer("kind", kind).Msg("playback failed")

	if recordHealth && station.ID != "" {
		if herr := s.health.RecordFailure(station.ID); herr != nil {
			s.log.Warn().Err(herr).Str("station", station.ID).Msg("record health failure")
		}
	}

	s.broadcast(func(sub *Subscription) {
		sub.sendError(ErrorEvent{Station: station, Kind: kind, Message: s.errText, Err: f})
	})
}

func (s *session) setPhase(p Phase) {
	if p == s.phase {
		return
	}
	prev := s.phase
	s.phase = p
	s.log.Debug().Stringer("from", prev).Stringer("to", p).Msg("phase")
	s.broadcast(func(sub *Subscription) { sub.sendState(StateChange{Previous: prev, Current: p}) })
}

func (s *session) publish() {
	var station *catalog.Station
	if s.station != nil {
		st := *s.station
		station = &st
	}
	s.snapMu.Lock()
	s.snap = snapshot{
		station: station,
		phase:   s.phase,
		errText: s.errText,
		volume:  s.volume,
		kind:    s.kind,
	}
	s.snapMu.Unlock()
}

func (s *session) read() snapshot {
	s.snapMu.RLock()
	defer s.snapMu.RUnlock()
	return s.snap
}

// CurrentStation returns a copy of the current station, or nil.
func (s *session) CurrentStation() *catalog.Station {
	st := s.read().station
	if st == nil {
		return nil
	}
	cp := *st
	return &cp
}

func (s *session) Phase() Phase { return s.read().phase }

func (s *session) IsPlaying() bool { return s.read().phase.IsPlaying() }

func (s *session) IsLoading() bool { return s.read().phase.IsLoading() }

// Error returns the user-facing message of the last failure, if any.
func (s *session) Error() string { return s.read().errText }

func (s *session) Volume() float64 { return s.read().volume }

func (s *session) StreamKind() stream.Kind { return s.read().kind }

// HealthStatus returns the advisory reliability label of a station.
func (s *session) HealthStatus(stationID string) health.Status {
	return s.health.Status(stationID)
}

// StartSleepTimer pauses playback after the given number of minutes.
func (s *session) StartSleepTimer(minutes int) error {
	select {
	case <-s.done:
		return ErrClosed
	default:
	}
	if err := s.sleep.Start(minutes); err != nil {
		return err
	}
	s.log.Debug().Int("minutes", minutes).Msg("sleep timer started")
	return nil
}

// CancelSleepTimer stops the sleep countdown without touching playback.
func (s *session) CancelSleepTimer() {
	s.sleep.Cancel()
	s.broadcast(func(sub *Subscription) { sub.sendSleep(SleepTick{}) })
}

// SleepRemaining returns the sleep countdown, 0 when none runs.
func (s *session) SleepRemaining() time.Duration {
	return s.sleep.Remaining()
}

func (s *session) onSleepTick(remaining time.Duration) {
	s.broadcast(func(sub *Subscription) { sub.sendSleep(SleepTick{Remaining: remaining}) })
}

func (s *session) onSleepExpire() {
	err := s.do(func() {
		if s.phase.IsActive() {
			s.pause()
		}
	})
	if err != nil {
		return
	}
	s.log.Info().Msg("sleep timer expired, playback paused")
	s.broadcast(func(sub *Subscription) { sub.sendSleep(SleepTick{}) })
	s.notify(notify.SleepExpired())
}

// notify sends a best-effort desktop notification.
func (s *session) notify(n notify.Notification) {
	if s.notifier == nil {
		return
	}
	go func() {
		if _, err := s.notifier.Notify(n); err != nil {
			s.log.Debug().Err(err).Msg("notification failed")
		}
	}()
}

// Subscribe creates a new event subscription.
func (s *session) Subscribe() *Subscription {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()
	sub := newSubscription()
	s.subs = append(s.subs, sub)
	return sub
}

func (s *session) broadcast(send func(*Subscription)) {
	s.subsMu.RLock()
	defer s.subsMu.RUnlock()
	for _, sub := range s.subs {
		send(sub)
	}
}

// Close stops the loop, releases the decoder and closes subscriptions.
func (s *session) Close() error {
	s.once.Do(func() {
		close(s.done)
		<-s.loopDone
		s.cancel()
		s.sleep.Cancel()

		s.subsMu.Lock()
		for _, sub := range s.subs {
			sub.close()
		}
		s.subs = nil
		s.subsMu.Unlock()
	})
	return nil
}

func clampVolume(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
