// Package sleeptimer pauses playback after a chosen number of minutes.
//
// The countdown is keyed off an absolute end time, so ticks report the real
// remaining time even if the process was suspended.
package sleeptimer

import (
	"errors"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// ErrInvalidDuration is returned by Start for a non-positive minute count.
var ErrInvalidDuration = errors.New("sleep timer needs a positive number of minutes")

// TickInterval is the display countdown granularity.
const TickInterval = time.Second

// Timer is a single restartable sleep countdown.
type Timer struct {
	clock    clockwork.Clock
	onTick   func(remaining time.Duration)
	onExpire func()

	mu      sync.Mutex
	gen     uint64
	minutes int
	endsAt  time.Time
	stop    chan struct{}
}

// New creates a timer. onTick runs every TickInterval while the timer is
// active; onExpire runs once when it reaches zero. Either may be nil.
func New(clock clockwork.Clock, onTick func(time.Duration), onExpire func()) *Timer {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Timer{clock: clock, onTick: onTick, onExpire: onExpire}
}

// Start cancels any running countdown and starts a new one.
func (t *Timer) Start(minutes int) error {
	if minutes <= 0 {
		return ErrInvalidDuration
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.cancelLocked()

	d := time.Duration(minutes) * time.Minute
	t.gen++
	t.minutes = minutes
	t.endsAt = t.clock.Now().Add(d)
	t.stop = make(chan struct{})

	timer := t.clock.NewTimer(d)
	ticker := t.clock.NewTicker(TickInterval)
	go t.run(t.gen, t.stop, timer, ticker)
	return nil
}

func (t *Timer) run(gen uint64, stop <-chan struct{}, timer clockwork.Timer, ticker clockwork.Ticker) {
	defer ticker.Stop()
	defer timer.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.Chan():
			if rem, ok := t.remainingFor(gen); ok && t.onTick != nil {
				t.onTick(rem)
			}
		case <-timer.Chan():
			if t.finish(gen) && t.onExpire != nil {
				t.onExpire()
			}
			return
		}
	}
}

// finish clears the state if gen is still current.
func (t *Timer) finish(gen uint64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if gen != t.gen || t.stop == nil {
		return false
	}
	t.stop = nil
	t.minutes = 0
	t.endsAt = time.Time{}
	return true
}

// Cancel stops the countdown without running onExpire.
func (t *Timer) Cancel() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.cancelLocked()
}

func (t *Timer) cancelLocked() {
	if t.stop != nil {
		close(t.stop)
		t.stop = nil
	}
	t.gen++
	t.minutes = 0
	t.endsAt = time.Time{}
}

// Active reports whether a countdown is running.
func (t *Timer) Active() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stop != nil
}

// Minutes returns the length of the running countdown, 0 if none.
func (t *Timer) Minutes() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.minutes
}

// EndsAt returns the end time of the running countdown, zero if none.
func (t *Timer) EndsAt() time.Time {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.endsAt
}

// Remaining returns the time left, 0 if no countdown runs.
func (t *Timer) Remaining() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stop == nil {
		return 0
	}
	return max(t.endsAt.Sub(t.clock.Now()), 0)
}

func (t *Timer) remainingFor(gen uint64) (time.Duration, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if gen != t.gen || t.stop == nil {
		return 0, false
	}
	return max(t.endsAt.Sub(t.clock.Now()), 0), true
}
