package player

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// watchdog wraps a source reader and turns byte arrival into data and
// buffering signals. Data is signaled on the first bytes and again on the
// first bytes after a buffering signal. Buffering is signaled once when no
// bytes arrived for idle after data had started flowing.
type watchdog struct {
	r     io.Reader
	emit  func(Event)
	clock clockwork.Clock
	idle  time.Duration

	mu      sync.Mutex
	last    time.Time
	flowing bool
}

func newWatchdog(r io.Reader, emit func(Event), clock clockwork.Clock, idle time.Duration) *watchdog {
	return &watchdog{r: r, emit: emit, clock: clock, idle: idle}
}

func (w *watchdog) Read(p []byte) (int, error) {
	n, err := w.r.Read(p)
	if n > 0 {
		w.mu.Lock()
		w.last = w.clock.Now()
		signal := !w.flowing
		w.flowing = true
		w.mu.Unlock()
		if signal {
			w.emit(DataEvent())
		}
	}
	return n, err
}

// run checks for idle periods until ctx is done.
func (w *watchdog) run(ctx context.Context) {
	ticker := w.clock.NewTicker(w.idle / 4)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
			if w.check() {
				w.emit(BufferingEvent())
			}
		}
	}
}

// check reports whether a buffering signal is due and records it.
func (w *watchdog) check() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.flowing || w.clock.Since(w.last) < w.idle {
		return false
	}
	w.flowing = false
	return true
}
