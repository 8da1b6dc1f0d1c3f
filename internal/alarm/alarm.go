// Package alarm starts a station at a configured time of day.
package alarm

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"github.com/llehouerou/airwaves/internal/catalog"
	"github.com/llehouerou/airwaves/internal/notify"
)

const (
	// DefaultPollInterval is how often the alarm time is compared to the clock.
	DefaultPollInterval = 30 * time.Second
	// debounce keeps a match from firing twice within the same minute.
	debounce = 60 * time.Second
)

var (
	// ErrInvalidTime is returned for an alarm time that is not HH:MM.
	ErrInvalidTime = errors.New("alarm time must be HH:MM")
	// ErrNoStation is returned when an enabled alarm has no station.
	ErrNoStation = errors.New("alarm has no station")
)

// Config is the persisted alarm setting.
type Config struct {
	Time    string // "HH:MM", local time
	Enabled bool
	Station *catalog.Station
}

// Validate checks an enabled config. Disabled configs are always valid.
func (c Config) Validate() error {
	if !c.Enabled {
		return nil
	}
	if _, _, err := ParseTime(c.Time); err != nil {
		return err
	}
	if c.Station == nil || c.Station.ID == "" {
		return ErrNoStation
	}
	return nil
}

// Store persists the alarm config.
type Store interface {
	LoadAlarm() (Config, error)
	SaveAlarm(c Config) error
}

// Player is the part of the playback session the alarm drives.
type Player interface {
	PlayStation(st catalog.Station) error
	CurrentStation() *catalog.Station
	IsPlaying() bool
	IsLoading() bool
}

// ParseTime parses "HH:MM" into hour and minute.
func ParseTime(s string) (hour, minute int, err error) {
	h, m, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok || len(h) != 2 || len(m) != 2 {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidTime, s)
	}
	hour, herr := strconv.Atoi(h)
	minute, merr := strconv.Atoi(m)
	if herr != nil || merr != nil || hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidTime, s)
	}
	return hour, minute, nil
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithClock sets the clock used for polling and matching.
func WithClock(c clockwork.Clock) Option {
	return func(e *Evaluator) { e.clock = c }
}

// WithPollInterval sets the poll interval.
func WithPollInterval(d time.Duration) Option {
	return func(e *Evaluator) {
		if d > 0 {
			e.interval = d
		}
	}
}

// WithNotifier sets the notifier used when the alarm fires.
func WithNotifier(n notify.Notifier) Option {
	return func(e *Evaluator) { e.notifier = n }
}

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option {
	return func(e *Evaluator) { e.log = l }
}

// Evaluator polls the stored alarm config and fires it on a time match.
// Its only state is the in-memory debounce deadline.
type Evaluator struct {
	store    Store
	player   Player
	notifier notify.Notifier
	clock    clockwork.Clock
	interval time.Duration
	log      zerolog.Logger

	mu             sync.Mutex
	triggeredUntil time.Time
}

// NewEvaluator creates an evaluator.
func NewEvaluator(store Store, p Player, opts ...Option) *Evaluator {
	e := &Evaluator{
		store:    store,
		player:   p,
		clock:    clockwork.NewRealClock(),
		interval: DefaultPollInterval,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.log = e.log.With().Str("component", "alarm").Logger()
	return e
}

// Run polls until ctx is done.
func (e *Evaluator) Run(ctx context.Context) {
	ticker := e.clock.NewTicker(e.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
			if _, err := e.Check(e.clock.Now()); err != nil {
				e.log.Warn().Err(err).Msg("alarm check failed")
			}
		}
	}
}

// Check fires the alarm if now matches the configured time. It reports
// whether the alarm fired.
func (e *Evaluator) Check(now time.Time) (bool, error) {
	cfg, err := e.store.LoadAlarm()
	if err != nil {
		return false, fmt.Errorf("load alarm: %w", err)
	}
	if !cfg.Enabled || cfg.Station == nil {
		return false, nil
	}
	hour, minute, err := ParseTime(cfg.Time)
	if err != nil {
		return false, err
	}
	now = now.Local()
	if now.Hour() != hour || now.Minute() != minute {
		return false, nil
	}

	e.mu.Lock()
	if now.Before(e.triggeredUntil) {
		e.mu.Unlock()
		return false, nil
	}
	e.triggeredUntil = now.Add(debounce)
	e.mu.Unlock()

	st := *cfg.Station
	e.log.Info().Str("station", st.ID).Str("time", cfg.Time).Msg("alarm fired")

	// PlayStation on the current station toggles pause, so leave it alone
	// while it is loading or playing.
	active := e.player.IsPlaying() || e.player.IsLoading()
	if cur := e.player.CurrentStation(); cur == nil || cur.ID != st.ID || !active {
		if err := e.player.PlayStation(st); err != nil {
			return true, fmt.Errorf("play alarm station: %w", err)
		}
	}

	if e.notifier != nil {
		if _, err := e.notifier.Notify(notify.AlarmFired(st.Name)); err != nil {
			e.log.Debug().Err(err).Msg("alarm notification failed")
		}
	}
	return true, nil
}
