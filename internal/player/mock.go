// internal/player/mock.go
package player

import (
	"context"
	"errors"
	"sync"
)

// ErrDecoderClosed is returned by operations on a closed decoder.
var ErrDecoderClosed = errors.New("decoder closed")

// Mock is a test double for Backend. Tests drive the attached decoders by
// emitting events through them.
type Mock struct {
	mu        sync.Mutex
	decoders  []*MockDecoder
	attachErr error
	playErr   error
	attached  chan *MockDecoder
}

// NewMock creates a new mock backend for testing.
func NewMock() *Mock {
	return &Mock{attached: make(chan *MockDecoder, 64)}
}

// Attach records the source and returns a controllable decoder.
func (m *Mock) Attach(src Source, emit func(Event)) (Decoder, error) {
	m.mu.Lock()
	if m.attachErr != nil {
		err := m.attachErr
		m.mu.Unlock()
		return nil, err
	}
	d := &MockDecoder{src: src, emit: emit, playErr: m.playErr}
	m.decoders = append(m.decoders, d)
	m.mu.Unlock()

	select {
	case m.attached <- d:
	default:
	}
	return d, nil
}

// Test helpers

// SetAttachError makes subsequent Attach calls fail.
func (m *Mock) SetAttachError(err error) {
	m.mu.Lock()
	m.attachErr = err
	m.mu.Unlock()
}

// SetPlayError makes decoders attached from now on reject Play.
func (m *Mock) SetPlayError(err error) {
	m.mu.Lock()
	m.playErr = err
	m.mu.Unlock()
}

// Decoders returns every decoder attached so far.
func (m *Mock) Decoders() []*MockDecoder {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*MockDecoder, len(m.decoders))
	copy(out, m.decoders)
	return out
}

// Last returns the most recently attached decoder, or nil.
func (m *Mock) Last() *MockDecoder {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.decoders) == 0 {
		return nil
	}
	return m.decoders[len(m.decoders)-1]
}

// Attached delivers decoders as they are attached.
func (m *Mock) Attached() <-chan *MockDecoder {
	return m.attached
}

// Open returns the number of attached decoders not yet closed.
func (m *Mock) Open() int {
	n := 0
	for _, d := range m.Decoders() {
		if !d.Closed() {
			n++
		}
	}
	return n
}

// MockDecoder is a Decoder driven by tests.
type MockDecoder struct {
	mu           sync.Mutex
	src          Source
	emit         func(Event)
	playErr      error
	recoverErr   error
	playCalls    int
	pauseCalls   int
	recoverCalls int
	volume       float64
	closed       bool
}

func (d *MockDecoder) Play(_ context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.playCalls++
	if d.closed {
		return ErrDecoderClosed
	}
	return d.playErr
}

func (d *MockDecoder) Pause() {
	d.mu.Lock()
	d.pauseCalls++
	d.mu.Unlock()
}

func (d *MockDecoder) SetVolume(level float64) {
	d.mu.Lock()
	d.volume = level
	d.mu.Unlock()
}

func (d *MockDecoder) Recover(_ context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.recoverCalls++
	return d.recoverErr
}

func (d *MockDecoder) Close() error {
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()
	return nil
}

// Emit sends an event as if the decoder produced it. Events from a closed
// decoder are still delivered so tests can exercise stale handling.
func (d *MockDecoder) Emit(e Event) {
	d.emit(e)
}

func (d *MockDecoder) Source() Source { return d.src }

func (d *MockDecoder) SetPlayError(err error) {
	d.mu.Lock()
	d.playErr = err
	d.mu.Unlock()
}

func (d *MockDecoder) SetRecoverError(err error) {
	d.mu.Lock()
	d.recoverErr = err
	d.mu.Unlock()
}

func (d *MockDecoder) PlayCalls() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.playCalls
}

func (d *MockDecoder) PauseCalls() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pauseCalls
}

func (d *MockDecoder) RecoverCalls() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.recoverCalls
}

func (d *MockDecoder) Volume() float64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.volume
}

func (d *MockDecoder) Closed() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.closed
}
