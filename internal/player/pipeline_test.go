package player

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/airwaves/internal/stream"
)

func TestSampleQueue_FillsSilenceWhenEmpty(t *testing.T) {
	q := newSampleQueue(4)
	out := make([][2]float64, 4)
	out[0] = [2]float64{1, 1}

	n, ok := q.Stream(out)
	assert.Equal(t, 4, n)
	assert.True(t, ok)
	assert.Equal(t, [2]float64{}, out[0])
}

func TestSampleQueue_DrainsAcrossChunks(t *testing.T) {
	q := newSampleQueue(4)
	ctx := context.Background()
	require.NoError(t, q.push(ctx, [][2]float64{{0.1, 0.1}, {0.2, 0.2}}))
	require.NoError(t, q.push(ctx, [][2]float64{{0.3, 0.3}}))
	assert.Equal(t, 2, q.buffered())

	out := make([][2]float64, 4)
	q.Stream(out)
	assert.Equal(t, [][2]float64{{0.1, 0.1}, {0.2, 0.2}, {0.3, 0.3}, {0, 0}}, out)
}

func TestSampleQueue_PushHonorsContext(t *testing.T) {
	q := newSampleQueue(1)
	require.NoError(t, q.push(context.Background(), [][2]float64{{1, 1}}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, q.push(ctx, [][2]float64{{1, 1}}), context.Canceled)
}

type eventRecorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *eventRecorder) emit(e Event) {
	r.mu.Lock()
	r.events = append(r.events, e)
	r.mu.Unlock()
}

func (r *eventRecorder) types() []EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]EventType, len(r.events))
	for i, e := range r.events {
		out[i] = e.Type
	}
	return out
}

func TestWatchdog_DataThenBufferingThenData(t *testing.T) {
	clock := clockwork.NewFakeClock()
	rec := &eventRecorder{}
	w := newWatchdog(strings.NewReader("abcdef"), rec.emit, clock, 2*time.Second)
	buf := make([]byte, 2)

	assert.False(t, w.check(), "no buffering before any data")

	_, err := w.Read(buf)
	require.NoError(t, err)
	_, err = w.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, []EventType{EventData}, rec.types())

	clock.Advance(time.Second)
	assert.False(t, w.check())

	clock.Advance(time.Second)
	assert.True(t, w.check())
	assert.False(t, w.check(), "buffering is signaled once")

	_, err = w.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, []EventType{EventData, EventData}, rec.types())
}

func TestWatchdog_RunEmitsBuffering(t *testing.T) {
	clock := clockwork.NewFakeClock()
	rec := &eventRecorder{}
	w := newWatchdog(strings.NewReader("abc"), rec.emit, clock, 2*time.Second)
	_, err := w.Read(make([]byte, 3))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.run(ctx)
	clock.BlockUntil(1)

	clock.Advance(3 * time.Second)
	assert.Eventually(t, func() bool {
		types := rec.types()
		return len(types) == 2 && types[1] == EventBuffering
	}, time.Second, 5*time.Millisecond)
}

func TestPCMStreamer_Stereo(t *testing.T) {
	var buf bytes.Buffer
	for _, v := range []int16{16384, -16384, 0, 32767} {
		_ = binary.Write(&buf, binary.LittleEndian, v)
	}
	s := newPCMStreamer(&buf, 2)
	out := make([][2]float64, 4)

	n, ok := s.Stream(out)
	require.True(t, ok)
	require.Equal(t, 2, n)
	assert.InDelta(t, 0.5, out[0][0], 1e-9)
	assert.InDelta(t, -0.5, out[0][1], 1e-9)
	assert.InDelta(t, 0.99997, out[1][1], 1e-4)

	n, ok = s.Stream(out)
	assert.Equal(t, 0, n)
	assert.False(t, ok)
	assert.NoError(t, s.Err())
}

func TestPCMStreamer_MonoDuplicates(t *testing.T) {
	var buf bytes.Buffer
	_ = binary.Write(&buf, binary.LittleEndian, int16(8192))
	s := newPCMStreamer(&buf, 1)
	out := make([][2]float64, 1)

	n, ok := s.Stream(out)
	require.True(t, ok)
	require.Equal(t, 1, n)
	assert.Equal(t, out[0][0], out[0][1])
}

type failingReader struct{ err error }

func (r failingReader) Read([]byte) (int, error) { return 0, r.err }

func TestPCMStreamer_ReadError(t *testing.T) {
	boom := errors.New("connection reset")
	s := newPCMStreamer(failingReader{boom}, 2)
	_, ok := s.Stream(make([][2]float64, 8))
	assert.False(t, ok)
	assert.ErrorIs(t, s.Err(), boom)
}

func TestFFmpegArgs(t *testing.T) {
	args := ffmpegArgs("https://cdn.example.com/live.m3u8", "", "airwaves")
	joined := strings.Join(args, " ")
	assert.Contains(t, joined, "-nostdin")
	assert.Contains(t, joined, "-user_agent airwaves")
	assert.Contains(t, joined, "-i https://cdn.example.com/live.m3u8")
	assert.Contains(t, joined, "-f s16le")
	assert.Contains(t, joined, "-ar 44100")
	assert.Equal(t, "pipe:1", args[len(args)-1])

	args = ffmpegArgs("pipe:0", "aac", "airwaves")
	joined = strings.Join(args, " ")
	assert.NotContains(t, joined, "-nostdin")
	assert.NotContains(t, joined, "-user_agent")
	assert.Contains(t, joined, "-f aac -i pipe:0")
}

func TestStartFFmpeg_NotFound(t *testing.T) {
	_, err := startFFmpeg(context.Background(), "/nonexistent/ffmpeg-airwaves", "pipe:0", "", "", nil)
	assert.ErrorIs(t, err, ErrFFmpegNotFound)
}

func TestLimitedBuffer_KeepsTail(t *testing.T) {
	b := &limitedBuffer{limit: 5}
	_, _ = b.Write([]byte("hello"))
	_, _ = b.Write([]byte("world"))
	assert.Equal(t, "world", b.String())
}

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

var _ net.Error = timeoutErr{}

func TestClassifyPipelineError(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		class ErrorClass
		fatal bool
	}{
		{"forbidden", &stream.StatusError{Code: 403, Status: "403 Forbidden"}, ClassNetwork, true},
		{"unavailable", &stream.StatusError{Code: 503, Status: "503 Service Unavailable"}, ClassNetwork, false},
		{"undecodable", &decodeError{err: errors.New("bad frame")}, ClassMedia, true},
		{"timeout", fmt.Errorf("read: %w", timeoutErr{}), ClassNetwork, false},
		{"truncated", io.ErrUnexpectedEOF, ClassNetwork, false},
		{"no ffmpeg", fmt.Errorf("%w: exec", ErrFFmpegNotFound), ClassOther, true},
		{"ffmpeg exit", errors.New("ffmpeg: Invalid data found"), ClassMedia, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := classifyPipelineError(tt.err)
			assert.Equal(t, EventError, e.Type)
			assert.Equal(t, tt.class, e.Class)
			assert.Equal(t, tt.fatal, e.Fatal)
		})
	}
}

func TestClassifyManifestError(t *testing.T) {
	e := classifyManifestError(fmt.Errorf("%w: garbage", stream.ErrInvalidManifest))
	assert.True(t, e.Fatal)
	assert.Equal(t, ClassMedia, e.Class)

	e = classifyManifestError(&stream.StatusError{Code: 404, Status: "404 Not Found"})
	assert.True(t, e.Fatal)
	assert.Equal(t, ClassNetwork, e.Class)

	e = classifyManifestError(errors.New("dial tcp: connection refused"))
	assert.False(t, e.Fatal)
}

func TestLevelToVolume(t *testing.T) {
	tests := []struct {
		level  float64
		volume float64
		silent bool
	}{
		{1, 0, false},
		{1.5, 0, false},
		{0.5, -1, false},
		{0.25, -2, false},
		{0, -10, true},
		{-0.5, -10, true},
	}
	for _, tt := range tests {
		vol, silent := levelToVolume(tt.level)
		assert.InDelta(t, tt.volume, vol, 1e-9, "level %v", tt.level)
		assert.Equal(t, tt.silent, silent, "level %v", tt.level)
	}
}

func TestStreamBackend_AttachRejectsEmptyURL(t *testing.T) {
	b := NewStreamBackend(Config{})
	_, err := b.Attach(Source{}, func(Event) {})
	assert.Error(t, err)
}

func TestStreamDecoder_PlayBeforeManifest(t *testing.T) {
	b := NewStreamBackend(Config{HTTPClient: &http.Client{Timeout: 100 * time.Millisecond}})
	d, err := b.Attach(Source{URL: "http://127.0.0.1:1/live.m3u8", Kind: stream.KindHLS}, func(Event) {})
	require.NoError(t, err)
	defer d.Close()

	assert.ErrorContains(t, d.Play(context.Background()), "manifest not loaded")
}

func TestStreamDecoder_ClosedRejectsPlay(t *testing.T) {
	b := NewStreamBackend(Config{})
	d, err := b.Attach(Source{URL: "http://127.0.0.1:1/a.mp3", Kind: stream.KindMP3}, func(Event) {})
	require.NoError(t, err)
	require.NoError(t, d.Close())
	require.NoError(t, d.Close())

	assert.ErrorIs(t, d.Play(context.Background()), ErrDecoderClosed)
	assert.ErrorIs(t, d.Recover(context.Background()), ErrDecoderClosed)
}

func TestStreamDecoder_CanceledPlayAfterPauseStaysIdle(t *testing.T) {
	b := NewStreamBackend(Config{})
	dec, err := b.Attach(Source{URL: "http://127.0.0.1:1/a.mp3", Kind: stream.KindMP3}, func(Event) {})
	require.NoError(t, err)
	defer dec.Close()
	d := dec.(*streamDecoder)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	d.Pause()

	assert.ErrorIs(t, d.Play(ctx), context.Canceled)
	d.mu.Lock()
	defer d.mu.Unlock()
	assert.Equal(t, pipelineIdle, d.state)
	assert.Nil(t, d.queue)
}
