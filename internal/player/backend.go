package player

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"github.com/llehouerou/airwaves/internal/stream"
)

const defaultBufferingAfter = 3 * time.Second

// Config configures a StreamBackend.
type Config struct {
	FFmpegPath string
	UserAgent  string
	// HTTPClient fetches streams. It must not set a global timeout.
	HTTPClient *http.Client
	// BufferingAfter is how long a flowing source may go silent before a
	// buffering signal is emitted.
	BufferingAfter time.Duration
	Clock          clockwork.Clock
	Logger         zerolog.Logger
}

// StreamBackend plays internet radio streams through the speaker.
//
// mp3, flac and Ogg (Opus or Vorbis) streams are decoded in process. HLS,
// AAC and unclassified streams are decoded by an ffmpeg subprocess.
type StreamBackend struct {
	cfg      Config
	client   *http.Client
	resolver *stream.Resolver
	out      *output
}

// NewStreamBackend creates a backend.
func NewStreamBackend(cfg Config) *StreamBackend {
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{}
	}
	if cfg.BufferingAfter <= 0 {
		cfg.BufferingAfter = defaultBufferingAfter
	}
	if cfg.Clock == nil {
		cfg.Clock = clockwork.NewRealClock()
	}
	return &StreamBackend{
		cfg:      cfg,
		client:   cfg.HTTPClient,
		resolver: stream.NewResolver(cfg.HTTPClient, cfg.UserAgent),
		out:      &output{},
	}
}

// Attach creates a decoder for src. Adaptive sources start loading their
// manifest immediately and emit EventManifestReady once it is usable.
func (b *StreamBackend) Attach(src Source, emit func(Event)) (Decoder, error) {
	if src.URL == "" {
		return nil, errors.New("attach: empty stream url")
	}

	ctx, cancel := context.WithCancel(context.Background())
	d := &streamDecoder{
		b:      b,
		src:    src,
		input:  src.URL,
		emit:   emit,
		ctx:    ctx,
		cancel: cancel,
		volume: 1,
		log:    b.cfg.Logger.With().Str("url", src.URL).Str("kind", src.Kind.String()).Logger(),
	}
	if src.Kind.IsAdaptive() {
		go d.loadManifest()
	}
	return d, nil
}

type streamDecoder struct {
	b    *StreamBackend
	src  Source
	emit func(Event)
	log  zerolog.Logger

	// ctx lives until Close.
	ctx    context.Context
	cancel context.CancelFunc

	mu            sync.Mutex
	state         pipelineState
	closed        bool
	manifestReady bool
	input         string
	volume        float64
	stopPipeline  context.CancelFunc
	queue         *sampleQueue
}

func (d *streamDecoder) send(e Event) {
	if d.ctx.Err() != nil {
		return
	}
	d.emit(e)
}

func (d *streamDecoder) loadManifest() {
	m, err := stream.InspectManifest(d.ctx, d.b.client, d.b.cfg.UserAgent, d.src.URL)
	if err != nil {
		if d.ctx.Err() != nil {
			return
		}
		d.log.Warn().Err(err).Msg("manifest load failed")
		d.send(classifyManifestError(err))
		return
	}

	d.mu.Lock()
	if m.Master {
		d.input = m.VariantURL
	}
	d.manifestReady = true
	d.mu.Unlock()

	d.log.Debug().Bool("master", m.Master).Int("segments", m.Segments).Msg("manifest ready")
	d.send(ManifestReadyEvent())
}

func classifyManifestError(err error) Event {
	var statusErr *stream.StatusError
	switch {
	case errors.As(err, &statusErr):
		return ErrorEvent(err, ClassNetwork, statusErr.Permanent())
	case errors.Is(err, stream.ErrInvalidManifest), errors.Is(err, stream.ErrEmptyManifest):
		return ErrorEvent(err, ClassMedia, true)
	default:
		return ErrorEvent(err, ClassNetwork, false)
	}
}

// Play starts the pipeline. It fails when the decoder is closed, when an
// adaptive manifest is not loaded yet, or when the audio output cannot start.
func (d *streamDecoder) Play(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	// A canceled request must not start the pipeline after a Pause that
	// already ran while it was idle.
	if err := ctx.Err(); err != nil {
		return err
	}
	if d.closed {
		return ErrDecoderClosed
	}
	if d.state.running() {
		return nil
	}
	if d.src.Kind.IsAdaptive() && !d.manifestReady {
		return errors.New("play: manifest not loaded")
	}
	if err := d.b.out.init(); err != nil {
		return fmt.Errorf("audio output: %w", err)
	}
	d.startLocked()
	return nil
}

func (d *streamDecoder) startLocked() {
	pctx, stop := context.WithCancel(d.ctx)
	q := newSampleQueue(queueCapacity)
	d.stopPipeline = stop
	d.queue = q
	d.state = pipelineRunning
	d.b.out.attach(q)
	d.b.out.setVolume(d.volume)

	input := d.input
	go d.run(pctx, input, q)
}

func (d *streamDecoder) stopLocked() {
	if d.stopPipeline != nil {
		d.stopPipeline()
		d.stopPipeline = nil
	}
	if d.queue != nil {
		d.b.out.detach(d.queue)
		d.queue = nil
	}
}

// Pause drops the connection. Playing again reconnects at the live edge.
func (d *streamDecoder) Pause() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.state.running() {
		return
	}
	d.stopLocked()
	d.state = pipelinePaused
}

func (d *streamDecoder) SetVolume(level float64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.volume = clampLevel(level)
	if d.state.running() {
		d.b.out.setVolume(d.volume)
	}
}

// Recover reloads the source in place: the manifest if it never loaded,
// otherwise the running pipeline.
func (d *streamDecoder) Recover(_ context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return ErrDecoderClosed
	}
	if d.src.Kind.IsAdaptive() && !d.manifestReady {
		go d.loadManifest()
		return nil
	}
	if d.state.running() {
		d.stopLocked()
		d.startLocked()
	}
	return nil
}

// Close stops the pipeline without waiting for it to unwind.
func (d *streamDecoder) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return nil
	}
	d.closed = true
	d.stopLocked()
	d.cancel()
	d.state = pipelineIdle
	return nil
}

func (d *streamDecoder) run(ctx context.Context, input string, q *sampleQueue) {
	d.log.Debug().Str("input", input).Msg("pipeline started")
	err := d.pump(ctx, input, q)
	if ctx.Err() != nil {
		return
	}
	if err == nil || errors.Is(err, io.EOF) {
		d.log.Debug().Msg("stream ended")
		d.send(EndedEvent())
		return
	}
	d.log.Warn().Err(err).Msg("pipeline failed")
	d.send(classifyPipelineError(err))
}

// pump connects, decodes and feeds q until the source ends or ctx is done.
func (d *streamDecoder) pump(ctx context.Context, input string, q *sampleQueue) error {
	wctx, stopWatch := context.WithCancel(ctx)
	defer stopWatch()

	streamer, format, closeSrc, err := d.open(ctx, wctx, input)
	if err != nil {
		return err
	}
	defer closeSrc()

	var s beep.Streamer = streamer
	if format.SampleRate != outputSampleRate {
		s = beep.Resample(4, format.SampleRate, outputSampleRate, streamer)
	}

	for {
		chunk := make([][2]float64, chunkSize)
		n, ok := s.Stream(chunk)
		if n > 0 {
			if err := q.push(ctx, chunk[:n]); err != nil {
				return err
			}
		}
		if !ok {
			if err := streamer.Err(); err != nil {
				return err
			}
			return io.EOF
		}
	}
}

// open returns a streamer for input and a func releasing every resource it
// holds. The watchdog runs until wctx is done.
func (d *streamDecoder) open(ctx, wctx context.Context, input string) (beep.Streamer, beep.Format, func(), error) {
	watch := func(r io.Reader) io.Reader {
		w := newWatchdog(r, d.send, d.b.cfg.Clock, d.b.cfg.BufferingAfter)
		go w.run(wctx)
		return w
	}

	if d.src.Kind.IsAdaptive() {
		proc, err := startFFmpeg(ctx, d.b.cfg.FFmpegPath, input, "", d.b.cfg.UserAgent, nil)
		if err != nil {
			return nil, beep.Format{}, nil, err
		}
		pcm := newPCMStreamer(watch(proc), 2)
		return &ffmpegStreamer{pcmStreamer: pcm, proc: proc}, pcmFormat(), func() { _ = proc.Close() }, nil
	}

	resolved, err := d.b.resolver.Resolve(ctx, input, d.src.Kind)
	if err != nil {
		return nil, beep.Format{}, nil, err
	}
	body, contentType, err := d.get(ctx, resolved.URL)
	if err != nil {
		return nil, beep.Format{}, nil, err
	}

	kind := resolved.Kind
	if kind == stream.KindUnknown {
		kind = stream.KindFromContentType(contentType)
	}
	r := watch(body)
	d.log.Debug().Str("resolved", resolved.URL).Str("decoder", kind.String()).Msg("source opened")

	decode, native := nativeDecoders[kind]
	if !native {
		inputFormat := ""
		if kind == stream.KindAAC {
			inputFormat = "aac"
		}
		proc, perr := startFFmpeg(ctx, d.b.cfg.FFmpegPath, "pipe:0", inputFormat, "", r)
		if perr != nil {
			body.Close()
			return nil, beep.Format{}, nil, perr
		}
		pcm := newPCMStreamer(proc, 2)
		release := func() {
			body.Close()
			_ = proc.Close()
		}
		return &ffmpegStreamer{pcmStreamer: pcm, proc: proc}, pcmFormat(), release, nil
	}
	streamer, format, err := decode(r)
	if err != nil {
		body.Close()
		return nil, beep.Format{}, nil, &decodeError{err: err}
	}
	return streamer, format, func() { body.Close() }, nil
}

func (d *streamDecoder) get(ctx context.Context, rawURL string) (io.ReadCloser, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, http.NoBody)
	if err != nil {
		return nil, "", fmt.Errorf("create request: %w", err)
	}
	if d.b.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", d.b.cfg.UserAgent)
	}

	resp, err := d.b.client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("http request: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, "", &stream.StatusError{Code: resp.StatusCode, Status: resp.Status}
	}
	return resp.Body, resp.Header.Get("Content-Type"), nil
}

func pcmFormat() beep.Format {
	return beep.Format{SampleRate: outputSampleRate, NumChannels: 2, Precision: 2}
}

// ffmpegStreamer reports ffmpeg's exit failure when its output ends.
type ffmpegStreamer struct {
	*pcmStreamer
	proc *ffmpegProcess
}

func (s *ffmpegStreamer) Err() error {
	if err := s.pcmStreamer.Err(); err != nil {
		return err
	}
	return s.proc.Failure()
}

// decodeError marks a source that was reached but could not be decoded.
type decodeError struct {
	err error
}

func (e *decodeError) Error() string { return "decode: " + e.err.Error() }

func (e *decodeError) Unwrap() error { return e.err }

func classifyPipelineError(err error) Event {
	var (
		statusErr *stream.StatusError
		decodeErr *decodeError
		netErr    net.Error
	)
	switch {
	case errors.Is(err, ErrFFmpegNotFound):
		return ErrorEvent(err, ClassOther, true)
	case errors.As(err, &statusErr):
		return ErrorEvent(err, ClassNetwork, statusErr.Permanent())
	case errors.As(err, &decodeErr):
		return ErrorEvent(err, ClassMedia, true)
	case errors.As(err, &netErr), errors.Is(err, io.ErrUnexpectedEOF):
		return ErrorEvent(err, ClassNetwork, false)
	default:
		return ErrorEvent(err, ClassMedia, false)
	}
}
