// Package verify checks whether station streams are live by probing the
// first bytes of each stream.
package verify

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/errgroup"

	"github.com/llehouerou/airwaves/internal/stream"
)

// Probe reasons.
const (
	ReasonICY           = "icy_stream"
	ReasonHLS           = "hls_playlist"
	ReasonPlaylist      = "playlist"
	ReasonValidAudio    = "valid_audio"
	ReasonBinaryAudio   = "binary_audio"
	ReasonNotAudio      = "not_audio"
	ReasonTimeout       = "timeout"
	ReasonConnectFailed = "connect_failed"
)

const (
	// MaxBatch is the largest batch VerifyBatch processes; extra targets are dropped.
	MaxBatch = 50

	DefaultTimeout     = 8 * time.Second
	DefaultConcurrency = 8
	DefaultUserAgent   = "airwaves/1.0"

	sniffSize = 4096
)

// Target is a station to verify.
type Target struct {
	ID          string
	URL         string
	URLResolved string
}

func (t Target) streamURL() string {
	if t.URLResolved != "" {
		return t.URLResolved
	}
	return t.URL
}

// Result is the outcome of one probe.
type Result struct {
	ID          string    `json:"stationuuid"`
	IsLive      bool      `json:"is_live"`
	Reason      string    `json:"reason"`
	ContentType string    `json:"content_type,omitempty"`
	CheckedAt   time.Time `json:"checked_at"`
}

// Cache stores recent results. The state package provides a SQLite one.
type Cache interface {
	GetLiveStatus(id string) (Result, bool, error)
	PutLiveStatus(r Result) error
}

// Verifier probes streams.
type Verifier struct {
	client      *http.Client
	userAgent   string
	timeout     time.Duration
	concurrency int
	clock       clockwork.Clock
	cache       Cache
	cacheTTL    time.Duration
}

// Option configures a Verifier.
type Option func(*Verifier)

// WithHTTPClient sets the HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(v *Verifier) { v.client = c }
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(v *Verifier) { v.userAgent = ua }
}

// WithTimeout sets the per-probe timeout.
func WithTimeout(d time.Duration) Option {
	return func(v *Verifier) {
		if d > 0 {
			v.timeout = d
		}
	}
}

// WithConcurrency sets how many probes a batch runs at once.
func WithConcurrency(n int) Option {
	return func(v *Verifier) {
		if n > 0 {
			v.concurrency = n
		}
	}
}

// WithClock sets the clock used for CheckedAt and cache expiry.
func WithClock(c clockwork.Clock) Option {
	return func(v *Verifier) { v.clock = c }
}

// WithCache serves batch results younger than ttl from c.
func WithCache(c Cache, ttl time.Duration) Option {
	return func(v *Verifier) {
		v.cache = c
		v.cacheTTL = ttl
	}
}

// New creates a verifier.
func New(opts ...Option) *Verifier {
	v := &Verifier{
		client:      &http.Client{},
		userAgent:   DefaultUserAgent,
		timeout:     DefaultTimeout,
		concurrency: DefaultConcurrency,
		clock:       clockwork.NewRealClock(),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Probe fetches the start of a stream and decides whether it is live audio.
func (v *Verifier) Probe(ctx context.Context, rawURL string) (res Result) {
	res = Result{Reason: ReasonNotAudio}
	defer func() { res.CheckedAt = v.clock.Now() }()

	ctx, cancel := context.WithTimeout(ctx, v.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		res.Reason = "error:" + err.Error()
		return res
	}
	req.Header.Set("User-Agent", v.userAgent)
	req.Header.Set("Icy-MetaData", "1")

	resp, err := v.client.Do(req)
	if err != nil {
		res.Reason = failureReason(ctx, err)
		return res
	}
	defer resp.Body.Close()

	res.ContentType = resp.Header.Get("Content-Type")
	if resp.StatusCode >= http.StatusBadRequest {
		res.Reason = fmt.Sprintf("http_%d", resp.StatusCode)
		return res
	}

	if hasICYHeaders(resp.Header) {
		res.IsLive = true
		res.Reason = ReasonICY
		return res
	}

	kind := stream.KindFromContentType(res.ContentType)
	if kind == stream.KindUnknown && stream.Classify(rawURL).IsAdaptive() {
		kind = stream.KindHLS
	}
	switch {
	case kind.IsAdaptive():
		res.IsLive = true
		res.Reason = ReasonHLS
		return res
	case kind.IsPlaylist():
		res.IsLive = true
		res.Reason = ReasonPlaylist
		return res
	}

	head := make([]byte, sniffSize)
	n, err := io.ReadFull(resp.Body, head)
	if n == 0 && err != nil && !errors.Is(err, io.EOF) {
		res.Reason = failureReason(ctx, err)
		return res
	}
	head = head[:n]

	ct := strings.ToLower(res.ContentType)
	switch {
	case strings.HasPrefix(ct, "text/html"):
		res.Reason = ReasonNotAudio
	case hasAudioSignature(head):
		res.IsLive = true
		res.Reason = ReasonValidAudio
	case (strings.HasPrefix(ct, "audio/") || strings.Contains(ct, "octet-stream") || strings.Contains(ct, "ogg")) &&
		n > 0 && isBinary(head):
		res.IsLive = true
		res.Reason = ReasonBinaryAudio
	default:
		res.Reason = ReasonNotAudio
	}
	return res
}

// VerifyBatch probes up to MaxBatch targets concurrently. Targets without an
// id or url are skipped. Results keep the input order.
func (v *Verifier) VerifyBatch(ctx context.Context, targets []Target) []Result {
	valid := make([]Target, 0, min(len(targets), MaxBatch))
	for _, t := range targets {
		if t.ID == "" || t.streamURL() == "" {
			continue
		}
		valid = append(valid, t)
		if len(valid) == MaxBatch {
			break
		}
	}

	results := make([]Result, len(valid))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(v.concurrency)
	for i, t := range valid {
		if r, ok := v.cached(t.ID); ok {
			results[i] = r
			continue
		}
		g.Go(func() error {
			r := v.Probe(gctx, t.streamURL())
			r.ID = t.ID
			results[i] = r
			if v.cache != nil {
				// Cache errors only cost a re-probe later.
				_ = v.cache.PutLiveStatus(r)
			}
			return nil
		})
	}
	_ = g.Wait()
	return results
}

func (v *Verifier) cached(id string) (Result, bool) {
	if v.cache == nil || v.cacheTTL <= 0 {
		return Result{}, false
	}
	r, ok, err := v.cache.GetLiveStatus(id)
	if err != nil || !ok {
		return Result{}, false
	}
	if v.clock.Since(r.CheckedAt) > v.cacheTTL {
		return Result{}, false
	}
	return r, true
}

func failureReason(ctx context.Context, err error) string {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return ReasonTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ReasonTimeout
	}
	var opErr *net.OpError
	var dnsErr *net.DNSError
	if errors.As(err, &opErr) || errors.As(err, &dnsErr) {
		return ReasonConnectFailed
	}
	return "error:" + err.Error()
}

func hasICYHeaders(h http.Header) bool {
	for key := range h {
		if strings.HasPrefix(strings.ToLower(key), "icy-") {
			return true
		}
	}
	return false
}

// hasAudioSignature matches the magic bytes of the formats radio streams use.
func hasAudioSignature(b []byte) bool {
	switch {
	case bytes.HasPrefix(b, []byte("ID3")),
		bytes.HasPrefix(b, []byte("OggS")),
		bytes.HasPrefix(b, []byte("fLaC")):
		return true
	}
	// MPEG audio frame sync or ADTS, anywhere in the first bytes since
	// streams are joined mid-frame.
	for i := 0; i+1 < len(b); i++ {
		if b[i] != 0xFF {
			continue
		}
		next := b[i+1]
		if next&0xE0 == 0xE0 && next&0x18 != 0x08 && next&0x06 != 0 {
			return true // MPEG 1/2/2.5 layer I-III
		}
		if next&0xF6 == 0xF0 {
			return true // ADTS AAC
		}
	}
	return false
}

// isBinary reports whether b looks like binary data rather than text.
func isBinary(b []byte) bool {
	if len(b) == 0 {
		return false
	}
	nonText := 0
	for _, c := range b {
		if c == 0 || (c < 0x20 && c != '\n' && c != '\r' && c != '\t') || c > 0x7E {
			nonText++
		}
	}
	return nonText*10 > len(b)
}
