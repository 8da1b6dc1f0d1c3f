package stream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/grafov/m3u8"
)

var (
	// ErrEmptyManifest is returned for an HLS manifest without variants or segments.
	ErrEmptyManifest = errors.New("hls manifest has no variants or segments")
	// ErrInvalidManifest is returned when the body is not an HLS manifest.
	ErrInvalidManifest = errors.New("invalid hls manifest")
)

// Manifest summarizes an HLS manifest.
type Manifest struct {
	// Master is true for a multivariant playlist.
	Master bool
	// VariantURL is the highest-bandwidth variant of a master playlist,
	// resolved against the manifest URL.
	VariantURL string
	// Segments is the segment count of a media playlist.
	Segments int
}

// DecodeManifest parses an HLS manifest body.
func DecodeManifest(baseURL string, r io.Reader) (Manifest, error) {
	playlist, listType, err := m3u8.DecodeFrom(r, false)
	if err != nil {
		return Manifest{}, fmt.Errorf("%w: %w", ErrInvalidManifest, err)
	}

	switch listType {
	case m3u8.MASTER:
		master, ok := playlist.(*m3u8.MasterPlaylist)
		if !ok {
			return Manifest{}, ErrEmptyManifest
		}
		var best *m3u8.Variant
		for _, v := range master.Variants {
			if v == nil || v.URI == "" {
				continue
			}
			if best == nil || v.Bandwidth > best.Bandwidth {
				best = v
			}
		}
		if best == nil {
			return Manifest{}, ErrEmptyManifest
		}
		variant, err := absoluteURL(baseURL, best.URI)
		if err != nil {
			return Manifest{}, fmt.Errorf("variant url: %w", err)
		}
		return Manifest{Master: true, VariantURL: variant}, nil

	case m3u8.MEDIA:
		media, ok := playlist.(*m3u8.MediaPlaylist)
		if !ok {
			return Manifest{}, ErrEmptyManifest
		}
		count := 0
		for _, seg := range media.Segments {
			if seg != nil {
				count++
			}
		}
		if count == 0 {
			return Manifest{}, ErrEmptyManifest
		}
		return Manifest{Segments: count}, nil
	}

	return Manifest{}, ErrEmptyManifest
}

// InspectManifest fetches and decodes the HLS manifest at rawURL.
func InspectManifest(ctx context.Context, client *http.Client, userAgent, rawURL string) (Manifest, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, http.NoBody)
	if err != nil {
		return Manifest{}, fmt.Errorf("create request: %w", err)
	}
	if userAgent != "" {
		req.Header.Set("User-Agent", userAgent)
	}

	resp, err := client.Do(req)
	if err != nil {
		return Manifest{}, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Manifest{}, &StatusError{Code: resp.StatusCode, Status: resp.Status}
	}

	return DecodeManifest(rawURL, io.LimitReader(resp.Body, maxPlaylistSize))
}

// StatusError reports a non-200 HTTP response from a stream endpoint.
type StatusError struct {
	Code   int
	Status string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status: %s", e.Status)
}

// Permanent reports whether retrying the same URL is pointless.
func (e *StatusError) Permanent() bool {
	switch e.Code {
	case http.StatusUnauthorized, http.StatusForbidden, http.StatusNotFound, http.StatusGone:
		return true
	}
	return false
}
