package stream

import (
	"bufio"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ErrEmptyPlaylist is returned when a playlist holds no usable entry.
var ErrEmptyPlaylist = errors.New("playlist has no entries")

// maxPlaylistSize bounds how much of a playlist response is read.
const maxPlaylistSize = 256 << 10

// ParsePlaylist extracts entry URLs from a PLS, M3U or ASX playlist.
// Entries are returned in file order.
func ParsePlaylist(kind Kind, r io.Reader) ([]string, error) {
	var (
		entries []string
		err     error
	)
	switch kind {
	case KindPLS:
		entries, err = parsePLS(r)
	case KindM3U:
		entries, err = parseM3U(r)
	case KindASX:
		entries, err = parseASX(r)
	default:
		return nil, fmt.Errorf("not a playlist kind: %s", kind)
	}
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, ErrEmptyPlaylist
	}
	return entries, nil
}

// parsePLS reads FileN= entries of a PLS playlist.
func parsePLS(r io.Reader) ([]string, error) {
	var entries []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		if strings.HasPrefix(strings.ToLower(key), "file") && value != "" {
			entries = append(entries, strings.TrimSpace(value))
		}
	}
	return entries, scanner.Err()
}

// parseM3U reads non-comment lines of an M3U playlist.
func parseM3U(r io.Reader) ([]string, error) {
	var entries []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		entries = append(entries, line)
	}
	return entries, scanner.Err()
}

type asxDocument struct {
	Entries []struct {
		Refs []struct {
			Href string `xml:"href,attr"`
		} `xml:"ref"`
	} `xml:"entry"`
}

// parseASX reads <entry><ref href=""/></entry> items. ASX files in the wild
// use any tag case, so the document is lowercased before decoding.
func parseASX(r io.Reader) ([]string, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxPlaylistSize))
	if err != nil {
		return nil, err
	}
	dec := xml.NewDecoder(strings.NewReader(lowerTags(string(data))))
	dec.Strict = false
	dec.AutoClose = xml.HTMLAutoClose

	var doc asxDocument
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("parse asx: %w", err)
	}

	var entries []string
	for _, e := range doc.Entries {
		for _, ref := range e.Refs {
			if ref.Href != "" {
				entries = append(entries, strings.TrimSpace(ref.Href))
			}
		}
	}
	return entries, nil
}

// lowerTags lowercases element and attribute names while keeping attribute
// values (URLs) untouched.
func lowerTags(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	inTag, inValue := false, false
	var quote byte
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case inValue:
			if c == quote {
				inValue = false
			}
		case inTag && (c == '"' || c == '\''):
			inValue, quote = true, c
		case c == '<':
			inTag = true
		case c == '>':
			inTag = false
		case inTag && c >= 'A' && c <= 'Z':
			c += 'a' - 'A'
		}
		b.WriteByte(c)
	}
	return b.String()
}

// Resolved is a playlist entry ready for decoding.
type Resolved struct {
	URL  string
	Kind Kind
}

// Resolver follows playlist URLs to concrete stream URLs.
type Resolver struct {
	httpClient *http.Client
	userAgent  string
}

// NewResolver creates a resolver using the given client.
// A nil client gets a 10 second timeout default.
func NewResolver(client *http.Client, userAgent string) *Resolver {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &Resolver{httpClient: client, userAgent: userAgent}
}

// Resolve returns the first entry of the playlist at rawURL. Non-playlist
// kinds are returned unchanged. Nested playlists are followed up to depth 3.
func (r *Resolver) Resolve(ctx context.Context, rawURL string, kind Kind) (Resolved, error) {
	for depth := 0; kind.IsPlaylist(); depth++ {
		if depth == 3 {
			return Resolved{}, fmt.Errorf("resolve %s: playlist nesting too deep", rawURL)
		}
		entries, err := r.fetch(ctx, rawURL, kind)
		if err != nil {
			return Resolved{}, fmt.Errorf("resolve %s: %w", rawURL, err)
		}
		next, err := absoluteURL(rawURL, entries[0])
		if err != nil {
			return Resolved{}, fmt.Errorf("resolve %s: %w", rawURL, err)
		}
		rawURL = next
		kind = Classify(rawURL)
	}
	return Resolved{URL: rawURL, Kind: kind}, nil
}

func (r *Resolver) fetch(ctx context.Context, rawURL string, kind Kind) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if r.userAgent != "" {
		req.Header.Set("User-Agent", r.userAgent)
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{Code: resp.StatusCode, Status: resp.Status}
	}

	return ParsePlaylist(kind, io.LimitReader(resp.Body, maxPlaylistSize))
}

func absoluteURL(base, ref string) (string, error) {
	b, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	r, err := url.Parse(ref)
	if err != nil {
		return "", err
	}
	return b.ResolveReference(r).String(), nil
}
