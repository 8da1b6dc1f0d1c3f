// Package catalog provides a client for the radio-browser.info station
// directory and the iTunes podcast search.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"
)

var (
	// ErrUpstream is returned when the directory service fails or answers with
	// a non-200 status.
	ErrUpstream = errors.New("upstream directory error")
	// ErrInvalidRegion is returned for a region name that is not recognized.
	ErrInvalidRegion = errors.New("invalid region")
)

const (
	// DefaultBaseURL is the radio-browser mirror used when none is configured.
	DefaultBaseURL = "https://de1.api.radio-browser.info/json"
	// DefaultUserAgent identifies the client to radio-browser.
	DefaultUserAgent = "airwaves/1.0 (https://github.com/llehouerou/airwaves)"

	podcastSearchURL = "https://itunes.apple.com/search"

	// MaxLimit caps the number of stations returned by one request.
	MaxLimit     = 200
	defaultLimit = 50

	regionCountries       = 10
	regionStationsPerCode = 10
	countriesLimit        = 100
	tagsLimit             = 100
)

// Client is a radio-browser API client.
type Client struct {
	httpClient *http.Client
	baseURL    string
	podcastURL string
	userAgent  string
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the radio-browser endpoint.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.baseURL = strings.TrimRight(u, "/")
		}
	}
}

// WithPodcastURL overrides the podcast search endpoint.
func WithPodcastURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.podcastURL = u
		}
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// New creates a new catalog client.
func New(opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    DefaultBaseURL,
		podcastURL: podcastSearchURL,
		userAgent:  DefaultUserAgent,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

func popularParams(limit int) url.Values {
	params := url.Values{}
	params.Set("order", "clickcount")
	params.Set("reverse", "true")
	params.Set("hidebroken", "true")
	params.Set("limit", strconv.Itoa(clampLimit(limit)))
	return params
}

// Search returns stations matching the query, most clicked first.
func (c *Client) Search(ctx context.Context, q Query) ([]Station, error) {
	params := popularParams(q.Limit)
	if q.Name != "" {
		params.Set("name", q.Name)
	}
	if q.Country != "" {
		params.Set("country", q.Country)
	}
	if q.CountryCode != "" {
		params.Set("countrycode", strings.ToUpper(q.CountryCode))
	}
	if q.Tag != "" {
		params.Set("tag", q.Tag)
	}
	if q.Offset > 0 {
		params.Set("offset", strconv.Itoa(q.Offset))
	}

	var stations []Station
	if err := c.get(ctx, c.baseURL+"/stations/search", params, &stations); err != nil {
		return nil, err
	}
	return stations, nil
}

// Top returns the most clicked stations.
func (c *Client) Top(ctx context.Context, limit int) ([]Station, error) {
	var stations []Station
	if err := c.get(ctx, c.baseURL+"/stations/search", popularParams(limit), &stations); err != nil {
		return nil, err
	}
	return stations, nil
}

// ByCountry returns the most clicked stations of a country code.
func (c *Client) ByCountry(ctx context.Context, code string, limit int) ([]Station, error) {
	return c.Search(ctx, Query{CountryCode: code, Limit: limit})
}

// ByGenre returns the most clicked stations carrying a tag.
func (c *Client) ByGenre(ctx context.Context, genre string, limit int) ([]Station, error) {
	return c.Search(ctx, Query{Tag: genre, Limit: limit})
}

// ByRegion merges the top stations of the first countries of a region,
// sorted by click count and capped at limit. Countries that fail are skipped.
func (c *Client) ByRegion(ctx context.Context, region string, limit int) ([]Station, error) {
	codes, ok := RegionCountries(strings.ToLower(region))
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrInvalidRegion, region)
	}
	if len(codes) > regionCountries {
		codes = codes[:regionCountries]
	}

	var all []Station
	var lastErr error
	for _, code := range codes {
		stations, err := c.ByCountry(ctx, code, regionStationsPerCode)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			lastErr = err
			continue
		}
		all = append(all, stations...)
	}
	if len(all) == 0 && lastErr != nil {
		return nil, lastErr
	}

	sort.SliceStable(all, func(i, j int) bool {
		return all[i].ClickCount > all[j].ClickCount
	})
	if limit = clampLimit(limit); len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

// Countries returns the countries with the most stations.
func (c *Client) Countries(ctx context.Context) ([]Country, error) {
	params := url.Values{}
	params.Set("order", "stationcount")
	params.Set("reverse", "true")
	params.Set("hidebroken", "true")

	var countries []Country
	if err := c.get(ctx, c.baseURL+"/countries", params, &countries); err != nil {
		return nil, err
	}
	if len(countries) > countriesLimit {
		countries = countries[:countriesLimit]
	}
	return countries, nil
}

// Tags returns the most used station tags.
func (c *Client) Tags(ctx context.Context) ([]Tag, error) {
	params := url.Values{}
	params.Set("order", "stationcount")
	params.Set("reverse", "true")
	params.Set("hidebroken", "true")
	params.Set("limit", strconv.Itoa(tagsLimit))

	var tags []Tag
	if err := c.get(ctx, c.baseURL+"/tags", params, &tags); err != nil {
		return nil, err
	}
	return tags, nil
}

// SearchPodcasts queries the iTunes directory for podcasts.
func (c *Client) SearchPodcasts(ctx context.Context, term string, limit int) ([]Podcast, error) {
	params := url.Values{}
	params.Set("term", term)
	params.Set("media", "podcast")
	params.Set("limit", strconv.Itoa(clampLimit(limit)))

	var result struct {
		Results []Podcast `json:"results"`
	}
	if err := c.get(ctx, c.podcastURL, params, &result); err != nil {
		return nil, err
	}
	return result.Results, nil
}

func (c *Client) get(ctx context.Context, endpoint string, params url.Values, out any) error {
	reqURL := endpoint
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: unexpected status: %s", ErrUpstream, resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode response: %w", ErrUpstream, err)
	}
	return nil
}
