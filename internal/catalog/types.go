package catalog

import "strings"

// Station is a radio-browser station record.
type Station struct {
	ID          string `json:"stationuuid"`
	Name        string `json:"name"`
	URL         string `json:"url"`
	URLResolved string `json:"url_resolved"`
	Homepage    string `json:"homepage"`
	Favicon     string `json:"favicon"`
	Country     string `json:"country"`
	CountryCode string `json:"countrycode"`
	State       string `json:"state"`
	Language    string `json:"language"`
	Tags        string `json:"tags"`
	Codec       string `json:"codec"`
	Bitrate     int    `json:"bitrate"`
	Votes       int    `json:"votes"`
	ClickCount  int    `json:"clickcount"`
}

// StreamURL returns the resolved URL when present, the raw URL otherwise.
func (s Station) StreamURL() string {
	if s.URLResolved != "" {
		return s.URLResolved
	}
	return s.URL
}

// TagList splits the comma-separated tag field.
func (s Station) TagList() []string {
	if s.Tags == "" {
		return nil
	}
	parts := strings.Split(s.Tags, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			tags = append(tags, p)
		}
	}
	return tags
}

// Country is a radio-browser country with its station count.
type Country struct {
	Name         string `json:"name"`
	Code         string `json:"iso_3166_1"`
	StationCount int    `json:"stationcount"`
}

// Tag is a radio-browser tag with its station count.
type Tag struct {
	Name         string `json:"name"`
	StationCount int    `json:"stationcount"`
}

// Podcast is an iTunes podcast search result.
type Podcast struct {
	ID         int64  `json:"collectionId"`
	Name       string `json:"collectionName"`
	Artist     string `json:"artistName"`
	FeedURL    string `json:"feedUrl"`
	ArtworkURL string `json:"artworkUrl600"`
	Genre      string `json:"primaryGenreName"`
}

// Query holds station search filters. Zero fields are omitted.
type Query struct {
	Name        string
	Country     string
	CountryCode string
	Tag         string
	Limit       int
	Offset      int
}
