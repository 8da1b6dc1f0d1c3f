package stream

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePlaylist_PLS(t *testing.T) {
	body := `[playlist]
numberofentries=2
File1=https://ice1.somafm.com/groovesalad-128-mp3
Title1=SomaFM: Groove Salad
Length1=-1
File2=https://ice2.somafm.com/groovesalad-128-mp3
Version=2
`
	entries, err := ParsePlaylist(KindPLS, strings.NewReader(body))
	require.NoError(t, err)
	assert.Equal(t, []string{
		"https://ice1.somafm.com/groovesalad-128-mp3",
		"https://ice2.somafm.com/groovesalad-128-mp3",
	}, entries)
}

func TestParsePlaylist_M3U(t *testing.T) {
	body := "#EXTM3U\n#EXTINF:-1,Radio\n\nhttp://stream.example.com/live.mp3\n"
	entries, err := ParsePlaylist(KindM3U, strings.NewReader(body))
	require.NoError(t, err)
	assert.Equal(t, []string{"http://stream.example.com/live.mp3"}, entries)
}

func TestParsePlaylist_ASX(t *testing.T) {
	body := `<ASX version="3.0">
  <Title>Radio</Title>
  <Entry>
    <Ref HREF="http://stream.example.com/Live.AAC?Token=AbC" />
  </Entry>
</ASX>`
	entries, err := ParsePlaylist(KindASX, strings.NewReader(body))
	require.NoError(t, err)
	assert.Equal(t, []string{"http://stream.example.com/Live.AAC?Token=AbC"}, entries)
}

func TestParsePlaylist_Empty(t *testing.T) {
	_, err := ParsePlaylist(KindM3U, strings.NewReader("#EXTM3U\n"))
	assert.ErrorIs(t, err, ErrEmptyPlaylist)
}

func TestParsePlaylist_NotPlaylist(t *testing.T) {
	_, err := ParsePlaylist(KindMP3, strings.NewReader("x"))
	assert.Error(t, err)
}

func TestResolver_FollowsPLS(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "airwaves-test", r.Header.Get("User-Agent"))
		fmt.Fprint(w, "[playlist]\nFile1=/live/stream.mp3\n")
	}))
	defer srv.Close()

	r := NewResolver(srv.Client(), "airwaves-test")
	got, err := r.Resolve(context.Background(), srv.URL+"/radio.pls", KindPLS)
	require.NoError(t, err)
	assert.Equal(t, srv.URL+"/live/stream.mp3", got.URL)
	assert.Equal(t, KindMP3, got.Kind)
}

func TestResolver_NonPlaylistUnchanged(t *testing.T) {
	r := NewResolver(nil, "")
	got, err := r.Resolve(context.Background(), "http://example.com/a.ogg", KindOgg)
	require.NoError(t, err)
	assert.Equal(t, Resolved{URL: "http://example.com/a.ogg", Kind: KindOgg}, got)
}

func TestResolver_NestingLimit(t *testing.T) {
	var srvURL string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprintf(w, "%s/again.m3u\n", srvURL)
	}))
	defer srv.Close()
	srvURL = srv.URL

	r := NewResolver(srv.Client(), "")
	_, err := r.Resolve(context.Background(), srv.URL+"/start.m3u", KindM3U)
	assert.ErrorContains(t, err, "nesting too deep")
}

func TestResolver_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	r := NewResolver(srv.Client(), "")
	_, err := r.Resolve(context.Background(), srv.URL+"/gone.pls", KindPLS)
	assert.ErrorContains(t, err, "404")
}

func TestDecodeManifest_MasterPicksHighestBandwidth(t *testing.T) {
	body := `#EXTM3U
#EXT-X-STREAM-INF:BANDWIDTH=64000,CODECS="mp4a.40.5"
low/index.m3u8
#EXT-X-STREAM-INF:BANDWIDTH=128000,CODECS="mp4a.40.2"
high/index.m3u8
`
	m, err := DecodeManifest("https://cdn.example.com/live/master.m3u8", strings.NewReader(body))
	require.NoError(t, err)
	assert.True(t, m.Master)
	assert.Equal(t, "https://cdn.example.com/live/high/index.m3u8", m.VariantURL)
}

func TestDecodeManifest_Media(t *testing.T) {
	body := `#EXTM3U
#EXT-X-VERSION:3
#EXT-X-TARGETDURATION:10
#EXT-X-MEDIA-SEQUENCE:100
#EXTINF:10.0,
seg100.aac
#EXTINF:10.0,
seg101.aac
`
	m, err := DecodeManifest("https://cdn.example.com/live/index.m3u8", strings.NewReader(body))
	require.NoError(t, err)
	assert.False(t, m.Master)
	assert.Equal(t, 2, m.Segments)
}

func TestDecodeManifest_Garbage(t *testing.T) {
	_, err := DecodeManifest("https://x/y.m3u8", strings.NewReader("<html>nope</html>"))
	assert.Error(t, err)
}

func TestInspectManifest_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	_, err := InspectManifest(context.Background(), srv.Client(), "", srv.URL+"/x.m3u8")
	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusForbidden, statusErr.Code)
	assert.True(t, statusErr.Permanent())
}
