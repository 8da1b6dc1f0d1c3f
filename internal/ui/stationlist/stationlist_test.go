package stationlist

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/airwaves/internal/catalog"
	"github.com/llehouerou/airwaves/internal/health"
	"github.com/llehouerou/airwaves/internal/icons"
	"github.com/llehouerou/airwaves/internal/keymap"
	"github.com/llehouerou/airwaves/internal/playback"
	"github.com/llehouerou/airwaves/internal/ui/testutil"
	"github.com/llehouerou/airwaves/internal/verify"
)

func rows(n int) []Row {
	out := make([]Row, n)
	for i := range out {
		out[i] = Row{Station: catalog.Station{
			ID:      fmt.Sprintf("st-%d", i),
			Name:    fmt.Sprintf("Station %d", i),
			Codec:   "MP3",
			Bitrate: 128,
		}}
	}
	return out
}

func newList(n int) Model {
	icons.Init("none")
	m := New()
	m.SetTitle("Top stations")
	m.SetSize(100, 20)
	m.SetFocused(true)
	m.SetRows(rows(n))
	return m
}

func TestUpdate_SelectPlays(t *testing.T) {
	m := newList(5)
	m.Update(keymap.ActionMoveDown)
	m.Update(keymap.ActionMoveDown)

	msg, ok := testutil.ActionOf(m.Update(keymap.ActionSelect))
	require.True(t, ok)
	assert.Equal(t, "stationlist", msg.Source)
	play, ok := msg.Action.(Play)
	require.True(t, ok)
	assert.Equal(t, "st-2", play.Station.ID)
}

func TestUpdate_ToggleFavoriteCarriesState(t *testing.T) {
	m := newList(3)
	m.SetFavorite("st-0", true)

	msg, ok := testutil.ActionOf(m.Update(keymap.ActionToggleFavorite))
	require.True(t, ok)
	fav, ok := msg.Action.(ToggleFavorite)
	require.True(t, ok)
	assert.Equal(t, "st-0", fav.Station.ID)
	assert.True(t, fav.Favorite)
}

func TestUpdate_VerifyVisibleWindow(t *testing.T) {
	m := newList(100)
	msg, ok := testutil.ActionOf(m.Update(keymap.ActionVerify))
	require.True(t, ok)
	v, ok := msg.Action.(Verify)
	require.True(t, ok)
	assert.Len(t, v.Stations, m.VisibleRows())
	assert.Equal(t, "st-0", v.Stations[0].ID)
}

func TestUpdate_EmptyListEmitsNothing(t *testing.T) {
	m := newList(0)
	for _, a := range []keymap.Action{keymap.ActionSelect, keymap.ActionToggleFavorite, keymap.ActionVerify, keymap.ActionClear} {
		assert.Nil(t, m.Update(a), a)
	}
}

func TestUpdate_ClearOnlyInHistory(t *testing.T) {
	m := newList(3)
	assert.Nil(t, m.Update(keymap.ActionClear))

	m.SetHistoryMode(true)
	msg, ok := testutil.ActionOf(m.Update(keymap.ActionClear))
	require.True(t, ok)
	assert.IsType(t, ClearHistory{}, msg.Action)
}

func TestUpdate_NavigationConsumesKeys(t *testing.T) {
	m := newList(50)
	assert.Nil(t, m.Update(keymap.ActionJumpEnd))
	row, ok := m.Selected()
	require.True(t, ok)
	assert.Equal(t, "st-49", row.Station.ID)

	m.Update(keymap.ActionJumpStart)
	assert.Equal(t, 0, m.SelectedIndex())
}

func TestSetRowsKeepsSelectedStation(t *testing.T) {
	m := newList(10)
	m.Update(keymap.ActionMoveDown)
	m.Update(keymap.ActionMoveDown)

	refreshed := rows(10)[1:]
	m.SetRows(refreshed)
	row, ok := m.Selected()
	require.True(t, ok)
	assert.Equal(t, "st-2", row.Station.ID)
	assert.Equal(t, 1, m.SelectedIndex())
}

func TestSetRowsResetsCursor(t *testing.T) {
	m := newList(10)
	m.Update(keymap.ActionJumpEnd)
	m.SetRows(rows(4))
	assert.Equal(t, 0, m.SelectedIndex())
	assert.Equal(t, 4, m.Len())
}

func TestSetLiveAndHealth(t *testing.T) {
	m := newList(3)
	m.SetLive([]verify.Result{{ID: "st-1", IsLive: true}, {ID: "st-2", IsLive: false}})
	m.SetHealth("st-1", health.StatusPoor)

	got := m.Rows()
	assert.Nil(t, got[0].Live)
	require.NotNil(t, got[1].Live)
	assert.True(t, got[1].Live.IsLive)
	require.NotNil(t, got[2].Live)
	assert.False(t, got[2].Live.IsLive)
	assert.Equal(t, health.StatusPoor, got[1].Health)
}

func TestView(t *testing.T) {
	m := newList(3)
	m.SetFavorite("st-1", true)
	m.SetHealth("st-1", health.StatusGood)
	m.SetLive([]verify.Result{{ID: "st-1", IsLive: true}, {ID: "st-2"}})
	m.SetCurrent("st-0", playback.PhasePlaying)

	view := testutil.StripANSI(m.View())
	assert.Contains(t, view, "Top stations")

	first := testutil.FindLine(view, "Station 0")
	assert.Contains(t, first, ">")
	assert.Contains(t, first, "MP3 128 kbps")

	second := testutil.FindLine(view, "Station 1")
	assert.Contains(t, second, "*")
	assert.Contains(t, second, "good")
	assert.Contains(t, second, "+")

	third := testutil.FindLine(view, "Station 2")
	assert.Contains(t, third, "x")

	for _, line := range testutil.SplitLines(view) {
		assert.LessOrEqual(t, testutil.MeasureWidth(line), 100)
	}
	assert.Len(t, testutil.SplitLines(m.View()), 20)
}

func TestView_States(t *testing.T) {
	m := newList(0)
	m.SetEmptyText("No favorites yet")
	assert.Contains(t, testutil.StripANSI(m.View()), "No favorites yet")

	m.SetLoading(true)
	assert.Contains(t, testutil.StripANSI(m.View()), "Loading")

	m.SetSize(0, 0)
	assert.Empty(t, m.View())
}

func TestView_HistoryShowsPlayedAt(t *testing.T) {
	m := newList(0)
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }
	m.SetHistoryMode(true)
	m.SetRows([]Row{{
		Station:  catalog.Station{ID: "a", Name: "Jazz FM"},
		PlayedAt: now.Add(-3 * time.Minute),
	}})

	line := testutil.FindLine(testutil.StripANSI(m.View()), "Jazz FM")
	assert.Contains(t, line, "3 minutes ago")
}
