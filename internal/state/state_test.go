package state

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/llehouerou/airwaves/internal/alarm"
	"github.com/llehouerou/airwaves/internal/catalog"
	"github.com/llehouerou/airwaves/internal/health"
	"github.com/llehouerou/airwaves/internal/verify"
)

// setupTestManager opens an in-memory database with the schema initialized.
func setupTestManager(t *testing.T) *Manager {
	t.Helper()

	m, err := OpenPath(":memory:")
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	t.Cleanup(func() { m.Close() })
	return m
}

var (
	jazz = catalog.Station{ID: "jazz-1", Name: "Jazz FM", URL: "http://jazz.example/live.mp3", Tags: "jazz,smooth"}
	rock = catalog.Station{ID: "rock-1", Name: "Rock Radio", URL: "http://rock.example/stream.aac"}
)

func TestInitSchema_Idempotent(t *testing.T) {
	m := setupTestManager(t)

	if err := initSchema(m.db); err != nil {
		t.Fatalf("second initSchema failed: %v", err)
	}

	var version int
	if err := m.db.QueryRow(`SELECT MAX(version) FROM schema_version`).Scan(&version); err != nil {
		t.Fatalf("read version: %v", err)
	}
	if version != currentSchemaVersion {
		t.Errorf("version = %d, want %d", version, currentSchemaVersion)
	}
}

func TestOpenPath_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "airwaves.db")

	m, err := OpenPath(path)
	if err != nil {
		t.Fatalf("OpenPath failed: %v", err)
	}
	if _, err := m.AddFavorite(jazz); err != nil {
		t.Fatalf("AddFavorite failed: %v", err)
	}
	if err := m.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	m, err = OpenPath(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer m.Close()
	fav, err := m.IsFavorite(jazz.ID)
	if err != nil || !fav {
		t.Errorf("IsFavorite after reopen = %v, %v; want true", fav, err)
	}
}

func TestSettings_DefaultsAndRoundTrip(t *testing.T) {
	m := setupTestManager(t)

	s, err := getSettings(m.db)
	if err != nil {
		t.Fatalf("getSettings failed: %v", err)
	}
	if s.Volume != 1.0 || s.LastStation != nil {
		t.Errorf("defaults = %+v, want volume 1 and no station", s)
	}

	if err := saveSettings(m.db, Settings{Volume: 0.35, LastStation: &jazz}); err != nil {
		t.Fatalf("saveSettings failed: %v", err)
	}
	s, err = getSettings(m.db)
	if err != nil {
		t.Fatalf("getSettings failed: %v", err)
	}
	if s.Volume != 0.35 {
		t.Errorf("Volume = %v, want 0.35", s.Volume)
	}
	if s.LastStation == nil || s.LastStation.ID != jazz.ID || s.LastStation.Tags != jazz.Tags {
		t.Errorf("LastStation = %+v, want %+v", s.LastStation, jazz)
	}
}

func TestSaveSettings_DebouncedAndFlushedOnClose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "airwaves.db")
	m, err := OpenPath(path)
	if err != nil {
		t.Fatalf("OpenPath failed: %v", err)
	}

	m.SaveSettings(Settings{Volume: 0.2})
	m.SaveSettings(Settings{Volume: 0.6})

	s, err := m.GetSettings()
	if err != nil {
		t.Fatalf("GetSettings failed: %v", err)
	}
	if s.Volume != 0.6 {
		t.Errorf("pending Volume = %v, want 0.6", s.Volume)
	}

	if err := m.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	m, err = OpenPath(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer m.Close()
	s, err = m.GetSettings()
	if err != nil {
		t.Fatalf("GetSettings failed: %v", err)
	}
	if s.Volume != 0.6 {
		t.Errorf("flushed Volume = %v, want 0.6", s.Volume)
	}
}

func TestSaveSettings_WritesAfterQuietPeriod(t *testing.T) {
	clock := clockwork.NewFakeClock()
	m, err := openWithClock(":memory:", clock)
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	t.Cleanup(func() { m.Close() })

	m.SaveSettings(Settings{Volume: 0.3})
	clock.Advance(saveDebounce / 2)
	m.SaveSettings(Settings{Volume: 0.7})
	clock.Advance(saveDebounce / 2)
	if s, _ := getSettings(m.db); s != nil && s.Volume == 0.7 {
		t.Fatal("settings written before the quiet period ended")
	}

	clock.Advance(saveDebounce)
	deadline := time.Now().Add(time.Second)
	for {
		s, err := getSettings(m.db)
		if err == nil && s.Volume == 0.7 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("settings not written after the quiet period: %+v, %v", s, err)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestHealth_RoundTripThroughRegistry(t *testing.T) {
	m := setupTestManager(t)

	reg := health.NewRegistry(m)
	if err := reg.RecordSuccess(jazz.ID); err != nil {
		t.Fatalf("RecordSuccess failed: %v", err)
	}
	if err := reg.RecordSuccess(jazz.ID); err != nil {
		t.Fatalf("RecordSuccess failed: %v", err)
	}
	if err := reg.RecordFailure(rock.ID); err != nil {
		t.Fatalf("RecordFailure failed: %v", err)
	}

	reloaded := health.NewRegistry(m)
	if err := reloaded.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got := reloaded.Get(jazz.ID); got.Success != 2 || got.Fail != 0 || got.LastPlayedAt.IsZero() {
		t.Errorf("jazz record = %+v, want 2 successes with a play time", got)
	}
	if got := reloaded.Status(jazz.ID); got != health.StatusGood {
		t.Errorf("jazz status = %v, want good", got)
	}
	if got := reloaded.Get(rock.ID); got.Fail != 1 || !got.LastPlayedAt.IsZero() {
		t.Errorf("rock record = %+v, want 1 failure and no play time", got)
	}
}

func TestFavorites(t *testing.T) {
	m := setupTestManager(t)
	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	calls := 0
	m.now = func() time.Time {
		calls++
		return base.Add(time.Duration(calls) * time.Minute)
	}

	fav, err := m.AddFavorite(jazz)
	if err != nil {
		t.Fatalf("AddFavorite failed: %v", err)
	}
	if len(fav.ID) != 36 {
		t.Errorf("favorite ID = %q, want a uuid", fav.ID)
	}

	if _, err := m.AddFavorite(jazz); !errors.Is(err, ErrAlreadyFavorite) {
		t.Errorf("duplicate AddFavorite error = %v, want ErrAlreadyFavorite", err)
	}
	if _, err := m.AddFavorite(rock); err != nil {
		t.Fatalf("AddFavorite failed: %v", err)
	}

	favs, err := m.ListFavorites()
	if err != nil {
		t.Fatalf("ListFavorites failed: %v", err)
	}
	if len(favs) != 2 || favs[0].Station.ID != rock.ID || favs[1].Station.ID != jazz.ID {
		t.Fatalf("ListFavorites = %+v, want rock then jazz", favs)
	}
	if favs[1].Station.URL != jazz.URL {
		t.Errorf("station URL = %q, want %q", favs[1].Station.URL, jazz.URL)
	}

	if err := m.RemoveFavorite(jazz.ID); err != nil {
		t.Fatalf("RemoveFavorite failed: %v", err)
	}
	if err := m.RemoveFavorite(jazz.ID); !errors.Is(err, ErrFavoriteNotFound) {
		t.Errorf("second RemoveFavorite error = %v, want ErrFavoriteNotFound", err)
	}
	if ok, _ := m.IsFavorite(jazz.ID); ok {
		t.Error("IsFavorite after remove = true")
	}
}

func TestToggleFavorite(t *testing.T) {
	m := setupTestManager(t)

	on, err := m.ToggleFavorite(jazz)
	if err != nil || !on {
		t.Fatalf("first toggle = %v, %v; want true", on, err)
	}
	on, err = m.ToggleFavorite(jazz)
	if err != nil || on {
		t.Fatalf("second toggle = %v, %v; want false", on, err)
	}
}

func TestHistory_DedupOrderAndLimit(t *testing.T) {
	m := setupTestManager(t)
	m.SetHistoryLimit(3)
	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	stations := []catalog.Station{
		{ID: "s1", Name: "One"},
		{ID: "s2", Name: "Two"},
		{ID: "s3", Name: "Three"},
	}
	for i, st := range stations {
		if err := m.AddHistory(st, base.Add(time.Duration(i)*time.Minute)); err != nil {
			t.Fatalf("AddHistory failed: %v", err)
		}
	}
	// Replaying s1 moves it to the top.
	if err := m.AddHistory(stations[0], base.Add(10*time.Minute)); err != nil {
		t.Fatalf("AddHistory failed: %v", err)
	}
	if err := m.AddHistory(catalog.Station{ID: "s4", Name: "Four"}, base.Add(11*time.Minute)); err != nil {
		t.Fatalf("AddHistory failed: %v", err)
	}

	entries, err := m.ListHistory()
	if err != nil {
		t.Fatalf("ListHistory failed: %v", err)
	}
	var ids []string
	for _, e := range entries {
		ids = append(ids, e.Station.ID)
	}
	want := []string{"s4", "s1", "s3"}
	if len(ids) != len(want) {
		t.Fatalf("history = %v, want %v", ids, want)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("history = %v, want %v", ids, want)
		}
	}
	if !entries[1].PlayedAt.Equal(base.Add(10 * time.Minute)) {
		t.Errorf("s1 PlayedAt = %v, want replay time", entries[1].PlayedAt)
	}

	if err := m.ClearHistory(); err != nil {
		t.Fatalf("ClearHistory failed: %v", err)
	}
	if entries, _ := m.ListHistory(); len(entries) != 0 {
		t.Errorf("history after clear = %d entries", len(entries))
	}
}

func TestAlarm_RoundTrip(t *testing.T) {
	m := setupTestManager(t)

	cfg, err := m.LoadAlarm()
	if err != nil {
		t.Fatalf("LoadAlarm failed: %v", err)
	}
	if cfg.Enabled || cfg.Station != nil {
		t.Errorf("default alarm = %+v, want disabled", cfg)
	}

	want := alarm.Config{Time: "06:45", Enabled: true, Station: &jazz}
	if err := m.SaveAlarm(want); err != nil {
		t.Fatalf("SaveAlarm failed: %v", err)
	}
	cfg, err = m.LoadAlarm()
	if err != nil {
		t.Fatalf("LoadAlarm failed: %v", err)
	}
	if cfg.Time != "06:45" || !cfg.Enabled || cfg.Station == nil || cfg.Station.ID != jazz.ID {
		t.Errorf("LoadAlarm = %+v, want %+v", cfg, want)
	}

	if err := m.SaveAlarm(alarm.Config{Time: "6:45", Enabled: true, Station: &jazz}); !errors.Is(err, alarm.ErrInvalidTime) {
		t.Errorf("SaveAlarm bad time error = %v, want ErrInvalidTime", err)
	}
	if err := m.SaveAlarm(alarm.Config{Time: "06:45"}); err != nil {
		t.Fatalf("SaveAlarm disabled failed: %v", err)
	}
	cfg, _ = m.LoadAlarm()
	if cfg.Enabled || cfg.Station != nil {
		t.Errorf("LoadAlarm after disable = %+v", cfg)
	}
}

func TestLiveStatus_CacheAndPurge(t *testing.T) {
	m := setupTestManager(t)
	checked := time.Date(2026, 1, 2, 3, 4, 5, 6, time.UTC)

	if _, ok, err := m.GetLiveStatus(jazz.ID); err != nil || ok {
		t.Fatalf("GetLiveStatus on empty cache = %v, %v", ok, err)
	}

	r := verify.Result{ID: jazz.ID, IsLive: true, Reason: verify.ReasonICY, ContentType: "audio/mpeg", CheckedAt: checked}
	if err := m.PutLiveStatus(r); err != nil {
		t.Fatalf("PutLiveStatus failed: %v", err)
	}
	got, ok, err := m.GetLiveStatus(jazz.ID)
	if err != nil || !ok {
		t.Fatalf("GetLiveStatus = %v, %v", ok, err)
	}
	if got.ID != r.ID || got.IsLive != r.IsLive || got.Reason != r.Reason ||
		got.ContentType != r.ContentType || !got.CheckedAt.Equal(checked) {
		t.Errorf("GetLiveStatus = %+v, want %+v", got, r)
	}

	n, err := m.PurgeLiveStatus(checked.Add(time.Second))
	if err != nil || n != 1 {
		t.Fatalf("PurgeLiveStatus = %d, %v; want 1", n, err)
	}
	if _, ok, _ := m.GetLiveStatus(jazz.ID); ok {
		t.Error("entry survived purge")
	}
}

func TestMock_FavoritesAndHistory(t *testing.T) {
	m := NewMock()

	if _, err := m.AddFavorite(jazz); err != nil {
		t.Fatalf("AddFavorite failed: %v", err)
	}
	if _, err := m.AddFavorite(jazz); !errors.Is(err, ErrAlreadyFavorite) {
		t.Errorf("duplicate error = %v", err)
	}
	if err := m.RemoveFavorite(rock.ID); !errors.Is(err, ErrFavoriteNotFound) {
		t.Errorf("missing remove error = %v", err)
	}

	now := time.Now()
	_ = m.AddHistory(jazz, now)
	_ = m.AddHistory(rock, now.Add(time.Second))
	_ = m.AddHistory(jazz, now.Add(2*time.Second))
	entries, _ := m.ListHistory()
	if len(entries) != 2 || entries[0].Station.ID != jazz.ID {
		t.Errorf("history = %+v, want jazz first of 2", entries)
	}
}
