// Package notify sends freedesktop desktop notifications for station
// changes, the wake alarm and the sleep timer.
package notify

// Urgency is the freedesktop urgency level.
type Urgency byte

const (
	UrgencyLow      Urgency = 0
	UrgencyNormal   Urgency = 1
	UrgencyCritical Urgency = 2
)

// Categories tag notifications so notification daemons can group or
// filter them.
const (
	CategoryNowPlaying = "x-airwaves.now-playing"
	CategoryAlarm      = "x-airwaves.alarm"
	CategorySleep      = "x-airwaves.sleep"
)

// Notification is one desktop notification.
type Notification struct {
	Title      string
	Body       string
	Icon       string // file path or themed icon name
	Timeout    int32  // ms; -1 is the server default, 0 never expires
	ReplacesID uint32 // id of a notification to update in place
	Urgency    Urgency
	Category   string
	Transient  bool // skip the daemon's history
}

// Notifier sends desktop notifications.
type Notifier interface {
	// Notify returns the notification id, or 0 when notifications are
	// unavailable.
	Notify(n Notification) (uint32, error)
	Close(id uint32) error
}

// NowPlaying announces a newly tuned station. It replaces the previous
// now-playing notification when replaces is non-zero.
func NowPlaying(station, summary, icon string, replaces uint32) Notification {
	return Notification{
		Title:      station,
		Body:       summary,
		Icon:       iconOr(icon, "audio-x-generic"),
		Timeout:    5000,
		ReplacesID: replaces,
		Urgency:    UrgencyLow,
		Category:   CategoryNowPlaying,
		Transient:  true,
	}
}

// AlarmFired announces that the wake alarm started a station.
func AlarmFired(station string) Notification {
	return Notification{
		Title:    "Wake alarm",
		Body:     "Now playing " + station,
		Icon:     "alarm-symbolic",
		Timeout:  -1,
		Urgency:  UrgencyNormal,
		Category: CategoryAlarm,
	}
}

// SleepExpired announces that the sleep timer paused playback.
func SleepExpired() Notification {
	return Notification{
		Title:    "Sleep timer",
		Body:     "Playback paused",
		Icon:     "media-playback-pause",
		Timeout:  -1,
		Urgency:  UrgencyLow,
		Category: CategorySleep,
	}
}

func iconOr(icon, fallback string) string {
	if icon == "" {
		return fallback
	}
	return icon
}

// nopNotifier drops every notification.
type nopNotifier struct{}

func (nopNotifier) Notify(Notification) (uint32, error) { return 0, nil }
func (nopNotifier) Close(uint32) error                  { return nil }
