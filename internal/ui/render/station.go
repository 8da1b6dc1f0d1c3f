package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// Bitrate formats a bitrate in kbps, or "" when unknown.
func Bitrate(kbps int) string {
	if kbps <= 0 {
		return ""
	}
	return fmt.Sprintf("%d kbps", kbps)
}

// Codec returns a short upper-case codec label, "?" when unknown.
func Codec(codec string) string {
	codec = strings.TrimSpace(codec)
	if codec == "" || strings.EqualFold(codec, "unknown") {
		return "?"
	}
	return strings.ToUpper(codec)
}

// Clicks formats a click count with thousands separators.
func Clicks(n int) string {
	return humanize.Comma(int64(n))
}

// Ago formats t relative to now ("3 minutes ago"). The zero time is "never".
func Ago(t, now time.Time) string {
	if t.IsZero() {
		return "never"
	}
	return humanize.RelTime(t, now, "ago", "from now")
}

// Countdown formats a remaining duration as m:ss, or h:mm:ss above an hour.
func Countdown(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	d = d.Round(time.Second)
	h := int(d / time.Hour)
	m := int(d%time.Hour) / int(time.Minute)
	s := int(d%time.Minute) / int(time.Second)
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}
