// Package icons provides the glyphs used in station lists and the player bar,
// in nerd-font, unicode or plain ASCII flavors.
package icons

// Style represents the icon style to use.
type Style string

const (
	StyleNerd    Style = "nerd"
	StyleUnicode Style = "unicode"
	StyleNone    Style = "none"
)

// Icons holds the icon characters for the current style.
type Icons struct {
	Radio      string
	Favorite   string
	Playing    string
	Paused     string
	Loading    string
	Stalled    string
	Error      string
	Sleep      string
	Alarm      string
	Volume     string
	VolumeMute string
	Live       string
	Dead       string
}

var (
	nerdIcons = Icons{
		Radio:      "󰐹", // nf-md-radio
		Favorite:   "󰣐", // nf-md-heart
		Playing:    "", // nf-fa-play
		Paused:     "", // nf-fa-pause
		Loading:    "󰔟", // nf-md-timer_sand
		Stalled:    "󰤭", // nf-md-wifi_strength_alert_outline
		Error:      "", // nf-fa-warning
		Sleep:      "󰒲", // nf-md-sleep
		Alarm:      "󰀠", // nf-md-alarm
		Volume:     "󰕾", // nf-md-volume_high
		VolumeMute: "󰝟", // nf-md-volume_mute
		Live:       "", // nf-fa-circle
		Dead:       "", // nf-fa-times
	}

	unicodeIcons = Icons{
		Radio:      "📻",
		Favorite:   "♥",
		Playing:    "▶",
		Paused:     "⏸",
		Loading:    "⏳",
		Stalled:    "⚠",
		Error:      "✖",
		Sleep:      "☾",
		Alarm:      "⏰",
		Volume:     "🔊",
		VolumeMute: "🔇",
		Live:       "●",
		Dead:       "○",
	}

	noneIcons = Icons{
		Radio:      "",
		Favorite:   "*",
		Playing:    ">",
		Paused:     "||",
		Loading:    "..",
		Stalled:    "~",
		Error:      "!",
		Sleep:      "z",
		Alarm:      "@",
		Volume:     "vol",
		VolumeMute: "mute",
		Live:       "+",
		Dead:       "x",
	}

	// current holds the active icon set
	current = noneIcons
)

// Init initializes the icons based on the style.
// Call this once at startup with the config value.
func Init(style string) {
	switch Style(style) {
	case StyleNerd:
		current = nerdIcons
	case StyleUnicode:
		current = unicodeIcons
	case StyleNone:
		current = noneIcons
	default:
		current = noneIcons
	}
}

// Current returns the active icon set.
func Current() Icons {
	return current
}

// FormatStation prefixes a station name with the radio icon, if the style has one.
func FormatStation(name string) string {
	if current.Radio == "" {
		return name
	}
	return current.Radio + " " + name
}

// Favorite returns the favorite/heart icon.
func Favorite() string {
	return current.Favorite
}

// Volume returns the volume icon.
func Volume() string {
	return current.Volume
}

// VolumeMute returns the muted volume icon.
func VolumeMute() string {
	return current.VolumeMute
}

// Sleep returns the sleep timer icon.
func Sleep() string {
	return current.Sleep
}

// Alarm returns the wake alarm icon.
func Alarm() string {
	return current.Alarm
}
