// Package headerbar renders the single-line view switcher at the top.
package headerbar

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/llehouerou/airwaves/internal/icons"
	"github.com/llehouerou/airwaves/internal/ui/styles"
)

// Height is the fixed height of the header bar (single line).
const Height = 1

// View identifies a station list view.
type View string

const (
	ViewTop       View = "top"
	ViewFavorites View = "favorites"
	ViewHistory   View = "history"
	ViewSearch    View = "search"
)

type tab struct {
	key  string
	name string
	view View
}

var tabs = []tab{
	{"1", "Top", ViewTop},
	{"2", "Favorites", ViewFavorites},
	{"3", "History", ViewHistory},
}

// State is what the header shows.
type State struct {
	View   View
	Region string // selected region or country, "" for worldwide
	Genre  string // "" for all genres
	Query  string // active search query, shown in ViewSearch
	Alarm  string // "HH:MM" when the wake alarm is armed
}

// Render returns the header bar string for the given width.
func Render(s State, width int) string {
	if width < 20 {
		return ""
	}
	t := styles.T()
	activeStyle := lipgloss.NewStyle().Foreground(t.Primary).Bold(true)

	parts := make([]string, 0, len(tabs)+1)
	for _, tb := range tabs {
		if tb.view == s.View {
			parts = append(parts, activeStyle.Render(tb.key+" "+tb.name))
			continue
		}
		parts = append(parts, t.S().Muted.Render(tb.key)+" "+t.S().Base.Render(tb.name))
	}
	if s.View == ViewSearch {
		parts = append(parts, activeStyle.Render("/ "+s.Query))
	}
	brand := styles.Gradient("airwaves", t.Primary, t.Secondary)
	if r := icons.Current().Radio; r != "" {
		brand = r + " " + brand
	}
	left := " " + brand + "  " + strings.Join(parts, t.S().Subtle.Render(" │ "))

	right := filterLabel(s)
	if s.Alarm != "" {
		right += "  " + icons.Alarm() + " " + s.Alarm
	}
	right = t.S().Muted.Render(right) + " "

	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		return ansi.Truncate(left, width, "")
	}
	return left + strings.Repeat(" ", gap) + right
}

func filterLabel(s State) string {
	region := s.Region
	if region == "" {
		region = "Worldwide"
	}
	genre := s.Genre
	if genre == "" {
		genre = "all genres"
	}
	return region + " · " + genre
}
