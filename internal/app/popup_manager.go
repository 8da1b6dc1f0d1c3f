package app

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/airwaves/internal/alarm"
	"github.com/llehouerou/airwaves/internal/catalog"
	"github.com/llehouerou/airwaves/internal/ui/alarmform"
	"github.com/llehouerou/airwaves/internal/ui/helpbindings"
	"github.com/llehouerou/airwaves/internal/ui/popup"
	"github.com/llehouerou/airwaves/internal/ui/prompt"
)

// PopupType identifies which popup is currently active.
type PopupType int

const (
	PopupNone PopupType = iota
	PopupHelp
	PopupSearch
	PopupAlarm
	PopupPodcasts
	PopupError
)

// PopupManager owns the modal popups. At most one is shown at a time and
// an error notice hides whichever is open until dismissed.
type PopupManager struct {
	help   helpbindings.Model
	prompt prompt.Model
	alarm    alarmform.Model
	podcasts popup.Notice
	active   PopupType
	notice   *popup.Notice

	width  int
	height int
}

// NewPopupManager creates a PopupManager with initialized components.
func NewPopupManager() PopupManager {
	return PopupManager{
		help:   helpbindings.New(),
		prompt: prompt.New(),
		alarm:  alarmform.New(),
	}
}

// SetSize updates the dimensions for popup rendering.
func (p *PopupManager) SetSize(width, height int) {
	p.width, p.height = width, height
	if cur, _ := p.current(); cur != nil {
		cur.SetSize(width, height)
	}
}

// ActivePopup returns which popup is shown.
func (p *PopupManager) ActivePopup() PopupType {
	if p.notice != nil {
		return PopupError
	}
	return p.active
}

func (p *PopupManager) current() (popup.Popup, popup.SizeConfig) {
	switch p.ActivePopup() {
	case PopupError:
		return p.notice, popup.SizeAuto
	case PopupHelp:
		return &p.help, popup.SizeLarge
	case PopupSearch:
		return &p.prompt, popup.SizeAuto
	case PopupAlarm:
		return &p.alarm, popup.SizeAuto
	case PopupPodcasts:
		return &p.podcasts, popup.SizeAuto
	case PopupNone:
	}
	return nil, popup.SizeConfig{}
}

// ShowHelp displays the help popup with the given contexts.
func (p *PopupManager) ShowHelp(contexts []string) {
	p.help.SetContexts(contexts)
	p.help.SetSize(p.width, p.height)
	p.active = PopupHelp
}

// ShowSearch opens the search prompt, prefilled with the last query.
func (p *PopupManager) ShowSearch(query string) {
	p.prompt.Start("Search stations", query, prompt.PurposeSearch, p.width, p.height)
	p.active = PopupSearch
}

// ShowPodcastSearch opens the podcast search prompt.
func (p *PopupManager) ShowPodcastSearch(term string) {
	p.prompt.Start("Search podcasts", term, prompt.PurposePodcasts, p.width, p.height)
	p.active = PopupSearch
}

// ShowPodcasts lists podcast search results until the next key press.
func (p *PopupManager) ShowPodcasts(term string, podcasts []catalog.Podcast) {
	lines := make([]string, 0, len(podcasts))
	for _, pc := range podcasts {
		line := pc.Name
		var about []string
		for _, s := range []string{pc.Artist, pc.Genre} {
			if s != "" {
				about = append(about, s)
			}
		}
		if len(about) > 0 {
			line += "\n  " + strings.Join(about, " · ")
		}
		lines = append(lines, line)
	}
	p.podcasts = popup.Notice{
		Title: fmt.Sprintf("Podcasts matching %q", term),
		Body:  strings.Join(lines, "\n"),
		Info:  true,
	}
	p.podcasts.SetSize(p.width, p.height)
	p.active = PopupPodcasts
}

// ShowAlarm opens the alarm editor.
func (p *PopupManager) ShowAlarm(cfg alarm.Config, candidate *catalog.Station) {
	p.alarm.Start(cfg, candidate, p.width, p.height)
	p.active = PopupAlarm
}

// Hide closes the active popup.
func (p *PopupManager) Hide() {
	if p.active == PopupSearch {
		p.prompt.Reset()
	}
	p.active = PopupNone
}

// ShowError opens an error notice over everything else.
func (p *PopupManager) ShowError(msg string) {
	p.notice = &popup.Notice{Title: "Error", Body: msg}
	p.notice.SetSize(p.width, p.height)
}

// ErrorMsg returns the text of the open error notice, if any.
func (p *PopupManager) ErrorMsg() string {
	if p.notice == nil {
		return ""
	}
	return p.notice.Body
}

// HandleKey routes a key to the shown popup and reports whether one
// consumed it. Any key dismisses an error notice or the podcast list.
func (p *PopupManager) HandleKey(msg tea.KeyMsg) (bool, tea.Cmd) {
	if p.notice != nil {
		p.notice = nil
		return true, nil
	}
	if p.active == PopupPodcasts {
		p.active = PopupNone
		return true, nil
	}
	cur, _ := p.current()
	if cur == nil {
		return false, nil
	}
	_, cmd := cur.Update(msg)
	return true, cmd
}

// RenderOverlay draws the shown popup over base.
func (p *PopupManager) RenderOverlay(base string) string {
	cur, size := p.current()
	if cur == nil {
		return base
	}
	box := popup.RenderBordered(cur.View(), p.width, p.height, size)
	return popup.Compose(base, box, p.width)
}
