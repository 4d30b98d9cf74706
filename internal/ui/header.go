package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/five82/spoolfinder/internal/state"
)

const logoText = "spoolfinder"

// renderHeader renders the status bar: data phase, record count, source and
// load time.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	compact := m.width < LayoutCompactWidth

	parts := []string{bg.Render(logoText, styles.Logo)}

	s := m.session
	switch s.Phase {
	case state.PhaseLoading:
		parts = append(parts, bg.Render("● LOADING", styles.WarningText.Bold(true)))
	case state.PhaseLoadFailed:
		parts = append(parts, bg.Render("● LOAD FAILED", styles.DangerText))
	case state.PhasePopulated:
		parts = append(parts, bg.Render("● READY", styles.SuccessText))
		parts = append(parts,
			bg.Render("Spools:", styles.MutedText)+bg.Space()+
				bg.Render(humanize.Comma(int64(s.Collection.Len())), styles.Text))
		if s.Source != "" {
			parts = append(parts,
				bg.Render("via", styles.MutedText)+bg.Space()+
					bg.Render(truncate(s.Source, 24), styles.InfoText))
		}
		if stamp := m.formatLoadTime(compact); stamp != "" {
			parts = append(parts, bg.Render(stamp, styles.MutedText))
		}
		if m.lastLoad.failed > 0 && !compact {
			parts = append(parts, bg.Render(
				fmt.Sprintf("%d %s failed", m.lastLoad.failed, plural(m.lastLoad.failed, "source", "sources")),
				styles.WarningText))
		}
	default:
		parts = append(parts, bg.Render("● IDLE", styles.MutedText))
	}

	if m.screen == ScreenAdmin {
		parts = append(parts, bg.Render("ADMIN", styles.AccentText.Bold(true)))
	} else {
		parts = append(parts,
			bg.Render("Mode:", styles.MutedText)+bg.Space()+
				bg.Render(s.Mode.String(), styles.AccentText))
	}

	return styles.Header.Width(m.width).Render(bg.Join(parts, "  "))
}

// formatLoadTime formats when the data was loaded and how long it took.
func (m Model) formatLoadTime(compact bool) string {
	if m.lastLoad.at.IsZero() {
		return ""
	}
	stamp := m.lastLoad.at.Format("15:04:05")
	if compact || m.lastLoad.duration <= 0 {
		return stamp
	}
	return fmt.Sprintf("%s (%s)", stamp, m.lastLoad.duration.Round(10*time.Millisecond))
}

// renderCommandBar renders the key hints for the active screen.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	type cmd struct{ key, desc string }
	var commands []cmd

	switch {
	case m.screen == ScreenAdmin:
		commands = []cmd{
			{"enter", "Refresh"},
			{"ctrl+p", "Ping"},
			{"ctrl+l", "Logs"},
			{"esc", "Back"},
		}
	case m.session.Mode == state.ModeSelector:
		commands = []cmd{
			{"↑/↓", "Move"},
			{"enter", "Select"},
			{"tab", "Column"},
			{"⌫", "Clear"},
			{"ctrl+t", "Typeahead"},
			{"r", "Reload"},
			{"a", "Admin"},
			{"?", "More"},
		}
	case m.typing:
		commands = []cmd{
			{"enter", "Lookup"},
			{"↑/↓", "Suggestions"},
			{"tab", "Field"},
			{"esc", "Leave input"},
			{"ctrl+t", "Selector"},
			{"ctrl+r", "Reload"},
		}
	default:
		commands = []cmd{
			{"/", "Search"},
			{"tab", "Field"},
			{"ctrl+t", "Selector"},
			{"r", "Reload"},
			{"a", "Admin"},
			{"?", "More"},
		}
	}

	colon := bg.Sep(":")
	segments := make([]string, 0, len(commands)+1)
	for _, c := range commands {
		segments = append(segments,
			bg.Render(c.key, styles.AccentText)+colon+bg.Render(c.desc, styles.MutedText))
	}

	segments = append(segments,
		bg.Render("T", styles.AccentText)+colon+bg.Render(m.theme.Name, styles.FaintText))

	return styles.Header.Width(m.width).Render(strings.Join(segments, bg.Spaces(2)))
}

// renderContent renders the area below the two header lines.
func (m Model) renderContent() string {
	height := m.contentHeight()
	if m.screen == ScreenAdmin {
		return m.renderAdmin(height)
	}
	return m.renderSearchScreen(height)
}

func (m Model) contentHeight() int {
	h := m.height - 2
	if h < 3 {
		return 3
	}
	return h
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
