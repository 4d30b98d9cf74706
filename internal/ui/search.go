package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/spoolfinder/internal/spool"
	"github.com/five82/spoolfinder/internal/state"
)

// searchLayout holds the pane geometry of the search screen.
type searchLayout struct {
	stacked      bool
	searchWidth  int
	searchHeight int
	detailWidth  int
	detailHeight int
}

func (m Model) searchLayout(height int) searchLayout {
	if m.width < LayoutCompactWidth {
		top := height / 2
		if top < 6 {
			top = min(6, height)
		}
		return searchLayout{
			stacked:      true,
			searchWidth:  m.width,
			searchHeight: top,
			detailWidth:  m.width,
			detailHeight: height - top,
		}
	}
	return searchLayout{
		searchWidth:  searchPaneWidth,
		searchHeight: height,
		detailWidth:  m.width - searchPaneWidth,
		detailHeight: height,
	}
}

// renderSearchScreen lays out the search pane next to (or above) the card.
func (m Model) renderSearchScreen(height int) string {
	l := m.searchLayout(height)

	title := "Search"
	if m.session.Mode == state.ModeSelector {
		title = "Browse"
	}
	var body string
	if m.session.Mode == state.ModeSelector {
		body = m.renderSelectors(l.searchWidth-4, l.searchHeight-2)
	} else {
		body = m.renderTypeahead(l.searchWidth - 4)
	}
	searchPane := m.renderTitledBox(title, body, l.searchWidth, l.searchHeight, m.searchFocused())
	detailPane := m.renderTitledBox(m.detailTitle(), m.detail.View(), l.detailWidth, l.detailHeight, false)

	if l.stacked {
		return lipgloss.JoinVertical(lipgloss.Left, searchPane, detailPane)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, searchPane, detailPane)
}

func (m Model) searchFocused() bool {
	return m.typing || m.session.Mode == state.ModeSelector
}

// renderTypeahead renders both inputs, each followed by its suggestions.
func (m Model) renderTypeahead(width int) string {
	bgColor := m.theme.SurfaceAlt
	if m.searchFocused() {
		bgColor = m.theme.FocusBg
	}
	styles := m.theme.Styles().WithBackground(bgColor)

	var lines []string
	for _, f := range []spool.Field{spool.FieldID, spool.FieldName} {
		in := m.inputs[f]
		in.Width = max(width-lipgloss.Width(in.Prompt)-1, 1)
		in.PromptStyle = styles.MutedText
		if f == m.session.Focus && m.typing {
			in.PromptStyle = styles.AccentText.Bold(true)
		}
		in.TextStyle = styles.Text
		in.PlaceholderStyle = styles.FaintText
		lines = append(lines, in.View())

		if f == m.session.SuggestField && len(m.session.Suggestions) > 0 {
			lines = append(lines, m.renderSuggestions(f, width, styles)...)
		}
		lines = append(lines, "")
	}

	if !m.session.Ready() {
		lines = append(lines, styles.FaintText.Render("Search is available once data is loaded"))
	} else if !m.typing {
		lines = append(lines, styles.FaintText.Render("Press / to search"))
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderSuggestions(field spool.Field, width int, styles Styles) []string {
	lines := make([]string, 0, len(m.session.Suggestions))
	for i, rec := range m.session.Suggestions {
		primary := rec.Value(field)
		secondary := rec.Value(field.Other())
		label := truncate(primary, width-2)
		if room := width - 2 - len([]rune(label)) - 2; room > 3 && secondary != "" {
			label += "  " + truncate(secondary, room)
		}
		row := padRight("  "+label, width)
		if i == m.session.Highlight {
			lines = append(lines, m.theme.Styles().Selected.Render(padRight("› "+label, width)))
			continue
		}
		lines = append(lines, styles.Text.Render(row))
	}
	return lines
}

// renderSelectors renders the exhaustive id and name lists.
func (m Model) renderSelectors(width, height int) string {
	styles := m.theme.Styles().WithBackground(m.theme.FocusBg)
	if !m.session.Ready() {
		return styles.FaintText.Render("Lists are available once data is loaded")
	}

	rows := (height - 4) / 2
	if rows > selectorVisibleRows {
		rows = selectorVisibleRows
	}
	if rows < 1 {
		rows = 1
	}

	var lines []string
	for _, f := range []spool.Field{spool.FieldID, spool.FieldName} {
		options := m.session.Collection.Options(f)
		header := fmt.Sprintf("%s (%d)", columnLabel(f), len(options))
		if f == m.session.Focus {
			lines = append(lines, styles.AccentText.Bold(true).Render("▸ "+header))
		} else {
			lines = append(lines, styles.MutedText.Render("  "+header))
		}
		lines = append(lines, m.renderOptions(f, options, width, rows, styles)...)
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderOptions(field spool.Field, options []spool.Option, width, rows int, styles Styles) []string {
	if len(options) == 0 {
		return []string{styles.FaintText.Render("  (empty)")}
	}
	start, end := window(m.cursor[field], len(options), rows)
	chosen := m.session.Selection.Get(field)

	lines := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		opt := options[i]
		mark := "  "
		if chosen != "" && opt.Value == chosen {
			mark = "● "
		}
		label := opt.Label
		if strings.TrimSpace(label) == "" {
			label = "(blank)"
		}
		text := padRight(mark+truncate(label, width-2), width)
		if field == m.session.Focus && i == m.cursor[field] {
			lines = append(lines, m.theme.Styles().Selected.Render(text))
			continue
		}
		lines = append(lines, styles.Text.Render(text))
	}
	return lines
}

// window returns the visible [start, end) range of n rows that keeps cursor
// on screen.
func window(cursor, n, rows int) (int, int) {
	if n <= rows {
		return 0, n
	}
	start := cursor - rows/2
	if start < 0 {
		start = 0
	}
	if start+rows > n {
		start = n - rows
	}
	return start, start + rows
}

func columnLabel(f spool.Field) string {
	if f == spool.FieldName {
		return "Spool"
	}
	return "ID"
}
