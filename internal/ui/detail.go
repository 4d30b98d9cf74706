package ui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/five82/spoolfinder/internal/card"
	"github.com/five82/spoolfinder/internal/loader"
	"github.com/five82/spoolfinder/internal/media"
	"github.com/five82/spoolfinder/internal/state"
)

// layoutDetail sizes the card viewport to the inside of the detail pane.
func (m *Model) layoutDetail() {
	l := m.searchLayout(m.contentHeight())
	m.detail.Width = max(l.detailWidth-4, 1)
	m.detail.Height = max(l.detailHeight-2, 1)
}

// refreshDetail re-renders the detail body into the viewport.
func (m *Model) refreshDetail() {
	if !m.ready {
		return
	}
	m.detail.SetContent(m.renderDetailBody(m.detail.Width))
}

func (m Model) detailTitle() string {
	switch {
	case m.session.Phase == state.PhaseLoadFailed:
		return "Load failed"
	case m.session.Result.Kind == state.ResultFound:
		return "Spool " + m.session.Result.Card.Title
	default:
		return "Details"
	}
}

// renderDetailBody renders what the detail pane shows for the current phase
// and lookup result.
func (m Model) renderDetailBody(width int) string {
	styles := m.theme.Styles().WithBackground(m.theme.SurfaceAlt)
	s := m.session

	switch s.Phase {
	case state.PhaseEmpty:
		return styles.MutedText.Render("No data loaded. Press r to load.")
	case state.PhaseLoading:
		return styles.WarningText.Render("Loading spool data...")
	case state.PhaseLoadFailed:
		return m.renderLoadFailure(width, styles)
	}

	switch s.Result.Kind {
	case state.ResultFound:
		return m.renderCard(s.Result.Card, width, styles)
	case state.ResultNotFound:
		return styles.WarningText.Render(truncate(fmt.Sprintf("No spool matches %q.", s.Result.Query), width)) +
			"\n\n" + styles.MutedText.Render("Check the ID or name and try again.")
	default:
		if s.Collection.Empty() {
			return styles.MutedText.Render("The dataset is empty.")
		}
		if s.Mode == state.ModeSelector {
			return styles.MutedText.Render("Pick an ID or spool name from the lists.")
		}
		return styles.MutedText.Render("Type an ID or spool name to look it up.")
	}
}

// renderLoadFailure lists every source that was tried and the last error.
func (m Model) renderLoadFailure(width int, styles Styles) string {
	lines := []string{styles.DangerText.Render("Could not load the spool data."), ""}

	err := m.session.LoadErr
	var failure *loader.Failure
	if errors.As(err, &failure) {
		lines = append(lines, styles.MutedText.Render("Sources tried:"))
		for _, a := range failure.Attempts {
			reason := "failed"
			if a.Err != nil {
				reason = a.Err.Error()
			}
			lines = append(lines,
				styles.Text.Render("  "+padRight(truncate(a.Name, 22), 22))+" "+
					styles.FaintText.Render(truncate(reason, width-25)))
		}
		if last := failure.Last(); last != nil {
			lines = append(lines, "", styles.MutedText.Render("Last error:"),
				styles.DangerText.Render(truncate(last.Error(), width)))
		}
	} else if err != nil {
		lines = append(lines, styles.DangerText.Render(truncate(err.Error(), width)))
	}

	lines = append(lines, "", styles.AccentText.Render("Press r to retry."))
	return strings.Join(lines, "\n")
}

// renderCard renders a found record: title, status badge, location, id and
// its media references.
func (m Model) renderCard(c card.Card, width int, styles Styles) string {
	label := func(s string) string { return styles.MutedText.Render(padRight(s, 12)) }

	lines := []string{
		styles.Text.Bold(true).Render(truncate(c.Title, width)),
		"",
		label("Status") + styles.StatusStyle(c.StatusSlug).Render(c.Status),
		label("Location") + styles.Text.Render(truncate(c.Location, width-12)),
		label("ID") + styles.Text.Render(truncate(c.ID, width-12)),
	}

	if len(c.Media) == 0 {
		lines = append(lines, "", styles.FaintText.Render("No photos or plans on file."))
		return strings.Join(lines, "\n")
	}

	lines = append(lines, "", styles.AccentText.Bold(true).Render("Media"))
	for _, md := range c.Media {
		lines = append(lines, m.renderMedia(md, width, styles, label)...)
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderMedia(md card.Media, width int, styles Styles, label func(string) string) []string {
	name := strings.ToUpper(md.Slot.String()[:1]) + md.Slot.String()[1:]
	if md.Slot == card.SlotPlan && md.Kind == media.KindPDF {
		name = "Plan (PDF)"
	}
	room := width - 12

	switch md.State {
	case card.Broken:
		return []string{label(name) + styles.WarningText.Render(card.PlaceholderText(md.Slot))}
	case card.Available:
		lines := []string{label(name) + styles.InfoText.Render(truncateMiddle(md.DisplayURL(), room))}
		if md.Link.Download != "" && md.Link.Download != md.DisplayURL() {
			lines = append(lines, label("")+styles.FaintText.Render(truncateMiddle("download "+md.Link.Download, room)))
		}
		return lines
	default:
		return []string{
			label(name) + styles.Text.Render(truncateMiddle(md.DisplayURL(), room)),
			label("") + styles.FaintText.Render("checking..."),
		}
	}
}
