// Package card derives the display model for one spool: the detail card shown
// after a successful lookup.
package card

import (
	"fmt"
	"strings"

	"github.com/five82/spoolfinder/internal/media"
	"github.com/five82/spoolfinder/internal/spool"
)

// Placeholder replaces missing text fields.
const Placeholder = "—"

// Slot names a media reference on the card.
type Slot int

const (
	SlotPhoto Slot = iota
	SlotPlan
	SlotOrigin
)

// String returns the slot label.
func (s Slot) String() string {
	switch s {
	case SlotPlan:
		return "plan"
	case SlotOrigin:
		return "origin photo"
	default:
		return "photo"
	}
}

// Availability records the outcome of probing a media reference.
type Availability int

const (
	Unknown Availability = iota
	Available
	Broken
)

// Media is one media reference with its probe state.
type Media struct {
	Slot  Slot
	Link  media.Link
	Kind  media.Kind
	State Availability
}

// DisplayURL returns the URL the view should show for this reference.
func (m Media) DisplayURL() string {
	if m.Kind == media.KindPDF {
		return m.Link.Preview
	}
	return m.Link.View
}

// Card is the rendered detail view of a record.
type Card struct {
	ID         string
	Title      string
	Status     string
	StatusSlug string
	Location   string
	Media      []Media
}

// Build derives a card from rec. Blank text fields become Placeholder and
// blank media references are omitted.
func Build(rec spool.Record) Card {
	c := Card{
		ID:         orPlaceholder(rec.ID.String()),
		Title:      orPlaceholder(rec.Name),
		Status:     orPlaceholder(rec.Status),
		StatusSlug: spool.StatusSlug(rec.Status),
		Location:   orPlaceholder(rec.Location),
	}

	add := func(slot Slot, raw string, kind media.Kind) {
		link := media.Normalize(raw)
		if link.Empty() {
			return
		}
		c.Media = append(c.Media, Media{Slot: slot, Link: link, Kind: kind})
	}
	add(SlotPhoto, rec.PhotoURL, media.KindImage)
	add(SlotPlan, rec.PlanURL, media.SniffKind(rec.PlanURL))
	add(SlotOrigin, rec.OriginPhotoURL, media.KindImage)
	return c
}

// MediaFor returns the media reference in slot, if present.
func (c Card) MediaFor(slot Slot) (Media, bool) {
	for _, m := range c.Media {
		if m.Slot == slot {
			return m, true
		}
	}
	return Media{}, false
}

// WithAvailability returns a copy of the card with slot marked as state.
func (c Card) WithAvailability(slot Slot, state Availability) Card {
	if len(c.Media) == 0 {
		return c
	}
	dup := make([]Media, len(c.Media))
	copy(dup, c.Media)
	for i := range dup {
		if dup[i].Slot == slot {
			dup[i].State = state
		}
	}
	c.Media = dup
	return c
}

// PlaceholderText is shown instead of a broken media link.
func PlaceholderText(slot Slot) string {
	if slot == SlotPlan {
		return "plan unavailable"
	}
	return "image unavailable"
}

// Text renders the card as plain text for non-interactive output.
func (c Card) Text() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Spool:     %s\n", c.Title)
	fmt.Fprintf(&b, "Status:    %s\n", c.Status)
	fmt.Fprintf(&b, "Location:  %s\n", c.Location)
	fmt.Fprintf(&b, "ID:        %s\n", c.ID)
	for _, m := range c.Media {
		label := m.Slot.String()
		if m.Slot == SlotPlan {
			label = fmt.Sprintf("plan (%s)", m.Kind)
		}
		value := m.DisplayURL()
		if m.State == Broken {
			value = PlaceholderText(m.Slot)
		}
		fmt.Fprintf(&b, "%-10s %s\n", label+":", value)
		if m.Link.Download != "" && m.Link.Download != value && m.State != Broken {
			fmt.Fprintf(&b, "%-10s %s\n", "", "download: "+m.Link.Download)
		}
	}
	return b.String()
}

func orPlaceholder(value string) string {
	if strings.TrimSpace(value) == "" {
		return Placeholder
	}
	return value
}
