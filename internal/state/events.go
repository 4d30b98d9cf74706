package state

import (
	"time"

	"github.com/five82/spoolfinder/internal/card"
	"github.com/five82/spoolfinder/internal/spool"
)

// Event is an input to Reduce.
type Event interface{ event() }

// LoadRequested starts a fresh load, discarding the current collection.
type LoadRequested struct{}

// LoadSucceeded delivers the records of load Generation.
type LoadSucceeded struct {
	Generation uint64
	Records    spool.Collection
	Source     string
}

// LoadFailed reports that every source of load Generation failed.
type LoadFailed struct {
	Generation uint64
	Err        error
}

// QueryChanged is a typeahead keystroke in Field.
type QueryChanged struct {
	Field spool.Field
	Text  string
}

// FilterDue fires when the debounce delay for Seq elapsed.
type FilterDue struct {
	Field spool.Field
	Seq   uint64
}

// SuggestionMoved moves the highlight by Delta rows.
type SuggestionMoved struct {
	Delta int
}

// SuggestionChosen picks a suggestion. A blank ID picks the highlighted one.
type SuggestionChosen struct {
	ID string
}

// Submitted looks up the text typed in Field without using suggestions.
type Submitted struct {
	Field spool.Field
}

// Selected picks an option from a selector list. A blank ID clears the result.
type Selected struct {
	Field spool.Field
	ID    string
}

// Focused moves input focus to Field.
type Focused struct {
	Field spool.Field
}

// Dismissed hides the suggestion list.
type Dismissed struct{}

// ModeToggled switches between typeahead and selector search.
type ModeToggled struct{}

// MediaProbed reports the availability of a media reference on the card of
// record ID.
type MediaProbed struct {
	ID   string
	Slot card.Slot
	Err  error
}

func (LoadRequested) event()    {}
func (LoadSucceeded) event()    {}
func (LoadFailed) event()       {}
func (QueryChanged) event()     {}
func (FilterDue) event()        {}
func (SuggestionMoved) event()  {}
func (SuggestionChosen) event() {}
func (Submitted) event()        {}
func (Selected) event()         {}
func (Focused) event()          {}
func (Dismissed) event()        {}
func (ModeToggled) event()      {}
func (MediaProbed) event()      {}

// Effect is work the caller performs on behalf of the reducer.
type Effect interface{ effect() }

// StartLoad asks for the dataset to be fetched for Generation.
type StartLoad struct {
	Generation uint64
}

// ScheduleFilter asks for FilterDue{Field, Seq} after Delay.
type ScheduleFilter struct {
	Field spool.Field
	Seq   uint64
	Delay time.Duration
}

// ProbeMedia asks for URL to be checked, answered with MediaProbed.
type ProbeMedia struct {
	ID   string
	Slot card.Slot
	URL  string
}

func (StartLoad) effect()      {}
func (ScheduleFilter) effect() {}
func (ProbeMedia) effect()     {}
