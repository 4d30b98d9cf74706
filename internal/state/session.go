package state

import (
	"time"

	"github.com/five82/spoolfinder/internal/card"
	"github.com/five82/spoolfinder/internal/spool"
)

// DefaultDebounce delays typeahead filtering after the last keystroke.
const DefaultDebounce = 300 * time.Millisecond

// Phase is the data lifecycle of a session.
type Phase int

const (
	PhaseEmpty Phase = iota
	PhaseLoading
	PhasePopulated
	PhaseLoadFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhasePopulated:
		return "populated"
	case PhaseLoadFailed:
		return "load failed"
	default:
		return "empty"
	}
}

// Interaction is the search sub-state while populated.
type Interaction int

const (
	Idle Interaction = iota
	Suggesting
	Displaying
)

// Mode selects how the operator searches.
type Mode int

const (
	ModeTypeahead Mode = iota
	ModeSelector
)

func (m Mode) String() string {
	if m == ModeSelector {
		return "selector"
	}
	return "typeahead"
}

// Toggle returns the other mode.
func (m Mode) Toggle() Mode {
	if m == ModeSelector {
		return ModeTypeahead
	}
	return ModeSelector
}

// ParseMode maps a persisted mode name back to a Mode. Unknown names fall
// back to ModeTypeahead.
func ParseMode(name string) Mode {
	if name == ModeSelector.String() {
		return ModeSelector
	}
	return ModeTypeahead
}

// ResultKind distinguishes the three lookup display states.
type ResultKind int

const (
	ResultNone ResultKind = iota
	ResultFound
	ResultNotFound
)

// Result is the outcome of the most recent lookup.
type Result struct {
	Kind   ResultKind
	Query  string
	Record spool.Record
	Card   card.Card
}

// Fields holds one text value per search field.
type Fields struct {
	ID   string
	Name string
}

// Get returns the value for f.
func (f Fields) Get(field spool.Field) string {
	if field == spool.FieldName {
		return f.Name
	}
	return f.ID
}

func (f *Fields) set(field spool.Field, value string) {
	if field == spool.FieldName {
		f.Name = value
		return
	}
	f.ID = value
}

// Config holds the tunables the reducer needs.
type Config struct {
	SuggestionLimit int
	Debounce        time.Duration
}

func (c Config) withDefaults() Config {
	if c.SuggestionLimit <= 0 {
		c.SuggestionLimit = spool.DefaultSuggestionLimit
	}
	if c.Debounce <= 0 {
		c.Debounce = DefaultDebounce
	}
	return c
}

// Session is the whole search state of one TUI session. It is a value; Reduce
// returns an updated copy.
type Session struct {
	Config Config

	Phase      Phase
	Generation uint64
	Collection spool.Collection
	Source     string
	LoadErr    error

	Mode  Mode
	Focus spool.Field

	Inputs    Fields
	Selection Fields

	Suggestions  []spool.Record
	SuggestField spool.Field
	Highlight    int
	FilterSeq    uint64

	Result Result
}

// New returns an empty session.
func New(cfg Config, mode Mode) Session {
	return Session{Config: cfg.withDefaults(), Mode: mode}
}

// Interaction derives the search sub-state.
func (s Session) Interaction() Interaction {
	switch {
	case len(s.Suggestions) > 0:
		return Suggesting
	case s.Result.Kind != ResultNone:
		return Displaying
	default:
		return Idle
	}
}

// Highlighted returns the currently highlighted suggestion.
func (s Session) Highlighted() (spool.Record, bool) {
	if s.Highlight < 0 || s.Highlight >= len(s.Suggestions) {
		return spool.Record{}, false
	}
	return s.Suggestions[s.Highlight], true
}

// Ready reports whether searches can run.
func (s Session) Ready() bool {
	return s.Phase == PhasePopulated
}
