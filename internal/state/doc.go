// Package state holds the search session of the spoolfinder TUI as a plain
// value and the pure reducer that advances it.
//
// # Overview
//
// Every input the view receives (keystrokes, load results, debounce timers,
// media probe results) is expressed as an Event. Reduce takes the current
// Session and one Event and returns the next Session together with a list of
// Effects. Reduce never performs I/O; the caller runs the effects and feeds
// their results back as new events.
//
//	┌──────────┐  Event   ┌──────────┐  Effect  ┌────────────┐
//	│   view   │─────────→│  Reduce  │─────────→│  tea.Cmd   │
//	│ (Update) │←─────────│ (pure)   │          │ load/timer │
//	└──────────┘ Session  └──────────┘          └─────┬──────┘
//	      ↑                                           │
//	      └──────────────── result Event ─────────────┘
//
// # Phases
//
//	Empty → Loading → Populated
//	              ↘ LoadFailed
//
// LoadRequested always moves to Loading, discards the collection and bumps the
// load generation. Load results carrying an older generation are dropped, so
// a slow earlier load can never overwrite a newer one.
//
// # Search
//
// In typeahead mode each QueryChanged emits ScheduleFilter with a fresh
// sequence number. FilterDue only applies when its sequence is still current,
// which gives debounce without timers inside the reducer. Choosing a
// suggestion, dismissing, or typing again invalidates pending filters.
//
// In selector mode Selected picks from the exhaustive option lists and clears
// the opposite selector. Switching mode clears inputs and selections.
//
// Lookup results are ResultNone, ResultFound or ResultNotFound. A found card
// emits one ProbeMedia per media reference; MediaProbed marks it available or
// broken only if that card is still displayed.
package state
