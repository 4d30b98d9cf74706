// Package ui provides the spoolfinder terminal user interface.
//
// # Architecture Overview
//
// The UI is a Bubble Tea program. Model owns a state.Session and never
// mutates it directly: key presses and command results become state events,
// state.Reduce computes the next session, and the returned effects are turned
// into tea.Cmds.
//
//	tea.KeyMsg ──> handleKey ──> state.Event ──> state.Reduce
//	                                               │
//	   loadDoneMsg / FilterDue / MediaProbed <── runEffects
//
// Effects map to commands as follows:
//
//   - StartLoad: calls loader.Fetcher.Load and answers with loadDoneMsg
//   - ScheduleFilter: a tea.Tick that answers with state.FilterDue
//   - ProbeMedia: calls Prober.Probe and answers with state.MediaProbed
//
// # Package Structure
//
//   - app.go: Model, Update/View, key routing and effect commands
//   - search.go: typeahead inputs with suggestions, and the selector lists
//   - detail.go: detail card, not-found and load-failure panels
//   - admin.go: admin screen (ping, password-protected refresh, log tail)
//   - header.go: status bar and command hints
//   - help.go: help overlay built from the key map
//   - theme.go: colour themes and status badge styles
//   - box.go, style_helpers.go, strings.go: rendering helpers
//
// # Screens
//
// The search screen shows a search pane beside the detail card, or above it
// on narrow terminals. In typeahead mode an input owns the keyboard, so
// letter shortcuts only work after esc leaves the input. In selector mode the
// arrow keys move through the exhaustive id and name lists.
//
// The admin screen pings the configured endpoint when opened, shows the
// diagnostics and the tail of spoolfinder's log file, and sends a refresh when
// enter is pressed in the password field. A successful refresh reloads the
// dataset.
//
// # Key Bindings
//
//   - /: focus the search input
//   - tab: switch between ID and Spool
//   - up/down: move through suggestions or list entries
//   - enter: look up, or select a list entry
//   - esc: dismiss suggestions, then leave the input
//   - ctrl+t: toggle typeahead/selector (saved to prefs)
//   - r or ctrl+r: reload data
//   - a: admin screen
//   - T: cycle theme (saved to prefs)
//   - ?: help
//   - ctrl+c: quit
package ui
