package ui

import "time"

// Layout thresholds.
const (
	// LayoutCompactWidth is the width below which the search pane stacks
	// above the card instead of sitting beside it.
	LayoutCompactWidth = 90

	// searchPaneWidth is the search pane width in side-by-side layout.
	searchPaneWidth = 38

	// selectorVisibleRows caps the rows drawn for a selector list.
	selectorVisibleRows = 12
)

// Admin screen limits.
const (
	// AdminLogLines is how many log entries the admin screen shows.
	AdminLogLines = 40

	// AdminRequestTimeout bounds ping and refresh calls from the UI.
	AdminRequestTimeout = 45 * time.Second
)
