package ui

import "time"

// Timing constants.
const (
	// ClockInterval drives relative-time labels and the diagnostics refresh.
	ClockInterval = time.Second
)

// Log display limits.
const (
	// LogTailLines is how many log lines the diagnostics view reads.
	LogTailLines = 300
)

// Layout sizes.
const (
	// chromeHeight is the rows taken by the header, status line and footer.
	chromeHeight = 4

	// modalWidth is the width of help and product selector overlays.
	modalWidth = 52
)
