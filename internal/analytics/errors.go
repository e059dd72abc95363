package analytics

import "errors"

var (
	// ErrInsufficientData signals that zero qualifying records exist for
	// the requested tenant and window. Callers map it to 400 so the UI can
	// show an empty state instead of a zero-filled chart.
	ErrInsufficientData = errors.New("analytics: not enough data for the requested window")

	// ErrInvalidWindow signals a non-positive day-count window.
	ErrInvalidWindow = errors.New("analytics: window must cover at least one day")

	// ErrDatabaseUnavailable signals the backing store could not be
	// reached. It is surfaced as 503 and never retried inside the core.
	ErrDatabaseUnavailable = errors.New("analytics: database unavailable")
)
