package booking

// Package-level constants for booking management.

const (
	// MatchWindowMinutes is the widest gap between a described time and an
	// appointment's start that still counts as the same appointment.
	MatchWindowMinutes = 30

	// DefaultListLimit is the page size requested from the scheduling service.
	DefaultListLimit = 100

	// MaxListLimit caps caller-supplied page sizes.
	MaxListLimit = 250
)
