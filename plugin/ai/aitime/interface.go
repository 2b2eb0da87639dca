// Package aitime turns the date/time text a caller speaks into Eastern
// civil times the booking engine can work with.
package aitime

import (
	"time"

	"cloud.google.com/go/civil"
)

// TimeService defines the time parsing service interface.
// Consumers: booking workflow and agent tools.
type TimeService interface {
	// ParseLocalDateTime parses text such as "2026-07-15 2:00 PM" or
	// "July 15, 2026 2:00 PM" into an Eastern local time.
	ParseLocalDateTime(input string) (civil.DateTime, error)

	// ParseInstant parses text as Eastern local time and returns the UTC instant.
	ParseInstant(input string) (time.Time, error)

	// Now returns the current instant, truncated to the second.
	Now() time.Time
}
