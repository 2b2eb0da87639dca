// Package timezone converts between Eastern civil time and UTC instants.
//
// Every appointment time the scheduling service exchanges is a UTC instant,
// while every time a caller speaks or reads is Eastern local time. This
// package is the only place that crosses between the two.
package timezone

import (
	"fmt"
	"time"

	"github.com/pkg/errors"
)

const (
	// TimezoneUTC is the UTC timezone identifier
	TimezoneUTC = "UTC"

	// TimezoneAmericaNewYork is the Eastern Time timezone
	TimezoneAmericaNewYork = "America/New_York"

	// InstantLayout is the canonical wire form of an Instant.
	InstantLayout = "2006-01-02T15:04:05Z"
)

// UTC is the coordinated universal time timezone
var UTC = time.UTC

// ParseTimezone parses an IANA timezone identifier (e.g., "America/New_York").
// If the timezone is invalid, returns UTC and an error.
func ParseTimezone(tz string) (*time.Location, error) {
	if tz == "" || tz == TimezoneUTC {
		return UTC, nil
	}

	loc, err := time.LoadLocation(tz)
	if err != nil {
		return UTC, fmt.Errorf("invalid timezone %q: %w", tz, err)
	}

	return loc, nil
}

// MustParseTimezone parses a timezone or panics if invalid.
func MustParseTimezone(tz string) *time.Location {
	loc, err := ParseTimezone(tz)
	if err != nil {
		panic(err)
	}
	return loc
}

// NormalizeInstant returns t in UTC truncated to the second.
func NormalizeInstant(t time.Time) time.Time {
	return t.UTC().Truncate(time.Second)
}

// FormatInstant renders t as "YYYY-MM-DDTHH:MM:SSZ".
func FormatInstant(t time.Time) string {
	return NormalizeInstant(t).Format(InstantLayout)
}

// ParseInstant parses a UTC timestamp. RFC 3339 input with fractional seconds
// or a numeric offset is accepted and normalized.
func ParseInstant(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, errors.Wrapf(err, "invalid instant %q", s)
	}
	return NormalizeInstant(t), nil
}
