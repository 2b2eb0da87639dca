package timezone

import (
	"time"

	"cloud.google.com/go/civil"
)

const (
	// EST is the UTC offset in hours of Eastern Standard Time.
	EST = 5
	// EDT is the UTC offset in hours of Eastern Daylight Time.
	EDT = 4

	easternLayout = "Monday, January 02, 2006 at 03:04 PM"
	easternSuffix = " Eastern Time"
)

// DSTStart returns the local date daylight time begins in year: the second
// Sunday of March, at 02:00 EST.
func DSTStart(year int) civil.Date {
	return nthSunday(year, time.March, 2)
}

// DSTEnd returns the local date daylight time ends in year: the first Sunday
// of November, at 02:00 EDT.
func DSTEnd(year int) civil.Date {
	return nthSunday(year, time.November, 1)
}

func nthSunday(year int, month time.Month, n int) civil.Date {
	first := civil.Date{Year: year, Month: month, Day: 1}
	untilSunday := (7 - int(first.In(time.UTC).Weekday())) % 7
	return first.AddDays(untilSunday + 7*(n-1))
}

// DSTOffsetHours returns the hours Eastern time is behind UTC on date.
//
// Dates from the second Sunday of March up to (not including) the first
// Sunday of November are EDT. The transition days themselves are classified
// by the offset that holds for most of the day; use OffsetAt when the clock
// time is known.
func DSTOffsetHours(date civil.Date) int {
	start, end := DSTStart(date.Year), DSTEnd(date.Year)
	if !date.Before(start) && date.Before(end) {
		return EDT
	}
	return EST
}

// OffsetAt returns the offset in effect at the Eastern local time.
//
// Spring-forward gap times (02:00-02:59 on the March transition day) are read
// as EST so they normalize forward by one hour. The repeated hour on the
// November transition day resolves to its first occurrence (EDT).
func OffsetAt(local civil.DateTime) int {
	switch local.Date {
	case DSTStart(local.Date.Year):
		if local.Time.Hour < 3 {
			return EST
		}
		return EDT
	case DSTEnd(local.Date.Year):
		if local.Time.Hour < 2 {
			return EDT
		}
		return EST
	default:
		return DSTOffsetHours(local.Date)
	}
}

// ToUTC converts an Eastern local time to a UTC instant at second precision.
func ToUTC(local civil.DateTime) time.Time {
	offset := time.Duration(OffsetAt(local)) * time.Hour
	return NormalizeInstant(local.In(time.UTC).Add(offset))
}

// ToEastern converts an instant to Eastern local time at second precision.
func ToEastern(t time.Time) civil.DateTime {
	u := NormalizeInstant(t)
	year := u.Year()
	// 02:00 EST is 07:00 UTC; 02:00 EDT is 06:00 UTC.
	start := DSTStart(year).In(time.UTC).Add(7 * time.Hour)
	end := DSTEnd(year).In(time.UTC).Add(6 * time.Hour)

	offset := EST
	if !u.Before(start) && u.Before(end) {
		offset = EDT
	}
	return civil.DateTimeOf(u.Add(-time.Duration(offset) * time.Hour))
}

// FormatEastern renders a local time for people, e.g.
// "Wednesday, July 15, 2026 at 02:00 PM Eastern Time".
func FormatEastern(local civil.DateTime) string {
	return local.In(time.UTC).Format(easternLayout) + easternSuffix
}

// FormatInstantEastern renders an instant as Eastern local time.
func FormatInstantEastern(t time.Time) string {
	return FormatEastern(ToEastern(t))
}

// NowEastern returns the current Eastern local time.
func NowEastern() civil.DateTime {
	return ToEastern(time.Now())
}
