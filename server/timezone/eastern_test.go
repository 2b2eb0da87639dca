package timezone

import (
	"testing"
	"time"
	_ "time/tzdata"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) civil.Date {
	return civil.Date{Year: y, Month: m, Day: d}
}

func local(y int, m time.Month, d, hh, mm int) civil.DateTime {
	return civil.DateTime{Date: date(y, m, d), Time: civil.Time{Hour: hh, Minute: mm}}
}

func TestDSTTransitionDates(t *testing.T) {
	tests := []struct {
		year  int
		start civil.Date
		end   civil.Date
	}{
		{2024, date(2024, time.March, 10), date(2024, time.November, 3)},
		{2025, date(2025, time.March, 9), date(2025, time.November, 2)},
		{2026, date(2026, time.March, 8), date(2026, time.November, 1)},
		{2027, date(2027, time.March, 14), date(2027, time.November, 7)},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.start, DSTStart(tt.year), "start %d", tt.year)
		assert.Equal(t, tt.end, DSTEnd(tt.year), "end %d", tt.year)
	}
}

func TestDSTOffsetHours(t *testing.T) {
	tests := []struct {
		name string
		date civil.Date
		want int
	}{
		{"mid january", date(2026, time.January, 15), EST},
		{"mid july", date(2026, time.July, 15), EDT},
		{"december", date(2026, time.December, 24), EST},
		// 2026 spring-forward week (second Sunday is March 8).
		{"2026-03-01", date(2026, time.March, 1), EST},
		{"2026-03-07", date(2026, time.March, 7), EST},
		{"2026-03-08 transition day", date(2026, time.March, 8), EDT},
		{"2026-03-09", date(2026, time.March, 9), EDT},
		// 2026 fall-back week (first Sunday is November 1).
		{"2026-10-31", date(2026, time.October, 31), EDT},
		{"2026-11-01 transition day", date(2026, time.November, 1), EST},
		{"2026-11-02", date(2026, time.November, 2), EST},
		// 2025 transitions: March 9 and November 2.
		{"2025-03-08", date(2025, time.March, 8), EST},
		{"2025-03-09", date(2025, time.March, 9), EDT},
		{"2025-11-01", date(2025, time.November, 1), EDT},
		{"2025-11-02", date(2025, time.November, 2), EST},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DSTOffsetHours(tt.date))
		})
	}
}

func TestToUTC(t *testing.T) {
	tests := []struct {
		name  string
		local civil.DateTime
		want  string
	}{
		{"summer afternoon", local(2026, time.July, 15, 14, 0), "2026-07-15T18:00:00Z"},
		{"winter morning", local(2026, time.January, 10, 9, 0), "2026-01-10T14:00:00Z"},
		{"evening crosses utc midnight", local(2026, time.July, 15, 21, 30), "2026-07-16T01:30:00Z"},
		{"before spring forward", local(2026, time.March, 8, 1, 59), "2026-03-08T06:59:00Z"},
		{"after spring forward", local(2026, time.March, 8, 3, 0), "2026-03-08T07:00:00Z"},
		{"spring forward gap normalizes forward", local(2026, time.March, 8, 2, 30), "2026-03-08T07:30:00Z"},
		{"repeated hour picks first occurrence", local(2026, time.November, 1, 1, 30), "2026-11-01T05:30:00Z"},
		{"after fall back", local(2026, time.November, 1, 2, 0), "2026-11-01T07:00:00Z"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatInstant(ToUTC(tt.local)))
		})
	}
}

func TestToEastern(t *testing.T) {
	tests := []struct {
		instant string
		want    civil.DateTime
	}{
		{"2026-07-15T18:30:00Z", local(2026, time.July, 15, 14, 30)},
		{"2026-07-16T01:30:00Z", local(2026, time.July, 15, 21, 30)},
		{"2026-01-01T03:00:00Z", local(2025, time.December, 31, 22, 0)},
		{"2026-03-08T06:59:59Z", civil.DateTime{Date: date(2026, time.March, 8), Time: civil.Time{Hour: 1, Minute: 59, Second: 59}}},
		{"2026-03-08T07:00:00Z", local(2026, time.March, 8, 3, 0)},
		{"2026-11-01T05:59:00Z", local(2026, time.November, 1, 1, 59)},
		{"2026-11-01T06:00:00Z", local(2026, time.November, 1, 1, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.instant, func(t *testing.T) {
			ts, err := ParseInstant(tt.instant)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ToEastern(ts))
		})
	}
}

func TestEasternMatchesTZDatabase(t *testing.T) {
	ny := MustParseTimezone(TimezoneAmericaNewYork)
	from := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2031, time.January, 1, 0, 0, 0, 0, time.UTC)

	for u := from; u.Before(to); u = u.Add(time.Hour) {
		want := civil.DateTimeOf(u.In(ny))
		if got := ToEastern(u); got != want {
			t.Fatalf("ToEastern(%s) = %s, tz database says %s", FormatInstant(u), got, want)
		}
	}
}

func TestRoundTrip(t *testing.T) {
	start := local(2025, time.January, 1, 0, 0)
	for i := 0; i < 2*366*24*4; i++ {
		l := civil.DateTimeOf(start.In(time.UTC).Add(time.Duration(i) * 15 * time.Minute))
		if l.Date == DSTStart(l.Date.Year) && l.Time.Hour == 2 {
			// Gap hour: these clock readings never occur in Eastern time.
			continue
		}
		if got := ToEastern(ToUTC(l)); got != l {
			t.Fatalf("round trip of %s gave %s", l, got)
		}
	}
}

func TestRoundTripKeepsSeconds(t *testing.T) {
	l := civil.DateTime{Date: date(2026, time.October, 30), Time: civil.Time{Hour: 23, Minute: 59, Second: 59}}
	assert.Equal(t, l, ToEastern(ToUTC(l)))
}

func TestFormatEastern(t *testing.T) {
	tests := []struct {
		local civil.DateTime
		want  string
	}{
		{local(2026, time.July, 15, 14, 0), "Wednesday, July 15, 2026 at 02:00 PM Eastern Time"},
		{local(2026, time.January, 5, 9, 5), "Monday, January 05, 2026 at 09:05 AM Eastern Time"},
		{local(2026, time.December, 31, 0, 0), "Thursday, December 31, 2026 at 12:00 AM Eastern Time"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatEastern(tt.local))
	}
}

func TestFormatInstantEastern(t *testing.T) {
	ts, err := ParseInstant("2026-07-15T18:30:00Z")
	require.NoError(t, err)
	assert.Equal(t, "Wednesday, July 15, 2026 at 02:30 PM Eastern Time", FormatInstantEastern(ts))
}
