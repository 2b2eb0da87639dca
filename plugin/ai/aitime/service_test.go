package aitime

import (
	"errors"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Chriskfigures777/Niceone/server/timezone"
)

func TestParser_AcceptedFormats(t *testing.T) {
	parser := NewParser()

	tests := []struct {
		name  string
		input string
		want  string // civil.DateTime string form
	}{
		{"iso", "2026-07-15 14:00", "2026-07-15T14:00:00"},
		{"iso seconds", "2026-07-15 14:00:30", "2026-07-15T14:00:30"},
		{"iso T", "2026-07-15T14:00", "2026-07-15T14:00:00"},
		{"iso T seconds", "2026-07-15T14:00:30", "2026-07-15T14:00:30"},
		{"iso single digit hour", "2026-01-10 9:00", "2026-01-10T09:00:00"},
		{"us 24h", "07/15/2026 14:00", "2026-07-15T14:00:00"},
		{"us 12h", "01/10/2026 9:00 AM", "2026-01-10T09:00:00"},
		{"us 12h unpadded", "1/10/2026 9:00 PM", "2026-01-10T21:00:00"},
		{"us 12h seconds", "01/10/2026 9:00:15 AM", "2026-01-10T09:00:15"},
		{"long month", "July 15, 2026 2:00 PM", "2026-07-15T14:00:00"},
		{"long month seconds", "July 15, 2026 2:00:05 PM", "2026-07-15T14:00:05"},
		{"short month", "Jul 15, 2026 2:00 PM", "2026-07-15T14:00:00"},
		{"short month seconds", "Jul 15, 2026 2:00:05 PM", "2026-07-15T14:00:05"},
		{"iso 12h", "2026-07-15 2:00 PM", "2026-07-15T14:00:00"},
		{"iso 12h seconds", "2026-07-15 2:00:00 PM", "2026-07-15T14:00:00"},
		{"noon", "2026-07-15 12:00 PM", "2026-07-15T12:00:00"},
		{"midnight", "2026-07-15 12:00 AM", "2026-07-15T00:00:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parser.Parse(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestParser_Normalization(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"lowercase meridiem", "2026-07-15 2:00 pm", "2026-07-15T14:00:00"},
		{"dotted meridiem", "July 15, 2026 2:00 p.m.", "2026-07-15T14:00:00"},
		{"attached meridiem", "01/10/2026 9:00am", "2026-01-10T09:00:00"},
		{"lowercase month", "july 15, 2026 2:00 PM", "2026-07-15T14:00:00"},
		{"connecting at", "July 15, 2026 at 2:00 PM", "2026-07-15T14:00:00"},
		{"zone suffix", "2026-07-15 2:00 PM ET", "2026-07-15T14:00:00"},
		{"long zone suffix", "July 15, 2026 at 2:00 PM Eastern Time", "2026-07-15T14:00:00"},
		{"weekday prefix", "Wednesday, July 15, 2026 at 02:00 PM Eastern Time", "2026-07-15T14:00:00"},
		{"extra whitespace", "  2026-07-15    14:00 ", "2026-07-15T14:00:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseLocalDateTime(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestParser_SameMomentDifferentSpellings(t *testing.T) {
	a, err := ParseLocalDateTime("July 15, 2026 2:00 PM")
	require.NoError(t, err)
	b, err := ParseLocalDateTime("2026-07-15 14:00")
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestParser_ParsesItsOwnRendering(t *testing.T) {
	l := civil.DateTime{
		Date: civil.Date{Year: 2026, Month: time.March, Day: 9},
		Time: civil.Time{Hour: 8, Minute: 45},
	}
	got, err := ParseLocalDateTime(timezone.FormatEastern(l))
	require.NoError(t, err)
	assert.Equal(t, l, got)
}

func TestParser_Errors(t *testing.T) {
	inputs := []string{
		"",
		"   ",
		"tomorrow afternoon",
		"2026-07-15",
		"2026-13-01 10:00",
		"2026-07-15 25:00",
		"15/07/2026 14:00",
		"July 15 2026 2:00 PM",
		"2026-07-15 0:30 PM",
		"07/15/2026 0:30 AM",
		"July 15, 2026 00:30 pm",
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			_, err := ParseLocalDateTime(input)
			require.Error(t, err)

			var perr *ParseError
			require.True(t, errors.As(err, &perr))
			assert.Equal(t, input, perr.Input)
			assert.Contains(t, err.Error(), input)
		})
	}
}

func TestService_ParseInstant(t *testing.T) {
	svc := NewService()

	tests := []struct {
		input string
		want  string
	}{
		{"2026-07-15 2:00 PM", "2026-07-15T18:00:00Z"},
		{"01/10/2026 9:00 AM", "2026-01-10T14:00:00Z"},
		{"2026-03-08 3:30 AM", "2026-03-08T07:30:00Z"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := svc.ParseInstant(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, timezone.FormatInstant(got))
		})
	}

	_, err := svc.ParseInstant("not a time")
	var perr *ParseError
	assert.True(t, errors.As(err, &perr))
}

func TestService_Now(t *testing.T) {
	fixedNow := time.Date(2026, 7, 15, 18, 0, 0, 500, time.UTC)
	svc := NewService(WithClock(func() time.Time { return fixedNow }))

	assert.Equal(t, "2026-07-15T18:00:00Z", timezone.FormatInstant(svc.Now()))
	assert.Equal(t, "2026-07-15T14:00:00", svc.NowEastern().String())
}
