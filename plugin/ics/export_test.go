package ics

import (
	"bytes"
	"strings"
	"testing"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Chriskfigures777/Niceone/server/service/booking"
)

func TestWrite(t *testing.T) {
	start := time.Date(2026, 7, 15, 18, 30, 0, 0, time.UTC)
	appts := []booking.Appointment{
		{
			ID:             "uid-1",
			Start:          start,
			Status:         booking.StatusActive,
			StatusDetail:   "accepted",
			DisplayTitle:   "Connect",
			AttendeeName:   "Sam Lee",
			AttendeeEmails: []string{"sam@example.com"},
		},
		{
			ID:                 "uid-2",
			Start:              start.Add(24 * time.Hour),
			Status:             booking.StatusCancelled,
			CancellationReason: "conflict",
		},
		{ID: "", Start: start},
	}

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, appts, Options{Name: "Bookings", Stamp: start}))
	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "BEGIN:VCALENDAR"))
	assert.Contains(t, out, "METHOD:PUBLISH")
	assert.Contains(t, out, "X-WR-CALNAME:Bookings")

	cal, err := ical.ParseCalendar(strings.NewReader(out))
	require.NoError(t, err)
	events := cal.Events()
	require.Len(t, events, 2)

	first := events[0]
	assert.Equal(t, "uid-1@niceone", first.Id())
	assert.Equal(t, "Connect", first.GetProperty(ical.ComponentPropertySummary).Value)
	assert.Equal(t, "CONFIRMED", first.GetProperty(ical.ComponentPropertyStatus).Value)
	assert.Equal(t, "20260715T183000Z", first.GetProperty(ical.ComponentPropertyDtStart).Value)
	assert.Equal(t, "20260715T190000Z", first.GetProperty(ical.ComponentPropertyDtEnd).Value)
	assert.Equal(t, "mailto:sam@example.com", first.GetProperty(ical.ComponentPropertyAttendee).Value)

	second := events[1]
	assert.Equal(t, "Untitled", second.GetProperty(ical.ComponentPropertySummary).Value)
	assert.Equal(t, "CANCELLED", second.GetProperty(ical.ComponentPropertyStatus).Value)
	assert.Equal(t, "Cancelled: conflict", second.GetProperty(ical.ComponentPropertyDescription).Value)
}

func TestStatus(t *testing.T) {
	tests := []struct {
		appt booking.Appointment
		want ical.ObjectStatus
	}{
		{booking.Appointment{Status: booking.StatusActive, StatusDetail: "accepted"}, ical.ObjectStatusConfirmed},
		{booking.Appointment{Status: booking.StatusActive, StatusDetail: "PENDING"}, ical.ObjectStatusTentative},
		{booking.Appointment{Status: booking.StatusCancelled}, ical.ObjectStatusCancelled},
		{booking.Appointment{Status: booking.StatusOther}, ical.ObjectStatusTentative},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, status(tt.appt))
	}
}
