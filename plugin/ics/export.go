// Package ics renders appointments as an iCalendar feed.
package ics

import (
	"io"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/pkg/errors"

	"github.com/Chriskfigures777/Niceone/server/service/booking"
	"github.com/Chriskfigures777/Niceone/server/timezone"
)

const (
	// DefaultDuration is used for appointments; the scheduling service does
	// not report an end time.
	DefaultDuration = 30 * time.Minute

	productID = "niceone"
)

// Options tunes the exported calendar.
type Options struct {
	Name     string
	Duration time.Duration
	// Stamp is written as DTSTAMP on every event. Zero means time.Now.
	Stamp time.Time
}

// Build creates a calendar holding one event per appointment. Cancelled
// appointments are kept and marked CANCELLED.
func Build(appointments []booking.Appointment, opts Options) *ical.Calendar {
	if opts.Duration <= 0 {
		opts.Duration = DefaultDuration
	}
	if opts.Stamp.IsZero() {
		opts.Stamp = time.Now()
	}

	cal := ical.NewCalendarFor(productID)
	cal.SetMethod(ical.MethodPublish)
	cal.SetXWRTimezone(timezone.TimezoneAmericaNewYork)
	if opts.Name != "" {
		cal.SetXWRCalName(opts.Name)
	}

	for _, a := range appointments {
		if a.ID == "" || a.Start.IsZero() {
			continue
		}
		ev := cal.AddEvent(a.ID + "@" + productID)
		ev.SetDtStampTime(opts.Stamp)
		ev.SetStartAt(a.Start)
		ev.SetEndAt(a.Start.Add(opts.Duration))
		ev.SetSummary(summary(a))
		ev.SetStatus(status(a))
		if a.CancellationReason != "" {
			ev.SetDescription("Cancelled: " + a.CancellationReason)
		}
		for i, email := range a.AttendeeEmails {
			if i == 0 && a.AttendeeName != "" {
				ev.AddAttendee(email, ical.WithCN(a.AttendeeName))
				continue
			}
			ev.AddAttendee(email)
		}
	}
	return cal
}

// Write serializes appointments as an .ics document to w.
func Write(w io.Writer, appointments []booking.Appointment, opts Options) error {
	if err := Build(appointments, opts).SerializeTo(w); err != nil {
		return errors.Wrap(err, "failed to serialize calendar")
	}
	return nil
}

func summary(a booking.Appointment) string {
	if a.DisplayTitle != "" {
		return a.DisplayTitle
	}
	return "Untitled"
}

func status(a booking.Appointment) ical.ObjectStatus {
	switch a.Status {
	case booking.StatusCancelled:
		return ical.ObjectStatusCancelled
	case booking.StatusActive:
		if strings.EqualFold(a.StatusDetail, "pending") {
			return ical.ObjectStatusTentative
		}
		return ical.ObjectStatusConfirmed
	default:
		return ical.ObjectStatusTentative
	}
}
