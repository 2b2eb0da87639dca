package calcom

import (
	"encoding/json"
	"strings"

	"github.com/Chriskfigures777/Niceone/server/service/booking"
	"github.com/Chriskfigures777/Niceone/server/timezone"
)

// envelope is the v2 response wrapper: {"status": "success", "data": ...}.
type envelope struct {
	Status string          `json:"status"`
	Data   json.RawMessage `json:"data"`
}

type person struct {
	Name     string `json:"name,omitempty"`
	Email    string `json:"email"`
	TimeZone string `json:"timeZone,omitempty"`
	Language string `json:"language,omitempty"`
}

// bookingPayload is the subset of a v2 booking the agent reads.
type bookingPayload struct {
	UID                string   `json:"uid"`
	Title              string   `json:"title"`
	Status             string   `json:"status"`
	Start              string   `json:"start"`
	Attendees          []person `json:"attendees"`
	Hosts              []person `json:"hosts"`
	CancellationReason string   `json:"cancellationReason"`
	RescheduledFromUID string   `json:"rescheduledFromUid"`
	EventType          *struct {
		ID    int64  `json:"id"`
		Title string `json:"title"`
		Slug  string `json:"slug"`
	} `json:"eventType"`
	BookingFieldsResponses map[string]any `json:"bookingFieldsResponses"`
}

type createBody struct {
	EventTypeID int64  `json:"eventTypeId"`
	Start       string `json:"start"`
	Attendee    person `json:"attendee"`
	Notes       string `json:"notes,omitempty"`
}

type rescheduleBody struct {
	Start              string `json:"start"`
	ReschedulingReason string `json:"reschedulingReason,omitempty"`
}

type cancelBody struct {
	CancellationReason string `json:"cancellationReason,omitempty"`
}

type guestsBody struct {
	Guests []person `json:"guests"`
}

func statusOf(raw string) booking.Status {
	switch strings.ToLower(raw) {
	case "cancelled", "canceled":
		return booking.StatusCancelled
	case "", "accepted", "pending", "upcoming", "awaiting_host":
		return booking.StatusActive
	default:
		return booking.StatusOther
	}
}

// involves reports whether email is an attendee, the booking form email or a host.
func (b bookingPayload) involves(email string) bool {
	for _, a := range b.Attendees {
		if strings.EqualFold(a.Email, email) {
			return true
		}
	}
	if v, ok := b.BookingFieldsResponses["email"].(string); ok && strings.EqualFold(v, email) {
		return true
	}
	for _, h := range b.Hosts {
		if strings.EqualFold(h.Email, email) {
			return true
		}
	}
	return false
}

func (b bookingPayload) appointment() booking.Appointment {
	a := booking.Appointment{
		ID:                 b.UID,
		Status:             statusOf(b.Status),
		StatusDetail:       b.Status,
		DisplayTitle:       b.Title,
		CancellationReason: b.CancellationReason,
		RescheduledFromID:  b.RescheduledFromUID,
	}
	if b.EventType != nil && b.EventType.Title != "" {
		a.DisplayTitle = b.EventType.Title
	}
	if len(b.Attendees) > 0 {
		a.AttendeeName = b.Attendees[0].Name
	}
	for _, at := range b.Attendees {
		if at.Email != "" {
			a.AttendeeEmails = append(a.AttendeeEmails, at.Email)
		}
	}
	if start, err := timezone.ParseInstant(b.Start); err == nil {
		a.Start = start
	}
	return a
}
