package booking

import (
	"context"
	"strings"
	"time"
)

// Status is the lifecycle state of an appointment.
type Status string

const (
	StatusActive    Status = "active"
	StatusCancelled Status = "cancelled"
	StatusOther     Status = "other"
)

// ListStatus selects which appointments a listing returns.
type ListStatus string

const (
	ListActive    ListStatus = "active"
	ListPast      ListStatus = "past"
	ListCancelled ListStatus = "cancelled"
)

// ParseListStatus accepts the names callers use for a listing filter.
// An empty string means ListActive.
func ParseListStatus(s string) (ListStatus, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "active", "upcoming":
		return ListActive, nil
	case "past":
		return ListPast, nil
	case "cancelled", "canceled":
		return ListCancelled, nil
	default:
		return "", &ValidationError{Field: "status", Message: "Status must be 'upcoming', 'past' or 'cancelled'."}
	}
}

// MeetingKind is the type of meeting a caller can book.
type MeetingKind string

const (
	KindConnect  MeetingKind = "connect"
	KindDiscover MeetingKind = "discover"
)

// DisplayName returns the name used when talking about the meeting.
func (k MeetingKind) DisplayName() string {
	switch k {
	case KindConnect:
		return "Connect"
	case KindDiscover:
		return "Discover"
	default:
		return string(k)
	}
}

// Appointment is a booking as the scheduling service reports it.
// The engine only reads appointments; every change goes through SchedulingClient.
type Appointment struct {
	ID           string
	Start        time.Time
	Status       Status
	DisplayTitle string
	AttendeeName string

	// StatusDetail is the raw status reported by the service (e.g. "accepted").
	StatusDetail       string
	AttendeeEmails     []string
	CancellationReason string
	// RescheduledFromID is set on the appointment a reschedule creates.
	RescheduledFromID string
}

// Guest is an extra attendee added to an existing appointment.
type Guest struct {
	Email string
	Name  string
}

// CreateRequest describes a new appointment.
type CreateRequest struct {
	Kind          MeetingKind
	Start         time.Time
	AttendeeName  string
	AttendeeEmail string
	Notes         string
}

// SchedulingClient is the contract of the external scheduling service.
// Failed calls return *ExternalServiceError where the service answered.
type SchedulingClient interface {
	ListAppointments(ctx context.Context, email string, status ListStatus, limit int) ([]Appointment, error)
	GetAppointment(ctx context.Context, id string) (Appointment, error)
	CreateAppointment(ctx context.Context, create CreateRequest) (Appointment, error)
	// RescheduleAppointment returns the new appointment; the old one becomes cancelled.
	RescheduleAppointment(ctx context.Context, id string, newStart time.Time, reason string) (Appointment, error)
	CancelAppointment(ctx context.Context, id string, reason string) (Appointment, error)
	AddGuests(ctx context.Context, id string, guests []Guest) (Appointment, error)
}

// Session carries per-conversation state into booking operations.
// A nil Session is allowed and behaves as an empty one.
type Session interface {
	ID() string
	// Email is the address the caller gave during the conversation, if any.
	Email() string
	// Transcript renders the conversation for use as meeting notes.
	Transcript() string
}

// Service defines the booking operations the agent tools call.
// Every method returns an Outcome; none of them fail with an error.
type Service interface {
	ListBookings(ctx context.Context, sess Session, req ListRequest) Outcome
	GetBooking(ctx context.Context, id string) Outcome
	CreateMeeting(ctx context.Context, sess Session, req CreateMeetingRequest) Outcome
	RescheduleBooking(ctx context.Context, sess Session, req RescheduleRequest) Outcome
	CancelBooking(ctx context.Context, sess Session, req CancelRequest) Outcome
	AddGuests(ctx context.Context, sess Session, req AddGuestsRequest) Outcome
	CurrentTime() Outcome
}

// ListRequest selects appointments for an email.
type ListRequest struct {
	Email  string
	Status ListStatus
	Limit  int
}

// CreateMeetingRequest books a new meeting at an Eastern time.
type CreateMeetingRequest struct {
	Kind          MeetingKind
	StartTime     string
	AttendeeName  string
	AttendeeEmail string
}

// RescheduleRequest moves an appointment named by ID or by its current Eastern time.
type RescheduleRequest struct {
	BookingID    string
	DateTime     string
	NewStartTime string
	Reason       string
}

// CancelRequest cancels an appointment named by ID or by its Eastern time.
type CancelRequest struct {
	BookingID string
	DateTime  string
	Reason    string
}

// AddGuestsRequest adds guests to an appointment; Emails and Names pair up by index.
type AddGuestsRequest struct {
	BookingID string
	Emails    []string
	Names     []string
}
