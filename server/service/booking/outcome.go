package booking

import (
	"fmt"
	"strings"
	"time"

	apperrors "github.com/Chriskfigures777/Niceone/internal/errors"
	"github.com/Chriskfigures777/Niceone/server/timezone"
)

// Operation names a booking operation.
type Operation string

const (
	OpList        Operation = "list"
	OpGet         Operation = "get"
	OpCreate      Operation = "create"
	OpReschedule  Operation = "reschedule"
	OpCancel      Operation = "cancel"
	OpAddGuests   Operation = "add_guests"
	OpCurrentTime Operation = "current_time"
)

// Outcome is the result of one booking operation. Code classifies it and
// Render turns it into the text the conversation hears.
type Outcome struct {
	Op   Operation
	Code apperrors.ErrorCode
	Err  error
	// At is when the operation finished.
	At time.Time

	Email string
	Kind  MeetingKind
	// BookingID is the appointment the caller named or the resolver chose.
	BookingID string
	// Query is the date/time text used to find the appointment.
	Query string

	Appointment  *Appointment
	Appointments []Appointment
	Guests       []Guest

	AlreadyCancelled bool
}

// OK reports whether the operation succeeded.
func (o Outcome) OK() bool {
	return o.Code == apperrors.ErrCodeOK
}

const (
	timeFormatHelp = "Please provide time in Eastern Time format (e.g., '2026-01-10 09:00' or '01/10/2026 9:00 AM')."
	unknownTime    = "Unknown time"
	untitled       = "Untitled"
)

// Render produces the user-facing text for o.
func (o Outcome) Render() string {
	switch o.Op {
	case OpList:
		return o.renderList()
	case OpGet:
		return o.renderGet()
	case OpCreate:
		return o.renderCreate()
	case OpReschedule:
		return o.renderReschedule()
	case OpCancel:
		return o.renderCancel()
	case OpAddGuests:
		return o.renderAddGuests()
	case OpCurrentTime:
		return timezone.FormatInstantEastern(o.At)
	default:
		if o.Err != nil {
			return "Error: " + o.Err.Error()
		}
		return ""
	}
}

func (o Outcome) now() string {
	return timezone.FormatInstantEastern(o.At)
}

func (o Outcome) renderList() string {
	if !o.OK() {
		if o.Code == apperrors.ErrCodeValidation {
			return "Error: " + o.Err.Error()
		}
		return "Error retrieving bookings: " + o.Err.Error()
	}
	if len(o.Appointments) == 0 {
		return fmt.Sprintf("Retrieved bookings at %s. No bookings found for email %s.", o.now(), o.Email)
	}

	details := make([]string, 0, len(o.Appointments))
	for _, a := range o.Appointments {
		details = append(details, fmt.Sprintf("%s on %s with %s", title(a), startText(a), attendee(a)))
	}
	return fmt.Sprintf("Retrieved bookings at %s. Found %d booking(s) for %s: %s",
		o.now(), len(o.Appointments), o.Email, strings.Join(details, "; "))
}

func (o Outcome) renderGet() string {
	switch o.Code {
	case apperrors.ErrCodeOK:
		a := o.Appointment
		return fmt.Sprintf("Retrieved booking details at %s. %s - %s (Status: %s)", o.now(), title(*a), startText(*a), statusText(*a))
	case apperrors.ErrCodeNotFound:
		return "Error retrieving booking - booking not found. Please check the booking UID: " + o.BookingID
	case apperrors.ErrCodeValidation:
		return "Error: " + o.Err.Error()
	default:
		return "Error retrieving booking: " + o.Err.Error()
	}
}

func (o Outcome) renderCreate() string {
	name := o.Kind.DisplayName()
	switch o.Code {
	case apperrors.ErrCodeOK:
		return fmt.Sprintf("%s meeting scheduled at %s. Meeting created successfully for %s. Booking UID: %s",
			name, o.now(), startText(*o.Appointment), o.Appointment.ID)
	case apperrors.ErrCodeParse:
		return fmt.Sprintf("Error creating %s meeting - invalid time format: %v. %s", name, o.Err, timeFormatHelp)
	case apperrors.ErrCodeBadRequest:
		return fmt.Sprintf("Error creating %s meeting - bad request. Please check: 1) Time format is correct (Eastern Time), 2) Date is in the future, 3) Email is valid. Details: %v", name, o.Err)
	case apperrors.ErrCodeValidation:
		return "Error: " + o.Err.Error()
	default:
		return fmt.Sprintf("Error creating %s meeting: %v", name, o.Err)
	}
}

func (o Outcome) renderReschedule() string {
	switch o.Code {
	case apperrors.ErrCodeOK:
		return fmt.Sprintf("Booking rescheduled at %s. New booking created: %s (UID: %s). The original booking has been cancelled.",
			o.now(), startText(*o.Appointment), o.Appointment.ID)
	case apperrors.ErrCodeNoMatch:
		return noMatchText(o.Query)
	case apperrors.ErrCodeParse:
		return fmt.Sprintf("Error rescheduling booking - invalid time format: %v. %s", o.Err, timeFormatHelp)
	case apperrors.ErrCodeBadRequest:
		return fmt.Sprintf("Error rescheduling booking - bad request. Please check: 1) Time format is correct (Eastern Time), 2) Date is in the future, 3) Booking UID is valid. Details: %v", o.Err)
	case apperrors.ErrCodeNotFound:
		return "Error rescheduling booking - booking not found. Please check the booking UID or date/time provided."
	case apperrors.ErrCodeValidation:
		return "Error: " + o.Err.Error()
	default:
		return fmt.Sprintf("Error rescheduling booking: %v", o.Err)
	}
}

func (o Outcome) renderCancel() string {
	switch o.Code {
	case apperrors.ErrCodeOK:
		if o.AlreadyCancelled {
			return "This booking is already cancelled. No action needed."
		}
		a := *o.Appointment
		if a.Status != StatusCancelled {
			return fmt.Sprintf("Booking cancellation processed at %s. Status: %s. Please verify the cancellation was successful.", o.now(), statusText(a))
		}
		reason := ""
		if a.CancellationReason != "" {
			reason = " Reason: " + a.CancellationReason
		}
		return fmt.Sprintf("Booking cancelled successfully at %s. %s on %s has been cancelled.%s", o.now(), title(a), startText(a), reason)
	case apperrors.ErrCodeNoMatch:
		return noMatchText(o.Query)
	case apperrors.ErrCodeParse:
		return fmt.Sprintf("Error parsing date/time - invalid time format: %v. Please provide time in Eastern Time format (e.g., '2026-07-15 2:00 PM' or 'July 15, 2026 at 2:00 PM').", o.Err)
	case apperrors.ErrCodeBadRequest:
		return fmt.Sprintf("Error canceling booking - bad request. Please check the booking UID or date/time provided. Details: %v", o.Err)
	case apperrors.ErrCodeNotFound:
		return "Error canceling booking - booking not found. Please check the booking UID or date/time provided."
	case apperrors.ErrCodeValidation:
		return "Error: " + o.Err.Error()
	default:
		return fmt.Sprintf("Error canceling booking: %v", o.Err)
	}
}

func (o Outcome) renderAddGuests() string {
	switch o.Code {
	case apperrors.ErrCodeOK:
		names := make([]string, 0, len(o.Guests))
		for _, g := range o.Guests {
			names = append(names, fmt.Sprintf("%s (%s)", g.Name, g.Email))
		}
		return fmt.Sprintf("Guests added at %s. %s on %s now includes: %s",
			o.now(), title(*o.Appointment), startText(*o.Appointment), strings.Join(names, ", "))
	case apperrors.ErrCodeNotFound:
		return "Error adding guests - booking not found. Please check the booking UID: " + o.BookingID
	case apperrors.ErrCodeValidation:
		return "Error: " + o.Err.Error()
	default:
		return fmt.Sprintf("Error adding guests: %v", o.Err)
	}
}

func noMatchText(query string) string {
	return fmt.Sprintf("No upcoming booking found for %s Eastern Time. Please check the date and time, or provide the booking UID directly.", query)
}

func title(a Appointment) string {
	if a.DisplayTitle == "" {
		return untitled
	}
	return a.DisplayTitle
}

func attendee(a Appointment) string {
	if a.AttendeeName == "" {
		return "Unknown"
	}
	return a.AttendeeName
}

func startText(a Appointment) string {
	if a.Start.IsZero() {
		return unknownTime
	}
	return timezone.FormatInstantEastern(a.Start)
}

func statusText(a Appointment) string {
	if a.StatusDetail != "" {
		return a.StatusDetail
	}
	return string(a.Status)
}
