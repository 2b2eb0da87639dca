package tools

import (
	"context"

	"github.com/invopop/jsonschema"

	"github.com/Chriskfigures777/Niceone/server/service/booking"
)

// Tool names as the agent sees them.
const (
	NameGetAllBookings        = "get_all_bookings"
	NameGetBooking            = "get_booking"
	NameCreateConnectMeeting  = "create_connect_meeting"
	NameCreateDiscoverMeeting = "create_discover_meeting"
	NameRescheduleBooking     = "reschedule_booking"
	NameCancelBooking         = "cancel_booking"
	NameAddGuestsToBooking    = "add_guests_to_booking"
	NameGetCurrentTime        = "get_current_time"
)

type GetAllBookingsInput struct {
	Take   int    `json:"take,omitempty" jsonschema_description:"Maximum bookings to return (default 100, at most 250)."`
	Status string `json:"status,omitempty" jsonschema:"enum=upcoming,enum=past,enum=cancelled" jsonschema_description:"Which bookings to list (default upcoming)."`
	Email  string `json:"email,omitempty" jsonschema_description:"Attendee email. Defaults to the email given in the conversation."`
}

type GetBookingInput struct {
	BookingUID string `json:"booking_uid" jsonschema_description:"The booking UID."`
}

type CreateMeetingInput struct {
	StartTimeEastern string `json:"start_time_eastern" jsonschema_description:"Start in Eastern Time, e.g. '2026-01-10 09:00' or '01/10/2026 9:00 AM'."`
	AttendeeName     string `json:"attendee_name" jsonschema_description:"Attendee full name."`
	AttendeeEmail    string `json:"attendee_email,omitempty" jsonschema_description:"Attendee email. Defaults to the email given in the conversation."`
}

type RescheduleBookingInput struct {
	BookingUID          string `json:"booking_uid,omitempty" jsonschema_description:"The booking UID, if known."`
	OldDateTimeEastern  string `json:"old_date_time_eastern,omitempty" jsonschema_description:"Current date/time of the booking in Eastern Time, used when the UID is unknown."`
	NewStartTimeEastern string `json:"new_start_time_eastern" jsonschema_description:"New date/time in Eastern Time."`
	Reason              string `json:"reason,omitempty" jsonschema_description:"Why the booking moves."`
}

type CancelBookingInput struct {
	BookingUID      string `json:"booking_uid,omitempty" jsonschema_description:"The booking UID, if known."`
	DateTimeEastern string `json:"date_time_eastern,omitempty" jsonschema_description:"Date/time of the booking in Eastern Time, e.g. 'July 15, 2026 at 2:00 PM'."`
	Reason          string `json:"reason,omitempty" jsonschema_description:"Cancellation reason."`
}

type AddGuestsInput struct {
	BookingUID  string   `json:"booking_uid" jsonschema_description:"The booking UID."`
	GuestEmails []string `json:"guest_emails" jsonschema_description:"Guest emails."`
	GuestNames  []string `json:"guest_names" jsonschema_description:"Guest names, in the same order as the emails."`
}

type GetCurrentTimeInput struct{}

// bookingTool adapts one booking.Service call to the Tool interface.
type bookingTool[T any] struct {
	name        string
	description string
	schema      *jsonschema.Schema
	call        func(ctx context.Context, sess booking.Session, in T) booking.Outcome
}

func (t *bookingTool[T]) Name() string                    { return t.name }
func (t *bookingTool[T]) Description() string             { return t.description }
func (t *bookingTool[T]) InputSchema() *jsonschema.Schema { return t.schema }

func (t *bookingTool[T]) Run(ctx context.Context, input string) (*Result, error) {
	in, err := decodeInput[T](input)
	if err != nil {
		return nil, err
	}
	o := t.call(ctx, SessionFrom(ctx), in)
	return &Result{Output: o.Render(), Success: o.OK(), Code: o.Code}, nil
}

func newBookingTool[T any](name, description string, call func(context.Context, booking.Session, T) booking.Outcome) Tool {
	return &bookingTool[T]{
		name:        name,
		description: description,
		schema:      GenerateSchema[T](),
		call:        call,
	}
}

// BookingTools returns the agent tools backed by svc.
func BookingTools(svc booking.Service) []Tool {
	createMeeting := func(kind booking.MeetingKind) func(context.Context, booking.Session, CreateMeetingInput) booking.Outcome {
		return func(ctx context.Context, sess booking.Session, in CreateMeetingInput) booking.Outcome {
			return svc.CreateMeeting(ctx, sess, booking.CreateMeetingRequest{
				Kind:          kind,
				StartTime:     in.StartTimeEastern,
				AttendeeName:  in.AttendeeName,
				AttendeeEmail: in.AttendeeEmail,
			})
		}
	}

	return []Tool{
		newBookingTool(NameGetAllBookings,
			"Get bookings for an email. Use status 'upcoming' for future appointments, 'past' for past ones, or 'cancelled'. "+
				"ALWAYS call this when the user asks about their appointments; never guess appointment data.",
			func(ctx context.Context, sess booking.Session, in GetAllBookingsInput) booking.Outcome {
				status, err := booking.ParseListStatus(in.Status)
				if err != nil {
					return booking.Outcome{Op: booking.OpList, Code: booking.Classify(err), Err: err}
				}
				return svc.ListBookings(ctx, sess, booking.ListRequest{Email: in.Email, Status: status, Limit: in.Take})
			}),
		newBookingTool(NameGetBooking,
			"Get details of a specific booking by its UID.",
			func(ctx context.Context, _ booking.Session, in GetBookingInput) booking.Outcome {
				return svc.GetBooking(ctx, in.BookingUID)
			}),
		newBookingTool(NameCreateConnectMeeting,
			"Create a Connect meeting at an Eastern Time such as '2026-01-10 09:00' or '01/10/2026 9:00 AM'. "+
				"The conversation history is included in the meeting notes.",
			createMeeting(booking.KindConnect)),
		newBookingTool(NameCreateDiscoverMeeting,
			"Create a Discover meeting at an Eastern Time such as '2026-01-10 10:00' or '01/10/2026 10:00 AM'. "+
				"The conversation history is included in the meeting notes.",
			createMeeting(booking.KindDiscover)),
		newBookingTool(NameRescheduleBooking,
			"Reschedule a booking. Provide booking_uid, or old_date_time_eastern with the booking's current Eastern Time, "+
				"plus new_start_time_eastern. This creates a new booking and cancels the old one.",
			func(ctx context.Context, sess booking.Session, in RescheduleBookingInput) booking.Outcome {
				return svc.RescheduleBooking(ctx, sess, booking.RescheduleRequest{
					BookingID:    in.BookingUID,
					DateTime:     in.OldDateTimeEastern,
					NewStartTime: in.NewStartTimeEastern,
					Reason:       in.Reason,
				})
			}),
		newBookingTool(NameCancelBooking,
			"Cancel a booking. Provide booking_uid, or date_time_eastern such as '2026-07-15 2:00 PM' or "+
				"'July 15, 2026 at 2:00 PM' to find the booking by its time.",
			func(ctx context.Context, sess booking.Session, in CancelBookingInput) booking.Outcome {
				return svc.CancelBooking(ctx, sess, booking.CancelRequest{
					BookingID: in.BookingUID,
					DateTime:  in.DateTimeEastern,
					Reason:    in.Reason,
				})
			}),
		newBookingTool(NameAddGuestsToBooking,
			"Add guests to a booking. Provide lists of emails and names in matching order.",
			func(ctx context.Context, sess booking.Session, in AddGuestsInput) booking.Outcome {
				return svc.AddGuests(ctx, sess, booking.AddGuestsRequest{
					BookingID: in.BookingUID,
					Emails:    in.GuestEmails,
					Names:     in.GuestNames,
				})
			}),
		newBookingTool(NameGetCurrentTime,
			"Get the current time in Eastern Time.",
			func(_ context.Context, _ booking.Session, _ GetCurrentTimeInput) booking.Outcome {
				return svc.CurrentTime()
			}),
	}
}
