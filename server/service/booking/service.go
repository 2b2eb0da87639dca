// Package booking resolves, books, moves and cancels appointments on the
// scheduling service on behalf of a conversation.
//
// Key features:
//   - Eastern date/time descriptions resolved to one appointment
//   - Per-appointment mutation guard so concurrent sessions cannot double-cancel
//   - Every operation returns an Outcome, never an error
//
// Mutating calls are issued once. A failed call is reported, not retried.
package booking

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/Chriskfigures777/Niceone/plugin/ai/aitime"
	"github.com/Chriskfigures777/Niceone/plugin/ai/timeout"
	"github.com/Chriskfigures777/Niceone/store"
)

// Recorder persists an audit trail of booking mutations.
type Recorder interface {
	CreateBookingEvent(ctx context.Context, create *store.BookingEvent) (*store.BookingEvent, error)
}

type service struct {
	client       SchedulingClient
	clock        aitime.TimeService
	guard        Guard
	recorder     Recorder
	defaultEmail string
	listLimit    int
	callTimeout  time.Duration
}

// Option configures the booking service.
type Option func(*service)

// WithGuard replaces the in-process mutation guard.
func WithGuard(g Guard) Option {
	return func(s *service) { s.guard = g }
}

// WithRecorder enables the audit trail.
func WithRecorder(r Recorder) Option {
	return func(s *service) { s.recorder = r }
}

// WithDefaultEmail sets the email used when neither the caller nor the
// session supplies one.
func WithDefaultEmail(email string) Option {
	return func(s *service) { s.defaultEmail = strings.TrimSpace(email) }
}

// WithCallTimeout bounds each call to the scheduling service.
func WithCallTimeout(d time.Duration) Option {
	return func(s *service) { s.callTimeout = d }
}

// WithTimeService replaces the parser and clock.
func WithTimeService(ts aitime.TimeService) Option {
	return func(s *service) { s.clock = ts }
}

// NewService creates a booking service on top of a scheduling client.
func NewService(client SchedulingClient, opts ...Option) Service {
	s := &service{
		client:      client,
		clock:       aitime.NewService(),
		guard:       NewKeyedMutex(),
		listLimit:   DefaultListLimit,
		callTimeout: timeout.SchedulingRequestTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) outcome(op Operation, err error) Outcome {
	return Outcome{Op: op, Code: Classify(err), Err: err, At: s.clock.Now()}
}

// ListBookings lists appointments for the resolved email.
func (s *service) ListBookings(ctx context.Context, sess Session, req ListRequest) Outcome {
	email, err := s.resolveEmail(req.Email, sess, errMissingEmail)
	if err != nil {
		return s.outcome(OpList, err)
	}

	status := req.Status
	if status == "" {
		status = ListActive
	}
	limit := req.Limit
	if limit <= 0 {
		limit = s.listLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}

	callCtx, cancel := context.WithTimeout(ctx, s.callTimeout)
	defer cancel()
	appointments, err := s.client.ListAppointments(callCtx, email, status, limit)

	o := s.outcome(OpList, err)
	o.Email = email
	o.Appointments = appointments
	return o
}

// GetBooking fetches one appointment by ID.
func (s *service) GetBooking(ctx context.Context, id string) Outcome {
	id = strings.TrimSpace(id)
	if id == "" {
		return s.outcome(OpGet, &ValidationError{Field: "booking_uid", Message: "A booking UID is required."})
	}

	callCtx, cancel := context.WithTimeout(ctx, s.callTimeout)
	defer cancel()
	appt, err := s.client.GetAppointment(callCtx, id)

	o := s.outcome(OpGet, err)
	o.BookingID = id
	if err == nil {
		o.Appointment = &appt
	}
	return o
}

// CreateMeeting books a Connect or Discover meeting. The session transcript
// becomes the meeting notes.
func (s *service) CreateMeeting(ctx context.Context, sess Session, req CreateMeetingRequest) Outcome {
	fail := func(err error) Outcome {
		o := s.outcome(OpCreate, err)
		o.Kind = req.Kind
		return o
	}

	email, err := s.resolveEmail(req.AttendeeEmail, sess, &ValidationError{
		Field:   "attendee_email",
		Message: "No email address provided. Please provide an email address for the attendee.",
	})
	if err != nil {
		return fail(err)
	}
	if strings.TrimSpace(req.AttendeeName) == "" {
		return fail(&ValidationError{Field: "attendee_name", Message: "An attendee name is required to book a meeting."})
	}
	start, err := s.clock.ParseInstant(req.StartTime)
	if err != nil {
		return fail(err)
	}

	create := CreateRequest{
		Kind:          req.Kind,
		Start:         start,
		AttendeeName:  strings.TrimSpace(req.AttendeeName),
		AttendeeEmail: email,
	}
	if sess != nil {
		create.Notes = sess.Transcript()
	}

	callCtx, cancel := context.WithTimeout(ctx, s.callTimeout)
	defer cancel()
	appt, err := s.client.CreateAppointment(callCtx, create)

	o := fail(err)
	o.Email = email
	if err == nil {
		if appt.Start.IsZero() {
			appt.Start = start
		}
		o.Appointment = &appt
		o.BookingID = appt.ID
		slog.Info("booking created",
			"booking_id", appt.ID,
			"kind", req.Kind,
			"start", start,
			"session_id", sessionID(sess),
		)
	}
	s.record(ctx, sess, o, start)
	return o
}

// RescheduleBooking moves an appointment to a new Eastern time. The new
// time is parsed before any call to the scheduling service.
func (s *service) RescheduleBooking(ctx context.Context, sess Session, req RescheduleRequest) Outcome {
	fail := func(err error) Outcome {
		o := s.outcome(OpReschedule, err)
		o.Query = req.DateTime
		o.BookingID = req.BookingID
		return o
	}

	if strings.TrimSpace(req.NewStartTime) == "" {
		return fail(&ValidationError{
			Field:   "new_start_time_eastern",
			Message: "The new start time is required. Please provide the new date and time for the rescheduled booking.",
		})
	}
	newStart, err := s.clock.ParseInstant(req.NewStartTime)
	if err != nil {
		return fail(err)
	}

	id, err := s.resolveTarget(ctx, sess, req.BookingID, req.DateTime)
	if err != nil {
		return fail(err)
	}

	unlock, err := s.guard.Lock(ctx, id)
	if err != nil {
		return fail(err)
	}
	defer unlock()

	callCtx, cancel := context.WithTimeout(ctx, s.callTimeout)
	defer cancel()
	appt, err := s.client.RescheduleAppointment(callCtx, id, newStart, req.Reason)

	o := fail(err)
	o.BookingID = id
	if err == nil {
		if appt.ID == "" {
			appt.ID = id
		}
		if appt.Start.IsZero() {
			appt.Start = newStart
		}
		o.Appointment = &appt
		slog.Info("booking rescheduled",
			"booking_id", id,
			"new_booking_id", appt.ID,
			"start", newStart,
			"session_id", sessionID(sess),
		)
	}
	s.record(ctx, sess, o, newStart)
	return o
}

// CancelBooking cancels an appointment. Cancelling an appointment that is
// already cancelled issues no mutating call.
func (s *service) CancelBooking(ctx context.Context, sess Session, req CancelRequest) Outcome {
	fail := func(err error) Outcome {
		o := s.outcome(OpCancel, err)
		o.Query = req.DateTime
		o.BookingID = req.BookingID
		return o
	}

	id, err := s.resolveTarget(ctx, sess, req.BookingID, req.DateTime)
	if err != nil {
		return fail(err)
	}

	unlock, err := s.guard.Lock(ctx, id)
	if err != nil {
		return fail(err)
	}
	defer unlock()

	getCtx, cancelGet := context.WithTimeout(ctx, s.callTimeout)
	existing, getErr := s.client.GetAppointment(getCtx, id)
	cancelGet()
	if getErr == nil && existing.Status == StatusCancelled {
		o := fail(nil)
		o.BookingID = id
		o.Appointment = &existing
		o.AlreadyCancelled = true
		return o
	}
	if getErr != nil {
		slog.Warn("booking lookup before cancel failed, cancelling anyway",
			"booking_id", id,
			"error", getErr,
		)
	}

	callCtx, cancel := context.WithTimeout(ctx, s.callTimeout)
	defer cancel()
	appt, err := s.client.CancelAppointment(callCtx, id, req.Reason)

	o := fail(err)
	o.BookingID = id
	if err == nil {
		if getErr == nil {
			appt = fillFrom(appt, existing)
		}
		if appt.CancellationReason == "" {
			appt.CancellationReason = req.Reason
		}
		o.Appointment = &appt
		slog.Info("booking cancelled",
			"booking_id", id,
			"status", appt.Status,
			"session_id", sessionID(sess),
		)
	}
	start := existing.Start
	if o.Appointment != nil && !o.Appointment.Start.IsZero() {
		start = o.Appointment.Start
	}
	s.record(ctx, sess, o, start)
	return o
}

// AddGuests adds guests to an appointment.
func (s *service) AddGuests(ctx context.Context, sess Session, req AddGuestsRequest) Outcome {
	fail := func(err error) Outcome {
		o := s.outcome(OpAddGuests, err)
		o.BookingID = req.BookingID
		return o
	}

	id := strings.TrimSpace(req.BookingID)
	if id == "" {
		return fail(&ValidationError{Field: "booking_uid", Message: "A booking UID is required."})
	}
	if len(req.Emails) != len(req.Names) {
		return fail(&ValidationError{Field: "guest_emails", Message: "Number of emails must match number of names"})
	}
	if len(req.Emails) == 0 {
		return fail(&ValidationError{Field: "guest_emails", Message: "At least one guest is required."})
	}

	guests := make([]Guest, 0, len(req.Emails))
	for i := range req.Emails {
		guests = append(guests, Guest{Email: strings.TrimSpace(req.Emails[i]), Name: strings.TrimSpace(req.Names[i])})
	}

	unlock, err := s.guard.Lock(ctx, id)
	if err != nil {
		return fail(err)
	}
	defer unlock()

	callCtx, cancel := context.WithTimeout(ctx, s.callTimeout)
	defer cancel()
	appt, err := s.client.AddGuests(callCtx, id, guests)

	o := fail(err)
	o.BookingID = id
	o.Guests = guests
	if err == nil {
		o.Appointment = &appt
		slog.Info("booking guests added", "booking_id", id, "count", len(guests))
	}
	s.record(ctx, sess, o, appt.Start)
	return o
}

// CurrentTime reports the current Eastern time.
func (s *service) CurrentTime() Outcome {
	return s.outcome(OpCurrentTime, nil)
}

// resolveEmail picks the explicit email, then the session's, then the default.
func (s *service) resolveEmail(explicit string, sess Session, missing *ValidationError) (string, error) {
	if email := strings.TrimSpace(explicit); email != "" {
		return email, nil
	}
	if sess != nil {
		if email := strings.TrimSpace(sess.Email()); email != "" {
			return email, nil
		}
	}
	if s.defaultEmail != "" {
		return s.defaultEmail, nil
	}
	return "", missing
}

// resolveTarget returns the appointment ID a caller named directly or by time.
func (s *service) resolveTarget(ctx context.Context, sess Session, id, when string) (string, error) {
	if id = strings.TrimSpace(id); id != "" {
		return id, nil
	}
	if strings.TrimSpace(when) == "" {
		return "", &ValidationError{
			Field:   "booking_uid",
			Message: "Please provide either the booking UID or the booking's date and time.",
		}
	}
	if _, err := s.clock.ParseLocalDateTime(when); err != nil {
		return "", err
	}

	email, err := s.resolveEmail("", sess, &ValidationError{
		Field:   "email",
		Message: "No email address provided. Cannot search for booking without email.",
	})
	if err != nil {
		return "", err
	}

	callCtx, cancel := context.WithTimeout(ctx, s.callTimeout)
	defer cancel()
	candidates, err := s.client.ListAppointments(callCtx, email, ListActive, s.listLimit)
	if err != nil {
		return "", err
	}

	appt, err := Resolve(when, candidates)
	if err != nil {
		return "", err
	}
	return appt.ID, nil
}

// record writes an audit event for a mutation. Failures are logged only.
func (s *service) record(ctx context.Context, sess Session, o Outcome, start time.Time) {
	if s.recorder == nil {
		return
	}

	event := &store.BookingEvent{
		Operation: string(o.Op),
		BookingID: o.BookingID,
		Email:     o.Email,
		SessionID: sessionID(sess),
		Code:      string(o.Code),
	}
	if !start.IsZero() {
		event.StartTs = start.Unix()
	}
	if o.Op == OpReschedule && o.Appointment != nil {
		event.NewBookingID = o.Appointment.ID
	}
	if o.Err != nil {
		event.Detail = o.Err.Error()
	}

	if _, err := s.recorder.CreateBookingEvent(context.WithoutCancel(ctx), event); err != nil {
		slog.Warn("failed to record booking event",
			"operation", o.Op,
			"booking_id", o.BookingID,
			"error", err,
		)
	}
}

// fillFrom copies display fields the cancel response left empty.
func fillFrom(a, prior Appointment) Appointment {
	if a.ID == "" {
		a.ID = prior.ID
	}
	if a.Start.IsZero() {
		a.Start = prior.Start
	}
	if a.DisplayTitle == "" {
		a.DisplayTitle = prior.DisplayTitle
	}
	if a.AttendeeName == "" {
		a.AttendeeName = prior.AttendeeName
	}
	return a
}

func sessionID(sess Session) string {
	if sess == nil {
		return ""
	}
	return sess.ID()
}
