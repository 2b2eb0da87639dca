package store

// BookingEvent is one audited booking mutation.
type BookingEvent struct {
	ID        int64
	Operation string // create/reschedule/cancel/add_guests
	BookingID string
	// NewBookingID is the appointment a reschedule created.
	NewBookingID string
	Email        string
	SessionID    string
	Code         string // outcome error code, OK on success
	StartTs      int64  // appointment start, unix seconds; 0 if unknown
	Detail       string
	CreatedTs    int64
}

// FindBookingEvent specifies the conditions for finding booking events.
type FindBookingEvent struct {
	ID        *int64
	BookingID *string
	Email     *string
	SessionID *string
	Operation *string
	Limit     int
	Offset    int
}
