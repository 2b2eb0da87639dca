package v1

import (
	"bytes"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	apperrors "github.com/Chriskfigures777/Niceone/internal/errors"
	"github.com/Chriskfigures777/Niceone/plugin/ics"
	"github.com/Chriskfigures777/Niceone/server/service/booking"
	"github.com/Chriskfigures777/Niceone/store"
)

const (
	defaultAuditLimit = 50
	maxAuditLimit     = 200
)

// ExportBookings renders the session caller's upcoming bookings as iCalendar.
// GET /api/v1/bookings.ics
func (s *APIV1Service) ExportBookings(c echo.Context) error {
	sess, err := s.liveSession(c)
	if err != nil {
		return err
	}

	reqCtx, ctx := requestContext(c, sess.ID(), "")
	outcome := s.Booking.ListBookings(ctx, sess, booking.ListRequest{Status: booking.ListActive})
	if !outcome.OK() {
		reqCtx.Warn("booking export failed")
		return apperrors.Wrap(outcome.Err, outcome.Code, outcome.Render())
	}

	var buf bytes.Buffer
	if err := ics.Write(&buf, outcome.Appointments, ics.Options{Name: "Bookings for " + outcome.Email}); err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeInternal, "failed to render calendar")
	}
	c.Response().Header().Set("Content-Disposition", `attachment; filename="bookings.ics"`)
	return c.Blob(http.StatusOK, "text/calendar; charset=utf-8", buf.Bytes())
}

type auditEvent struct {
	ID           int64     `json:"id"`
	Operation    string    `json:"operation"`
	BookingID    string    `json:"booking_id"`
	NewBookingID string    `json:"new_booking_id,omitempty"`
	Email        string    `json:"email,omitempty"`
	SessionID    string    `json:"session_id,omitempty"`
	Code         string    `json:"code"`
	Start        time.Time `json:"start,omitzero"`
	Detail       string    `json:"detail,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// ListAuditEvents returns recent booking mutations for the session's caller,
// newest first. booking_id narrows to one appointment.
// GET /api/v1/audit?booking_id=&limit=
func (s *APIV1Service) ListAuditEvents(c echo.Context) error {
	sess, err := s.liveSession(c)
	if err != nil {
		return err
	}
	limit, err := intQueryParam(c, "limit", defaultAuditLimit, maxAuditLimit)
	if err != nil {
		return err
	}

	find := &store.FindBookingEvent{Limit: limit}
	if email := sess.Email(); email != "" {
		find.Email = &email
	} else {
		id := sess.ID()
		find.SessionID = &id
	}
	if bookingID := c.QueryParam("booking_id"); bookingID != "" {
		find.BookingID = &bookingID
	}

	events, err := s.Store.ListBookingEvents(c.Request().Context(), find)
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeInternal, "failed to list booking events")
	}

	resp := make([]auditEvent, 0, len(events))
	for _, e := range events {
		ev := auditEvent{
			ID:           e.ID,
			Operation:    e.Operation,
			BookingID:    e.BookingID,
			NewBookingID: e.NewBookingID,
			Email:        e.Email,
			SessionID:    e.SessionID,
			Code:         e.Code,
			Detail:       e.Detail,
			CreatedAt:    time.Unix(e.CreatedTs, 0).UTC(),
		}
		if e.StartTs != 0 {
			ev.Start = time.Unix(e.StartTs, 0).UTC()
		}
		resp = append(resp, ev)
	}
	return c.JSON(http.StatusOK, map[string]any{"events": resp})
}
