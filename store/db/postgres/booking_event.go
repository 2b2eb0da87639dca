package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Chriskfigures777/Niceone/store"
)

func (d *DB) CreateBookingEvent(ctx context.Context, create *store.BookingEvent) (*store.BookingEvent, error) {
	fields := []string{"operation", "booking_id", "new_booking_id", "email", "session_id", "code", "start_ts", "detail", "created_ts"}

	if create.CreatedTs == 0 {
		create.CreatedTs = time.Now().Unix()
	}

	args := []any{
		create.Operation,
		create.BookingID,
		create.NewBookingID,
		create.Email,
		create.SessionID,
		create.Code,
		create.StartTs,
		create.Detail,
		create.CreatedTs,
	}

	stmt := `INSERT INTO booking_event (` + strings.Join(fields, ", ") + `)
		VALUES (` + placeholders(len(args)) + `)
		RETURNING id`

	if err := d.db.QueryRowContext(ctx, stmt, args...).Scan(&create.ID); err != nil {
		return nil, fmt.Errorf("failed to create booking_event: %w", err)
	}

	return create, nil
}

func (d *DB) ListBookingEvents(ctx context.Context, find *store.FindBookingEvent) ([]*store.BookingEvent, error) {
	if find == nil {
		return nil, fmt.Errorf("find parameter cannot be nil")
	}

	where, args := []string{"1 = 1"}, []any{}

	if find.ID != nil {
		where, args = append(where, "id = "+placeholder(len(args)+1)), append(args, *find.ID)
	}
	if find.BookingID != nil {
		where, args = append(where, "(booking_id = "+placeholder(len(args)+1)+" OR new_booking_id = "+placeholder(len(args)+2)+")"), append(args, *find.BookingID, *find.BookingID)
	}
	if find.Email != nil {
		where, args = append(where, "LOWER(email) = LOWER("+placeholder(len(args)+1)+")"), append(args, *find.Email)
	}
	if find.SessionID != nil {
		where, args = append(where, "session_id = "+placeholder(len(args)+1)), append(args, *find.SessionID)
	}
	if find.Operation != nil {
		where, args = append(where, "operation = "+placeholder(len(args)+1)), append(args, *find.Operation)
	}

	query := `SELECT id, operation, booking_id, new_booking_id, email, session_id, code, start_ts, detail, created_ts
		FROM booking_event WHERE ` + strings.Join(where, " AND ") + ` ORDER BY created_ts DESC, id DESC`

	if limit := find.Limit; limit > 0 {
		if limit > 1000 {
			limit = 1000
		}
		query += fmt.Sprintf(" LIMIT %d", limit)
	}
	if find.Offset > 0 {
		query += fmt.Sprintf(" OFFSET %d", find.Offset)
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list booking_events: %w", err)
	}
	defer rows.Close()

	list := make([]*store.BookingEvent, 0)
	for rows.Next() {
		e := &store.BookingEvent{}
		if err := rows.Scan(
			&e.ID,
			&e.Operation,
			&e.BookingID,
			&e.NewBookingID,
			&e.Email,
			&e.SessionID,
			&e.Code,
			&e.StartTs,
			&e.Detail,
			&e.CreatedTs,
		); err != nil {
			return nil, fmt.Errorf("failed to scan booking_event: %w", err)
		}
		list = append(list, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate booking_events: %w", err)
	}

	return list, nil
}
