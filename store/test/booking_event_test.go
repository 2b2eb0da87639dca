package test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Chriskfigures777/Niceone/store"
)

func TestBookingEventStore(t *testing.T) {
	ctx := context.Background()
	ts := NewTestingStore(ctx, t)

	created, err := ts.CreateBookingEvent(ctx, &store.BookingEvent{
		Operation: "cancel",
		BookingID: "uid-1",
		Email:     "Sam@Example.com",
		SessionID: "s1",
		Code:      "OK",
		StartTs:   1784140200,
		CreatedTs: 100,
	})
	require.NoError(t, err)
	require.NotZero(t, created.ID)

	_, err = ts.CreateBookingEvent(ctx, &store.BookingEvent{
		Operation:    "reschedule",
		BookingID:    "uid-2",
		NewBookingID: "uid-3",
		Email:        "sam@example.com",
		SessionID:    "s2",
		Code:         "BAD_REQUEST",
		Detail:       "scheduling service returned 400: start is in the past",
		CreatedTs:    200,
	})
	require.NoError(t, err)

	all, err := ts.ListBookingEvents(ctx, &store.FindBookingEvent{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	require.Equal(t, "reschedule", all[0].Operation, "newest first")
	require.Equal(t, "cancel", all[1].Operation)
	require.Equal(t, int64(1784140200), all[1].StartTs)

	email := "sam@example.com"
	byEmail, err := ts.ListBookingEvents(ctx, &store.FindBookingEvent{Email: &email})
	require.NoError(t, err)
	require.Len(t, byEmail, 2, "email match is case-insensitive")

	newID := "uid-3"
	byBooking, err := ts.ListBookingEvents(ctx, &store.FindBookingEvent{BookingID: &newID})
	require.NoError(t, err)
	require.Len(t, byBooking, 1)
	require.Equal(t, "uid-2", byBooking[0].BookingID)

	op := "cancel"
	session := "s2"
	none, err := ts.ListBookingEvents(ctx, &store.FindBookingEvent{Operation: &op, SessionID: &session})
	require.NoError(t, err)
	require.Empty(t, none)

	limited, err := ts.ListBookingEvents(ctx, &store.FindBookingEvent{Limit: 1})
	require.NoError(t, err)
	require.Len(t, limited, 1)

	_, err = ts.ListBookingEvents(ctx, nil)
	require.Error(t, err)
}

func TestMigrateIsIdempotent(t *testing.T) {
	ctx := context.Background()
	ts := NewTestingStore(ctx, t)

	require.NoError(t, ts.Migrate(ctx))
	initialized, err := ts.GetDriver().IsInitialized(ctx)
	require.NoError(t, err)
	require.True(t, initialized)
}
