package store

import (
	"context"
	"database/sql"
)

// Driver is an interface for store driver.
// It contains all methods that store database driver should implement.
type Driver interface {
	GetDB() *sql.DB
	Close() error

	IsInitialized(ctx context.Context) (bool, error)

	// BookingEvent model related methods.
	CreateBookingEvent(ctx context.Context, create *BookingEvent) (*BookingEvent, error)
	ListBookingEvents(ctx context.Context, find *FindBookingEvent) ([]*BookingEvent, error)
}
