package store

import (
	"context"

	"github.com/Chriskfigures777/Niceone/internal/profile"
)

// Store provides database access to all raw objects.
type Store struct {
	profile *profile.Profile
	driver  Driver
}

// New creates a new instance of Store.
func New(driver Driver, profile *profile.Profile) *Store {
	return &Store{
		driver:  driver,
		profile: profile,
	}
}

func (s *Store) GetDriver() Driver {
	return s.driver
}

func (s *Store) Close() error {
	return s.driver.Close()
}

func (s *Store) CreateBookingEvent(ctx context.Context, create *BookingEvent) (*BookingEvent, error) {
	return s.driver.CreateBookingEvent(ctx, create)
}

func (s *Store) ListBookingEvents(ctx context.Context, find *FindBookingEvent) ([]*BookingEvent, error) {
	return s.driver.ListBookingEvents(ctx, find)
}
