package test

import (
	"context"
	"os"
	"testing"

	"github.com/Chriskfigures777/Niceone/internal/profile"
	"github.com/Chriskfigures777/Niceone/store"
	"github.com/Chriskfigures777/Niceone/store/db"
)

// NewTestingStore returns a migrated store. It uses in-memory SQLite unless
// POSTGRES_TEST_DSN points at a PostgreSQL database.
func NewTestingStore(ctx context.Context, t *testing.T) *store.Store {
	t.Helper()

	p := &profile.Profile{
		Mode:   "dev",
		Driver: "sqlite",
		DSN:    ":memory:",
	}
	if dsn := os.Getenv("POSTGRES_TEST_DSN"); dsn != "" {
		p.Driver = "postgres"
		p.DSN = dsn
	}

	driver, err := db.NewDBDriver(p)
	if err != nil {
		t.Fatalf("failed to create db driver: %v", err)
	}

	s := store.New(driver, p)
	if err := s.Migrate(ctx); err != nil {
		t.Fatalf("failed to migrate db: %v", err)
	}
	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Logf("failed to close store: %v", err)
		}
	})
	return s
}
