// Package testutil provides shared helpers for tests: a migrated SQLite
// store, instants in the business timezone and a silent logger.
package testutil

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/Veraticus/la-lenera/internal/storage"
)

// BusinessTimezone is the zone the default catalog schedules in.
const BusinessTimezone = "America/Bogota"

// SetupTestStore creates a migrated SQLite store in a temporary directory.
// It is closed when the test ends.
//
// Example:
//
//	store := testutil.SetupTestStore(t)
//	gate := cooldown.NewGate(store)
func SetupTestStore(t *testing.T) *storage.SQLiteStorage {
	t.Helper()

	store, err := storage.NewSQLiteStorage(filepath.Join(t.TempDir(), "lenera.db"))
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	if err := store.Migrate(context.Background()); err != nil {
		_ = store.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Logf("failed to close test database: %v", err)
		}
	})
	return store
}

// Bogota returns 2025-03-10 (a Monday) at hour:minute business time.
func Bogota(t *testing.T, hour, minute int) time.Time {
	t.Helper()
	loc, err := time.LoadLocation(BusinessTimezone)
	if err != nil {
		t.Fatalf("failed to load %s: %v", BusinessTimezone, err)
	}
	return time.Date(2025, 3, 10, hour, minute, 0, 0, loc)
}

// QuietLogger discards everything.
func QuietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
