package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/sakif/shareit/internal/model"
	"github.com/sakif/shareit/internal/repository"
)

// TESTING WITH IN-MEMORY SQLITE:
// ":memory:" creates a fresh database that exists only during the test, so
// every test is isolated and nothing touches the disk.
func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// base is a fixed instant used as "now" across repository tests.
var base = time.Date(2030, 6, 1, 12, 0, 0, 0, time.UTC)

func createTestUser(t *testing.T, db *DB, name string) *model.User {
	t.Helper()
	u := &model.User{Name: name, Email: name + "@example.com"}
	if err := db.Users().Create(context.Background(), u); err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return u
}

func createTestItem(t *testing.T, db *DB, ownerID int64, name, description string, available bool) *model.Item {
	t.Helper()
	it := &model.Item{OwnerID: ownerID, Name: name, Description: description, Available: available}
	if err := db.Items().Create(context.Background(), it); err != nil {
		t.Fatalf("failed to create test item: %v", err)
	}
	return it
}

func createTestBooking(t *testing.T, db *DB, itemID, bookerID int64, start, end time.Time, status model.Status) *model.Booking {
	t.Helper()
	b := &model.Booking{ItemID: itemID, BookerID: bookerID, Start: start, End: end, Status: status}
	if err := db.Bookings().Create(context.Background(), b); err != nil {
		t.Fatalf("failed to create test booking: %v", err)
	}
	return b
}

func TestNew_FileDatabaseSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shareit.db")

	db, err := New(path)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	createTestUser(t, db, "ann")
	db.Close()

	// Migrations must be idempotent on an existing file.
	db, err = New(path)
	if err != nil {
		t.Fatalf("New() on existing file error = %v", err)
	}
	defer db.Close()

	users, err := db.Users().List(context.Background())
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(users) != 1 || users[0].Name != "ann" {
		t.Errorf("List() = %+v, want the user created before reopen", users)
	}
}

func TestAtomic_CommitsOnSuccess(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	err := db.Atomic(ctx, func(s repository.Store) error {
		return s.Users().Create(ctx, &model.User{Name: "ann", Email: "ann@example.com"})
	})
	if err != nil {
		t.Fatalf("Atomic() error = %v", err)
	}

	users, _ := db.Users().List(ctx)
	if len(users) != 1 {
		t.Errorf("got %d users after commit, want 1", len(users))
	}
}

func TestAtomic_RollsBackOnError(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	boom := errors.New("boom")

	err := db.Atomic(ctx, func(s repository.Store) error {
		if err := s.Users().Create(ctx, &model.User{Name: "ann", Email: "ann@example.com"}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("Atomic() error = %v, want %v", err, boom)
	}

	users, _ := db.Users().List(ctx)
	if len(users) != 0 {
		t.Errorf("got %d users after rollback, want 0", len(users))
	}
}

func TestAtomic_NestedJoinsOuterTransaction(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	boom := errors.New("boom")

	err := db.Atomic(ctx, func(s repository.Store) error {
		inner := s.Atomic(ctx, func(s repository.Store) error {
			return s.Users().Create(ctx, &model.User{Name: "ann", Email: "ann@example.com"})
		})
		if inner != nil {
			return inner
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("Atomic() error = %v, want %v", err, boom)
	}

	users, _ := db.Users().List(ctx)
	if len(users) != 0 {
		t.Errorf("inner write survived outer rollback: %d users", len(users))
	}
}

func TestTimeEncodingOrdersLexicographically(t *testing.T) {
	earlier := time.Date(2030, 1, 2, 3, 4, 5, 6, time.FixedZone("X", 3600))
	later := earlier.Add(time.Nanosecond)

	if !(encodeTime(earlier) < encodeTime(later)) {
		t.Errorf("encodeTime(%v) >= encodeTime(%v)", earlier, later)
	}

	got, err := decodeTime(encodeTime(earlier))
	if err != nil {
		t.Fatalf("decodeTime() error = %v", err)
	}
	if !got.Equal(earlier) {
		t.Errorf("decodeTime() = %v, want %v", got, earlier)
	}
}

func TestEscapeLike(t *testing.T) {
	tests := map[string]string{
		"drill":   "drill",
		"100%":    `100\%`,
		"a_b":     `a\_b`,
		`back\sl`: `back\\sl`,
	}
	for in, want := range tests {
		if got := escapeLike(in); got != want {
			t.Errorf("escapeLike(%q) = %q, want %q", in, got, want)
		}
	}
}
