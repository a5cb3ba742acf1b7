package request

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"whatsdoc/internal/adapters/storage"
	domain "whatsdoc/internal/domain/request"
)

// newTestStore creates a store backed by an in-memory SQLite database.
func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := storage.InitDB(db); err != nil {
		t.Fatalf("init db: %v", err)
	}
	return NewSQLiteStore(db)
}

func pendingRequest(id string, requestedAt time.Time) domain.Request {
	return domain.Request{
		ID:            id,
		CustomerName:  "Ana",
		PhoneNumber:   "+1-555-0100",
		DocumentLabel: "Invoice-7",
		Status:        domain.StatusPending,
		RequestedAt:   requestedAt,
	}
}

// TestInsertAndGetByID tests the insert/lookup round trip.
func TestInsertAndGetByID(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	requestedAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	if err := store.Insert(ctx, pendingRequest("r1", requestedAt)); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	got, err := store.GetByID(ctx, "r1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.CustomerName != "Ana" {
		t.Errorf("CustomerName = %q, want Ana", got.CustomerName)
	}
	if got.Status != domain.StatusPending {
		t.Errorf("Status = %q, want pending", got.Status)
	}
	if !got.RequestedAt.Equal(requestedAt) {
		t.Errorf("RequestedAt = %v, want %v", got.RequestedAt, requestedAt)
	}
	if !got.CompletedAt.IsZero() {
		t.Errorf("CompletedAt should be zero while pending, got %v", got.CompletedAt)
	}
}

// TestGetByID_NotFound tests that a missing id surfaces sql.ErrNoRows.
func TestGetByID_NotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.GetByID(context.Background(), "missing")
	if !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("expected sql.ErrNoRows, got %v", err)
	}
}

// TestListByStatus_OrderAndLimit tests oldest-first ordering and the limit cap.
func TestListByStatus_OrderAndLimit(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	// Insert out of chronological order
	for _, rec := range []struct {
		id     string
		offset time.Duration
	}{
		{"r3", 2 * time.Hour},
		{"r1", 0},
		{"r2", time.Hour},
	} {
		if err := store.Insert(ctx, pendingRequest(rec.id, base.Add(rec.offset))); err != nil {
			t.Fatalf("Insert %s: %v", rec.id, err)
		}
	}

	list, err := store.ListByStatus(ctx, domain.StatusPending, 100)
	if err != nil {
		t.Fatalf("ListByStatus: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("len = %d, want 3", len(list))
	}
	for i, want := range []string{"r1", "r2", "r3"} {
		if list[i].ID != want {
			t.Errorf("list[%d].ID = %q, want %q (oldest first)", i, list[i].ID, want)
		}
	}

	limited, err := store.ListByStatus(ctx, domain.StatusPending, 2)
	if err != nil {
		t.Fatalf("ListByStatus limited: %v", err)
	}
	if len(limited) != 2 {
		t.Fatalf("len = %d, want 2", len(limited))
	}
	if limited[0].ID != "r1" || limited[1].ID != "r2" {
		t.Errorf("limited list must keep oldest-first order, got %s, %s", limited[0].ID, limited[1].ID)
	}
}

// TestListByStatus_ExcludesCompleted tests that completed requests drop out of the pending list.
func TestListByStatus_ExcludesCompleted(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	store.Insert(ctx, pendingRequest("r1", base))
	store.Insert(ctx, pendingRequest("r2", base.Add(time.Minute)))

	if err := store.MarkCompleted(ctx, "r1", base.Add(time.Hour)); err != nil {
		t.Fatalf("MarkCompleted: %v", err)
	}

	list, err := store.ListByStatus(ctx, domain.StatusPending, 100)
	if err != nil {
		t.Fatalf("ListByStatus: %v", err)
	}
	if len(list) != 1 || list[0].ID != "r2" {
		t.Fatalf("expected only r2 pending, got %+v", list)
	}
}

// TestMarkCompleted tests the conditional transition.
func TestMarkCompleted(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	completedAt := base.Add(time.Hour)

	store.Insert(ctx, pendingRequest("r1", base))

	if err := store.MarkCompleted(ctx, "r1", completedAt); err != nil {
		t.Fatalf("MarkCompleted: %v", err)
	}

	got, err := store.GetByID(ctx, "r1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Status != domain.StatusCompleted {
		t.Errorf("Status = %q, want completed", got.Status)
	}
	if !got.CompletedAt.Equal(completedAt) {
		t.Errorf("CompletedAt = %v, want %v", got.CompletedAt, completedAt)
	}
}

// TestMarkCompleted_AlreadyCompleted tests that a second transition loses.
func TestMarkCompleted_AlreadyCompleted(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	first := base.Add(time.Hour)

	store.Insert(ctx, pendingRequest("r1", base))
	if err := store.MarkCompleted(ctx, "r1", first); err != nil {
		t.Fatalf("first MarkCompleted: %v", err)
	}

	err := store.MarkCompleted(ctx, "r1", first.Add(time.Hour))
	if !errors.Is(err, ErrNotPending) {
		t.Errorf("expected ErrNotPending, got %v", err)
	}

	// CompletedAt must not have been re-stamped
	got, _ := store.GetByID(ctx, "r1")
	if !got.CompletedAt.Equal(first) {
		t.Errorf("CompletedAt = %v, want %v (unchanged)", got.CompletedAt, first)
	}
}

// TestMarkCompleted_MissingID tests that an unknown id reports ErrNotPending.
func TestMarkCompleted_MissingID(t *testing.T) {
	store := newTestStore(t)

	err := store.MarkCompleted(context.Background(), "missing", time.Now())
	if !errors.Is(err, ErrNotPending) {
		t.Errorf("expected ErrNotPending, got %v", err)
	}
}
