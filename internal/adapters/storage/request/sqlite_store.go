package request

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"whatsdoc/internal/adapters/storage"
	domain "whatsdoc/internal/domain/request"
)

const timeLayout = "2006-01-02T15:04:05Z07:00"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new SQLiteStore.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

const requestColumns = `id, customer_name, phone_number, document_label, status, requested_at, completed_at`

// GetByID retrieves a request by ID.
// PRE: id is non-empty
// POST: Returns the entity or sql.ErrNoRows if not found
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Request, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+requestColumns+` FROM request WHERE id = ?`, id)
	return scanRequest(row)
}

// Insert persists a new request.
// PRE: entity has been validated, id is unique
// POST: Entity is persisted
func (s *SQLiteStore) Insert(ctx context.Context, r domain.Request) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO request (id, customer_name, phone_number, document_label, status, requested_at, completed_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.CustomerName, r.PhoneNumber, r.DocumentLabel, r.Status,
		r.RequestedAt.UTC().Format(timeLayout), nullableTime(r.CompletedAt))
	return err
}

// ListByStatus returns up to limit requests with the given status,
// ordered by requested_at ascending (oldest first).
// PRE: status is a valid request status, limit > 0
// POST: Returns matching requests in first-come-first-served order
func (s *SQLiteStore) ListByStatus(ctx context.Context, status string, limit int) ([]domain.Request, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+requestColumns+` FROM request
		 WHERE status = ?
		 ORDER BY requested_at ASC
		 LIMIT ?`, status, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRequests(rows)
}

// MarkCompleted transitions a request to completed if it is still pending.
// The WHERE clause makes the transition atomic: concurrent fulfills cannot
// both win, and a completed request is never reverted or re-stamped.
// PRE: id is non-empty, completedAt is the delivery confirmation time
// POST: Exactly one caller observes the transition; others get ErrNotPending
func (s *SQLiteStore) MarkCompleted(ctx context.Context, id string, completedAt time.Time) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE request SET status = ?, completed_at = ?
		 WHERE id = ? AND status = ?`,
		domain.StatusCompleted, completedAt.UTC().Format(timeLayout),
		id, domain.StatusPending)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotPending
	}
	return nil
}

// scanRequest scans a single row into a Request.
func scanRequest(row *sql.Row) (domain.Request, error) {
	var r domain.Request
	var requestedAt string
	var completedAt sql.NullString

	err := row.Scan(&r.ID, &r.CustomerName, &r.PhoneNumber, &r.DocumentLabel,
		&r.Status, &requestedAt, &completedAt)
	if err != nil {
		return domain.Request{}, err
	}

	r.RequestedAt = parseTime(requestedAt, "requested_at", r.ID)
	r.CompletedAt = parseNullableTime(completedAt, "completed_at", r.ID)
	return r, nil
}

// scanRequests scans multiple rows into a slice of Requests.
func scanRequests(rows *sql.Rows) ([]domain.Request, error) {
	var requests []domain.Request
	for rows.Next() {
		var r domain.Request
		var requestedAt string
		var completedAt sql.NullString

		err := rows.Scan(&r.ID, &r.CustomerName, &r.PhoneNumber, &r.DocumentLabel,
			&r.Status, &requestedAt, &completedAt)
		if err != nil {
			return nil, err
		}

		r.RequestedAt = parseTime(requestedAt, "requested_at", r.ID)
		r.CompletedAt = parseNullableTime(completedAt, "completed_at", r.ID)
		requests = append(requests, r)
	}
	return requests, rows.Err()
}

// parseTime parses a time string, logging a warning on failure.
func parseTime(raw, field, requestID string) time.Time {
	t, err := time.Parse(timeLayout, raw)
	if err != nil {
		slog.Warn("request: failed to parse time", "field", field, "request_id", requestID, "raw", raw, "error", err)
	}
	return t
}

// parseNullableTime parses a nullable time string, logging a warning on failure.
func parseNullableTime(ns sql.NullString, field, requestID string) time.Time {
	if !ns.Valid {
		return time.Time{}
	}
	return parseTime(ns.String, field, requestID)
}

func nullableTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.UTC().Format(timeLayout)
}
