package request

import (
	"context"
	"errors"
	"time"

	domain "whatsdoc/internal/domain/request"
)

// ErrNotPending is returned by MarkCompleted when the request is no longer
// pending, meaning a concurrent fulfill already completed it.
var ErrNotPending = errors.New("request is not pending")

// Store persists Request state.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Request, error)
	Insert(ctx context.Context, value domain.Request) error
	ListByStatus(ctx context.Context, status string, limit int) ([]domain.Request, error)
	MarkCompleted(ctx context.Context, id string, completedAt time.Time) error
}
