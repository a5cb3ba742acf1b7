package projections

import (
	"context"

	"whatsdoc/internal/domain/request"
)

// DefaultPendingLimit caps how many pending requests a single listing returns.
const DefaultPendingLimit = 100

// RequestListStore defines the store interface needed for the pending listing.
type RequestListStore interface {
	ListByStatus(ctx context.Context, status string, limit int) ([]request.Request, error)
}

// GetPendingRequestsDeps holds dependencies for GetPendingRequests.
type GetPendingRequestsDeps struct {
	RequestStore RequestListStore
}

// GetPendingRequests returns up to limit pending requests, oldest first.
// First-come-first-served: operators work the queue in arrival order.
// PRE: limit <= 0 means use DefaultPendingLimit
// POST: Returns a non-nil slice ordered by RequestedAt ascending
func GetPendingRequests(ctx context.Context, deps GetPendingRequestsDeps, limit int) ([]request.Request, error) {
	if limit <= 0 || limit > DefaultPendingLimit {
		limit = DefaultPendingLimit
	}

	list, err := deps.RequestStore.ListByStatus(ctx, request.StatusPending, limit)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []request.Request{}
	}
	return list, nil
}
