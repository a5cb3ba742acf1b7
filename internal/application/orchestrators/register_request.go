package orchestrators

import (
	"context"
	"log/slog"
	"time"

	"whatsdoc/internal/domain/request"
)

// RequestInsertStore defines the store interface needed for registration.
type RequestInsertStore interface {
	Insert(ctx context.Context, r request.Request) error
}

// RegisterRequestInput carries input for the registration orchestrator.
type RegisterRequestInput struct {
	CustomerName  string
	PhoneNumber   string
	DocumentLabel string
}

// RegisterRequestDeps holds dependencies for RegisterRequest.
type RegisterRequestDeps struct {
	RequestStore RequestInsertStore
	GenerateID   func() string
	Now          func() time.Time
}

// ExecuteRegisterRequest records a new customer document request.
// PRE: CustomerName, PhoneNumber and DocumentLabel are non-empty
// POST: Request created pending with RequestedAt=now; returns the new request
// INVARIANT: A request never enters the store with empty required fields
func ExecuteRegisterRequest(ctx context.Context, input RegisterRequestInput, deps RegisterRequestDeps) (request.Request, error) {
	r := request.Request{
		ID:            deps.GenerateID(),
		CustomerName:  input.CustomerName,
		PhoneNumber:   input.PhoneNumber,
		DocumentLabel: input.DocumentLabel,
		Status:        request.StatusPending,
		RequestedAt:   deps.Now(),
	}

	if err := r.Validate(); err != nil {
		return request.Request{}, err
	}

	if err := deps.RequestStore.Insert(ctx, r); err != nil {
		return request.Request{}, err
	}

	slog.Info("request_event", "event", "request_registered", "request_id", r.ID, "customer", r.CustomerName, "document", r.DocumentLabel)
	return r, nil
}
