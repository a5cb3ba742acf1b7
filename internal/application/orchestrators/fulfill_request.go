package orchestrators

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"whatsdoc/internal/adapters/gateway"
	requestStore "whatsdoc/internal/adapters/storage/request"
	"whatsdoc/internal/domain/request"
)

// Fulfillment errors, mapped to HTTP statuses at the API boundary.
var (
	ErrInvalidRequestID = errors.New("request id is not a valid identifier")
	ErrRequestNotFound  = errors.New("request not found")
	ErrDeliveryFailed   = errors.New("gateway delivery failed")
)

// RequestFulfillStore defines the store interface needed for fulfillment.
type RequestFulfillStore interface {
	GetByID(ctx context.Context, id string) (request.Request, error)
	MarkCompleted(ctx context.Context, id string, completedAt time.Time) error
}

// FulfillRequestInput carries input for the fulfillment orchestrator.
// PhoneNumber and DocumentLabel come from the operator's form; CustomerName
// is deliberately absent: the caption is built from the stored record.
type FulfillRequestInput struct {
	RequestID     string
	PhoneNumber   string
	DocumentLabel string
	FileContent   []byte
	MimeType      string
	Filename      string
}

// FulfillRequestDeps holds dependencies for FulfillRequest.
type FulfillRequestDeps struct {
	RequestStore RequestFulfillStore
	Sender       gateway.Sender
	Now          func() time.Time
}

// ExecuteFulfillRequest delivers the file for a pending request and marks it
// completed. The gateway call is synchronous: success is only reported after
// an attempted-and-confirmed send, and a failed send leaves the request
// pending so the operator can resubmit.
//
// If the store update fails after a successful delivery the message is out
// but the request stays pending; the error is surfaced with no
// compensating action.
//
// PRE: RequestID parses as a uuid and references an existing request
// POST: On success the request is completed with CompletedAt set
func ExecuteFulfillRequest(ctx context.Context, input FulfillRequestInput, deps FulfillRequestDeps) error {
	if _, err := uuid.Parse(input.RequestID); err != nil {
		return ErrInvalidRequestID
	}

	r, err := deps.RequestStore.GetByID(ctx, input.RequestID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrRequestNotFound
		}
		return fmt.Errorf("request lookup failed: %w", err)
	}

	msg := gateway.FileMessage{
		ChatID:   gateway.ChatID(input.PhoneNumber),
		Caption:  r.Caption(input.DocumentLabel),
		MimeType: input.MimeType,
		Filename: input.Filename,
		Content:  input.FileContent,
	}

	if err := deps.Sender.SendFile(ctx, msg); err != nil {
		slog.Warn("request_event", "event", "delivery_failed", "request_id", r.ID, "chat_id", msg.ChatID, "error", err)
		return ErrDeliveryFailed
	}

	if err := deps.RequestStore.MarkCompleted(ctx, r.ID, deps.Now()); err != nil {
		if errors.Is(err, requestStore.ErrNotPending) {
			// Lost a race against a concurrent fulfill. The delivery did
			// happen, so report success; the earlier winner owns CompletedAt.
			slog.Warn("request_event", "event", "already_completed", "request_id", r.ID)
			return nil
		}
		return fmt.Errorf("status update failed after delivery: %w", err)
	}

	slog.Info("request_event", "event", "request_fulfilled", "request_id", r.ID, "filename", input.Filename, "size_bytes", len(input.FileContent))
	return nil
}
