package request

import (
	"errors"
	"time"
)

// Request statuses
const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
)

// ValidStatuses contains all valid request statuses.
var ValidStatuses = []string{StatusPending, StatusCompleted}

// Domain errors
var (
	ErrEmptyCustomerName  = errors.New("customer name cannot be empty")
	ErrEmptyPhoneNumber   = errors.New("phone number cannot be empty")
	ErrEmptyDocumentLabel = errors.New("document label cannot be empty")
	ErrInvalidStatus      = errors.New("request status must be one of: pending, completed")
	ErrAlreadyCompleted   = errors.New("request is already completed")
)

// Request represents a customer's ask for a document to be delivered to their
// phone. A request is created pending and transitions to completed exactly
// once, only after a confirmed successful delivery.
type Request struct {
	ID            string
	CustomerName  string
	PhoneNumber   string // destination address, as entered by the customer
	DocumentLabel string // human-readable label for the requested document
	Status        string // pending, completed
	RequestedAt   time.Time
	CompletedAt   time.Time // zero while pending
}

// Validate checks if the Request has valid data.
// PRE: Request struct is populated
// POST: Returns nil if valid, error otherwise
func (r *Request) Validate() error {
	if r.CustomerName == "" {
		return ErrEmptyCustomerName
	}
	if r.PhoneNumber == "" {
		return ErrEmptyPhoneNumber
	}
	if r.DocumentLabel == "" {
		return ErrEmptyDocumentLabel
	}
	if !isValidStatus(r.Status) {
		return ErrInvalidStatus
	}
	return nil
}

// IsPending returns true if the request has not yet been fulfilled.
// INVARIANT: Status field is not mutated
func (r *Request) IsPending() bool {
	return r.Status == StatusPending
}

// IsCompleted returns true if the request has been fulfilled.
// INVARIANT: Status field is not mutated
func (r *Request) IsCompleted() bool {
	return r.Status == StatusCompleted
}

// Complete transitions the request from pending to completed.
// PRE: Request is pending
// POST: Status is completed, CompletedAt is set to now
func (r *Request) Complete(now time.Time) error {
	if r.IsCompleted() {
		return ErrAlreadyCompleted
	}
	r.Status = StatusCompleted
	r.CompletedAt = now
	return nil
}

// Caption builds the delivery message text from the authoritative customer
// name and the document label. The name always comes from the stored record,
// never from caller-supplied form fields.
func (r *Request) Caption(documentLabel string) string {
	return "Hi " + r.CustomerName + "! Here is the document you requested: " + documentLabel + ". Thanks for visiting us!"
}

func isValidStatus(s string) bool {
	for _, v := range ValidStatuses {
		if v == s {
			return true
		}
	}
	return false
}
