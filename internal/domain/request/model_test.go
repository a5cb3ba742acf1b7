package request

import (
	"errors"
	"testing"
	"time"
)

func validRequest() Request {
	return Request{
		ID:            "req-001",
		CustomerName:  "Ana",
		PhoneNumber:   "+1-555-0100",
		DocumentLabel: "Invoice-7",
		Status:        StatusPending,
		RequestedAt:   time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

// TestValidate_Valid tests that a fully populated pending request passes.
func TestValidate_Valid(t *testing.T) {
	r := validRequest()
	if err := r.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// TestValidate_EmptyFields tests that each required field is enforced.
func TestValidate_EmptyFields(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*Request)
		wantErr error
	}{
		{"empty customer name", func(r *Request) { r.CustomerName = "" }, ErrEmptyCustomerName},
		{"empty phone number", func(r *Request) { r.PhoneNumber = "" }, ErrEmptyPhoneNumber},
		{"empty document label", func(r *Request) { r.DocumentLabel = "" }, ErrEmptyDocumentLabel},
		{"invalid status", func(r *Request) { r.Status = "delivering" }, ErrInvalidStatus},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := validRequest()
			tc.mutate(&r)
			if err := r.Validate(); !errors.Is(err, tc.wantErr) {
				t.Errorf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}
}

// TestComplete tests the pending -> completed transition.
func TestComplete(t *testing.T) {
	r := validRequest()
	now := time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC)

	if err := r.Complete(now); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !r.IsCompleted() {
		t.Errorf("expected status=completed, got %s", r.Status)
	}
	if !r.CompletedAt.Equal(now) {
		t.Errorf("expected CompletedAt=%v, got %v", now, r.CompletedAt)
	}
}

// TestComplete_AlreadyCompleted tests that the transition is one-way.
func TestComplete_AlreadyCompleted(t *testing.T) {
	r := validRequest()
	first := time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC)
	if err := r.Complete(first); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err := r.Complete(first.Add(time.Hour))
	if !errors.Is(err, ErrAlreadyCompleted) {
		t.Errorf("expected ErrAlreadyCompleted, got %v", err)
	}
	if !r.CompletedAt.Equal(first) {
		t.Errorf("CompletedAt must not move on a repeat transition, got %v", r.CompletedAt)
	}
}

// TestCaption tests that the caption binds the stored customer name.
func TestCaption(t *testing.T) {
	r := validRequest()
	got := r.Caption("Invoice-7")
	want := "Hi Ana! Here is the document you requested: Invoice-7. Thanks for visiting us!"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

// TestIsPending tests the status helpers.
func TestIsPending(t *testing.T) {
	r := validRequest()
	if !r.IsPending() {
		t.Error("new request should be pending")
	}
	if r.IsCompleted() {
		t.Error("new request should not be completed")
	}
}
