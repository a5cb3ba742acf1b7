package gateway

import (
	"context"
	"log/slog"
)

// NoopSender is a no-op gateway sender for development and testing.
// It logs sends but does not actually deliver anything.
type NoopSender struct{}

// NewNoopSender creates a new NoopSender.
func NewNoopSender() *NoopSender {
	return &NoopSender{}
}

// SendFile logs the message but does not deliver it.
// PRE: msg is a valid FileMessage
// POST: Returns nil without actual delivery
func (s *NoopSender) SendFile(_ context.Context, msg FileMessage) error {
	slog.Info("noop_gateway_send", "chat_id", msg.ChatID, "filename", msg.Filename, "size_bytes", len(msg.Content))
	return nil
}
