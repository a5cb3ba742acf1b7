package gateway

import (
	"context"
	"strings"
)

// chatIDSuffix is the gateway's fixed domain suffix for direct chats.
const chatIDSuffix = "@c.us"

// FileMessage contains the data needed to deliver a file via the messaging gateway.
type FileMessage struct {
	ChatID   string // Gateway destination identifier (see ChatID)
	Caption  string // Message text shown alongside the file
	MimeType string
	Filename string
	Content  []byte // Opaque file payload
}

// Sender is the interface for delivering files via an external messaging gateway.
type Sender interface {
	SendFile(ctx context.Context, msg FileMessage) error
}

// NormalizePhone strips '+' and '-' characters and surrounding whitespace
// from a phone number. Pure and idempotent.
func NormalizePhone(phone string) string {
	s := strings.ReplaceAll(phone, "+", "")
	s = strings.ReplaceAll(s, "-", "")
	return strings.TrimSpace(s)
}

// ChatID builds the gateway destination identifier for a phone number.
// PRE: phone is a customer-entered phone number
// POST: Returns the normalized number with the gateway domain suffix appended
func ChatID(phone string) string {
	return NormalizePhone(phone) + chatIDSuffix
}
