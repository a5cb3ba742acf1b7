package gateway

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// sendTimeout bounds the whole delivery call. Large files take a while to
// encode and transfer, so this is generous, but the call never hangs forever.
const sendTimeout = 60 * time.Second

// sessionName is the fixed WAHA session used for all deliveries.
const sessionName = "default"

// WAHASender delivers files via a WAHA (WhatsApp HTTP API) gateway.
type WAHASender struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewWAHASender creates a new WAHASender for the given gateway.
// PRE: baseURL is the gateway root (no trailing slash), apiKey is valid
// POST: Returns a ready-to-use sender with a fixed request timeout
func NewWAHASender(baseURL, apiKey string) *WAHASender {
	return &WAHASender{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: sendTimeout},
	}
}

// sendFilePayload is the WAHA /api/sendFile request body.
type sendFilePayload struct {
	ChatID  string      `json:"chatId"`
	Caption string      `json:"caption"`
	Session string      `json:"session"`
	File    filePayload `json:"file"`
}

// filePayload carries the file as a base64 data URI.
type filePayload struct {
	MimeType string `json:"mimetype"`
	Filename string `json:"filename"`
	Data     string `json:"data"`
}

// SendFile delivers a file message via the gateway.
// Any non-2xx response or transport error is collapsed into an error here;
// the caller decides what a failed delivery means for the request.
// PRE: msg has a non-empty ChatID and Content
// POST: On nil return the gateway has confirmed the send
func (s *WAHASender) SendFile(ctx context.Context, msg FileMessage) error {
	dataURI := fmt.Sprintf("data:%s;base64,%s",
		msg.MimeType, base64.StdEncoding.EncodeToString(msg.Content))

	payload := sendFilePayload{
		ChatID:  msg.ChatID,
		Caption: msg.Caption,
		Session: sessionName,
		File: filePayload{
			MimeType: msg.MimeType,
			Filename: msg.Filename,
			Data:     dataURI,
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("waha encode failed: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		s.baseURL+"/api/sendFile", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("waha request failed: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Api-Key", s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		slog.Error("waha_send_failed", "error", err, "chat_id", msg.ChatID, "filename", msg.Filename)
		return fmt.Errorf("waha send failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Read a bounded slice of the body for the log; the detail stays here.
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		slog.Error("waha_send_rejected", "status", resp.StatusCode, "chat_id", msg.ChatID, "body", string(detail))
		return fmt.Errorf("waha send rejected: status %d", resp.StatusCode)
	}

	slog.Info("waha_sent", "chat_id", msg.ChatID, "filename", msg.Filename, "size_bytes", len(msg.Content))
	return nil
}
