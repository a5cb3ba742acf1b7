package web

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"whatsdoc/internal/application/orchestrators"
	"whatsdoc/internal/application/projections"
	"whatsdoc/internal/domain/request"
)

// timeNow is a variable for testability.
var timeNow = time.Now

// maxUpload bounds the multipart upload size. The gateway re-encodes the file
// as base64 so oversized payloads would blow up the delivery call anyway.
const maxUpload = 64 << 20 // 64 MB

// generateID creates a new UUID string.
func generateID() string {
	return uuid.New().String()
}

// internalError logs the real error and returns a generic message to the client.
// This prevents leaking internal details.
func internalError(w http.ResponseWriter, err error) {
	slog.Error("internal_error", "error", err.Error())
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

// strictDecode decodes JSON from the request body, rejecting unknown fields.
func strictDecode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// writeJSON encodes v as the JSON response body.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// handleRegisterCustomer handles POST /api/register-customer.
// Accepts JSON {name, phone, videoName} and records a pending request.
// PRE: all three fields are non-empty
// POST: request persisted with status=pending; returns its id
func handleRegisterCustomer(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var body struct {
		Name      string `json:"name"`
		Phone     string `json:"phone"`
		VideoName string `json:"videoName"`
	}
	if err := strictDecode(r, &body); err != nil {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	reg, err := orchestrators.ExecuteRegisterRequest(r.Context(), orchestrators.RegisterRequestInput{
		CustomerName:  body.Name,
		PhoneNumber:   body.Phone,
		DocumentLabel: body.VideoName,
	}, orchestrators.RegisterRequestDeps{
		RequestStore: stores.RequestStore,
		GenerateID:   generateID,
		Now:          timeNow,
	})
	if err != nil {
		switch {
		case errors.Is(err, request.ErrEmptyCustomerName),
			errors.Is(err, request.ErrEmptyPhoneNumber),
			errors.Is(err, request.ErrEmptyDocumentLabel):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			internalError(w, err)
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"id":      reg.ID,
	})
}

// pendingItem is the wire shape of a pending request.
type pendingItem struct {
	ID           string `json:"id"`
	CustomerName string `json:"customerName"`
	PhoneNumber  string `json:"phoneNumber"`
	VideoName    string `json:"videoName"`
	Status       string `json:"status"`
	RequestedAt  string `json:"requestedAt"`
}

// handleGetPending handles GET /api/get-pending.
// Returns pending requests oldest first, capped at 100 (optional ?limit=N).
func handleGetPending(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			limit = n
		}
	}

	list, err := projections.GetPendingRequests(r.Context(), projections.GetPendingRequestsDeps{
		RequestStore: stores.RequestStore,
	}, limit)
	if err != nil {
		internalError(w, err)
		return
	}

	items := make([]pendingItem, 0, len(list))
	for _, req := range list {
		items = append(items, pendingItem{
			ID:           req.ID,
			CustomerName: req.CustomerName,
			PhoneNumber:  req.PhoneNumber,
			VideoName:    req.DocumentLabel,
			Status:       req.Status,
			RequestedAt:  req.RequestedAt.UTC().Format(time.RFC3339),
		})
	}

	writeJSON(w, http.StatusOK, items)
}

// handleUploadDocument handles POST /api/upload-document.
// Accepts multipart form data: file plus requestId, phoneNumber, videoName.
// The response is coupled to the delivery outcome: 200 only after the
// gateway confirmed the send and the request was marked completed.
func handleUploadDocument(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	if err := r.ParseMultipartForm(maxUpload); err != nil {
		http.Error(w, "request too large or malformed", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		internalError(w, err)
		return
	}

	err = orchestrators.ExecuteFulfillRequest(r.Context(), orchestrators.FulfillRequestInput{
		RequestID:     r.FormValue("requestId"),
		PhoneNumber:   r.FormValue("phoneNumber"),
		DocumentLabel: r.FormValue("videoName"),
		FileContent:   content,
		MimeType:      header.Header.Get("Content-Type"),
		Filename:      header.Filename,
	}, orchestrators.FulfillRequestDeps{
		RequestStore: stores.RequestStore,
		Sender:       fileSender,
		Now:          timeNow,
	})
	if err != nil {
		switch {
		case errors.Is(err, orchestrators.ErrInvalidRequestID):
			http.Error(w, "invalid request id", http.StatusBadRequest)
		case errors.Is(err, orchestrators.ErrRequestNotFound):
			http.Error(w, "customer request not found", http.StatusNotFound)
		case errors.Is(err, orchestrators.ErrDeliveryFailed):
			http.Error(w, "failed to deliver document", http.StatusInternalServerError)
		default:
			internalError(w, err)
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

// handleHealth handles GET /health.
// Pings the store when a pinger is configured.
func handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	if storePinger != nil {
		if err := storePinger.PingContext(r.Context()); err != nil {
			slog.Error("health_store_unreachable", "error", err.Error())
			writeJSON(w, http.StatusInternalServerError, map[string]string{"status": "unavailable"})
			return
		}
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handlePerfSnapshot handles GET /api/perf.
// Returns aggregated request/query timings from the last hour.
func handlePerfSnapshot(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if perfCollector == nil {
		http.Error(w, "perf collection disabled", http.StatusNotFound)
		return
	}

	snap := perfCollector.Snapshot(timeNow().Add(-time.Hour), 10)
	writeJSON(w, http.StatusOK, snap)
}
