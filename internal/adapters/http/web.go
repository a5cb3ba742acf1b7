package web

import (
	"context"
	"net/http"
	"time"

	"whatsdoc/internal/adapters/gateway"
	"whatsdoc/internal/adapters/http/middleware"
	"whatsdoc/internal/adapters/http/perf"
	requestStore "whatsdoc/internal/adapters/storage/request"
)

// Stores holds all storage dependencies.
type Stores struct {
	RequestStore requestStore.Store
}

// Pinger reports whether the persistence layer is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Global stores instance (set by NewMux)
var stores *Stores

// Global perf collector (set by NewMux)
var perfCollector *perf.Collector

// Global gateway sender instance (set by SetFileSender)
var fileSender gateway.Sender

// Global store pinger for the health endpoint (set by SetPinger, may be nil)
var storePinger Pinger

// RateLimitPerSecond controls the per-IP rate limit. Tests can increase this.
var RateLimitPerSecond = 10

// SetFileSender sets the global gateway sender for the application.
func SetFileSender(sender gateway.Sender) {
	fileSender = sender
}

// SetPinger sets the store pinger used by the health endpoint.
func SetPinger(p Pinger) {
	storePinger = p
}

// NewMux wires HTTP handlers for the app.
func NewMux(s *Stores, collector *perf.Collector) http.Handler {
	stores = s
	perfCollector = collector

	mux := http.NewServeMux()
	registerRoutes(mux)

	// Rate limiter: configurable requests per second per IP
	limiter := middleware.NewRateLimiter(RateLimitPerSecond, time.Second)

	// Apply middleware: Timing -> RateLimit -> CORS -> SecurityHeaders -> Mux
	return middleware.Chain(mux,
		middleware.SecurityHeaders,
		middleware.CORS,
		middleware.RateLimit(limiter),
		middleware.Timing(collector),
	)
}

func registerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/register-customer", handleRegisterCustomer)
	mux.HandleFunc("/api/get-pending", handleGetPending)
	mux.HandleFunc("/api/upload-document", handleUploadDocument)
	mux.HandleFunc("/api/perf", handlePerfSnapshot)
	mux.HandleFunc("/health", handleHealth)
}
