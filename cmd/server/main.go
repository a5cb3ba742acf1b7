package main

import (
	"database/sql"
	"log"
	"net/http"
	"os"

	_ "modernc.org/sqlite"

	"whatsdoc/internal/adapters/gateway"
	web "whatsdoc/internal/adapters/http"
	"whatsdoc/internal/adapters/http/perf"
	"whatsdoc/internal/adapters/storage"
	requestStore "whatsdoc/internal/adapters/storage/request"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	// Initialize database with WAL mode, foreign keys, and busy timeout
	dbPath := envOrDefault("WHATSDOC_DB_PATH", "whatsdoc.db")
	dsn := dbPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	// Connection pool settings for WAL mode
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)

	// Health check
	if err := db.Ping(); err != nil {
		log.Fatalf("database unreachable: %v", err)
	}

	// Create schema
	if err := storage.InitDB(db); err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}

	log.Println("Database initialized successfully!")

	// Performance instrumentation: wrap DB with timing, create collector
	collector := perf.NewCollector(perf.DefaultRingSize)
	timedDB := storage.NewTimedDB(db, collector)

	stores := &web.Stores{
		RequestStore: requestStore.NewSQLiteStore(timedDB),
	}
	web.SetPinger(timedDB)

	// Configure gateway sender
	wahaURL := envOrDefault("WAHA_API_URL", "http://waha:3000")
	wahaKey := os.Getenv("WAHA_API_KEY")
	if wahaKey != "" {
		web.SetFileSender(gateway.NewWAHASender(wahaURL, wahaKey))
		log.Printf("Gateway sender configured (WAHA at %s)", wahaURL)
	} else {
		web.SetFileSender(gateway.NewNoopSender())
		if os.Getenv("WHATSDOC_ENV") == "production" {
			log.Println("WARNING: WAHA_API_KEY is not set; document delivery is DISABLED in production")
		} else {
			log.Println("Gateway sender configured (noop; set WAHA_API_KEY for real delivery)")
		}
	}

	// Create HTTP handler with middleware (pass collector for timing + snapshot)
	mux := web.NewMux(stores, collector)

	// Start server
	addr := envOrDefault("WHATSDOC_ADDR", ":8080")
	log.Printf("whatsdoc %s starting on %s (env=%s)", version, addr, envOrDefault("WHATSDOC_ENV", "development"))

	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
