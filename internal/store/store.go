// Package store defines the persistence contract for accepted leads and run
// records, with a remote Convex backend for production and a local SQLite
// backend for development and offline runs.
package store

import (
	"context"
	"fmt"
	"os"

	"github.com/tenexhq/sourcer/internal/lead"
	"github.com/tenexhq/sourcer/internal/store/convex"
	"github.com/tenexhq/sourcer/internal/store/sqlite"
)

// Store is the durable backend for validated leads and run statistics.
type Store interface {
	// UpsertLead persists an accepted lead. Idempotent by identity:
	// re-submitting the same identity updates the existing record.
	UpsertLead(ctx context.Context, l *lead.Lead) error

	// LogRun records the run summary. Called exactly once per run, after
	// all persistence attempts have finished.
	LogRun(ctx context.Context, run *lead.SourcingRun) error

	// Lifecycle
	Close() error
}

// Backend selects the persistence implementation.
type Backend string

const (
	BackendConvex Backend = "convex"
	BackendSQLite Backend = "sqlite"
)

// Config holds persistence configuration.
type Config struct {
	// Backend selects the implementation. Default: convex.
	Backend Backend

	// Endpoint is the Convex deployment base URL. If empty, the CONVEX_URL
	// environment variable is consulted. A missing endpoint is the one
	// fatal configuration error in the pipeline.
	Endpoint string

	// Path is the SQLite database file path.
	// Special value ":memory:" creates an in-memory database (useful for tests).
	Path string
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Backend: BackendConvex,
		Path:    ".sourcer/leads.db",
	}
}

// New creates the configured persistence backend.
func New(cfg *Config) (Store, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	switch cfg.Backend {
	case BackendSQLite:
		path := cfg.Path
		if path == "" {
			path = DefaultConfig().Path
		}
		return sqlite.New(path)

	case BackendConvex, "":
		endpoint := cfg.Endpoint
		if endpoint == "" {
			endpoint = os.Getenv("CONVEX_URL")
		}
		if endpoint == "" {
			return nil, fmt.Errorf("CONVEX_URL is required")
		}
		return convex.New(endpoint)

	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}
