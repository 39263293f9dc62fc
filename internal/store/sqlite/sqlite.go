// Package sqlite implements the persistence contract on a local SQLite
// database, for development and offline runs.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/tenexhq/sourcer/internal/lead"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

const schema = `
CREATE TABLE IF NOT EXISTS prospects (
	id              TEXT PRIMARY KEY,
	identity        TEXT NOT NULL,
	identity_key    TEXT NOT NULL UNIQUE,
	name            TEXT NOT NULL DEFAULT '',
	email           TEXT NOT NULL DEFAULT '',
	email_source    TEXT NOT NULL DEFAULT '',
	social_handle   TEXT NOT NULL DEFAULT '',
	company         TEXT NOT NULL DEFAULT '',
	location        TEXT NOT NULL DEFAULT '',
	bio             TEXT NOT NULL DEFAULT '',
	discovered_from TEXT NOT NULL,
	confidence_tier TEXT NOT NULL,
	score           INTEGER NOT NULL,
	status          TEXT NOT NULL DEFAULT 'new',
	date_discovered INTEGER NOT NULL,
	updated_at      INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_prospects_tier ON prospects(confidence_tier);
CREATE INDEX IF NOT EXISTS idx_prospects_status ON prospects(status);

CREATE TABLE IF NOT EXISTS sourcing_runs (
	id              TEXT PRIMARY KEY,
	started_at      INTEGER NOT NULL,
	completed_at    INTEGER NOT NULL,
	leads_found     INTEGER NOT NULL,
	leads_persisted INTEGER NOT NULL,
	errors          TEXT NOT NULL,
	leads_by_source TEXT NOT NULL
);
`

// SQLiteStore implements the persistence contract using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// New opens (creating if needed) a SQLite-backed store at the given path.
func New(path string) (*SQLiteStore, error) {
	if path != ":memory:" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", "file:"+path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// UpsertLead inserts or updates a prospect row keyed by folded identity.
func (s *SQLiteStore) UpsertLead(ctx context.Context, l *lead.Lead) error {
	sources, err := json.Marshal(l.DiscoveredFrom)
	if err != nil {
		return fmt.Errorf("failed to encode discovery sources: %w", err)
	}

	now := time.Now().UnixMilli()
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO prospects (
			id, identity, identity_key, name, email, email_source,
			social_handle, company, location, bio, discovered_from,
			confidence_tier, score, status, date_discovered, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 'new', ?, ?)
		ON CONFLICT(identity_key) DO UPDATE SET
			name            = excluded.name,
			email           = excluded.email,
			email_source    = excluded.email_source,
			social_handle   = excluded.social_handle,
			company         = excluded.company,
			location        = excluded.location,
			bio             = excluded.bio,
			discovered_from = excluded.discovered_from,
			confidence_tier = excluded.confidence_tier,
			score           = excluded.score,
			updated_at      = excluded.updated_at`,
		uuid.New().String(), l.Identity, lead.NormalizeIdentity(l.Identity),
		l.Name, l.Email, l.EmailSource, l.SocialHandle, l.Company,
		l.Location, l.Bio, string(sources), string(l.ConfidenceTier),
		l.Score, now, now)
	if err != nil {
		return fmt.Errorf("failed to upsert prospect %s: %w", l.Identity, err)
	}
	return nil
}

// LogRun records the run summary as a sourcing_runs row.
func (s *SQLiteStore) LogRun(ctx context.Context, run *lead.SourcingRun) error {
	errs := run.Errors
	if errs == nil {
		errs = []string{}
	}
	errsJSON, err := json.Marshal(errs)
	if err != nil {
		return fmt.Errorf("failed to encode errors: %w", err)
	}

	bySource := run.LeadsBySource
	if bySource == nil {
		bySource = map[string]int{}
	}
	bySourceJSON, err := json.Marshal(bySource)
	if err != nil {
		return fmt.Errorf("failed to encode source counts: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO sourcing_runs (
			id, started_at, completed_at, leads_found, leads_persisted,
			errors, leads_by_source
		) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		uuid.New().String(), run.StartedAt.UnixMilli(), run.CompletedAt.UnixMilli(),
		run.TotalLeadsFound, run.TotalLeadsPersisted,
		string(errsJSON), string(bySourceJSON))
	if err != nil {
		return fmt.Errorf("failed to log sourcing run: %w", err)
	}
	return nil
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// CountProspects returns the number of stored prospect rows.
func (s *SQLiteStore) CountProspects(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM prospects").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count prospects: %w", err)
	}
	return count, nil
}
