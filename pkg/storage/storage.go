// Package storage persists captured request events and session rollups to
// a single-file SQLite database, with an optional JSONL mirror log for
// offline analysis tooling.
package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS events (
	id TEXT PRIMARY KEY,
	timestamp TEXT NOT NULL,
	session_id TEXT NOT NULL,
	source_ip TEXT NOT NULL,
	source_port INTEGER NOT NULL,
	method TEXT NOT NULL,
	path TEXT NOT NULL,
	query_params TEXT NOT NULL,
	headers TEXT NOT NULL,
	body TEXT NOT NULL,
	content_type TEXT NOT NULL,
	user_agent TEXT NOT NULL,
	fingerprint_scores TEXT NOT NULL,
	classification TEXT NOT NULL,
	trap_type TEXT NOT NULL,
	matched_endpoint TEXT NOT NULL,
	response_status INTEGER NOT NULL,
	notes TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_events_session ON events(session_id);
CREATE INDEX IF NOT EXISTS idx_events_source_ip ON events(source_ip);
CREATE INDEX IF NOT EXISTS idx_events_timestamp ON events(timestamp);
CREATE INDEX IF NOT EXISTS idx_events_classification ON events(classification);

CREATE TABLE IF NOT EXISTS sessions (
	id TEXT PRIMARY KEY,
	source_ip TEXT NOT NULL,
	first_seen TEXT NOT NULL,
	last_seen TEXT NOT NULL,
	request_count INTEGER NOT NULL,
	request_ids TEXT NOT NULL,
	classification TEXT NOT NULL,
	fingerprint_scores TEXT NOT NULL,
	endpoints_hit TEXT NOT NULL,
	trap_types_triggered TEXT NOT NULL,
	tags TEXT NOT NULL,
	notes TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_sessions_source_ip ON sessions(source_ip);
CREATE INDEX IF NOT EXISTS idx_sessions_classification ON sessions(classification);
`

// defaultSessionReuseWindow is how long a source IP's most recent session
// is reused before a new one is started for it, when the configuration does
// not override it.
const defaultSessionReuseWindow = 3600 * time.Second

// Store is the SQLite-backed persistence layer for captured events and
// session rollups. A Store is safe for concurrent use; database/sql pools
// and serializes access to the underlying connection.
type Store struct {
	db            *sql.DB
	logPath       string
	sessionWindow time.Duration
	logMu         chan struct{} // 1-buffered mutex-by-channel for the JSONL append
}

// Open creates (if needed) and opens the SQLite database at dbPath, and
// prepares logPath (if non-empty) as a JSONL mirror log. A sessionWindow
// of zero (or less) takes the 3600s default.
func Open(dbPath, logPath string, sessionWindow time.Duration) (*Store, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	db.SetMaxOpenConns(1) // modernc.org/sqlite is not safe for concurrent writers

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing schema: %w", err)
	}

	if logPath != "" {
		if dir := filepath.Dir(logPath); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				db.Close()
				return nil, fmt.Errorf("creating log directory: %w", err)
			}
		}
	}

	if sessionWindow <= 0 {
		sessionWindow = defaultSessionReuseWindow
	}

	s := &Store{db: db, logPath: logPath, sessionWindow: sessionWindow, logMu: make(chan struct{}, 1)}
	s.logMu <- struct{}{}
	return s, nil
}

// Close releases the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func timeFmt(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func timeParse(s string) time.Time {
	t, _ := time.Parse(time.RFC3339Nano, s)
	return t
}

func marshalOrEmpty(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return "{}"
	}
	return string(data)
}

func unmarshalInto(raw string, v any) {
	if raw == "" {
		return
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		slog.Warn("failed to decode stored field", "error", err)
	}
}
