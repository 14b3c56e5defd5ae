package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/sundew-sh/sundew/pkg/models"
)

// SaveEvent writes event to the database and appends it to the JSONL
// mirror log, if configured. A JSONL write failure is logged but does not
// fail the call — the database row is the source of truth.
func (s *Store) SaveEvent(e models.RequestEvent) error {
	_, err := s.db.Exec(
		`INSERT OR REPLACE INTO events
			(id, timestamp, session_id, source_ip, source_port, method, path,
			 query_params, headers, body, content_type, user_agent,
			 fingerprint_scores, classification, trap_type, matched_endpoint,
			 response_status, notes)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, timeFmt(e.Timestamp), e.SessionID, e.SourceIP, e.SourcePort,
		e.Method, e.Path, marshalOrEmpty(e.QueryParams), marshalOrEmpty(e.Headers),
		e.Body, e.ContentType, e.UserAgent, marshalOrEmpty(e.FingerprintScores),
		string(e.Classification), string(e.TrapType), e.MatchedEndpoint,
		e.ResponseStatus, e.Notes,
	)
	if err != nil {
		return fmt.Errorf("saving event: %w", err)
	}

	if s.logPath != "" {
		s.appendJSONL(e)
	}
	return nil
}

func (s *Store) appendJSONL(e models.RequestEvent) {
	<-s.logMu
	defer func() { s.logMu <- struct{}{} }()

	line := marshalOrEmpty(e) + "\n"
	f, err := os.OpenFile(s.logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		slog.Warn("failed to open event log", "path", s.logPath, "error", err)
		return
	}
	defer f.Close()

	if _, err := f.WriteString(line); err != nil {
		slog.Warn("failed to append to event log", "path", s.logPath, "error", err)
	}
}

// GetEvent retrieves a single event by ID.
func (s *Store) GetEvent(id string) (models.RequestEvent, error) {
	row := s.db.QueryRow(`SELECT `+eventColumns+` FROM events WHERE id = ?`, id)
	return scanEvent(row)
}

// GetRecentEvents returns up to limit events, most recent first.
func (s *Store) GetRecentEvents(limit int) ([]models.RequestEvent, error) {
	rows, err := s.db.Query(`SELECT `+eventColumns+` FROM events ORDER BY timestamp DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying recent events: %w", err)
	}
	defer rows.Close()
	return scanEvents(rows)
}

// GetEventsByClassification returns up to limit events with the given
// classification, most recent first.
func (s *Store) GetEventsByClassification(classification models.Classification, limit int) ([]models.RequestEvent, error) {
	rows, err := s.db.Query(
		`SELECT `+eventColumns+` FROM events WHERE classification = ? ORDER BY timestamp DESC LIMIT ?`,
		string(classification), limit,
	)
	if err != nil {
		return nil, fmt.Errorf("querying events by classification: %w", err)
	}
	defer rows.Close()
	return scanEvents(rows)
}

// GetSessionEvents returns every event belonging to sessionID, oldest first.
func (s *Store) GetSessionEvents(sessionID string) ([]models.RequestEvent, error) {
	rows, err := s.db.Query(
		`SELECT `+eventColumns+` FROM events WHERE session_id = ? ORDER BY timestamp ASC`,
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("querying session events: %w", err)
	}
	defer rows.Close()
	return scanEvents(rows)
}

// CountEvents returns the total number of stored events.
func (s *Store) CountEvents() (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM events`).Scan(&n)
	return n, err
}

const eventColumns = `id, timestamp, session_id, source_ip, source_port, method, path,
	query_params, headers, body, content_type, user_agent,
	fingerprint_scores, classification, trap_type, matched_endpoint,
	response_status, notes`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner) (models.RequestEvent, error) {
	var (
		e                                   models.RequestEvent
		timestamp, queryParams, headers, fp string
		classification, trapType            string
	)

	err := row.Scan(
		&e.ID, &timestamp, &e.SessionID, &e.SourceIP, &e.SourcePort,
		&e.Method, &e.Path, &queryParams, &headers, &e.Body, &e.ContentType,
		&e.UserAgent, &fp, &classification, &trapType, &e.MatchedEndpoint,
		&e.ResponseStatus, &e.Notes,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.RequestEvent{}, fmt.Errorf("event not found: %w", err)
		}
		return models.RequestEvent{}, err
	}

	e.Timestamp = timeParse(timestamp)
	e.Classification = models.Classification(classification)
	e.TrapType = models.TrapType(trapType)
	unmarshalInto(queryParams, &e.QueryParams)
	unmarshalInto(headers, &e.Headers)
	unmarshalInto(fp, &e.FingerprintScores)
	return e, nil
}

func scanEvents(rows *sql.Rows) ([]models.RequestEvent, error) {
	var out []models.RequestEvent
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
