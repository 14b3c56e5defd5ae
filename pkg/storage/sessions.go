package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/sundew-sh/sundew/pkg/models"
)

const sessionColumns = `id, source_ip, first_seen, last_seen, request_count,
	request_ids, classification, fingerprint_scores, endpoints_hit,
	trap_types_triggered, tags, notes`

// SaveSession writes session to the database, replacing any existing row
// with the same ID.
func (s *Store) SaveSession(sess models.Session) error {
	_, err := s.db.Exec(
		`INSERT OR REPLACE INTO sessions
			(id, source_ip, first_seen, last_seen, request_count, request_ids,
			 classification, fingerprint_scores, endpoints_hit,
			 trap_types_triggered, tags, notes)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sess.ID, sess.SourceIP, timeFmt(sess.FirstSeen), timeFmt(sess.LastSeen),
		sess.RequestCount, marshalOrEmpty(sess.RequestIDs), string(sess.Classification),
		marshalOrEmpty(sess.FingerprintScores), marshalOrEmpty(sess.EndpointsHit),
		marshalOrEmpty(sess.TrapTypesTriggered), marshalOrEmpty(sess.Tags), sess.Notes,
	)
	if err != nil {
		return fmt.Errorf("saving session: %w", err)
	}
	return nil
}

// GetSession retrieves a single session by ID.
func (s *Store) GetSession(id string) (models.Session, error) {
	row := s.db.QueryRow(`SELECT `+sessionColumns+` FROM sessions WHERE id = ?`, id)
	return scanSession(row)
}

// GetRecentSessions returns up to limit sessions, most recently active first.
func (s *Store) GetRecentSessions(limit int) ([]models.Session, error) {
	rows, err := s.db.Query(`SELECT `+sessionColumns+` FROM sessions ORDER BY last_seen DESC LIMIT ?`,
		limit)
	if err != nil {
		return nil, fmt.Errorf("querying recent sessions: %w", err)
	}
	defer rows.Close()
	return scanSessions(rows)
}

// CountSessions returns the total number of stored sessions.
func (s *Store) CountSessions() (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM sessions`).Scan(&n)
	return n, err
}

// GetOrCreateSession returns the most recent session for sourceIP if it was
// last active within the session reuse window of now, otherwise it creates
// and persists a fresh session.
func (s *Store) GetOrCreateSession(sourceIP string, now time.Time) (models.Session, error) {
	row := s.db.QueryRow(
		`SELECT `+sessionColumns+` FROM sessions WHERE source_ip = ? ORDER BY last_seen DESC LIMIT 1`,
		sourceIP,
	)
	existing, err := scanSession(row)
	if err == nil {
		if now.Sub(existing.LastSeen) < s.sessionWindow {
			return existing, nil
		}
	} else if !errors.Is(err, sql.ErrNoRows) {
		return models.Session{}, fmt.Errorf("looking up session: %w", err)
	}

	fresh := models.Session{
		ID:                 uuid.NewString(),
		SourceIP:           sourceIP,
		FirstSeen:          now,
		LastSeen:           now,
		RequestCount:       0,
		Classification:     models.ClassificationUnknown,
		RequestIDs:         []string{},
		EndpointsHit:       []string{},
		TrapTypesTriggered: []string{},
		Tags:               []string{},
	}
	if err := s.SaveSession(fresh); err != nil {
		return models.Session{}, err
	}
	return fresh, nil
}

// UpdateSessionWithEvent folds a newly captured event into its session's
// rollup: bumps the request count, appends the request ID, records the
// endpoint and trap type if new, and advances LastSeen and the fingerprint
// scores to the event's.
func (s *Store) UpdateSessionWithEvent(sess models.Session, e models.RequestEvent) (models.Session, error) {
	sess.RequestCount++
	sess.RequestIDs = append(sess.RequestIDs, e.ID)
	sess.LastSeen = e.Timestamp
	sess.Classification = e.Classification
	sess.FingerprintScores = e.FingerprintScores

	if e.MatchedEndpoint != "" && !contains(sess.EndpointsHit, e.MatchedEndpoint) {
		sess.EndpointsHit = append(sess.EndpointsHit, e.MatchedEndpoint)
	}
	if e.TrapType != "" && !contains(sess.TrapTypesTriggered, string(e.TrapType)) {
		sess.TrapTypesTriggered = append(sess.TrapTypesTriggered, string(e.TrapType))
	}

	if err := s.SaveSession(sess); err != nil {
		return models.Session{}, err
	}
	return sess, nil
}

func contains(ss []string, v string) bool {
	for _, s := range ss {
		if s == v {
			return true
		}
	}
	return false
}

func scanSession(row rowScanner) (models.Session, error) {
	var (
		sess                                          models.Session
		firstSeen, lastSeen                           string
		requestIDs, fp, endpointsHit, trapTypes, tags string
		classification                                string
	)

	err := row.Scan(
		&sess.ID, &sess.SourceIP, &firstSeen, &lastSeen, &sess.RequestCount,
		&requestIDs, &classification, &fp, &endpointsHit, &trapTypes, &tags, &sess.Notes,
	)
	if err != nil {
		return models.Session{}, err
	}

	sess.FirstSeen = timeParse(firstSeen)
	sess.LastSeen = timeParse(lastSeen)
	sess.Classification = models.Classification(classification)
	unmarshalInto(requestIDs, &sess.RequestIDs)
	unmarshalInto(fp, &sess.FingerprintScores)
	unmarshalInto(endpointsHit, &sess.EndpointsHit)
	unmarshalInto(trapTypes, &sess.TrapTypesTriggered)
	unmarshalInto(tags, &sess.Tags)
	return sess, nil
}

func scanSessions(rows *sql.Rows) ([]models.Session, error) {
	var out []models.Session
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, sess)
	}
	return out, rows.Err()
}
