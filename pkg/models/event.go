package models

import "time"

// TrapType identifies which trap surface served (or would have served) a
// request.
type TrapType string

const (
	TrapTypeRESTAPI   TrapType = "rest_api"
	TrapTypeMCP       TrapType = "mcp"
	TrapTypeDiscovery TrapType = "discovery"
	TrapTypeUnmatched TrapType = "unmatched"
)

// RequestEvent is created by the capture middleware for every inbound
// request. It is immutable after the response is emitted except for
// analyst-supplied Notes.
type RequestEvent struct {
	ID                string            `json:"id"`
	Timestamp         time.Time         `json:"timestamp"`
	SessionID         string            `json:"session_id"`
	SourceIP          string            `json:"source_ip"`
	SourcePort        int               `json:"source_port"`
	Method            string            `json:"method"`
	Path              string            `json:"path"`
	QueryParams       map[string]string `json:"query_params"`
	Headers           map[string]string `json:"headers"`
	Body              string            `json:"body,omitempty"`
	BodyJSON          any               `json:"body_json,omitempty"`
	ContentType       string            `json:"content_type,omitempty"`
	UserAgent         string            `json:"user_agent,omitempty"`
	FingerprintScores FingerprintScores `json:"fingerprint_scores"`
	Classification    Classification    `json:"classification"`
	TrapType          TrapType          `json:"trap_type,omitempty"`
	MatchedEndpoint   string            `json:"matched_endpoint,omitempty"`
	ResponseStatus    int               `json:"response_status"`
	Notes             string            `json:"notes,omitempty"`
}

// Session is owned by the Session Aggregator. A session is reused for a
// source IP as long as LastSeen is within the configured reuse window
// (default 3600s) of a new event's timestamp; otherwise a fresh session is
// created. Sessions are never deleted by the core.
type Session struct {
	ID                 string            `json:"id"`
	SourceIP           string            `json:"source_ip"`
	FirstSeen          time.Time         `json:"first_seen"`
	LastSeen           time.Time         `json:"last_seen"`
	RequestCount       int               `json:"request_count"`
	RequestIDs         []string          `json:"request_ids"`
	Classification     Classification    `json:"classification"`
	FingerprintScores  FingerprintScores `json:"fingerprint_scores"`
	EndpointsHit       []string          `json:"endpoints_hit"`
	TrapTypesTriggered []string          `json:"trap_types_triggered"`
	Tags               []string          `json:"tags"`
	Notes              string            `json:"notes,omitempty"`
}
