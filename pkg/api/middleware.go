package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	echo "github.com/labstack/echo/v5"

	"github.com/sundew-sh/sundew/pkg/classify"
	"github.com/sundew-sh/sundew/pkg/fingerprint"
	"github.com/sundew-sh/sundew/pkg/interpolate"
	"github.com/sundew-sh/sundew/pkg/models"
	"github.com/sundew-sh/sundew/pkg/traps"
)

// maxCaptureBody bounds how much of a request body is captured into the
// event record. Bodies past the limit are truncated and flagged.
const maxCaptureBody = 64 * 1024

// captureMiddleware is the single wrapper around every handler. Before the
// handler runs it captures the request into an event, resolves the source's
// session, scores and classifies the request, and persists the linked event
// — so no response leaves the process for a request that was never
// recorded. After the handler it finalizes the event with the response
// status and folds it into the session rollup.
func (s *Server) captureMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c *echo.Context) error {
		start := time.Now()
		req := c.Request()

		reqCtx, cancel := context.WithTimeout(req.Context(), s.requestTimeout)
		defer cancel()
		c.SetRequest(req.WithContext(reqCtx))
		req = c.Request()

		body, truncated := readLimitedBody(req)
		ip, port := sourceAddr(req)

		event := models.RequestEvent{
			ID:             uuid.NewString(),
			Timestamp:      start.UTC(),
			SourceIP:       ip,
			SourcePort:     port,
			Method:         req.Method,
			Path:           req.URL.Path,
			QueryParams:    flattenValues(req.URL.Query()),
			Headers:        flattenValues(req.Header),
			Body:           body,
			ContentType:    req.Header.Get("Content-Type"),
			UserAgent:      req.Header.Get("User-Agent"),
			Classification: models.ClassificationUnknown,
		}
		if truncated {
			event.Notes = "body_truncated"
		}
		if body != "" && strings.HasPrefix(event.ContentType, "application/json") {
			var parsed any
			if err := json.Unmarshal([]byte(body), &parsed); err == nil {
				event.BodyJSON = parsed
			}
		}

		mcpMethod := ""
		if req.Method == http.MethodPost && req.URL.Path == "/mcp" {
			mcpMethod = extractRPCMethod(body)
		}

		// Serialize everything from this source: session resolution, the
		// handler, and the rollup update all happen under the per-IP lock.
		unlock := s.sessions.Lock(ip)
		defer unlock()

		sess, input, err := s.sessions.Observe(ip, event.Path, mcpMethod, event.Timestamp)
		if err != nil {
			slog.Error("session resolution failed", "source_ip", ip, "error", err)
			return s.personaError(c, http.StatusServiceUnavailable, "service_unavailable",
				"The service is temporarily unavailable.")
		}
		event.SessionID = sess.ID

		input.Headers = event.Headers
		input.Body = event.Body
		event.FingerprintScores = fingerprint.Score(input)
		if cls, cerr := classify.Classify(event.FingerprintScores.Composite); cerr == nil {
			event.Classification = cls
		}

		// Persist and link before the handler emits anything.
		if err := s.store.SaveEvent(event); err != nil {
			slog.Error("event persistence failed", "event_id", event.ID, "error", err)
			return s.personaError(c, http.StatusServiceUnavailable, "service_unavailable",
				"The service is temporarily unavailable.")
		}

		s.stampPersonaHeaders(c, ip, start)

		handlerErr := next(c)

		switch {
		case handlerErr != nil && errors.Is(handlerErr, context.Canceled):
			event.ResponseStatus = 0
			event.Notes = appendNote(event.Notes, "client_disconnected")
			handlerErr = nil
		case handlerErr != nil && errors.Is(handlerErr, context.DeadlineExceeded):
			event.ResponseStatus = 0
			event.Notes = appendNote(event.Notes, "deadline_exceeded")
			handlerErr = nil
		default:
			event.ResponseStatus = c.Response().(*echo.Response).Status
		}

		event.TrapType = traps.TrapTypeFromContext(c)
		event.MatchedEndpoint = traps.MatchedEndpointFromContext(c)

		if err := s.store.SaveEvent(event); err != nil {
			slog.Warn("event finalization failed", "event_id", event.ID, "error", err)
		}
		if _, err := s.sessions.Finalize(sess, event); err != nil {
			slog.Warn("session update failed", "session_id", sess.ID, "error", err)
		}

		return handlerErr
	}
}

// stampPersonaHeaders sets the persona's Server header and interpolated
// extra headers, and arranges for X-Response-Time to be computed at the
// moment the response is first written.
func (s *Server) stampPersonaHeaders(c *echo.Context, ip string, start time.Time) {
	res := c.Response()
	h := res.Header()

	h.Set("Server", s.persona.ServerHeader)
	ctx := map[string]string{"source_ip": ip}
	for name, value := range s.persona.ExtraHeaders {
		h.Set(name, interpolate.String(value, ctx))
	}

	res.(*echo.Response).Before(func() {
		h.Set("X-Response-Time",
			strconv.FormatInt(time.Since(start).Milliseconds(), 10)+"ms")
	})
}

// readLimitedBody consumes up to maxCaptureBody bytes of the request body,
// restoring what was read so downstream handlers still see it. The second
// return reports whether the body exceeded the limit.
func readLimitedBody(req *http.Request) (string, bool) {
	if req.Body == nil {
		return "", false
	}

	data, err := io.ReadAll(io.LimitReader(req.Body, maxCaptureBody+1))
	if err != nil {
		req.Body = io.NopCloser(bytes.NewReader(nil))
		return "", false
	}

	truncated := len(data) > maxCaptureBody
	if truncated {
		data = data[:maxCaptureBody]
	}
	req.Body = io.NopCloser(bytes.NewReader(data))
	return string(data), truncated
}

// sourceAddr extracts the peer's socket address. The honeypot deliberately
// ignores forwarding headers — an attacker-supplied X-Forwarded-For must
// not be allowed to scatter one source across many sessions.
func sourceAddr(req *http.Request) (string, int) {
	host, portStr, err := net.SplitHostPort(req.RemoteAddr)
	if err != nil {
		if req.RemoteAddr != "" {
			return req.RemoteAddr, 0
		}
		return "0.0.0.0", 0
	}
	port, _ := strconv.Atoi(portStr)
	return host, port
}

// sourceIP is sourceAddr without the port.
func sourceIP(req *http.Request) string {
	ip, _ := sourceAddr(req)
	return ip
}

// flattenValues keeps the first value of each key, which is all the scorer
// and the stored event need.
func flattenValues(values map[string][]string) map[string]string {
	out := make(map[string]string, len(values))
	for k, v := range values {
		if len(v) > 0 {
			out[k] = v[0]
		} else {
			out[k] = ""
		}
	}
	return out
}

// extractRPCMethod pulls the JSON-RPC method name out of an MCP request
// body, tolerating malformed input.
func extractRPCMethod(body string) string {
	var envelope struct {
		Method string `json:"method"`
	}
	if err := json.Unmarshal([]byte(body), &envelope); err != nil {
		return ""
	}
	return envelope.Method
}

func appendNote(notes, tag string) string {
	if notes == "" {
		return tag
	}
	return fmt.Sprintf("%s,%s", notes, tag)
}
