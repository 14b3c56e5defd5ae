package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sundew-sh/sundew/pkg/config"
	"github.com/sundew-sh/sundew/pkg/llm"
	"github.com/sundew-sh/sundew/pkg/models"
	"github.com/sundew-sh/sundew/pkg/persona"
	"github.com/sundew-sh/sundew/pkg/session"
	"github.com/sundew-sh/sundew/pkg/storage"
)

type testHarness struct {
	server  *Server
	store   *storage.Store
	persona models.Persona
}

func newTestHarness(t *testing.T, seed int64) *testHarness {
	return newTestHarnessWithTraps(t, seed,
		config.TrapsConfig{MCPServer: true, RESTAPI: true, AIDiscovery: true})
}

func newTestHarnessWithTraps(t *testing.T, seed int64, trapsCfg config.TrapsConfig) *testHarness {
	t.Helper()

	p := persona.Generate(seed)
	p.ResponseLatencyMS = 1 // keep the artificial delay out of test time

	cfg := &config.Config{
		Traps: trapsCfg,
		LLM:   config.LLMConfig{Provider: "none"},
	}

	dir := t.TempDir()
	engine := persona.NewEngine(p, llm.New(cfg.LLM), dir)
	require.NoError(t, engine.Initialize(context.Background(), cfg.LLM))

	store, err := storage.Open(filepath.Join(dir, "sundew.db"), "", 0)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	srv := NewServer(cfg, p, engine, store, session.NewManager(store))
	require.NoError(t, srv.ValidateWiring())

	return &testHarness{server: srv, store: store, persona: p}
}

// do issues a request from a fixed source address with optional headers.
func (h *testHarness) do(t *testing.T, method, path, remoteAddr string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	req.RemoteAddr = remoteAddr
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.server.ServeHTTP(rec, req)
	return rec
}

func (h *testHarness) postJSON(t *testing.T, path, remoteAddr, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.RemoteAddr = remoteAddr
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.server.ServeHTTP(rec, req)
	return rec
}

func (h *testHarness) latestSession(t *testing.T) models.Session {
	t.Helper()
	sessions, err := h.store.GetRecentSessions(1)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	return sessions[0]
}

func TestHealthEndpoint(t *testing.T) {
	h := newTestHarness(t, 1)

	rec := h.do(t, http.MethodGet, "/health", "192.0.2.1:4444", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	assert.Equal(t, h.persona.ServerHeader, rec.Header().Get("Server"))
	assert.Contains(t, rec.Header().Get("X-Response-Time"), "ms")
}

func TestEventPersistedAndLinkedBeforeResponse(t *testing.T) {
	h := newTestHarness(t, 1)

	rec := h.do(t, http.MethodGet, "/robots.txt", "198.51.100.7:5555", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	events, err := h.store.GetRecentEvents(1)
	require.NoError(t, err)
	require.Len(t, events, 1)

	event := events[0]
	assert.NotEmpty(t, event.SessionID)
	assert.Equal(t, "198.51.100.7", event.SourceIP)
	assert.Equal(t, 5555, event.SourcePort)
	assert.Equal(t, http.StatusOK, event.ResponseStatus)
	assert.Equal(t, models.TrapTypeDiscovery, event.TrapType)
	assert.Equal(t, "/robots.txt", event.MatchedEndpoint)

	sess, err := h.store.GetSession(event.SessionID)
	require.NoError(t, err)
	assert.Equal(t, 1, sess.RequestCount)
	assert.Contains(t, sess.RequestIDs, event.ID)
	assert.False(t, sess.FirstSeen.After(event.Timestamp))
	assert.False(t, sess.LastSeen.Before(event.Timestamp))
}

func TestDiscoverySweepClassifiesAutomation(t *testing.T) {
	h := newTestHarness(t, 99)
	addr := "203.0.113.5:40100"
	ua := map[string]string{"User-Agent": "python-httpx/0.27.0"}

	for _, path := range []string{
		"/robots.txt", "/sitemap.xml", "/openapi.json",
		"/.well-known/ai-plugin.json", "/.well-known/mcp.json",
	} {
		rec := h.do(t, http.MethodGet, path, addr, ua)
		require.Equal(t, http.StatusOK, rec.Code, "path %s", path)
	}

	sess := h.latestSession(t)
	assert.Equal(t, "203.0.113.5", sess.SourceIP)
	assert.Equal(t, 5, sess.RequestCount)
	assert.Contains(t, sess.TrapTypesTriggered, "discovery")

	scores := sess.FingerprintScores
	assert.GreaterOrEqual(t, scores.PathEnumeration, 0.4)
	assert.GreaterOrEqual(t, scores.HeaderAnomaly, 0.3)
	assert.GreaterOrEqual(t, scores.Composite, 0.3)
	assert.NotEqual(t, models.ClassificationHuman, sess.Classification)
	assert.NotEqual(t, models.ClassificationUnknown, sess.Classification)
}

func TestBrowserPairClassifiesHuman(t *testing.T) {
	h := newTestHarness(t, 77)
	addr := "192.0.2.34:50123"
	browser := map[string]string{
		"User-Agent":      "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
		"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
		"Accept-Language": "en-US,en;q=0.9",
		"Accept-Encoding": "gzip, deflate, br",
		"Referer":         "https://www.example.com/",
	}

	rec := h.do(t, http.MethodGet, h.persona.Endpoint("/patients"), addr, browser)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = h.do(t, http.MethodGet, h.persona.Endpoint("/patients/abc"), addr, browser)
	require.Equal(t, http.StatusOK, rec.Code)

	sess := h.latestSession(t)
	assert.Equal(t, models.ClassificationHuman, sess.Classification)
	assert.Less(t, sess.FingerprintScores.Composite, 0.3)
}

func TestMCPConversationScoresHigh(t *testing.T) {
	h := newTestHarness(t, 21)
	addr := "203.0.113.9:41000"

	for _, body := range []string{
		`{"jsonrpc":"2.0","id":1,"method":"initialize","params":{}}`,
		`{"jsonrpc":"2.0","id":2,"method":"tools/list","params":{}}`,
		`{"jsonrpc":"2.0","id":3,"method":"tools/call","params":{"name":"nothing"}}`,
	} {
		rec := h.postJSON(t, "/mcp", addr, body)
		require.Equal(t, http.StatusOK, rec.Code)
	}

	sess := h.latestSession(t)
	assert.Contains(t, sess.TrapTypesTriggered, "mcp")

	scores := sess.FingerprintScores
	assert.InDelta(t, 1.0, scores.MCPBehavior, 1e-9,
		"initialize + tools/list + tools/call should max the MCP signal")
	assert.GreaterOrEqual(t, scores.Composite, 0.4)
	assert.NotEqual(t, models.ClassificationHuman, sess.Classification)
}

func TestUnmatchedPathServesPersonaStyled404(t *testing.T) {
	h := newTestHarness(t, 3)

	rec := h.do(t, http.MethodGet, "/definitely/not/registered/anywhere", "192.0.2.2:6000", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	contentType := rec.Header().Get("Content-Type")
	switch h.persona.ErrorStyle {
	case models.ErrorStyleXML:
		assert.Contains(t, contentType, "application/xml")
	case models.ErrorStyleHTML:
		assert.Contains(t, contentType, "text/html")
	default:
		assert.Contains(t, contentType, "application/json")
	}

	events, err := h.store.GetRecentEvents(1)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, models.TrapTypeUnmatched, events[0].TrapType)
	assert.Equal(t, http.StatusNotFound, events[0].ResponseStatus)
}

func TestUnmatchedPathFallsBackToEngineTemplates(t *testing.T) {
	// With the REST trap unmounted, prefix paths fall through to the
	// catch-all, which serves them from the engine's template cache.
	h := newTestHarnessWithTraps(t, 3,
		config.TrapsConfig{MCPServer: true, RESTAPI: false, AIDiscovery: true})

	path := h.persona.Endpoint("/health")
	rec := h.do(t, http.MethodGet, path, "192.0.2.3:6001", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
	assert.NotContains(t, rec.Body.String(), "{{")
}

func TestResponsesNeverLeakDeploymentWords(t *testing.T) {
	h := newTestHarness(t, 8)
	addr := "192.0.2.9:7000"

	paths := []string{
		"/health", "/robots.txt", "/sitemap.xml", "/openapi.json",
		"/.well-known/mcp.json", h.persona.Endpoint("/items"),
		"/nonexistent",
	}
	for _, path := range paths {
		rec := h.do(t, http.MethodGet, path, addr, nil)
		body := strings.ToLower(rec.Body.String())
		assert.NotContains(t, body, "{{", "path %s", path)
		assert.NotContains(t, body, "honeypot", "path %s", path)
		assert.NotContains(t, body, "canary", "path %s", path)
		for _, header := range []string{"Server", "X-Response-Time"} {
			v := strings.ToLower(rec.Header().Get(header))
			assert.NotContains(t, v, "honeypot", "header %s on %s", header, path)
		}
	}
}

func TestSessionReusedAcrossRequests(t *testing.T) {
	h := newTestHarness(t, 4)
	addr := "198.51.100.44:8100"

	h.do(t, http.MethodGet, "/robots.txt", addr, nil)
	h.do(t, http.MethodGet, "/sitemap.xml", addr, nil)

	n, err := h.store.CountSessions()
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	sess := h.latestSession(t)
	assert.Equal(t, 2, sess.RequestCount)
	assert.ElementsMatch(t, []string{"/robots.txt", "/sitemap.xml"}, sess.EndpointsHit)
}

func TestDistinctSourcesGetDistinctSessions(t *testing.T) {
	h := newTestHarness(t, 4)

	h.do(t, http.MethodGet, "/robots.txt", "198.51.100.1:8100", nil)
	h.do(t, http.MethodGet, "/robots.txt", "198.51.100.2:8100", nil)

	n, err := h.store.CountSessions()
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}
