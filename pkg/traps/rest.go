package traps

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	echo "github.com/labstack/echo/v5"

	"github.com/sundew-sh/sundew/pkg/canary"
	"github.com/sundew-sh/sundew/pkg/interpolate"
	"github.com/sundew-sh/sundew/pkg/models"
	"github.com/sundew-sh/sundew/pkg/persona"
)

// REST is the adaptive REST API trap: persona-prefixed list/detail/create
// endpoints, an auth-token endpoint that accepts anything, and the
// framework-appropriate Swagger path. Every response is fake data stamped
// with canary tokens.
type REST struct {
	persona models.Persona
}

// NewREST constructs the REST trap for a persona.
func NewREST(p models.Persona) *REST {
	return &REST{persona: p}
}

// Register mounts the trap routes at the persona's endpoint prefix. The
// static auth route is registered before the :resource parameter routes so
// it always wins the match.
func (t *REST) Register(e *echo.Echo) {
	prefix := strings.TrimSuffix(t.persona.EndpointPrefix, "/")

	e.POST(prefix+"/auth/token", t.authToken)
	e.GET(prefix+"/:resource", t.listResources)
	e.POST(prefix+"/:resource", t.createResource)
	e.GET(prefix+"/:resource/:id", t.getResource)
	e.GET(prefix+"/:resource/:id/:sub", t.getSubResource)
	e.GET(docsPath(t.persona), t.swaggerDocs)
}

// rateLimitHeaders stamps the fake rate-limit headers every REST response
// carries.
func rateLimitHeaders(c *echo.Context) {
	h := c.Response().Header()
	h.Set("X-RateLimit-Limit", "1000")
	h.Set("X-RateLimit-Remaining", "997")
	h.Set("X-RateLimit-Reset", strconv.FormatInt(time.Now().Unix()+3600, 10))
}

// authToken accepts any credentials and returns a token response shaped by
// the persona's auth scheme. Every token embeds a canary and the literal
// FAKE marker so exfiltrated credentials are unambiguously traceable.
func (t *REST) authToken(c *echo.Context) error {
	p := t.persona
	Mark(c, models.TrapTypeRESTAPI, p.Endpoint("/auth/token"))
	if err := sleepLatency(c.Request().Context(), p.ResponseLatencyMS); err != nil {
		return err
	}
	rateLimitHeaders(c)

	tokenID := uuid.NewString()
	mark := canary.Mint(p, "auth:"+tokenID)
	now := time.Now().UTC()

	var body map[string]any
	switch p.AuthScheme {
	case models.AuthSchemeOAuth2:
		body = map[string]any{
			"access_token":  "eyJhbGciOiJSUzI1NiIsInR5cCI6IkpXVCJ9.FAKE." + mark,
			"token_type":    "Bearer",
			"expires_in":    3600,
			"refresh_token": "rt_FAKE_" + mark,
			"scope":         "read write",
		}
	case models.AuthSchemeBearer:
		body = map[string]any{
			"token":      canary.FakeAPIKey(p, "auth:"+tokenID),
			"type":       "bearer",
			"expires_at": now.Add(time.Hour).Format(time.RFC3339),
		}
	case models.AuthSchemeAPIKeyHeader, models.AuthSchemeAPIKeyQuery:
		body = map[string]any{
			"api_key":    canary.FakeAPIKey(p, "auth:"+tokenID),
			"created_at": now.Format(time.RFC3339),
			"name":       "generated-key",
		}
	default: // basic
		body = map[string]any{
			"session_id":    "sess_FAKE_" + mark,
			"authenticated": true,
			"expires_at":    now.Add(time.Hour).Format(time.RFC3339),
		}
	}

	return c.JSON(http.StatusOK, body)
}

// listResources returns a paginated fake collection for any resource name,
// echoing the caller's page and per_page within the documented ranges.
func (t *REST) listResources(c *echo.Context) error {
	p := t.persona
	resource := c.Param("resource")
	Mark(c, models.TrapTypeRESTAPI, p.Endpoint("/"+resource))
	if err := sleepLatency(c.Request().Context(), p.ResponseLatencyMS); err != nil {
		return err
	}
	rateLimitHeaders(c)

	page := queryInt(c, "page", 1, 1, 1<<30)
	perPage := queryInt(c, "per_page", 25, 1, 100)

	body := interpolate.Value(
		persona.ListResponseBody(p.Industry),
		variables(p, "list:"+resource),
	).(map[string]any)
	body["meta"] = map[string]any{
		"page":        page,
		"per_page":    perPage,
		"total":       47,
		"total_pages": 2,
	}

	return c.JSON(http.StatusOK, body)
}

// getResource returns a single fake item for any resource/id pair.
func (t *REST) getResource(c *echo.Context) error {
	p := t.persona
	resource, id := c.Param("resource"), c.Param("id")
	Mark(c, models.TrapTypeRESTAPI, p.Endpoint("/"+resource+"/{{id}}"))
	if err := sleepLatency(c.Request().Context(), p.ResponseLatencyMS); err != nil {
		return err
	}
	rateLimitHeaders(c)

	body := interpolate.Value(
		persona.DetailResponseBody(p.Industry),
		variables(p, "detail:"+resource+":"+id),
	)
	return c.JSON(http.StatusOK, body)
}

// getSubResource returns a nested collection, reusing the industry list
// fixture.
func (t *REST) getSubResource(c *echo.Context) error {
	p := t.persona
	resource, id, sub := c.Param("resource"), c.Param("id"), c.Param("sub")
	Mark(c, models.TrapTypeRESTAPI, p.Endpoint("/"+resource+"/{{id}}/"+sub))
	if err := sleepLatency(c.Request().Context(), p.ResponseLatencyMS); err != nil {
		return err
	}
	rateLimitHeaders(c)

	body := interpolate.Value(
		persona.ListResponseBody(p.Industry),
		variables(p, "sub:"+resource+":"+id+":"+sub),
	)
	return c.JSON(http.StatusOK, body)
}

// createResource accepts any POST body and claims to have created the
// resource, handing back a canary-derived id.
func (t *REST) createResource(c *echo.Context) error {
	p := t.persona
	resource := c.Param("resource")
	Mark(c, models.TrapTypeRESTAPI, p.Endpoint("/"+resource))
	if err := sleepLatency(c.Request().Context(), p.ResponseLatencyMS); err != nil {
		return err
	}
	rateLimitHeaders(c)

	mark := canary.Mint(p, "create:"+resource+":"+uuid.NewString()[:8])
	idPrefix := resource
	if len(idPrefix) > 3 {
		idPrefix = idPrefix[:3]
	}

	return c.JSON(http.StatusCreated, map[string]any{
		"id":         idPrefix + "_" + mark,
		"status":     "created",
		"created_at": time.Now().UTC().Format(time.RFC3339),
	})
}

// swaggerDocs serves the OpenAPI spec at the framework-appropriate docs
// path.
func (t *REST) swaggerDocs(c *echo.Context) error {
	Mark(c, models.TrapTypeRESTAPI, docsPath(t.persona))
	rateLimitHeaders(c)
	return c.JSON(http.StatusOK, buildOpenAPISpec(t.persona))
}

// queryInt parses an integer query parameter, clamping it into [min, max].
// Garbage input falls back to the default rather than erroring — a trap
// never rejects attacker input with a 5xx.
func queryInt(c *echo.Context, name string, def, min, max int) int {
	raw := c.QueryParam(name)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	if n < min {
		return min
	}
	if n > max {
		return max
	}
	return n
}
