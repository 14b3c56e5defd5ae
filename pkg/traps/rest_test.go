package traps

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	echo "github.com/labstack/echo/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sundew-sh/sundew/pkg/models"
	"github.com/sundew-sh/sundew/pkg/persona"
)

func newRESTServer(t *testing.T, p models.Persona) *echo.Echo {
	t.Helper()
	e := echo.New()
	NewREST(p).Register(e)
	return e
}

func fastPersona(seed int64) models.Persona {
	p := persona.Generate(seed)
	p.ResponseLatencyMS = 1 // keep tests quick
	return p
}

func doJSON(t *testing.T, e *echo.Echo, method, path string) (int, map[string]any, http.Header) {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec.Code, body, rec.Header()
}

func TestREST_AuthTokenShapes(t *testing.T) {
	schemes := []models.AuthScheme{
		models.AuthSchemeOAuth2, models.AuthSchemeBearer,
		models.AuthSchemeAPIKeyHeader, models.AuthSchemeAPIKeyQuery,
		models.AuthSchemeBasic,
	}

	for _, scheme := range schemes {
		t.Run(string(scheme), func(t *testing.T) {
			p := fastPersona(5)
			p.AuthScheme = scheme
			e := newRESTServer(t, p)

			code, body, _ := doJSON(t, e, http.MethodPost, p.Endpoint("/auth/token"))
			require.Equal(t, http.StatusOK, code)

			raw, err := json.Marshal(body)
			require.NoError(t, err)
			assert.Contains(t, string(raw), "FAKE",
				"every fabricated credential must carry the FAKE marker")

			switch scheme {
			case models.AuthSchemeOAuth2:
				assert.Contains(t, body, "access_token")
				assert.Contains(t, body, "refresh_token")
			case models.AuthSchemeBearer:
				assert.Contains(t, body, "token")
				token := body["token"].(string)
				assert.True(t, strings.HasPrefix(token, "sk-sundew-FAKE-"))
			case models.AuthSchemeAPIKeyHeader, models.AuthSchemeAPIKeyQuery:
				key := body["api_key"].(string)
				assert.True(t, strings.HasPrefix(key, "sk-sundew-FAKE-"))
			case models.AuthSchemeBasic:
				assert.Contains(t, body, "session_id")
				assert.Equal(t, true, body["authenticated"])
			}
		})
	}
}

func TestREST_ListEchoesPaginationWithinBounds(t *testing.T) {
	p := fastPersona(5)
	e := newRESTServer(t, p)

	code, body, headers := doJSON(t, e, http.MethodGet,
		p.Endpoint("/widgets")+"?page=3&per_page=500")
	require.Equal(t, http.StatusOK, code)

	meta := body["meta"].(map[string]any)
	assert.Equal(t, float64(3), meta["page"])
	assert.Equal(t, float64(100), meta["per_page"], "per_page must clamp to 100")

	data, ok := body["data"].([]any)
	require.True(t, ok)
	assert.NotEmpty(t, data)

	assert.Equal(t, "1000", headers.Get("X-RateLimit-Limit"))
	assert.NotEmpty(t, headers.Get("X-RateLimit-Remaining"))
	assert.NotEmpty(t, headers.Get("X-RateLimit-Reset"))
}

func TestREST_ListRejectsNothing(t *testing.T) {
	p := fastPersona(5)
	e := newRESTServer(t, p)

	code, body, _ := doJSON(t, e, http.MethodGet,
		p.Endpoint("/widgets")+"?page=-4&per_page=garbage")
	require.Equal(t, http.StatusOK, code)

	meta := body["meta"].(map[string]any)
	assert.Equal(t, float64(1), meta["page"])
	assert.Equal(t, float64(25), meta["per_page"])
}

func TestREST_DetailAndNested(t *testing.T) {
	p := fastPersona(5)
	e := newRESTServer(t, p)

	code, body, _ := doJSON(t, e, http.MethodGet, p.Endpoint("/widgets/abc123"))
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, "id")

	code, body, _ = doJSON(t, e, http.MethodGet, p.Endpoint("/widgets/abc123/parts"))
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, "data")
}

func TestREST_CreateReturns201WithCanaryID(t *testing.T) {
	p := fastPersona(5)
	e := newRESTServer(t, p)

	code, body, _ := doJSON(t, e, http.MethodPost, p.Endpoint("/widgets"))
	require.Equal(t, http.StatusCreated, code)

	assert.Equal(t, "created", body["status"])
	id := body["id"].(string)
	assert.True(t, strings.HasPrefix(id, "wid_"))
	assert.Contains(t, body, "created_at")
}

func TestREST_DocsPathMatchesFramework(t *testing.T) {
	cases := map[string]string{
		"express/4.18.2":    "/api-docs",
		"nestjs/10.3.0":     "/api-docs",
		"django/4.2":        "/docs",
		"fastapi/0.109.0":   "/docs",
		"flask/3.0.0":       "/docs",
		"rails/7.1":         "/api/docs",
		"spring-boot/3.2.0": "/swagger-ui.html",
		"laravel/10.40":     "/api/documentation",
		"actix-web/4.4":     "/docs",
	}

	for fw, want := range cases {
		p := fastPersona(5)
		p.FrameworkFingerprint = fw
		assert.Equal(t, want, docsPath(p), "framework %s", fw)
	}
}

func TestREST_SwaggerServesOpenAPI(t *testing.T) {
	p := fastPersona(5)
	e := newRESTServer(t, p)

	code, body, _ := doJSON(t, e, http.MethodGet, docsPath(p))
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "3.0.3", body["openapi"])
}

func TestREST_BodiesInterpolateFully(t *testing.T) {
	p := fastPersona(11)
	e := newRESTServer(t, p)

	for _, path := range []string{
		p.Endpoint("/things"),
		p.Endpoint("/things/42"),
		p.Endpoint("/things/42/parts"),
	} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		assert.NotContains(t, rec.Body.String(), "{{", "path %s", path)
	}
}
