package traps

import (
	"strings"

	"github.com/sundew-sh/sundew/pkg/models"
	"github.com/sundew-sh/sundew/pkg/persona"
)

// docsPath returns the Swagger/OpenAPI documentation path that matches the
// persona's framework fingerprint, so the docs URL itself fits the
// fabricated stack.
func docsPath(p models.Persona) string {
	fw := strings.ToLower(p.FrameworkFingerprint)
	switch {
	case strings.Contains(fw, "express"), strings.Contains(fw, "nestjs"):
		return "/api-docs"
	case strings.Contains(fw, "django"), strings.Contains(fw, "flask"), strings.Contains(fw, "fastapi"):
		return "/docs"
	case strings.Contains(fw, "rails"):
		return "/api/docs"
	case strings.Contains(fw, "spring"):
		return "/swagger-ui.html"
	case strings.Contains(fw, "laravel"):
		return "/api/documentation"
	default:
		return "/docs"
	}
}

// buildOpenAPISpec renders a complete OpenAPI 3.0 document for the
// persona's industry pack: every endpoint the pack exposes, the auth
// token endpoint, and a security scheme matching the persona's auth_scheme.
func buildOpenAPISpec(p models.Persona) map[string]any {
	endpoints := persona.Endpoints(p.Industry)
	domain := p.CompanyDomain()

	paths := map[string]any{}
	for _, ep := range endpoints {
		fullPath := p.Endpoint(ep.Path)
		method := strings.ToLower(ep.Method)
		entry, ok := paths[fullPath].(map[string]any)
		if !ok {
			entry = map[string]any{}
			paths[fullPath] = entry
		}
		opID := strings.NewReplacer("/", "_", "{", "", "}", "").Replace(strings.Trim(ep.Path, "/"))
		entry[method] = map[string]any{
			"summary":     ep.Summary,
			"operationId": opID,
			"responses": map[string]any{
				"200": map[string]any{"description": "Successful response"},
				"401": map[string]any{"description": "Unauthorized"},
				"404": map[string]any{"description": "Not found"},
			},
		}
	}

	authPath := p.Endpoint("/auth/token")
	paths[authPath] = map[string]any{
		"post": map[string]any{
			"summary":     "Authenticate and obtain access token",
			"operationId": "auth_token",
			"responses": map[string]any{
				"200": map[string]any{"description": "Authentication successful"},
				"401": map[string]any{"description": "Invalid credentials"},
			},
		},
	}

	securitySchemes := map[string]any{}
	var security []map[string]any

	switch p.AuthScheme {
	case models.AuthSchemeBearer:
		securitySchemes["bearerAuth"] = map[string]any{"type": "http", "scheme": "bearer"}
		security = []map[string]any{{"bearerAuth": []string{}}}
	case models.AuthSchemeAPIKeyHeader:
		securitySchemes["apiKeyAuth"] = map[string]any{"type": "apiKey", "in": "header", "name": "X-API-Key"}
		security = []map[string]any{{"apiKeyAuth": []string{}}}
	case models.AuthSchemeAPIKeyQuery:
		securitySchemes["apiKeyAuth"] = map[string]any{"type": "apiKey", "in": "query", "name": "api_key"}
		security = []map[string]any{{"apiKeyAuth": []string{}}}
	case models.AuthSchemeOAuth2:
		securitySchemes["oauth2"] = map[string]any{
			"type": "oauth2",
			"flows": map[string]any{
				"clientCredentials": map[string]any{
					"tokenUrl": authPath,
					"scopes":   map[string]any{"read": "Read access", "write": "Write access"},
				},
			},
		}
		security = []map[string]any{{"oauth2": []string{"read", "write"}}}
	default:
		securitySchemes["basicAuth"] = map[string]any{"type": "http", "scheme": "basic"}
		security = []map[string]any{{"basicAuth": []string{}}}
	}

	return map[string]any{
		"openapi": "3.0.3",
		"info": map[string]any{
			"title":       p.CompanyName + " API",
			"version":     "1.0.0",
			"description": "Internal API for " + p.CompanyName + " " + p.DataTheme + " service.",
			"contact":     map[string]any{"email": "api-support@" + domain},
		},
		"servers":    []map[string]any{{"url": "https://api." + domain}},
		"paths":      paths,
		"security":   security,
		"components": map[string]any{"securitySchemes": securitySchemes},
	}
}
