package persona

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/sundew-sh/sundew/pkg/config"
	"github.com/sundew-sh/sundew/pkg/llm"
	"github.com/sundew-sh/sundew/pkg/models"
)

const templateCacheFile = "template_cache.json"

const systemPrompt = `You are a response template generator for a realistic API honeypot.
Given a company persona, generate realistic API response templates that look like
a real production API. Templates use {{variable}} placeholders for dynamic values.

Available placeholders:
- {{timestamp}} - current ISO 8601 timestamp
- {{request_id}} - unique request ID
- {{random_id}} - random UUID
- {{random_int}} - random integer

Respond with valid JSON only. No markdown, no explanation.`

// Engine owns the set of response templates a deployment serves: generated
// once at startup (by an LLM provider, or from the built-in packs) and then
// served from memory with zero added latency.
type Engine struct {
	persona  models.Persona
	provider llm.Provider
	dataDir  string

	mu        sync.RWMutex
	templates map[string]models.ResponseTemplate
}

// NewEngine constructs an Engine for persona, using provider for template
// generation and dataDir for its on-disk cache.
func NewEngine(p models.Persona, provider llm.Provider, dataDir string) *Engine {
	return &Engine{
		persona:   p,
		provider:  provider,
		dataDir:   dataDir,
		templates: map[string]models.ResponseTemplate{},
	}
}

// Initialize populates the template set: first from the on-disk cache, then
// (on a cache miss) from the configured LLM provider, falling back to the
// built-in persona pack for the deployment's industry on any provider
// failure or malformed output.
func (e *Engine) Initialize(ctx context.Context, cfg config.LLMConfig) error {
	if e.loadFromCache() {
		slog.Info("loaded templates from cache",
			"count", len(e.templates), "company", e.persona.CompanyName)
		return nil
	}

	switch cfg.Provider {
	case "", "none":
		e.loadFromPacks()
	default:
		prompt := buildGenerationPrompt(e.persona)
		text, err := e.provider.Generate(ctx, systemPrompt, prompt)
		if err != nil {
			slog.Warn("llm template generation failed, falling back to packs", "error", err)
			e.loadFromPacks()
		} else if !e.parseLLMResponse(text) {
			e.loadFromPacks()
		}
	}

	if err := e.saveToCache(); err != nil {
		slog.Warn("failed to persist template cache", "error", err)
	}
	slog.Info("generated templates", "count", len(e.templates), "company", e.persona.CompanyName)
	return nil
}

// GetTemplate returns the best-matching template for method and endpoint.
// Matching prefers an exact literal match, then the wildcard pattern with
// the fewest {{var}} segments (most specific wins); ties break on the
// pattern with the most literal (non-wildcard) path segments, then on the
// lexicographically smallest template key, so the result never depends on
// Go's map iteration order.
func (e *Engine) GetTemplate(method, endpoint string) (models.ResponseTemplate, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	method = strings.ToUpper(method)

	if t, ok := e.templates[templateKey(method, endpoint)]; ok {
		return t, true
	}

	var best models.ResponseTemplate
	found := false
	bestWildcards := -1
	bestLiterals := -1
	bestKey := ""

	for _, t := range e.templates {
		if !strings.EqualFold(t.Method, method) {
			continue
		}
		wildcards, ok := matchPattern(t.Endpoint, endpoint)
		if !ok {
			continue
		}
		literals := literalSegmentCount(t.Endpoint)
		key := templateKey(t.Method, t.Endpoint)

		better := !found
		if !better && wildcards != bestWildcards {
			better = wildcards < bestWildcards
		} else if !better && literals != bestLiterals {
			better = literals > bestLiterals
		} else if !better {
			better = key < bestKey
		}
		if !better {
			continue
		}
		best, bestWildcards, bestLiterals, bestKey, found = t, wildcards, literals, key, true
	}
	return best, found
}

// literalSegmentCount counts the non-wildcard path segments in pattern,
// used to break ties between templates with equal wildcard counts.
func literalSegmentCount(pattern string) int {
	segs := strings.Split(strings.Trim(pattern, "/"), "/")
	n := 0
	for _, seg := range segs {
		if !(strings.HasPrefix(seg, "{{") && strings.HasSuffix(seg, "}}")) {
			n++
		}
	}
	return n
}

// AllTemplates returns every registered template.
func (e *Engine) AllTemplates() []models.ResponseTemplate {
	e.mu.RLock()
	defer e.mu.RUnlock()

	out := make([]models.ResponseTemplate, 0, len(e.templates))
	for _, t := range e.templates {
		out = append(out, t)
	}
	return out
}

// Register adds or replaces a template in the engine's cache.
func (e *Engine) Register(t models.ResponseTemplate) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.templates[templateKey(t.Method, t.Endpoint)] = t
}

func templateKey(method, endpoint string) string {
	return strings.ToUpper(method) + ":" + endpoint
}

// matchPattern reports whether endpoint matches pattern, where pattern may
// contain {{var}} wildcard segments matching exactly one path segment each.
// It also returns the wildcard count, used to rank competing matches.
func matchPattern(pattern, endpoint string) (wildcards int, matched bool) {
	patSegs := strings.Split(strings.Trim(pattern, "/"), "/")
	reqSegs := strings.Split(strings.Trim(endpoint, "/"), "/")
	if len(patSegs) != len(reqSegs) {
		return 0, false
	}
	for i, seg := range patSegs {
		if strings.HasPrefix(seg, "{{") && strings.HasSuffix(seg, "}}") {
			wildcards++
			continue
		}
		if seg != reqSegs[i] {
			return 0, false
		}
	}
	return wildcards, true
}

func (e *Engine) cachePath() string {
	return filepath.Join(e.dataDir, templateCacheFile)
}

func (e *Engine) loadFromCache() bool {
	data, err := os.ReadFile(e.cachePath())
	if err != nil {
		return false
	}

	var raw []models.ResponseTemplate
	if err := json.Unmarshal(data, &raw); err != nil {
		slog.Warn("failed to parse template cache", "error", err)
		return false
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	for _, t := range raw {
		e.templates[templateKey(t.Method, t.Endpoint)] = t
	}
	return len(e.templates) > 0
}

func (e *Engine) saveToCache() error {
	if err := os.MkdirAll(e.dataDir, 0o755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(e.AllTemplates(), "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(e.cachePath(), data, 0o644)
}

// loadFromPacks registers the built-in templates for the persona's industry:
// list/detail/create for the data theme plus a health check, mirroring the
// reference deployment's minimal-defaults fallback.
func (e *Engine) loadFromPacks() {
	prefix := strings.TrimRight(e.persona.EndpointPrefix, "/")
	theme := e.persona.DataTheme

	defaults := []models.ResponseTemplate{
		{
			Endpoint:    fmt.Sprintf("%s/%s", prefix, theme),
			Method:      "GET",
			StatusCode:  200,
			ContentType: "application/json",
			BodyTemplate: mustJSON(map[string]any{
				"data":       []any{},
				"meta":       map[string]any{"total": 0, "page": 1, "per_page": 20},
				"request_id": "{{request_id}}",
			}),
			Description: fmt.Sprintf("List %s", theme),
		},
		{
			Endpoint:    fmt.Sprintf("%s/%s/{{id}}", prefix, theme),
			Method:      "GET",
			StatusCode:  200,
			ContentType: "application/json",
			BodyTemplate: mustJSON(map[string]any{
				"id":         "{{random_id}}",
				"created_at": "{{timestamp}}",
				"updated_at": "{{timestamp}}",
			}),
			Description: fmt.Sprintf("Get single %s item", theme),
		},
		{
			Endpoint:    fmt.Sprintf("%s/%s", prefix, theme),
			Method:      "POST",
			StatusCode:  201,
			ContentType: "application/json",
			BodyTemplate: mustJSON(map[string]any{
				"id":         "{{random_id}}",
				"created_at": "{{timestamp}}",
				"status":     "created",
			}),
			Description: fmt.Sprintf("Create %s item", theme),
		},
		{
			Endpoint:    prefix + "/health",
			Method:      "GET",
			StatusCode:  200,
			ContentType: "application/json",
			BodyTemplate: mustJSON(map[string]any{
				"status":    "healthy",
				"timestamp": "{{timestamp}}",
				"version":   "1.0.0",
			}),
			Description: "Health check endpoint",
		},
	}

	for _, t := range defaults {
		e.Register(t)
	}

	for _, ep := range Endpoints(e.persona.Industry) {
		body := ListResponseBody(e.persona.Industry)
		if strings.Contains(ep.Path, "{") {
			body = DetailResponseBody(e.persona.Industry)
		}
		e.Register(models.ResponseTemplate{
			Endpoint:     e.persona.Endpoint(braceToWildcard(ep.Path)),
			Method:       ep.Method,
			StatusCode:   200,
			ContentType:  "application/json",
			BodyTemplate: mustJSON(body),
			Description:  ep.Summary,
		})
	}
}

// parseLLMResponse parses an LLM's JSON array of templates, tolerating a
// fenced code block. Returns false if the output was unusable.
func (e *Engine) parseLLMResponse(text string) bool {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```") {
		lines := strings.Split(text, "\n")
		if len(lines) > 2 {
			text = strings.Join(lines[1:len(lines)-1], "\n")
		}
	}

	var raw []models.ResponseTemplate
	if err := json.Unmarshal([]byte(text), &raw); err != nil || len(raw) == 0 {
		slog.Warn("failed to parse llm response", "error", err)
		return false
	}
	for _, t := range raw {
		e.Register(t)
	}
	return true
}

func buildGenerationPrompt(p models.Persona) string {
	return fmt.Sprintf(`Generate realistic API response templates for this company:

Company: %s
Industry: %s
API Style: %s
Data Theme: %s
Endpoint Prefix: %s
Error Style: %s
Auth Scheme: %s

Generate a JSON array of response templates. Each template should have:
- endpoint: path with the given prefix
- method: HTTP method (GET, POST, PUT, DELETE)
- status_code: appropriate HTTP status
- content_type: "application/json"
- headers: dict of extra headers
- body_template: realistic JSON response body as a string, using {{timestamp}},
  {{request_id}}, {{random_id}}, {{random_int}} placeholders
- description: what this endpoint does

Generate at least 8 endpoints covering list, get, create, update, delete,
health check, API documentation, and an auth token endpoint.`,
		p.CompanyName, p.Industry, p.APIStyle, p.DataTheme, p.EndpointPrefix,
		p.ErrorStyle, p.AuthScheme)
}

func braceToWildcard(path string) string {
	var b strings.Builder
	for _, seg := range strings.Split(path, "/") {
		if b.Len() > 0 {
			b.WriteByte('/')
		}
		if strings.HasPrefix(seg, "{") && strings.HasSuffix(seg, "}") {
			b.WriteString("{{" + seg[1:len(seg)-1] + "}}")
		} else {
			b.WriteString(seg)
		}
	}
	return b.String()
}

func mustJSON(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return "{}"
	}
	return string(data)
}
