package traps

import (
	"net/http"
	"strings"
	"time"

	echo "github.com/labstack/echo/v5"

	"github.com/sundew-sh/sundew/pkg/models"
)

// robotsExtraPaths lists the industry-specific robots.txt Disallow entries,
// relative to the persona's endpoint prefix. The disallowed paths are the
// trap endpoints themselves — the disallow list is bait.
var robotsExtraPaths = map[models.Industry][]string{
	models.IndustryFintech:    {"/transactions", "/accounts", "/config"},
	models.IndustrySaaS:       {"/users", "/api-keys", "/deployments"},
	models.IndustryHealthcare: {"/patients", "/prescriptions", "/audit-log"},
	models.IndustryEcommerce:  {"/orders", "/inventory", "/refunds"},
	models.IndustryDevtools:   {"/secrets", "/builds", "/pipelines"},
	models.IndustryLogistics:  {"/shipments", "/warehouses", "/routes"},
}

// sitemapPaths lists the industry endpoints advertised in sitemap.xml,
// relative to the persona's endpoint prefix.
var sitemapPaths = map[models.Industry][]string{
	models.IndustryFintech:    {"/transactions", "/accounts", "/customers", "/transfers"},
	models.IndustrySaaS:       {"/users", "/workspaces", "/api-keys", "/logs"},
	models.IndustryHealthcare: {"/patients", "/prescriptions", "/providers", "/reports"},
	models.IndustryEcommerce:  {"/products", "/orders", "/cart", "/inventory"},
	models.IndustryDevtools:   {"/repositories", "/builds", "/secrets", "/deployments"},
	models.IndustryLogistics:  {"/shipments", "/warehouses", "/tracking", "/routes"},
}

// Discovery serves the well-known files automated agents probe when first
// meeting an unknown service: ai-plugin.json, mcp.json, robots.txt,
// sitemap.xml, and the OpenAPI spec — all shaped from persona state alone.
type Discovery struct {
	persona models.Persona
}

// NewDiscovery constructs the discovery trap for a persona.
func NewDiscovery(p models.Persona) *Discovery {
	return &Discovery{persona: p}
}

// Register mounts the five discovery paths.
func (t *Discovery) Register(e *echo.Echo) {
	e.GET("/.well-known/ai-plugin.json", t.aiPlugin)
	e.GET("/.well-known/mcp.json", t.mcpManifest)
	e.GET("/robots.txt", t.robotsTXT)
	e.GET("/sitemap.xml", t.sitemapXML)
	e.GET("/openapi.json", t.openAPISpec)
}

// aiPlugin serves an OpenAI-style plugin manifest, a file AI agents probe
// when looking for plugin integrations.
func (t *Discovery) aiPlugin(c *echo.Context) error {
	Mark(c, models.TrapTypeDiscovery, "/.well-known/ai-plugin.json")
	p := t.persona
	domain := p.CompanyDomain()

	return c.JSON(http.StatusOK, map[string]any{
		"schema_version": "v1",
		"name_for_human": p.CompanyName + " API",
		"name_for_model": strings.ToLower(strings.ReplaceAll(p.CompanyName, " ", "_")),
		"description_for_human": "Access " + p.CompanyName + "'s " + p.DataTheme +
			" data and services through a secure API.",
		"description_for_model": "Plugin for interacting with " + p.CompanyName + "'s internal " +
			p.DataTheme + " management system. Supports CRUD operations on " + p.DataTheme +
			" with authentication.",
		"auth": map[string]any{
			"type":                "service_http",
			"authorization_type":  "bearer",
			"verification_tokens": map[string]any{"openai": "placeholder"},
		},
		"api": map[string]any{
			"type":                  "openapi",
			"url":                   "https://api." + domain + "/openapi.json",
			"is_user_authenticated": false,
		},
		"logo_url":       "https://api." + domain + "/logo.png",
		"contact_email":  "api-support@" + domain,
		"legal_info_url": "https://" + domain + "/legal",
	})
}

// mcpManifest serves the MCP discovery file that tells MCP clients how to
// reach the JSON-RPC endpoint and how to authenticate against it.
func (t *Discovery) mcpManifest(c *echo.Context) error {
	Mark(c, models.TrapTypeDiscovery, "/.well-known/mcp.json")
	p := t.persona
	domain := p.CompanyDomain()
	prefix := strings.TrimSuffix(p.EndpointPrefix, "/")

	return c.JSON(http.StatusOK, map[string]any{
		"mcp_version": mcpProtocolVersion,
		"server": map[string]any{
			"name":    p.MCPServerName,
			"version": mcpServerVersion,
			"description": p.CompanyName + " internal " + p.DataTheme +
				" service accessible via Model Context Protocol.",
		},
		"endpoints": map[string]any{
			"jsonrpc": "https://api." + domain + "/mcp",
		},
		"capabilities": map[string]any{
			"tools":     true,
			"resources": false,
			"prompts":   false,
		},
		"authentication": mcpAuthBlock(p, "https://api."+domain+prefix+"/auth/token"),
	})
}

// mcpAuthBlock derives the manifest's authentication object from the
// persona's auth scheme.
func mcpAuthBlock(p models.Persona, tokenURL string) map[string]any {
	switch p.AuthScheme {
	case models.AuthSchemeOAuth2:
		return map[string]any{"type": "oauth2", "token_url": tokenURL, "scopes": []any{"read", "write"}}
	case models.AuthSchemeAPIKeyHeader:
		return map[string]any{"type": "api_key", "in": "header", "name": "X-API-Key", "token_url": tokenURL}
	case models.AuthSchemeAPIKeyQuery:
		return map[string]any{"type": "api_key", "in": "query", "name": "api_key", "token_url": tokenURL}
	case models.AuthSchemeBasic:
		return map[string]any{"type": "basic", "token_url": tokenURL}
	default:
		return map[string]any{"type": "bearer", "token_url": tokenURL}
	}
}

// robotsTXT serves a robots.txt whose Disallow entries point straight at
// the persona's trap surface.
func (t *Discovery) robotsTXT(c *echo.Context) error {
	Mark(c, models.TrapTypeDiscovery, "/robots.txt")
	p := t.persona
	prefix := strings.TrimSuffix(p.EndpointPrefix, "/")

	disallow := []string{prefix + "/", "/admin/", "/internal/", "/.well-known/"}
	for _, path := range robotsExtraPaths[p.Industry] {
		disallow = append(disallow, prefix+path)
	}

	var b strings.Builder
	b.WriteString("User-agent: *\n")
	for _, path := range disallow {
		b.WriteString("Disallow: " + path + "\n")
	}
	b.WriteString("\nSitemap: https://api." + p.CompanyDomain() + "/sitemap.xml\n")

	return c.String(http.StatusOK, b.String())
}

// sitemapXML serves a valid XML sitemap enumerating discovery and industry
// endpoint URLs, stamped with today's date.
func (t *Discovery) sitemapXML(c *echo.Context) error {
	Mark(c, models.TrapTypeDiscovery, "/sitemap.xml")
	p := t.persona
	domain := p.CompanyDomain()
	prefix := strings.TrimSuffix(p.EndpointPrefix, "/")
	today := time.Now().UTC().Format("2006-01-02")

	urls := []string{
		"https://api." + domain + "/openapi.json",
		"https://api." + domain + "/.well-known/ai-plugin.json",
		"https://api." + domain + "/.well-known/mcp.json",
	}
	for _, path := range sitemapPaths[p.Industry] {
		urls = append(urls, "https://api."+domain+prefix+path)
	}

	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	b.WriteString(`<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">` + "\n")
	for _, url := range urls {
		b.WriteString("  <url>\n")
		b.WriteString("    <loc>" + url + "</loc>\n")
		b.WriteString("    <lastmod>" + today + "</lastmod>\n")
		b.WriteString("    <changefreq>weekly</changefreq>\n")
		b.WriteString("  </url>\n")
	}
	b.WriteString("</urlset>\n")

	return c.Blob(http.StatusOK, "application/xml", []byte(b.String()))
}

// openAPISpec serves the persona's full OpenAPI 3.0 document.
func (t *Discovery) openAPISpec(c *echo.Context) error {
	Mark(c, models.TrapTypeDiscovery, "/openapi.json")
	return c.JSON(http.StatusOK, buildOpenAPISpec(t.persona))
}
