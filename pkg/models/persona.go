// Package models defines the value objects shared across the honeypot: the
// deployment persona, response templates, captured request events, sessions,
// fingerprint scores, and traffic classifications.
package models

import "strings"

// Industry is one of the six synthetic deployment verticals. The industry
// determines which template pack and MCP tool family are used when no LLM
// provider is configured.
type Industry string

const (
	IndustryFintech    Industry = "fintech"
	IndustrySaaS       Industry = "saas"
	IndustryHealthcare Industry = "healthcare"
	IndustryEcommerce  Industry = "ecommerce"
	IndustryDevtools   Industry = "devtools"
	IndustryLogistics  Industry = "logistics"
)

// AllIndustries lists every supported industry in a fixed, deterministic order.
var AllIndustries = []Industry{
	IndustryFintech, IndustrySaaS, IndustryHealthcare,
	IndustryEcommerce, IndustryDevtools, IndustryLogistics,
}

// ErrorStyle selects the shape of error response bodies.
type ErrorStyle string

const (
	ErrorStyleRFC7807 ErrorStyle = "rfc7807"
	ErrorStyleJSON    ErrorStyle = "simple_json"
	ErrorStyleHTML    ErrorStyle = "html"
	ErrorStyleXML     ErrorStyle = "xml"
)

// AuthScheme selects how the fake auth-token endpoint shapes its response.
type AuthScheme string

const (
	AuthSchemeBearer       AuthScheme = "bearer"
	AuthSchemeAPIKeyHeader AuthScheme = "api_key_header"
	AuthSchemeAPIKeyQuery  AuthScheme = "api_key_query"
	AuthSchemeBasic        AuthScheme = "basic"
	AuthSchemeOAuth2       AuthScheme = "oauth2"
)

// Persona is a value object created once per deployment from an integer
// seed. Identical seeds produce identical personas (see
// persona.Generate). It is immutable for the process lifetime once
// generated and is freely shared across goroutines.
type Persona struct {
	Seed                 int64             `yaml:"seed" json:"seed"`
	CompanyName          string            `yaml:"company_name" json:"company_name"`
	Industry             Industry          `yaml:"industry" json:"industry"`
	APIStyle             string            `yaml:"api_style" json:"api_style"`
	FrameworkFingerprint string            `yaml:"framework_fingerprint" json:"framework_fingerprint"`
	ErrorStyle           ErrorStyle        `yaml:"error_style" json:"error_style"`
	AuthScheme           AuthScheme        `yaml:"auth_scheme" json:"auth_scheme"`
	DataTheme            string            `yaml:"data_theme" json:"data_theme"`
	ResponseLatencyMS    int               `yaml:"response_latency_ms" json:"response_latency_ms"`
	ServerHeader         string            `yaml:"server_header" json:"server_header"`
	EndpointPrefix       string            `yaml:"endpoint_prefix" json:"endpoint_prefix"`
	ExtraHeaders         map[string]string `yaml:"extra_headers" json:"extra_headers"`
	MCPServerName        string            `yaml:"mcp_server_name" json:"mcp_server_name"`
	MCPToolPrefix        string            `yaml:"mcp_tool_prefix" json:"mcp_tool_prefix"`
}

// CompanyDomain derives a safe, fabricated domain for the persona's company,
// always suffixed with .example.com per the external safety contract.
func (p Persona) CompanyDomain() string {
	name := strings.ToLower(strings.ReplaceAll(p.CompanyName, " ", ""))
	return name + ".example.com"
}

// Endpoint joins the persona's endpoint prefix with a resource path,
// producing the full path a REST trap route should be registered at.
func (p Persona) Endpoint(path string) string {
	prefix := strings.TrimSuffix(p.EndpointPrefix, "/")
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return prefix + path
}

// ResponseTemplate is owned by the Persona Engine. Endpoint may contain
// {{name}} segments that match a single path component.
type ResponseTemplate struct {
	Endpoint     string            `json:"endpoint"`
	Method       string            `json:"method"`
	StatusCode   int               `json:"status_code"`
	ContentType  string            `json:"content_type"`
	Headers      map[string]string `json:"headers"`
	BodyTemplate string            `json:"body_template"`
	Description  string            `json:"description"`
}
