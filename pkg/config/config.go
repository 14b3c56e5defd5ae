// Package config loads and validates sundew's deployment configuration:
// server binding, which trap surfaces are mounted, the persona source, the
// LLM provider used for template generation, and storage locations.
package config

import (
	"strconv"
	"time"
)

// Config is the fully loaded, validated, and defaulted configuration for a
// sundew deployment.
type Config struct {
	configDir string

	Server  ServerConfig  `yaml:"server"`
	Traps   TrapsConfig   `yaml:"traps"`
	Persona string        `yaml:"persona"`
	LLM     LLMConfig     `yaml:"llm"`
	Storage StorageConfig `yaml:"storage"`
	Logging LoggingConfig `yaml:"logging"`
}

// ServerConfig controls the HTTP listener.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// TrapsConfig toggles which trap surfaces are mounted. All default to
// enabled; a deployment narrows its attack surface by disabling some.
type TrapsConfig struct {
	MCPServer   bool `yaml:"mcp_server"`
	RESTAPI     bool `yaml:"rest_api"`
	AIDiscovery bool `yaml:"ai_discovery"`
}

// LLMConfig selects the provider used to generate response templates at
// startup. Provider "none" skips generation entirely and serves built-in
// persona packs.
type LLMConfig struct {
	Provider    string  `yaml:"provider"`
	Model       string  `yaml:"model"`
	BaseURL     string  `yaml:"base_url"`
	APIKey      string  `yaml:"api_key"`
	Temperature float64 `yaml:"temperature"`
	MaxTokens   int     `yaml:"max_tokens"`
}

// StorageConfig locates the SQLite database and the JSONL mirror log, and
// sets how long a source's session stays reusable after its last request.
type StorageConfig struct {
	Database             string `yaml:"database"`
	LogFile              string `yaml:"log_file"`
	SessionWindowSeconds int    `yaml:"session_window_seconds"`
}

// SessionWindow returns the session reuse window as a duration.
func (s StorageConfig) SessionWindow() time.Duration {
	return time.Duration(s.SessionWindowSeconds) * time.Second
}

// LoggingConfig controls the structured logger.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Output string `yaml:"output"`
}

// ConfigDir returns the directory the configuration file was loaded from.
func (c *Config) ConfigDir() string {
	return c.configDir
}

// Addr returns the host:port the HTTP server should bind to.
func (c *Config) Addr() string {
	return c.Server.Host + ":" + strconv.Itoa(c.Server.Port)
}
