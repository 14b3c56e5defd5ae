package config

import "dario.cat/mergo"

// yamlTraps mirrors TrapsConfig but with tri-state pointer booleans so the
// merge step can distinguish "not set in YAML" (nil, keep default) from
// "explicitly set to false" (non-nil, honor it) — a plain bool can't.
type yamlTraps struct {
	MCPServer   *bool `yaml:"mcp_server"`
	RESTAPI     *bool `yaml:"rest_api"`
	AIDiscovery *bool `yaml:"ai_discovery"`
}

// yamlConfig is the shape sundew.yaml is unmarshaled into before defaulting.
type yamlConfig struct {
	Server  ServerConfig  `yaml:"server"`
	Traps   yamlTraps     `yaml:"traps"`
	Persona string        `yaml:"persona"`
	LLM     LLMConfig     `yaml:"llm"`
	Storage StorageConfig `yaml:"storage"`
	Logging LoggingConfig `yaml:"logging"`
}

// defaultConfig mirrors the reference deployment's out-of-the-box behavior:
// every trap enabled, an auto-generated persona, no LLM provider, and a
// local SQLite database under ./data.
func defaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Traps: TrapsConfig{
			MCPServer:   true,
			RESTAPI:     true,
			AIDiscovery: true,
		},
		Persona: "auto",
		LLM: LLMConfig{
			Provider:    "none",
			Temperature: 0.7,
			MaxTokens:   2048,
		},
		Storage: StorageConfig{
			Database:             "./data/sundew.db",
			LogFile:              "./data/events.jsonl",
			SessionWindowSeconds: 3600,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Output: "stdout",
		},
	}
}

// applyDefaults merges user-supplied configuration on top of defaultConfig,
// leaving every field the user actually set untouched. Trap toggles are
// resolved separately from tri-state pointers since mergo cannot tell an
// explicit "false" apart from an absent field on a plain bool.
func applyDefaults(raw yamlConfig) (Config, error) {
	merged := defaultConfig()

	overlay := Config{
		Server:  raw.Server,
		Persona: raw.Persona,
		LLM:     raw.LLM,
		Storage: raw.Storage,
		Logging: raw.Logging,
	}
	if err := mergo.Merge(&merged, overlay, mergo.WithOverride); err != nil {
		return Config{}, err
	}

	if raw.Traps.MCPServer != nil {
		merged.Traps.MCPServer = *raw.Traps.MCPServer
	}
	if raw.Traps.RESTAPI != nil {
		merged.Traps.RESTAPI = *raw.Traps.RESTAPI
	}
	if raw.Traps.AIDiscovery != nil {
		merged.Traps.AIDiscovery = *raw.Traps.AIDiscovery
	}

	return merged, nil
}
