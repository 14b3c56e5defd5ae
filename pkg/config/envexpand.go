package config

import "os"

// ExpandEnv expands environment variables in YAML content, supporting both
// ${VAR} and $VAR syntax. This is how secrets like LLM API keys stay out of
// the config file itself.
//
// Missing variables expand to empty string; validation catches required
// fields that end up empty.
func ExpandEnv(data []byte) []byte {
	return []byte(os.ExpandEnv(string(data)))
}
