package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Initialize loads, defaults, and validates the configuration for a sundew
// deployment. This is the primary entry point for configuration loading.
//
// Steps performed:
//  1. Load YAML from configPath, if it exists
//  2. Expand environment variables
//  3. Merge user-supplied values over the built-in defaults
//  4. Validate the merged configuration
func Initialize(_ context.Context, configPath string) (*Config, error) {
	log := slog.With("config_path", configPath)
	log.Info("loading configuration")

	raw, err := loadYAML(configPath)
	if err != nil {
		return nil, NewLoadError(configPath, err)
	}

	merged, err := applyDefaults(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to apply defaults: %w", err)
	}
	merged.configDir = filepath.Dir(configPath)

	if err := NewValidator(&merged).ValidateAll(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrValidationFailed, err)
	}

	log.Info("configuration initialized",
		"persona", merged.Persona,
		"llm_provider", merged.LLM.Provider,
		"traps_mcp", merged.Traps.MCPServer,
		"traps_rest", merged.Traps.RESTAPI,
		"traps_discovery", merged.Traps.AIDiscovery)

	return &merged, nil
}

// loadYAML reads and parses configPath. A missing file is not an error —
// sundew runs happily on defaults alone.
func loadYAML(configPath string) (yamlConfig, error) {
	if configPath == "" {
		return yamlConfig{}, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return yamlConfig{}, nil
		}
		return yamlConfig{}, err
	}

	data = ExpandEnv(data)

	var cfg yamlConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return yamlConfig{}, fmt.Errorf("%w: %w", ErrInvalidYAML, err)
	}
	return cfg, nil
}
