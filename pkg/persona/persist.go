package persona

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/sundew-sh/sundew/pkg/models"
)

// LoadFromYAML reads a persisted persona from path. Used to keep a
// deployment's identity stable across restarts.
func LoadFromYAML(path string) (models.Persona, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return models.Persona{}, fmt.Errorf("reading persona file: %w", err)
	}

	var p models.Persona
	if err := yaml.Unmarshal(data, &p); err != nil {
		return models.Persona{}, fmt.Errorf("parsing persona file: %w", err)
	}
	if p.CompanyName == "" || p.EndpointPrefix == "" {
		return models.Persona{}, fmt.Errorf("persona file %s is incomplete", path)
	}
	return p, nil
}

// SaveToYAML persists a persona so the same identity can be reloaded on the
// next start.
func SaveToYAML(p models.Persona, path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating persona directory: %w", err)
		}
	}

	data, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("encoding persona: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// Resolve produces the deployment persona from the configured source:
// "auto" generates a fresh random identity, anything else is treated as a
// path to a persisted persona. A missing or unreadable file degrades to a
// generated persona rather than refusing to start.
func Resolve(source string) models.Persona {
	if source == "" || source == "auto" {
		return Generate(RandomSeed())
	}

	p, err := LoadFromYAML(source)
	if err != nil {
		slog.Warn("persona file unusable, generating random persona",
			"path", source, "error", err)
		return Generate(RandomSeed())
	}
	return p
}
