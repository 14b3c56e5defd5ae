package config

import (
	"fmt"
)

var validLLMProviders = map[string]bool{
	"none": true, "ollama": true, "anthropic": true, "openai": true,
}

// Validator validates configuration comprehensively with clear error messages.
type Validator struct {
	cfg *Config
}

// NewValidator creates a validator for the given configuration.
func NewValidator(cfg *Config) *Validator {
	return &Validator{cfg: cfg}
}

// ValidateAll performs comprehensive validation (fail-fast - stops at first error).
func (v *Validator) ValidateAll() error {
	if err := v.validateServer(); err != nil {
		return fmt.Errorf("server validation failed: %w", err)
	}
	if err := v.validateLLM(); err != nil {
		return fmt.Errorf("llm validation failed: %w", err)
	}
	if err := v.validateStorage(); err != nil {
		return fmt.Errorf("storage validation failed: %w", err)
	}
	return nil
}

func (v *Validator) validateServer() error {
	if v.cfg.Server.Port <= 0 || v.cfg.Server.Port > 65535 {
		return NewValidationError("server.port", fmt.Errorf("%w: %d", ErrInvalidValue, v.cfg.Server.Port))
	}
	if v.cfg.Server.Host == "" {
		return NewValidationError("server.host", ErrMissingRequiredField)
	}
	return nil
}

func (v *Validator) validateLLM() error {
	provider := v.cfg.LLM.Provider
	if provider == "" {
		return NewValidationError("llm.provider", ErrMissingRequiredField)
	}
	if !validLLMProviders[provider] {
		return NewValidationError("llm.provider", fmt.Errorf("%w: %q", ErrInvalidValue, provider))
	}
	if provider != "none" && v.cfg.LLM.Model == "" {
		return NewValidationError("llm.model", ErrMissingRequiredField)
	}
	return nil
}

func (v *Validator) validateStorage() error {
	if v.cfg.Storage.Database == "" {
		return NewValidationError("storage.database", ErrMissingRequiredField)
	}
	if v.cfg.Storage.SessionWindowSeconds < 0 {
		return NewValidationError("storage.session_window_seconds",
			fmt.Errorf("%w: %d", ErrInvalidValue, v.cfg.Storage.SessionWindowSeconds))
	}
	return nil
}
