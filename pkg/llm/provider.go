// Package llm dispatches response-template generation to a configured
// language model provider. Every provider degrades gracefully: a failed
// call returns an error and the caller falls back to built-in persona
// packs rather than serving no templates at all.
package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sundew-sh/sundew/pkg/config"
)

// ErrUnavailable indicates the provider could not be reached or returned an
// unusable response. Callers should treat it as "fall back to packs", not
// as a fatal error.
var ErrUnavailable = errors.New("llm provider unavailable")

// Provider generates free-form text from a prompt and an optional system
// instruction.
type Provider interface {
	Generate(ctx context.Context, system, prompt string) (string, error)
}

// New constructs the Provider named by cfg.Provider. An unrecognized or
// "none" provider returns a noneProvider, which always fails fast so
// callers fall back to packs immediately instead of waiting on a timeout.
func New(cfg config.LLMConfig) Provider {
	switch cfg.Provider {
	case "ollama":
		return &ollamaProvider{cfg: cfg, client: &http.Client{Timeout: 120 * time.Second}}
	case "anthropic":
		return &anthropicProvider{cfg: cfg}
	case "openai":
		return &openAIProvider{cfg: cfg}
	default:
		return noneProvider{}
	}
}

type noneProvider struct{}

func (noneProvider) Generate(context.Context, string, string) (string, error) {
	return "", fmt.Errorf("%w: no provider configured", ErrUnavailable)
}
