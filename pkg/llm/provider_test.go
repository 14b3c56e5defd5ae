package llm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sundew-sh/sundew/pkg/config"
)

func TestNew_NoneProviderAlwaysFails(t *testing.T) {
	p := New(config.LLMConfig{Provider: "none"})
	_, err := p.Generate(context.Background(), "system", "prompt")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestNew_UnknownProviderFallsBackToNone(t *testing.T) {
	p := New(config.LLMConfig{Provider: "carrier-pigeon"})
	_, err := p.Generate(context.Background(), "system", "prompt")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestAnthropicProvider_FailsFastWithoutAPIKey(t *testing.T) {
	p := New(config.LLMConfig{Provider: "anthropic", Model: "claude-3"})
	_, err := p.Generate(context.Background(), "system", "prompt")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestOpenAIProvider_FailsFastWithoutAPIKey(t *testing.T) {
	p := New(config.LLMConfig{Provider: "openai", Model: "gpt-4"})
	_, err := p.Generate(context.Background(), "system", "prompt")
	assert.ErrorIs(t, err, ErrUnavailable)
}
