package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	anthropicoption "github.com/anthropics/anthropic-sdk-go/option"

	"github.com/sundew-sh/sundew/pkg/config"
)

type anthropicProvider struct {
	cfg config.LLMConfig
}

// Generate calls the Anthropic Messages API through the official SDK and
// returns the concatenated text blocks of the reply.
func (p *anthropicProvider) Generate(ctx context.Context, system, prompt string) (string, error) {
	if p.cfg.APIKey == "" {
		return "", fmt.Errorf("%w: anthropic api key not configured", ErrUnavailable)
	}

	opts := []anthropicoption.RequestOption{
		anthropicoption.WithAPIKey(p.cfg.APIKey),
	}
	if p.cfg.BaseURL != "" {
		opts = append(opts, anthropicoption.WithBaseURL(p.cfg.BaseURL))
	}
	client := anthropic.NewClient(opts...)

	maxTokens := p.cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 2048
	}

	message, err := client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(p.cfg.Model),
		MaxTokens:   int64(maxTokens),
		Temperature: anthropic.Float(p.cfg.Temperature),
		System: []anthropic.TextBlockParam{
			{Text: system},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	var out strings.Builder
	for _, block := range message.Content {
		if text, ok := block.AsAny().(anthropic.TextBlock); ok {
			out.WriteString(text.Text)
		}
	}
	if out.Len() == 0 {
		return "", fmt.Errorf("%w: anthropic returned no text content", ErrUnavailable)
	}
	return out.String(), nil
}
