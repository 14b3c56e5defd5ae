package llm

import (
	"context"
	"fmt"

	"github.com/openai/openai-go/v3"
	openaioption "github.com/openai/openai-go/v3/option"

	"github.com/sundew-sh/sundew/pkg/config"
)

type openAIProvider struct {
	cfg config.LLMConfig
}

// Generate calls the OpenAI Chat Completions API through the official SDK.
// A non-empty base URL repoints the client at any OpenAI-compatible server.
func (p *openAIProvider) Generate(ctx context.Context, system, prompt string) (string, error) {
	if p.cfg.APIKey == "" {
		return "", fmt.Errorf("%w: openai api key not configured", ErrUnavailable)
	}

	opts := []openaioption.RequestOption{
		openaioption.WithAPIKey(p.cfg.APIKey),
	}
	if p.cfg.BaseURL != "" {
		opts = append(opts, openaioption.WithBaseURL(p.cfg.BaseURL))
	}
	client := openai.NewClient(opts...)

	params := openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(p.cfg.Model),
		Temperature: openai.Float(p.cfg.Temperature),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(prompt),
		},
	}
	if p.cfg.MaxTokens > 0 {
		params.MaxCompletionTokens = openai.Int(int64(p.cfg.MaxTokens))
	}

	completion, err := client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices in completion response", ErrUnavailable)
	}
	return completion.Choices[0].Message.Content, nil
}
