package persona

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sundew-sh/sundew/pkg/config"
	"github.com/sundew-sh/sundew/pkg/llm"
	"github.com/sundew-sh/sundew/pkg/models"
)

func TestEngine_InitializeFallsBackToPacksWithoutLLM(t *testing.T) {
	p := Generate(1)
	e := NewEngine(p, llm.New(config.LLMConfig{Provider: "none"}), t.TempDir())

	require.NoError(t, e.Initialize(context.Background(), config.LLMConfig{Provider: "none"}))
	assert.NotEmpty(t, e.AllTemplates())

	_, ok := e.GetTemplate("GET", p.Endpoint("/"+p.DataTheme))
	assert.True(t, ok)
}

func TestEngine_MostSpecificMatchWins(t *testing.T) {
	e := NewEngine(Generate(2), llm.New(config.LLMConfig{Provider: "none"}), t.TempDir())

	e.Register(models.ResponseTemplate{Endpoint: "/api/{{resource}}/{{id}}", Method: "GET", BodyTemplate: "generic"})
	e.Register(models.ResponseTemplate{Endpoint: "/api/widgets/{{id}}", Method: "GET", BodyTemplate: "specific"})

	tpl, ok := e.GetTemplate("GET", "/api/widgets/42")
	require.True(t, ok)
	assert.Equal(t, "specific", tpl.BodyTemplate)
}

func TestEngine_ExactLiteralMatchBeatsWildcard(t *testing.T) {
	e := NewEngine(Generate(3), llm.New(config.LLMConfig{Provider: "none"}), t.TempDir())

	e.Register(models.ResponseTemplate{Endpoint: "/api/{{resource}}", Method: "GET", BodyTemplate: "wildcard"})
	e.Register(models.ResponseTemplate{Endpoint: "/api/health", Method: "GET", BodyTemplate: "literal"})

	tpl, ok := e.GetTemplate("GET", "/api/health")
	require.True(t, ok)
	assert.Equal(t, "literal", tpl.BodyTemplate)
}

func TestEngine_NoMatchReturnsFalse(t *testing.T) {
	e := NewEngine(Generate(4), llm.New(config.LLMConfig{Provider: "none"}), t.TempDir())
	_, ok := e.GetTemplate("GET", "/nowhere")
	assert.False(t, ok)
}

func TestEngine_CacheRoundTrip(t *testing.T) {
	dir := t.TempDir()
	p := Generate(5)

	e1 := NewEngine(p, llm.New(config.LLMConfig{Provider: "none"}), dir)
	require.NoError(t, e1.Initialize(context.Background(), config.LLMConfig{Provider: "none"}))
	want := len(e1.AllTemplates())

	e2 := NewEngine(p, llm.New(config.LLMConfig{Provider: "none"}), dir)
	require.NoError(t, e2.Initialize(context.Background(), config.LLMConfig{Provider: "none"}))
	assert.Equal(t, want, len(e2.AllTemplates()))
}
