package interpolate

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestString_ContextOverridesBuiltins(t *testing.T) {
	out := String("hello {{name}} at {{timestamp}}", map[string]string{
		"name":      "world",
		"timestamp": "frozen",
	})
	assert.Equal(t, "hello world at frozen", out)
}

func TestString_UnknownPlaceholderLeftLiteral(t *testing.T) {
	out := String("value: {{totally_unknown}}", nil)
	assert.Equal(t, "value: {{totally_unknown}}", out)
}

func TestString_IdempotentWithoutPlaceholders(t *testing.T) {
	out := String("plain text, no braces here", nil)
	assert.Equal(t, "plain text, no braces here", out)
}

func TestValue_RecursesThroughMapsAndSlices(t *testing.T) {
	t.Parallel()

	template := map[string]any{
		"id": "txn_{{canary}}",
		"items": []any{
			map[string]any{"name": "{{who}}"},
			"literal",
		},
	}

	result := Value(template, map[string]string{"canary": "abc123", "who": "acme"})

	m, ok := result.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "txn_abc123", m["id"])

	items, ok := m["items"].([]any)
	require.True(t, ok)
	first, ok := items[0].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "acme", first["name"])
	assert.Equal(t, "literal", items[1])
}

func TestBuiltins_IDsArePlainHex(t *testing.T) {
	hexPattern := regexp.MustCompile(`^[0-9a-f]{32}$`)
	for i := 0; i < 20; i++ {
		b := Builtins()
		assert.Regexp(t, hexPattern, b["request_id"])
		assert.Regexp(t, hexPattern, b["random_id"])
	}
}
