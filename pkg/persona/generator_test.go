package persona

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerate_DeterministicForSameSeed(t *testing.T) {
	a := Generate(42)
	b := Generate(42)
	assert.Equal(t, a, b)
}

func TestGenerate_DiffersAcrossSeeds(t *testing.T) {
	a := Generate(1)
	b := Generate(2)
	assert.NotEqual(t, a, b)
}

func TestGenerate_FieldsAreWellFormed(t *testing.T) {
	p := Generate(7)

	assert.NotEmpty(t, p.CompanyName)
	assert.Contains(t, []string{"rest", "graphql", "jsonrpc"}, p.APIStyle)
	assert.GreaterOrEqual(t, p.ResponseLatencyMS, 20)
	assert.LessOrEqual(t, p.ResponseLatencyMS, 300)
	assert.Contains(t, dataThemes[p.Industry], p.DataTheme)
	assert.Contains(t, mcpToolPrefixes[p.Industry], p.MCPToolPrefix)
	assert.Equal(t, int64(7), p.Seed)
}

func TestGenerate_ExtraHeadersAreTemplatesOrLiterals(t *testing.T) {
	p := Generate(99)
	for k, v := range p.ExtraHeaders {
		assert.NotEmpty(t, k)
		assert.NotEmpty(t, v)
	}
}

func TestRandomSeed_ProducesUsableSeed(t *testing.T) {
	s := RandomSeed()
	assert.GreaterOrEqual(t, s, int64(0))
}
