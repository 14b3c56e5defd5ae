package fingerprint

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScoreTimingRegularity_Boundaries(t *testing.T) {
	assert.Equal(t, 0.0, ScoreTimingRegularity(nil))
	assert.Equal(t, 0.0, ScoreTimingRegularity([]float64{100}))
	assert.GreaterOrEqual(t, ScoreTimingRegularity([]float64{100, 100, 100, 100, 100}), 0.8)
}

func TestScorePathEnumeration_Boundaries(t *testing.T) {
	assert.Equal(t, 0.0, ScorePathEnumeration([]string{"/a", "/b"}))

	systematic := []string{
		"/.well-known/foo",
		"/robots.txt",
		"/api/v1/widgets",
	}
	assert.GreaterOrEqual(t, ScorePathEnumeration(systematic), 0.4)
}

func TestScorePathEnumeration_AlphabeticalOrderBonus(t *testing.T) {
	paths := []string{"/a", "/b", "/c"}
	withOrder := ScorePathEnumeration(paths)
	withoutOrder := ScorePathEnumeration([]string{"/c", "/a", "/b"})
	assert.Greater(t, withOrder, withoutOrder)
}

func TestScoreHeaderAnomalies_MissingEverything(t *testing.T) {
	score := ScoreHeaderAnomalies(map[string]string{})
	assert.Greater(t, score, 0.5)
}

func TestScoreHeaderAnomalies_BotUA(t *testing.T) {
	score := ScoreHeaderAnomalies(map[string]string{
		"User-Agent": "python-httpx/0.27.0",
		"Accept":     "application/json",
	})
	assert.Greater(t, score, 0.3)
}

func TestScorePromptLeakage(t *testing.T) {
	assert.Equal(t, 0.0, ScorePromptLeakage(""))
	assert.Equal(t, 0.5, ScorePromptLeakage("As an AI, I will help."))
	assert.Equal(t, 1.0, ScorePromptLeakage(
		"As an AI language model, I'm an AI. <tool_use>function_call(x)</tool_use> tool_call chain-of-thought"))
}

func TestScoreMCPBehavior_Boundaries(t *testing.T) {
	assert.Equal(t, 0.0, ScoreMCPBehavior(false, nil))
	assert.GreaterOrEqual(t, ScoreMCPBehavior(true, []string{"initialize", "tools/list", "tools/call"}), 0.9)
}

func TestComputeComposite_ClampedAndWeighted(t *testing.T) {
	composite := ComputeComposite(1, 1, 1, 1, 1)
	assert.Equal(t, 1.0, composite)

	composite = ComputeComposite(0, 0, 0, 0, 0)
	assert.Equal(t, 0.0, composite)

	// bit-exact weighted sum for a mixed input
	composite = ComputeComposite(1, 0, 0, 0, 0)
	assert.InDelta(t, 0.15, composite, 1e-9)
}

func TestScore_ComposesAllFiveSignals(t *testing.T) {
	scores := Score(Input{
		Headers:          map[string]string{"User-Agent": "python-httpx/0.27.0"},
		PathsInSession:   []string{"/robots.txt", "/sitemap.xml", "/openapi.json"},
		UsedMCP:          true,
		MCPMethodsCalled: []string{"initialize"},
	})
	expected := ComputeComposite(scores.TimingRegularity, scores.PathEnumeration,
		scores.HeaderAnomaly, scores.PromptLeakage, scores.MCPBehavior)
	assert.InDelta(t, expected, scores.Composite, 1e-9)
}
