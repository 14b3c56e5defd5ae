// Package fingerprint computes the five independent behavioral signal
// scores — timing regularity, path enumeration, header anomaly, prompt
// leakage, and MCP behavior — plus their fixed weighted composite. All
// weights and thresholds here are part of the externally observable
// contract and must not drift.
package fingerprint

import (
	"math"
	"regexp"
	"strings"

	"github.com/sundew-sh/sundew/pkg/models"
)

var systematicPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^/\.(well-known|git|env|svn|DS_Store)`),
	regexp.MustCompile(`^/(robots\.txt|sitemap\.xml|openapi\.json)`),
	regexp.MustCompile(`^/api/(v\d+/)?[a-z]+$`),
	regexp.MustCompile(`^/(admin|internal|debug|config|status|health)`),
}

var discoveryPaths = map[string]struct{}{
	"/robots.txt":                 {},
	"/sitemap.xml":                {},
	"/openapi.json":               {},
	"/.well-known/ai-plugin.json": {},
	"/.well-known/mcp.json":       {},
}

// ScoreTimingRegularity scores how regular inter-request timing intervals
// are. Humans have irregular timing with wide variance; automated tools and
// AI agents tend to produce very consistent intervals.
func ScoreTimingRegularity(intervalsMS []float64) float64 {
	if len(intervalsMS) < 2 {
		return 0.0
	}

	mean := 0.0
	for _, v := range intervalsMS {
		mean += v
	}
	mean /= float64(len(intervalsMS))
	if mean == 0 {
		return 1.0
	}

	var sumSq float64
	for _, v := range intervalsMS {
		d := v - mean
		sumSq += d * d
	}
	stdev := math.Sqrt(sumSq / float64(len(intervalsMS)-1))
	cv := stdev / mean

	switch {
	case cv < 0.05:
		return 1.0
	case cv < 0.15:
		return 0.8
	case cv < 0.3:
		return 0.5
	case cv < 0.5:
		return 0.3
	default:
		return 0.1
	}
}

// ScorePathEnumeration scores whether path access patterns suggest
// systematic enumeration rather than human browsing.
func ScorePathEnumeration(paths []string) float64 {
	if len(paths) < 3 {
		return 0.0
	}

	score := 0.0

	uniqueSet := map[string]struct{}{}
	var uniqueOrdered []string
	for _, p := range paths {
		if _, ok := uniqueSet[p]; !ok {
			uniqueSet[p] = struct{}{}
			uniqueOrdered = append(uniqueOrdered, p)
		}
	}

	systematicHits := 0
	for p := range uniqueSet {
		for _, pat := range systematicPatterns {
			if pat.MatchString(p) {
				systematicHits++
				break
			}
		}
	}
	switch {
	case systematicHits >= 3:
		score += 0.4
	case systematicHits >= 1:
		score += 0.2
	}

	sorted := make([]string, len(uniqueOrdered))
	copy(sorted, uniqueOrdered)
	sortStrings(sorted)
	if equalStringSlices(uniqueOrdered, sorted) {
		score += 0.3
	}

	uniqueRatio := float64(len(uniqueSet)) / float64(len(paths))
	switch {
	case uniqueRatio > 0.9:
		score += 0.2
	case uniqueRatio > 0.7:
		score += 0.1
	}

	visitedDiscovery := 0
	for p := range uniqueSet {
		if _, ok := discoveryPaths[p]; ok {
			visitedDiscovery++
		}
	}
	if visitedDiscovery >= 2 {
		score += 0.2
	}

	return math.Min(score, 1.0)
}

func sortStrings(s []string) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j-1] > s[j]; j-- {
			s[j-1], s[j] = s[j], s[j-1]
		}
	}
}

func equalStringSlices(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

var botUAPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)python-requests`),
	regexp.MustCompile(`(?i)python-httpx`),
	regexp.MustCompile(`(?i)node-fetch`),
	regexp.MustCompile(`(?i)axios`),
	regexp.MustCompile(`(?i)httpie`),
	regexp.MustCompile(`(?i)curl`),
	regexp.MustCompile(`(?i)wget`),
	regexp.MustCompile(`(?i)go-http-client`),
	regexp.MustCompile(`(?i)java/`),
	regexp.MustCompile(`(?i)openai`),
	regexp.MustCompile(`(?i)anthropic`),
	regexp.MustCompile(`(?i)langchain`),
	regexp.MustCompile(`(?i)llama`),
	regexp.MustCompile(`(?i)mcp-client`),
	regexp.MustCompile(`(?i)bot|crawler|spider|scraper`),
}

var browserUAPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)Mozilla/5\.0.*Chrome/`),
	regexp.MustCompile(`(?i)Mozilla/5\.0.*Firefox/`),
	regexp.MustCompile(`(?i)Mozilla/5\.0.*Safari/`),
}

// ScoreHeaderAnomalies scores header anomalies that suggest non-human
// traffic: missing Referer, bot-like User-Agent, unusual Accept headers,
// and MCP/OpenAI-specific headers.
func ScoreHeaderAnomalies(headers map[string]string) float64 {
	h := make(map[string]string, len(headers))
	for k, v := range headers {
		h[strings.ToLower(k)] = v
	}

	score := 0.0

	ua, hasUA := h["user-agent"]
	if !hasUA || ua == "" {
		score += 0.3
	} else {
		isBot := false
		for _, pat := range botUAPatterns {
			if pat.MatchString(ua) {
				isBot = true
				break
			}
		}
		if isBot {
			score += 0.3
		} else {
			isBrowser := false
			for _, pat := range browserUAPatterns {
				if pat.MatchString(ua) {
					isBrowser = true
					break
				}
			}
			if !isBrowser {
				score += 0.2
			}
		}
	}

	if _, ok := h["referer"]; !ok {
		score += 0.1
	}

	accept, hasAccept := h["accept"]
	switch {
	case hasAccept && accept == "application/json":
		score += 0.1
	case hasAccept && accept == "*/*":
		score += 0.05
	case !hasAccept || accept == "":
		score += 0.15
	}

	if _, ok := h["accept-language"]; !ok {
		score += 0.1
	}
	if _, ok := h["accept-encoding"]; !ok {
		score += 0.05
	}

	_, hasMCPVersion := h["x-mcp-version"]
	_, hasOpenAIKey := h["x-openai-api-key"]
	if hasMCPVersion || hasOpenAIKey {
		score += 0.3
	}

	return math.Min(score, 1.0)
}

var promptLeakPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)as an ai\b`),
	regexp.MustCompile(`(?i)as a language model\b`),
	regexp.MustCompile(`(?i)i'?m an ai\b`),
	regexp.MustCompile(`(?i)i'?m a language model\b`),
	regexp.MustCompile(`(?i)</?(?:system|user|assistant|human|tool_use|tool_result)\b`),
	regexp.MustCompile(`(?i)</?(?:function_call|observation|thought|thinking|scratchpad)\b`),
	regexp.MustCompile(`(?i)\bfunction_call\s*\(`),
	regexp.MustCompile(`(?i)\btool_call\b`),
	regexp.MustCompile("(?i)```(?:json|xml|yaml)\\s*\\{"),
	regexp.MustCompile(`(?i)<\|(?:im_start|im_end|system|user|assistant)\|>`),
	regexp.MustCompile(`(?i)\b(?:step \d+|let me|i will now|first,? i)\b.*\b(?:api|endpoint|request)\b`),
	regexp.MustCompile(`(?i)(?:chain.?of.?thought|reasoning|tool.?use)`),
}

// ScorePromptLeakage scores whether a request body contains LLM artifacts
// (self-reference, role tags, tool-call syntax, special tokens).
func ScorePromptLeakage(body string) float64 {
	if body == "" {
		return 0.0
	}

	matches := 0
	for _, pat := range promptLeakPatterns {
		if pat.MatchString(body) {
			matches++
		}
	}

	switch {
	case matches >= 4:
		return 1.0
	case matches >= 2:
		return 0.8
	case matches >= 1:
		return 0.5
	default:
		return 0.0
	}
}

// ScoreMCPBehavior scores based on MCP protocol usage. Speaking JSON-RPC
// MCP directly is a strong signal of non-human traffic.
func ScoreMCPBehavior(usedMCP bool, mcpMethodsCalled []string) float64 {
	if !usedMCP {
		return 0.0
	}

	score := 0.7

	methodSet := map[string]struct{}{}
	for _, m := range mcpMethodsCalled {
		methodSet[m] = struct{}{}
	}
	if _, ok := methodSet["initialize"]; ok {
		score += 0.1
	}
	if _, ok := methodSet["tools/list"]; ok {
		score += 0.1
	}
	if _, ok := methodSet["tools/call"]; ok {
		score += 0.1
	}

	return math.Min(score, 1.0)
}

var weights = struct {
	timing, path, header, prompt, mcp float64
}{
	timing: 0.15, path: 0.20, header: 0.20, prompt: 0.20, mcp: 0.25,
}

// ComputeComposite computes the fixed weighted composite of the five
// signal scores, clamped to [0,1].
func ComputeComposite(timing, path, header, prompt, mcp float64) float64 {
	raw := weights.timing*timing + weights.path*path + weights.header*header +
		weights.prompt*prompt + weights.mcp*mcp
	return math.Max(0.0, math.Min(1.0, raw))
}

// Input bundles everything the scorer needs to fingerprint a request given
// its session's rolling history.
type Input struct {
	Headers          map[string]string
	Body             string
	PathsInSession   []string
	IntervalsMS      []float64
	UsedMCP          bool
	MCPMethodsCalled []string
}

// Score runs all five signal analyzers over an Input and returns the full
// FingerprintScores including the composite.
func Score(in Input) models.FingerprintScores {
	timing := ScoreTimingRegularity(in.IntervalsMS)
	path := ScorePathEnumeration(in.PathsInSession)
	header := ScoreHeaderAnomalies(in.Headers)
	prompt := ScorePromptLeakage(in.Body)
	mcp := ScoreMCPBehavior(in.UsedMCP, in.MCPMethodsCalled)

	return models.FingerprintScores{
		TimingRegularity: timing,
		PathEnumeration:  path,
		HeaderAnomaly:    header,
		PromptLeakage:    prompt,
		MCPBehavior:      mcp,
		Composite:        ComputeComposite(timing, path, header, prompt, mcp),
	}
}
