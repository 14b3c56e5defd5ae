package models

// FingerprintScores holds the five independent behavioral signal scores plus
// their fixed weighted composite, all in [0,1]. Composite always equals the
// weighted sum of the five signals, clamped to [0,1] — see pkg/fingerprint.
type FingerprintScores struct {
	TimingRegularity float64 `json:"timing_regularity"`
	PathEnumeration  float64 `json:"path_enumeration"`
	HeaderAnomaly    float64 `json:"header_anomaly"`
	PromptLeakage    float64 `json:"prompt_leakage"`
	MCPBehavior      float64 `json:"mcp_behavior"`
	Composite        float64 `json:"composite"`
}

// Classification is the four-tier traffic classification tag, plus the
// "unknown" state an event or session carries before first scoring.
type Classification string

const (
	ClassificationUnknown    Classification = "unknown"
	ClassificationHuman      Classification = "human"
	ClassificationAutomated  Classification = "automated"
	ClassificationAIAssisted Classification = "ai_assisted"
	ClassificationAIAgent    Classification = "ai_agent"
)
