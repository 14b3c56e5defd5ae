// Package classify maps fingerprint composite scores to traffic
// classification tiers under fixed, externally observable thresholds.
package classify

import (
	"fmt"

	"github.com/sundew-sh/sundew/pkg/models"
)

const (
	thresholdHuman      = 0.3
	thresholdAutomated  = 0.6
	thresholdAIAssisted = 0.8
)

// Classify maps a composite fingerprint score in [0,1] to a classification
// tier. It returns an error if composite lies outside [0,1] — a programmer
// error per the error-handling design, since the scorer guarantees its
// composite output is always clamped.
func Classify(composite float64) (models.Classification, error) {
	if composite < 0.0 || composite > 1.0 {
		return "", fmt.Errorf("composite score must be between 0.0 and 1.0, got %v", composite)
	}
	switch {
	case composite < thresholdHuman:
		return models.ClassificationHuman, nil
	case composite < thresholdAutomated:
		return models.ClassificationAutomated, nil
	case composite < thresholdAIAssisted:
		return models.ClassificationAIAssisted, nil
	default:
		return models.ClassificationAIAgent, nil
	}
}

// Detail is the result of WithDetails: the classification plus the
// individual signal scores and the dominant (highest-scoring) signal name.
type Detail struct {
	Classification models.Classification
	CompositeScore float64
	DominantSignal string
	Signals        map[string]float64
}

// WithDetails classifies a full FingerprintScores value and additionally
// reports which individual signal contributed the most to the result.
func WithDetails(scores models.FingerprintScores) (Detail, error) {
	classification, err := Classify(scores.Composite)
	if err != nil {
		return Detail{}, err
	}

	signals := map[string]float64{
		"timing_regularity": scores.TimingRegularity,
		"path_enumeration":  scores.PathEnumeration,
		"header_anomaly":    scores.HeaderAnomaly,
		"prompt_leakage":    scores.PromptLeakage,
		"mcp_behavior":      scores.MCPBehavior,
	}

	dominant := "none"
	best := -1.0
	// Iterate in a fixed order so ties resolve deterministically.
	for _, name := range []string{"timing_regularity", "path_enumeration", "header_anomaly", "prompt_leakage", "mcp_behavior"} {
		if signals[name] > best {
			best = signals[name]
			dominant = name
		}
	}

	return Detail{
		Classification: classification,
		CompositeScore: scores.Composite,
		DominantSignal: dominant,
		Signals:        signals,
	}, nil
}
