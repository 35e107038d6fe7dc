package matching

import "math"

const (
	highThreshold   = 75.0
	mediumThreshold = 50.0
)

// Aggregate combines the sub-scores into the overall score and its verdict.
// The overall score is capped at 100.
func Aggregate(skills, semantic, experience float64, weights WeightConfig) (float64, Verdict) {
	overall := skills*weights.Skills +
		semantic*weights.Semantic +
		experience*weights.Experience

	overall = math.Min(100.0, overall)
	if overall < 0 {
		overall = 0
	}

	return overall, VerdictFor(overall)
}

// VerdictFor maps an overall score to a verdict. Each tier includes its lower bound.
func VerdictFor(overall float64) Verdict {
	switch {
	case overall >= highThreshold:
		return VerdictHigh
	case overall >= mediumThreshold:
		return VerdictMedium
	default:
		return VerdictLow
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
