package matching

import "math"

const (
	experienceBonusPerYear = 5.0
	experienceBonusCap     = 20.0
)

// ExperienceScore rates possessed against required years of experience.
//
// Meeting the requirement earns a bonus of 5 points per extra year (capped at
// 20), but the result is clamped to 100, so every candidate who meets the
// requirement scores exactly 100. Falling short scales linearly.
func ExperienceScore(possessed, required int) float64 {
	if required <= 0 {
		return 100.0
	}

	if possessed >= required {
		bonus := math.Min(float64(possessed-required)*experienceBonusPerYear, experienceBonusCap)
		return math.Min(100.0, 100.0+bonus)
	}

	if possessed <= 0 {
		return 0
	}

	return float64(possessed) / float64(required) * 100.0
}

// ExperienceGap is the number of years missing to meet the requirement.
func ExperienceGap(possessed, required int) int {
	if gap := required - possessed; gap > 0 {
		return gap
	}
	return 0
}
