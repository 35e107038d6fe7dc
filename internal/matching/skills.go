package matching

import (
	"strings"
	"unicode/utf8"

	"github.com/hbollon/go-edlib"
)

// FuzzyThreshold is the minimum similarity ratio for a fuzzy skill match.
const FuzzyThreshold = 0.8

// MatchOutcome is the result of matching possessed skills against required ones.
type MatchOutcome struct {
	Score   float64
	Matched []string
	Missing []string
}

// MatchSkills reports which required skills are covered by the possessed ones.
// Required skills are visited in order. An exact case-insensitive hit wins
// outright; otherwise the possessed skill with the highest Ratio at or above
// FuzzyThreshold is taken, the earliest one on ties. Matched and missing
// entries always carry the required skill's casing. Score is not rounded.
func MatchSkills(possessed, required SkillSet) MatchOutcome {
	if required.Len() == 0 {
		return MatchOutcome{
			Score:   100.0,
			Matched: possessed.Items(),
			Missing: []string{},
		}
	}

	matched := make([]string, 0, required.Len())
	missing := make([]string, 0)

	for _, req := range required.items {
		if hasExact(possessed, req) || hasFuzzy(possessed, req) {
			matched = append(matched, req)
			continue
		}
		missing = append(missing, req)
	}

	return MatchOutcome{
		Score:   float64(len(matched)) / float64(required.Len()) * 100,
		Matched: matched,
		Missing: missing,
	}
}

func hasExact(possessed SkillSet, required string) bool {
	for _, skill := range possessed.items {
		if strings.EqualFold(skill, required) {
			return true
		}
	}
	return false
}

func hasFuzzy(possessed SkillSet, required string) bool {
	_, ok := bestFuzzy(possessed, required)
	return ok
}

// bestFuzzy returns the earliest possessed skill with the highest ratio that
// clears FuzzyThreshold.
func bestFuzzy(possessed SkillSet, required string) (string, bool) {
	req := strings.ToLower(required)

	best := ""
	bestRatio := 0.0
	found := false
	for _, skill := range possessed.items {
		ratio := Ratio(req, strings.ToLower(skill))
		if ratio > bestRatio && ratio >= FuzzyThreshold {
			best = skill
			bestRatio = ratio
			found = true
		}
	}

	return best, found
}

// Ratio is the normalized indel similarity of a and b in [0,1]:
// 2*LCS(a,b) / (len(a)+len(b)), counted in runes. Identical strings score 1.
func Ratio(a, b string) float64 {
	if a == b {
		return 1.0
	}

	total := utf8.RuneCountInString(a) + utf8.RuneCountInString(b)
	if total == 0 {
		return 1.0
	}

	return float64(2*edlib.LCS(a, b)) / float64(total)
}
