package matching

import (
	"fmt"
	"strings"
)

const (
	suggestionListLimit = 3
	fallbackSuggestion  = "Keep developing your skills and tailoring your applications."
)

// Suggestions renders advisory clauses joined with ". ". Clause order is fixed:
// missing skills, low overall score, experience gap, matched skills, high
// overall score. A fallback sentence is returned when nothing applies.
func Suggestions(missing, matched []string, overall float64, experienceGap int) string {
	clauses := make([]string, 0, 5)

	if len(missing) > 0 {
		if len(missing) <= suggestionListLimit {
			clauses = append(clauses, fmt.Sprintf("Consider acquiring these key skills: %s", head(missing)))
		} else {
			clauses = append(clauses, fmt.Sprintf("Focus on developing %d missing skills, especially: %s", len(missing), head(missing)))
		}
	}

	if overall < mediumThreshold {
		clauses = append(clauses, "Consider tailoring your resume more closely to the job requirements")
	}

	if experienceGap > 0 {
		clauses = append(clauses, fmt.Sprintf("Gaining %d more years of relevant experience would strengthen your application", experienceGap))
	}

	if len(matched) > 0 {
		clauses = append(clauses, fmt.Sprintf("Great job highlighting these relevant skills: %s", head(matched)))
	}

	if overall >= highThreshold {
		clauses = append(clauses, "Excellent match! Your profile aligns well with the job requirements.")
	}

	if len(clauses) == 0 {
		return fallbackSuggestion
	}

	return strings.Join(clauses, ". ")
}

func head(skills []string) string {
	if len(skills) > suggestionListLimit {
		skills = skills[:suggestionListLimit]
	}
	return strings.Join(skills, ", ")
}
