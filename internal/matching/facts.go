// Package matching scores a resume against a job posting: skill coverage,
// experience fit, weighted aggregation, verdict and improvement suggestions.
package matching

// ResumeFacts are the facts derived once from a resume.
type ResumeFacts struct {
	Content         string   `json:"content"`
	Skills          SkillSet `json:"skills"`
	ExperienceYears int      `json:"experience_years"`
}

// JobFacts are the facts derived once from a job posting.
type JobFacts struct {
	Content            string   `json:"content"`
	RequiredSkills     SkillSet `json:"required_skills"`
	ExperienceRequired int      `json:"experience_required"`
}

type Verdict string

const (
	VerdictHigh   Verdict = "High"
	VerdictMedium Verdict = "Medium"
	VerdictLow    Verdict = "Low"
)

// ScoreResult is the outcome of a single evaluation. Scores are in [0,100] and
// rounded to two decimals.
type ScoreResult struct {
	OverallScore            float64  `json:"overall_score"`
	SkillsMatchScore        float64  `json:"skills_match_score"`
	SemanticSimilarityScore float64  `json:"semantic_similarity_score"`
	ExperienceScore         float64  `json:"experience_score"`
	MatchedSkills           []string `json:"matched_skills"`
	MissingSkills           []string `json:"missing_skills"`
	Suggestions             string   `json:"suggestions"`
	Verdict                 Verdict  `json:"verdict"`
	// SemanticTier names the similarity tier that produced SemanticSimilarityScore.
	SemanticTier string `json:"semantic_tier"`
}
