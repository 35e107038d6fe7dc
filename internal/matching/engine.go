package matching

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spigell/resume-matcher/internal/similarity"
)

// SemanticScorer compares two free-text bodies. Implementations must always
// return a usable score.
type SemanticScorer interface {
	Similarity(ctx context.Context, a, b string) similarity.Outcome
}

// Engine evaluates resumes against job postings. It holds no per-evaluation
// state and may be shared between goroutines.
type Engine struct {
	semantic SemanticScorer
	logger   *zap.Logger
}

func New(semantic SemanticScorer, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Engine{
		semantic: semantic,
		logger:   logger,
	}
}

// ScoreResume runs the full evaluation. A nil weights pointer selects
// DefaultWeights. Only contract violations are reported as errors; they wrap
// ErrInvalidInput.
func (e *Engine) ScoreResume(ctx context.Context, resume ResumeFacts, job JobFacts, weights *WeightConfig) (*ScoreResult, error) {
	w := DefaultWeights()
	if weights != nil {
		w = *weights
	}

	if err := validate(resume, job, w); err != nil {
		return nil, err
	}

	skills := MatchSkills(resume.Skills, job.RequiredSkills)

	semantic := similarity.Outcome{Score: similarity.DefaultScore, Tier: similarity.TierDefault}
	if e.semantic != nil {
		semantic = e.semantic.Similarity(ctx, resume.Content, job.Content)
	}

	experience := ExperienceScore(resume.ExperienceYears, job.ExperienceRequired)

	overall, verdict := Aggregate(skills.Score, semantic.Score, experience, w)
	gap := ExperienceGap(resume.ExperienceYears, job.ExperienceRequired)

	result := &ScoreResult{
		OverallScore:            round2(overall),
		SkillsMatchScore:        round2(skills.Score),
		SemanticSimilarityScore: round2(semantic.Score),
		ExperienceScore:         round2(experience),
		MatchedSkills:           skills.Matched,
		MissingSkills:           skills.Missing,
		Suggestions:             Suggestions(skills.Missing, skills.Matched, overall, gap),
		Verdict:                 verdict,
		SemanticTier:            semantic.Tier,
	}

	e.logger.Debug("resume scored",
		zap.Float64("overall_score", result.OverallScore),
		zap.Float64("skills_match_score", result.SkillsMatchScore),
		zap.Float64("semantic_similarity_score", result.SemanticSimilarityScore),
		zap.Float64("experience_score", result.ExperienceScore),
		zap.String("semantic_tier", result.SemanticTier),
		zap.String("verdict", string(result.Verdict)),
		zap.Int("matched_skills", len(result.MatchedSkills)),
		zap.Int("missing_skills", len(result.MissingSkills)),
	)

	return result, nil
}

func validate(resume ResumeFacts, job JobFacts, weights WeightConfig) error {
	if resume.ExperienceYears < 0 {
		return fmt.Errorf("%w: resume experience years must not be negative: %d", ErrInvalidInput, resume.ExperienceYears)
	}
	if job.ExperienceRequired < 0 {
		return fmt.Errorf("%w: required experience years must not be negative: %d", ErrInvalidInput, job.ExperienceRequired)
	}
	return weights.Validate()
}
