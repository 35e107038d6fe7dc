// Package similarity scores how close two free-text bodies are on a 0-100
// scale. Scoring walks an ordered chain of tiers and never fails: the first
// tier that produces a score wins.
package similarity

import (
	"context"
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/spigell/resume-matcher/internal/ai"
	"github.com/spigell/resume-matcher/internal/logger"
)

const (
	TierEmbedding = "embedding"
	TierTFIDF     = "tfidf"
	TierDefault   = "default"

	// DefaultScore is reported when no other tier could score the texts.
	DefaultScore = 50.0
)

// Tier is a single similarity strategy in the fallback chain. Score receives
// texts that are already normalized.
type Tier interface {
	Name() string
	Disable(reason string)
	IsEnabled() bool

	Score(ctx context.Context, a, b string) (float64, error)
}

// Outcome is a similarity score and the tier that produced it.
type Outcome struct {
	Score float64
	Tier  string
}

// Status represents runtime information about a tier.
type Status struct {
	Name    string
	Enabled bool
	Reason  string
}

type statusProvider interface {
	Status() Status
}

// Scorer runs the tier chain.
type Scorer struct {
	tiers []Tier
	log   *zap.Logger
}

// New creates a scorer over the supplied tiers, tried in order.
func New(tiers []Tier, log *zap.Logger) *Scorer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Scorer{tiers: tiers, log: log}
}

// NewDefault builds the standard chain: embedding cosine (when embedder is
// not nil), TF-IDF cosine, then the constant default.
func NewDefault(embedder ai.Embedder, log *zap.Logger) *Scorer {
	return New([]Tier{
		NewEmbedding(embedder),
		NewTFIDF(),
		NewConstant(DefaultScore),
	}, log)
}

// Similarity normalizes both texts and returns the first successful tier's
// score, clamped to [0,100]. Tier errors and panics hand over to the next tier.
func (s *Scorer) Similarity(ctx context.Context, a, b string) Outcome {
	a = Normalize(a)
	b = Normalize(b)

	for _, tier := range s.tiers {
		if !tier.IsEnabled() {
			continue
		}

		score, err := runTier(ctx, tier, a, b)
		if err != nil {
			s.log.Warn("similarity tier failed, falling back",
				logger.Tier(tier.Name()),
				zap.Error(err),
			)
			continue
		}

		s.log.Debug("similarity scored",
			logger.Tier(tier.Name()),
			zap.Float64("score", score),
		)

		return Outcome{Score: clamp(score), Tier: tier.Name()}
	}

	s.log.Warn("no similarity tier succeeded, using default score",
		zap.Float64("score", DefaultScore),
	)

	return Outcome{Score: DefaultScore, Tier: TierDefault}
}

func runTier(ctx context.Context, tier Tier, a, b string) (score float64, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("tier %s panicked: %v", tier.Name(), r)
		}
	}()

	return tier.Score(ctx, a, b)
}

// Describe returns status entries for the configured tiers.
func (s *Scorer) Describe() []Status {
	statuses := make([]Status, 0, len(s.tiers))
	for _, tier := range s.tiers {
		if reporter, ok := tier.(statusProvider); ok {
			statuses = append(statuses, reporter.Status())
			continue
		}

		statuses = append(statuses, Status{
			Name:    tier.Name(),
			Enabled: tier.IsEnabled(),
		})
	}
	return statuses
}

func clamp(score float64) float64 {
	switch {
	case math.IsNaN(score):
		return 0
	case score < 0:
		return 0
	case score > 100:
		return 100
	default:
		return score
	}
}
