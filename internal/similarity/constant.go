package similarity

import (
	"context"
	"fmt"
)

type constantTier struct {
	score    float64
	disabled bool
	reason   string
}

// NewConstant creates a tier that always reports the same score.
func NewConstant(score float64) Tier {
	return &constantTier{score: score}
}

func (t *constantTier) Name() string { return TierDefault }

func (t *constantTier) Disable(reason string) {
	t.disabled = true
	t.reason = reason
}

func (t *constantTier) IsEnabled() bool { return !t.disabled }

func (t *constantTier) Score(context.Context, string, string) (float64, error) {
	return t.score, nil
}

func (t *constantTier) Status() Status {
	return Status{Name: t.Name(), Enabled: t.IsEnabled(), Reason: t.reasonOr(fmt.Sprintf("score %.1f", t.score))}
}

func (t *constantTier) reasonOr(fallback string) string {
	if t.reason != "" {
		return t.reason
	}
	return fallback
}
