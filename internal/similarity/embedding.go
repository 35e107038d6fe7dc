package similarity

import (
	"context"
	"errors"
	"fmt"

	"github.com/spigell/resume-matcher/internal/ai"
)

type embeddingTier struct {
	embedder ai.Embedder
	disabled bool
	reason   string
}

// NewEmbedding creates the tier that compares sentence embeddings. With a nil
// embedder the tier starts disabled.
func NewEmbedding(embedder ai.Embedder) Tier {
	t := &embeddingTier{embedder: embedder}
	if embedder == nil {
		t.Disable("no embedder configured")
	}
	return t
}

func (t *embeddingTier) Name() string { return TierEmbedding }

func (t *embeddingTier) Disable(reason string) {
	t.disabled = true
	t.reason = reason
}

func (t *embeddingTier) IsEnabled() bool { return !t.disabled }

func (t *embeddingTier) Score(ctx context.Context, a, b string) (float64, error) {
	if t.embedder == nil {
		return 0, ai.ErrUnavailable
	}
	if a == "" || b == "" {
		return 0, errors.New("cannot embed empty text")
	}

	vectors, err := t.embedder.EmbedStrings(ctx, []string{a, b})
	if err != nil {
		return 0, fmt.Errorf("embed texts: %w", err)
	}
	if len(vectors) != 2 {
		return 0, fmt.Errorf("expected 2 embeddings, got %d", len(vectors))
	}

	cosine, err := Cosine(vectors[0], vectors[1])
	if err != nil {
		return 0, err
	}

	return cosine * 100, nil
}

func (t *embeddingTier) Status() Status {
	status := Status{Name: t.Name(), Enabled: t.IsEnabled(), Reason: t.reason}
	if t.embedder != nil && status.Reason == "" {
		status.Reason = "model " + t.embedder.Model()
	}
	return status
}
