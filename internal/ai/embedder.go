package ai

import (
	"context"
	"errors"
)

// ErrUnavailable is returned when no embedding backend can serve a request.
var ErrUnavailable = errors.New("embedding backend is unavailable")

// Embedder turns texts into fixed-dimension vectors, one per input text and in
// the same order. Implementations must be safe for concurrent use.
type Embedder interface {
	EmbedStrings(ctx context.Context, texts []string) ([][]float64, error)
	Model() string
}
