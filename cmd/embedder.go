package cmd

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/resume-matcher/internal/ai"
	"github.com/spigell/resume-matcher/internal/ai/gemini"
	"github.com/spigell/resume-matcher/internal/secrets"
)

// newEmbedder returns nil when embeddings are disabled; the similarity chain
// then starts at the TF-IDF tier.
func newEmbedder(ctx context.Context, cfg *EmbeddingConfig, logger *zap.Logger) (ai.Embedder, error) {
	if cfg == nil || !cfg.Enabled {
		logger.Info("embedding disabled, semantic similarity uses tf-idf")
		return nil, nil
	}

	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
	if provider != "" && provider != "gemini" {
		return nil, fmt.Errorf("unsupported embedding provider: %s", cfg.Provider)
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name:  "gemini api key",
		Value: cfg.APIKey,
		File:  cfg.APIKeyFile,
		Env:   "GEMINI_API_KEY",
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set embedding.api-key-file or GEMINI_API_KEY_FILE)", err)
	}

	embedder, err := gemini.NewEmbedder(ctx, gemini.Options{
		APIKey:     apiKey,
		Model:      cfg.Model,
		MaxRetries: cfg.MaxRetries,
		Logger:     logger.With(zap.Int("embedding_retry_attempts", cfg.MaxRetries)),
	})
	if err != nil {
		return nil, err
	}

	return embedder, nil
}
