package gemini

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/spigell/resume-matcher/internal/ai"
	"github.com/spigell/resume-matcher/internal/logger"
	"github.com/spigell/resume-matcher/internal/utils"
)

const (
	defaultModel      = "text-embedding-004"
	defaultMaxRetries = 3
	baseBackoff       = 2 * time.Second
	maxQuotaDelay     = 30 * time.Second

	taskSemanticSimilarity = "SEMANTIC_SIMILARITY"
)

var (
	wait = utils.WaitFor

	retryAfterRegex = regexp.MustCompile(`(?i)retry (?:after|in) (\d+(?:\.\d+)?)\s*s`)
)

type embedContentAPI interface {
	EmbedContent(ctx context.Context, model string, contents []*genai.Content, config *genai.EmbedContentConfig) (*genai.EmbedContentResponse, error)
}

// Options configure the embedder.
type Options struct {
	APIKey     string
	Model      string
	MaxRetries int
	Logger     *zap.Logger
}

// Embedder produces sentence embeddings with the Gemini embedding models.
// Vectors are cached per model and text for the life of the process.
type Embedder struct {
	models     embedContentAPI
	model      string
	maxRetries int
	logger     *zap.Logger

	cacheMu sync.RWMutex
	cache   map[string][]float64
}

var _ ai.Embedder = (*Embedder)(nil)

// NewEmbedder creates an Embedder configured for the Gemini API backend.
func NewEmbedder(ctx context.Context, opts Options) (*Embedder, error) {
	apiKey := strings.TrimSpace(opts.APIKey)
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	return newEmbedder(client.Models, opts), nil
}

func newEmbedder(models embedContentAPI, opts Options) *Embedder {
	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = defaultModel
	}

	retries := opts.MaxRetries
	if retries <= 0 {
		retries = defaultMaxRetries
	}

	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	return &Embedder{
		models:     models,
		model:      model,
		maxRetries: retries,
		logger:     logger.WithCommonFields(log, "gemini", model),
		cache:      make(map[string][]float64),
	}
}

// EmbedStrings returns one vector per text. Texts already embedded are served
// from the cache and only the rest are sent to the API in a single request.
func (e *Embedder) EmbedStrings(ctx context.Context, texts []string) ([][]float64, error) {
	if e == nil || e.models == nil {
		return nil, ai.ErrUnavailable
	}
	if len(texts) == 0 {
		return nil, nil
	}

	result := make([][]float64, len(texts))
	keys := make([]string, len(texts))
	var pending []int

	e.cacheMu.RLock()
	for i, text := range texts {
		keys[i] = e.cacheKey(text)
		if vec, ok := e.cache[keys[i]]; ok {
			result[i] = vec
			continue
		}
		pending = append(pending, i)
	}
	e.cacheMu.RUnlock()

	if len(pending) == 0 {
		return result, nil
	}

	contents := make([]*genai.Content, 0, len(pending))
	for _, idx := range pending {
		if strings.TrimSpace(texts[idx]) == "" {
			return nil, errors.New("cannot embed empty text")
		}
		contents = append(contents, &genai.Content{
			Role:  string(genai.RoleUser),
			Parts: []*genai.Part{{Text: texts[idx]}},
		})
	}

	resp, err := e.embedWithRetry(ctx, contents)
	if err != nil {
		return nil, err
	}
	if len(resp.Embeddings) != len(pending) {
		return nil, fmt.Errorf("gemini api returned %d embeddings for %d texts", len(resp.Embeddings), len(pending))
	}

	e.cacheMu.Lock()
	defer e.cacheMu.Unlock()

	for n, idx := range pending {
		embedding := resp.Embeddings[n]
		if embedding == nil || len(embedding.Values) == 0 {
			return nil, errors.New("gemini api returned empty embedding")
		}
		vec := make([]float64, len(embedding.Values))
		for j, v := range embedding.Values {
			vec[j] = float64(v)
		}
		e.cache[keys[idx]] = vec
		result[idx] = vec
	}

	return result, nil
}

func (e *Embedder) embedWithRetry(ctx context.Context, contents []*genai.Content) (*genai.EmbedContentResponse, error) {
	cfg := &genai.EmbedContentConfig{TaskType: taskSemanticSimilarity}

	var lastErr error
	for attempt := 1; attempt <= e.maxRetries; attempt++ {
		resp, err := e.models.EmbedContent(ctx, e.model, contents, cfg)
		if err == nil {
			return resp, nil
		}
		lastErr = err

		delay, retry := retryDelay(err, attempt)
		if !retry || attempt == e.maxRetries {
			break
		}

		e.logger.Warn("embedding request failed, retrying",
			zap.Int("attempt", attempt),
			zap.Duration("delay", delay),
			zap.Error(err),
		)

		if err := wait(ctx, delay); err != nil {
			return nil, err
		}
	}

	return nil, fmt.Errorf("embed content: %w", lastErr)
}

// Model returns the embedding model name.
func (e *Embedder) Model() string {
	if e == nil {
		return ""
	}
	return e.model
}

func (e *Embedder) cacheKey(text string) string {
	sum := sha256.Sum256([]byte(e.model + "\x00" + text))
	return fmt.Sprintf("%x", sum[:])
}

// retryDelay reports whether err is temporary and how long to wait before the
// next attempt. Quota errors asking for a long pause are not retried.
func retryDelay(err error, attempt int) (time.Duration, bool) {
	apiErr, ok := asAPIError(err)
	if !ok {
		return 0, false
	}

	switch {
	case apiErr.Code == http.StatusTooManyRequests:
		delay, found := quotaDelay(apiErr)
		if !found {
			return backoff(attempt), true
		}
		if delay > maxQuotaDelay {
			return 0, false
		}
		return delay, true
	case apiErr.Code >= http.StatusInternalServerError:
		return backoff(attempt), true
	default:
		return 0, false
	}
}

func asAPIError(err error) (genai.APIError, bool) {
	var value genai.APIError
	if errors.As(err, &value) {
		return value, true
	}
	var ptr *genai.APIError
	if errors.As(err, &ptr) && ptr != nil {
		return *ptr, true
	}
	return genai.APIError{}, false
}

func quotaDelay(apiErr genai.APIError) (time.Duration, bool) {
	for _, detail := range apiErr.Details {
		raw, ok := detail["retryDelay"].(string)
		if !ok {
			continue
		}
		if d, err := time.ParseDuration(raw); err == nil {
			return d, true
		}
	}

	match := retryAfterRegex.FindStringSubmatch(apiErr.Message)
	if len(match) != 2 {
		return 0, false
	}
	seconds, err := strconv.ParseFloat(match[1], 64)
	if err != nil {
		return 0, false
	}
	return time.Duration(seconds * float64(time.Second)), true
}

func backoff(attempt int) time.Duration {
	return time.Duration(attempt) * baseBackoff
}
