package gemini

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"google.golang.org/genai"

	"github.com/spigell/resume-matcher/internal/ai"
)

type fakeEmbedAPI struct {
	mu    sync.Mutex
	calls []embedCallRecord
	queue []fakeEmbedResponse
}

type embedCallRecord struct {
	model  string
	texts  []string
	config *genai.EmbedContentConfig
}

type fakeEmbedResponse struct {
	resp *genai.EmbedContentResponse
	err  error
}

func (f *fakeEmbedAPI) enqueue(resp *genai.EmbedContentResponse, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queue = append(f.queue, fakeEmbedResponse{resp: resp, err: err})
}

func (f *fakeEmbedAPI) EmbedContent(_ context.Context, model string, contents []*genai.Content, config *genai.EmbedContentConfig) (*genai.EmbedContentResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	texts := make([]string, 0, len(contents))
	for _, content := range contents {
		texts = append(texts, content.Parts[0].Text)
	}
	f.calls = append(f.calls, embedCallRecord{model: model, texts: texts, config: config})

	if len(f.queue) == 0 {
		return nil, errors.New("unexpected call")
	}
	res := f.queue[0]
	f.queue = f.queue[1:]
	return res.resp, res.err
}

func embeddings(vectors ...[]float32) *genai.EmbedContentResponse {
	resp := &genai.EmbedContentResponse{}
	for _, v := range vectors {
		resp.Embeddings = append(resp.Embeddings, &genai.ContentEmbedding{Values: v})
	}
	return resp
}

func noWait(t *testing.T) {
	t.Helper()
	original := wait
	wait = func(context.Context, time.Duration) error { return nil }
	t.Cleanup(func() { wait = original })
}

func TestEmbedStringsConvertsAndCaches(t *testing.T) {
	api := &fakeEmbedAPI{}
	api.enqueue(embeddings([]float32{1, 0}, []float32{0, 1}), nil)
	api.enqueue(embeddings([]float32{0.5, 0.5}), nil)

	e := newEmbedder(api, Options{})

	vectors, err := e.EmbedStrings(context.Background(), []string{"go developer", "python developer"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(vectors) != 2 || vectors[0][0] != 1 || vectors[1][1] != 1 {
		t.Fatalf("unexpected vectors: %v", vectors)
	}

	vectors, err = e.EmbedStrings(context.Background(), []string{"python developer", "rust developer"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if vectors[0][1] != 1 || vectors[1][0] != 0.5 {
		t.Fatalf("unexpected vectors: %v", vectors)
	}

	if len(api.calls) != 2 {
		t.Fatalf("expected 2 calls, got %d", len(api.calls))
	}
	if got := api.calls[1].texts; len(got) != 1 || got[0] != "rust developer" {
		t.Fatalf("expected only uncached text to be sent, got %v", got)
	}
	if api.calls[0].model != defaultModel {
		t.Fatalf("unexpected model %q", api.calls[0].model)
	}
	if api.calls[0].config == nil || api.calls[0].config.TaskType != taskSemanticSimilarity {
		t.Fatalf("expected semantic similarity task type")
	}
}

func TestEmbedStringsRetriesOnTemporaryError(t *testing.T) {
	noWait(t)

	api := &fakeEmbedAPI{}
	api.enqueue(nil, genai.APIError{Code: http.StatusInternalServerError, Status: "INTERNAL"})
	api.enqueue(embeddings([]float32{1}), nil)

	e := newEmbedder(api, Options{Model: "embed-test", MaxRetries: 2})

	if _, err := e.EmbedStrings(context.Background(), []string{"text"}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(api.calls) != 2 {
		t.Fatalf("expected 2 calls, got %d", len(api.calls))
	}
	if e.Model() != "embed-test" {
		t.Fatalf("unexpected model %q", e.Model())
	}
}

func TestEmbedStringsStopsAfterRetriesExhausted(t *testing.T) {
	noWait(t)

	api := &fakeEmbedAPI{}
	tempErr := genai.APIError{Code: http.StatusServiceUnavailable, Status: "UNAVAILABLE"}
	api.enqueue(nil, tempErr)
	api.enqueue(nil, tempErr)

	e := newEmbedder(api, Options{MaxRetries: 2})

	if _, err := e.EmbedStrings(context.Background(), []string{"text"}); err == nil {
		t.Fatal("expected error after retries exhausted")
	}
	if len(api.calls) != 2 {
		t.Fatalf("expected 2 calls, got %d", len(api.calls))
	}
}

func TestEmbedStringsDoesNotRetryOnLongQuotaDelay(t *testing.T) {
	api := &fakeEmbedAPI{}
	api.enqueue(nil, genai.APIError{
		Code:    http.StatusTooManyRequests,
		Status:  "RESOURCE_EXHAUSTED",
		Message: "quota exhausted, retry after 60 seconds",
	})

	e := newEmbedder(api, Options{MaxRetries: 3})

	if _, err := e.EmbedStrings(context.Background(), []string{"text"}); err == nil {
		t.Fatal("expected error when quota delay too long")
	}
	if len(api.calls) != 1 {
		t.Fatalf("expected single call, got %d", len(api.calls))
	}
}

func TestEmbedStringsDoesNotRetryClientErrors(t *testing.T) {
	api := &fakeEmbedAPI{}
	api.enqueue(nil, genai.APIError{Code: http.StatusBadRequest, Status: "INVALID_ARGUMENT"})

	e := newEmbedder(api, Options{MaxRetries: 3})

	if _, err := e.EmbedStrings(context.Background(), []string{"text"}); err == nil {
		t.Fatal("expected error")
	}
	if len(api.calls) != 1 {
		t.Fatalf("expected single call, got %d", len(api.calls))
	}
}

func TestEmbedStringsRejectsMismatchedResponse(t *testing.T) {
	api := &fakeEmbedAPI{}
	api.enqueue(embeddings([]float32{1}), nil)

	e := newEmbedder(api, Options{})

	if _, err := e.EmbedStrings(context.Background(), []string{"a", "b"}); err == nil {
		t.Fatal("expected error for mismatched embedding count")
	}
}

func TestEmbedStringsRejectsEmptyText(t *testing.T) {
	e := newEmbedder(&fakeEmbedAPI{}, Options{})

	if _, err := e.EmbedStrings(context.Background(), []string{"  "}); err == nil {
		t.Fatal("expected error for empty text")
	}
}

func TestNilEmbedderIsUnavailable(t *testing.T) {
	var e *Embedder
	if _, err := e.EmbedStrings(context.Background(), []string{"x"}); !errors.Is(err, ai.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestRetryDelay(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		err       error
		wantDelay time.Duration
		wantRetry bool
	}{
		{
			name:      "server error backs off",
			err:       genai.APIError{Code: http.StatusInternalServerError},
			wantDelay: 2 * baseBackoff,
			wantRetry: true,
		},
		{
			name: "quota detail delay",
			err: &genai.APIError{
				Code:    http.StatusTooManyRequests,
				Details: []map[string]any{{"retryDelay": "5s"}},
			},
			wantDelay: 5 * time.Second,
			wantRetry: true,
		},
		{
			name:      "short quota message delay",
			err:       genai.APIError{Code: http.StatusTooManyRequests, Message: "Please retry in 1.5s."},
			wantDelay: 1500 * time.Millisecond,
			wantRetry: true,
		},
		{
			name: "non api error",
			err:  errors.New("dial tcp: timeout"),
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			delay, retry := retryDelay(tc.err, 2)
			if retry != tc.wantRetry || delay != tc.wantDelay {
				t.Fatalf("expected (%v, %v), got (%v, %v)", tc.wantDelay, tc.wantRetry, delay, retry)
			}
		})
	}
}

func TestNewEmbedderRequiresAPIKey(t *testing.T) {
	if _, err := NewEmbedder(context.Background(), Options{APIKey: "  "}); err == nil {
		t.Fatal("expected error for missing api key")
	}
}
