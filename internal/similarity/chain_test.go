package similarity

import (
	"context"
	"errors"
	"math"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type stubTier struct {
	name     string
	score    float64
	err      error
	panics   bool
	disabled bool
	calls    int
	seenA    string
	seenB    string
}

func (s *stubTier) Name() string    { return s.name }
func (s *stubTier) Disable(string)  { s.disabled = true }
func (s *stubTier) IsEnabled() bool { return !s.disabled }
func (s *stubTier) Score(_ context.Context, a, b string) (float64, error) {
	s.calls++
	s.seenA, s.seenB = a, b
	if s.panics {
		panic("boom")
	}
	return s.score, s.err
}

func TestSimilarityUsesFirstSuccessfulTier(t *testing.T) {
	t.Parallel()

	first := &stubTier{name: "first", err: errors.New("offline")}
	second := &stubTier{name: "second", score: 42}
	third := &stubTier{name: "third", score: 99}

	core, logs := observer.New(zapcore.WarnLevel)
	scorer := New([]Tier{first, second, third}, zap.New(core))

	got := scorer.Similarity(context.Background(), "Go, Developer!", "go developer")
	if got.Score != 42 || got.Tier != "second" {
		t.Fatalf("unexpected outcome: %+v", got)
	}
	if third.calls != 0 {
		t.Fatalf("expected third tier to be skipped, got %d calls", third.calls)
	}
	if second.seenA != "go developer" || second.seenB != "go developer" {
		t.Fatalf("expected normalized inputs, got %q and %q", second.seenA, second.seenB)
	}
	if logs.FilterMessage("similarity tier failed, falling back").Len() != 1 {
		t.Fatalf("expected one fallback warning, got %d", logs.Len())
	}
}

func TestSimilaritySkipsDisabledTiers(t *testing.T) {
	t.Parallel()

	disabled := &stubTier{name: "off", score: 90, disabled: true}
	enabled := &stubTier{name: "on", score: 10}

	got := New([]Tier{disabled, enabled}, nil).Similarity(context.Background(), "a b", "c d")
	if got.Tier != "on" {
		t.Fatalf("expected enabled tier, got %q", got.Tier)
	}
	if disabled.calls != 0 {
		t.Fatalf("disabled tier was called")
	}
}

func TestSimilarityRecoversFromPanics(t *testing.T) {
	t.Parallel()

	panicking := &stubTier{name: "panics", panics: true}
	backup := &stubTier{name: "backup", score: 61}

	got := New([]Tier{panicking, backup}, nil).Similarity(context.Background(), "x", "y")
	if got.Score != 61 || got.Tier != "backup" {
		t.Fatalf("unexpected outcome: %+v", got)
	}
}

func TestSimilarityDefaultsWhenEveryTierFails(t *testing.T) {
	t.Parallel()

	failing := &stubTier{name: "failing", err: errors.New("nope")}

	got := New([]Tier{failing}, nil).Similarity(context.Background(), "x", "y")
	if got.Score != DefaultScore || got.Tier != TierDefault {
		t.Fatalf("unexpected outcome: %+v", got)
	}
}

func TestSimilarityClampsScores(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		score float64
		want  float64
	}{
		{name: "negative", score: -12, want: 0},
		{name: "above range", score: 100.0000001, want: 100},
		{name: "nan", score: math.NaN(), want: 0},
		{name: "inside", score: 73.5, want: 73.5},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			tier := &stubTier{name: "stub", score: tc.score}
			got := New([]Tier{tier}, nil).Similarity(context.Background(), "a", "b")
			if got.Score != tc.want {
				t.Fatalf("expected %v, got %v", tc.want, got.Score)
			}
		})
	}
}

func TestNewDefaultWithoutEmbedderUsesTFIDF(t *testing.T) {
	t.Parallel()

	scorer := NewDefault(nil, nil)

	got := scorer.Similarity(context.Background(), "Senior Go developer", "senior go developer")
	if got.Tier != TierTFIDF {
		t.Fatalf("expected tfidf tier, got %q", got.Tier)
	}
	if math.Abs(got.Score-100) > 1e-9 {
		t.Fatalf("expected identical texts to score 100, got %v", got.Score)
	}

	statuses := scorer.Describe()
	if len(statuses) != 3 {
		t.Fatalf("expected 3 statuses, got %d", len(statuses))
	}
	if statuses[0].Enabled || statuses[0].Reason != "no embedder configured" {
		t.Fatalf("unexpected embedding status: %+v", statuses[0])
	}
	if !statuses[1].Enabled || !statuses[2].Enabled {
		t.Fatalf("expected tfidf and default tiers enabled: %+v", statuses)
	}
}

func TestNewDefaultFallsBackToConstantForStopWordsOnly(t *testing.T) {
	t.Parallel()

	got := NewDefault(nil, nil).Similarity(context.Background(), "the and of", "a")
	if got.Tier != TierDefault || got.Score != DefaultScore {
		t.Fatalf("unexpected outcome: %+v", got)
	}
}
