package similarity

import (
	"context"
	"errors"
	"math"
	"testing"
)

func TestTFIDFCosine(t *testing.T) {
	t.Parallel()

	identical, err := TFIDFCosine("python developer sql", "python developer sql")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(identical-1) > 1e-9 {
		t.Fatalf("expected 1 for identical texts, got %v", identical)
	}

	disjoint, err := TFIDFCosine("python developer", "marketing manager")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if disjoint != 0 {
		t.Fatalf("expected 0 for disjoint texts, got %v", disjoint)
	}

	partial, err := TFIDFCosine("python developer with sql", "python engineer")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if partial <= 0 || partial >= 1 {
		t.Fatalf("expected partial overlap in (0,1), got %v", partial)
	}
}

func TestTFIDFCosineEmptyVocabulary(t *testing.T) {
	t.Parallel()

	if _, err := TFIDFCosine("", "the a of"); !errors.Is(err, ErrEmptyVocabulary) {
		t.Fatalf("expected ErrEmptyVocabulary, got %v", err)
	}
}

func TestTermCountsDropsStopWordsAndShortTokens(t *testing.T) {
	t.Parallel()

	counts := termCounts("the go developer x with go")

	want := map[string]int{
		"go":           2,
		"developer":    1,
		"go developer": 1,
		"developer go": 1,
	}
	if len(counts) != len(want) {
		t.Fatalf("unexpected terms: %v", counts)
	}
	for term, n := range want {
		if counts[term] != n {
			t.Fatalf("term %q: expected %d, got %d (%v)", term, n, counts[term], counts)
		}
	}
}

func TestTFIDFTierScoresOnPercentScale(t *testing.T) {
	t.Parallel()

	tier := NewTFIDF()
	score, err := tier.Score(context.Background(), "golang services", "golang services")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(score-100) > 1e-9 {
		t.Fatalf("expected 100, got %v", score)
	}

	tier.Disable("manual")
	if tier.IsEnabled() {
		t.Fatalf("expected tier to be disabled")
	}
}

func TestParseStopWordsSkipsCommentsAndBlanks(t *testing.T) {
	t.Parallel()

	words := parseStopWords("# header\n\nthe\n  and  \n")
	if len(words) != 2 {
		t.Fatalf("expected 2 words, got %v", words)
	}
	if _, ok := words["and"]; !ok {
		t.Fatalf("expected trimmed word to be present")
	}
}
