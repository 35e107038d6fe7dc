package similarity

import (
	"bufio"
	"context"
	_ "embed"
	"errors"
	"math"
	"strings"
	"unicode/utf8"
)

// ErrEmptyVocabulary is returned when neither text has a usable term.
var ErrEmptyVocabulary = errors.New("empty vocabulary")

//go:embed stopwords.txt
var stopWordsList string

var stopWords = parseStopWords(stopWordsList)

func parseStopWords(list string) map[string]struct{} {
	words := make(map[string]struct{})
	scanner := bufio.NewScanner(strings.NewReader(list))
	for scanner.Scan() {
		word := strings.TrimSpace(scanner.Text())
		if word == "" || strings.HasPrefix(word, "#") {
			continue
		}
		words[word] = struct{}{}
	}
	return words
}

type tfidfTier struct {
	disabled bool
	reason   string
}

// NewTFIDF creates the tier comparing TF-IDF weighted unigram and bigram
// vectors built from the two texts alone.
func NewTFIDF() Tier {
	return &tfidfTier{}
}

func (t *tfidfTier) Name() string { return TierTFIDF }

func (t *tfidfTier) Disable(reason string) {
	t.disabled = true
	t.reason = reason
}

func (t *tfidfTier) IsEnabled() bool { return !t.disabled }

func (t *tfidfTier) Score(_ context.Context, a, b string) (float64, error) {
	cosine, err := TFIDFCosine(a, b)
	if err != nil {
		return 0, err
	}
	return cosine * 100, nil
}

func (t *tfidfTier) Status() Status {
	return Status{Name: t.Name(), Enabled: t.IsEnabled(), Reason: t.reason}
}

// TFIDFCosine computes the cosine similarity of the TF-IDF vectors of two
// normalized texts. The idf is smoothed, ln((1+n)/(1+df))+1, over the two
// documents, and stop words are dropped before bigrams are formed.
func TFIDFCosine(a, b string) (float64, error) {
	docs := []map[string]int{termCounts(a), termCounts(b)}

	df := make(map[string]int)
	for _, doc := range docs {
		for term := range doc {
			df[term]++
		}
	}

	if len(df) == 0 {
		return 0, ErrEmptyVocabulary
	}

	vocabulary := make([]string, 0, len(df))
	for term := range df {
		vocabulary = append(vocabulary, term)
	}

	n := float64(len(docs))
	vectors := make([][]float64, len(docs))
	for i, doc := range docs {
		vec := make([]float64, len(vocabulary))
		for j, term := range vocabulary {
			tf := doc[term]
			if tf == 0 {
				continue
			}
			idf := math.Log((1+n)/(1+float64(df[term]))) + 1
			vec[j] = float64(tf) * idf
		}
		vectors[i] = vec
	}

	return Cosine(vectors[0], vectors[1])
}

func termCounts(text string) map[string]int {
	tokens := make([]string, 0)
	for _, field := range strings.Fields(text) {
		if utf8.RuneCountInString(field) < 2 {
			continue
		}
		if _, stop := stopWords[field]; stop {
			continue
		}
		tokens = append(tokens, field)
	}

	counts := make(map[string]int, len(tokens)*2)
	for i, token := range tokens {
		counts[token]++
		if i > 0 {
			counts[tokens[i-1]+" "+token]++
		}
	}
	return counts
}
