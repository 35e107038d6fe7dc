package similarity

import (
	"errors"
	"math"
	"regexp"
	"strings"
)

var (
	whitespaceRegex = regexp.MustCompile(`\s+`)
	nonWordRegex    = regexp.MustCompile(`[^\p{L}\p{N}_\s]`)
)

// ErrDimensionMismatch is returned when two vectors differ in length.
var ErrDimensionMismatch = errors.New("vector dimensions do not match")

// Normalize lower-cases text, turns punctuation into spaces and collapses
// whitespace runs to a single space.
func Normalize(text string) string {
	text = nonWordRegex.ReplaceAllString(text, " ")
	text = whitespaceRegex.ReplaceAllString(text, " ")
	return strings.ToLower(strings.TrimSpace(text))
}

// Cosine returns the cosine similarity of u and v. It is 0 when either vector
// has zero magnitude.
func Cosine(u, v []float64) (float64, error) {
	if len(u) != len(v) {
		return 0, ErrDimensionMismatch
	}

	var dot, normU, normV float64
	for i := range u {
		dot += u[i] * v[i]
		normU += u[i] * u[i]
		normV += v[i] * v[i]
	}

	if normU == 0 || normV == 0 {
		return 0, nil
	}

	return dot / (math.Sqrt(normU) * math.Sqrt(normV)), nil
}
