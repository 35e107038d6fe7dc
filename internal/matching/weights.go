package matching

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// ErrInvalidInput marks input that violates the engine contract.
var ErrInvalidInput = errors.New("invalid input")

// WeightConfig holds the weight of each sub-score in the overall score.
// Weights are applied as given; they do not have to sum to 1.
type WeightConfig struct {
	Skills     float64 `mapstructure:"skills" json:"skills"`
	Semantic   float64 `mapstructure:"semantic" json:"semantic"`
	Experience float64 `mapstructure:"experience" json:"experience"`
}

// DefaultWeights returns the weights used when the caller supplies none.
func DefaultWeights() WeightConfig {
	return WeightConfig{
		Skills:     0.5,
		Semantic:   0.3,
		Experience: 0.2,
	}
}

// Validate rejects negative, NaN and infinite weights.
func (w WeightConfig) Validate() error {
	for name, value := range w.asMap() {
		if math.IsNaN(value) || math.IsInf(value, 0) {
			return fmt.Errorf("%w: weight %q is not a finite number", ErrInvalidInput, name)
		}
		if value < 0 {
			return fmt.Errorf("%w: weight %q is negative: %v", ErrInvalidInput, name, value)
		}
	}
	return nil
}

func (w WeightConfig) asMap() map[string]float64 {
	return map[string]float64{
		"skills":     w.Skills,
		"semantic":   w.Semantic,
		"experience": w.Experience,
	}
}

// WeightsFromMap decodes a weight mapping. The keys skills, semantic and
// experience are all required and no other keys are accepted.
func WeightsFromMap(raw map[string]any) (WeightConfig, error) {
	var weights WeightConfig
	if raw == nil {
		return weights, fmt.Errorf("%w: weights map is empty", ErrInvalidInput)
	}

	var meta mapstructure.Metadata
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &weights,
		Metadata:         &meta,
		ErrorUnused:      true,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return weights, fmt.Errorf("create weights decoder: %w", err)
	}

	if err := decoder.Decode(raw); err != nil {
		return weights, fmt.Errorf("%w: decode weights: %v", ErrInvalidInput, err)
	}

	if len(meta.Unset) > 0 {
		unset := append([]string(nil), meta.Unset...)
		sort.Strings(unset)
		return weights, fmt.Errorf("%w: missing weights: %s", ErrInvalidInput, strings.Join(unset, ", "))
	}

	if err := weights.Validate(); err != nil {
		return weights, err
	}

	return weights, nil
}
