package recommendation

import (
	"fmt"
	"math"
	"os"

	jsoniter "github.com/json-iterator/go"

	"github.com/project/circulation/internal/entity"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// FeatureSpace holds one precomputed vector per book id.
type FeatureSpace struct {
	Dimension int                  `json:"dimension"`
	Vectors   map[string][]float64 `json:"vectors"`
}

// LoadFeatureSpace reads a feature file of the form
// {"dimension": 3, "vectors": {"<book id>": [0.1, 0.2, 0.3]}}.
// A non-zero dimension must match the file.
func LoadFeatureSpace(path string, dimension int) (*FeatureSpace, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read feature file: %w", err)
	}

	var space FeatureSpace
	if err = json.Unmarshal(raw, &space); err != nil {
		return nil, fmt.Errorf("decode feature file: %w", err)
	}

	if dimension > 0 && space.Dimension != dimension {
		return nil, fmt.Errorf("feature file has dimension %d, configured %d", space.Dimension, dimension)
	}

	for id, v := range space.Vectors {
		if err = space.check(v); err != nil {
			return nil, fmt.Errorf("book %s: %w", id, err)
		}
	}

	return &space, nil
}

func (s *FeatureSpace) check(values []float64) error {
	if s == nil || s.Dimension <= 0 || len(values) != s.Dimension {
		return entity.ErrInvalidVector
	}
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return entity.ErrInvalidVector
		}
	}
	return nil
}

func distance(a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}
