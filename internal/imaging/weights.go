package imaging

import (
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/floats"
)

// EdgeWeights scores every pixel by the summed colour distance to its
// 8-neighbourhood and normalizes the scores into a distribution. A flat
// image yields the uniform distribution.
func EdgeWeights(near *NeighborTable) []float64 {
	n := near.width * near.height
	weights := make([]float64, n)
	for idx := range weights {
		for dr := -1; dr <= 1; dr++ {
			for dc := -1; dc <= 1; dc++ {
				weights[idx] += near.At(idx, dr, dc)
			}
		}
	}
	total := floats.Sum(weights)
	if total == 0 {
		for i := range weights {
			weights[i] = 1
		}
		total = float64(n)
	}
	floats.Scale(1/total, weights)
	return weights
}

// Sampler draws pixel indexes from a normalized weight distribution by
// cumulative-sum search against a uniform draw.
type Sampler struct {
	cumulative []float64
}

func NewSampler(weights []float64) *Sampler {
	cumulative := make([]float64, len(weights))
	floats.CumSum(cumulative, weights)
	return &Sampler{cumulative: cumulative}
}

// Sample returns the first index whose cumulative weight reaches the draw.
// Rounding that leaves the draw above the total falls back to the last pixel.
func (s *Sampler) Sample(rng *rand.Rand) int {
	u := rng.Float64()
	idx := sort.SearchFloat64s(s.cumulative, u)
	if idx >= len(s.cumulative) {
		return len(s.cumulative) - 1
	}
	return idx
}
