package evo

import (
	"fmt"
	"math"

	"paretoseg/internal/fitness"
)

// SelectionConfig describes a parent or survivor selection strategy.
// Probability and TournamentSize are optional and only read by the
// tournament strategies.
type SelectionConfig struct {
	Name                       string   `json:"name"`
	Probability                *float64 `json:"probability,omitempty"`
	TournamentSize             *int     `json:"tournament_size,omitempty"`
	CombineParentsAndOffspring bool     `json:"combine_parents_and_offspring,omitempty"`
}

// VariationConfig describes one crossover or mutation entry. Probability is
// the application rate: the operator runs ceil(population_size*rate) times
// per generation.
type VariationConfig struct {
	Name           string  `json:"name"`
	Probability    float64 `json:"probability"`
	NumberOfSlices int     `json:"number_of_slices,omitempty"`
	DepthFraction  float64 `json:"depth_fraction,omitempty"`
	SearchRadius   int     `json:"search_radius,omitempty"`
	MinCoverage    float64 `json:"min_coverage,omitempty"`
	EdgeBiased     bool    `json:"edge_biased,omitempty"`
}

type Config struct {
	PopulationSize    int               `json:"population_size"`
	Generations       int               `json:"number_of_generations"`
	Initialization    string            `json:"initialization_method"`
	ParentSelection   SelectionConfig   `json:"parent_selection"`
	Crossovers        []VariationConfig `json:"crossovers"`
	Mutations         []VariationConfig `json:"mutations"`
	SurvivorSelection SelectionConfig   `json:"survivor_selection"`
	PreserveSkyline   bool              `json:"preserve_skyline"`
	fitness.Weights
}

func (c Config) validateShape() error {
	if c.PopulationSize < 2 {
		return fmt.Errorf("%w: population_size must be >= 2, got %d", ErrInvalidConfig, c.PopulationSize)
	}
	if c.Generations < 0 {
		return fmt.Errorf("%w: number_of_generations must be >= 0, got %d", ErrInvalidConfig, c.Generations)
	}
	for key, v := range map[string]float64{
		"edge_value_multiplier":        c.Weights.EdgeValue,
		"connectivity_multiplier":      c.Weights.Connectivity,
		"overall_deviation_multiplier": c.Weights.Deviation,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: %s must be finite", ErrInvalidConfig, key)
		}
	}
	return nil
}

// applications converts a rate into a whole number of operator runs. The
// small epsilon keeps products like 20*0.1 from rounding up to 3.
func applications(populationSize int, rate float64) int {
	return int(math.Ceil(float64(populationSize)*rate - 1e-9))
}
