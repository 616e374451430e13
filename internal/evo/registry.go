package evo

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"slices"

	"paretoseg/internal/genotype"
	"paretoseg/internal/imaging"
)

var (
	ErrUnsupportedOperator = errors.New("unsupported operator")
	ErrInvalidConfig       = errors.New("invalid configuration")
)

type OperatorKind string

const (
	KindInitialization    OperatorKind = "initialization_method"
	KindParentSelection   OperatorKind = "parent_selection"
	KindSurvivorSelection OperatorKind = "survivor_selection"
	KindCrossover         OperatorKind = "crossovers"
	KindMutation          OperatorKind = "mutations"
)

const (
	InitRandom = "random"
	InitMST    = "mst"

	SelectTournament         = "tournament"
	SelectTournamentWeighted = "tournament_weighted"
	SelectRouletteWeighted   = "roulette_wheel_weighted"
	SelectNone               = "none"
	SelectFullReplacement    = "fullReplacement"
	SelectNSGA2              = "NSGA-2"
)

var operatorNames = map[OperatorKind][]string{
	KindInitialization:    {InitRandom, InitMST},
	KindParentSelection:   {SelectTournament, SelectNone, SelectRouletteWeighted, SelectTournamentWeighted},
	KindSurvivorSelection: {SelectFullReplacement, SelectTournament, SelectTournamentWeighted, SelectNSGA2, SelectRouletteWeighted},
	KindCrossover:         {"one_point", "n_point", "uniform"},
	KindMutation: {
		"flip_one_bit",
		"flip_to_biggest_segment",
		"flip_to_smallest_segment",
		"flip_to_smallest_deviation",
		"eat_similar",
		"destroy_small_segments",
	},
}

// ListOperators returns the sorted names accepted for one configuration slot.
func ListOperators(kind OperatorKind) []string {
	names := slices.Clone(operatorNames[kind])
	slices.Sort(names)
	return names
}

func unsupported(key, name string) error {
	return fmt.Errorf("%w: %s=%q", ErrUnsupportedOperator, key, name)
}

func invalid(key, format string, args ...any) error {
	return fmt.Errorf("%w: %s: %s", ErrInvalidConfig, key, fmt.Sprintf(format, args...))
}

type genomeFactory func(rng *rand.Rand, gd *imaging.GlobalData) genotype.Genome

func resolveInitialization(name string) (genomeFactory, error) {
	switch name {
	case InitRandom:
		return func(rng *rand.Rand, gd *imaging.GlobalData) genotype.Genome {
			return genotype.Random(rng, gd.Width(), gd.Height())
		}, nil
	case InitMST:
		return func(rng *rand.Rand, gd *imaging.GlobalData) genotype.Genome {
			return genotype.MinimumSpanningTree(rng, gd.Near)
		}, nil
	default:
		return nil, unsupported(string(KindInitialization), name)
	}
}

func resolveCrossover(key string, c VariationConfig) (Crossover, error) {
	if err := checkRate(key, c.Probability); err != nil {
		return nil, err
	}
	switch c.Name {
	case "one_point":
		return OnePointCrossover{}, nil
	case "n_point":
		if c.NumberOfSlices < 1 {
			return nil, invalid(key+".number_of_slices", "n_point requires number_of_slices >= 1")
		}
		return NPointCrossover{Slices: c.NumberOfSlices}, nil
	case "uniform":
		return UniformCrossover{}, nil
	default:
		return nil, unsupported(key+".name", c.Name)
	}
}

func resolveMutation(key string, c VariationConfig) (Mutation, error) {
	if err := checkRate(key, c.Probability); err != nil {
		return nil, err
	}
	switch c.Name {
	case "flip_one_bit":
		return FlipOneBit{EdgeBiased: c.EdgeBiased}, nil
	case "flip_to_biggest_segment":
		return FlipToSegment{Biggest: true, EdgeBiased: c.EdgeBiased}, nil
	case "flip_to_smallest_segment":
		return FlipToSegment{EdgeBiased: c.EdgeBiased}, nil
	case "flip_to_smallest_deviation":
		if c.SearchRadius < 1 || c.SearchRadius > imaging.WideRadius {
			return nil, invalid(key+".search_radius", "must be in [1, %d], got %d", imaging.WideRadius, c.SearchRadius)
		}
		return FlipToSmallestDeviation{Radius: c.SearchRadius, EdgeBiased: c.EdgeBiased}, nil
	case "eat_similar":
		if c.DepthFraction <= 0 || c.DepthFraction > 1 {
			return nil, invalid(key+".depth_fraction", "must be in (0, 1], got %g", c.DepthFraction)
		}
		return EatSimilar{DepthFraction: c.DepthFraction, EdgeBiased: c.EdgeBiased}, nil
	case "destroy_small_segments":
		if c.MinCoverage <= 0 || c.MinCoverage >= 1 {
			return nil, invalid(key+".min_coverage", "must be in (0, 1), got %g", c.MinCoverage)
		}
		if c.EdgeBiased {
			return nil, invalid(key+".edge_biased", "destroy_small_segments does not pick a pixel")
		}
		return DestroySmallSegments{MinCoverage: c.MinCoverage}, nil
	default:
		return nil, unsupported(key+".name", c.Name)
	}
}

func resolveSelector(kind OperatorKind, c SelectionConfig) (Selector, error) {
	key := string(kind)
	if !slices.Contains(operatorNames[kind], c.Name) {
		return nil, unsupported(key+".name", c.Name)
	}
	switch c.Name {
	case SelectTournament, SelectTournamentWeighted:
		if c.TournamentSize == nil || *c.TournamentSize < 1 {
			return nil, invalid(key+".tournament_size", "%s requires tournament_size >= 1", c.Name)
		}
		if c.Probability == nil || *c.Probability < 0 || *c.Probability > 1 {
			return nil, invalid(key+".probability", "%s requires probability in [0, 1]", c.Name)
		}
		if c.Name == SelectTournament {
			return TournamentSelector{Size: *c.TournamentSize, Probability: *c.Probability}, nil
		}
		return WeightedTournamentSelector{Size: *c.TournamentSize, Probability: *c.Probability}, nil
	case SelectRouletteWeighted:
		return RouletteSelector{}, nil
	case SelectNone:
		return PassThroughSelector{}, nil
	case SelectFullReplacement:
		return FullReplacementSelector{}, nil
	case SelectNSGA2:
		return NSGA2Selector{}, nil
	default:
		return nil, unsupported(key+".name", c.Name)
	}
}

func checkRate(key string, rate float64) error {
	if rate < 0 || math.IsNaN(rate) {
		return invalid(key+".probability", "must be >= 0, got %g", rate)
	}
	return nil
}
