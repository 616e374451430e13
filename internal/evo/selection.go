package evo

import (
	"fmt"
	"math/rand"
	"sort"
)

// Selector draws count candidates from pool. Returned candidates are
// clones, so callers may edit them without touching the pool.
type Selector interface {
	Name() string
	Select(rng *rand.Rand, pool Population, count int) (Population, error)
}

func checkSelectArgs(rng *rand.Rand, pool Population, count int) error {
	if rng == nil {
		return fmt.Errorf("random source is required")
	}
	if count < 0 {
		return fmt.Errorf("invalid selection count: %d", count)
	}
	if count > 0 && len(pool) == 0 {
		return fmt.Errorf("cannot select %d from an empty pool", count)
	}
	return nil
}

// TournamentSelector samples Size candidates with replacement, ranks the
// sample by Pareto dominance and takes a skyline member with probability
// Probability, otherwise a member of a random lower front.
type TournamentSelector struct {
	Size        int
	Probability float64
}

func (TournamentSelector) Name() string { return SelectTournament }

func (s TournamentSelector) Select(rng *rand.Rand, pool Population, count int) (Population, error) {
	if err := checkSelectArgs(rng, pool, count); err != nil {
		return nil, err
	}
	size := max(s.Size, 1)
	out := make(Population, 0, count)
	sample := make(Population, size)
	for len(out) < count {
		for i := range sample {
			sample[i] = pool[rng.Intn(len(pool))]
		}
		fronts := NonDominatedSort(sample)
		front := fronts[0]
		if len(fronts) > 1 && rng.Float64() >= s.Probability {
			front = fronts[1+rng.Intn(len(fronts)-1)]
		}
		out = append(out, front[rng.Intn(len(front))].Clone())
	}
	return out, nil
}

// WeightedTournamentSelector samples Size candidates with replacement and
// takes the best scalar fitness with probability Probability, otherwise a
// uniformly chosen non-best sample member.
type WeightedTournamentSelector struct {
	Size        int
	Probability float64
}

func (WeightedTournamentSelector) Name() string { return SelectTournamentWeighted }

func (s WeightedTournamentSelector) Select(rng *rand.Rand, pool Population, count int) (Population, error) {
	if err := checkSelectArgs(rng, pool, count); err != nil {
		return nil, err
	}
	size := max(s.Size, 1)
	out := make(Population, 0, count)
	sample := make(Population, size)
	for len(out) < count {
		for i := range sample {
			sample[i] = pool[rng.Intn(len(pool))]
		}
		sort.SliceStable(sample, func(i, j int) bool {
			return sample[i].Fitness() > sample[j].Fitness()
		})
		pick := sample[0]
		if size > 1 && rng.Float64() >= s.Probability {
			pick = sample[1+rng.Intn(size-1)]
		}
		out = append(out, pick.Clone())
	}
	return out, nil
}

// RouletteSelector samples with replacement proportionally to fitness
// rescaled into [0, 1]. A pool of equal fitness is returned as is.
type RouletteSelector struct{}

func (RouletteSelector) Name() string { return SelectRouletteWeighted }

func (RouletteSelector) Select(rng *rand.Rand, pool Population, count int) (Population, error) {
	if err := checkSelectArgs(rng, pool, count); err != nil {
		return nil, err
	}
	weights, flat := normalizedFitness(pool)
	if flat {
		return cyclicClone(pool, count), nil
	}
	var total float64
	for _, w := range weights {
		total += w
	}
	out := make(Population, 0, count)
	for len(out) < count {
		u := rng.Float64() * total
		pick := len(pool) - 1
		for i, w := range weights {
			u -= w
			if u < 0 {
				pick = i
				break
			}
		}
		out = append(out, pool[pick].Clone())
	}
	return out, nil
}

// PassThroughSelector returns the pool in order.
type PassThroughSelector struct{}

func (PassThroughSelector) Name() string { return SelectNone }

func (PassThroughSelector) Select(rng *rand.Rand, pool Population, count int) (Population, error) {
	if err := checkSelectArgs(rng, pool, count); err != nil {
		return nil, err
	}
	return cyclicClone(pool, count), nil
}

// FullReplacementSelector keeps the last count members of the pool. Pools
// are laid out parents first, so this is the offspring.
type FullReplacementSelector struct{}

func (FullReplacementSelector) Name() string { return SelectFullReplacement }

func (FullReplacementSelector) Select(rng *rand.Rand, pool Population, count int) (Population, error) {
	if err := checkSelectArgs(rng, pool, count); err != nil {
		return nil, err
	}
	if count > len(pool) {
		return nil, fmt.Errorf("full replacement needs %d offspring, got %d", count, len(pool))
	}
	return pool[len(pool)-count:].Clone(), nil
}

// NSGA2Selector admits whole Pareto fronts in rank order while they fit and
// fills the remaining slots from the next front by crowding distance.
type NSGA2Selector struct{}

func (NSGA2Selector) Name() string { return SelectNSGA2 }

func (NSGA2Selector) Select(rng *rand.Rand, pool Population, count int) (Population, error) {
	if err := checkSelectArgs(rng, pool, count); err != nil {
		return nil, err
	}
	if count > len(pool) {
		return nil, fmt.Errorf("NSGA-2 needs a pool of at least %d, got %d", count, len(pool))
	}
	out := make(Population, 0, count)
	for _, front := range NonDominatedSort(pool) {
		if len(out)+len(front) <= count {
			out = append(out, front...)
			continue
		}
		out = append(out, TruncateByCrowding(front, count-len(out))...)
		break
	}
	return out.Clone(), nil
}

func cyclicClone(pool Population, count int) Population {
	out := make(Population, count)
	for i := range out {
		out[i] = pool[i%len(pool)].Clone()
	}
	return out
}
