package evo

import (
	"math/rand"
	"slices"

	"paretoseg/internal/genotype"
)

// OnePointCrossover swaps both tails past one random cut.
type OnePointCrossover struct{}

func (OnePointCrossover) Name() string { return "one_point" }

func (OnePointCrossover) Cross(rng *rand.Rand, a, b genotype.Genome) {
	mustSameLength(a, b)
	if len(a) == 0 {
		return
	}
	cut := rng.Intn(len(a))
	for i := cut; i < len(a); i++ {
		a[i], b[i] = b[i], a[i]
	}
}

// NPointCrossover sweeps left to right and switches the donating parent
// each time one of Slices random cuts is crossed. Repeated cuts count once.
type NPointCrossover struct {
	Slices int
}

func (NPointCrossover) Name() string { return "n_point" }

func (c NPointCrossover) Cross(rng *rand.Rand, a, b genotype.Genome) {
	mustSameLength(a, b)
	if len(a) == 0 || c.Slices <= 0 {
		return
	}
	cuts := make([]int, c.Slices)
	for i := range cuts {
		cuts[i] = rng.Intn(len(a))
	}
	slices.Sort(cuts)
	cuts = slices.Compact(cuts)

	swapping := false
	next := 0
	for i := range a {
		for next < len(cuts) && cuts[next] == i {
			swapping = !swapping
			next++
		}
		if swapping {
			a[i], b[i] = b[i], a[i]
		}
	}
}

// UniformCrossover swaps each gene position with probability one half.
type UniformCrossover struct{}

func (UniformCrossover) Name() string { return "uniform" }

func (UniformCrossover) Cross(rng *rand.Rand, a, b genotype.Genome) {
	mustSameLength(a, b)
	for i := range a {
		if rng.Float64() < 0.5 {
			a[i], b[i] = b[i], a[i]
		}
	}
}

func mustSameLength(a, b genotype.Genome) {
	if len(a) != len(b) {
		panic("crossover: parent genomes differ in length")
	}
}
