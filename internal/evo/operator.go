package evo

import (
	"math/rand"

	"paretoseg/internal/genotype"
	"paretoseg/internal/imaging"
)

// Crossover recombines two equal-length genomes in place.
type Crossover interface {
	Name() string
	Cross(rng *rand.Rand, a, b genotype.Genome)
}

// Mutation rewrites genes of one genome in place. The shared image data is
// read-only.
type Mutation interface {
	Name() string
	Mutate(rng *rand.Rand, g genotype.Genome, gd *imaging.GlobalData)
}
