package genotype

import (
	"fmt"
	"strings"
)

// Genome holds one direction per pixel, row-major.
type Genome []Direction

func (g Genome) Clone() Genome {
	out := make(Genome, len(g))
	copy(out, g)
	return out
}

// String renders the genome as one symbol per gene (N, U, D, L, R).
func (g Genome) String() string {
	var b strings.Builder
	b.Grow(len(g))
	for _, d := range g {
		b.WriteByte(d.Symbol())
	}
	return b.String()
}

// ParseGenome is the inverse of Genome.String. When area is positive the
// decoded length must match it.
func ParseGenome(s string, area int) (Genome, error) {
	if area > 0 && len(s) != area {
		return nil, fmt.Errorf("genome length %d does not match image area %d", len(s), area)
	}
	g := make(Genome, len(s))
	for i := 0; i < len(s); i++ {
		d, err := ParseDirection(s[i])
		if err != nil {
			return nil, fmt.Errorf("gene %d: %w", i, err)
		}
		g[i] = d
	}
	return g, nil
}
