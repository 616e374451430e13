package imaging

import (
	"fmt"
	"math/rand"
)

type GlobalOptions struct {
	// Wide builds the 7x7 distance table.
	Wide bool
	// EdgeBias builds the edge-weighted pixel sampler.
	EdgeBias bool
}

// GlobalData is the immutable per-run context shared by every operator.
// Nothing mutates it after NewGlobalData returns, so concurrent readers
// need no locking.
type GlobalData struct {
	Image   *Image
	Near    *NeighborTable
	Wide    *NeighborTable
	sampler *Sampler
}

func NewGlobalData(img *Image, opts GlobalOptions) (*GlobalData, error) {
	near, err := NewNeighborTable(img, NearRadius)
	if err != nil {
		return nil, err
	}
	gd := &GlobalData{Image: img, Near: near}
	if opts.Wide {
		if gd.Wide, err = NewNeighborTable(img, WideRadius); err != nil {
			return nil, err
		}
	}
	if opts.EdgeBias {
		gd.sampler = NewSampler(EdgeWeights(near))
	}
	return gd, nil
}

func (g *GlobalData) Width() int  { return g.Image.Width }
func (g *GlobalData) Height() int { return g.Image.Height }
func (g *GlobalData) Area() int   { return g.Image.Area() }

func (g *GlobalData) HasEdgeBias() bool { return g.sampler != nil }

// RandomPixel picks a pixel uniformly, or from the edge-weighted
// distribution when edgeBiased is set.
func (g *GlobalData) RandomPixel(rng *rand.Rand, edgeBiased bool) int {
	if edgeBiased {
		if g.sampler == nil {
			panic(fmt.Errorf("edge-biased sampling requested but no sampler was built"))
		}
		return g.sampler.Sample(rng)
	}
	return rng.Intn(g.Area())
}
