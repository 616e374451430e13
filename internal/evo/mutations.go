package evo

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/stat"

	"paretoseg/internal/genotype"
	"paretoseg/internal/imaging"
)

// FlipOneBit overwrites one gene with a different direction symbol. Moves
// leading off the image are never written.
type FlipOneBit struct {
	EdgeBiased bool
}

func (FlipOneBit) Name() string { return "flip_one_bit" }

func (m FlipOneBit) Mutate(rng *rand.Rand, g genotype.Genome, gd *imaging.GlobalData) {
	idx := gd.RandomPixel(rng, m.EdgeBiased)
	options := make([]genotype.Direction, 0, len(genotype.Directions))
	if g[idx] != genotype.None {
		options = append(options, genotype.None)
	}
	for _, d := range genotype.Moves {
		if d == g[idx] {
			continue
		}
		if _, ok := genotype.Step(idx, d, gd.Width(), gd.Height()); ok {
			options = append(options, d)
		}
	}
	if len(options) == 0 {
		return
	}
	g[idx] = options[rng.Intn(len(options))]
}

// FlipToSegment points one pixel at the orthogonal neighbour whose region
// is largest, or smallest when Biggest is false.
type FlipToSegment struct {
	Biggest    bool
	EdgeBiased bool
}

func (m FlipToSegment) Name() string {
	if m.Biggest {
		return "flip_to_biggest_segment"
	}
	return "flip_to_smallest_segment"
}

func (m FlipToSegment) Mutate(rng *rand.Rand, g genotype.Genome, gd *imaging.GlobalData) {
	w, h := gd.Width(), gd.Height()
	labels := genotype.Decode(g, w, h)
	sizes := labels.Sizes()
	idx := gd.RandomPixel(rng, m.EdgeBiased)

	chosen := genotype.None
	chosenSize := 0
	for _, d := range genotype.Moves {
		next, ok := genotype.Step(idx, d, w, h)
		if !ok {
			continue
		}
		size := sizes[labels.Labels[next]]
		if chosen == genotype.None || (m.Biggest && size > chosenSize) || (!m.Biggest && size < chosenSize) {
			chosen, chosenSize = d, size
		}
	}
	if chosen != genotype.None {
		g[idx] = chosen
	}
}

// FlipToSmallestDeviation points one pixel in the direction whose next
// Radius pixels are, on average, closest in colour.
type FlipToSmallestDeviation struct {
	Radius     int
	EdgeBiased bool
}

func (FlipToSmallestDeviation) Name() string { return "flip_to_smallest_deviation" }

func (m FlipToSmallestDeviation) Mutate(rng *rand.Rand, g genotype.Genome, gd *imaging.GlobalData) {
	table := gd.Near
	if m.Radius > table.Radius {
		if gd.Wide == nil {
			panic("flip_to_smallest_deviation: wide distance table was not built")
		}
		table = gd.Wide
	}
	radius := min(max(m.Radius, 1), table.Radius)

	w, h := gd.Width(), gd.Height()
	idx := gd.RandomPixel(rng, m.EdgeBiased)
	row, col := idx/w, idx%w

	chosen := genotype.None
	best := math.Inf(1)
	for _, d := range genotype.Moves {
		dRow, dCol := d.Offset()
		sum, n := 0.0, 0
		for s := 1; s <= radius; s++ {
			r, c := row+s*dRow, col+s*dCol
			if r < 0 || r >= h || c < 0 || c >= w {
				break
			}
			sum += table.At(idx, s*dRow, s*dCol)
			n++
		}
		if n == 0 {
			continue
		}
		if avg := sum / float64(n); avg < best {
			chosen, best = d, avg
		}
	}
	if chosen != genotype.None {
		g[idx] = chosen
	}
}

const (
	eatSimilarCeilingMin  = 5.0
	eatSimilarCeilingSpan = 25.0
)

const (
	cellUnseen uint8 = iota
	cellAccepted
	cellRejected
)

// EatSimilar grows the region around a chosen pixel by breadth-first
// search, pulling in neighbours whose colour sits within the region's
// per-channel standard deviation, capped by a random ceiling. At most
// DepthFraction of the image is absorbed. Rejected pixels left with only
// absorbed neighbours are pulled in too.
type EatSimilar struct {
	DepthFraction float64
	EdgeBiased    bool
}

func (EatSimilar) Name() string { return "eat_similar" }

func (m EatSimilar) Mutate(rng *rand.Rand, g genotype.Genome, gd *imaging.GlobalData) {
	w, h := gd.Width(), gd.Height()
	img := gd.Image
	start := gd.RandomPixel(rng, m.EdgeBiased)
	labels := genotype.Decode(g, w, h)

	own := labels.Labels[start]
	var channels [3][]float64
	for idx, l := range labels.Labels {
		if l != own {
			continue
		}
		p := img.Pix[idx]
		channels[0] = append(channels[0], float64(p.R))
		channels[1] = append(channels[1], float64(p.G))
		channels[2] = append(channels[2], float64(p.B))
	}
	ceiling := eatSimilarCeilingMin + rng.Float64()*eatSimilarCeilingSpan
	var mean, tolerance [3]float64
	for ch := range channels {
		mu, variance := stat.PopMeanVariance(channels[ch], nil)
		mean[ch] = mu
		tolerance[ch] = math.Min(math.Sqrt(variance), ceiling)
	}
	similar := func(idx int) bool {
		p := img.Pix[idx]
		return math.Abs(float64(p.R)-mean[0]) <= tolerance[0] &&
			math.Abs(float64(p.G)-mean[1]) <= tolerance[1] &&
			math.Abs(float64(p.B)-mean[2]) <= tolerance[2]
	}

	limit := max(1, int(m.DepthFraction*float64(gd.Area())))
	state := make([]uint8, gd.Area())
	state[start] = cellAccepted
	queue := []int{start}
	var refused []int
	neighbors := make([]int, 0, 4)
	grown := 0

	for head := 0; head < len(queue) && grown < limit; head++ {
		frontier := queue[head]
		neighbors = genotype.OrthogonalNeighbors(neighbors[:0], frontier, w, h)
		for _, n := range neighbors {
			if state[n] != cellUnseen {
				continue
			}
			if !similar(n) {
				state[n] = cellRejected
				refused = append(refused, n)
				continue
			}
			state[n] = cellAccepted
			g[n], _ = genotype.DirectionTo(n, frontier, w)
			queue = append(queue, n)
			grown++
			if grown >= limit {
				break
			}
		}
	}

	for _, r := range refused {
		neighbors = genotype.OrthogonalNeighbors(neighbors[:0], r, w, h)
		isolated := len(neighbors) > 0
		for _, n := range neighbors {
			if state[n] != cellAccepted {
				isolated = false
				break
			}
		}
		if isolated {
			g[r], _ = genotype.DirectionTo(r, neighbors[0], w)
		}
	}
}

// DestroySmallSegments re-points every region covering less than
// MinCoverage of the image in one random direction, walking outward from
// the region's root, so it fuses with whatever lies that way.
type DestroySmallSegments struct {
	MinCoverage float64
}

func (DestroySmallSegments) Name() string { return "destroy_small_segments" }

func (m DestroySmallSegments) Mutate(rng *rand.Rand, g genotype.Genome, gd *imaging.GlobalData) {
	w, h := gd.Width(), gd.Height()
	area := float64(gd.Area())
	labels := genotype.Decode(g, w, h)
	members := labels.Members()
	seen := make([]bool, len(g))
	neighbors := make([]int, 0, 4)

	for l := 1; l < len(members); l++ {
		if float64(len(members[l]))/area >= m.MinCoverage {
			continue
		}
		root := chainRoot(g, members[l][0], w, h)
		d := genotype.Moves[rng.Intn(len(genotype.Moves))]

		seen[root] = true
		queue := []int{root}
		for head := 0; head < len(queue); head++ {
			p := queue[head]
			g[p] = d
			neighbors = genotype.OrthogonalNeighbors(neighbors[:0], p, w, h)
			for _, n := range neighbors {
				if !seen[n] && labels.Labels[n] == l {
					seen[n] = true
					queue = append(queue, n)
				}
			}
		}
	}
}

// chainRoot follows pointers from idx until a None gene, a move off the
// image, or a revisited pixel.
func chainRoot(g genotype.Genome, idx, width, height int) int {
	visited := map[int]struct{}{idx: {}}
	for {
		next, ok := genotype.Step(idx, g[idx], width, height)
		if !ok {
			return idx
		}
		if _, loop := visited[next]; loop {
			return idx
		}
		visited[next] = struct{}{}
		idx = next
	}
}
