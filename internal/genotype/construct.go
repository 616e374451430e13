package genotype

import (
	"container/heap"
	"math/rand"

	"paretoseg/internal/imaging"
)

// Random draws every gene uniformly from the five direction symbols.
func Random(rng *rand.Rand, width, height int) Genome {
	g := make(Genome, width*height)
	for i := range g {
		g[i] = Directions[rng.Intn(len(Directions))]
	}
	return g
}

// MinimumSpanningTree grows a Prim spanning tree over the 4-connected
// pixel grid from a random root, weighting edges by colour distance. Each
// tree edge becomes a gene pointing from the child to its parent; the
// root keeps None.
func MinimumSpanningTree(rng *rand.Rand, near *imaging.NeighborTable) Genome {
	width, height := near.Width(), near.Height()
	n := width * height
	g := make(Genome, n)
	if n == 0 {
		return g
	}
	visited := make([]bool, n)
	root := rng.Intn(n)
	visited[root] = true

	pq := &treeEdgePQ{}
	heap.Init(pq)
	pushFrontier(pq, near, root, visited)

	for pq.Len() > 0 {
		e := heap.Pop(pq).(treeEdge)
		if visited[e.child] {
			continue
		}
		visited[e.child] = true
		g[e.child] = e.toParent
		pushFrontier(pq, near, e.child, visited)
	}
	return g
}

func pushFrontier(pq *treeEdgePQ, near *imaging.NeighborTable, parent int, visited []bool) {
	for _, d := range Moves {
		child, ok := Step(parent, d, near.Width(), near.Height())
		if !ok || visited[child] {
			continue
		}
		dRow, dCol := d.Offset()
		heap.Push(pq, treeEdge{
			child:    child,
			toParent: d.Opposite(),
			weight:   near.At(parent, dRow, dCol),
		})
	}
}

type treeEdge struct {
	child    int
	toParent Direction
	weight   float64
}

// treeEdgePQ is a min-heap of candidate tree edges ordered by weight.
type treeEdgePQ []treeEdge

func (pq treeEdgePQ) Len() int           { return len(pq) }
func (pq treeEdgePQ) Less(i, j int) bool { return pq[i].weight < pq[j].weight }
func (pq treeEdgePQ) Swap(i, j int)      { pq[i], pq[j] = pq[j], pq[i] }

func (pq *treeEdgePQ) Push(x any) { *pq = append(*pq, x.(treeEdge)) }

func (pq *treeEdgePQ) Pop() any {
	old := *pq
	n := len(old)
	e := old[n-1]
	*pq = old[:n-1]
	return e
}
