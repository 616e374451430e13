package evo

import (
	"math"
	"sort"

	"paretoseg/internal/fitness"
)

// Dominates reports whether a is at least as good as b on every objective
// and strictly better on one. Edge value is maximized, the rest minimized.
func Dominates(a, b fitness.Objectives) bool {
	if a.EdgeValue < b.EdgeValue || a.Connectivity > b.Connectivity || a.Deviation > b.Deviation {
		return false
	}
	return a.EdgeValue > b.EdgeValue || a.Connectivity < b.Connectivity || a.Deviation < b.Deviation
}

// NonDominatedSort partitions pop into ranked fronts. Front 0 is the
// skyline; each later front is non-dominated once earlier fronts are
// removed. Input order is kept inside each front.
func NonDominatedSort(pop Population) []Population {
	objectives := make([]fitness.Objectives, len(pop))
	for i, c := range pop {
		objectives[i] = c.Objectives()
	}

	remaining := make([]int, len(pop))
	for i := range remaining {
		remaining[i] = i
	}

	var fronts []Population
	for len(remaining) > 0 {
		var front Population
		var rest []int
		for _, i := range remaining {
			dominated := false
			for _, j := range remaining {
				if i != j && Dominates(objectives[j], objectives[i]) {
					dominated = true
					break
				}
			}
			if dominated {
				rest = append(rest, i)
			} else {
				front = append(front, pop[i])
			}
		}
		fronts = append(fronts, front)
		remaining = rest
	}
	return fronts
}

var objectiveAccessors = [...]func(fitness.Objectives) float64{
	func(o fitness.Objectives) float64 { return o.EdgeValue },
	func(o fitness.Objectives) float64 { return o.Connectivity },
	func(o fitness.Objectives) float64 { return o.Deviation },
}

// CrowdingDistance returns one distance per front member. Per objective,
// the two extremes get +Inf and interior members add the gap between their
// neighbours normalized by the objective's range on the front.
func CrowdingDistance(front Population) []float64 {
	n := len(front)
	distances := make([]float64, n)
	if n == 0 {
		return distances
	}
	if n <= 2 {
		for i := range distances {
			distances[i] = math.Inf(1)
		}
		return distances
	}

	objectives := make([]fitness.Objectives, n)
	for i, c := range front {
		objectives[i] = c.Objectives()
	}
	order := make([]int, n)
	for _, value := range objectiveAccessors {
		for i := range order {
			order[i] = i
		}
		sort.SliceStable(order, func(a, b int) bool {
			return value(objectives[order[a]]) < value(objectives[order[b]])
		})
		distances[order[0]] = math.Inf(1)
		distances[order[n-1]] = math.Inf(1)

		spread := value(objectives[order[n-1]]) - value(objectives[order[0]])
		if spread == 0 {
			continue
		}
		for k := 1; k < n-1; k++ {
			gap := value(objectives[order[k+1]]) - value(objectives[order[k-1]])
			distances[order[k]] += gap / spread
		}
	}
	return distances
}

// TruncateByCrowding keeps the k members with the largest crowding
// distance, preserving their original order.
func TruncateByCrowding(front Population, k int) Population {
	if k >= len(front) {
		return append(Population(nil), front...)
	}
	if k <= 0 {
		return nil
	}
	distances := CrowdingDistance(front)
	order := make([]int, len(front))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return distances[order[a]] > distances[order[b]]
	})
	keep := order[:k]
	sort.Ints(keep)
	out := make(Population, 0, k)
	for _, i := range keep {
		out = append(out, front[i])
	}
	return out
}
