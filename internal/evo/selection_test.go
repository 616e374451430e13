package evo

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func objectivesOf(pop Population) [][3]float64 {
	out := make([][3]float64, len(pop))
	for i, c := range pop {
		o := c.Objectives()
		out[i] = [3]float64{o.EdgeValue, o.Connectivity, o.Deviation}
	}
	return out
}

func TestRouletteEqualFitnessReturnsPopulationUnchanged(t *testing.T) {
	pop := Population{scored(1, 2, 3, 7), scored(4, 5, 6, 7), scored(7, 8, 9, 7)}
	got, err := RouletteSelector{}.Select(rand.New(rand.NewSource(1)), pop, len(pop))
	require.NoError(t, err)
	assert.Equal(t, objectivesOf(pop), objectivesOf(got))
}

func TestRouletteNeverPicksWorst(t *testing.T) {
	worst := scored(0, 0, 0, -10)
	pop := Population{worst, scored(0, 0, 0, 5), scored(0, 0, 0, 10)}
	got, err := RouletteSelector{}.Select(rand.New(rand.NewSource(3)), pop, 200)
	require.NoError(t, err)
	require.Len(t, got, 200)
	for _, c := range got {
		assert.NotEqual(t, -10.0, c.Fitness())
	}
}

func TestTournamentPrefersSkyline(t *testing.T) {
	best := scored(100, 0, 0, 0)
	pop := Population{best, scored(1, 9, 9, 0), scored(2, 8, 8, 0), scored(3, 7, 7, 0)}
	got, err := TournamentSelector{Size: 4, Probability: 1}.Select(rand.New(rand.NewSource(5)), pop, 50)
	require.NoError(t, err)
	require.Len(t, got, 50)
	bestHits := 0
	for _, c := range got {
		assert.NotSame(t, best, c)
		if c.Objectives() == best.Objectives() {
			bestHits++
		}
	}
	// A sample that misses the best member still picks its own skyline.
	assert.Greater(t, bestHits, 20)
}

func TestTournamentZeroProbabilityAvoidsSkylineWhenPossible(t *testing.T) {
	pop := Population{scored(10, 0, 0, 0), scored(1, 5, 5, 0)}
	rng := rand.New(rand.NewSource(8))
	got, err := TournamentSelector{Size: 2, Probability: 0}.Select(rng, pop, 100)
	require.NoError(t, err)
	// A sample holding both ranks must yield the dominated one; a sample
	// with a single rank yields that rank.
	worse := 0
	for _, c := range got {
		if c.Objectives().EdgeValue == 1 {
			worse++
		}
	}
	assert.Greater(t, worse, 50)
}

func TestWeightedTournament(t *testing.T) {
	pop := Population{scored(0, 0, 0, 1), scored(0, 0, 0, 9), scored(0, 0, 0, 3)}
	got, err := WeightedTournamentSelector{Size: 3, Probability: 1}.Select(rand.New(rand.NewSource(2)), pop, 200)
	require.NoError(t, err)
	highs := 0
	for _, c := range got {
		if c.Fitness() == 9 {
			highs++
		}
	}
	assert.Greater(t, highs, 100)

	single, err := WeightedTournamentSelector{Size: 1, Probability: 0}.Select(rand.New(rand.NewSource(2)), pop, 5)
	require.NoError(t, err)
	assert.Len(t, single, 5)
}

func TestPassThroughAndFullReplacement(t *testing.T) {
	parents := Population{scored(1, 0, 0, 0), scored(2, 0, 0, 0)}
	children := Population{scored(3, 0, 0, 0), scored(4, 0, 0, 0)}
	rng := rand.New(rand.NewSource(1))

	got, err := PassThroughSelector{}.Select(rng, parents, 2)
	require.NoError(t, err)
	assert.Equal(t, objectivesOf(parents), objectivesOf(got))

	pool := append(append(Population{}, parents...), children...)
	got, err = FullReplacementSelector{}.Select(rng, pool, 2)
	require.NoError(t, err)
	assert.Equal(t, objectivesOf(children), objectivesOf(got))

	_, err = FullReplacementSelector{}.Select(rng, children, 3)
	assert.Error(t, err)
}

func TestNSGA2AdmitsWholeFrontsThenCrowding(t *testing.T) {
	front0 := Population{scored(10, 1, 1, 0), scored(9, 0.5, 1, 0)}
	front1 := Population{
		scored(5, 2, 2, 0),
		scored(4, 1.5, 2, 0),
		scored(4.5, 1.8, 2, 0),
		scored(3, 1.2, 2, 0),
	}
	front2 := Population{scored(1, 9, 9, 0)}
	pool := Population{front1[0], front2[0], front0[0], front1[1], front1[2], front0[1], front1[3]}

	got, err := NSGA2Selector{}.Select(rand.New(rand.NewSource(1)), pool, 4)
	require.NoError(t, err)
	require.Len(t, got, 4)

	objs := objectivesOf(got)
	assert.Contains(t, objs, [3]float64{10, 1, 1})
	assert.Contains(t, objs, [3]float64{9, 0.5, 1})
	// Front 1's extremes on edge value and connectivity.
	assert.Contains(t, objs, [3]float64{5, 2, 2})
	assert.Contains(t, objs, [3]float64{3, 1.2, 2})
	assert.NotContains(t, objs, [3]float64{1, 9, 9})
}

func TestSelectorsRejectBadArguments(t *testing.T) {
	selectors := []Selector{
		TournamentSelector{Size: 2, Probability: 0.5},
		WeightedTournamentSelector{Size: 2, Probability: 0.5},
		RouletteSelector{},
		PassThroughSelector{},
		FullReplacementSelector{},
		NSGA2Selector{},
	}
	for _, s := range selectors {
		_, err := s.Select(nil, Population{scored(1, 1, 1, 1)}, 1)
		assert.Error(t, err, s.Name())
		_, err = s.Select(rand.New(rand.NewSource(1)), nil, 1)
		assert.Error(t, err, s.Name())
	}
}
