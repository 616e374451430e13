package evo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"paretoseg/internal/imaging"
	"paretoseg/internal/model"
)

func runMonitor(t *testing.T, cfg Config, opts imaging.GlobalOptions) RunResult {
	t.Helper()
	plan, err := Compile(cfg)
	require.NoError(t, err)
	gd := blocks(t, 8, 6, opts)
	var seen []model.GenerationDiagnostics
	monitor, err := NewPopulationMonitor(MonitorConfig{
		Plan:         plan,
		Global:       gd,
		Workers:      2,
		Seed:         42,
		OnGeneration: func(d model.GenerationDiagnostics) { seen = append(seen, d) },
	})
	require.NoError(t, err)

	result, err := monitor.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, result.Final, cfg.PopulationSize)
	require.Len(t, result.Diagnostics, cfg.Generations+1)
	assert.Equal(t, result.Diagnostics, seen)
	assert.Zero(t, result.Final.Pending())
	assert.NotEmpty(t, result.Skyline())
	for i, d := range result.Diagnostics {
		assert.Equal(t, i, d.Generation)
		assert.Positive(t, d.SkylineSize)
		assert.LessOrEqual(t, d.EdgeValueMin, d.EdgeValueMax)
		assert.LessOrEqual(t, d.FingerprintDiversity, cfg.PopulationSize)
	}
	return result
}

func TestPopulationMonitorNSGA2(t *testing.T) {
	runMonitor(t, baseConfig(), imaging.GlobalOptions{})
}

func TestPopulationMonitorWeightedWithSkyline(t *testing.T) {
	cfg := baseConfig()
	cfg.Initialization = InitMST
	cfg.PreserveSkyline = true
	cfg.ParentSelection = SelectionConfig{Name: SelectTournamentWeighted, TournamentSize: ptr(3), Probability: ptr(0.7)}
	cfg.SurvivorSelection = SelectionConfig{Name: SelectRouletteWeighted, CombineParentsAndOffspring: true}
	cfg.Mutations = []VariationConfig{
		{Name: "flip_one_bit", Probability: 0.3, EdgeBiased: true},
		{Name: "flip_to_biggest_segment", Probability: 0.2},
		{Name: "flip_to_smallest_segment", Probability: 0.2},
		{Name: "flip_to_smallest_deviation", Probability: 0.2, SearchRadius: 3},
		{Name: "eat_similar", Probability: 0.2, DepthFraction: 0.2},
		{Name: "destroy_small_segments", Probability: 0.2, MinCoverage: 0.05},
	}
	plan, err := Compile(cfg)
	require.NoError(t, err)
	runMonitor(t, cfg, plan.GlobalOptions())
}

func TestPopulationMonitorFullReplacement(t *testing.T) {
	cfg := baseConfig()
	cfg.Generations = 2
	cfg.ParentSelection = SelectionConfig{Name: SelectNone}
	cfg.SurvivorSelection = SelectionConfig{Name: SelectFullReplacement}
	cfg.Crossovers = []VariationConfig{{Name: "one_point", Probability: 1}}
	runMonitor(t, cfg, imaging.GlobalOptions{})
}

func TestPopulationMonitorZeroGenerations(t *testing.T) {
	cfg := baseConfig()
	cfg.Generations = 0
	result := runMonitor(t, cfg, imaging.GlobalOptions{})
	assert.Equal(t, cfg.PopulationSize, result.Diagnostics[0].Evaluations)
}

func TestPopulationMonitorIsDeterministic(t *testing.T) {
	a := runMonitor(t, baseConfig(), imaging.GlobalOptions{})
	b := runMonitor(t, baseConfig(), imaging.GlobalOptions{})
	assert.Equal(t, a.Diagnostics, b.Diagnostics)
}

func TestPopulationMonitorCombineKeepsObjectiveExtremes(t *testing.T) {
	cfg := baseConfig()
	cfg.PopulationSize = 10
	cfg.Generations = 3
	cfg.ParentSelection = SelectionConfig{Name: SelectTournament, TournamentSize: ptr(1), Probability: ptr(1.0)}
	cfg.Crossovers = nil
	cfg.Mutations = nil
	plan, err := Compile(cfg)
	require.NoError(t, err)
	gd := blocks(t, 8, 6, imaging.GlobalOptions{})

	for seed := int64(0); seed < 40; seed++ {
		monitor, err := NewPopulationMonitor(MonitorConfig{Plan: plan, Global: gd, Workers: 2, Seed: seed})
		require.NoError(t, err)
		result, err := monitor.Run(context.Background())
		require.NoError(t, err)
		for g := 1; g < len(result.Diagnostics); g++ {
			prev, next := result.Diagnostics[g-1], result.Diagnostics[g]
			require.GreaterOrEqual(t, next.EdgeValueMax, prev.EdgeValueMax, "seed %d generation %d", seed, g)
			require.LessOrEqual(t, next.ConnectivityMin, prev.ConnectivityMin, "seed %d generation %d", seed, g)
			require.LessOrEqual(t, next.DeviationMin, prev.DeviationMin, "seed %d generation %d", seed, g)
		}
	}
}

func TestNewPopulationMonitorValidation(t *testing.T) {
	plan, err := Compile(baseConfig())
	require.NoError(t, err)
	_, err = NewPopulationMonitor(MonitorConfig{Global: blocks(t, 2, 2, imaging.GlobalOptions{})})
	assert.Error(t, err)
	_, err = NewPopulationMonitor(MonitorConfig{Plan: plan})
	assert.Error(t, err)

	cfg := baseConfig()
	cfg.Mutations = []VariationConfig{{Name: "flip_one_bit", Probability: 0.1, EdgeBiased: true}}
	edgePlan, err := Compile(cfg)
	require.NoError(t, err)
	_, err = NewPopulationMonitor(MonitorConfig{Plan: edgePlan, Global: blocks(t, 2, 2, imaging.GlobalOptions{})})
	assert.Error(t, err)
}

func TestPopulationMonitorCancelled(t *testing.T) {
	plan, err := Compile(baseConfig())
	require.NoError(t, err)
	monitor, err := NewPopulationMonitor(MonitorConfig{Plan: plan, Global: blocks(t, 4, 4, imaging.GlobalOptions{})})
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = monitor.Run(ctx)
	assert.Error(t, err)
}

func TestSummarize(t *testing.T) {
	pop := Population{scored(10, 2, 3, 5), scored(12, 1, 4, 7), scored(1, 9, 9, -3)}
	for _, c := range pop {
		c.genome = uniformGenome(4, 0)
	}
	pop[2].genome[0] = 1
	d := Summarize(4, pop, NonDominatedSort(pop), 2, 2)
	assert.Equal(t, 4, d.Generation)
	assert.Equal(t, 2, d.SkylineSize)
	assert.Equal(t, 2, d.FrontCount)
	assert.Equal(t, 10.0, d.EdgeValueMin)
	assert.Equal(t, 12.0, d.EdgeValueMax)
	assert.InDelta(t, 11.0, d.EdgeValueMean, 1e-12)
	assert.Equal(t, 7.0, d.BestFitness)
	assert.InDelta(t, 3.0, d.MeanFitness, 1e-12)
	assert.Equal(t, 2, d.FingerprintDiversity)
	assert.Equal(t, 4.0, d.MeanSegments)

	sorted := SortByFitness(pop)
	assert.Equal(t, 7.0, sorted[0].Fitness())
}
