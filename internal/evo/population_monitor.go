package evo

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"paretoseg/internal/genotype"
	"paretoseg/internal/imaging"
	"paretoseg/internal/model"
)

type MonitorConfig struct {
	Plan    *Plan
	Global  *imaging.GlobalData
	Workers int
	Seed    int64
	Logger  *slog.Logger
	// OnGeneration, when set, receives each generation's diagnostics as
	// soon as they are computed.
	OnGeneration func(model.GenerationDiagnostics)
}

type RunResult struct {
	Final       Population
	Fronts      []Population
	Diagnostics []model.GenerationDiagnostics
}

// Skyline is the first front of the final population.
func (r RunResult) Skyline() Population {
	if len(r.Fronts) == 0 {
		return nil
	}
	return r.Fronts[0]
}

// PopulationMonitor drives the generational loop: rank, select parents,
// cross, mutate, evaluate, select survivors.
type PopulationMonitor struct {
	cfg       MonitorConfig
	rng       *rand.Rand
	evaluator *Evaluator
	log       *slog.Logger
}

func NewPopulationMonitor(cfg MonitorConfig) (*PopulationMonitor, error) {
	if cfg.Plan == nil {
		return nil, fmt.Errorf("plan is required")
	}
	if cfg.Global == nil {
		return nil, fmt.Errorf("global data is required")
	}
	opts := cfg.Plan.GlobalOptions()
	if opts.Wide && cfg.Global.Wide == nil {
		return nil, fmt.Errorf("configured mutations need the wide distance table")
	}
	if opts.EdgeBias && !cfg.Global.HasEdgeBias() {
		return nil, fmt.Errorf("configured mutations need edge-biased pixel weights")
	}
	evaluator, err := NewEvaluator(cfg.Global, cfg.Plan.Config().Weights, cfg.Workers)
	if err != nil {
		return nil, err
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &PopulationMonitor{
		cfg:       cfg,
		rng:       rand.New(rand.NewSource(cfg.Seed)),
		evaluator: evaluator,
		log:       logger,
	}, nil
}

// Run initializes a population and evolves it for the configured number
// of generations. Diagnostics hold one entry per generation plus one for
// the final population.
func (m *PopulationMonitor) Run(ctx context.Context) (RunResult, error) {
	plan := m.cfg.Plan
	generations := plan.Config().Generations

	population, err := plan.InitializePopulation(ctx, m.rng, m.cfg.Global, m.evaluator)
	if err != nil {
		return RunResult{}, fmt.Errorf("initialize population: %w", err)
	}
	evaluations := len(population)
	diagnostics := make([]model.GenerationDiagnostics, 0, generations+1)

	for gen := 0; gen < generations; gen++ {
		if err := ctx.Err(); err != nil {
			return RunResult{}, err
		}
		fronts := plan.Rank(population)
		diagnostics = append(diagnostics, m.record(gen, population, fronts, evaluations))

		parents, err := plan.SelectParents(m.rng, population)
		if err != nil {
			return RunResult{}, fmt.Errorf("generation %d: %w", gen, err)
		}
		children := parents.Clone()
		crossed := plan.ApplyCrossover(m.rng, children)
		mutated := plan.ApplyMutation(m.rng, children, m.cfg.Global)

		evaluations, err = m.evaluator.EvaluatePending(ctx, children)
		if err != nil {
			return RunResult{}, fmt.Errorf("generation %d: evaluate offspring: %w", gen, err)
		}
		m.log.Debug("variation applied",
			"generation", gen,
			"crossovers", crossed,
			"mutations", mutated,
			"evaluations", evaluations,
		)

		population, err = plan.SelectSurvivors(m.rng, population, children)
		if err != nil {
			return RunResult{}, fmt.Errorf("generation %d: %w", gen, err)
		}
	}

	fronts := plan.Rank(population)
	diagnostics = append(diagnostics, m.record(generations, population, fronts, evaluations))
	return RunResult{Final: population, Fronts: fronts, Diagnostics: diagnostics}, nil
}

func (m *PopulationMonitor) record(gen int, pop Population, fronts []Population, evaluations int) model.GenerationDiagnostics {
	d := Summarize(gen, pop, fronts, m.cfg.Global.Width(), m.cfg.Global.Height())
	d.Evaluations = evaluations
	m.log.Info("generation",
		"generation", d.Generation,
		"skyline", d.SkylineSize,
		"fronts", d.FrontCount,
		"edge_min", d.EdgeValueMin, "edge_max", d.EdgeValueMax, "edge_mean", d.EdgeValueMean,
		"conn_min", d.ConnectivityMin, "conn_max", d.ConnectivityMax, "conn_mean", d.ConnectivityMean,
		"dev_min", d.DeviationMin, "dev_max", d.DeviationMax, "dev_mean", d.DeviationMean,
		"best_fitness", d.BestFitness,
		"diversity", d.FingerprintDiversity,
	)
	if m.cfg.OnGeneration != nil {
		m.cfg.OnGeneration(d)
	}
	return d
}

// Summarize computes the statistics of a ranked population. Objective
// ranges and segment counts cover the skyline; fitness and diversity
// cover the whole population.
func Summarize(gen int, pop Population, fronts []Population, width, height int) model.GenerationDiagnostics {
	d := model.GenerationDiagnostics{Generation: gen, FrontCount: len(fronts)}
	if len(pop) == 0 || len(fronts) == 0 {
		return d
	}
	skyline := fronts[0]
	d.SkylineSize = len(skyline)

	edge := make([]float64, len(skyline))
	conn := make([]float64, len(skyline))
	dev := make([]float64, len(skyline))
	segments := make([]float64, len(skyline))
	for i, c := range skyline {
		o := c.Objectives()
		edge[i], conn[i], dev[i] = o.EdgeValue, o.Connectivity, o.Deviation
		segments[i] = float64(c.LabelMap(width, height).Regions())
	}
	d.EdgeValueMin, d.EdgeValueMax, d.EdgeValueMean = floats.Min(edge), floats.Max(edge), stat.Mean(edge, nil)
	d.ConnectivityMin, d.ConnectivityMax, d.ConnectivityMean = floats.Min(conn), floats.Max(conn), stat.Mean(conn, nil)
	d.DeviationMin, d.DeviationMax, d.DeviationMean = floats.Min(dev), floats.Max(dev), stat.Mean(dev, nil)
	d.MeanSegments = stat.Mean(segments, nil)

	fits := make([]float64, len(pop))
	prints := make(map[string]struct{}, len(pop))
	for i, c := range pop {
		fits[i] = c.Fitness()
		prints[genotype.Fingerprint(c.Genome())] = struct{}{}
	}
	d.BestFitness = floats.Max(fits)
	d.MeanFitness = stat.Mean(fits, nil)
	d.FingerprintDiversity = len(prints)
	return d
}

// SortByFitness orders candidates by descending scalar fitness.
func SortByFitness(pop Population) Population {
	out := append(Population(nil), pop...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Fitness() > out[j].Fitness()
	})
	return out
}
