package evo

import (
	"context"
	"fmt"
	"math/rand"

	"paretoseg/internal/imaging"
)

type crossoverStep struct {
	op   Crossover
	rate float64
}

type mutationStep struct {
	op   Mutation
	rate float64
}

// Plan is a validated configuration with every operator name resolved.
// It exposes one entry point per phase of a generation.
type Plan struct {
	cfg        Config
	newGenome  genomeFactory
	parent     Selector
	survivor   Selector
	crossovers []crossoverStep
	mutations  []mutationStep
	globalOpts imaging.GlobalOptions
}

// Compile validates cfg and resolves its operators. Every error wraps
// ErrUnsupportedOperator or ErrInvalidConfig and names the offending key.
func Compile(cfg Config) (*Plan, error) {
	if err := cfg.validateShape(); err != nil {
		return nil, err
	}
	p := &Plan{cfg: cfg}

	var err error
	if p.newGenome, err = resolveInitialization(cfg.Initialization); err != nil {
		return nil, err
	}
	if p.parent, err = resolveSelector(KindParentSelection, cfg.ParentSelection); err != nil {
		return nil, err
	}
	if p.survivor, err = resolveSelector(KindSurvivorSelection, cfg.SurvivorSelection); err != nil {
		return nil, err
	}

	if cfg.PreserveSkyline {
		if cfg.ParentSelection.Name == SelectNone {
			return nil, invalid("preserve_skyline", "incompatible with parent_selection %q", SelectNone)
		}
		switch cfg.SurvivorSelection.Name {
		case SelectFullReplacement, SelectNSGA2:
			return nil, invalid("preserve_skyline", "incompatible with survivor_selection %q", cfg.SurvivorSelection.Name)
		}
	}
	if cfg.SurvivorSelection.Name == SelectNSGA2 && !cfg.SurvivorSelection.CombineParentsAndOffspring {
		return nil, invalid("survivor_selection.combine_parents_and_offspring", "%s requires combining parents and offspring", SelectNSGA2)
	}

	for i, c := range cfg.Crossovers {
		op, err := resolveCrossover(fmt.Sprintf("%s[%d]", KindCrossover, i), c)
		if err != nil {
			return nil, err
		}
		p.crossovers = append(p.crossovers, crossoverStep{op: op, rate: c.Probability})
	}
	for i, c := range cfg.Mutations {
		op, err := resolveMutation(fmt.Sprintf("%s[%d]", KindMutation, i), c)
		if err != nil {
			return nil, err
		}
		p.mutations = append(p.mutations, mutationStep{op: op, rate: c.Probability})
		if c.EdgeBiased {
			p.globalOpts.EdgeBias = true
		}
		if c.Name == "flip_to_smallest_deviation" && c.SearchRadius > imaging.NearRadius {
			p.globalOpts.Wide = true
		}
	}
	return p, nil
}

func (p *Plan) Config() Config { return p.cfg }

// GlobalOptions reports which optional lookup tables the operators need.
func (p *Plan) GlobalOptions() imaging.GlobalOptions { return p.globalOpts }

// InitializePopulation builds population_size genomes with the configured
// method and evaluates them.
func (p *Plan) InitializePopulation(ctx context.Context, rng *rand.Rand, gd *imaging.GlobalData, ev *Evaluator) (Population, error) {
	pop := make(Population, p.cfg.PopulationSize)
	for i := range pop {
		pop[i] = NewCandidate(p.newGenome(rng, gd))
	}
	if _, err := ev.EvaluatePending(ctx, pop); err != nil {
		return nil, err
	}
	return pop, nil
}

// Rank sorts pop into Pareto fronts.
func (p *Plan) Rank(pop Population) []Population {
	return NonDominatedSort(pop)
}

// SelectParents returns population_size clones to breed from, led by the
// skyline when preservation is on.
func (p *Plan) SelectParents(rng *rand.Rand, pop Population) (Population, error) {
	n := p.cfg.PopulationSize
	var out Population
	if p.cfg.PreserveSkyline {
		skyline, _ := carveSkyline(pop, n)
		out = skyline.Clone()
	}
	if rest := n - len(out); rest > 0 {
		picks, err := p.parent.Select(rng, pop, rest)
		if err != nil {
			return nil, fmt.Errorf("parent selection %s: %w", p.parent.Name(), err)
		}
		out = append(out, picks...)
	}
	return out, nil
}

// ApplyCrossover runs every crossover entry ceil(population_size*rate)
// times on two distinct random children. It returns the number of runs.
func (p *Plan) ApplyCrossover(rng *rand.Rand, children Population) int {
	if len(children) < 2 {
		return 0
	}
	runs := 0
	for _, step := range p.crossovers {
		for t := applications(p.cfg.PopulationSize, step.rate); t > 0; t-- {
			i := rng.Intn(len(children))
			j := rng.Intn(len(children) - 1)
			if j >= i {
				j++
			}
			step.op.Cross(rng, children[i].Edit(), children[j].Edit())
			runs++
		}
	}
	return runs
}

// ApplyMutation runs every mutation entry ceil(population_size*rate) times
// on a random child. It returns the number of runs.
func (p *Plan) ApplyMutation(rng *rand.Rand, children Population, gd *imaging.GlobalData) int {
	if len(children) == 0 {
		return 0
	}
	runs := 0
	for _, step := range p.mutations {
		for t := applications(p.cfg.PopulationSize, step.rate); t > 0; t-- {
			step.op.Mutate(rng, children[rng.Intn(len(children))].Edit(), gd)
			runs++
		}
	}
	return runs
}

// SelectSurvivors picks the next population from the offspring, or from
// the current population and offspring together when combining is
// configured. Every member of the pool must be evaluated.
func (p *Plan) SelectSurvivors(rng *rand.Rand, current, children Population) (Population, error) {
	n := p.cfg.PopulationSize
	pool := children
	if p.cfg.SurvivorSelection.CombineParentsAndOffspring {
		pool = make(Population, 0, len(current)+len(children))
		pool = append(pool, current...)
		pool = append(pool, children...)
	}

	var out Population
	source := pool
	if p.cfg.PreserveSkyline {
		skyline, rest := carveSkyline(pool, n)
		out = skyline.Clone()
		if len(rest) > 0 {
			source = rest
		}
	}
	if rest := n - len(out); rest > 0 {
		picks, err := p.survivor.Select(rng, source, rest)
		if err != nil {
			return nil, fmt.Errorf("survivor selection %s: %w", p.survivor.Name(), err)
		}
		out = append(out, picks...)
	}
	return out, nil
}

// carveSkyline splits pool into its skyline, trimmed by crowding distance
// to at most limit members, and everything else.
func carveSkyline(pool Population, limit int) (skyline, rest Population) {
	if len(pool) == 0 {
		return nil, nil
	}
	skyline = TruncateByCrowding(NonDominatedSort(pool)[0], limit)
	kept := make(map[*Candidate]struct{}, len(skyline))
	for _, c := range skyline {
		kept[c] = struct{}{}
	}
	for _, c := range pool {
		if _, ok := kept[c]; !ok {
			rest = append(rest, c)
		}
	}
	return skyline, rest
}
