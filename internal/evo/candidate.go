package evo

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"paretoseg/internal/fitness"
	"paretoseg/internal/genotype"
	"paretoseg/internal/imaging"
)

// ErrUnevaluated is carried by the panic raised when objectives or fitness
// are read from a candidate whose genome changed since its last evaluation.
var ErrUnevaluated = errors.New("candidate read before evaluation")

type Evaluation struct {
	Objectives fitness.Objectives `json:"objectives"`
	Fitness    float64            `json:"fitness"`
}

// Candidate owns one genome. Its evaluation is nil while the genome is
// dirty; every genome edit goes through Edit or SetGenome, which clear it.
type Candidate struct {
	ID     string
	genome genotype.Genome
	eval   *Evaluation
}

func NewCandidate(g genotype.Genome) *Candidate {
	return &Candidate{ID: uuid.NewString(), genome: g}
}

// Genome exposes the genes for reading. Callers that change them must use
// Edit instead.
func (c *Candidate) Genome() genotype.Genome {
	return c.genome
}

// Edit marks the candidate dirty and returns its genes for in-place changes.
func (c *Candidate) Edit() genotype.Genome {
	c.eval = nil
	return c.genome
}

func (c *Candidate) SetGenome(g genotype.Genome) {
	c.genome = g
	c.eval = nil
}

func (c *Candidate) Evaluated() bool {
	return c.eval != nil
}

// Evaluate decodes the genome, scores it and clears the dirty state.
func (c *Candidate) Evaluate(gd *imaging.GlobalData, weights fitness.Weights) {
	labels := genotype.Decode(c.genome, gd.Width(), gd.Height())
	objectives := fitness.Evaluate(labels, gd)
	c.eval = &Evaluation{Objectives: objectives, Fitness: weights.Scalarize(objectives)}
}

func (c *Candidate) Evaluation() Evaluation {
	if c.eval == nil {
		panic(fmt.Errorf("%w: candidate %s", ErrUnevaluated, c.ID))
	}
	return *c.eval
}

func (c *Candidate) Objectives() fitness.Objectives {
	return c.Evaluation().Objectives
}

func (c *Candidate) Fitness() float64 {
	return c.Evaluation().Fitness
}

// LabelMap decodes the candidate's regions. It is recomputed on every call.
func (c *Candidate) LabelMap(width, height int) genotype.LabelMap {
	return genotype.Decode(c.genome, width, height)
}

func (c *Candidate) BorderMap(width, height int) []bool {
	return c.LabelMap(width, height).Border()
}

// Clone deep-copies the genome under a fresh id and keeps any evaluation,
// since identical genes score identically.
func (c *Candidate) Clone() *Candidate {
	out := &Candidate{ID: uuid.NewString(), genome: c.genome.Clone()}
	if c.eval != nil {
		eval := *c.eval
		out.eval = &eval
	}
	return out
}

// Population is an ordered set of candidates.
type Population []*Candidate

func (p Population) Clone() Population {
	out := make(Population, len(p))
	for i, c := range p {
		out[i] = c.Clone()
	}
	return out
}

// Pending counts candidates awaiting evaluation.
func (p Population) Pending() int {
	n := 0
	for _, c := range p {
		if !c.Evaluated() {
			n++
		}
	}
	return n
}
