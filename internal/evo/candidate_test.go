package evo

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"paretoseg/internal/fitness"
	"paretoseg/internal/genotype"
	"paretoseg/internal/imaging"
)

func TestDirtyCandidatePanics(t *testing.T) {
	c := NewCandidate(uniformGenome(4, genotype.None))
	require.False(t, c.Evaluated())

	defer func() {
		r := recover()
		require.NotNil(t, r)
		err, ok := r.(error)
		require.True(t, ok)
		assert.True(t, errors.Is(err, ErrUnevaluated))
	}()
	_ = c.Objectives()
}

func TestEditMarksDirty(t *testing.T) {
	gd := blocks(t, 2, 2, imaging.GlobalOptions{})
	c := NewCandidate(uniformGenome(4, genotype.None))
	c.Evaluate(gd, fitness.Weights{EdgeValue: 1})
	require.True(t, c.Evaluated())
	assert.NotPanics(t, func() { _ = c.Fitness() })

	c.Edit()[0] = genotype.Right
	assert.False(t, c.Evaluated())
	assert.Panics(t, func() { _ = c.Fitness() })

	c.Evaluate(gd, fitness.Weights{EdgeValue: 1})
	c.SetGenome(uniformGenome(4, genotype.Up))
	assert.False(t, c.Evaluated())
}

func TestCloneIsDeep(t *testing.T) {
	gd := blocks(t, 2, 2, imaging.GlobalOptions{})
	c := NewCandidate(uniformGenome(4, genotype.None))
	c.Evaluate(gd, fitness.Weights{})
	clone := c.Clone()

	assert.NotEqual(t, c.ID, clone.ID)
	assert.Equal(t, c.Objectives(), clone.Objectives())
	clone.Edit()[0] = genotype.Right
	assert.Equal(t, genotype.None, c.Genome()[0])
	assert.True(t, c.Evaluated())
}

func TestLabelAndBorderMaps(t *testing.T) {
	c := NewCandidate(genotype.Genome{genotype.Right, genotype.None, genotype.Right, genotype.None})
	labels := c.LabelMap(2, 2)
	assert.Equal(t, 2, labels.Regions())
	assert.Equal(t, []bool{true, true, true, true}, c.BorderMap(2, 2))
}

func TestEvaluatorScoresPendingOnce(t *testing.T) {
	gd := blocks(t, 4, 2, imaging.GlobalOptions{})
	ev, err := NewEvaluator(gd, fitness.Weights{EdgeValue: 1, Connectivity: 1, Deviation: 1}, 3)
	require.NoError(t, err)

	shared := NewCandidate(uniformGenome(8, genotype.None))
	done := NewCandidate(uniformGenome(8, genotype.Left))
	done.Evaluate(gd, fitness.Weights{})
	pop := Population{shared, done, shared, NewCandidate(uniformGenome(8, genotype.Up))}

	n, err := ev.EvaluatePending(context.Background(), pop)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Zero(t, pop.Pending())

	sequential := NewCandidate(uniformGenome(8, genotype.None))
	sequential.Evaluate(gd, fitness.Weights{EdgeValue: 1, Connectivity: 1, Deviation: 1})
	assert.Equal(t, sequential.Evaluation(), shared.Evaluation())
}

func TestEvaluatorHonoursCancellation(t *testing.T) {
	gd := blocks(t, 4, 2, imaging.GlobalOptions{})
	ev, err := NewEvaluator(gd, fitness.Weights{}, 1)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = ev.EvaluatePending(ctx, Population{NewCandidate(uniformGenome(8, genotype.None))})
	assert.ErrorIs(t, err, context.Canceled)

	_, err = NewEvaluator(nil, fitness.Weights{}, 1)
	assert.Error(t, err)
}
