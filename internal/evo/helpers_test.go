package evo

import (
	"testing"

	"github.com/stretchr/testify/require"

	"paretoseg/internal/fitness"
	"paretoseg/internal/genotype"
	"paretoseg/internal/imaging"
)

func scored(edge, conn, dev, fit float64) *Candidate {
	c := NewCandidate(genotype.Genome{genotype.None})
	c.eval = &Evaluation{
		Objectives: fitness.Objectives{EdgeValue: edge, Connectivity: conn, Deviation: dev},
		Fitness:    fit,
	}
	return c
}

// blocks builds a width x height image split into a dark left half and a
// bright right half.
func blocks(t *testing.T, width, height int, opts imaging.GlobalOptions) *imaging.GlobalData {
	t.Helper()
	img := imaging.NewImage(width, height)
	for row := 0; row < height; row++ {
		for col := 0; col < width; col++ {
			if col >= width/2 {
				img.Pix[img.Index(row, col)] = imaging.RGB{R: 240, G: 230, B: 220}
			} else {
				img.Pix[img.Index(row, col)] = imaging.RGB{R: 20, G: 30, B: 40}
			}
		}
	}
	gd, err := imaging.NewGlobalData(img, opts)
	require.NoError(t, err)
	return gd
}

func uniformGenome(n int, d genotype.Direction) genotype.Genome {
	g := make(genotype.Genome, n)
	for i := range g {
		g[i] = d
	}
	return g
}
