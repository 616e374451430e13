package evo

import (
	"context"
	"fmt"
	"runtime"

	"github.com/sourcegraph/conc/pool"

	"paretoseg/internal/fitness"
	"paretoseg/internal/imaging"
)

// Evaluator scores dirty candidates on a bounded worker pool. Each task
// touches exactly one candidate and only reads the shared image data, so
// no locking is needed and no random source is involved.
type Evaluator struct {
	global  *imaging.GlobalData
	weights fitness.Weights
	workers int
}

func NewEvaluator(gd *imaging.GlobalData, weights fitness.Weights, workers int) (*Evaluator, error) {
	if gd == nil {
		return nil, fmt.Errorf("global data is required")
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &Evaluator{global: gd, weights: weights, workers: workers}, nil
}

func (e *Evaluator) Workers() int { return e.workers }

// EvaluatePending evaluates every dirty candidate in pop and returns how
// many were evaluated. A candidate listed twice is evaluated once.
func (e *Evaluator) EvaluatePending(ctx context.Context, pop Population) (int, error) {
	seen := make(map[*Candidate]struct{}, len(pop))
	p := pool.New().WithContext(ctx).WithMaxGoroutines(e.workers)
	count := 0
	for _, c := range pop {
		if c.Evaluated() {
			continue
		}
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		count++
		p.Go(func(ctx context.Context) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			c.Evaluate(e.global, e.weights)
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return count, err
	}
	return count, nil
}
