package evo

// normalizedFitness rescales scalar fitness into [0, 1] by min-max. flat
// reports that every candidate shares one fitness, in which case no
// weights are returned.
func normalizedFitness(pop Population) (weights []float64, flat bool) {
	if len(pop) == 0 {
		return nil, true
	}
	values := make([]float64, len(pop))
	lo, hi := pop[0].Fitness(), pop[0].Fitness()
	for i, c := range pop {
		values[i] = c.Fitness()
		lo = min(lo, values[i])
		hi = max(hi, values[i])
	}
	if hi == lo {
		return nil, true
	}
	for i := range values {
		values[i] = (values[i] - lo) / (hi - lo)
	}
	return values, false
}
