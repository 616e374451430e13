package paretoseg

import "paretoseg/internal/map2rec"

// RequestFromConfig maps a parsed run configuration file onto a RunRequest.
func RequestFromConfig(rec map2rec.RunConfigRecord) RunRequest {
	req := RunRequest{
		RunID:                      rec.RunID,
		ImagePath:                  rec.ProblemInstance,
		PopulationSize:             rec.PopulationSize,
		Generations:                rec.NumberOfGenerations,
		Initialization:             rec.InitializationMethod,
		ParentSelection:            operatorFromRecord(rec.ParentSelection),
		SurvivorSelection:          operatorFromRecord(rec.SurvivorSelection),
		PreserveSkyline:            rec.PreserveSkyline,
		EdgeValueMultiplier:        rec.EdgeValueMultiplier,
		ConnectivityMultiplier:     rec.ConnectivityMultiplier,
		OverallDeviationMultiplier: rec.OverallDeviationMultiplier,
		Seed:                       rec.Seed,
		Workers:                    rec.Workers,
		MaxImageDimension:          rec.MaxImageDimension,
	}
	for _, fn := range rec.Crossovers {
		req.Crossovers = append(req.Crossovers, operatorFromRecord(fn))
	}
	for _, fn := range rec.Mutations {
		req.Mutations = append(req.Mutations, operatorFromRecord(fn))
	}
	return req
}

func operatorFromRecord(fn map2rec.FunctionRecord) Operator {
	op := Operator{
		Name:           fn.Name,
		Probability:    fn.Probability,
		TournamentSize: fn.TournamentSize,
	}
	if fn.CombineParentsAndOffspring != nil {
		op.CombineParentsAndOffspring = *fn.CombineParentsAndOffspring
	}
	if fn.NumberOfSlices != nil {
		op.NumberOfSlices = *fn.NumberOfSlices
	}
	if fn.DepthFraction != nil {
		op.DepthFraction = *fn.DepthFraction
	}
	if fn.SearchRadius != nil {
		op.SearchRadius = *fn.SearchRadius
	}
	if fn.MinCoverage != nil {
		op.MinCoverage = *fn.MinCoverage
	}
	if fn.EdgeBiased != nil {
		op.EdgeBiased = *fn.EdgeBiased
	}
	return op
}

// ConfigFromRequest is the inverse of RequestFromConfig. Operator parameters
// left at zero are omitted.
func ConfigFromRequest(runID string, req RunRequest) map2rec.RunConfigRecord {
	rec := map2rec.RunConfigRecord{
		RunID:                      runID,
		ProblemInstance:            req.ImagePath,
		PopulationSize:             req.PopulationSize,
		NumberOfGenerations:        req.Generations,
		InitializationMethod:       req.Initialization,
		ParentSelection:            recordFromOperator(req.ParentSelection),
		Crossovers:                 make([]map2rec.FunctionRecord, 0, len(req.Crossovers)),
		Mutations:                  make([]map2rec.FunctionRecord, 0, len(req.Mutations)),
		SurvivorSelection:          recordFromOperator(req.SurvivorSelection),
		PreserveSkyline:            req.PreserveSkyline,
		EdgeValueMultiplier:        req.EdgeValueMultiplier,
		ConnectivityMultiplier:     req.ConnectivityMultiplier,
		OverallDeviationMultiplier: req.OverallDeviationMultiplier,
		Seed:                       req.Seed,
		Workers:                    req.Workers,
		MaxImageDimension:          req.MaxImageDimension,
	}
	for _, op := range req.Crossovers {
		rec.Crossovers = append(rec.Crossovers, recordFromOperator(op))
	}
	for _, op := range req.Mutations {
		rec.Mutations = append(rec.Mutations, recordFromOperator(op))
	}
	return rec
}

func recordFromOperator(op Operator) map2rec.FunctionRecord {
	fn := map2rec.FunctionRecord{
		Name:           op.Name,
		Probability:    op.Probability,
		TournamentSize: op.TournamentSize,
	}
	if op.CombineParentsAndOffspring {
		fn.CombineParentsAndOffspring = &op.CombineParentsAndOffspring
	}
	if op.NumberOfSlices != 0 {
		fn.NumberOfSlices = &op.NumberOfSlices
	}
	if op.DepthFraction != 0 {
		fn.DepthFraction = &op.DepthFraction
	}
	if op.SearchRadius != 0 {
		fn.SearchRadius = &op.SearchRadius
	}
	if op.MinCoverage != 0 {
		fn.MinCoverage = &op.MinCoverage
	}
	if op.EdgeBiased {
		fn.EdgeBiased = &op.EdgeBiased
	}
	return fn
}
