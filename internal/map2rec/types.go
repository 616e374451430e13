package map2rec

// FunctionRecord is one operator entry of a run configuration: a selection
// strategy, a crossover or a mutation. Optional parameters stay nil when the
// configuration omits them so that downstream validation can tell "unset"
// from zero.
type FunctionRecord struct {
	Name                       string   `json:"name"`
	Probability                *float64 `json:"probability,omitempty"`
	TournamentSize             *int     `json:"tournament_size,omitempty"`
	CombineParentsAndOffspring *bool    `json:"combine_parents_and_offspring,omitempty"`
	NumberOfSlices             *int     `json:"number_of_slices,omitempty"`
	DepthFraction              *float64 `json:"depth_fraction,omitempty"`
	SearchRadius               *int     `json:"search_radius,omitempty"`
	MinCoverage                *float64 `json:"min_coverage,omitempty"`
	EdgeBiased                 *bool    `json:"edge_biased,omitempty"`
}

// RunConfigRecord is the typed form of a segmentation run configuration file.
type RunConfigRecord struct {
	RunID                      string           `json:"run_id,omitempty"`
	ProblemInstance            string           `json:"problem_instance"`
	PopulationSize             int              `json:"population_size"`
	NumberOfGenerations        int              `json:"number_of_generations"`
	InitializationMethod       string           `json:"initialization_method"`
	ParentSelection            FunctionRecord   `json:"parent_selection"`
	Crossovers                 []FunctionRecord `json:"crossovers"`
	Mutations                  []FunctionRecord `json:"mutations"`
	SurvivorSelection          FunctionRecord   `json:"survivor_selection"`
	PreserveSkyline            bool             `json:"preserve_skyline"`
	EdgeValueMultiplier        float64          `json:"edge_value_multiplier"`
	ConnectivityMultiplier     float64          `json:"connectivity_multiplier"`
	OverallDeviationMultiplier float64          `json:"overall_deviation_multiplier"`
	Seed                       int64            `json:"seed"`
	Workers                    int              `json:"workers,omitempty"`
	MaxImageDimension          int              `json:"max_image_dimension,omitempty"`
}

func defaultFunctionRecord() FunctionRecord {
	return FunctionRecord{}
}

func defaultRunConfigRecord() RunConfigRecord {
	return RunConfigRecord{
		PopulationSize:       50,
		NumberOfGenerations:  100,
		InitializationMethod: "mst",
		ParentSelection: FunctionRecord{
			Name:           "tournament",
			Probability:    float64Ptr(0.8),
			TournamentSize: intPtr(4),
		},
		Crossovers: []FunctionRecord{
			{Name: "uniform", Probability: float64Ptr(0.3)},
		},
		Mutations: []FunctionRecord{
			{Name: "flip_one_bit", Probability: float64Ptr(0.2)},
			{Name: "flip_to_smallest_deviation", Probability: float64Ptr(0.1), SearchRadius: intPtr(2)},
		},
		SurvivorSelection: FunctionRecord{
			Name:                       "NSGA-2",
			CombineParentsAndOffspring: boolPtr(true),
		},
		EdgeValueMultiplier:        1,
		ConnectivityMultiplier:     1,
		OverallDeviationMultiplier: 1,
		Seed:                       1,
	}
}

func float64Ptr(v float64) *float64 { return &v }
func intPtr(v int) *int             { return &v }
func boolPtr(v bool) *bool          { return &v }
