package model

// VersionedRecord captures schema and codec evolution for persistent data.
type VersionedRecord struct {
	SchemaVersion int `json:"schema_version"`
	CodecVersion  int `json:"codec_version"`
}

// ObjectiveVector is the persisted form of one candidate's scores.
type ObjectiveVector struct {
	EdgeValue    float64 `json:"edge_value"`
	Connectivity float64 `json:"connectivity"`
	Deviation    float64 `json:"deviation"`
}

// RunRecord summarizes one segmentation run.
type RunRecord struct {
	VersionedRecord
	ID                string  `json:"id"`
	ImagePath         string  `json:"image_path"`
	Width             int     `json:"width"`
	Height            int     `json:"height"`
	PopulationSize    int     `json:"population_size"`
	Generations       int     `json:"generations"`
	Seed              int64   `json:"seed"`
	Initialization    string  `json:"initialization_method"`
	ParentSelection   string  `json:"parent_selection"`
	SurvivorSelection string  `json:"survivor_selection"`
	PreserveSkyline   bool    `json:"preserve_skyline"`
	SkylineSize       int     `json:"skyline_size"`
	FrontCount        int     `json:"front_count"`
	BestFitness       float64 `json:"best_fitness"`
	CreatedAtUTC      string  `json:"created_at_utc"`
}

// GenerationDiagnostics are the per-generation population statistics.
// Objective ranges are taken over the skyline.
type GenerationDiagnostics struct {
	Generation           int     `json:"generation"`
	SkylineSize          int     `json:"skyline_size"`
	FrontCount           int     `json:"front_count"`
	EdgeValueMin         float64 `json:"edge_value_min"`
	EdgeValueMax         float64 `json:"edge_value_max"`
	EdgeValueMean        float64 `json:"edge_value_mean"`
	ConnectivityMin      float64 `json:"connectivity_min"`
	ConnectivityMax      float64 `json:"connectivity_max"`
	ConnectivityMean     float64 `json:"connectivity_mean"`
	DeviationMin         float64 `json:"deviation_min"`
	DeviationMax         float64 `json:"deviation_max"`
	DeviationMean        float64 `json:"deviation_mean"`
	BestFitness          float64 `json:"best_fitness"`
	MeanFitness          float64 `json:"mean_fitness"`
	MeanSegments         float64 `json:"mean_segments"`
	FingerprintDiversity int     `json:"fingerprint_diversity"`
	Evaluations          int     `json:"evaluations"`
}

// FrontRecord is one Pareto front of the final population.
type FrontRecord struct {
	Rank    int               `json:"rank"`
	Members []ObjectiveVector `json:"members"`
}

// CandidateRecord persists one skyline member so its segmentation can be
// decoded again later.
type CandidateRecord struct {
	VersionedRecord
	ID         string          `json:"id"`
	RunID      string          `json:"run_id"`
	Rank       int             `json:"rank"`
	Genome     string          `json:"genome"`
	Objectives ObjectiveVector `json:"objectives"`
	Fitness    float64         `json:"fitness"`
	Segments   int             `json:"segments"`
}
