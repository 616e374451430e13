package paretoseg

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"slices"
	"time"

	"github.com/google/uuid"

	"paretoseg/internal/evo"
	"paretoseg/internal/fitness"
	"paretoseg/internal/imaging"
	"paretoseg/internal/map2rec"
	"paretoseg/internal/model"
	"paretoseg/internal/stats"
	"paretoseg/internal/storage"
)

const (
	defaultArtifactsDir = "runs"
	defaultExportsDir   = "exports"
)

type Options struct {
	StoreKind    string
	DBPath       string
	ArtifactsDir string
	ExportsDir   string
	Logger       *slog.Logger
}

type Client struct {
	store storage.Store
	log   *slog.Logger

	artifactsDir string
	exportsDir   string
}

// Operator is one operator entry of a run: a selection strategy, a
// crossover or a mutation. Fields that do not apply to the named operator
// are ignored.
type Operator struct {
	Name                       string
	Probability                *float64
	TournamentSize             *int
	CombineParentsAndOffspring bool
	NumberOfSlices             int
	DepthFraction              float64
	SearchRadius               int
	MinCoverage                float64
	EdgeBiased                 bool
}

type RunRequest struct {
	RunID                      string
	ImagePath                  string
	PopulationSize             int
	Generations                int
	Initialization             string
	ParentSelection            Operator
	Crossovers                 []Operator
	Mutations                  []Operator
	SurvivorSelection          Operator
	PreserveSkyline            bool
	EdgeValueMultiplier        float64
	ConnectivityMultiplier     float64
	OverallDeviationMultiplier float64
	Seed                       int64
	Workers                    int
	MaxImageDimension          int
	SkipImages                 bool
	OnGeneration               func(model.GenerationDiagnostics)
}

type RunSummary struct {
	RunID            string
	ArtifactsDir     string
	Width            int
	Height           int
	SkylineSize      int
	FrontCount       int
	FinalBestFitness float64
	Diagnostics      []model.GenerationDiagnostics
	Images           int
}

type RunsRequest struct {
	Limit int
}

type RunItem struct {
	RunID             string
	CreatedAtUTC      string
	ImagePath         string
	Width             int
	Height            int
	Seed              int64
	Population        int
	Generations       int
	ParentSelection   string
	SurvivorSelection string
	SkylineSize       int
	FinalBestFitness  float64
}

// RunLookup names a stored run either by id or as the latest indexed run.
type RunLookup struct {
	RunID  string
	Latest bool
	Limit  int
}

type ExportRequest struct {
	RunID  string
	Latest bool
	OutDir string
}

type ExportSummary struct {
	RunID     string
	Directory string
}

// New opens the configured store. The caller owns the client and must Close
// it.
func New(ctx context.Context, opts Options) (*Client, error) {
	dbPath := opts.DBPath
	if dbPath == "" {
		dbPath = storage.DefaultSQLitePath
	}
	artifactsDir := opts.ArtifactsDir
	if artifactsDir == "" {
		artifactsDir = defaultArtifactsDir
	}
	exportsDir := opts.ExportsDir
	if exportsDir == "" {
		exportsDir = defaultExportsDir
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	store, err := storage.Open(ctx, opts.StoreKind, dbPath)
	if err != nil {
		return nil, err
	}

	return &Client{
		store:        store,
		log:          logger,
		artifactsDir: artifactsDir,
		exportsDir:   exportsDir,
	}, nil
}

func (c *Client) Close() error {
	return storage.CloseIfSupported(c.store)
}

// Run validates the request, evolves a population on the image and persists
// the results both to the store and to the artifacts directory.
func (c *Client) Run(ctx context.Context, req RunRequest) (RunSummary, error) {
	if req.ImagePath == "" {
		return RunSummary{}, errors.New("problem_instance (image path) is required")
	}
	cfg, err := req.evoConfig()
	if err != nil {
		return RunSummary{}, err
	}
	plan, err := evo.Compile(cfg)
	if err != nil {
		return RunSummary{}, err
	}

	img, err := imaging.Load(req.ImagePath, req.MaxImageDimension)
	if err != nil {
		return RunSummary{}, err
	}
	global, err := imaging.NewGlobalData(img, plan.GlobalOptions())
	if err != nil {
		return RunSummary{}, err
	}

	runID := req.RunID
	if runID == "" {
		runID = uuid.NewString()
	}
	log := c.log.With("run_id", runID)
	log.Info("run started",
		"image", req.ImagePath,
		"width", img.Width,
		"height", img.Height,
		"population", cfg.PopulationSize,
		"generations", cfg.Generations,
	)

	monitor, err := evo.NewPopulationMonitor(evo.MonitorConfig{
		Plan:         plan,
		Global:       global,
		Workers:      req.Workers,
		Seed:         req.Seed,
		Logger:       log,
		OnGeneration: req.OnGeneration,
	})
	if err != nil {
		return RunSummary{}, err
	}
	result, err := monitor.Run(ctx)
	if err != nil {
		return RunSummary{}, err
	}

	fronts := frontRecords(result.Fronts)
	skyline := skylineRecords(runID, result.Skyline(), img.Width, img.Height)
	best := bestFitness(result.Final)
	createdAt := time.Now().UTC().Format(time.RFC3339)

	run := model.RunRecord{
		VersionedRecord:   storage.CurrentVersion(),
		ID:                runID,
		ImagePath:         req.ImagePath,
		Width:             img.Width,
		Height:            img.Height,
		PopulationSize:    cfg.PopulationSize,
		Generations:       cfg.Generations,
		Seed:              req.Seed,
		Initialization:    cfg.Initialization,
		ParentSelection:   cfg.ParentSelection.Name,
		SurvivorSelection: cfg.SurvivorSelection.Name,
		PreserveSkyline:   cfg.PreserveSkyline,
		SkylineSize:       len(skyline),
		FrontCount:        len(fronts),
		BestFitness:       best,
		CreatedAtUTC:      createdAt,
	}
	if err := c.store.SaveRun(ctx, run); err != nil {
		return RunSummary{}, err
	}
	if err := c.store.SaveGenerationDiagnostics(ctx, runID, result.Diagnostics); err != nil {
		return RunSummary{}, err
	}
	if err := c.store.SaveFronts(ctx, runID, fronts); err != nil {
		return RunSummary{}, err
	}
	if err := c.store.SaveSkyline(ctx, runID, skyline); err != nil {
		return RunSummary{}, err
	}

	record, err := map2rec.EncodeRecord(map2rec.KindRun, ConfigFromRequest(runID, req))
	if err != nil {
		return RunSummary{}, err
	}
	runDir, err := stats.WriteRunArtifacts(c.artifactsDir, stats.RunArtifacts{
		Config:                runConfig(runID, req, cfg, img),
		GenerationDiagnostics: result.Diagnostics,
		Fronts:                fronts,
		Skyline:               skyline,
		FinalBestFitness:      best,
		ConfigRecord:          record,
	})
	if err != nil {
		return RunSummary{}, err
	}
	images := 0
	if !req.SkipImages {
		written, err := stats.WriteSkylineImages(runDir, img, skyline)
		if err != nil {
			return RunSummary{}, err
		}
		images = len(written)
	}
	if err := stats.AppendRunIndex(c.artifactsDir, stats.RunIndexEntry{
		RunID:            runID,
		ImagePath:        req.ImagePath,
		PopulationSize:   cfg.PopulationSize,
		Generations:      cfg.Generations,
		Seed:             req.Seed,
		Workers:          req.Workers,
		SkylineSize:      len(skyline),
		FinalBestFitness: best,
		CreatedAtUTC:     createdAt,
	}); err != nil {
		return RunSummary{}, err
	}

	log.Info("run finished", "skyline", len(skyline), "fronts", len(fronts), "best_fitness", best, "dir", runDir)
	return RunSummary{
		RunID:            runID,
		ArtifactsDir:     filepath.Clean(runDir),
		Width:            img.Width,
		Height:           img.Height,
		SkylineSize:      len(skyline),
		FrontCount:       len(fronts),
		FinalBestFitness: best,
		Diagnostics:      slices.Clone(result.Diagnostics),
		Images:           images,
	}, nil
}

func (c *Client) Runs(_ context.Context, req RunsRequest) ([]RunItem, error) {
	if req.Limit <= 0 {
		req.Limit = 20
	}

	entries, err := stats.ListRunIndex(c.artifactsDir)
	if err != nil {
		return nil, err
	}
	if len(entries) > req.Limit {
		entries = entries[:req.Limit]
	}

	out := make([]RunItem, 0, len(entries))
	for _, e := range entries {
		item := RunItem{
			RunID:            e.RunID,
			CreatedAtUTC:     e.CreatedAtUTC,
			ImagePath:        e.ImagePath,
			Seed:             e.Seed,
			Population:       e.PopulationSize,
			Generations:      e.Generations,
			SkylineSize:      e.SkylineSize,
			FinalBestFitness: e.FinalBestFitness,
		}
		cfg, ok, err := stats.ReadRunConfig(c.artifactsDir, e.RunID)
		if err != nil {
			return nil, err
		}
		if ok {
			item.Width, item.Height = cfg.Width, cfg.Height
			item.ParentSelection = cfg.ParentSelection
			item.SurvivorSelection = cfg.SurvivorSelection
		}
		out = append(out, item)
	}
	return out, nil
}

// Config returns the configuration a run was made with, in the form a run
// configuration file takes. Feeding it back through RequestFromConfig
// repeats the run.
func (c *Client) Config(_ context.Context, req RunLookup) (map2rec.RunConfigRecord, error) {
	runID, err := c.resolveRun(req)
	if err != nil {
		return map2rec.RunConfigRecord{}, err
	}
	data, ok, err := stats.ReadRunRecord(c.artifactsDir, runID)
	if err != nil {
		return map2rec.RunConfigRecord{}, err
	}
	if !ok {
		return map2rec.RunConfigRecord{}, fmt.Errorf("config not found for run id: %s", runID)
	}
	rec, err := map2rec.DecodeRunRecord(data)
	if err != nil {
		return map2rec.RunConfigRecord{}, fmt.Errorf("run %s: %w", runID, err)
	}
	return rec, nil
}

// Diagnostics returns the per-generation statistics of a run. The store is
// consulted first; runs made by another process with a memory store are
// read back from the artifacts directory.
func (c *Client) Diagnostics(ctx context.Context, req RunLookup) ([]model.GenerationDiagnostics, error) {
	runID, err := c.resolveRun(req)
	if err != nil {
		return nil, err
	}
	diagnostics, ok, err := c.store.GetGenerationDiagnostics(ctx, runID)
	if err != nil {
		return nil, err
	}
	if !ok {
		if diagnostics, ok, err = stats.ReadGenerationDiagnostics(c.artifactsDir, runID); err != nil {
			return nil, err
		}
	}
	if !ok {
		return nil, fmt.Errorf("diagnostics not found for run id: %s", runID)
	}
	return limit(diagnostics, req.Limit), nil
}

func (c *Client) Fronts(ctx context.Context, req RunLookup) ([]model.FrontRecord, error) {
	runID, err := c.resolveRun(req)
	if err != nil {
		return nil, err
	}
	fronts, ok, err := c.store.GetFronts(ctx, runID)
	if err != nil {
		return nil, err
	}
	if !ok {
		if fronts, ok, err = stats.ReadFronts(c.artifactsDir, runID); err != nil {
			return nil, err
		}
	}
	if !ok {
		return nil, fmt.Errorf("fronts not found for run id: %s", runID)
	}
	return limit(fronts, req.Limit), nil
}

func (c *Client) Skyline(ctx context.Context, req RunLookup) ([]model.CandidateRecord, error) {
	runID, err := c.resolveRun(req)
	if err != nil {
		return nil, err
	}
	skyline, ok, err := c.store.GetSkyline(ctx, runID)
	if err != nil {
		return nil, err
	}
	if !ok {
		if skyline, ok, err = stats.ReadSkyline(c.artifactsDir, runID); err != nil {
			return nil, err
		}
	}
	if !ok {
		return nil, fmt.Errorf("skyline not found for run id: %s", runID)
	}
	return limit(skyline, req.Limit), nil
}

func (c *Client) Export(_ context.Context, req ExportRequest) (ExportSummary, error) {
	if req.RunID == "" && !req.Latest {
		return ExportSummary{}, errors.New("export requires run id or latest")
	}
	runID, err := c.resolveRun(RunLookup{RunID: req.RunID, Latest: req.Latest})
	if err != nil {
		return ExportSummary{}, err
	}
	if req.OutDir == "" {
		req.OutDir = c.exportsDir
	}

	exportedDir, err := stats.ExportRunArtifacts(c.artifactsDir, runID, req.OutDir)
	if err != nil {
		return ExportSummary{}, err
	}
	return ExportSummary{RunID: runID, Directory: filepath.Clean(exportedDir)}, nil
}

func (c *Client) resolveRun(req RunLookup) (string, error) {
	if req.RunID != "" && req.Latest {
		return "", errors.New("use either run id or latest")
	}
	if req.Limit < 0 {
		return "", errors.New("limit must be >= 0")
	}
	if !req.Latest {
		if req.RunID == "" {
			return "", errors.New("run id or latest is required")
		}
		return req.RunID, nil
	}
	entries, err := stats.ListRunIndex(c.artifactsDir)
	if err != nil {
		return "", err
	}
	if len(entries) == 0 {
		return "", errors.New("no runs available")
	}
	return entries[0].RunID, nil
}

func (req RunRequest) evoConfig() (evo.Config, error) {
	cfg := evo.Config{
		PopulationSize:    req.PopulationSize,
		Generations:       req.Generations,
		Initialization:    req.Initialization,
		ParentSelection:   selectionConfig(req.ParentSelection),
		SurvivorSelection: selectionConfig(req.SurvivorSelection),
		PreserveSkyline:   req.PreserveSkyline,
		Weights: fitness.Weights{
			EdgeValue:    req.EdgeValueMultiplier,
			Connectivity: req.ConnectivityMultiplier,
			Deviation:    req.OverallDeviationMultiplier,
		},
	}
	var err error
	if cfg.Crossovers, err = variationConfigs(evo.KindCrossover, req.Crossovers); err != nil {
		return evo.Config{}, err
	}
	if cfg.Mutations, err = variationConfigs(evo.KindMutation, req.Mutations); err != nil {
		return evo.Config{}, err
	}
	return cfg, nil
}

func selectionConfig(op Operator) evo.SelectionConfig {
	return evo.SelectionConfig{
		Name:                       op.Name,
		Probability:                op.Probability,
		TournamentSize:             op.TournamentSize,
		CombineParentsAndOffspring: op.CombineParentsAndOffspring,
	}
}

// variationConfigs requires an application rate on every entry; a missing
// rate would otherwise silently disable the operator.
func variationConfigs(kind evo.OperatorKind, ops []Operator) ([]evo.VariationConfig, error) {
	out := make([]evo.VariationConfig, 0, len(ops))
	for i, op := range ops {
		if op.Probability == nil {
			return nil, fmt.Errorf("%w: %s[%d].probability is required", evo.ErrInvalidConfig, kind, i)
		}
		out = append(out, evo.VariationConfig{
			Name:           op.Name,
			Probability:    *op.Probability,
			NumberOfSlices: op.NumberOfSlices,
			DepthFraction:  op.DepthFraction,
			SearchRadius:   op.SearchRadius,
			MinCoverage:    op.MinCoverage,
			EdgeBiased:     op.EdgeBiased,
		})
	}
	return out, nil
}

func runConfig(runID string, req RunRequest, cfg evo.Config, img *imaging.Image) stats.RunConfig {
	names := func(ops []evo.VariationConfig) []string {
		out := make([]string, 0, len(ops))
		for _, op := range ops {
			out = append(out, op.Name)
		}
		return out
	}
	return stats.RunConfig{
		RunID:                      runID,
		ImagePath:                  req.ImagePath,
		Width:                      img.Width,
		Height:                     img.Height,
		PopulationSize:             cfg.PopulationSize,
		Generations:                cfg.Generations,
		Initialization:             cfg.Initialization,
		ParentSelection:            cfg.ParentSelection.Name,
		SurvivorSelection:          cfg.SurvivorSelection.Name,
		Crossovers:                 names(cfg.Crossovers),
		Mutations:                  names(cfg.Mutations),
		PreserveSkyline:            cfg.PreserveSkyline,
		EdgeValueMultiplier:        cfg.Weights.EdgeValue,
		ConnectivityMultiplier:     cfg.Weights.Connectivity,
		OverallDeviationMultiplier: cfg.Weights.Deviation,
		Seed:                       req.Seed,
		Workers:                    req.Workers,
		MaxImageDimension:          req.MaxImageDimension,
	}
}

func frontRecords(fronts []evo.Population) []model.FrontRecord {
	out := make([]model.FrontRecord, 0, len(fronts))
	for rank, front := range fronts {
		rec := model.FrontRecord{Rank: rank, Members: make([]model.ObjectiveVector, 0, len(front))}
		for _, c := range front {
			rec.Members = append(rec.Members, objectiveVector(c.Objectives()))
		}
		out = append(out, rec)
	}
	return out
}

func skylineRecords(runID string, skyline evo.Population, width, height int) []model.CandidateRecord {
	out := make([]model.CandidateRecord, 0, len(skyline))
	for _, c := range evo.SortByFitness(skyline) {
		out = append(out, model.CandidateRecord{
			VersionedRecord: storage.CurrentVersion(),
			ID:              c.ID,
			RunID:           runID,
			Rank:            0,
			Genome:          c.Genome().String(),
			Objectives:      objectiveVector(c.Objectives()),
			Fitness:         c.Fitness(),
			Segments:        c.LabelMap(width, height).Regions(),
		})
	}
	return out
}

func objectiveVector(o fitness.Objectives) model.ObjectiveVector {
	return model.ObjectiveVector{EdgeValue: o.EdgeValue, Connectivity: o.Connectivity, Deviation: o.Deviation}
}

func bestFitness(pop evo.Population) float64 {
	sorted := evo.SortByFitness(pop)
	if len(sorted) == 0 {
		return 0
	}
	return sorted[0].Fitness()
}

func limit[T any](items []T, n int) []T {
	if n > 0 && len(items) > n {
		items = items[:n]
	}
	return slices.Clone(items)
}
