package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"paretoseg/internal/map2rec"
	"paretoseg/internal/model"
	"paretoseg/internal/stats"
	"paretoseg/internal/storage"
	"paretoseg/pkg/paretoseg"
)

const (
	artifactsDir = "runs"
	exportsDir   = "exports"
)

func main() {
	if err := run(context.Background(), os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return usageError("missing command")
	}

	switch args[0] {
	case "init":
		return runInit(ctx, args[1:])
	case "run":
		return runRun(ctx, args[1:])
	case "runs":
		return runRuns(ctx, args[1:])
	case "config":
		return runConfig(ctx, args[1:])
	case "diagnostics":
		return runDiagnostics(ctx, args[1:])
	case "fronts":
		return runFronts(ctx, args[1:])
	case "skyline":
		return runSkyline(ctx, args[1:])
	case "export":
		return runExport(ctx, args[1:])
	default:
		return usageError(fmt.Sprintf("unknown command: %s", args[0]))
	}
}

// clientFlags are shared by every subcommand that opens a client.
type clientFlags struct {
	storeKind    *string
	dbPath       *string
	artifactsDir *string
	verbose      *bool
}

func addClientFlags(fs *flag.FlagSet) clientFlags {
	return clientFlags{
		storeKind:    fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite"),
		dbPath:       fs.String("db-path", storage.DefaultSQLitePath, "sqlite database path"),
		artifactsDir: fs.String("artifacts-dir", artifactsDir, "run artifacts directory"),
		verbose:      fs.Bool("v", false, "debug logging on stderr"),
	}
}

func (f clientFlags) open(ctx context.Context, out string) (*paretoseg.Client, error) {
	level := slog.LevelWarn
	if *f.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	return paretoseg.New(ctx, paretoseg.Options{
		StoreKind:    *f.storeKind,
		DBPath:       *f.dbPath,
		ArtifactsDir: *f.artifactsDir,
		ExportsDir:   out,
		Logger:       logger,
	})
}

func runInit(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("init", flag.ContinueOnError)
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", storage.DefaultSQLitePath, "sqlite database path")
	configOut := fs.String("config", "", "write a starter run config JSON to this path (optional)")
	image := fs.String("image", "", "problem_instance for the starter config")
	force := fs.Bool("force", false, "overwrite an existing config file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	store, err := storage.Open(ctx, *storeKind, *dbPath)
	if err != nil {
		return err
	}
	if err := storage.CloseIfSupported(store); err != nil {
		return err
	}

	if *configOut == "" {
		fmt.Printf("initialized store=%s\n", *storeKind)
		return nil
	}
	if _, err := os.Stat(*configOut); err == nil && !*force {
		return fmt.Errorf("config %s already exists (use --force to overwrite)", *configOut)
	}
	rec, err := map2rec.ConvertRunConfig(map[string]any{"problem_instance": *image})
	if err != nil {
		return err
	}
	data, err := map2rec.MarshalRunConfig(rec)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(*configOut); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	if err := os.WriteFile(*configOut, data, 0o644); err != nil {
		return err
	}
	fmt.Printf("initialized store=%s config=%s\n", *storeKind, filepath.Clean(*configOut))
	return nil
}

func runRun(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	client := addClientFlags(fs)
	configPath := fs.String("config", "", "run config JSON path (optional)")
	fs.String("run-id", "", "explicit run id (optional)")
	fs.String("image", "", "input image path (problem_instance)")
	fs.Int("pop", 0, "population size")
	fs.Int("gens", 0, "generation count")
	fs.String("init", "", "initialization method: random|mst")
	fs.Int64("seed", 0, "rng seed")
	fs.Int("workers", 0, "evaluation workers (0 uses GOMAXPROCS)")
	fs.Int("max-dim", 0, "downscale images whose longer side exceeds this (0 disables)")
	fs.Bool("preserve-skyline", false, "carry the skyline into parents and survivors")
	noImages := fs.Bool("no-images", false, "skip skyline PNG output")
	progress := fs.Bool("progress", false, "print one line per generation")
	if err := fs.Parse(args); err != nil {
		return err
	}

	rec, err := loadRunConfig(*configPath)
	if err != nil {
		return err
	}
	if err := overrideFromFlags(&rec, fs); err != nil {
		return err
	}
	req := paretoseg.RequestFromConfig(rec)
	req.SkipImages = *noImages
	if *progress {
		req.OnGeneration = func(d model.GenerationDiagnostics) {
			fmt.Printf("generation=%d skyline=%d fronts=%d best_fitness=%.6f mean_segments=%.2f\n",
				d.Generation, d.SkylineSize, d.FrontCount, d.BestFitness, d.MeanSegments)
		}
	}

	c, err := client.open(ctx, exportsDir)
	if err != nil {
		return err
	}
	defer func() {
		_ = c.Close()
	}()

	summary, err := c.Run(ctx, req)
	if err != nil {
		return err
	}
	fmt.Printf("run_id=%s width=%d height=%d generations=%d skyline=%d fronts=%d final_best_fitness=%.6f images=%d artifacts=%s\n",
		summary.RunID,
		summary.Width,
		summary.Height,
		len(summary.Diagnostics)-1,
		summary.SkylineSize,
		summary.FrontCount,
		summary.FinalBestFitness,
		summary.Images,
		summary.ArtifactsDir,
	)
	return nil
}

func runRuns(_ context.Context, args []string) error {
	fs := flag.NewFlagSet("runs", flag.ContinueOnError)
	dir := fs.String("artifacts-dir", artifactsDir, "run artifacts directory")
	limit := fs.Int("limit", 20, "max runs to list")
	jsonOut := fs.Bool("json", false, "emit runs list as JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *limit <= 0 {
		return errors.New("limit must be > 0")
	}

	entries, err := stats.ListRunIndex(*dir)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("no runs found")
		return nil
	}
	if len(entries) > *limit {
		entries = entries[:*limit]
	}
	if *jsonOut {
		return writeJSON(entries)
	}

	for _, e := range entries {
		fmt.Printf("run_id=%s created_at=%s image=%s seed=%d pop=%d gens=%d skyline=%d final_best_fitness=%.6f\n",
			e.RunID,
			e.CreatedAtUTC,
			e.ImagePath,
			e.Seed,
			e.PopulationSize,
			e.Generations,
			e.SkylineSize,
			e.FinalBestFitness,
		)
	}
	return nil
}

// runConfig prints the configuration of a stored run as a config file that
// `run -config` accepts.
func runConfig(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("config", flag.ContinueOnError)
	client := addClientFlags(fs)
	runID := fs.String("run-id", "", "run id")
	latest := fs.Bool("latest", false, "use the most recent run from the run index")
	out := fs.String("out", "", "write the config to this path instead of stdout")
	if err := fs.Parse(args); err != nil {
		return err
	}
	req, err := lookup(*runID, *latest, 0)
	if err != nil {
		return err
	}

	c, err := client.open(ctx, exportsDir)
	if err != nil {
		return err
	}
	defer func() {
		_ = c.Close()
	}()

	rec, err := c.Config(ctx, req)
	if err != nil {
		return err
	}
	data, err := map2rec.MarshalRunConfig(rec)
	if err != nil {
		return err
	}
	if *out == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(*out, data, 0o644); err != nil {
		return err
	}
	fmt.Printf("run_id=%s config=%s\n", rec.RunID, filepath.Clean(*out))
	return nil
}

func addLookupFlags(fs *flag.FlagSet, defaultLimit int) (runID *string, latest *bool, limit *int) {
	runID = fs.String("run-id", "", "run id")
	latest = fs.Bool("latest", false, "use the most recent run from the run index")
	limit = fs.Int("limit", defaultLimit, "max rows to print (<=0 for all)")
	return runID, latest, limit
}

func lookup(runID string, latest bool, limit int) (paretoseg.RunLookup, error) {
	if runID != "" && latest {
		return paretoseg.RunLookup{}, errors.New("use either --run-id or --latest, not both")
	}
	if runID == "" && !latest {
		return paretoseg.RunLookup{}, errors.New("requires --run-id or --latest")
	}
	if limit < 0 {
		limit = 0
	}
	return paretoseg.RunLookup{RunID: runID, Latest: latest, Limit: limit}, nil
}

func runDiagnostics(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("diagnostics", flag.ContinueOnError)
	client := addClientFlags(fs)
	runID, latest, limit := addLookupFlags(fs, 0)
	jsonOut := fs.Bool("json", false, "emit diagnostics as JSON")
	csvOut := fs.Bool("csv", false, "emit diagnostics as CSV")
	if err := fs.Parse(args); err != nil {
		return err
	}
	req, err := lookup(*runID, *latest, *limit)
	if err != nil {
		return err
	}

	c, err := client.open(ctx, exportsDir)
	if err != nil {
		return err
	}
	defer func() {
		_ = c.Close()
	}()

	diagnostics, err := c.Diagnostics(ctx, req)
	if err != nil {
		return err
	}
	switch {
	case *jsonOut:
		return writeJSON(diagnostics)
	case *csvOut:
		return stats.WriteDiagnosticsCSV(os.Stdout, diagnostics)
	}

	for _, d := range diagnostics {
		fmt.Printf("generation=%d skyline=%d fronts=%d edge=[%.4f,%.4f] connectivity=[%.4f,%.4f] deviation=[%.4f,%.4f] best_fitness=%.6f mean_fitness=%.6f mean_segments=%.2f fingerprints=%d evaluations=%d\n",
			d.Generation,
			d.SkylineSize,
			d.FrontCount,
			d.EdgeValueMin, d.EdgeValueMax,
			d.ConnectivityMin, d.ConnectivityMax,
			d.DeviationMin, d.DeviationMax,
			d.BestFitness,
			d.MeanFitness,
			d.MeanSegments,
			d.FingerprintDiversity,
			d.Evaluations,
		)
	}
	return nil
}

func runFronts(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("fronts", flag.ContinueOnError)
	client := addClientFlags(fs)
	runID, latest, limit := addLookupFlags(fs, 0)
	jsonOut := fs.Bool("json", false, "emit fronts as JSON")
	logOut := fs.Bool("log", false, "emit fronts in the (edge,connectivity,deviation); line format")
	if err := fs.Parse(args); err != nil {
		return err
	}
	req, err := lookup(*runID, *latest, *limit)
	if err != nil {
		return err
	}

	c, err := client.open(ctx, exportsDir)
	if err != nil {
		return err
	}
	defer func() {
		_ = c.Close()
	}()

	fronts, err := c.Fronts(ctx, req)
	if err != nil {
		return err
	}
	switch {
	case *jsonOut:
		return writeJSON(fronts)
	case *logOut:
		return stats.WriteFrontsLog(os.Stdout, fronts)
	}

	for _, f := range fronts {
		fmt.Printf("front=%d members=%d\n", f.Rank, len(f.Members))
	}
	return nil
}

func runSkyline(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("skyline", flag.ContinueOnError)
	client := addClientFlags(fs)
	runID, latest, limit := addLookupFlags(fs, 0)
	jsonOut := fs.Bool("json", false, "emit skyline members as JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}
	req, err := lookup(*runID, *latest, *limit)
	if err != nil {
		return err
	}

	c, err := client.open(ctx, exportsDir)
	if err != nil {
		return err
	}
	defer func() {
		_ = c.Close()
	}()

	skyline, err := c.Skyline(ctx, req)
	if err != nil {
		return err
	}
	if *jsonOut {
		return writeJSON(skyline)
	}

	for i, m := range skyline {
		fmt.Printf("index=%d candidate_id=%s fitness=%.6f edge_value=%.6f connectivity=%.6f deviation=%.6f segments=%d\n",
			i,
			m.ID,
			m.Fitness,
			m.Objectives.EdgeValue,
			m.Objectives.Connectivity,
			m.Objectives.Deviation,
			m.Segments,
		)
	}
	return nil
}

func runExport(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	client := addClientFlags(fs)
	runID := fs.String("run-id", "", "run id")
	latest := fs.Bool("latest", false, "export the most recent run from the run index")
	outDir := fs.String("out", exportsDir, "export output directory")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *runID != "" && *latest {
		return errors.New("use either --run-id or --latest, not both")
	}
	if *runID == "" && !*latest {
		return errors.New("export requires --run-id or --latest")
	}

	c, err := client.open(ctx, *outDir)
	if err != nil {
		return err
	}
	defer func() {
		_ = c.Close()
	}()

	exported, err := c.Export(ctx, paretoseg.ExportRequest{RunID: *runID, Latest: *latest})
	if err != nil {
		return err
	}
	fmt.Printf("exported run_id=%s to=%s\n", exported.RunID, exported.Directory)
	return nil
}

func writeJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func usageError(msg string) error {
	return fmt.Errorf("%s\nusage: segctl <init|run|runs|config|diagnostics|fronts|skyline|export> [flags]", msg)
}
