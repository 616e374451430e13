package stats

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"paretoseg/internal/model"
)

const (
	runIndexFile        = "run_index.json"
	configFile          = "config.json"
	runRecordFile       = "run_record.json"
	diagnosticsJSONFile = "generation_diagnostics.json"
	diagnosticsCSVFile  = "generation_diagnostics.csv"
	frontsFile          = "fronts.txt"
	skylineFile         = "skyline.json"
	skylineDir          = "skyline"
)

// RunConfig is the resolved configuration of one run as written next to its
// results.
type RunConfig struct {
	RunID                      string   `json:"run_id"`
	ImagePath                  string   `json:"problem_instance"`
	Width                      int      `json:"width"`
	Height                     int      `json:"height"`
	PopulationSize             int      `json:"population_size"`
	Generations                int      `json:"number_of_generations"`
	Initialization             string   `json:"initialization_method"`
	ParentSelection            string   `json:"parent_selection"`
	SurvivorSelection          string   `json:"survivor_selection"`
	Crossovers                 []string `json:"crossovers"`
	Mutations                  []string `json:"mutations"`
	PreserveSkyline            bool     `json:"preserve_skyline"`
	EdgeValueMultiplier        float64  `json:"edge_value_multiplier"`
	ConnectivityMultiplier     float64  `json:"connectivity_multiplier"`
	OverallDeviationMultiplier float64  `json:"overall_deviation_multiplier"`
	Seed                       int64    `json:"seed"`
	Workers                    int      `json:"workers"`
	MaxImageDimension          int      `json:"max_image_dimension,omitempty"`
}

type RunArtifacts struct {
	Config                RunConfig                     `json:"config"`
	GenerationDiagnostics []model.GenerationDiagnostics `json:"generation_diagnostics"`
	Fronts                []model.FrontRecord           `json:"fronts"`
	Skyline               []model.CandidateRecord       `json:"skyline"`
	FinalBestFitness      float64                       `json:"final_best_fitness"`

	// ConfigRecord is the encoded configuration envelope that reproduces the
	// run. It is written verbatim when set.
	ConfigRecord []byte `json:"-"`
}

type RunIndexEntry struct {
	RunID            string  `json:"run_id"`
	ImagePath        string  `json:"problem_instance"`
	PopulationSize   int     `json:"population_size"`
	Generations      int     `json:"number_of_generations"`
	Seed             int64   `json:"seed"`
	Workers          int     `json:"workers"`
	SkylineSize      int     `json:"skyline_size"`
	FinalBestFitness float64 `json:"final_best_fitness"`
	CreatedAtUTC     string  `json:"created_at_utc"`
}

// WriteRunArtifacts writes the JSON, CSV and front-log files of a run under
// baseDir/<run id> and returns that directory. Skyline images are written
// separately by WriteSkylineImages because they need the source image.
func WriteRunArtifacts(baseDir string, artifacts RunArtifacts) (string, error) {
	if artifacts.Config.RunID == "" {
		return "", fmt.Errorf("run id is required")
	}

	runDir := filepath.Join(baseDir, artifacts.Config.RunID)
	if err := os.MkdirAll(runDir, 0o755); err != nil {
		return "", err
	}

	if err := writeJSON(filepath.Join(runDir, configFile), artifacts.Config); err != nil {
		return "", err
	}
	if len(artifacts.ConfigRecord) > 0 {
		if err := os.WriteFile(filepath.Join(runDir, runRecordFile), artifacts.ConfigRecord, 0o644); err != nil {
			return "", err
		}
	}
	if err := writeJSON(filepath.Join(runDir, diagnosticsJSONFile), artifacts.GenerationDiagnostics); err != nil {
		return "", err
	}
	if err := writeFile(filepath.Join(runDir, diagnosticsCSVFile), func(w io.Writer) error {
		return WriteDiagnosticsCSV(w, artifacts.GenerationDiagnostics)
	}); err != nil {
		return "", err
	}
	if err := writeFile(filepath.Join(runDir, frontsFile), func(w io.Writer) error {
		return WriteFrontsLog(w, artifacts.Fronts)
	}); err != nil {
		return "", err
	}
	if err := writeJSON(filepath.Join(runDir, skylineFile), map[string]any{
		"final_best_fitness": artifacts.FinalBestFitness,
		"members":            artifacts.Skyline,
	}); err != nil {
		return "", err
	}

	return runDir, nil
}

func AppendRunIndex(baseDir string, entry RunIndexEntry) error {
	if entry.RunID == "" {
		return fmt.Errorf("run id is required")
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return err
	}

	index, err := ListRunIndex(baseDir)
	if err != nil {
		return err
	}

	for i := range index {
		if index[i].RunID == entry.RunID {
			index[i] = entry
			return writeJSON(filepath.Join(baseDir, runIndexFile), index)
		}
	}

	index = append(index, entry)
	return writeJSON(filepath.Join(baseDir, runIndexFile), index)
}

// ListRunIndex returns the indexed runs, newest first.
func ListRunIndex(baseDir string) ([]RunIndexEntry, error) {
	data, err := os.ReadFile(filepath.Join(baseDir, runIndexFile))
	if err != nil {
		if os.IsNotExist(err) {
			return []RunIndexEntry{}, nil
		}
		return nil, err
	}

	var entries []RunIndexEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, err
	}

	type indexedEntry struct {
		entry RunIndexEntry
		idx   int
	}
	indexed := make([]indexedEntry, len(entries))
	for i := range entries {
		indexed[i] = indexedEntry{entry: entries[i], idx: i}
	}
	sort.Slice(indexed, func(i, j int) bool {
		if indexed[i].entry.CreatedAtUTC == indexed[j].entry.CreatedAtUTC {
			// Later appends win ties.
			return indexed[i].idx > indexed[j].idx
		}
		return indexed[i].entry.CreatedAtUTC > indexed[j].entry.CreatedAtUTC
	})

	sorted := make([]RunIndexEntry, 0, len(indexed))
	for _, item := range indexed {
		sorted = append(sorted, item.entry)
	}
	return sorted, nil
}

// ExportRunArtifacts copies a run directory, skyline images included, to
// outDir/<run id>.
func ExportRunArtifacts(baseDir, runID, outDir string) (string, error) {
	if strings.TrimSpace(runID) == "" {
		return "", fmt.Errorf("run id is required")
	}

	src := filepath.Join(baseDir, runID)
	if _, err := os.Stat(src); err != nil {
		return "", err
	}
	dst := filepath.Join(outDir, runID)
	if err := os.MkdirAll(dst, 0o755); err != nil {
		return "", err
	}

	for _, file := range []string{configFile, diagnosticsJSONFile, diagnosticsCSVFile, frontsFile, skylineFile} {
		if err := copyFile(filepath.Join(src, file), filepath.Join(dst, file)); err != nil {
			return "", err
		}
	}
	if err := copyFile(filepath.Join(src, runRecordFile), filepath.Join(dst, runRecordFile)); err != nil && !os.IsNotExist(err) {
		return "", err
	}

	images := filepath.Join(src, skylineDir)
	if _, err := os.Stat(images); err == nil {
		err := filepath.WalkDir(images, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			rel, err := filepath.Rel(src, path)
			if err != nil {
				return err
			}
			target := filepath.Join(dst, rel)
			if d.IsDir() {
				return os.MkdirAll(target, 0o755)
			}
			return copyFile(path, target)
		})
		if err != nil {
			return "", err
		}
	} else if !os.IsNotExist(err) {
		return "", err
	}

	return dst, nil
}

func ReadRunConfig(baseDir, runID string) (RunConfig, bool, error) {
	var cfg RunConfig
	ok, err := readJSON(filepath.Join(baseDir, runID, configFile), &cfg)
	return cfg, ok, err
}

// ReadRunRecord returns the raw configuration envelope of a run.
func ReadRunRecord(baseDir, runID string) ([]byte, bool, error) {
	data, err := os.ReadFile(filepath.Join(baseDir, runID, runRecordFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return data, true, nil
}

func ReadGenerationDiagnostics(baseDir, runID string) ([]model.GenerationDiagnostics, bool, error) {
	var diagnostics []model.GenerationDiagnostics
	ok, err := readJSON(filepath.Join(baseDir, runID, diagnosticsJSONFile), &diagnostics)
	return diagnostics, ok, err
}

func ReadFronts(baseDir, runID string) ([]model.FrontRecord, bool, error) {
	file, err := os.Open(filepath.Join(baseDir, runID, frontsFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, err
	}
	defer file.Close()

	fronts, err := ReadFrontsLog(file)
	if err != nil {
		return nil, false, err
	}
	return fronts, true, nil
}

func ReadSkyline(baseDir, runID string) ([]model.CandidateRecord, bool, error) {
	var doc struct {
		Members []model.CandidateRecord `json:"members"`
	}
	ok, err := readJSON(filepath.Join(baseDir, runID, skylineFile), &doc)
	return doc.Members, ok, err
}

func readJSON(path string, dst any) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return false, err
	}
	return true, nil
}

func writeJSON(path string, value any) error {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o644)
}

func writeFile(path string, fill func(io.Writer) error) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := fill(file); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Sync()
}
