package stats

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"paretoseg/internal/model"
)

var diagnosticsHeader = []string{
	"generation",
	"skyline_size",
	"front_count",
	"edge_value_min",
	"edge_value_max",
	"edge_value_mean",
	"connectivity_min",
	"connectivity_max",
	"connectivity_mean",
	"deviation_min",
	"deviation_max",
	"deviation_mean",
	"best_fitness",
	"mean_fitness",
	"mean_segments",
	"fingerprint_diversity",
	"evaluations",
}

func WriteDiagnosticsCSV(w io.Writer, diagnostics []model.GenerationDiagnostics) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(diagnosticsHeader); err != nil {
		return err
	}
	for _, d := range diagnostics {
		if err := writer.Write([]string{
			strconv.Itoa(d.Generation),
			strconv.Itoa(d.SkylineSize),
			strconv.Itoa(d.FrontCount),
			formatFloat(d.EdgeValueMin),
			formatFloat(d.EdgeValueMax),
			formatFloat(d.EdgeValueMean),
			formatFloat(d.ConnectivityMin),
			formatFloat(d.ConnectivityMax),
			formatFloat(d.ConnectivityMean),
			formatFloat(d.DeviationMin),
			formatFloat(d.DeviationMax),
			formatFloat(d.DeviationMean),
			formatFloat(d.BestFitness),
			formatFloat(d.MeanFitness),
			formatFloat(d.MeanSegments),
			strconv.Itoa(d.FingerprintDiversity),
			strconv.Itoa(d.Evaluations),
		}); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func ReadDiagnosticsCSV(r io.Reader) ([]model.GenerationDiagnostics, error) {
	reader := csv.NewReader(r)
	header, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return []model.GenerationDiagnostics{}, nil
		}
		return nil, err
	}
	if len(header) != len(diagnosticsHeader) {
		return nil, fmt.Errorf("diagnostics header must have %d columns, got %d", len(diagnosticsHeader), len(header))
	}

	out := make([]model.GenerationDiagnostics, 0, 64)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		p := rowParser{record: record}
		d := model.GenerationDiagnostics{
			Generation:           p.intAt(0),
			SkylineSize:          p.intAt(1),
			FrontCount:           p.intAt(2),
			EdgeValueMin:         p.floatAt(3),
			EdgeValueMax:         p.floatAt(4),
			EdgeValueMean:        p.floatAt(5),
			ConnectivityMin:      p.floatAt(6),
			ConnectivityMax:      p.floatAt(7),
			ConnectivityMean:     p.floatAt(8),
			DeviationMin:         p.floatAt(9),
			DeviationMax:         p.floatAt(10),
			DeviationMean:        p.floatAt(11),
			BestFitness:          p.floatAt(12),
			MeanFitness:          p.floatAt(13),
			MeanSegments:         p.floatAt(14),
			FingerprintDiversity: p.intAt(15),
			Evaluations:          p.intAt(16),
		}
		if p.err != nil {
			return nil, p.err
		}
		out = append(out, d)
	}
	return out, nil
}

// rowParser keeps the first conversion error of a CSV row.
type rowParser struct {
	record []string
	err    error
}

func (p *rowParser) intAt(i int) int {
	if p.err != nil {
		return 0
	}
	v, err := strconv.Atoi(p.record[i])
	if err != nil {
		p.err = fmt.Errorf("column %s: %w", diagnosticsHeader[i], err)
	}
	return v
}

func (p *rowParser) floatAt(i int) float64 {
	if p.err != nil {
		return 0
	}
	v, err := strconv.ParseFloat(p.record[i], 64)
	if err != nil {
		p.err = fmt.Errorf("column %s: %w", diagnosticsHeader[i], err)
	}
	return v
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
