package stats

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"paretoseg/internal/model"
)

// WriteFrontsLog writes one Pareto front per line, each member as
// "(edge_value,connectivity,deviation);".
func WriteFrontsLog(w io.Writer, fronts []model.FrontRecord) error {
	bw := bufio.NewWriter(w)
	for _, front := range fronts {
		for _, m := range front.Members {
			fmt.Fprintf(bw, "(%s,%s,%s);",
				strconv.FormatFloat(m.EdgeValue, 'g', -1, 64),
				strconv.FormatFloat(m.Connectivity, 'g', -1, 64),
				strconv.FormatFloat(m.Deviation, 'g', -1, 64),
			)
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// ReadFrontsLog parses the format written by WriteFrontsLog. Line i becomes
// the front of rank i; blank trailing lines are ignored.
func ReadFrontsLog(r io.Reader) ([]model.FrontRecord, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}

	fronts := make([]model.FrontRecord, 0, len(lines))
	for rank, line := range lines {
		front := model.FrontRecord{Rank: rank, Members: []model.ObjectiveVector{}}
		for _, item := range strings.Split(line, ";") {
			item = strings.TrimSpace(item)
			if item == "" {
				continue
			}
			member, err := parseFrontMember(item)
			if err != nil {
				return nil, fmt.Errorf("front %d: %w", rank, err)
			}
			front.Members = append(front.Members, member)
		}
		fronts = append(fronts, front)
	}
	return fronts, nil
}

func parseFrontMember(item string) (model.ObjectiveVector, error) {
	if !strings.HasPrefix(item, "(") || !strings.HasSuffix(item, ")") {
		return model.ObjectiveVector{}, fmt.Errorf("malformed member %q", item)
	}
	parts := strings.Split(item[1:len(item)-1], ",")
	if len(parts) != 3 {
		return model.ObjectiveVector{}, fmt.Errorf("member %q must have 3 values", item)
	}
	var values [3]float64
	for i, part := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return model.ObjectiveVector{}, fmt.Errorf("member %q: %w", item, err)
		}
		values[i] = v
	}
	return model.ObjectiveVector{EdgeValue: values[0], Connectivity: values[1], Deviation: values[2]}, nil
}
