package map2rec

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrUnsupportedKind = errors.New("unsupported map2rec kind")
	ErrInvalidField    = errors.New("invalid config field")
)

func invalidField(key string, v any, want string) error {
	return fmt.Errorf("%w: %s must be %s, got %T", ErrInvalidField, key, want, v)
}

func asString(v any) (string, bool) {
	switch x := v.(type) {
	case string:
		return x, true
	default:
		return "", false
	}
}

// asInt accepts JSON numbers only when they carry no fractional part.
func asInt(v any) (int, bool) {
	switch x := v.(type) {
	case int:
		return x, true
	case int32:
		return int(x), true
	case int64:
		return int(x), true
	case float64:
		if x != math.Trunc(x) || math.IsInf(x, 0) {
			return 0, false
		}
		return int(x), true
	case float32:
		if float64(x) != math.Trunc(float64(x)) {
			return 0, false
		}
		return int(x), true
	default:
		return 0, false
	}
}

func asInt64(v any) (int64, bool) {
	switch x := v.(type) {
	case int64:
		return x, true
	default:
		n, ok := asInt(x)
		return int64(n), ok
	}
}

func asFloat64(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int32:
		return float64(x), true
	case int64:
		return float64(x), true
	default:
		return 0, false
	}
}

func asBool(v any) (bool, bool) {
	switch x := v.(type) {
	case bool:
		return x, true
	default:
		return false, false
	}
}

func asFunctionRecord(key string, v any) (FunctionRecord, error) {
	raw, ok := v.(map[string]any)
	if !ok {
		return FunctionRecord{}, invalidField(key, v, "an object")
	}
	out := defaultFunctionRecord()
	for field, val := range raw {
		path := key + "." + field
		switch field {
		case "name":
			s, ok := asString(val)
			if !ok {
				return FunctionRecord{}, invalidField(path, val, "a string")
			}
			out.Name = s
		case "probability":
			f, ok := asFloat64(val)
			if !ok {
				return FunctionRecord{}, invalidField(path, val, "a number")
			}
			out.Probability = &f
		case "tournament_size":
			n, ok := asInt(val)
			if !ok {
				return FunctionRecord{}, invalidField(path, val, "an integer")
			}
			out.TournamentSize = &n
		case "combine_parents_and_offspring":
			b, ok := asBool(val)
			if !ok {
				return FunctionRecord{}, invalidField(path, val, "a boolean")
			}
			out.CombineParentsAndOffspring = &b
		case "number_of_slices":
			n, ok := asInt(val)
			if !ok {
				return FunctionRecord{}, invalidField(path, val, "an integer")
			}
			out.NumberOfSlices = &n
		case "depth_fraction":
			f, ok := asFloat64(val)
			if !ok {
				return FunctionRecord{}, invalidField(path, val, "a number")
			}
			out.DepthFraction = &f
		case "search_radius":
			n, ok := asInt(val)
			if !ok {
				return FunctionRecord{}, invalidField(path, val, "an integer")
			}
			out.SearchRadius = &n
		case "min_coverage":
			f, ok := asFloat64(val)
			if !ok {
				return FunctionRecord{}, invalidField(path, val, "a number")
			}
			out.MinCoverage = &f
		case "edge_biased":
			b, ok := asBool(val)
			if !ok {
				return FunctionRecord{}, invalidField(path, val, "a boolean")
			}
			out.EdgeBiased = &b
		}
	}
	return out, nil
}

func asFunctionRecords(key string, v any) ([]FunctionRecord, error) {
	raw, ok := v.([]any)
	if !ok {
		return nil, invalidField(key, v, "a list")
	}
	out := make([]FunctionRecord, 0, len(raw))
	for i, item := range raw {
		rec, err := asFunctionRecord(fmt.Sprintf("%s[%d]", key, i), item)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}
