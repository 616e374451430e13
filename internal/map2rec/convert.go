package map2rec

const (
	KindRun      = "run"
	KindFunction = "function"
)

func Convert(kind string, in map[string]any) (any, error) {
	switch kind {
	case KindRun:
		return ConvertRunConfig(in)
	case KindFunction:
		return asFunctionRecord("function", in)
	default:
		return nil, ErrUnsupportedKind
	}
}

// ConvertRunConfig overlays a decoded JSON object onto the default run
// configuration. Unknown keys are ignored; known keys with the wrong type fail
// with ErrInvalidField naming the key.
func ConvertRunConfig(in map[string]any) (RunConfigRecord, error) {
	out := defaultRunConfigRecord()
	for key, val := range in {
		switch key {
		case "run_id":
			s, ok := asString(val)
			if !ok {
				return RunConfigRecord{}, invalidField(key, val, "a string")
			}
			out.RunID = s
		case "problem_instance":
			s, ok := asString(val)
			if !ok {
				return RunConfigRecord{}, invalidField(key, val, "a string")
			}
			out.ProblemInstance = s
		case "population_size":
			n, ok := asInt(val)
			if !ok {
				return RunConfigRecord{}, invalidField(key, val, "an integer")
			}
			out.PopulationSize = n
		case "number_of_generations":
			n, ok := asInt(val)
			if !ok {
				return RunConfigRecord{}, invalidField(key, val, "an integer")
			}
			out.NumberOfGenerations = n
		case "initialization_method":
			s, ok := asString(val)
			if !ok {
				return RunConfigRecord{}, invalidField(key, val, "a string")
			}
			out.InitializationMethod = s
		case "parent_selection":
			rec, err := asFunctionRecord(key, val)
			if err != nil {
				return RunConfigRecord{}, err
			}
			out.ParentSelection = rec
		case "survivor_selection":
			rec, err := asFunctionRecord(key, val)
			if err != nil {
				return RunConfigRecord{}, err
			}
			out.SurvivorSelection = rec
		case "crossovers":
			recs, err := asFunctionRecords(key, val)
			if err != nil {
				return RunConfigRecord{}, err
			}
			out.Crossovers = recs
		case "mutations":
			recs, err := asFunctionRecords(key, val)
			if err != nil {
				return RunConfigRecord{}, err
			}
			out.Mutations = recs
		case "preserve_skyline":
			b, ok := asBool(val)
			if !ok {
				return RunConfigRecord{}, invalidField(key, val, "a boolean")
			}
			out.PreserveSkyline = b
		case "edge_value_multiplier":
			f, ok := asFloat64(val)
			if !ok {
				return RunConfigRecord{}, invalidField(key, val, "a number")
			}
			out.EdgeValueMultiplier = f
		case "connectivity_multiplier":
			f, ok := asFloat64(val)
			if !ok {
				return RunConfigRecord{}, invalidField(key, val, "a number")
			}
			out.ConnectivityMultiplier = f
		case "overall_deviation_multiplier":
			f, ok := asFloat64(val)
			if !ok {
				return RunConfigRecord{}, invalidField(key, val, "a number")
			}
			out.OverallDeviationMultiplier = f
		case "seed":
			n, ok := asInt64(val)
			if !ok {
				return RunConfigRecord{}, invalidField(key, val, "an integer")
			}
			out.Seed = n
		case "workers":
			n, ok := asInt(val)
			if !ok {
				return RunConfigRecord{}, invalidField(key, val, "an integer")
			}
			out.Workers = n
		case "max_image_dimension":
			n, ok := asInt(val)
			if !ok {
				return RunConfigRecord{}, invalidField(key, val, "an integer")
			}
			out.MaxImageDimension = n
		}
	}
	return out, nil
}
