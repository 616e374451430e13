package main

import (
	"flag"
	"fmt"
	"os"

	"paretoseg/internal/map2rec"
)

func loadRunConfig(path string) (map2rec.RunConfigRecord, error) {
	if path == "" {
		return map2rec.ConvertRunConfig(map[string]any{})
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return map2rec.RunConfigRecord{}, fmt.Errorf("load config: %w", err)
	}
	rec, err := map2rec.ParseRunConfig(data)
	if err != nil {
		return map2rec.RunConfigRecord{}, fmt.Errorf("load config %s: %w", path, err)
	}
	return rec, nil
}

// overrideFromFlags applies only the flags that were set on the command
// line, so values from the config file survive unless explicitly replaced.
func overrideFromFlags(rec *map2rec.RunConfigRecord, fs *flag.FlagSet) error {
	var err error
	fs.Visit(func(f *flag.Flag) {
		if err != nil {
			return
		}
		getter, ok := f.Value.(flag.Getter)
		if !ok {
			return
		}
		v := getter.Get()
		switch f.Name {
		case "run-id":
			rec.RunID = v.(string)
		case "image":
			rec.ProblemInstance = v.(string)
		case "pop":
			rec.PopulationSize = v.(int)
		case "gens":
			rec.NumberOfGenerations = v.(int)
		case "init":
			rec.InitializationMethod = v.(string)
		case "seed":
			rec.Seed = v.(int64)
		case "workers":
			rec.Workers = v.(int)
		case "max-dim":
			if n := v.(int); n < 0 {
				err = fmt.Errorf("--max-dim must be >= 0, got %d", n)
				return
			}
			rec.MaxImageDimension = v.(int)
		case "preserve-skyline":
			rec.PreserveSkyline = v.(bool)
		}
	})
	return err
}
