package results

import (
	"sort"

	"gonum.org/v1/gonum/stat"
)

// FieldStats summarises one numeric result field across a sweep.
type FieldStats struct {
	Field  string
	Count  int
	Mean   float64
	StdDev float64
	Min    float64
	Max    float64
}

// Summarize computes per-field statistics over every numeric result field.
// Non-numeric fields are skipped. Fields are returned sorted by name so
// report footers are deterministic.
func Summarize(results []SimulationResult) []FieldStats {
	samples := make(map[string][]float64)
	for _, r := range results {
		for k, v := range r.Result {
			if f, ok := asFloat(v); ok {
				samples[k] = append(samples[k], f)
			}
		}
	}

	fields := make([]string, 0, len(samples))
	for k := range samples {
		fields = append(fields, k)
	}
	sort.Strings(fields)

	out := make([]FieldStats, 0, len(fields))
	for _, field := range fields {
		xs := samples[field]
		min, max := xs[0], xs[0]
		for _, x := range xs[1:] {
			if x < min {
				min = x
			}
			if x > max {
				max = x
			}
		}
		fs := FieldStats{
			Field: field,
			Count: len(xs),
			Mean:  stat.Mean(xs, nil),
			Min:   min,
			Max:   max,
		}
		if len(xs) > 1 {
			fs.StdDev = stat.StdDev(xs, nil)
		}
		out = append(out, fs)
	}
	return out
}

func asFloat(v any) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, true
	case float32:
		return float64(val), true
	case int:
		return float64(val), true
	case int64:
		return float64(val), true
	}
	return 0, false
}
