// Package sweep enumerates design-variable combinations and drives the
// simulation project through them one solve at a time.
package sweep

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// RangeSpec defines a swept value range.
type RangeSpec struct {
	Min  float64
	Max  float64
	Step float64
}

// ParseRangeSpec parses a "min:max:step" string into a RangeSpec.
// Returns an error if the format is invalid or values cannot be parsed.
func ParseRangeSpec(s string) (RangeSpec, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return RangeSpec{}, fmt.Errorf("invalid range format %q: expected min:max:step", s)
	}

	min, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return RangeSpec{}, fmt.Errorf("invalid min value %q: %w", parts[0], err)
	}

	max, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return RangeSpec{}, fmt.Errorf("invalid max value %q: %w", parts[1], err)
	}

	step, err := strconv.ParseFloat(strings.TrimSpace(parts[2]), 64)
	if err != nil {
		return RangeSpec{}, fmt.Errorf("invalid step value %q: %w", parts[2], err)
	}

	if step <= 0 {
		return RangeSpec{}, fmt.Errorf("step must be positive, got %f", step)
	}
	if max < min {
		return RangeSpec{}, fmt.Errorf("range max %f is below min %f", max, min)
	}

	return RangeSpec{Min: min, Max: max, Step: step}, nil
}

// Values expands the range into concrete swept values, inclusive of Max
// within a small tolerance for accumulated floating-point error.
func (r RangeSpec) Values() []float64 {
	if r.Step <= 0 {
		return nil
	}
	tolerance := r.Step * 1e-9
	var out []float64
	for v := r.Min; v <= r.Max+tolerance; v += r.Step {
		out = append(out, v)
	}
	return out
}

// Linspace returns num evenly spaced values from start to end inclusive.
// num <= 0 yields nil; num == 1 yields just start.
func Linspace(start, end float64, num int) []float64 {
	if num <= 0 {
		return nil
	}
	if num == 1 {
		return []float64{start}
	}
	out := make([]float64, num)
	step := (end - start) / float64(num-1)
	for i := range out {
		out[i] = start + float64(i)*step
	}
	// Pin the endpoint; accumulation error otherwise leaves it slightly off.
	out[num-1] = end
	return out
}

// Count returns how many values the range expands to without allocating
// them.
func (r RangeSpec) Count() int {
	if r.Step <= 0 || r.Max < r.Min {
		return 0
	}
	return int(math.Floor((r.Max-r.Min)/r.Step+1e-9)) + 1
}
