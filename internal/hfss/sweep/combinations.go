package sweep

import (
	"fmt"

	"gonum.org/v1/gonum/stat/combin"

	"github.com/banshee-data/cavity.report/internal/hfss/variables"
)

// Strategy selects how multiple swept variables combine into concrete
// parameter assignments.
type Strategy string

const (
	// StrategyProduct enumerates the full Cartesian product of all value
	// sequences: every value of every variable against every other.
	StrategyProduct Strategy = "product"

	// StrategyZip pairs the value sequences element-wise. All sequences
	// must have the same length; a mismatch is an error rather than a
	// silent truncation, since the caller's value lists are almost
	// certainly misaligned rather than deliberately ragged.
	StrategyZip Strategy = "zip"
)

// ParseStrategy validates a strategy name from configuration.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(s) {
	case StrategyProduct:
		return StrategyProduct, nil
	case StrategyZip:
		return StrategyZip, nil
	}
	return "", fmt.Errorf("unknown sweep strategy %q (want %q or %q)", s, StrategyProduct, StrategyZip)
}

// Combinations enumerates the ordered parameter assignments for the given
// variables under the given strategy. Each combination holds one rounded,
// unit-tagged value per variable, in variable declaration order. Enumeration
// order is deterministic: product order varies the last variable fastest.
func Combinations(strategy Strategy, vars []variables.Variable) ([][]variables.ValuedVariable, error) {
	if len(vars) == 0 {
		return nil, nil
	}

	sequences := make([][]variables.ValuedVariable, len(vars))
	lens := make([]int, len(vars))
	for i, v := range vars {
		sequences[i] = v.Generate()
		lens[i] = len(sequences[i])
		if lens[i] == 0 {
			return nil, fmt.Errorf("variable %q has no values to sweep", v.Name)
		}
	}

	switch strategy {
	case StrategyProduct:
		rows := combin.Cartesian(lens)
		out := make([][]variables.ValuedVariable, len(rows))
		for i, row := range rows {
			combo := make([]variables.ValuedVariable, len(vars))
			for dim, idx := range row {
				combo[dim] = sequences[dim][idx]
			}
			out[i] = combo
		}
		return out, nil

	case StrategyZip:
		n := lens[0]
		for i, l := range lens {
			if l != n {
				return nil, fmt.Errorf("zip strategy requires equal value counts: variable %q has %d values, %q has %d",
					vars[0].Name, n, vars[i].Name, l)
			}
		}
		out := make([][]variables.ValuedVariable, n)
		for i := 0; i < n; i++ {
			combo := make([]variables.ValuedVariable, len(vars))
			for dim := range vars {
				combo[dim] = sequences[dim][i]
			}
			out[i] = combo
		}
		return out, nil
	}

	return nil, fmt.Errorf("unknown sweep strategy %q", strategy)
}
