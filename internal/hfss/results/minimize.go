package results

import (
	"fmt"

	"github.com/banshee-data/cavity.report/internal/hfss/variables"
)

// JointResults is a sweep report reduced to its varying parameters: each
// result's snapshot retains only the variables whose value changes across
// the sweep, and the variables constant over every result are factored out
// once.
type JointResults struct {
	Results           []SimulationResult
	ConstantVariables variables.Snapshot
}

// Minimize factors the constant variables out of a result list. All
// snapshots must share one shape (same cardinality, same variable names;
// the sweep invariant); a violation fails with a PreconditionError. A
// variable is constant when the identical rounded value appears in every
// result.
func Minimize(results []SimulationResult) (JointResults, error) {
	if len(results) == 0 {
		return JointResults{}, &PreconditionError{Op: "minimize", Detail: "no results"}
	}

	first := results[0].Snapshot
	for i, r := range results[1:] {
		if !variables.SameShape(first, r.Snapshot) {
			return JointResults{}, &PreconditionError{
				Op:     "minimize",
				Detail: fmt.Sprintf("result %d snapshot shape differs from result 0: %q vs %q", i+1, r.Snapshot.Key(), first.Key()),
			}
		}
	}

	// Count how many results carry each exact (name, value, unit) triple;
	// a triple present in all of them is constant.
	counts := make(map[variables.ValuedVariable]int, len(first))
	for _, r := range results {
		for _, v := range r.Snapshot.Canonical() {
			counts[v]++
		}
	}

	constantNames := make(map[string]bool, len(first))
	var constants variables.Snapshot
	for _, v := range first.Canonical() {
		if counts[v] == len(results) {
			constantNames[v.Name] = true
			constants = append(constants, v)
		}
	}

	minimized := make([]SimulationResult, len(results))
	for i, r := range results {
		var dynamic variables.Snapshot
		for _, v := range r.Snapshot.Canonical() {
			if !constantNames[v.Name] {
				dynamic = append(dynamic, v)
			}
		}
		minimized[i] = SimulationResult{Result: r.Result, Snapshot: dynamic}
	}

	return JointResults{
		Results:           minimized,
		ConstantVariables: constants.Canonical(),
	}, nil
}
