// Package results collects per-variation simulation outputs keyed by their
// snapshot and reduces them to tabular reports: independent analysis passes
// over the same sweep are merged row-wise, constant variables are factored
// out, and the remainder is written as CSV with a companion constants file.
package results

import (
	"fmt"

	"github.com/banshee-data/cavity.report/internal/hfss/variables"
)

// SimulationResult pairs one variation's flat result fields with the
// snapshot that produced it. Results are never mutated once created; passes
// that need to combine them build new values via Merge or Join.
type SimulationResult struct {
	Result   map[string]any
	Snapshot variables.Snapshot
}

// PreconditionError reports a call whose inputs violate a shape contract the
// caller was required to uphold: a programming error, not a data error.
type PreconditionError struct {
	Op     string
	Detail string
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Detail)
}

// Merge combines two results that share a snapshot into one carrying the
// union of their fields. Differing snapshots are a caller bug and fail with
// a PreconditionError. Field name overlaps resolve to b's value.
func Merge(a, b SimulationResult) (SimulationResult, error) {
	if a.Snapshot.Key() != b.Snapshot.Key() {
		return SimulationResult{}, &PreconditionError{
			Op:     "merge",
			Detail: fmt.Sprintf("snapshots differ: %q vs %q", a.Snapshot.Key(), b.Snapshot.Key()),
		}
	}
	merged := make(map[string]any, len(a.Result)+len(b.Result))
	for k, v := range a.Result {
		merged[k] = v
	}
	for k, v := range b.Result {
		merged[k] = v
	}
	return SimulationResult{Result: merged, Snapshot: a.Snapshot}, nil
}

// Join groups results by snapshot and merges each group, preserving the
// first-seen order of distinct snapshots. This reassembles multiple
// independently-run analysis passes (classical eigenmodes, quantum
// Hamiltonian extraction) into one row per snapshot.
func Join(results []SimulationResult) []SimulationResult {
	byKey := make(map[string]int)
	var out []SimulationResult
	for _, r := range results {
		key := r.Snapshot.Key()
		if i, ok := byKey[key]; ok {
			merged := make(map[string]any, len(out[i].Result)+len(r.Result))
			for k, v := range out[i].Result {
				merged[k] = v
			}
			for k, v := range r.Result {
				merged[k] = v
			}
			out[i] = SimulationResult{Result: merged, Snapshot: out[i].Snapshot}
			continue
		}
		byKey[key] = len(out)
		copied := make(map[string]any, len(r.Result))
		for k, v := range r.Result {
			copied[k] = v
		}
		out = append(out, SimulationResult{Result: copied, Snapshot: r.Snapshot})
	}
	return out
}
