package sweep

import (
	"context"
	"fmt"

	"github.com/banshee-data/cavity.report/internal/hfss/project"
	"github.com/banshee-data/cavity.report/internal/hfss/variables"
	"github.com/banshee-data/cavity.report/internal/hfss/variation"
	"github.com/banshee-data/cavity.report/internal/monitoring"
)

// Runner drives the simulation project through every combination of its
// swept variables, strictly sequentially: the solver holds a single mutable
// design state and one solve must finish before the next assignment starts.
//
// Variation identifiers are not collected per solve. The solver only assigns
// them as solves complete and its internal ordering need not match
// enumeration order (renumbering, out-of-order solving and dropped failures
// all happen in practice), so the identifiers are recovered in bulk after
// the batch by inverting the solver's variation records and looking up each
// enumerated snapshot.
type Runner struct {
	project   project.Project
	variables []variables.Variable
	strategy  Strategy

	// indexes memoises variation indexes per variable-name set so repeated
	// recoveries within one sweep do not re-parse unchanged records.
	indexes map[string]*variation.Index
}

// NewRunner creates a Runner for the given project and swept variables.
func NewRunner(p project.Project, strategy Strategy, vars ...variables.Variable) *Runner {
	return &Runner{
		project:   p,
		variables: vars,
		strategy:  strategy,
		indexes:   make(map[string]*variation.Index),
	}
}

// RunResult pairs the enumerated parameter assignments with the full-state
// snapshots captured before each solve and the recovered variation
// identifiers, all three in enumeration order.
type RunResult struct {
	Parameters   [][]variables.ValuedVariable
	Snapshots    []variables.Snapshot
	VariationIDs []string
}

// Combinations enumerates this runner's parameter assignments without
// running anything.
func (r *Runner) Combinations() ([][]variables.ValuedVariable, error) {
	return Combinations(r.strategy, r.variables)
}

// Run executes the sweep: for each combination it assigns all variables,
// captures the resulting full snapshot and triggers one blocking solve; it
// then recovers the variation identifier for every snapshot. A failed solve
// aborts the sweep immediately, with no retry and no skip, because a
// partially matched sweep silently pairs parameters with the wrong physics.
func (r *Runner) Run(ctx context.Context) (*RunResult, error) {
	combos, err := r.Combinations()
	if err != nil {
		return nil, err
	}

	result := &RunResult{
		Parameters: combos,
		Snapshots:  make([]variables.Snapshot, 0, len(combos)),
	}

	for i, combo := range combos {
		for _, v := range combo {
			if err := r.project.SetVariable(ctx, v); err != nil {
				return nil, fmt.Errorf("setting %s for combination %d/%d: %w", v.Descriptor(), i+1, len(combos), err)
			}
		}

		snapshot, err := r.project.Snapshot(ctx)
		if err != nil {
			return nil, fmt.Errorf("reading snapshot for combination %d/%d: %w", i+1, len(combos), err)
		}

		monitoring.Logf("sweep: combination %d/%d: %s", i+1, len(combos), variables.Snapshot(combo).Key())
		if err := r.project.Analyze(ctx); err != nil {
			return nil, fmt.Errorf("analyze failed for combination %d/%d (%s): %w", i+1, len(combos), snapshot.Key(), err)
		}

		result.Snapshots = append(result.Snapshots, snapshot)
	}

	ids, err := r.VariationIDs(ctx, result.Snapshots)
	if err != nil {
		return nil, err
	}
	result.VariationIDs = ids
	return result, nil
}

// VariationIDs recovers the variation identifier for each snapshot, in the
// given order, through a memoised variation index. The solver's current
// variation records are re-read on every call; a cached index is reused only
// while those records are unchanged and is otherwise rebuilt.
func (r *Runner) VariationIDs(ctx context.Context, snapshots []variables.Snapshot) ([]string, error) {
	ids := make([]string, len(snapshots))
	for i, snapshot := range snapshots {
		ix, err := r.indexFor(ctx, snapshot.NameKey())
		if err != nil {
			return nil, err
		}
		id, err := ix.LookupSnapshot(snapshot)
		if err != nil {
			return nil, err
		}
		ids[i] = id
	}
	return ids, nil
}

func (r *Runner) indexFor(ctx context.Context, nameKey string) (*variation.Index, error) {
	current, err := r.project.Variations(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading variation records: %w", err)
	}

	if ix, ok := r.indexes[nameKey]; ok && ix.Matches(current) {
		return ix, nil
	}

	ix, err := variation.BuildIndex(current)
	if err != nil {
		return nil, err
	}
	r.indexes[nameKey] = ix
	return ix, nil
}
