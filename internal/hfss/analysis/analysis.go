// Package analysis turns solved variations into report rows. The classical
// pass reads bare eigenmode frequencies and quality factors; the quantum
// pass reads the energy-participation-ratio outputs (numerically
// diagonalised mode frequencies and the chi matrix). Both passes emit one
// SimulationResult per snapshot with disjoint field names, so a sweep
// analysed by both reassembles into single rows via results.Join.
package analysis

import (
	"context"
	"fmt"
	"math"

	"github.com/banshee-data/cavity.report/internal/hfss/project"
	"github.com/banshee-data/cavity.report/internal/hfss/results"
	"github.com/banshee-data/cavity.report/internal/hfss/variables"
)

// Labels maps solver mode numbers to physical names ("transmon",
// "readout", "cavity"). Unmapped modes fall back to "mode <n>".
type Labels map[int]string

// For returns the label for a mode number.
func (l Labels) For(mode int) string {
	if name, ok := l[mode]; ok {
		return name
	}
	return fmt.Sprintf("mode %d", mode)
}

// Classical fetches the bare eigenmode results for each snapshot's
// variation and derives the mode lifetime from frequency and quality
// factor. snapshots and variationIDs run parallel, as produced by a sweep
// run. A non-nil modes slice restricts the pass to those mode numbers.
func Classical(ctx context.Context, p project.Project, snapshots []variables.Snapshot, variationIDs []string, labels Labels, modeFilter []int) ([]results.SimulationResult, error) {
	if len(snapshots) != len(variationIDs) {
		return nil, fmt.Errorf("classical analysis: %d snapshots but %d variation ids", len(snapshots), len(variationIDs))
	}
	wanted := modeSet(modeFilter)

	out := make([]results.SimulationResult, len(snapshots))
	for i, snapshot := range snapshots {
		modes, err := p.Frequencies(ctx, variationIDs[i])
		if err != nil {
			return nil, fmt.Errorf("classical analysis of variation %q: %w", variationIDs[i], err)
		}

		fields := make(map[string]any, 3*len(modes))
		for _, m := range modes {
			if wanted != nil && !wanted[m.Mode] {
				continue
			}
			label := labels.For(m.Mode)
			fields[label+" Freq. (GHz)"] = m.FreqGHz
			fields[label+" Quality Factor"] = m.QualityFactor
			// Q / omega, in microseconds for GHz input.
			fields[label+" Lifetime (us)"] = m.QualityFactor / (2 * math.Pi * m.FreqGHz * 1e3)
		}
		out[i] = results.SimulationResult{Result: fields, Snapshot: snapshot}
	}
	return out, nil
}

// Quantum fetches the Hamiltonian outputs for each snapshot's variation and
// flattens the symmetric chi matrix into named anharmonicity and coupling
// fields.
func Quantum(ctx context.Context, p project.Project, snapshots []variables.Snapshot, variationIDs []string, labels Labels) ([]results.SimulationResult, error) {
	if len(snapshots) != len(variationIDs) {
		return nil, fmt.Errorf("quantum analysis: %d snapshots but %d variation ids", len(snapshots), len(variationIDs))
	}

	out := make([]results.SimulationResult, len(snapshots))
	for i, snapshot := range snapshots {
		q, err := p.Quantum(ctx, variationIDs[i])
		if err != nil {
			return nil, fmt.Errorf("quantum analysis of variation %q: %w", variationIDs[i], err)
		}

		fields, err := flattenQuantum(q, labels)
		if err != nil {
			return nil, fmt.Errorf("quantum analysis of variation %q: %w", variationIDs[i], err)
		}
		out[i] = results.SimulationResult{Result: fields, Snapshot: snapshot}
	}
	return out, nil
}

func flattenQuantum(q *project.QuantumResult, labels Labels) (map[string]any, error) {
	n := len(q.Modes)
	if len(q.FreqsMHz) != n {
		return nil, fmt.Errorf("%d modes but %d frequencies", n, len(q.FreqsMHz))
	}
	if len(q.ChiMHz) != n {
		return nil, fmt.Errorf("chi matrix has %d rows for %d modes", len(q.ChiMHz), n)
	}
	for i, row := range q.ChiMHz {
		if len(row) != n {
			return nil, fmt.Errorf("chi matrix row %d has %d entries for %d modes", i, len(row), n)
		}
	}

	fields := make(map[string]any, n+n*(n+1)/2)
	for i, mode := range q.Modes {
		fields[labels.For(mode)+" Freq. ND (MHz)"] = q.FreqsMHz[i]
	}

	// The chi matrix is symmetric; walk the upper triangle only. Diagonal
	// entries are self-Kerr (anharmonicity), off-diagonal cross-Kerr
	// (coupling).
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			if i == j {
				fields[labels.For(q.Modes[i])+" Anharmonicity (MHz)"] = q.ChiMHz[i][i]
			} else {
				name := labels.For(q.Modes[i]) + " - " + labels.For(q.Modes[j])
				fields[name+" Coupling (MHz)"] = q.ChiMHz[i][j]
			}
		}
	}
	return fields, nil
}

// modeSet converts a mode filter into a lookup set; nil means no filter.
func modeSet(modes []int) map[int]bool {
	if modes == nil {
		return nil
	}
	set := make(map[int]bool, len(modes))
	for _, m := range modes {
		set[m] = true
	}
	return set
}
