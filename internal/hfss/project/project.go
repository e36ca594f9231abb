// Package project abstracts the HFSS/pyEPR side of a simulation run. The
// solver holds the persistent design state and performs all physics; this
// package only assigns variables, triggers solves and reads results back.
//
// Two implementations exist:
//
//   - Client: JSON-over-HTTP calls against a pyEPR bridge sidecar (the
//     solver runs where the CAD tool runs, usually a Windows host).
//   - Fake: in-memory stand-in for tests.
package project

import (
	"context"

	"github.com/banshee-data/cavity.report/internal/hfss/variables"
)

// DesignInfo identifies what the solver side has open: the project file,
// the design within it and the solution setup solves run against.
type DesignInfo struct {
	Project string `json:"project"`
	Design  string `json:"design"`
	Setup   string `json:"setup"`
}

// Project is the opaque simulation collaborator.
type Project interface {
	// DesignInfo reports which project, design and setup the solver side
	// currently has open.
	DesignInfo(ctx context.Context) (DesignInfo, error)

	// SetVariable assigns one design variable. Names with the "$" sigil
	// are project-scoped, bare names design-scoped; the solver side routes
	// accordingly.
	SetVariable(ctx context.Context, v variables.ValuedVariable) error

	// GetVariable reads one variable back as unit-suffixed text.
	GetVariable(ctx context.Context, name string) (string, error)

	// Snapshot returns the complete current variable assignment, project
	// and design scope combined, in canonical form.
	Snapshot(ctx context.Context) (variables.Snapshot, error)

	// Analyze runs one blocking solve under the currently assigned
	// variables. Solves routinely take minutes; pass a context with an
	// appropriate deadline or none at all.
	Analyze(ctx context.Context) error

	// Variations returns every solved variation identifier mapped to its
	// free-text parameter descriptor.
	Variations(ctx context.Context) (map[string]string, error)

	// Frequencies returns the bare eigenmode results for one solved
	// variation.
	Frequencies(ctx context.Context, variationID string) ([]ModeResult, error)

	// Quantum returns the energy-participation-ratio analysis outputs for
	// one solved variation.
	Quantum(ctx context.Context, variationID string) (*QuantumResult, error)
}

// ModeResult is one eigenmode of a solved variation.
type ModeResult struct {
	Mode          int     `json:"mode"`
	FreqGHz       float64 `json:"freq_ghz"`
	QualityFactor float64 `json:"quality_factor"`
}

// QuantumResult carries the numerically-diagonalised Hamiltonian outputs
// for one variation: mode frequencies and the symmetric chi matrix
// (diagonal anharmonicities, off-diagonal cross-Kerr couplings), both in
// MHz. The matrix is indexed by position in Modes.
type QuantumResult struct {
	Modes    []int       `json:"modes"`
	FreqsMHz []float64   `json:"freqs_mhz"`
	ChiMHz   [][]float64 `json:"chi_mhz"`
}
