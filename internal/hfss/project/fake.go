package project

import (
	"context"
	"fmt"
	"strconv"

	"github.com/banshee-data/cavity.report/internal/hfss/variables"
)

// Fake is an in-memory Project for tests. It tracks assigned variables,
// records a variation per distinct solved snapshot and serves canned
// results. Behaviour knobs mirror the solver's failure modes: solves can be
// made to fail, solved variations can be renumbered out of enumeration
// order, and individual variations can be dropped as a failed solve would
// be.
type Fake struct {
	vars      map[string]variables.ValuedVariable
	solvedIDs map[string]string // snapshot key -> variation id
	order     []string          // variation ids in solve order
	nextID    int

	// AnalyzeCalls counts Analyze invocations.
	AnalyzeCalls int

	// FailOnCall makes the n-th Analyze call (1-based) return an error.
	// Zero disables failure injection.
	FailOnCall int

	// IDFor overrides variation identifier assignment. The default is the
	// solver's sequential numbering: "0", "1", "2", ...
	IDFor func(n int) string

	// Dropped variation ids are omitted from Variations, as the solver
	// drops solves that errored out.
	Dropped map[string]bool

	// FrequenciesFor and QuantumFor serve result payloads per variation id.
	FrequenciesFor map[string][]ModeResult
	QuantumFor     map[string]*QuantumResult

	// Info is returned by DesignInfo.
	Info DesignInfo
}

// NewFake creates a Fake whose design state starts with the given
// variables.
func NewFake(initial ...variables.ValuedVariable) *Fake {
	f := &Fake{
		vars:           make(map[string]variables.ValuedVariable),
		solvedIDs:      make(map[string]string),
		FrequenciesFor: make(map[string][]ModeResult),
		QuantumFor:     make(map[string]*QuantumResult),
	}
	for _, v := range initial {
		f.vars[v.Name] = v.Rounded()
	}
	return f
}

func (f *Fake) DesignInfo(_ context.Context) (DesignInfo, error) {
	return f.Info, nil
}

func (f *Fake) SetVariable(_ context.Context, v variables.ValuedVariable) error {
	f.vars[v.Name] = v.Rounded()
	return nil
}

func (f *Fake) GetVariable(_ context.Context, name string) (string, error) {
	v, ok := f.vars[name]
	if !ok {
		return "", fmt.Errorf("unknown variable %q", name)
	}
	return v.ValueWithUnit(), nil
}

func (f *Fake) Snapshot(_ context.Context) (variables.Snapshot, error) {
	s := make(variables.Snapshot, 0, len(f.vars))
	for _, v := range f.vars {
		s = append(s, v)
	}
	return s.Canonical(), nil
}

func (f *Fake) Analyze(ctx context.Context) error {
	f.AnalyzeCalls++
	if f.FailOnCall != 0 && f.AnalyzeCalls == f.FailOnCall {
		return fmt.Errorf("solve failed (injected on call %d)", f.AnalyzeCalls)
	}

	snapshot, err := f.Snapshot(ctx)
	if err != nil {
		return err
	}
	key := snapshot.Key()
	if _, done := f.solvedIDs[key]; done {
		// Re-solving an already-solved assignment keeps its variation.
		return nil
	}

	id := strconv.Itoa(f.nextID)
	if f.IDFor != nil {
		id = f.IDFor(f.nextID)
	}
	f.nextID++
	f.solvedIDs[key] = id
	f.order = append(f.order, id)
	return nil
}

func (f *Fake) Variations(_ context.Context) (map[string]string, error) {
	out := make(map[string]string, len(f.solvedIDs))
	for key, id := range f.solvedIDs {
		if f.Dropped[id] {
			continue
		}
		out[id] = key
	}
	return out, nil
}

func (f *Fake) Frequencies(_ context.Context, variationID string) ([]ModeResult, error) {
	modes, ok := f.FrequenciesFor[variationID]
	if !ok {
		return nil, fmt.Errorf("no frequency results for variation %q", variationID)
	}
	return modes, nil
}

func (f *Fake) Quantum(_ context.Context, variationID string) (*QuantumResult, error) {
	q, ok := f.QuantumFor[variationID]
	if !ok {
		return nil, fmt.Errorf("no quantum results for variation %q", variationID)
	}
	return q, nil
}

// SolvedOrder returns the variation ids in the order the solves happened.
func (f *Fake) SolvedOrder() []string {
	return append([]string(nil), f.order...)
}

var _ Project = (*Fake)(nil)
var _ Project = (*Client)(nil)
