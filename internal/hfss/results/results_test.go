package results

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/banshee-data/cavity.report/internal/hfss/variables"
)

var (
	vA = variables.New("$LLLL", 11.015, "mm")
	vB = variables.New("hiho", 8, "")
	vC = variables.New("bye", 1, "")
)

func TestMerge(t *testing.T) {
	a := SimulationResult{
		Result:   map[string]any{"name": "hi"},
		Snapshot: variables.Snapshot{vA, vB},
	}
	b := SimulationResult{
		Result:   map[string]any{"is_horse": true},
		Snapshot: variables.Snapshot{vB, vA}, // order must not matter
	}

	merged, err := Merge(a, b)
	if err != nil {
		t.Fatalf("Merge returned error: %v", err)
	}

	expected := map[string]any{"name": "hi", "is_horse": true}
	if diff := cmp.Diff(expected, merged.Result); diff != "" {
		t.Errorf("merged result mismatch (-want +got):\n%s", diff)
	}

	// Inputs untouched.
	if len(a.Result) != 1 || len(b.Result) != 1 {
		t.Error("Merge must not mutate its inputs")
	}
}

func TestMergeDifferentSnapshotsFails(t *testing.T) {
	a := SimulationResult{Result: map[string]any{"x": 1.0}, Snapshot: variables.Snapshot{vA, vB}}
	b := SimulationResult{Result: map[string]any{"y": 2.0}, Snapshot: variables.Snapshot{vA, vC}}

	_, err := Merge(a, b)
	var perr *PreconditionError
	if !errors.As(err, &perr) {
		t.Fatalf("expected *PreconditionError, got %T: %v", err, err)
	}
	if perr.Op != "merge" {
		t.Errorf("PreconditionError.Op = %q, want %q", perr.Op, "merge")
	}
}

func TestJoinGroupsBySnapshot(t *testing.T) {
	input := []SimulationResult{
		{Result: map[string]any{"name": "hi"}, Snapshot: variables.Snapshot{vA, vB}},
		{Result: map[string]any{"is_horse": true}, Snapshot: variables.Snapshot{vA, vB}},
		{Result: map[string]any{"is_not_horse": false}, Snapshot: variables.Snapshot{vA, vB}},
		{Result: map[string]any{"who_am_i": "hi"}, Snapshot: variables.Snapshot{vA, vC}},
		{Result: map[string]any{"i_know_who_i_am": true}, Snapshot: variables.Snapshot{vA, vC}},
	}

	got := Join(input)
	if len(got) != 2 {
		t.Fatalf("Join over two distinct snapshots should give 2 results, got %d", len(got))
	}

	// First-seen order of distinct snapshots is preserved.
	if got[0].Snapshot.Key() != (variables.Snapshot{vA, vB}).Key() {
		t.Errorf("first result snapshot = %q, want (vA, vB)", got[0].Snapshot.Key())
	}

	expectedFirst := map[string]any{"name": "hi", "is_horse": true, "is_not_horse": false}
	if diff := cmp.Diff(expectedFirst, got[0].Result); diff != "" {
		t.Errorf("first result mismatch (-want +got):\n%s", diff)
	}

	expectedSecond := map[string]any{"who_am_i": "hi", "i_know_who_i_am": true}
	if diff := cmp.Diff(expectedSecond, got[1].Result); diff != "" {
		t.Errorf("second result mismatch (-want +got):\n%s", diff)
	}
}

func TestJoinEquivalentSnapshotsGroupTogether(t *testing.T) {
	// The same assignment expressed unsorted and with float noise joins
	// with its canonical twin.
	noisy := variables.Snapshot{
		{Name: "hiho", Value: 8.0000000000001, Unit: ""},
		{Name: "$LLLL", Value: 11.015, Unit: "mm"},
	}
	input := []SimulationResult{
		{Result: map[string]any{"a": 1.0}, Snapshot: variables.Snapshot{vA, vB}},
		{Result: map[string]any{"b": 2.0}, Snapshot: noisy},
	}

	got := Join(input)
	if len(got) != 1 {
		t.Fatalf("equivalent snapshots should group, got %d results", len(got))
	}
	expected := map[string]any{"a": 1.0, "b": 2.0}
	if diff := cmp.Diff(expected, got[0].Result); diff != "" {
		t.Errorf("result mismatch (-want +got):\n%s", diff)
	}
}

func TestJoinEmpty(t *testing.T) {
	if got := Join(nil); len(got) != 0 {
		t.Errorf("Join(nil) = %v, want empty", got)
	}
}
