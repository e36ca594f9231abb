package analysis

import (
	"context"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/banshee-data/cavity.report/internal/hfss/project"
	"github.com/banshee-data/cavity.report/internal/hfss/results"
	"github.com/banshee-data/cavity.report/internal/hfss/variables"
)

func TestLabels(t *testing.T) {
	l := Labels{0: "transmon", 2: "cavity"}
	if l.For(0) != "transmon" {
		t.Errorf("For(0) = %q", l.For(0))
	}
	if l.For(1) != "mode 1" {
		t.Errorf("unmapped mode should fall back, got %q", l.For(1))
	}
	var empty Labels
	if empty.For(3) != "mode 3" {
		t.Errorf("nil Labels should still label, got %q", empty.For(3))
	}
}

func TestClassical(t *testing.T) {
	snapshot := variables.Snapshot{variables.New("length", 8, "mm")}
	fake := project.NewFake()
	fake.FrequenciesFor["0"] = []project.ModeResult{
		{Mode: 0, FreqGHz: 5.0, QualityFactor: 2e6},
		{Mode: 1, FreqGHz: 7.5, QualityFactor: 1e4},
	}

	got, err := Classical(context.Background(), fake,
		[]variables.Snapshot{snapshot}, []string{"0"}, Labels{0: "cavity", 1: "readout"}, nil)
	if err != nil {
		t.Fatalf("Classical returned error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected one result, got %d", len(got))
	}

	r := got[0].Result
	if r["cavity Freq. (GHz)"] != 5.0 {
		t.Errorf("cavity frequency = %v, want 5", r["cavity Freq. (GHz)"])
	}
	if r["readout Quality Factor"] != 1e4 {
		t.Errorf("readout quality factor = %v, want 1e4", r["readout Quality Factor"])
	}

	// Lifetime = Q / (2*pi*f*1e3) microseconds: 2e6 / (2*pi*5*1e3) ~ 63.66us.
	lifetime, ok := r["cavity Lifetime (us)"].(float64)
	if !ok {
		t.Fatalf("lifetime missing or wrong type: %v", r["cavity Lifetime (us)"])
	}
	expected := 2e6 / (2 * math.Pi * 5.0 * 1e3)
	if math.Abs(lifetime-expected) > 1e-9 {
		t.Errorf("cavity lifetime = %v, want %v", lifetime, expected)
	}

	if got[0].Snapshot.Key() != snapshot.Key() {
		t.Errorf("result should carry its snapshot")
	}
}

func TestClassicalModeFilter(t *testing.T) {
	fake := project.NewFake()
	fake.FrequenciesFor["0"] = []project.ModeResult{
		{Mode: 0, FreqGHz: 5.0, QualityFactor: 2e6},
		{Mode: 1, FreqGHz: 7.5, QualityFactor: 1e4},
	}

	got, err := Classical(context.Background(), fake,
		[]variables.Snapshot{{}}, []string{"0"}, nil, []int{0})
	if err != nil {
		t.Fatalf("Classical returned error: %v", err)
	}
	r := got[0].Result
	if _, ok := r["mode 0 Freq. (GHz)"]; !ok {
		t.Error("filtered pass should keep mode 0")
	}
	if _, ok := r["mode 1 Freq. (GHz)"]; ok {
		t.Error("filtered pass should drop mode 1")
	}
}

func TestClassicalLengthMismatch(t *testing.T) {
	fake := project.NewFake()
	_, err := Classical(context.Background(), fake,
		[]variables.Snapshot{{}}, []string{"0", "1"}, nil, nil)
	if err == nil {
		t.Fatal("mismatched snapshots and ids should fail")
	}
}

func TestQuantum(t *testing.T) {
	snapshot := variables.Snapshot{variables.New("length", 8, "mm")}
	fake := project.NewFake()
	fake.QuantumFor["0"] = &project.QuantumResult{
		Modes:    []int{0, 2},
		FreqsMHz: []float64{4980.0, 7430.0},
		ChiMHz: [][]float64{
			{-210.0, -2.1},
			{-2.1, -0.05},
		},
	}

	labels := Labels{0: "transmon", 2: "cavity"}
	got, err := Quantum(context.Background(), fake,
		[]variables.Snapshot{snapshot}, []string{"0"}, labels)
	if err != nil {
		t.Fatalf("Quantum returned error: %v", err)
	}

	expected := map[string]any{
		"transmon Freq. ND (MHz)":           4980.0,
		"cavity Freq. ND (MHz)":             7430.0,
		"transmon Anharmonicity (MHz)":      -210.0,
		"cavity Anharmonicity (MHz)":        -0.05,
		"transmon - cavity Coupling (MHz)":  -2.1,
	}
	if diff := cmp.Diff(expected, got[0].Result); diff != "" {
		t.Errorf("quantum fields mismatch (-want +got):\n%s", diff)
	}
}

func TestQuantumRaggedChiFails(t *testing.T) {
	fake := project.NewFake()
	fake.QuantumFor["0"] = &project.QuantumResult{
		Modes:    []int{0, 1},
		FreqsMHz: []float64{1, 2},
		ChiMHz:   [][]float64{{1, 2}},
	}
	_, err := Quantum(context.Background(), fake, []variables.Snapshot{{}}, []string{"0"}, nil)
	if err == nil {
		t.Fatal("ragged chi matrix should fail")
	}
}

func TestClassicalAndQuantumJoin(t *testing.T) {
	// The two passes over one sweep land in the same rows.
	snapshot := variables.Snapshot{variables.New("length", 8, "mm")}
	fake := project.NewFake()
	fake.FrequenciesFor["0"] = []project.ModeResult{{Mode: 0, FreqGHz: 5.0, QualityFactor: 2e6}}
	fake.QuantumFor["0"] = &project.QuantumResult{
		Modes:    []int{0},
		FreqsMHz: []float64{4980.0},
		ChiMHz:   [][]float64{{-210.0}},
	}

	labels := Labels{0: "cavity"}
	classical, err := Classical(context.Background(), fake, []variables.Snapshot{snapshot}, []string{"0"}, labels, nil)
	if err != nil {
		t.Fatal(err)
	}
	quantum, err := Quantum(context.Background(), fake, []variables.Snapshot{snapshot}, []string{"0"}, labels)
	if err != nil {
		t.Fatal(err)
	}

	joined := results.Join(append(classical, quantum...))
	if len(joined) != 1 {
		t.Fatalf("expected a single joined row, got %d", len(joined))
	}
	row := joined[0].Result
	if _, ok := row["cavity Freq. (GHz)"]; !ok {
		t.Error("joined row missing classical field")
	}
	if _, ok := row["cavity Anharmonicity (MHz)"]; !ok {
		t.Error("joined row missing quantum field")
	}
}
