package variation

import (
	"errors"
	"testing"

	"github.com/banshee-data/cavity.report/internal/hfss/variables"
)

func TestBuildIndexAndLookup(t *testing.T) {
	variations := map[string]string{
		"0": "length='8mm' $hole='11.015000000000001mm'",
		"1": "length='9mm' $hole='11.015000000000001mm'",
		"2": "length='8mm' $hole='12mm'",
	}

	ix, err := BuildIndex(variations)
	if err != nil {
		t.Fatalf("BuildIndex returned error: %v", err)
	}
	if ix.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", ix.Len())
	}

	tests := []struct {
		name     string
		vars     []variables.ValuedVariable
		expected string
	}{
		{
			"first variation",
			[]variables.ValuedVariable{
				variables.New("length", 8, "mm"),
				variables.New("$hole", 11.015, "mm"),
			},
			"0",
		},
		{
			"unsorted unrounded input",
			[]variables.ValuedVariable{
				{Name: "$hole", Value: 11.015000000000001, Unit: "mm"},
				{Name: "length", Value: 9.0000000000004, Unit: "mm"},
			},
			"1",
		},
		{
			"third variation",
			[]variables.ValuedVariable{
				variables.New("$hole", 12, "mm"),
				variables.New("length", 8, "mm"),
			},
			"2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ix.Lookup(tt.vars...)
			if err != nil {
				t.Fatalf("Lookup returned error: %v", err)
			}
			if got != tt.expected {
				t.Errorf("Lookup = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestBuildIndexCollision(t *testing.T) {
	// Two identifiers whose descriptors reduce to the same snapshot: noise
	// in "1" collapses to the exact value in "0" after rounding.
	variations := map[string]string{
		"0": "length='8mm'",
		"1": "length='8.0000000000001mm'",
		"2": "length='9mm'",
	}

	_, err := BuildIndex(variations)
	if err == nil {
		t.Fatal("expected CollisionError, got nil")
	}
	var cerr *CollisionError
	if !errors.As(err, &cerr) {
		t.Fatalf("expected *CollisionError, got %T: %v", err, err)
	}
	if cerr.FirstID != "0" || cerr.SecondID != "1" {
		t.Errorf("collision ids = %q/%q, want 0/1", cerr.FirstID, cerr.SecondID)
	}
}

func TestBuildIndexParseErrorPropagates(t *testing.T) {
	variations := map[string]string{
		"0": "length='1e999mm'",
	}
	_, err := BuildIndex(variations)
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("expected *ParseError, got %T: %v", err, err)
	}
}

func TestLookupNotFound(t *testing.T) {
	ix, err := BuildIndex(map[string]string{"0": "length='8mm'"})
	if err != nil {
		t.Fatalf("BuildIndex returned error: %v", err)
	}

	_, err = ix.Lookup(variables.New("length", 10, "mm"))
	var nerr *NotFoundError
	if !errors.As(err, &nerr) {
		t.Fatalf("expected *NotFoundError, got %T: %v", err, err)
	}
	if nerr.Key != "length='10mm'" {
		t.Errorf("NotFoundError.Key = %q, want %q", nerr.Key, "length='10mm'")
	}
}

func TestIndexMatches(t *testing.T) {
	variations := map[string]string{
		"0": "length='8mm'",
		"1": "length='9mm'",
	}
	ix, err := BuildIndex(variations)
	if err != nil {
		t.Fatalf("BuildIndex returned error: %v", err)
	}

	if !ix.Matches(map[string]string{"0": "length='8mm'", "1": "length='9mm'"}) {
		t.Error("Matches should be true for an equal variation set")
	}
	if ix.Matches(map[string]string{"0": "length='8mm'"}) {
		t.Error("Matches should be false after a variation disappears")
	}
	if ix.Matches(map[string]string{"0": "length='8mm'", "1": "length='9mm'", "2": "length='10mm'"}) {
		t.Error("Matches should be false after a new solve appears")
	}

	// Mutating the caller's map after the build must not affect the index.
	variations["3"] = "length='11mm'"
	if !ix.Matches(map[string]string{"0": "length='8mm'", "1": "length='9mm'"}) {
		t.Error("index should have captured its own copy of the source records")
	}
}

func TestIndexEmpty(t *testing.T) {
	ix, err := BuildIndex(nil)
	if err != nil {
		t.Fatalf("BuildIndex(nil) returned error: %v", err)
	}
	if ix.Len() != 0 {
		t.Errorf("Len() = %d, want 0", ix.Len())
	}
	_, err = ix.Lookup(variables.New("length", 8, "mm"))
	var nerr *NotFoundError
	if !errors.As(err, &nerr) {
		t.Fatalf("expected *NotFoundError, got %T: %v", err, err)
	}
}
