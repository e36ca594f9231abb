package units

import (
	"math"
	"testing"
)

func TestIsValid(t *testing.T) {
	tests := []struct {
		name     string
		unit     string
		expected bool
	}{
		{"valid mm", MM, true},
		{"valid um", UM, true},
		{"valid GHz", GHZ, true},
		{"dimensionless", "", true},
		{"invalid unit", "furlong", false},
		{"case sensitive", "MM", false},
		{"case sensitive freq", "ghz", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsValid(tt.unit); got != tt.expected {
				t.Errorf("IsValid(%q) = %v, want %v", tt.unit, got, tt.expected)
			}
		})
	}
}

func TestConvertLength(t *testing.T) {
	tests := []struct {
		name     string
		value    float64
		from, to string
		expected float64
	}{
		{"mm to um", 1, MM, UM, 1000},
		{"um to mm", 500, UM, MM, 0.5},
		{"inch to mm", 1, IN, MM, 25.4},
		{"mil to um", 1, MIL, UM, 25.4},
		{"same unit", 3.5, MM, MM, 3.5},
		{"unknown unit passthrough", 7, "furlong", MM, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ConvertLength(tt.value, tt.from, tt.to)
			if math.Abs(got-tt.expected) > 1e-9 {
				t.Errorf("ConvertLength(%v, %s, %s) = %v, want %v", tt.value, tt.from, tt.to, got, tt.expected)
			}
		})
	}
}
