// Package variables models named, unit-tagged design variables for HFSS
// cavity simulations. The simulation tool echoes variable values back as
// decimal text with floating-point noise (e.g. 11.015000000000001), so every
// value is rounded to a fixed precision on construction and all comparisons
// and map keys are built from the rounded form.
package variables

import (
	"math"
	"sort"
	"strconv"
	"strings"
)

// RoundingDigits is the number of decimal digits kept when rounding variable
// values. Ten digits is enough to absorb serialisation noise while keeping
// sub-nanometre geometry distinct.
const RoundingDigits = 10

const roundingScale = 1e10

// Round rounds v half-to-even at RoundingDigits decimal digits. Rounding is
// idempotent: Round(Round(v)) == Round(v). NaN, infinities and values too
// large to carry any fractional precision are returned unchanged.
func Round(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	scaled := v * roundingScale
	if math.Abs(scaled) >= 1<<53 {
		// No fractional bits left at this magnitude.
		return v
	}
	return math.RoundToEven(scaled) / roundingScale
}

// ValuedVariable is one named design variable pinned to a concrete value.
// The zero Unit means a dimensionless variable. Values are expected to be
// pre-rounded; use New to construct one from raw input.
type ValuedVariable struct {
	Name  string
	Value float64
	Unit  string
}

// New builds a ValuedVariable with the value rounded to the fixed precision.
func New(name string, value float64, unit string) ValuedVariable {
	return ValuedVariable{Name: name, Value: Round(value), Unit: unit}
}

// Rounded returns a copy of v with its value rounded to the fixed precision.
func (v ValuedVariable) Rounded() ValuedVariable {
	return ValuedVariable{Name: v.Name, Value: Round(v.Value), Unit: v.Unit}
}

// ValueWithUnit renders the value in the unit-suffixed form the simulation
// tool accepts for variable assignment, e.g. "11.015mm".
func (v ValuedVariable) ValueWithUnit() string {
	return FormatValue(v.Value) + v.Unit
}

// Descriptor renders the variable in the assignment form used by variation
// descriptors, e.g. "length='8mm'".
func (v ValuedVariable) Descriptor() string {
	return v.Name + "='" + v.ValueWithUnit() + "'"
}

// DisplayName is the column heading used in reports, e.g. "length (mm)".
// Dimensionless variables use the bare name.
func (v ValuedVariable) DisplayName() string {
	if v.Unit == "" {
		return v.Name
	}
	return v.Name + " (" + v.Unit + ")"
}

// FormatValue renders a float the way the simulation tool expects: shortest
// decimal form that round-trips.
func FormatValue(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// Variable specifies one swept design variable: a name, a unit and the raw
// values it takes over a sweep.
type Variable struct {
	Name   string
	Unit   string
	Values []float64
}

// Generate produces the swept sequence of ValuedVariables, one per raw value,
// each rounded and unit-tagged. The returned slice is freshly allocated, so
// repeated calls restart the sequence.
func (v Variable) Generate() []ValuedVariable {
	out := make([]ValuedVariable, len(v.Values))
	for i, raw := range v.Values {
		out[i] = New(v.Name, raw, v.Unit)
	}
	return out
}

// Snapshot is one complete assignment of design variables at a point in
// time. Canonical form is sorted by name (byte order, so project-scoped
// "$" names sort ahead of design names) with every value rounded.
type Snapshot []ValuedVariable

// Canonical returns a rounded, name-sorted copy of the snapshot. The
// receiver is not modified.
func (s Snapshot) Canonical() Snapshot {
	out := make(Snapshot, len(s))
	for i, v := range s {
		out[i] = v.Rounded()
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Key renders the canonical snapshot as a single string suitable for use as
// a map key, e.g. "$hole='11.015mm' length='8mm'".
func (s Snapshot) Key() string {
	canon := s.Canonical()
	parts := make([]string, len(canon))
	for i, v := range canon {
		parts[i] = v.Descriptor()
	}
	return strings.Join(parts, " ")
}

// Names returns the variable names in snapshot order.
func (s Snapshot) Names() []string {
	out := make([]string, len(s))
	for i, v := range s {
		out[i] = v.Name
	}
	return out
}

// NameKey returns a canonical key for the set of variable names in the
// snapshot, independent of their values. Used to memoise per-name-set state.
func (s Snapshot) NameKey() string {
	names := s.Names()
	sort.Strings(names)
	return strings.Join(names, ",")
}

// DisplayMap flattens the snapshot into report columns keyed by display
// name.
func (s Snapshot) DisplayMap() map[string]float64 {
	out := make(map[string]float64, len(s))
	for _, v := range s {
		out[v.DisplayName()] = v.Value
	}
	return out
}

// SameShape reports whether two snapshots assign the same set of variable
// names (values may differ). All snapshots within one sweep must share a
// shape before merge or minimise operations make sense.
func SameShape(a, b Snapshot) bool {
	if len(a) != len(b) {
		return false
	}
	names := make(map[string]struct{}, len(a))
	for _, v := range a {
		names[v.Name] = struct{}{}
	}
	for _, v := range b {
		if _, ok := names[v.Name]; !ok {
			return false
		}
	}
	return true
}

// Sort sorts a slice of ValuedVariables by name in place and returns it.
func Sort(vars []ValuedVariable) []ValuedVariable {
	sort.Slice(vars, func(i, j int) bool { return vars[i].Name < vars[j].Name })
	return vars
}
