// Package units provides shared constants and validation for the design
// units the solver understands.
package units

// Length unit constants, as the CAD tool spells them.
const (
	NM  = "nm"
	UM  = "um"
	MM  = "mm"
	CM  = "cm"
	M   = "m"
	MIL = "mil"
	IN  = "in"
)

// Frequency unit constants.
const (
	HZ  = "Hz"
	KHZ = "kHz"
	MHZ = "MHz"
	GHZ = "GHz"
)

// ValidUnits contains every unit accepted in a sweep configuration. The
// empty string is allowed for dimensionless variables (ratios, turn
// counts).
var ValidUnits = []string{"", NM, UM, MM, CM, M, MIL, IN, HZ, KHZ, MHZ, GHZ}

// IsValid checks if the given unit is in the list of valid units.
func IsValid(unit string) bool {
	for _, valid := range ValidUnits {
		if unit == valid {
			return true
		}
	}
	return false
}

// GetValidUnitsString returns a comma-separated string of valid units for
// error messages.
func GetValidUnitsString() string {
	return "nm, um, mm, cm, m, mil, in, Hz, kHz, MHz, GHz (or empty for dimensionless)"
}

// lengthToMM holds conversion factors from each length unit to millimetres.
var lengthToMM = map[string]float64{
	NM:  1e-6,
	UM:  1e-3,
	MM:  1,
	CM:  10,
	M:   1000,
	MIL: 0.0254,
	IN:  25.4,
}

// ConvertLength converts a length between two length units. Unknown units
// pass the value through unchanged.
func ConvertLength(value float64, from, to string) float64 {
	fromFactor, okFrom := lengthToMM[from]
	toFactor, okTo := lengthToMM[to]
	if !okFrom || !okTo {
		return value
	}
	return value * fromFactor / toFactor
}
