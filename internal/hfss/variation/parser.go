// Package variation matches swept parameter combinations against the
// simulation tool's solved variations. The tool keys solved results by an
// opaque sequential identifier and exposes only a free-text descriptor of
// the variable values behind each one ("length='8mm' $hole='11.015mm'"), so
// recovering which identifier belongs to which parameter combination means
// parsing every descriptor into a canonical snapshot and inverting the
// mapping.
package variation

import (
	"regexp"
	"strconv"

	"github.com/banshee-data/cavity.report/internal/hfss/variables"
)

// Descriptor grammar: name='<number><unit>' assignments separated by
// arbitrary text. Names may carry the "$" project-scope sigil, digits and
// underscores. Numbers are signed decimals with optional exponent. The unit
// suffix may be empty and may be separated from the number by whitespace.
const (
	namePattern  = `(?P<name>[\w$]+)`
	valuePattern = `(?P<value>[+-]?(?:\d+(?:\.\d*)?|\.\d+)(?:[eE][+-]?\d+)?)`
	unitPattern  = `(?P<unit>\w*)`
)

var descriptorRe = regexp.MustCompile(namePattern + `='` + valuePattern + `\s*` + unitPattern + `'`)

// valueRe matches a bare "<number><unit>" value as returned by the tool's
// variable-read calls (no name, no quoting).
var valueRe = regexp.MustCompile(valuePattern + `\s*` + unitPattern)

// ParseDescriptor parses one free-text variation descriptor into its
// canonical (rounded, name-sorted) snapshot. Assignment order in the text is
// irrelevant. A descriptor with no assignments yields an empty snapshot and
// no error; an assignment whose number does not convert yields a ParseError.
func ParseDescriptor(text string) (variables.Snapshot, error) {
	matches := descriptorRe.FindAllStringSubmatch(text, -1)
	snapshot := make(variables.Snapshot, 0, len(matches))
	nameIdx := descriptorRe.SubexpIndex("name")
	valueIdx := descriptorRe.SubexpIndex("value")
	unitIdx := descriptorRe.SubexpIndex("unit")
	for _, m := range matches {
		name, value, unit := m[nameIdx], m[valueIdx], m[unitIdx]
		v, err := parseOne(name, value, unit)
		if err != nil {
			return nil, err
		}
		snapshot = append(snapshot, v)
	}
	return snapshot.Canonical(), nil
}

// ParseValue parses a bare unit-suffixed value ("11.015000000000001mm") into
// a rounded ValuedVariable carrying the given name.
func ParseValue(name, text string) (variables.ValuedVariable, error) {
	m := valueRe.FindStringSubmatch(text)
	if m == nil {
		return variables.ValuedVariable{}, &ParseError{
			Name:  name,
			Value: text,
			Err:   strconv.ErrSyntax,
		}
	}
	return parseOne(name, m[valueRe.SubexpIndex("value")], m[valueRe.SubexpIndex("unit")])
}

// ParseVariableMap converts a name → unit-suffixed-value mapping (the shape
// of the tool's bulk variable dumps) into a canonical snapshot.
func ParseVariableMap(vars map[string]string) (variables.Snapshot, error) {
	snapshot := make(variables.Snapshot, 0, len(vars))
	for name, text := range vars {
		v, err := ParseValue(name, text)
		if err != nil {
			return nil, err
		}
		snapshot = append(snapshot, v)
	}
	return snapshot.Canonical(), nil
}

func parseOne(name, value, unit string) (variables.ValuedVariable, error) {
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return variables.ValuedVariable{}, &ParseError{Name: name, Value: value, Unit: unit, Err: err}
	}
	return variables.New(name, f, unit), nil
}
