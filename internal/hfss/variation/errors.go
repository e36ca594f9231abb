package variation

import "fmt"

// ParseError reports a variation descriptor assignment whose numeric part
// could not be converted. Parsing never skips a malformed assignment: a
// silently dropped variable would corrupt the snapshot key used to match
// variations, so the error is fatal to the caller.
type ParseError struct {
	Name  string
	Value string
	Unit  string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("cannot parse value %q for variable %q (unit %q): %v", e.Value, e.Name, e.Unit, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// CollisionError reports two variations whose descriptors parse to the same
// canonical snapshot. This means the recorded variable names do not uniquely
// determine a variation; the caller must widen the matching key to the
// union of all dynamically varied names. Overwriting silently would make a
// later lookup return the wrong variation, so construction fails instead.
type CollisionError struct {
	Key      string
	FirstID  string
	SecondID string
}

func (e *CollisionError) Error() string {
	return fmt.Sprintf("variations %q and %q both reduce to snapshot %q; the matched variable names do not cover every dynamic variable", e.FirstID, e.SecondID, e.Key)
}

// NotFoundError reports a requested parameter combination with no matching
// variation, typically a solve that failed inside the simulation tool and
// was dropped from its variation records.
type NotFoundError struct {
	Key string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no variation recorded for snapshot %q", e.Key)
}
