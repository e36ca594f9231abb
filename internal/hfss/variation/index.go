package variation

import (
	"maps"
	"sort"

	"github.com/banshee-data/cavity.report/internal/hfss/variables"
)

// Index is the inverse of the simulation tool's variation records: a lookup
// from canonical snapshot key to variation identifier. It is built once per
// set of recorded variations and must be rebuilt (see Matches) after further
// solves change the recorded set.
type Index struct {
	byKey     map[string]string
	snapshots map[string]variables.Snapshot
	source    map[string]string
}

// BuildIndex parses every variation descriptor and inverts the mapping.
// Identifier iteration order does not affect the result, but lookups must be
// unambiguous: two identifiers whose descriptors reduce to the same snapshot
// make the index useless for matching, so the build fails with a
// CollisionError rather than keeping either entry. For deterministic error
// reporting the identifiers are visited in sorted order.
func BuildIndex(variations map[string]string) (*Index, error) {
	ix := &Index{
		byKey:     make(map[string]string, len(variations)),
		snapshots: make(map[string]variables.Snapshot, len(variations)),
		source:    maps.Clone(variations),
	}

	ids := make([]string, 0, len(variations))
	for id := range variations {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		snapshot, err := ParseDescriptor(variations[id])
		if err != nil {
			return nil, err
		}
		key := snapshot.Key()
		if first, ok := ix.byKey[key]; ok {
			return nil, &CollisionError{Key: key, FirstID: first, SecondID: id}
		}
		ix.byKey[key] = id
		ix.snapshots[key] = snapshot
	}
	return ix, nil
}

// Lookup canonicalises the given variables (they need not be pre-rounded or
// pre-sorted) and returns the matching variation identifier. A combination
// the tool never recorded, most often a solve that failed and was dropped,
// yields a NotFoundError.
func (ix *Index) Lookup(vars ...variables.ValuedVariable) (string, error) {
	return ix.LookupSnapshot(variables.Snapshot(vars))
}

// LookupSnapshot is Lookup for an existing snapshot.
func (ix *Index) LookupSnapshot(s variables.Snapshot) (string, error) {
	key := s.Key()
	id, ok := ix.byKey[key]
	if !ok {
		return "", &NotFoundError{Key: key}
	}
	return id, nil
}

// Matches reports whether the index was built from exactly the given
// variation records. A false result means the tool has solved, renumbered or
// dropped variations since the build and the index is stale.
func (ix *Index) Matches(variations map[string]string) bool {
	return maps.Equal(ix.source, variations)
}

// Len returns the number of indexed variations.
func (ix *Index) Len() int { return len(ix.byKey) }

// Snapshots returns every indexed snapshot, sorted by key for determinism.
func (ix *Index) Snapshots() []variables.Snapshot {
	keys := make([]string, 0, len(ix.snapshots))
	for k := range ix.snapshots {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]variables.Snapshot, len(keys))
	for i, k := range keys {
		out[i] = ix.snapshots[k]
	}
	return out
}
