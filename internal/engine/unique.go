package engine

// unique.go tracks previously-seen values for columns carrying a unique
// validator.
//
// The tracker is an explicit store owned by exactly one Run — never a
// package-level singleton — so concurrent or repeated runs cannot leak state
// into each other. Sets live only for the duration of one run and are keyed
// by column id and the transformed value used at validation time, not the
// raw input string.

// uniqueTracker remembers which values have been seen per column.
type uniqueTracker struct {
	seen map[string]map[string]struct{}
}

func newUniqueTracker() *uniqueTracker {
	return &uniqueTracker{seen: make(map[string]map[string]struct{})}
}

// checkAndRegister reports whether value is the first sighting for the
// column, registering it as seen. Rows must be visited in input order so the
// first occurrence of a duplicated value is the one that validates.
func (u *uniqueTracker) checkAndRegister(columnID, value string) bool {
	set, ok := u.seen[columnID]
	if !ok {
		set = make(map[string]struct{})
		u.seen[columnID] = set
	}

	if _, dup := set[value]; dup {
		return false
	}

	set[value] = struct{}{}
	return true
}
