package friendgraph

// ForbiddenMap records, per student, the set of names that student declared
// "not with". The source relation is not assumed symmetric (spec.md §3): a
// declares b forbidden does not imply the input also has b declare a. Every
// strategy and the evaluator must treat the relation as symmetric at
// constraint time; Conflicts below is the single place that happens, so no
// strategy reimplements the symmetry rule differently (spec.md §9 Open
// Question 2 calls this out as a deliberate hardening of the contract).
//
// Entries naming a student absent from the roster are retained, not
// dropped: they simply never match in Conflicts because the unknown name
// can never appear as a class member. This mirrors the defensive behavior
// of the original Python builder, which stores the raw split of the
// "notWith" column without checking membership.
type ForbiddenMap map[string]map[string]bool

// Conflicts reports whether a and b must not share a class: either named
// the other in their "not with" list.
func (m ForbiddenMap) Conflicts(a, b string) bool {
	if m[a][b] {
		return true
	}
	return m[b][a]
}

// Of returns the raw (asymmetric, as declared) forbidden set for name, or
// nil if name declared no "not with" entries. Used for diagnostics and by
// the evaluator when reporting which unwanted classmates appear.
func (m ForbiddenMap) Of(name string) []string {
	set, ok := m[name]
	if !ok {
		return nil
	}
	out := make([]string, 0, len(set))
	for n := range set {
		out = append(out, n)
	}
	return out
}
