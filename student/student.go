// Package student defines the core data model shared by every stage of the
// assignment engine: the typed attribute enumerations, the Student record
// itself, and the small pure helpers (grade scoring) that every downstream
// package reuses instead of reimplementing.
package student

import "strings"

// Gender is one of the two declared genders used for soft balance scoring.
type Gender string

const (
	Male   Gender = "MALE"
	Female Gender = "FEMALE"
)

// Valid reports whether g is one of the declared enumeration values.
func (g Gender) Valid() bool {
	return g == Male || g == Female
}

// Grade is an academic or behavioral performance level.
type Grade string

const (
	Low    Grade = "LOW"
	Medium Grade = "MEDIUM"
	High   Grade = "HIGH"
)

// Valid reports whether gr is one of the declared enumeration values.
func (gr Grade) Valid() bool {
	return gr == Low || gr == Medium || gr == High
}

// Score maps a Grade to its numeric value: LOW=1, MEDIUM=2, HIGH=3. Every
// package that needs a numeric grade (the evaluator, the greedy scorer,
// ClassDetails) calls this instead of keeping its own copy of the mapping.
func (gr Grade) Score() float64 {
	switch gr {
	case Low:
		return 1
	case Medium:
		return 2
	case High:
		return 3
	default:
		return 0
	}
}

// Student is one row of the validated input table.
//
// Name is the unique identifier used everywhere else in the engine (graph
// vertex ID, class membership, forbidden-pair keys). Friends holds up to
// four declared friend names; empty slots are blank strings. NotWith is the
// raw, comma-separated "not with" field, already trimmed per entry but not
// yet deduplicated or validated against the roster — see friendgraph.Build.
// ClusterID is optional (nil means absent) and used only for diagnostics.
type Student struct {
	Name       string
	Gender     Gender
	Academic   Grade
	Behavioral Grade
	Friends    [4]string
	NotWith    []string
	ClusterID  *int

	// School and Comments are opaque fields the core ignores; carried through
	// so a caller can round-trip the original record unchanged.
	School   string
	Comments string
}

// FriendList returns the non-empty, trimmed friend names in slot order.
func (s Student) FriendList() []string {
	out := make([]string, 0, len(s.Friends))
	for _, f := range s.Friends {
		f = strings.TrimSpace(f)
		if f != "" {
			out = append(out, f)
		}
	}
	return out
}

// Table is a validated or to-be-validated roster, keyed by input order.
// Order is preserved because the output contract (spec.md §6) returns
// classes "in input order".
type Table []Student

// Index builds a name -> Student lookup. Callers must have already rejected
// duplicate names (validate.Students does this); a duplicate silently keeps
// the last occurrence, matching how a Go map literal would behave.
func (t Table) Index() map[string]Student {
	idx := make(map[string]Student, len(t))
	for _, s := range t {
		idx[s.Name] = s
	}
	return idx
}

// Names returns the roster's names in table order.
func (t Table) Names() []string {
	out := make([]string, len(t))
	for i, s := range t {
		out[i] = s.Name
	}
	return out
}
