package friendgraph

import (
	"strings"

	"github.com/brightgrove-schools/classrooms/student"
)

// Build ingests a validated student.Table and produces the friendship
// Graph plus the ForbiddenMap (spec.md §4.1). Build does not itself
// validate the table — callers run validate.Students first; Build assumes
// every referenced friend name that exists in the table is a real vertex,
// and silently ignores a friend slot naming a student outside the table
// (defensive, matching the original network-builder which never hard
// fails on a dangling reference at this stage — upstream validation is
// what rejects UNKNOWN_FRIEND).
func Build(table student.Table) (*Graph, ForbiddenMap) {
	idx := table.Index()

	g := newGraph()
	for _, s := range table {
		g.addVertex(s)
	}

	for _, s := range table {
		for _, friend := range s.FriendList() {
			if _, ok := idx[friend]; !ok {
				continue // dangling reference; validator rejects this upstream
			}
			g.addEdge(s.Name, friend)
		}
	}

	forbidden := make(ForbiddenMap, len(table))
	for _, s := range table {
		if len(s.NotWith) == 0 {
			continue
		}
		set := make(map[string]bool, len(s.NotWith))
		for _, raw := range s.NotWith {
			name := strings.TrimSpace(raw)
			if name == "" {
				continue
			}
			set[name] = true
		}
		if len(set) > 0 {
			forbidden[s.Name] = set
		}
	}

	return g, forbidden
}
