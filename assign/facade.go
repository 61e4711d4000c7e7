package assign

import (
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/brightgrove-schools/classrooms/apitypes"
	"github.com/brightgrove-schools/classrooms/friendgraph"
	"github.com/brightgrove-schools/classrooms/student"
)

// Facade is the single entry point external collaborators call (spec.md
// §1, §4.7): it owns the process-environment defaults, a Coordinator, and
// the bookkeeping of the most recently completed run. Everything it does
// is a thin wrapper over Coordinator.Run plus the input/output-order
// translation spec.md §6 requires of the public boundary.
type Facade struct {
	coordinator *Coordinator

	mu              sync.RWMutex
	strategy        StrategyKind
	timeout         time.Duration
	fallbackEnabled bool
}

// NewFacade builds a Facade seeded from LoadConfigFromEnv, logging through
// logger (nil installs a discarding handler).
func NewFacade(logger *slog.Logger) *Facade {
	cfg := LoadConfigFromEnv()
	return &Facade{
		coordinator:     NewCoordinator(logger),
		strategy:        cfg.Strategy,
		timeout:         cfg.Timeout,
		fallbackEnabled: cfg.FallbackEnabled,
	}
}

// Assign runs one assignment using the Facade's current default strategy,
// timeout, and fallback setting, then reorders the result into input-table
// order (spec.md §6: "classes are returned in input order" — each class's
// members appear in the order their students first appear in table, not
// the strategy's internal sort order).
func (f *Facade) Assign(table student.Table, numClasses int) (Assignment, Metadata, error) {
	return f.AssignWithOptions(table, numClasses, f.defaultOptions())
}

// AssignWithOptions runs one assignment with an explicit Options value,
// overriding the Facade's defaults for this call only — the Facade's own
// defaults are left untouched. Use this to opt a single call into
// RelaxSizeBounds or a one-off timeout without calling SwitchStrategy.
func (f *Facade) AssignWithOptions(table student.Table, numClasses int, opts Options) (Assignment, Metadata, error) {
	classes, md, err := f.coordinator.Run(table, numClasses, opts)
	if err != nil {
		return nil, Metadata{}, err
	}
	return reorderByTable(classes, table), md, nil
}

func (f *Facade) defaultOptions() Options {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return Options{
		Strategy:        f.strategy,
		Timeout:         f.timeout,
		FallbackEnabled: f.fallbackEnabled,
	}
}

// AvailableStrategies returns every accepted strategy alias (spec.md §6),
// grouped by canonical strategy, in declaration order.
func (f *Facade) AvailableStrategies() []string {
	return []string{"greedy", "legacy", "legacy_greedy", "cp_sat", "cpsat"}
}

// SwitchStrategy changes the Facade's default strategy for every
// subsequent Assign call. It does not affect a call already in flight or
// a call made through AssignWithOptions with an explicit Strategy.
func (f *Facade) SwitchStrategy(name string, timeout time.Duration) error {
	kind, err := resolveStrategyName(name)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.strategy = kind
	if timeout > 0 {
		f.timeout = timeout
	}
	return nil
}

// LastAssignmentInfo returns the most recently completed run's Assignment
// (already in input-table order is not guaranteed here — this returns the
// Coordinator's recorded raw result — callers wanting display order should
// keep their own copy of the Assign return value) and Metadata.
func (f *Facade) LastAssignmentInfo() (Assignment, Metadata, error) {
	return f.coordinator.LastAssignmentInfo()
}

// reorderByTable rewrites classes so each class's members are listed in
// the order they appear in table, matching spec.md §6's output contract.
// Class-to-class order (which class is index 0) is left as the strategy
// produced it; only the within-class ordering changes.
func reorderByTable(classes Assignment, table student.Table) Assignment {
	position := make(map[string]int, len(table))
	for i, s := range table {
		position[s.Name] = i
	}

	out := classes.Clone()
	for _, c := range out {
		sort.Slice(c, func(i, j int) bool {
			return position[c[i]] < position[c[j]]
		})
	}
	return out
}

// ClassDetails summarizes classes into the wire-facing ClassSummary shape
// (spec.md §6), porting the original service's get_class_details: per-class
// size, male count, academic/behavioral averages (LOW=1/MEDIUM=2/HIGH=3),
// friendless count, forbidden-pair violation count, a cluster histogram,
// and the sorted student list.
func (f *Facade) ClassDetails(graph *friendgraph.Graph, forbidden friendgraph.ForbiddenMap, classes Assignment) []apitypes.ClassSummary {
	out := make([]apitypes.ClassSummary, len(classes))
	for i, c := range classes {
		classSet := make(map[string]bool, len(c))
		for _, name := range c {
			classSet[name] = true
		}

		var males int
		var academicSum, behavioralSum float64
		var withoutFriends, unwantedMatches int
		clusterCounts := make(map[int]int)

		for _, name := range c {
			st, _ := graph.Attrs(name)
			if st.Gender == student.Male {
				males++
			}
			academicSum += st.Academic.Score()
			behavioralSum += st.Behavioral.Score()
			if st.ClusterID != nil {
				clusterCounts[*st.ClusterID]++
			}

			hasFriendInClass := false
			for _, other := range c {
				if other == name {
					continue
				}
				if graph.HasEdge(name, other) {
					hasFriendInClass = true
				}
			}
			if !hasFriendInClass {
				withoutFriends++
			}

			// calculate_unwanted_matches counts a student once if any of
			// their own declared not-with entries is present in the class,
			// not once per unwanted classmate and not per symmetric pair.
			for _, nw := range forbidden.Of(name) {
				if classSet[nw] {
					unwantedMatches++
					break
				}
			}
		}

		n := float64(len(c))
		avgAcademic, avgBehavioral := 0.0, 0.0
		if n > 0 {
			avgAcademic = academicSum / n
			avgBehavioral = behavioralSum / n
		}

		var clusters []apitypes.ClusterCount
		if len(clusterCounts) > 0 {
			ids := make([]int, 0, len(clusterCounts))
			for id := range clusterCounts {
				ids = append(ids, id)
			}
			sort.Ints(ids)
			for _, id := range ids {
				clusters = append(clusters, apitypes.ClusterCount{ClusterID: id, Count: clusterCounts[id]})
			}
		}

		students := append([]string(nil), c...)
		sort.Strings(students)

		out[i] = apitypes.ClassSummary{
			ClassNumber:                   i + 1,
			StudentsCount:                 len(c),
			MalesCount:                    males,
			AverageAcademicPerformance:    avgAcademic,
			AverageBehaviouralPerformance: avgBehavioral,
			WithoutFriends:                withoutFriends,
			UnwantedMatches:               unwantedMatches,
			Clusters:                      clusters,
			Students:                      students,
		}
	}
	return out
}
