// Package assign is the assignment engine: the greedy heuristic, the
// deadline-bounded constraint search, the solution evaluator, the strategy
// coordinator with fallback, and the public facade that external
// collaborators call. It is one flat package holding several closely
// related concerns as sibling files, the same shape the teacher library
// uses for its tsp package (types.go, solve.go, bb.go, approx.go, ...): a
// family of algorithms sharing one set of types and sentinel errors,
// dispatched from a single entry point.
package assign

import (
	"context"
	"errors"
	"time"

	"github.com/brightgrove-schools/classrooms/friendgraph"
)

// Sentinel errors. Checked with errors.Is, wrapped with %w only at call
// boundaries, never stringified into the sentinel itself.
var (
	// ErrNoSolution names an exhausted search with no feasible assignment.
	// The constraint-search strategy does not return it: it reports that
	// case as an *apitypes.Error of Kind apitypes.NoSolutionFound.
	ErrNoSolution = errors.New("assign: no feasible solution found")

	// ErrSolverTimeout names a deadline that elapsed before a feasible
	// assignment was found. The constraint-search strategy does not return
	// it: it reports that case as an *apitypes.Error of Kind
	// apitypes.OptimizationTimeout.
	ErrSolverTimeout = errors.New("assign: solver deadline exceeded")

	// ErrUnknownStrategy is returned when a strategy name does not resolve
	// to any of the declared aliases.
	ErrUnknownStrategy = errors.New("assign: unknown strategy name")

	// ErrNoLastAssignment is returned by LastAssignmentInfo before any
	// Assign call has completed on the facade.
	ErrNoLastAssignment = errors.New("assign: no assignment has completed yet")
)

// StrategyKind is the tagged-variant discriminator spec.md §9 calls for in
// place of runtime type reflection: {Greedy, CPSAT}. No strategy needs a
// type switch on a concrete implementation; Coordinator dispatches purely
// on this value.
type StrategyKind int

const (
	Greedy StrategyKind = iota
	CPSAT
)

// String renders the canonical (non-alias) strategy name.
func (k StrategyKind) String() string {
	switch k {
	case Greedy:
		return "greedy"
	case CPSAT:
		return "cp_sat"
	default:
		return "unknown"
	}
}

// resolveStrategyName maps every accepted alias (case-insensitive) to a
// StrategyKind, per spec.md §6's configuration table: greedy, cp_sat,
// cpsat, legacy, legacy_greedy.
func resolveStrategyName(name string) (StrategyKind, error) {
	switch normalizeAlias(name) {
	case "greedy", "legacy", "legacy_greedy":
		return Greedy, nil
	case "cp_sat", "cpsat":
		return CPSAT, nil
	default:
		return 0, ErrUnknownStrategy
	}
}

// Class is one partition slot: a set of student names materialized as a
// slice. Strategies produce Classes in whatever internal order they build
// them in; the facade is responsible for re-sorting into caller-visible
// (input-table) order.
type Class []string

// Assignment is a sequence of Classes indexed 0..K-1.
type Assignment []Class

// Clone returns a deep copy of a, safe for a caller to retain past the
// lifetime of the engine's own working copies (spec.md §3, "Classes... must
// not be mutated after the evaluator runs").
func (a Assignment) Clone() Assignment {
	out := make(Assignment, len(a))
	for i, c := range a {
		cp := make(Class, len(c))
		copy(cp, c)
		out[i] = cp
	}
	return out
}

// Options configures a single assignment run. Coordinator.Run and
// Facade.AssignWithOptions use every field exactly as given; a field left
// unset keeps its zero value and is not filled in from the
// process-environment Config snapshot. Facade.Assign builds its Options
// from the Facade's defaults (Strategy, Timeout, FallbackEnabled only).
type Options struct {
	Strategy        StrategyKind
	Timeout         time.Duration
	FallbackEnabled bool

	// RelaxSizeBounds softens the constraint-search strategy's class-size
	// bounds from a hard constraint into a penalized objective term
	// (spec.md §9 Open Question 3). Default false preserves the documented
	// hard-bound behavior; a caller opts in explicitly.
	RelaxSizeBounds bool

	// Ctx is optional, mirroring the teacher library's traversal Ctx field:
	// when set, the constraint-search strategy aborts as soon as ctx is
	// done, same as it aborts on Timeout. Checked on the same sparse poll
	// as the wall-clock deadline, never on every search step. A nil Ctx
	// disables this check entirely; Timeout alone still applies.
	Ctx context.Context
}

// Metadata carries the bookkeeping every strategy run and the coordinator
// accumulate about one Assign call (spec.md §4.3, §4.4, §4.6).
type Metadata struct {
	Algorithm     string
	ExecutionTime time.Duration
	NumClasses    int
	NumStudents   int

	// Populated only by the constraint-search strategy (spec.md §4.4).
	SolverStatus   string
	SolverTime     time.Duration
	ObjectiveValue float64
	NumVariables   int
	NumConstraints int
	TimeoutUsed    time.Duration

	// Populated only when the coordinator falls back (spec.md §4.6).
	FallbackUsed     bool
	OriginalStrategy string
	FallbackReason   string

	// Evaluation is attached by the coordinator after a successful run.
	Evaluation *Metrics
}

// strategy is the capability trait spec.md §9 describes: name,
// supports-timeout, and the assign operation itself. Both Greedy and the
// constraint-search strategy implement it; Coordinator holds only this
// interface, never a concrete type.
type strategy interface {
	name() string
	supportsTimeout() bool
	assign(input strategyInput) (Assignment, Metadata, error)
}

// strategyInput bundles everything a strategy needs to run, so adding a
// field never changes every strategy's call signature.
type strategyInput struct {
	graph      *friendgraph.Graph
	forbidden  friendgraph.ForbiddenMap
	numClasses int
	opts       Options
}
