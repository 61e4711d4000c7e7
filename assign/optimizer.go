package assign

import (
	"context"
	"sort"
	"time"

	"github.com/brightgrove-schools/classrooms/apitypes"
)

// cpSatStrategy is spec.md §4.4's constraint-search strategy. No CP-SAT
// binding exists anywhere in the Go ecosystem this module draws on (OR-Tools
// ships no cp_model-equivalent Go package), so this is a native exact search
// grounded directly on the teacher library's tsp.TSPBranchAndBound: a
// dedicated engine struct (not closures), a dense precomputed adjacency
// buffer, deterministic branch ordering, and a sparse time.Now()-polled
// soft deadline (tsp/bb.go's deadlineCheck idiom). The boolean x[s,c]
// formulation of spec.md §4.4 is realized as an assign-by-index array
// rather than materialized decision variables — equivalent in the search
// space it explores, without a modeling layer to build it on top of.
type cpSatStrategy struct{}

func (cpSatStrategy) name() string         { return "cp_sat" }
func (cpSatStrategy) supportsTimeout() bool { return true }

func (cpSatStrategy) assign(input strategyInput) (Assignment, Metadata, error) {
	start := time.Now()

	e := newOptimizerEngine(input)
	solverStart := time.Now()
	e.solve()
	solverTime := time.Since(solverStart)

	md := Metadata{
		Algorithm:      "cp_sat",
		ExecutionTime:  time.Since(start),
		NumClasses:     input.numClasses,
		NumStudents:    e.n,
		SolverTime:     solverTime,
		NumVariables:   e.n * e.k,
		NumConstraints: e.n + e.n*e.k + len(e.forbiddenPairIdx)*e.k + 2*e.k,
		TimeoutUsed:    input.opts.Timeout,
	}

	switch {
	case e.haveIncumbent && e.exhausted:
		md.SolverStatus = "OPTIMAL"
		md.ObjectiveValue = float64(e.bestObjective)
		return e.materialize(), md, nil
	case e.haveIncumbent && e.timedOut:
		md.SolverStatus = "FEASIBLE"
		md.ObjectiveValue = float64(e.bestObjective)
		return e.materialize(), md, nil
	case e.timedOut:
		md.SolverStatus = "TIMEOUT"
		return nil, md, apitypes.New(apitypes.OptimizationTimeout,
			"constraint search exceeded its wall-clock deadline without a feasible assignment",
			"timeoutSeconds", input.opts.Timeout.Seconds())
	default:
		md.SolverStatus = "INFEASIBLE"
		return nil, md, apitypes.New(apitypes.NoSolutionFound,
			"constraint search exhausted without finding a feasible assignment")
	}
}

// optimizerEngine holds the dense search state for one constraint-search
// run, mirroring the teacher's bbEngine shape.
type optimizerEngine struct {
	input strategyInput

	names   []string // student names, index-stable for the whole search
	order   []int    // search order (most-constrained-first), a permutation of 0..n-1
	n, k    int
	minSize int
	maxSize int

	neighborIdx      [][]int // per-student friend indices
	forbiddenIdx     [][]int // per-student forbidden-neighbor indices (symmetric)
	forbiddenPairIdx [][2]int
	edges            [][2]int // unique friendship edges, for objective scoring

	relaxSizeBounds bool

	assign    []int // assign[i] = class index, or -1 if unassigned
	classSize []int

	useDeadline bool
	deadline    time.Time
	ctx         context.Context
	steps       int
	timedOut    bool
	exhausted   bool

	haveIncumbent bool
	bestScore     float64
	bestObjective int
	bestAssign    []int
}

func newOptimizerEngine(input strategyInput) *optimizerEngine {
	names := input.graph.Vertices()
	sort.Strings(names)
	n := len(names)
	k := input.numClasses

	idx := make(map[string]int, n)
	for i, name := range names {
		idx[name] = i
	}

	neighborIdx := make([][]int, n)
	for i, name := range names {
		for _, f := range input.graph.Neighbors(name) {
			neighborIdx[i] = append(neighborIdx[i], idx[f])
		}
		sort.Ints(neighborIdx[i])
	}

	forbiddenIdx := make([][]int, n)
	var forbiddenPairIdx [][2]int
	for i, a := range names {
		for j := i + 1; j < n; j++ {
			b := names[j]
			if input.forbidden.Conflicts(a, b) {
				forbiddenIdx[i] = append(forbiddenIdx[i], j)
				forbiddenIdx[j] = append(forbiddenIdx[j], i)
				forbiddenPairIdx = append(forbiddenPairIdx, [2]int{i, j})
			}
		}
	}

	var edges [][2]int
	for i := 0; i < n; i++ {
		for _, j := range neighborIdx[i] {
			if j > i {
				edges = append(edges, [2]int{i, j})
			}
		}
	}

	target := n / k
	minSize := target - 1
	if target <= 1 {
		minSize = 1
	}
	if minSize < 1 {
		minSize = 1
	}
	maxSize := target + 2

	e := &optimizerEngine{
		input:            input,
		names:            names,
		n:                n,
		k:                k,
		minSize:          minSize,
		maxSize:          maxSize,
		neighborIdx:      neighborIdx,
		forbiddenIdx:     forbiddenIdx,
		forbiddenPairIdx: forbiddenPairIdx,
		edges:            edges,
		relaxSizeBounds:  input.opts.RelaxSizeBounds,
		assign:           make([]int, n),
		classSize:        make([]int, k),
		bestAssign:       make([]int, n),
	}
	for i := range e.assign {
		e.assign[i] = -1
	}

	if input.opts.Timeout > 0 {
		e.useDeadline = true
		e.deadline = time.Now().Add(input.opts.Timeout)
	}
	e.ctx = input.opts.Ctx

	// Most-constrained-variable-first ordering: students with more forbidden
	// neighbors and higher friend degree branch first, tightening pruning
	// earlier in the search, the same rationale as tsp's branching order.
	e.order = make([]int, n)
	for i := range e.order {
		e.order[i] = i
	}
	sort.Slice(e.order, func(a, b int) bool {
		ia, ib := e.order[a], e.order[b]
		ca := len(e.forbiddenIdx[ia]) + len(e.neighborIdx[ia])
		cb := len(e.forbiddenIdx[ib]) + len(e.neighborIdx[ib])
		if ca != cb {
			return ca > cb
		}
		return names[ia] < names[ib]
	})

	return e
}

func (e *optimizerEngine) solve() {
	e.search(0)
	if !e.timedOut {
		e.exhausted = true
	}
}

func (e *optimizerEngine) deadlineHit() bool {
	if e.timedOut {
		return true
	}
	e.steps++
	if (e.steps & 1023) != 0 {
		return false
	}
	if e.ctx != nil && e.ctx.Err() != nil {
		e.timedOut = true
		return true
	}
	if e.useDeadline && time.Now().After(e.deadline) {
		e.timedOut = true
		return true
	}
	return false
}

// search performs deterministic DFS over the search-order permutation,
// pruning on separation, the (optionally hard) size upper bound, and a
// friendship forward-check, and scoring complete assignments at the leaf.
func (e *optimizerEngine) search(pos int) {
	if e.deadlineHit() {
		return
	}
	if pos == e.n {
		e.considerLeaf()
		return
	}

	i := e.order[pos]
	type candidate struct {
		class       int
		friendCount int
	}
	var candidates []candidate
	for c := 0; c < e.k; c++ {
		if e.violatesSeparation(i, c) {
			continue
		}
		if !e.relaxSizeBounds && e.classSize[c]+1 > e.maxSize {
			continue
		}
		if !e.canPossiblySatisfyFriendship(i, c) {
			continue
		}
		candidates = append(candidates, candidate{c, e.friendsInClassIdx(i, c)})
	}

	sort.Slice(candidates, func(a, b int) bool {
		if candidates[a].friendCount != candidates[b].friendCount {
			return candidates[a].friendCount > candidates[b].friendCount
		}
		ca, cb := candidates[a].class, candidates[b].class
		if e.classSize[ca] != e.classSize[cb] {
			return e.classSize[ca] < e.classSize[cb]
		}
		return ca < cb
	})

	for _, cd := range candidates {
		e.assign[i] = cd.class
		e.classSize[cd.class]++
		e.search(pos + 1)
		e.classSize[cd.class]--
		e.assign[i] = -1
		if e.timedOut {
			return
		}
	}
}

// canPossiblySatisfyFriendship reports whether it remains possible for
// student i to end up with a friend in class c: true if a friend already
// sits in c, true if any friend is still unassigned (and so could still
// land in c), false only when every friend of i has already been placed
// and none of them chose c — at that point no future branch can repair it,
// so the caller safely skips trying c for i.
func (e *optimizerEngine) canPossiblySatisfyFriendship(i, c int) bool {
	anyUnassigned := false
	for _, f := range e.neighborIdx[i] {
		if e.assign[f] == c {
			return true
		}
		if e.assign[f] == -1 {
			anyUnassigned = true
		}
	}
	return anyUnassigned
}

func (e *optimizerEngine) violatesSeparation(i, c int) bool {
	for _, f := range e.forbiddenIdx[i] {
		if e.assign[f] == c {
			return true
		}
	}
	return false
}

func (e *optimizerEngine) friendsInClassIdx(i, c int) int {
	count := 0
	for _, f := range e.neighborIdx[i] {
		if e.assign[f] == c {
			count++
		}
	}
	return count
}

func (e *optimizerEngine) considerLeaf() {
	for i := 0; i < e.n; i++ {
		if e.friendsInClassIdx(i, e.assign[i]) == 0 {
			return // friendship hard constraint violated; reject leaf
		}
	}

	slack := 0
	if !e.relaxSizeBounds {
		for c := 0; c < e.k; c++ {
			if e.classSize[c] < e.minSize {
				return // size hard constraint violated; reject leaf
			}
		}
	} else {
		for c := 0; c < e.k; c++ {
			if e.classSize[c] < e.minSize {
				slack += e.minSize - e.classSize[c]
			}
			if e.classSize[c] > e.maxSize {
				slack += e.classSize[c] - e.maxSize
			}
		}
	}

	friendshipCount := 0
	for _, edge := range e.edges {
		if e.assign[edge[0]] == e.assign[edge[1]] {
			friendshipCount++
		}
	}
	score := float64(friendshipCount) - 3*float64(slack)

	if !e.haveIncumbent || score > e.bestScore {
		e.haveIncumbent = true
		e.bestScore = score
		e.bestObjective = friendshipCount
		copy(e.bestAssign, e.assign)
	}
}

func (e *optimizerEngine) materialize() Assignment {
	out := make(Assignment, e.k)
	for c := range out {
		out[c] = Class{}
	}
	for i, c := range e.bestAssign {
		out[c] = append(out[c], e.names[i])
	}
	for c := range out {
		sort.Strings(out[c])
	}
	return out
}
