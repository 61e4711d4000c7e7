package assign

import (
	"math"
	"sort"
	"time"

	"github.com/brightgrove-schools/classrooms/student"
)

// greedyStrategy is the deterministic heuristic (spec.md §4.3): fast,
// bounded, and used both as a fast path and as the coordinator's
// fallback when the constraint-search strategy fails. It never returns an
// error on a validated input — the post-hoc repair sweep may leave
// friendless students, but that is reported by the Evaluator, not raised
// as a failure.
type greedyStrategy struct{}

func (greedyStrategy) name() string         { return "greedy" }
func (greedyStrategy) supportsTimeout() bool { return false }

func (greedyStrategy) assign(input strategyInput) (Assignment, Metadata, error) {
	start := time.Now()

	e := newGreedyEngine(input)
	e.run()

	md := Metadata{
		Algorithm:     "greedy",
		ExecutionTime: time.Since(start),
		NumClasses:    input.numClasses,
		NumStudents:   input.graph.Len(),
	}
	return e.materialize(), md, nil
}

// greedyEngine holds the working state for one greedy run: the partially
// built classes, the remaining unassigned students, and the shared graph
// data every scoring function reads. A dedicated struct (rather than a
// chain of closures) keeps dependencies explicit, mirroring the teacher
// library's bbEngine.
type greedyEngine struct {
	input      strategyInput
	targetSize int
	classes    []map[string]bool
	unassigned map[string]bool
}

func newGreedyEngine(input strategyInput) *greedyEngine {
	e := &greedyEngine{
		input:      input,
		targetSize: input.graph.Len() / input.numClasses,
		classes:    make([]map[string]bool, input.numClasses),
		unassigned: make(map[string]bool, input.graph.Len()),
	}
	for i := range e.classes {
		e.classes[i] = make(map[string]bool)
	}
	for _, v := range input.graph.Vertices() {
		e.unassigned[v] = true
	}
	return e
}

// run executes the full seeding/balance/repair algorithm of spec.md §4.3.
func (e *greedyEngine) run() {
	for len(e.unassigned) > 0 {
		s := e.pickSeed()
		classIdx := e.findBestClass(s)
		e.assignStudentGroup(s, classIdx)

		maxIdx, minIdx := e.maxMinClasses()
		if len(e.classes[maxIdx])-len(e.classes[minIdx]) > 1 {
			e.balance(true)
		}
	}
	e.repairOnce()
}

// pickSeed selects the next student to commit, per the lexicographic-
// minimum rule of spec.md §4.3 step 2: (friends still unassigned, total
// friend count), ties broken by name ascending. Iterating candidate names
// in sorted order and only replacing the incumbent on a strict
// improvement gives the ascending tie-break for free.
func (e *greedyEngine) pickSeed() string {
	names := e.sortedNames(e.unassigned)

	best := names[0]
	bestUnassignedFriends := e.unassignedFriendCount(best)
	bestTotal := e.input.graph.Degree(best)

	for _, n := range names[1:] {
		uf := e.unassignedFriendCount(n)
		total := e.input.graph.Degree(n)
		if uf < bestUnassignedFriends || (uf == bestUnassignedFriends && total < bestTotal) {
			best, bestUnassignedFriends, bestTotal = n, uf, total
		}
	}
	return best
}

func (e *greedyEngine) unassignedFriendCount(s string) int {
	count := 0
	for _, f := range e.input.graph.Neighbors(s) {
		if e.unassigned[f] {
			count++
		}
	}
	return count
}

// findBestClass implements spec.md §4.3 step 3.
func (e *greedyEngine) findBestClass(s string) int {
	type candidate struct {
		score float64
		idx   int
	}
	var eligible []candidate

	for i, c := range e.classes {
		if e.violatesForbidden(s, c) {
			continue
		}
		friendsIn := e.friendsInClass(s, c)
		if friendsIn == 0 {
			continue // not eligible: s has no friend placed in c yet
		}
		maleRatio, academicAvg, behavioralAvg := e.classStats(c)
		sizePenalty := 2 * math.Abs(float64(len(c)-e.targetSize))
		friendBonus := 4 * float64(friendsIn)
		genderBalance := math.Abs(0.5 - maleRatio)
		perfBalance := math.Abs(2-academicAvg) + math.Abs(2-behavioralAvg)
		score := sizePenalty - friendBonus + genderBalance + perfBalance
		eligible = append(eligible, candidate{score, i})
	}

	if len(eligible) == 0 {
		// No eligible class: minimize friends outside the class (keeps
		// options open), ties to the lowest index. A class skipped above
		// for a forbidden conflict may still hold friends of s, so this
		// branch can pick it; forbidden pairs are not re-checked here.
		bestIdx, bestOutside := 0, -1
		for i, c := range e.classes {
			outside := e.friendsOutsideClass(s, c)
			if bestOutside == -1 || outside < bestOutside {
				bestOutside, bestIdx = outside, i
			}
		}
		return bestIdx
	}

	bestIdx, bestScore := eligible[0].idx, eligible[0].score
	for _, cand := range eligible[1:] {
		if cand.score < bestScore {
			bestScore, bestIdx = cand.score, cand.idx
		}
	}
	return bestIdx
}

// assignStudentGroup implements spec.md §4.3 step 4 (group-pull): place s,
// then move up to two additional unassigned friends into the same class.
func (e *greedyEngine) assignStudentGroup(s string, classIdx int) {
	if !e.unassigned[s] {
		return
	}
	delete(e.unassigned, s)
	e.classes[classIdx][s] = true

	target := e.classes[classIdx]
	var candidates []string
	for _, f := range e.input.graph.Neighbors(s) {
		if e.unassigned[f] && !e.violatesForbidden(f, target) {
			candidates = append(candidates, f)
		}
	}
	if len(candidates) == 0 {
		return
	}

	candidateSet := make(map[string]bool, len(candidates))
	for _, c := range candidates {
		candidateSet[c] = true
	}
	sNeighbors := make(map[string]bool)
	for _, n := range e.input.graph.Neighbors(s) {
		sNeighbors[n] = true
	}

	type scored struct {
		score int
		name  string
	}
	scores := make([]scored, 0, len(candidates))
	for _, f := range candidates {
		friendsInClass := e.friendsInClass(f, target)
		mutual := 0
		for _, n := range e.input.graph.Neighbors(f) {
			if candidateSet[n] && sNeighbors[n] {
				mutual++
			}
		}
		scores = append(scores, scored{friendsInClass + mutual, f})
	}
	// Ranked descending by score, ties broken by name descending — the Go
	// analogue of Python's sorted(friend_scores, reverse=True) over
	// (score, name) tuples.
	sort.Slice(scores, func(i, j int) bool {
		if scores[i].score != scores[j].score {
			return scores[i].score > scores[j].score
		}
		return scores[i].name > scores[j].name
	})

	limit := 2
	if len(scores) < limit {
		limit = len(scores)
	}
	for _, sc := range scores[:limit] {
		if e.unassigned[sc.name] {
			delete(e.unassigned, sc.name)
			e.classes[classIdx][sc.name] = true
		}
	}
}

// balance implements the balancer of spec.md §4.3: up to 50 iterations,
// moving the student with the most friends in the smallest class from the
// largest class, subject to a safety check unless force is set.
func (e *greedyEngine) balance(force bool) {
	for iter := 0; iter < 50; iter++ {
		maxIdx, minIdx := e.maxMinClasses()
		if len(e.classes[maxIdx])-len(e.classes[minIdx]) <= 2 {
			return
		}

		type moveable struct {
			friendsInTarget int
			name            string
		}
		var candidates []moveable
		for _, s := range e.sortedNames(e.classes[maxIdx]) {
			friendsInTarget := e.friendsInClass(s, e.classes[minIdx])

			safe := true
			for _, friend := range e.input.graph.Neighbors(s) {
				if !e.classes[maxIdx][friend] {
					continue
				}
				otherFriends := 0
				for _, f2 := range e.input.graph.Neighbors(friend) {
					if e.classes[maxIdx][f2] && f2 != s {
						otherFriends++
					}
				}
				if otherFriends == 0 {
					safe = false
					break
				}
			}

			if (friendsInTarget > 0 || force) && (safe || force) {
				candidates = append(candidates, moveable{friendsInTarget, s})
			}
		}
		if len(candidates) == 0 {
			return
		}

		best := candidates[0]
		for _, c := range candidates[1:] {
			if c.friendsInTarget > best.friendsInTarget ||
				(c.friendsInTarget == best.friendsInTarget && c.name > best.name) {
				best = c
			}
		}
		delete(e.classes[maxIdx], best.name)
		e.classes[minIdx][best.name] = true
	}
}

// repairOnce is the termination-time validation sweep of spec.md §4.3 step
// 6: it finds at most one friendless student (the first in deterministic
// class/name order) and moves them into a class holding one of their
// friends, if any such class exists. It never makes a second attempt, even
// if other friendless students remain — this is the documented "first-only"
// repair behavior (spec.md §9 Open Question 1), preserved exactly as the
// original strategy implements it, not strengthened into a full pass.
func (e *greedyEngine) repairOnce() {
	for i, c := range e.classes {
		for _, s := range e.sortedNames(c) {
			if e.friendsInClass(s, c) > 0 {
				continue
			}
			for j := range e.classes {
				if j == i {
					continue
				}
				if e.friendsInClass(s, e.classes[j]) > 0 {
					delete(e.classes[i], s)
					e.classes[j][s] = true
					return
				}
			}
			return // first friendless student has no reachable friend class; stop
		}
	}
}

func (e *greedyEngine) friendsInClass(s string, class map[string]bool) int {
	count := 0
	for _, f := range e.input.graph.Neighbors(s) {
		if class[f] {
			count++
		}
	}
	return count
}

func (e *greedyEngine) friendsOutsideClass(s string, class map[string]bool) int {
	return e.input.graph.Degree(s) - e.friendsInClass(s, class)
}

func (e *greedyEngine) violatesForbidden(s string, class map[string]bool) bool {
	for name := range class {
		if e.input.forbidden.Conflicts(s, name) {
			return true
		}
	}
	return false
}

func (e *greedyEngine) classStats(class map[string]bool) (maleRatio, academicAvg, behavioralAvg float64) {
	if len(class) == 0 {
		return 0, 0, 0
	}
	var males int
	var academicSum, behavioralSum float64
	for name := range class {
		st, _ := e.input.graph.Attrs(name)
		if st.Gender == student.Male {
			males++
		}
		academicSum += st.Academic.Score()
		behavioralSum += st.Behavioral.Score()
	}
	n := float64(len(class))
	return float64(males) / n, academicSum / n, behavioralSum / n
}

func (e *greedyEngine) maxMinClasses() (maxIdx, minIdx int) {
	maxLen, minLen := -1, -1
	for i, c := range e.classes {
		l := len(c)
		if maxLen == -1 || l > maxLen {
			maxLen, maxIdx = l, i
		}
		if minLen == -1 || l < minLen {
			minLen, minIdx = l, i
		}
	}
	return
}

func (e *greedyEngine) sortedNames(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for n := range set {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

func (e *greedyEngine) materialize() Assignment {
	out := make(Assignment, len(e.classes))
	for i, c := range e.classes {
		out[i] = Class(e.sortedNames(c))
	}
	return out
}
