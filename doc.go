// Package classrooms assigns students to classes from a declared friendship
// and avoidance roster.
//
// A school collects, per student, up to four named friends and an optional
// "not with" list of classmates they should never share a room with. Given
// that roster and a target class count, this module partitions students
// into classes that keep as many friendships intact as possible, never
// seat a forbidden pair together when a feasible alternative exists, and
// keep class sizes and demographic/performance balance close to even.
//
// Two assignment strategies are available: a fast greedy heuristic
// (assign.Greedy) and an exact deadline-bounded constraint search
// (assign.CPSAT), with the coordinator able to fall back from the latter
// to the former when the constraint search fails (timeout or no feasible
// assignment). assign.Facade is the entry point most callers
// want; friendgraph, student, validate, and apitypes hold the supporting
// data model, validation, and wire-error types.
//
//	go get github.com/brightgrove-schools/classrooms
package classrooms
