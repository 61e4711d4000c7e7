// Package roster generates deterministic synthetic student.Table fixtures
// for tests and property checks. It is never imported by package assign
// itself — only by _test.go files across the module — so it lives under
// internal rather than alongside the domain packages it exercises.
//
// The option shape is grounded directly on the teacher library's
// builder package: a functional-option type whose constructors validate
// and panic on a meaningless argument (a nil function, an out-of-range
// probability), with determinism made explicit via WithSeed/WithRand
// rather than a hidden global RNG.
package roster

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/brightgrove-schools/classrooms/student"
)

// Option customizes Generate by mutating a config before the roster is
// built.
type Option func(*config)

type config struct {
	rng                *rand.Rand
	idFn               func(int) string
	notWithProbability float64
	extraFriendChance  float64
}

func newConfig(opts ...Option) config {
	cfg := config{
		rng:               rand.New(rand.NewSource(1)),
		idFn:              defaultIDFn,
		notWithProbability: 0,
		extraFriendChance: 0.5,
	}
	for _, o := range opts {
		o(&cfg)
	}
	return cfg
}

func defaultIDFn(i int) string {
	return fmt.Sprintf("Student%03d", i)
}

// WithSeed creates a new *rand.Rand from seed (deterministic).
func WithSeed(seed int64) Option {
	return func(c *config) {
		c.rng = rand.New(rand.NewSource(seed))
	}
}

// WithRand supplies an explicit RNG. Panics on nil.
func WithRand(r *rand.Rand) Option {
	if r == nil {
		panic("roster: WithRand(nil)")
	}
	return func(c *config) {
		c.rng = r
	}
}

// WithIDScheme overrides the deterministic index -> name function. Panics
// on nil.
func WithIDScheme(fn func(int) string) Option {
	if fn == nil {
		panic("roster: WithIDScheme(nil)")
	}
	return func(c *config) {
		c.idFn = fn
	}
}

// WithNotWithProbability sets the per-student chance of carrying one
// "not with" entry naming a non-friend classmate. Panics outside [0, 1].
func WithNotWithProbability(p float64) Option {
	if p < 0 || p > 1 {
		panic("roster: WithNotWithProbability(p outside [0,1])")
	}
	return func(c *config) {
		c.notWithProbability = p
	}
}

// WithExtraFriendChance sets, per available friend slot beyond the
// guaranteed ring edges, the probability it gets filled. Panics outside
// [0, 1].
func WithExtraFriendChance(p float64) Option {
	if p < 0 || p > 1 {
		panic("roster: WithExtraFriendChance(p outside [0,1])")
	}
	return func(c *config) {
		c.extraFriendChance = p
	}
}

// Generate builds an n-student roster (n >= 2) with no isolated vertices:
// every student is seeded into a friendship ring (student i befriends
// student i+1 mod n), guaranteeing every student has at least one friend
// and the friendship graph is connected (two ring friends each when n >= 3,
// one when n == 2), then each student may acquire more random friends per
// WithExtraFriendChance, never more than four in total (the four-slot
// Student.Friends array). Gender and grades are drawn uniformly;
// "not with" entries, when present, always name a non-friend to avoid a
// self-contradictory fixture.
func Generate(n int, opts ...Option) student.Table {
	if n < 2 {
		panic("roster: Generate(n<2)")
	}
	cfg := newConfig(opts...)

	names := make([]string, n)
	for i := range names {
		names[i] = cfg.idFn(i)
	}

	friends := make([]map[string]bool, n)
	for i := range friends {
		friends[i] = make(map[string]bool, 4)
	}
	addFriend := func(i, j int) {
		if i == j || len(friends[i]) >= 4 || len(friends[j]) >= 4 {
			return
		}
		friends[i][names[j]] = true
		friends[j][names[i]] = true
	}

	for i := 0; i < n; i++ {
		addFriend(i, (i+1)%n)
	}
	for i := 0; i < n; i++ {
		for slot := len(friends[i]); slot < 4; slot++ {
			if cfg.rng.Float64() >= cfg.extraFriendChance {
				continue
			}
			j := cfg.rng.Intn(n)
			addFriend(i, j)
		}
	}

	genders := [...]student.Gender{student.Male, student.Female}
	grades := [...]student.Grade{student.Low, student.Medium, student.High}

	table := make(student.Table, n)
	for i, name := range names {
		sortedFriends := make([]string, 0, len(friends[i]))
		for f := range friends[i] {
			sortedFriends = append(sortedFriends, f)
		}
		sort.Strings(sortedFriends)

		var friendList [4]string
		copy(friendList[:], sortedFriends)

		var notWith []string
		if cfg.rng.Float64() < cfg.notWithProbability {
			for tries := 0; tries < n; tries++ {
				candidate := names[cfg.rng.Intn(n)]
				if candidate == name || friends[i][candidate] {
					continue
				}
				notWith = []string{candidate}
				break
			}
		}

		table[i] = student.Student{
			Name:       name,
			Gender:     genders[cfg.rng.Intn(len(genders))],
			Academic:   grades[cfg.rng.Intn(len(grades))],
			Behavioral: grades[cfg.rng.Intn(len(grades))],
			Friends:    friendList,
			NotWith:    notWith,
		}
	}
	return table
}
