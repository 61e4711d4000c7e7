package assign_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brightgrove-schools/classrooms/assign"
	"github.com/brightgrove-schools/classrooms/internal/roster"
)

func TestOptimizerFindsFeasibleAssignmentOnSmallInstance(t *testing.T) {
	table := roster.Generate(8, roster.WithSeed(1))
	co := assign.NewCoordinator(nil)

	classes, md, err := co.Run(table, 2, assign.Options{
		Strategy:        assign.CPSAT,
		Timeout:         5 * time.Second,
		FallbackEnabled: false,
	})
	require.NoError(t, err)
	assert.Equal(t, "cp_sat", md.Algorithm)
	assert.Contains(t, []string{"OPTIMAL", "FEASIBLE"}, md.SolverStatus)

	seen := make(map[string]int)
	for _, c := range classes {
		for _, name := range c {
			seen[name]++
		}
	}
	assert.Len(t, seen, len(table))
}

func TestOptimizerEverySeatedStudentHasAClassmateFriend(t *testing.T) {
	table := roster.Generate(8, roster.WithSeed(2))
	co := assign.NewCoordinator(nil)

	classes, md, err := co.Run(table, 2, assign.Options{
		Strategy: assign.CPSAT,
		Timeout:  5 * time.Second,
	})
	require.NoError(t, err)
	require.NotNil(t, md.Evaluation)
	assert.Empty(t, md.Evaluation.StudentsWithoutFriends)
	_ = classes
}

func TestOptimizerTimeoutWithoutFallbackReturnsError(t *testing.T) {
	table := roster.Generate(40, roster.WithSeed(21), roster.WithExtraFriendChance(0.9))
	co := assign.NewCoordinator(nil)

	_, _, err := co.Run(table, 5, assign.Options{
		Strategy:        assign.CPSAT,
		Timeout:         1,
		FallbackEnabled: false,
	})
	// The deadline is first polled after 1024 search steps, and on this
	// roster the search reaches no feasible leaf by then, so a 1ns budget
	// must report a timeout error, never a silent success.
	assert.Error(t, err)
}

func TestOptimizerAbortsWhenContextCancelled(t *testing.T) {
	table := roster.Generate(40, roster.WithSeed(11), roster.WithExtraFriendChance(0.9))
	co := assign.NewCoordinator(nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := co.Run(table, 5, assign.Options{
		Strategy:        assign.CPSAT,
		Timeout:         5 * time.Second,
		FallbackEnabled: false,
		Ctx:             ctx,
	})
	// An already-cancelled context must abort the search long before a
	// 5-second wall-clock deadline would, surfacing the same timeout error.
	assert.Error(t, err)
}

func TestOptimizerRelaxSizeBoundsAllowsOffTargetLeaves(t *testing.T) {
	table := roster.Generate(10, roster.WithSeed(4))
	co := assign.NewCoordinator(nil)

	_, md, err := co.Run(table, 3, assign.Options{
		Strategy:        assign.CPSAT,
		Timeout:         5 * time.Second,
		RelaxSizeBounds: true,
	})
	require.NoError(t, err)
	assert.Contains(t, []string{"OPTIMAL", "FEASIBLE"}, md.SolverStatus)
}
