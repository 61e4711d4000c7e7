package friendgraph_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/brightgrove-schools/classrooms/friendgraph"
	"github.com/brightgrove-schools/classrooms/student"
)

func mkTable() student.Table {
	return student.Table{
		{Name: "Alice", Gender: student.Female, Academic: student.High, Behavioral: student.Medium, Friends: [4]string{"Bob", "", "", ""}},
		{Name: "Bob", Gender: student.Male, Academic: student.Medium, Behavioral: student.Medium, Friends: [4]string{"Alice", "Carol", "", ""}, NotWith: []string{"Carol"}},
		{Name: "Carol", Gender: student.Female, Academic: student.Low, Behavioral: student.High, Friends: [4]string{"Bob", "", "", ""}},
		{Name: "Dave", Gender: student.Male, Academic: student.Low, Behavioral: student.Low, Friends: [4]string{"Alice", "", "", ""}},
	}
}

func TestBuildMirrorsUndirectedEdges(t *testing.T) {
	g, _ := friendgraph.Build(mkTable())

	assert.True(t, g.HasEdge("Alice", "Bob"))
	assert.True(t, g.HasEdge("Bob", "Alice"))
	assert.True(t, g.HasEdge("Bob", "Carol"))
	assert.False(t, g.HasEdge("Alice", "Carol"))
	assert.Equal(t, 4, g.Len())
}

func TestDegreeAndNeighbors(t *testing.T) {
	g, _ := friendgraph.Build(mkTable())

	assert.Equal(t, 2, g.Degree("Alice")) // Bob, Dave
	assert.ElementsMatch(t, []string{"Bob", "Dave"}, g.Neighbors("Alice"))
	assert.Equal(t, 0, g.Degree("Zoe"))
	assert.Nil(t, g.Neighbors("Zoe"))
}

func TestIsolatedVertices(t *testing.T) {
	table := mkTable()
	table = append(table, student.Student{Name: "Erin"})
	g, _ := friendgraph.Build(table)

	assert.Equal(t, []string{"Erin"}, g.IsolatedVertices())
}

func TestAttrsRoundTrip(t *testing.T) {
	g, _ := friendgraph.Build(mkTable())

	st, ok := g.Attrs("Carol")
	assert.True(t, ok)
	assert.Equal(t, student.Low, st.Academic)
	assert.Equal(t, student.High, st.Behavioral)

	_, ok = g.Attrs("Nobody")
	assert.False(t, ok)
}

func TestBuildIgnoresDanglingFriendReference(t *testing.T) {
	table := student.Table{
		{Name: "Alice", Friends: [4]string{"Ghost", "", "", ""}},
	}
	g, _ := friendgraph.Build(table)

	assert.False(t, g.HasVertex("Ghost"))
	assert.Equal(t, 0, g.Degree("Alice"))
}

func TestBuildForbiddenMapAsymmetricSource(t *testing.T) {
	_, forbidden := friendgraph.Build(mkTable())

	// Bob declared Carol forbidden; Carol never declared Bob.
	assert.Contains(t, forbidden.Of("Bob"), "Carol")
	assert.NotContains(t, forbidden.Of("Carol"), "Bob")

	// Conflicts is symmetric regardless of declaration direction.
	assert.True(t, forbidden.Conflicts("Bob", "Carol"))
	assert.True(t, forbidden.Conflicts("Carol", "Bob"))
	assert.False(t, forbidden.Conflicts("Alice", "Dave"))
}

func TestSelfDeclaredFriendshipIsNoop(t *testing.T) {
	table := student.Table{
		{Name: "Alice", Friends: [4]string{"Alice", "Bob", "", ""}},
		{Name: "Bob", Friends: [4]string{"Alice", "", "", ""}},
	}
	g, _ := friendgraph.Build(table)

	assert.Equal(t, 1, g.Degree("Alice"))
	assert.False(t, g.HasEdge("Alice", "Alice"))
}
