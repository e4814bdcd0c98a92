package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/venturegraph/sdk-go/pkg/interfaces"
)

// closureModel is the filter fixture: organizations s1 (AI, ML),
// s2 (Healthcare), s3 (AI); person p1 connected to s1, person p2 to s2.
func closureModel(t *testing.T) *Model {
	t.Helper()
	model, err := Assemble(&interfaces.Dataset{
		Organizations: []interfaces.Organization{
			{ID: "s1", Name: "Startup One", Domains: []string{"AI", "ML"}, Stage: interfaces.StageSeed, FoundedYear: 2020},
			{ID: "s2", Name: "Startup Two", Domains: []string{"Healthcare"}, Stage: interfaces.StageSeriesA, FoundedYear: 2019},
			{ID: "s3", Name: "Startup Three", Domains: []string{"AI"}, Stage: interfaces.StageSeriesB, FoundedYear: 2017},
		},
		People: []interfaces.Person{
			{ID: "p1", Name: "Ada"},
			{ID: "p2", Name: "Grace"},
		},
		Relationships: []interfaces.Relationship{
			{SourceID: "p1", TargetID: "s1", Type: interfaces.RelationCoFounded},
			{SourceID: "p2", TargetID: "s2", Type: interfaces.RelationWorksAt},
		},
	})
	require.NoError(t, err)
	return model
}

func nodeIDs(nodes []Node) []string {
	ids := make([]string, 0, len(nodes))
	for _, node := range nodes {
		ids = append(ids, node.ID())
	}
	return ids
}

func TestNeighbors(t *testing.T) {
	model := closureModel(t)

	tests := []struct {
		name   string
		nodeID string
		want   []string
	}{
		{name: "person to organization", nodeID: "p1", want: []string{"s1"}},
		{name: "organization to person", nodeID: "s1", want: []string{"p1"}},
		{name: "isolated node", nodeID: "s3", want: []string{}},
		{name: "missing node", nodeID: "nope", want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Neighbors(tt.nodeID, model.Nodes, model.Edges)
			assert.ElementsMatch(t, tt.want, nodeIDs(got))
		})
	}
}

func TestNeighborsSymmetric(t *testing.T) {
	model := closureModel(t)

	for _, a := range model.Nodes {
		for _, b := range Neighbors(a.ID(), model.Nodes, model.Edges) {
			back := nodeIDs(Neighbors(b.ID(), model.Nodes, model.Edges))
			assert.Contains(t, back, a.ID(), "neighbors(%s) should contain %s", b.ID(), a.ID())
		}
	}
}

func TestNeighborsDeduplicates(t *testing.T) {
	model, err := Assemble(&interfaces.Dataset{
		Organizations: []interfaces.Organization{
			{ID: "s1", Name: "One", Stage: interfaces.StageSeed, FoundedYear: 2020},
		},
		People: []interfaces.Person{
			{ID: "p1", Name: "Ada"},
		},
		Relationships: []interfaces.Relationship{
			{SourceID: "p1", TargetID: "s1", Type: interfaces.RelationCoFounded},
			{SourceID: "p1", TargetID: "s1", Type: interfaces.RelationWorksAt},
		},
	})
	require.NoError(t, err)

	got := Neighbors("p1", model.Nodes, model.Edges)
	assert.Equal(t, []string{"s1"}, nodeIDs(got))
}

func TestFilterEmptyCriteriaPassThrough(t *testing.T) {
	model := closureModel(t)

	for _, criteria := range []Criteria{
		{},
		{Search: "   "},
		{Domains: nil, Stages: nil, Search: ""},
	} {
		got := Filter(model, criteria)
		assert.ElementsMatch(t, nodeIDs(model.Nodes), nodeIDs(got.Nodes))
		assert.Equal(t, model.Edges, got.Edges)
	}
}

func TestFilterDomainClosureRepair(t *testing.T) {
	model := closureModel(t)

	got := Filter(model, Criteria{Domains: []string{"AI"}})

	// s1 and s3 match the tag; p1 is repaired back in through its edge to
	// s1; s2 and p2 are gone.
	assert.ElementsMatch(t, []string{"s1", "s3", "p1"}, nodeIDs(got.Nodes))

	require.Len(t, got.Edges, 1)
	assert.Equal(t, "p1", got.Edges[0].Relationship.SourceID)
	assert.Equal(t, "s1", got.Edges[0].Relationship.TargetID)
}

func TestFilterStages(t *testing.T) {
	model := closureModel(t)

	got := Filter(model, Criteria{Stages: []interfaces.Stage{interfaces.StageSeriesA, interfaces.StageSeriesB}})
	assert.ElementsMatch(t, []string{"s2", "s3", "p2"}, nodeIDs(got.Nodes))
}

func TestFilterSearchMatchesBothKinds(t *testing.T) {
	model := closureModel(t)

	got := Filter(model, Criteria{Search: "aDa"})
	assert.ElementsMatch(t, []string{"p1"}, nodeIDs(got.Nodes))
	// p1's organization did not match, so the edge loses an endpoint
	assert.Empty(t, got.Edges)

	got = Filter(model, Criteria{Search: "startup"})
	assert.ElementsMatch(t, []string{"s1", "s2", "s3"}, nodeIDs(got.Nodes))
}

func TestFilterCombinesCategoriesWithAnd(t *testing.T) {
	model := closureModel(t)

	got := Filter(model, Criteria{Domains: []string{"AI"}, Stages: []interfaces.Stage{interfaces.StageSeed}})
	assert.ElementsMatch(t, []string{"s1", "p1"}, nodeIDs(got.Nodes))

	got = Filter(model, Criteria{Domains: []string{"AI"}, Search: "three"})
	assert.ElementsMatch(t, []string{"s3"}, nodeIDs(got.Nodes))
}

func TestFilterDoesNotMutateInput(t *testing.T) {
	model := closureModel(t)
	originalNodes := len(model.Nodes)
	originalEdges := len(model.Edges)

	_ = Filter(model, Criteria{Domains: []string{"AI"}})

	assert.Len(t, model.Nodes, originalNodes)
	assert.Len(t, model.Edges, originalEdges)
}

func TestFilterNoMatches(t *testing.T) {
	model := closureModel(t)

	got := Filter(model, Criteria{Domains: []string{"Aerospace"}})
	assert.Empty(t, got.Nodes)
	assert.Empty(t, got.Edges)
}
