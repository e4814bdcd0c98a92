package graph

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/venturegraph/sdk-go/pkg/interfaces"
)

func testDataset() *interfaces.Dataset {
	return &interfaces.Dataset{
		Organizations: []interfaces.Organization{
			{ID: "s1", Name: "Startup One", Domains: []string{"AI", "ML"}, Stage: interfaces.StageSeed, FoundedYear: 2020},
			{ID: "s2", Name: "Startup Two", Domains: []string{"Healthcare"}, Stage: interfaces.StageSeriesA, FoundedYear: 2018},
		},
		People: []interfaces.Person{
			{ID: "p1", Name: "Ada", Roles: []string{"founder"}},
			{ID: "p2", Name: "Grace", Roles: []string{"engineer"}},
		},
		Relationships: []interfaces.Relationship{
			{SourceID: "p1", TargetID: "s1", Type: interfaces.RelationCoFounded, SinceYear: 2020},
			{SourceID: "p2", TargetID: "s2", Type: interfaces.RelationWorksAt, SinceYear: 2019},
			{SourceID: "s2", TargetID: "s1", Type: interfaces.RelationInvestsIn},
		},
	}
}

func TestAssembleCounts(t *testing.T) {
	dataset := testDataset()

	model, err := Assemble(dataset)
	require.NoError(t, err)

	assert.Len(t, model.Nodes, len(dataset.Organizations)+len(dataset.People))
	assert.Len(t, model.Edges, len(dataset.Relationships))

	for i, edge := range model.Edges {
		assert.Equal(t, fmt.Sprintf("edge-%d", i), edge.ID)
	}
}

func TestAssembleEdgeLabels(t *testing.T) {
	model, err := Assemble(testDataset())
	require.NoError(t, err)

	assert.Equal(t, "co-founded", model.Edges[0].Label)
	assert.Empty(t, model.Edges[1].Label)
	assert.Empty(t, model.Edges[2].Label)
}

func TestAssembleDeterministic(t *testing.T) {
	first, err := Assemble(testDataset())
	require.NoError(t, err)
	second, err := Assemble(testDataset())
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestAssembleDuplicateID(t *testing.T) {
	tests := []struct {
		name    string
		dataset *interfaces.Dataset
	}{
		{
			name: "duplicate across organizations",
			dataset: &interfaces.Dataset{
				Organizations: []interfaces.Organization{
					{ID: "x", Name: "A", Stage: interfaces.StageSeed, FoundedYear: 2020},
					{ID: "x", Name: "B", Stage: interfaces.StageSeed, FoundedYear: 2021},
				},
			},
		},
		{
			name: "organization and person share an id",
			dataset: &interfaces.Dataset{
				Organizations: []interfaces.Organization{
					{ID: "x", Name: "A", Stage: interfaces.StageSeed, FoundedYear: 2020},
				},
				People: []interfaces.Person{
					{ID: "x", Name: "Ada"},
				},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Assemble(tt.dataset)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrDuplicateID))
			assert.Contains(t, err.Error(), "x")
		})
	}
}

func TestAssembleDanglingReferences(t *testing.T) {
	base := func() *interfaces.Dataset {
		return &interfaces.Dataset{
			Organizations: []interfaces.Organization{
				{ID: "s1", Name: "A", Stage: interfaces.StageSeed, FoundedYear: 2020},
			},
			People: []interfaces.Person{
				{ID: "p1", Name: "Ada"},
			},
		}
	}

	t.Run("unknown source", func(t *testing.T) {
		dataset := base()
		dataset.Relationships = []interfaces.Relationship{
			{SourceID: "ghost", TargetID: "s1", Type: interfaces.RelationWorksAt},
		}
		_, err := Assemble(dataset)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrUnknownSourceNode))
		assert.Contains(t, err.Error(), "ghost")
	})

	t.Run("unknown target", func(t *testing.T) {
		dataset := base()
		dataset.Relationships = []interfaces.Relationship{
			{SourceID: "p1", TargetID: "ghost", Type: interfaces.RelationWorksAt},
		}
		_, err := Assemble(dataset)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrUnknownTargetNode))
		assert.Contains(t, err.Error(), "ghost")
	})
}

func TestAssembleEmptyDataset(t *testing.T) {
	model, err := Assemble(&interfaces.Dataset{})
	require.NoError(t, err)
	assert.Empty(t, model.Nodes)
	assert.Empty(t, model.Edges)
}
