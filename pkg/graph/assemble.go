package graph

import (
	"fmt"

	"github.com/venturegraph/sdk-go/pkg/interfaces"
)

// Assemble converts a validated canonical dataset into the graph model.
// Assembly is a pure function: identical input always produces identical
// output, and edge ordinals follow the relationship sequence's input order.
//
// The dataset must have passed schema validation; Assemble only enforces the
// identity and referential invariants the validator does not cover.
func Assemble(dataset *interfaces.Dataset) (*Model, error) {
	kinds := make(map[string]interfaces.EntityKind, len(dataset.Organizations)+len(dataset.People))
	nodes := make([]Node, 0, len(dataset.Organizations)+len(dataset.People))

	for i := range dataset.Organizations {
		org := dataset.Organizations[i]
		if _, exists := kinds[org.ID]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateID, org.ID)
		}
		kinds[org.ID] = interfaces.KindOrganization
		nodes = append(nodes, Node{Kind: interfaces.KindOrganization, Entity: &org})
	}

	for i := range dataset.People {
		person := dataset.People[i]
		if _, exists := kinds[person.ID]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateID, person.ID)
		}
		kinds[person.ID] = interfaces.KindPerson
		nodes = append(nodes, Node{Kind: interfaces.KindPerson, Entity: &person})
	}

	edges := make([]Edge, 0, len(dataset.Relationships))
	for i, rel := range dataset.Relationships {
		if _, ok := kinds[rel.SourceID]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownSourceNode, rel.SourceID)
		}
		if _, ok := kinds[rel.TargetID]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownTargetNode, rel.TargetID)
		}

		edge := Edge{
			ID:           fmt.Sprintf("edge-%d", i),
			Relationship: rel,
		}
		if rel.Type == interfaces.RelationCoFounded {
			edge.Label = string(interfaces.RelationCoFounded)
		}
		edges = append(edges, edge)
	}

	return &Model{Nodes: nodes, Edges: edges}, nil
}
