package graph

import (
	"strings"

	"github.com/venturegraph/sdk-go/pkg/interfaces"
)

// Criteria selects a subgraph. Categories combine with AND; values within
// one category combine with OR.
type Criteria struct {
	// Domains OR-matches against organization domain tags
	Domains []string

	// Stages OR-matches against organization lifecycle stages
	Stages []interfaces.Stage

	// Search is a case-insensitive substring match against entity names,
	// across both kinds
	Search string
}

// Empty reports whether the criteria select everything
func (c Criteria) Empty() bool {
	return len(c.Domains) == 0 && len(c.Stages) == 0 && strings.TrimSpace(c.Search) == ""
}

// Neighbors returns the nodes reachable from nodeID by exactly one edge in
// either direction, deduplicated. The result is empty if the node has no
// incident edges or does not exist.
func Neighbors(nodeID string, nodes []Node, edges []Edge) []Node {
	adjacent := make(map[string]bool)
	for _, edge := range edges {
		switch nodeID {
		case edge.Relationship.SourceID:
			adjacent[edge.Relationship.TargetID] = true
		case edge.Relationship.TargetID:
			adjacent[edge.Relationship.SourceID] = true
		}
	}

	result := make([]Node, 0, len(adjacent))
	for _, node := range nodes {
		if adjacent[node.ID()] {
			result = append(result, node)
		}
	}
	return result
}

// Filter selects the subgraph matching criteria. A domain or stage criterion
// restricts the node set to matching organizations, then a closure-repair
// pass re-adds every person directly connected (by a pre-filter edge) to a
// surviving organization so their relationships stay visible. A search term
// matches both kinds by name and does not trigger closure repair. Edges are
// kept only when both endpoints survive.
//
// The input model is never mutated; empty criteria return it unchanged.
func Filter(model *Model, criteria Criteria) *Model {
	if criteria.Empty() {
		return model
	}

	search := strings.ToLower(strings.TrimSpace(criteria.Search))
	kindRestricted := len(criteria.Domains) > 0 || len(criteria.Stages) > 0

	surviving := make(map[string]bool, len(model.Nodes))
	for _, node := range model.Nodes {
		switch node.Kind {
		case interfaces.KindOrganization:
			org := node.Entity.(*interfaces.Organization)
			if matchesDomains(org, criteria.Domains) &&
				matchesStages(org, criteria.Stages) &&
				matchesSearch(node, search) {
				surviving[node.ID()] = true
			}
		case interfaces.KindPerson:
			// A domain or stage criterion never matches a person directly;
			// people only re-enter through closure repair below.
			if !kindRestricted && matchesSearch(node, search) {
				surviving[node.ID()] = true
			}
		}
	}

	if kindRestricted {
		repairClosure(model, surviving)
	}

	nodes := make([]Node, 0, len(surviving))
	for _, node := range model.Nodes {
		if surviving[node.ID()] {
			nodes = append(nodes, node)
		}
	}

	edges := make([]Edge, 0, len(model.Edges))
	for _, edge := range model.Edges {
		if surviving[edge.Relationship.SourceID] && surviving[edge.Relationship.TargetID] {
			edges = append(edges, edge)
		}
	}

	return &Model{Nodes: nodes, Edges: edges}
}

// repairClosure adds back every person adjacent to a surviving organization.
// Repair runs against a snapshot of the survivors so a re-added person never
// pulls in further people transitively.
func repairClosure(model *Model, surviving map[string]bool) {
	kinds := make(map[string]interfaces.EntityKind, len(model.Nodes))
	for _, node := range model.Nodes {
		kinds[node.ID()] = node.Kind
	}

	base := make(map[string]bool, len(surviving))
	for id := range surviving {
		base[id] = true
	}

	for _, edge := range model.Edges {
		src, dst := edge.Relationship.SourceID, edge.Relationship.TargetID
		if base[src] && kinds[dst] == interfaces.KindPerson {
			surviving[dst] = true
		}
		if base[dst] && kinds[src] == interfaces.KindPerson {
			surviving[src] = true
		}
	}
}

func matchesDomains(org *interfaces.Organization, domains []string) bool {
	if len(domains) == 0 {
		return true
	}
	for _, want := range domains {
		for _, have := range org.Domains {
			if have == want {
				return true
			}
		}
	}
	return false
}

func matchesStages(org *interfaces.Organization, stages []interfaces.Stage) bool {
	if len(stages) == 0 {
		return true
	}
	for _, want := range stages {
		if org.Stage == want {
			return true
		}
	}
	return false
}

func matchesSearch(node Node, search string) bool {
	if search == "" {
		return true
	}
	return strings.Contains(strings.ToLower(node.Name()), search)
}
