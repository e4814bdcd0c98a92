// Package graph assembles validated canonical datasets into a node/edge
// model and answers queries over it.
package graph

import (
	"encoding/json"
	"fmt"

	"github.com/venturegraph/sdk-go/pkg/interfaces"
)

// Position is a 2D layout position. It is owned exclusively by the
// rendering layer; nothing in this package reads it.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Node wraps one entity with its kind discriminator
type Node struct {
	Kind     interfaces.EntityKind
	Entity   interfaces.Entity
	Position *Position
}

// ID returns the wrapped entity's identifier
func (n Node) ID() string { return n.Entity.EntityID() }

// Name returns the wrapped entity's display name
func (n Node) Name() string { return n.Entity.EntityName() }

// Edge wraps one relationship with its synthesized identifier. Edge IDs are
// stable within one assembly run only.
type Edge struct {
	ID           string                  `json:"id"`
	Label        string                  `json:"label,omitempty"`
	Relationship interfaces.Relationship `json:"relationship"`
}

// Model is the assembled graph served to consumers
type Model struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

type nodeJSON struct {
	Kind         interfaces.EntityKind    `json:"kind"`
	Organization *interfaces.Organization `json:"organization,omitempty"`
	Person       *interfaces.Person       `json:"person,omitempty"`
	Position     *Position                `json:"position,omitempty"`
}

// MarshalJSON encodes the node with its kind discriminator
func (n Node) MarshalJSON() ([]byte, error) {
	out := nodeJSON{Kind: n.Kind, Position: n.Position}
	switch entity := n.Entity.(type) {
	case *interfaces.Organization:
		out.Organization = entity
	case *interfaces.Person:
		out.Person = entity
	default:
		return nil, fmt.Errorf("unknown entity kind %q", n.Kind)
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes a node, dispatching on the kind discriminator
func (n *Node) UnmarshalJSON(data []byte) error {
	var in nodeJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}

	switch in.Kind {
	case interfaces.KindOrganization:
		if in.Organization == nil {
			return fmt.Errorf("node kind %q has no organization payload", in.Kind)
		}
		n.Entity = in.Organization
	case interfaces.KindPerson:
		if in.Person == nil {
			return fmt.Errorf("node kind %q has no person payload", in.Kind)
		}
		n.Entity = in.Person
	default:
		return fmt.Errorf("unknown node kind %q", in.Kind)
	}
	n.Kind = in.Kind
	n.Position = in.Position
	return nil
}
