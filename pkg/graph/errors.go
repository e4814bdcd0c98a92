package graph

import "errors"

// Assembly errors. These indicate data-integrity bugs upstream and are
// fail-fast: assembly stops at the first violation.
var (
	// ErrDuplicateID indicates an id appears twice across the union of
	// organizations and people
	ErrDuplicateID = errors.New("duplicate id")

	// ErrUnknownSourceNode indicates a relationship references a source id
	// absent from both entity lists
	ErrUnknownSourceNode = errors.New("unknown source node")

	// ErrUnknownTargetNode indicates a relationship references a target id
	// absent from both entity lists
	ErrUnknownTargetNode = errors.New("unknown target node")
)
