package graph

import "errors"

// Structural errors. All are detected eagerly during construction or on
// the first query that references a node; a graph that constructs without
// error is safe for every query.
var (
	// ErrUnknownNode is returned when a treatment, outcome, role set, or
	// query references a node name absent from the graph.
	ErrUnknownNode = errors.New("graph: unknown node")

	// ErrSelfLoop is returned for an edge (directed or bidirected) from a
	// node to itself.
	ErrSelfLoop = errors.New("graph: self-loop edge")

	// ErrCycle is returned when the directed subgraph contains a cycle.
	// Feedback models are outside scope.
	ErrCycle = errors.New("graph: cycle in directed subgraph")

	// ErrRoleConflict is returned when a variable is assigned incompatible
	// roles, e.g. both treatment and outcome.
	ErrRoleConflict = errors.New("graph: conflicting variable roles")
)
