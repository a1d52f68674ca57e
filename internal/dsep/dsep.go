// Package dsep decides d-separation over a causal graph's combined
// directed and bidirected edge set.
//
// The oracle never enumerates paths. It works on the ancestral moral
// graph: bidirected edges are replaced by synthetic latent parents, the
// graph is restricted to ancestors of the query sets, parents of a common
// child are married, directions are dropped, the conditioning set is
// deleted, and separation reduces to plain reachability. Collider
// semantics (a conditioned collider, or one with a conditioned
// descendant, opens a path) fall out of the construction: a collider
// outside the ancestral closure of the query sets is pruned away together
// with its opening effect.
package dsep

import (
	"fmt"

	"causeway/internal/graph"
)

// Separated reports whether every path between x and y is blocked given
// the conditioning set. Nodes shared between x and y are trivially
// connected. All named nodes must exist in the graph.
func Separated(g *graph.CausalGraph, x, y, conditioning []string) (bool, error) {
	known := make(map[string]bool)
	for _, name := range g.Nodes() {
		known[name] = true
	}
	for _, set := range [][]string{x, y, conditioning} {
		for _, name := range set {
			if !known[name] {
				return false, fmt.Errorf("%w: %q", graph.ErrUnknownNode, name)
			}
		}
	}
	for _, a := range x {
		for _, b := range y {
			if a == b {
				return false, nil
			}
		}
	}

	parents := latentParents(g)

	keep := ancestralClosure(parents, x, y, conditioning)
	moral := moralize(parents, keep)

	blocked := make(map[string]bool, len(conditioning))
	for _, z := range conditioning {
		blocked[z] = true
	}
	return !reachable(moral, x, y, blocked), nil
}

// latentParents builds the parent map of the augmented graph in which
// each bidirected edge a <-> b becomes a synthetic unobserved parent of
// both endpoints.
func latentParents(g *graph.CausalGraph) map[string][]string {
	parents := make(map[string][]string)
	for _, name := range g.Nodes() {
		parents[name] = g.Parents(name)
	}
	for i, e := range g.Bidirected() {
		latent := fmt.Sprintf("_latent%d", i)
		parents[latent] = nil
		parents[e.A] = append(parents[e.A], latent)
		parents[e.B] = append(parents[e.B], latent)
	}
	return parents
}

// ancestralClosure returns the union of the seed sets and all their
// ancestors in the augmented graph.
func ancestralClosure(parents map[string][]string, seeds ...[]string) map[string]bool {
	keep := make(map[string]bool)
	var stack []string
	for _, set := range seeds {
		stack = append(stack, set...)
	}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if keep[n] {
			continue
		}
		keep[n] = true
		stack = append(stack, parents[n]...)
	}
	return keep
}

// moralize builds the undirected adjacency of the pruned moral graph:
// each kept node is linked to its kept parents, and parents of a common
// kept child are married pairwise.
func moralize(parents map[string][]string, keep map[string]bool) map[string]map[string]bool {
	adj := make(map[string]map[string]bool, len(keep))
	link := func(a, b string) {
		if adj[a] == nil {
			adj[a] = make(map[string]bool)
		}
		if adj[b] == nil {
			adj[b] = make(map[string]bool)
		}
		adj[a][b] = true
		adj[b][a] = true
	}
	for child := range keep {
		ps := parents[child]
		for i, p := range ps {
			if !keep[p] {
				continue
			}
			link(p, child)
			for _, q := range ps[i+1:] {
				if keep[q] {
					link(p, q)
				}
			}
		}
	}
	return adj
}

// reachable walks the moral graph from x, refusing to enter blocked
// nodes, and reports whether any node of y is reached.
func reachable(adj map[string]map[string]bool, x, y []string, blocked map[string]bool) bool {
	target := make(map[string]bool, len(y))
	for _, t := range y {
		target[t] = true
	}
	seen := make(map[string]bool)
	var stack []string
	for _, s := range x {
		if !blocked[s] {
			stack = append(stack, s)
		}
	}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if seen[n] {
			continue
		}
		seen[n] = true
		for next := range adj[n] {
			if target[next] {
				return true
			}
			if !blocked[next] && !seen[next] {
				stack = append(stack, next)
			}
		}
	}
	return false
}
