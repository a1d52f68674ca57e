package graph

import (
	"fmt"
)

// Edge is a directed causal edge From → To.
type Edge struct {
	From string
	To   string
}

// BidirectedEdge denotes latent confounding between A and B: an unobserved
// common cause of both endpoints that is not itself a node in the graph.
type BidirectedEdge struct {
	A string
	B string
}

// CausalGraph is an immutable directed graph over Variables plus a set of
// bidirected edges. Node insertion order is retained and every accessor
// that returns a node list follows it, so downstream searches are
// deterministic. Structural changes require building a new graph.
type CausalGraph struct {
	treatments []string
	outcomes   []string

	order    []string
	vars     map[string]*Variable
	parents  map[string][]string
	children map[string][]string

	bidirected []BidirectedEdge

	declaredModifiers []string
}

type builder struct {
	edges             []Edge
	bidirected        []BidirectedEdge
	commonCauses      []string
	instruments       []string
	effectModifiers   []string
	unobserved        []string
	observedColumns   []string
	missingConfounder bool
}

// Option configures graph construction.
type Option func(*builder)

// WithEdges supplies an explicit directed edge list. When any edges (or
// bidirected edges) are given, the graph is in explicit mode: common-cause
// and instrument roles are derived from structure, not accepted as input.
func WithEdges(edges ...Edge) Option {
	return func(b *builder) { b.edges = append(b.edges, edges...) }
}

// WithBidirected declares latent confounding between node pairs.
func WithBidirected(pairs ...BidirectedEdge) Option {
	return func(b *builder) { b.bidirected = append(b.bidirected, pairs...) }
}

// WithCommonCauses declares common causes of treatment and outcome. In
// role-set mode each gains an edge into every treatment and every outcome.
func WithCommonCauses(names ...string) Option {
	return func(b *builder) { b.commonCauses = append(b.commonCauses, names...) }
}

// WithInstruments declares instruments. In role-set mode each gains an
// edge into every treatment and no edge into any outcome.
func WithInstruments(names ...string) Option {
	return func(b *builder) { b.instruments = append(b.instruments, names...) }
}

// WithEffectModifiers declares effect modifiers. These pass through to the
// effect-modifier query even in explicit mode.
func WithEffectModifiers(names ...string) Option {
	return func(b *builder) { b.effectModifiers = append(b.effectModifiers, names...) }
}

// WithUnobserved marks existing nodes as unobserved confound candidates.
func WithUnobserved(names ...string) Option {
	return func(b *builder) { b.unobserved = append(b.unobserved, names...) }
}

// WithObservedColumns supplies the dataset column names. Nodes absent from
// the columns are marked unobserved (treatments and outcomes excepted).
func WithObservedColumns(cols ...string) Option {
	return func(b *builder) { b.observedColumns = append(b.observedColumns, cols...) }
}

// MissingNodesAsConfounders adds every observed column absent from the
// graph as a common cause of all treatments and outcomes. Conservative
// default for columns the analyst measured but did not model.
func MissingNodesAsConfounders() Option {
	return func(b *builder) { b.missingConfounder = true }
}

// New builds a CausalGraph for the given treatment and outcome names.
// Construction is either explicit (WithEdges/WithBidirected) or role-set
// (WithCommonCauses/WithInstruments/WithEffectModifiers), in which case
// direct edges are synthesized: common cause → treatment and outcome,
// instrument → treatment, effect modifier → outcome, treatment → outcome.
func New(treatments, outcomes []string, opts ...Option) (*CausalGraph, error) {
	if len(treatments) == 0 || len(outcomes) == 0 {
		return nil, fmt.Errorf("graph: at least one treatment and one outcome required")
	}

	var b builder
	for _, opt := range opts {
		opt(&b)
	}

	g := &CausalGraph{
		treatments: append([]string(nil), treatments...),
		outcomes:   append([]string(nil), outcomes...),
		vars:       make(map[string]*Variable),
		parents:    make(map[string][]string),
		children:   make(map[string][]string),
	}

	for _, t := range treatments {
		for _, o := range outcomes {
			if t == o {
				return nil, fmt.Errorf("%w: %q is both treatment and outcome", ErrRoleConflict, t)
			}
		}
	}

	explicit := len(b.edges) > 0 || len(b.bidirected) > 0
	if explicit {
		if err := g.buildExplicit(&b); err != nil {
			return nil, err
		}
	} else {
		if err := g.buildFromRoles(&b); err != nil {
			return nil, err
		}
	}

	for _, name := range b.unobserved {
		v, ok := g.vars[name]
		if !ok {
			return nil, fmt.Errorf("%w: unobserved %q", ErrUnknownNode, name)
		}
		v.Observed = false
		v.addRole(RoleUnobservedConfounder)
	}

	if len(b.observedColumns) > 0 {
		g.applyObservedColumns(&b)
	}
	if b.missingConfounder {
		g.addMissingConfounders(&b)
	}

	for _, name := range b.effectModifiers {
		v, ok := g.vars[name]
		if !ok {
			return nil, fmt.Errorf("%w: effect modifier %q", ErrUnknownNode, name)
		}
		v.addRole(RoleEffectModifier)
		g.declaredModifiers = append(g.declaredModifiers, name)
	}

	if err := g.checkAcyclic(); err != nil {
		return nil, err
	}
	return g, nil
}

func (g *CausalGraph) buildExplicit(b *builder) error {
	// Treatments and outcomes must be mentioned by the supplied structure.
	mentioned := make(map[string]bool)
	for _, e := range b.edges {
		mentioned[e.From] = true
		mentioned[e.To] = true
	}
	for _, p := range b.bidirected {
		mentioned[p.A] = true
		mentioned[p.B] = true
	}
	for _, t := range g.treatments {
		if !mentioned[t] {
			return fmt.Errorf("%w: treatment %q not in supplied graph", ErrUnknownNode, t)
		}
	}
	for _, o := range g.outcomes {
		if !mentioned[o] {
			return fmt.Errorf("%w: outcome %q not in supplied graph", ErrUnknownNode, o)
		}
	}

	for _, t := range g.treatments {
		g.ensureNode(t, RoleTreatment)
	}
	for _, o := range g.outcomes {
		g.ensureNode(o, RoleOutcome)
	}
	for _, e := range b.edges {
		if err := g.addEdge(e.From, e.To); err != nil {
			return err
		}
	}
	for _, p := range b.bidirected {
		if p.A == p.B {
			return fmt.Errorf("%w: bidirected %q", ErrSelfLoop, p.A)
		}
		g.ensureNode(p.A, RoleObservedOther)
		g.ensureNode(p.B, RoleObservedOther)
		g.bidirected = append(g.bidirected, p)
	}
	return nil
}

func (g *CausalGraph) buildFromRoles(b *builder) error {
	for _, t := range g.treatments {
		g.ensureNode(t, RoleTreatment)
	}
	for _, o := range g.outcomes {
		g.ensureNode(o, RoleOutcome)
	}
	for _, cc := range b.commonCauses {
		g.ensureNode(cc, RoleCommonCause)
		for _, t := range g.treatments {
			if err := g.addEdge(cc, t); err != nil {
				return err
			}
		}
		for _, o := range g.outcomes {
			if err := g.addEdge(cc, o); err != nil {
				return err
			}
		}
	}
	for _, iv := range b.instruments {
		g.ensureNode(iv, RoleInstrument)
		for _, t := range g.treatments {
			if err := g.addEdge(iv, t); err != nil {
				return err
			}
		}
	}
	for _, em := range b.effectModifiers {
		g.ensureNode(em, RoleEffectModifier)
		for _, o := range g.outcomes {
			if err := g.addEdge(em, o); err != nil {
				return err
			}
		}
	}
	for _, t := range g.treatments {
		for _, o := range g.outcomes {
			if err := g.addEdge(t, o); err != nil {
				return err
			}
		}
	}
	return nil
}

func (g *CausalGraph) applyObservedColumns(b *builder) {
	inColumns := make(map[string]bool, len(b.observedColumns))
	for _, c := range b.observedColumns {
		inColumns[c] = true
	}
	for _, name := range g.order {
		v := g.vars[name]
		if v.HasRole(RoleTreatment) || v.HasRole(RoleOutcome) {
			continue
		}
		if v.HasRole(RoleUnobservedConfounder) {
			continue
		}
		v.Observed = inColumns[name]
	}
}

func (g *CausalGraph) addMissingConfounders(b *builder) {
	for _, col := range b.observedColumns {
		if _, ok := g.vars[col]; ok {
			continue
		}
		g.ensureNode(col, RoleCommonCause)
		for _, t := range g.treatments {
			g.addEdge(col, t) //nolint:errcheck // fresh node, no self-loop possible
		}
		for _, o := range g.outcomes {
			g.addEdge(col, o) //nolint:errcheck
		}
	}
}

func (g *CausalGraph) ensureNode(name string, role Role) *Variable {
	v, ok := g.vars[name]
	if !ok {
		v = &Variable{Name: name, Observed: true}
		g.vars[name] = v
		g.order = append(g.order, name)
	}
	v.addRole(role)
	return v
}

func (g *CausalGraph) addEdge(from, to string) error {
	if from == to {
		return fmt.Errorf("%w: %q", ErrSelfLoop, from)
	}
	g.ensureNode(from, RoleObservedOther)
	g.ensureNode(to, RoleObservedOther)
	for _, c := range g.children[from] {
		if c == to {
			return nil // duplicate edge, keep first
		}
	}
	g.children[from] = append(g.children[from], to)
	g.parents[to] = append(g.parents[to], from)
	return nil
}

// checkAcyclic runs Kahn's algorithm over the directed subgraph.
func (g *CausalGraph) checkAcyclic() error {
	indegree := make(map[string]int, len(g.order))
	for _, name := range g.order {
		indegree[name] = len(g.parents[name])
	}
	var queue []string
	for _, name := range g.order {
		if indegree[name] == 0 {
			queue = append(queue, name)
		}
	}
	seen := 0
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		seen++
		for _, c := range g.children[n] {
			indegree[c]--
			if indegree[c] == 0 {
				queue = append(queue, c)
			}
		}
	}
	if seen != len(g.order) {
		return ErrCycle
	}
	return nil
}

// --- accessors ---

// Treatments returns the treatment node names in declaration order.
func (g *CausalGraph) Treatments() []string { return append([]string(nil), g.treatments...) }

// Outcomes returns the outcome node names in declaration order.
func (g *CausalGraph) Outcomes() []string { return append([]string(nil), g.outcomes...) }

// Nodes returns all node names in insertion order.
func (g *CausalGraph) Nodes() []string { return append([]string(nil), g.order...) }

// Var returns the variable for name, if present.
func (g *CausalGraph) Var(name string) (*Variable, bool) {
	v, ok := g.vars[name]
	return v, ok
}

// Observed reports whether the named node is observed. Unknown nodes are
// not observed.
func (g *CausalGraph) Observed(name string) bool {
	v, ok := g.vars[name]
	return ok && v.Observed
}

// Parents returns the direct causes of name, in edge insertion order.
func (g *CausalGraph) Parents(name string) []string {
	return append([]string(nil), g.parents[name]...)
}

// Children returns the direct effects of name, in edge insertion order.
func (g *CausalGraph) Children(name string) []string {
	return append([]string(nil), g.children[name]...)
}

// HasEdge reports whether the directed edge from → to exists.
func (g *CausalGraph) HasEdge(from, to string) bool {
	for _, c := range g.children[from] {
		if c == to {
			return true
		}
	}
	return false
}

// Bidirected returns the latent-confounding edges.
func (g *CausalGraph) Bidirected() []BidirectedEdge {
	return append([]BidirectedEdge(nil), g.bidirected...)
}

// --- traversal ---

// Ancestors returns the strict ancestors of node in insertion order.
func (g *CausalGraph) Ancestors(node string) ([]string, error) {
	if _, ok := g.vars[node]; !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownNode, node)
	}
	return g.inOrder(g.ancestorSet([]string{node})), nil
}

// Descendants returns the strict descendants of node in insertion order.
func (g *CausalGraph) Descendants(node string) ([]string, error) {
	if _, ok := g.vars[node]; !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownNode, node)
	}
	return g.inOrder(g.descendantSet([]string{node})), nil
}

// ancestorSet returns the union of strict ancestors of the seeds.
func (g *CausalGraph) ancestorSet(seeds []string) map[string]bool {
	return g.closure(seeds, g.parents)
}

// descendantSet returns the union of strict descendants of the seeds.
func (g *CausalGraph) descendantSet(seeds []string) map[string]bool {
	return g.closure(seeds, g.children)
}

func (g *CausalGraph) closure(seeds []string, adj map[string][]string) map[string]bool {
	out := make(map[string]bool)
	stack := make([]string, 0, len(seeds))
	for _, s := range seeds {
		stack = append(stack, adj[s]...)
	}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if out[n] {
			continue
		}
		out[n] = true
		stack = append(stack, adj[n]...)
	}
	return out
}

func (g *CausalGraph) inOrder(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for _, name := range g.order {
		if set[name] {
			out = append(out, name)
		}
	}
	return out
}

// DirectedReachable reports whether any node in from reaches any node in
// to via directed edges without passing through a node in avoiding. The
// endpoints themselves are not subject to avoidance.
func (g *CausalGraph) DirectedReachable(from, to, avoiding []string) bool {
	avoid := make(map[string]bool, len(avoiding))
	for _, a := range avoiding {
		avoid[a] = true
	}
	target := make(map[string]bool, len(to))
	for _, t := range to {
		target[t] = true
	}
	seen := make(map[string]bool)
	stack := append([]string(nil), from...)
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, c := range g.children[n] {
			if target[c] {
				return true
			}
			if avoid[c] || seen[c] {
				continue
			}
			seen[c] = true
			stack = append(stack, c)
		}
	}
	return false
}

// WithoutEdgesFrom returns a copy of the graph with every outgoing
// directed edge of the given nodes removed. Bidirected edges are kept.
// This is the graph surgery behind the backdoor and front-door tests.
func (g *CausalGraph) WithoutEdgesFrom(names ...string) *CausalGraph {
	cut := make(map[string]bool, len(names))
	for _, n := range names {
		cut[n] = true
	}
	clone := &CausalGraph{
		treatments:        append([]string(nil), g.treatments...),
		outcomes:          append([]string(nil), g.outcomes...),
		order:             append([]string(nil), g.order...),
		vars:              g.vars,
		parents:           make(map[string][]string, len(g.parents)),
		children:          make(map[string][]string, len(g.children)),
		bidirected:        g.bidirected,
		declaredModifiers: g.declaredModifiers,
	}
	for _, name := range clone.order {
		if !cut[name] {
			clone.children[name] = g.children[name]
		}
		var kept []string
		for _, p := range g.parents[name] {
			if !cut[p] {
				kept = append(kept, p)
			}
		}
		clone.parents[name] = kept
	}
	return clone
}
