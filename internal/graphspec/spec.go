// Package graphspec parses textual causal graph descriptions (YAML or
// JSON) into the edge/role structure the model consumes. The grammar is
// deliberately flat: nodes, directed edges, bidirected pairs, declared
// role sets and flags. No DOT parsing lives here.
package graphspec

import (
	"fmt"

	"causeway/internal/graph"
	"causeway/internal/model"
)

// NodeSpec declares a node with optional observability.
type NodeSpec struct {
	Name       string `json:"name" yaml:"name"`
	Unobserved bool   `json:"unobserved,omitempty" yaml:"unobserved,omitempty"`
}

// EdgeSpec is a directed edge from → to. The same shape declares a
// bidirected (latent confounding) pair.
type EdgeSpec struct {
	From string `json:"from" yaml:"from"`
	To   string `json:"to" yaml:"to"`
}

// Spec is a parsed graph description.
type Spec struct {
	Treatment []string `json:"treatment" yaml:"treatment"`
	Outcome   []string `json:"outcome" yaml:"outcome"`

	Nodes      []NodeSpec `json:"nodes,omitempty" yaml:"nodes,omitempty"`
	Edges      []EdgeSpec `json:"edges,omitempty" yaml:"edges,omitempty"`
	Bidirected []EdgeSpec `json:"bidirected,omitempty" yaml:"bidirected,omitempty"`

	CommonCauses    []string `json:"common_causes,omitempty" yaml:"common_causes,omitempty"`
	Instruments     []string `json:"instruments,omitempty" yaml:"instruments,omitempty"`
	EffectModifiers []string `json:"effect_modifiers,omitempty" yaml:"effect_modifiers,omitempty"`

	Observed                  []string `json:"observed,omitempty" yaml:"observed,omitempty"`
	MissingNodesAsConfounders bool     `json:"missing_nodes_as_confounders,omitempty" yaml:"missing_nodes_as_confounders,omitempty"`
}

// Validate checks the parts the parser can check without building the
// graph: required names and well-formed edges.
func (s *Spec) Validate() error {
	if len(s.Treatment) == 0 {
		return fmt.Errorf("graphspec: treatment required")
	}
	if len(s.Outcome) == 0 {
		return fmt.Errorf("graphspec: outcome required")
	}
	for _, e := range s.Edges {
		if e.From == "" || e.To == "" {
			return fmt.Errorf("graphspec: edge requires from and to")
		}
	}
	for _, p := range s.Bidirected {
		if p.From == "" || p.To == "" {
			return fmt.Errorf("graphspec: bidirected pair requires from and to")
		}
	}
	return nil
}

// ModelOptions maps the spec onto model construction options.
func (s *Spec) ModelOptions() []model.Option {
	var opts []model.Option

	if len(s.Edges) > 0 {
		edges := make([]graph.Edge, len(s.Edges))
		for i, e := range s.Edges {
			edges[i] = graph.Edge{From: e.From, To: e.To}
		}
		opts = append(opts, model.WithEdges(edges...))
	}
	if len(s.Bidirected) > 0 {
		pairs := make([]graph.BidirectedEdge, len(s.Bidirected))
		for i, p := range s.Bidirected {
			pairs[i] = graph.BidirectedEdge{A: p.From, B: p.To}
		}
		opts = append(opts, model.WithBidirected(pairs...))
	}
	if len(s.CommonCauses) > 0 {
		opts = append(opts, model.WithCommonCauses(s.CommonCauses...))
	}
	if len(s.Instruments) > 0 {
		opts = append(opts, model.WithInstruments(s.Instruments...))
	}
	if len(s.EffectModifiers) > 0 {
		opts = append(opts, model.WithEffectModifiers(s.EffectModifiers...))
	}

	var unobserved []string
	for _, n := range s.Nodes {
		if n.Unobserved {
			unobserved = append(unobserved, n.Name)
		}
	}
	if len(unobserved) > 0 {
		opts = append(opts, model.WithUnobserved(unobserved...))
	}

	if len(s.Observed) > 0 {
		opts = append(opts, model.WithObservedColumns(s.Observed...))
	}
	if s.MissingNodesAsConfounders {
		opts = append(opts, model.MissingNodesAsConfounders())
	}
	return opts
}

// Model builds a causal model from the spec.
func (s *Spec) Model(extra ...model.Option) (*model.Model, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return model.New(s.Treatment, s.Outcome, append(s.ModelOptions(), extra...)...)
}
