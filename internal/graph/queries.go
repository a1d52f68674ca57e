package graph

import "fmt"

// Role queries. All are pure functions over the graph snapshot: when an
// explicit graph was supplied the roles below are derived from structure,
// never read back from the declared tags, so they cannot drift.

// CommonCauses returns, in insertion order, every node that is an ancestor
// of at least one treatment and at least one outcome, excluding treatments
// and outcomes themselves and any descendant of a treatment (mediators
// must not be selected as confounders). Outcome ancestry is computed with
// treatment's outgoing edges removed, so causes that reach the outcome
// only through treatment (e.g. instruments) do not count. Unobserved
// nodes are included; callers filter with Observed when building
// adjustment sets.
func (g *CausalGraph) CommonCauses(treatments, outcomes []string) ([]string, error) {
	if err := g.checkKnown(treatments, outcomes); err != nil {
		return nil, err
	}
	ancT := g.ancestorSet(treatments)
	ancO := g.WithoutEdgesFrom(treatments...).ancestorSet(outcomes)
	descT := g.descendantSet(treatments)
	excluded := g.endpointSet(treatments, outcomes)

	var out []string
	for _, name := range g.order {
		if excluded[name] || descT[name] {
			continue
		}
		if ancT[name] && ancO[name] {
			out = append(out, name)
		}
	}
	return out, nil
}

// Instruments returns, in insertion order, the observed nodes that are
// ancestors of a treatment, have no directed edge into any outcome, reach
// no outcome except through a treatment, and share no latent confounder
// with an outcome.
func (g *CausalGraph) Instruments(treatments, outcomes []string) ([]string, error) {
	if err := g.checkKnown(treatments, outcomes); err != nil {
		return nil, err
	}
	ancT := g.ancestorSet(treatments)
	excluded := g.endpointSet(treatments, outcomes)

	var out []string
	for _, name := range g.order {
		if excluded[name] || !ancT[name] || !g.Observed(name) {
			continue
		}
		if g.edgeIntoAny(name, outcomes) {
			continue
		}
		if g.DirectedReachable([]string{name}, outcomes, treatments) {
			continue
		}
		if g.latentWithAny(name, outcomes) {
			continue
		}
		out = append(out, name)
	}
	return out, nil
}

// EffectModifiers returns, in insertion order, the observed non-ancestors
// of treatment that are ancestors of an outcome, excluding treatment
// descendants (those are mediators), merged with the declared modifiers.
func (g *CausalGraph) EffectModifiers(treatments, outcomes []string) ([]string, error) {
	if err := g.checkKnown(treatments, outcomes); err != nil {
		return nil, err
	}
	ancT := g.ancestorSet(treatments)
	ancO := g.ancestorSet(outcomes)
	descT := g.descendantSet(treatments)
	excluded := g.endpointSet(treatments, outcomes)

	declared := make(map[string]bool, len(g.declaredModifiers))
	for _, m := range g.declaredModifiers {
		declared[m] = true
	}

	var out []string
	for _, name := range g.order {
		if excluded[name] {
			continue
		}
		if declared[name] {
			out = append(out, name)
			continue
		}
		if !g.Observed(name) || ancT[name] || descT[name] {
			continue
		}
		if ancO[name] {
			out = append(out, name)
		}
	}
	return out, nil
}

// UnobservedConfounders returns descriptors for every source of latent
// confounding between the treatment and outcome sets: unobserved nodes
// that are common causes, and bidirected edges linking the treatment side
// to the outcome side. An empty result means backdoor adjustment over
// observed variables is at least conceivable.
func (g *CausalGraph) UnobservedConfounders(treatments, outcomes []string) ([]string, error) {
	if err := g.checkKnown(treatments, outcomes); err != nil {
		return nil, err
	}
	common, err := g.CommonCauses(treatments, outcomes)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, name := range common {
		if !g.Observed(name) {
			out = append(out, name)
		}
	}

	// A bidirected edge confounds the pair when one endpoint influences a
	// treatment (or is one) and the other influences an outcome (or is
	// one) through a route that does not pass through treatment.
	tSide := g.ancestorSet(treatments)
	for _, t := range treatments {
		tSide[t] = true
	}
	oSide := g.WithoutEdgesFrom(treatments...).ancestorSet(outcomes)
	for _, o := range outcomes {
		oSide[o] = true
	}
	for _, e := range g.bidirected {
		if (tSide[e.A] && oSide[e.B]) || (tSide[e.B] && oSide[e.A]) {
			out = append(out, e.A+" <-> "+e.B)
		}
	}
	return out, nil
}

func (g *CausalGraph) checkKnown(sets ...[]string) error {
	for _, set := range sets {
		for _, name := range set {
			if _, ok := g.vars[name]; !ok {
				return fmt.Errorf("%w: %q", ErrUnknownNode, name)
			}
		}
	}
	return nil
}

func (g *CausalGraph) endpointSet(treatments, outcomes []string) map[string]bool {
	set := make(map[string]bool, len(treatments)+len(outcomes))
	for _, t := range treatments {
		set[t] = true
	}
	for _, o := range outcomes {
		set[o] = true
	}
	return set
}

func (g *CausalGraph) edgeIntoAny(from string, targets []string) bool {
	for _, t := range targets {
		if g.HasEdge(from, t) {
			return true
		}
	}
	return false
}

func (g *CausalGraph) latentWithAny(name string, targets []string) bool {
	for _, e := range g.bidirected {
		for _, t := range targets {
			if (e.A == name && e.B == t) || (e.B == name && e.A == t) {
				return true
			}
		}
	}
	return false
}
