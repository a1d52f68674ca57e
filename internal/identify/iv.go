package identify

import (
	"fmt"

	"causeway/internal/graph"
)

// instrumentalCheck validates instrument candidates against the three IV
// conditions: relevance (ancestor of treatment), exclusion (no directed
// edge into outcome and no treatment-avoiding path to outcome), and
// exogeneity (no latent confounder shared with outcome). The estimand is
// populated when at least one candidate passes.
func (e *Engine) instrumentalCheck(treatments, outcomes []string) (*Estimand, []string, error) {
	valid, err := e.g.Instruments(treatments, outcomes)
	if err != nil {
		return nil, nil, err
	}

	notes := e.rejectedInstrumentNotes(treatments, outcomes, valid)

	if len(valid) == 0 {
		notes = append(notes, "iv: no valid instrument for treatment")
		return nil, notes, nil
	}

	e.logger.Debug("instruments validated", "instruments", valid)
	return &Estimand{
		Method:        MethodIV,
		Expression:    ivExpression(treatments, outcomes, valid),
		InstrumentSet: valid,
	}, notes, nil
}

// rejectedInstrumentNotes explains why each declared instrument failed
// validation, so the analyst sees which assumption broke.
func (e *Engine) rejectedInstrumentNotes(treatments, outcomes, valid []string) []string {
	passed := make(map[string]bool, len(valid))
	for _, w := range valid {
		passed[w] = true
	}
	var notes []string
	for _, name := range e.g.Nodes() {
		v, _ := e.g.Var(name)
		if !v.HasRole(graph.RoleInstrument) || passed[name] {
			continue
		}
		notes = append(notes, fmt.Sprintf("iv: declared instrument %q rejected: %s",
			name, e.instrumentRejection(name, treatments, outcomes)))
	}
	return notes
}

func (e *Engine) instrumentRejection(name string, treatments, outcomes []string) string {
	for _, o := range outcomes {
		if e.g.HasEdge(name, o) {
			return fmt.Sprintf("direct edge into outcome %q violates exclusion", o)
		}
	}
	if e.g.DirectedReachable([]string{name}, outcomes, treatments) {
		return "reaches outcome through a path avoiding treatment"
	}
	for _, be := range e.g.Bidirected() {
		for _, o := range outcomes {
			if (be.A == name && be.B == o) || (be.B == name && be.A == o) {
				return "shares an unobserved confounder with outcome"
			}
		}
	}
	if !e.g.Observed(name) {
		return "instrument is unobserved"
	}
	return "not an ancestor of treatment (irrelevant)"
}
