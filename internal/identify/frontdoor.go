package identify

import (
	"causeway/internal/dsep"
)

// frontdoorSearch looks for a single observed mediator M such that M
// intercepts every directed treatment → outcome path, treatment → M has
// no unblocked backdoor path, and every backdoor path from M to outcome
// is blocked by treatment. Attempted only when backdoor identification
// failed; multi-node mediator sets are not searched.
func (e *Engine) frontdoorSearch(treatments, outcomes []string) (*Estimand, []string, error) {
	skip := make(map[string]bool, len(treatments)+len(outcomes))
	for _, t := range treatments {
		skip[t] = true
	}
	for _, o := range outcomes {
		skip[o] = true
	}

	for _, m := range e.g.Nodes() {
		if skip[m] || !e.g.Observed(m) {
			continue
		}
		// M must lie on a causal chain from treatment to outcome.
		if !e.g.DirectedReachable(treatments, []string{m}, nil) {
			continue
		}
		if !e.g.DirectedReachable([]string{m}, outcomes, nil) {
			continue
		}
		// Full mediation: removing M must disconnect treatment from outcome.
		if e.g.DirectedReachable(treatments, outcomes, []string{m}) {
			continue
		}
		// No unblocked backdoor path from treatment into M.
		sep, err := dsep.Separated(e.g.WithoutEdgesFrom(treatments...), treatments, []string{m}, nil)
		if err != nil {
			return nil, nil, err
		}
		if !sep {
			continue
		}
		// Backdoor paths from M to outcome are blocked by treatment.
		sep, err = dsep.Separated(e.g.WithoutEdgesFrom(m), []string{m}, outcomes, treatments)
		if err != nil {
			return nil, nil, err
		}
		if !sep {
			continue
		}

		e.logger.Debug("front-door mediator found", "mediator", m)
		return &Estimand{
			Method:      MethodFrontdoor,
			Expression:  frontdoorExpression(treatments, outcomes, []string{m}),
			MediatorSet: []string{m},
		}, nil, nil
	}

	return nil, []string{"frontdoor: no fully mediating observed variable found"}, nil
}
