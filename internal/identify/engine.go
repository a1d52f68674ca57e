// Package identify searches a causal graph for valid adjustment sets and
// instruments and builds symbolic estimands for the effect of treatment
// on outcome. The engine runs every identification method to completion;
// a method that fails leaves its slot empty rather than aborting the rest.
package identify

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"causeway/internal/graph"
	"causeway/internal/logging"
)

// Engine orchestrates the identification attempts over an immutable
// graph snapshot.
type Engine struct {
	g             *graph.CausalGraph
	estimandType  string
	proceed       bool
	maxAdjustment int
	logger        *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithEstimandType sets the requested target estimand type. The default
// and only supported value is nonparametric-ate.
func WithEstimandType(t string) Option {
	return func(e *Engine) { e.estimandType = t }
}

// ProceedWhenUnidentifiable lets the backdoor search continue over
// observed adjustment sets even when unobserved confounders are present.
func ProceedWhenUnidentifiable() Option {
	return func(e *Engine) { e.proceed = true }
}

// WithMaxAdjustmentSize bounds the backdoor subset search. Zero means
// every eligible candidate may be used.
func WithMaxAdjustmentSize(n int) Option {
	return func(e *Engine) { e.maxAdjustment = n }
}

// WithLogger overrides the component logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// New creates an identification engine for the graph.
func New(g *graph.CausalGraph, opts ...Option) *Engine {
	e := &Engine{
		g:            g,
		estimandType: EstimandNonparametricATE,
		logger:       logging.New("identify"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// IdentifyEffect runs backdoor, instrumental-variable and front-door
// identification and returns the populated estimand map. Backdoor and IV
// have no data dependency and run concurrently; front-door is attempted
// only when backdoor fails. Identification failure is a normal outcome
// reported through the result, never through the error.
func (e *Engine) IdentifyEffect(ctx context.Context) (*IdentifiedEstimand, error) {
	if e.estimandType != EstimandNonparametricATE {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedEstimandType, e.estimandType)
	}

	treatments := e.g.Treatments()
	outcomes := e.g.Outcomes()
	result := newIdentifiedEstimand(treatments, outcomes, e.estimandType)

	var (
		backdoor, iv, frontdoor *Estimand
		backdoorNotes, ivNotes  []string
		frontdoorNotes          []string
	)

	eg, _ := errgroup.WithContext(ctx)
	eg.Go(func() error {
		var err error
		backdoor, backdoorNotes, err = e.backdoorSearch(treatments, outcomes)
		return err
	})
	eg.Go(func() error {
		var err error
		iv, ivNotes, err = e.instrumentalCheck(treatments, outcomes)
		return err
	})
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	if backdoor == nil {
		var err error
		frontdoor, frontdoorNotes, err = e.frontdoorSearch(treatments, outcomes)
		if err != nil {
			return nil, err
		}
	} else {
		frontdoorNotes = []string{"front-door not attempted: backdoor identification succeeded"}
	}

	result.estimands[MethodBackdoor] = backdoor
	result.estimands[MethodIV] = iv
	result.estimands[MethodFrontdoor] = frontdoor
	result.notes = append(result.notes, backdoorNotes...)
	result.notes = append(result.notes, ivNotes...)
	result.notes = append(result.notes, frontdoorNotes...)

	if !result.Identified() {
		e.logger.Warn("effect not identified by any method",
			"treatments", treatments, "outcomes", outcomes)
		result.notes = append(result.notes, "effect not identified by any method")
	} else {
		e.logger.Info("identification complete",
			"backdoor", backdoor != nil, "iv", iv != nil, "frontdoor", frontdoor != nil)
	}
	return result, nil
}
