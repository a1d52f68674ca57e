// Package model holds the causal model state: treatment and outcome
// names, the causal graph built from explicit structure or declared role
// sets, and the flags steering identification. It is the surface the
// orchestration layer talks to; the graph-theoretic work lives in
// internal/graph, internal/dsep and internal/identify.
package model

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"causeway/internal/graph"
	"causeway/internal/identify"
	"causeway/internal/logging"
)

// ErrAssumptionsRequired is returned when neither a graph nor any
// common-cause/instrument declaration was supplied and the confirmation
// gate did not approve proceeding without causal assumptions.
var ErrAssumptionsRequired = errors.New("model: causal assumptions required")

// ConfirmFunc answers a yes/no question on behalf of the analyst. The
// model never performs terminal I/O itself; interactive callers inject a
// prompt, non-interactive callers leave it nil (treated as "no").
type ConfirmFunc func(prompt string) bool

// Model is the causal model: an immutable graph plus identification
// settings. Build one with New; rebuild it for any structural change.
type Model struct {
	treatments []string
	outcomes   []string
	g          *graph.CausalGraph

	estimandType  string
	proceed       bool
	maxAdjustment int
	logger        *slog.Logger
}

type config struct {
	graphOpts  []graph.Option
	structural bool // any edges, bidirected pairs, common causes or instruments declared

	confirm       ConfirmFunc
	estimandType  string
	proceed       bool
	maxAdjustment int
	logger        *slog.Logger
}

// Option configures model construction.
type Option func(*config)

// WithEdges supplies an explicit directed edge list.
func WithEdges(edges ...graph.Edge) Option {
	return func(c *config) {
		if len(edges) > 0 {
			c.structural = true
		}
		c.graphOpts = append(c.graphOpts, graph.WithEdges(edges...))
	}
}

// WithBidirected declares latent confounding between node pairs.
func WithBidirected(pairs ...graph.BidirectedEdge) Option {
	return func(c *config) {
		if len(pairs) > 0 {
			c.structural = true
		}
		c.graphOpts = append(c.graphOpts, graph.WithBidirected(pairs...))
	}
}

// WithCommonCauses declares common causes of treatment and outcome.
func WithCommonCauses(names ...string) Option {
	return func(c *config) {
		if len(names) > 0 {
			c.structural = true
		}
		c.graphOpts = append(c.graphOpts, graph.WithCommonCauses(names...))
	}
}

// WithInstruments declares instrumental variables for the treatment.
func WithInstruments(names ...string) Option {
	return func(c *config) {
		if len(names) > 0 {
			c.structural = true
		}
		c.graphOpts = append(c.graphOpts, graph.WithInstruments(names...))
	}
}

// WithEffectModifiers declares effect modifiers.
func WithEffectModifiers(names ...string) Option {
	return func(c *config) {
		c.graphOpts = append(c.graphOpts, graph.WithEffectModifiers(names...))
	}
}

// WithUnobserved marks nodes as unobserved.
func WithUnobserved(names ...string) Option {
	return func(c *config) {
		c.graphOpts = append(c.graphOpts, graph.WithUnobserved(names...))
	}
}

// WithObservedColumns supplies the dataset column names.
func WithObservedColumns(cols ...string) Option {
	return func(c *config) {
		c.graphOpts = append(c.graphOpts, graph.WithObservedColumns(cols...))
	}
}

// MissingNodesAsConfounders treats observed columns absent from the graph
// as common causes of treatment and outcome.
func MissingNodesAsConfounders() Option {
	return func(c *config) {
		c.graphOpts = append(c.graphOpts, graph.MissingNodesAsConfounders())
	}
}

// WithConfirm injects the yes/no gate used when no causal assumptions
// were declared.
func WithConfirm(f ConfirmFunc) Option {
	return func(c *config) { c.confirm = f }
}

// WithEstimandType sets the requested target estimand type.
func WithEstimandType(t string) Option {
	return func(c *config) { c.estimandType = t }
}

// ProceedWhenUnidentifiable lets backdoor identification continue in the
// presence of unobserved confounders.
func ProceedWhenUnidentifiable() Option {
	return func(c *config) { c.proceed = true }
}

// WithMaxAdjustmentSize bounds the backdoor subset search.
func WithMaxAdjustmentSize(n int) Option {
	return func(c *config) { c.maxAdjustment = n }
}

// WithLogger overrides the component logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) { c.logger = l }
}

// New builds a Model for the treatment and outcome names. At least one of
// an explicit graph, common causes, or instruments must be declared;
// otherwise the confirmation gate must approve assuming an unconfounded
// treatment → outcome relation.
func New(treatments, outcomes []string, opts ...Option) (*Model, error) {
	cfg := config{estimandType: identify.EstimandNonparametricATE}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = logging.New("model")
	}

	if !cfg.structural {
		const prompt = "no graph, common causes or instruments declared; proceed assuming there are no common causes of treatment and outcome?"
		if cfg.confirm == nil || !cfg.confirm(prompt) {
			return nil, ErrAssumptionsRequired
		}
		cfg.logger.Warn("proceeding without declared causal assumptions",
			"treatments", treatments, "outcomes", outcomes)
	}

	g, err := graph.New(treatments, outcomes, cfg.graphOpts...)
	if err != nil {
		return nil, err
	}

	m := &Model{
		treatments:    g.Treatments(),
		outcomes:      g.Outcomes(),
		g:             g,
		estimandType:  cfg.estimandType,
		proceed:       cfg.proceed,
		maxAdjustment: cfg.maxAdjustment,
		logger:        cfg.logger,
	}
	m.logger.Info("causal model constructed",
		"treatments", m.treatments, "outcomes", m.outcomes, "nodes", len(g.Nodes()))
	return m, nil
}

// Graph returns the underlying causal graph snapshot.
func (m *Model) Graph() *graph.CausalGraph { return m.g }

// Treatments returns the treatment names.
func (m *Model) Treatments() []string { return append([]string(nil), m.treatments...) }

// Outcomes returns the outcome names.
func (m *Model) Outcomes() []string { return append([]string(nil), m.outcomes...) }

// CommonCauses returns the derived common causes for the model's
// treatment/outcome pair.
func (m *Model) CommonCauses() ([]string, error) {
	return m.g.CommonCauses(m.treatments, m.outcomes)
}

// Instruments returns the derived valid instruments.
func (m *Model) Instruments() ([]string, error) {
	return m.g.Instruments(m.treatments, m.outcomes)
}

// EffectModifiers returns the derived and declared effect modifiers.
func (m *Model) EffectModifiers() ([]string, error) {
	return m.g.EffectModifiers(m.treatments, m.outcomes)
}

// IdentifyEffect runs the identification engine over the model's graph.
func (m *Model) IdentifyEffect(ctx context.Context) (*identify.IdentifiedEstimand, error) {
	m.logger.Info("identifying causal effect",
		"treatments", m.treatments, "outcomes", m.outcomes)

	engineOpts := []identify.Option{
		identify.WithEstimandType(m.estimandType),
		identify.WithMaxAdjustmentSize(m.maxAdjustment),
	}
	if m.proceed {
		engineOpts = append(engineOpts, identify.ProceedWhenUnidentifiable())
	}
	return identify.New(m.g, engineOpts...).IdentifyEffect(ctx)
}

// EstimateEffect selects an identification method on the estimand and
// delegates to the injected Estimator. When the selected slot is empty
// the method logs a warning and returns a no-op estimate instead of
// estimating against nothing.
func (m *Model) EstimateEffect(ctx context.Context, ie *identify.IdentifiedEstimand, method identify.Method, estimator Estimator) (*Estimate, error) {
	if ie == nil {
		return nil, fmt.Errorf("model: nil identified estimand")
	}
	if estimator == nil {
		return nil, fmt.Errorf("model: nil estimator")
	}
	if _, err := identify.ParseMethod(string(method)); err != nil {
		return nil, err
	}

	est, ok := ie.Estimand(method)
	if !ok {
		m.logger.Warn("no valid identified estimand for method; skipping estimation",
			"method", method)
		return &Estimate{Method: method}, nil
	}
	if err := ie.SetIdentifierMethod(method); err != nil {
		return nil, err
	}

	return estimator.Estimate(ctx, &EstimateRequest{
		Estimand:       est,
		Treatments:     m.Treatments(),
		Outcomes:       m.Outcomes(),
		ControlValue:   0,
		TreatmentValue: 1,
	})
}

// RefuteEstimate stress-tests an estimate with the injected Refuter.
func (m *Model) RefuteEstimate(ctx context.Context, ie *identify.IdentifiedEstimand, estimate *Estimate, refuter Refuter) (*Refutation, error) {
	if refuter == nil {
		return nil, fmt.Errorf("model: nil refuter")
	}
	if estimate == nil || !estimate.Identified {
		m.logger.Warn("refusing to refute a no-op estimate")
		return &Refutation{Passed: false, Detail: "estimate was never computed"}, nil
	}
	return refuter.Refute(ctx, &RefuteRequest{Estimand: ie, Estimate: estimate})
}
