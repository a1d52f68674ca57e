package identify

import (
	"fmt"
	"strings"
)

// EstimandNonparametricATE is the only supported target estimand type:
// the nonparametric average treatment effect.
const EstimandNonparametricATE = "nonparametric-ate"

// Estimand is a symbolic expression over treatment, outcome and the
// chosen variable sets. The expression is an opaque placeholder for the
// downstream estimator; this core only guarantees the sets are valid.
type Estimand struct {
	Method        Method   `json:"method"`
	Expression    string   `json:"expression"`
	AdjustmentSet []string `json:"adjustment_set,omitempty"`
	InstrumentSet []string `json:"instrument_set,omitempty"`
	MediatorSet   []string `json:"mediator_set,omitempty"`
}

// IdentifiedEstimand is the engine's result: one slot per identification
// method, empty when the method failed. Immutable after construction
// except for the selected identifier method tag, which the estimation
// step records once it picks a populated slot.
type IdentifiedEstimand struct {
	treatments   []string
	outcomes     []string
	estimandType string
	estimands    map[Method]*Estimand
	notes        []string
	selected     Method
}

func newIdentifiedEstimand(treatments, outcomes []string, estimandType string) *IdentifiedEstimand {
	return &IdentifiedEstimand{
		treatments:   append([]string(nil), treatments...),
		outcomes:     append([]string(nil), outcomes...),
		estimandType: estimandType,
		estimands:    make(map[Method]*Estimand, len(Methods())),
	}
}

// Treatments returns the treatment names the estimand was built for.
func (ie *IdentifiedEstimand) Treatments() []string {
	return append([]string(nil), ie.treatments...)
}

// Outcomes returns the outcome names the estimand was built for.
func (ie *IdentifiedEstimand) Outcomes() []string {
	return append([]string(nil), ie.outcomes...)
}

// EstimandType echoes the requested target estimand type.
func (ie *IdentifiedEstimand) EstimandType() string { return ie.estimandType }

// Notes returns diagnostics accumulated during identification, e.g. the
// unobserved-confounder warnings.
func (ie *IdentifiedEstimand) Notes() []string {
	return append([]string(nil), ie.notes...)
}

// Estimand returns the estimand for a method and whether it is populated.
func (ie *IdentifiedEstimand) Estimand(m Method) (*Estimand, bool) {
	est := ie.estimands[m]
	return est, est != nil
}

// Identified reports whether at least one method produced an estimand.
func (ie *IdentifiedEstimand) Identified() bool {
	for _, est := range ie.estimands {
		if est != nil {
			return true
		}
	}
	return false
}

// SetIdentifierMethod records which populated method downstream
// estimation will use. Selecting an unknown or empty slot fails.
func (ie *IdentifiedEstimand) SetIdentifierMethod(m Method) error {
	if _, ok := ie.estimands[m]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownMethod, m)
	}
	if ie.estimands[m] == nil {
		return fmt.Errorf("%w: %q", ErrNotIdentified, m)
	}
	ie.selected = m
	return nil
}

// IdentifierMethod returns the selected method, if one was recorded.
func (ie *IdentifiedEstimand) IdentifierMethod() (Method, bool) {
	return ie.selected, ie.selected != ""
}

// Summary is a plain serializable view of an IdentifiedEstimand, used by
// the CLI and the MCP surface.
type Summary struct {
	Treatments   []string             `json:"treatments"`
	Outcomes     []string             `json:"outcomes"`
	EstimandType string               `json:"estimand_type"`
	Identified   bool                 `json:"identified"`
	Estimands    map[Method]*Estimand `json:"estimands"`
	Notes        []string             `json:"notes,omitempty"`
}

// Summary returns the serializable view. Empty slots appear as explicit
// nulls so callers can tell "attempted and failed" from "absent".
func (ie *IdentifiedEstimand) Summary() Summary {
	estimands := make(map[Method]*Estimand, len(ie.estimands))
	for m, est := range ie.estimands {
		estimands[m] = est
	}
	return Summary{
		Treatments:   ie.Treatments(),
		Outcomes:     ie.Outcomes(),
		EstimandType: ie.estimandType,
		Identified:   ie.Identified(),
		Estimands:    estimands,
		Notes:        ie.Notes(),
	}
}

// --- symbolic expression builders ---

func joinVars(names []string) string { return strings.Join(names, ",") }

func backdoorExpression(treatments, outcomes, adjustment []string) string {
	t := joinVars(treatments)
	o := joinVars(outcomes)
	if len(adjustment) == 0 {
		return fmt.Sprintf("E[%s|do(%s)] = E[%s|%s]", o, t, o, t)
	}
	z := joinVars(adjustment)
	return fmt.Sprintf("E[%s|do(%s)] = Σ_{%s} E[%s|%s,%s]·P(%s)", o, t, z, o, t, z, z)
}

func ivExpression(treatments, outcomes, instruments []string) string {
	t := joinVars(treatments)
	o := joinVars(outcomes)
	w := joinVars(instruments)
	return fmt.Sprintf("E[%s|do(%s)] = Cov(%s,%s) / Cov(%s,%s)", o, t, o, w, t, w)
}

func frontdoorExpression(treatments, outcomes, mediators []string) string {
	t := joinVars(treatments)
	o := joinVars(outcomes)
	m := joinVars(mediators)
	return fmt.Sprintf("E[%s|do(%s)] = Σ_{%s} P(%s|%s) Σ_{%s'} E[%s|%s,%s']·P(%s')",
		o, t, m, m, t, t, o, m, t, t)
}
