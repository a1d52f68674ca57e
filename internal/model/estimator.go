package model

import (
	"context"

	"causeway/internal/identify"
)

// Statistical estimation and refutation are external collaborators: this
// core defines only the interfaces it hands an identified estimand to.

// EstimateRequest carries an identified estimand and the variable names
// an estimator needs to compute a numeric effect from data it holds.
type EstimateRequest struct {
	Estimand       *identify.Estimand
	Treatments     []string
	Outcomes       []string
	ControlValue   float64
	TreatmentValue float64
}

// Estimate is a numeric causal effect estimate. Identified is false for
// the no-op estimate returned when the selected method had no estimand.
type Estimate struct {
	Value      float64
	Method     identify.Method
	Identified bool
}

// Estimator turns an identified estimand into a numeric estimate.
type Estimator interface {
	Estimate(ctx context.Context, req *EstimateRequest) (*Estimate, error)
}

// RefuteRequest carries the estimand and estimate under scrutiny.
type RefuteRequest struct {
	Estimand *identify.IdentifiedEstimand
	Estimate *Estimate
}

// Refutation is the outcome of a sensitivity test.
type Refutation struct {
	Method string
	Passed bool
	Detail string
}

// Refuter stress-tests an estimate against violations of the stated
// assumptions.
type Refuter interface {
	Refute(ctx context.Context, req *RefuteRequest) (*Refutation, error)
}
