// Package scoring converts raw activity counters into point scores and
// league tables. Every function here is pure: no I/O, no shared state.
package scoring

import (
	"github.com/shopspring/decimal"

	"github.com/okian/powerteam/internal/domain/model"
)

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithWeights replaces the default weight set. A non-positive closed-business
// unit or a negative precision keeps the default for that field.
func WithWeights(w Weights) Option {
	return func(e *Engine) {
		if w.ClosedBusinessUnit <= 0 {
			w.ClosedBusinessUnit = e.weights.ClosedBusinessUnit
		}
		if w.ClosedBusinessPrecision < 0 {
			w.ClosedBusinessPrecision = e.weights.ClosedBusinessPrecision
		}
		e.weights = w
	}
}

// Engine computes score breakdowns with a fixed weight set.
// It is immutable after construction and safe for concurrent use.
type Engine struct {
	weights Weights
}

// NewEngine creates an engine with the default weights, then applies opts.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{weights: DefaultWeights()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Weights returns the weight set in use.
func (e *Engine) Weights() Weights {
	return e.weights
}

// ComputeScore maps one counters record to its eight point components and total.
// Negative inputs are not clamped; they flow through the arithmetic.
func (e *Engine) ComputeScore(c model.ActivityCounters) model.ScoreBreakdown {
	c = c.Normalized()
	w := e.weights

	b := model.ScoreBreakdown{
		Attendance: float64(c.Present)*w.Present +
			float64(c.Substitute)*w.Substitute +
			float64(c.Medical)*w.Medical +
			float64(c.Absent)*w.Absent,
		Visitors:       float64(c.Visitors) * w.Visitor,
		Referrals:      float64(c.ReferralsGivenInside+c.ReferralsGivenOutside) * w.ReferralGiven,
		OneToOne:       float64(c.OneToOneMeetings) * w.OneToOne,
		ClosedBusiness: closedBusinessPoints(c.ClosedBusinessAmount, w),
		Conversion:     float64(c.Conversions) * w.Conversion,
		Training:       float64(c.TrainingSessions) * w.Training,
		Testimonials:   float64(c.Testimonials) * w.Testimonial,
	}
	b.Total = b.Sum()
	return b
}

// closedBusinessPoints awards one point per unit of closed business, rounded
// half away from zero to the configured number of decimals.
func closedBusinessPoints(amount float64, w Weights) float64 {
	if amount == 0 || w.ClosedBusinessUnit <= 0 {
		return 0
	}
	pts := decimal.NewFromFloat(amount).
		Div(decimal.NewFromFloat(w.ClosedBusinessUnit)).
		Round(w.ClosedBusinessPrecision)
	return pts.InexactFloat64()
}

var defaultEngine = NewEngine()

// ComputeScore scores c with the default weights.
func ComputeScore(c model.ActivityCounters) model.ScoreBreakdown {
	return defaultEngine.ComputeScore(c)
}
