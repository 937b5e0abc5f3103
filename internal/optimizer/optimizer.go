package optimizer

import (
	"fmt"
	"math"

	"github.com/iwvelando/immo-invest/pkg/constants"
	"github.com/iwvelando/immo-invest/pkg/format"
	"github.com/iwvelando/immo-invest/pkg/mathutil"
	"github.com/iwvelando/immo-invest/pkg/optimization"
	"github.com/iwvelando/immo-invest/pkg/property"
	"go.uber.org/zap"
)

const (
	DefaultTolerance     = constants.CurrencyTolerance
	DefaultMaxIterations = 100

	// maxBoundDoublings limits the search for an upper rent bound.
	maxBoundDoublings = 30
)

// Solver targets.
const (
	TargetBreakEvenRent  = "break-even-rent"
	TargetRequiredEquity = "required-equity"
)

// Options tune the bisection.
type Options struct {
	Tolerance     float64 `json:"tolerance,omitempty" yaml:"tolerance,omitempty"`
	MaxIterations int     `json:"maxIterations,omitempty" yaml:"maxIterations,omitempty"`
}

func (o Options) withDefaults() Options {
	if o.Tolerance <= 0 {
		o.Tolerance = DefaultTolerance
	}
	if o.MaxIterations <= 0 {
		o.MaxIterations = DefaultMaxIterations
	}
	return o
}

// Runner searches deal inputs that reach a monthly cashflow target.
type Runner struct {
	logger *zap.Logger
	calc   *property.Calculator
	opts   Options
}

type evaluation struct {
	value    float64
	cashflow float64
	target   float64
}

func (e evaluation) feasible() bool {
	return e.cashflow >= e.target
}

func (e evaluation) headroom() float64 {
	return e.cashflow - e.target
}

// searchTarget describes one input field to solve for. Monthly cashflow after
// tax must be non-decreasing in the field.
type searchTarget struct {
	name     string
	field    string
	base     property.Input
	original float64
	cashflow float64
	set      func(in *property.Input, value float64)
	minValue float64
	maxValue float64
}

// NewRunner constructs a Runner.
func NewRunner(logger *zap.Logger, opts Options) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		logger: logger,
		calc:   property.NewCalculator(logger),
		opts:   opts.withDefaults(),
	}
}

// BreakEvenRent finds the lowest actual cold rent per month at which the
// monthly cashflow after tax is zero or better.
func (r *Runner) BreakEvenRent(in property.Input) optimization.Summary {
	upper := math.Max(in.ColdRentActual, 1000)
	set := func(in *property.Input, v float64) { in.ColdRentActual = v }
	for i := 0; i < maxBoundDoublings && !r.evaluate(in, set, upper, 0).feasible(); i++ {
		upper *= 2
	}

	return r.solve(searchTarget{
		name:     TargetBreakEvenRent,
		field:    "coldRentActual",
		base:     in,
		original: in.ColdRentActual,
		cashflow: 0,
		set:      set,
		minValue: 0,
		maxValue: upper,
	})
}

// RequiredEquity finds the lowest equity at which the monthly cashflow after
// tax reaches targetMonthlyCashflow. Equity is bounded by the total
// investment.
func (r *Runner) RequiredEquity(in property.Input, targetMonthlyCashflow float64) optimization.Summary {
	out := property.CalculatePropertyKPIs(in)
	return r.solve(searchTarget{
		name:     TargetRequiredEquity,
		field:    "equity",
		base:     in,
		original: in.Equity,
		cashflow: targetMonthlyCashflow,
		set:      func(in *property.Input, v float64) { in.Equity = v },
		minValue: 0,
		maxValue: math.Max(out.InvestmentVolume.TotalInvestment, 0),
	})
}

func (r *Runner) solve(target searchTarget) optimization.Summary {
	lowerEval := r.evaluate(target.base, target.set, target.minValue, target.cashflow)
	upperEval := r.evaluate(target.base, target.set, target.maxValue, target.cashflow)

	summary := optimization.Summary{
		Target:          target.name,
		Field:           target.field,
		Original:        target.original,
		OriginalDisplay: format.Euro(target.original),
		TargetCashflow:  target.cashflow,
	}

	var final evaluation
	switch {
	case lowerEval.feasible():
		final = lowerEval
	case !upperEval.feasible():
		final = upperEval
		summary.Notes = append(summary.Notes, fmt.Sprintf(
			"unable to reach monthly cashflow %s within bounds %s to %s",
			format.Euro(target.cashflow),
			format.Euro(target.minValue),
			format.Euro(target.maxValue),
		))
	default:
		lower, upper := target.minValue, target.maxValue
		final = upperEval
		for summary.Iterations < r.opts.MaxIterations && !mathutil.WithinTolerance(upper, lower, r.opts.Tolerance) {
			mid := lower + (upper-lower)/2
			evalMid := r.evaluate(target.base, target.set, mid, target.cashflow)
			summary.Iterations++
			if evalMid.feasible() {
				final = evalMid
				upper = mid
			} else {
				lower = mid
			}
		}
		if !mathutil.WithinTolerance(upper, lower, r.opts.Tolerance) {
			summary.Notes = append(summary.Notes, fmt.Sprintf(
				"stopped after %d iterations with an interval of %s",
				summary.Iterations, format.Euro(upper-lower),
			))
		}
	}

	// Round up to the cent so the reported value stays on the feasible side.
	summary.Value = math.Ceil(final.value*constants.DecimalPrecision) / constants.DecimalPrecision
	summary.ValueDisplay = format.Euro(summary.Value)
	summary.MonthlyCashflow = final.cashflow
	summary.Headroom = final.headroom()
	summary.Converged = final.feasible() && len(summary.Notes) == 0

	r.logger.Debug(fmt.Sprintf("solved %s: %s -> %s", target.field, summary.OriginalDisplay, summary.ValueDisplay),
		zap.String("op", "optimizer.solve"),
		zap.String("target", target.name),
		zap.Float64("monthlyCashflow", summary.MonthlyCashflow),
		zap.Float64("headroom", summary.Headroom),
		zap.Int("iterations", summary.Iterations),
		zap.Bool("converged", summary.Converged),
	)
	return summary
}

func (r *Runner) evaluate(base property.Input, set func(*property.Input, float64), value, target float64) evaluation {
	in := base
	set(&in, value)
	out := r.calc.Calculate(in)
	return evaluation{
		value:    value,
		cashflow: out.Cashflow.MonthlyCashflowAfterTax,
		target:   target,
	}
}
