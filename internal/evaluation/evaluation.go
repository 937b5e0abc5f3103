// Package evaluation runs the calculation core and the configured analyses
// for every active scenario of a deal file.
package evaluation

import (
	"fmt"

	"github.com/iwvelando/immo-invest/internal/config"
	"github.com/iwvelando/immo-invest/internal/optimizer"
	"github.com/iwvelando/immo-invest/pkg/analysis"
	"github.com/iwvelando/immo-invest/pkg/deal"
	"github.com/iwvelando/immo-invest/pkg/montecarlo"
	"github.com/iwvelando/immo-invest/pkg/optimization"
	"github.com/iwvelando/immo-invest/pkg/property"
	"github.com/iwvelando/immo-invest/pkg/validation"
	"go.uber.org/zap"
)

// Result holds everything computed for one scenario. Optional analyses are
// nil when the deal file does not configure them.
type Result struct {
	Name       string                     `json:"name"`
	Input      property.Input             `json:"input"`
	Output     property.Output            `json:"output"`
	Warnings   []string                   `json:"warnings,omitempty"`
	BreakEven  analysis.BreakEvenResult   `json:"breakEven"`
	Exit       analysis.ExitResult        `json:"exit"`
	ExitYears  []analysis.ExitResult      `json:"exitYears,omitempty"`
	Renovation *analysis.RenovationResult `json:"renovation,omitempty"`
	Location   *analysis.LocationResult   `json:"location,omitempty"`
	Deal       deal.Result                `json:"deal"`
	MonteCarlo *montecarlo.Result         `json:"monteCarlo,omitempty"`
	Risk       *montecarlo.RiskMetrics    `json:"risk,omitempty"`
	Solvers    []optimization.Summary     `json:"solvers,omitempty"`
}

// Evaluator evaluates deal files.
type Evaluator struct {
	logger     *zap.Logger
	calculator *property.Calculator
	simulator  *montecarlo.Simulator
}

// NewEvaluator creates an evaluator. A nil source draws Monte Carlo samples
// from math/rand/v2.
func NewEvaluator(logger *zap.Logger, source montecarlo.Source) *Evaluator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Evaluator{
		logger:     logger,
		calculator: property.NewCalculator(logger),
		simulator:  montecarlo.NewSimulator(logger, source),
	}
}

// Evaluate processes all active scenarios of conf. The returned warnings
// cover the configuration as a whole; input warnings are attached to each
// result.
func (e *Evaluator) Evaluate(conf *config.Configuration) ([]Result, []string, error) {
	if conf == nil {
		return nil, nil, fmt.Errorf("configuration cannot be nil")
	}

	scenarios, warnings, err := conf.ActiveScenarios()
	if err != nil {
		return nil, warnings, err
	}
	for _, w := range warnings {
		e.logger.Warn(w, zap.String("op", "evaluation.Evaluate"))
	}

	results := make([]Result, 0, len(scenarios))
	for _, scenario := range scenarios {
		e.logger.Debug(fmt.Sprintf("evaluating scenario %s", scenario.Name),
			zap.String("op", "evaluation.Evaluate"),
		)
		results = append(results, e.evaluateScenario(scenario, conf.Analysis))
	}
	return results, warnings, nil
}

func (e *Evaluator) evaluateScenario(scenario config.ResolvedScenario, settings config.AnalysisConfig) Result {
	in := scenario.Input
	out := e.calculator.Calculate(in)
	breakEven := analysis.BreakEvenInputFromOutput(out, settings.BreakEven.AppreciationPercent, settings.BreakEven.SellingCostsPercent)
	exit := analysis.ExitInputFromDeal(in, settings.Exit.HoldingPeriodYears, settings.Exit.SellingCostsPercent)

	result := Result{
		Name:      scenario.Name,
		Input:     in,
		Output:    out,
		Warnings:  validation.ValidatePropertyInput(in),
		BreakEven: analysis.AnalyzeBreakEven(breakEven),
		Exit:      analysis.AnalyzeExit(exit),
	}

	if len(settings.Exit.CompareYears) > 0 {
		result.ExitYears = analysis.CompareExitYears(in, settings.Exit.CompareYears, settings.Exit.SellingCostsPercent)
	}

	if settings.Renovation != nil {
		r := analysis.AnalyzeRenovation(*settings.Renovation)
		result.Renovation = &r
	}
	if settings.Location != nil {
		l := analysis.ScoreLocation(*settings.Location)
		result.Location = &l
	}
	result.Deal = deal.Analyze(in, out, result.Location)

	if settings.MonteCarlo != nil {
		mc := e.simulator.Run(montecarlo.InputFromOutput(out, *settings.MonteCarlo))
		risk := montecarlo.CalculateRiskMetrics(mc, settings.RiskFreeRate)
		result.MonteCarlo = &mc
		result.Risk = &risk
	}

	if settings.Solvers != nil {
		runner := optimizer.NewRunner(e.logger, settings.Solvers.Options())
		result.Solvers = []optimization.Summary{
			runner.BreakEvenRent(in),
			runner.RequiredEquity(in, settings.Solvers.TargetMonthlyCashflow),
		}
	}

	for _, w := range result.Warnings {
		e.logger.Warn(w,
			zap.String("op", "evaluation.evaluateScenario"),
			zap.String("scenario", scenario.Name),
		)
	}
	return result
}
