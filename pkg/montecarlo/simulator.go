// Package montecarlo projects the value of a property investment under
// random appreciation and cashflow, and derives risk metrics from the
// resulting distribution.
package montecarlo

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/iwvelando/immo-invest/pkg/constants"
	"github.com/iwvelando/immo-invest/pkg/mathutil"
	"github.com/iwvelando/immo-invest/pkg/property"
	"go.uber.org/zap"
)

const (
	// maxUniformRetries bounds the redraws of a zero uniform sample before
	// falling back to uniformEpsilon.
	maxUniformRetries = 10
	uniformEpsilon    = 1e-10
)

// Source yields uniform samples in [0, 1). *rand.Rand satisfies it.
type Source interface {
	Float64() float64
}

type globalSource struct{}

func (globalSource) Float64() float64 { return rand.Float64() }

// Input holds the parameters of a simulation.
type Input struct {
	InitialInvestment float64 `json:"initialInvestment"`
	// PropertyValue is the starting value that appreciates. Defaults to
	// InitialInvestment.
	PropertyValue       float64 `json:"propertyValue,omitempty"`
	AnnualCashflow      float64 `json:"annualCashflow"`
	CashflowVariability float64 `json:"cashflowVariability"`
	// AppreciationRate and AppreciationVariability are in percent and
	// percentage points.
	AppreciationRate        float64 `json:"appreciationRate"`
	AppreciationVariability float64 `json:"appreciationVariability"`
	Years                   int     `json:"years"`
	Simulations             int     `json:"simulations"`
}

// Percentiles of the final value distribution.
type Percentiles struct {
	P5  float64 `json:"p5"`
	P10 float64 `json:"p10"`
	P25 float64 `json:"p25"`
	P50 float64 `json:"p50"`
	P75 float64 `json:"p75"`
	P90 float64 `json:"p90"`
	P95 float64 `json:"p95"`
}

// Band summarizes the distribution of all trials at the end of one year.
type Band struct {
	Year int     `json:"year"`
	Mean float64 `json:"mean"`
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
	P10  float64 `json:"p10"`
	P25  float64 `json:"p25"`
	P50  float64 `json:"p50"`
	P75  float64 `json:"p75"`
	P90  float64 `json:"p90"`
}

// Result is the outcome of a simulation run.
type Result struct {
	InitialInvestment float64 `json:"initialInvestment"`
	Simulations       int     `json:"simulations"`
	Years             int     `json:"years"`
	// FinalValues is sorted ascending.
	FinalValues           []float64   `json:"finalValues,omitempty"`
	Percentiles           Percentiles `json:"percentiles"`
	Mean                  float64     `json:"mean"`
	StdDev                float64     `json:"stdDev"`
	Min                   float64     `json:"min"`
	Max                   float64     `json:"max"`
	ProbabilityOfLoss     float64     `json:"probabilityOfLoss"`
	ProbabilityOfDoubling float64     `json:"probabilityOfDoubling"`
	YearlyBands           []Band      `json:"yearlyBands"`
}

// Settings are the simulation assumptions applied to a calculated deal.
type Settings struct {
	Simulations             int     `json:"simulations" yaml:"simulations"`
	Years                   int     `json:"years" yaml:"years"`
	CashflowVariability     float64 `json:"cashflowVariability" yaml:"cashflowVariability"`
	AppreciationRate        float64 `json:"appreciationRate" yaml:"appreciationRate"`
	AppreciationVariability float64 `json:"appreciationVariability" yaml:"appreciationVariability"`
}

// InputFromOutput builds a simulation input from a calculated deal.
func InputFromOutput(out property.Output, s Settings) Input {
	return Input{
		InitialInvestment:       out.InvestmentVolume.TotalInvestment,
		AnnualCashflow:          out.Cashflow.CashflowAfterTax,
		CashflowVariability:     s.CashflowVariability,
		AppreciationRate:        s.AppreciationRate,
		AppreciationVariability: s.AppreciationVariability,
		Years:                   s.Years,
		Simulations:             s.Simulations,
	}
}

// Simulator runs Monte Carlo projections.
type Simulator struct {
	logger *zap.Logger
	source Source
}

// NewSimulator creates a simulator. A nil source draws from math/rand/v2.
func NewSimulator(logger *zap.Logger, source Source) *Simulator {
	if logger == nil {
		logger = zap.NewNop()
	}
	if source == nil {
		source = globalSource{}
	}
	return &Simulator{logger: logger, source: source}
}

// normalizeInput applies defaults and limits to the trial count and horizon.
func normalizeInput(in Input) Input {
	if in.Simulations <= 0 {
		in.Simulations = constants.DefaultSimulations
	}
	if in.Simulations > constants.MaxSimulations {
		in.Simulations = constants.MaxSimulations
	}
	if in.Years <= 0 {
		in.Years = constants.DefaultSimulationYears
	}
	if in.Years > constants.MaxSimulationYears {
		in.Years = constants.MaxSimulationYears
	}
	if in.PropertyValue <= 0 {
		in.PropertyValue = in.InitialInvestment
	}
	in.CashflowVariability = math.Abs(in.CashflowVariability)
	in.AppreciationVariability = math.Abs(in.AppreciationVariability)
	return in
}

// Run executes all trials. Each trial draws an appreciation rate and a
// cashflow per year; the trial value is the property value plus the
// cumulative cashflow.
func (s *Simulator) Run(in Input) Result {
	in = normalizeInput(in)

	s.logger.Debug(fmt.Sprintf("running %d simulations over %d years", in.Simulations, in.Years),
		zap.String("op", "montecarlo.Run"),
	)

	cashflowStd := math.Abs(in.AnnualCashflow) * in.CashflowVariability / constants.PercentageMultiplier

	finals := make([]float64, in.Simulations)
	yearly := make([][]float64, in.Years)
	for y := range yearly {
		yearly[y] = make([]float64, in.Simulations)
	}

	for trial := 0; trial < in.Simulations; trial++ {
		value := in.PropertyValue
		cumulative := 0.0
		for y := 0; y < in.Years; y++ {
			appreciation := s.normal(in.AppreciationRate, in.AppreciationVariability)
			value *= 1 + appreciation/constants.PercentageMultiplier
			cumulative += s.normal(in.AnnualCashflow, cashflowStd)
			yearly[y][trial] = mathutil.Finite(value + cumulative)
		}
		finals[trial] = yearly[in.Years-1][trial]
	}

	result := summarize(in, finals)
	result.YearlyBands = make([]Band, 0, in.Years)
	for y, values := range yearly {
		result.YearlyBands = append(result.YearlyBands, band(y+1, values))
	}

	s.logger.Debug(fmt.Sprintf("simulation finished: median %.2f, probability of loss %.2f%%",
		result.Percentiles.P50, result.ProbabilityOfLoss),
		zap.String("op", "montecarlo.Run"),
	)
	return result
}

// normal draws from N(mean, std) with the Box-Muller transform. A zero
// uniform sample is redrawn a bounded number of times before an epsilon is
// used, so the result is always finite.
func (s *Simulator) normal(mean, std float64) float64 {
	if std == 0 {
		return mean
	}
	u1 := s.source.Float64()
	for i := 0; u1 <= 0 && i < maxUniformRetries; i++ {
		u1 = s.source.Float64()
	}
	if u1 <= 0 {
		u1 = uniformEpsilon
	}
	u2 := s.source.Float64()
	z := math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)
	return mean + std*z
}

func summarize(in Input, finals []float64) Result {
	sorted := mathutil.SortedCopy(finals)
	lo, hi := mathutil.MinMax(sorted)

	losses, doublings := 0, 0
	for _, v := range sorted {
		if v < in.InitialInvestment {
			losses++
		}
		if v >= 2*in.InitialInvestment {
			doublings++
		}
	}
	n := float64(len(sorted))

	return Result{
		InitialInvestment: in.InitialInvestment,
		Simulations:       in.Simulations,
		Years:             in.Years,
		FinalValues:       sorted,
		Percentiles: Percentiles{
			P5:  mathutil.Percentile(sorted, 5),
			P10: mathutil.Percentile(sorted, 10),
			P25: mathutil.Percentile(sorted, 25),
			P50: mathutil.Percentile(sorted, 50),
			P75: mathutil.Percentile(sorted, 75),
			P90: mathutil.Percentile(sorted, 90),
			P95: mathutil.Percentile(sorted, 95),
		},
		Mean:                  mathutil.Mean(sorted),
		StdDev:                mathutil.StdDev(sorted),
		Min:                   lo,
		Max:                   hi,
		ProbabilityOfLoss:     float64(losses) / n * constants.PercentageMultiplier,
		ProbabilityOfDoubling: float64(doublings) / n * constants.PercentageMultiplier,
	}
}

func band(year int, values []float64) Band {
	sorted := mathutil.SortedCopy(values)
	lo, hi := mathutil.MinMax(sorted)
	return Band{
		Year: year,
		Mean: mathutil.Mean(sorted),
		Min:  lo,
		Max:  hi,
		P10:  mathutil.Percentile(sorted, 10),
		P25:  mathutil.Percentile(sorted, 25),
		P50:  mathutil.Percentile(sorted, 50),
		P75:  mathutil.Percentile(sorted, 75),
		P90:  mathutil.Percentile(sorted, 90),
	}
}
