package montecarlo

import (
	"math"

	"github.com/iwvelando/immo-invest/pkg/constants"
	"github.com/iwvelando/immo-invest/pkg/mathutil"
)

const dispersionEpsilon = 1e-9

// RiskMetrics are derived from a simulation result. Monetary values are in
// euro, ratios are unitless and the drawdown is in percent.
type RiskMetrics struct {
	// ValueAtRisk95 is the loss versus the initial investment that is not
	// exceeded in 95% of the trials.
	ValueAtRisk95 float64 `json:"valueAtRisk95"`
	// ExpectedShortfall is the average loss of the worst 5% of the trials.
	ExpectedShortfall float64 `json:"expectedShortfall"`
	SharpeRatio       float64 `json:"sharpeRatio"`
	SortinoRatio      float64 `json:"sortinoRatio"`
	MaxDrawdown       float64 `json:"maxDrawdown"`
	// MeanAnnualReturn is the mean annualized trial return in percent.
	MeanAnnualReturn float64 `json:"meanAnnualReturn"`
}

// CalculateRiskMetrics derives risk figures from a result. The Sharpe and
// Sortino ratios use the annualized return of each trial against the given
// risk-free rate in percent. The drawdown follows the p10 band as the
// pessimistic path.
func CalculateRiskMetrics(r Result, riskFreeRate float64) RiskMetrics {
	if len(r.FinalValues) == 0 {
		return RiskMetrics{}
	}

	p5 := mathutil.Percentile(r.FinalValues, 5)
	var tail []float64
	for _, v := range r.FinalValues {
		if v > p5 {
			break
		}
		tail = append(tail, v)
	}

	returns := make([]float64, len(r.FinalValues))
	for i, v := range r.FinalValues {
		returns[i] = annualizedReturn(v, r.InitialInvestment, r.Years)
	}
	meanReturn := mathutil.Mean(returns)
	excess := meanReturn - riskFreeRate

	downside := 0.0
	for _, ret := range returns {
		if d := ret - riskFreeRate; d < 0 {
			downside += d * d
		}
	}
	downsideDeviation := math.Sqrt(downside / float64(len(returns)))

	return RiskMetrics{
		ValueAtRisk95:     r.InitialInvestment - p5,
		ExpectedShortfall: r.InitialInvestment - mathutil.Mean(tail),
		SharpeRatio:       riskRatio(excess, mathutil.StdDev(returns)),
		SortinoRatio:      riskRatio(excess, downsideDeviation),
		MaxDrawdown:       maxDrawdown(r.InitialInvestment, r.YearlyBands),
		MeanAnnualReturn:  meanReturn,
	}
}

// riskRatio divides an excess return by a deviation, treating deviations
// at floating point noise level as zero.
func riskRatio(excess, deviation float64) float64 {
	if deviation < dispersionEpsilon {
		return 0
	}
	return mathutil.Finite(excess / deviation)
}

func annualizedReturn(final, initial float64, years int) float64 {
	if initial <= 0 || years <= 0 {
		return 0
	}
	ratio := final / initial
	if ratio <= 0 {
		return -constants.PercentageMultiplier
	}
	return (math.Pow(ratio, 1/float64(years)) - 1) * constants.PercentageMultiplier
}

// maxDrawdown returns the largest percentage fall from a running peak along
// the p10 path, starting at the initial investment.
func maxDrawdown(initial float64, bands []Band) float64 {
	peak := initial
	worst := 0.0
	for _, b := range bands {
		if b.P10 > peak {
			peak = b.P10
			continue
		}
		if peak > 0 {
			if dd := (peak - b.P10) / peak * constants.PercentageMultiplier; dd > worst {
				worst = dd
			}
		}
	}
	return worst
}
