package montecarlo

import (
	"math"
	"math/rand/v2"
	"reflect"
	"sort"
	"testing"

	"github.com/iwvelando/immo-invest/pkg/constants"
	"github.com/iwvelando/immo-invest/pkg/mathutil"
	"github.com/iwvelando/immo-invest/pkg/property"
	"go.uber.org/zap"
)

type zeroSource struct{ calls int }

func (z *zeroSource) Float64() float64 {
	z.calls++
	return 0
}

func TestRunWithoutVariability(t *testing.T) {
	in := Input{
		InitialInvestment: 300000,
		AnnualCashflow:    5000,
		AppreciationRate:  2,
		Years:             10,
		Simulations:       1000,
	}

	r := NewSimulator(zap.NewNop(), rand.New(rand.NewPCG(1, 2))).Run(in)

	expected := 300000*math.Pow(1.02, 10) + 50000
	if len(r.FinalValues) != 1000 {
		t.Fatalf("expected 1000 final values, got %d", len(r.FinalValues))
	}
	for _, v := range r.FinalValues {
		if !mathutil.WithinTolerance(v, expected, 1e-6) {
			t.Fatalf("final value %.4f, expected %.4f", v, expected)
		}
	}
	if r.StdDev > 1e-6 {
		t.Errorf("standard deviation = %.8f, expected ~0", r.StdDev)
	}
	if !mathutil.WithinTolerance(r.Percentiles.P5, r.Percentiles.P95, 1e-6) {
		t.Errorf("expected collapsed percentiles, got %+v", r.Percentiles)
	}
	if r.ProbabilityOfLoss != 0 {
		t.Errorf("probability of loss = %.2f, expected 0", r.ProbabilityOfLoss)
	}
	if len(r.YearlyBands) != 10 {
		t.Fatalf("expected 10 bands, got %d", len(r.YearlyBands))
	}
	first := r.YearlyBands[0]
	if !mathutil.WithinTolerance(first.Mean, 300000*1.02+5000, 1e-6) {
		t.Errorf("year 1 mean = %.4f", first.Mean)
	}
}

func TestRunDistribution(t *testing.T) {
	in := Input{
		InitialInvestment:       300000,
		AnnualCashflow:          0,
		AppreciationRate:        2,
		AppreciationVariability: 1,
		Years:                   10,
		Simulations:             5000,
	}

	r := NewSimulator(nil, rand.New(rand.NewPCG(42, 7))).Run(in)

	if !sort.Float64sAreSorted(r.FinalValues) {
		t.Error("expected sorted final values")
	}
	expectedMean := 300000 * math.Pow(1.02, 10)
	if math.Abs(r.Mean-expectedMean)/expectedMean > 0.02 {
		t.Errorf("mean = %.2f, expected about %.2f", r.Mean, expectedMean)
	}
	if r.StdDev <= 0 {
		t.Error("expected positive standard deviation")
	}

	p := r.Percentiles
	ordered := []float64{r.Min, p.P5, p.P10, p.P25, p.P50, p.P75, p.P90, p.P95, r.Max}
	if !sort.Float64sAreSorted(ordered) {
		t.Errorf("percentiles out of order: %v", ordered)
	}
	for _, b := range r.YearlyBands {
		if !(b.Min <= b.P10 && b.P10 <= b.P25 && b.P25 <= b.P50 && b.P50 <= b.P75 && b.P75 <= b.P90 && b.P90 <= b.Max) {
			t.Errorf("band %d out of order: %+v", b.Year, b)
		}
	}
	if r.ProbabilityOfLoss < 0 || r.ProbabilityOfLoss > 100 || r.ProbabilityOfDoubling != 0 {
		t.Errorf("unexpected probabilities: loss %.2f doubling %.2f", r.ProbabilityOfLoss, r.ProbabilityOfDoubling)
	}
}

func TestRunReproducibleWithSource(t *testing.T) {
	in := Input{InitialInvestment: 100000, AnnualCashflow: 2000, CashflowVariability: 20, AppreciationRate: 1.5, AppreciationVariability: 2, Years: 5, Simulations: 200}

	a := NewSimulator(nil, rand.New(rand.NewPCG(3, 4))).Run(in)
	b := NewSimulator(nil, rand.New(rand.NewPCG(3, 4))).Run(in)
	if !reflect.DeepEqual(a, b) {
		t.Error("expected identical results for identical sources")
	}
}

func TestNormalGuardsZeroDraws(t *testing.T) {
	src := &zeroSource{}
	s := NewSimulator(nil, src)

	v := s.normal(0, 1)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		t.Fatalf("normal() = %v, expected finite", v)
	}
	// One initial draw, the bounded retries and the second uniform.
	if src.calls != maxUniformRetries+2 {
		t.Errorf("source called %d times, expected %d", src.calls, maxUniformRetries+2)
	}

	if got := s.normal(5, 0); got != 5 {
		t.Errorf("normal(5, 0) = %v, expected 5", got)
	}
}

func TestNormalizeInput(t *testing.T) {
	in := normalizeInput(Input{InitialInvestment: 1000, Simulations: constants.MaxSimulations + 1, Years: 500, CashflowVariability: -10})
	if in.Simulations != constants.MaxSimulations {
		t.Errorf("simulations = %d, expected %d", in.Simulations, constants.MaxSimulations)
	}
	if in.Years != constants.MaxSimulationYears {
		t.Errorf("years = %d, expected %d", in.Years, constants.MaxSimulationYears)
	}
	if in.PropertyValue != 1000 {
		t.Errorf("property value = %.2f, expected initial investment", in.PropertyValue)
	}
	if in.CashflowVariability != 10 {
		t.Errorf("cashflow variability = %.2f, expected 10", in.CashflowVariability)
	}

	in = normalizeInput(Input{})
	if in.Simulations != constants.DefaultSimulations || in.Years != constants.DefaultSimulationYears {
		t.Errorf("expected defaults, got %d simulations over %d years", in.Simulations, in.Years)
	}
}

func TestInputFromOutput(t *testing.T) {
	out := property.CalculatePropertyKPIs(property.DefaultInput())
	in := InputFromOutput(out, Settings{Simulations: 500, Years: 15, CashflowVariability: 10, AppreciationRate: 2, AppreciationVariability: 1})
	if in.InitialInvestment != out.InvestmentVolume.TotalInvestment || in.AnnualCashflow != out.Cashflow.CashflowAfterTax {
		t.Errorf("unexpected input %+v", in)
	}
	if in.Simulations != 500 || in.Years != 15 {
		t.Errorf("settings not carried over: %+v", in)
	}
}

func TestDefaultSource(t *testing.T) {
	r := NewSimulator(nil, nil).Run(Input{InitialInvestment: 1000, AppreciationRate: 1, AppreciationVariability: 1, Years: 2, Simulations: 10})
	if r.Simulations != 10 || len(r.FinalValues) != 10 {
		t.Errorf("unexpected result size %d/%d", r.Simulations, len(r.FinalValues))
	}
}

func TestCalculateRiskMetrics(t *testing.T) {
	t.Run("Empty result", func(t *testing.T) {
		if m := CalculateRiskMetrics(Result{}, 2); m != (RiskMetrics{}) {
			t.Errorf("expected zero metrics, got %+v", m)
		}
	})

	t.Run("Deterministic result", func(t *testing.T) {
		r := NewSimulator(nil, nil).Run(Input{InitialInvestment: 100000, AppreciationRate: 3, Years: 10, Simulations: 100})
		m := CalculateRiskMetrics(r, 2)
		gain := 100000 * (math.Pow(1.03, 10) - 1)
		if !mathutil.WithinTolerance(m.ValueAtRisk95, -gain, 1e-6) {
			t.Errorf("VaR95 = %.4f, expected %.4f", m.ValueAtRisk95, -gain)
		}
		if !mathutil.WithinTolerance(m.ExpectedShortfall, -gain, 1e-6) {
			t.Errorf("expected shortfall = %.4f, expected %.4f", m.ExpectedShortfall, -gain)
		}
		if !mathutil.WithinTolerance(m.MeanAnnualReturn, 3, 1e-9) {
			t.Errorf("mean annual return = %.6f, expected 3", m.MeanAnnualReturn)
		}
		if m.SharpeRatio != 0 {
			t.Errorf("Sharpe = %.4f, expected 0 without dispersion", m.SharpeRatio)
		}
		if m.SortinoRatio != 0 {
			t.Errorf("Sortino = %.4f, expected 0 without downside", m.SortinoRatio)
		}
		if m.MaxDrawdown != 0 {
			t.Errorf("max drawdown = %.4f, expected 0", m.MaxDrawdown)
		}
	})

	t.Run("Dispersed result", func(t *testing.T) {
		r := NewSimulator(nil, rand.New(rand.NewPCG(9, 9))).Run(Input{
			InitialInvestment: 100000, AnnualCashflow: 1000, CashflowVariability: 50,
			AppreciationRate: 2, AppreciationVariability: 4, Years: 10, Simulations: 2000,
		})
		m := CalculateRiskMetrics(r, 2)
		if m.ExpectedShortfall < m.ValueAtRisk95 {
			t.Errorf("expected shortfall %.2f below VaR %.2f", m.ExpectedShortfall, m.ValueAtRisk95)
		}
		for name, v := range map[string]float64{"sharpe": m.SharpeRatio, "sortino": m.SortinoRatio, "drawdown": m.MaxDrawdown} {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				t.Errorf("%s is not finite", name)
			}
		}
	})
}

func TestMaxDrawdown(t *testing.T) {
	bands := []Band{{Year: 1, P10: 90}, {Year: 2, P10: 120}, {Year: 3, P10: 60}, {Year: 4, P10: 100}}
	if got := maxDrawdown(100, bands); !mathutil.WithinTolerance(got, 50, 1e-9) {
		t.Errorf("maxDrawdown() = %.4f, expected 50", got)
	}
	if got := maxDrawdown(0, nil); got != 0 {
		t.Errorf("maxDrawdown() = %.4f, expected 0", got)
	}
}
