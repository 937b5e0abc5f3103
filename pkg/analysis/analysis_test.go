package analysis

import (
	"math"
	"testing"

	"github.com/iwvelando/immo-invest/pkg/constants"
	"github.com/iwvelando/immo-invest/pkg/mathutil"
	"github.com/iwvelando/immo-invest/pkg/property"
)

func TestYears(t *testing.T) {
	tests := []struct {
		name      string
		value     float64
		wantNever bool
		wantValue float64
	}{
		{"Finite", 12.5, false, 12.5},
		{"Zero", 0, false, 0},
		{"Negative clamps to zero", -3, false, 0},
		{"At threshold", constants.NeverYears, true, constants.NeverYears},
		{"Infinite", math.Inf(1), true, constants.NeverYears},
		{"NaN", math.NaN(), true, constants.NeverYears},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			y := YearsOf(tt.value)
			if y.Never != tt.wantNever {
				t.Errorf("Never = %v, expected %v", y.Never, tt.wantNever)
			}
			if y.Value != tt.wantValue {
				t.Errorf("Value = %v, expected %v", y.Value, tt.wantValue)
			}
		})
	}

	if NeverReached().String() != "never" {
		t.Errorf("String() = %q", NeverReached().String())
	}
	if YearsOf(12.5).String() != "12.5 years" {
		t.Errorf("String() = %q", YearsOf(12.5).String())
	}
}

func TestAnalyzeBreakEven(t *testing.T) {
	tests := []struct {
		name         string
		input        BreakEvenInput
		wantCashflow Years
		wantTotal    Years
	}{
		{
			name:         "Non-positive cashflow never breaks even",
			input:        BreakEvenInput{TotalInvestment: 400000, AnnualCashflow: 0},
			wantCashflow: NeverReached(),
			wantTotal:    NeverReached(),
		},
		{
			name:         "Cashflow repays investment",
			input:        BreakEvenInput{TotalInvestment: 100000, AnnualCashflow: 10000},
			wantCashflow: YearsOf(10),
			wantTotal:    YearsOf(1),
		},
		{
			name:         "Selling costs delay total break-even",
			input:        BreakEvenInput{TotalInvestment: 100000, AnnualCashflow: 1000, SellingCostsPercent: 6},
			wantCashflow: NeverReached(),
			wantTotal:    YearsOf(6),
		},
		{
			name:         "Appreciation covers selling costs",
			input:        BreakEvenInput{TotalInvestment: 100000, AnnualCashflow: -500, AppreciationPercent: 3, SellingCostsPercent: 6},
			wantCashflow: NeverReached(),
			wantTotal:    YearsOf(3),
		},
		{
			name:         "No investment",
			input:        BreakEvenInput{},
			wantCashflow: YearsOf(0),
			wantTotal:    YearsOf(0),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := AnalyzeBreakEven(tt.input)
			if r.BreakEvenYearsCashflow != tt.wantCashflow {
				t.Errorf("cashflow break-even = %v, expected %v", r.BreakEvenYearsCashflow, tt.wantCashflow)
			}
			if r.BreakEvenYearsTotal != tt.wantTotal {
				t.Errorf("total break-even = %v, expected %v", r.BreakEvenYearsTotal, tt.wantTotal)
			}
			if len(r.Projections) != len(ProjectionHorizons) {
				t.Fatalf("expected %d projections, got %d", len(ProjectionHorizons), len(r.Projections))
			}
		})
	}

	t.Run("Never is at least the sentinel", func(t *testing.T) {
		r := AnalyzeBreakEven(BreakEvenInput{TotalInvestment: 400000, AnnualCashflow: -100})
		if r.BreakEvenYearsCashflow.Value < constants.NeverYears {
			t.Errorf("expected >= %d, got %v", constants.NeverYears, r.BreakEvenYearsCashflow.Value)
		}
	})
}

func TestBreakEvenProjections(t *testing.T) {
	r := AnalyzeBreakEven(BreakEvenInput{
		TotalInvestment:     200000,
		AnnualCashflow:      2000,
		AppreciationPercent: 2,
		SellingCostsPercent: 6,
	})

	p := r.Projections[1]
	if p.Years != 10 {
		t.Fatalf("expected 10-year projection, got %d", p.Years)
	}
	value := 200000 * math.Pow(1.02, 10)
	net := value * 0.94
	total := 20000 + net - 200000
	if !mathutil.WithinTolerance(p.PropertyValue, value, 1e-6) {
		t.Errorf("value = %.2f, expected %.2f", p.PropertyValue, value)
	}
	if !mathutil.WithinTolerance(p.TotalReturn, total, 1e-6) {
		t.Errorf("total return = %.2f, expected %.2f", p.TotalReturn, total)
	}
	if !mathutil.WithinTolerance(p.ROIPercent, total/200000*100, 1e-9) {
		t.Errorf("ROI = %.4f", p.ROIPercent)
	}
}

func TestBreakEvenInputFromOutput(t *testing.T) {
	out := property.CalculatePropertyKPIs(property.DefaultInput())
	in := BreakEvenInputFromOutput(out, 1.5, 6)
	if in.TotalInvestment != out.InvestmentVolume.TotalInvestment || in.AnnualCashflow != out.Cashflow.CashflowAfterTax {
		t.Errorf("unexpected break-even input %+v", in)
	}
}

func TestAnalyzeExit(t *testing.T) {
	t.Run("Speculation tax within ten years", func(t *testing.T) {
		r := AnalyzeExit(ExitInput{
			PurchasePriceBasis:  300000,
			CurrentValue:        350000,
			HoldingPeriodYears:  5,
			RemainingDebt:       200000,
			CumulativeCashflow:  10000,
			PersonalTaxRate:     42,
			SellingCostsPercent: 6,
		})
		if !r.SpeculationTaxApplies {
			t.Fatal("expected speculation tax to apply")
		}
		if r.SpeculationTax != r.GrossProfit*42/100 {
			t.Errorf("speculation tax = %.4f, expected %.4f", r.SpeculationTax, r.GrossProfit*42/100)
		}
		if !mathutil.WithinTolerance(r.SellingCosts, 21000, 1e-6) {
			t.Errorf("selling costs = %.2f, expected 21000", r.SellingCosts)
		}
		if !mathutil.WithinTolerance(r.NetProfit, 8000, 1e-6) {
			t.Errorf("net profit = %.2f, expected 8000", r.NetProfit)
		}
		if !mathutil.WithinTolerance(r.TotalReturn, 18000, 1e-6) {
			t.Errorf("total return = %.2f, expected 18000", r.TotalReturn)
		}
		if !mathutil.WithinTolerance(r.NetSaleProceeds, 350000-21000-200000-21000, 1e-6) {
			t.Errorf("net sale proceeds = %.2f", r.NetSaleProceeds)
		}
		want := (math.Pow(318000.0/300000.0, 1.0/5) - 1) * 100
		if !mathutil.WithinTolerance(r.AnnualizedReturn, want, 1e-9) {
			t.Errorf("annualized return = %.6f, expected %.6f", r.AnnualizedReturn, want)
		}
		if r.YearsUntilTaxFree != 5 {
			t.Errorf("years until tax free = %.1f, expected 5", r.YearsUntilTaxFree)
		}
	})

	t.Run("Tax free after ten years", func(t *testing.T) {
		r := AnalyzeExit(ExitInput{PurchasePriceBasis: 300000, CurrentValue: 400000, HoldingPeriodYears: 10, PersonalTaxRate: 42})
		if r.SpeculationTaxApplies || r.SpeculationTax != 0 {
			t.Errorf("expected no speculation tax, got %v / %.2f", r.SpeculationTaxApplies, r.SpeculationTax)
		}
		if r.YearsUntilTaxFree != 0 {
			t.Errorf("years until tax free = %.1f, expected 0", r.YearsUntilTaxFree)
		}
		if !mathutil.WithinTolerance(r.SellingCosts, 24000, 1e-6) {
			t.Errorf("expected default selling costs of 6%%, got %.2f", r.SellingCosts)
		}
	})

	t.Run("No tax on a loss", func(t *testing.T) {
		for _, years := range []float64{3, 5} {
			r := AnalyzeExit(ExitInput{
				PurchasePriceBasis:  300000,
				CurrentValue:        280000,
				HoldingPeriodYears:  years,
				RemainingDebt:       150000,
				PersonalTaxRate:     42,
				SellingCostsPercent: 6,
			})
			if !r.SpeculationTaxApplies {
				t.Errorf("%.0f years: expected speculation period to apply", years)
			}
			if r.GrossProfit != -20000 {
				t.Errorf("%.0f years: gross profit = %.2f, expected -20000", years, r.GrossProfit)
			}
			if r.SpeculationTax != 0 {
				t.Errorf("%.0f years: speculation tax = %.2f, expected 0 on a loss", years, r.SpeculationTax)
			}
			// 6% of 280000 selling costs, no tax refund.
			if !mathutil.WithinTolerance(r.NetProfit, -20000-16800, 1e-6) {
				t.Errorf("%.0f years: net profit = %.2f, expected %.2f", years, r.NetProfit, -20000.0-16800)
			}
			if !mathutil.WithinTolerance(r.NetSaleProceeds, 280000-16800-150000, 1e-6) {
				t.Errorf("%.0f years: net sale proceeds = %.2f", years, r.NetSaleProceeds)
			}
		}
	})

	t.Run("Guards", func(t *testing.T) {
		r := AnalyzeExit(ExitInput{PurchasePriceBasis: 300000, CurrentValue: 300000})
		if r.AnnualizedReturn != 0 {
			t.Errorf("annualized return = %.2f, expected 0 for zero holding period", r.AnnualizedReturn)
		}
		r = AnalyzeExit(ExitInput{PurchasePriceBasis: 100000, CurrentValue: 10000, HoldingPeriodYears: 2, CumulativeCashflow: -200000})
		if r.AnnualizedReturn != -100 {
			t.Errorf("annualized return = %.2f, expected -100", r.AnnualizedReturn)
		}
	})
}

func TestExitInputFromDeal(t *testing.T) {
	deal := property.DefaultInput()
	deal.AppreciationPercent = 2

	in := ExitInputFromDeal(deal, 12, 6)
	series := property.Project(deal, 12)
	last := series[len(series)-1]
	if in.CurrentValue != last.PropertyValue || in.RemainingDebt != last.RemainingDebt || in.CumulativeCashflow != last.CumulativeCashflow {
		t.Errorf("exit input %+v does not match projection %+v", in, last)
	}

	results := CompareExitYears(deal, []int{5, 10, 15}, 6)
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	if !results[0].SpeculationTaxApplies || results[1].SpeculationTaxApplies {
		t.Error("expected speculation tax only for the 5 year exit")
	}
	for i, years := range []float64{5, 10, 15} {
		if results[i].HoldingPeriodYears != years {
			t.Errorf("result %d holding period = %.0f, expected %.0f", i, results[i].HoldingPeriodYears, years)
		}
	}
}

func TestAnalyzeRenovation(t *testing.T) {
	tests := []struct {
		name            string
		input           RenovationInput
		wantTotal       float64
		wantPayback     Years
		wantRecommended bool
	}{
		{
			name:            "Rent increase pays back",
			input:           RenovationInput{EstimatedCost: 15000, ExpectedRentIncrease: 100},
			wantTotal:       15000,
			wantPayback:     YearsOf(12.5),
			wantRecommended: true,
		},
		{
			name:            "Financed renovation",
			input:           RenovationInput{EstimatedCost: 15000, ExpectedRentIncrease: 100, FinancingPercent: 50, FinancingRate: 5},
			wantTotal:       18750,
			wantPayback:     YearsOf(18750.0 / 1200),
			wantRecommended: false,
		},
		{
			name:            "No rent increase",
			input:           RenovationInput{EstimatedCost: 15000},
			wantTotal:       15000,
			wantPayback:     NeverReached(),
			wantRecommended: false,
		},
		{
			name:            "Value increase justifies renovation",
			input:           RenovationInput{EstimatedCost: 20000, ExpectedValueIncrease: 25000},
			wantTotal:       20000,
			wantPayback:     NeverReached(),
			wantRecommended: true,
		},
		{
			name:            "Quick payback",
			input:           RenovationInput{EstimatedCost: 5000, ExpectedRentIncrease: 100},
			wantTotal:       5000,
			wantPayback:     YearsOf(5000.0 / 1200),
			wantRecommended: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := AnalyzeRenovation(tt.input)
			if !mathutil.WithinTolerance(r.TotalCost, tt.wantTotal, 1e-9) {
				t.Errorf("total cost = %.2f, expected %.2f", r.TotalCost, tt.wantTotal)
			}
			if r.PaybackPeriodYears.Never != tt.wantPayback.Never ||
				!mathutil.WithinTolerance(r.PaybackPeriodYears.Value, tt.wantPayback.Value, 1e-9) {
				t.Errorf("payback = %v, expected %v", r.PaybackPeriodYears, tt.wantPayback)
			}
			if r.IsRecommended != tt.wantRecommended {
				t.Errorf("recommended = %v, expected %v (%s)", r.IsRecommended, tt.wantRecommended, r.Recommendation)
			}
			if r.Recommendation == "" {
				t.Error("expected a recommendation text")
			}
		})
	}

	r := AnalyzeRenovation(RenovationInput{EstimatedCost: 15000, ExpectedRentIncrease: 100})
	if r.AnnualRentIncrease != 1200 {
		t.Errorf("annual rent increase = %.2f, expected 1200", r.AnnualRentIncrease)
	}
	if !mathutil.WithinTolerance(r.ROIPercent, 8, 1e-9) {
		t.Errorf("ROI = %.4f, expected 8", r.ROIPercent)
	}
}

func TestScoreLocation(t *testing.T) {
	tests := []struct {
		name  string
		input LocationInput
		score float64
		grade string
		rec   LocationRecommendation
		risk  RiskLevel
	}{
		{
			name: "Prime location",
			input: LocationInput{
				PopulationTrend: "growing", EmploymentLevel: "high", CrimeRate: "low", RentalDemand: "high",
				PublicTransport: 10, Shopping: 10, Schools: 10, Infrastructure: 10,
			},
			score: 100, grade: "A", rec: HighlyRecommended, risk: RiskLow,
		},
		{
			name: "Weak location",
			input: LocationInput{
				PopulationTrend: "declining", EmploymentLevel: "low", CrimeRate: "high", RentalDemand: "low",
				PublicTransport: 1, Shopping: 1, Schools: 1, Infrastructure: 1,
			},
			score: 18.75, grade: "D", rec: NotRecommended, risk: RiskHigh,
		},
		{
			name: "Unknown categories use defaults",
			input: LocationInput{
				PopulationTrend: "booming", EmploymentLevel: "?", CrimeRate: "", RentalDemand: "unknown",
				PublicTransport: 5, Shopping: 5, Schools: 5, Infrastructure: 5,
			},
			score: 57, grade: "C", rec: Neutral, risk: RiskMedium,
		},
		{
			name: "Scores outside range are clamped",
			input: LocationInput{
				PopulationTrend: "Stable", EmploymentLevel: "MEDIUM", CrimeRate: "medium", RentalDemand: "medium",
				PublicTransport: 25, Shopping: 10, Schools: 10, Infrastructure: 10,
			},
			score: 72, grade: "B", rec: Recommended, risk: RiskMedium,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := ScoreLocation(tt.input)
			if !mathutil.WithinTolerance(r.OverallScore, tt.score, 1e-9) {
				t.Errorf("score = %.4f, expected %.4f", r.OverallScore, tt.score)
			}
			if r.Grade != tt.grade {
				t.Errorf("grade = %s, expected %s", r.Grade, tt.grade)
			}
			if r.InvestmentRecommendation != tt.rec {
				t.Errorf("recommendation = %s, expected %s", r.InvestmentRecommendation, tt.rec)
			}
			if r.RiskLevel != tt.risk {
				t.Errorf("risk = %s, expected %s", r.RiskLevel, tt.risk)
			}
		})
	}

	prime := ScoreLocation(tests[0].input)
	if len(prime.Strengths) != 8 || len(prime.Weaknesses) != 0 {
		t.Errorf("prime location strengths=%v weaknesses=%v", prime.Strengths, prime.Weaknesses)
	}
	weak := ScoreLocation(tests[1].input)
	if len(weak.Weaknesses) != 8 || len(weak.Strengths) != 0 {
		t.Errorf("weak location strengths=%v weaknesses=%v", weak.Strengths, weak.Weaknesses)
	}
}

func TestLocationGradeBands(t *testing.T) {
	bands := map[float64]string{100: "A", 80: "A", 79.99: "B", 65: "B", 64.9: "C", 50: "C", 49.9: "D", 0: "D"}
	for score, want := range bands {
		if got := LocationGrade(score); got != want {
			t.Errorf("LocationGrade(%.2f) = %s, expected %s", score, got, want)
		}
	}

	sum := WeightPopulation + WeightEmployment + WeightCrime + WeightDemand +
		WeightTransit + WeightShopping + WeightSchools + WeightInfrastructure
	if !mathutil.WithinTolerance(sum, 1, 1e-12) {
		t.Errorf("weights sum to %.4f, expected 1", sum)
	}
}
