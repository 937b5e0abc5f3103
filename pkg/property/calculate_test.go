package property

import (
	"math"
	"reflect"
	"testing"

	"github.com/iwvelando/immo-invest/pkg/mathutil"
	"go.uber.org/zap"
)

func sampleInput() Input {
	return Input{
		PurchasePrice:        300000,
		Equity:               60000,
		BrokerPercent:        3.57,
		NotaryPercent:        2.0,
		TransferTaxPercent:   6.5,
		InterestRate:         3.5,
		RepaymentRate:        2.0,
		FixedInterestPeriod:  10,
		ColdRentActual:       1000,
		ColdRentTarget:       1100,
		NonRecoverableCosts:  100,
		MaintenanceReserve:   50,
		VacancyRiskPercent:   5,
		AfAType:              "altbau-ab-1925",
		BuildingSharePercent: 75,
		PersonalTaxRate:      42,
	}
}

func TestCalculatePropertyKPIs(t *testing.T) {
	out := CalculatePropertyKPIs(sampleInput())

	// 300000 * (3.57 + 2 + 6.5)% = 36210
	if !mathutil.WithinTolerance(out.InvestmentVolume.SideCosts.Total, 36210, 1e-6) {
		t.Errorf("side costs = %.2f, expected 36210", out.InvestmentVolume.SideCosts.Total)
	}
	if !mathutil.WithinTolerance(out.InvestmentVolume.TotalInvestment, 336210, 1e-6) {
		t.Errorf("total investment = %.2f, expected 336210", out.InvestmentVolume.TotalInvestment)
	}
	if !mathutil.WithinTolerance(out.Financing.LoanAmount, 276210, 1e-6) {
		t.Errorf("loan = %.2f, expected 276210", out.Financing.LoanAmount)
	}

	annuity := 276210 * 0.055
	if !mathutil.WithinTolerance(out.Financing.AnnualPayment, annuity, 1e-6) {
		t.Errorf("annual payment = %.2f, expected %.2f", out.Financing.AnnualPayment, annuity)
	}
	if !mathutil.WithinTolerance(out.Cashflow.AnnualDebtService, annuity, 1e-6) {
		t.Errorf("debt service = %.2f, expected %.2f", out.Cashflow.AnnualDebtService, annuity)
	}

	interest := 276210 * 0.035
	if !mathutil.WithinTolerance(out.Tax.DeductibleInterest, interest, 1e-6) {
		t.Errorf("deductible interest = %.2f, expected %.2f", out.Tax.DeductibleInterest, interest)
	}
	if !mathutil.WithinTolerance(out.Tax.AfAAmount, 4500, 1e-6) {
		t.Errorf("AfA = %.2f, expected 4500", out.Tax.AfAAmount)
	}

	netRent := 11400.0
	operating := 1800.0
	taxable := netRent - (4500 + interest + operating)
	taxEffect := -taxable * 0.42
	before := netRent - operating - annuity
	if !mathutil.WithinTolerance(out.Cashflow.CashflowBeforeTax, before, 1e-6) {
		t.Errorf("cashflow before tax = %.2f, expected %.2f", out.Cashflow.CashflowBeforeTax, before)
	}
	if !mathutil.WithinTolerance(out.Cashflow.CashflowAfterTax, before+taxEffect, 1e-6) {
		t.Errorf("cashflow after tax = %.2f, expected %.2f", out.Cashflow.CashflowAfterTax, before+taxEffect)
	}

	if len(out.CumulativeCashflow) != 10 {
		t.Fatalf("expected 10 cumulative points, got %d", len(out.CumulativeCashflow))
	}
	if !out.Financing.PaidOff {
		t.Error("expected loan to be paid off within the schedule cap")
	}
	if !mathutil.WithinTolerance(out.Financing.RemainingDebtAfterFixedPeriod, out.CumulativeCashflow[9].RemainingDebt, 1e-9) {
		t.Errorf("remaining debt after fixed period %.2f != series value %.2f",
			out.Financing.RemainingDebtAfterFixedPeriod, out.CumulativeCashflow[9].RemainingDebt)
	}

	// A paid-off loan repays its full amount.
	if !mathutil.WithinTolerance(out.Financing.TotalPrincipal, 276210, 1e-6) {
		t.Errorf("total principal = %.2f, expected 276210", out.Financing.TotalPrincipal)
	}
	if !mathutil.WithinTolerance(out.Financing.TotalPaid, out.Financing.TotalInterest+276210, 1e-6) {
		t.Errorf("total paid = %.2f, expected %.2f", out.Financing.TotalPaid, out.Financing.TotalInterest+276210)
	}
	if !mathutil.WithinTolerance(out.Financing.InterestSharePercent, 3.5/5.5*100, 1e-9) {
		t.Errorf("interest share = %.4f, expected %.4f", out.Financing.InterestSharePercent, 3.5/5.5*100)
	}
}

func TestCumulativeSeries(t *testing.T) {
	in := sampleInput()
	in.AppreciationPercent = 2
	out := CalculatePropertyKPIs(in)

	cumulative := 0.0
	for i, point := range out.CumulativeCashflow {
		if point.Year != i+1 {
			t.Errorf("point %d has year %d", i, point.Year)
		}
		cumulative += point.AnnualCashflow
		if !mathutil.WithinTolerance(point.CumulativeCashflow, cumulative, 1e-6) {
			t.Errorf("year %d cumulative = %.2f, expected %.2f", point.Year, point.CumulativeCashflow, cumulative)
		}

		value := 300000 * math.Pow(1.02, float64(point.Year))
		if !mathutil.WithinTolerance(point.PropertyValue, value, 1e-6) {
			t.Errorf("year %d value = %.2f, expected %.2f", point.Year, point.PropertyValue, value)
		}

		expectedNetWorth := point.PrincipalRepaid + point.CumulativeCashflow + (point.PropertyValue - 300000)
		if !mathutil.WithinTolerance(point.NetWorth, expectedNetWorth, 1e-6) {
			t.Errorf("year %d net worth = %.2f, expected %.2f", point.Year, point.NetWorth, expectedNetWorth)
		}
		if !mathutil.WithinTolerance(point.PropertyEquity, point.PropertyValue-point.RemainingDebt, 1e-6) {
			t.Errorf("year %d property equity inconsistent", point.Year)
		}
	}

	// Interest falls each year, which shrinks the tax refund.
	if out.CumulativeCashflow[0].AnnualCashflow == out.CumulativeCashflow[9].AnnualCashflow {
		t.Error("expected yearly cashflow to follow the amortization schedule")
	}
}

func TestCalculatePropertyKPIsIdempotent(t *testing.T) {
	in := sampleInput()
	first := CalculatePropertyKPIs(in)
	second := CalculatePropertyKPIs(in)
	if !reflect.DeepEqual(first, second) {
		t.Error("expected identical output for identical input")
	}
}

func TestCalculatePropertyKPIsEdgeCases(t *testing.T) {
	t.Run("Zero equity", func(t *testing.T) {
		in := sampleInput()
		in.Equity = 0
		out := CalculatePropertyKPIs(in)
		if out.Yields.ReturnOnEquity != 0 {
			t.Errorf("return on equity = %v, expected 0", out.Yields.ReturnOnEquity)
		}
		if out.InvestmentVolume.EquityRatio != 0 {
			t.Errorf("equity ratio = %v, expected 0", out.InvestmentVolume.EquityRatio)
		}
	})

	t.Run("Empty input", func(t *testing.T) {
		out := CalculatePropertyKPIs(Input{})
		if out.Yields.CashflowYield != 0 || out.Yields.GrossRentalYield != 0 {
			t.Errorf("expected zero yields, got %+v", out.Yields)
		}
		if len(out.AmortizationSchedule) != 0 {
			t.Errorf("expected empty schedule, got %d rows", len(out.AmortizationSchedule))
		}
		if out.AmortizationSchedule == nil {
			t.Error("expected non-nil empty schedule")
		}
		for _, p := range out.CumulativeCashflow {
			if math.IsNaN(p.NetWorth) || math.IsInf(p.NetWorth, 0) {
				t.Fatalf("year %d net worth is not finite", p.Year)
			}
		}
	})

	t.Run("Equity exceeds investment", func(t *testing.T) {
		in := sampleInput()
		in.Equity = 500000
		out := CalculatePropertyKPIs(in)
		if out.Financing.LoanAmount != 0 {
			t.Errorf("loan = %.2f, expected 0", out.Financing.LoanAmount)
		}
		if out.Cashflow.AnnualDebtService != 0 {
			t.Errorf("debt service = %.2f, expected 0", out.Cashflow.AnnualDebtService)
		}
	})

	t.Run("Family purchase", func(t *testing.T) {
		in := sampleInput()
		in.FamilyPurchase = true
		out := CalculatePropertyKPIs(in)
		if !mathutil.WithinTolerance(out.InvestmentVolume.SideCosts.Total, 6000, 1e-6) {
			t.Errorf("side costs = %.2f, expected 6000", out.InvestmentVolume.SideCosts.Total)
		}
	})

	t.Run("Transfer tax from state", func(t *testing.T) {
		in := sampleInput()
		in.TransferTaxPercent = 0
		in.State = "BY"
		out := CalculatePropertyKPIs(in)
		if !mathutil.WithinTolerance(out.InvestmentVolume.SideCosts.TransferTax, 10500, 1e-6) {
			t.Errorf("transfer tax = %.2f, expected 10500", out.InvestmentVolume.SideCosts.TransferTax)
		}
	})

	t.Run("Default horizon", func(t *testing.T) {
		in := sampleInput()
		in.FixedInterestPeriod = 0
		out := CalculatePropertyKPIs(in)
		if len(out.CumulativeCashflow) != 10 {
			t.Errorf("expected default horizon of 10, got %d", len(out.CumulativeCashflow))
		}
	})

	t.Run("Market value as base", func(t *testing.T) {
		in := sampleInput()
		in.MarketValue = 320000
		out := CalculatePropertyKPIs(in)
		if out.CumulativeCashflow[0].PropertyValue != 320000 {
			t.Errorf("property value = %.2f, expected 320000", out.CumulativeCashflow[0].PropertyValue)
		}
	})
}

func TestCalculator(t *testing.T) {
	c := NewCalculator(nil)
	in := sampleInput()
	if !reflect.DeepEqual(c.Calculate(in), CalculatePropertyKPIs(in)) {
		t.Error("Calculator output differs from CalculatePropertyKPIs")
	}

	c = NewCalculator(zap.NewNop())
	in.RepaymentRate = 0
	out := c.Calculate(in)
	if out.Financing.PaidOff {
		t.Error("expected interest-only loan to stay outstanding")
	}
}

func TestInputHelpers(t *testing.T) {
	in := DefaultInput()
	if in.HorizonYears() != 10 {
		t.Errorf("HorizonYears() = %d, expected 10", in.HorizonYears())
	}
	if in.BaseValue() != in.PurchasePrice {
		t.Errorf("BaseValue() = %.2f, expected purchase price", in.BaseValue())
	}
	in.TransferTaxPercent = 0
	in.State = "NW"
	if in.ResolveTransferTax() != 6.5 {
		t.Errorf("ResolveTransferTax() = %.2f, expected 6.5", in.ResolveTransferTax())
	}
	in.State = ""
	if in.ResolveTransferTax() != 0 {
		t.Errorf("ResolveTransferTax() = %.2f, expected 0", in.ResolveTransferTax())
	}
}

func TestProject(t *testing.T) {
	in := sampleInput()
	out := CalculatePropertyKPIs(in)

	series := Project(in, 15)
	if len(series) != 15 {
		t.Fatalf("expected 15 points, got %d", len(series))
	}
	if !reflect.DeepEqual(series[:10], out.CumulativeCashflow) {
		t.Error("expected projection to extend the cumulative series")
	}
	if len(Project(in, 0)) != 0 {
		t.Error("expected empty projection for zero years")
	}
}
