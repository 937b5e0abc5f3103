package cashflow

import (
	"math"
	"testing"

	"github.com/iwvelando/immo-invest/pkg/mathutil"
)

func TestCompute(t *testing.T) {
	tests := []struct {
		name             string
		params           Params
		wantNet          float64
		wantOperating    float64
		wantBeforeTax    float64
		wantAfterTax     float64
		wantMonthlyAfter float64
	}{
		{
			name: "Negative cashflow offset by tax refund",
			params: Params{
				ColdRentMonthly:     1000,
				VacancyRiskPercent:  5,
				NonRecoverableCosts: 100,
				MaintenanceReserve:  50,
				AnnualDebtService:   16500,
				TaxEffect:           2268,
			},
			wantNet:          11400,
			wantOperating:    1800,
			wantBeforeTax:    11400 - 1800 - 16500,
			wantAfterTax:     11400 - 1800 - 16500 + 2268,
			wantMonthlyAfter: (11400 - 1800 - 16500 + 2268) / 12.0,
		},
		{
			name: "Debt free",
			params: Params{
				ColdRentMonthly: 800,
			},
			wantNet:          9600,
			wantOperating:    0,
			wantBeforeTax:    9600,
			wantAfterTax:     9600,
			wantMonthlyAfter: 800,
		},
		{
			name:             "Nothing rented",
			params:           Params{AnnualDebtService: 1200},
			wantBeforeTax:    -1200,
			wantAfterTax:     -1200,
			wantMonthlyAfter: -100,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Compute(tt.params)
			checks := []struct {
				field    string
				got      float64
				expected float64
			}{
				{"NetRentalIncome", r.NetRentalIncome, tt.wantNet},
				{"OperatingCosts", r.OperatingCosts, tt.wantOperating},
				{"CashflowBeforeTax", r.CashflowBeforeTax, tt.wantBeforeTax},
				{"CashflowAfterTax", r.CashflowAfterTax, tt.wantAfterTax},
				{"MonthlyCashflowAfterTax", r.MonthlyCashflowAfterTax, tt.wantMonthlyAfter},
			}
			for _, c := range checks {
				if !mathutil.WithinTolerance(c.got, c.expected, 1e-9) {
					t.Errorf("%s = %.4f, expected %.4f", c.field, c.got, c.expected)
				}
			}
			if !mathutil.WithinTolerance(r.GrossRentalIncome-r.VacancyLoss, r.NetRentalIncome, 1e-9) {
				t.Errorf("gross - vacancy != net")
			}
		})
	}
}

func TestHelpers(t *testing.T) {
	if got := GrossRentalIncome(950); got != 11400 {
		t.Errorf("GrossRentalIncome() = %.2f, expected 11400", got)
	}
	if got := NetRentalIncome(1000, 10); !mathutil.WithinTolerance(got, 10800, 1e-9) {
		t.Errorf("NetRentalIncome() = %.2f, expected 10800", got)
	}
	if got := OperatingCosts(120, 80); got != 2400 {
		t.Errorf("OperatingCosts() = %.2f, expected 2400", got)
	}
}

func TestComputeYields(t *testing.T) {
	cf := Result{
		GrossRentalIncome: 12000,
		NetRentalIncome:   11400,
		CashflowAfterTax:  -4632,
	}

	y := ComputeYields(cf, 336210, 60000, 42)
	if !mathutil.WithinTolerance(y.GrossRentalYield, 12000/336210.0*100, 1e-9) {
		t.Errorf("GrossRentalYield = %.4f", y.GrossRentalYield)
	}
	if !mathutil.WithinTolerance(y.NetRentalYield, 11400/336210.0*100, 1e-9) {
		t.Errorf("NetRentalYield = %.4f", y.NetRentalYield)
	}
	if !mathutil.WithinTolerance(y.ReturnOnEquity, -4632/60000.0*100, 1e-9) {
		t.Errorf("ReturnOnEquity = %.4f", y.ReturnOnEquity)
	}
	if !mathutil.WithinTolerance(y.EffectiveNetYieldAfterTax, y.NetRentalYield*0.58, 1e-9) {
		t.Errorf("EffectiveNetYieldAfterTax = %.4f", y.EffectiveNetYieldAfterTax)
	}
}

func TestComputeYieldsZeroDenominators(t *testing.T) {
	cf := Result{GrossRentalIncome: 12000, NetRentalIncome: 11400, CashflowAfterTax: 500}

	y := ComputeYields(cf, 0, 0, 42)
	for name, v := range map[string]float64{
		"GrossRentalYield": y.GrossRentalYield,
		"NetRentalYield":   y.NetRentalYield,
		"ReturnOnEquity":   y.ReturnOnEquity,
		"CashflowYield":    y.CashflowYield,
	} {
		if v != 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			t.Errorf("%s = %v, expected 0", name, v)
		}
	}
}
