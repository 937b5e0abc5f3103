package property

import (
	"fmt"
	"math"

	"github.com/iwvelando/immo-invest/pkg/cashflow"
	"github.com/iwvelando/immo-invest/pkg/constants"
	"github.com/iwvelando/immo-invest/pkg/financing"
	"github.com/iwvelando/immo-invest/pkg/mathutil"
	"github.com/iwvelando/immo-invest/pkg/tax"
	"go.uber.org/zap"
)

// CalculatePropertyKPIs derives all key figures of a deal. It is pure: the
// same Input always yields an identical Output.
func CalculatePropertyKPIs(in Input) Output {
	sideCosts := tax.SideCosts(in.PurchasePrice, in.BrokerPercent, in.NotaryPercent, in.ResolveTransferTax(), in.FamilyPurchase)
	totalInvestment := in.PurchasePrice + sideCosts.Total + in.RenovationCosts
	loanAmount := math.Max(0, totalInvestment-in.Equity)

	schedule := financing.GenerateSchedule(loanAmount, in.InterestRate, in.RepaymentRate, constants.MaxScheduleYears)
	firstYear, _ := schedule.Row(1)
	summary := financing.Summarize(schedule)

	horizon := in.HorizonYears()
	yearOne := yearlyCashflow(in, firstYear)

	out := Output{
		InvestmentVolume: InvestmentVolume{
			PurchasePrice:   in.PurchasePrice,
			SideCosts:       sideCosts,
			RenovationCosts: in.RenovationCosts,
			TotalInvestment: totalInvestment,
			Equity:          in.Equity,
			EquityRatio:     mathutil.SafePercent(in.Equity, totalInvestment),
		},
		Financing: Financing{
			LoanAmount:                    loanAmount,
			InterestRate:                  in.InterestRate,
			RepaymentRate:                 in.RepaymentRate,
			AnnualPayment:                 summary.AnnualPayment,
			MonthlyPayment:                summary.MonthlyPayment,
			FirstYearInterest:             firstYear.InterestPaid,
			FirstYearPrincipal:            firstYear.PrincipalPaid,
			FixedInterestPeriod:           horizon,
			RemainingDebtAfterFixedPeriod: schedule.RemainingBalance(horizon),
			TotalInterest:                 summary.TotalInterest,
			TotalPrincipal:                summary.TotalPrincipal,
			TotalPaid:                     summary.TotalPaid,
			InterestSharePercent:          schedule.InterestShare(),
			PaidOff:                       summary.PaidOff,
			PayoffYears:                   summary.PayoffYears,
		},
		Cashflow:             yearOne.cashflow,
		Yields:               cashflow.ComputeYields(yearOne.cashflow, totalInvestment, in.Equity, in.PersonalTaxRate),
		Tax:                  yearOne.tax,
		AmortizationSchedule: schedule.Rows,
		CumulativeCashflow:   cumulativeSeries(in, schedule, horizon),
	}
	if out.AmortizationSchedule == nil {
		out.AmortizationSchedule = []financing.Year{}
	}

	return out
}

type yearFigures struct {
	tax      tax.Result
	cashflow cashflow.Result
}

// yearlyCashflow computes the tax effect and cashflow of one schedule year.
// A year past payoff has no debt service and no deductible interest.
func yearlyCashflow(in Input, row financing.Year) yearFigures {
	netRent := cashflow.NetRentalIncome(in.ColdRentActual, in.VacancyRiskPercent)
	operating := cashflow.OperatingCosts(in.NonRecoverableCosts, in.MaintenanceReserve)

	taxResult := tax.Compute(tax.Params{
		PurchasePrice:        in.PurchasePrice,
		BuildingSharePercent: in.BuildingSharePercent,
		AfAType:              in.AfAType,
		InterestPaid:         row.InterestPaid,
		NetRentalIncome:      netRent,
		OperatingCosts:       operating,
		PersonalTaxRate:      in.PersonalTaxRate,
	})

	cf := cashflow.Compute(cashflow.Params{
		ColdRentMonthly:     in.ColdRentActual,
		VacancyRiskPercent:  in.VacancyRiskPercent,
		NonRecoverableCosts: in.NonRecoverableCosts,
		MaintenanceReserve:  in.MaintenanceReserve,
		AnnualDebtService:   row.InterestPaid + row.PrincipalPaid,
		AnnualInterest:      row.InterestPaid,
		AnnualPrincipal:     row.PrincipalPaid,
		TaxEffect:           taxResult.TaxEffect,
	})

	return yearFigures{tax: taxResult, cashflow: cf}
}

// Project extends the cumulative series of a deal over an arbitrary number
// of years, for example a planned holding period longer than the
// fixed-interest period.
func Project(in Input, years int) []CumulativeYear {
	if years <= 0 {
		return []CumulativeYear{}
	}
	sideCosts := tax.SideCosts(in.PurchasePrice, in.BrokerPercent, in.NotaryPercent, in.ResolveTransferTax(), in.FamilyPurchase)
	loanAmount := math.Max(0, in.PurchasePrice+sideCosts.Total+in.RenovationCosts-in.Equity)
	schedule := financing.GenerateSchedule(loanAmount, in.InterestRate, in.RepaymentRate, constants.MaxScheduleYears)
	return cumulativeSeries(in, schedule, years)
}

func cumulativeSeries(in Input, schedule financing.Schedule, horizon int) []CumulativeYear {
	base := in.BaseValue()
	growth := 1 + in.AppreciationPercent/constants.PercentageMultiplier

	series := make([]CumulativeYear, 0, horizon)
	cumulative := 0.0
	for year := 1; year <= horizon; year++ {
		row, _ := schedule.Row(year)
		annual := yearlyCashflow(in, row).cashflow.CashflowAfterTax
		cumulative += annual

		value := base * math.Pow(growth, float64(year))
		debt := schedule.RemainingBalance(year)
		repaid := schedule.PrincipalRepaid(year)

		series = append(series, CumulativeYear{
			Year:               year,
			AnnualCashflow:     annual,
			CumulativeCashflow: cumulative,
			PropertyValue:      value,
			RemainingDebt:      debt,
			PrincipalRepaid:    repaid,
			PropertyEquity:     value - debt,
			NetWorth:           repaid + cumulative + (value - base),
		})
	}
	return series
}

// Calculator runs the aggregation with logging for long-lived callers such
// as the CLI and the API server.
type Calculator struct {
	logger *zap.Logger
}

// NewCalculator creates a new calculator instance.
func NewCalculator(logger *zap.Logger) *Calculator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Calculator{logger: logger}
}

// Calculate runs CalculatePropertyKPIs and logs the headline figures.
func (c *Calculator) Calculate(in Input) Output {
	out := CalculatePropertyKPIs(in)

	c.logger.Debug(fmt.Sprintf("calculated deal: investment %.2f, loan %.2f, monthly cashflow %.2f",
		out.InvestmentVolume.TotalInvestment, out.Financing.LoanAmount, out.Cashflow.MonthlyCashflowAfterTax),
		zap.String("op", "property.Calculate"),
	)
	if !out.Financing.PaidOff {
		c.logger.Debug(fmt.Sprintf("loan not repaid within %d years", constants.MaxScheduleYears),
			zap.String("op", "property.Calculate"),
			zap.Float64("interest_rate", in.InterestRate),
			zap.Float64("repayment_rate", in.RepaymentRate),
		)
	}

	return out
}
