// Package cashflow combines rental income, running costs, debt service and
// the tax effect into the annual cashflow and the yield ratios of a property.
package cashflow

import (
	"github.com/iwvelando/immo-invest/pkg/constants"
	"github.com/iwvelando/immo-invest/pkg/mathutil"
	"github.com/iwvelando/immo-invest/pkg/tax"
)

// Params are the inputs of a cashflow computation. Rent and costs are
// monthly amounts, debt service and tax effect are annual.
type Params struct {
	ColdRentMonthly     float64
	VacancyRiskPercent  float64
	NonRecoverableCosts float64
	MaintenanceReserve  float64
	AnnualDebtService   float64
	AnnualInterest      float64
	AnnualPrincipal     float64
	TaxEffect           float64
}

// Result is the annual cashflow of a property.
type Result struct {
	GrossRentalIncome        float64 `json:"grossRentalIncome"`
	VacancyLoss              float64 `json:"vacancyLoss"`
	NetRentalIncome          float64 `json:"netRentalIncome"`
	OperatingCosts           float64 `json:"operatingCosts"`
	AnnualDebtService        float64 `json:"annualDebtService"`
	InterestPortion          float64 `json:"interestPortion"`
	PrincipalPortion         float64 `json:"principalPortion"`
	TaxEffect                float64 `json:"taxEffect"`
	CashflowBeforeTax        float64 `json:"cashflowBeforeTax"`
	CashflowAfterTax         float64 `json:"cashflowAfterTax"`
	MonthlyCashflowBeforeTax float64 `json:"monthlyCashflowBeforeTax"`
	MonthlyCashflowAfterTax  float64 `json:"monthlyCashflowAfterTax"`
}

// GrossRentalIncome returns the annual cold rent.
func GrossRentalIncome(coldRentMonthly float64) float64 {
	return coldRentMonthly * constants.MonthsPerYear
}

// NetRentalIncome returns the annual cold rent minus the vacancy allowance.
func NetRentalIncome(coldRentMonthly, vacancyRiskPercent float64) float64 {
	gross := GrossRentalIncome(coldRentMonthly)
	return gross - gross*vacancyRiskPercent/constants.PercentageMultiplier
}

// OperatingCosts returns the annual costs the landlord cannot pass on.
func OperatingCosts(nonRecoverableMonthly, maintenanceMonthly float64) float64 {
	return (nonRecoverableMonthly + maintenanceMonthly) * constants.MonthsPerYear
}

// Compute derives the annual cashflow before and after tax.
func Compute(p Params) Result {
	gross := GrossRentalIncome(p.ColdRentMonthly)
	vacancy := gross * p.VacancyRiskPercent / constants.PercentageMultiplier
	net := gross - vacancy
	operating := OperatingCosts(p.NonRecoverableCosts, p.MaintenanceReserve)

	before := net - operating - p.AnnualDebtService
	after := before + p.TaxEffect

	return Result{
		GrossRentalIncome:        gross,
		VacancyLoss:              vacancy,
		NetRentalIncome:          net,
		OperatingCosts:           operating,
		AnnualDebtService:        p.AnnualDebtService,
		InterestPortion:          p.AnnualInterest,
		PrincipalPortion:         p.AnnualPrincipal,
		TaxEffect:                p.TaxEffect,
		CashflowBeforeTax:        before,
		CashflowAfterTax:         after,
		MonthlyCashflowBeforeTax: before / constants.MonthsPerYear,
		MonthlyCashflowAfterTax:  after / constants.MonthsPerYear,
	}
}

// Yields holds the yield ratios of a property in percent.
type Yields struct {
	GrossRentalYield          float64 `json:"grossRentalYield"`
	NetRentalYield            float64 `json:"netRentalYield"`
	ReturnOnEquity            float64 `json:"returnOnEquity"`
	CashflowYield             float64 `json:"cashflowYield"`
	EffectiveNetYieldAfterTax float64 `json:"effectiveNetYieldAfterTax"`
}

// ComputeYields derives the yield ratios. Every ratio is 0 when its
// denominator is not positive.
func ComputeYields(cf Result, totalInvestment, equity, personalTaxRate float64) Yields {
	net := mathutil.SafePercent(cf.NetRentalIncome, totalInvestment)
	return Yields{
		GrossRentalYield:          mathutil.SafePercent(cf.GrossRentalIncome, totalInvestment),
		NetRentalYield:            net,
		ReturnOnEquity:            mathutil.SafePercent(cf.CashflowAfterTax, equity),
		CashflowYield:             mathutil.SafePercent(cf.CashflowAfterTax, totalInvestment),
		EffectiveNetYieldAfterTax: tax.EffectiveYieldAfterTax(net, personalTaxRate),
	}
}
