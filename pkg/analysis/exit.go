package analysis

import (
	"math"

	"github.com/iwvelando/immo-invest/pkg/constants"
	"github.com/iwvelando/immo-invest/pkg/property"
	"github.com/iwvelando/immo-invest/pkg/tax"
)

// ExitInput holds the parameters of a sale after a holding period.
type ExitInput struct {
	PurchasePriceBasis  float64 `json:"purchasePriceBasis"`
	CurrentValue        float64 `json:"currentValue"`
	HoldingPeriodYears  float64 `json:"holdingPeriodYears"`
	RemainingDebt       float64 `json:"remainingDebt"`
	CumulativeCashflow  float64 `json:"cumulativeCashflow"`
	PersonalTaxRate     float64 `json:"personalTaxRate"`
	SellingCostsPercent float64 `json:"sellingCostsPercent"`
}

// ExitResult is the outcome of selling the property.
type ExitResult struct {
	HoldingPeriodYears    float64 `json:"holdingPeriodYears"`
	GrossProfit           float64 `json:"grossProfit"`
	SellingCosts          float64 `json:"sellingCosts"`
	SpeculationTaxApplies bool    `json:"speculationTaxApplies"`
	SpeculationTax        float64 `json:"speculationTax"`
	NetProfit             float64 `json:"netProfit"`
	NetSaleProceeds       float64 `json:"netSaleProceeds"`
	TotalReturn           float64 `json:"totalReturn"`
	AnnualizedReturn      float64 `json:"annualizedReturn"`
	YearsUntilTaxFree     float64 `json:"yearsUntilTaxFree"`
}

// ExitInputFromDeal projects a deal to the end of the holding period. The
// property value compounds with the deal's appreciation.
func ExitInputFromDeal(in property.Input, holdingYears int, sellingCostsPercent float64) ExitInput {
	exit := ExitInput{
		PurchasePriceBasis:  in.PurchasePrice,
		CurrentValue:        in.BaseValue(),
		HoldingPeriodYears:  float64(holdingYears),
		PersonalTaxRate:     in.PersonalTaxRate,
		SellingCostsPercent: sellingCostsPercent,
	}
	series := property.Project(in, holdingYears)
	if len(series) > 0 {
		last := series[len(series)-1]
		exit.CurrentValue = last.PropertyValue
		exit.RemainingDebt = last.RemainingDebt
		exit.CumulativeCashflow = last.CumulativeCashflow
	}
	return exit
}

// AnalyzeExit computes the proceeds and returns of a sale. Speculation tax
// applies to a positive gross profit when the holding period is shorter
// than constants.SpeculationPeriodYears.
func AnalyzeExit(in ExitInput) ExitResult {
	sellingPercent := in.SellingCostsPercent
	if sellingPercent <= 0 {
		sellingPercent = constants.DefaultSellingCostsPercent
	}

	gross := in.CurrentValue - in.PurchasePriceBasis
	selling := in.CurrentValue * sellingPercent / constants.PercentageMultiplier
	applies := tax.SpeculationTaxApplies(in.HoldingPeriodYears)

	speculation := 0.0
	if applies && gross > 0 {
		speculation = gross * in.PersonalTaxRate / constants.PercentageMultiplier
	}

	net := gross - selling - speculation
	total := net + in.CumulativeCashflow

	return ExitResult{
		HoldingPeriodYears:    in.HoldingPeriodYears,
		GrossProfit:           gross,
		SellingCosts:          selling,
		SpeculationTaxApplies: applies,
		SpeculationTax:        speculation,
		NetProfit:             net,
		NetSaleProceeds:       in.CurrentValue - selling - in.RemainingDebt - speculation,
		TotalReturn:           total,
		AnnualizedReturn:      annualizedReturn(total, in.PurchasePriceBasis, in.HoldingPeriodYears),
		YearsUntilTaxFree:     math.Max(0, constants.SpeculationPeriodYears-in.HoldingPeriodYears),
	}
}

// annualizedReturn converts a total return into a yearly compound rate in
// percent. The compounded quantity is the wealth ratio
// (basis+totalReturn)/basis, the final wealth per euro of basis, not the
// bare return ratio totalReturn/basis. A total loss of the basis or worse
// reports -100.
func annualizedReturn(totalReturn, basis, years float64) float64 {
	if years <= 0 || basis <= 0 {
		return 0
	}
	ratio := (basis + totalReturn) / basis
	if ratio <= 0 {
		return -constants.PercentageMultiplier
	}
	return (math.Pow(ratio, 1/years) - 1) * constants.PercentageMultiplier
}

// CompareExitYears evaluates a sale after each of the given holding periods.
func CompareExitYears(in property.Input, holdingYears []int, sellingCostsPercent float64) []ExitResult {
	results := make([]ExitResult, 0, len(holdingYears))
	for _, years := range holdingYears {
		results = append(results, AnalyzeExit(ExitInputFromDeal(in, years, sellingCostsPercent)))
	}
	return results
}
