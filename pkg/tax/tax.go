package tax

import (
	"github.com/iwvelando/immo-invest/pkg/constants"
)

// Params are the inputs of one year's rental tax computation.
type Params struct {
	PurchasePrice        float64
	BuildingSharePercent float64
	AfAType              AfAType
	// InterestPaid is the interest of the year being assessed.
	InterestPaid    float64
	NetRentalIncome float64
	OperatingCosts  float64
	PersonalTaxRate float64
}

// Result is the tax effect of one year of renting.
type Result struct {
	AfARate            float64 `json:"afaRate"`
	AfAAmount          float64 `json:"afaAmount"`
	DeductibleInterest float64 `json:"deductibleInterest"`
	OperatingCosts     float64 `json:"operatingCosts"`
	TotalDeductions    float64 `json:"totalDeductions"`
	// TaxableIncome is negative for a tax loss.
	TaxableIncome float64 `json:"taxableIncome"`
	// TaxEffect is positive for a refund and negative for a tax payment.
	TaxEffect        float64 `json:"taxEffect"`
	MonthlyTaxEffect float64 `json:"monthlyTaxEffect"`
}

// Compute derives the tax effect of renting out a property for one year.
// Values are not rounded.
func Compute(p Params) Result {
	rule, _ := LookupAfA(p.AfAType)
	afa := AfAAmount(p.PurchasePrice, p.BuildingSharePercent, p.AfAType)
	deductions := afa + p.InterestPaid + p.OperatingCosts
	taxable := p.NetRentalIncome - deductions
	effect := -taxable * p.PersonalTaxRate / constants.PercentageMultiplier

	return Result{
		AfARate:            rule.RatePercent,
		AfAAmount:          afa,
		DeductibleInterest: p.InterestPaid,
		OperatingCosts:     p.OperatingCosts,
		TotalDeductions:    deductions,
		TaxableIncome:      taxable,
		TaxEffect:          effect,
		MonthlyTaxEffect:   effect / constants.MonthsPerYear,
	}
}

// EffectiveYieldAfterTax reduces a yield by the personal marginal tax rate.
func EffectiveYieldAfterTax(yieldPercent, personalTaxRate float64) float64 {
	return yieldPercent * (1 - personalTaxRate/constants.PercentageMultiplier)
}

// SpeculationTaxApplies reports whether a sale after the given holding period
// is subject to speculation tax.
func SpeculationTaxApplies(holdingPeriodYears float64) bool {
	return holdingPeriodYears < constants.SpeculationPeriodYears
}
