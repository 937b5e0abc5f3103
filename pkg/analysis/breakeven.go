package analysis

import (
	"math"

	"github.com/iwvelando/immo-invest/pkg/constants"
	"github.com/iwvelando/immo-invest/pkg/mathutil"
	"github.com/iwvelando/immo-invest/pkg/property"
)

// BreakEvenInput holds the parameters of a break-even analysis.
type BreakEvenInput struct {
	TotalInvestment     float64 `json:"totalInvestment"`
	AnnualCashflow      float64 `json:"annualCashflow"`
	AppreciationPercent float64 `json:"appreciationPercent"`
	SellingCostsPercent float64 `json:"sellingCostsPercent"`
}

// Projection is the outcome of selling after a fixed number of years.
type Projection struct {
	Years              int     `json:"years"`
	CumulativeCashflow float64 `json:"cumulativeCashflow"`
	PropertyValue      float64 `json:"propertyValue"`
	NetSaleProceeds    float64 `json:"netSaleProceeds"`
	TotalReturn        float64 `json:"totalReturn"`
	ROIPercent         float64 `json:"roiPercent"`
}

// BreakEvenResult reports when an investment pays for itself.
type BreakEvenResult struct {
	// BreakEvenYearsCashflow counts the years until the cumulative cashflow
	// alone repays the investment.
	BreakEvenYearsCashflow Years `json:"breakEvenYearsCashflow"`
	// BreakEvenYearsTotal also counts the net proceeds of a sale.
	BreakEvenYearsTotal Years        `json:"breakEvenYearsTotal"`
	Projections         []Projection `json:"projections"`
}

// BreakEvenInputFromOutput builds a break-even input from a calculated deal.
func BreakEvenInputFromOutput(out property.Output, appreciationPercent, sellingCostsPercent float64) BreakEvenInput {
	return BreakEvenInput{
		TotalInvestment:     out.InvestmentVolume.TotalInvestment,
		AnnualCashflow:      out.Cashflow.CashflowAfterTax,
		AppreciationPercent: appreciationPercent,
		SellingCostsPercent: sellingCostsPercent,
	}
}

// AnalyzeBreakEven computes the break-even years and the fixed horizon
// projections. Years are whole years; a target not reached before
// constants.NeverYears is reported as never.
func AnalyzeBreakEven(in BreakEvenInput) BreakEvenResult {
	result := BreakEvenResult{
		BreakEvenYearsCashflow: NeverReached(),
		BreakEvenYearsTotal:    NeverReached(),
		Projections:            make([]Projection, 0, len(ProjectionHorizons)),
	}

	if in.TotalInvestment <= 0 {
		result.BreakEvenYearsCashflow = YearsOf(0)
		result.BreakEvenYearsTotal = YearsOf(0)
	} else {
		if in.AnnualCashflow > 0 {
			for year := 1; year < constants.NeverYears; year++ {
				if in.AnnualCashflow*float64(year) >= in.TotalInvestment {
					result.BreakEvenYearsCashflow = YearsOf(float64(year))
					break
				}
			}
		}
		for year := 1; year < constants.NeverYears; year++ {
			if project(in, year).TotalReturn >= 0 {
				result.BreakEvenYearsTotal = YearsOf(float64(year))
				break
			}
		}
	}

	for _, horizon := range ProjectionHorizons {
		result.Projections = append(result.Projections, project(in, horizon))
	}
	return result
}

// project sells the property after the given number of years. TotalReturn
// is the cumulative cashflow plus net sale proceeds minus the investment.
func project(in BreakEvenInput, year int) Projection {
	cumulative := in.AnnualCashflow * float64(year)
	value := in.TotalInvestment * math.Pow(1+in.AppreciationPercent/constants.PercentageMultiplier, float64(year))
	net := value * (1 - in.SellingCostsPercent/constants.PercentageMultiplier)
	total := cumulative + net - in.TotalInvestment
	return Projection{
		Years:              year,
		CumulativeCashflow: cumulative,
		PropertyValue:      value,
		NetSaleProceeds:    net,
		TotalReturn:        total,
		ROIPercent:         mathutil.SafePercent(total, in.TotalInvestment),
	}
}
