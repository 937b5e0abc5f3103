package analysis

import (
	"github.com/iwvelando/immo-invest/pkg/constants"
	"github.com/iwvelando/immo-invest/pkg/mathutil"
)

// RenovationInput describes a planned renovation.
type RenovationInput struct {
	EstimatedCost float64 `json:"estimatedCost"`
	// ExpectedRentIncrease is monthly.
	ExpectedRentIncrease  float64 `json:"expectedRentIncrease"`
	ExpectedValueIncrease float64 `json:"expectedValueIncrease"`
	FinancingPercent      float64 `json:"financingPercent"`
	FinancingRate         float64 `json:"financingRate"`
	FinancingTermYears    int     `json:"financingTermYears"`
}

// RenovationResult reports the return of a renovation.
type RenovationResult struct {
	FinancingCosts     float64 `json:"financingCosts"`
	TotalCost          float64 `json:"totalCost"`
	AnnualRentIncrease float64 `json:"annualRentIncrease"`
	PaybackPeriodYears Years   `json:"paybackPeriodYears"`
	ROIPercent         float64 `json:"roiPercent"`
	ValueIncreaseROI   float64 `json:"valueIncreaseRoi"`
	IsRecommended      bool    `json:"isRecommended"`
	Recommendation     string  `json:"recommendation"`
}

// AnalyzeRenovation computes the payback and ROI of a renovation. Financed
// parts accrue simple interest over the financing term.
func AnalyzeRenovation(in RenovationInput) RenovationResult {
	financingCosts := 0.0
	if in.FinancingPercent > 0 {
		term := in.FinancingTermYears
		if term <= 0 {
			term = DefaultRenovationTermYears
		}
		financed := in.EstimatedCost * in.FinancingPercent / constants.PercentageMultiplier
		financingCosts = financed * in.FinancingRate / constants.PercentageMultiplier * float64(term)
	}

	totalCost := in.EstimatedCost + financingCosts
	annualIncrease := in.ExpectedRentIncrease * constants.MonthsPerYear

	payback := NeverReached()
	switch {
	case totalCost <= 0:
		payback = YearsOf(0)
	case annualIncrease > 0:
		payback = YearsOf(totalCost / annualIncrease)
	}

	roi := mathutil.SafePercent(annualIncrease, totalCost)
	valueROI := mathutil.SafePercent(in.ExpectedValueIncrease, totalCost)

	result := RenovationResult{
		FinancingCosts:     financingCosts,
		TotalCost:          totalCost,
		AnnualRentIncrease: annualIncrease,
		PaybackPeriodYears: payback,
		ROIPercent:         roi,
		ValueIncreaseROI:   valueROI,
	}
	for _, rule := range renovationRules {
		if rule.matches(roi, payback.Value, valueROI) {
			result.IsRecommended = rule.recommended
			result.Recommendation = rule.recommendation
			break
		}
	}
	return result
}
