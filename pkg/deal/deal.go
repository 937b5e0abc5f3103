// Package deal scores a property deal with a fixed, rule-based weighting of
// cashflow, yield, financing, location and rent potential.
package deal

import (
	"github.com/iwvelando/immo-invest/pkg/analysis"
	"github.com/iwvelando/immo-invest/pkg/constants"
	"github.com/iwvelando/immo-invest/pkg/mathutil"
	"github.com/iwvelando/immo-invest/pkg/property"
)

// Rating is the overall quality band of a deal.
type Rating string

const (
	Excellent Rating = "EXCELLENT"
	Good      Rating = "GOOD"
	Fair      Rating = "FAIR"
	Poor      Rating = "POOR"
)

// Recommendation is the investment verdict.
type Recommendation string

const (
	StrongBuy Recommendation = "STRONG_BUY"
	Buy       Recommendation = "BUY"
	Hold      Recommendation = "HOLD"
	Avoid     Recommendation = "AVOID"
)

// Severity of a risk.
type Severity string

const (
	Low      Severity = "LOW"
	Medium   Severity = "MEDIUM"
	High     Severity = "HIGH"
	Critical Severity = "CRITICAL"
)

// Risk categories.
const (
	CategoryCashflow   = "cashflow"
	CategoryFinancing  = "financing"
	CategoryYield      = "yield"
	CategoryLocation   = "location"
	CategoryOperations = "operations"
	CategoryMarket     = "market"
)

// Risk is a single flagged issue of a deal.
type Risk struct {
	Severity    Severity `json:"severity"`
	Category    string   `json:"category"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Mitigation  string   `json:"mitigation,omitempty"`
}

// Scores are the sub-scores, each 0-100.
type Scores struct {
	Cashflow  float64 `json:"cashflow"`
	Yield     float64 `json:"yield"`
	Financing float64 `json:"financing"`
	Location  float64 `json:"location"`
	Potential float64 `json:"potential"`
}

// Result is the scored deal.
type Result struct {
	OverallScore   float64        `json:"overallScore"`
	Rating         Rating         `json:"rating"`
	Recommendation Recommendation `json:"recommendation"`
	Scores         Scores         `json:"scores"`
	Risks          []Risk         `json:"risks"`
	CriticalRisks  int            `json:"criticalRisks"`
	Strengths      []string       `json:"strengths"`
	Weaknesses     []string       `json:"weaknesses"`
}

// Analyze scores a calculated deal. location may be nil, in which case the
// location sub-score is DefaultLocationScore.
func Analyze(in property.Input, out property.Output, location *analysis.LocationResult) Result {
	scores := Scores{
		Cashflow:  cashflowPoints.points(out.Cashflow.MonthlyCashflowAfterTax),
		Yield:     yieldPoints.points(out.Yields.GrossRentalYield),
		Financing: (equityPoints.points(out.InvestmentVolume.EquityRatio) + interestPoints.points(in.InterestRate)) / 2,
		Location:  DefaultLocationScore,
		Potential: potentialPoints.points(RentUpside(in)),
	}
	if location != nil {
		scores.Location = location.OverallScore
	}

	overall := scores.Cashflow*WeightCashflow +
		scores.Yield*WeightYield +
		scores.Financing*WeightFinancing +
		scores.Location*WeightLocation +
		scores.Potential*WeightPotential
	overall = mathutil.Clamp(overall, 0, 100)

	risks := assessRisks(in, out, location)
	critical := 0
	for _, r := range risks {
		if r.Severity == Critical {
			critical++
		}
	}

	result := Result{
		OverallScore:   overall,
		Rating:         rate(overall),
		Recommendation: recommend(overall, critical),
		Scores:         scores,
		Risks:          risks,
		CriticalRisks:  critical,
		Strengths:      []string{},
		Weaknesses:     []string{},
	}
	for _, label := range scoreLabels {
		s := label.score(scores)
		switch {
		case s >= StrengthScore:
			result.Strengths = append(result.Strengths, label.strength)
		case s <= WeaknessScore:
			result.Weaknesses = append(result.Weaknesses, label.weakness)
		}
	}
	return result
}

// RentUpside returns how far the target rent exceeds the actual rent, in
// percent of the actual rent.
func RentUpside(in property.Input) float64 {
	return mathutil.SafePercent(in.ColdRentTarget-in.ColdRentActual, in.ColdRentActual)
}

func rate(score float64) Rating {
	for _, band := range ratingBands {
		if score >= band.min {
			return band.rating
		}
	}
	return Poor
}

func recommend(score float64, criticalRisks int) Recommendation {
	rec := Avoid
	for _, band := range recommendationBands {
		if score >= band.min {
			rec = band.recommendation
			break
		}
	}
	switch {
	case criticalRisks >= CriticalRisksForAvoid:
		return Avoid
	case criticalRisks >= CriticalRisksForHoldCap && (rec == StrongBuy || rec == Buy):
		return Hold
	}
	return rec
}

func assessRisks(in property.Input, out property.Output, location *analysis.LocationResult) []Risk {
	f := facts{
		monthlyCashflow:    out.Cashflow.MonthlyCashflowAfterTax,
		equityRatio:        out.InvestmentVolume.EquityRatio,
		grossYield:         out.Yields.GrossRentalYield,
		vacancyPercent:     in.VacancyRiskPercent,
		netRent:            out.Cashflow.NetRentalIncome,
		debtService:        out.Cashflow.AnnualDebtService,
		loanAmount:         out.Financing.LoanAmount,
		remainingDebtRatio: mathutil.SafePercent(out.Financing.RemainingDebtAfterFixedPeriod, out.Financing.LoanAmount),
		paidOff:            out.Financing.PaidOff,
		annualMaintenance:  in.MaintenanceReserve * constants.MonthsPerYear,
		purchasePrice:      in.PurchasePrice,
	}
	if location != nil {
		f.locationRiskHigh = location.RiskLevel == analysis.RiskHigh
		f.populationDeclining = location.PopulationDeclining
	}

	risks := []Risk{}
	for _, rule := range riskRules {
		if rule.when(f) {
			risks = append(risks, rule.risk)
		}
	}
	return risks
}
