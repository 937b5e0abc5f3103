package deal

// Sub-score weights, summing to 1.
const (
	WeightCashflow  = 0.25
	WeightYield     = 0.25
	WeightFinancing = 0.15
	WeightLocation  = 0.20
	WeightPotential = 0.15

	// DefaultLocationScore is used when no location analysis is supplied.
	DefaultLocationScore = 50.0
)

// step maps a value to points: the first step whose bound the value reaches
// wins. Tables are ordered from best to worst.
type step struct {
	bound  float64
	points float64
}

type stepTable struct {
	// ascending tables reward low values (value <= bound).
	ascending bool
	steps     []step
	fallback  float64
}

func (t stepTable) points(value float64) float64 {
	for _, s := range t.steps {
		if (!t.ascending && value >= s.bound) || (t.ascending && value <= s.bound) {
			return s.points
		}
	}
	return t.fallback
}

// Monthly cashflow after tax in euro.
var cashflowPoints = stepTable{
	steps: []step{
		{300, 100},
		{150, 85},
		{50, 70},
		{0, 55},
		{-100, 35},
		{-250, 20},
	},
	fallback: 5,
}

// Gross rental yield in percent.
var yieldPoints = stepTable{
	steps: []step{
		{7, 100},
		{6, 85},
		{5, 70},
		{4, 55},
		{3, 35},
	},
	fallback: 15,
}

// Equity ratio in percent of the total investment. A ratio of exactly
// zero falls through to the fallback.
var equityPoints = stepTable{
	steps: []step{
		{30, 100},
		{20, 80},
		{10, 60},
		{1e-9, 40},
	},
	fallback: 20,
}

// Interest rate in percent; lower is better.
var interestPoints = stepTable{
	ascending: true,
	steps: []step{
		{2.5, 100},
		{3.5, 80},
		{4.5, 60},
		{5.5, 40},
	},
	fallback: 20,
}

// Rent upside of the target rent over the actual rent in percent.
var potentialPoints = stepTable{
	steps: []step{
		{20, 100},
		{10, 80},
		{5, 65},
		{1e-9, 50},
	},
	fallback: 30,
}

// Rating bands.
var ratingBands = []struct {
	min    float64
	rating Rating
}{
	{80, Excellent},
	{65, Good},
	{50, Fair},
	{0, Poor},
}

// Recommendation bands before risk gating.
var recommendationBands = []struct {
	min            float64
	recommendation Recommendation
}{
	{80, StrongBuy},
	{65, Buy},
	{50, Hold},
	{0, Avoid},
}

// Gating by the number of critical risks.
const (
	CriticalRisksForAvoid   = 2
	CriticalRisksForHoldCap = 1
)

// Sub-scores at or above StrengthScore are listed as strengths, at or
// below WeaknessScore as weaknesses.
const (
	StrengthScore = 80.0
	WeaknessScore = 35.0
)

var scoreLabels = []struct {
	name     string
	score    func(Scores) float64
	strength string
	weakness string
}{
	{"cashflow", func(s Scores) float64 { return s.Cashflow }, "Strong monthly cashflow", "Weak or negative cashflow"},
	{"yield", func(s Scores) float64 { return s.Yield }, "High gross rental yield", "Low gross rental yield"},
	{"financing", func(s Scores) float64 { return s.Financing }, "Solid financing structure", "Expensive or thin financing"},
	{"location", func(s Scores) float64 { return s.Location }, "Attractive location", "Weak location"},
	{"potential", func(s Scores) float64 { return s.Potential }, "Significant rent upside", "Little rent upside"},
}

// facts are the figures the risk rules inspect.
type facts struct {
	monthlyCashflow     float64
	equityRatio         float64
	grossYield          float64
	vacancyPercent      float64
	netRent             float64
	debtService         float64
	loanAmount          float64
	remainingDebtRatio  float64
	paidOff             bool
	annualMaintenance   float64
	purchasePrice       float64
	locationRiskHigh    bool
	populationDeclining bool
}

type riskRule struct {
	when func(facts) bool
	risk Risk
}

// Ordered by severity; every matching rule adds its risk.
var riskRules = []riskRule{
	{
		when: func(f facts) bool { return f.monthlyCashflow < -200 },
		risk: Risk{
			Severity:    Critical,
			Category:    CategoryCashflow,
			Title:       "Strongly negative cashflow",
			Description: "The property requires more than 200 EUR per month from other income.",
			Mitigation:  "Negotiate the price, raise equity or increase the rent.",
		},
	},
	{
		when: func(f facts) bool { return f.loanAmount > 0 && !f.paidOff },
		risk: Risk{
			Severity:    Critical,
			Category:    CategoryFinancing,
			Title:       "Loan does not amortize",
			Description: "The repayment rate does not pay the loan off within 50 years.",
			Mitigation:  "Increase the initial repayment rate.",
		},
	},
	{
		when: func(f facts) bool { return f.debtService > 0 && f.netRent < 0.8*f.debtService },
		risk: Risk{
			Severity:    Critical,
			Category:    CategoryFinancing,
			Title:       "Rent does not cover the debt service",
			Description: "Net rental income covers less than 80% of the annual loan payments.",
			Mitigation:  "Reduce the loan amount or verify the achievable rent.",
		},
	},
	{
		when: func(f facts) bool { return f.monthlyCashflow < 0 && f.monthlyCashflow >= -200 },
		risk: Risk{
			Severity:    High,
			Category:    CategoryCashflow,
			Title:       "Negative cashflow",
			Description: "The property does not carry itself after tax.",
			Mitigation:  "Plan a monthly reserve for the shortfall.",
		},
	},
	{
		when: func(f facts) bool { return f.equityRatio < 5 },
		risk: Risk{
			Severity:    High,
			Category:    CategoryFinancing,
			Title:       "Very low equity",
			Description: "Less than 5% equity leaves no buffer against falling prices.",
			Mitigation:  "Bring in more equity to cover at least the side costs.",
		},
	},
	{
		when: func(f facts) bool { return f.locationRiskHigh },
		risk: Risk{
			Severity:    High,
			Category:    CategoryLocation,
			Title:       "High location risk",
			Description: "The location analysis rates the risk of this location as high.",
			Mitigation:  "Check comparable rents and vacancy in the neighbourhood.",
		},
	},
	{
		when: func(f facts) bool { return f.grossYield < 3.5 },
		risk: Risk{
			Severity:    Medium,
			Category:    CategoryYield,
			Title:       "Low gross yield",
			Description: "The gross rental yield is below 3.5%.",
			Mitigation:  "Only worthwhile with strong appreciation.",
		},
	},
	{
		when: func(f facts) bool { return f.vacancyPercent > 5 },
		risk: Risk{
			Severity:    Medium,
			Category:    CategoryOperations,
			Title:       "High vacancy risk",
			Description: "The assumed vacancy exceeds 5% of the rent.",
		},
	},
	{
		when: func(f facts) bool { return f.remainingDebtRatio > 70 },
		risk: Risk{
			Severity:    Medium,
			Category:    CategoryFinancing,
			Title:       "High remaining debt after fixed-interest period",
			Description: "More than 70% of the loan is outstanding when the interest rate is renegotiated.",
			Mitigation:  "Increase the repayment rate or extend the fixed-interest period.",
		},
	},
	{
		when: func(f facts) bool { return f.populationDeclining },
		risk: Risk{
			Severity:    Medium,
			Category:    CategoryMarket,
			Title:       "Declining population",
			Description: "Falling demand may limit rent increases and resale value.",
		},
	},
	{
		when: func(f facts) bool { return f.purchasePrice > 0 && f.annualMaintenance < 0.01*f.purchasePrice },
		risk: Risk{
			Severity:    Low,
			Category:    CategoryOperations,
			Title:       "Low maintenance reserve",
			Description: "The maintenance reserve is below 1% of the purchase price per year.",
			Mitigation:  "Budget at least 1% of the price per year for maintenance.",
		},
	},
}
