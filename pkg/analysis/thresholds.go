package analysis

// Projection horizons reported by the break-even analyzer.
var ProjectionHorizons = []int{5, 10, 15}

// Renovation thresholds.
const (
	RenovationExcellentROI     = 10.0
	RenovationExcellentPayback = 10.0
	RenovationGoodROI          = 6.0
	RenovationGoodPayback      = 15.0
	RenovationValueROI         = 100.0
	RenovationMarginalROI      = 3.0

	DefaultRenovationTermYears = 10
)

type renovationRule struct {
	matches        func(roi, payback, valueROI float64) bool
	recommended    bool
	recommendation string
}

// Ordered; the first matching rule wins.
var renovationRules = []renovationRule{
	{
		matches: func(roi, payback, _ float64) bool {
			return roi >= RenovationExcellentROI && payback <= RenovationExcellentPayback
		},
		recommended:    true,
		recommendation: "Highly recommended: the rent increase pays the renovation back quickly.",
	},
	{
		matches: func(roi, payback, _ float64) bool {
			return roi >= RenovationGoodROI && payback <= RenovationGoodPayback
		},
		recommended:    true,
		recommendation: "Recommended: solid return on the renovation cost.",
	},
	{
		matches: func(_, _, valueROI float64) bool {
			return valueROI >= RenovationValueROI
		},
		recommended:    true,
		recommendation: "Recommended: the value increase exceeds the renovation cost.",
	},
	{
		matches: func(roi, _, _ float64) bool {
			return roi >= RenovationMarginalROI
		},
		recommended:    false,
		recommendation: "Marginal: only worthwhile if the renovation is needed anyway.",
	},
	{
		matches:        func(_, _, _ float64) bool { return true },
		recommended:    false,
		recommendation: "Not recommended: the renovation does not pay off.",
	},
}

// Location grade bands, checked in order.
var locationGrades = []struct {
	min   float64
	grade string
}{
	{80, "A"},
	{65, "B"},
	{50, "C"},
	{0, "D"},
}

// Location recommendation bands, checked in order.
var locationRecommendations = []struct {
	min            float64
	recommendation LocationRecommendation
}{
	{80, HighlyRecommended},
	{65, Recommended},
	{50, Neutral},
	{0, NotRecommended},
}

// Location risk thresholds.
const (
	LocationHighRiskBelow = 50.0
	LocationLowRiskFrom   = 75.0

	LocationStrongScore = 8.0
	LocationWeakScore   = 4.0
)

// Location weights, summing to 1.
const (
	WeightPopulation     = 0.20
	WeightEmployment     = 0.15
	WeightCrime          = 0.15
	WeightDemand         = 0.20
	WeightTransit        = 0.075
	WeightShopping       = 0.075
	WeightSchools        = 0.075
	WeightInfrastructure = 0.075
)
