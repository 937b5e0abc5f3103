package analysis

import (
	"strings"

	"github.com/iwvelando/immo-invest/pkg/mathutil"
)

// LocationRecommendation is the investment verdict for a location.
type LocationRecommendation string

const (
	HighlyRecommended LocationRecommendation = "highly-recommended"
	Recommended       LocationRecommendation = "recommended"
	Neutral           LocationRecommendation = "neutral"
	NotRecommended    LocationRecommendation = "not-recommended"
)

// RiskLevel is a coarse risk classification.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// LocationInput rates a micro location. Categorical fields take the values
// of the point tables below; numeric scores range from 1 to 10.
type LocationInput struct {
	PopulationTrend string  `json:"populationTrend"` // growing, stable, declining
	EmploymentLevel string  `json:"employmentLevel"` // high, medium, low
	CrimeRate       string  `json:"crimeRate"`       // low, medium, high
	RentalDemand    string  `json:"rentalDemand"`    // high, medium, low
	PublicTransport float64 `json:"publicTransport"`
	Shopping        float64 `json:"shopping"`
	Schools         float64 `json:"schools"`
	Infrastructure  float64 `json:"infrastructure"`
}

// LocationResult is the scored location.
type LocationResult struct {
	OverallScore             float64                `json:"overallScore"`
	Grade                    string                 `json:"grade"`
	InvestmentRecommendation LocationRecommendation `json:"investmentRecommendation"`
	RiskLevel                RiskLevel              `json:"riskLevel"`
	Breakdown                map[string]float64     `json:"breakdown"`
	Strengths                []string               `json:"strengths"`
	Weaknesses               []string               `json:"weaknesses"`
	PopulationDeclining      bool                   `json:"populationDeclining"`
}

type pointTable struct {
	points   map[string]float64
	fallback float64
}

func (p pointTable) lookup(key string) float64 {
	if v, ok := p.points[strings.ToLower(strings.TrimSpace(key))]; ok {
		return v
	}
	return p.fallback
}

var (
	populationPoints = pointTable{points: map[string]float64{"growing": 100, "stable": 60, "declining": 20}, fallback: 60}
	employmentPoints = pointTable{points: map[string]float64{"high": 100, "medium": 60, "low": 25}, fallback: 60}
	crimePoints      = pointTable{points: map[string]float64{"low": 100, "medium": 60, "high": 20}, fallback: 60}
	demandPoints     = pointTable{points: map[string]float64{"high": 100, "medium": 60, "low": 25}, fallback: 60}
)

type categoryRule struct {
	field   func(LocationInput) string
	value   string
	message string
}

var locationStrengthRules = []categoryRule{
	{func(in LocationInput) string { return in.PopulationTrend }, "growing", "Growing population"},
	{func(in LocationInput) string { return in.EmploymentLevel }, "high", "Strong local job market"},
	{func(in LocationInput) string { return in.CrimeRate }, "low", "Low crime rate"},
	{func(in LocationInput) string { return in.RentalDemand }, "high", "High rental demand"},
}

var locationWeaknessRules = []categoryRule{
	{func(in LocationInput) string { return in.PopulationTrend }, "declining", "Declining population"},
	{func(in LocationInput) string { return in.EmploymentLevel }, "low", "Weak local job market"},
	{func(in LocationInput) string { return in.CrimeRate }, "high", "High crime rate"},
	{func(in LocationInput) string { return in.RentalDemand }, "low", "Low rental demand"},
}

type amenity struct {
	name  string
	score func(LocationInput) float64
}

var amenities = []amenity{
	{"public transport", func(in LocationInput) float64 { return in.PublicTransport }},
	{"shopping", func(in LocationInput) float64 { return in.Shopping }},
	{"schools", func(in LocationInput) float64 { return in.Schools }},
	{"infrastructure", func(in LocationInput) float64 { return in.Infrastructure }},
}

func amenityPoints(score float64) float64 {
	return mathutil.Clamp(score, 1, 10) * 10
}

func is(value, want string) bool {
	return strings.EqualFold(strings.TrimSpace(value), want)
}

// ScoreLocation computes the weighted location score with grade,
// recommendation, risk level, strengths and weaknesses.
func ScoreLocation(in LocationInput) LocationResult {
	breakdown := map[string]float64{
		"population":     populationPoints.lookup(in.PopulationTrend),
		"employment":     employmentPoints.lookup(in.EmploymentLevel),
		"crime":          crimePoints.lookup(in.CrimeRate),
		"demand":         demandPoints.lookup(in.RentalDemand),
		"transit":        amenityPoints(in.PublicTransport),
		"shopping":       amenityPoints(in.Shopping),
		"schools":        amenityPoints(in.Schools),
		"infrastructure": amenityPoints(in.Infrastructure),
	}

	score := breakdown["population"]*WeightPopulation +
		breakdown["employment"]*WeightEmployment +
		breakdown["crime"]*WeightCrime +
		breakdown["demand"]*WeightDemand +
		breakdown["transit"]*WeightTransit +
		breakdown["shopping"]*WeightShopping +
		breakdown["schools"]*WeightSchools +
		breakdown["infrastructure"]*WeightInfrastructure
	score = mathutil.Clamp(score, 0, 100)

	result := LocationResult{
		OverallScore:             score,
		Grade:                    LocationGrade(score),
		InvestmentRecommendation: locationRecommendation(score),
		RiskLevel:                locationRisk(score, in),
		Breakdown:                breakdown,
		Strengths:                []string{},
		Weaknesses:               []string{},
		PopulationDeclining:      is(in.PopulationTrend, "declining"),
	}

	for _, rule := range locationStrengthRules {
		if is(rule.field(in), rule.value) {
			result.Strengths = append(result.Strengths, rule.message)
		}
	}
	for _, rule := range locationWeaknessRules {
		if is(rule.field(in), rule.value) {
			result.Weaknesses = append(result.Weaknesses, rule.message)
		}
	}
	for _, a := range amenities {
		v := a.score(in)
		switch {
		case v >= LocationStrongScore:
			result.Strengths = append(result.Strengths, "Good "+a.name)
		case v <= LocationWeakScore:
			result.Weaknesses = append(result.Weaknesses, "Poor "+a.name)
		}
	}

	return result
}

// LocationGrade maps a score to a letter grade A-D.
func LocationGrade(score float64) string {
	for _, band := range locationGrades {
		if score >= band.min {
			return band.grade
		}
	}
	return "D"
}

func locationRecommendation(score float64) LocationRecommendation {
	for _, band := range locationRecommendations {
		if score >= band.min {
			return band.recommendation
		}
	}
	return NotRecommended
}

func locationRisk(score float64, in LocationInput) RiskLevel {
	declining := is(in.PopulationTrend, "declining")
	highCrime := is(in.CrimeRate, "high")
	switch {
	case score < LocationHighRiskBelow || (declining && highCrime):
		return RiskHigh
	case score >= LocationLowRiskFrom && !declining && !highCrime:
		return RiskLow
	default:
		return RiskMedium
	}
}
