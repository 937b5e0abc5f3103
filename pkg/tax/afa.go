// Package tax implements the German rental income tax rules used by the
// calculator: depreciation (AfA), deductible interest and the resulting tax
// effect, plus the purchase side costs that depend on the federal state.
package tax

import (
	"github.com/iwvelando/immo-invest/pkg/constants"
)

// AfAType selects the depreciation rule of a building.
type AfAType string

const (
	AfAOldBuildingBefore1925 AfAType = "altbau-vor-1925"
	AfAOldBuildingFrom1925   AfAType = "altbau-ab-1925"
	AfANewBuildingFrom2023   AfAType = "neubau-ab-2023"
	AfAListedBuilding        AfAType = "denkmalschutz"
)

// DefaultAfAType is used for empty or unknown AfA types.
const DefaultAfAType = AfAOldBuildingFrom1925

// AfARule describes one depreciation rule.
type AfARule struct {
	Type        AfAType `json:"type"`
	Label       string  `json:"label"`
	RatePercent float64 `json:"ratePercent"`
}

var afaRules = map[AfAType]AfARule{
	AfAOldBuildingBefore1925: {Type: AfAOldBuildingBefore1925, Label: "Altbau vor 1925", RatePercent: 2.5},
	AfAOldBuildingFrom1925:   {Type: AfAOldBuildingFrom1925, Label: "Altbau ab 1925", RatePercent: 2.0},
	AfANewBuildingFrom2023:   {Type: AfANewBuildingFrom2023, Label: "Neubau ab 2023", RatePercent: 3.0},
	AfAListedBuilding:        {Type: AfAListedBuilding, Label: "Denkmalschutz", RatePercent: 9.0},
}

// LookupAfA returns the rule for an AfA type, falling back to the default
// rule for unknown keys. The boolean reports whether the key was known.
func LookupAfA(t AfAType) (AfARule, bool) {
	rule, ok := afaRules[t]
	if !ok {
		return afaRules[DefaultAfAType], false
	}
	return rule, true
}

// AfATypes lists every known AfA type in ascending rate order.
func AfATypes() []AfARule {
	return []AfARule{
		afaRules[AfAOldBuildingFrom1925],
		afaRules[AfAOldBuildingBefore1925],
		afaRules[AfANewBuildingFrom2023],
		afaRules[AfAListedBuilding],
	}
}

// AfAAmount returns the annual depreciation of the building share of a price.
func AfAAmount(purchasePrice, buildingSharePercent float64, t AfAType) float64 {
	rule, _ := LookupAfA(t)
	buildingValue := purchasePrice * buildingSharePercent / constants.PercentageMultiplier
	return buildingValue * rule.RatePercent / constants.PercentageMultiplier
}
