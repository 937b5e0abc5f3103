package validation

import (
	"fmt"
	"strings"

	"github.com/iwvelando/immo-invest/pkg/property"
	"github.com/iwvelando/immo-invest/pkg/tax"
)

type inputBound struct {
	field string
	value func(property.Input) float64
	min   float64
	max   float64
	// optional bounds are only checked for non-zero values.
	optional bool
}

var inputBounds = []inputBound{
	{field: "purchasePrice", value: func(in property.Input) float64 { return in.PurchasePrice }, min: 10000, max: 10000000},
	{field: "brokerPercent", value: func(in property.Input) float64 { return in.BrokerPercent }, min: 0, max: 7.14},
	{field: "notaryPercent", value: func(in property.Input) float64 { return in.NotaryPercent }, min: 0, max: 5},
	{field: "transferTaxPercent", value: func(in property.Input) float64 { return in.TransferTaxPercent }, min: 0, max: 10},
	{field: "interestRate", value: func(in property.Input) float64 { return in.InterestRate }, min: 0.1, max: 15},
	{field: "repaymentRate", value: func(in property.Input) float64 { return in.RepaymentRate }, min: 0.5, max: 10},
	{field: "fixedInterestPeriod", value: func(in property.Input) float64 { return float64(in.FixedInterestPeriod) }, min: 5, max: 40, optional: true},
	{field: "coldRentActual", value: func(in property.Input) float64 { return in.ColdRentActual }, min: 100, max: 50000},
	{field: "coldRentTarget", value: func(in property.Input) float64 { return in.ColdRentTarget }, min: 100, max: 50000, optional: true},
	{field: "nonRecoverableCosts", value: func(in property.Input) float64 { return in.NonRecoverableCosts }, min: 0, max: 5000},
	{field: "maintenanceReserve", value: func(in property.Input) float64 { return in.MaintenanceReserve }, min: 0, max: 5000},
	{field: "vacancyRiskPercent", value: func(in property.Input) float64 { return in.VacancyRiskPercent }, min: 0, max: 10},
	{field: "buildingSharePercent", value: func(in property.Input) float64 { return in.BuildingSharePercent }, min: 50, max: 95},
	{field: "personalTaxRate", value: func(in property.Input) float64 { return in.PersonalTaxRate }, min: 0, max: 45},
	{field: "appreciationPercent", value: func(in property.Input) float64 { return in.AppreciationPercent }, min: -2, max: 5},
}

// ValidatePropertyInput returns warnings for values outside the usual range
// of a deal. The calculation accepts any input, so nothing here is fatal.
func ValidatePropertyInput(in property.Input) []string {
	var warnings []string

	for _, b := range inputBounds {
		v := b.value(in)
		if b.optional && v == 0 {
			continue
		}
		if v < b.min || v > b.max {
			warnings = append(warnings, fmt.Sprintf("%s %.2f is outside the expected range %.2f to %.2f", b.field, v, b.min, b.max))
		}
	}

	if in.Equity < 0 {
		warnings = append(warnings, fmt.Sprintf("equity %.2f is negative", in.Equity))
	}
	if in.RenovationCosts < 0 {
		warnings = append(warnings, fmt.Sprintf("renovationCosts %.2f is negative", in.RenovationCosts))
	}
	if in.MarketValue < 0 {
		warnings = append(warnings, fmt.Sprintf("marketValue %.2f is negative", in.MarketValue))
	}

	total := property.CalculatePropertyKPIs(in).InvestmentVolume.TotalInvestment
	if in.Equity > total {
		warnings = append(warnings, fmt.Sprintf("equity %.2f exceeds the total investment %.2f", in.Equity, total))
	}

	if in.ColdRentTarget > 0 && in.ColdRentTarget < in.ColdRentActual {
		warnings = append(warnings, fmt.Sprintf("target rent %.2f is below the actual rent %.2f", in.ColdRentTarget, in.ColdRentActual))
	}

	if in.AfAType != "" {
		if _, ok := tax.LookupAfA(in.AfAType); !ok {
			warnings = append(warnings, fmt.Sprintf("unknown afaType %q, using %s", in.AfAType, tax.DefaultAfAType))
		}
	}
	if state := strings.TrimSpace(in.State); state != "" {
		if _, ok := tax.LookupState(state); !ok {
			warnings = append(warnings, fmt.Sprintf("unknown state %q, using a transfer tax of %.1f%%", state, tax.TransferTaxPercent(state)))
		}
	}

	return warnings
}
