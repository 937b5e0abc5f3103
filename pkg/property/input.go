// Package property aggregates the financing, tax and cashflow calculations
// into the key figures of a single property investment.
package property

import (
	"strings"

	"github.com/iwvelando/immo-invest/pkg/constants"
	"github.com/iwvelando/immo-invest/pkg/tax"
)

// Input describes a property deal. Monetary amounts are in euro, rents and
// running costs are monthly amounts and percentages are given as 0-100.
type Input struct {
	PurchasePrice   float64 `json:"purchasePrice" yaml:"purchasePrice"`
	MarketValue     float64 `json:"marketValue,omitempty" yaml:"marketValue,omitempty"`
	RenovationCosts float64 `json:"renovationCosts" yaml:"renovationCosts"`
	Equity          float64 `json:"equity" yaml:"equity"`

	BrokerPercent      float64 `json:"brokerPercent" yaml:"brokerPercent"`
	NotaryPercent      float64 `json:"notaryPercent" yaml:"notaryPercent"`
	TransferTaxPercent float64 `json:"transferTaxPercent" yaml:"transferTaxPercent"`
	State              string  `json:"state,omitempty" yaml:"state,omitempty"`
	FamilyPurchase     bool    `json:"familyPurchase" yaml:"familyPurchase"`

	InterestRate        float64 `json:"interestRate" yaml:"interestRate"`
	RepaymentRate       float64 `json:"repaymentRate" yaml:"repaymentRate"`
	FixedInterestPeriod int     `json:"fixedInterestPeriod" yaml:"fixedInterestPeriod"`

	ColdRentActual      float64 `json:"coldRentActual" yaml:"coldRentActual"`
	ColdRentTarget      float64 `json:"coldRentTarget" yaml:"coldRentTarget"`
	NonRecoverableCosts float64 `json:"nonRecoverableCosts" yaml:"nonRecoverableCosts"`
	MaintenanceReserve  float64 `json:"maintenanceReserve" yaml:"maintenanceReserve"`
	VacancyRiskPercent  float64 `json:"vacancyRiskPercent" yaml:"vacancyRiskPercent"`

	AfAType              tax.AfAType `json:"afaType" yaml:"afaType"`
	BuildingSharePercent float64     `json:"buildingSharePercent" yaml:"buildingSharePercent"`
	PersonalTaxRate      float64     `json:"personalTaxRate" yaml:"personalTaxRate"`

	AppreciationPercent float64 `json:"appreciationPercent,omitempty" yaml:"appreciationPercent,omitempty"`
}

// DefaultInput returns the prefilled values of a new deal.
func DefaultInput() Input {
	return Input{
		PurchasePrice:        300000,
		Equity:               60000,
		BrokerPercent:        constants.DefaultBrokerPercent,
		NotaryPercent:        constants.DefaultNotaryPercent,
		TransferTaxPercent:   constants.DefaultTransferTaxPercent,
		InterestRate:         3.5,
		RepaymentRate:        2.0,
		FixedInterestPeriod:  constants.DefaultFixedInterestPeriod,
		ColdRentActual:       1000,
		ColdRentTarget:       1100,
		NonRecoverableCosts:  100,
		MaintenanceReserve:   50,
		VacancyRiskPercent:   2,
		AfAType:              tax.DefaultAfAType,
		BuildingSharePercent: constants.DefaultBuildingSharePercent,
		PersonalTaxRate:      42,
	}
}

// ResolveTransferTax returns the transfer tax rate to apply. An explicit rate
// wins; otherwise the rate of the configured state is used. Without a rate
// or a state the result is 0; DefaultInput and the deal file loader supply
// constants.DefaultTransferTaxPercent for that case.
func (in Input) ResolveTransferTax() float64 {
	if in.TransferTaxPercent > 0 || strings.TrimSpace(in.State) == "" {
		return in.TransferTaxPercent
	}
	return tax.TransferTaxPercent(in.State)
}

// HorizonYears returns the fixed-interest period used for the cumulative
// series.
func (in Input) HorizonYears() int {
	if in.FixedInterestPeriod <= 0 {
		return constants.DefaultFixedInterestPeriod
	}
	return in.FixedInterestPeriod
}

// BaseValue is the property value the appreciation compounds from.
func (in Input) BaseValue() float64 {
	if in.MarketValue > 0 {
		return in.MarketValue
	}
	return in.PurchasePrice
}
