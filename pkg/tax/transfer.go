package tax

import (
	"sort"
	"strings"

	"github.com/iwvelando/immo-invest/pkg/constants"
)

// State is a German federal state, identified by its ISO 3166-2 suffix.
type State string

// StateInfo holds the real estate transfer tax (Grunderwerbsteuer) of a state.
type StateInfo struct {
	Code               State   `json:"code"`
	Name               string  `json:"name"`
	TransferTaxPercent float64 `json:"transferTaxPercent"`
}

// Rates as of 2024.
var states = map[State]StateInfo{
	"BW": {Code: "BW", Name: "Baden-Württemberg", TransferTaxPercent: 5.0},
	"BY": {Code: "BY", Name: "Bayern", TransferTaxPercent: 3.5},
	"BE": {Code: "BE", Name: "Berlin", TransferTaxPercent: 6.0},
	"BB": {Code: "BB", Name: "Brandenburg", TransferTaxPercent: 6.5},
	"HB": {Code: "HB", Name: "Bremen", TransferTaxPercent: 5.0},
	"HH": {Code: "HH", Name: "Hamburg", TransferTaxPercent: 5.5},
	"HE": {Code: "HE", Name: "Hessen", TransferTaxPercent: 6.0},
	"MV": {Code: "MV", Name: "Mecklenburg-Vorpommern", TransferTaxPercent: 6.0},
	"NI": {Code: "NI", Name: "Niedersachsen", TransferTaxPercent: 5.0},
	"NW": {Code: "NW", Name: "Nordrhein-Westfalen", TransferTaxPercent: 6.5},
	"RP": {Code: "RP", Name: "Rheinland-Pfalz", TransferTaxPercent: 5.0},
	"SL": {Code: "SL", Name: "Saarland", TransferTaxPercent: 6.5},
	"SN": {Code: "SN", Name: "Sachsen", TransferTaxPercent: 5.5},
	"ST": {Code: "ST", Name: "Sachsen-Anhalt", TransferTaxPercent: 5.0},
	"SH": {Code: "SH", Name: "Schleswig-Holstein", TransferTaxPercent: 6.5},
	"TH": {Code: "TH", Name: "Thüringen", TransferTaxPercent: 5.0},
}

// LookupState resolves a state by code or full name, case-insensitively.
// Unknown states return a placeholder carrying the default transfer tax.
func LookupState(key string) (StateInfo, bool) {
	trimmed := strings.TrimSpace(key)
	if info, ok := states[State(strings.ToUpper(trimmed))]; ok {
		return info, true
	}
	for _, info := range states {
		if strings.EqualFold(info.Name, trimmed) {
			return info, true
		}
	}
	return StateInfo{Code: State(trimmed), Name: trimmed, TransferTaxPercent: constants.DefaultTransferTaxPercent}, false
}

// TransferTaxPercent returns the transfer tax rate of a state.
func TransferTaxPercent(state string) float64 {
	info, _ := LookupState(state)
	return info.TransferTaxPercent
}

// States returns all states ordered by code.
func States() []StateInfo {
	out := make([]StateInfo, 0, len(states))
	for _, info := range states {
		out = append(out, info)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

// SideCostBreakdown itemizes the purchase side costs (Kaufnebenkosten).
type SideCostBreakdown struct {
	Broker       float64 `json:"broker"`
	Notary       float64 `json:"notary"`
	TransferTax  float64 `json:"transferTax"`
	Total        float64 `json:"total"`
	TotalPercent float64 `json:"totalPercent"`
}

// SideCosts computes the side costs of a purchase. A purchase within the
// family is exempt from broker commission and transfer tax.
func SideCosts(purchasePrice, brokerPercent, notaryPercent, transferTaxPercent float64, familyPurchase bool) SideCostBreakdown {
	if familyPurchase {
		brokerPercent = 0
		transferTaxPercent = 0
	}
	broker := purchasePrice * brokerPercent / constants.PercentageMultiplier
	notary := purchasePrice * notaryPercent / constants.PercentageMultiplier
	transfer := purchasePrice * transferTaxPercent / constants.PercentageMultiplier
	return SideCostBreakdown{
		Broker:       broker,
		Notary:       notary,
		TransferTax:  transfer,
		Total:        broker + notary + transfer,
		TotalPercent: brokerPercent + notaryPercent + transferTaxPercent,
	}
}
