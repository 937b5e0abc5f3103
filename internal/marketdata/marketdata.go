// Package marketdata serves reference market figures: purchase prices, rent
// bands and mortgage rates. The figures come from a static table and every
// lookup waits for a configurable latency like a remote source would.
package marketdata

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/text/cases"
)

// DefaultCity is the table entry used for unknown cities.
const DefaultCity = "default"

// Rent increase caps within KappungWindowYears.
const (
	KappungWindowYears        = 3
	RentCapPercent            = 20.0
	TightMarketRentCapPercent = 15.0
)

// RentBand is a range of cold rents in euro per square meter and month.
type RentBand struct {
	Min    float64 `json:"min"`
	Median float64 `json:"median"`
	Max    float64 `json:"max"`
}

// Market holds the reference figures of a city.
type Market struct {
	City        string   `json:"city"`
	PricePerSqm float64  `json:"pricePerSqm"`
	Rent        RentBand `json:"rent"`
	// TightMarket marks cities with a lowered rent increase cap.
	TightMarket     bool   `json:"tightMarket"`
	PopulationTrend string `json:"populationTrend"`
	RentalDemand    string `json:"rentalDemand"`
	// Fallback is set when the city is unknown and the default entry was used.
	Fallback bool `json:"fallback,omitempty"`
}

// MortgageRate is the nominal rate for a fixed-interest period.
type MortgageRate struct {
	FixedYears int     `json:"fixedYears"`
	Rate       float64 `json:"rate"`
}

var markets = map[string]Market{
	"berlin":     {City: "Berlin", PricePerSqm: 5200, Rent: RentBand{Min: 9.5, Median: 13.0, Max: 19.0}, TightMarket: true, PopulationTrend: "growing", RentalDemand: "high"},
	"münchen":    {City: "München", PricePerSqm: 9100, Rent: RentBand{Min: 15.0, Median: 20.5, Max: 27.0}, TightMarket: true, PopulationTrend: "growing", RentalDemand: "high"},
	"hamburg":    {City: "Hamburg", PricePerSqm: 6300, Rent: RentBand{Min: 11.0, Median: 14.5, Max: 20.0}, TightMarket: true, PopulationTrend: "growing", RentalDemand: "high"},
	"frankfurt":  {City: "Frankfurt", PricePerSqm: 6600, Rent: RentBand{Min: 12.0, Median: 15.5, Max: 21.0}, TightMarket: true, PopulationTrend: "growing", RentalDemand: "high"},
	"köln":       {City: "Köln", PricePerSqm: 4900, Rent: RentBand{Min: 10.0, Median: 12.5, Max: 17.0}, TightMarket: true, PopulationTrend: "stable", RentalDemand: "high"},
	"stuttgart":  {City: "Stuttgart", PricePerSqm: 5600, Rent: RentBand{Min: 11.5, Median: 14.0, Max: 18.5}, TightMarket: true, PopulationTrend: "stable", RentalDemand: "high"},
	"düsseldorf": {City: "Düsseldorf", PricePerSqm: 4800, Rent: RentBand{Min: 10.0, Median: 12.0, Max: 16.5}, TightMarket: true, PopulationTrend: "stable", RentalDemand: "medium"},
	"leipzig":    {City: "Leipzig", PricePerSqm: 2900, Rent: RentBand{Min: 6.5, Median: 8.0, Max: 11.0}, TightMarket: false, PopulationTrend: "growing", RentalDemand: "medium"},
	"dresden":    {City: "Dresden", PricePerSqm: 3000, Rent: RentBand{Min: 7.0, Median: 8.5, Max: 11.5}, TightMarket: false, PopulationTrend: "stable", RentalDemand: "medium"},
	"chemnitz":   {City: "Chemnitz", PricePerSqm: 1500, Rent: RentBand{Min: 5.0, Median: 5.8, Max: 7.0}, TightMarket: false, PopulationTrend: "declining", RentalDemand: "low"},
	DefaultCity:  {City: "Germany", PricePerSqm: 3400, Rent: RentBand{Min: 7.0, Median: 9.0, Max: 12.5}, TightMarket: false, PopulationTrend: "stable", RentalDemand: "medium"},
}

var mortgageRates = []MortgageRate{
	{FixedYears: 5, Rate: 3.45},
	{FixedYears: 10, Rate: 3.55},
	{FixedYears: 15, Rate: 3.75},
	{FixedYears: 20, Rate: 3.90},
	{FixedYears: 30, Rate: 4.05},
}

// Provider answers market data requests.
type Provider struct {
	logger  *zap.Logger
	latency time.Duration
}

// NewProvider creates a provider that waits latency before every answer.
func NewProvider(logger *zap.Logger, latency time.Duration) *Provider {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Provider{logger: logger, latency: latency}
}

func (p *Provider) wait(ctx context.Context) error {
	if p.latency <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(p.latency)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Market returns the figures of a city. Unknown cities get the default entry
// with Fallback set.
func (p *Provider) Market(ctx context.Context, city string) (Market, error) {
	if err := p.wait(ctx); err != nil {
		return Market{}, fmt.Errorf("market data for %s: %w", city, err)
	}

	key := cases.Fold().String(strings.TrimSpace(city))
	m, ok := markets[key]
	if !ok {
		p.logger.Debug(fmt.Sprintf("no market data for %q, using default", city),
			zap.String("op", "marketdata.Market"),
		)
		m = markets[DefaultCity]
		m.Fallback = true
	}
	return m, nil
}

// Cities returns the names of all cities in the table, sorted.
func Cities() []string {
	names := make([]string, 0, len(markets))
	for key, m := range markets {
		if key != DefaultCity {
			names = append(names, m.City)
		}
	}
	sort.Strings(names)
	return names
}

// MortgageRates returns the rate table ordered by fixed-interest period.
func (p *Provider) MortgageRates(ctx context.Context) ([]MortgageRate, error) {
	if err := p.wait(ctx); err != nil {
		return nil, fmt.Errorf("mortgage rates: %w", err)
	}
	rates := make([]MortgageRate, len(mortgageRates))
	copy(rates, mortgageRates)
	return rates, nil
}

// RateFor returns the rate of the shortest fixed-interest period covering
// years. Periods beyond the table use the longest period.
func RateFor(rates []MortgageRate, years int) (float64, bool) {
	if len(rates) == 0 {
		return 0, false
	}
	sorted := make([]MortgageRate, len(rates))
	copy(sorted, rates)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].FixedYears < sorted[j].FixedYears })

	for _, r := range sorted {
		if r.FixedYears >= years {
			return r.Rate, true
		}
	}
	return sorted[len(sorted)-1].Rate, true
}

// CappedRent returns the highest rent reachable from current within
// KappungWindowYears.
func CappedRent(current float64, tightMarket bool) float64 {
	if current <= 0 {
		return 0
	}
	capPercent := RentCapPercent
	if tightMarket {
		capPercent = TightMarketRentCapPercent
	}
	return current * (1 + capPercent/100)
}
