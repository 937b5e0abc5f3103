// Package constants provides shared constants for the immo-invest application.
package constants

// Financial constants
const (
	// MonthsPerYear is the number of months in a year
	MonthsPerYear = 12

	// DecimalPrecision is the precision for currency rounding (2 decimal places)
	DecimalPrecision = 100

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0

	// CurrencyTolerance is the tolerance for currency comparisons (1 cent)
	CurrencyTolerance = 0.01

	// BalanceEpsilon is the remaining balance below which a loan counts as repaid.
	BalanceEpsilon = 1e-6
)

// Schedule and horizon limits
const (
	// MaxScheduleYears caps every amortization schedule so a loan that never
	// amortizes still produces a finite schedule.
	MaxScheduleYears = 50

	// DefaultFixedInterestPeriod is used for the cumulative series when the
	// input does not provide a fixed-interest period.
	DefaultFixedInterestPeriod = 10

	// NeverYears is the numeric stand-in for "never" in break-even and payback
	// results. Any value >= NeverYears means the target is not reached.
	NeverYears = 100
)

// German tax and transaction defaults
const (
	// SpeculationPeriodYears is the holding period after which a private sale
	// is free of speculation tax.
	SpeculationPeriodYears = 10

	// DefaultSellingCostsPercent is the assumed cost of selling a property.
	DefaultSellingCostsPercent = 6.0

	// DefaultNotaryPercent covers notary and land registry fees.
	DefaultNotaryPercent = 2.0

	// DefaultBrokerPercent is the buyer's share of the broker commission.
	DefaultBrokerPercent = 3.57

	// DefaultTransferTaxPercent is applied for unknown states.
	DefaultTransferTaxPercent = 5.0

	// DefaultBuildingSharePercent is the typical depreciable building share.
	DefaultBuildingSharePercent = 75.0
)

// Simulation limits
const (
	// DefaultSimulations is the trial count used when none is configured.
	DefaultSimulations = 1000

	// MaxSimulations bounds the trial count of a Monte Carlo run.
	MaxSimulations = 100000

	// MaxSimulationYears bounds the horizon of a Monte Carlo run.
	MaxSimulationYears = 100

	// DefaultSimulationYears is the horizon used when none is configured.
	DefaultSimulationYears = 10

	// MaxAPISimulations and MaxAPISimulationYears bound Monte Carlo requests
	// to the HTTP API. Keep internal/server/schemas/monte-carlo.json in sync.
	MaxAPISimulations     = 5000
	MaxAPISimulationYears = 50
)

// Scenario comparison
const (
	// MaxComparisonScenarios is the number of scenarios evaluated side by side.
	MaxComparisonScenarios = 3
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default deal file name
	DefaultConfigFile = "deal.yaml"

	// ExampleConfigFile is the example deal file name
	ExampleConfigFile = "deal.yaml.example"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address for the API
	DefaultServerAddress = ":8080"

	// DefaultMaxBodySizeBytes is the default maximum request body size (256 KB)
	DefaultMaxBodySizeBytes int64 = 256 * 1024

	// DefaultDataDir holds per-user portfolio files and the user registry.
	DefaultDataDir = "data"

	// DefaultSessionTTLHours is the lifetime of a login session.
	DefaultSessionTTLHours = 24 * 7

	// SessionCookieName is the name of the session cookie.
	SessionCookieName = "immo_session"
)
