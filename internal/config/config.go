// Package config defines the data structures of a deal file and includes
// functions for loading it and resolving its comparison scenarios.
package config

import (
	"fmt"
	"io"
	"strings"

	"github.com/iwvelando/immo-invest/internal/optimizer"
	"github.com/iwvelando/immo-invest/pkg/analysis"
	"github.com/iwvelando/immo-invest/pkg/constants"
	"github.com/iwvelando/immo-invest/pkg/montecarlo"
	"github.com/iwvelando/immo-invest/pkg/property"
	"github.com/iwvelando/immo-invest/pkg/validation"
	"github.com/spf13/viper"
)

// BaseScenarioName names the unmodified property when no scenario is active.
const BaseScenarioName = "base"

// Configuration holds a deal and the settings to evaluate it.
type Configuration struct {
	Property  property.Input
	Scenarios []Scenario
	Analysis  AnalysisConfig
	Logging   LoggingConfig `yaml:"logging,omitempty"`
	Output    OutputConfig  `yaml:"output,omitempty"`

	// baseProperty is the merged property section including defaults, the
	// starting point of every scenario override.
	baseProperty         map[string]interface{}
	transferTaxDefaulted bool
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty"`      // debug, info, warn, error
	Format     string `yaml:"format,omitempty"`     // json, console
	OutputFile string `yaml:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `yaml:"format,omitempty"` // pretty, csv
}

// Scenario overrides fields of the base property for a side-by-side
// comparison.
type Scenario struct {
	Name     string
	Active   bool
	Property map[string]interface{}
}

// AnalysisConfig selects the secondary analyses. Sections left out of the
// deal file are nil and skipped.
type AnalysisConfig struct {
	BreakEven    BreakEvenConfig
	Exit         ExitConfig
	Renovation   *analysis.RenovationInput
	Location     *analysis.LocationInput
	MonteCarlo   *montecarlo.Settings
	Solvers      *SolverConfig
	RiskFreeRate float64
}

// BreakEvenConfig holds the break-even assumptions.
type BreakEvenConfig struct {
	AppreciationPercent float64
	SellingCostsPercent float64
}

// ExitConfig holds the exit assumptions.
type ExitConfig struct {
	HoldingPeriodYears  int
	SellingCostsPercent float64
	// CompareYears lists further holding periods to compare side by side.
	CompareYears []int
}

// SolverConfig enables the break-even rent and required equity solvers.
type SolverConfig struct {
	TargetMonthlyCashflow float64
	Tolerance             float64
	MaxIterations         int
}

// Options converts the solver settings.
func (s SolverConfig) Options() optimizer.Options {
	return optimizer.Options{Tolerance: s.Tolerance, MaxIterations: s.MaxIterations}
}

// ResolvedScenario is a scenario with its overrides applied.
type ResolvedScenario struct {
	Name  string
	Input property.Input
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yml")
	v.SetEnvPrefix("IMMO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := property.DefaultInput()
	v.SetDefault("property.brokerPercent", defaults.BrokerPercent)
	v.SetDefault("property.notaryPercent", defaults.NotaryPercent)
	v.SetDefault("property.buildingSharePercent", defaults.BuildingSharePercent)
	v.SetDefault("property.afaType", string(defaults.AfAType))
	v.SetDefault("property.fixedInterestPeriod", defaults.FixedInterestPeriod)

	v.SetDefault("analysis.breakEven.sellingCostsPercent", constants.DefaultSellingCostsPercent)
	v.SetDefault("analysis.exit.holdingPeriodYears", constants.SpeculationPeriodYears)
	v.SetDefault("analysis.exit.sellingCostsPercent", constants.DefaultSellingCostsPercent)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("output.format", constants.OutputFormatPretty)
	return v
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// deal file there.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := newViper()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %s", err)
	}
	return decode(v)
}

// LoadConfigurationFromReader loads a YAML-formatted deal from r.
func LoadConfigurationFromReader(r io.Reader) (*Configuration, error) {
	v := newViper()
	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("error reading config, %s", err)
	}
	return decode(v)
}

func decode(v *viper.Viper) (*Configuration, error) {
	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}

	if base, ok := v.AllSettings()["property"].(map[string]interface{}); ok {
		configuration.baseProperty = base
	}

	// Without an explicit rate or a state the default transfer tax applies.
	if !v.IsSet("property.transferTaxPercent") && strings.TrimSpace(configuration.Property.State) == "" {
		configuration.Property.TransferTaxPercent = constants.DefaultTransferTaxPercent
		configuration.transferTaxDefaulted = true
		if configuration.baseProperty != nil {
			configuration.baseProperty["transfertaxpercent"] = constants.DefaultTransferTaxPercent
		}
	}
	if !v.IsSet("analysis.breakEven.appreciationPercent") {
		configuration.Analysis.BreakEven.AppreciationPercent = configuration.Property.AppreciationPercent
	}

	return &configuration, nil
}

// ActiveScenarios resolves the active scenarios in file order. At most
// constants.MaxComparisonScenarios are returned; the rest are reported in the
// warnings. Without an active scenario the base property is returned.
func (c *Configuration) ActiveScenarios() ([]ResolvedScenario, []string, error) {
	var resolved []ResolvedScenario
	var warnings []string

	for i, scenario := range c.Scenarios {
		if !scenario.Active {
			continue
		}
		name := scenario.Name
		if name == "" {
			name = fmt.Sprintf("scenario-%d", i+1)
		}
		if len(resolved) == constants.MaxComparisonScenarios {
			warnings = append(warnings, fmt.Sprintf("Scenario '%s' skipped: at most %d scenarios are compared",
				name, constants.MaxComparisonScenarios))
			continue
		}
		in, err := c.ScenarioInput(scenario)
		if err != nil {
			return nil, warnings, fmt.Errorf("scenario %s: %w", name, err)
		}
		resolved = append(resolved, ResolvedScenario{Name: name, Input: in})
	}

	if len(resolved) == 0 {
		resolved = append(resolved, ResolvedScenario{Name: BaseScenarioName, Input: c.Property})
	}
	return resolved, warnings, nil
}

// ScenarioInput applies the overrides of a scenario to the base property.
func (c *Configuration) ScenarioInput(s Scenario) (property.Input, error) {
	if len(s.Property) == 0 {
		return c.Property, nil
	}

	v := viper.New()
	base := c.baseProperty
	if base == nil {
		// Configurations built in code have no decoded property section.
		if err := v.MergeConfigMap(inputMap(c.Property)); err != nil {
			return property.Input{}, err
		}
	} else if err := v.MergeConfigMap(base); err != nil {
		return property.Input{}, err
	}
	if err := v.MergeConfigMap(s.Property); err != nil {
		return property.Input{}, err
	}
	// A scenario that only names a state uses that state's transfer tax.
	if c.transferTaxDefaulted && hasKey(s.Property, "state") && !hasKey(s.Property, "transferTaxPercent") {
		v.Set("transferTaxPercent", 0)
	}

	var in property.Input
	if err := v.Unmarshal(&in); err != nil {
		return property.Input{}, fmt.Errorf("unable to decode scenario property, %s", err)
	}
	return in, nil
}

func hasKey(m map[string]interface{}, key string) bool {
	for k := range m {
		if strings.EqualFold(k, key) {
			return true
		}
	}
	return false
}

func inputMap(in property.Input) map[string]interface{} {
	return map[string]interface{}{
		"purchasePrice":        in.PurchasePrice,
		"marketValue":          in.MarketValue,
		"renovationCosts":      in.RenovationCosts,
		"equity":               in.Equity,
		"brokerPercent":        in.BrokerPercent,
		"notaryPercent":        in.NotaryPercent,
		"transferTaxPercent":   in.TransferTaxPercent,
		"state":                in.State,
		"familyPurchase":       in.FamilyPurchase,
		"interestRate":         in.InterestRate,
		"repaymentRate":        in.RepaymentRate,
		"fixedInterestPeriod":  in.FixedInterestPeriod,
		"coldRentActual":       in.ColdRentActual,
		"coldRentTarget":       in.ColdRentTarget,
		"nonRecoverableCosts":  in.NonRecoverableCosts,
		"maintenanceReserve":   in.MaintenanceReserve,
		"vacancyRiskPercent":   in.VacancyRiskPercent,
		"afaType":              string(in.AfAType),
		"buildingSharePercent": in.BuildingSharePercent,
		"personalTaxRate":      in.PersonalTaxRate,
		"appreciationPercent":  in.AppreciationPercent,
	}
}

// ValidateConfiguration performs general validation of the configuration and returns warnings
func (c *Configuration) ValidateConfiguration() []string {
	var warnings []string

	baseWarnings := make(map[string]bool)
	for _, w := range validation.ValidatePropertyInput(c.Property) {
		baseWarnings[w] = true
		warnings = append(warnings, "Property: "+w)
	}

	seen := make(map[string]bool)
	for _, scenario := range c.Scenarios {
		if scenario.Name == "" {
			warnings = append(warnings, "Scenario without a name; a generated name is used")
		} else if seen[scenario.Name] {
			warnings = append(warnings, fmt.Sprintf("Scenario name '%s' is used more than once", scenario.Name))
		}
		seen[scenario.Name] = true
	}

	scenarios, scenarioWarnings, err := c.ActiveScenarios()
	warnings = append(warnings, scenarioWarnings...)
	if err != nil {
		return append(warnings, err.Error())
	}
	for _, s := range scenarios {
		if s.Name == BaseScenarioName {
			continue
		}
		for _, w := range validation.ValidatePropertyInput(s.Input) {
			if !baseWarnings[w] {
				warnings = append(warnings, fmt.Sprintf("Scenario '%s': %s", s.Name, w))
			}
		}
	}

	if mc := c.Analysis.MonteCarlo; mc != nil && mc.Simulations > constants.MaxSimulations {
		warnings = append(warnings, fmt.Sprintf("Monte Carlo simulations capped at %d", constants.MaxSimulations))
	}

	return warnings
}
