package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/iwvelando/immo-invest/internal/config"
	"github.com/iwvelando/immo-invest/internal/evaluation"
	"github.com/iwvelando/immo-invest/pkg/constants"
	"github.com/iwvelando/immo-invest/pkg/output"
	"github.com/iwvelando/immo-invest/pkg/validation"
	"go.uber.org/zap"
)

// stdinPath selects reading the deal file from standard input.
const stdinPath = "-"

func loadDeal(path string, stdin io.Reader) (*config.Configuration, error) {
	if path == stdinPath {
		return config.LoadConfigurationFromReader(stdin)
	}
	return config.LoadConfiguration(path)
}

func main() {
	// Process command line flags first to get the deal file location
	configLocation := flag.String("config", constants.DefaultConfigFile, "path to deal file, - for standard input")
	outputFormatFlag := flag.String("output-format", "", "type of output override: pretty, csv")
	logLevel := flag.String("log-level", "", "log level override (debug, info, warn, error)")
	flag.Parse()

	// Load the deal file to get logging configuration
	conf, err := loadDeal(*configLocation, os.Stdin)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load configuration at %s\", \"error\": \"%v\"}\n", *configLocation, err)
		return
	}

	logger, err := config.NewLogger(conf.Logging, *logLevel)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to initialize logger\", \"error\": \"%v\"}\n", err)
		return
	}
	defer func() {
		_ = logger.Sync()
	}()

	// Determine output format (CLI override takes precedence over config)
	outputFormat := conf.Output.Format
	if *outputFormatFlag != "" {
		outputFormat = *outputFormatFlag
	}
	if outputFormat == "" {
		outputFormat = constants.OutputFormatPretty
	}

	err = validation.ValidateOutputFormat(outputFormat)
	if err != nil {
		logger.Fatal(err.Error(),
			zap.String("op", "main"),
		)
	}

	for _, warning := range conf.ValidateConfiguration() {
		logger.Warn("Configuration warning: "+warning,
			zap.String("op", "main"),
		)
	}

	results, _, err := evaluation.NewEvaluator(logger, nil).Evaluate(conf)
	if err != nil {
		logger.Fatal("failed to evaluate deal",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}

	switch outputFormat {
	case constants.OutputFormatPretty:
		output.PrettyFormat(results)
	case constants.OutputFormatCSV:
		output.CsvFormat(results)
	}
}
