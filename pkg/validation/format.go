// Package validation provides common validation utilities.
package validation

import (
	"fmt"

	"github.com/iwvelando/immo-invest/pkg/constants"
)

// ValidateOutputFormat checks if the output format is one of the supported formats.
func ValidateOutputFormat(format string) error {
	if format != constants.OutputFormatPretty && format != constants.OutputFormatCSV {
		return fmt.Errorf("expected output format of %s or %s, got %s",
			constants.OutputFormatPretty, constants.OutputFormatCSV, format)
	}
	return nil
}

// ValidateLogging checks a log level and encoding. Empty values select the
// defaults and are accepted.
func ValidateLogging(level, format string) error {
	switch level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level %q: expected debug, info, warn or error", level)
	}
	switch format {
	case "", "json", "console":
	default:
		return fmt.Errorf("invalid log format %q: expected json or console", format)
	}
	return nil
}
