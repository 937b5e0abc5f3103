// Package analysis contains the secondary what-if analyzers of a deal:
// break-even, exit strategy, renovation ROI and location scoring. All
// analyzers are pure functions.
package analysis

import (
	"fmt"
	"math"

	"github.com/iwvelando/immo-invest/pkg/constants"
)

// Years is a duration in years that may never be reached. When Never is
// true Value holds constants.NeverYears, so comparisons against that
// threshold keep working for consumers that only read the number.
type Years struct {
	Value float64 `json:"value"`
	Never bool    `json:"never"`
}

// NeverReached returns the sentinel for a target that is not reached.
func NeverReached() Years {
	return Years{Value: constants.NeverYears, Never: true}
}

// YearsOf wraps a finite duration. Values at or beyond constants.NeverYears
// and non-finite values become NeverReached.
func YearsOf(v float64) Years {
	if math.IsNaN(v) || math.IsInf(v, 0) || v >= constants.NeverYears {
		return NeverReached()
	}
	return Years{Value: math.Max(0, v)}
}

func (y Years) String() string {
	if y.Never {
		return "never"
	}
	return fmt.Sprintf("%.1f years", y.Value)
}
