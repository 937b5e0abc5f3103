package validation

import (
	"strings"
	"testing"

	"github.com/iwvelando/immo-invest/pkg/property"
)

func TestValidatePropertyInput(t *testing.T) {
	tests := []struct {
		name     string
		modify   func(in *property.Input)
		expected []string
	}{
		{
			name:   "Default deal",
			modify: func(in *property.Input) {},
		},
		{
			name:     "Purchase price too low",
			modify:   func(in *property.Input) { in.PurchasePrice = 5000 },
			expected: []string{"purchasePrice 5000.00 is outside"},
		},
		{
			name:     "Interest rate too high",
			modify:   func(in *property.Input) { in.InterestRate = 20 },
			expected: []string{"interestRate 20.00 is outside"},
		},
		{
			name:   "Unset fixed-interest period",
			modify: func(in *property.Input) { in.FixedInterestPeriod = 0 },
		},
		{
			name:     "Equity exceeds total investment",
			modify:   func(in *property.Input) { in.Equity = 1000000 },
			expected: []string{"exceeds the total investment"},
		},
		{
			name:     "Target rent below actual rent",
			modify:   func(in *property.Input) { in.ColdRentTarget = 900 },
			expected: []string{"target rent 900.00 is below"},
		},
		{
			name:     "Unknown AfA type",
			modify:   func(in *property.Input) { in.AfAType = "bogus" },
			expected: []string{`unknown afaType "bogus"`},
		},
		{
			name:     "Unknown state",
			modify:   func(in *property.Input) { in.State = "Atlantis" },
			expected: []string{`unknown state "Atlantis", using a transfer tax of 5.0%`},
		},
		{
			name:   "Known state",
			modify: func(in *property.Input) { in.State = "by" },
		},
		{
			name: "Several problems",
			modify: func(in *property.Input) {
				in.Equity = -1
				in.VacancyRiskPercent = 15
			},
			expected: []string{"vacancyRiskPercent 15.00", "equity -1.00 is negative"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := property.DefaultInput()
			tt.modify(&in)

			warnings := ValidatePropertyInput(in)
			if len(warnings) != len(tt.expected) {
				t.Fatalf("expected %d warnings, got %d: %v", len(tt.expected), len(warnings), warnings)
			}
			for i, want := range tt.expected {
				if !strings.Contains(warnings[i], want) {
					t.Errorf("warning %d = %q, expected to contain %q", i, warnings[i], want)
				}
			}
		})
	}
}
