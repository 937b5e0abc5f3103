// Package optimization provides shared data structures for solver results.
package optimization

// Summary captures the result of a single solver run.
type Summary struct {
	Target          string   `json:"target"`
	Field           string   `json:"field"`
	Original        float64  `json:"original"`
	Value           float64  `json:"value"`
	TargetCashflow  float64  `json:"targetCashflow"`
	MonthlyCashflow float64  `json:"monthlyCashflow"`
	Headroom        float64  `json:"headroom"`
	Iterations      int      `json:"iterations"`
	Converged       bool     `json:"converged"`
	Notes           []string `json:"notes,omitempty"`
	OriginalDisplay string   `json:"originalDisplay,omitempty"`
	ValueDisplay    string   `json:"valueDisplay,omitempty"`
}
