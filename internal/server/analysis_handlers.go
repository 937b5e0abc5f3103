package server

import (
	"net/http"

	"github.com/iwvelando/immo-invest/internal/optimizer"
	"github.com/iwvelando/immo-invest/pkg/analysis"
	"github.com/iwvelando/immo-invest/pkg/deal"
	"github.com/iwvelando/immo-invest/pkg/montecarlo"
	"github.com/iwvelando/immo-invest/pkg/property"
	"github.com/iwvelando/immo-invest/pkg/validation"
)

type calculateResponse struct {
	Input    property.Input  `json:"input"`
	Output   property.Output `json:"output"`
	Warnings []string        `json:"warnings"`
	Deal     deal.Result     `json:"deal"`
}

type dealScoreRequest struct {
	Input    property.Input          `json:"input"`
	Location *analysis.LocationInput `json:"location,omitempty"`
}

type dealScoreResponse struct {
	Deal     deal.Result              `json:"deal"`
	Location *analysis.LocationResult `json:"location,omitempty"`
}

type monteCarloRequest struct {
	montecarlo.Input
	RiskFreeRate float64 `json:"riskFreeRate"`
}

type monteCarloResponse struct {
	Simulation montecarlo.Result      `json:"simulation"`
	Risk       montecarlo.RiskMetrics `json:"risk"`
}

type solverRequest struct {
	Input                 property.Input `json:"input"`
	TargetMonthlyCashflow float64        `json:"targetMonthlyCashflow"`
	Tolerance             float64        `json:"tolerance"`
	MaxIterations         int            `json:"maxIterations"`
}

// resolveStateTax clears the default transfer tax when the request names a
// state without a rate, so the state table applies.
func resolveStateTax(in *property.Input, doc interface{}) {
	fields, ok := doc.(map[string]interface{})
	if !ok {
		return
	}
	_, hasState := fields["state"]
	_, hasTax := fields["transferTaxPercent"]
	if hasState && !hasTax {
		in.TransferTaxPercent = 0
	}
}

// nestedInput returns the "input" object of a request document.
func nestedInput(doc interface{}) interface{} {
	if fields, ok := doc.(map[string]interface{}); ok {
		return fields["input"]
	}
	return nil
}

func (h *handler) handleCalculate(w http.ResponseWriter, r *http.Request) {
	in := property.DefaultInput()
	doc, ok := h.decodeRequest(w, r, schemaPropertyInput, &in, "server.handleCalculate")
	if !ok {
		return
	}
	resolveStateTax(&in, doc)

	out := h.calculator.Calculate(in)
	warnings := validation.ValidatePropertyInput(in)
	if warnings == nil {
		warnings = []string{}
	}
	calculationsTotal.WithLabelValues("calculate").Inc()

	h.writeJSON(w, http.StatusOK, calculateResponse{
		Input:    in,
		Output:   out,
		Warnings: warnings,
		Deal:     deal.Analyze(in, out, nil),
	})
}

func (h *handler) handleBreakEven(w http.ResponseWriter, r *http.Request) {
	var in analysis.BreakEvenInput
	if _, ok := h.decodeRequest(w, r, schemaBreakEven, &in, "server.handleBreakEven"); !ok {
		return
	}
	calculationsTotal.WithLabelValues("break-even").Inc()
	h.writeJSON(w, http.StatusOK, analysis.AnalyzeBreakEven(in))
}

func (h *handler) handleExitStrategy(w http.ResponseWriter, r *http.Request) {
	var in analysis.ExitInput
	if _, ok := h.decodeRequest(w, r, schemaExitStrategy, &in, "server.handleExitStrategy"); !ok {
		return
	}
	calculationsTotal.WithLabelValues("exit-strategy").Inc()
	h.writeJSON(w, http.StatusOK, analysis.AnalyzeExit(in))
}

func (h *handler) handleRenovation(w http.ResponseWriter, r *http.Request) {
	var in analysis.RenovationInput
	if _, ok := h.decodeRequest(w, r, schemaRenovation, &in, "server.handleRenovation"); !ok {
		return
	}
	calculationsTotal.WithLabelValues("renovation").Inc()
	h.writeJSON(w, http.StatusOK, analysis.AnalyzeRenovation(in))
}

func (h *handler) handleLocation(w http.ResponseWriter, r *http.Request) {
	var in analysis.LocationInput
	if _, ok := h.decodeRequest(w, r, schemaLocation, &in, "server.handleLocation"); !ok {
		return
	}
	calculationsTotal.WithLabelValues("location").Inc()
	h.writeJSON(w, http.StatusOK, analysis.ScoreLocation(in))
}

func (h *handler) handleMonteCarlo(w http.ResponseWriter, r *http.Request) {
	var req monteCarloRequest
	if _, ok := h.decodeRequest(w, r, schemaMonteCarlo, &req, "server.handleMonteCarlo"); !ok {
		return
	}
	result := h.simulator.Run(req.Input)
	risk := montecarlo.CalculateRiskMetrics(result, req.RiskFreeRate)
	calculationsTotal.WithLabelValues("monte-carlo").Inc()

	// The percentiles and bands summarize the trials.
	result.FinalValues = nil
	h.writeJSON(w, http.StatusOK, monteCarloResponse{
		Simulation: result,
		Risk:       risk,
	})
}

func (h *handler) handleDealScore(w http.ResponseWriter, r *http.Request) {
	req := dealScoreRequest{Input: property.DefaultInput()}
	doc, ok := h.decodeRequest(w, r, schemaDealScore, &req, "server.handleDealScore")
	if !ok {
		return
	}
	resolveStateTax(&req.Input, nestedInput(doc))

	var resp dealScoreResponse
	if req.Location != nil {
		location := analysis.ScoreLocation(*req.Location)
		resp.Location = &location
	}
	resp.Deal = deal.Analyze(req.Input, h.calculator.Calculate(req.Input), resp.Location)
	calculationsTotal.WithLabelValues("deal-score").Inc()

	h.writeJSON(w, http.StatusOK, resp)
}

func (h *handler) decodeSolverRequest(w http.ResponseWriter, r *http.Request, op string) (solverRequest, bool) {
	req := solverRequest{Input: property.DefaultInput()}
	doc, ok := h.decodeRequest(w, r, schemaSolver, &req, op)
	if !ok {
		return req, false
	}
	resolveStateTax(&req.Input, nestedInput(doc))
	return req, true
}

func (h *handler) runner(req solverRequest) *optimizer.Runner {
	return optimizer.NewRunner(h.logger, optimizer.Options{
		Tolerance:     req.Tolerance,
		MaxIterations: req.MaxIterations,
	})
}

func (h *handler) handleBreakEvenRent(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeSolverRequest(w, r, "server.handleBreakEvenRent")
	if !ok {
		return
	}
	summary := h.runner(req).BreakEvenRent(req.Input)
	calculationsTotal.WithLabelValues(optimizer.TargetBreakEvenRent).Inc()
	h.writeJSON(w, http.StatusOK, summary)
}

func (h *handler) handleRequiredEquity(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeSolverRequest(w, r, "server.handleRequiredEquity")
	if !ok {
		return
	}
	summary := h.runner(req).RequiredEquity(req.Input, req.TargetMonthlyCashflow)
	calculationsTotal.WithLabelValues(optimizer.TargetRequiredEquity).Inc()
	h.writeJSON(w, http.StatusOK, summary)
}
