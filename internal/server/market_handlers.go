package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/iwvelando/immo-invest/internal/marketdata"
)

type marketResponse struct {
	marketdata.Market
	// CappedRent is the highest reachable rent for the rent query parameter.
	CappedRent *float64 `json:"cappedRent,omitempty"`
}

type ratesResponse struct {
	Rates []marketdata.MortgageRate `json:"rates"`
	// FixedYears and Rate answer the fixedYears query parameter.
	FixedYears int      `json:"fixedYears,omitempty"`
	Rate       *float64 `json:"rate,omitempty"`
}

func (h *handler) respondMarketError(w http.ResponseWriter, err error, op string) {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		h.respondErrorWithOp(w, http.StatusGatewayTimeout, err.Error(), op)
		return
	}
	h.respondErrorWithOp(w, http.StatusBadGateway, err.Error(), op)
}

func (h *handler) handleMortgageRates(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleMortgageRates"

	years := 0
	if raw := r.URL.Query().Get("fixedYears"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("invalid fixedYears %q", raw), op)
			return
		}
		years = parsed
	}

	rates, err := h.market.MortgageRates(r.Context())
	if err != nil {
		h.respondMarketError(w, err, op)
		return
	}

	resp := ratesResponse{Rates: rates}
	if years > 0 {
		if rate, ok := marketdata.RateFor(rates, years); ok {
			resp.FixedYears = years
			resp.Rate = &rate
		}
	}
	h.writeJSON(w, http.StatusOK, resp)
}

func (h *handler) handleCities(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string][]string{
		"cities": marketdata.Cities(),
	})
}

func (h *handler) handleMarket(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleMarket"

	market, err := h.market.Market(r.Context(), chi.URLParam(r, "city"))
	if err != nil {
		h.respondMarketError(w, err, op)
		return
	}

	resp := marketResponse{Market: market}
	if raw := r.URL.Query().Get("rent"); raw != "" {
		rent, err := strconv.ParseFloat(raw, 64)
		if err != nil || rent < 0 {
			h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("invalid rent %q", raw), op)
			return
		}
		capped := marketdata.CappedRent(rent, market.TightMarket)
		resp.CappedRent = &capped
	}
	h.writeJSON(w, http.StatusOK, resp)
}
