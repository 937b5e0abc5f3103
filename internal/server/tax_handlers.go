package server

import (
	"net/http"

	"github.com/iwvelando/immo-invest/pkg/tax"
)

func (h *handler) handleAfATypes(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string][]tax.AfARule{
		"afaTypes": tax.AfATypes(),
	})
}

func (h *handler) handleStates(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string][]tax.StateInfo{
		"states": tax.States(),
	})
}
