// Package server exposes the calculator, the analyses, market data, user
// accounts and portfolios as a JSON API.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/iwvelando/immo-invest/internal/auth"
	"github.com/iwvelando/immo-invest/internal/marketdata"
	"github.com/iwvelando/immo-invest/internal/portfolio"
	"github.com/iwvelando/immo-invest/pkg/constants"
	"github.com/iwvelando/immo-invest/pkg/montecarlo"
	"github.com/iwvelando/immo-invest/pkg/property"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"go.uber.org/zap"
)

// Dependencies are the stores and providers behind the API. Nil users or
// portfolio disable the account and portfolio routes; nil sessions and
// market fall back to in-memory implementations.
type Dependencies struct {
	Users          *auth.UserStore
	Sessions       auth.SessionStore
	Portfolio      *portfolio.Service
	Market         *marketdata.Provider
	AllowedOrigins []string
	SecureCookies  bool
}

type handler struct {
	logger        *zap.Logger
	maxBodySize   int64
	version       string
	schemas       map[string]*jsonschema.Schema
	calculator    *property.Calculator
	simulator     *montecarlo.Simulator
	users         *auth.UserStore
	sessions      auth.SessionStore
	portfolio     *portfolio.Service
	market        *marketdata.Provider
	secureCookies bool
}

// NewHandler constructs the HTTP handler that serves the API.
func NewHandler(logger *zap.Logger, maxBodySize int64, version string, deps Dependencies) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	if maxBodySize <= 0 {
		maxBodySize = constants.DefaultMaxBodySizeBytes
	}

	trimmedVersion := strings.TrimSpace(version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	schemas, err := compileSchemas()
	if err != nil {
		panic(fmt.Sprintf("failed to prepare embedded schemas: %v", err))
	}

	h := &handler{
		logger:        logger,
		maxBodySize:   maxBodySize,
		version:       trimmedVersion,
		schemas:       schemas,
		calculator:    property.NewCalculator(logger),
		simulator:     montecarlo.NewSimulator(logger, nil),
		users:         deps.Users,
		sessions:      deps.Sessions,
		portfolio:     deps.Portfolio,
		market:        deps.Market,
		secureCookies: deps.SecureCookies,
	}
	if h.sessions == nil {
		h.sessions = auth.NewMemorySessionStore(constants.DefaultSessionTTLHours * time.Hour)
	}
	if h.market == nil {
		h.market = marketdata.NewProvider(logger, 0)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, h.logRequests, middleware.Recoverer)
	if len(deps.AllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   deps.AllowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Content-Type"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}
	r.Use(auth.Middleware(logger, h.sessions))

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", h.handleHealth)
		r.Get("/version", h.handleVersion)
		r.Post("/calculate", h.handleCalculate)

		r.Route("/analysis", func(r chi.Router) {
			r.Post("/break-even", h.handleBreakEven)
			r.Post("/exit-strategy", h.handleExitStrategy)
			r.Post("/renovation", h.handleRenovation)
			r.Post("/location", h.handleLocation)
			r.Post("/monte-carlo", h.handleMonteCarlo)
			r.Post("/deal-score", h.handleDealScore)
		})

		r.Route("/optimize", func(r chi.Router) {
			r.Post("/break-even-rent", h.handleBreakEvenRent)
			r.Post("/required-equity", h.handleRequiredEquity)
		})

		r.Route("/tax", func(r chi.Router) {
			r.Get("/afa-types", h.handleAfATypes)
			r.Get("/states", h.handleStates)
		})

		r.Route("/market", func(r chi.Router) {
			r.Get("/rates", h.handleMortgageRates)
			r.Get("/cities", h.handleCities)
			r.Get("/cities/{city}", h.handleMarket)
		})

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", h.handleRegister)
			r.Post("/login", h.handleLogin)
			r.Post("/logout", h.handleLogout)
			r.With(h.requireUser).Get("/me", h.handleMe)
		})

		r.Route("/portfolio", func(r chi.Router) {
			r.Use(h.requireUser)
			r.Get("/", h.handleListPortfolio)
			r.Post("/", h.handleCreateEntry)
			r.Get("/{id}", h.handleGetEntry)
			r.Put("/{id}", h.handleUpdateEntry)
			r.Delete("/{id}", h.handleDeleteEntry)
		})
	})

	return r
}

func (h *handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
	})
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

// decodeRequest reads the body within the size limit, validates it against
// the named schema and decodes it into dst. It returns the generic document
// for callers that need to know which keys were present.
func (h *handler) decodeRequest(w http.ResponseWriter, r *http.Request, schema string, dst interface{}, op string) (interface{}, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBodySize)
	body, err := io.ReadAll(r.Body)
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondErrorWithOp(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("request body exceeds limit of %d bytes", h.maxBodySize), op)
			return nil, false
		}
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to read request: %v", err), op)
		return nil, false
	}

	doc, err := validateJSON(h.schemas, schema, body)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return nil, false
	}
	if err := json.Unmarshal(body, dst); err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to decode request: %v", err), op)
		return nil, false
	}
	return doc, true
}

func (h *handler) respondErrorWithOp(w http.ResponseWriter, status int, msg string, op string) {
	h.logger.Error("request failed",
		zap.String("op", op),
		zap.Int("status", status),
		zap.String("error", msg),
	)

	h.writeJSON(w, status, map[string]string{"error": msg})
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}
