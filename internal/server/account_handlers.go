package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/iwvelando/immo-invest/internal/auth"
	"github.com/iwvelando/immo-invest/internal/portfolio"
	"github.com/iwvelando/immo-invest/pkg/property"
	"go.uber.org/zap"
)

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

type entryRequest struct {
	Name  string         `json:"name"`
	Input property.Input `json:"input"`
}

func toUserResponse(u auth.User) userResponse {
	return userResponse{ID: u.ID, Email: u.Email, CreatedAt: u.CreatedAt}
}

func (h *handler) accountsEnabled(w http.ResponseWriter, op string) bool {
	if h.users == nil {
		h.respondErrorWithOp(w, http.StatusServiceUnavailable, "user accounts are not configured", op)
		return false
	}
	return true
}

// startSession creates a session for user and sets its cookie.
func (h *handler) startSession(w http.ResponseWriter, r *http.Request, user auth.User, status int, op string) {
	session, err := h.sessions.Create(r.Context(), user.ID)
	if err != nil {
		h.logger.Error("session creation failed", zap.String("op", op), zap.Error(err))
		h.respondErrorWithOp(w, http.StatusInternalServerError, "failed to create session", op)
		return
	}
	auth.SetSessionCookie(w, session, h.secureCookies)
	h.writeJSON(w, status, toUserResponse(user))
}

func (h *handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleRegister"
	if !h.accountsEnabled(w, op) {
		return
	}
	var creds credentials
	if _, ok := h.decodeRequest(w, r, schemaCredentials, &creds, op); !ok {
		return
	}

	user, err := h.users.Register(r.Context(), creds.Email, creds.Password)
	switch {
	case errors.Is(err, auth.ErrUserExists):
		h.respondErrorWithOp(w, http.StatusConflict, err.Error(), op)
		return
	case errors.Is(err, auth.ErrInvalidEmail), errors.Is(err, auth.ErrPasswordTooShort):
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	case err != nil:
		h.respondErrorWithOp(w, http.StatusInternalServerError, "registration failed", op)
		return
	}

	h.logger.Info("user registered",
		zap.String("op", op),
		zap.String("user", user.ID),
	)
	h.startSession(w, r, user, http.StatusCreated, op)
}

func (h *handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleLogin"
	if !h.accountsEnabled(w, op) {
		return
	}
	var creds credentials
	if _, ok := h.decodeRequest(w, r, schemaCredentials, &creds, op); !ok {
		return
	}

	user, err := h.users.Authenticate(r.Context(), creds.Email, creds.Password)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		h.respondErrorWithOp(w, http.StatusUnauthorized, err.Error(), op)
		return
	}
	if err != nil {
		h.respondErrorWithOp(w, http.StatusInternalServerError, "login failed", op)
		return
	}
	h.startSession(w, r, user, http.StatusOK, op)
}

func (h *handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	if token, ok := auth.SessionToken(r); ok {
		if err := h.sessions.Delete(r.Context(), token); err != nil {
			h.logger.Warn("failed to delete session",
				zap.String("op", "server.handleLogout"),
				zap.Error(err),
			)
		}
	}
	auth.ClearSessionCookie(w, h.secureCookies)
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) handleMe(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleMe"
	if !h.accountsEnabled(w, op) {
		return
	}
	userID, _ := auth.UserID(r.Context())
	user, err := h.users.Get(r.Context(), userID)
	if errors.Is(err, auth.ErrUserNotFound) {
		h.respondErrorWithOp(w, http.StatusUnauthorized, "login required", op)
		return
	}
	if err != nil {
		h.respondErrorWithOp(w, http.StatusInternalServerError, "failed to load user", op)
		return
	}
	h.writeJSON(w, http.StatusOK, toUserResponse(user))
}

func (h *handler) portfolioEnabled(w http.ResponseWriter, op string) bool {
	if h.portfolio == nil {
		h.respondErrorWithOp(w, http.StatusServiceUnavailable, "portfolio storage is not configured", op)
		return false
	}
	return true
}

// respondPortfolioError maps portfolio errors to HTTP statuses.
func (h *handler) respondPortfolioError(w http.ResponseWriter, err error, op string) {
	switch {
	case errors.Is(err, portfolio.ErrNotFound):
		h.respondErrorWithOp(w, http.StatusNotFound, err.Error(), op)
	case errors.Is(err, portfolio.ErrInvalidUser):
		h.respondErrorWithOp(w, http.StatusUnauthorized, "login required", op)
	default:
		h.logger.Error("portfolio operation failed", zap.String("op", op), zap.Error(err))
		h.respondErrorWithOp(w, http.StatusInternalServerError, "portfolio operation failed", op)
	}
}

func (h *handler) handleListPortfolio(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleListPortfolio"
	if !h.portfolioEnabled(w, op) {
		return
	}
	userID, _ := auth.UserID(r.Context())
	entries, err := h.portfolio.List(r.Context(), userID)
	if err != nil {
		h.respondPortfolioError(w, err, op)
		return
	}
	h.writeJSON(w, http.StatusOK, entries)
}

func (h *handler) decodeEntry(w http.ResponseWriter, r *http.Request, op string) (entryRequest, bool) {
	req := entryRequest{Input: property.DefaultInput()}
	doc, ok := h.decodeRequest(w, r, schemaPortfolioEntry, &req, op)
	if !ok {
		return req, false
	}
	resolveStateTax(&req.Input, nestedInput(doc))
	return req, true
}

func (h *handler) handleCreateEntry(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleCreateEntry"
	if !h.portfolioEnabled(w, op) {
		return
	}
	req, ok := h.decodeEntry(w, r, op)
	if !ok {
		return
	}
	userID, _ := auth.UserID(r.Context())
	entry, err := h.portfolio.Create(r.Context(), userID, req.Name, req.Input)
	if err != nil {
		h.respondPortfolioError(w, err, op)
		return
	}
	calculationsTotal.WithLabelValues("calculate").Inc()
	h.writeJSON(w, http.StatusCreated, entry)
}

func (h *handler) handleGetEntry(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleGetEntry"
	if !h.portfolioEnabled(w, op) {
		return
	}
	userID, _ := auth.UserID(r.Context())
	entry, err := h.portfolio.Get(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		h.respondPortfolioError(w, err, op)
		return
	}
	h.writeJSON(w, http.StatusOK, entry)
}

func (h *handler) handleUpdateEntry(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleUpdateEntry"
	if !h.portfolioEnabled(w, op) {
		return
	}
	req, ok := h.decodeEntry(w, r, op)
	if !ok {
		return
	}
	userID, _ := auth.UserID(r.Context())
	entry, err := h.portfolio.Update(r.Context(), userID, chi.URLParam(r, "id"), req.Name, req.Input)
	if err != nil {
		h.respondPortfolioError(w, err, op)
		return
	}
	calculationsTotal.WithLabelValues("calculate").Inc()
	h.writeJSON(w, http.StatusOK, entry)
}

func (h *handler) handleDeleteEntry(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleDeleteEntry"
	if !h.portfolioEnabled(w, op) {
		return
	}
	userID, _ := auth.UserID(r.Context())
	if err := h.portfolio.Delete(r.Context(), userID, chi.URLParam(r, "id")); err != nil {
		h.respondPortfolioError(w, err, op)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
