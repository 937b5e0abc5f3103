package auth

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/iwvelando/immo-invest/pkg/constants"
	"go.uber.org/zap"
)

type contextKey struct{}

// WithUserID returns a context carrying the id of the logged-in user.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, contextKey{}, userID)
}

// UserID returns the id of the logged-in user, if any.
func UserID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(contextKey{}).(string)
	return id, ok && id != ""
}

// SetSessionCookie writes the session cookie for session.
func SetSessionCookie(w http.ResponseWriter, session Session, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     constants.SessionCookieName,
		Value:    session.Token,
		Path:     "/",
		Expires:  session.ExpiresAt,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSessionCookie expires the session cookie in the browser.
func ClearSessionCookie(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     constants.SessionCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// SessionToken returns the token of the session cookie of r.
func SessionToken(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(constants.SessionCookieName)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	return cookie.Value, true
}

// Middleware resolves the session cookie and stores the user id in the
// request context. Requests without a valid session pass through
// unchanged.
func Middleware(logger *zap.Logger, sessions SessionStore) func(http.Handler) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := SessionToken(r)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			userID, err := sessions.Lookup(r.Context(), token)
			if err != nil {
				if !errors.Is(err, ErrSessionNotFound) {
					logger.Error("session lookup failed",
						zap.String("op", "auth.Middleware"),
						zap.Error(err),
					)
				}
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
		})
	}
}
