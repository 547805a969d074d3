package middleware

import (
	"context"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/vancomm/minesweeper-arcade/internal/config"
)

type CtxKey int

const (
	CtxPlayerClaims CtxKey = iota
)

// PlayerClaims returns the claims Auth attached to ctx, if any.
func PlayerClaims(ctx context.Context) (*config.PlayerClaims, bool) {
	claims, ok := ctx.Value(CtxPlayerClaims).(*config.PlayerClaims)
	return claims, ok
}

// Auth attaches the player's claims to the request context when the
// session cookies are valid. Stale cookies are cleared and the request
// continues anonymously.
func Auth(log logrus.FieldLogger, cookies *config.Cookies) Middleware {
	return func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := cookies.ParsePlayerClaims(r)
			if err != nil {
				if _, cookieErr := r.Cookie("auth"); cookieErr == nil {
					log.WithError(err).Debug("clearing invalid session cookies")
					cookies.Clear(w)
				}
				h.ServeHTTP(w, r)
				return
			}
			ctx := context.WithValue(r.Context(), CtxPlayerClaims, claims)
			h.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequirePlayer rejects anonymous requests with 401.
func RequirePlayer(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := PlayerClaims(r.Context()); !ok {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		h.ServeHTTP(w, r)
	})
}

// Admin only lets through players for which isAdmin holds.
func Admin(isAdmin func(address string) bool) Middleware {
	return func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := PlayerClaims(r.Context())
			if !ok {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			if !isAdmin(claims.Address) {
				w.WriteHeader(http.StatusForbidden)
				return
			}
			h.ServeHTTP(w, r)
		})
	}
}
