package middleware

import (
	"net/http"
	"net/url"

	"github.com/absurd-industries/guild/internal/auth"
)

// RequireAuth resolves the session cookie and populates the request context
// with the authenticated user. Anonymous visitors are redirected to the
// login page carrying the originally requested path so it can be resumed
// after sign-in.
func RequireAuth(authService *auth.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sessionID := auth.SessionFromRequest(r)
			user := authService.GetCurrentUser(r.Context(), sessionID)
			if user == nil {
				redirectToLogin(w, r)
				return
			}

			ctx := auth.WithAuth(r.Context(), auth.AuthContext{User: user, SessionID: sessionID})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuth populates the request context with the user when a valid
// session is presented, and passes anonymous requests through untouched.
// Used by pages that render differently for signed-in visitors.
func OptionalAuth(authService *auth.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sessionID := auth.SessionFromRequest(r)
			if user := authService.GetCurrentUser(r.Context(), sessionID); user != nil {
				ctx := auth.WithAuth(r.Context(), auth.AuthContext{User: user, SessionID: sessionID})
				r = r.WithContext(ctx)
			}
			next.ServeHTTP(w, r)
		})
	}
}

func redirectToLogin(w http.ResponseWriter, r *http.Request) {
	redirectTo := r.URL.Path
	if r.URL.RawQuery != "" {
		redirectTo += "?" + r.URL.RawQuery
	}
	http.Redirect(w, r, "/auth/login?redirectTo="+url.QueryEscape(redirectTo), http.StatusSeeOther)
}
