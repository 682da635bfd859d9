package auth

import (
	"net/http"
	"time"

	"github.com/absurd-industries/guild/internal/store"
)

// SessionCookieName is the fixed name of the session cookie.
const SessionCookieName = "absurd_session"

// SessionCookie builds the Set-Cookie value carrying a session id. Max-Age
// tracks the server-side session lifetime so browser expiry roughly matches.
func SessionCookie(sessionID string) *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookieName,
		Value:    sessionID,
		Path:     "/",
		MaxAge:   int(store.DefaultSessionExpiry / time.Second),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	}
}

// ClearSessionCookie builds the Set-Cookie value that removes the session
// cookie immediately.
func ClearSessionCookie() *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	}
}

// SessionFromRequest extracts the session id from the request's cookies, or
// returns the empty string.
func SessionFromRequest(r *http.Request) string {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}
