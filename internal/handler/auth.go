package handler

import (
	"html/template"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/absurd-industries/guild/internal/auth"
)

type AuthHandler struct {
	authService *auth.Service
	templates   *template.Template
	logger      *slog.Logger
}

func NewAuthHandler(authService *auth.Service, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		templates:   loadTemplates(),
		logger:      logger,
	}
}

func (h *AuthHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	data := map[string]any{
		"Title":      "Sign in",
		"RedirectTo": r.URL.Query().Get("redirectTo"),
	}
	if r.URL.Query().Get("error") != "" {
		data["Error"] = "That link has expired or was already used. Request a new one."
	}
	render(w, h.templates, h.logger, "auth_login.html", data)
}

// Login handles the magic-link request form. The rendered response never
// reveals whether an account exists for the submitted address.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	emailAddr := strings.TrimSpace(r.FormValue("email"))
	redirectTo := sanitizeRedirect(r.FormValue("redirectTo"))
	if redirectTo == "/" {
		redirectTo = ""
	}

	result := h.authService.SendMagicLink(r.Context(), emailAddr, redirectTo)
	if !result.Success {
		render(w, h.templates, h.logger, "auth_login.html", map[string]any{
			"Title":      "Sign in",
			"Error":      result.Message,
			"Email":      emailAddr,
			"RedirectTo": redirectTo,
		})
		return
	}

	render(w, h.templates, h.logger, "auth_check_email.html", map[string]any{
		"Title":   "Check your email",
		"Email":   emailAddr,
		"Message": result.Message,
	})
}

// Verify consumes the magic-link token, establishes the session cookie, and
// resumes the originally requested path.
func (h *AuthHandler) Verify(w http.ResponseWriter, r *http.Request) {
	tok := r.URL.Query().Get("token")

	user, sessionID := h.authService.VerifyMagicLink(r.Context(), tok)
	if user == nil {
		http.Redirect(w, r, "/auth/login?error=invalid_link", http.StatusSeeOther)
		return
	}

	http.SetCookie(w, auth.SessionCookie(sessionID))

	redirectTo := sanitizeRedirect(r.URL.Query().Get("redirectTo"))
	http.Redirect(w, r, redirectTo, http.StatusSeeOther)
}

// Logout clears the cookie and redirects to login whether or not a session
// existed.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.authService.Logout(r.Context(), auth.SessionFromRequest(r))
	http.SetCookie(w, auth.ClearSessionCookie())
	http.Redirect(w, r, "/auth/login", http.StatusSeeOther)
}

// sanitizeRedirect keeps post-login redirects on-site.
func sanitizeRedirect(raw string) string {
	if raw == "" {
		return "/"
	}
	decoded, err := url.QueryUnescape(raw)
	if err != nil {
		return "/"
	}
	if !strings.HasPrefix(decoded, "/") || strings.HasPrefix(decoded, "//") {
		return "/"
	}
	return decoded
}
