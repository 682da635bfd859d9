// Package auth implements the magic-link login lifecycle: link issuance,
// single-use verification, session creation, current-user resolution, and
// logout. Store-level failures never escape this package; callers see
// success/failure results and generic user-facing messages.
package auth

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"regexp"

	"github.com/absurd-industries/guild/internal/email"
	"github.com/absurd-industries/guild/internal/model"
	"github.com/absurd-industries/guild/internal/store"
	"github.com/absurd-industries/guild/internal/token"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Result is the user-facing outcome of a link request.
type Result struct {
	Success bool
	Message string
}

type Service struct {
	users      *store.UserStore
	magicLinks *store.MagicLinkStore
	sessions   *store.SessionStore
	mailer     email.Mailer
	baseURL    string
	logger     *slog.Logger
}

func NewService(
	users *store.UserStore,
	magicLinks *store.MagicLinkStore,
	sessions *store.SessionStore,
	mailer email.Mailer,
	baseURL string,
	logger *slog.Logger,
) *Service {
	return &Service{
		users:      users,
		magicLinks: magicLinks,
		sessions:   sessions,
		mailer:     mailer,
		baseURL:    baseURL,
		logger:     logger,
	}
}

// SendMagicLink validates the email syntax, persists a fresh 15-minute
// token, and hands the verification URL to the mailer. A non-empty
// redirectTo is carried on the URL so the originally requested page can be
// resumed after verification. The success message is identical whether or
// not an account exists for the email; user creation is deferred to
// verification.
func (s *Service) SendMagicLink(ctx context.Context, emailAddr, redirectTo string) Result {
	if !emailPattern.MatchString(emailAddr) {
		return Result{Success: false, Message: "Please enter a valid email address"}
	}

	tok, err := token.Generate()
	if err != nil {
		s.logger.Error("generate magic link token", "error", err)
		return Result{Success: false, Message: "Failed to send magic link. Please try again."}
	}

	if _, err := s.magicLinks.Create(emailAddr, tok, store.DefaultMagicLinkExpiry); err != nil {
		s.logger.Error("create magic link", "error", err)
		return Result{Success: false, Message: "Failed to send magic link. Please try again."}
	}

	verifyURL := fmt.Sprintf("%s/auth/verify?token=%s", s.baseURL, tok)
	if redirectTo != "" {
		verifyURL += "&redirectTo=" + url.QueryEscape(redirectTo)
	}
	if err := s.mailer.SendMagicLink(ctx, emailAddr, verifyURL); err != nil {
		// The token is already persisted and usable; delivery trouble is an
		// operator concern, not something to reveal to the visitor.
		s.logger.Error("send magic link email", "error", err, "email", emailAddr)
	}

	return Result{Success: true, Message: "Magic link sent! Check your email and click the link to sign in."}
}

// VerifyMagicLink consumes the token and, on success, returns the (possibly
// freshly created) user plus a new session id. Not-found, expired, and
// already-used tokens all come back as (nil, "") with no stored distinction.
func (s *Service) VerifyMagicLink(ctx context.Context, tok string) (*model.User, string) {
	emailAddr, ok, err := s.magicLinks.Consume(tok)
	if err != nil {
		s.logger.Error("consume magic link", "error", err)
		return nil, ""
	}
	if !ok {
		return nil, ""
	}

	user, err := s.users.GetByEmail(emailAddr)
	if err != nil {
		s.logger.Error("verify user lookup", "error", err)
		return nil, ""
	}
	if user == nil {
		user, err = s.users.Create(emailAddr)
		if err != nil {
			s.logger.Error("create user on verify", "error", err)
			return nil, ""
		}
	}

	sessionID, err := token.Generate()
	if err != nil {
		s.logger.Error("generate session id", "error", err)
		return nil, ""
	}

	if _, err := s.sessions.Create(ctx, user.ID, sessionID, store.DefaultSessionExpiry); err != nil {
		s.logger.Error("create session", "error", err)
		return nil, ""
	}

	return user, sessionID
}

// GetCurrentUser resolves a session id to its active user, or nil. An empty
// id returns nil without touching storage.
func (s *Service) GetCurrentUser(ctx context.Context, sessionID string) *model.User {
	if sessionID == "" {
		return nil
	}
	user, err := s.sessions.Resolve(ctx, sessionID)
	if err != nil {
		s.logger.Error("resolve session", "error", err)
		return nil
	}
	return user
}

// Logout deletes the session from both tiers. Storage errors are logged and
// swallowed; the caller clears the cookie regardless.
func (s *Service) Logout(ctx context.Context, sessionID string) {
	if sessionID == "" {
		return
	}
	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		s.logger.Error("delete session on logout", "error", err)
	}
}
