package auth

import (
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/absurd-industries/guild/internal/cache"
	"github.com/absurd-industries/guild/internal/database"
	"github.com/absurd-industries/guild/internal/store"
)

// captureMailer records the verification URLs it was asked to deliver.
type captureMailer struct {
	urls []string
}

func (m *captureMailer) SendMagicLink(_ context.Context, _ string, verifyURL string) error {
	m.urls = append(m.urls, verifyURL)
	return nil
}

func setupService(t *testing.T) (*Service, *captureMailer, *store.MagicLinkStore, *store.UserStore) {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	users := store.NewUserStore(db)
	magicLinks := store.NewMagicLinkStore(db)
	sessions := store.NewSessionStore(db, cache.NewMemory(), users, slog.Default())
	mailer := &captureMailer{}

	svc := NewService(users, magicLinks, sessions, mailer, "http://localhost:8080", slog.Default())
	return svc, mailer, magicLinks, users
}

// tokenFromURL pulls the token query value out of a captured magic link URL.
func tokenFromURL(t *testing.T, rawURL string) string {
	t.Helper()
	i := strings.Index(rawURL, "token=")
	if i < 0 {
		t.Fatalf("no token in %q", rawURL)
	}
	return rawURL[i+len("token="):]
}

func TestSendMagicLink(t *testing.T) {
	svc, mailer, magicLinks, _ := setupService(t)

	result := svc.SendMagicLink(context.Background(), "amit@example.com", "")
	if !result.Success {
		t.Fatalf("send failed: %s", result.Message)
	}
	if len(mailer.urls) != 1 {
		t.Fatalf("mails sent = %d, want 1", len(mailer.urls))
	}
	if !strings.HasPrefix(mailer.urls[0], "http://localhost:8080/auth/verify?token=") {
		t.Errorf("verify url = %q", mailer.urls[0])
	}

	n, err := magicLinks.CountByEmail("amit@example.com")
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1 {
		t.Errorf("links = %d, want 1", n)
	}
}

func TestSendMagicLinkCarriesRedirect(t *testing.T) {
	svc, mailer, _, _ := setupService(t)

	result := svc.SendMagicLink(context.Background(), "amit@example.com", "/campaigns/lumen-cube/back")
	if !result.Success {
		t.Fatalf("send failed: %s", result.Message)
	}
	if !strings.Contains(mailer.urls[0], "&redirectTo=%2Fcampaigns%2Flumen-cube%2Fback") {
		t.Errorf("verify url = %q, want redirectTo carried", mailer.urls[0])
	}
}

func TestSendMagicLinkInvalidEmail(t *testing.T) {
	svc, mailer, magicLinks, _ := setupService(t)

	for _, addr := range []string{"", "not-an-email", "a@b", "a b@c.com", "@example.com"} {
		result := svc.SendMagicLink(context.Background(), addr, "")
		if result.Success {
			t.Errorf("SendMagicLink(%q) succeeded, want failure", addr)
		}
	}
	if len(mailer.urls) != 0 {
		t.Errorf("mails sent = %d, want 0", len(mailer.urls))
	}
	if n, _ := magicLinks.CountByEmail("not-an-email"); n != 0 {
		t.Errorf("links = %d, want 0", n)
	}
}

func TestSendMagicLinkUnknownEmailSucceeds(t *testing.T) {
	svc, _, _, users := setupService(t)

	// No account exists; the response must not reveal that.
	result := svc.SendMagicLink(context.Background(), "stranger@example.com", "")
	if !result.Success {
		t.Fatalf("send failed: %s", result.Message)
	}

	// And no account is created by merely requesting a link.
	u, _ := users.GetByEmail("stranger@example.com")
	if u != nil {
		t.Error("requesting a link should not create a user")
	}
}

func TestVerifyMagicLinkRoundTrip(t *testing.T) {
	svc, mailer, _, _ := setupService(t)
	ctx := context.Background()

	svc.SendMagicLink(ctx, "amit@example.com", "")
	tok := tokenFromURL(t, mailer.urls[0])

	user, sessionID := svc.VerifyMagicLink(ctx, tok)
	if user == nil {
		t.Fatal("expected user from valid token")
	}
	if user.Email != "amit@example.com" {
		t.Errorf("email = %q", user.Email)
	}
	if len(sessionID) != 64 {
		t.Errorf("session id length = %d, want 64", len(sessionID))
	}

	// The session resolves back to the same user.
	resolved := svc.GetCurrentUser(ctx, sessionID)
	if resolved == nil || resolved.ID != user.ID {
		t.Error("session should resolve to the verified user")
	}
}

func TestVerifyMagicLinkReplay(t *testing.T) {
	svc, mailer, _, _ := setupService(t)
	ctx := context.Background()

	svc.SendMagicLink(ctx, "amit@example.com", "")
	tok := tokenFromURL(t, mailer.urls[0])

	if user, _ := svc.VerifyMagicLink(ctx, tok); user == nil {
		t.Fatal("first verify should succeed")
	}
	if user, _ := svc.VerifyMagicLink(ctx, tok); user != nil {
		t.Error("replayed token should fail")
	}
}

func TestVerifyMagicLinkExpired(t *testing.T) {
	svc, _, magicLinks, users := setupService(t)
	ctx := context.Background()

	magicLinks.Create("amit@example.com", "expired-token", -time.Hour)

	user, sessionID := svc.VerifyMagicLink(ctx, "expired-token")
	if user != nil || sessionID != "" {
		t.Error("expired token should not verify")
	}

	// Verification failure must not create an account.
	if u, _ := users.GetByEmail("amit@example.com"); u != nil {
		t.Error("expired token should not create a user")
	}
}

func TestVerifyMagicLinkUnknownToken(t *testing.T) {
	svc, _, _, _ := setupService(t)

	user, sessionID := svc.VerifyMagicLink(context.Background(), "bogus")
	if user != nil || sessionID != "" {
		t.Error("unknown token should not verify")
	}
}

func TestVerifyMagicLinkExistingUser(t *testing.T) {
	svc, mailer, _, users := setupService(t)
	ctx := context.Background()

	existing, err := users.Create("amit@example.com")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}

	svc.SendMagicLink(ctx, "amit@example.com", "")
	tok := tokenFromURL(t, mailer.urls[0])

	user, _ := svc.VerifyMagicLink(ctx, tok)
	if user == nil {
		t.Fatal("expected user")
	}
	if user.ID != existing.ID {
		t.Errorf("verified user = %d, want existing %d", user.ID, existing.ID)
	}
}

func TestGetCurrentUserEmptySession(t *testing.T) {
	svc, _, _, _ := setupService(t)

	if u := svc.GetCurrentUser(context.Background(), ""); u != nil {
		t.Error("empty session id should resolve to nil")
	}
}

func TestLogout(t *testing.T) {
	svc, mailer, _, _ := setupService(t)
	ctx := context.Background()

	svc.SendMagicLink(ctx, "amit@example.com", "")
	tok := tokenFromURL(t, mailer.urls[0])
	_, sessionID := svc.VerifyMagicLink(ctx, tok)

	svc.Logout(ctx, sessionID)
	if u := svc.GetCurrentUser(ctx, sessionID); u != nil {
		t.Error("logged out session should not resolve")
	}

	// Logging out twice, or with no session, is harmless.
	svc.Logout(ctx, sessionID)
	svc.Logout(ctx, "")
}
