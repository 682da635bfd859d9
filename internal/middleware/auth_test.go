package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/absurd-industries/guild/internal/auth"
	"github.com/absurd-industries/guild/internal/cache"
	"github.com/absurd-industries/guild/internal/database"
	"github.com/absurd-industries/guild/internal/email"
	"github.com/absurd-industries/guild/internal/model"
	"github.com/absurd-industries/guild/internal/store"
)

func setupAuthService(t *testing.T) (*auth.Service, *store.UserStore, *store.SessionStore) {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	users := store.NewUserStore(db)
	magicLinks := store.NewMagicLinkStore(db)
	sessions := store.NewSessionStore(db, cache.NewMemory(), users, slog.Default())
	mailer := email.NewLogMailer(slog.Default())
	return auth.NewService(users, magicLinks, sessions, mailer, "http://localhost:8080", slog.Default()), users, sessions
}

func signedInRequest(t *testing.T, users *store.UserStore, sessions *store.SessionStore, target string) (*http.Request, *model.User) {
	t.Helper()
	u, err := users.Create("amit@example.com")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	if _, err := sessions.Create(context.Background(), u.ID, "session-a", store.DefaultSessionExpiry); err != nil {
		t.Fatalf("create session: %v", err)
	}
	r := httptest.NewRequest(http.MethodGet, target, nil)
	r.AddCookie(auth.SessionCookie("session-a"))
	return r, u
}

func TestRequireAuthRedirectsAnonymous(t *testing.T) {
	svc, _, _ := setupAuthService(t)

	called := false
	handler := RequireAuth(svc)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/profile?tab=links", nil))

	if called {
		t.Error("handler should not run for anonymous request")
	}
	if rec.Code != http.StatusSeeOther {
		t.Errorf("status = %d, want 303", rec.Code)
	}
	loc := rec.Header().Get("Location")
	if loc != "/auth/login?redirectTo=%2Fprofile%3Ftab%3Dlinks" {
		t.Errorf("location = %q", loc)
	}
}

func TestRequireAuthPassesAuthenticated(t *testing.T) {
	svc, users, sessions := setupAuthService(t)
	r, u := signedInRequest(t, users, sessions, "/profile")

	var gotUser *model.User
	handler := RequireAuth(svc)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser = auth.UserFromContext(r.Context())
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, r)

	if gotUser == nil {
		t.Fatal("expected user in context")
	}
	if gotUser.ID != u.ID {
		t.Errorf("user = %d, want %d", gotUser.ID, u.ID)
	}
}

func TestRequireAuthRejectsBogusSession(t *testing.T) {
	svc, _, _ := setupAuthService(t)

	handler := RequireAuth(svc)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not run")
	}))

	r := httptest.NewRequest(http.MethodGet, "/profile", nil)
	r.AddCookie(auth.SessionCookie("forged"))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, r)

	if rec.Code != http.StatusSeeOther {
		t.Errorf("status = %d, want 303", rec.Code)
	}
}

func TestOptionalAuthAnonymous(t *testing.T) {
	svc, _, _ := setupAuthService(t)

	called := false
	handler := OptionalAuth(svc)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		if auth.UserFromContext(r.Context()) != nil {
			t.Error("anonymous request should carry no user")
		}
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if !called {
		t.Error("handler should run for anonymous request")
	}
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

func TestOptionalAuthSignedIn(t *testing.T) {
	svc, users, sessions := setupAuthService(t)
	r, u := signedInRequest(t, users, sessions, "/")

	handler := OptionalAuth(svc)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got := auth.UserFromContext(r.Context())
		if got == nil || got.ID != u.ID {
			t.Error("expected user in context")
		}
	}))

	handler.ServeHTTP(httptest.NewRecorder(), r)
}
