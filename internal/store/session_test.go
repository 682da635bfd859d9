package store

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/absurd-industries/guild/internal/cache"
	"github.com/absurd-industries/guild/internal/database"
)

func setupSessionTestDB(t *testing.T, c cache.SessionCache) (*SessionStore, *UserStore) {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	us := NewUserStore(db)
	return NewSessionStore(db, c, us, slog.Default()), us
}

// downCache simulates an unreachable cache backend.
type downCache struct{}

func (downCache) Get(context.Context, string) (*cache.SessionData, error) {
	return nil, errors.New("connection refused")
}
func (downCache) Set(context.Context, string, cache.SessionData, time.Duration) error {
	return errors.New("connection refused")
}
func (downCache) Delete(context.Context, string) error {
	return errors.New("connection refused")
}

func TestSessionCreateAndResolve(t *testing.T) {
	ss, us := setupSessionTestDB(t, cache.NewMemory())
	ctx := context.Background()

	u, err := us.Create("amit@example.com")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}

	sess, err := ss.Create(ctx, u.ID, "session-a", DefaultSessionExpiry)
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	if sess.UserID != u.ID {
		t.Errorf("user_id = %d, want %d", sess.UserID, u.ID)
	}

	resolved, err := ss.Resolve(ctx, "session-a")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if resolved == nil {
		t.Fatal("expected user, got nil")
	}
	if resolved.ID != u.ID {
		t.Errorf("resolved user = %d, want %d", resolved.ID, u.ID)
	}
}

func TestSessionResolveUnknown(t *testing.T) {
	ss, _ := setupSessionTestDB(t, cache.NewMemory())

	u, err := ss.Resolve(context.Background(), "no-such-session")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if u != nil {
		t.Error("unknown session should resolve to nil")
	}
}

func TestSessionResolveExpired(t *testing.T) {
	ss, us := setupSessionTestDB(t, cache.NewMemory())
	ctx := context.Background()

	u, _ := us.Create("amit@example.com")
	if _, err := ss.Create(ctx, u.ID, "stale", -time.Hour); err != nil {
		t.Fatalf("create session: %v", err)
	}

	resolved, err := ss.Resolve(ctx, "stale")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if resolved != nil {
		t.Error("expired session should resolve to nil")
	}

	// The expired row is evicted on first touch.
	sess, err := ss.Get("stale")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if sess != nil {
		t.Error("expired session row should be deleted")
	}
}

func TestSessionResolveWithCacheDown(t *testing.T) {
	ss, us := setupSessionTestDB(t, downCache{})
	ctx := context.Background()

	u, _ := us.Create("amit@example.com")
	if _, err := ss.Create(ctx, u.ID, "session-a", DefaultSessionExpiry); err != nil {
		t.Fatalf("create session: %v", err)
	}

	// Every cache call fails; the durable row still answers.
	resolved, err := ss.Resolve(ctx, "session-a")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if resolved == nil || resolved.ID != u.ID {
		t.Error("session should resolve from the durable tier")
	}
}

func TestSessionResolveRepopulatesCache(t *testing.T) {
	mem := cache.NewMemory()
	ss, us := setupSessionTestDB(t, mem)
	ctx := context.Background()

	u, _ := us.Create("amit@example.com")
	ss.Create(ctx, u.ID, "session-a", DefaultSessionExpiry)

	// Drop the cache entry, as a restart or eviction would.
	mem.Delete(ctx, "session-a")
	if mem.Len() != 0 {
		t.Fatalf("cache len = %d, want 0", mem.Len())
	}

	if resolved, _ := ss.Resolve(ctx, "session-a"); resolved == nil {
		t.Fatal("expected durable hit")
	}
	if mem.Len() != 1 {
		t.Errorf("cache len = %d, want 1 after repopulation", mem.Len())
	}
}

func TestSessionDelete(t *testing.T) {
	ss, us := setupSessionTestDB(t, cache.NewMemory())
	ctx := context.Background()

	u, _ := us.Create("amit@example.com")
	ss.Create(ctx, u.ID, "session-a", DefaultSessionExpiry)

	if err := ss.Delete(ctx, "session-a"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if resolved, _ := ss.Resolve(ctx, "session-a"); resolved != nil {
		t.Error("deleted session should not resolve")
	}

	// Deleting again is not an error.
	if err := ss.Delete(ctx, "session-a"); err != nil {
		t.Errorf("second delete: %v", err)
	}
}

func TestSessionDeactivatedUser(t *testing.T) {
	ss, us := setupSessionTestDB(t, cache.NewMemory())
	ctx := context.Background()

	u, _ := us.Create("amit@example.com")
	ss.Create(ctx, u.ID, "session-a", DefaultSessionExpiry)
	us.Deactivate(u.ID)

	resolved, err := ss.Resolve(ctx, "session-a")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if resolved != nil {
		t.Error("session for deactivated user should resolve to nil")
	}
}

func TestSessionDeleteExpired(t *testing.T) {
	ss, us := setupSessionTestDB(t, cache.NewMemory())
	ctx := context.Background()

	u, _ := us.Create("amit@example.com")
	ss.Create(ctx, u.ID, "stale", -time.Hour)
	ss.Create(ctx, u.ID, "fresh", DefaultSessionExpiry)

	n, err := ss.DeleteExpired()
	if err != nil {
		t.Fatalf("delete expired: %v", err)
	}
	if n != 1 {
		t.Errorf("deleted = %d, want 1", n)
	}
	if sess, _ := ss.Get("fresh"); sess == nil {
		t.Error("fresh session should remain")
	}
}
