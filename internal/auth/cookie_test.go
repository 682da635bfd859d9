package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSessionCookieAttributes(t *testing.T) {
	c := SessionCookie("abc123")

	if c.Name != "absurd_session" {
		t.Errorf("name = %q, want absurd_session", c.Name)
	}
	if c.Value != "abc123" {
		t.Errorf("value = %q", c.Value)
	}
	if !c.HttpOnly {
		t.Error("cookie must be HttpOnly")
	}
	if !c.Secure {
		t.Error("cookie must be Secure")
	}
	if c.SameSite != http.SameSiteLaxMode {
		t.Error("cookie must be SameSite=Lax")
	}
	if c.Path != "/" {
		t.Errorf("path = %q, want /", c.Path)
	}
	if c.MaxAge != 30*24*60*60 {
		t.Errorf("max-age = %d, want 30 days in seconds", c.MaxAge)
	}
}

func TestClearSessionCookie(t *testing.T) {
	c := ClearSessionCookie()

	if c.Name != SessionCookieName {
		t.Errorf("name = %q", c.Name)
	}
	if c.Value != "" {
		t.Errorf("value = %q, want empty", c.Value)
	}
	if c.MaxAge >= 0 {
		t.Errorf("max-age = %d, want negative", c.MaxAge)
	}
}

func TestSessionFromRequest(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(SessionCookie("abc123"))

	if got := SessionFromRequest(r); got != "abc123" {
		t.Errorf("session = %q, want abc123", got)
	}
}

func TestSessionFromRequestMissing(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)

	if got := SessionFromRequest(r); got != "" {
		t.Errorf("session = %q, want empty", got)
	}
}

func TestCookieRoundTrip(t *testing.T) {
	rec := httptest.NewRecorder()
	http.SetCookie(rec, SessionCookie("abc123"))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Cookie", rec.Header().Get("Set-Cookie"))

	if got := SessionFromRequest(r); got != "abc123" {
		t.Errorf("round trip session = %q, want abc123", got)
	}
}
