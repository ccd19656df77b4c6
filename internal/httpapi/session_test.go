package httpapi

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestTokenFromRequestPrefersCookie(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: "cookie-token"})
	req.Header.Set("Authorization", "Bearer header-token")

	token, ok := tokenFromRequest(req)
	if !ok || token != "cookie-token" {
		t.Fatalf("expected cookie token, got %q (ok=%v)", token, ok)
	}
}

func TestTokenFromRequestFallsBackToBearerHeader(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer header-token")

	token, ok := tokenFromRequest(req)
	if !ok || token != "header-token" {
		t.Fatalf("expected header token, got %q (ok=%v)", token, ok)
	}
}

func TestTokenFromRequestAbsent(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if _, ok := tokenFromRequest(req); ok {
		t.Fatal("expected no token")
	}

	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	if _, ok := tokenFromRequest(req); ok {
		t.Fatal("non-bearer scheme must not yield a token")
	}
}

func TestExtractBearerToken(t *testing.T) {
	cases := map[string]string{
		"Bearer abc":    "abc",
		"bearer abc":    "abc",
		"Bearer   abc ": "abc",
	}
	for header, want := range cases {
		got, err := extractBearerToken(header)
		if err != nil || got != want {
			t.Fatalf("extractBearerToken(%q)=%q,%v want %q", header, got, err, want)
		}
	}
	for _, header := range []string{"", "Bearer ", "Token abc"} {
		if _, err := extractBearerToken(header); err == nil {
			t.Fatalf("extractBearerToken(%q): expected error", header)
		}
	}
}

func TestSetSessionCookieIsHTTPOnly(t *testing.T) {
	rr := httptest.NewRecorder()
	setSessionCookie(rr, "tok", time.Now().Add(time.Hour))

	cookies := rr.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("expected one cookie, got %d", len(cookies))
	}
	c := cookies[0]
	if c.Name != sessionCookieName || c.Value != "tok" {
		t.Fatalf("unexpected cookie: %+v", c)
	}
	if !c.HttpOnly {
		t.Fatal("session cookie must be http-only")
	}
	if c.Path != "/" {
		t.Fatalf("unexpected path: %s", c.Path)
	}
}

func TestClearSessionCookieExpiresClientCopy(t *testing.T) {
	rr := httptest.NewRecorder()
	clearSessionCookie(rr)

	cookies := rr.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("expected one cookie, got %d", len(cookies))
	}
	c := cookies[0]
	if c.Name != sessionCookieName || c.Value != "" {
		t.Fatalf("unexpected cookie: %+v", c)
	}
	if c.MaxAge >= 0 {
		t.Fatalf("expected negative max-age, got %d", c.MaxAge)
	}
}
