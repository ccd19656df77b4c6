package httpapi

import (
	"errors"
	"net/http"
	"strings"
	"time"
)

// The session carrier: a token travels either in an http-only cookie or in
// an Authorization bearer header. The cookie wins when both are present.
const (
	sessionCookieName = "token"
	authHeader        = "Authorization"
	bearerPrefix      = "Bearer "
)

// tokenFromRequest locates the session token. Exactly one source is
// consulted per the precedence: cookie first, bearer header as fallback.
func tokenFromRequest(r *http.Request) (string, bool) {
	if c, err := r.Cookie(sessionCookieName); err == nil && c.Value != "" {
		return c.Value, true
	}
	token, err := extractBearerToken(r.Header.Get(authHeader))
	if err != nil {
		return "", false
	}
	return token, true
}

func extractBearerToken(header string) (string, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", errors.New("missing bearer token")
	}
	if !strings.HasPrefix(strings.ToLower(header), strings.ToLower(bearerPrefix)) {
		return "", errors.New("invalid authorization scheme")
	}
	token := strings.TrimSpace(header[len(bearerPrefix):])
	if token == "" {
		return "", errors.New("missing bearer token")
	}
	return token, nil
}

// setSessionCookie attaches the issued token to the response. The cookie is
// inaccessible to page scripts.
func setSessionCookie(w http.ResponseWriter, token string, expiresAt time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// clearSessionCookie removes the client's copy of the token. The token
// itself stays valid until natural expiry; there is no server-side
// revocation (stateless-session tradeoff).
func clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
