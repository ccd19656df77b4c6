package httpapi

import (
	"net/http"

	"thesisdesk.org/internal/auth"
)

// The access gate runs authentication strictly before authorization on
// every guarded route. A missing token and a present-but-bad token map to
// different status codes (401 vs 403) and are never merged.

// withAuth authenticates the request and attaches the resolved identity to
// the context for downstream stages.
func (a *API) withAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := tokenFromRequest(r)
		if !ok {
			w.Header().Set("WWW-Authenticate", "Bearer")
			writeError(w, r, http.StatusUnauthorized, "access denied")
			return
		}
		identity, err := a.auth.VerifyToken(token)
		if err != nil {
			writeError(w, r, http.StatusForbidden, "invalid token")
			return
		}
		ctx := auth.ContextWithIdentity(r.Context(), identity)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRole rejects requests whose identity does not carry the required
// role. It never trusts call ordering: with no identity attached it fails
// closed with 401 instead of assuming authentication already ran.
func RequireRole(role auth.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := auth.IdentityFromContext(r.Context())
			if !ok {
				w.Header().Set("WWW-Authenticate", "Bearer")
				writeError(w, r, http.StatusUnauthorized, "access denied")
				return
			}
			if identity.Role != role {
				w.Header().Set("WWW-Authenticate", "Bearer")
				writeError(w, r, http.StatusForbidden, "access denied")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// authenticated guards a route with the authentication stage only.
func (a *API) authenticated(next http.Handler) http.Handler {
	return a.withAuth(next)
}

// protected composes both gate stages in the only valid order, so a route
// cannot be wired with a role check but no authentication.
func (a *API) protected(role auth.Role, next http.Handler) http.Handler {
	return a.withAuth(RequireRole(role)(next))
}
