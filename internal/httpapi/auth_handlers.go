package httpapi

import (
	"errors"
	"net/http"
	"path/filepath"
	"strings"

	"thesisdesk.org/internal/audit"
	"thesisdesk.org/internal/auth"
	"thesisdesk.org/internal/obs"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (a *API) handleLogin(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		a.serveLoginPage(w, r)
	case http.MethodPost:
		a.performLogin(w, r)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPost)
	}
}

// serveLoginPage shows the login form, or skips it entirely when the
// request already carries a valid session cookie.
func (a *API) serveLoginPage(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(sessionCookieName); err == nil && c.Value != "" {
		if identity, err := a.auth.VerifyToken(c.Value); err == nil {
			http.Redirect(w, r, rolePath(identity.Role), http.StatusFound)
			return
		}
	}
	http.ServeFile(w, r, filepath.Join(a.publicDir, "login.html"))
}

func (a *API) performLogin(w http.ResponseWriter, r *http.Request) {
	req, err := decodeLoginRequest(w, r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	token, identity, expiresAt, err := a.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrMissingInput):
			writeError(w, r, http.StatusBadRequest, "email and password are required")
		case errors.Is(err, auth.ErrInvalidCredentials):
			obs.CountLogin("invalid")
			writeError(w, r, http.StatusUnauthorized, "invalid credentials")
		default:
			obs.CountLogin("error")
			obs.Error("login failed", map[string]any{
				"request_id": RequestIDFromContext(r.Context()),
				"err":        err.Error(),
			})
			writeError(w, r, http.StatusInternalServerError, "server error")
		}
		return
	}

	setSessionCookie(w, token, expiresAt)
	obs.CountLogin("success")

	ctx := auth.ContextWithIdentity(r.Context(), identity)
	_ = audit.LogEvent(ctx, "auth.login", map[string]any{
		"expires_at": expiresAt,
	})

	http.Redirect(w, r, rolePath(identity.Role), http.StatusFound)
}

// handleLogout clears the client's copy of the token. A token retained
// elsewhere (a saved bearer header) stays valid until expiry.
func (a *API) handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	clearSessionCookie(w)
	_ = audit.LogEvent(r.Context(), "auth.logout", nil)
	http.Redirect(w, r, "/", http.StatusFound)
}

// decodeLoginRequest accepts both JSON and form-encoded bodies.
func decodeLoginRequest(w http.ResponseWriter, r *http.Request) (loginRequest, error) {
	if isJSONRequest(r) {
		var req loginRequest
		if err := decodeJSON(w, r, &req); err != nil {
			return loginRequest{}, err
		}
		return req, nil
	}
	if err := r.ParseForm(); err != nil {
		return loginRequest{}, errors.New("malformed form body")
	}
	return loginRequest{
		Email:    strings.TrimSpace(r.PostFormValue("email")),
		Password: r.PostFormValue("password"),
	}, nil
}
