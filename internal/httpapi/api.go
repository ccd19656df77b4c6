// Package httpapi is the HTTP layer: route wiring, the access gate and the
// request/response plumbing around the auth, thesis and upload services.
package httpapi

import (
	"context"
	"database/sql"
	"net/http"
	"path/filepath"

	"thesisdesk.org/internal/auth"
	"thesisdesk.org/internal/obs"
	"thesisdesk.org/internal/thesis"
	"thesisdesk.org/internal/upload"
)

// ReadyProbe pings the backing store for /readyz.
type ReadyProbe struct {
	DB *sql.DB
}

func (rp ReadyProbe) Check(ctx context.Context) error {
	if rp.DB == nil {
		return nil
	}
	return rp.DB.PingContext(ctx)
}

// Options carries the collaborators of the HTTP layer.
type Options struct {
	Auth    *auth.Service
	Theses  thesis.Store
	Uploads *upload.Store

	PublicDir    string
	ProtectedDir string
}

// API is the HTTP layer.
type API struct {
	mux        *http.ServeMux
	readyProbe ReadyProbe
	version    string

	auth    *auth.Service
	theses  thesis.Store
	uploads *upload.Store

	publicDir    string
	protectedDir string

	rateBurst  int
	ratePerSec int
}

func New(rp ReadyProbe, version string, opts Options) *API {
	a := &API{
		mux:          http.NewServeMux(),
		readyProbe:   rp,
		version:      version,
		auth:         opts.Auth,
		theses:       opts.Theses,
		uploads:      opts.Uploads,
		publicDir:    opts.PublicDir,
		protectedDir: opts.ProtectedDir,
		rateBurst:    20,
		ratePerSec:   10,
	}
	a.routes()
	return a
}

func (a *API) routes() {
	// health/ready/metrics
	a.mux.HandleFunc("/healthz", a.handleHealthz)
	a.mux.HandleFunc("/readyz", a.handleReady)
	a.mux.Handle("/metrics", obs.Handler())

	// session lifecycle
	a.mux.HandleFunc("/login", a.handleLogin)
	a.mux.Handle("/logout", a.authenticated(http.HandlerFunc(a.handleLogout)))

	// role-specific pages
	a.mux.Handle("/teacher", a.protected(auth.RoleProfessor, http.HandlerFunc(a.handleTeacherPage)))
	a.mux.Handle("/student", a.protected(auth.RoleStudent, http.HandlerFunc(a.handleStudentPage)))

	// thesis API and uploads
	a.mux.Handle("/api/theses", a.authenticated(http.HandlerFunc(a.handleTheses)))
	a.mux.Handle("/api/theses/new", a.authenticated(http.HandlerFunc(a.handleThesisNew)))
	a.mux.Handle("/upload", a.authenticated(http.HandlerFunc(a.handleUpload)))

	// public static tree (index.html at the root)
	a.mux.Handle("/", http.FileServer(http.Dir(a.publicDir)))
}

// SetRateLimit adjusts the per-client rate limit. Call before Handler.
func (a *API) SetRateLimit(burst, perSec int) {
	if burst > 0 {
		a.rateBurst = burst
	}
	if perSec > 0 {
		a.ratePerSec = perSec
	}
}

// Handler returns the mux wrapped with the middleware chain.
func (a *API) Handler() http.Handler {
	var h http.Handler = a.mux
	h = SecurityHeaders(h)
	h = CORS(h)
	h = RateLimit(h, a.rateBurst, a.ratePerSec)
	h = LoggingJSON(h)
	h = RequestID(h)
	return obs.Instrument(h)
}

// --- probes ---

func (a *API) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"service": "thesisdesk-api",
		"version": a.version,
	})
}

func (a *API) handleReady(w http.ResponseWriter, r *http.Request) {
	if err := a.readyProbe.Check(r.Context()); err != nil {
		obs.SetReady(false)
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{
			"status": "not_ready",
		})
		return
	}
	obs.SetReady(true)
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ready",
	})
}

// --- protected pages ---

func (a *API) handleTeacherPage(w http.ResponseWriter, r *http.Request) {
	a.servePage(w, r, "teacher.html")
}

func (a *API) handleStudentPage(w http.ResponseWriter, r *http.Request) {
	a.servePage(w, r, "student.html")
}

func (a *API) servePage(w http.ResponseWriter, r *http.Request, name string) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	http.ServeFile(w, r, filepath.Join(a.protectedDir, name))
}

// rolePath maps a role to its landing page.
func rolePath(role auth.Role) string {
	if role == auth.RoleProfessor {
		return "/teacher"
	}
	return "/student"
}
