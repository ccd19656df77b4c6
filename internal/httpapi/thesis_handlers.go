package httpapi

import (
	"net/http"
	"strings"

	"thesisdesk.org/internal/audit"
	"thesisdesk.org/internal/auth"
	"thesisdesk.org/internal/obs"
	"thesisdesk.org/internal/thesis"
)

type newThesisRequest struct {
	Title   string `json:"title"`
	Summary string `json:"summary"`
}

type thesesResponse struct {
	Success bool            `json:"success"`
	Theses  []thesis.Thesis `json:"theses"`
}

type apiMessage struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func (a *API) handleTheses(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "access denied")
		return
	}

	theses, err := a.theses.ListByOwner(r.Context(), identity.UserID)
	if err != nil {
		obs.Error("list theses failed", map[string]any{
			"request_id": RequestIDFromContext(r.Context()),
			"err":        err.Error(),
		})
		writeJSON(w, http.StatusInternalServerError, apiMessage{Success: false, Message: "server error"})
		return
	}
	writeJSON(w, http.StatusOK, thesesResponse{Success: true, Theses: theses})
}

func (a *API) handleThesisNew(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "access denied")
		return
	}

	req, err := decodeThesisRequest(w, r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, apiMessage{Success: false, Message: err.Error()})
		return
	}
	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Summary) == "" {
		writeJSON(w, http.StatusBadRequest, apiMessage{Success: false, Message: "title and summary are required"})
		return
	}

	th := &thesis.Thesis{
		OwnerID: identity.UserID,
		Title:   strings.TrimSpace(req.Title),
		Summary: strings.TrimSpace(req.Summary),
	}
	if err := a.theses.Create(r.Context(), th); err != nil {
		obs.Error("create thesis failed", map[string]any{
			"request_id": RequestIDFromContext(r.Context()),
			"err":        err.Error(),
		})
		writeJSON(w, http.StatusInternalServerError, apiMessage{Success: false, Message: "server error"})
		return
	}

	_ = audit.LogEvent(r.Context(), "thesis.create", map[string]any{
		"thesis_id": th.ID,
		"title":     th.Title,
	})
	writeJSON(w, http.StatusCreated, apiMessage{Success: true, Message: "thesis created successfully"})
}

func decodeThesisRequest(w http.ResponseWriter, r *http.Request) (newThesisRequest, error) {
	if isJSONRequest(r) {
		var req newThesisRequest
		if err := decodeJSON(w, r, &req); err != nil {
			return newThesisRequest{}, err
		}
		return req, nil
	}
	if err := r.ParseForm(); err != nil {
		return newThesisRequest{}, err
	}
	return newThesisRequest{
		Title:   r.PostFormValue("title"),
		Summary: r.PostFormValue("summary"),
	}, nil
}
