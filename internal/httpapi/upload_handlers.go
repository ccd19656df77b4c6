package httpapi

import (
	"errors"
	"net/http"

	"thesisdesk.org/internal/audit"
	"thesisdesk.org/internal/obs"
	"thesisdesk.org/internal/upload"
)

// uploadFieldName is the single multipart field a submission must use.
const uploadFieldName = "pdf"

// multipartOverhead leaves room for multipart boundaries and headers on top
// of the file ceiling enforced by the store.
const multipartOverhead = 1 << 20

type uploadResponse struct {
	Message string         `json:"message"`
	File    uploadFileInfo `json:"file"`
}

type uploadFileInfo struct {
	Filename string `json:"filename"`
	Path     string `json:"path"`
}

func (a *API) handleUpload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}

	// The transport rejects oversized bodies before the store sees them.
	r.Body = http.MaxBytesReader(w, r.Body, a.uploads.MaxBytes()+multipartOverhead)

	file, header, err := r.FormFile(uploadFieldName)
	if err != nil {
		obs.CountUpload("rejected")
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(w, r, http.StatusBadRequest, "file exceeds the size limit")
			return
		}
		writeError(w, r, http.StatusBadRequest, "no file uploaded or invalid file type")
		return
	}
	defer file.Close()

	rec, err := a.uploads.Save(header.Filename, header.Header.Get("Content-Type"), file)
	if err != nil {
		switch {
		case errors.Is(err, upload.ErrUnsupportedType):
			obs.CountUpload("rejected")
			writeError(w, r, http.StatusBadRequest, "only PDF files are allowed")
		case errors.Is(err, upload.ErrTooLarge):
			obs.CountUpload("rejected")
			writeError(w, r, http.StatusBadRequest, "file exceeds the size limit")
		default:
			obs.CountUpload("failed")
			obs.Error("store upload failed", map[string]any{
				"request_id": RequestIDFromContext(r.Context()),
				"err":        err.Error(),
			})
			writeError(w, r, http.StatusInternalServerError, "server error")
		}
		return
	}

	obs.CountUpload("stored")
	_ = audit.LogEvent(r.Context(), "upload.store", map[string]any{
		"original_name": rec.OriginalName,
		"stored_name":   rec.StoredName,
		"size_bytes":    rec.SizeBytes,
	})

	writeJSON(w, http.StatusOK, uploadResponse{
		Message: "File uploaded successfully!",
		File: uploadFileInfo{
			Filename: rec.StoredName,
			Path:     rec.StoredPath,
		},
	})
}
