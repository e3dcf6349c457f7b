package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/Rrens/legal-assistant/internal/api/response"
	"github.com/Rrens/legal-assistant/internal/domain"
	"github.com/Rrens/legal-assistant/internal/ingest"
	"github.com/Rrens/legal-assistant/internal/service"
	"github.com/go-chi/chi/v5"
)

// DocumentHandler handles document listing and admin management
type DocumentHandler struct {
	app            *service.App
	maxUploadBytes int64
}

func NewDocumentHandler(app *service.App, maxUploadMB int) *DocumentHandler {
	if maxUploadMB <= 0 {
		maxUploadMB = 32
	}
	return &DocumentHandler{app: app, maxUploadBytes: int64(maxUploadMB) << 20}
}

// List returns documents without their content
func (h *DocumentHandler) List(w http.ResponseWriter, r *http.Request) {
	response.OK(w, domain.Summarize(h.app.Documents()))
}

// Upload parses the multipart "files" field and adds every readable file
func (h *DocumentHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		response.BadRequest(w, "invalid multipart form: "+err.Error())
		return
	}
	defer r.MultipartForm.RemoveAll()

	headers := r.MultipartForm.File["files"]
	if len(headers) == 0 {
		response.BadRequest(w, "no files uploaded")
		return
	}

	files := make([]ingest.File, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			response.BadRequest(w, fmt.Sprintf("failed to read %s", fh.Filename))
			return
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			response.BadRequest(w, fmt.Sprintf("failed to read %s", fh.Filename))
			return
		}

		files = append(files, ingest.File{
			Name:        fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Data:        data,
		})
	}

	result, err := h.app.UploadDocuments(r.Context(), files)
	if err != nil {
		if errors.Is(err, service.ErrAdminRequired) {
			response.Forbidden(w, err.Error())
			return
		}
		response.InternalError(w, err.Error())
		return
	}

	response.OK(w, result)
}

// Delete removes a document by id. Unknown ids succeed with deleted=false.
func (h *DocumentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "documentID")
	if id == "" {
		response.BadRequest(w, "missing document ID")
		return
	}

	deleted, err := h.app.DeleteDocument(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrAdminRequired) {
			response.Forbidden(w, err.Error())
			return
		}
		response.InternalError(w, err.Error())
		return
	}

	response.OK(w, map[string]any{
		"id":      id,
		"deleted": deleted,
	})
}
