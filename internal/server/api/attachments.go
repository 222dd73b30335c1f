package api

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"

	"github.com/dmitrijs2005/gophnotes/internal/common"
	"github.com/dmitrijs2005/gophnotes/internal/logging"
	"github.com/dmitrijs2005/gophnotes/internal/server/services"
	"github.com/go-chi/chi/v5"
)

// AttachmentHandler accepts and serves attachment versions.
type AttachmentHandler struct {
	svc            *services.AttachmentService
	log            logging.Logger
	maxUploadBytes int64
}

// Upload handles POST /attachments?noteId=<id> (multipart/form-data, field
// "file"). The part is streamed to the service without buffering the form.
func (h *AttachmentHandler) Upload(w http.ResponseWriter, r *http.Request) {
	noteID := r.URL.Query().Get("noteId")
	if noteID == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("missing noteId"))
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	mr, err := r.MultipartReader()
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid multipart body"))
		return
	}

	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			writeJSON(w, http.StatusBadRequest, errorBody("missing 'file' field in multipart form"))
			return
		}
		if err != nil {
			writeError(w, r, h.log, fmt.Errorf("%w: %v", common.ErrorInvalidPayload, err))
			return
		}
		if part.FormName() != "file" {
			_ = part.Close()
			continue
		}

		a, err := h.svc.Put(r.Context(), UserID(r.Context()), noteID, part.FileName(), part.Header.Get("Content-Type"), part)
		_ = part.Close()
		if err != nil {
			writeError(w, r, h.log, err)
			return
		}
		writeJSON(w, http.StatusCreated, a)
		return
	}
}

// ListLatest handles GET /attachments/{noteId}.
func (h *AttachmentHandler) ListLatest(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.ListLatest(r.Context(), UserID(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// History handles GET /attachments/{noteId}/history?filename=<name>.
func (h *AttachmentHandler) History(w http.ResponseWriter, r *http.Request) {
	filename := r.URL.Query().Get("filename")
	if filename == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("missing filename"))
		return
	}
	items, err := h.svc.History(r.Context(), UserID(r.Context()), chi.URLParam(r, "id"), filename)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// Content handles GET /attachments/{id}/content.
func (h *AttachmentHandler) Content(w http.ResponseWriter, r *http.Request) {
	a, rc, err := h.svc.Open(r.Context(), UserID(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", a.MimeType)
	w.Header().Set("Content-Length", strconv.FormatInt(a.Size, 10))
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": a.Filename}))
	w.Header().Set("ETag", strconv.Quote(a.Hash))
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, rc); err != nil {
		h.log.Warn(r.Context(), "download interrupted", "id", a.ID, "error", err)
	}
}

// Delete handles DELETE /attachments/{id}.
func (h *AttachmentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), UserID(r.Context()), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, h.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
