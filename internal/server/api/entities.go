package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/dmitrijs2005/gophnotes/internal/common"
	"github.com/dmitrijs2005/gophnotes/internal/logging"
	"github.com/dmitrijs2005/gophnotes/internal/server/services"
	"github.com/go-chi/chi/v5"
)

// EntityHandler serves the notes, notebooks and tags collections. Each
// method returns the handler for one kind.
type EntityHandler struct {
	svc *services.EntityService
	log logging.Logger
}

func readPayload(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	b, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxEntityBytes))
	if err != nil {
		return nil, err
	}
	if !json.Valid(b) {
		return nil, fmt.Errorf("%w: body is not JSON", common.ErrorInvalidPayload)
	}
	return b, nil
}

// List handles GET /{collection}.
func (h *EntityHandler) List(kind string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := h.svc.List(r.Context(), UserID(r.Context()), kind)
		if err != nil {
			writeError(w, r, h.log, err)
			return
		}
		writeJSON(w, http.StatusOK, items)
	}
}

// Create handles POST /{collection}; repeating it with the same id upserts.
func (h *EntityHandler) Create(kind string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, err := readPayload(w, r)
		if err != nil {
			writeError(w, r, h.log, err)
			return
		}
		id, err := h.svc.Create(r.Context(), UserID(r.Context()), kind, payload)
		if err != nil {
			writeError(w, r, h.log, err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]string{"id": id})
	}
}

// Update handles PUT /{collection}/{id}.
func (h *EntityHandler) Update(kind string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, err := readPayload(w, r)
		if err != nil {
			writeError(w, r, h.log, err)
			return
		}
		if err := h.svc.Update(r.Context(), UserID(r.Context()), kind, chi.URLParam(r, "id"), payload); err != nil {
			writeError(w, r, h.log, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// Delete handles DELETE /{collection}/{id}. Unknown ids succeed.
func (h *EntityHandler) Delete(kind string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h.svc.Delete(r.Context(), UserID(r.Context()), kind, chi.URLParam(r, "id")); err != nil {
			writeError(w, r, h.log, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
