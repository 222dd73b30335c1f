// Package api implements the GophNotes REST API using chi.
package api

import (
	"net/http"

	"github.com/dmitrijs2005/gophnotes/internal/logging"
	"github.com/dmitrijs2005/gophnotes/internal/server/metrics"
	"github.com/dmitrijs2005/gophnotes/internal/server/models"
	"github.com/dmitrijs2005/gophnotes/internal/server/services"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Options tune the router.
type Options struct {
	// Secret verifies bearer tokens.
	Secret []byte
	// MaxUploadBytes caps one attachment upload; zero means DefaultMaxUploadBytes.
	MaxUploadBytes int64
}

const (
	DefaultMaxUploadBytes = 50 << 20
	maxEntityBytes        = 1 << 20
)

// NewRouter creates a chi router with all API routes mounted. Health and
// metrics endpoints are public, everything else needs a bearer token.
func NewRouter(entities *services.EntityService, attachments *services.AttachmentService, opts Options, log logging.Logger) chi.Router {
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = DefaultMaxUploadBytes
	}
	log = log.With("module", "api")
	eh := &EntityHandler{svc: entities, log: log}
	ah := &AttachmentHandler{svc: attachments, log: log, maxUploadBytes: opts.MaxUploadBytes}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(Instrument(log))
	r.Use(middleware.Recoverer)

	r.Get("/health/live", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(opts.Secret))

		for collection, kind := range models.Collections {
			r.Route("/"+collection, func(r chi.Router) {
				r.Get("/", eh.List(kind))
				r.Post("/", eh.Create(kind))
				r.Put("/{id}", eh.Update(kind))
				r.Delete("/{id}", eh.Delete(kind))
			})
		}

		r.Route("/attachments", func(r chi.Router) {
			r.Post("/", ah.Upload)
			// {id} is the note id for listings and the attachment id otherwise.
			r.Get("/{id}", ah.ListLatest)
			r.Get("/{id}/history", ah.History)
			r.Get("/{id}/content", ah.Content)
			r.Delete("/{id}", ah.Delete)
		})
	})

	return r
}
