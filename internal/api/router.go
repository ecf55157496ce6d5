package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/othala/internal/engine"
	"github.com/starford/othala/internal/noteservice"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
func NewRouter(svc *noteservice.Service, eng *engine.Engine, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	h := NewHandler(svc, eng)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// Notes (read only; the vault is edited by external tools).
	r.Get("/notes", h.ListNotes)
	r.Get("/notes/*", h.GetNote)

	// Search.
	r.Get("/search", h.Search)

	// Graph and frames.
	r.Get("/graph", h.Graph)
	r.Get("/frame", h.Frame)
	r.Get("/frame.svg", h.FrameSVG)

	// View interaction.
	r.Post("/view/pointer", h.Pointer)
	r.Post("/view/wheel", h.Wheel)
	r.Post("/view/zoom", h.Zoom)
	r.Post("/view/zoom/in", h.ZoomIn)
	r.Post("/view/zoom/out", h.ZoomOut)
	r.Post("/view/reset", h.ResetView)

	// Filter.
	r.Put("/filter", h.SetFilter)
	r.Delete("/filter", h.ClearFilter)

	// SSE endpoint (protected by same auth middleware).
	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
