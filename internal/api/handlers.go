package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/starford/othala/internal/apperr"
	"github.com/starford/othala/internal/engine"
	"github.com/starford/othala/internal/filter"
	"github.com/starford/othala/internal/noteservice"
)

// Handler holds API route handlers.
type Handler struct {
	svc *noteservice.Service
	eng *engine.Engine
}

// NewHandler creates a new Handler.
func NewHandler(svc *noteservice.Service, eng *engine.Engine) *Handler {
	return &Handler{svc: svc, eng: eng}
}

// notePath extracts the note path from the URL (everything after /api/notes/).
// Supports encoded slashes from OpenAPI clients (e.g. topics%2Fnote.md).
func notePath(r *http.Request) string {
	raw := strings.TrimPrefix(chi.URLParam(r, "*"), "/")
	if raw == "" {
		return ""
	}
	decoded, err := url.PathUnescape(raw)
	if err != nil {
		return raw
	}
	return decoded
}

// ListNotes handles GET /api/notes.
//
//	@Summary		List notes with optional pagination and filtering
//	@Tags			notes
//	@Produce		json
//	@Param			limit	query		int		false	"Page size"
//	@Param			offset	query		int		false	"Page offset"
//	@Param			tag		query		string	false	"Filter by tag"
//	@Param			sort	query		string	false	"Sort field"	Enums(updated_at, title, path)
//	@Success		200		{object}	NoteListResponse
//	@Security		BearerAuth
//	@Router			/notes [get]
func (h *Handler) ListNotes(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	offset, _ := strconv.Atoi(q.Get("offset"))
	tag := q.Get("tag")
	sort := q.Get("sort")

	items, total, err := h.svc.ListNotes(r.Context(), limit, offset, tag, sort)
	if err != nil {
		slog.Error("list notes failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"notes": items,
		"total": total,
	})
}

// GetNote handles GET /api/notes/*.
//
//	@Summary		Get a single note by path
//	@Tags			notes
//	@Produce		json
//	@Param			path	path		string	true	"Note path"
//	@Success		200		{object}	NoteDetail
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/notes/{path} [get]
func (h *Handler) GetNote(w http.ResponseWriter, r *http.Request) {
	path := notePath(r)
	if path == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("path is required"))
		return
	}
	note, err := h.svc.GetNote(r.Context(), path)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("not found"))
		} else {
			slog.Error("get note failed", slog.String("path", path), slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	writeJSON(w, http.StatusOK, note)
}

// Search handles GET /api/search.
//
//	@Summary		Full-text search across notes
//	@Tags			search
//	@Produce		json
//	@Param			q		query		string	true	"Search query"
//	@Param			limit	query		int		false	"Max results"
//	@Success		200		{object}	SearchResponse
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/search [get]
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("query parameter 'q' is required"))
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	results, err := h.svc.Search(r.Context(), q, limit)
	if err != nil {
		slog.Error("search failed", slog.String("query", q), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"results": results,
	})
}

// Graph handles GET /api/graph.
//
//	@Summary		Get the knowledge graph with live layout positions
//	@Tags			graph
//	@Produce		json
//	@Success		200	{object}	GraphResponse
//	@Security		BearerAuth
//	@Router			/graph [get]
func (h *Handler) Graph(w http.ResponseWriter, r *http.Request) {
	gv, err := h.eng.Graph()
	if err != nil {
		slog.Error("graph failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, gv)
}

// Frame handles GET /api/frame.
//
//	@Summary		Get the current frame as JSON metadata plus inline SVG
//	@Tags			graph
//	@Produce		json
//	@Success		200	{object}	FrameResponse
//	@Security		BearerAuth
//	@Router			/frame [get]
func (h *Handler) Frame(w http.ResponseWriter, r *http.Request) {
	f, err := h.eng.Frame()
	if err != nil {
		slog.Error("frame failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, f)
}

// FrameSVG handles GET /api/frame.svg.
//
//	@Summary		Get the current frame as a raw SVG document
//	@Tags			graph
//	@Produce		image/svg+xml
//	@Success		200	{string}	string
//	@Security		BearerAuth
//	@Router			/frame.svg [get]
func (h *Handler) FrameSVG(w http.ResponseWriter, r *http.Request) {
	f, err := h.eng.Frame()
	if err != nil {
		slog.Error("frame failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write([]byte(f.SVG))
}

// Pointer handles POST /api/view/pointer.
//
//	@Summary		Forward a pointer event to the graph view
//	@Tags			view
//	@Accept			json
//	@Param			body	body	PointerRequest	true	"Pointer event"
//	@Success		202		"Event accepted"
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/view/pointer [post]
func (h *Handler) Pointer(w http.ResponseWriter, r *http.Request) {
	var req PointerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	switch req.Type {
	case "down", "move", "up", "leave":
	default:
		writeJSON(w, http.StatusBadRequest, errorBody("type must be one of down, move, up, leave"))
		return
	}
	h.eng.Pointer(engine.PointerEvent{Type: req.Type, X: req.X, Y: req.Y})
	w.WriteHeader(http.StatusAccepted)
}

// Wheel handles POST /api/view/wheel.
//
//	@Summary		Apply a wheel zoom step (negative delta zooms in)
//	@Tags			view
//	@Accept			json
//	@Param			body	body	WheelRequest	true	"Wheel delta"
//	@Success		202		"Event accepted"
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/view/wheel [post]
func (h *Handler) Wheel(w http.ResponseWriter, r *http.Request) {
	var req WheelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	h.eng.Wheel(req.DeltaY)
	w.WriteHeader(http.StatusAccepted)
}

// Zoom handles POST /api/view/zoom.
//
//	@Summary		Multiply the viewport scale by a factor
//	@Tags			view
//	@Accept			json
//	@Param			body	body	ZoomRequest	true	"Zoom factor"
//	@Success		202		"Event accepted"
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/view/zoom [post]
func (h *Handler) Zoom(w http.ResponseWriter, r *http.Request) {
	var req ZoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if req.Factor <= 0 {
		writeJSON(w, http.StatusBadRequest, errorBody("factor must be positive"))
		return
	}
	h.eng.Zoom(req.Factor)
	w.WriteHeader(http.StatusAccepted)
}

// ZoomIn handles POST /api/view/zoom/in.
//
//	@Summary		Apply one zoom-in step
//	@Tags			view
//	@Success		202	"Zoom accepted"
//	@Security		BearerAuth
//	@Router			/view/zoom/in [post]
func (h *Handler) ZoomIn(w http.ResponseWriter, r *http.Request) {
	h.eng.ZoomIn()
	w.WriteHeader(http.StatusAccepted)
}

// ZoomOut handles POST /api/view/zoom/out.
//
//	@Summary		Apply one zoom-out step
//	@Tags			view
//	@Success		202	"Zoom accepted"
//	@Security		BearerAuth
//	@Router			/view/zoom/out [post]
func (h *Handler) ZoomOut(w http.ResponseWriter, r *http.Request) {
	h.eng.ZoomOut()
	w.WriteHeader(http.StatusAccepted)
}

// ResetView handles POST /api/view/reset.
//
//	@Summary		Reset pan and zoom to the identity transform
//	@Tags			view
//	@Success		202	"Reset accepted"
//	@Security		BearerAuth
//	@Router			/view/reset [post]
func (h *Handler) ResetView(w http.ResponseWriter, r *http.Request) {
	h.eng.ResetView()
	w.WriteHeader(http.StatusAccepted)
}

// SetFilter handles PUT /api/filter.
//
//	@Summary		Set the graph search/tag filter
//	@Tags			filter
//	@Accept			json
//	@Param			body	body	FilterRequest	true	"Filter criteria"
//	@Success		202		"Filter accepted"
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/filter [put]
func (h *Handler) SetFilter(w http.ResponseWriter, r *http.Request) {
	var req FilterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	h.eng.SetFilter(filter.Filter{Query: req.Query, Tags: req.Tags})
	w.WriteHeader(http.StatusAccepted)
}

// ClearFilter handles DELETE /api/filter.
//
//	@Summary		Clear the graph filter
//	@Tags			filter
//	@Success		202	"Filter cleared"
//	@Security		BearerAuth
//	@Router			/filter [delete]
func (h *Handler) ClearFilter(w http.ResponseWriter, r *http.Request) {
	h.eng.ClearFilter()
	w.WriteHeader(http.StatusAccepted)
}
