package api

import (
	"github.com/starford/othala/internal/engine"
	"github.com/starford/othala/internal/noteservice"
)

// NoteDetail is the full note response type (aliased from the domain layer).
type NoteDetail = noteservice.NoteDetail

// NoteListItem is a lightweight item in a list response (aliased from the domain layer).
type NoteListItem = noteservice.NoteListItem

// NoteListResponse wraps paginated note listings.
type NoteListResponse struct {
	Notes []NoteListItem `json:"notes" validate:"required"`
	Total int            `json:"total" example:"42" validate:"required"`
}

// SearchResult is a single search hit in the API response.
type SearchResult struct {
	Path    string `json:"path" example:"notes/hello.md" validate:"required"`
	Title   string `json:"title" example:"Hello" validate:"required"`
	Snippet string `json:"snippet" example:"...matched text..." validate:"required"`
}

// SearchResponse wraps search results.
type SearchResponse struct {
	Results []SearchResult `json:"results" validate:"required"`
}

// GraphResponse is the wire snapshot of the current graph model and layout.
type GraphResponse = engine.GraphView

// FrameResponse is one rendered frame plus its metadata.
type FrameResponse = engine.Frame

// PointerRequest is the request body for forwarding a pointer event.
type PointerRequest struct {
	Type string  `json:"type" example:"down" validate:"required"`
	X    float64 `json:"x" example:"320.5" validate:"required"`
	Y    float64 `json:"y" example:"184.0" validate:"required"`
}

// WheelRequest is the request body for a wheel zoom step.
type WheelRequest struct {
	DeltaY float64 `json:"delta_y" example:"-120" validate:"required"`
}

// ZoomRequest is the request body for a direct zoom.
type ZoomRequest struct {
	Factor float64 `json:"factor" example:"1.5" validate:"required"`
}

// FilterRequest is the request body for setting the graph filter.
type FilterRequest struct {
	Query string   `json:"query" example:"meeting"`
	Tags  []string `json:"tags" example:"work,planning"`
}
