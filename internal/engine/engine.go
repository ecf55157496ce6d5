// Package engine drives the knowledge-graph simulation: it owns the
// current model, physics state, viewport, input controller, and filter,
// and advances the layout once per frame tick.
package engine

import (
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/starford/othala/internal/apperr"
	"github.com/starford/othala/internal/filter"
	"github.com/starford/othala/internal/graph"
	"github.com/starford/othala/internal/models"
	"github.com/starford/othala/internal/physics"
	"github.com/starford/othala/internal/render"
	"github.com/starford/othala/internal/view"
)

// Config sets the canvas dimensions and simulation tick rate.
type Config struct {
	Width     float64
	Height    float64
	FrameRate int // simulation steps per second
}

// Publisher receives engine lifecycle announcements. *sse.Broker satisfies it.
type Publisher interface {
	PublishGraphUpdated(nodes, edges int)
	PublishFrame(seq uint64)
}

// PointerEvent is one pointer interaction forwarded from the host surface.
// Type is one of "down", "move", "up", "leave"; X and Y are screen pixels.
type PointerEvent struct {
	Type string  `json:"type"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

// Frame is one rendered frame plus the state a host needs alongside it.
type Frame struct {
	SVG      string  `json:"svg"`
	Seq      uint64  `json:"seq"`
	Nodes    int     `json:"nodes"`
	Edges    int     `json:"edges"`
	Scale    float64 `json:"scale"`
	Hovered  string  `json:"hovered,omitempty"`
	Selected string  `json:"selected,omitempty"`
}

// NodeView is a graph node on the wire, carrying its live position.
type NodeView struct {
	ID     string  `json:"id"`
	Kind   string  `json:"kind"`
	Label  string  `json:"label"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Radius float64 `json:"radius"`
}

// EdgeView is a graph edge on the wire.
type EdgeView struct {
	Source   string  `json:"source"`
	Target   string  `json:"target"`
	Kind     string  `json:"kind"`
	Strength float64 `json:"strength"`
}

// GraphView is the wire snapshot of the current model and layout.
type GraphView struct {
	Nodes []NodeView `json:"nodes"`
	Edges []EdgeView `json:"edges"`
	Seq   uint64     `json:"seq"`
}

// Engine runs the simulation loop.
//
// Concurrency model mirrors the SSE broker: one goroutine owns every piece
// of mutable state (model, physics bodies, viewport, controller, filter)
// and all public methods talk to it over channels, preserving the
// single-writer frame ordering the simulation depends on. No locking, and
// nothing can observe a half-rebuilt graph.
type Engine struct {
	cfg    Config
	logger *slog.Logger
	pub    Publisher

	onSelectNote func(noteID string)

	reloadCh    chan []models.Note
	pointerCh   chan PointerEvent
	wheelCh     chan float64
	zoomCh      chan float64
	resetViewCh chan struct{}
	filterCh    chan filter.Filter
	frameReqCh  chan chan Frame
	graphReqCh  chan chan GraphView

	stopCh  chan struct{}
	stopped chan struct{}
	closed  atomic.Bool
}

// New starts an engine with an empty model. onSelectNote, if non-nil, is
// invoked from the engine goroutine whenever a note node is clicked; hosts
// wanting to do slow work there should hand it off.
func New(cfg Config, pub Publisher, logger *slog.Logger, onSelectNote func(string)) *Engine {
	if cfg.FrameRate <= 0 {
		cfg.FrameRate = 30
	}
	if logger == nil {
		logger = slog.Default()
	}

	e := &Engine{
		cfg:          cfg,
		logger:       logger,
		pub:          pub,
		onSelectNote: onSelectNote,
		reloadCh:     make(chan []models.Note),
		pointerCh:    make(chan PointerEvent, 64),
		wheelCh:      make(chan float64, 64),
		zoomCh:       make(chan float64, 16),
		resetViewCh:  make(chan struct{}, 1),
		filterCh:     make(chan filter.Filter, 16),
		frameReqCh:   make(chan chan Frame),
		graphReqCh:   make(chan chan GraphView),
		stopCh:       make(chan struct{}),
		stopped:      make(chan struct{}),
	}

	go e.run()
	return e
}

// loopState is the mutable world owned exclusively by the run goroutine.
type loopState struct {
	notes   []models.Note
	model   *graph.Model
	sim     *physics.State
	vp      *view.Viewport
	ctrl    *view.Controller
	filter  filter.Filter
	matches map[string]struct{}
	seq     uint64
}

func (e *Engine) run() {
	defer close(e.stopped)

	st := &loopState{
		model: graph.Build(nil, e.cfg.Width, e.cfg.Height),
		vp:    view.NewViewport(),
	}
	st.sim = physics.NewState(st.model)

	// The hooks close over st so a model swap rebinds them implicitly.
	st.ctrl = view.NewController(st.vp, view.Hooks{
		HitTest: func(wx, wy float64) (string, bool) {
			return st.sim.NodeAt(wx, wy)
		},
		KindOf: func(id string) (graph.NodeKind, bool) {
			n, ok := st.model.Node(id)
			if !ok {
				return 0, false
			}
			return n.Kind, true
		},
		PinNode:      func(id string, wx, wy float64) { st.sim.PinTo(id, wx, wy) },
		ReleaseNode:  func(id string) { st.sim.Release(id) },
		OnSelectNote: e.onSelectNote,
	})

	ticker := time.NewTicker(time.Second / time.Duration(e.cfg.FrameRate))
	defer ticker.Stop()

	for {
		select {
		case <-e.stopCh:
			return

		case <-ticker.C:
			if st.model.Empty() {
				continue // no simulation runs for an empty vault
			}
			physics.Step(st.sim, st.model, e.cfg.Width, e.cfg.Height)
			st.seq++
			if e.pub != nil {
				e.pub.PublishFrame(st.seq)
			}

		case notes := <-e.reloadCh:
			e.rebuild(st, notes)

		case ev := <-e.pointerCh:
			switch ev.Type {
			case "down":
				st.ctrl.PointerDown(ev.X, ev.Y)
			case "move":
				st.ctrl.PointerMove(ev.X, ev.Y)
			case "up":
				st.ctrl.PointerUp()
			case "leave":
				st.ctrl.PointerLeave()
			}

		case delta := <-e.wheelCh:
			st.ctrl.Wheel(delta)

		case factor := <-e.zoomCh:
			st.vp.ZoomBy(factor)

		case <-e.resetViewCh:
			st.vp.Reset()

		case f := <-e.filterCh:
			st.filter = f
			st.matches = f.Matches(st.notes, st.model)

		case resp := <-e.frameReqCh:
			resp <- Frame{
				SVG: render.SVG(st.model, st.sim, st.vp, e.cfg.Width, e.cfg.Height, render.Options{
					Highlight: st.matches,
					Hovered:   st.ctrl.Hovered(),
					Selected:  st.ctrl.Selected(),
				}),
				Seq:      st.seq,
				Nodes:    len(st.model.Nodes),
				Edges:    len(st.model.Edges),
				Scale:    st.vp.Scale,
				Hovered:  st.ctrl.Hovered(),
				Selected: st.ctrl.Selected(),
			}

		case resp := <-e.graphReqCh:
			resp <- snapshotView(st)
		}
	}
}

// rebuild swaps in a whole new model and physics state for a changed notes
// snapshot. The old node population is discarded outright, selection
// included; the layout restarts from computed initial positions.
func (e *Engine) rebuild(st *loopState, notes []models.Note) {
	st.notes = notes
	st.model = graph.Build(notes, e.cfg.Width, e.cfg.Height)
	st.sim = physics.NewState(st.model)
	st.ctrl.ClearSelection()
	st.matches = st.filter.Matches(st.notes, st.model)

	e.logger.Debug("engine: model rebuilt",
		slog.Int("notes", len(notes)),
		slog.Int("nodes", len(st.model.Nodes)),
		slog.Int("edges", len(st.model.Edges)))
	if e.pub != nil {
		e.pub.PublishGraphUpdated(len(st.model.Nodes), len(st.model.Edges))
	}
}

func snapshotView(st *loopState) GraphView {
	gv := GraphView{
		Nodes: make([]NodeView, 0, len(st.model.Nodes)),
		Edges: make([]EdgeView, 0, len(st.model.Edges)),
		Seq:   st.seq,
	}
	for _, n := range st.model.Nodes {
		nv := NodeView{
			ID:     n.ID,
			Kind:   n.Kind.String(),
			Label:  n.Label,
			Radius: n.Radius,
		}
		if b, ok := st.sim.Body(n.ID); ok {
			nv.X, nv.Y = b.X, b.Y
		}
		gv.Nodes = append(gv.Nodes, nv)
	}
	for _, ed := range st.model.Edges {
		gv.Edges = append(gv.Edges, EdgeView{
			Source:   ed.Source,
			Target:   ed.Target,
			Kind:     ed.Kind.String(),
			Strength: ed.Strength,
		})
	}
	return gv
}

// Reload replaces the notes snapshot, triggering a full model rebuild.
func (e *Engine) Reload(notes []models.Note) {
	if e.closed.Load() {
		return
	}
	select {
	case e.reloadCh <- notes:
	case <-e.stopped:
	}
}

// Pointer forwards a pointer event to the input controller.
func (e *Engine) Pointer(ev PointerEvent) {
	if e.closed.Load() {
		return
	}
	select {
	case e.pointerCh <- ev:
	case <-e.stopped:
	}
}

// Wheel forwards a wheel delta (negative zooms in).
func (e *Engine) Wheel(deltaY float64) {
	if e.closed.Load() {
		return
	}
	select {
	case e.wheelCh <- deltaY:
	case <-e.stopped:
	}
}

// Zoom multiplies the viewport scale by factor.
func (e *Engine) Zoom(factor float64) {
	if e.closed.Load() {
		return
	}
	select {
	case e.zoomCh <- factor:
	case <-e.stopped:
	}
}

// ZoomIn applies one wheel-sized zoom-in step.
func (e *Engine) ZoomIn() {
	e.Zoom(view.WheelZoomIn)
}

// ZoomOut applies one wheel-sized zoom-out step.
func (e *Engine) ZoomOut() {
	e.Zoom(view.WheelZoomOut)
}

// ResetView restores the identity viewport transform.
func (e *Engine) ResetView() {
	if e.closed.Load() {
		return
	}
	select {
	case e.resetViewCh <- struct{}{}:
	case <-e.stopped:
	default:
		// A reset is already queued; coalescing is fine.
	}
}

// SetFilter replaces the active search/tag filter.
func (e *Engine) SetFilter(f filter.Filter) {
	if e.closed.Load() {
		return
	}
	select {
	case e.filterCh <- f:
	case <-e.stopped:
	}
}

// ClearFilter removes any active filter.
func (e *Engine) ClearFilter() {
	e.SetFilter(filter.Filter{})
}

// Frame renders the current state as SVG plus frame metadata.
func (e *Engine) Frame() (Frame, error) {
	if e.closed.Load() {
		return Frame{}, apperr.ErrClosed
	}
	resp := make(chan Frame, 1)
	select {
	case e.frameReqCh <- resp:
	case <-e.stopped:
		return Frame{}, apperr.ErrClosed
	}
	select {
	case f := <-resp:
		return f, nil
	case <-e.stopped:
		return Frame{}, apperr.ErrClosed
	}
}

// Graph returns the wire snapshot of the current model and positions.
func (e *Engine) Graph() (GraphView, error) {
	if e.closed.Load() {
		return GraphView{}, apperr.ErrClosed
	}
	resp := make(chan GraphView, 1)
	select {
	case e.graphReqCh <- resp:
	case <-e.stopped:
		return GraphView{}, apperr.ErrClosed
	}
	select {
	case gv := <-resp:
		return gv, nil
	case <-e.stopped:
		return GraphView{}, apperr.ErrClosed
	}
}

// Close stops the run loop. The pending tick is revoked; no state is
// mutated after Close returns.
func (e *Engine) Close() {
	if e.closed.CompareAndSwap(false, true) {
		close(e.stopCh)
	}
	<-e.stopped
}
