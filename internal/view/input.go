package view

import "github.com/starford/othala/internal/graph"

// Phase is the pointer state of the controller.
type Phase int

const (
	// Idle means no pointer button is held.
	Idle Phase = iota
	// Panning means the pointer went down on empty canvas and drags the viewport.
	Panning
	// DraggingNode means the pointer went down on a node and drags it.
	DraggingNode
)

// Hooks connect the controller to the simulation state it steers. All
// callbacks are invoked synchronously from the pointer methods; HitTest and
// KindOf must tolerate any coordinates and simply report a miss.
type Hooks struct {
	// HitTest maps a world-space point to the topmost node under it.
	HitTest func(wx, wy float64) (string, bool)
	// KindOf resolves a node's kind; the selection callback fires for
	// note nodes only.
	KindOf func(id string) (graph.NodeKind, bool)
	// PinNode holds a node at a world position while it is dragged.
	PinNode func(id string, wx, wy float64)
	// ReleaseNode frees a node when its drag ends.
	ReleaseNode func(id string)
	// OnSelectNote, if set, is called with the note ID when a note node
	// is clicked, so the host can open that note in the editor.
	OnSelectNote func(noteID string)
}

// Controller is the pointer state machine: Idle transitions to Panning or
// DraggingNode on pointer-down and back to Idle on pointer-up or leave.
type Controller struct {
	vp    *Viewport
	hooks Hooks

	phase    Phase
	lastX    float64 // last pointer-down/move screen position while panning
	lastY    float64
	dragID   string
	hovered  string
	selected string
}

// NewController creates a controller over the given viewport.
func NewController(vp *Viewport, hooks Hooks) *Controller {
	return &Controller{vp: vp, hooks: hooks}
}

// Phase returns the current pointer phase.
func (c *Controller) Phase() Phase { return c.phase }

// Hovered returns the ID of the node under the cursor, or "".
func (c *Controller) Hovered() string { return c.hovered }

// Selected returns the ID of the selected node, or "".
func (c *Controller) Selected() string { return c.selected }

// ClearSelection drops selection and hover, used after a model rebuild
// when the previously selected node may no longer exist.
func (c *Controller) ClearSelection() {
	c.selected = ""
	c.hovered = ""
}

// PointerDown hit-tests the screen point. A hit selects the node (firing
// the note-selection callback for note nodes) and begins a node drag; a
// miss begins a viewport pan.
func (c *Controller) PointerDown(x, y float64) {
	wx, wy := c.vp.ScreenToWorld(x, y)
	if id, ok := c.hooks.HitTest(wx, wy); ok {
		c.selected = id
		if kind, known := c.hooks.KindOf(id); known && kind == graph.KindNote {
			if c.hooks.OnSelectNote != nil {
				c.hooks.OnSelectNote(id)
			}
		}
		c.phase = DraggingNode
		c.dragID = id
		if c.hooks.PinNode != nil {
			c.hooks.PinNode(id, wx, wy)
		}
		return
	}
	c.phase = Panning
	c.lastX, c.lastY = x, y
}

// PointerMove updates hover (regardless of drag state) and advances the
// active pan or node drag.
func (c *Controller) PointerMove(x, y float64) {
	wx, wy := c.vp.ScreenToWorld(x, y)

	if id, ok := c.hooks.HitTest(wx, wy); ok {
		c.hovered = id
	} else {
		c.hovered = ""
	}

	switch c.phase {
	case Panning:
		c.vp.PanBy(x-c.lastX, y-c.lastY)
		c.lastX, c.lastY = x, y
	case DraggingNode:
		if c.hooks.PinNode != nil {
			c.hooks.PinNode(c.dragID, wx, wy)
		}
	}
}

// PointerUp ends any pan or drag and returns to Idle.
func (c *Controller) PointerUp() {
	c.endGesture()
}

// PointerLeave behaves like PointerUp and additionally clears hover.
func (c *Controller) PointerLeave() {
	c.endGesture()
	c.hovered = ""
}

func (c *Controller) endGesture() {
	if c.phase == DraggingNode && c.hooks.ReleaseNode != nil {
		c.hooks.ReleaseNode(c.dragID)
	}
	c.phase = Idle
	c.dragID = ""
}

// Wheel zooms by the fixed step: negative deltas (wheel up) zoom in.
func (c *Controller) Wheel(deltaY float64) {
	if deltaY < 0 {
		c.vp.ZoomBy(WheelZoomIn)
	} else {
		c.vp.ZoomBy(WheelZoomOut)
	}
}
