package view

import (
	"testing"

	"github.com/starford/othala/internal/graph"
)

// fakeWorld is a minimal hit-test target: one note node at (100, 100)
// with radius 10 and one tag node at (300, 300) with radius 8.
type fakeWorld struct {
	pinned    map[string][2]float64
	released  []string
	selected  []string
}

func newFakeWorld() *fakeWorld {
	return &fakeWorld{pinned: make(map[string][2]float64)}
}

func (f *fakeWorld) hooks() Hooks {
	return Hooks{
		HitTest: func(wx, wy float64) (string, bool) {
			if dist2(wx, wy, 100, 100) <= 10*10 {
				return "note.md", true
			}
			if dist2(wx, wy, 300, 300) <= 8*8 {
				return "tag:work", true
			}
			return "", false
		},
		KindOf: func(id string) (graph.NodeKind, bool) {
			switch id {
			case "note.md":
				return graph.KindNote, true
			case "tag:work":
				return graph.KindTag, true
			}
			return 0, false
		},
		PinNode:      func(id string, wx, wy float64) { f.pinned[id] = [2]float64{wx, wy} },
		ReleaseNode:  func(id string) { f.released = append(f.released, id) },
		OnSelectNote: func(id string) { f.selected = append(f.selected, id) },
	}
}

func dist2(x1, y1, x2, y2 float64) float64 {
	dx, dy := x2-x1, y2-y1
	return dx*dx + dy*dy
}

func TestPointerDown_OnNoteSelectsAndDrags(t *testing.T) {
	w := newFakeWorld()
	c := NewController(NewViewport(), w.hooks())

	c.PointerDown(100, 100)
	if c.Phase() != DraggingNode {
		t.Errorf("phase = %v, want DraggingNode", c.Phase())
	}
	if c.Selected() != "note.md" {
		t.Errorf("selected = %q", c.Selected())
	}
	if len(w.selected) != 1 || w.selected[0] != "note.md" {
		t.Errorf("select callback calls = %v", w.selected)
	}

	c.PointerMove(150, 160)
	if got := w.pinned["note.md"]; got != [2]float64{150, 160} {
		t.Errorf("pinned at %v, want (150, 160)", got)
	}

	c.PointerUp()
	if c.Phase() != Idle {
		t.Errorf("phase after up = %v, want Idle", c.Phase())
	}
	if len(w.released) != 1 || w.released[0] != "note.md" {
		t.Errorf("released = %v", w.released)
	}
}

func TestPointerDown_OnTagDoesNotFireNoteCallback(t *testing.T) {
	w := newFakeWorld()
	c := NewController(NewViewport(), w.hooks())

	c.PointerDown(300, 300)
	if c.Selected() != "tag:work" {
		t.Errorf("selected = %q", c.Selected())
	}
	if len(w.selected) != 0 {
		t.Errorf("note callback fired for tag node: %v", w.selected)
	}
}

func TestPointerDown_OnEmptyCanvasPans(t *testing.T) {
	w := newFakeWorld()
	vp := NewViewport()
	c := NewController(vp, w.hooks())

	c.PointerDown(500, 500)
	if c.Phase() != Panning {
		t.Fatalf("phase = %v, want Panning", c.Phase())
	}
	c.PointerMove(520, 490)
	if vp.OffsetX != 20 || vp.OffsetY != -10 {
		t.Errorf("offset = (%v, %v), want (20, -10)", vp.OffsetX, vp.OffsetY)
	}
	c.PointerUp()
	if c.Phase() != Idle {
		t.Errorf("phase = %v, want Idle", c.Phase())
	}
}

func TestPointerDown_UsesWorldCoordinates(t *testing.T) {
	w := newFakeWorld()
	vp := NewViewport()
	vp.ZoomBy(2) // screen (200, 200) is world (100, 100)
	c := NewController(vp, w.hooks())

	c.PointerDown(200, 200)
	if c.Selected() != "note.md" {
		t.Errorf("selected = %q, hit-test did not account for zoom", c.Selected())
	}
}

func TestHover_IndependentOfDrag(t *testing.T) {
	w := newFakeWorld()
	c := NewController(NewViewport(), w.hooks())

	c.PointerDown(500, 500) // panning
	c.PointerMove(100, 100)
	if c.Hovered() != "note.md" {
		t.Errorf("hovered = %q, want note.md during pan", c.Hovered())
	}
	c.PointerMove(500, 500)
	if c.Hovered() != "" {
		t.Errorf("hovered = %q, want empty off-node", c.Hovered())
	}
}

func TestPointerLeave_EndsGestureAndClearsHover(t *testing.T) {
	w := newFakeWorld()
	c := NewController(NewViewport(), w.hooks())

	c.PointerDown(100, 100)
	c.PointerMove(100, 100)
	c.PointerLeave()
	if c.Phase() != Idle {
		t.Errorf("phase = %v, want Idle", c.Phase())
	}
	if c.Hovered() != "" {
		t.Errorf("hovered = %q, want empty", c.Hovered())
	}
	if len(w.released) != 1 {
		t.Errorf("released = %v, want one release", w.released)
	}
}

func TestWheel_ZoomSteps(t *testing.T) {
	w := newFakeWorld()
	vp := NewViewport()
	c := NewController(vp, w.hooks())

	c.Wheel(-120)
	if vp.Scale != WheelZoomIn {
		t.Errorf("scale = %v, want %v", vp.Scale, WheelZoomIn)
	}
	c.Wheel(120)
	c.Wheel(120)
	if vp.Scale >= 1 {
		t.Errorf("scale = %v, want < 1 after net zoom out", vp.Scale)
	}
}
