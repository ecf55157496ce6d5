// Package physics owns the mutable layout state of the knowledge graph and
// relaxes it one step per frame with repulsion, edge attraction, center
// gravity, and damping.
package physics

import (
	"math"

	"github.com/starford/othala/internal/graph"
)

// Tuning constants for the force model. The loop never converges on
// purpose; damping drives the layout toward near-equilibrium and user
// interaction or a snapshot rebuild perturbs it again.
const (
	repulsionStrength = 60.0  // inverse-distance repulsion numerator
	repulsionRange    = 3.0   // repulsion triggers within range × (r1+r2)
	minDistance       = 1.0   // floor to avoid division by zero
	idealEdgeLength   = 120.0 // edges pull only beyond this distance
	attractionCoeff   = 0.1   // spring coefficient, scaled by edge strength
	centerGravity     = 0.001 // fraction of the offset to center applied per step
	damping           = 0.9   // velocity retained per step
)

// Body is the mutable physics state of one node. Position and velocity are
// written only by Step (and by drag pinning), never by the model or renderer.
type Body struct {
	ID     string
	X, Y   float64
	VX, VY float64
	Radius float64
	Pinned bool
}

// State is the simulation state for one model epoch. It is created fresh on
// every snapshot rebuild; bodies never survive across models.
type State struct {
	Bodies []Body
	index  map[string]int
}

// NewState seeds bodies from the model's initial placement, in model
// creation order, with zero velocity.
func NewState(m *graph.Model) *State {
	s := &State{index: make(map[string]int, len(m.Nodes))}
	for _, n := range m.Nodes {
		s.index[n.ID] = len(s.Bodies)
		s.Bodies = append(s.Bodies, Body{
			ID:     n.ID,
			X:      n.X,
			Y:      n.Y,
			Radius: n.Radius,
		})
	}
	return s
}

// Body returns a pointer to the body for id, if present.
func (s *State) Body(id string) (*Body, bool) {
	i, ok := s.index[id]
	if !ok {
		return nil, false
	}
	return &s.Bodies[i], true
}

// NodeAt hit-tests a world-space point against current positions. Bodies
// are checked in reverse creation order so the node drawn on top wins.
// A miss returns ok=false; it never errors.
func (s *State) NodeAt(x, y float64) (string, bool) {
	for i := len(s.Bodies) - 1; i >= 0; i-- {
		b := &s.Bodies[i]
		if math.Hypot(x-b.X, y-b.Y) <= b.Radius {
			return b.ID, true
		}
	}
	return "", false
}

// PinTo moves a body to a world position and holds it there (node drag).
// Velocity is zeroed so releasing the body does not fling it.
func (s *State) PinTo(id string, x, y float64) {
	b, ok := s.Body(id)
	if !ok {
		return
	}
	b.X, b.Y = x, y
	b.VX, b.VY = 0, 0
	b.Pinned = true
}

// Release unpins a body after a drag ends.
func (s *State) Release(id string) {
	if b, ok := s.Body(id); ok {
		b.Pinned = false
	}
}

// Step advances the simulation by one frame. Pass order is fixed:
// repulsion, edge attraction, center gravity, damping, integration,
// bounds clamping. Edges with a missing endpoint are skipped.
func Step(s *State, m *graph.Model, width, height float64) {
	if s == nil || len(s.Bodies) == 0 {
		return
	}

	// Pairwise repulsion, O(n²). Acceptable at personal-vault node
	// counts; a spatial grid would slot in here for larger graphs.
	for i := 0; i < len(s.Bodies); i++ {
		for j := i + 1; j < len(s.Bodies); j++ {
			a, b := &s.Bodies[i], &s.Bodies[j]
			dx := b.X - a.X
			dy := b.Y - a.Y
			dist := math.Hypot(dx, dy)
			if dist >= repulsionRange*(a.Radius+b.Radius) {
				continue
			}
			if dist < minDistance {
				dist = minDistance
			}
			f := repulsionStrength / dist
			fx := dx / dist * f
			fy := dy / dist * f
			a.VX -= fx
			a.VY -= fy
			b.VX += fx
			b.VY += fy
		}
	}

	// Edge attraction beyond the ideal length.
	for _, e := range m.Edges {
		a, okA := s.Body(e.Source)
		b, okB := s.Body(e.Target)
		if !okA || !okB {
			continue
		}
		dx := b.X - a.X
		dy := b.Y - a.Y
		dist := math.Hypot(dx, dy)
		if dist <= idealEdgeLength {
			continue
		}
		if dist < minDistance {
			dist = minDistance
		}
		f := (dist - idealEdgeLength) * attractionCoeff * e.Strength
		fx := dx / dist * f
		fy := dy / dist * f
		a.VX += fx
		a.VY += fy
		b.VX -= fx
		b.VY -= fy
	}

	cx, cy := width/2, height/2
	for i := range s.Bodies {
		b := &s.Bodies[i]

		// Center gravity, then damping.
		b.VX += (cx - b.X) * centerGravity
		b.VY += (cy - b.Y) * centerGravity
		b.VX *= damping
		b.VY *= damping

		if b.Pinned {
			// Held at the drag position; forces from it still push neighbors.
			b.VX, b.VY = 0, 0
			continue
		}

		// Integrate with a unit time step, then keep the node visible.
		b.X += b.VX
		b.Y += b.VY
		b.X = clamp(b.X, b.Radius, width-b.Radius)
		b.Y = clamp(b.Y, b.Radius, height-b.Radius)
	}
}

func clamp(v, lo, hi float64) float64 {
	if hi < lo {
		// Degenerate bounds (canvas smaller than the node): collapse to lo.
		return lo
	}
	return math.Min(math.Max(v, lo), hi)
}
