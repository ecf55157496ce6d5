// Package view holds the pan/zoom transform and interprets pointer input
// into viewport mutation, node selection, and node drag.
package view

// Zoom scale bounds.
const (
	MinScale = 0.3
	MaxScale = 3.0
)

// Fixed multiplicative wheel steps.
const (
	WheelZoomIn  = 1.1
	WheelZoomOut = 0.9
)

// Viewport maps world coordinates to screen coordinates through a scale
// and a translation. All operations are synchronous and cannot fail.
type Viewport struct {
	Scale   float64
	OffsetX float64
	OffsetY float64
}

// NewViewport returns the identity transform.
func NewViewport() *Viewport {
	return &Viewport{Scale: 1}
}

// ZoomBy multiplies the scale by factor and re-clamps to [MinScale, MaxScale].
// Zoom is anchored at the canvas origin, not at a focal point; this mirrors
// the upstream behavior on purpose.
func (v *Viewport) ZoomBy(factor float64) {
	v.Scale *= factor
	if v.Scale < MinScale {
		v.Scale = MinScale
	}
	if v.Scale > MaxScale {
		v.Scale = MaxScale
	}
}

// PanBy shifts the offset by a screen-space delta.
func (v *Viewport) PanBy(dx, dy float64) {
	v.OffsetX += dx
	v.OffsetY += dy
}

// ScreenToWorld converts a screen point into world coordinates.
func (v *Viewport) ScreenToWorld(x, y float64) (float64, float64) {
	return (x - v.OffsetX) / v.Scale, (y - v.OffsetY) / v.Scale
}

// Reset restores the identity transform.
func (v *Viewport) Reset() {
	v.Scale = 1
	v.OffsetX = 0
	v.OffsetY = 0
}
