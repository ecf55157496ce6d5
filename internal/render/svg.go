// Package render draws the current graph frame as a standalone SVG
// document. It only reads model, physics, and viewport state; calling it
// every frame is always safe.
package render

import (
	"fmt"
	"html"
	"strings"

	"github.com/starford/othala/internal/graph"
	"github.com/starford/othala/internal/physics"
	"github.com/starford/othala/internal/view"
)

// Palette and layout constants.
const (
	backgroundColor = "#11131a"
	noteFill        = "#6ea8fe"
	tagFill         = "#e8a33d"
	edgeColor       = "#39424e"
	labelColor      = "#d7dce4"
	glowColor       = "#9ecbff"

	dimmedOpacity = 0.2 // nodes outside the active match set
	labelFontSize = 11.0
	labelCharW    = 6.0 // approximate glyph advance at labelFontSize
	labelMaxRatio = 1.6 // label width budget relative to node diameter
)

// Options carries per-frame highlight state.
type Options struct {
	// Highlight is the filter match set; nil means no filter is active.
	Highlight map[string]struct{}
	Hovered   string
	Selected  string
}

// SVG renders edges first (underneath), then nodes, under the viewport
// transform. An empty model yields an explicit empty-state document.
func SVG(m *graph.Model, s *physics.State, vp *view.Viewport, width, height float64, opts Options) string {
	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">`+"\n",
		width, height, width, height)
	fmt.Fprintf(&b, `<rect width="100%%" height="100%%" fill="%s"/>`+"\n", backgroundColor)

	if m.Empty() {
		fmt.Fprintf(&b, `<text x="%.0f" y="%.0f" text-anchor="middle" font-size="14" fill="%s">No notes yet. The graph appears once your vault has notes.</text>`+"\n",
			width/2, height/2, labelColor)
		b.WriteString("</svg>\n")
		return b.String()
	}

	fmt.Fprintf(&b, `<g transform="translate(%.2f,%.2f) scale(%.4f)">`+"\n", vp.OffsetX, vp.OffsetY, vp.Scale)

	for _, e := range m.Edges {
		src, okA := s.Body(e.Source)
		dst, okB := s.Body(e.Target)
		if !okA || !okB {
			// Stale edge from a mid-rebuild snapshot; skip rather than fail.
			continue
		}
		fmt.Fprintf(&b, `<line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s" stroke-width="%.2f" stroke-opacity="%.2f"/>`+"\n",
			src.X, src.Y, dst.X, dst.Y, edgeColor, 0.5+1.5*e.Strength, 0.35+0.5*e.Strength)
	}

	for _, n := range m.Nodes {
		body, ok := s.Body(n.ID)
		if !ok {
			continue
		}
		b.WriteString(renderNode(n, body, opts))
	}

	b.WriteString("</g>\n</svg>\n")
	return b.String()
}

func renderNode(n *graph.Node, body *physics.Body, opts Options) string {
	var fill string
	switch n.Kind {
	case graph.KindNote:
		fill = noteFill
	case graph.KindTag:
		fill = tagFill
	default:
		fill = labelColor
	}

	opacity := 1.0
	if opts.Highlight != nil {
		if _, ok := opts.Highlight[n.ID]; !ok {
			opacity = dimmedOpacity
		}
	}
	emphasized := n.ID == opts.Hovered || n.ID == opts.Selected
	if !emphasized && opts.Highlight != nil {
		_, emphasized = opts.Highlight[n.ID]
	}

	var b strings.Builder
	fmt.Fprintf(&b, `<g opacity="%.2f">`+"\n", opacity)
	if emphasized {
		// Soft outer ring standing in for the canvas glow.
		fmt.Fprintf(&b, `<circle cx="%.2f" cy="%.2f" r="%.2f" fill="none" stroke="%s" stroke-width="3" stroke-opacity="0.5"/>`+"\n",
			body.X, body.Y, body.Radius+4, glowColor)
	}
	stroke := "none"
	if emphasized {
		stroke = glowColor
	}
	fmt.Fprintf(&b, `<circle cx="%.2f" cy="%.2f" r="%.2f" fill="%s" stroke="%s" stroke-width="1.5"/>`+"\n",
		body.X, body.Y, body.Radius, fill, stroke)

	if label := TruncateLabel(n.Label, body.Radius); label != "" {
		fmt.Fprintf(&b, `<text x="%.2f" y="%.2f" text-anchor="middle" font-size="%.0f" fill="%s">%s</text>`+"\n",
			body.X, body.Y+body.Radius+labelFontSize+2, labelFontSize, labelColor, html.EscapeString(label))
	}
	b.WriteString("</g>\n")
	return b.String()
}

// TruncateLabel shortens a label with an ellipsis so its rendered width
// stays within the node's label budget (labelMaxRatio × the node diameter).
func TruncateLabel(label string, radius float64) string {
	maxChars := int(labelMaxRatio * (radius * 2) / labelCharW)
	if maxChars < 2 {
		maxChars = 2
	}
	runes := []rune(label)
	if len(runes) <= maxChars {
		return label
	}
	return string(runes[:maxChars-1]) + "…"
}
