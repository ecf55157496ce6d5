package graph

import (
	"math"
	"math/rand/v2"
	"strings"

	"github.com/starford/othala/internal/models"
)

// Layout and derivation constants.
const (
	noteBaseRadius = 10.0 // minimum note node radius
	notePerBlock   = 2.0  // radius gained per content block
	noteMaxRadius  = 24.0 // radius cap for block-heavy notes
	tagRadius      = 8.0  // fixed radius for tag nodes

	tagEdgeStrength     = 0.5 // fixed strength of note-tag edges
	similarityThreshold = 3   // minimum token overlap for a content edge
	centroidJitter      = 12.0
)

// Build derives the node/edge set for a notes snapshot. Width and height
// are the viewport dimensions, used only for initial placement. Build has
// no side effects and never fails; an empty snapshot yields an empty model.
//
// Placement is randomized (circle band for notes, centroid jitter for
// tags), so two builds of the same snapshot are structurally equal but not
// positionally identical.
func Build(notes []models.Note, width, height float64) *Model {
	m := &Model{byID: make(map[string]*Node, len(notes))}
	if len(notes) == 0 {
		return m
	}

	cx, cy := width/2, height/2

	// Note nodes, spread evenly around a circle whose radius varies per
	// node within a band so the initial frame is not perfectly symmetric.
	band := math.Min(width, height) / 3
	for i := range notes {
		note := &notes[i]
		angle := 2 * math.Pi * float64(i) / float64(len(notes))
		dist := band * (0.75 + 0.5*rand.Float64())

		radius := noteBaseRadius + notePerBlock*float64(len(note.Blocks))
		if radius > noteMaxRadius {
			radius = noteMaxRadius
		}

		label := note.Title
		if label == "" {
			label = note.ID
		}

		n := &Node{
			ID:     note.ID,
			Kind:   KindNote,
			Label:  label,
			X:      cx + dist*math.Cos(angle),
			Y:      cy + dist*math.Sin(angle),
			Radius: radius,
			Note:   note,
		}
		m.Nodes = append(m.Nodes, n)
		m.byID[n.ID] = n
	}

	// Tag nodes for tags shared by at least two notes, one TagShared edge
	// per carrying note. Iteration follows first-seen tag order so the
	// node list is deterministic apart from placement.
	tagNotes := make(map[string][]string)
	var tagOrder []string
	for _, note := range notes {
		// A note carrying the same tag twice still counts as one carrier.
		noteSeen := make(map[string]struct{}, len(note.Tags))
		for _, tag := range note.Tags {
			if _, dup := noteSeen[tag.Label]; dup {
				continue
			}
			noteSeen[tag.Label] = struct{}{}
			if _, seen := tagNotes[tag.Label]; !seen {
				tagOrder = append(tagOrder, tag.Label)
			}
			tagNotes[tag.Label] = append(tagNotes[tag.Label], note.ID)
		}
	}
	for _, label := range tagOrder {
		members := tagNotes[label]
		if len(members) < 2 {
			continue
		}

		var sx, sy float64
		for _, id := range members {
			n := m.byID[id]
			sx += n.X
			sy += n.Y
		}
		count := float64(len(members))

		tn := &Node{
			ID:     models.NewTag(label).ID,
			Kind:   KindTag,
			Label:  label,
			X:      sx/count + (rand.Float64()-0.5)*centroidJitter,
			Y:      sy/count + (rand.Float64()-0.5)*centroidJitter,
			Radius: tagRadius,
		}
		m.Nodes = append(m.Nodes, tn)
		m.byID[tn.ID] = tn

		for _, id := range members {
			m.Edges = append(m.Edges, Edge{
				Source:   id,
				Target:   tn.ID,
				Kind:     EdgeTagShared,
				Strength: tagEdgeStrength,
			})
		}
	}

	// Content-similarity edges over every unordered note pair.
	texts := make([]string, len(notes))
	for i, note := range notes {
		texts[i] = noteText(note)
	}
	for i := 0; i < len(notes); i++ {
		for j := i + 1; j < len(notes); j++ {
			overlap := Overlap(texts[i], texts[j])
			if overlap < similarityThreshold {
				continue
			}
			m.Edges = append(m.Edges, Edge{
				Source:   notes[i].ID,
				Target:   notes[j].ID,
				Kind:     EdgeContentSimilar,
				Strength: math.Min(float64(overlap)/10, 1),
			})
		}
	}

	return m
}

// noteText concatenates a note's blocks into the lowercase text used for
// similarity scoring.
func noteText(note models.Note) string {
	var b strings.Builder
	for _, blk := range note.Blocks {
		b.WriteString(blk.Content)
		b.WriteByte('\n')
	}
	return strings.ToLower(b.String())
}
