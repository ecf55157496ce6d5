// Package graph derives the knowledge-graph model from a notes snapshot:
// note nodes, shared-tag nodes, and weighted edges between them.
package graph

import "github.com/starford/othala/internal/models"

// NodeKind discriminates note nodes from tag nodes.
type NodeKind int

const (
	// KindNote is a node backed by a note in the vault.
	KindNote NodeKind = iota
	// KindTag is a synthetic node for a tag shared by two or more notes.
	KindTag
)

// String implements fmt.Stringer for logging and wire payloads.
func (k NodeKind) String() string {
	switch k {
	case KindNote:
		return "note"
	case KindTag:
		return "tag"
	default:
		return "unknown"
	}
}

// Node is a point in the knowledge graph. X and Y are the computed initial
// placement; live positions belong to the physics state, never to the model.
type Node struct {
	ID     string
	Kind   NodeKind
	Label  string
	X, Y   float64
	Radius float64
	// Note is the source snapshot for KindNote nodes, nil for KindTag.
	Note *models.Note
}

// EdgeKind discriminates the two edge derivations.
type EdgeKind int

const (
	// EdgeTagShared connects a note to a tag node it carries.
	EdgeTagShared EdgeKind = iota
	// EdgeContentSimilar connects two notes whose lexical overlap meets the threshold.
	EdgeContentSimilar
)

// String implements fmt.Stringer for logging and wire payloads.
func (k EdgeKind) String() string {
	switch k {
	case EdgeTagShared:
		return "tag-shared"
	case EdgeContentSimilar:
		return "content-similar"
	default:
		return "unknown"
	}
}

// Edge is an undirected weighted connection between two node IDs.
// Strength is in (0, 1] and scales both edge rendering and attraction force.
type Edge struct {
	Source   string
	Target   string
	Kind     EdgeKind
	Strength float64
}

// Model is an immutable node/edge set built from one notes snapshot.
// A changed snapshot produces a whole new Model; nothing is patched in place.
type Model struct {
	Nodes []*Node
	Edges []Edge

	byID map[string]*Node
}

// Node returns the node with the given ID, if present.
func (m *Model) Node(id string) (*Node, bool) {
	n, ok := m.byID[id]
	return n, ok
}

// Empty reports whether the model has no nodes.
func (m *Model) Empty() bool {
	return m == nil || len(m.Nodes) == 0
}
