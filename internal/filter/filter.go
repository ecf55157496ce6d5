// Package filter computes the highlight set for the active search query
// and tag selection.
package filter

import (
	"strings"

	"github.com/starford/othala/internal/graph"
	"github.com/starford/othala/internal/models"
)

// Filter is the active search state: a free-text query and a multi-select
// set of tag labels. The zero value means no filter.
type Filter struct {
	Query string
	Tags  []string
}

// Active reports whether any filtering is in effect.
func (f Filter) Active() bool {
	return strings.TrimSpace(f.Query) != "" || len(f.Tags) > 0
}

// Matches returns the set of node IDs to highlight, or nil when no filter
// is active (nil and empty are distinct: empty means "filter on, nothing
// matches").
//
// A note matches when (query is empty OR its title or any block contains
// the query, case-insensitively) AND (no tags are selected OR it carries at
// least one selected tag). The result contains matching note IDs, the
// tag-node IDs of every tag on a matching note, and the tag-node IDs of the
// explicitly selected tags, restricted to tag nodes the model materialized.
func (f Filter) Matches(notes []models.Note, m *graph.Model) map[string]struct{} {
	if !f.Active() {
		return nil
	}

	query := strings.ToLower(strings.TrimSpace(f.Query))
	selected := make(map[string]struct{}, len(f.Tags))
	for _, label := range f.Tags {
		selected[label] = struct{}{}
	}

	out := make(map[string]struct{})
	for i := range notes {
		note := &notes[i]
		if !matchesQuery(note, query) || !matchesTags(note, selected) {
			continue
		}
		out[note.ID] = struct{}{}
		for _, tag := range note.Tags {
			if _, ok := m.Node(tag.ID); ok {
				out[tag.ID] = struct{}{}
			}
		}
	}

	for label := range selected {
		id := models.NewTag(label).ID
		if _, ok := m.Node(id); ok {
			out[id] = struct{}{}
		}
	}

	return out
}

func matchesQuery(note *models.Note, query string) bool {
	if query == "" {
		return true
	}
	if strings.Contains(strings.ToLower(note.Title), query) {
		return true
	}
	for _, blk := range note.Blocks {
		if strings.Contains(strings.ToLower(blk.Content), query) {
			return true
		}
	}
	return false
}

func matchesTags(note *models.Note, selected map[string]struct{}) bool {
	if len(selected) == 0 {
		return true
	}
	for _, tag := range note.Tags {
		if _, ok := selected[tag.Label]; ok {
			return true
		}
	}
	return false
}
