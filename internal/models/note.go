// Package models defines the domain types for Othala.
package models

import "time"

// Note is a read-only snapshot of one note in the vault, as consumed by
// the graph engine. ID is the note's vault path.
type Note struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Tags      []Tag     `json:"tags,omitempty"`
	Blocks    []Block   `json:"blocks,omitempty"`
	Checksum  string    `json:"checksum"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Tag is a label attached to a note, in creation order.
type Tag struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// NewTag derives a Tag from its label. The "tag:" prefix keeps tag IDs
// disjoint from note IDs, which are vault paths.
func NewTag(label string) Tag {
	return Tag{ID: "tag:" + label, Label: label}
}

// Block is one content fragment of a note body.
type Block struct {
	Content string `json:"content"`
}

// NoteMetadata is a lightweight representation returned by list operations.
type NoteMetadata struct {
	Path      string    `json:"path"`
	Checksum  string    `json:"checksum"`
	UpdatedAt time.Time `json:"updated_at"`
}
