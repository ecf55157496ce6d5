package noteservice

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/starford/othala/internal/apperr"
	"github.com/starford/othala/internal/index"
	"github.com/starford/othala/internal/testutil"
)

func testService(t *testing.T) (*Service, *index.DB) {
	t.Helper()
	_, store := testutil.TestVault(t)
	db := testutil.TestDB(t)
	svc := NewService(store, db)

	seed := map[string]string{
		"alpha.md":     "# Alpha\n\nfirst paragraph\n\nsecond paragraph #work",
		"sub/beta.md":  "# Beta\n\nquarterly planning notes",
		"sub/gamma.md": "no heading here",
	}
	for path, content := range seed {
		if err := store.Write(path, []byte(content)); err != nil {
			t.Fatalf("Write(%s): %v", path, err)
		}
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if _, err := index.Sync(db, store, logger); err != nil {
		t.Fatalf("Sync: %v", err)
	}
	return svc, db
}

func TestGetNote(t *testing.T) {
	svc, _ := testService(t)

	note, err := svc.GetNote(context.Background(), "alpha.md")
	if err != nil {
		t.Fatalf("GetNote: %v", err)
	}
	if note.Title != "Alpha" {
		t.Errorf("title = %q", note.Title)
	}
	if len(note.Blocks) != 2 {
		t.Errorf("got %d blocks, want 2", len(note.Blocks))
	}
	if len(note.Tags) != 1 || note.Tags[0] != "work" {
		t.Errorf("tags = %v", note.Tags)
	}
	if note.Checksum == "" {
		t.Error("checksum is empty")
	}
}

func TestGetNoteMissing(t *testing.T) {
	svc, _ := testService(t)

	_, err := svc.GetNote(context.Background(), "nope.md")
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestListNotes(t *testing.T) {
	svc, _ := testService(t)

	items, total, err := svc.ListNotes(context.Background(), 10, 0, "", "path")
	if err != nil {
		t.Fatalf("ListNotes: %v", err)
	}
	if total != 3 || len(items) != 3 {
		t.Fatalf("total=%d len=%d, want 3/3", total, len(items))
	}
	if items[0].Path != "alpha.md" {
		t.Errorf("first item = %q", items[0].Path)
	}
	if items[0].Tags == nil {
		t.Error("tags should never be nil in responses")
	}

	_, total, err = svc.ListNotes(context.Background(), 10, 0, "work", "")
	if err != nil {
		t.Fatalf("ListNotes tag filter: %v", err)
	}
	if total != 1 {
		t.Errorf("tag filter total = %d, want 1", total)
	}
}

func TestSearch(t *testing.T) {
	svc, _ := testService(t)

	results, err := svc.Search(context.Background(), "quarterly", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 || results[0].Path != "sub/beta.md" {
		t.Errorf("results = %+v", results)
	}
}

func TestSnapshot(t *testing.T) {
	svc, _ := testService(t)

	notes, err := svc.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if len(notes) != 3 {
		t.Fatalf("got %d notes, want 3", len(notes))
	}
	for _, n := range notes {
		if n.ID == "" {
			t.Errorf("note without ID: %+v", n)
		}
	}
}
