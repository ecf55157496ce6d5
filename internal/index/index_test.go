package index

import (
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/starford/othala/internal/storage"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "index.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func mustUpsert(t *testing.T, db *DB, path, title, body string, tags []string) {
	t.Helper()
	row := NoteRow{
		Path:      path,
		Title:     title,
		Checksum:  "cs-" + path,
		Tags:      tags,
		UpdatedAt: time.Now(),
	}
	if err := db.UpsertNote(row, body); err != nil {
		t.Fatalf("UpsertNote(%s): %v", path, err)
	}
}

func TestUpsertAndGetChecksum(t *testing.T) {
	db := testDB(t)
	mustUpsert(t, db, "a.md", "Alpha", "hello world", nil)

	cs, err := db.GetChecksum("a.md")
	if err != nil {
		t.Fatalf("GetChecksum: %v", err)
	}
	if cs != "cs-a.md" {
		t.Errorf("checksum = %q, want %q", cs, "cs-a.md")
	}

	cs, err = db.GetChecksum("missing.md")
	if err != nil {
		t.Fatalf("GetChecksum missing: %v", err)
	}
	if cs != "" {
		t.Errorf("checksum for missing note = %q, want empty", cs)
	}
}

func TestUpsertPreservesCreatedAt(t *testing.T) {
	db := testDB(t)
	mustUpsert(t, db, "a.md", "Alpha", "v1", nil)

	rows, _, err := db.ListNotes(10, 0, "", "path")
	if err != nil {
		t.Fatalf("ListNotes: %v", err)
	}
	created := rows[0].CreatedAt

	time.Sleep(10 * time.Millisecond)
	mustUpsert(t, db, "a.md", "Alpha v2", "v2", nil)

	rows, _, err = db.ListNotes(10, 0, "", "path")
	if err != nil {
		t.Fatalf("ListNotes after update: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}
	if !rows[0].CreatedAt.Equal(created) {
		t.Errorf("created_at changed on update: %v != %v", rows[0].CreatedAt, created)
	}
	if rows[0].Title != "Alpha v2" {
		t.Errorf("title = %q, want %q", rows[0].Title, "Alpha v2")
	}
}

func TestListNotesTagFilterAndPagination(t *testing.T) {
	db := testDB(t)
	mustUpsert(t, db, "a.md", "Alpha", "", []string{"work"})
	mustUpsert(t, db, "b.md", "Beta", "", []string{"work", "home"})
	mustUpsert(t, db, "c.md", "Gamma", "", []string{"home"})

	rows, total, err := db.ListNotes(10, 0, "work", "path")
	if err != nil {
		t.Fatalf("ListNotes: %v", err)
	}
	if total != 2 || len(rows) != 2 {
		t.Fatalf("tag filter: total=%d len=%d, want 2/2", total, len(rows))
	}
	if rows[0].Path != "a.md" || rows[1].Path != "b.md" {
		t.Errorf("unexpected rows: %v", rows)
	}

	rows, total, err = db.ListNotes(1, 1, "", "path")
	if err != nil {
		t.Fatalf("ListNotes paged: %v", err)
	}
	if total != 3 {
		t.Errorf("total = %d, want 3", total)
	}
	if len(rows) != 1 || rows[0].Path != "b.md" {
		t.Errorf("page 2 = %v, want single b.md", rows)
	}
}

func TestDeleteNote(t *testing.T) {
	db := testDB(t)
	mustUpsert(t, db, "a.md", "Alpha", "", nil)

	if err := db.DeleteNote("a.md"); err != nil {
		t.Fatalf("DeleteNote: %v", err)
	}
	_, total, err := db.ListNotes(10, 0, "", "")
	if err != nil {
		t.Fatalf("ListNotes: %v", err)
	}
	if total != 0 {
		t.Errorf("total = %d after delete, want 0", total)
	}
}

func TestSnapshotOrderAndContent(t *testing.T) {
	db := testDB(t)
	// Same created_at timestamps are possible within one test run; the
	// path tiebreaker keeps the order deterministic.
	mustUpsert(t, db, "b.md", "Beta", "first para\n\nsecond para", []string{"work"})
	mustUpsert(t, db, "a.md", "Alpha", "only para", nil)

	notes, err := db.Snapshot()
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if len(notes) != 2 {
		t.Fatalf("got %d notes, want 2", len(notes))
	}

	var beta int = -1
	for i, n := range notes {
		if n.ID == "b.md" {
			beta = i
		}
	}
	if beta < 0 {
		t.Fatalf("b.md missing from snapshot")
	}
	n := notes[beta]
	if n.Title != "Beta" {
		t.Errorf("title = %q", n.Title)
	}
	if len(n.Blocks) != 2 {
		t.Errorf("got %d blocks, want 2", len(n.Blocks))
	}
	if len(n.Tags) != 1 || n.Tags[0].Label != "work" || n.Tags[0].ID != "tag:work" {
		t.Errorf("tags = %v", n.Tags)
	}
}

func TestSearch(t *testing.T) {
	db := testDB(t)
	mustUpsert(t, db, "a.md", "Project kickoff", "planning the quarterly roadmap", nil)
	mustUpsert(t, db, "b.md", "Groceries", "milk and eggs", nil)

	hits, err := db.Search("roadmap", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(hits) != 1 || hits[0].Path != "a.md" {
		t.Fatalf("hits = %v, want single a.md", hits)
	}
	if hits[0].Title != "Project kickoff" {
		t.Errorf("title = %q", hits[0].Title)
	}

	hits, err = db.Search("nonexistent", 10)
	if err != nil {
		t.Fatalf("Search miss: %v", err)
	}
	if len(hits) != 0 {
		t.Errorf("hits = %v, want none", hits)
	}
}

func TestSyncIndexesAndRemovesStale(t *testing.T) {
	dir := t.TempDir()
	store, err := storage.NewFS(dir)
	if err != nil {
		t.Fatalf("NewFS: %v", err)
	}
	db := testDB(t)
	logger := discardLogger()

	if err := store.Write("a.md", []byte("# Alpha\n\nbody #work")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := store.Write("sub/b.md", []byte("# Beta\n\nbody")); err != nil {
		t.Fatalf("Write: %v", err)
	}

	changed, err := Sync(db, store, logger)
	if err != nil {
		t.Fatalf("Sync: %v", err)
	}
	if !changed {
		t.Error("first Sync reported no changes")
	}

	rows, total, err := db.ListNotes(10, 0, "", "path")
	if err != nil {
		t.Fatalf("ListNotes: %v", err)
	}
	if total != 2 {
		t.Fatalf("total = %d, want 2", total)
	}
	if rows[0].Path != "a.md" || rows[0].Title != "Alpha" {
		t.Errorf("row = %+v", rows[0])
	}
	if len(rows[0].Tags) != 1 || rows[0].Tags[0] != "work" {
		t.Errorf("tags = %v, want [work]", rows[0].Tags)
	}

	// Unchanged vault: no work to do.
	changed, err = Sync(db, store, logger)
	if err != nil {
		t.Fatalf("second Sync: %v", err)
	}
	if changed {
		t.Error("second Sync reported changes for an unchanged vault")
	}

	// Simulate a deletion by pointing Sync at a vault without b.md.
	dir2 := t.TempDir()
	store2, err := storage.NewFS(dir2)
	if err != nil {
		t.Fatalf("NewFS: %v", err)
	}
	if err := store2.Write("a.md", []byte("# Alpha\n\nbody #work")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	changed, err = Sync(db, store2, logger)
	if err != nil {
		t.Fatalf("third Sync: %v", err)
	}
	if !changed {
		t.Error("Sync did not report stale removal")
	}
	_, total, err = db.ListNotes(10, 0, "", "")
	if err != nil {
		t.Fatalf("ListNotes: %v", err)
	}
	if total != 1 {
		t.Errorf("total = %d after stale removal, want 1", total)
	}
}
