package index

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/starford/othala/internal/storage"
)

type watchEvent struct {
	kind string
	path string
}

func startWatcher(t *testing.T, dir string, db *DB) (storage.Provider, chan watchEvent) {
	t.Helper()
	store, err := storage.NewFS(dir)
	if err != nil {
		t.Fatalf("NewFS: %v", err)
	}

	events := make(chan watchEvent, 16)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = Watch(ctx, db, store, dir, discardLogger(), func(kind, path string) {
			events <- watchEvent{kind: kind, path: path}
		})
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	// Give the watcher a moment to register its directories.
	time.Sleep(100 * time.Millisecond)
	return store, events
}

func waitEvent(t *testing.T, events chan watchEvent, kind string) watchEvent {
	t.Helper()
	deadline := time.After(5 * time.Second)
	for {
		select {
		case ev := <-events:
			if ev.kind == kind {
				return ev
			}
		case <-deadline:
			t.Fatalf("timed out waiting for %q event", kind)
		}
	}
}

func TestWatcherIndexesNewFile(t *testing.T) {
	dir := t.TempDir()
	db := testDB(t)
	_, events := startWatcher(t, dir, db)

	if err := os.WriteFile(filepath.Join(dir, "note.md"), []byte("# Fresh\n\nbody"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	ev := waitEvent(t, events, "created")
	if ev.path != "note.md" {
		t.Errorf("path = %q, want note.md", ev.path)
	}

	// The create event can precede the content write; poll until the
	// follow-up write event has been indexed.
	deadline := time.Now().Add(5 * time.Second)
	for {
		rows, total, err := db.ListNotes(10, 0, "", "")
		if err != nil {
			t.Fatalf("ListNotes: %v", err)
		}
		if total == 1 && rows[0].Title == "Fresh" {
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("note not indexed: rows = %+v total = %d", rows, total)
		}
		time.Sleep(20 * time.Millisecond)
	}
}

func TestWatcherRemovesDeletedFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "note.md")
	if err := os.WriteFile(path, []byte("# Gone\n\nbody"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	db := testDB(t)
	store, events := startWatcher(t, dir, db)
	if _, err := Sync(db, store, discardLogger()); err != nil {
		t.Fatalf("Sync: %v", err)
	}

	if err := os.Remove(path); err != nil {
		t.Fatalf("Remove: %v", err)
	}

	waitEvent(t, events, "deleted")

	_, total, err := db.ListNotes(10, 0, "", "")
	if err != nil {
		t.Fatalf("ListNotes: %v", err)
	}
	if total != 0 {
		t.Errorf("total = %d after delete, want 0", total)
	}
}

func TestWatcherIgnoresNonMarkdown(t *testing.T) {
	dir := t.TempDir()
	db := testDB(t)
	_, events := startWatcher(t, dir, db)

	if err := os.WriteFile(filepath.Join(dir, "image.png"), []byte{0x89, 0x50}, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	select {
	case ev := <-events:
		t.Errorf("unexpected event %+v for non-markdown file", ev)
	case <-time.After(300 * time.Millisecond):
	}

	_, total, err := db.ListNotes(10, 0, "", "")
	if err != nil {
		t.Fatalf("ListNotes: %v", err)
	}
	if total != 0 {
		t.Errorf("total = %d, want 0", total)
	}
}
