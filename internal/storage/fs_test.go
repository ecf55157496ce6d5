package storage

import (
	"os"
	"path/filepath"
	"testing"
)

func newTestFS(t *testing.T) (*FS, string) {
	t.Helper()
	dir := t.TempDir()
	f, err := NewFS(dir)
	if err != nil {
		t.Fatalf("NewFS: %v", err)
	}
	return f, dir
}

func TestWriteAndRead(t *testing.T) {
	f, _ := newTestFS(t)
	if err := f.Write("notes/a.md", []byte("# A")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	data, err := f.Read("notes/a.md")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(data) != "# A" {
		t.Errorf("data = %q", data)
	}
}

func TestList_OnlyMarkdown(t *testing.T) {
	f, dir := newTestFS(t)
	if err := f.Write("a.md", []byte("x")); err != nil {
		t.Fatal(err)
	}
	if err := f.Write("sub/b.md", []byte("y")); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "ignore.txt"), []byte("z"), 0o644); err != nil {
		t.Fatal(err)
	}

	metas, err := f.List("")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(metas) != 2 {
		t.Fatalf("len(metas) = %d, want 2", len(metas))
	}
	for _, m := range metas {
		if m.Checksum == "" {
			t.Errorf("empty checksum for %s", m.Path)
		}
	}
}

func TestSafePath_RejectsTraversal(t *testing.T) {
	f, _ := newTestFS(t)
	if _, err := f.Read("../outside.md"); err == nil {
		t.Error("expected traversal to be rejected")
	}
	if _, err := f.Read("/etc/passwd"); err == nil {
		t.Error("expected absolute path to be rejected")
	}
}
