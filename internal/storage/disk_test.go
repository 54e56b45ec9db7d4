package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFileStoreSaveReadRemove(t *testing.T) {
	fs, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}

	n, err := fs.Save("doc.txt", strings.NewReader("hello world"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if n != int64(len("hello world")) {
		t.Errorf("Save wrote %d bytes", n)
	}

	data, err := fs.Read("doc.txt")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(data) != "hello world" {
		t.Errorf("Read = %q", data)
	}

	if err := fs.Remove("doc.txt"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, err := fs.Read("doc.txt"); err == nil {
		t.Error("Read after Remove should fail")
	}
	// Removing a missing file is fine.
	if err := fs.Remove("doc.txt"); err != nil {
		t.Errorf("Remove(missing): %v", err)
	}
}

func TestFileStoreSaveReplaces(t *testing.T) {
	fs, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	if _, err := fs.Save("doc.txt", strings.NewReader("first")); err != nil {
		t.Fatalf("first Save: %v", err)
	}
	if _, err := fs.Save("doc.txt", strings.NewReader("second")); err != nil {
		t.Fatalf("second Save: %v", err)
	}
	data, _ := fs.Read("doc.txt")
	if string(data) != "second" {
		t.Errorf("Read = %q, want second", data)
	}
}

func TestFileStoreRejectsTraversal(t *testing.T) {
	dir := t.TempDir()
	fs, err := NewFileStore(filepath.Join(dir, "uploads"))
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}

	for _, name := range []string{"../escape.txt", "a/b.txt", "..", ""} {
		if _, err := fs.Save(name, strings.NewReader("x")); err == nil {
			t.Errorf("Save(%q) should be rejected", name)
		}
	}
	// Nothing escaped the uploads directory.
	if _, err := os.Stat(filepath.Join(dir, "escape.txt")); !os.IsNotExist(err) {
		t.Error("traversal wrote outside the uploads directory")
	}
}

func TestFileStoreNoTempLeftovers(t *testing.T) {
	dir := t.TempDir()
	fs, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	if _, err := fs.Save("doc.txt", strings.NewReader("content")); err != nil {
		t.Fatalf("Save: %v", err)
	}
	entries, _ := os.ReadDir(dir)
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".tmp") {
			t.Errorf("temp file left behind: %s", e.Name())
		}
	}
}
