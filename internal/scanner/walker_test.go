package scanner

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeFixture(t *testing.T) string {
	t.Helper()
	tmp := t.TempDir()
	if err := os.MkdirAll(filepath.Join(tmp, "subdir"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(tmp, "file1.txt"), []byte("hello"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(tmp, "subdir", "file2.txt"), []byte("world!"), 0644); err != nil {
		t.Fatal(err)
	}
	return tmp
}

func TestWalkerScan(t *testing.T) {
	tmp := writeFixture(t)

	w := NewWalker(4)
	root, err := w.Scan(context.Background(), tmp)
	if err != nil {
		t.Fatalf("scan failed: %v", err)
	}

	if !root.IsDir {
		t.Error("root should be a directory")
	}
	// Apparent sizes: "hello" (5) + "world!" (6); directory records
	// contribute nothing of their own.
	if root.Total != 11 {
		t.Errorf("expected total 11, got %d", root.Total)
	}
	if len(root.Children) != 2 {
		t.Fatalf("expected 2 children, got %d", len(root.Children))
	}

	// Sorted by total descending: subdir (6) before file1.txt (5).
	if root.Children[0].Name != "subdir" || root.Children[1].Name != "file1.txt" {
		t.Errorf("unexpected child order: %s, %s", root.Children[0].Name, root.Children[1].Name)
	}
	if got := root.Children[0].Children[0].Path; got != "subdir/file2.txt" {
		t.Errorf("expected slash-relative path, got %q", got)
	}
	t.Logf("total size: %d bytes across %d top entries", root.Total, len(root.Children))
}

func TestWalkerProgressCounts(t *testing.T) {
	tmp := writeFixture(t)

	w := NewWalker(2)
	progressDone := make(chan Progress, 1)
	go func() {
		var last Progress
		for p := range w.Progress() {
			last = p
		}
		progressDone <- last
	}()

	if _, err := w.Scan(context.Background(), tmp); err != nil {
		t.Fatalf("scan failed: %v", err)
	}

	last := <-progressDone
	if last.FilesScanned != 2 {
		t.Errorf("expected 2 files scanned, got %d", last.FilesScanned)
	}
	if last.DirsScanned != 1 {
		t.Errorf("expected 1 dir scanned, got %d", last.DirsScanned)
	}
	if last.BytesFound != 11 {
		t.Errorf("expected 11 bytes found, got %d", last.BytesFound)
	}
}

func TestWalkerCancellation(t *testing.T) {
	tmp := writeFixture(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	w := NewWalker(2)
	root, err := w.Scan(ctx, tmp)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if root != nil {
		t.Error("expected no tree on cancellation")
	}
}

func TestWalkerIgnorePatterns(t *testing.T) {
	tmp := writeFixture(t)
	if err := os.MkdirAll(filepath.Join(tmp, ".git", "objects"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(tmp, ".git", "objects", "blob"), []byte("xxxx"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(tmp, "trace.log"), []byte("yy"), 0644); err != nil {
		t.Fatal(err)
	}

	w := NewWalker(2, WithIgnore([]string{".git", "*.log"}))
	root, err := w.Scan(context.Background(), tmp)
	if err != nil {
		t.Fatalf("scan failed: %v", err)
	}

	for _, child := range root.Children {
		if child.Name == ".git" || child.Name == "trace.log" {
			t.Errorf("ignored entry %q made it into the tree", child.Name)
		}
	}
	if root.Total != 11 {
		t.Errorf("ignored entries counted: total %d, expected 11", root.Total)
	}
}

func TestWalkerRejectsFiles(t *testing.T) {
	tmp := writeFixture(t)

	w := NewWalker(1)
	if _, err := w.Scan(context.Background(), filepath.Join(tmp, "file1.txt")); err == nil {
		t.Error("expected error scanning a plain file")
	}
}

func TestWalkerMissingRoot(t *testing.T) {
	w := NewWalker(1)
	if _, err := w.Scan(context.Background(), filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Error("expected error for a missing root")
	}
}
