package watcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
)

func TestIsDocument(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"blogs/post.md", true},
		{"blogs/.post.md.swp", false},
		{"blogs/post.md~", false},
		{"blogs/.hidden.md", false},
		{"blogs/notes.txt", false},
		{"roadmap/plan.md", true},
	}
	for _, tt := range tests {
		if got := isDocument(tt.path, ".md"); got != tt.want {
			t.Errorf("isDocument(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestRelevant_Ops(t *testing.T) {
	tests := []struct {
		op   fsnotify.Op
		want bool
	}{
		{fsnotify.Write, true},
		{fsnotify.Create, true},
		{fsnotify.Remove, true},
		{fsnotify.Rename, true},
		{fsnotify.Chmod, false},
	}
	for _, tt := range tests {
		ev := fsnotify.Event{Name: "blogs/a.md", Op: tt.op}
		if got := relevant(ev, ".md"); got != tt.want {
			t.Errorf("relevant(%v) = %v, want %v", tt.op, got, tt.want)
		}
	}
}

func TestWatch_RequiresCallback(t *testing.T) {
	if err := Watch(context.Background(), Options{Dirs: []string{t.TempDir()}}); err == nil {
		t.Fatal("expected error without OnChange")
	}
}

func TestWatch_DebouncesChanges(t *testing.T) {
	root := t.TempDir()
	blogs := filepath.Join(root, "blogs")

	changes := make(chan []string, 4)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, Options{
			Dirs:      []string{blogs},
			Extension: ".md",
			Debounce:  50 * time.Millisecond,
			OnChange:  func(paths []string) { changes <- paths },
		})
	}()

	// Wait for the directory to be created and watched.
	deadline := time.Now().Add(2 * time.Second)
	for {
		if _, err := os.Stat(blogs); err == nil {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("content dir was not created")
		}
		time.Sleep(10 * time.Millisecond)
	}
	time.Sleep(100 * time.Millisecond)

	for _, name := range []string{"a.md", "b.md", "a.md", "ignored.txt"} {
		if err := os.WriteFile(filepath.Join(blogs, name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	seen := map[string]bool{}
	timeout := time.After(5 * time.Second)
	for !(seen["a.md"] && seen["b.md"]) {
		select {
		case paths := <-changes:
			for _, p := range paths {
				seen[filepath.Base(p)] = true
			}
		case <-timeout:
			t.Fatalf("changes seen = %v, want a.md and b.md", seen)
		}
	}
	if seen["ignored.txt"] {
		t.Error("non-document change reported")
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Watch returned %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Watch did not stop on cancel")
	}
}
