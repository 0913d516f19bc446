// Package watcher monitors the content directories and reports changed
// documents after a quiet period.
package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce is how long the watcher waits for more events before
// reporting a batch.
const DefaultDebounce = 500 * time.Millisecond

// Options configures Watch.
type Options struct {
	Dirs      []string
	Extension string
	Debounce  time.Duration
	Logger    *zap.Logger
	// OnChange receives the sorted, de-duplicated paths that changed in one
	// debounce window. Removed and renamed files are included.
	OnChange func(paths []string)
}

// Watch reports document changes in opts.Dirs until ctx is done. The
// directories are created if missing. Subdirectories are not watched since
// documents are only read from the top level.
func Watch(ctx context.Context, opts Options) error {
	if opts.OnChange == nil {
		return fmt.Errorf("watch: OnChange is required")
	}
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	log := opts.Logger

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer w.Close()

	for _, d := range opts.Dirs {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return fmt.Errorf("create content dir %s: %w", d, err)
		}
		if err := w.Add(d); err != nil {
			return fmt.Errorf("watch %s: %w", d, err)
		}
	}
	log.Info("watching content", zap.Strings("dirs", opts.Dirs))

	// Debounce: collect changed files over a window before reporting
	var (
		mu      sync.Mutex
		pending = make(map[string]bool)
		timer   *time.Timer
	)

	flush := func() {
		mu.Lock()
		paths := make([]string, 0, len(pending))
		for p := range pending {
			paths = append(paths, p)
		}
		pending = make(map[string]bool)
		mu.Unlock()

		if len(paths) == 0 {
			return
		}
		sort.Strings(paths)
		log.Debug("content changed", zap.Strings("paths", paths))
		opts.OnChange(paths)
	}

	defer func() {
		mu.Lock()
		if timer != nil {
			timer.Stop()
		}
		mu.Unlock()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !relevant(event, opts.Extension) {
				continue
			}
			mu.Lock()
			pending[event.Name] = true
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(opts.Debounce, flush)
			mu.Unlock()

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Warn("watch error", zap.Error(err))
		}
	}
}

// relevant reports whether event touches a document: a visible file with
// the content extension that was written, created, removed or renamed.
func relevant(event fsnotify.Event, ext string) bool {
	if !isDocument(event.Name, ext) {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
		event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename)
}

// isDocument skips editor swap and backup files such as ".post.md.swp",
// "post.md~" and hidden files.
func isDocument(path, ext string) bool {
	name := filepath.Base(path)
	if strings.HasPrefix(name, ".") {
		return false
	}
	return strings.HasSuffix(name, ext)
}
