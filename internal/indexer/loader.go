package indexer

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
	"unicode/utf8"
)

// ErrInvalidEncoding is returned when a document is not valid UTF-8.
var ErrInvalidEncoding = errors.New("document is not valid UTF-8")

// RawDocument is a document's text and modification time as read from disk.
type RawDocument struct {
	Path    string
	Text    string
	ModTime time.Time
}

// Slug is the file name without its extension.
func (d RawDocument) Slug() string {
	base := filepath.Base(d.Path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Source lists and reads documents.
type Source interface {
	// List returns the paths of files in dir ending in ext, ordered by file
	// name. A missing dir is created and reported as empty.
	List(dir, ext string) ([]string, error)
	// Read returns a file's text and modification time.
	Read(path string) (RawDocument, error)
}

// DirSource reads documents from the local file system.
type DirSource struct{}

// List implements Source.
func (DirSource) List(dir, ext string) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create content dir %s: %w", dir, err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", dir, err)
	}

	var files []string
	for _, e := range entries {
		if !strings.HasSuffix(e.Name(), ext) || !isRegular(dir, e) {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	sort.Strings(files)
	return files, nil
}

// isRegular reports whether e is a regular file, following symlinks.
func isRegular(dir string, e fs.DirEntry) bool {
	if e.Type().IsRegular() {
		return true
	}
	if e.Type()&fs.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(filepath.Join(dir, e.Name()))
	return err == nil && info.Mode().IsRegular()
}

// Read implements Source.
func (DirSource) Read(path string) (RawDocument, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return RawDocument{}, fmt.Errorf("read file: %w", err)
	}
	if !utf8.Valid(content) {
		return RawDocument{}, fmt.Errorf("%s: %w", path, ErrInvalidEncoding)
	}
	info, err := os.Stat(path)
	if err != nil {
		return RawDocument{}, fmt.Errorf("stat file: %w", err)
	}
	return RawDocument{
		Path:    path,
		Text:    string(content),
		ModTime: info.ModTime(),
	}, nil
}

// readAll lists dir and reads every matching document. The first failure
// aborts the whole load.
func readAll(src Source, dir, ext string) ([]RawDocument, error) {
	paths, err := src.List(dir, ext)
	if err != nil {
		return nil, err
	}
	docs := make([]RawDocument, 0, len(paths))
	for _, p := range paths {
		doc, err := src.Read(p)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}
