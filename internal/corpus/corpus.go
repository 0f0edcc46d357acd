// Package corpus builds the ordered, indexable list of items a
// clustering run works over. Items are identified by their position in
// the list; the external identifier is the file path.
package corpus

import (
	"bufio"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// List is an immutable, ordered corpus of file paths. It satisfies the
// cluster engine's Provider interface.
type List struct {
	paths []string
}

// Len returns the number of items.
func (l *List) Len() int { return len(l.paths) }

// ID returns the path of item i.
func (l *List) ID(i int) string { return l.paths[i] }

// Load reads the bytes of item i. An error here means the item is
// skipped by the pipeline, not that the run fails.
func (l *List) Load(i int) ([]byte, error) {
	return os.ReadFile(l.paths[i])
}

// Paths returns the identifiers in index order. The returned slice is
// shared; callers must not modify it.
func (l *List) Paths() []string { return l.paths }

// Dir enumerates regular files in a directory, optionally descending
// into subdirectories. Files are filtered to the given extensions
// (case-insensitive, with leading dot; nil means accept everything)
// and sorted lexically so indices are reproducible across runs.
func Dir(path string, recursive bool, extensions []string) (*List, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open %s: %w", path, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", path)
	}

	accept := extensionFilter(extensions)
	var paths []string

	if recursive {
		err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.Type().IsRegular() && accept(p) {
				paths = append(paths, p)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walking %s: %w", path, err)
		}
	} else {
		entries, err := os.ReadDir(path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		for _, entry := range entries {
			p := filepath.Join(path, entry.Name())
			if entry.Type().IsRegular() && accept(p) {
				paths = append(paths, p)
			}
		}
	}

	sort.Strings(paths)
	return &List{paths: paths}, nil
}

// Stdin reads one path per line, preserving input order.
func Stdin(r io.Reader) (*List, error) {
	var paths []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			paths = append(paths, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading file list: %w", err)
	}
	return &List{paths: paths}, nil
}

// Files wraps an explicit path list, preserving argument order.
func Files(paths []string) *List {
	return &List{paths: append([]string(nil), paths...)}
}

// extensionFilter builds a path predicate from an extension allowlist.
func extensionFilter(extensions []string) func(string) bool {
	if len(extensions) == 0 {
		return func(string) bool { return true }
	}
	allowed := make(map[string]bool, len(extensions))
	for _, ext := range extensions {
		allowed[strings.ToLower(ext)] = true
	}
	return func(path string) bool {
		return allowed[strings.ToLower(filepath.Ext(path))]
	}
}
