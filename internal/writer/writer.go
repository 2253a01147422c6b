// Package writer puts rendered pages on disk, mirroring the source layout
// under the output directory and keeping stale output tidy.
package writer

import (
	"bytes"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
)

// Writer writes documentation pages under a single output root.
type Writer struct {
	outDir  string
	logger  *slog.Logger
	written map[string]bool
}

// New returns a writer rooted at outDir. Directories are created on demand
// as pages are written.
func New(outDir string, logger *slog.Logger) *Writer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Writer{outDir: outDir, logger: logger, written: map[string]bool{}}
}

// Write stores content at path, creating parent directories as needed.
// Unchanged files are left untouched so downstream watchers do not retrigger.
// Reports whether the file was actually (re)written.
func (w *Writer) Write(path string, content []byte) (bool, error) {
	w.written[filepath.Clean(path)] = true

	if prev, err := os.ReadFile(path); err == nil && bytes.Equal(stripTimestamp(prev), stripTimestamp(content)) {
		w.logger.Debug("unchanged, skipping", "path", path)
		return false, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, fmt.Errorf("create directory for %s: %w", path, err)
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return false, fmt.Errorf("write %s: %w", path, err)
	}
	w.logger.Debug("wrote page", "path", path, "bytes", len(content))
	return true, nil
}

// stripTimestamp drops the generation-timestamp footer before comparing, so
// a rerun over unchanged sources does not churn every page.
func stripTimestamp(content []byte) []byte {
	var out [][]byte
	for _, line := range bytes.Split(content, []byte("\n")) {
		if bytes.HasPrefix(line, []byte("*Generated on ")) {
			continue
		}
		out = append(out, line)
	}
	return bytes.Join(out, []byte("\n"))
}

// Prune removes .md files under the output root that this run did not
// write, then removes directories left empty. Non-markdown files are never
// touched.
func (w *Writer) Prune() error {
	var stale []string
	var dirs []string
	err := filepath.WalkDir(w.outDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if d.IsDir() {
			if path != w.outDir {
				dirs = append(dirs, path)
			}
			return nil
		}
		if filepath.Ext(path) == ".md" && !w.written[filepath.Clean(path)] {
			stale = append(stale, path)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("scan output %s: %w", w.outDir, err)
	}

	for _, path := range stale {
		if err := os.Remove(path); err != nil {
			return fmt.Errorf("remove stale page %s: %w", path, err)
		}
		w.logger.Debug("removed stale page", "path", path)
	}

	// Deepest first so emptied parents collapse too.
	sort.Slice(dirs, func(i, j int) bool { return len(dirs[i]) > len(dirs[j]) })
	for _, dir := range dirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		if len(entries) == 0 {
			if err := os.Remove(dir); err == nil {
				w.logger.Debug("removed empty directory", "path", dir)
			}
		}
	}
	return nil
}
