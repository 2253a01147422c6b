// Package walker discovers the Python source files a run will document.
package walker

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

// Walker finds .py files under a root, skipping ignored path prefixes.
type Walker struct {
	root    string
	ignored []string
}

// New returns a walker rooted at root. Each ignore entry is resolved against
// root and matched as an absolute path prefix.
func New(root string, ignore []string) (*Walker, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve root %s: %w", root, err)
	}
	ignored := make([]string, 0, len(ignore))
	for _, p := range ignore {
		if !filepath.IsAbs(p) {
			p = filepath.Join(absRoot, p)
		}
		ignored = append(ignored, filepath.Clean(p))
	}
	return &Walker{root: absRoot, ignored: ignored}, nil
}

// Root returns the resolved absolute root directory.
func (w *Walker) Root() string { return w.root }

// Files returns every non-ignored .py file under the root, sorted so runs
// are deterministic. Hidden directories and __pycache__ are skipped.
func (w *Walker) Files() ([]string, error) {
	var files []string
	err := filepath.WalkDir(w.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			name := d.Name()
			if path != w.root && (strings.HasPrefix(name, ".") || name == "__pycache__") {
				return filepath.SkipDir
			}
			if w.isIgnored(path) {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(d.Name(), ".py") {
			return nil
		}
		if w.isIgnored(path) {
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", w.root, err)
	}
	sort.Strings(files)
	return files, nil
}

// isIgnored reports whether path falls under any ignored prefix.
func (w *Walker) isIgnored(path string) bool {
	for _, prefix := range w.ignored {
		if path == prefix || strings.HasPrefix(path, prefix+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

// DocPath maps a source file to its documentation path: the same relative
// layout under outDir with the .py suffix replaced by .md.
func (w *Walker) DocPath(outDir, sourcePath string) (string, error) {
	rel, err := filepath.Rel(w.root, sourcePath)
	if err != nil {
		return "", fmt.Errorf("relativize %s: %w", sourcePath, err)
	}
	return filepath.Join(outDir, strings.TrimSuffix(rel, ".py")+".md"), nil
}
