package generator

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/example/pydoc-gen/internal/model"
)

// IndexEntry ties a source file to its generated page path.
type IndexEntry struct {
	SourcePath string
	DocPath    string
	Module     string
	Summary    string
	Failed     bool
}

// RenderIndex renders the top-level index page: every documented file
// grouped by source directory, with one-line module summaries.
func (r *Renderer) RenderIndex(title string, entries []IndexEntry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", title)
	fmt.Fprintf(&b, "Documentation for %d files.\n\n", len(entries))

	byDir := map[string][]IndexEntry{}
	for _, e := range entries {
		dir := filepath.ToSlash(filepath.Dir(e.DocPath))
		byDir[dir] = append(byDir[dir], e)
	}

	dirs := make([]string, 0, len(byDir))
	for dir := range byDir {
		dirs = append(dirs, dir)
	}
	sort.Strings(dirs)

	for _, dir := range dirs {
		heading := dir
		if heading == "." {
			heading = "(root)"
		}
		fmt.Fprintf(&b, "## %s\n\n", heading)

		group := byDir[dir]
		sort.Slice(group, func(i, j int) bool { return group[i].SourcePath < group[j].SourcePath })
		for _, e := range group {
			line := fmt.Sprintf("- [%s](%s)", e.Module, filepath.ToSlash(e.DocPath))
			if e.Failed {
				line += " ⚠️"
			}
			if s := firstLine(e.Summary); s != "" {
				line += ": " + s
			}
			b.WriteString(line)
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "---\n\n*Generated on %s*\n", r.Now().Format("2006-01-02 15:04:05"))
	return b.String()
}

// IndexEntries builds index entries from file results, pairing each with its
// generated page path.
func IndexEntries(results []*model.FileResult, docPaths map[string]string) []IndexEntry {
	entries := make([]IndexEntry, 0, len(results))
	for _, res := range results {
		if res.Module == nil {
			continue
		}
		entries = append(entries, IndexEntry{
			SourcePath: res.Path,
			DocPath:    docPaths[res.Path],
			Module:     res.Module.Name,
			Summary:    res.Module.Doc.Summary,
			Failed:     res.Failed,
		})
	}
	return entries
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}
