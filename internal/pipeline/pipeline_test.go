package pipeline

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/pydoc-gen/internal/docstring"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func runProject(t *testing.T, outDir string) *Summary {
	t.Helper()
	summary, err := Run(context.Background(), Options{
		InputDir:    filepath.Join("testdata", "project"),
		OutputDir:   outDir,
		Style:       docstring.StyleGoogle,
		Inheritance: true,
		Title:       "Farm",
		Logger:      quietLogger(),
	})
	require.NoError(t, err)
	return summary
}

func TestRunGeneratesPages(t *testing.T) {
	out := t.TempDir()
	summary := runProject(t, out)

	assert.Equal(t, 3, summary.Stats.FilesProcessed)
	assert.Equal(t, 2, summary.Stats.FilesSucceeded)
	assert.Equal(t, 1, summary.Stats.FilesFailed)
	assert.Equal(t, map[string]int{"syntax-error": 1}, summary.Stats.ErrorTypes)
	assert.Equal(t, 4, summary.PagesWritten) // three pages plus the index

	for _, page := range []string{"index.md", "animals.md", "broken.md", filepath.Join("shapes", "geometry.md")} {
		_, err := os.Stat(filepath.Join(out, page))
		assert.NoError(t, err, page)
	}
}

func TestRunResolvesInheritanceAcrossTheRun(t *testing.T) {
	out := t.TempDir()
	runProject(t, out)

	data, err := os.ReadFile(filepath.Join(out, "animals.md"))
	require.NoError(t, err)
	page := string(data)

	assert.Contains(t, page, "**Inheritance:** Animal ← Dog")
	assert.Contains(t, page, "speak *(overrides Animal.speak)*")
	assert.Contains(t, page, "*Overridden by Dog.*")
	assert.Contains(t, page, "#### Inherited from Animal")
	assert.Contains(t, page, "describe")
}

func TestRunFailedFileIsIsolated(t *testing.T) {
	out := t.TempDir()
	runProject(t, out)

	data, err := os.ReadFile(filepath.Join(out, "broken.md"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "could not be fully parsed")

	// The failure leaves the other pages complete.
	data, err = os.ReadFile(filepath.Join(out, filepath.Join("shapes", "geometry.md")))
	require.NoError(t, err)
	assert.Contains(t, string(data), "def area(width: float, height: float) -> float")
}

func TestRunSecondPassSkipsUnchanged(t *testing.T) {
	out := t.TempDir()
	first := runProject(t, out)
	require.Equal(t, 4, first.PagesWritten)

	second := runProject(t, out)
	assert.Equal(t, 0, second.PagesWritten)
	assert.Equal(t, 4, second.PagesSkipped)
}

func TestRunIndexListsEveryFile(t *testing.T) {
	out := t.TempDir()
	runProject(t, out)

	data, err := os.ReadFile(filepath.Join(out, "index.md"))
	require.NoError(t, err)
	page := string(data)

	assert.Contains(t, page, "# Farm")
	assert.Contains(t, page, "Documentation for 3 files.")
	assert.Contains(t, page, "(animals.md)")
	assert.Contains(t, page, "(shapes/geometry.md)")
	assert.Contains(t, page, "⚠️")
}

func TestRunIgnorePaths(t *testing.T) {
	out := t.TempDir()
	summary, err := Run(context.Background(), Options{
		InputDir:    filepath.Join("testdata", "project"),
		OutputDir:   out,
		Style:       docstring.StyleGoogle,
		Inheritance: true,
		Ignore:      []string{"shapes", "broken.py"},
		Logger:      quietLogger(),
	})
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Stats.FilesProcessed)
	_, statErr := os.Stat(filepath.Join(out, "shapes"))
	assert.True(t, os.IsNotExist(statErr))
}
