// Package pipeline drives a documentation run: discover files, extract
// them concurrently, resolve inheritance over the complete class set, then
// render and write every page.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/example/pydoc-gen/internal/docstring"
	"github.com/example/pydoc-gen/internal/generator"
	"github.com/example/pydoc-gen/internal/inherit"
	"github.com/example/pydoc-gen/internal/model"
	"github.com/example/pydoc-gen/internal/parser"
	"github.com/example/pydoc-gen/internal/walker"
	"github.com/example/pydoc-gen/internal/writer"
)

// Options configure a documentation run.
type Options struct {
	InputDir  string
	OutputDir string
	Style     docstring.Style
	// Inheritance toggles cross-file resolution. When false, classes are
	// rendered with their direct bases only.
	Inheritance bool
	Ignore      []string
	// Workers caps concurrent file extraction. Zero means one per file.
	Workers int
	Title   string
	Logger  *slog.Logger
}

// Summary reports what a run did.
type Summary struct {
	Stats        *model.RunStats
	PagesWritten int
	PagesSkipped int
	Duration     time.Duration
}

// Run executes the full pipeline. Per-file parse failures are recorded in
// the summary, never returned as errors; an error means the run itself
// could not proceed.
func Run(ctx context.Context, opts Options) (*Summary, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	start := time.Now()

	w, err := walker.New(opts.InputDir, opts.Ignore)
	if err != nil {
		return nil, err
	}
	files, err := w.Files()
	if err != nil {
		return nil, err
	}
	logger.Info("discovered source files", "count", len(files), "root", w.Root())

	results, err := extractAll(ctx, files, opts)
	if err != nil {
		return nil, err
	}

	// Every file is parsed before resolution starts: linearization needs
	// the complete class set.
	registry := inherit.NewRegistry(logger)
	if opts.Inheritance {
		for _, res := range results {
			registry.Add(res)
		}
		inherit.NewResolver(registry, logger).Resolve()
	}

	stats := model.NewRunStats()
	for _, res := range results {
		stats.Record(res)
		if res.Failed {
			logger.Warn("file failed", "path", res.Path, "kind", res.ErrorKind, "err", res.Err)
		}
	}

	summary := &Summary{Stats: stats}
	if err := writePages(w, results, opts, logger, summary); err != nil {
		return nil, err
	}

	summary.Duration = time.Since(start)
	logger.Info("run complete",
		"processed", stats.FilesProcessed,
		"succeeded", stats.FilesSucceeded,
		"failed", stats.FilesFailed,
		"written", summary.PagesWritten,
		"duration", summary.Duration)
	return summary, nil
}

// extractAll fans file extraction out across a bounded worker group and
// returns results in the discovery order of files.
func extractAll(ctx context.Context, files []string, opts Options) ([]*model.FileResult, error) {
	ext := parser.New(opts.Style)
	results := make([]*model.FileResult, len(files))

	g, ctx := errgroup.WithContext(ctx)
	if opts.Workers > 0 {
		g.SetLimit(opts.Workers)
	}

	var mu sync.Mutex
	for i, path := range files {
		i, path := i, path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res := ext.ExtractFile(ctx, path)
			mu.Lock()
			results[i] = res
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("extract files: %w", err)
	}
	return results, nil
}

// writePages renders and writes every page plus the index, then prunes
// stale output.
func writePages(w *walker.Walker, results []*model.FileResult, opts Options, logger *slog.Logger, summary *Summary) error {
	r := generator.NewRenderer()
	out := writer.New(opts.OutputDir, logger)

	docPaths := make(map[string]string, len(results))
	for _, res := range results {
		path, err := w.DocPath(opts.OutputDir, res.Path)
		if err != nil {
			return err
		}
		docPaths[res.Path] = path
	}

	for _, res := range results {
		wrote, err := out.Write(docPaths[res.Path], []byte(r.RenderFile(res)))
		if err != nil {
			return err
		}
		if wrote {
			summary.PagesWritten++
		} else {
			summary.PagesSkipped++
		}
	}

	// Index links are relative to the output root.
	relPaths := make(map[string]string, len(docPaths))
	for src, doc := range docPaths {
		rel, err := filepath.Rel(opts.OutputDir, doc)
		if err != nil {
			rel = doc
		}
		relPaths[src] = rel
	}
	title := opts.Title
	if title == "" {
		title = "API Documentation"
	}
	index := r.RenderIndex(title, generator.IndexEntries(results, relPaths))
	wrote, err := out.Write(filepath.Join(opts.OutputDir, "index.md"), []byte(index))
	if err != nil {
		return err
	}
	if wrote {
		summary.PagesWritten++
	} else {
		summary.PagesSkipped++
	}

	return out.Prune()
}
