package gen

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/tools/imports"
)

// Writer renders and writes generated files in parallel, formatting them
// with goimports.
type Writer struct {
	outDir  string
	workers int

	mu      sync.Mutex
	metrics *WriterMetrics
}

// WriterMetrics counts the files written by a Writer.
type WriterMetrics struct {
	FilesGenerated int
	TotalBytes     int64
}

// NewWriter creates a writer for the target directory of cfg.
func NewWriter(cfg *Config) *Writer {
	w := &Writer{
		outDir:  cfg.Target,
		workers: cfg.Workers,
		metrics: &WriterMetrics{},
	}
	if w.workers <= 0 {
		w.workers = runtime.GOMAXPROCS(0)
	}
	return w
}

// Metrics returns the generation metrics.
func (w *Writer) Metrics() WriterMetrics {
	w.mu.Lock()
	defer w.mu.Unlock()
	return *w.metrics
}

// Write renders the given files in parallel and writes them to the target
// directory. It stops at the first failure; files already written stay.
func (w *Writer) Write(ctx context.Context, files []File) error {
	if err := os.MkdirAll(w.outDir, 0o755); err != nil {
		return NewGenerationError("", w.outDir, "create output directory", err)
	}
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(w.workers)
	for _, f := range files {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return w.write(f)
		})
	}
	return eg.Wait()
}

func (w *Writer) write(f File) error {
	var buf bytes.Buffer
	if err := f.Render().Render(&buf); err != nil {
		return NewGenerationError(f.Model, f.Name, "render", err)
	}
	path := filepath.Join(w.outDir, f.Name)
	src, err := imports.Process(path, buf.Bytes(), nil)
	if err != nil {
		// Keep the unformatted source next to the target for inspection.
		_ = os.WriteFile(path+".error", buf.Bytes(), 0o644)
		return NewGenerationError(f.Model, f.Name, fmt.Sprintf("format (unformatted written to %s.error)", path), err)
	}
	if err := os.WriteFile(path, src, 0o644); err != nil {
		return NewGenerationError(f.Model, f.Name, "write", err)
	}
	w.mu.Lock()
	w.metrics.FilesGenerated++
	w.metrics.TotalBytes += int64(len(src))
	w.mu.Unlock()
	return nil
}
