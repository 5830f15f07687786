// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package acquire downloads the PDFs for a set of papers concurrently,
// printing one status line per paper and a batch summary. Each download is
// retried on transient transport failures and one paper's failure never
// aborts the rest of the batch.
package acquire

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/consensusmind/internal/arxiv"
	"github.com/pdiddy/consensusmind/internal/httputil"
	"github.com/pdiddy/consensusmind/pkg/types"
)

// DefaultConcurrency bounds parallel downloads. arXiv asks clients to keep
// request rates low, so the default is small.
const DefaultConcurrency = 2

// Downloader saves one paper's PDF under outputDir and returns its path.
// *arxiv.Client satisfies it.
type Downloader interface {
	DownloadPDF(ctx context.Context, paper types.Paper, outputDir string) (string, error)
}

// Options tune a batch run.
type Options struct {
	// Concurrency is the number of downloads in flight. Values below 1 use
	// DefaultConcurrency.
	Concurrency int

	// Retries is how many extra attempts a transient failure gets.
	Retries int

	// SkipExisting leaves papers whose PDF is already in the output
	// directory untouched instead of re-downloading them.
	SkipExisting bool
}

// Item is the outcome for one paper.
type Item struct {
	Paper   types.Paper
	Path    string
	Skipped bool
	Err     error
}

// BatchResult holds the outcome of a batch run. Items keep the input order.
type BatchResult struct {
	Downloaded int
	Skipped    int
	Failed     int
	Items      []Item
}

// Total returns the total number of papers processed.
func (r BatchResult) Total() int {
	return r.Downloaded + r.Skipped + r.Failed
}

// HasFailures reports whether any papers failed.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// Paths returns the local paths of papers that are on disk after the run.
func (r BatchResult) Paths() []string {
	var paths []string
	for _, it := range r.Items {
		if it.Err == nil {
			paths = append(paths, it.Path)
		}
	}
	return paths
}

// Batch downloads every paper into outputDir. Status lines go to w as each
// paper finishes, so their order follows completion rather than input.
// Batch returns ctx.Err() only when the context ends before all papers were
// attempted; individual failures are reported in the result.
func Batch(ctx context.Context, d Downloader, papers []types.Paper, outputDir string, opts Options, w io.Writer) (BatchResult, error) {
	limit := opts.Concurrency
	if limit < 1 {
		limit = DefaultConcurrency
	}

	items := make([]Item, len(papers))
	var mu sync.Mutex
	report := func(format string, args ...any) {
		mu.Lock()
		defer mu.Unlock()
		fmt.Fprintf(w, format, args...)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	launched := 0
	for i, p := range papers {
		if gctx.Err() != nil {
			break
		}
		launched++
		g.Go(func() error {
			items[i] = fetchOne(gctx, d, p, outputDir, opts)
			it := items[i]
			switch {
			case it.Err != nil:
				report("failed:  %s (%v)\n", p.ID, it.Err)
			case it.Skipped:
				report("skipped: %s (already exists)\n", p.ID)
			default:
				report("downloaded: %s -> %s\n", p.ID, it.Path)
			}
			return nil
		})
	}
	_ = g.Wait()

	var result BatchResult
	for i := launched; i < len(papers); i++ {
		items[i] = Item{Paper: papers[i], Err: ctx.Err()}
	}
	for _, it := range items {
		switch {
		case it.Err != nil:
			result.Failed++
		case it.Skipped:
			result.Skipped++
		default:
			result.Downloaded++
		}
	}
	result.Items = items

	fmt.Fprintf(w, "\nBatch summary: %d downloaded, %d skipped, %d failed (total: %d)\n",
		result.Downloaded, result.Skipped, result.Failed, result.Total())

	if err := ctx.Err(); err != nil {
		return result, err
	}
	return result, nil
}

func fetchOne(ctx context.Context, d Downloader, p types.Paper, outputDir string, opts Options) Item {
	it := Item{Paper: p}
	if ctx.Err() != nil {
		it.Err = ctx.Err()
		return it
	}

	if opts.SkipExisting && p.ID != "" {
		path := filepath.Join(outputDir, arxiv.FileName(p.ID))
		if info, err := os.Stat(path); err == nil && info.Mode().IsRegular() && info.Size() > 0 {
			it.Path = path
			it.Skipped = true
			return it
		}
	}

	err := httputil.Retry(ctx, opts.Retries, func(ctx context.Context) error {
		path, err := d.DownloadPDF(ctx, p, outputDir)
		if err != nil {
			return err
		}
		it.Path = path
		return nil
	})
	if err != nil {
		slog.Debug("download failed", "id", p.ID, "err", err)
		it.Err = err
	}
	return it
}
