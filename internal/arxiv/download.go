// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package arxiv

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pdiddy/consensusmind/internal/httputil"
	"github.com/pdiddy/consensusmind/pkg/types"
)

// DownloadPDF fetches paper.PDFURL and stores it as
// outputDir/FileName(paper.ID), creating outputDir if needed. It returns
// the path of the written file.
//
// The bytes go to a temporary file in outputDir that is synced and renamed
// over the final name only once the body has been read completely, so the
// final path either holds a whole, non-empty PDF or is left untouched. A
// repeated download of the same paper replaces the earlier file. Every
// failure path, including cancellation of ctx, removes the temporary file.
func (c *Client) DownloadPDF(ctx context.Context, paper types.Paper, outputDir string) (string, error) {
	if strings.TrimSpace(paper.ID) == "" {
		return "", types.InvalidField("paper.id", "must not be empty")
	}
	if u, err := url.Parse(paper.PDFURL); paper.PDFURL == "" || err != nil || !u.IsAbs() {
		return "", types.InvalidField("paper.pdf_url", "must be an absolute URL, got %q", paper.PDFURL)
	}
	if strings.TrimSpace(outputDir) == "" {
		return "", types.InvalidField("output_dir", "must not be empty")
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", types.ErrIO.Wrap(err, "creating directory %s", outputDir)
	}
	destPath := filepath.Join(outputDir, FileName(paper.ID))

	ctx, cancel := context.WithTimeout(ctx, c.downloadTimeout)
	defer cancel()
	start := time.Now()

	resp, err := c.get(ctx, paper.PDFURL, "application/pdf")
	if err != nil {
		return "", fmt.Errorf("downloading %s: %w", paper.ID, err)
	}
	defer resp.Body.Close()

	n, err := writeAtomic(ctx, destPath, resp.Body, resp.ContentLength)
	if err != nil {
		return "", fmt.Errorf("downloading %s: %w", paper.ID, err)
	}

	c.log.Debug("downloaded PDF",
		"id", paper.ID,
		"path", destPath,
		"bytes", n,
		"duration_ms", time.Since(start).Milliseconds())
	return destPath, nil
}

// writeAtomic copies body to a temporary file beside destPath and renames
// it into place. size is the expected length, or -1 when unknown.
func writeAtomic(ctx context.Context, destPath string, body io.Reader, size int64) (n int64, err error) {
	tmpFile, err := os.CreateTemp(filepath.Dir(destPath), ".download-*.tmp")
	if err != nil {
		return 0, types.ErrIO.Wrap(err, "creating temp file")
	}
	tmpPath := tmpFile.Name()

	closed := false
	defer func() {
		if err == nil {
			return
		}
		if !closed {
			tmpFile.Close()
		}
		os.Remove(tmpPath)
	}()

	w := &recordingWriter{w: tmpFile}
	n, err = io.Copy(w, body)
	if err != nil {
		if w.err != nil {
			return n, types.ErrIO.Wrap(w.err, "writing %s", tmpPath)
		}
		return n, httputil.TransportError(ctx, err, "reading response body")
	}
	if n == 0 {
		return 0, types.ErrProtocol.With("empty response body")
	}
	if size >= 0 && n != size {
		return n, types.ErrTransport.Withf("short body: got %d of %d bytes", n, size)
	}

	if err = tmpFile.Sync(); err != nil {
		return n, types.ErrIO.Wrap(err, "syncing temp file")
	}
	closed = true
	if err = tmpFile.Close(); err != nil {
		return n, types.ErrIO.Wrap(err, "closing temp file")
	}
	if err = os.Rename(tmpPath, destPath); err != nil {
		return n, types.ErrIO.Wrap(err, "renaming temp file")
	}
	return n, nil
}

// recordingWriter remembers the first write error so a failed copy can be
// attributed to the disk rather than the network.
type recordingWriter struct {
	w   io.Writer
	err error
}

func (r *recordingWriter) Write(p []byte) (int, error) {
	n, err := r.w.Write(p)
	if err != nil && r.err == nil {
		r.err = err
	}
	return n, err
}
