// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/consensusmind/internal/acquire"
	"github.com/pdiddy/consensusmind/pkg/types"
)

type downloadFlags struct {
	dir          string
	query        string
	maxResults   int
	concurrency  int
	skipExisting bool
}

func newDownloadCmd(a *app) *cobra.Command {
	f := &downloadFlags{}
	cmd := &cobra.Command{
		Use:   "download [arxiv-ids...]",
		Short: "Download paper PDFs from arXiv",
		Long: `Download saves the PDF of each paper into the papers directory as
<id>.pdf. Papers are named by arXiv ID, or selected with --query from a
search. Downloads run in parallel; a failed paper does not stop the others.
Re-downloading a paper replaces its file unless --skip-existing is set.`,
		Example: `  consensusmind download 2301.07041 hep-th/9901001
  consensusmind download --query "proof of stake" --max-results 5 --dir papers`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runDownload(cmd.Context(), f, args, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&f.dir, "dir", "", "output directory (default: papers_dir from config)")
	cmd.Flags().StringVar(&f.query, "query", "", "download the results of this search instead of IDs")
	cmd.Flags().IntVarP(&f.maxResults, "max-results", "n", defaultMaxResults, "number of search results to download with --query")
	cmd.Flags().IntVar(&f.concurrency, "concurrency", acquire.DefaultConcurrency, "parallel downloads")
	cmd.Flags().BoolVar(&f.skipExisting, "skip-existing", false, "keep PDFs that are already downloaded")
	return cmd
}

func (a *app) runDownload(ctx context.Context, f *downloadFlags, ids []string, w io.Writer) error {
	query := strings.TrimSpace(f.query)
	if len(ids) == 0 && query == "" {
		return types.InvalidField("ids", "provide one or more arXiv IDs or --query")
	}
	if len(ids) > 0 && query != "" {
		return types.InvalidField("query", "cannot be combined with IDs")
	}
	dir := f.dir
	if dir == "" {
		dir = a.cfg.PapersDir
	}

	client, err := a.arxivClient()
	if err != nil {
		return err
	}

	var papers []types.Paper
	if query != "" {
		err = a.retry(ctx, func(ctx context.Context) error {
			p, err := client.Search(ctx, query, f.maxResults, 0)
			papers = p
			return err
		})
	} else {
		papers, err = a.lookup(ctx, client, ids)
	}
	if err != nil {
		return err
	}

	result, err := acquire.Batch(ctx, client, papers, dir, acquire.Options{
		Concurrency:  f.concurrency,
		Retries:      a.retries,
		SkipExisting: f.skipExisting,
	}, w)
	if err != nil {
		return err
	}
	if result.HasFailures() {
		return fmt.Errorf("%d paper(s) failed to download", result.Failed)
	}
	return nil
}
