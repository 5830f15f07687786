// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/consensusmind/internal/arxiv"
	"github.com/pdiddy/consensusmind/pkg/types"
)

const defaultMaxResults = 10

type searchFlags struct {
	maxResults int
	offset     int
	all        bool
	ids        []string
	format     string
}

func newSearchCmd(a *app) *cobra.Command {
	f := &searchFlags{}
	cmd := &cobra.Command{
		Use:   "search [query...]",
		Short: "Search arXiv for papers",
		Long: `Search queries the arXiv API and prints matching papers. Free text is
searched across all fields; arXiv field prefixes such as ti:, au:, abs: and
cat: pass through unchanged.

With --all, results are paged until --max-results papers are collected,
pausing arxiv.page_delay between requests. With --id, papers are looked up
by identifier instead.`,
		Example: `  consensusmind search blockchain consensus
  consensusmind search --max-results 50 --all 'ti:"byzantine fault tolerance"'
  consensusmind search --id 2301.07041 --format yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runSearch(cmd.Context(), f, strings.Join(args, " "), cmd.OutOrStdout())
		},
	}

	cmd.Flags().IntVarP(&f.maxResults, "max-results", "n", defaultMaxResults, "maximum number of papers to return")
	cmd.Flags().IntVar(&f.offset, "offset", 0, "index of the first result (single-page search only)")
	cmd.Flags().BoolVar(&f.all, "all", false, "page through results until --max-results papers are collected")
	cmd.Flags().StringSliceVar(&f.ids, "id", nil, "look up papers by arXiv ID (repeatable)")
	cmd.Flags().StringVarP(&f.format, "format", "o", "table", "output format: table, json, yaml or csl (CSL-YAML bibliography)")
	return cmd
}

func (a *app) runSearch(ctx context.Context, f *searchFlags, query string, w io.Writer) error {
	if err := checkFormat(f.format); err != nil {
		return err
	}
	if len(f.ids) == 0 && strings.TrimSpace(query) == "" {
		return types.InvalidField("query", "provide a search query or --id")
	}

	client, err := a.arxivClient()
	if err != nil {
		return err
	}

	var papers []types.Paper
	switch {
	case len(f.ids) > 0:
		papers, err = a.lookup(ctx, client, f.ids)
	case f.all:
		err = a.retry(ctx, func(ctx context.Context) error {
			p, err := client.SearchAll(ctx, query, f.maxResults, 0)
			papers = p
			return err
		})
	default:
		err = a.retry(ctx, func(ctx context.Context) error {
			p, err := client.Search(ctx, query, f.maxResults, f.offset)
			papers = p
			return err
		})
	}
	if err != nil {
		return err
	}
	return writePapers(papers, f.format, w)
}

func checkFormat(format string) error {
	switch format {
	case "table", "json", "yaml", "csl":
		return nil
	}
	return types.InvalidField("format", "must be table, json, yaml or csl, got %q", format)
}

func writePapers(papers []types.Paper, format string, w io.Writer) error {
	switch format {
	case "json":
		return arxiv.FormatJSON(papers, w)
	case "yaml":
		return arxiv.FormatYAML(papers, w)
	case "csl":
		return arxiv.FormatCSL(papers, w)
	default:
		arxiv.FormatTable(papers, w)
		return nil
	}
}
