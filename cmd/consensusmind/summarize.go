// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/consensusmind/internal/arxiv"
	"github.com/pdiddy/consensusmind/internal/llm"
	"github.com/pdiddy/consensusmind/internal/pdftext"
	"github.com/pdiddy/consensusmind/internal/prompt"
	"github.com/pdiddy/consensusmind/pkg/types"
)

type summarizeFlags struct {
	gen      genFlags
	dir      string
	question string
	maxChars int
	maxPages int
}

func newSummarizeCmd(a *app) *cobra.Command {
	f := &summarizeFlags{}
	cmd := &cobra.Command{
		Use:   "summarize <arxiv-id>",
		Short: "Summarize an arXiv paper with the language model",
		Long: `Summarize looks the paper up on arXiv, downloads its PDF unless it is
already in the papers directory, extracts the text and asks the language
model for a summary. With --question the model answers that question about
the paper instead.`,
		Example: `  consensusmind summarize 2301.07041
  consensusmind summarize 2301.07041 --question "What fault model is assumed?"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runSummarize(cmd, f, args[0], cmd.OutOrStdout())
		},
	}

	addGenFlags(cmd, &f.gen)
	cmd.Flags().StringVar(&f.dir, "dir", "", "directory for the downloaded PDF (default: papers_dir from config)")
	cmd.Flags().StringVar(&f.question, "question", "", "ask this question about the paper instead of summarizing")
	cmd.Flags().IntVar(&f.maxChars, "max-chars", prompt.DefaultMaxChars, "maximum characters of paper text included in the prompt")
	cmd.Flags().IntVar(&f.maxPages, "max-pages", 0, "only read the first N pages (0 reads all)")
	return cmd
}

func (a *app) runSummarize(cmd *cobra.Command, f *summarizeFlags, id string, w io.Writer) error {
	ctx := cmd.Context()
	dir := f.dir
	if dir == "" {
		dir = a.cfg.PapersDir
	}

	// Build the LLM client first so a missing endpoint fails before any
	// download.
	llmClient, err := a.llmClient()
	if err != nil {
		return err
	}
	arxivClient, err := a.arxivClient()
	if err != nil {
		return err
	}

	papers, err := a.lookup(ctx, arxivClient, []string{id})
	if err != nil {
		return err
	}
	paper := papers[0]

	path, err := a.ensurePDF(ctx, arxivClient, paper, dir)
	if err != nil {
		return err
	}

	body, err := pdftext.Reader{MaxPages: f.maxPages}.Extract(path)
	if err != nil {
		// The abstract alone still makes a usable prompt.
		slog.Warn("using abstract only", "id", paper.ID, "err", err)
		body = ""
	}

	var text string
	if strings.TrimSpace(f.question) != "" {
		text, err = prompt.Question(paper, body, f.question, f.maxChars)
	} else {
		text, err = prompt.Summary(paper, body, f.maxChars)
	}
	if err != nil {
		return err
	}

	resp, err := a.complete(ctx, llmClient, a.request(cmd, &f.gen, text))
	if err != nil {
		return err
	}
	writeSummary(w, paper, resp)
	return nil
}

// ensurePDF returns the local path of paper's PDF, downloading it when it
// is not already present.
func (a *app) ensurePDF(ctx context.Context, client *arxiv.Client, paper types.Paper, dir string) (string, error) {
	path := filepath.Join(dir, arxiv.FileName(paper.ID))
	if info, err := os.Stat(path); err == nil && info.Size() > 0 {
		slog.Debug("reusing downloaded PDF", "path", path)
		return path, nil
	}
	err := a.retry(ctx, func(ctx context.Context) error {
		p, err := client.DownloadPDF(ctx, paper, dir)
		path = p
		return err
	})
	return path, err
}

func writeSummary(w io.Writer, paper types.Paper, resp *llm.Response) {
	fmt.Fprintf(w, "%s: %s\n\n", paper.ID, paper.Title)
	fmt.Fprintln(w, strings.TrimSpace(resp.Text))
}
