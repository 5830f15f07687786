// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"log/slog"

	"github.com/pdiddy/consensusmind/internal/arxiv"
	"github.com/pdiddy/consensusmind/internal/httputil"
	"github.com/pdiddy/consensusmind/internal/llm"
	"github.com/pdiddy/consensusmind/pkg/types"
)

func (a *app) arxivClient() (*arxiv.Client, error) {
	c := a.cfg.Arxiv
	opts := []arxiv.Option{
		arxiv.WithUserAgent(c.UserAgent),
		arxiv.WithTimeout(c.Timeout),
		arxiv.WithDownloadTimeout(c.DownloadTimeout),
		arxiv.WithPageSize(c.PageSize),
		arxiv.WithPageDelay(c.PageDelay),
		arxiv.WithSort(arxiv.SortBy(c.SortBy), arxiv.SortOrder(c.SortOrder)),
		arxiv.WithLogger(slog.Default()),
	}
	if c.BaseURL != "" {
		opts = append(opts, arxiv.WithBaseURL(c.BaseURL))
	}
	if c.Strict {
		opts = append(opts, arxiv.WithStrictFeed())
	}
	return arxiv.NewClient(opts...)
}

func (a *app) llmClient() (*llm.Client, error) {
	c := a.cfg.LLM
	return llm.NewClient(c.Endpoint, c.APIKey, c.Model,
		llm.WithProvider(c.Provider),
		llm.WithTimeout(c.Timeout),
		llm.WithLogger(slog.Default()),
	)
}

// retry wraps fn in the caller-side retry policy using --retries.
func (a *app) retry(ctx context.Context, fn func(ctx context.Context) error) error {
	return httputil.Retry(ctx, a.retries, fn)
}

// complete sends req through the LLM client with retries.
func (a *app) complete(ctx context.Context, client *llm.Client, req llm.Request) (*llm.Response, error) {
	var resp *llm.Response
	err := a.retry(ctx, func(ctx context.Context) error {
		r, err := client.Complete(ctx, req)
		if err != nil {
			return err
		}
		resp = r
		return nil
	})
	return resp, err
}

// lookup fetches papers by arXiv ID with retries and fails when none of the
// IDs is known upstream.
func (a *app) lookup(ctx context.Context, client *arxiv.Client, ids []string) ([]types.Paper, error) {
	var papers []types.Paper
	err := a.retry(ctx, func(ctx context.Context) error {
		p, err := client.FetchByID(ctx, ids...)
		if err != nil {
			return err
		}
		papers = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(papers) == 0 {
		return nil, types.ErrValidation.Withf("no arXiv papers found for %v", ids)
	}
	return papers, nil
}
