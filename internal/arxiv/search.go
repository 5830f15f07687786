// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package arxiv

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/pdiddy/consensusmind/internal/httputil"
	"github.com/pdiddy/consensusmind/pkg/types"
)

// fieldedQuery matches queries already written in arXiv's query syntax:
// a field prefix (ti:, au:, abs:, cat: ...) or a boolean operator.
var fieldedQuery = regexp.MustCompile(`(?:^|[\s(])(?:ti|au|abs|co|jr|cat|rn|id|all):|\s(?:AND|OR|ANDNOT)\s`)

// Search issues one request for up to maxResults entries starting at
// offset and returns them in upstream order (see WithSort).
//
// Entries that lack an ID or a title are dropped rather than surfaced, since
// arXiv feeds occasionally carry incomplete records; every returned Paper
// has a non-empty ID, Title and PDFURL. Use SearchPage to see how many were
// dropped, or WithStrictFeed to fail instead. A query that matches nothing
// returns an empty slice and no error.
func (c *Client) Search(ctx context.Context, query string, maxResults, offset int) ([]types.Paper, error) {
	page, err := c.SearchPage(ctx, query, maxResults, offset)
	if err != nil {
		return nil, err
	}
	return page.Papers, nil
}

// SearchPage is Search that also returns the feed's paging metadata.
// maxResults above MaxPageSize is clamped to MaxPageSize.
func (c *Client) SearchPage(ctx context.Context, query string, maxResults, offset int) (*Page, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return nil, types.InvalidField("query", "must not be empty")
	}
	if maxResults <= 0 {
		return nil, types.InvalidField("max_results", "must be > 0, got %d", maxResults)
	}
	if offset < 0 {
		return nil, types.InvalidField("offset", "must be >= 0, got %d", offset)
	}
	if maxResults > MaxPageSize {
		c.log.Debug("clamping max_results", "requested", maxResults, "max", MaxPageSize)
		maxResults = MaxPageSize
	}

	params := url.Values{
		"search_query": {BuildQuery(q)},
		"start":        {strconv.Itoa(offset)},
		"max_results":  {strconv.Itoa(maxResults)},
		"sortBy":       {string(c.sortBy)},
		"sortOrder":    {string(c.sortOrder)},
	}

	page, err := c.fetchPage(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("arXiv search %q: %w", q, err)
	}
	if len(page.Papers) > maxResults {
		page.Papers = page.Papers[:maxResults]
	}
	return page, nil
}

// SearchAll pages through results for query until limit papers have been
// collected, a short page arrives, a page adds no new papers, or the
// reported total is exhausted.
// Requests run sequentially with the client's page delay between them.
// pageSize 0 means the client's configured page size. Papers repeated
// across page boundaries are returned once.
func (c *Client) SearchAll(ctx context.Context, query string, limit, pageSize int) ([]types.Paper, error) {
	if limit <= 0 {
		return nil, types.InvalidField("limit", "must be > 0, got %d", limit)
	}
	if pageSize == 0 {
		pageSize = c.pageSize
	}
	if pageSize < 0 || pageSize > MaxPageSize {
		return nil, types.InvalidField("page_size", "must be in [1, %d], got %d", MaxPageSize, pageSize)
	}

	var all []types.Paper
	seen := make(map[string]bool)
	for offset := 0; len(all) < limit; {
		if offset > 0 && c.pageDelay > 0 {
			select {
			case <-ctx.Done():
				return nil, httputil.TransportError(ctx, ctx.Err(), "waiting between pages")
			case <-time.After(c.pageDelay):
			}
		}

		want := min(pageSize, limit-len(all))
		page, err := c.SearchPage(ctx, query, want, offset)
		if err != nil {
			return nil, err
		}
		added := 0
		for _, p := range page.Papers {
			if seen[p.ID] || len(all) >= limit {
				continue
			}
			seen[p.ID] = true
			all = append(all, p)
			added++
		}

		offset += want
		if page.Received() < want || added == 0 {
			break
		}
		if page.TotalResults > 0 && offset >= page.TotalResults {
			break
		}
	}
	if all == nil {
		all = []types.Paper{}
	}
	return all, nil
}

// FetchByID looks papers up by identifier. IDs are normalized first
// (NormalizeID); a version suffix pins that version. Papers come back in
// upstream order; unknown IDs are simply absent.
func (c *Client) FetchByID(ctx context.Context, ids ...string) ([]types.Paper, error) {
	if len(ids) == 0 {
		return nil, types.InvalidField("ids", "at least one arXiv ID required")
	}
	list := make([]string, 0, len(ids))
	for _, raw := range ids {
		id, version, ok := NormalizeID(raw)
		if !ok {
			return nil, types.InvalidField("ids", "not an arXiv identifier: %q", raw)
		}
		list = append(list, id+version)
	}

	params := url.Values{
		"id_list":     {strings.Join(list, ",")},
		"max_results": {strconv.Itoa(len(list))},
	}
	page, err := c.fetchPage(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("arXiv lookup %s: %w", strings.Join(list, ","), err)
	}
	return page.Papers, nil
}

// fetchPage performs one bounded GET against the query endpoint and
// decodes the feed.
func (c *Client) fetchPage(ctx context.Context, params url.Values) (*Page, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	reqURL := c.queryURL(params)
	start := time.Now()

	resp, err := c.get(ctx, reqURL, "application/atom+xml")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	// Read first so a cut connection is a transport failure, not a parse one.
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, httputil.TransportError(ctx, err, "reading arXiv feed")
	}
	page, err := parseFeed(bytes.NewReader(data), c.pdfBase, c.strict)
	if err != nil {
		return nil, err
	}

	if page.Dropped > 0 {
		c.log.Warn("dropped incomplete arXiv feed entries",
			"dropped", page.Dropped, "kept", len(page.Papers))
	}
	c.log.Debug("arXiv query",
		"url", reqURL,
		"papers", len(page.Papers),
		"total", page.TotalResults,
		"duration_ms", time.Since(start).Milliseconds())
	return page, nil
}

// BuildQuery turns free text into an arXiv search_query. Text already in
// arXiv query syntax passes through unchanged; otherwise each term must
// match any field ("blockchain consensus" → "all:blockchain AND all:consensus").
func BuildQuery(text string) string {
	text = strings.TrimSpace(text)
	if fieldedQuery.MatchString(text) {
		return text
	}
	terms := strings.Fields(text)
	for i, t := range terms {
		terms[i] = "all:" + t
	}
	return strings.Join(terms, " AND ")
}
