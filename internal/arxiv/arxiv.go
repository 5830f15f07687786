// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package arxiv discovers papers through the public arXiv query API and
// downloads their PDF artifacts. It hides the API's pagination and Atom
// response format behind Search, SearchAll, FetchByID and DownloadPDF.
//
// A Client holds only immutable configuration and its own *http.Client, so
// one Client may be shared by concurrent callers. Operations never retry;
// wrap them with httputil.Retry when resilience is wanted.
package arxiv

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/pdiddy/consensusmind/internal/httputil"
	"github.com/pdiddy/consensusmind/pkg/types"
)

const (
	// DefaultBaseURL is the public arXiv query endpoint.
	DefaultBaseURL = "https://export.arxiv.org/api/query"

	// DefaultPDFBaseURL prefixes an ID to form its PDF URL when a feed
	// entry carries no PDF link.
	DefaultPDFBaseURL = "https://arxiv.org/pdf/"

	// MaxPageSize is arXiv's per-request ceiling on max_results.
	MaxPageSize = 2000

	defaultUserAgent       = "consensusmind/0.1"
	defaultTimeout         = 30 * time.Second
	defaultDownloadTimeout = 120 * time.Second
	defaultPageSize        = 100
	defaultPageDelay       = 3 * time.Second
)

// SortBy selects the ordering arXiv applies to search results.
type SortBy string

const (
	SortRelevance   SortBy = "relevance"
	SortLastUpdated SortBy = "lastUpdatedDate"
	SortSubmitted   SortBy = "submittedDate"
)

// SortOrder selects the direction of SortBy.
type SortOrder string

const (
	SortDescending SortOrder = "descending"
	SortAscending  SortOrder = "ascending"
)

// Client queries arXiv and downloads PDFs.
type Client struct {
	base            *url.URL
	pdfBase         string
	http            *http.Client
	userAgent       string
	timeout         time.Duration
	downloadTimeout time.Duration
	pageSize        int
	pageDelay       time.Duration
	sortBy          SortBy
	sortOrder       SortOrder
	strict          bool
	log             *slog.Logger
}

// Option configures a Client.
type Option func(*clientConfig)

type clientConfig struct {
	baseURL         string
	pdfBase         string
	httpClient      *http.Client
	userAgent       string
	timeout         time.Duration
	downloadTimeout time.Duration
	pageSize        int
	pageDelay       time.Duration
	sortBy          SortBy
	sortOrder       SortOrder
	strict          bool
	logger          *slog.Logger
}

// WithBaseURL points the client at another query endpoint (a mirror or a
// test server).
func WithBaseURL(u string) Option {
	return func(c *clientConfig) { c.baseURL = u }
}

// WithPDFBaseURL sets the prefix used to derive a PDF URL from an ID when
// the feed entry has no PDF link.
func WithPDFBaseURL(u string) Option {
	return func(c *clientConfig) { c.pdfBase = u }
}

// WithHTTPClient replaces the client's private *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *clientConfig) { c.httpClient = hc }
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) Option {
	return func(c *clientConfig) { c.userAgent = ua }
}

// WithTimeout bounds each search request.
func WithTimeout(d time.Duration) Option {
	return func(c *clientConfig) { c.timeout = d }
}

// WithDownloadTimeout bounds each PDF download, body included.
func WithDownloadTimeout(d time.Duration) Option {
	return func(c *clientConfig) { c.downloadTimeout = d }
}

// WithPageSize sets the default page size SearchAll requests.
func WithPageSize(n int) Option {
	return func(c *clientConfig) { c.pageSize = n }
}

// WithPageDelay sets the pause between consecutive requests in SearchAll.
// arXiv asks clients to wait three seconds between calls.
func WithPageDelay(d time.Duration) Option {
	return func(c *clientConfig) { c.pageDelay = d }
}

// WithSort sets the result ordering requested from arXiv.
func WithSort(by SortBy, order SortOrder) Option {
	return func(c *clientConfig) {
		c.sortBy = by
		c.sortOrder = order
	}
}

// WithStrictFeed makes a malformed feed entry fail the whole search with
// types.ErrProtocol instead of being dropped.
func WithStrictFeed() Option {
	return func(c *clientConfig) { c.strict = true }
}

// WithLogger sets the logger for request summaries and dropped entries.
func WithLogger(l *slog.Logger) Option {
	return func(c *clientConfig) { c.logger = l }
}

// NewClient returns a Client bound to the public arXiv API unless
// WithBaseURL says otherwise. It performs no network I/O and fails with
// types.ErrConfig only when an option value is unusable.
func NewClient(opts ...Option) (*Client, error) {
	cfg := clientConfig{
		baseURL:         DefaultBaseURL,
		pdfBase:         DefaultPDFBaseURL,
		userAgent:       defaultUserAgent,
		timeout:         defaultTimeout,
		downloadTimeout: defaultDownloadTimeout,
		pageSize:        defaultPageSize,
		pageDelay:       defaultPageDelay,
		sortBy:          SortRelevance,
		sortOrder:       SortDescending,
	}
	for _, o := range opts {
		o(&cfg)
	}

	base, err := url.Parse(cfg.baseURL)
	if err != nil {
		return nil, types.ConfigField("arxiv.base_url", "cannot parse %q: %v", cfg.baseURL, err)
	}
	if (base.Scheme != "http" && base.Scheme != "https") || base.Host == "" {
		return nil, types.ConfigField("arxiv.base_url", "must be an absolute http(s) URL, got %q", cfg.baseURL)
	}
	if cfg.timeout <= 0 {
		return nil, types.ConfigField("arxiv.timeout", "must be positive, got %v", cfg.timeout)
	}
	if cfg.downloadTimeout <= 0 {
		return nil, types.ConfigField("arxiv.download_timeout", "must be positive, got %v", cfg.downloadTimeout)
	}
	if cfg.pageSize <= 0 || cfg.pageSize > MaxPageSize {
		return nil, types.ConfigField("arxiv.page_size", "must be in [1, %d], got %d", MaxPageSize, cfg.pageSize)
	}
	if cfg.pageDelay < 0 {
		return nil, types.ConfigField("arxiv.page_delay", "must not be negative, got %v", cfg.pageDelay)
	}
	switch cfg.sortBy {
	case SortRelevance, SortLastUpdated, SortSubmitted:
	default:
		return nil, types.ConfigField("arxiv.sort_by", "unknown value %q", cfg.sortBy)
	}
	switch cfg.sortOrder {
	case SortAscending, SortDescending:
	default:
		return nil, types.ConfigField("arxiv.sort_order", "unknown value %q", cfg.sortOrder)
	}

	hc := cfg.httpClient
	if hc == nil {
		hc = httputil.NewClient()
	}
	logger := cfg.logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		base:            base,
		pdfBase:         cfg.pdfBase,
		http:            hc,
		userAgent:       cfg.userAgent,
		timeout:         cfg.timeout,
		downloadTimeout: cfg.downloadTimeout,
		pageSize:        cfg.pageSize,
		pageDelay:       cfg.pageDelay,
		sortBy:          cfg.sortBy,
		sortOrder:       cfg.sortOrder,
		strict:          cfg.strict,
		log:             logger,
	}, nil
}

// get issues a GET bound to ctx. Round-trip failures come back classified
// as transport errors; the caller owns the response body.
func (c *Client) get(ctx context.Context, rawURL, accept string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, types.ErrValidation.Wrap(err, "creating request for %s", rawURL)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if accept != "" {
		req.Header.Set("Accept", accept)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, httputil.TransportError(ctx, err, "GET %s", rawURL)
	}
	if resp.StatusCode != http.StatusOK {
		// Drain so the connection returns to the pool.
		io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
		resp.Body.Close()
		return nil, types.HTTPStatus(resp.StatusCode, rawURL)
	}
	return resp, nil
}

// queryURL returns the base URL with params merged into its query string.
func (c *Client) queryURL(params url.Values) string {
	u := *c.base
	q := u.Query()
	for k, vs := range params {
		q[k] = vs
	}
	u.RawQuery = q.Encode()
	return u.String()
}
