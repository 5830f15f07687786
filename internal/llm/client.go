// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pdiddy/consensusmind/internal/httputil"
	"github.com/pdiddy/consensusmind/pkg/types"
)

// Provider names accepted by WithProvider.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

const defaultTimeout = 60 * time.Second

// providerFactory builds a Provider bound to one endpoint.
type providerFactory func(endpoint, apiKey string, hc *http.Client) Provider

var providers = map[string]providerFactory{
	ProviderOpenAI:    newOpenAIProvider,
	ProviderAnthropic: newAnthropicProvider,
}

// Providers returns the names WithProvider accepts, sorted.
func Providers() []string {
	names := make([]string, 0, len(providers))
	for name := range providers {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Client sends completion requests to a single endpoint. It holds only
// immutable configuration and is safe for concurrent use.
type Client struct {
	endpoint string
	model    string
	provider Provider
	timeout  time.Duration
	log      *slog.Logger
}

// Option configures a Client.
type Option func(*clientConfig)

type clientConfig struct {
	providerName string
	provider     Provider
	timeout      time.Duration
	httpClient   *http.Client
	logger       *slog.Logger
}

// WithProvider selects the wire schema by name (see Providers). The default
// is ProviderOpenAI.
func WithProvider(name string) Option {
	return func(c *clientConfig) { c.providerName = name }
}

// WithCustomProvider installs p in place of a named provider.
func WithCustomProvider(p Provider) Option {
	return func(c *clientConfig) { c.provider = p }
}

// WithTimeout bounds each Complete call. The default is 60s.
func WithTimeout(d time.Duration) Option {
	return func(c *clientConfig) { c.timeout = d }
}

// WithHTTPClient replaces the client's private *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *clientConfig) { c.httpClient = hc }
}

// WithLogger sets the logger for per-call debug records.
func WithLogger(l *slog.Logger) Option {
	return func(c *clientConfig) { c.logger = l }
}

// NewClient returns a Client for model at endpoint. apiKey may be empty
// when the endpoint needs none. NewClient performs no network I/O; it fails
// with types.ErrConfig when endpoint or model is blank, endpoint is not an
// absolute http(s) URL, or the provider name is unknown.
func NewClient(endpoint, apiKey, model string, opts ...Option) (*Client, error) {
	cfg := clientConfig{
		providerName: ProviderOpenAI,
		timeout:      defaultTimeout,
	}
	for _, o := range opts {
		o(&cfg)
	}

	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return nil, types.ConfigField("llm.endpoint", "must not be empty")
	}
	u, err := url.Parse(endpoint)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, types.ConfigField("llm.endpoint", "must be an absolute http(s) URL, got %q", endpoint)
	}
	model = strings.TrimSpace(model)
	if model == "" {
		return nil, types.ConfigField("llm.model", "must not be empty")
	}
	if cfg.timeout <= 0 {
		return nil, types.ConfigField("llm.timeout", "must be positive, got %v", cfg.timeout)
	}

	p := cfg.provider
	if p == nil {
		factory, ok := providers[cfg.providerName]
		if !ok {
			return nil, types.ConfigField("llm.provider", "unknown provider %q (want one of %s)",
				cfg.providerName, strings.Join(Providers(), ", "))
		}
		hc := cfg.httpClient
		if hc == nil {
			hc = httputil.NewClient()
		}
		p = factory(endpoint, apiKey, hc)
	}

	logger := cfg.logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		endpoint: endpoint,
		model:    model,
		provider: p,
		timeout:  cfg.timeout,
		log:      logger,
	}, nil
}

// Model returns the model name sent with every request.
func (c *Client) Model() string { return c.model }

// Provider returns the name of the wire schema in use.
func (c *Client) Provider() string { return c.provider.Name() }

// Complete validates req and sends it as one outbound call. It never
// retries. Invalid requests fail with types.ErrValidation before any I/O;
// network failures, expired deadlines and non-2xx replies fail with
// types.ErrTransport (deadlines also match types.ErrTimeout); a reply that
// cannot be decoded or carries no text fails with types.ErrProtocol.
func (c *Client) Complete(ctx context.Context, req Request) (*Response, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	requestID := uuid.NewString()
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	start := time.Now()

	resp, err := c.provider.Complete(ctx, Call{Request: req, Model: c.model, RequestID: requestID})
	if err != nil {
		err = classify(ctx, c.provider.Name(), c.endpoint, err)
		c.log.Debug("llm completion failed",
			"request_id", requestID,
			"provider", c.provider.Name(),
			"duration_ms", time.Since(start).Milliseconds(),
			"error", err)
		return nil, err
	}
	if strings.TrimSpace(resp.Text) == "" {
		return nil, types.ErrProtocol.Withf("%s completion %s: empty text (finish reason %q)",
			c.provider.Name(), requestID, resp.FinishReason)
	}

	resp.RequestID = requestID
	if resp.Model == "" {
		resp.Model = c.model
	}
	c.log.Debug("llm completion",
		"request_id", requestID,
		"provider", c.provider.Name(),
		"model", resp.Model,
		"finish_reason", resp.FinishReason,
		"prompt_tokens", resp.Usage.PromptTokens,
		"completion_tokens", resp.Usage.CompletionTokens,
		"duration_ms", time.Since(start).Milliseconds())
	return resp, nil
}
