// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"context"
	"net/http"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// anthropicProvider speaks the Messages API. The prompt becomes a single
// user message and Stop maps to stop_sequences.
type anthropicProvider struct {
	client anthropic.Client
}

// Compile-time check that anthropicProvider satisfies the Provider interface.
var _ Provider = (*anthropicProvider)(nil)

// newAnthropicProvider binds the SDK to endpoint, the API root
// (e.g. "https://api.anthropic.com"). SDK retries are off.
func newAnthropicProvider(endpoint, apiKey string, hc *http.Client) Provider {
	opts := []option.RequestOption{
		option.WithBaseURL(endpoint),
		option.WithHTTPClient(hc),
		option.WithMaxRetries(0),
	}
	if apiKey != "" {
		opts = append(opts, option.WithAPIKey(apiKey))
	}
	return &anthropicProvider{client: anthropic.NewClient(opts...)}
}

func (p *anthropicProvider) Name() string { return ProviderAnthropic }

func (p *anthropicProvider) Complete(ctx context.Context, call Call) (*Response, error) {
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(call.Model),
		MaxTokens: int64(call.MaxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(call.Prompt)),
		},
		Temperature: anthropic.Float(call.Temperature),
	}
	if len(call.Stop) > 0 {
		params.StopSequences = call.Stop
	}

	msg, err := p.client.Messages.New(ctx, params, option.WithHeader(RequestIDHeader, call.RequestID))
	if err != nil {
		return nil, err
	}

	// Extract text from content blocks.
	var text strings.Builder
	for _, block := range msg.Content {
		if variant, ok := block.AsAny().(anthropic.TextBlock); ok {
			text.WriteString(variant.Text)
		}
	}

	in, out := int(msg.Usage.InputTokens), int(msg.Usage.OutputTokens)
	return &Response{
		Text:         text.String(),
		Model:        string(msg.Model),
		FinishReason: string(msg.StopReason),
		Usage: Usage{
			PromptTokens:     in,
			CompletionTokens: out,
			TotalTokens:      in + out,
		},
	}, nil
}
