// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"context"
	"net/http"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/pdiddy/consensusmind/pkg/types"
)

// openAIProvider speaks the legacy Completions schema
// ({model, prompt, max_tokens, temperature, stop}) that OpenAI and most
// self-hosted servers (vLLM, llama.cpp, Ollama) expose under /completions.
type openAIProvider struct {
	client openai.Client
}

var _ Provider = (*openAIProvider)(nil)

// newOpenAIProvider binds the SDK to endpoint, the API root that contains
// "completions" (e.g. "http://localhost:8000/v1"). SDK retries are off.
func newOpenAIProvider(endpoint, apiKey string, hc *http.Client) Provider {
	opts := []option.RequestOption{
		option.WithBaseURL(endpoint),
		option.WithHTTPClient(hc),
		option.WithMaxRetries(0),
	}
	if apiKey != "" {
		opts = append(opts, option.WithAPIKey(apiKey))
	}
	return &openAIProvider{client: openai.NewClient(opts...)}
}

func (p *openAIProvider) Name() string { return ProviderOpenAI }

func (p *openAIProvider) Complete(ctx context.Context, call Call) (*Response, error) {
	params := openai.CompletionNewParams{
		Model:       openai.CompletionNewParamsModel(call.Model),
		Prompt:      openai.CompletionNewParamsPromptUnion{OfString: openai.String(call.Prompt)},
		MaxTokens:   openai.Int(int64(call.MaxTokens)),
		Temperature: openai.Float(call.Temperature),
	}
	if len(call.Stop) > 0 {
		params.Stop = openai.CompletionNewParamsStopUnion{OfStringArray: call.Stop}
	}

	resp, err := p.client.Completions.New(ctx, params, option.WithHeader(RequestIDHeader, call.RequestID))
	if err != nil {
		return nil, err
	}
	if len(resp.Choices) == 0 {
		return nil, types.ErrProtocol.With("openai: no choices returned")
	}

	choice := resp.Choices[0]
	return &Response{
		Text:         choice.Text,
		Model:        resp.Model,
		FinishReason: string(choice.FinishReason),
		Usage: Usage{
			PromptTokens:     int(resp.Usage.PromptTokens),
			CompletionTokens: int(resp.Usage.CompletionTokens),
			TotalTokens:      int(resp.Usage.TotalTokens),
		},
	}, nil
}
