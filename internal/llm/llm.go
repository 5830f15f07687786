// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package llm sends prompts to a completion endpoint and returns the
// generated text. The wire schema is isolated behind Provider so the same
// Client.Complete contract works against an OpenAI-compatible completions
// server or the Anthropic Messages API.
package llm

import (
	"context"
	"math"
	"strings"

	"github.com/pdiddy/consensusmind/pkg/types"
)

// Temperature bounds accepted by Request.Validate.
const (
	MinTemperature = 0.0
	MaxTemperature = 2.0
)

// RequestIDHeader carries the per-call request ID to the endpoint.
const RequestIDHeader = "X-Client-Request-Id"

// Provider serializes one completion call into an endpoint's wire format
// and parses the reply. Implementations must honor ctx and must not retry.
type Provider interface {
	// Name identifies the wire schema ("openai", "anthropic", ...).
	Name() string

	// Complete performs exactly one outbound call.
	Complete(ctx context.Context, call Call) (*Response, error)
}

// Request describes a single completion request.
type Request struct {
	// Prompt is the text to complete. It must not be blank.
	Prompt string

	// MaxTokens bounds the generated length. It must be positive.
	MaxTokens int

	// Temperature controls sampling randomness, in [0.0, 2.0].
	Temperature float64

	// Stop lists optional stop sequences. Nil or empty means none.
	Stop []string
}

// Validate reports the first documented constraint req violates as a
// types.ErrValidation field error.
func (r Request) Validate() error {
	if strings.TrimSpace(r.Prompt) == "" {
		return types.InvalidField("prompt", "must not be empty")
	}
	if r.MaxTokens <= 0 {
		return types.InvalidField("max_tokens", "must be > 0, got %d", r.MaxTokens)
	}
	if math.IsNaN(r.Temperature) || r.Temperature < MinTemperature || r.Temperature > MaxTemperature {
		return types.InvalidField("temperature", "must be in [%.1f, %.1f], got %g", MinTemperature, MaxTemperature, r.Temperature)
	}
	for i, s := range r.Stop {
		if s == "" {
			return types.InvalidField("stop", "sequence %d is empty", i)
		}
	}
	return nil
}

// Call is what a Provider receives: the validated request plus the model
// and request ID the Client assigned to it.
type Call struct {
	Request
	Model     string
	RequestID string
}

// Response holds the result of a completion call.
type Response struct {
	// Text is the generated completion. It is never empty on success.
	Text string

	// Model is the model that served the request, as reported upstream.
	Model string

	// FinishReason is the upstream stop reason ("stop", "length",
	// "end_turn", ...).
	FinishReason string

	// RequestID is the ID sent in RequestIDHeader.
	RequestID string

	Usage Usage
}

// Usage reports token consumption for one request.
type Usage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}
