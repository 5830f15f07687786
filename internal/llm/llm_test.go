// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm_test

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/consensusmind/internal/llm"
	"github.com/pdiddy/consensusmind/pkg/types"
)

func TestRequestValidate_Accepts(t *testing.T) {
	tests := []struct {
		name string
		req  llm.Request
	}{
		{"sample", llm.Request{Prompt: "Test prompt", MaxTokens: 100, Temperature: 0.7}},
		{"zero temperature", llm.Request{Prompt: "p", MaxTokens: 1, Temperature: 0}},
		{"max temperature", llm.Request{Prompt: "p", MaxTokens: 1, Temperature: 2}},
		{"stop sequences", llm.Request{Prompt: "p", MaxTokens: 1, Stop: []string{"\n\n", "END"}}},
		{"empty stop slice", llm.Request{Prompt: "p", MaxTokens: 1, Stop: []string{}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NoError(t, tt.req.Validate())
		})
	}
}

func TestRequestValidate_Rejects(t *testing.T) {
	tests := []struct {
		name  string
		req   llm.Request
		field string
	}{
		{"empty prompt", llm.Request{MaxTokens: 10, Temperature: 0.5}, "prompt"},
		{"blank prompt", llm.Request{Prompt: " \n\t", MaxTokens: 10}, "prompt"},
		{"zero max tokens", llm.Request{Prompt: "p"}, "max_tokens"},
		{"negative max tokens", llm.Request{Prompt: "p", MaxTokens: -5}, "max_tokens"},
		{"negative temperature", llm.Request{Prompt: "p", MaxTokens: 1, Temperature: -0.1}, "temperature"},
		{"high temperature", llm.Request{Prompt: "p", MaxTokens: 1, Temperature: 2.01}, "temperature"},
		{"NaN temperature", llm.Request{Prompt: "p", MaxTokens: 1, Temperature: math.NaN()}, "temperature"},
		{"empty stop entry", llm.Request{Prompt: "p", MaxTokens: 1, Stop: []string{"END", ""}}, "stop"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, types.ErrValidation)

			var fe *types.FieldError
			require.True(t, errors.As(err, &fe))
			assert.Equal(t, tt.field, fe.Field)
		})
	}
}
