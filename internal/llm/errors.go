// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/openai/openai-go/v3"

	"github.com/pdiddy/consensusmind/internal/httputil"
	"github.com/pdiddy/consensusmind/pkg/types"
)

// classify maps a provider failure onto the error taxonomy. Errors a
// provider already classified keep their kind.
func classify(ctx context.Context, provider, endpoint string, err error) error {
	if errors.Is(err, types.ErrTransport) || errors.Is(err, types.ErrProtocol) {
		return fmt.Errorf("%s completion: %w", provider, err)
	}
	if httputil.IsTimeout(ctx, err) {
		return types.Timeout(err, "%s completion", provider)
	}
	if code, ok := statusCode(err); ok {
		return fmt.Errorf("%s completion: %w: %w", provider, types.HTTPStatus(code, endpoint), err)
	}
	if isDecode(err) {
		return types.ErrProtocol.Wrap(err, "%s completion", provider)
	}
	if isNetwork(ctx, err) {
		return types.ErrTransport.Wrap(err, "%s completion", provider)
	}
	return types.ErrProtocol.Wrap(err, "%s completion", provider)
}

// statusCode extracts the HTTP status from an SDK API error.
func statusCode(err error) (int, bool) {
	var oe *openai.Error
	if errors.As(err, &oe) {
		return oe.StatusCode, true
	}
	var ae *anthropic.Error
	if errors.As(err, &ae) {
		return ae.StatusCode, true
	}
	return 0, false
}

// isDecode reports whether err came from parsing a response body. The
// SDKs wrap decode failures, including a truncated body's unexpected EOF,
// with this prefix.
func isDecode(err error) bool {
	var se *json.SyntaxError
	var te *json.UnmarshalTypeError
	if errors.As(err, &se) || errors.As(err, &te) {
		return true
	}
	return strings.Contains(err.Error(), "error parsing response json")
}

// isNetwork reports whether err happened below the HTTP layer or because
// the caller gave up.
func isNetwork(ctx context.Context, err error) bool {
	if ctx.Err() != nil || errors.Is(err, context.Canceled) {
		return true
	}
	if errors.Is(err, io.ErrUnexpectedEOF) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne)
}
