// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"time"

	"github.com/pdiddy/consensusmind/pkg/types"
)

// RetryBaseDelay controls the base duration for exponential backoff between
// attempts. Tests override this to avoid real sleeps.
var RetryBaseDelay = 2 * time.Second

// Retryable reports whether err is a transport failure worth another
// attempt. Config, validation, protocol and I/O errors never are; neither
// is caller cancellation. A non-2xx status is retried only for 429 and 5xx.
func Retryable(err error) bool {
	if err == nil || !errors.Is(err, types.ErrTransport) {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	var se *types.StatusError
	if errors.As(err, &se) {
		return se.Temporary()
	}
	return true
}

// Retry calls fn and retries it while it returns a Retryable error, up to
// maxRetries additional attempts. The delay starts at RetryBaseDelay and
// doubles each attempt. When maxRetries is 0 or negative, fn runs once.
//
// The clients never retry on their own; Retry is the policy callers wrap
// around them when they want resilience. If ctx is cancelled during a
// backoff wait, Retry returns ctx.Err().
func Retry(ctx context.Context, maxRetries int, fn func(ctx context.Context) error) error {
	for attempt := 0; ; attempt++ {
		err := fn(ctx)
		if err == nil || attempt >= maxRetries || !Retryable(err) {
			return err
		}

		backoff := time.Duration(math.Pow(2, float64(attempt))) * RetryBaseDelay
		slog.Debug("retrying after transport error",
			"attempt", attempt+1, "max_retries", maxRetries, "backoff", backoff, "err", err)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
	}
}
