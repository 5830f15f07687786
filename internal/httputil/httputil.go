// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides HTTP helpers shared by the clients and the CLI.
package httputil

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/pdiddy/consensusmind/pkg/types"
)

// NewClient returns an *http.Client with its own connection pool, so
// independently configured clients in one process never share transport
// state. The client carries no overall timeout; callers bound each call
// with a context deadline instead.
func NewClient() *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	return &http.Client{Transport: transport}
}

// TransportError classifies err from a failed round trip or body read.
// Expired deadlines (from ctx or the network stack) become types.Timeout
// errors; everything else is a types.ErrTransport error. The original error
// stays reachable through errors.Is / errors.As.
func TransportError(ctx context.Context, err error, format string, args ...any) error {
	if IsTimeout(ctx, err) {
		return types.Timeout(err, format, args...)
	}
	return types.ErrTransport.Wrap(err, format, args...)
}

// IsTimeout reports whether err (or ctx) indicates an expired deadline.
func IsTimeout(ctx context.Context, err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	if ctx != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
