// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package log configures structured logging for consensusmind using log/slog.
package log

import (
	"io"
	"log/slog"
	"os"
)

// Level maps the CLI verbosity flags to a slog level. Quiet wins over
// verbose.
//
//   - quiet mode:   only WARN and ERROR messages
//   - normal mode:  INFO and above
//   - verbose mode: DEBUG and above
func Level(verbose, quiet bool) slog.Level {
	switch {
	case quiet:
		return slog.LevelWarn
	case verbose:
		return slog.LevelDebug
	default:
		return slog.LevelInfo
	}
}

// New returns a text logger writing to w at the level chosen by the flags.
func New(w io.Writer, verbose, quiet bool) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: Level(verbose, quiet),
	}))
}

// Setup installs a stderr logger as the slog default and returns it.
func Setup(verbose, quiet bool) *slog.Logger {
	logger := New(os.Stderr, verbose, quiet)
	slog.SetDefault(logger)
	return logger
}
