// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the consensusmind CLI. Each subcommand
// composes the arXiv client and the LLM client; the clients never call each
// other.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"slices"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pdiddy/consensusmind/internal/config"
	"github.com/pdiddy/consensusmind/internal/log"
	"github.com/pdiddy/consensusmind/internal/secrets"
	"github.com/pdiddy/consensusmind/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

const defaultRetries = 2

// app carries the global flags and the configuration loaded before any
// subcommand runs.
type app struct {
	cfgFile    string
	secretsDir string
	verbose    bool
	quiet      bool
	retries    int

	cfg *types.Config
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "consensusmind",
		Short: "Research assistant for consensus-protocol literature",
		Long: `consensusmind searches arXiv for papers, downloads their PDFs and asks a
configurable language model to complete prompts or summarize papers.

Settings come from consensusmind.yaml (in . or ~/.config/consensusmind/),
CONSENSUSMIND_* environment variables and .secrets/llm-api-key.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.cfgFile, "config", "", "config file (default: ./consensusmind.yaml or ~/.config/consensusmind/consensusmind.yaml)")
	pf.StringVar(&a.secretsDir, "secrets-dir", secrets.DefaultDir, "directory holding secret files")
	pf.BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")
	pf.BoolVarP(&a.quiet, "quiet", "q", false, "only log warnings and errors")
	pf.IntVar(&a.retries, "retries", defaultRetries, "extra attempts for transient network failures")

	root.AddCommand(
		newSearchCmd(a),
		newDownloadCmd(a),
		newCompleteCmd(a),
		newSummarizeCmd(a),
		newVersionCmd(),
	)
	return root
}

// setup runs before every subcommand: logging first, so config and secret
// loading can report through it.
func (a *app) setup(cmd *cobra.Command, args []string) error {
	log.Setup(a.verbose, a.quiet)

	if a.retries < 0 {
		return types.InvalidField("retries", "must not be negative, got %d", a.retries)
	}

	s, err := secrets.Load(a.secretsDir)
	if err != nil {
		return err
	}
	if len(s) > 0 {
		keys := make([]string, 0, len(s))
		for k := range s {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		slog.Debug("loaded secrets", "keys", keys)
	}

	v := config.New()
	cfg, err := config.Load(v, a.cfgFile)
	if err != nil {
		return err
	}
	if used := v.ConfigFileUsed(); used != "" {
		slog.Debug("using config file", "path", used)
	}
	cfg.LLM.APIKey = secrets.Default(s, secrets.LLMAPIKey, cfg.LLM.APIKey)
	a.cfg = cfg
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version of consensusmind",
		// Skip config loading so version works anywhere.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "consensusmind %s\n", version)
		},
	}
}
