// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/consensusmind/internal/llm"
	"github.com/pdiddy/consensusmind/pkg/types"
)

type genFlags struct {
	maxTokens   int
	temperature float64
	stop        []string
}

// addGenFlags registers the generation flags shared by complete and
// summarize. Zero values mean "use the configured default".
func addGenFlags(cmd *cobra.Command, f *genFlags) {
	cmd.Flags().IntVar(&f.maxTokens, "max-tokens", 0, "maximum tokens to generate (default: llm.max_tokens)")
	cmd.Flags().Float64Var(&f.temperature, "temperature", 0, "sampling temperature in [0, 2] (default: llm.temperature)")
	cmd.Flags().StringArrayVar(&f.stop, "stop", nil, "stop sequence (repeatable)")
}

// request builds a Request from prompt, the flags and the configured
// defaults.
func (a *app) request(cmd *cobra.Command, f *genFlags, prompt string) llm.Request {
	req := llm.Request{
		Prompt:      prompt,
		MaxTokens:   a.cfg.LLM.MaxTokens,
		Temperature: a.cfg.LLM.Temperature,
		Stop:        f.stop,
	}
	if cmd.Flags().Changed("max-tokens") {
		req.MaxTokens = f.maxTokens
	}
	if cmd.Flags().Changed("temperature") {
		req.Temperature = f.temperature
	}
	return req
}

func newCompleteCmd(a *app) *cobra.Command {
	f := &genFlags{}
	cmd := &cobra.Command{
		Use:   "complete [prompt...]",
		Short: "Send a prompt to the configured language model",
		Long: `Complete sends one prompt to llm.endpoint and prints the generated text.
The prompt is read from the arguments, or from standard input when no
arguments are given or the only argument is "-".`,
		Example: `  consensusmind complete "Explain Nakamoto consensus in two sentences."
  echo "Compare PBFT and Raft." | consensusmind complete --max-tokens 256`,
		RunE: func(cmd *cobra.Command, args []string) error {
			prompt, err := readPrompt(args, cmd.InOrStdin())
			if err != nil {
				return err
			}
			return a.runComplete(cmd.Context(), a.request(cmd, f, prompt), cmd.OutOrStdout())
		},
	}
	addGenFlags(cmd, f)
	return cmd
}

func readPrompt(args []string, stdin io.Reader) (string, error) {
	if len(args) > 0 && !(len(args) == 1 && args[0] == "-") {
		return strings.Join(args, " "), nil
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return "", types.ErrIO.Wrap(err, "reading prompt from stdin")
	}
	return string(data), nil
}

func (a *app) runComplete(ctx context.Context, req llm.Request, w io.Writer) error {
	client, err := a.llmClient()
	if err != nil {
		return err
	}
	resp, err := a.complete(ctx, client, req)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, strings.TrimSpace(resp.Text))
	return nil
}
