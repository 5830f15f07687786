// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package prompt renders LLM prompts from paper metadata and extracted text.
package prompt

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/pdiddy/consensusmind/pkg/types"
)

// DefaultMaxChars bounds the paper text embedded in a prompt so the prompt
// plus completion fits a small model's context window.
const DefaultMaxChars = 12000

// truncationMarker ends text that was cut to fit.
const truncationMarker = "\n[... truncated ...]"

// summaryTmpl asks for a structured summary of one paper.
var summaryTmpl = template.Must(template.New("summary").
	Funcs(template.FuncMap{"join": strings.Join}).
	Parse(`You are a research assistant specializing in distributed systems and consensus protocols. Summarize the following arXiv paper for a researcher deciding whether to read it in full.

Write:
1. One paragraph stating the problem and the main contribution.
2. The key technique or protocol, in two or three sentences.
3. The main results and any stated limitations.

Title: {{.Paper.Title}}
Authors: {{join .Paper.Authors ", "}}
arXiv ID: {{.Paper.ID}}{{.Paper.Version}}
{{- if .Paper.PrimaryCategory}}
Category: {{.Paper.PrimaryCategory}}
{{- end}}

Abstract:
{{.Paper.Abstract}}
{{- if .Body}}

Paper text:
{{.Body}}
{{- end}}

Summary:
`))

// questionTmpl asks a question answered from one paper.
var questionTmpl = template.Must(template.New("question").Parse(`You answer questions about research papers using only the provided paper. If the paper does not contain the answer, say so.

Title: {{.Paper.Title}}
arXiv ID: {{.Paper.ID}}{{.Paper.Version}}

Abstract:
{{.Paper.Abstract}}
{{- if .Body}}

Paper text:
{{.Body}}
{{- end}}

Question: {{.Question}}

Answer:
`))

type promptData struct {
	Paper    types.Paper
	Body     string
	Question string
}

// Summary renders the summary prompt for paper. body is the extracted paper
// text and may be empty, in which case only the metadata and abstract are
// used. body is cut to maxChars runes (DefaultMaxChars when maxChars <= 0).
func Summary(paper types.Paper, body string, maxChars int) (string, error) {
	return render(summaryTmpl, promptData{Paper: paper, Body: Truncate(body, maxChars)})
}

// Question renders a prompt asking question about paper.
func Question(paper types.Paper, body, question string, maxChars int) (string, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return "", types.InvalidField("question", "must not be empty")
	}
	return render(questionTmpl, promptData{Paper: paper, Body: Truncate(body, maxChars), Question: question})
}

func render(tmpl *template.Template, data promptData) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("rendering %s prompt: %w", tmpl.Name(), err)
	}
	return buf.String(), nil
}

// Truncate trims s and cuts it to at most maxChars runes, appending a
// marker when it had to cut. maxChars <= 0 means DefaultMaxChars.
func Truncate(s string, maxChars int) string {
	if maxChars <= 0 {
		maxChars = DefaultMaxChars
	}
	s = strings.TrimSpace(s)
	r := []rune(s)
	if len(r) <= maxChars {
		return s
	}
	return strings.TrimSpace(string(r[:maxChars])) + truncationMarker
}
