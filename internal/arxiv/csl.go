// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package arxiv

import (
	"io"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/consensusmind/pkg/types"
)

// CSLItem is a bibliographic entry in CSL (Citation Style Language) form.
// Field names follow the CSL-YAML schema so the output feeds Pandoc and
// reference managers directly.
type CSLItem struct {
	ID        string    `yaml:"id"`
	Type      string    `yaml:"type"`
	Title     string    `yaml:"title"`
	Author    []CSLName `yaml:"author,omitempty"`
	Abstract  string    `yaml:"abstract,omitempty"`
	Issued    *CSLDate  `yaml:"issued,omitempty"`
	DOI       string    `yaml:"DOI,omitempty"`
	URL       string    `yaml:"URL,omitempty"`
	Number    string    `yaml:"number,omitempty"`
	Publisher string    `yaml:"publisher,omitempty"`
}

// CSLName is a person's name in CSL form.
type CSLName struct {
	Family  string `yaml:"family,omitempty"`
	Given   string `yaml:"given,omitempty"`
	Literal string `yaml:"literal,omitempty"`
}

// CSLDate is a date in CSL date-parts form.
type CSLDate struct {
	DateParts [][]int `yaml:"date-parts"`
}

// FormatCSL writes papers as a CSL-YAML list.
func FormatCSL(papers []types.Paper, w io.Writer) error {
	items := make([]CSLItem, len(papers))
	for i, p := range papers {
		items[i] = toCSLItem(p)
	}
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	enc.SetIndent(2)
	return enc.Encode(items)
}

// toCSLItem maps a paper to an arXiv preprint entry. The citation key is
// the ID with old-style slashes made safe.
func toCSLItem(p types.Paper) CSLItem {
	item := CSLItem{
		ID:        "arxiv:" + strings.ReplaceAll(p.ID, "/", "_"),
		Type:      "article",
		Title:     p.Title,
		Abstract:  p.Abstract,
		DOI:       p.DOI,
		URL:       p.AbsURL,
		Number:    "arXiv:" + p.ID + p.Version,
		Publisher: "arXiv",
	}
	for _, a := range p.Authors {
		item.Author = append(item.Author, parseAuthorName(a))
	}
	if !p.Published.IsZero() {
		d := p.Published.UTC()
		item.Issued = &CSLDate{DateParts: [][]int{{d.Year(), int(d.Month()), d.Day()}}}
	}
	return item
}

// parseAuthorName splits a full name on its last space: everything before
// is given, the last token is family. Single-token names use literal.
func parseAuthorName(name string) CSLName {
	name = strings.TrimSpace(name)
	if name == "" {
		return CSLName{}
	}
	idx := strings.LastIndex(name, " ")
	if idx < 0 {
		return CSLName{Literal: name}
	}
	return CSLName{
		Given:  name[:idx],
		Family: name[idx+1:],
	}
}
