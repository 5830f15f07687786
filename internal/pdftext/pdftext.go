// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pdftext extracts plain text from downloaded PDF artifacts so it
// can be fed to the LLM client.
package pdftext

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/pdiddy/consensusmind/pkg/types"
)

// Extractor turns a PDF file into plain text. Different backends can
// implement this interface; Reader is the built-in one.
type Extractor interface {
	// Extract reads the PDF at path and returns its text.
	Extract(path string) (string, error)
}

// Reader extracts text page by page with a pure-Go PDF parser.
type Reader struct {
	// MaxPages stops extraction after this many pages. Zero means all.
	MaxPages int
}

var _ Extractor = Reader{}

// Extract returns the text of every page that has a content stream,
// pages separated by newlines. Pages that fail to decode are skipped. A
// missing or unreadable file is types.ErrIO; a file that is not a PDF, or
// a PDF with no extractable text, is types.ErrProtocol.
func (r Reader) Extract(path string) (text string, err error) {
	if _, statErr := os.Stat(path); statErr != nil {
		return "", types.ErrIO.Wrap(statErr, "opening %s", path)
	}

	// The parser panics on some malformed inputs.
	defer func() {
		if rec := recover(); rec != nil {
			text = ""
			err = types.ErrProtocol.Wrap(fmt.Errorf("%v", rec), "parsing %s", path)
		}
	}()

	f, doc, err := pdf.Open(path)
	if err != nil {
		return "", types.ErrProtocol.Wrap(err, "parsing %s", path)
	}
	defer f.Close()

	var b strings.Builder
	numPages := doc.NumPage()
	if r.MaxPages > 0 && r.MaxPages < numPages {
		numPages = r.MaxPages
	}
	var skipped int
	for pageNum := 1; pageNum <= numPages; pageNum++ {
		page := doc.Page(pageNum)
		if page.V.IsNull() || page.V.Key("Contents").Kind() == pdf.Null {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			skipped++
			continue
		}
		b.WriteString(pageText)
		b.WriteString("\n")
	}

	text = strings.TrimSpace(b.String())
	if text == "" {
		return "", types.ErrProtocol.Wrap(ErrNoText, "%s (%d pages, %d unreadable)", path, numPages, skipped)
	}
	return text, nil
}

// ErrNoText reports a PDF whose pages yield no text (scanned images, for
// instance).
var ErrNoText = errors.New("no extractable text")

// Extract reads all pages of the PDF at path with a default Reader.
func Extract(path string) (string, error) {
	return Reader{}.Extract(path)
}
