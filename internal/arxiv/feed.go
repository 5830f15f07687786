// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package arxiv

import (
	"encoding/xml"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/pdiddy/consensusmind/pkg/types"
)

// Page is one upstream response: the papers that passed validation plus the
// feed's paging metadata.
type Page struct {
	Papers []types.Paper

	// TotalResults is the number of matches arXiv reports for the query.
	TotalResults int

	// StartIndex and ItemsPerPage echo the request's start and max_results.
	StartIndex   int
	ItemsPerPage int

	// Dropped counts entries discarded because they lacked an ID or title.
	Dropped int
}

// Received returns the number of entries the feed carried, dropped ones
// included. A page is short when Received is below the requested size.
func (p *Page) Received() int {
	return len(p.Papers) + p.Dropped
}

// arXiv Atom feed XML structures.
type atomFeed struct {
	XMLName      xml.Name    `xml:"http://www.w3.org/2005/Atom feed"`
	TotalResults int         `xml:"http://a9.com/-/spec/opensearch/1.1/ totalResults"`
	StartIndex   int         `xml:"http://a9.com/-/spec/opensearch/1.1/ startIndex"`
	ItemsPerPage int         `xml:"http://a9.com/-/spec/opensearch/1.1/ itemsPerPage"`
	Entries      []atomEntry `xml:"http://www.w3.org/2005/Atom entry"`
}

type atomEntry struct {
	ID              string         `xml:"http://www.w3.org/2005/Atom id"`
	Title           string         `xml:"http://www.w3.org/2005/Atom title"`
	Summary         string         `xml:"http://www.w3.org/2005/Atom summary"`
	Published       string         `xml:"http://www.w3.org/2005/Atom published"`
	Updated         string         `xml:"http://www.w3.org/2005/Atom updated"`
	Authors         []atomAuthor   `xml:"http://www.w3.org/2005/Atom author"`
	Links           []atomLink     `xml:"http://www.w3.org/2005/Atom link"`
	Categories      []atomCategory `xml:"http://www.w3.org/2005/Atom category"`
	PrimaryCategory atomCategory   `xml:"http://arxiv.org/schemas/atom primary_category"`
	DOI             string         `xml:"http://arxiv.org/schemas/atom doi"`
	Comment         string         `xml:"http://arxiv.org/schemas/atom comment"`
}

type atomAuthor struct {
	Name string `xml:"http://www.w3.org/2005/Atom name"`
}

type atomLink struct {
	Href  string `xml:"href,attr"`
	Rel   string `xml:"rel,attr"`
	Type  string `xml:"type,attr"`
	Title string `xml:"title,attr"`
}

type atomCategory struct {
	Term string `xml:"term,attr"`
}

// apiErrorMarker appears in the <id> of the single entry arXiv returns
// when it rejects a query (e.g. a malformed id_list).
const apiErrorMarker = "/api/errors"

// parseFeed decodes an Atom response into a Page. Entries without a usable
// ID or title are dropped and counted, or rejected with ErrProtocol when
// strict is set. pdfBase derives a PDF URL for entries that lack a PDF link.
func parseFeed(r io.Reader, pdfBase string, strict bool) (*Page, error) {
	var feed atomFeed
	if err := xml.NewDecoder(r).Decode(&feed); err != nil {
		return nil, types.ErrProtocol.Wrap(err, "parsing arXiv feed")
	}

	page := &Page{
		Papers:       make([]types.Paper, 0, len(feed.Entries)),
		TotalResults: feed.TotalResults,
		StartIndex:   feed.StartIndex,
		ItemsPerPage: feed.ItemsPerPage,
	}

	for i, entry := range feed.Entries {
		if strings.Contains(entry.ID, apiErrorMarker) {
			return nil, types.ErrProtocol.Withf("arXiv API error: %s", collapse(entry.Summary))
		}

		p, reason := entryToPaper(entry, pdfBase)
		if reason != "" {
			if strict {
				return nil, types.ErrProtocol.Withf("feed entry %d: %s", i, reason)
			}
			page.Dropped++
			continue
		}
		page.Papers = append(page.Papers, p)
	}
	return page, nil
}

// entryToPaper converts one feed entry. A non-empty reason means the entry
// breaks the Paper invariant and must not be surfaced.
func entryToPaper(entry atomEntry, pdfBase string) (types.Paper, string) {
	id, version := idFromEntry(strings.TrimSpace(entry.ID))
	if id == "" {
		return types.Paper{}, "missing or unrecognized id " + strconv.Quote(strings.TrimSpace(entry.ID))
	}
	title := collapse(entry.Title)
	if title == "" {
		return types.Paper{}, "missing title for " + id
	}

	p := types.Paper{
		ID:              id,
		Version:         version,
		Title:           title,
		Abstract:        collapse(entry.Summary),
		PrimaryCategory: entry.PrimaryCategory.Term,
		DOI:             strings.TrimSpace(entry.DOI),
		Comment:         collapse(entry.Comment),
	}

	for _, a := range entry.Authors {
		if name := collapse(a.Name); name != "" {
			p.Authors = append(p.Authors, name)
		}
	}
	for _, c := range entry.Categories {
		if c.Term != "" {
			p.Categories = append(p.Categories, c.Term)
		}
	}

	for _, l := range entry.Links {
		switch {
		case l.Title == "pdf" || l.Type == "application/pdf":
			p.PDFURL = l.Href
		case l.Rel == "alternate":
			p.AbsURL = l.Href
		}
	}
	if p.PDFURL == "" && pdfBase != "" {
		p.PDFURL = pdfBase + id + version
	}
	if !p.Complete() {
		return types.Paper{}, "missing pdf link for " + id
	}

	if t, err := time.Parse(time.RFC3339, strings.TrimSpace(entry.Published)); err == nil {
		p.Published = t
	}
	if t, err := time.Parse(time.RFC3339, strings.TrimSpace(entry.Updated)); err == nil {
		p.Updated = t
	}
	return p, ""
}

// collapse trims s and folds internal runs of whitespace (arXiv wraps
// titles and abstracts across lines).
func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
