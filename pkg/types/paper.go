// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the records shared by the consensusmind clients
// and the CLI: papers returned by arXiv, client configuration, and the
// error taxonomy.
package types

import "time"

// Paper holds the metadata of one arXiv feed entry. A Paper returned by a
// successful search always has a non-empty ID, Title, and PDFURL.
type Paper struct {
	// ID is the versionless arXiv identifier (e.g. "2301.07041" or
	// "hep-th/9901001").
	ID string `json:"id" yaml:"id"`

	// Version is the version suffix reported upstream (e.g. "v2"), if any.
	Version string `json:"version,omitempty" yaml:"version,omitempty"`

	// Title is the paper title with whitespace collapsed.
	Title string `json:"title" yaml:"title"`

	// Authors lists the paper authors in feed order.
	Authors []string `json:"authors" yaml:"authors"`

	// Abstract is the paper summary.
	Abstract string `json:"abstract" yaml:"abstract"`

	// PDFURL is the absolute URL of the PDF artifact.
	PDFURL string `json:"pdf_url" yaml:"pdf_url"`

	// AbsURL is the abstract page URL.
	AbsURL string `json:"abs_url,omitempty" yaml:"abs_url,omitempty"`

	// Published is the date of the first version.
	Published time.Time `json:"published" yaml:"published"`

	// Updated is the date of the latest version.
	Updated time.Time `json:"updated,omitempty" yaml:"updated,omitempty"`

	// PrimaryCategory is the arXiv primary category (e.g. "cs.DC").
	PrimaryCategory string `json:"primary_category,omitempty" yaml:"primary_category,omitempty"`

	// Categories lists every category term attached to the entry.
	Categories []string `json:"categories,omitempty" yaml:"categories,omitempty"`

	// DOI is the journal DOI when the authors supplied one.
	DOI string `json:"doi,omitempty" yaml:"doi,omitempty"`

	// Comment is the free-form author comment (page counts, venue).
	Comment string `json:"comment,omitempty" yaml:"comment,omitempty"`
}

// Complete reports whether p satisfies the search invariant: ID, Title,
// and PDFURL are all non-empty.
func (p Paper) Complete() bool {
	return p.ID != "" && p.Title != "" && p.PDFURL != ""
}
