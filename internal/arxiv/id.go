// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package arxiv

import (
	"regexp"
	"strings"
)

// newStyleID matches identifiers since April 2007: "2301.07041", "0704.0001v2".
var newStyleID = regexp.MustCompile(`^(\d{4}\.\d{4,5})(v\d+)?$`)

// oldStyleID matches archive-prefixed identifiers: "hep-th/9901001",
// "math.GT/0309136v1".
var oldStyleID = regexp.MustCompile(`^([a-z]+(?:-[a-z]+)*(?:\.[A-Z]{2})?/\d{7})(v\d+)?$`)

// idPrefixes are stripped from user input before matching.
var idPrefixes = []string{
	"https://arxiv.org/abs/",
	"http://arxiv.org/abs/",
	"https://arxiv.org/pdf/",
	"http://arxiv.org/pdf/",
	"https://export.arxiv.org/abs/",
	"http://export.arxiv.org/abs/",
	"arxiv.org/abs/",
	"arxiv.org/pdf/",
}

// NormalizeID parses an arXiv identifier in any of its common spellings
// ("arXiv:2301.07041v2", an abs/ or pdf/ URL, a bare ID) and returns the
// versionless ID and the version suffix. ok is false when s is not an
// arXiv identifier.
func NormalizeID(s string) (id, version string, ok bool) {
	s = strings.TrimSpace(s)
	for _, p := range idPrefixes {
		if len(s) >= len(p) && strings.EqualFold(s[:len(p)], p) {
			s = s[len(p):]
			break
		}
	}
	if len(s) >= 6 && strings.EqualFold(s[:6], "arxiv:") {
		s = s[6:]
	}
	s = strings.TrimSuffix(s, ".pdf")

	if m := newStyleID.FindStringSubmatch(s); m != nil {
		return m[1], m[2], true
	}
	if m := oldStyleID.FindStringSubmatch(s); m != nil {
		return m[1], m[2], true
	}
	return "", "", false
}

// idFromEntry pulls the identifier out of a feed entry's <id> URL
// (e.g. "http://arxiv.org/abs/2301.07041v1" → "2301.07041", "v1").
func idFromEntry(idURL string) (id, version string) {
	const marker = "/abs/"
	idx := strings.Index(idURL, marker)
	if idx < 0 {
		return "", ""
	}
	id, version, ok := NormalizeID(idURL[idx+len(marker):])
	if !ok {
		return "", ""
	}
	return id, version
}

// fileNameReplacer makes identifiers filesystem-safe. Old-style IDs contain
// a slash.
var fileNameReplacer = strings.NewReplacer("/", "_", "\\", "_", ":", "_")

// FileName returns the deterministic PDF file name for a paper ID, so
// repeated downloads of one paper land on the same path
// ("hep-th/9901001" → "hep-th_9901001.pdf").
func FileName(id string) string {
	return fileNameReplacer.Replace(strings.TrimSpace(id)) + ".pdf"
}
