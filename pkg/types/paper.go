// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the data structures shared between the retrieval
// core, its collaborators, and the presentation surfaces.
package types

import "strings"

// Sentinel text for required fields a provider did not supply.
const (
	NoTitle    = "(no title available)"
	NoAuthors  = "(no author information)"
	NoAbstract = "(no abstract available)"
)

// Source tags identifying which bibliographic provider produced a record.
const (
	SourceSemanticScholar = "Semantic Scholar"
	SourceCrossref        = "Crossref"
)

// Paper is the unified record produced by every source client. Title,
// Authors and Abstract are never empty; unknown values use the sentinel
// text above. Optional fields are nil when the provider omitted them.
type Paper struct {
	// Title is the paper title, or NoTitle.
	Title string `json:"title" yaml:"title"`

	// Authors is a comma-joined list of full names, or NoAuthors.
	Authors string `json:"authors" yaml:"authors"`

	// Year is the publication year.
	Year *int `json:"year" yaml:"year"`

	// Citations is the citation count. Nil for sources that cannot report it.
	Citations *int `json:"citations" yaml:"citations"`

	// Venue is the short display label of the publication venue.
	Venue *string `json:"venue" yaml:"venue"`

	// VenueAll combines the short and full venue names. It is a match
	// target only and is never displayed verbatim.
	VenueAll *string `json:"venue_all" yaml:"venue_all"`

	// DOI is always a full https://doi.org/<id> URL.
	DOI *string `json:"doi" yaml:"doi"`

	// URL is the landing page.
	URL *string `json:"url" yaml:"url"`

	// PDF is an open-access PDF link.
	PDF *string `json:"pdf" yaml:"pdf"`

	// Abstract is the paper abstract, or NoAbstract.
	Abstract string `json:"abstract" yaml:"abstract"`

	// Source names the provider that produced the record.
	Source string `json:"source" yaml:"source"`
}

// YearValue returns the publication year and whether it is known.
func (p Paper) YearValue() (int, bool) {
	if p.Year == nil {
		return 0, false
	}
	return *p.Year, true
}

// CitationCount returns the citation count with nil coerced to zero. Use it
// for comparisons only; the record itself keeps nil.
func (p Paper) CitationCount() int {
	if p.Citations == nil {
		return 0
	}
	return *p.Citations
}

// MatchVenue returns the lowercased venue text used for containment checks:
// VenueAll when present, Venue otherwise.
func (p Paper) MatchVenue() string {
	switch {
	case p.VenueAll != nil && *p.VenueAll != "":
		return strings.ToLower(*p.VenueAll)
	case p.Venue != nil:
		return strings.ToLower(*p.Venue)
	default:
		return ""
	}
}

// DOIValue returns the DOI URL or "".
func (p Paper) DOIValue() string { return deref(p.DOI) }

// VenueValue returns the display venue or "".
func (p Paper) VenueValue() string { return deref(p.Venue) }

// URLValue returns the landing page URL or "".
func (p Paper) URLValue() string { return deref(p.URL) }

// PDFValue returns the open-access PDF URL or "".
func (p Paper) PDFValue() string { return deref(p.PDF) }

// BareDOI returns the DOI without its resolver prefix, e.g. "10.1038/xyz".
func (p Paper) BareDOI() string {
	d := p.DOIValue()
	for _, prefix := range []string{"https://doi.org/", "http://doi.org/", "doi:"} {
		d = strings.TrimPrefix(d, prefix)
	}
	return strings.TrimSpace(d)
}

// Int returns a pointer to v.
func Int(v int) *int { return &v }

// String returns a pointer to s, or nil when s is empty.
func String(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
