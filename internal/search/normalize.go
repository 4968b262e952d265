// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"strings"

	"github.com/pdiddy/paperscout/pkg/types"
)

// doiPrefixes are stripped from raw DOI values before re-prefixing, longest
// first so dx.doi.org is not half-stripped.
var doiPrefixes = []string{
	"https://dx.doi.org/",
	"http://dx.doi.org/",
	"https://doi.org/",
	"http://doi.org/",
	"doi:",
}

// NormalizeDOI returns the https://doi.org/<id> form of raw, accepting bare
// identifiers and resolver URLs alike. Blank input yields nil.
func NormalizeDOI(raw string) *string {
	d := strings.TrimSpace(raw)
	lower := strings.ToLower(d)
	for _, prefix := range doiPrefixes {
		if strings.HasPrefix(lower, prefix) {
			d = strings.TrimSpace(d[len(prefix):])
			break
		}
	}
	if d == "" {
		return nil
	}
	return types.String("https://doi.org/" + d)
}

// Semantic Scholar API JSON structures. Every field may be null.
type semanticResponse struct {
	Total int             `json:"total"`
	Data  []SemanticPaper `json:"data"`
}

// SemanticPaper is one item of a Semantic Scholar paper search response.
type SemanticPaper struct {
	PaperID          string               `json:"paperId"`
	Title            string               `json:"title"`
	Year             *int                 `json:"year"`
	Venue            string               `json:"venue"`
	Abstract         string               `json:"abstract"`
	CitationCount    *int                 `json:"citationCount"`
	Authors          []semanticAuthor     `json:"authors"`
	URL              string               `json:"url"`
	ExternalIDs      *semanticExternalIDs `json:"externalIds"`
	OpenAccessPDF    *semanticOpenAccess  `json:"openAccessPdf"`
	PublicationVenue *semanticPubVenue    `json:"publicationVenue"`
}

type semanticAuthor struct {
	AuthorID string `json:"authorId"`
	Name     string `json:"name"`
}

type semanticExternalIDs struct {
	DOI   string `json:"DOI"`
	ArXiv string `json:"ArXiv"`
}

type semanticOpenAccess struct {
	URL string `json:"url"`
}

type semanticPubVenue struct {
	Name string `json:"name"`
}

// NormalizeSemanticScholar maps a Semantic Scholar item to a Paper.
func NormalizeSemanticScholar(item SemanticPaper) types.Paper {
	var names []string
	for _, a := range item.Authors {
		names = append(names, a.Name)
	}

	var doi *string
	if item.ExternalIDs != nil {
		doi = NormalizeDOI(item.ExternalIDs.DOI)
	}
	var pdf *string
	if item.OpenAccessPDF != nil {
		pdf = types.String(strings.TrimSpace(item.OpenAccessPDF.URL))
	}
	venue := strings.TrimSpace(item.Venue)
	var full string
	if item.PublicationVenue != nil {
		full = strings.TrimSpace(item.PublicationVenue.Name)
	}

	return types.Paper{
		Title:     orSentinel(item.Title, types.NoTitle),
		Authors:   joinAuthors(names),
		Year:      item.Year,
		Citations: item.CitationCount,
		Venue:     types.String(venue),
		VenueAll:  types.String(joinNonEmpty(" | ", venue, full)),
		DOI:       doi,
		URL:       types.String(strings.TrimSpace(item.URL)),
		PDF:       pdf,
		Abstract:  orSentinel(item.Abstract, types.NoAbstract),
		Source:    types.SourceSemanticScholar,
	}
}

// Crossref API JSON structures.
type crossrefResponse struct {
	Status  string `json:"status"`
	Message struct {
		TotalResults int            `json:"total-results"`
		Items        []CrossrefItem `json:"items"`
	} `json:"message"`
}

// CrossrefItem is one work of a Crossref /works response.
type CrossrefItem struct {
	Title          []string         `json:"title"`
	Author         []crossrefAuthor `json:"author"`
	DOI            string           `json:"DOI"`
	URL            string           `json:"URL"`
	ContainerTitle []string         `json:"container-title"`
	Issued         *crossrefDate    `json:"issued"`
}

type crossrefAuthor struct {
	Given  string `json:"given"`
	Family string `json:"family"`
}

type crossrefDate struct {
	DateParts [][]*int `json:"date-parts"`
}

// year returns the first date-parts component, or nil.
func (d *crossrefDate) year() *int {
	if d == nil || len(d.DateParts) == 0 || len(d.DateParts[0]) == 0 {
		return nil
	}
	return d.DateParts[0][0]
}

// NormalizeCrossref maps a Crossref work to a Paper. Crossref cannot report
// citation counts or open-access PDFs, so both are always nil.
func NormalizeCrossref(item CrossrefItem) types.Paper {
	var title string
	if len(item.Title) > 0 {
		title = item.Title[0]
	}
	names := make([]string, 0, len(item.Author))
	for _, a := range item.Author {
		names = append(names, a.Given+" "+a.Family)
	}
	var venue string
	if len(item.ContainerTitle) > 0 {
		venue = strings.TrimSpace(item.ContainerTitle[0])
	}

	doi := NormalizeDOI(item.DOI)
	link := doi
	if link == nil {
		link = types.String(strings.TrimSpace(item.URL))
	}

	return types.Paper{
		Title:    orSentinel(title, types.NoTitle),
		Authors:  joinAuthors(names),
		Year:     item.Issued.year(),
		Venue:    types.String(venue),
		VenueAll: types.String(venue),
		DOI:      doi,
		URL:      link,
		Abstract: types.NoAbstract,
		Source:   types.SourceCrossref,
	}
}

// joinAuthors comma-joins trimmed names, skipping blanks.
func joinAuthors(names []string) string {
	return orSentinel(joinNonEmpty(", ", names...), types.NoAuthors)
}

func joinNonEmpty(sep string, parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}

func orSentinel(s, sentinel string) string {
	if s = strings.TrimSpace(s); s == "" {
		return sentinel
	}
	return s
}
