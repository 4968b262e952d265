// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package cite

import (
	"fmt"
	"strings"

	"github.com/pdiddy/paperscout/pkg/types"
)

// IEEE returns a one-line IEEE-style reference:
//
//	[1] A. Author, B. Author, "Title", Venue, 2024, doi: https://doi.org/...
//
// The "[n] " prefix is added only when index is non-nil. Without a DOI the
// landing page is cited as ". Available: <url>"; with neither the
// reference ends in a period.
func IEEE(p types.Paper, index *int) string {
	title := strings.TrimSpace(p.Title)
	if title == "" {
		title = types.NoTitle
	}

	var parts []string
	if authors := strings.Join(authorList(p), ", "); authors != "" {
		parts = append(parts, authors)
	}
	parts = append(parts, `"`+title+`"`)
	if v := strings.TrimSpace(p.VenueValue()); v != "" {
		parts = append(parts, v)
	}
	if y, ok := p.YearValue(); ok {
		parts = append(parts, fmt.Sprint(y))
	}

	ref := strings.Join(parts, ", ")
	switch {
	case p.DOIValue() != "":
		ref += ", doi: " + p.DOIValue()
	case p.URLValue() != "":
		ref += ". Available: " + p.URLValue()
	default:
		ref += "."
	}

	if index != nil {
		return fmt.Sprintf("[%d] %s", *index, ref)
	}
	return ref
}
