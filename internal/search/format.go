// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"unicode/utf8"

	"github.com/pdiddy/paperscout/pkg/types"
)

const (
	maxTitleWidth   = 60
	maxAuthorsWidth = 30
	maxVenueWidth   = 24
)

// FormatTable writes a human-readable ranked table of out.Papers to w,
// followed by notes on fallback and venue filter bypass.
func FormatTable(out Outcome, w io.Writer) {
	if len(out.Papers) == 0 {
		fmt.Fprintln(w, "No results found.")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tTITLE\tAUTHORS\tYEAR\tCITED\tVENUE\tSOURCE")
	for i, p := range out.Papers {
		year := "-"
		if y, ok := p.YearValue(); ok {
			year = fmt.Sprint(y)
		}
		cited := "-"
		if p.Citations != nil {
			cited = fmt.Sprint(*p.Citations)
		}
		venue := p.VenueValue()
		if venue == "" {
			venue = "-"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			i+1,
			truncate(p.Title, maxTitleWidth),
			truncate(p.Authors, maxAuthorsWidth),
			year, cited,
			truncate(venue, maxVenueWidth),
			p.Source)
	}
	tw.Flush()

	if out.UsedFallback {
		fmt.Fprintf(w, "\nNote: no results from %s; showing %s results.\n", types.SourceSemanticScholar, types.SourceCrossref)
	}
	if out.VenueFilter == VenueFilterBypassed {
		fmt.Fprintln(w, "\nNote: no result matched the requested venue; showing unfiltered results.")
	}
}

// FormatJSON writes out.Papers as indented JSON to w.
func FormatJSON(out Outcome, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	papers := out.Papers
	if papers == nil {
		papers = []types.Paper{}
	}
	return enc.Encode(papers)
}

// truncate shortens s to n runes with a trailing ellipsis.
func truncate(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n-1]) + "…"
}
