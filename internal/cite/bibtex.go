// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package cite

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/pdiddy/paperscout/pkg/types"
)

// conferenceKeywords mark a venue as proceedings rather than a journal.
var conferenceKeywords = []string{
	"conference", "conf.",
	"neurips", "nips", "icml", "iclr", "aaai",
	"cvpr", "iccv", "eccv", "kdd",
	"sigir", "uai", "emnlp", "acl", "naacl", "coling",
}

var nonAlnum = regexp.MustCompile(`[^a-zA-Z0-9]+`)

// braces would unbalance the {...} field delimiters.
var braces = strings.NewReplacer("{", "", "}", "")

const maxKeyBase = 30

// BibTeX returns a single BibTeX entry keyed by Key. The last field
// carries no trailing comma.
func BibTeX(p types.Paper, index *int) string {
	entryType, venueField := entryType(p.VenueValue())
	key := Key(p, index)
	year, hasYear := p.YearValue()

	fields := [][2]string{{"title", p.Title}}
	if authors := authorList(p); len(authors) > 0 {
		fields = append(fields, [2]string{"author", strings.Join(authors, " and ")})
	}
	if hasYear && year != 0 {
		fields = append(fields, [2]string{"year", fmt.Sprint(year)})
	}
	if v := p.VenueValue(); v != "" {
		fields = append(fields, [2]string{venueField, v})
	}
	if d := p.BareDOI(); d != "" {
		fields = append(fields, [2]string{"doi", d})
	}
	if u := p.URLValue(); u != "" {
		fields = append(fields, [2]string{"url", u})
	}

	var b strings.Builder
	fmt.Fprintf(&b, "@%s{%s,", entryType, key)
	for i, f := range fields {
		fmt.Fprintf(&b, "\n  %s = {%s}", f[0], braces.Replace(f[1]))
		if i < len(fields)-1 {
			b.WriteString(",")
		}
	}
	b.WriteString("\n}")
	return b.String()
}

// Key returns the citation key for p: the title slug, the year when known,
// and "_<index>" when index is non-nil.
func Key(p types.Paper, index *int) string {
	key := citeKey(p.Title)
	if y, ok := p.YearValue(); ok && y != 0 {
		key += fmt.Sprint(y)
	}
	if index != nil {
		key += fmt.Sprintf("_%d", *index)
	}
	return key
}

// ExportBibTeX renders every paper as an entry indexed from 1, separated
// by blank lines.
func ExportBibTeX(papers []types.Paper) string {
	entries := make([]string, len(papers))
	for i, p := range papers {
		n := i + 1
		entries[i] = BibTeX(p, &n)
	}
	return strings.Join(entries, "\n\n")
}

// entryType returns the BibTeX entry type and the field that carries the
// venue.
func entryType(venue string) (string, string) {
	v := strings.ToLower(venue)
	for _, kw := range conferenceKeywords {
		if strings.Contains(v, kw) {
			return "inproceedings", "booktitle"
		}
	}
	return "article", "journal"
}

// citeKey is the lowercased alphanumeric slug of title, at most 30 runes.
func citeKey(title string) string {
	key := strings.ToLower(nonAlnum.ReplaceAllString(title, ""))
	if len(key) > maxKeyBase {
		key = key[:maxKeyBase]
	}
	if key == "" {
		return "paper"
	}
	return key
}
