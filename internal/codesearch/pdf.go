// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package codesearch

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
)

// maxPDFBytes caps the download size.
const maxPDFBytes = 50 << 20

var githubLink = regexp.MustCompile(`https?://(?:www\.)?github\.com/[A-Za-z0-9_.\-]+(?:/[A-Za-z0-9_.\-]+)?`)

const linkTrailing = ".,);] "

// pdfLinks downloads the PDF and returns the distinct GitHub links found in
// its page text and link annotations, sorted.
func (f *Finder) pdfLinks(ctx context.Context, pdfURL string) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pdfURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	resp, err := f.client().Do(req)
	if err != nil {
		return nil, fmt.Errorf("downloading pdf: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("pdf download returned HTTP %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPDFBytes+1))
	if err != nil {
		return nil, fmt.Errorf("reading pdf: %w", err)
	}
	if len(body) > maxPDFBytes {
		return nil, fmt.Errorf("pdf exceeds %d bytes", maxPDFBytes)
	}
	return ExtractGitHubLinks(body)
}

// ExtractGitHubLinks parses a PDF document and returns its GitHub links.
func ExtractGitHubLinks(doc []byte) (links []string, err error) {
	// The parser panics on some malformed inputs.
	defer func() {
		if r := recover(); r != nil {
			links, err = nil, fmt.Errorf("parsing pdf: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(doc), int64(len(doc)))
	if err != nil {
		return nil, fmt.Errorf("parsing pdf: %w", err)
	}

	var sb strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		if text, err := page.GetPlainText(nil); err == nil {
			sb.WriteString(text)
			sb.WriteByte('\n')
		}
		annots := page.V.Key("Annots")
		for j := 0; j < annots.Len(); j++ {
			sb.WriteString(annots.Index(j).Key("A").Key("URI").RawString())
			sb.WriteByte('\n')
		}
	}
	return FindGitHubLinks(sb.String()), nil
}

// FindGitHubLinks returns the distinct GitHub links in text, sorted.
func FindGitHubLinks(text string) []string {
	seen := make(map[string]struct{})
	for _, m := range githubLink.FindAllString(text, -1) {
		seen[strings.TrimRight(m, linkTrailing)] = struct{}{}
	}
	links := make([]string, 0, len(seen))
	for l := range seen {
		links = append(links, l)
	}
	sort.Strings(links)
	return links
}
