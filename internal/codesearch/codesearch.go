// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package codesearch finds source-code repositories linked to a paper,
// first from GitHub links inside its PDF and then by GitHub search.
package codesearch

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/pdiddy/paperscout/pkg/types"
)

// Repo sources.
const (
	SourcePDF          = "pdf"
	SourceGitHubSearch = "github_search"
)

// Query identifies the paper to look up.
type Query struct {
	Title   string `json:"title"`
	Authors string `json:"authors"`
	Year    *int   `json:"year,omitempty"`
	DOI     string `json:"doi,omitempty"`
	PDFURL  string `json:"pdf,omitempty"`
}

// QueryFromPaper copies the lookup fields of p. Sentinel titles and
// author lists become empty.
func QueryFromPaper(p types.Paper) Query {
	q := Query{Year: p.Year, DOI: p.DOIValue(), PDFURL: p.PDFValue()}
	if p.Title != types.NoTitle {
		q.Title = p.Title
	}
	if p.Authors != types.NoAuthors {
		q.Authors = p.Authors
	}
	return q
}

// Repo is one candidate repository.
type Repo struct {
	URL         string `json:"url"`
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
	Stars       int    `json:"stars,omitempty"`
	Source      string `json:"source"`
}

// Finder looks up code repositories. A nil Client uses http.DefaultClient.
type Finder struct {
	Client      *http.Client
	GitHubToken string
	Logger      zerolog.Logger
}

// NewFinder builds a Finder from configuration.
func NewFinder(cfg types.CodeSearchConfig, log zerolog.Logger) *Finder {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Finder{
		Client:      &http.Client{Timeout: timeout},
		GitHubToken: cfg.GitHubToken,
		Logger:      log,
	}
}

// FindCode returns links found in the paper's PDF when there are any,
// else the top GitHub search hits. Failures are logged and yield an empty
// result; the returned slice is never nil.
func (f *Finder) FindCode(ctx context.Context, q Query, maxResults int) []Repo {
	maxResults = max(1, maxResults)

	if q.PDFURL != "" {
		links, err := f.pdfLinks(ctx, q.PDFURL)
		if err != nil {
			f.Logger.Warn().Err(err).Str("pdf", q.PDFURL).Msg("pdf link scan failed")
		}
		if len(links) > 0 {
			repos := make([]Repo, 0, min(len(links), maxResults))
			for _, l := range links[:min(len(links), maxResults)] {
				repos = append(repos, Repo{URL: l, Name: repoName(l), Source: SourcePDF})
			}
			return repos
		}
	}

	if strings.TrimSpace(q.Title) == "" {
		return []Repo{}
	}
	repos, err := f.searchGitHub(ctx, q, maxResults)
	if err != nil {
		f.Logger.Warn().Err(err).Str("title", q.Title).Msg("github search failed")
		return []Repo{}
	}
	return repos
}

// repoName returns "owner/repo" from a github.com URL.
func repoName(link string) string {
	_, rest, ok := strings.Cut(link, "github.com/")
	if !ok {
		return ""
	}
	parts := strings.Split(rest, "/")
	if len(parts) < 2 || parts[1] == "" {
		return parts[0]
	}
	return parts[0] + "/" + strings.TrimSuffix(parts[1], ".git")
}

func (f *Finder) client() *http.Client {
	if f.Client == nil {
		return http.DefaultClient
	}
	return f.Client
}
