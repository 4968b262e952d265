// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package codesearch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/pdiddy/paperscout/internal/httputil"
)

// githubSearchURL is the repository search endpoint. Package-level var for
// test substitution.
var githubSearchURL = "https://api.github.com/search/repositories"

type githubSearchResponse struct {
	Items []struct {
		HTMLURL     string `json:"html_url"`
		FullName    string `json:"full_name"`
		Description string `json:"description"`
		Stars       int    `json:"stargazers_count"`
	} `json:"items"`
}

// searchQuery builds `"<title>" in:name,description,readme [surname]`.
func searchQuery(q Query) string {
	s := fmt.Sprintf(`"%s" in:name,description,readme`, strings.TrimSpace(q.Title))
	if surname := firstAuthorSurname(q.Authors); surname != "" {
		s += " " + surname
	}
	return s
}

func firstAuthorSurname(authors string) string {
	first, _, _ := strings.Cut(authors, ",")
	fields := strings.Fields(first)
	if len(fields) == 0 {
		return ""
	}
	return fields[len(fields)-1]
}

func (f *Finder) searchGitHub(ctx context.Context, q Query, n int) ([]Repo, error) {
	params := url.Values{
		"q":        {searchQuery(q)},
		"sort":     {"stars"},
		"order":    {"desc"},
		"per_page": {strconv.Itoa(max(1, n))},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, githubSearchURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	if f.GitHubToken != "" {
		req.Header.Set("Authorization", "Bearer "+f.GitHubToken)
	}

	resp, err := httputil.DoWithRetry(ctx, f.client(), req, 0)
	if err != nil {
		return nil, fmt.Errorf("GitHub search request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("GitHub search returned HTTP %d: %s", resp.StatusCode, string(body))
	}

	var gr githubSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&gr); err != nil {
		return nil, fmt.Errorf("parsing GitHub response: %w", err)
	}

	repos := make([]Repo, 0, len(gr.Items))
	for _, it := range gr.Items {
		if len(repos) == n {
			break
		}
		repos = append(repos, Repo{
			URL:         it.HTMLURL,
			Name:        it.FullName,
			Description: it.Description,
			Stars:       it.Stars,
			Source:      SourceGitHubSearch,
		})
	}
	return repos, nil
}
