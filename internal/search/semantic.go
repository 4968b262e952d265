// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/pdiddy/paperscout/internal/httputil"
	"github.com/pdiddy/paperscout/internal/observability"
	"github.com/pdiddy/paperscout/pkg/types"
)

// semanticAPIBase is the Semantic Scholar paper search endpoint. Declared
// as a var so tests can substitute an httptest server.
var semanticAPIBase = "https://api.semanticscholar.org/graph/v1/paper/search"

const (
	semanticFields   = "title,year,venue,abstract,citationCount,authors,url,externalIds,openAccessPdf,publicationVenue"
	semanticMaxLimit = 100
)

// SemanticScholar is the primary source. The API offers no citation or
// exact year filtering for relevance search, so both run client-side.
type SemanticScholar struct {
	Client    *http.Client
	APIKey    string
	UserAgent string
	Logger    zerolog.Logger
	Metrics   *observability.Metrics
}

// NewSemanticScholar builds a client with its own timeout and rate limiter.
func NewSemanticScholar(cfg types.SearchConfig, log zerolog.Logger, m *observability.Metrics) *SemanticScholar {
	return &SemanticScholar{
		Client:    httputil.NewClient(cfg.Timeout, cfg.RateLimit),
		APIKey:    cfg.SemanticScholarAPIKey,
		UserAgent: cfg.UserAgent,
		Logger:    log,
		Metrics:   m,
	}
}

// Name returns the source tag.
func (s *SemanticScholar) Name() string { return types.SourceSemanticScholar }

// Search returns at most limit filtered records, or nil on any failure.
func (s *SemanticScholar) Search(ctx context.Context, q Query, limit int) []types.Paper {
	start := time.Now()
	papers, err := s.search(ctx, q, limit)
	s.Metrics.RecordSourceRequest(s.Name(), err == nil, time.Since(start).Seconds())
	if err != nil {
		s.Logger.Warn().Err(err).Str("source", s.Name()).Str("query", q.Text).Msg("search failed")
		return nil
	}
	s.Logger.Debug().Str("source", s.Name()).Str("query", q.Text).Int("results", len(papers)).Msg("search done")
	return papers
}

func (s *SemanticScholar) search(ctx context.Context, q Query, limit int) ([]types.Paper, error) {
	limit = clampLimit(limit, semanticMaxLimit)
	params := url.Values{
		"query":  {q.Text},
		"limit":  {strconv.Itoa(limit)},
		"fields": {semanticFields},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, semanticAPIBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if s.UserAgent != "" {
		req.Header.Set("User-Agent", s.UserAgent)
	}
	if s.APIKey != "" {
		req.Header.Set("x-api-key", s.APIKey)
	}

	resp, err := client(s.Client).Do(req)
	if err != nil {
		return nil, fmt.Errorf("Semantic Scholar API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("Semantic Scholar API returned HTTP %d", resp.StatusCode)
	}

	var sr semanticResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("parsing Semantic Scholar response: %w", err)
	}

	var papers []types.Paper
	for _, item := range sr.Data {
		p := NormalizeSemanticScholar(item)
		if !q.keep(p) {
			continue
		}
		papers = append(papers, p)
		if len(papers) == limit {
			break
		}
	}
	return papers, nil
}

func client(c *http.Client) *http.Client {
	if c == nil {
		return http.DefaultClient
	}
	return c
}
