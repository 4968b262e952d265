// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/pdiddy/paperscout/internal/httputil"
	"github.com/pdiddy/paperscout/internal/observability"
	"github.com/pdiddy/paperscout/pkg/types"
)

// crossrefAPIBase is the Crossref works endpoint. Declared as a var so
// tests can substitute an httptest server.
var crossrefAPIBase = "https://api.crossref.org/works"

const crossrefMaxRows = 1000

// Crossref is the fallback source. Year bounds are pushed server-side as a
// pub-date filter; MinCitations is ignored because Crossref has no counts.
type Crossref struct {
	Client    *http.Client
	UserAgent string
	// Mailto is sent for Crossref's polite pool.
	Mailto  string
	Logger  zerolog.Logger
	Metrics *observability.Metrics
}

// NewCrossref builds a client with its own timeout and rate limiter.
func NewCrossref(cfg types.SearchConfig, log zerolog.Logger, m *observability.Metrics) *Crossref {
	return &Crossref{
		Client:    httputil.NewClient(cfg.Timeout, cfg.RateLimit),
		UserAgent: cfg.UserAgent,
		Mailto:    cfg.CrossrefMailto,
		Logger:    log,
		Metrics:   m,
	}
}

// Name returns the source tag.
func (c *Crossref) Name() string { return types.SourceCrossref }

// Search returns at most limit records, or nil on any failure.
func (c *Crossref) Search(ctx context.Context, q Query, limit int) []types.Paper {
	start := time.Now()
	papers, err := c.search(ctx, q, limit)
	c.Metrics.RecordSourceRequest(c.Name(), err == nil, time.Since(start).Seconds())
	if err != nil {
		c.Logger.Warn().Err(err).Str("source", c.Name()).Str("query", q.Text).Msg("search failed")
		return nil
	}
	c.Logger.Debug().Str("source", c.Name()).Str("query", q.Text).Int("results", len(papers)).Msg("search done")
	return papers
}

func (c *Crossref) search(ctx context.Context, q Query, limit int) ([]types.Paper, error) {
	limit = clampLimit(limit, crossrefMaxRows)
	params := url.Values{
		"query": {q.Text},
		"rows":  {strconv.Itoa(limit)},
	}
	if f := crossrefFilter(q); f != "" {
		params.Set("filter", f)
	}
	if c.Mailto != "" {
		params.Set("mailto", c.Mailto)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, crossrefAPIBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}

	resp, err := client(c.Client).Do(req)
	if err != nil {
		return nil, fmt.Errorf("Crossref API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("Crossref API returned HTTP %d", resp.StatusCode)
	}

	var cr crossrefResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return nil, fmt.Errorf("parsing Crossref response: %w", err)
	}

	items := cr.Message.Items
	if len(items) > limit {
		items = items[:limit]
	}
	papers := make([]types.Paper, 0, len(items))
	for _, it := range items {
		papers = append(papers, NormalizeCrossref(it))
	}
	return papers, nil
}

// crossrefFilter builds the comma-joined pub-date filter expression.
func crossrefFilter(q Query) string {
	var filters []string
	if q.YearFrom != nil {
		filters = append(filters, fmt.Sprintf("from-pub-date:%d", *q.YearFrom))
	}
	if q.YearTo != nil {
		filters = append(filters, fmt.Sprintf("until-pub-date:%d", *q.YearTo))
	}
	return strings.Join(filters, ",")
}
