// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/paperscout/internal/observability"
	"github.com/pdiddy/paperscout/internal/venue"
	"github.com/pdiddy/paperscout/pkg/types"
)

// DefaultFetchLimit is the per-call page size used when a Request leaves
// FetchLimit unset. It over-fetches so the venue filter still leaves
// enough candidates.
const DefaultFetchLimit = 8

// Request is one retrieval: query text, numeric filters, an optional venue
// and the number of papers to return.
type Request struct {
	Query        string
	YearFrom     *int
	YearTo       *int
	MinCitations *int
	Venue        string
	MaxResults   int

	// FetchLimit is the page size of each provider call. The effective
	// limit is max(FetchLimit, MaxResults).
	FetchLimit int
}

// VenueFilterResult records what the venue containment filter did.
type VenueFilterResult int

const (
	// VenueFilterNone means no venue was requested.
	VenueFilterNone VenueFilterResult = iota
	// VenueFilterApplied means records not matching the venue were dropped.
	VenueFilterApplied
	// VenueFilterBypassed means no record matched, so the unfiltered list
	// was kept.
	VenueFilterBypassed
)

func (v VenueFilterResult) String() string {
	switch v {
	case VenueFilterApplied:
		return "applied"
	case VenueFilterBypassed:
		return "bypassed"
	default:
		return "none"
	}
}

// MarshalText encodes the result by name for JSON and YAML.
func (v VenueFilterResult) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// UnmarshalText decodes a name produced by MarshalText.
func (v *VenueFilterResult) UnmarshalText(b []byte) error {
	switch string(b) {
	case "none", "":
		*v = VenueFilterNone
	case "applied":
		*v = VenueFilterApplied
	case "bypassed":
		*v = VenueFilterBypassed
	default:
		return fmt.Errorf("unknown venue filter result %q", string(b))
	}
	return nil
}

// Outcome is the result of Retrieve.
type Outcome struct {
	// Papers holds at most MaxResults records, never nil.
	Papers []types.Paper `json:"papers"`

	// AliasQueries lists the expanded query strings issued, in order.
	AliasQueries []string `json:"alias_queries,omitempty"`

	VenueFilter VenueFilterResult `json:"venue_filter"`

	// UsedFallback reports that Papers came from the secondary source.
	UsedFallback bool `json:"used_fallback"`

	// DuplicatesRemoved counts records dropped by the merge.
	DuplicatesRemoved int `json:"duplicates_removed"`
}

// Retriever composes a primary and a secondary source. It holds no
// per-call state and is safe for concurrent use.
type Retriever struct {
	Primary   Source
	Secondary Source

	// AliasConcurrency bounds parallel alias calls. Values below 2 keep
	// the calls sequential. Merge order is alias-list order either way.
	AliasConcurrency int

	Logger  zerolog.Logger
	Metrics *observability.Metrics
}

// Retrieve issues the base query, expands it with venue aliases, merges and
// deduplicates, filters by venue, falls back to the secondary source on an
// empty list, and truncates to MaxResults. It never re-sorts provider
// order and never fails: provider errors surface as fewer results.
func (r *Retriever) Retrieve(ctx context.Context, req Request) Outcome {
	out := Outcome{Papers: []types.Paper{}}
	if req.MaxResults <= 0 {
		return out
	}
	limit := req.FetchLimit
	if limit <= 0 {
		limit = DefaultFetchLimit
	}
	limit = max(limit, req.MaxResults)

	q := Query{
		Text:         req.Query,
		YearFrom:     req.YearFrom,
		YearTo:       req.YearTo,
		MinCitations: req.MinCitations,
	}

	merged := newMerger()
	merged.add(r.Primary.Search(ctx, q, limit))

	if strings.TrimSpace(req.Venue) != "" {
		for _, alias := range venue.Resolve(req.Venue) {
			out.AliasQueries = append(out.AliasQueries, req.Query+" "+alias)
		}
		for _, batch := range r.searchAliases(ctx, q, out.AliasQueries, limit) {
			merged.add(batch)
		}
	}
	out.DuplicatesRemoved = merged.dups

	papers := merged.papers
	if strings.TrimSpace(req.Venue) != "" {
		papers, out.VenueFilter = filterVenue(papers, venue.MatchAliases(req.Venue))
	}

	if len(papers) == 0 && r.Secondary != nil {
		r.Logger.Info().Str("query", req.Query).Str("source", r.Secondary.Name()).Msg("primary source empty, falling back")
		papers = r.Secondary.Search(ctx, q, limit)
		out.UsedFallback = true
	}

	if len(papers) > req.MaxResults {
		papers = papers[:req.MaxResults]
	}
	out.Papers = append(out.Papers, papers...)

	r.Metrics.RecordRetrieval(len(out.AliasQueries), out.VenueFilter == VenueFilterBypassed, out.UsedFallback, len(out.Papers))
	r.Logger.Debug().
		Str("query", req.Query).
		Str("venue", req.Venue).
		Int("alias_queries", len(out.AliasQueries)).
		Stringer("venue_filter", out.VenueFilter).
		Bool("fallback", out.UsedFallback).
		Int("results", len(out.Papers)).
		Msg("retrieve done")
	return out
}

// searchAliases runs one primary call per expanded query and returns the
// batches indexed by position in queries, independent of completion order.
func (r *Retriever) searchAliases(ctx context.Context, base Query, queries []string, limit int) [][]types.Paper {
	batches := make([][]types.Paper, len(queries))
	if r.AliasConcurrency < 2 || len(queries) < 2 {
		for i, text := range queries {
			q := base
			q.Text = text
			batches[i] = r.Primary.Search(ctx, q, limit)
		}
		return batches
	}

	var g errgroup.Group
	g.SetLimit(r.AliasConcurrency)
	for i, text := range queries {
		q := base
		q.Text = text
		g.Go(func() error {
			batches[i] = r.Primary.Search(ctx, q, limit)
			return nil
		})
	}
	_ = g.Wait()
	return batches
}

// filterVenue keeps records whose venue text contains any candidate. When
// nothing matches, the input list is returned unchanged.
func filterVenue(papers []types.Paper, candidates []string) ([]types.Paper, VenueFilterResult) {
	var kept []types.Paper
	for _, p := range papers {
		if venue.Matches(p.MatchVenue(), candidates) {
			kept = append(kept, p)
		}
	}
	if len(kept) == 0 {
		if len(papers) == 0 {
			return papers, VenueFilterApplied
		}
		return papers, VenueFilterBypassed
	}
	return kept, VenueFilterApplied
}

// DedupKey returns the identity used to merge records: the lowercased DOI
// when present, else the lowercased title with the year.
func DedupKey(p types.Paper) string {
	if d := strings.ToLower(p.DOIValue()); d != "" {
		return "doi:" + d
	}
	year := "null"
	if y, ok := p.YearValue(); ok {
		year = fmt.Sprint(y)
	}
	return "title:" + strings.ToLower(p.Title) + "|year:" + year
}

// merger accumulates records in first-seen order, dropping repeats.
type merger struct {
	seen   map[string]struct{}
	papers []types.Paper
	dups   int
}

func newMerger() *merger {
	return &merger{seen: make(map[string]struct{})}
}

func (m *merger) add(batch []types.Paper) {
	for _, p := range batch {
		k := DedupKey(p)
		if _, ok := m.seen[k]; ok {
			m.dups++
			continue
		}
		m.seen[k] = struct{}{}
		m.papers = append(m.papers, p)
	}
}
