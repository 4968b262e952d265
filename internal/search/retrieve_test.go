// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/paperscout/internal/observability"
	"github.com/pdiddy/paperscout/pkg/types"
)

// --- fake source ---

type call struct {
	Query Query
	Limit int
}

type fakeSource struct {
	name    string
	results map[string][]types.Paper
	delay   map[string]time.Duration

	mu    sync.Mutex
	calls []call
}

func (f *fakeSource) Name() string { return f.name }

func (f *fakeSource) Search(_ context.Context, q Query, limit int) []types.Paper {
	if d := f.delay[q.Text]; d > 0 {
		time.Sleep(d)
	}
	f.mu.Lock()
	f.calls = append(f.calls, call{Query: q, Limit: limit})
	f.mu.Unlock()
	return f.results[q.Text]
}

func (f *fakeSource) queries() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for _, c := range f.calls {
		out = append(out, c.Query.Text)
	}
	return out
}

func paper(title string, year int, venue string) types.Paper {
	p := types.Paper{
		Title:    title,
		Authors:  types.NoAuthors,
		Abstract: types.NoAbstract,
		Venue:    types.String(venue),
		VenueAll: types.String(venue),
		Source:   types.SourceSemanticScholar,
	}
	if year != 0 {
		p.Year = types.Int(year)
	}
	return p
}

func withDOI(p types.Paper, doi string) types.Paper {
	p.DOI = NormalizeDOI(doi)
	return p
}

func titles(papers []types.Paper) []string {
	out := make([]string, 0, len(papers))
	for _, p := range papers {
		out = append(out, p.Title)
	}
	return out
}

// --- DedupKey ---

func TestDedupKey(t *testing.T) {
	assert.Equal(t, "doi:https://doi.org/10.1/abc", DedupKey(withDOI(paper("X", 2020, ""), "10.1/ABC")))
	assert.Equal(t, "title:attention is all you need|year:2017", DedupKey(paper("Attention Is All You Need", 2017, "")))
	assert.Equal(t, "title:untimed|year:null", DedupKey(paper("Untimed", 0, "")))
}

// --- Dedup correctness ---

func TestRetrieveDedup(t *testing.T) {
	tests := []struct {
		name    string
		base    []types.Paper
		alias   []types.Paper
		want    []string
		wantDup int
	}{
		{
			name:    "same DOI different titles",
			base:    []types.Paper{withDOI(paper("Title A", 2020, "NeurIPS"), "10.1/X")},
			alias:   []types.Paper{withDOI(paper("Title B", 2021, "NeurIPS"), "https://doi.org/10.1/x")},
			want:    []string{"Title A"},
			wantDup: 1,
		},
		{
			name:    "no DOI same title and year",
			base:    []types.Paper{paper("Graph Nets", 2019, "NeurIPS")},
			alias:   []types.Paper{paper("graph nets", 2019, "NeurIPS")},
			want:    []string{"Graph Nets"},
			wantDup: 1,
		},
		{
			name:  "no DOI different years",
			base:  []types.Paper{paper("Graph Nets", 2019, "NeurIPS")},
			alias: []types.Paper{paper("Graph Nets", 2020, "NeurIPS")},
			want:  []string{"Graph Nets", "Graph Nets"},
		},
		{
			name:  "DOI on one side only keeps both since keys differ",
			base:  []types.Paper{withDOI(paper("Graph Nets", 2019, "NeurIPS"), "10.1/gn")},
			alias: []types.Paper{paper("Graph Nets", 2019, "NeurIPS")},
			want:  []string{"Graph Nets", "Graph Nets"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			primary := &fakeSource{name: "primary", results: map[string][]types.Paper{
				"gnn":             tt.base,
				"gnn Nature":      tt.alias,
				"gnn NeurIPS":     tt.alias,
				"gnn Other Venue": tt.alias,
			}}
			r := &Retriever{Primary: primary}
			out := r.Retrieve(context.Background(), Request{Query: "gnn", Venue: "Other Venue", MaxResults: 10})

			assert.Equal(t, tt.want, titles(out.Papers))
			assert.Equal(t, tt.wantDup, out.DuplicatesRemoved)
		})
	}
}

// --- Alias expansion and venue filter ---

func TestRetrieveAliasExpansion(t *testing.T) {
	primary := &fakeSource{name: "primary", results: map[string][]types.Paper{
		"diffusion": {
			paper("Base ICML", 2021, "ICML"),
			paper("Base NeurIPS", 2021, "NeurIPS"),
		},
		"diffusion NIPS": {
			paper("Old NIPS", 2016, "NIPS"),
			paper("Base NeurIPS", 2021, "NeurIPS"),
		},
		"diffusion Advances in Neural Information Processing Systems": {
			paper("Long Name", 2022, "Advances in Neural Information Processing Systems 35"),
			paper("Arxiv only", 2022, "ArXiv"),
		},
	}}
	r := &Retriever{Primary: primary}

	out := r.Retrieve(context.Background(), Request{Query: "diffusion", Venue: " NeurIPS ", MaxResults: 10})

	assert.Equal(t, []string{
		"diffusion",
		"diffusion NeurIPS",
		"diffusion NIPS",
		"diffusion Neural Information Processing Systems",
		"diffusion Advances in Neural Information Processing Systems",
	}, primary.queries())
	assert.Contains(t, out.AliasQueries, "diffusion NIPS")
	assert.Equal(t, VenueFilterApplied, out.VenueFilter)
	assert.Equal(t, []string{"Base NeurIPS", "Old NIPS", "Long Name"}, titles(out.Papers))
	assert.False(t, out.UsedFallback)
}

func TestRetrieveVenueFilterUsesFullName(t *testing.T) {
	p := paper("Full name only", 2020, "")
	p.Venue = nil
	p.VenueAll = types.String("Neural Information Processing Systems")
	other := paper("Elsewhere", 2020, "ICML")

	primary := &fakeSource{results: map[string][]types.Paper{"q": {other, p}}}
	out := (&Retriever{Primary: primary}).Retrieve(context.Background(), Request{Query: "q", Venue: "neurips", MaxResults: 5})
	assert.Equal(t, []string{"Full name only"}, titles(out.Papers))
}

func TestRetrieveVenueFilterBypassedWhenEmpty(t *testing.T) {
	primary := &fakeSource{results: map[string][]types.Paper{
		"q": {paper("A", 2020, "ICML"), paper("B", 2020, "")},
	}}
	secondary := &fakeSource{results: map[string][]types.Paper{"q": {paper("Fallback", 2020, "")}}}

	out := (&Retriever{Primary: primary, Secondary: secondary}).Retrieve(context.Background(),
		Request{Query: "q", Venue: "neurips", MaxResults: 5})

	assert.Equal(t, []string{"A", "B"}, titles(out.Papers))
	assert.Equal(t, VenueFilterBypassed, out.VenueFilter)
	assert.False(t, out.UsedFallback)
	assert.Empty(t, secondary.calls)
}

func TestRetrieveUnknownVenueIsLiteral(t *testing.T) {
	primary := &fakeSource{results: map[string][]types.Paper{
		"q": {paper("Other", 2020, "ICML")},
		"q Journal of Foo": {
			paper("Foo paper", 2020, "Journal of Foo Studies"),
		},
	}}
	out := (&Retriever{Primary: primary}).Retrieve(context.Background(), Request{Query: "q", Venue: "  Journal of Foo  ", MaxResults: 5})

	assert.Equal(t, []string{"q", "q Journal of Foo"}, primary.queries())
	assert.Equal(t, []string{"Foo paper"}, titles(out.Papers))
}

func TestRetrieveNoVenueSkipsExpansion(t *testing.T) {
	primary := &fakeSource{results: map[string][]types.Paper{"q": {paper("A", 2020, "ICML")}}}
	out := (&Retriever{Primary: primary}).Retrieve(context.Background(), Request{Query: "q", Venue: "   ", MaxResults: 5})

	assert.Equal(t, []string{"q"}, primary.queries())
	assert.Empty(t, out.AliasQueries)
	assert.Equal(t, VenueFilterNone, out.VenueFilter)
}

// --- Fallback ---

func TestRetrieveFallback(t *testing.T) {
	fallback := []types.Paper{
		paper("C1", 2020, "Some Journal"),
		paper("C2", 2021, "Another Journal"),
		paper("C3", 2022, ""),
	}
	primary := &fakeSource{results: map[string][]types.Paper{}}
	secondary := &fakeSource{name: types.SourceCrossref, results: map[string][]types.Paper{"q": fallback}}

	out := (&Retriever{Primary: primary, Secondary: secondary}).Retrieve(context.Background(), Request{
		Query:      "q",
		YearFrom:   types.Int(2020),
		YearTo:     types.Int(2025),
		Venue:      "nature",
		MaxResults: 2,
	})

	assert.True(t, out.UsedFallback)
	// No venue filter on fallback results, truncated to MaxResults.
	assert.Equal(t, []string{"C1", "C2"}, titles(out.Papers))
	require.Len(t, secondary.calls, 1)
	sc := secondary.calls[0]
	assert.Equal(t, "q", sc.Query.Text)
	assert.Equal(t, types.Int(2020), sc.Query.YearFrom)
	assert.Equal(t, types.Int(2025), sc.Query.YearTo)
	assert.Equal(t, 8, sc.Limit)
}

func TestRetrieveFallbackMissingSecondary(t *testing.T) {
	out := (&Retriever{Primary: &fakeSource{}}).Retrieve(context.Background(), Request{Query: "q", MaxResults: 5})
	assert.NotNil(t, out.Papers)
	assert.Empty(t, out.Papers)
	assert.False(t, out.UsedFallback)
}

// --- Limits and truncation ---

func TestRetrieveLimits(t *testing.T) {
	tests := []struct {
		name       string
		fetch, max int
		wantLimit  int
	}{
		{"default fetch limit", 0, 5, 8},
		{"fetch limit below max results", 3, 5, 5},
		{"explicit fetch limit", 20, 5, 20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			primary := &fakeSource{}
			(&Retriever{Primary: primary}).Retrieve(context.Background(), Request{Query: "q", FetchLimit: tt.fetch, MaxResults: tt.max})
			require.Len(t, primary.calls, 1)
			assert.Equal(t, tt.wantLimit, primary.calls[0].Limit)
		})
	}
}

func TestRetrieveTruncationIsPrefix(t *testing.T) {
	var base []types.Paper
	for i := 0; i < 8; i++ {
		base = append(base, paper(fmt.Sprintf("P%d", i), 2020, "ICML"))
	}
	primary := &fakeSource{results: map[string][]types.Paper{"q": base}}
	r := &Retriever{Primary: primary}

	full := r.Retrieve(context.Background(), Request{Query: "q", MaxResults: 100})
	for n := 1; n <= 8; n++ {
		out := r.Retrieve(context.Background(), Request{Query: "q", MaxResults: n})
		assert.LessOrEqual(t, len(out.Papers), n)
		assert.Equal(t, full.Papers[:n], out.Papers)
	}
}

func TestRetrieveNonPositiveMaxResults(t *testing.T) {
	primary := &fakeSource{}
	out := (&Retriever{Primary: primary}).Retrieve(context.Background(), Request{Query: "q", MaxResults: 0})
	assert.Empty(t, out.Papers)
	assert.Empty(t, primary.calls)
}

// --- Parallel alias calls ---

func TestRetrieveParallelAliasOrder(t *testing.T) {
	primary := &fakeSource{
		results: map[string][]types.Paper{
			"q":         {},
			"q NeurIPS": {paper("first", 2020, "NeurIPS")},
			"q NIPS":    {paper("second", 2020, "NIPS")},
			"q Neural Information Processing Systems": {
				paper("third", 2020, "Neural Information Processing Systems"),
			},
			"q Advances in Neural Information Processing Systems": {
				paper("fourth", 2020, "Advances in Neural Information Processing Systems"),
			},
		},
		// Earlier aliases finish last.
		delay: map[string]time.Duration{
			"q NeurIPS": 40 * time.Millisecond,
			"q NIPS":    25 * time.Millisecond,

			"q Neural Information Processing Systems": 10 * time.Millisecond,
		},
	}
	r := &Retriever{Primary: primary, AliasConcurrency: 4}
	out := r.Retrieve(context.Background(), Request{Query: "q", Venue: "neurips", MaxResults: 10})

	assert.Equal(t, []string{"first", "second", "third", "fourth"}, titles(out.Papers))
	assert.Len(t, primary.calls, 5)
}

// --- Metrics ---

func TestRetrieveRecordsMetrics(t *testing.T) {
	m := observability.NewMetrics(prometheus.NewRegistry(), "test")
	primary := &fakeSource{}
	secondary := &fakeSource{results: map[string][]types.Paper{"q": {paper("C", 2020, "")}}}
	r := &Retriever{Primary: primary, Secondary: secondary, Metrics: m}

	r.Retrieve(context.Background(), Request{Query: "q", Venue: "icml", MaxResults: 5})

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Retrievals))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.AliasQueries))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Fallbacks))
}

// --- End to end over HTTP ---

func TestRetrieveEndToEndNature(t *testing.T) {
	var s2Queries []string
	var mu sync.Mutex
	s2 := withSemanticServer(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query().Get("query")
		mu.Lock()
		s2Queries = append(s2Queries, q)
		mu.Unlock()
		switch q {
		case "diffusion model":
			fmt.Fprint(w, semanticJSON(
				`{"title":"Nature diffusion","year":2022,"citationCount":120,"venue":"Nature","externalIds":{"DOI":"10.1038/a"}}`,
				`{"title":"Too old","year":2018,"citationCount":500,"venue":"Nature"}`,
				`{"title":"Few cites","year":2023,"citationCount":10,"venue":"Nature"}`,
				`{"title":"Wrong venue","year":2021,"citationCount":300,"venue":"ICML"}`,
			))
		case "diffusion model Nature":
			fmt.Fprint(w, semanticJSON(
				`{"title":"Nature diffusion (dup)","year":2022,"citationCount":120,"venue":"Nature","externalIds":{"DOI":"https://doi.org/10.1038/A"}}`,
				`{"title":"Comms","year":2024,"citationCount":55,"venue":"","publicationVenue":{"name":"Nature Communications"}}`,
			))
		default:
			fmt.Fprint(w, semanticJSON())
		}
	})
	cr := withCrossrefServer(t, func(w http.ResponseWriter, _ *http.Request) {
		t.Error("fallback source should not be called")
		fmt.Fprint(w, crossrefJSON())
	})

	r := &Retriever{
		Primary:   &SemanticScholar{Client: s2.Client()},
		Secondary: &Crossref{Client: cr.Client()},
	}
	out := r.Retrieve(context.Background(), Request{
		Query:        "diffusion model",
		YearFrom:     types.Int(2020),
		YearTo:       types.Int(2025),
		MinCitations: types.Int(50),
		Venue:        "Nature",
		MaxResults:   5,
	})

	assert.Equal(t, []string{"diffusion model", "diffusion model Nature"}, s2Queries)
	assert.Equal(t, []string{"Nature diffusion", "Comms"}, titles(out.Papers))
	require.LessOrEqual(t, len(out.Papers), 5)
	for _, p := range out.Papers {
		y, ok := p.YearValue()
		require.True(t, ok)
		assert.GreaterOrEqual(t, y, 2020)
		assert.LessOrEqual(t, y, 2025)
		assert.GreaterOrEqual(t, p.CitationCount(), 50)
		assert.True(t, strings.Contains(p.MatchVenue(), "nature"))
	}
}

func TestOutcomeJSON(t *testing.T) {
	out := Outcome{Papers: []types.Paper{}, VenueFilter: VenueFilterBypassed, UsedFallback: true}
	data, err := json.Marshal(out)
	require.NoError(t, err)
	assert.JSONEq(t, `{"papers":[],"venue_filter":"bypassed","used_fallback":true,"duplicates_removed":0}`, string(data))

	var back Outcome
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, VenueFilterBypassed, back.VenueFilter)

	var v VenueFilterResult
	assert.Error(t, v.UnmarshalText([]byte("sideways")))
}
