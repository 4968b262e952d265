// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/paperscout/pkg/types"
)

func withCrossrefServer(t *testing.T, h http.HandlerFunc) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(h)
	old := crossrefAPIBase
	crossrefAPIBase = ts.URL
	t.Cleanup(func() {
		crossrefAPIBase = old
		ts.Close()
	})
	return ts
}

func crossrefJSON(items ...string) string {
	return fmt.Sprintf(`{"status":"ok","message":{"total-results":%d,"items":[%s]}}`, len(items), strings.Join(items, ","))
}

func TestCrossrefRequestParams(t *testing.T) {
	tests := []struct {
		name       string
		q          Query
		mailto     string
		wantFilter string
	}{
		{"no bounds", Query{Text: "graph nets"}, "", ""},
		{"both bounds", Query{Text: "graph nets", YearFrom: types.Int(2020), YearTo: types.Int(2025)}, "", "from-pub-date:2020,until-pub-date:2025"},
		{"lower bound only", Query{Text: "graph nets", YearFrom: types.Int(2019)}, "me@example.com", "from-pub-date:2019"},
		{"min citations ignored", Query{Text: "graph nets", MinCitations: types.Int(50)}, "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var captured *http.Request
			ts := withCrossrefServer(t, func(w http.ResponseWriter, r *http.Request) {
				captured = r
				fmt.Fprint(w, crossrefJSON())
			})

			c := &Crossref{Client: ts.Client(), Mailto: tt.mailto}
			_, err := c.search(context.Background(), tt.q, 8)
			require.NoError(t, err)

			q := captured.URL.Query()
			assert.Equal(t, "graph nets", q.Get("query"))
			assert.Equal(t, "8", q.Get("rows"))
			assert.Equal(t, tt.wantFilter, q.Get("filter"))
			assert.Equal(t, tt.mailto, q.Get("mailto"))
		})
	}
}

func TestCrossrefSearchNormalizes(t *testing.T) {
	ts := withCrossrefServer(t, func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, crossrefJSON(
			`{"title":["Deep Graph Networks"],"author":[{"given":"Ada","family":"Lovelace"},{"family":"Turing"}],
			  "DOI":"10.1000/ABC","URL":"https://example.org/x","container-title":["Nature"],
			  "issued":{"date-parts":[[2021,5,3]]}}`,
			`{"title":[],"URL":"https://example.org/y","issued":{"date-parts":[[null]]}}`,
		))
	})

	c := &Crossref{Client: ts.Client()}
	papers := c.Search(context.Background(), Query{Text: "x"}, 5)
	require.Len(t, papers, 2)

	p := papers[0]
	assert.Equal(t, "Deep Graph Networks", p.Title)
	assert.Equal(t, "Ada Lovelace, Turing", p.Authors)
	assert.Equal(t, types.Int(2021), p.Year)
	assert.Nil(t, p.Citations)
	assert.Equal(t, "https://doi.org/10.1000/ABC", p.DOIValue())
	assert.Equal(t, "https://doi.org/10.1000/ABC", p.URLValue())
	assert.Equal(t, "Nature", p.VenueValue())
	assert.Equal(t, "Nature", *p.VenueAll)
	assert.Nil(t, p.PDF)
	assert.Equal(t, types.NoAbstract, p.Abstract)
	assert.Equal(t, types.SourceCrossref, p.Source)

	q := papers[1]
	assert.Equal(t, types.NoTitle, q.Title)
	assert.Equal(t, types.NoAuthors, q.Authors)
	assert.Nil(t, q.Year)
	assert.Nil(t, q.DOI)
	assert.Equal(t, "https://example.org/y", q.URLValue())
	assert.Nil(t, q.Venue)
}

func TestCrossrefSearchTruncates(t *testing.T) {
	ts := withCrossrefServer(t, func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, crossrefJSON(`{"title":["A"]}`, `{"title":["B"]}`, `{"title":["C"]}`))
	})
	c := &Crossref{Client: ts.Client()}
	papers := c.Search(context.Background(), Query{Text: "x"}, 2)
	require.Len(t, papers, 2)
	assert.Equal(t, "B", papers[1].Title)
}

func TestCrossrefFailSoft(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		wantErr string
	}{
		{"server error", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusBadGateway) }, "HTTP 502"},
		{"bad json", func(w http.ResponseWriter, _ *http.Request) { fmt.Fprint(w, `[`) }, "parsing"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := withCrossrefServer(t, tt.handler)
			c := &Crossref{Client: ts.Client()}

			_, err := c.search(context.Background(), Query{Text: "x"}, 5)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.Empty(t, c.Search(context.Background(), Query{Text: "x"}, 5))
		})
	}
}

func TestCrossrefRowsClamped(t *testing.T) {
	var rows string
	ts := withCrossrefServer(t, func(w http.ResponseWriter, r *http.Request) {
		rows = r.URL.Query().Get("rows")
		fmt.Fprint(w, crossrefJSON())
	})
	c := &Crossref{Client: ts.Client()}
	c.Search(context.Background(), Query{Text: "x"}, 5000)
	assert.Equal(t, "1000", rows)
}
