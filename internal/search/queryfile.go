// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/paperscout/pkg/types"
)

// QueryFile is the on-disk representation of a retrieval and its results.
// Saved files feed the cite, summarize, code and library commands without
// re-querying the providers.
type QueryFile struct {
	Query   QueryParams   `yaml:"query"`
	Results []types.Paper `yaml:"results"`
	Summary QuerySummary  `yaml:"summary"`
}

// QueryParams stores the request in a serializable form.
type QueryParams struct {
	Text         string `yaml:"text"`
	YearFrom     *int   `yaml:"year_from,omitempty"`
	YearTo       *int   `yaml:"year_to,omitempty"`
	MinCitations *int   `yaml:"min_citations,omitempty"`
	Venue        string `yaml:"venue,omitempty"`
	MaxResults   int    `yaml:"max_results"`
	FetchLimit   int    `yaml:"fetch_limit,omitempty"`
}

// QuerySummary stores result statistics and a timestamp.
type QuerySummary struct {
	Total             int               `yaml:"total"`
	UsedFallback      bool              `yaml:"used_fallback"`
	VenueFilter       VenueFilterResult `yaml:"venue_filter"`
	AliasQueries      []string          `yaml:"alias_queries,omitempty"`
	DuplicatesRemoved int               `yaml:"duplicates_removed"`
	Timestamp         time.Time         `yaml:"timestamp"`
}

// NewQueryFile captures req and out.
func NewQueryFile(req Request, out Outcome, now time.Time) QueryFile {
	return QueryFile{
		Query: QueryParams{
			Text:         req.Query,
			YearFrom:     req.YearFrom,
			YearTo:       req.YearTo,
			MinCitations: req.MinCitations,
			Venue:        req.Venue,
			MaxResults:   req.MaxResults,
			FetchLimit:   req.FetchLimit,
		},
		Results: out.Papers,
		Summary: QuerySummary{
			Total:             len(out.Papers),
			UsedFallback:      out.UsedFallback,
			VenueFilter:       out.VenueFilter,
			AliasQueries:      out.AliasQueries,
			DuplicatesRemoved: out.DuplicatesRemoved,
			Timestamp:         now.UTC(),
		},
	}
}

// WriteQueryFile saves req and out to a YAML file, creating parent
// directories as needed.
func WriteQueryFile(path string, req Request, out Outcome) error {
	qf := NewQueryFile(req, out, time.Now())
	data, err := yaml.Marshal(&qf)
	if err != nil {
		return fmt.Errorf("marshaling query file: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating query file directory: %w", err)
		}
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadQueryFile loads a previously saved query file from disk.
func ReadQueryFile(path string) (*QueryFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading query file: %w", err)
	}
	var qf QueryFile
	if err := yaml.Unmarshal(data, &qf); err != nil {
		return nil, fmt.Errorf("parsing query file: %w", err)
	}
	return &qf, nil
}

// ToRequest converts stored QueryParams back into a Request.
func (p QueryParams) ToRequest() Request {
	return Request{
		Query:        p.Text,
		YearFrom:     p.YearFrom,
		YearTo:       p.YearTo,
		MinCitations: p.MinCitations,
		Venue:        p.Venue,
		MaxResults:   p.MaxResults,
		FetchLimit:   p.FetchLimit,
	}
}

// Paper returns the 1-based index-th result.
func (qf *QueryFile) Paper(index int) (types.Paper, error) {
	if index < 1 || index > len(qf.Results) {
		return types.Paper{}, fmt.Errorf("index %d out of range: file has %d results", index, len(qf.Results))
	}
	return qf.Results[index-1], nil
}
