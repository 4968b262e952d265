// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package search retrieves papers from bibliographic providers, merges and
// deduplicates them across venue alias queries, and falls back to a
// secondary provider when the primary yields nothing.
package search

import (
	"context"

	"github.com/pdiddy/paperscout/pkg/types"
)

// Query holds the text and numeric filters for one provider call. Nil
// pointers mean "no filter"; a zero MinCitations is a real filter.
type Query struct {
	Text         string
	YearFrom     *int
	YearTo       *int
	MinCitations *int
}

// Source searches a single bibliographic provider. Implementations are
// fail-soft: any transport, status or decode failure yields an empty slice.
type Source interface {
	Name() string
	Search(ctx context.Context, q Query, limit int) []types.Paper
}

// keep reports whether p passes the year and citation filters of q. A
// record with an unknown year is never excluded by a year bound.
func (q Query) keep(p types.Paper) bool {
	if year, ok := p.YearValue(); ok {
		if q.YearFrom != nil && year < *q.YearFrom {
			return false
		}
		if q.YearTo != nil && year > *q.YearTo {
			return false
		}
	}
	if q.MinCitations != nil && p.CitationCount() < *q.MinCitations {
		return false
	}
	return true
}

// clampLimit bounds a requested page size to [1, max].
func clampLimit(limit, max int) int {
	if limit < 1 {
		return 1
	}
	if limit > max {
		return max
	}
	return limit
}
