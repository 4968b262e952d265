// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/paperscout/internal/observability"
	"github.com/pdiddy/paperscout/internal/search"
	"github.com/pdiddy/paperscout/pkg/types"
)

// newRetriever wires Semantic Scholar as primary and Crossref as fallback.
func newRetriever(cfg types.SearchConfig, m *observability.Metrics) *search.Retriever {
	return &search.Retriever{
		Primary:          search.NewSemanticScholar(cfg, logger, m),
		Secondary:        search.NewCrossref(cfg, logger, m),
		AliasConcurrency: cfg.AliasConcurrency,
		Logger:           logger,
		Metrics:          m,
	}
}

// addResultsFlags registers --results and --index for commands that act
// on a paper from a saved search.
func addResultsFlags(cmd *cobra.Command, indexHelp string) {
	cmd.Flags().String("results", "", "saved search file written by search --save")
	cmd.Flags().Int("index", 0, indexHelp)
}

// resultsPapers returns the papers selected by --results/--index: one
// paper when index > 0, else all of them.
func resultsPapers(cmd *cobra.Command) ([]types.Paper, error) {
	path, _ := cmd.Flags().GetString("results")
	index, _ := cmd.Flags().GetInt("index")
	if path == "" {
		return nil, fmt.Errorf("--results is required")
	}
	qf, err := search.ReadQueryFile(path)
	if err != nil {
		return nil, err
	}
	if index <= 0 {
		return qf.Results, nil
	}
	p, err := qf.Paper(index)
	if err != nil {
		return nil, err
	}
	return []types.Paper{p}, nil
}

// resultsPaper is resultsPapers restricted to exactly one paper.
func resultsPaper(cmd *cobra.Command) (types.Paper, error) {
	if index, _ := cmd.Flags().GetInt("index"); index <= 0 {
		return types.Paper{}, fmt.Errorf("--index must be 1 or greater")
	}
	papers, err := resultsPapers(cmd)
	if err != nil {
		return types.Paper{}, err
	}
	return papers[0], nil
}

// abstractText returns the abstract, or "" for the sentinel.
func abstractText(p types.Paper) string {
	if p.Abstract == types.NoAbstract {
		return ""
	}
	return strings.TrimSpace(p.Abstract)
}

// intFlag returns the flag value when the user set it, else nil.
func intFlag(cmd *cobra.Command, name string) *int {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, _ := cmd.Flags().GetInt(name)
	return &v
}
