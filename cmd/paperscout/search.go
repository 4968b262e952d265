// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/paperscout/internal/cite"
	"github.com/pdiddy/paperscout/internal/search"
)

var searchCmd = &cobra.Command{
	Use:   "search [query...]",
	Short: "Search for papers by topic, year, citations and venue",
	Long: `Search queries Semantic Scholar for papers matching the query. With
--venue, the query is re-issued once per known alias of the venue and the
results are merged, deduplicated by DOI or title and year, and filtered to
records published at that venue. When nothing is found, Crossref is queried
instead.

Provider order is preserved; results are never re-ranked.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().Int("from", 0, "earliest publication year")
	searchCmd.Flags().Int("to", 0, "latest publication year")
	searchCmd.Flags().Int("min-citations", 0, "minimum citation count (Semantic Scholar only)")
	searchCmd.Flags().String("venue", "", "venue name or abbreviation, e.g. neurips or \"ACL\"")
	searchCmd.Flags().Int("max-results", 0, "number of papers to show (default from config, 5)")
	searchCmd.Flags().Int("fetch-limit", 0, "page size per provider call (default from config, 8)")
	searchCmd.Flags().Bool("json", false, "output results as JSON")
	searchCmd.Flags().Bool("csl", false, "output results as CSL-YAML")
	searchCmd.Flags().String("save", "", "write the query and results to this YAML file")

	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := strings.TrimSpace(strings.Join(args, " "))
	if query == "" {
		return fmt.Errorf("provide a search query")
	}
	asJSON, _ := cmd.Flags().GetBool("json")
	asCSL, _ := cmd.Flags().GetBool("csl")
	if asJSON && asCSL {
		return fmt.Errorf("--json and --csl are mutually exclusive")
	}

	req := search.Request{
		Query:        query,
		YearFrom:     intFlag(cmd, "from"),
		YearTo:       intFlag(cmd, "to"),
		MinCitations: intFlag(cmd, "min-citations"),
		MaxResults:   appCfg.Search.MaxResults,
		FetchLimit:   appCfg.Search.FetchLimit,
	}
	req.Venue, _ = cmd.Flags().GetString("venue")
	if n, _ := cmd.Flags().GetInt("max-results"); n > 0 {
		req.MaxResults = n
	}
	if n, _ := cmd.Flags().GetInt("fetch-limit"); n > 0 {
		req.FetchLimit = n
	}

	out := newRetriever(appCfg.Search, nil).Retrieve(cmd.Context(), req)

	// The table carries its own notes; machine-readable output warns on stderr.
	if asJSON || asCSL {
		if out.UsedFallback {
			fmt.Fprintln(os.Stderr, "warning: Semantic Scholar returned nothing; results are from Crossref")
		}
		if out.VenueFilter == search.VenueFilterBypassed {
			fmt.Fprintf(os.Stderr, "warning: no result matched venue %q; showing unfiltered results\n", req.Venue)
		}
	}

	if path, _ := cmd.Flags().GetString("save"); path != "" {
		if err := search.WriteQueryFile(path, req, out); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Saved %d result(s) to %s\n", len(out.Papers), path)
	}

	switch {
	case asJSON:
		return search.FormatJSON(out, os.Stdout)
	case asCSL:
		return cite.FormatCSL(out.Papers, os.Stdout)
	default:
		search.FormatTable(out, os.Stdout)
		return nil
	}
}
