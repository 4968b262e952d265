// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/pdiddy/paperscout/internal/codesearch"
)

var codeCmd = &cobra.Command{
	Use:   "code",
	Short: "Find source-code repositories for a paper",
	Long: `Code looks for GitHub links inside the paper's PDF. When the PDF is
missing or links to no repository, GitHub is searched by title and first
author, most-starred first.`,
	RunE: runCode,
}

func init() {
	codeCmd.Flags().String("title", "", "paper title")
	codeCmd.Flags().String("authors", "", "comma-separated author names")
	codeCmd.Flags().Int("year", 0, "publication year")
	codeCmd.Flags().String("doi", "", "DOI URL")
	codeCmd.Flags().String("pdf", "", "PDF URL to scan for links")
	codeCmd.Flags().Int("max-results", 0, "number of repositories (default from config, 3)")
	codeCmd.Flags().Bool("json", false, "output as JSON")
	addResultsFlags(codeCmd, "1-based index of the paper in --results")

	rootCmd.AddCommand(codeCmd)
}

func runCode(cmd *cobra.Command, args []string) error {
	var q codesearch.Query
	if results, _ := cmd.Flags().GetString("results"); results != "" {
		p, err := resultsPaper(cmd)
		if err != nil {
			return err
		}
		q = codesearch.QueryFromPaper(p)
	} else {
		q.Title, _ = cmd.Flags().GetString("title")
		q.Authors, _ = cmd.Flags().GetString("authors")
		q.Year = intFlag(cmd, "year")
		q.DOI, _ = cmd.Flags().GetString("doi")
		q.PDFURL, _ = cmd.Flags().GetString("pdf")
	}
	if q.Title == "" && q.PDFURL == "" {
		return fmt.Errorf("provide --title or --pdf, or --results with --index")
	}

	n, _ := cmd.Flags().GetInt("max-results")
	if n <= 0 {
		n = appCfg.CodeSearch.MaxResults
	}
	repos := codesearch.NewFinder(appCfg.CodeSearch, logger).FindCode(cmd.Context(), q, n)

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(repos)
	}
	if len(repos) == 0 {
		fmt.Println("No repositories found.")
		return nil
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "URL\tSTARS\tSOURCE")
	for _, r := range repos {
		stars := "-"
		if r.Source == codesearch.SourceGitHubSearch {
			stars = fmt.Sprint(r.Stars)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", r.URL, stars, r.Source)
	}
	return w.Flush()
}
