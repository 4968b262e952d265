// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/paperscout/internal/cite"
)

var citeCmd = &cobra.Command{
	Use:   "cite",
	Short: "Format saved results as IEEE, BibTeX or CSL-YAML references",
	Long: `Cite renders papers from a saved search file. Without --index every
result is rendered, numbered from 1; with --index only that paper is.`,
	RunE: runCite,
}

func init() {
	addResultsFlags(citeCmd, "1-based index of a single paper (default: all)")
	citeCmd.Flags().String("style", string(cite.StyleIEEE), "ieee, bibtex or csl")

	rootCmd.AddCommand(citeCmd)
}

func runCite(cmd *cobra.Command, args []string) error {
	styleFlag, _ := cmd.Flags().GetString("style")
	style, err := cite.ParseStyle(styleFlag)
	if err != nil {
		return err
	}
	papers, err := resultsPapers(cmd)
	if err != nil {
		return err
	}

	index, _ := cmd.Flags().GetInt("index")
	if index <= 0 {
		return cite.Write(os.Stdout, style, papers)
	}
	out, err := cite.Format(style, papers[0], &index)
	if err != nil {
		return err
	}
	_, err = os.Stdout.WriteString(out + "\n")
	return err
}
