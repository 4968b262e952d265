// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/paperscout/internal/summarize"
)

var summarizeCmd = &cobra.Command{
	Use:   "summarize",
	Short: "Summarize a paper with a language model",
	Long: `Summarize condenses text through the configured provider (openai or
anthropic). Input comes from --text, --file, or the abstract of paper
--index in a saved search file. Modes focus the output on the overall
summary, the contributions, the weaknesses, or strengths and weaknesses.`,
	RunE: runSummarize,
}

func init() {
	addSummarizeFlags(summarizeCmd)
	rootCmd.AddCommand(summarizeCmd)
}

func addSummarizeFlags(cmd *cobra.Command) {
	cmd.Flags().String("text", "", "text to summarize")
	cmd.Flags().String("file", "", "read the text from this file")
	addResultsFlags(cmd, "1-based index of the paper whose abstract is summarized")
	cmd.Flags().String("lang", "", "output language: ko, en or ja (default from config)")
	cmd.Flags().String("mode", string(summarize.ModeSummary), "summary, contribution, weakness or strength_weakness")
}

func runSummarize(cmd *cobra.Command, args []string) error {
	text, err := summarizeInput(cmd)
	if err != nil {
		return err
	}

	langFlag, _ := cmd.Flags().GetString("lang")
	if langFlag == "" {
		langFlag = appCfg.Summarize.Lang
	}
	lang, err := summarize.ParseLang(langFlag)
	if err != nil {
		return err
	}
	modeFlag, _ := cmd.Flags().GetString("mode")
	mode, err := summarize.ParseMode(modeFlag)
	if err != nil {
		return err
	}

	// Blank input never reaches the provider, so no key is needed.
	s := &summarize.Summarizer{}
	if strings.TrimSpace(text) != "" {
		if s, err = summarize.New(appCfg.Summarize, logger); err != nil {
			return err
		}
	}

	out, err := s.Summarize(cmd.Context(), text, lang, mode)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), out)
	return nil
}

func summarizeInput(cmd *cobra.Command) (string, error) {
	text, _ := cmd.Flags().GetString("text")
	file, _ := cmd.Flags().GetString("file")
	results, _ := cmd.Flags().GetString("results")

	switch {
	case text != "":
		return text, nil
	case file != "":
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("reading %s: %w", file, err)
		}
		return string(data), nil
	case results != "":
		p, err := resultsPaper(cmd)
		if err != nil {
			return "", err
		}
		return abstractText(p), nil
	default:
		return "", fmt.Errorf("provide --text, --file, or --results with --index")
	}
}
