// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/pdiddy/paperscout/internal/cite"
	"github.com/pdiddy/paperscout/internal/library"
	"github.com/pdiddy/paperscout/pkg/types"
)

var libraryCmd = &cobra.Command{
	Use:   "library",
	Short: "Manage the personal paper library (list, add, clear, export)",
	Long: `Library keeps papers you chose to save, in a JSON file or a SQLite
database (library.backend). A paper whose title and year match a saved
entry is not added twice.`,
}

// --- list subcommand ---

var libraryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved papers",
	RunE:  runLibraryList,
}

func runLibraryList(cmd *cobra.Command, args []string) error {
	store, err := library.Open(appCfg.Library)
	if err != nil {
		return err
	}
	defer store.Close()

	entries, err := store.Load(cmd.Context())
	if err != nil {
		return err
	}

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}
	if len(entries) == 0 {
		fmt.Println("Library is empty.")
		return nil
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "#\tTITLE\tYEAR\tVENUE\tSAVED")
	for i, e := range entries {
		year := "-"
		if y, ok := e.YearValue(); ok {
			year = fmt.Sprint(y)
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", i+1, e.Title, year, e.VenueValue(), e.SavedAt.Local().Format("2006-01-02"))
	}
	return w.Flush()
}

// --- add subcommand ---

var libraryAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Save papers from a saved search file",
	RunE:  runLibraryAdd,
}

func runLibraryAdd(cmd *cobra.Command, args []string) error {
	papers, err := resultsPapers(cmd)
	if err != nil {
		return err
	}
	store, err := library.Open(appCfg.Library)
	if err != nil {
		return err
	}
	defer store.Close()

	for _, p := range papers {
		_, msg, err := store.Add(cmd.Context(), p)
		if err != nil {
			return err
		}
		fmt.Printf("%s: %s\n", p.Title, msg)
	}
	return nil
}

// --- clear subcommand ---

var libraryClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every saved paper",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := library.Open(appCfg.Library)
		if err != nil {
			return err
		}
		defer store.Close()
		if err := store.Clear(cmd.Context()); err != nil {
			return err
		}
		fmt.Println("Library cleared.")
		return nil
	},
}

// --- export subcommand ---

var libraryExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the library as BibTeX",
	RunE:  runLibraryExport,
}

func runLibraryExport(cmd *cobra.Command, args []string) error {
	store, err := library.Open(appCfg.Library)
	if err != nil {
		return err
	}
	defer store.Close()

	entries, err := store.Load(cmd.Context())
	if err != nil {
		return err
	}
	papers := make([]types.Paper, 0, len(entries))
	for _, e := range entries {
		papers = append(papers, e.Paper)
	}
	bib := cite.ExportBibTeX(papers) + "\n"

	out, _ := cmd.Flags().GetString("out")
	if out == "" {
		_, err := os.Stdout.WriteString(bib)
		return err
	}
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	if err := os.WriteFile(out, []byte(bib), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", out, err)
	}
	fmt.Fprintf(os.Stderr, "Exported %d entries to %s\n", len(papers), out)
	return nil
}

func init() {
	libraryListCmd.Flags().Bool("json", false, "output as JSON")
	addResultsFlags(libraryAddCmd, "1-based index of a single paper (default: all)")
	libraryExportCmd.Flags().String("out", "", "write BibTeX to this file instead of stdout")

	libraryCmd.AddCommand(libraryListCmd)
	libraryCmd.AddCommand(libraryAddCmd)
	libraryCmd.AddCommand(libraryClearCmd)
	libraryCmd.AddCommand(libraryExportCmd)
	rootCmd.AddCommand(libraryCmd)
}
