// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/pdiddy/paperscout/internal/venue"
)

var venuesCmd = &cobra.Command{
	Use:   "venues",
	Short: "List venues with known aliases",
	Long: `Venues lists the canonical venue keys. Keys with search aliases expand
a --venue query into one extra query per alias; every key also lists the
substrings accepted by the venue filter.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "KEY\tSEARCH ALIASES\tMATCHES")
		for _, k := range venue.Keys() {
			a, _ := venue.Lookup(k)
			query := strings.Join(a.Query, "; ")
			if query == "" {
				query = "-"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\n", k, query, strings.Join(a.Match, "; "))
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(venuesCmd)
}
