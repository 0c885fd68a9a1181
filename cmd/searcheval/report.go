// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/slrkit/searcheval/internal/report"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Manage the record of past evaluation runs",
	Long: `Report lists and exports the evaluation runs recorded with
'evaluate --store'. Runs live in a SQLite database under the report
directory; export writes them to YAML and JSON files alongside it.`,
}

var reportListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored evaluation runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := report.NewStore(reportConfig())
		if err != nil {
			return err
		}
		defer store.Close()

		runs, err := store.ListRuns(cmd.Context())
		if err != nil {
			return err
		}
		if len(runs) == 0 {
			fmt.Println("No stored runs.")
			return nil
		}

		fmt.Printf("%-4s  %-40s  %-9s  %-9s  %-9s  %s\n",
			"ID", "Query", "Collected", "GS recall", "QGS recall", "When")
		fmt.Println(strings.Repeat("-", 100))
		for _, r := range runs {
			query := r.Query
			// Rune-based so a multi-byte query is not split mid-character.
			if runes := []rune(query); len(runes) > 40 {
				query = string(runes[:37]) + "..."
			}
			fmt.Printf("%-4d  %-40s  %-9d  %-9.3f  %-10.3f  %s\n",
				r.ID, query, r.Collected, r.GSRecall, r.QGSRecall,
				r.CreatedAt.Format("2006-01-02 15:04"))
		}
		return nil
	},
}

var reportExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export stored runs to YAML and JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := report.NewStore(reportConfig())
		if err != nil {
			return err
		}
		defer store.Close()

		paths, err := store.Export(cmd.Context())
		if err != nil {
			return err
		}
		for _, p := range paths {
			fmt.Fprintf(os.Stderr, "Wrote %s\n", p)
		}
		return nil
	},
}

func init() {
	reportCmd.AddCommand(reportListCmd)
	reportCmd.AddCommand(reportExportCmd)
	rootCmd.AddCommand(reportCmd)
}
