// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/slrkit/searcheval/internal/scopus"
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Run a boolean search string against Scopus",
	Long: `Search submits a boolean search string to the Scopus API and collects
every page of results under the global rate ceiling, rotating API keys as
the service exhausts them. The assembled result can be saved to a YAML
file for later evaluation.`,
	RunE: runSearch,
}

func runSearch(cmd *cobra.Command, args []string) error {
	query, err := searchQuery(cmd, args)
	if err != nil {
		return err
	}

	keys, err := scopusKeys(cmd)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout())
	defer cancel()

	client := scopus.NewClient(scopusConfig(), keys)
	result, err := client.SearchAll(ctx, query)
	if err != nil {
		return err
	}

	if out, _ := cmd.Flags().GetString("out"); out != "" {
		if err := scopus.WriteResultFile(out, result); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Saved %d entries to %s\n", len(result.Entries), out)
	}

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	fmt.Printf("%d results reported, %d entries collected\n", result.TotalResults, len(result.Entries))
	limit := len(result.Entries)
	if limit > 10 {
		limit = 10
	}
	for _, e := range result.Entries[:limit] {
		fmt.Printf("  %-24s  %s\n", e.Identifier, e.Title)
	}
	if len(result.Entries) > limit {
		fmt.Printf("  ... and %d more (use --out or --json for the full set)\n", len(result.Entries)-limit)
	}
	return nil
}

// searchQuery resolves the search string from --query, --query-file, or
// positional arguments, in that order.
func searchQuery(cmd *cobra.Command, args []string) (string, error) {
	if q, _ := cmd.Flags().GetString("query"); q != "" {
		return q, nil
	}
	if path, _ := cmd.Flags().GetString("query-file"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("reading query file: %w", err)
		}
		return strings.TrimSpace(string(data)), nil
	}
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	return "", fmt.Errorf("no query: provide --query, --query-file, or arguments")
}

func init() {
	searchCmd.Flags().String("query", "", "boolean search string")
	searchCmd.Flags().String("query-file", "", "file containing the boolean search string")
	searchCmd.Flags().String("out", "", "write the assembled result to this YAML file")
	searchCmd.Flags().StringSlice("keys", nil, "API keys (overrides .secrets/scopus-api-keys)")
	searchCmd.Flags().Bool("json", false, "output the full result as JSON")

	rootCmd.AddCommand(searchCmd)
}
