// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/slrkit/searcheval/internal/evaluation"
	"github.com/slrkit/searcheval/internal/report"
	"github.com/slrkit/searcheval/internal/scopus"
	"github.com/slrkit/searcheval/internal/studies"
	"github.com/slrkit/searcheval/pkg/types"
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Score a retrieved result set against the gold standard",
	Long: `Evaluate fuzzily matches the titles in a saved search result against the
gold-standard (GS) and quasi-gold-standard (QGS) study sets and reports
recall over each. A study counts as found when its best title similarity
reaches the acceptance threshold. With --store the run is recorded in the
report database.`,
	RunE: runEvaluate,
}

func runEvaluate(cmd *cobra.Command, args []string) error {
	resultPath, _ := cmd.Flags().GetString("results")
	if resultPath == "" {
		return fmt.Errorf("no result set: provide --results from a previous search")
	}
	result, err := scopus.ReadResultFile(resultPath)
	if err != nil {
		return err
	}

	gsPath, _ := cmd.Flags().GetString("gs")
	qgsPath, _ := cmd.Flags().GetString("qgs")
	if gsPath == "" || qgsPath == "" {
		return fmt.Errorf("both --gs and --qgs study files are required")
	}
	gs, qgs, err := studies.LoadSets(gsPath, qgsPath)
	if err != nil {
		return err
	}

	opts := evaluation.Options{
		Threshold:    viper.GetFloat64("evaluation.threshold"),
		Workers:      viper.GetInt("evaluation.workers"),
		TotalResults: result.TotalResults,
	}
	if threshold, _ := cmd.Flags().GetFloat64("threshold"); threshold > 0 {
		opts.Threshold = threshold
	}
	if workers, _ := cmd.Flags().GetInt("workers"); workers > 0 {
		opts.Workers = workers
	}

	rep := evaluation.Evaluate(result.Titles(), gs, qgs, opts)

	if store, _ := cmd.Flags().GetBool("store"); store {
		if err := storeRun(cmd.Context(), result, len(qgs), rep); err != nil {
			return err
		}
	}

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		return evaluation.FormatJSON(rep, os.Stdout)
	}
	evaluation.FormatTable(rep, os.Stdout)
	return nil
}

func storeRun(ctx context.Context, result *types.SearchResult, qgsSize int, rep types.EvaluationReport) error {
	store, err := report.NewStore(reportConfig())
	if err != nil {
		return err
	}
	defer store.Close()

	runID, err := store.SaveRun(ctx, scopus.Fingerprint(result.Query), result, qgsSize, rep)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Stored evaluation run %d\n", runID)
	return nil
}

func reportConfig() types.ReportConfig {
	return types.ReportConfig{Dir: viper.GetString("report.dir")}
}

func init() {
	evaluateCmd.Flags().String("results", "", "result YAML file from a previous search")
	evaluateCmd.Flags().String("gs", "", "gold-standard study YAML file")
	evaluateCmd.Flags().String("qgs", "", "quasi-gold-standard study YAML file (subset of GS)")
	evaluateCmd.Flags().Float64("threshold", 0, "acceptance similarity threshold (default 0.8)")
	evaluateCmd.Flags().Int("workers", 0, "matching worker count (default: all CPUs)")
	evaluateCmd.Flags().Bool("store", false, "record this run in the report database")
	evaluateCmd.Flags().Bool("json", false, "output the report as JSON")

	rootCmd.AddCommand(evaluateCmd)
}
