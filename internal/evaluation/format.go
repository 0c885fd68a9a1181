// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package evaluation

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/slrkit/searcheval/pkg/types"
)

// FormatTable writes a report as a human-readable table to w.
func FormatTable(report types.EvaluationReport, w io.Writer) {
	if len(report.Matches) == 0 {
		fmt.Fprintln(w, "No studies evaluated.")
		return
	}

	fmt.Fprintf(w, "%-50s  %-6s  %-5s  %s\n", "Study", "Score", "Found", "Best candidate")
	fmt.Fprintln(w, strings.Repeat("-", 110))

	for _, m := range report.Matches {
		title := truncate(m.Study.Title, 50)
		if m.Err != "" {
			fmt.Fprintf(w, "%-50s  %-6s  %-5s  invalid: %s\n", title, "-", "-", m.Err)
			continue
		}
		found := "no"
		if m.Found {
			found = "yes"
		}
		fmt.Fprintf(w, "%-50s  %-6.2f  %-5s  %s\n", title, m.Score, found, truncate(m.BestCandidate, 50))
	}

	fmt.Fprintf(w, "\n%d of %d studies found\n", report.FoundCount(), len(report.Matches))
	fmt.Fprintf(w, "GS recall:  %.3f\n", report.GSRecall)
	fmt.Fprintf(w, "QGS recall: %.3f\n", report.QGSRecall)
	fmt.Fprintf(w, "Precision:  %.3f\n", report.Precision)
	fmt.Fprintf(w, "F1 score:   %.3f\n", report.F1)
}

// FormatJSON writes a report as indented JSON to w.
func FormatJSON(report types.EvaluationReport, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

// truncate shortens s to max runes. Slicing runes rather than bytes keeps
// multi-byte titles intact.
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
