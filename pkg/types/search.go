// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the searcheval pipeline:
// search entries and results on the query side, studies, match results, and
// evaluation reports on the scoring side, plus the configuration structs the
// CLI binds through viper.
package types

import "time"

// Entry is one result record returned by the search service. Entries are
// produced by response parsing and never mutated afterwards.
type Entry struct {
	// Identifier is the stable ID from the service (e.g. "SCOPUS_ID:850...").
	Identifier string `json:"identifier" yaml:"identifier"`

	// Title is the study title as returned by the service.
	Title string `json:"title" yaml:"title"`
}

// SearchResult is the fully assembled outcome of one paginated search:
// every entry the service returned for the query, in service order, plus
// the server-reported total.
type SearchResult struct {
	// Query is the boolean search string exactly as submitted.
	Query string `json:"query" yaml:"query"`

	// Entries holds the collected result records across all pages.
	Entries []Entry `json:"entries" yaml:"entries"`

	// TotalResults is the total-result count reported by the service. On a
	// complete fetch len(Entries) == min(TotalResults, service depth cap).
	TotalResults int `json:"total_results" yaml:"total_results"`

	// Timestamp records when the fetch finished.
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
}

// Titles returns the entry titles in result order, the form the evaluation
// engine consumes.
func (r SearchResult) Titles() []string {
	titles := make([]string, len(r.Entries))
	for i, e := range r.Entries {
		titles[i] = e.Title
	}
	return titles
}
