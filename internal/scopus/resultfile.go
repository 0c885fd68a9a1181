// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package scopus

import (
	"fmt"
	"os"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/slrkit/searcheval/pkg/types"
)

// ResultFile is the on-disk representation of an assembled search result.
// The researcher can save a search to a file and evaluate it later without
// re-querying the service. This is an explicit workflow artifact, separate
// from the in-memory dedup cache.
type ResultFile struct {
	Query       string        `yaml:"query"`
	Fingerprint string        `yaml:"fingerprint"`
	Summary     ResultSummary `yaml:"summary"`
	Entries     []types.Entry `yaml:"entries"`
}

// ResultSummary stores result statistics and a timestamp.
type ResultSummary struct {
	TotalResults int       `yaml:"total_results"`
	Collected    int       `yaml:"collected"`
	Timestamp    time.Time `yaml:"timestamp"`
}

// WriteResultFile saves an assembled search result to a YAML file.
func WriteResultFile(path string, result *types.SearchResult) error {
	rf := ResultFile{
		Query:       result.Query,
		Fingerprint: Fingerprint(result.Query),
		Summary: ResultSummary{
			TotalResults: result.TotalResults,
			Collected:    len(result.Entries),
			Timestamp:    result.Timestamp,
		},
		Entries: result.Entries,
	}

	data, err := yaml.Marshal(&rf)
	if err != nil {
		return fmt.Errorf("marshaling result file: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadResultFile loads a previously saved search result from disk.
func ReadResultFile(path string) (*types.SearchResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading result file: %w", err)
	}
	var rf ResultFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return nil, fmt.Errorf("parsing result file: %w", err)
	}
	return &types.SearchResult{
		Query:        rf.Query,
		Entries:      rf.Entries,
		TotalResults: rf.Summary.TotalResults,
		Timestamp:    rf.Summary.Timestamp,
	}, nil
}
