// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"github.com/slrkit/searcheval/pkg/types"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(types.ReportConfig{Dir: t.TempDir()})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleRun() (*types.SearchResult, types.EvaluationReport) {
	result := &types.SearchResult{
		Query:        `TITLE-ABS-KEY("code smell")`,
		TotalResults: 2,
		Entries: []types.Entry{
			{Identifier: "SCOPUS_ID:1", Title: "Detecting Code Smells in Java"},
			{Identifier: "SCOPUS_ID:2", Title: "Unrelated Paper"},
		},
		Timestamp: time.Now().UTC(),
	}
	report := types.EvaluationReport{
		GSRecall:  0.5,
		QGSRecall: 1.0,
		Precision: 0.5,
		F1:        0.5,
		Matches: []types.MatchResult{
			{
				Study:         types.Study{Title: "Detecting Code Smells"},
				BestCandidate: "Detecting Code Smells in Java",
				Score:         0.84,
				Found:         true,
			},
			{
				Study:         types.Study{Title: "Antipattern Mining"},
				BestCandidate: "Unrelated Paper",
				Score:         0.31,
			},
			{
				Study: types.Study{},
				Err:   "study has no title",
			},
		},
	}
	return result, report
}

func TestSaveAndListRuns(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	result, report := sampleRun()

	id1, err := s.SaveRun(ctx, "fp-1", result, 1, report)
	require.NoError(t, err)
	id2, err := s.SaveRun(ctx, "fp-2", result, 1, report)
	require.NoError(t, err)
	assert.Greater(t, id2, id1)

	runs, err := s.ListRuns(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 2)

	// Newest first.
	assert.Equal(t, id2, runs[0].ID)
	assert.Equal(t, "fp-2", runs[0].Fingerprint)
	assert.Equal(t, result.Query, runs[0].Query)
	assert.Equal(t, 2, runs[0].TotalResults)
	assert.Equal(t, 2, runs[0].Collected)
	assert.Equal(t, 3, runs[0].GSSize)
	assert.Equal(t, 1, runs[0].QGSSize)
	assert.Equal(t, 0.5, runs[0].GSRecall)
	assert.Equal(t, 1.0, runs[0].QGSRecall)
	assert.Equal(t, 0.5, runs[0].Precision)
	assert.Equal(t, 0.5, runs[0].F1)
	assert.WithinDuration(t, time.Now(), runs[0].CreatedAt, time.Minute)
}

func TestGetMatches(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	result, report := sampleRun()

	id, err := s.SaveRun(ctx, "fp", result, 1, report)
	require.NoError(t, err)

	matches, err := s.GetMatches(ctx, id)
	require.NoError(t, err)
	require.Len(t, matches, 3)

	assert.Equal(t, "Detecting Code Smells", matches[0].Study.Title)
	assert.Equal(t, "Detecting Code Smells in Java", matches[0].BestCandidate)
	assert.Equal(t, 0.84, matches[0].Score)
	assert.True(t, matches[0].Found)
	assert.False(t, matches[1].Found)
	assert.Equal(t, "study has no title", matches[2].Err)

	// Unknown run id yields no rows, not an error.
	matches, err = s.GetMatches(ctx, id+100)
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestStoreReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()
	result, report := sampleRun()

	s, err := NewStore(types.ReportConfig{Dir: dir})
	require.NoError(t, err)
	_, err = s.SaveRun(ctx, "fp", result, 1, report)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = NewStore(types.ReportConfig{Dir: dir})
	require.NoError(t, err)
	defer s.Close()

	runs, err := s.ListRuns(ctx)
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}

func TestExport(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	result, report := sampleRun()

	_, err := s.SaveRun(ctx, "fp", result, 1, report)
	require.NoError(t, err)

	paths, err := s.Export(ctx)
	require.NoError(t, err)
	require.Len(t, paths, 2)

	for _, path := range paths {
		data, err := os.ReadFile(path)
		require.NoError(t, err)

		var runs []Run
		switch filepath.Ext(path) {
		case ".yaml":
			require.NoError(t, yaml.Unmarshal(data, &runs))
		case ".json":
			require.NoError(t, json.Unmarshal(data, &runs))
		default:
			t.Fatalf("unexpected export file %s", path)
		}
		require.Len(t, runs, 1)
		assert.Equal(t, "fp", runs[0].Fingerprint)
	}
}
