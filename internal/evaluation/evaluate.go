// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package evaluation scores a retrieved candidate set against a
// gold-standard study set using fuzzy title matching and reports recall.
// The gold-standard-by-candidate comparison dominates the cost, so studies
// are partitioned across a fixed worker pool; workers share only read-only
// inputs and the merged report is identical for any worker count.
package evaluation

import (
	"runtime"
	"strings"
	"sync"

	"github.com/agnivade/levenshtein"

	"github.com/slrkit/searcheval/pkg/types"
)

// DefaultThreshold is the acceptance similarity used when Options leaves
// it unset.
const DefaultThreshold = 0.8

// resultDepthCap mirrors the search service's pagination depth limit; a
// query never hands the researcher more candidates than this, so precision
// is computed against the capped count.
const resultDepthCap = 5000

// Options parameterizes one evaluation run.
type Options struct {
	// Threshold is the acceptance similarity in [0,1]. A study is found
	// iff its best candidate score is >= Threshold.
	Threshold float64

	// Workers sizes the matching pool. Zero means GOMAXPROCS.
	Workers int

	// TotalResults is the server-reported result count for the query that
	// produced the candidates, the precision denominator. Zero yields a
	// precision of 0.
	TotalResults int
}

// Preprocess trims and lowercases a title before comparison.
func Preprocess(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Similarity returns a normalized similarity in [0,1] between two
// preprocessed titles, 1 for identical strings. It takes the better of two
// views: edit similarity (1 - levenshtein/maxLen) absorbs typos, while
// subsequence similarity (2*LCS/(len+len)) absorbs subtitles and venue
// suffixes appended to an otherwise identical title.
func Similarity(a, b string) float64 {
	if a == b {
		return 1
	}
	ra, rb := []rune(a), []rune(b)
	longer := len(ra)
	if len(rb) > longer {
		longer = len(rb)
	}
	if longer == 0 {
		return 1
	}

	editSim := 1 - float64(levenshtein.ComputeDistance(a, b))/float64(longer)
	seqSim := 2 * float64(lcsLength(ra, rb)) / float64(len(ra)+len(rb))
	if seqSim > editSim {
		return seqSim
	}
	return editSim
}

// lcsLength computes the longest-common-subsequence length with a two-row
// dynamic program.
func lcsLength(a, b []rune) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				cur[j] = prev[j-1] + 1
			} else if prev[j] >= cur[j-1] {
				cur[j] = prev[j]
			} else {
				cur[j] = cur[j-1]
			}
		}
		prev, cur = cur, prev
	}
	return prev[len(b)]
}

// Evaluate matches every GS study against the candidate titles and
// computes recall over GS and over QGS, precision over the reported result
// count, and the F1 score. Recalls are defined as 0 when their set is
// empty. A study without a title is recorded as a local
// validation failure: it keeps its place in the denominator, can never be
// found, and does not stop the run.
func Evaluate(candidates []string, gs, qgs []types.Study, opts Options) types.EvaluationReport {
	if opts.Threshold <= 0 {
		opts.Threshold = DefaultThreshold
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > len(gs) && len(gs) > 0 {
		workers = len(gs)
	}

	// Normalize candidates once; every worker reads the same snapshot.
	normalized := make([]string, len(candidates))
	for i, c := range candidates {
		normalized[i] = Preprocess(c)
	}

	matches := make([]types.MatchResult, len(gs))
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			// Strided partition: worker w owns studies w, w+workers, ...
			// Each slot in matches is written by exactly one worker.
			for i := w; i < len(gs); i += workers {
				matches[i] = matchStudy(gs[i], candidates, normalized, opts.Threshold)
			}
		}(w)
	}
	wg.Wait()

	report := types.EvaluationReport{Matches: matches}

	qgsTitles := make(map[string]struct{}, len(qgs))
	for _, s := range qgs {
		qgsTitles[Preprocess(s.Title)] = struct{}{}
	}

	gsFound, qgsFound := 0, 0
	for _, m := range matches {
		if !m.Found {
			continue
		}
		gsFound++
		if _, ok := qgsTitles[Preprocess(m.Study.Title)]; ok {
			qgsFound++
		}
	}

	if len(gs) > 0 {
		report.GSRecall = float64(gsFound) / float64(len(gs))
	}
	if len(qgs) > 0 {
		report.QGSRecall = float64(qgsFound) / float64(len(qgs))
	}

	results := opts.TotalResults
	if results > resultDepthCap {
		results = resultDepthCap
	}
	if results > 0 {
		report.Precision = float64(gsFound) / float64(results)
	}
	if sum := report.Precision + report.GSRecall; sum > 0 {
		report.F1 = 2 * report.Precision * report.GSRecall / sum
	}
	return report
}

// matchStudy finds the best-scoring candidate for one study.
func matchStudy(study types.Study, candidates, normalized []string, threshold float64) types.MatchResult {
	m := types.MatchResult{Study: study}

	title := Preprocess(study.Title)
	if title == "" {
		m.Err = "study has no title"
		return m
	}

	for i, c := range normalized {
		score := Similarity(title, c)
		if score > m.Score {
			m.Score = score
			m.BestCandidate = candidates[i]
		}
	}
	m.Found = m.Score >= threshold
	return m
}
