// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package evaluation

import (
	"fmt"
	"math"
	"reflect"
	"testing"

	"github.com/slrkit/searcheval/pkg/types"
)

func TestPreprocess(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Detecting Code Smells", "detecting code smells"},
		{"  Detecting Code Smells  ", "detecting code smells"},
		{"", ""},
		{"  \t ", ""},
	}
	for _, tt := range tests {
		if got := Preprocess(tt.in); got != tt.want {
			t.Errorf("Preprocess(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a    string
		b    string
		want float64
	}{
		{"identical", "detecting code smells", "detecting code smells", 1},
		{"both empty", "", "", 1},
		{"one empty", "detecting code smells", "", 0},
		{"disjoint", "xxxx", "yyyy", 0},
		// LCS view: the shorter title is a prefix of the longer one,
		// 2*21/(21+29) = 0.84.
		{"subtitle suffix", "detecting code smells", "detecting code smells in java", 0.84},
		// Edit view: one substitution in a ten-rune title, 1 - 1/10 = 0.9.
		{"single typo", "kubernetes", "kuberpetes", 0.9},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Similarity(tt.a, tt.b)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Similarity(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
			// Symmetric by construction.
			if rev := Similarity(tt.b, tt.a); math.Abs(rev-got) > 1e-9 {
				t.Errorf("Similarity not symmetric: %v vs %v", got, rev)
			}
		})
	}
}

func TestEvaluateRecall(t *testing.T) {
	gs := []types.Study{
		{Title: "Detecting Code Smells"},
		{Title: "Antipattern Mining"},
	}
	qgs := []types.Study{
		{Title: "Detecting Code Smells"},
	}
	candidates := []string{
		"Detecting Code Smells in Java",
		"Unrelated Paper",
	}

	report := Evaluate(candidates, gs, qgs, Options{Threshold: 0.8, TotalResults: 2})

	if report.QGSRecall != 1.0 {
		t.Errorf("QGSRecall = %v, want 1.0", report.QGSRecall)
	}
	if report.GSRecall != 0.5 {
		t.Errorf("GSRecall = %v, want 0.5", report.GSRecall)
	}
	if report.Precision != 0.5 {
		t.Errorf("Precision = %v, want 0.5", report.Precision)
	}
	// Harmonic mean of 0.5 and 0.5.
	if report.F1 != 0.5 {
		t.Errorf("F1 = %v, want 0.5", report.F1)
	}
	if len(report.Matches) != 2 {
		t.Fatalf("got %d matches, want 2", len(report.Matches))
	}
	if !report.Matches[0].Found || report.Matches[0].BestCandidate != "Detecting Code Smells in Java" {
		t.Errorf("first study: found=%v best=%q", report.Matches[0].Found, report.Matches[0].BestCandidate)
	}
	if report.Matches[1].Found {
		t.Errorf("second study matched %q with score %v, want no match",
			report.Matches[1].BestCandidate, report.Matches[1].Score)
	}
}

// TestEvaluateWorkerCountIndependence checks that the report is identical
// for any pool size: the partition only changes which goroutine scores a
// study, never the outcome or the order of matches.
func TestEvaluateWorkerCountIndependence(t *testing.T) {
	var gs []types.Study
	var candidates []string
	for i := 0; i < 37; i++ {
		gs = append(gs, types.Study{Title: fmt.Sprintf("Empirical Study Number %d", i)})
		if i%3 == 0 {
			candidates = append(candidates, fmt.Sprintf("An Empirical Study Number %d", i))
		}
	}
	qgs := gs[:5]

	base := Evaluate(candidates, gs, qgs, Options{Workers: 1})
	for _, workers := range []int{2, 4, 8, 64} {
		got := Evaluate(candidates, gs, qgs, Options{Workers: workers})
		if !reflect.DeepEqual(base, got) {
			t.Errorf("report with %d workers differs from single-worker report", workers)
		}
	}
}

func TestEvaluateEmptySets(t *testing.T) {
	candidates := []string{"Some Candidate"}

	report := Evaluate(candidates, nil, nil, Options{})
	if report.GSRecall != 0 || report.QGSRecall != 0 {
		t.Errorf("empty sets: recalls = %v/%v, want 0/0", report.GSRecall, report.QGSRecall)
	}
	if len(report.Matches) != 0 {
		t.Errorf("empty sets: got %d matches, want 0", len(report.Matches))
	}

	// Empty QGS alone: GS recall still computed, QGS recall pinned to 0.
	gs := []types.Study{{Title: "Some Candidate"}}
	report = Evaluate(candidates, gs, nil, Options{})
	if report.GSRecall != 1.0 {
		t.Errorf("GSRecall = %v, want 1.0", report.GSRecall)
	}
	if report.QGSRecall != 0 {
		t.Errorf("QGSRecall = %v, want 0", report.QGSRecall)
	}
}

func TestEvaluateNoCandidates(t *testing.T) {
	gs := []types.Study{{Title: "Detecting Code Smells"}}

	report := Evaluate(nil, gs, gs, Options{})
	if report.GSRecall != 0 || report.QGSRecall != 0 {
		t.Errorf("no candidates: recalls = %v/%v, want 0/0", report.GSRecall, report.QGSRecall)
	}
	if report.Matches[0].Found {
		t.Error("study found with an empty candidate set")
	}
}

func TestEvaluateUntitledStudy(t *testing.T) {
	gs := []types.Study{
		{Title: "Detecting Code Smells"},
		{Title: "   "},
	}
	candidates := []string{"Detecting Code Smells"}

	report := Evaluate(candidates, gs, gs[:1], Options{})

	if report.Matches[1].Err == "" {
		t.Error("untitled study: expected a recorded validation error")
	}
	if report.Matches[1].Found {
		t.Error("untitled study must never be found")
	}
	// The invalid study stays in the denominator.
	if report.GSRecall != 0.5 {
		t.Errorf("GSRecall = %v, want 0.5", report.GSRecall)
	}
	if report.QGSRecall != 1.0 {
		t.Errorf("QGSRecall = %v, want 1.0", report.QGSRecall)
	}
}

func TestEvaluatePrecisionPolicy(t *testing.T) {
	gs := []types.Study{{Title: "Detecting Code Smells"}}
	candidates := []string{"Detecting Code Smells"}

	// No reported results: precision is 0 by definition, and a perfect
	// recall alone cannot lift the F1 score.
	report := Evaluate(candidates, gs, gs, Options{})
	if report.Precision != 0 {
		t.Errorf("Precision = %v, want 0 for zero reported results", report.Precision)
	}
	if report.F1 != 0 {
		t.Errorf("F1 = %v, want 0 when precision is 0", report.F1)
	}

	// Reported totals beyond the pagination depth cap are clamped: only the
	// retrievable portion counts against precision.
	report = Evaluate(candidates, gs, gs, Options{TotalResults: 20000})
	if report.Precision != 1.0/5000.0 {
		t.Errorf("Precision = %v, want %v", report.Precision, 1.0/5000.0)
	}

	// No studies found and no results reported: both terms of the F1
	// denominator are 0 and the score stays 0 instead of dividing by zero.
	report = Evaluate([]string{"Unrelated Paper"}, gs, gs, Options{})
	if report.F1 != 0 {
		t.Errorf("F1 = %v, want 0 when precision and recall are both 0", report.F1)
	}
}

func TestEvaluateRecallBounds(t *testing.T) {
	gs := []types.Study{
		{Title: "Detecting Code Smells with Machine Learning"},
		{Title: "A Survey of Software Architecture Recovery"},
		{Title: "Mining Version Histories for Defect Prediction"},
		{Title: "Empirical Evaluation of Test Generation Tools"},
		{Title: "Refactoring Legacy Systems in Practice"},
		{Title: "Static Analysis of Concurrency Bugs"},
		{Title: "Search Based Software Engineering Review"},
		{Title: "Automated Program Repair Techniques"},
	}
	qgs := gs[2:5]
	candidates := []string{
		"Detecting Code Smells with Machine Learning",
		"Empirical Evaluation of Test Generation Tools",
		"Search Based Software Engineering Review",
		"Quantum Chemistry Basics",
	}

	report := Evaluate(candidates, gs, qgs, Options{})
	for _, r := range []float64{report.GSRecall, report.QGSRecall} {
		if r < 0 || r > 1 {
			t.Errorf("recall %v outside [0,1]", r)
		}
	}
	if report.FoundCount() != 3 {
		t.Errorf("FoundCount = %d, want 3", report.FoundCount())
	}
	if report.GSRecall != 3.0/8.0 {
		t.Errorf("GSRecall = %v, want %v", report.GSRecall, 3.0/8.0)
	}
	if report.QGSRecall != 1.0/3.0 {
		t.Errorf("QGSRecall = %v, want %v", report.QGSRecall, 1.0/3.0)
	}
}
