// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Study is a gold-standard record from a systematic review protocol. Only
// Title is read by the evaluation engine; Abstract and Keywords travel along
// for the researcher's benefit.
type Study struct {
	Title    string   `json:"title" yaml:"title"`
	Abstract string   `json:"abstract,omitempty" yaml:"abstract,omitempty"`
	Keywords []string `json:"keywords,omitempty" yaml:"keywords,omitempty"`
}

// MatchResult associates one study with its best-matching candidate title.
type MatchResult struct {
	// Study is the gold-standard study this result describes.
	Study Study `json:"study" yaml:"study"`

	// BestCandidate is the candidate title with the highest similarity, or
	// empty when there were no candidates or the study was invalid.
	BestCandidate string `json:"best_candidate,omitempty" yaml:"best_candidate,omitempty"`

	// Score is the best similarity in [0,1]; 1 means identical titles.
	Score float64 `json:"score" yaml:"score"`

	// Found reports whether Score reached the acceptance threshold.
	Found bool `json:"found" yaml:"found"`

	// Err records a per-study validation failure (e.g. a missing title).
	// An invalid study stays in the recall denominator but is never found.
	Err string `json:"error,omitempty" yaml:"error,omitempty"`
}

// EvaluationReport aggregates the match results for one candidate set
// against a gold standard and its quasi-gold-standard subset.
type EvaluationReport struct {
	// GSRecall is |found ∩ GS| / |GS|, or 0 when GS is empty.
	GSRecall float64 `json:"gs_recall" yaml:"gs_recall"`

	// QGSRecall is |found ∩ QGS| / |QGS|, or 0 when QGS is empty.
	QGSRecall float64 `json:"qgs_recall" yaml:"qgs_recall"`

	// Precision is |found| / min(reported results, service depth cap), or 0
	// when the query reported no results.
	Precision float64 `json:"precision" yaml:"precision"`

	// F1 is the harmonic mean of Precision and GSRecall, or 0 when both
	// are 0.
	F1 float64 `json:"f1" yaml:"f1"`

	// Matches holds one MatchResult per GS study, in GS order.
	Matches []MatchResult `json:"matches" yaml:"matches"`
}

// FoundCount returns the number of GS studies that were found.
func (r EvaluationReport) FoundCount() int {
	n := 0
	for _, m := range r.Matches {
		if m.Found {
			n++
		}
	}
	return n
}
