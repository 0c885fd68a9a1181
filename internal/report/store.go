// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package report persists evaluation runs in a SQLite database for the
// researcher's record keeping. The store only ever receives finished
// reports; the search client never reads from it.
package report

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/slrkit/searcheval/pkg/types"
)

const dbFile = "searcheval.db"

// Store manages the evaluation-run SQLite database.
type Store struct {
	db  *sql.DB
	dir string
}

// NewStore opens or creates the run database at dir/searcheval.db,
// creating the schema if it does not exist.
func NewStore(cfg types.ReportConfig) (*Store, error) {
	dir := cfg.Dir
	if dir == "" {
		dir = "reports"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating report directory: %w", err)
	}

	dbPath := filepath.Join(dir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db, dir: dir}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			query TEXT NOT NULL,
			fingerprint TEXT NOT NULL,
			total_results INTEGER,
			collected INTEGER,
			gs_size INTEGER,
			qgs_size INTEGER,
			gs_recall REAL,
			qgs_recall REAL,
			precision REAL,
			f1 REAL,
			created_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_fingerprint ON runs(fingerprint)`,
		`CREATE TABLE IF NOT EXISTS matches (
			run_id INTEGER NOT NULL REFERENCES runs(id),
			study_title TEXT NOT NULL,
			best_candidate TEXT,
			score REAL,
			found INTEGER,
			error TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_matches_run_id ON matches(run_id)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Run summarizes one stored evaluation run.
type Run struct {
	ID           int64     `json:"id" yaml:"id"`
	Query        string    `json:"query" yaml:"query"`
	Fingerprint  string    `json:"fingerprint" yaml:"fingerprint"`
	TotalResults int       `json:"total_results" yaml:"total_results"`
	Collected    int       `json:"collected" yaml:"collected"`
	GSSize       int       `json:"gs_size" yaml:"gs_size"`
	QGSSize      int       `json:"qgs_size" yaml:"qgs_size"`
	GSRecall     float64   `json:"gs_recall" yaml:"gs_recall"`
	QGSRecall    float64   `json:"qgs_recall" yaml:"qgs_recall"`
	Precision    float64   `json:"precision" yaml:"precision"`
	F1           float64   `json:"f1" yaml:"f1"`
	CreatedAt    time.Time `json:"created_at" yaml:"created_at"`
}

// SaveRun records a finished evaluation run and its per-study matches.
func (s *Store) SaveRun(ctx context.Context, fingerprint string, result *types.SearchResult, qgsSize int, report types.EvaluationReport) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO runs (query, fingerprint, total_results, collected,
			gs_size, qgs_size, gs_recall, qgs_recall, precision, f1, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		result.Query, fingerprint, result.TotalResults, len(result.Entries),
		len(report.Matches), qgsSize, report.GSRecall, report.QGSRecall,
		report.Precision, report.F1,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return 0, fmt.Errorf("inserting run: %w", err)
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading run id: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO matches (run_id, study_title, best_candidate, score, found, error)
		 VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("preparing match insert: %w", err)
	}
	defer stmt.Close()

	for _, m := range report.Matches {
		found := 0
		if m.Found {
			found = 1
		}
		if _, err := stmt.ExecContext(ctx, runID, m.Study.Title, m.BestCandidate, m.Score, found, m.Err); err != nil {
			return 0, fmt.Errorf("inserting match: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing run: %w", err)
	}
	return runID, nil
}

// ListRuns returns stored runs, newest first.
func (s *Store) ListRuns(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, query, fingerprint, total_results, collected,
			gs_size, qgs_size, gs_recall, qgs_recall, precision, f1, created_at
		 FROM runs ORDER BY id DESC`)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var createdAt string
		if err := rows.Scan(&r.ID, &r.Query, &r.Fingerprint, &r.TotalResults,
			&r.Collected, &r.GSSize, &r.QGSSize, &r.GSRecall, &r.QGSRecall,
			&r.Precision, &r.F1, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		if t, parseErr := time.Parse(time.RFC3339, createdAt); parseErr == nil {
			r.CreatedAt = t
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// GetMatches returns the per-study match rows for one run, in insert order.
func (s *Store) GetMatches(ctx context.Context, runID int64) ([]types.MatchResult, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT study_title, best_candidate, score, found, error
		 FROM matches WHERE run_id = ? ORDER BY rowid`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying matches: %w", err)
	}
	defer rows.Close()

	var matches []types.MatchResult
	for rows.Next() {
		var m types.MatchResult
		var found int
		if err := rows.Scan(&m.Study.Title, &m.BestCandidate, &m.Score, &found, &m.Err); err != nil {
			return nil, fmt.Errorf("scanning match: %w", err)
		}
		m.Found = found != 0
		matches = append(matches, m)
	}
	return matches, rows.Err()
}
