// Package history keeps a small sqlite log of analysis runs under the
// output directory, so `list` can show what was analyzed, with which model,
// and how the budget came out.
package history

import (
	"database/sql"
	_ "embed"
	"errors"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

var ErrNotFound = errors.New("not found")

type Store struct {
	db *sql.DB
}

// Run is one recorded analysis. OutputBudget is -1 when the token budget
// could not be resolved for the run.
type Run struct {
	RunID        string
	RepoName     string
	RepoURL      string
	Model        string
	InputTokens  int
	OutputBudget int
	Status       string
	OutputPath   string
	CreatedAt    time.Time
}

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(1)
	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		return nil, err
	}
	if _, err := db.Exec("PRAGMA synchronous=NORMAL;"); err != nil {
		return nil, err
	}
	if _, err := db.Exec("PRAGMA busy_timeout=3000;"); err != nil {
		return nil, err
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		return nil, err
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) InsertRun(run Run) error {
	_, err := s.db.Exec(`
		INSERT INTO runs (run_id, repo_name, repo_url, model, input_tokens, output_budget, status, output_path, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, run.RunID, run.RepoName, run.RepoURL, run.Model, run.InputTokens, run.OutputBudget, run.Status, run.OutputPath,
		run.CreatedAt.UTC().Format(time.RFC3339))
	return err
}

// RecentRuns returns up to limit runs, newest first.
func (s *Store) RecentRuns(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.Query(`
		SELECT run_id, repo_name, repo_url, model, input_tokens, output_budget, status, output_path, created_at
		FROM runs
		ORDER BY created_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// LastRun returns the most recent run for a repository.
func (s *Store) LastRun(repoName string) (Run, error) {
	row := s.db.QueryRow(`
		SELECT run_id, repo_name, repo_url, model, input_tokens, output_budget, status, output_path, created_at
		FROM runs
		WHERE repo_name = ?
		ORDER BY created_at DESC
		LIMIT 1
	`, repoName)

	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, ErrNotFound
	}
	return run, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (Run, error) {
	var run Run
	var createdAt string
	err := row.Scan(&run.RunID, &run.RepoName, &run.RepoURL, &run.Model,
		&run.InputTokens, &run.OutputBudget, &run.Status, &run.OutputPath, &createdAt)
	if err != nil {
		return Run{}, err
	}
	run.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return run, nil
}
