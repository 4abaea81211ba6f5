// Package history persists a summary row for every `analyze` run to a
// local SQLite database, grounded on the teacher's
// internal/federation/index.go / internal/jobs/store.go database/sql +
// modernc.org/sqlite (pure-Go driver) idiom.
package history

import (
	"database/sql"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"untangle/internal/metrics"
)

// Store wraps the run-history database.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the history database at dbPath,
// typically <project root>/.untangle/history.db.
func Open(dbPath string) (*Store, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	db, err := sql.Open("sqlite", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, err
	}
	s := &Store{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close releases the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) initSchema() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL,
			ran_at TEXT NOT NULL,
			root TEXT NOT NULL,
			language TEXT NOT NULL,
			node_count INTEGER NOT NULL,
			edge_count INTEGER NOT NULL,
			mean_fanout REAL NOT NULL,
			max_fanout INTEGER NOT NULL,
			scc_count INTEGER NOT NULL,
			largest_scc_size INTEGER NOT NULL,
			max_depth INTEGER NOT NULL,
			total_complexity INTEGER NOT NULL,
			elapsed_ms INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_runs_ran_at ON runs(ran_at);
		CREATE INDEX IF NOT EXISTS idx_runs_root ON runs(root);
	`)
	return err
}

// Run is a single recorded analyze invocation.
type Run struct {
	RunID     string
	RanAt     time.Time
	Root      string
	Language  string
	NodeCount int
	EdgeCount int
	Summary   metrics.Summary
	ElapsedMs int64
}

// Record inserts a single run row.
func (s *Store) Record(run Run) error {
	_, err := s.db.Exec(
		`INSERT INTO runs (
			run_id, ran_at, root, language, node_count, edge_count,
			mean_fanout, max_fanout, scc_count, largest_scc_size,
			max_depth, total_complexity, elapsed_ms
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.RunID,
		run.RanAt.UTC().Format(time.RFC3339),
		run.Root,
		run.Language,
		run.NodeCount,
		run.EdgeCount,
		run.Summary.MeanFanout,
		run.Summary.MaxFanout,
		run.Summary.SccCount,
		run.Summary.LargestSccSize,
		run.Summary.MaxDepth,
		run.Summary.TotalComplexity,
		run.ElapsedMs,
	)
	return err
}

// Recent returns the most recent limit runs for root, newest first.
func (s *Store) Recent(root string, limit int) ([]Run, error) {
	rows, err := s.db.Query(
		`SELECT run_id, ran_at, root, language, node_count, edge_count,
			mean_fanout, max_fanout, scc_count, largest_scc_size,
			max_depth, total_complexity, elapsed_ms
		 FROM runs WHERE root = ? ORDER BY ran_at DESC LIMIT ?`,
		root, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		var r Run
		var ranAt string
		if err := rows.Scan(
			&r.RunID, &ranAt, &r.Root, &r.Language, &r.NodeCount, &r.EdgeCount,
			&r.Summary.MeanFanout, &r.Summary.MaxFanout, &r.Summary.SccCount,
			&r.Summary.LargestSccSize, &r.Summary.MaxDepth, &r.Summary.TotalComplexity,
			&r.ElapsedMs,
		); err != nil {
			return nil, err
		}
		if t, err := time.Parse(time.RFC3339, ranAt); err == nil {
			r.RanAt = t
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
