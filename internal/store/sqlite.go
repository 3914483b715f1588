// internal/store/sqlite.go
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/llm-exam-tester/backend/internal/domain/exam"
	"github.com/llm-exam-tester/backend/internal/domain/run"
)

// formatVersion is written with every run. Rows written by a newer layout
// are refused on read with ErrUnsupportedFormat.
const formatVersion = 1

const schema = `
CREATE TABLE IF NOT EXISTS runs (
    id TEXT PRIMARY KEY,
    model TEXT NOT NULL,
    timestamp_ns INTEGER NOT NULL,
    score REAL NOT NULL,
    duration_ns INTEGER NOT NULL,
    format_version INTEGER NOT NULL DEFAULT 1
);

CREATE INDEX IF NOT EXISTS idx_runs_timestamp ON runs(timestamp_ns);

CREATE TABLE IF NOT EXISTS question_results (
    run_id TEXT NOT NULL,
    position INTEGER NOT NULL,
    question_id TEXT NOT NULL,
    question TEXT NOT NULL,
    response TEXT NOT NULL,
    extracted TEXT NOT NULL,
    correct_answer TEXT NOT NULL,
    is_correct INTEGER NOT NULL,
    latency_ns INTEGER NOT NULL,
    error TEXT NOT NULL DEFAULT '',
    PRIMARY KEY (run_id, position),
    FOREIGN KEY (run_id) REFERENCES runs(id) ON DELETE CASCADE
);
`

// SQLiteStore keeps run reports in a SQLite database.
// Appends are serialized by mu; reads share it so they never observe a
// half-written run.
type SQLiteStore struct {
	db *sql.DB
	mu sync.RWMutex
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLite opens (and if needed creates) the database at dbPath.
func NewSQLite(dbPath string) (*SQLiteStore, error) {
	dsn := dbPath
	if dbPath != ":memory:" && !strings.Contains(dbPath, "?") {
		dsn += "?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// One connection: ":memory:" databases are per-connection, and all
	// access is already serialized by the store's lock.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// ============================================================================
// Writes
// ============================================================================

func (s *SQLiteStore) AppendRun(ctx context.Context, r *run.Report) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var exists int
	err = tx.QueryRowContext(ctx, "SELECT 1 FROM runs WHERE id = ?", r.ID).Scan(&exists)
	if err == nil {
		return fmt.Errorf("%w: %s", ErrDuplicateRun, r.ID)
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return err
	}

	_, err = tx.ExecContext(ctx,
		"INSERT INTO runs (id, model, timestamp_ns, score, duration_ns, format_version) VALUES (?, ?, ?, ?, ?, ?)",
		r.ID, r.Model, r.Timestamp.UnixNano(), r.Score, int64(r.Duration), formatVersion,
	)
	if err != nil {
		return err
	}

	for i, q := range r.Results {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO question_results
			 (run_id, position, question_id, question, response, extracted, correct_answer, is_correct, latency_ns, error)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			r.ID, i, q.QuestionID, q.Question, q.Response, string(q.Extracted), string(q.Correct),
			q.IsCorrect, int64(q.Latency), q.Error,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// ============================================================================
// Reads
// ============================================================================

func (s *SQLiteStore) AllRuns(ctx context.Context) ([]*run.Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	rows, err := tx.QueryContext(ctx,
		"SELECT id, model, timestamp_ns, score, duration_ns, format_version FROM runs ORDER BY timestamp_ns, rowid",
	)
	if err != nil {
		return nil, err
	}

	var reports []*run.Report
	byID := make(map[string]*run.Report)
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		reports = append(reports, r)
		byID[r.ID] = r
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	if err := loadResults(ctx, tx, byID, "", nil); err != nil {
		return nil, err
	}
	return reports, tx.Commit()
}

func (s *SQLiteStore) GetRun(ctx context.Context, id string) (*run.Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx,
		"SELECT id, model, timestamp_ns, score, duration_ns, format_version FROM runs WHERE id = ?", id,
	)
	r, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := loadResults(ctx, tx, map[string]*run.Report{r.ID: r}, "WHERE run_id = ?", []any{id}); err != nil {
		return nil, err
	}
	return r, tx.Commit()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (*run.Report, error) {
	var (
		r          run.Report
		tsNanos    int64
		durationNs int64
		version    int
	)
	if err := sc.Scan(&r.ID, &r.Model, &tsNanos, &r.Score, &durationNs, &version); err != nil {
		return nil, err
	}
	if version < 1 || version > formatVersion {
		return nil, fmt.Errorf("%w: run %s has version %d", ErrUnsupportedFormat, r.ID, version)
	}
	r.Timestamp = time.Unix(0, tsNanos).UTC()
	r.Duration = time.Duration(durationNs)
	r.Results = []run.QuestionResult{}
	return &r, nil
}

// loadResults attaches question results, in position order, to the runs in byID.
func loadResults(ctx context.Context, tx *sql.Tx, byID map[string]*run.Report, where string, args []any) error {
	rows, err := tx.QueryContext(ctx,
		`SELECT run_id, question_id, question, response, extracted, correct_answer, is_correct, latency_ns, error
		 FROM question_results `+where+` ORDER BY run_id, position`,
		args...,
	)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			runID              string
			q                  run.QuestionResult
			extracted, correct string
			latencyNs          int64
		)
		if err := rows.Scan(&runID, &q.QuestionID, &q.Question, &q.Response, &extracted, &correct,
			&q.IsCorrect, &latencyNs, &q.Error); err != nil {
			return err
		}
		q.Extracted = exam.Label(extracted)
		q.Correct = exam.Label(correct)
		q.Latency = time.Duration(latencyNs)

		if r, ok := byID[runID]; ok {
			r.Results = append(r.Results, q)
		}
	}
	return rows.Err()
}
