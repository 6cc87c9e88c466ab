package sqlite

import (
	"context"
	"database/sql"
	"time"

	_ "modernc.org/sqlite"

	"github.com/cognicore/lexclass/pkg/lexclass/store"
)

// sqliteStore implements the Store interface using SQLite
type sqliteStore struct {
	db *sql.DB
}

// Open opens a SQLite database with WAL mode enabled and initializes
// the schema.
func Open(ctx context.Context, path string) (store.Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// Enable WAL mode for better concurrency
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, err
	}

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &sqliteStore{db: db}, nil
}

// Close closes the database connection
func (s *sqliteStore) Close() error {
	return s.db.Close()
}

// initSchema creates tables if they don't exist
func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	corpus TEXT,
	classes INTEGER NOT NULL,
	vocab_size INTEGER NOT NULL,
	tokens INTEGER NOT NULL,
	started_at TEXT NOT NULL,
	finished_at TEXT,
	log_likelihood REAL,
	iterations INTEGER DEFAULT 0
);

CREATE TABLE IF NOT EXISTS iterations (
	run_id TEXT NOT NULL,
	iteration INTEGER NOT NULL,
	moves INTEGER NOT NULL,
	delta REAL NOT NULL,
	log_likelihood REAL NOT NULL,
	PRIMARY KEY(run_id, iteration),
	FOREIGN KEY(run_id) REFERENCES runs(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS assignments (
	run_id TEXT NOT NULL,
	word TEXT NOT NULL,
	class INTEGER NOT NULL,
	PRIMARY KEY(run_id, word),
	FOREIGN KEY(run_id) REFERENCES runs(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_assignments_class ON assignments(run_id, class);
`
	_, err := db.ExecContext(ctx, schema)
	return err
}

// CreateRun inserts a new run row.
func (s *sqliteStore) CreateRun(ctx context.Context, r store.Run) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (id, corpus, classes, vocab_size, tokens, started_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			corpus = excluded.corpus,
			classes = excluded.classes,
			vocab_size = excluded.vocab_size,
			tokens = excluded.tokens,
			started_at = excluded.started_at`,
		r.ID, r.Corpus, r.Classes, r.VocabSize, r.Tokens, r.StartedAt.UTC().Format(time.RFC3339Nano))
	return err
}

// FinishRun stamps a run with its final results.
func (s *sqliteStore) FinishRun(ctx context.Context, runID string, finishedAt time.Time, logLikelihood float64, iterations int) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE runs SET finished_at = ?, log_likelihood = ?, iterations = ?
		WHERE id = ?`,
		finishedAt.UTC().Format(time.RFC3339Nano), logLikelihood, iterations, runID)
	return err
}

// GetRun returns a run by id.
func (s *sqliteStore) GetRun(ctx context.Context, runID string) (store.Run, bool, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, corpus, classes, vocab_size, tokens, started_at, finished_at, log_likelihood, iterations
		FROM runs WHERE id = ?`, runID)
	r, err := scanRun(row)
	if err == sql.ErrNoRows {
		return store.Run{}, false, nil
	}
	if err != nil {
		return store.Run{}, false, err
	}
	return r, true, nil
}

// ListRuns returns the most recent runs, newest first.
func (s *sqliteStore) ListRuns(ctx context.Context, limit int) ([]store.Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, corpus, classes, vocab_size, tokens, started_at, finished_at, log_likelihood, iterations
		FROM runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []store.Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (store.Run, error) {
	var r store.Run
	var started string
	var finished sql.NullString
	var ll sql.NullFloat64
	err := row.Scan(&r.ID, &r.Corpus, &r.Classes, &r.VocabSize, &r.Tokens, &started, &finished, &ll, &r.Iterations)
	if err != nil {
		return store.Run{}, err
	}
	r.StartedAt, _ = time.Parse(time.RFC3339Nano, started)
	if finished.Valid {
		r.FinishedAt, _ = time.Parse(time.RFC3339Nano, finished.String)
	}
	if ll.Valid {
		r.LogLikelihood = ll.Float64
	}
	return r, nil
}

// AppendIteration records one sweep of a run.
func (s *sqliteStore) AppendIteration(ctx context.Context, runID string, it store.Iteration) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO iterations (run_id, iteration, moves, delta, log_likelihood)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(run_id, iteration) DO UPDATE SET
			moves = excluded.moves,
			delta = excluded.delta,
			log_likelihood = excluded.log_likelihood`,
		runID, it.Iteration, it.Moves, it.Delta, it.LogLikelihood)
	return err
}

// GetIterations returns the recorded sweeps of a run in order.
func (s *sqliteStore) GetIterations(ctx context.Context, runID string) ([]store.Iteration, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT iteration, moves, delta, log_likelihood
		FROM iterations WHERE run_id = ? ORDER BY iteration`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []store.Iteration
	for rows.Next() {
		var it store.Iteration
		if err := rows.Scan(&it.Iteration, &it.Moves, &it.Delta, &it.LogLikelihood); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

// PutAssignments replaces the word→class mapping of a run in a single
// transaction.
func (s *sqliteStore) PutAssignments(ctx context.Context, runID string, assignments []store.Assignment) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM assignments WHERE run_id = ?`, runID); err != nil {
		return err
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO assignments (run_id, word, class) VALUES (?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, a := range assignments {
		if _, err := stmt.ExecContext(ctx, runID, a.Word, a.Class); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// GetAssignments returns the stored mapping, sorted by word.
func (s *sqliteStore) GetAssignments(ctx context.Context, runID string) ([]store.Assignment, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT word, class FROM assignments WHERE run_id = ? ORDER BY word`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []store.Assignment
	for rows.Next() {
		var a store.Assignment
		if err := rows.Scan(&a.Word, &a.Class); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// ClassOfWord looks up one word's class in a run.
func (s *sqliteStore) ClassOfWord(ctx context.Context, runID, word string) (int, bool, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT class FROM assignments WHERE run_id = ? AND word = ?`, runID, word)
	var class int
	err := row.Scan(&class)
	if err == sql.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return class, true, nil
}

// WordsInClass returns the members of a class in a run, sorted.
func (s *sqliteStore) WordsInClass(ctx context.Context, runID string, class int) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT word FROM assignments WHERE run_id = ? AND class = ? ORDER BY word`, runID, class)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var word string
		if err := rows.Scan(&word); err != nil {
			return nil, err
		}
		out = append(out, word)
	}
	return out, rows.Err()
}
