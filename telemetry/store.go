package telemetry

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// RunRecord is the header row of one stored run.
type RunRecord struct {
	ID        string    `db:"id"`
	Seed      int64     `db:"seed"`
	GridSize  int       `db:"grid_size"`
	Ticks     int64     `db:"ticks"`
	Level     int       `db:"level"`
	Winner    int       `db:"winner"`
	StartedAt time.Time `db:"started_at"`
}

// NewRunRecord creates a run header with a fresh ID.
func NewRunRecord(seed int64, gridSize int, startedAt time.Time) RunRecord {
	return RunRecord{
		ID:        uuid.NewString(),
		Seed:      seed,
		GridSize:  gridSize,
		Winner:    NoAgent,
		StartedAt: startedAt,
	}
}

// Store appends finished runs to a SQLite database. Runs are never read back
// into a simulation.
type Store struct {
	conn *sqlx.DB
}

// OpenStore opens or creates a SQLite database at the given path.
func OpenStore(path string) (*Store, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	s := &Store{conn: conn}
	if err := s.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.conn.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		seed INTEGER NOT NULL,
		grid_size INTEGER NOT NULL,
		ticks INTEGER NOT NULL,
		level INTEGER NOT NULL,
		winner INTEGER NOT NULL,
		started_at TIMESTAMP NOT NULL
	);

	CREATE TABLE IF NOT EXISTS results (
		run_id TEXT NOT NULL REFERENCES runs(id),
		agent INTEGER NOT NULL,
		score INTEGER NOT NULL,
		length INTEGER NOT NULL,
		alive INTEGER NOT NULL,
		cooperative INTEGER NOT NULL,
		eaten INTEGER NOT NULL,
		broadcasts INTEGER NOT NULL,
		died_at INTEGER NOT NULL,
		PRIMARY KEY (run_id, agent)
	);

	CREATE TABLE IF NOT EXISTS events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL REFERENCES runs(id),
		step INTEGER NOT NULL,
		kind TEXT NOT NULL,
		action TEXT NOT NULL,
		agent INTEGER NOT NULL,
		x INTEGER NOT NULL,
		y INTEGER NOT NULL,
		extra TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_events_run_step ON events(run_id, step);
	`
	_, err := s.conn.Exec(schema)
	return err
}

// storedResult and storedEvent add the run key to the shared row types.
type storedResult struct {
	RunID string `db:"run_id"`
	AgentResult
}

type storedEvent struct {
	RunID string `db:"run_id"`
	EventRecord
}

// SaveRun writes the run header, its results and its events in one transaction.
func (s *Store) SaveRun(run RunRecord, results []AgentResult, events []EventRecord) error {
	tx, err := s.conn.Beginx()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.NamedExec(`INSERT INTO runs
		(id, seed, grid_size, ticks, level, winner, started_at)
		VALUES (:id, :seed, :grid_size, :ticks, :level, :winner, :started_at)`, run); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	for _, r := range results {
		row := storedResult{RunID: run.ID, AgentResult: r}
		if _, err := tx.NamedExec(`INSERT INTO results
			(run_id, agent, score, length, alive, cooperative, eaten, broadcasts, died_at)
			VALUES (:run_id, :agent, :score, :length, :alive, :cooperative, :eaten, :broadcasts, :died_at)`, row); err != nil {
			return fmt.Errorf("insert result %d: %w", r.ID, err)
		}
	}

	stmt, err := tx.PrepareNamed(`INSERT INTO events
		(run_id, step, kind, action, agent, x, y, extra)
		VALUES (:run_id, :step, :kind, :action, :agent, :x, :y, :extra)`)
	if err != nil {
		return fmt.Errorf("prepare events: %w", err)
	}
	defer stmt.Close()

	for _, e := range events {
		if _, err := stmt.Exec(storedEvent{RunID: run.ID, EventRecord: e}); err != nil {
			return fmt.Errorf("insert event: %w", err)
		}
	}

	return tx.Commit()
}

// Runs returns every stored run header, oldest first.
func (s *Store) Runs() ([]RunRecord, error) {
	var runs []RunRecord
	if err := s.conn.Select(&runs, `SELECT id, seed, grid_size, ticks, level, winner, started_at
		FROM runs ORDER BY started_at, id`); err != nil {
		return nil, fmt.Errorf("select runs: %w", err)
	}
	return runs, nil
}

// Results returns the stored results of one run ordered by agent ID.
func (s *Store) Results(runID string) ([]AgentResult, error) {
	var results []AgentResult
	if err := s.conn.Select(&results, `SELECT agent, score, length, alive, cooperative, eaten, broadcasts, died_at
		FROM results WHERE run_id = ? ORDER BY agent`, runID); err != nil {
		return nil, fmt.Errorf("select results: %w", err)
	}
	return results, nil
}

// EventCount returns how many events were stored for a run.
func (s *Store) EventCount(runID string) (int, error) {
	var n int
	if err := s.conn.Get(&n, `SELECT COUNT(*) FROM events WHERE run_id = ?`, runID); err != nil {
		return 0, fmt.Errorf("count events: %w", err)
	}
	return n, nil
}
