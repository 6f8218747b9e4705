package metapop

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/google/uuid"
)

// HistoryRecorder appends one row per driver cycle to a SQLite file for
// post-run human inspection. This is write-only observability history —
// explicitly not metapopulation-state persistence: it is never read back
// to reconstruct the store, visited set, or any in-flight cycle.
type HistoryRecorder struct {
	db      *sql.DB
	runID   uuid.UUID
	lastErr error
}

// NewHistoryRecorder opens (creating if needed) a SQLite history file at
// path and prepares the cycle_history table.
func NewHistoryRecorder(path string) (*HistoryRecorder, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("history: open %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("history: enable WAL: %w", err)
	}

	const schema = `
	CREATE TABLE IF NOT EXISTS cycle_history (
		run_id TEXT NOT NULL,
		cycle INTEGER NOT NULL,
		total_evals INTEGER NOT NULL,
		best_score REAL NOT NULL,
		best_complexity INTEGER NOT NULL,
		pop_size INTEGER NOT NULL,
		recorded_at INTEGER NOT NULL,
		PRIMARY KEY (run_id, cycle)
	);
	`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("history: create schema: %w", err)
	}

	return &HistoryRecorder{db: db, runID: uuid.New()}, nil
}

// ObserveCycle implements metapop.CycleObserver, writing one row per
// completed cycle. Errors are not returned to the driver — a failed
// history write must never abort a search run — but are available via
// LastError for callers that want to surface them.
func (h *HistoryRecorder) ObserveCycle(ctx context.Context, cycle, totalEvals int, best Composite, popSize int) {
	_, err := h.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO cycle_history
		 (run_id, cycle, total_evals, best_score, best_complexity, pop_size, recorded_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		h.runID.String(), cycle, totalEvals, best.S, best.C, popSize, time.Now().UnixNano(),
	)
	h.lastErr = err
}

// LastError returns the error from the most recent ObserveCycle write, if
// any.
func (h *HistoryRecorder) LastError() error { return h.lastErr }

// Close closes the underlying database handle.
func (h *HistoryRecorder) Close() error { return h.db.Close() }
