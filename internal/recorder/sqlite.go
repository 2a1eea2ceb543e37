package recorder

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists run history to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs
// migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so external dashboards can read while a run writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS run_history (
			id                INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp         INTEGER NOT NULL,
			status            TEXT,
			symbols_requested INTEGER,
			rows_written      INTEGER,
			download_errors   INTEGER,
			extract_errors    INTEGER,
			message           TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_run_ts ON run_history(timestamp)`,
	}
	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordRun(sum *RunSummary) error {
	_, err := r.db.Exec(`INSERT INTO run_history
		(timestamp, status, symbols_requested, rows_written, download_errors, extract_errors, message)
		VALUES (?,?,?,?,?,?,?)`,
		time.Now().Unix(), sum.Status, sum.SymbolsRequested, sum.RowsWritten,
		sum.DownloadErrors, sum.ExtractErrors, sum.Message,
	)
	return err
}

func (r *SQLiteRecorder) Close() error {
	return r.db.Close()
}
