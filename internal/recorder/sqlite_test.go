package recorder

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteRecorder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.db")
	r, err := NewSQLiteRecorder(path)
	require.NoError(t, err)
	defer r.Close()

	require.NoError(t, r.RecordRun(&RunSummary{
		Status:           "ok",
		SymbolsRequested: 2,
		RowsWritten:      4,
	}))
	require.NoError(t, r.RecordRun(&RunSummary{
		Status:         "rate_limited",
		DownloadErrors: 1,
		Message:        "Yahoo Finance rate limit error. Please try again later.",
	}))

	var count int
	require.NoError(t, r.db.QueryRow("SELECT COUNT(*) FROM run_history").Scan(&count))
	assert.Equal(t, 2, count)

	var status string
	var rows int
	require.NoError(t, r.db.QueryRow(
		"SELECT status, rows_written FROM run_history ORDER BY id LIMIT 1").Scan(&status, &rows))
	assert.Equal(t, "ok", status)
	assert.Equal(t, 4, rows)
}

func TestSQLiteRecorder_ReopenKeepsHistory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.db")

	r, err := NewSQLiteRecorder(path)
	require.NoError(t, err)
	require.NoError(t, r.RecordRun(&RunSummary{Status: "ok"}))
	require.NoError(t, r.Close())

	r2, err := NewSQLiteRecorder(path)
	require.NoError(t, err)
	defer r2.Close()

	var count int
	require.NoError(t, r2.db.QueryRow("SELECT COUNT(*) FROM run_history").Scan(&count))
	assert.Equal(t, 1, count)
}
