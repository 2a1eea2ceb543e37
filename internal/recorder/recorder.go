package recorder

// RunSummary holds the outcome of one downloader run.
type RunSummary struct {
	Status           string // fetch status or "ok" / "errors"
	SymbolsRequested int
	RowsWritten      int
	DownloadErrors   int
	ExtractErrors    int
	Message          string
}

// Recorder persists run history for later analysis.
type Recorder interface {
	RecordRun(sum *RunSummary) error
	Close() error
}
