// Package runner drives one download-extract-write cycle and owns the
// failure/recovery notification decisions.
package runner

import (
	"fmt"

	"YahooPrices/internal/collector"
	"YahooPrices/internal/config"
	"YahooPrices/internal/csvout"
	"YahooPrices/internal/extract"
	"YahooPrices/internal/logging"
	"YahooPrices/internal/model"
	"YahooPrices/internal/notifier"
	"YahooPrices/internal/recorder"
	"YahooPrices/internal/runstate"
)

const (
	fatalSubject = "YahooPrices terminated with a fatal error"
	errorSubject = "Problems with Yahoo stock download"
)

// Runner orchestrates one run: fetch, extract, write, notify.
type Runner struct {
	Cfg      *config.Config
	Log      *logging.Logger
	Fetcher  collector.Fetcher
	Tracker  *runstate.Tracker
	Recorder recorder.Recorder
}

// New creates a Runner.
func New(cfg *config.Config, log *logging.Logger, f collector.Fetcher, t *runstate.Tracker, rec recorder.Recorder) *Runner {
	return &Runner{Cfg: cfg, Log: log, Fetcher: f, Tracker: t, Recorder: rec}
}

// Run executes one complete cycle and returns the process exit code:
// 0 for a clean run, 1 when the run recorded a new or ongoing failure.
func (r *Runner) Run() int {
	symbols := r.Cfg.Yahoo.Symbols
	r.Log.Log(logging.LevelSummary, "Starting Yahoo Finance downloader.")
	r.Log.Logf(logging.LevelDebug, "Fetching data for symbols: %v", symbols)

	res := r.Fetcher.Download(symbols, r.Cfg.Yahoo.Period, r.Cfg.Yahoo.Interval)
	if !res.OK() {
		// No CSV is written on a fatal fetch; the previous output stays.
		return r.fail(res.Status.String(), len(res.Errors), 0, 0, r.fatalMessage(res), fatalSubject)
	}

	records, extractErrors := extract.Records(r.Log, res.Series, symbols, res.Errors, r.Fetcher.Metadata)

	if err := csvout.Write(r.Cfg.Files.OutputCSV, records); err != nil {
		msg := fmt.Sprintf("An unexpected error occurred while writing: %v", err)
		return r.fail("write_failed", len(res.Errors), extractErrors, 0, msg, fatalSubject)
	}
	r.Log.Logf(logging.LevelDetailed, "Wrote %d records to %s", len(records), r.Cfg.Files.OutputCSV)

	// Download errors take priority over extraction errors; the two triggers
	// are mutually exclusive.
	if len(res.Errors) > 0 {
		msg := notifier.FormatDownloadFailure(res.Errors)
		return r.fail("download_errors", len(res.Errors), extractErrors, len(records), msg, errorSubject)
	}
	if extractErrors > 0 {
		msg := notifier.FormatExtractFailure(extractErrors)
		return r.fail("extract_errors", 0, extractErrors, len(records), msg, errorSubject)
	}

	r.record(&recorder.RunSummary{
		Status:           "ok",
		SymbolsRequested: len(symbols),
		RowsWritten:      len(records),
	})
	r.Log.Log(logging.LevelSummary, "Data extracted and saved to file successfully.")

	if err := r.Tracker.Success(); err != nil {
		// A failed recovery notification is itself fatal; exit non-zero
		// rather than retrying.
		r.Log.Logf(logging.LevelError, "FATAL ERROR: %v", err)
		return 1
	}
	return 0
}

// fail logs the failure, records it in run history, drives the notification
// state machine and returns the exit code.
func (r *Runner) fail(status string, downloadErrors, extractErrors, rowsWritten int, msg, subject string) int {
	r.Log.Logf(logging.LevelError, "FATAL ERROR: %s", msg)

	r.record(&recorder.RunSummary{
		Status:           status,
		SymbolsRequested: len(r.Cfg.Yahoo.Symbols),
		RowsWritten:      rowsWritten,
		DownloadErrors:   downloadErrors,
		ExtractErrors:    extractErrors,
		Message:          msg,
	})

	if err := r.Tracker.Failure(subject, msg); err != nil {
		r.Log.Logf(logging.LevelError, "FATAL ERROR: %v", err)
	}
	return 1
}

func (r *Runner) record(sum *recorder.RunSummary) {
	if err := r.Recorder.RecordRun(sum); err != nil {
		r.Log.Logf(logging.LevelError, "Failed to record run history: %v", err)
	}
}

func (r *Runner) fatalMessage(res model.FetchResult) string {
	switch res.Status {
	case model.FetchEmpty:
		return "No data returned. Check if the parameters (e.g., period, interval) are valid."
	case model.FetchMissingSymbol:
		return fmt.Sprintf("Symbol %s not found in the returned data.", res.Symbol)
	case model.FetchMissingColumns:
		return fmt.Sprintf("Missing expected columns for symbol %s. Data might be incomplete.", res.Symbol)
	case model.FetchRateLimited:
		return "Yahoo Finance rate limit error. Please try again later."
	case model.FetchInvalidInterval:
		return fmt.Sprintf("Yahoo Finance API called with invalid interval: %s.", r.Cfg.Yahoo.Interval)
	case model.FetchInvalidPeriod:
		return fmt.Sprintf("Yahoo Finance API called with invalid period: %s.", r.Cfg.Yahoo.Period)
	case model.FetchTransportError:
		return fmt.Sprintf("Exception caught when fetching data from Yahoo Finance: %s", res.Detail)
	default:
		return fmt.Sprintf("Yahoo Finance download failed with status %s.", res.Status)
	}
}
