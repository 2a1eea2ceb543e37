package runner

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"YahooPrices/internal/collector"
	"YahooPrices/internal/config"
	"YahooPrices/internal/logging"
	"YahooPrices/internal/model"
	"YahooPrices/internal/recorder"
	"YahooPrices/internal/runstate"
)

type sentMail struct {
	Subject string
	Body    string
}

type fakeNotifier struct {
	Sent []sentMail
}

func (f *fakeNotifier) Send(subject, body string) error {
	f.Sent = append(f.Sent, sentMail{Subject: subject, Body: body})
	return nil
}

type captureRecorder struct {
	Runs []recorder.RunSummary
}

func (c *captureRecorder) RecordRun(sum *recorder.RunSummary) error {
	c.Runs = append(c.Runs, *sum)
	return nil
}

func (c *captureRecorder) Close() error { return nil }

type fixture struct {
	Runner *Runner
	Cfg    *config.Config
	Mail   *fakeNotifier
	Store  *runstate.MemStore
	Runs   *captureRecorder
}

func newFixture(t *testing.T, symbols []string, mock *collector.MockFetcher) *fixture {
	t.Helper()
	log, err := logging.New(logging.LevelNone, logging.LevelNone, "", 0)
	require.NoError(t, err)

	cfg := &config.Config{}
	cfg.Yahoo.Symbols = symbols
	cfg.Yahoo.Period = "1mo"
	cfg.Yahoo.Interval = "1d"
	cfg.Files.OutputCSV = filepath.Join(t.TempDir(), "prices.csv")

	mail := &fakeNotifier{}
	store := &runstate.MemStore{}
	runs := &captureRecorder{}
	tracker := runstate.NewTracker(store, mail, log)

	return &fixture{
		Runner: New(cfg, log, mock, tracker, runs),
		Cfg:    cfg,
		Mail:   mail,
		Store:  store,
		Runs:   runs,
	}
}

func dayBar(date string, close float64) model.Bar {
	d, _ := time.Parse("2006-01-02", date)
	return model.Bar{Date: d, Open: close, High: close, Low: close, Close: close, Volume: 1000}
}

func cleanFetch() *collector.MockFetcher {
	return &collector.MockFetcher{
		Result: model.FetchResult{
			Status: model.FetchOK,
			Series: map[string]model.Series{
				"AAPL": {Symbol: "AAPL", Bars: []model.Bar{dayBar("2024-01-02", 100)}},
				"MSFT": {Symbol: "MSFT", Bars: []model.Bar{dayBar("2024-01-02", 50)}},
			},
		},
		Meta: map[string]model.SymbolMetadata{
			"AAPL": {Name: "Apple Inc", Currency: "USD"},
			"MSFT": {Name: "Microsoft Corp", Currency: "USD"},
		},
	}
}

func TestRun_CleanRunWritesCSV(t *testing.T) {
	f := newFixture(t, []string{"AAPL", "MSFT"}, cleanFetch())

	code := f.Runner.Run()
	assert.Equal(t, 0, code)
	assert.Empty(t, f.Mail.Sent)
	assert.False(t, f.Store.Failing)

	data, err := os.ReadFile(f.Cfg.Files.OutputCSV)
	require.NoError(t, err)
	want := "Symbol,Date,Name,Currency,Price\n" +
		"AAPL,2024-01-02,Apple Inc,USD,100.00\n" +
		"MSFT,2024-01-02,Microsoft Corp,USD,50.00\n"
	assert.Equal(t, want, string(data))

	require.Len(t, f.Runs.Runs, 1)
	assert.Equal(t, "ok", f.Runs.Runs[0].Status)
	assert.Equal(t, 2, f.Runs.Runs[0].RowsWritten)
}

func TestRun_RateLimitedRunWritesNoCSVAndNotifiesOnce(t *testing.T) {
	mock := &collector.MockFetcher{
		Result: model.FetchResult{
			Status: model.FetchRateLimited,
			Errors: []model.ProviderError{{Symbol: "AAPL", Message: "YFRateLimitError: yahoo returned status 429"}},
		},
	}
	f := newFixture(t, []string{"AAPL", "MSFT"}, mock)

	code := f.Runner.Run()
	assert.Equal(t, 1, code)

	_, err := os.Stat(f.Cfg.Files.OutputCSV)
	assert.True(t, os.IsNotExist(err), "fatal fetch must not write a CSV")

	require.Len(t, f.Mail.Sent, 1)
	assert.Contains(t, f.Mail.Sent[0].Body, "rate limit")
	assert.True(t, f.Store.Failing)

	// Second identical failing run: failure recorded, no duplicate email.
	code = f.Runner.Run()
	assert.Equal(t, 1, code)
	assert.Len(t, f.Mail.Sent, 1)
}

func TestRun_RecoveryAfterFailure(t *testing.T) {
	f := newFixture(t, []string{"AAPL", "MSFT"}, cleanFetch())
	require.NoError(t, f.Store.Set("previous run failed"))

	code := f.Runner.Run()
	assert.Equal(t, 0, code)
	require.Len(t, f.Mail.Sent, 1)
	assert.Equal(t, "Run recovery", f.Mail.Sent[0].Subject)
	assert.False(t, f.Store.Failing)

	// A second clean run stays quiet.
	code = f.Runner.Run()
	assert.Equal(t, 0, code)
	assert.Len(t, f.Mail.Sent, 1)
}

func TestRun_DownloadErrorsStillWriteCSVButFailTheRun(t *testing.T) {
	mock := cleanFetch()
	mock.Result.Errors = []model.ProviderError{
		{Symbol: "BAD", Message: "No data found, symbol may be delisted"},
	}
	mock.Result.Series["BAD"] = model.Series{Symbol: "BAD"}
	f := newFixture(t, []string{"AAPL", "MSFT", "BAD"}, mock)

	code := f.Runner.Run()
	assert.Equal(t, 1, code)

	// Healthy symbols are still written.
	data, err := os.ReadFile(f.Cfg.Files.OutputCSV)
	require.NoError(t, err)
	assert.Contains(t, string(data), "AAPL,2024-01-02")
	assert.NotContains(t, string(data), "BAD")

	require.Len(t, f.Mail.Sent, 1)
	assert.Equal(t, "Problems with Yahoo stock download", f.Mail.Sent[0].Subject)
	assert.Contains(t, f.Mail.Sent[0].Body, "errors reported with 1 stocks")
	assert.Contains(t, f.Mail.Sent[0].Body, "Symbol: BAD")
}

func TestRun_ExtractErrorsFailTheRun(t *testing.T) {
	mock := cleanFetch()
	// A dateless bar aborts that symbol's extraction.
	mock.Result.Series["MSFT"] = model.Series{Symbol: "MSFT", Bars: []model.Bar{{Close: 50}}}
	f := newFixture(t, []string{"AAPL", "MSFT"}, mock)

	code := f.Runner.Run()
	assert.Equal(t, 1, code)

	require.Len(t, f.Mail.Sent, 1)
	assert.Contains(t, f.Mail.Sent[0].Body, "errors with 1 stocks when extracting")

	require.Len(t, f.Runs.Runs, 1)
	assert.Equal(t, "extract_errors", f.Runs.Runs[0].Status)
	assert.Equal(t, 1, f.Runs.Runs[0].ExtractErrors)
}
