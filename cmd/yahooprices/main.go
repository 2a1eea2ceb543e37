package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"YahooPrices/internal/collector"
	"YahooPrices/internal/config"
	"YahooPrices/internal/logging"
	"YahooPrices/internal/notifier"
	"YahooPrices/internal/recorder"
	"YahooPrices/internal/runner"
	"YahooPrices/internal/runstate"
)

func main() {
	// os.Exit skips defers, so the real work happens in run.
	os.Exit(run())
}

func run() int {
	// Optional .env for SMTP credentials and other overrides.
	_ = godotenv.Load()

	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration file error: %v\n", err)
		return 1
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Configuration file error: %v\n", err)
		return 1
	}

	// Verbosity tokens were validated with the config.
	consoleLevel, _ := logging.ParseLevel(cfg.Files.ConsoleVerbosity)
	fileLevel, _ := logging.ParseLevel(cfg.Files.LogfileVerbosity)
	log, err := logging.New(consoleLevel, fileLevel, cfg.Files.LogfileName, cfg.Files.LogfileMaxLines)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Logger initialisation error: %v\n", err)
		return 1
	}

	fetcher := collector.NewYahooFetcher(cfg.Proxy, log)
	mailer := notifier.NewEmailNotifier(cfg.Email, log)
	tracker := runstate.NewTracker(runstate.NewFileStore(cfg.Files.FatalErrorFile), mailer, log)

	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.Logf(logging.LevelWarning, "Run history recorder unavailable, continuing without it: %v", err)
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
			defer sr.Close()
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	r := runner.New(cfg, log, fetcher, tracker, rec)
	return r.Run()
}
