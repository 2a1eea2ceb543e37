package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"YahooPrices/internal/logging"
)

// YahooConfig selects what to download.
type YahooConfig struct {
	Symbols  []string `yaml:"symbols"`
	Period   string   `yaml:"period"`
	Interval string   `yaml:"interval"`
}

// FilesConfig holds output and logging paths.
type FilesConfig struct {
	OutputCSV        string `yaml:"output_csv"`
	LogfileName      string `yaml:"logfile_name"`
	LogfileMaxLines  int    `yaml:"logfile_max_lines"`
	LogfileVerbosity string `yaml:"logfile_verbosity"`
	ConsoleVerbosity string `yaml:"console_verbosity"`
	FatalErrorFile   string `yaml:"fatal_error_file"`
}

// EmailConfig holds SMTP transport settings for failure notifications.
type EmailConfig struct {
	EnableEmail   bool   `yaml:"enable_email"`
	SendEmailsTo  string `yaml:"send_emails_to"`
	SMTPServer    string `yaml:"smtp_server"`
	SMTPPort      int    `yaml:"smtp_port"`
	SMTPUsername  string `yaml:"smtp_username"`
	SMTPPassword  string `yaml:"smtp_password"`
	SubjectPrefix string `yaml:"subject_prefix"`
}

// DatabaseConfig holds the optional run-history database location.
type DatabaseConfig struct {
	SQLitePath string `yaml:"sqlite_path"`
}

// Config holds all application configuration.
type Config struct {
	Yahoo    YahooConfig    `yaml:"yahoo"`
	Files    FilesConfig    `yaml:"files"`
	Email    EmailConfig    `yaml:"email"`
	Database DatabaseConfig `yaml:"database"`
	Proxy    string         `yaml:"proxy"`
}

var validPeriods = map[string]bool{
	"1d": true, "5d": true, "1mo": true, "3mo": true, "6mo": true,
	"1y": true, "2y": true, "5y": true, "10y": true, "ytd": true, "max": true,
}

var validIntervals = map[string]bool{
	"1m": true, "2m": true, "5m": true, "15m": true, "30m": true,
	"60m": true, "90m": true, "1d": true, "5d": true, "1wk": true,
	"1mo": true, "3mo": true,
}

// Values still carrying their distribution placeholders are treated as
// unedited and rejected by Validate.
var placeholders = map[string]bool{
	"<Your email address here>": true,
	"<Your SMTP username here>": true,
	"<Your SMTP password here>": true,
}

// Load reads config from a YAML file, then applies environment variable
// overrides. A missing file is not an error; defaults apply.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("YAHOO_SYMBOLS"); v != "" {
		cfg.Yahoo.Symbols = splitSymbols(v)
	}
	if v := os.Getenv("SMTP_SERVER"); v != "" {
		cfg.Email.SMTPServer = v
	}
	if v := os.Getenv("SMTP_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Email.SMTPPort = port
		}
	}
	if v := os.Getenv("SMTP_USERNAME"); v != "" {
		cfg.Email.SMTPUsername = v
	}
	if v := os.Getenv("SMTP_PASSWORD"); v != "" {
		cfg.Email.SMTPPassword = v
	}
	if v := os.Getenv("SEND_EMAILS_TO"); v != "" {
		cfg.Email.SendEmailsTo = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}

	// Defaults
	if len(cfg.Yahoo.Symbols) == 0 {
		cfg.Yahoo.Symbols = []string{"AAPL", "MSFT", "GOOGL"}
	}
	if cfg.Yahoo.Period == "" {
		cfg.Yahoo.Period = "1mo"
	}
	if cfg.Yahoo.Interval == "" {
		cfg.Yahoo.Interval = "1d"
	}
	if cfg.Files.OutputCSV == "" {
		cfg.Files.OutputCSV = "yahoo_prices.csv"
	}
	if cfg.Files.LogfileName == "" {
		cfg.Files.LogfileName = "YahooFinance.log"
	}
	if cfg.Files.LogfileMaxLines == 0 {
		cfg.Files.LogfileMaxLines = 500
	}
	if cfg.Files.LogfileVerbosity == "" {
		cfg.Files.LogfileVerbosity = "detailed"
	}
	if cfg.Files.ConsoleVerbosity == "" {
		cfg.Files.ConsoleVerbosity = "summary"
	}
	if cfg.Files.FatalErrorFile == "" {
		cfg.Files.FatalErrorFile = "FatalErrorTracking.txt"
	}

	return cfg, nil
}

// Validate checks that all required fields are set and every enumerated
// field carries a recognized token.
func (c *Config) Validate() error {
	if len(c.Yahoo.Symbols) == 0 {
		return fmt.Errorf("yahoo.symbols is required")
	}
	for _, s := range c.Yahoo.Symbols {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("yahoo.symbols contains an empty symbol")
		}
	}
	if c.Yahoo.Period != "" && !validPeriods[c.Yahoo.Period] {
		return fmt.Errorf("yahoo.period %q is not a valid period", c.Yahoo.Period)
	}
	if c.Yahoo.Interval != "" && !validIntervals[c.Yahoo.Interval] {
		return fmt.Errorf("yahoo.interval %q is not a valid interval", c.Yahoo.Interval)
	}
	if c.Files.OutputCSV == "" {
		return fmt.Errorf("files.output_csv is required")
	}
	if _, err := logging.ParseLevel(c.Files.LogfileVerbosity); err != nil {
		return fmt.Errorf("files.logfile_verbosity: %w", err)
	}
	if _, err := logging.ParseLevel(c.Files.ConsoleVerbosity); err != nil {
		return fmt.Errorf("files.console_verbosity: %w", err)
	}
	if c.Files.LogfileMaxLines < 0 || c.Files.LogfileMaxLines > 100000 {
		return fmt.Errorf("files.logfile_max_lines must be between 0 and 100000")
	}
	return c.validateEmail()
}

func (c *Config) validateEmail() error {
	for _, v := range []string{c.Email.SendEmailsTo, c.Email.SMTPUsername, c.Email.SMTPPassword} {
		if placeholders[strings.TrimSpace(v)] {
			return fmt.Errorf("email config value is still set to placeholder %q", v)
		}
	}
	if !c.Email.EnableEmail {
		return nil
	}
	if c.Email.SendEmailsTo == "" {
		return fmt.Errorf("email.send_emails_to is required when email is enabled")
	}
	if c.Email.SMTPServer == "" {
		return fmt.Errorf("email.smtp_server is required when email is enabled")
	}
	if c.Email.SMTPPort < 25 || c.Email.SMTPPort > 1000 {
		return fmt.Errorf("email.smtp_port must be between 25 and 1000")
	}
	if c.Email.SMTPUsername == "" {
		return fmt.Errorf("email.smtp_username is required when email is enabled")
	}
	if c.Email.SMTPPassword == "" {
		return fmt.Errorf("email.smtp_password is required when email is enabled")
	}
	return nil
}

func splitSymbols(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
