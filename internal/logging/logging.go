// Package logging implements the leveled console/logfile logger used across
// the downloader. Verbosity is a seven-step ladder; the console and the log
// file each have their own threshold, and a message is emitted on a sink only
// when that sink's threshold is at or above the message level.
package logging

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"
)

// Level is a verbosity rung. Higher values are chattier.
type Level int

const (
	LevelNone Level = iota
	LevelError
	LevelWarning
	LevelSummary
	LevelDetailed
	LevelDebug
	LevelAll
)

var levelNames = map[string]Level{
	"none":     LevelNone,
	"error":    LevelError,
	"warning":  LevelWarning,
	"summary":  LevelSummary,
	"detailed": LevelDetailed,
	"debug":    LevelDebug,
	"all":      LevelAll,
}

// ParseLevel converts a config verbosity token into a Level.
func ParseLevel(s string) (Level, error) {
	if lvl, ok := levelNames[strings.ToLower(s)]; ok {
		return lvl, nil
	}
	return LevelNone, fmt.Errorf("invalid verbosity %q", s)
}

// Logger writes to the console and, when a path is configured, appends to a
// plain-text log file. Safe for use from a single run; the mutex only guards
// interleaved writes from helper goroutines inside the HTTP client.
type Logger struct {
	mu      sync.Mutex
	console Level
	file    Level
	path    string
}

// New creates a Logger and trims the log file to maxLines if it already
// exists. An empty path disables the file sink.
func New(console, file Level, path string, maxLines int) (*Logger, error) {
	l := &Logger{console: console, file: file, path: path}
	if path != "" && maxLines > 0 {
		if err := trimFile(path, maxLines); err != nil {
			return nil, fmt.Errorf("trim log file: %w", err)
		}
	}
	return l, nil
}

// Log emits msg at the given level on whichever sinks accept it.
func (l *Logger) Log(level Level, msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.console >= level && l.console > LevelNone {
		switch level {
		case LevelError:
			fmt.Fprintln(os.Stderr, "ERROR: "+msg)
		case LevelWarning:
			fmt.Println("WARNING: " + msg)
		default:
			fmt.Println(msg)
		}
	}

	if l.path != "" && l.file >= level && l.file > LevelNone {
		tag := ""
		switch level {
		case LevelError:
			tag = " ERROR"
		case LevelWarning:
			tag = " WARNING"
		}
		line := fmt.Sprintf("%s%s: %s\n", time.Now().Format("2006-01-02 15:04:05"), tag, msg)
		f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: open log file: %v\n", err)
			return
		}
		defer f.Close()
		if _, err := f.WriteString(line); err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: write log file: %v\n", err)
		}
	}
}

// Logf is Log with fmt.Sprintf formatting.
func (l *Logger) Logf(level Level, format string, args ...any) {
	l.Log(level, fmt.Sprintf(format, args...))
}

// trimFile keeps only the last maxLines lines of the file at path.
func trimFile(path string, maxLines int) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	if len(lines) <= maxLines {
		return nil
	}
	keep := lines[len(lines)-maxLines:]
	return os.WriteFile(path, []byte(strings.Join(keep, "\n")+"\n"), 0644)
}
