package slogutil

import (
	"io"
	"log/slog"

	"vkfcheck/internal/paths"
)

// FileOptions configures the optional log file below .vkfcheck/logs.
type FileOptions struct {
	Enabled    bool
	Format     string
	Level      string
	MaxSize    string
	MaxBackups int
}

// LoggerFactory builds the CLI logger. Precedence for the console level is
// the CLI flags; the log file uses its configured level unless the CLI asks
// for more detail.
type LoggerFactory struct {
	root    string
	file    FileOptions
	closers []io.Closer
}

// NewLoggerFactory creates a factory for the workspace at root.
func NewLoggerFactory(root string, file FileOptions) *LoggerFactory {
	return &LoggerFactory{root: root, file: file}
}

// CLILogger returns a logger writing to console at cliLevel, teed to
// <root>/.vkfcheck/logs/vkfcheck.log when the file is enabled. A log file
// that cannot be opened degrades to console-only logging.
func (f *LoggerFactory) CLILogger(console io.Writer, cliLevel slog.Level) *slog.Logger {
	consoleHandler := NewTextHandler(console, &slog.HandlerOptions{Level: cliLevel})
	if !f.file.Enabled || f.root == "" {
		return slog.New(consoleHandler)
	}

	if _, err := paths.EnsureLogsDir(f.root); err != nil {
		return slog.New(consoleHandler)
	}

	fileLevel := LevelFromString(f.file.Level)
	if cliLevel < fileLevel {
		fileLevel = cliLevel
	}

	rf, err := OpenRotatingFile(paths.GetLogPath(f.root), ParseSize(f.file.MaxSize), f.file.MaxBackups)
	if err != nil {
		logger := slog.New(consoleHandler)
		logger.Warn("log file unavailable, logging to console only", "error", err)
		return logger
	}
	f.closers = append(f.closers, rf)

	return slog.New(NewTeeHandler(consoleHandler, NewHandler(rf, f.file.Format, fileLevel)))
}

// Close closes all open log files.
func (f *LoggerFactory) Close() error {
	var firstErr error
	for _, c := range f.closers {
		if err := c.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	f.closers = nil
	return firstErr
}
