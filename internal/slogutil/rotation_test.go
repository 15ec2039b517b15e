package slogutil

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseSize(t *testing.T) {
	tests := []struct {
		input    string
		expected int64
	}{
		{"", 0},
		{"invalid", 0},
		{"-5MB", 0},
		{"100", 100},
		{"100B", 100},
		{"100b", 100},
		{"1KB", 1024},
		{"10 kb", 10240},
		{"1MB", 1024 * 1024},
		{"10MB", 10 * 1024 * 1024},
		{"1GB", 1024 * 1024 * 1024},
		{"1.5MB", int64(1.5 * 1024 * 1024)},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseSize(tt.input); got != tt.expected {
				t.Errorf("ParseSize(%q) = %d, want %d", tt.input, got, tt.expected)
			}
		})
	}
}

func TestRotatingFile_Write(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "test.log")

	rf, err := OpenRotatingFile(path, 100, 2)
	if err != nil {
		t.Fatalf("OpenRotatingFile failed: %v", err)
	}
	defer rf.Close()

	if _, err := rf.Write([]byte("hello world\n")); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("log file should exist: %v", err)
	}
}

func TestRotatingFile_Rotation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.log")

	rf, err := OpenRotatingFile(path, 50, 2)
	if err != nil {
		t.Fatalf("OpenRotatingFile failed: %v", err)
	}

	line := []byte(strings.Repeat("a", 29) + "\n")
	for i := 0; i < 5; i++ {
		if _, err := rf.Write(line); err != nil {
			t.Fatalf("Write %d failed: %v", i, err)
		}
	}
	if err := rf.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	for _, p := range []string{path, path + ".1", path + ".2"} {
		if _, err := os.Stat(p); err != nil {
			t.Errorf("%s should exist: %v", filepath.Base(p), err)
		}
	}
	if _, err := os.Stat(path + ".3"); !os.IsNotExist(err) {
		t.Error("backups beyond maxBackups should be removed")
	}
}

func TestRotatingFile_WriteAfterClose(t *testing.T) {
	rf, err := OpenRotatingFile(filepath.Join(t.TempDir(), "x.log"), 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	_ = rf.Close()

	if _, err := rf.Write([]byte("late")); err == nil {
		t.Error("Write after Close should fail")
	}
}

func TestLoggerFactory_ConsoleOnly(t *testing.T) {
	root := t.TempDir()
	var console bytes.Buffer

	f := NewLoggerFactory(root, FileOptions{Enabled: false})
	defer f.Close()

	f.CLILogger(&console, slog.LevelInfo).Info("hello")

	if !strings.Contains(console.String(), "hello") {
		t.Errorf("console should receive the record, got: %s", console.String())
	}
	if _, err := os.Stat(filepath.Join(root, ".vkfcheck", "logs")); !os.IsNotExist(err) {
		t.Error("logs dir should not be created when the file is disabled")
	}
}

func TestLoggerFactory_TeeToFile(t *testing.T) {
	root := t.TempDir()
	var console bytes.Buffer

	f := NewLoggerFactory(root, FileOptions{Enabled: true, Level: "debug", MaxSize: "1MB", MaxBackups: 1})
	logger := f.CLILogger(&console, slog.LevelWarn)

	logger.Debug("file only")
	logger.Warn("both")
	if err := f.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	data, err := os.ReadFile(filepath.Join(root, ".vkfcheck", "logs", "vkfcheck.log"))
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	if !strings.Contains(string(data), "file only") || !strings.Contains(string(data), "both") {
		t.Errorf("log file = %q, want both records", data)
	}
	if strings.Contains(console.String(), "file only") {
		t.Error("console should filter below its level")
	}
}
