// Package paths resolves the on-disk layout of a vkfcheck workspace.
//
// Everything lives below <root>/.vkfcheck:
//
//	config.json     viper configuration
//	vkfcheck.db     run history
//	logs/           log files
package paths

import (
	"os"
	"path/filepath"
	"strings"
)

const (
	// DataDirName is the per-workspace data directory.
	DataDirName = ".vkfcheck"
	// ConfigFileName is the configuration file inside the data directory.
	ConfigFileName = "config.json"
	// DatabaseFileName is the run history database inside the data directory.
	DatabaseFileName = "vkfcheck.db"
	// LogFileName is the CLI log file inside the logs directory.
	LogFileName = "vkfcheck.log"
	// ProjectFileName is the project description in the workspace root.
	ProjectFileName = "project.toml"
)

// GetDataDir returns <root>/.vkfcheck
func GetDataDir(root string) string {
	return filepath.Join(root, DataDirName)
}

// EnsureDataDir creates the data directory if needed and returns it.
func EnsureDataDir(root string) (string, error) {
	dir := GetDataDir(root)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	return dir, nil
}

// GetConfigPath returns <root>/.vkfcheck/config.json
func GetConfigPath(root string) string {
	return filepath.Join(GetDataDir(root), ConfigFileName)
}

// GetDatabasePath returns <root>/.vkfcheck/vkfcheck.db
func GetDatabasePath(root string) string {
	return filepath.Join(GetDataDir(root), DatabaseFileName)
}

// GetLogsDir returns <root>/.vkfcheck/logs
func GetLogsDir(root string) string {
	return filepath.Join(GetDataDir(root), "logs")
}

// EnsureLogsDir creates the logs directory if needed and returns it.
func EnsureLogsDir(root string) (string, error) {
	dir := GetLogsDir(root)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	return dir, nil
}

// GetLogPath returns <root>/.vkfcheck/logs/vkfcheck.log
func GetLogPath(root string) string {
	return filepath.Join(GetLogsDir(root), LogFileName)
}

// GetProjectPath returns <root>/project.toml
func GetProjectPath(root string) string {
	return filepath.Join(root, ProjectFileName)
}

// CanonicalizePath converts a model path into the form stored with a run:
// relative to root with forward slashes when the file lies inside root,
// otherwise absolute.
func CanonicalizePath(path string, root string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	rootAbs, err := filepath.Abs(root)
	if err != nil {
		return "", err
	}

	// Resolve symlinks where the target exists
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		abs = resolved
	}
	if resolved, err := filepath.EvalSymlinks(rootAbs); err == nil {
		rootAbs = resolved
	}

	rel, err := filepath.Rel(rootAbs, abs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return filepath.ToSlash(abs), nil
	}
	return filepath.ToSlash(rel), nil
}

// FileExists reports whether path names an existing regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
