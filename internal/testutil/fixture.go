// Package testutil provides shared fixtures and golden-file helpers for tests.
package testutil

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// ProjectRoot returns the absolute path of the module root.
func ProjectRoot(t *testing.T) string {
	t.Helper()

	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("Failed to get caller information")
	}
	// internal/testutil/fixture.go -> module root
	return filepath.Dir(filepath.Dir(filepath.Dir(thisFile)))
}

// ModelPath returns the path of a model fixture in testdata/models,
// failing the test when it does not exist.
func ModelPath(t *testing.T, name string) string {
	t.Helper()

	path := filepath.Join(ProjectRoot(t), "testdata", "models", name)
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("Model fixture not found: %s", path)
	}
	return path
}

// GoldenPath returns the path of a golden file in testdata/golden.
func GoldenPath(t *testing.T, name string) string {
	t.Helper()
	return filepath.Join(ProjectRoot(t), "testdata", "golden", name)
}

// CopyModel copies a model fixture into dir and returns the new path.
// Tests that write next to the model use it to keep testdata untouched.
func CopyModel(t *testing.T, name, dir string) string {
	t.Helper()

	data, err := os.ReadFile(ModelPath(t, name))
	if err != nil {
		t.Fatalf("Failed to read model fixture: %v", err)
	}
	dst := filepath.Join(dir, filepath.Base(name))
	if err := os.WriteFile(dst, data, 0o644); err != nil {
		t.Fatalf("Failed to copy model fixture: %v", err)
	}
	return dst
}
