package paths

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLayout(t *testing.T) {
	root := filepath.Join("work", "site")

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"data dir", GetDataDir(root), filepath.Join(root, ".vkfcheck")},
		{"config", GetConfigPath(root), filepath.Join(root, ".vkfcheck", "config.json")},
		{"database", GetDatabasePath(root), filepath.Join(root, ".vkfcheck", "vkfcheck.db")},
		{"logs dir", GetLogsDir(root), filepath.Join(root, ".vkfcheck", "logs")},
		{"log file", GetLogPath(root), filepath.Join(root, ".vkfcheck", "logs", "vkfcheck.log")},
		{"project", GetProjectPath(root), filepath.Join(root, "project.toml")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %q, want %q", tt.got, tt.want)
			}
		})
	}
}

func TestEnsureDataDir(t *testing.T) {
	root := t.TempDir()

	dir, err := EnsureDataDir(root)
	if err != nil {
		t.Fatalf("EnsureDataDir() error = %v", err)
	}
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		t.Fatalf("data dir not created: %v", err)
	}

	// Idempotent
	if _, err := EnsureDataDir(root); err != nil {
		t.Errorf("second EnsureDataDir() error = %v", err)
	}
}

func TestEnsureLogsDir(t *testing.T) {
	root := t.TempDir()

	dir, err := EnsureLogsDir(root)
	if err != nil {
		t.Fatalf("EnsureLogsDir() error = %v", err)
	}
	if dir != GetLogsDir(root) {
		t.Errorf("EnsureLogsDir() = %q, want %q", dir, GetLogsDir(root))
	}
}

func TestCanonicalizePath(t *testing.T) {
	root := t.TempDir()
	inside := filepath.Join(root, "models", "house.ifc")
	if err := os.MkdirAll(filepath.Dir(inside), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(inside, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	got, err := CanonicalizePath(inside, root)
	if err != nil {
		t.Fatalf("CanonicalizePath() error = %v", err)
	}
	if got != "models/house.ifc" {
		t.Errorf("CanonicalizePath() = %q, want %q", got, "models/house.ifc")
	}

	outside := t.TempDir()
	got, err = CanonicalizePath(filepath.Join(outside, "other.ifc"), root)
	if err != nil {
		t.Fatalf("CanonicalizePath() error = %v", err)
	}
	if !filepath.IsAbs(filepath.FromSlash(got)) {
		t.Errorf("CanonicalizePath() = %q, want absolute path for file outside root", got)
	}
}

func TestFileExists(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "a.ifc")
	if err := os.WriteFile(file, nil, 0644); err != nil {
		t.Fatal(err)
	}

	if !FileExists(file) {
		t.Error("FileExists(file) = false, want true")
	}
	if FileExists(dir) {
		t.Error("FileExists(dir) = true, want false")
	}
	if FileExists(filepath.Join(dir, "missing.ifc")) {
		t.Error("FileExists(missing) = true, want false")
	}
}
