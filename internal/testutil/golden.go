package testutil

import (
	"bytes"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// updateGolden controls whether golden files should be updated.
// Use: go test ./... -run Golden -update
var updateGolden = flag.Bool("update", false, "update golden files")

// ShouldUpdate returns true if golden files should be updated.
func ShouldUpdate() bool {
	return *updateGolden
}

// CompareGolden compares got against testdata/golden/<name>, failing with a
// diff on mismatch. Both sides go through NormalizeText. With -update the
// golden file is rewritten instead.
func CompareGolden(t *testing.T, name string, got []byte) {
	t.Helper()

	normalized := NormalizeText(got)
	goldenPath := GoldenPath(t, name)

	if *updateGolden {
		if err := os.MkdirAll(filepath.Dir(goldenPath), 0o755); err != nil {
			t.Fatalf("Failed to create golden directory: %v", err)
		}
		if err := os.WriteFile(goldenPath, normalized, 0o644); err != nil {
			t.Fatalf("Failed to write golden file: %v", err)
		}
		t.Logf("Updated golden: %s", goldenPath)
		return
	}

	expected, err := os.ReadFile(goldenPath)
	if err != nil {
		if os.IsNotExist(err) {
			t.Fatalf("Golden file missing: %s\n\nGot:\n%s\nRun with -update to create:\n  go test ./... -run %s -update",
				goldenPath, normalized, t.Name())
		}
		t.Fatalf("Failed to read golden file: %v", err)
	}
	expected = NormalizeText(expected)

	if !bytes.Equal(normalized, expected) {
		t.Fatalf("Golden mismatch for %s:\n%s\nRun with -update to refresh:\n  go test ./... -run %s -update",
			name, lineDiff(string(expected), string(normalized), goldenPath), t.Name())
	}
}

// lineDiff lists differing lines by position. It is enough for the short
// reports compared here.
func lineDiff(expected, got, path string) string {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "--- %s (expected)\n+++ %s (got)\n", path, path)

	exp := strings.Split(strings.TrimRight(expected, "\n"), "\n")
	act := strings.Split(strings.TrimRight(got, "\n"), "\n")
	n := len(exp)
	if len(act) > n {
		n = len(act)
	}
	for i := 0; i < n; i++ {
		var e, g string
		if i < len(exp) {
			e = exp[i]
		}
		if i < len(act) {
			g = act[i]
		}
		if e == g {
			continue
		}
		fmt.Fprintf(&buf, "@@ line %d @@\n", i+1)
		if i < len(exp) {
			buf.WriteString("-" + e + "\n")
		}
		if i < len(act) {
			buf.WriteString("+" + g + "\n")
		}
	}
	return buf.String()
}
