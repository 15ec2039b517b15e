package testutil

import (
	"bytes"
	"strings"
)

// NormalizeText makes text output comparable across platforms: CRLF becomes
// LF, trailing spaces are trimmed from every line, and the result ends with
// exactly one newline.
func NormalizeText(data []byte) []byte {
	s := strings.ReplaceAll(string(data), "\r\n", "\n")
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")

	var buf bytes.Buffer
	for _, line := range lines {
		buf.WriteString(strings.TrimRight(line, " \t"))
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}

// ScrubPath replaces every occurrence of path with placeholder so golden
// files do not depend on the checkout location.
func ScrubPath(data []byte, path, placeholder string) []byte {
	if path == "" {
		return data
	}
	return bytes.ReplaceAll(data, []byte(path), []byte(placeholder))
}
