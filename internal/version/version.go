// Package version holds build metadata for the vkfcheck binary.
package version

// Overridden at build time:
// go build -ldflags "-X vkfcheck/internal/version.Version=1.2.0 -X vkfcheck/internal/version.Commit=abc123"
var (
	Version   = "0.4.0"
	Commit    = "unknown"
	BuildDate = "unknown"
)

// Info returns the version with an abbreviated commit when one is known.
func Info() string {
	if Commit != "unknown" && len(Commit) > 7 {
		return Version + " (" + Commit[:7] + ")"
	}
	return Version
}

// Full returns the multi-line version banner.
func Full() string {
	return "vkfcheck " + Version + "\n" +
		"commit: " + Commit + "\n" +
		"built:  " + BuildDate
}
