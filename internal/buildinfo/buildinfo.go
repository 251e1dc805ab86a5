// Package buildinfo holds build-time metadata injected via -ldflags.
package buildinfo

import "strings"

// Inject via: -X github.com/garyellow/protein-linebot-go/internal/buildinfo.<Name>=...
var (
	Version   = ""
	Commit    = ""
	BuildDate = ""
)

// Fields returns the non-empty build values as log attributes.
func Fields() map[string]string {
	fields := make(map[string]string, 3)
	if Version != "" {
		fields["version"] = Version
	}
	if Commit != "" {
		fields["commit"] = shortCommit(Commit)
	}
	if BuildDate != "" {
		fields["build_date"] = BuildDate
	}
	return fields
}

func shortCommit(sha string) string {
	sha = strings.TrimSpace(sha)
	if len(sha) > 12 {
		return sha[:12]
	}
	return sha
}
