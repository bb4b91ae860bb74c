// ABOUTME: Embedded changelog shown by the changelog subcommand and /changelog
// ABOUTME: Uses go:embed to include CHANGELOG.md at compile time

package changelog

import (
	_ "embed"
	"strings"
)

//go:embed CHANGELOG.md
var content string

// Get returns the embedded changelog content.
func Get() string {
	if content == "" {
		return "No changelog available."
	}
	return content
}

// Latest returns the newest released section, skipping [Unreleased].
// It returns "" when no release is recorded.
func Latest() string {
	return latest(content)
}

func latest(doc string) string {
	var b strings.Builder
	in := false
	for line := range strings.Lines(doc) {
		if strings.HasPrefix(line, "## ") {
			if in {
				break
			}
			if strings.Contains(line, "[Unreleased]") {
				continue
			}
			in = true
		}
		if in {
			b.WriteString(line)
		}
	}
	return strings.TrimSpace(b.String())
}
