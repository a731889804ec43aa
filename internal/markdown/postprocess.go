// File: internal/markdown/postprocess.go

// Package markdown normalizes raw model output into displayable, well-formed
// Markdown. All functions are pure; Process is idempotent.
package markdown

import (
	"regexp"
	"strings"
)

var headingRe = regexp.MustCompile(`^#{1,6}\s+(.+?)\s*#*\s*$`)

// Process converts embedded HTML tables to Markdown and repairs pipe-table
// formatting. Running it on its own output yields the same output.
func Process(content string) string {
	content = ConvertHTMLTables(content)
	content = NormalizeTables(content)
	return strings.TrimSpace(content)
}

// ExtractHeading returns the text of the first ATX heading in content,
// used as the AI-inferred conversation title.
func ExtractHeading(content string) (string, bool) {
	for _, line := range strings.Split(content, "\n") {
		if m := headingRe.FindStringSubmatch(strings.TrimSpace(line)); m != nil {
			heading := strings.TrimSpace(strings.Trim(m[1], "*_"))
			if heading != "" {
				return heading, true
			}
		}
	}
	return "", false
}
