// File: internal/markdown/directive.go
package markdown

import (
	"regexp"
	"strings"
)

// An image directive is a fenced block whose info-string is "imagePrompt";
// the inner text is a prompt for the image-generation provider.
var (
	imageDirectiveRe = regexp.MustCompile("(?s)```imagePrompt\\s+(.*?)```")
	blankRunRe       = regexp.MustCompile(`\n{3,}`)
)

// HasImageDirective reports whether content contains an image directive
// block, usable or not.
func HasImageDirective(content string) bool {
	return imageDirectiveRe.MatchString(content)
}

// ExtractImagePrompt returns the trimmed prompt of the first image directive
// in content, if any. A directive whose prompt is empty is not usable and
// reports false; it is still stripped from the displayed reply.
func ExtractImagePrompt(content string) (string, bool) {
	m := imageDirectiveRe.FindStringSubmatch(content)
	if m == nil {
		return "", false
	}
	prompt := strings.TrimSpace(m[1])
	if prompt == "" {
		return "", false
	}
	return prompt, true
}

// StripImageDirectives removes every image directive block from content. The
// raw prompt syntax is never shown to the user, whether or not generation
// succeeded.
func StripImageDirectives(content string) string {
	stripped := imageDirectiveRe.ReplaceAllString(content, "")
	stripped = blankRunRe.ReplaceAllString(stripped, "\n\n")
	return strings.TrimSpace(stripped)
}
