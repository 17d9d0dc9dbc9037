// Package sanitize cleans user-supplied free text before it is stored.
package sanitize

import (
	"regexp"
	"strings"
)

var (
	// A tag needs a name, closing slash, comment or doctype right after "<",
	// so comparisons like "3 < 5 > 2" survive.
	htmlTag    = regexp.MustCompile(`</?[A-Za-z!][^>]*>`)
	whitespace = regexp.MustCompile(`\s+`)
	horizontal = regexp.MustCompile(`[ \t\f\v]+`)
	blankLines = regexp.MustCompile(`\n{3,}`)

	entities = strings.NewReplacer(
		"&lt;", "<",
		"&gt;", ">",
		"&amp;", "&",
		"&quot;", `"`,
		"&#39;", "'",
	)
)

// Text strips markup and collapses runs of whitespace into single spaces.
// Tags smuggled in as entities are stripped after decoding.
func Text(s string) string {
	out := stripTags(s)
	out = whitespace.ReplaceAllString(out, " ")
	return strings.TrimSpace(out)
}

// MultilineText strips markup like Text but keeps line breaks. Spaces and
// tabs collapse within each line and at most one blank line is kept.
func MultilineText(s string) string {
	out := strings.ReplaceAll(s, "\r\n", "\n")
	out = strings.ReplaceAll(out, "\r", "\n")
	out = stripTags(out)

	lines := strings.Split(out, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(horizontal.ReplaceAllString(line, " "))
	}
	out = blankLines.ReplaceAllString(strings.Join(lines, "\n"), "\n\n")
	return strings.TrimSpace(out)
}

// OptionalText applies Text to an optional field. Blank results become nil.
func OptionalText(s *string) *string {
	return optional(s, Text)
}

// OptionalMultilineText applies MultilineText to an optional field.
func OptionalMultilineText(s *string) *string {
	return optional(s, MultilineText)
}

func optional(s *string, clean func(string) string) *string {
	if s == nil {
		return nil
	}
	out := clean(*s)
	if out == "" {
		return nil
	}
	return &out
}

func stripTags(s string) string {
	out := htmlTag.ReplaceAllString(s, "")
	out = entities.Replace(out)
	return htmlTag.ReplaceAllString(out, "")
}
