package store

import "strings"

const maxTitleLen = 50

// SanitizeTitle makes a title safe for use as a directory name component.
// Only alphanumerics, spaces, hyphens, underscores, and parentheses
// survive; runs of whitespace collapse to single spaces and the result is
// capped at 50 characters.
func SanitizeTitle(title string) string {
	var b strings.Builder
	for _, r := range title {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '-' || r == '_' || r == '(' || r == ')':
			b.WriteRune(r)
		case r == ' ' || r == '\t':
			b.WriteRune(' ')
		}
	}

	out := strings.Join(strings.Fields(b.String()), " ")
	if len(out) > maxTitleLen {
		out = strings.TrimSpace(out[:maxTitleLen])
	}
	if out == "" {
		return "Untitled"
	}
	return out
}
