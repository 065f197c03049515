package nats

import (
	"strings"
	"unicode"
)

// namespace joins the non-empty parts below prefix into a NATS subject,
// formatting each part with formatForNamespace.
func namespace(prefix string, parts ...string) string {
	segments := make([]string, 0, len(parts)+1)
	segments = append(segments, prefix)
	for _, part := range parts {
		if part == "" {
			continue
		}
		segments = append(segments, formatForNamespace(part))
	}
	return strings.Join(segments, ".")
}

// formatForNamespace converts camelCase and snake_case to kebab-case and
// drops characters that are not valid in a subject token. Dots and
// wildcards are kept.
func formatForNamespace(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 4)
	var prev rune
	for _, r := range s {
		switch {
		case r == '_':
			b.WriteByte('-')
		case unicode.IsUpper(r) && unicode.IsLower(prev):
			b.WriteByte('-')
			b.WriteRune(unicode.ToLower(r))
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '.' || r == '*' || r == '>':
			b.WriteRune(r)
		default:
			continue
		}
		prev = r
	}
	return b.String()
}
