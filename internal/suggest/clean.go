package suggest

import "strings"

// Clean normalizes a raw backend suggestion: one leading and one trailing
// quote character stripped, line breaks collapsed to spaces, surrounding
// whitespace trimmed, truncated to MaxSuggestionLength runes. Cleaning an
// already-clean string returns it unchanged.
func Clean(s string) string {
	for _, q := range []string{`"`, `'`} {
		if strings.HasPrefix(s, q) {
			s = s[1:]
			break
		}
	}
	for _, q := range []string{`"`, `'`} {
		if strings.HasSuffix(s, q) {
			s = s[:len(s)-1]
			break
		}
	}

	s = strings.ReplaceAll(s, "\r\n", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "\r", " ")
	s = strings.TrimSpace(s)

	runes := []rune(s)
	if len(runes) > MaxSuggestionLength {
		s = string(runes[:MaxSuggestionLength])
	}
	return s
}
