package suggest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClean(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "plain string unchanged", in: "Sounds good to me", want: "Sounds good to me"},
		{name: "double quotes stripped", in: `"Sounds good to me"`, want: "Sounds good to me"},
		{name: "single quotes stripped", in: "'Sounds good to me'", want: "Sounds good to me"},
		{name: "only one quote per side", in: `""quoted""`, want: `"quoted"`},
		{name: "mismatched quotes stripped", in: `"half open`, want: "half open"},
		{name: "newlines become spaces", in: "line one\nline two", want: "line one line two"},
		{name: "crlf becomes space", in: "line one\r\nline two", want: "line one line two"},
		{name: "surrounding whitespace trimmed", in: "  padded  ", want: "padded"},
		{name: "quote then whitespace", in: "\" padded \"", want: "padded"},
		{name: "empty string", in: "", want: ""},
		{name: "whitespace only", in: " \n ", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Clean(tt.in))
		})
	}
}

func TestCleanTruncates(t *testing.T) {
	long := strings.Repeat("a", 80)
	got := Clean(long)
	assert.Len(t, []rune(got), MaxSuggestionLength)

	// Rune-aware truncation, not byte slicing.
	multibyte := strings.Repeat("é", 80)
	got = Clean(multibyte)
	assert.Len(t, []rune(got), MaxSuggestionLength)
	assert.Equal(t, strings.Repeat("é", MaxSuggestionLength), got)
}

func TestCleanIdempotent(t *testing.T) {
	inputs := []string{
		`"  first\nsecond  "`,
		"'hello there'",
		strings.Repeat("x", 120),
		"already clean",
	}

	for _, in := range inputs {
		once := Clean(in)
		assert.Equal(t, once, Clean(once), "input %q", in)
	}
}
