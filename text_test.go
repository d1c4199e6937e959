package websum_test

import (
	"testing"

	"github.com/fwojciec/websum"
	"github.com/stretchr/testify/assert"
)

func TestCleanText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "empty input", input: "", want: ""},
		{name: "strips link destination", input: "See [the guide](https://example.com/guide) now", want: "See the guide now"},
		{name: "removes decorative runs", input: "Title\n=====\n• item ● other", want: "Title item other"},
		{name: "collapses whitespace", input: "  a\t\tb\n\nc  ", want: "a b c"},
		{name: "repairs apostrophe", input: "donâ€™t", want: "don't"},
		{name: "repairs quotes", input: "â€œquotedâ€\u009d", want: `"quoted"`},
		{name: "bullet repair is removed like other glyphs", input: "â€¢ first", want: "first"},
		{name: "nested link syntax", input: "[[a](b)](c)", want: "a"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, websum.CleanText(tt.input))
		})
	}
}

func TestCleanText_Idempotent(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"",
		"plain text",
		"â€¢ bullet â€” dash â€œquoteâ€",
		"[link](url) -- ** == text",
		"multi\n\nline\ttext with   spaces",
		"[[nested](inner)](outer) â€™",
	}

	for _, input := range inputs {
		once := websum.CleanText(input)
		assert.Equal(t, once, websum.CleanText(once), "input %q", input)
	}
}

func TestIsNavigationText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  bool
	}{
		{"Home | Search | Blog", true},
		{"Previous page", true},
		{"Copyright 2024 Example Inc.", true},
		{"Quick  Start", true},
		{"The quick brown fox jumps over the lazy dog", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, websum.IsNavigationText(tt.input))
		})
	}
}
