package phrasing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanResponse(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "heres a preface", in: "Here's a simpler version: I want to learn more.", want: "I want to learn more."},
		{name: "rephrased label", in: "Rephrased: I want to learn more.", want: "I want to learn more."},
		{name: "case insensitive", in: "REVISED:   Done.", want: "Done."},
		{name: "surrounding whitespace", in: "  \n Hello there. \n", want: "Hello there."},
		{name: "stacked prefaces", in: "Here is the result: Rephrased: Better wording.", want: "Better wording."},
		{name: "a version", in: "A clearer version: Keep it short.", want: "Keep it short."},
		{name: "no preface", in: "Plain text stays.", want: "Plain text stays."},
		{name: "preface only", in: "Simplified:", want: ""},
		{name: "empty", in: "", want: ""},
		{name: "mid sentence match ignored", in: "I said Revised: nothing.", want: "I said Revised: nothing."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanResponse(tt.in))
		})
	}
}

func TestCleanResponseIsIdempotent(t *testing.T) {
	inputs := []string{
		"Here's a rewrite: Revised: Improved version: text",
		"Better version: Simplified: ok",
		"  nothing to strip  ",
	}
	for _, in := range inputs {
		once := CleanResponse(in)
		assert.Equal(t, once, CleanResponse(once), in)
	}
}

func TestCustomCleaner(t *testing.T) {
	c := NewCleaner(`Answer:\s*`)
	assert.Equal(t, "42", c.Clean("answer: 42"))
	assert.Equal(t, "Here's a note: 42", c.Clean("Here's a note: 42"))
}

func TestWordCount(t *testing.T) {
	assert.Equal(t, 0, WordCount(""))
	assert.Equal(t, 0, WordCount("   \n\t "))
	assert.Equal(t, 3, WordCount(" one two\nthree "))
}
