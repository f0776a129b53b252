// Package phrasing post-processes LLM writing-coach output: it strips prefacing
// chatter from rephrased text, pulls labelled alternatives out of a response,
// parses phrase-swap suggestions and falls back to a local phrase bank when the
// model returns none.
//
// Every function in this package is a pure transform over its input.
package phrasing

import (
	"regexp"
	"strings"
)

// Rule removes Pattern from the start of a response when it matches.
type Rule struct {
	Pattern *regexp.Regexp
}

// Cleaner strips known prefacing phrases ("Here's a simpler version:") from
// model output. Within a pass rules are applied in order, each at most once.
type Cleaner struct {
	rules []Rule
}

// NewCleaner builds a Cleaner from case-insensitive prefix expressions. Each
// expression is anchored at the start of the text.
func NewCleaner(prefixes ...string) *Cleaner {
	rules := make([]Rule, 0, len(prefixes))
	for _, prefix := range prefixes {
		rules = append(rules, Rule{Pattern: regexp.MustCompile(`(?i)^` + prefix)})
	}
	return &Cleaner{rules: rules}
}

// DefaultPrefixes are the prefaces the rephrase prompt still tends to produce.
var DefaultPrefixes = []string{
	`Here's a [^:]*:\s*`,
	`I've rephrased [^:]*:\s*`,
	`Here is [^:]*:\s*`,
	`This is [^:]*:\s*`,
	`A [^:]* version:\s*`,
	`Rephrased:\s*`,
	`Simplified:\s*`,
	`Improved version:\s*`,
	`Better version:\s*`,
	`Revised:\s*`,
}

var defaultCleaner = NewCleaner(DefaultPrefixes...)

// Clean trims text and removes matching prefaces. The ordered pass repeats
// until nothing changes, so the result never starts with a known preface and
// cleaning twice is the same as cleaning once.
func (c *Cleaner) Clean(text string) string {
	cleaned := strings.TrimSpace(text)
	for {
		next := c.pass(cleaned)
		if next == cleaned {
			return cleaned
		}
		cleaned = next
	}
}

func (c *Cleaner) pass(text string) string {
	for _, rule := range c.rules {
		if loc := rule.Pattern.FindStringIndex(text); loc != nil && loc[1] > 0 {
			text = text[loc[1]:]
		}
	}
	return strings.TrimSpace(text)
}

// CleanResponse runs the default cleaner.
func CleanResponse(text string) string {
	return defaultCleaner.Clean(text)
}

// WordCount counts whitespace separated tokens.
func WordCount(text string) int {
	return len(strings.Fields(text))
}
