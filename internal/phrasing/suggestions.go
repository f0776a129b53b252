package phrasing

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

const (
	// MaxSuggestions caps the phrase bank returned to callers.
	MaxSuggestions = 5
	// MaxFieldLength caps each suggestion field, in characters.
	MaxFieldLength = 120
)

// Suggestion is a local phrase swap.
type Suggestion struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Reason string `json:"reason"`
}

// Checklist entries are scanned in order when the model suggests nothing.
var Checklist = []Suggestion{
	{From: "in order to", To: "to", Reason: "More concise infinitive"},
	{From: "a lot of", To: "many", Reason: "Concise, more precise"},
	{From: "due to the fact that", To: "because", Reason: "Simpler connector"},
	{From: "make a decision", To: "decide", Reason: "Use a strong verb"},
	{From: "utilize", To: "use", Reason: "Prefer plain English"},
	{From: "regarding", To: "about", Reason: "More natural preposition"},
	{From: "really ", To: "", Reason: "Remove intensifier"},
	{From: "very ", To: "", Reason: "Remove intensifier"},
}

var jsonArrayBlock = regexp.MustCompile(`\[[\s\S]*?\]`)

// rawSuggestion accepts any JSON value per field; models occasionally emit
// numbers or nulls where strings were asked for.
type rawSuggestion struct {
	From   any `json:"from"`
	To     any `json:"to"`
	Reason any `json:"reason"`
}

// ParseSuggestions decodes a model reply that should be a JSON array of
// suggestions. When the reply is wrapped in prose the first bracketed block is
// tried instead. Unusable output yields an empty list, never an error.
func ParseSuggestions(raw string) []Suggestion {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return []Suggestion{}
	}

	var items []rawSuggestion
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		block := jsonArrayBlock.FindString(raw)
		if block == "" {
			return []Suggestion{}
		}
		items = nil
		if err := json.Unmarshal([]byte(block), &items); err != nil {
			return []Suggestion{}
		}
	}

	if len(items) > MaxSuggestions {
		items = items[:MaxSuggestions]
	}
	suggestions := make([]Suggestion, 0, len(items))
	for _, item := range items {
		s := Suggestion{
			From:   capField(item.From),
			To:     capField(item.To),
			Reason: capField(item.Reason),
		}
		if s.From == "" || s.To == "" {
			continue
		}
		suggestions = append(suggestions, s)
	}
	return suggestions
}

// Fallback returns suggestions unchanged when the model produced any.
// Otherwise it scans the rephrased text (or the original when there is no
// rephrase) for checklist phrases and returns up to MaxSuggestions matches in
// checklist order.
func Fallback(original, rephrased string, suggestions []Suggestion) []Suggestion {
	if len(suggestions) > 0 {
		return suggestions
	}

	source := rephrased
	if source == "" {
		source = original
	}
	source = strings.ToLower(source)

	matches := make([]Suggestion, 0, MaxSuggestions)
	for _, entry := range Checklist {
		if !strings.Contains(source, strings.ToLower(entry.From)) {
			continue
		}
		matches = append(matches, entry)
		if len(matches) == MaxSuggestions {
			break
		}
	}
	return matches
}

func capField(value any) string {
	var s string
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		s = v
	default:
		s = fmt.Sprint(v)
	}
	runes := []rune(s)
	if len(runes) > MaxFieldLength {
		return string(runes[:MaxFieldLength])
	}
	return s
}
