package phrasing

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSuggestions(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []Suggestion
	}{
		{
			name: "plain array",
			raw:  `[{"from":"obtain","to":"get","reason":"Simpler verb"}]`,
			want: []Suggestion{{From: "obtain", To: "get", Reason: "Simpler verb"}},
		},
		{
			name: "wrapped in prose",
			raw:  "Sure! Here you go:\n[{\"from\":\"regarding\",\"to\":\"about\",\"reason\":\"Natural\"}]\nHope it helps.",
			want: []Suggestion{{From: "regarding", To: "about", Reason: "Natural"}},
		},
		{
			name: "empty from or to dropped",
			raw:  `[{"from":"","to":"x"},{"from":"y","to":""},{"from":"a","to":"b"}]`,
			want: []Suggestion{{From: "a", To: "b"}},
		},
		{
			name: "non string fields coerced",
			raw:  `[{"from":7,"to":"seven","reason":null}]`,
			want: []Suggestion{{From: "7", To: "seven"}},
		},
		{name: "garbage", raw: "no json here", want: []Suggestion{}},
		{name: "broken block", raw: "see [not json]", want: []Suggestion{}},
		{name: "object not array", raw: `{"from":"a","to":"b"}`, want: []Suggestion{}},
		{name: "empty", raw: "  ", want: []Suggestion{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseSuggestions(tt.raw)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseSuggestionsLimits(t *testing.T) {
	long := strings.Repeat("é", 200)
	raw := `[` +
		`{"from":"` + long + `","to":"b","reason":"` + long + `"},` +
		`{"from":"2","to":"b"},{"from":"3","to":"b"},{"from":"4","to":"b"},` +
		`{"from":"5","to":"b"},{"from":"6","to":"b"}]`

	got := ParseSuggestions(raw)
	require.Len(t, got, MaxSuggestions)
	assert.Equal(t, MaxFieldLength, utf8.RuneCountInString(got[0].From))
	assert.Equal(t, MaxFieldLength, utf8.RuneCountInString(got[0].Reason))
	assert.True(t, utf8.ValidString(got[0].From))
	assert.Equal(t, "5", got[4].From)
}

func TestFallbackKeepsModelSuggestions(t *testing.T) {
	model := []Suggestion{{From: "obtain", To: "get", Reason: "Simpler verb"}}
	got := Fallback("in order to utilize", "", model)
	assert.Equal(t, model, got)
}

func TestFallbackScansRephrasedFirst(t *testing.T) {
	got := Fallback(
		"I want to obtain information regarding the new features",
		"I want to get information regarding the new features",
		nil,
	)
	assert.Equal(t, []Suggestion{{From: "regarding", To: "about", Reason: "More natural preposition"}}, got)
}

func TestFallbackUsesOriginalWhenRephrasedEmpty(t *testing.T) {
	got := Fallback("We need to MAKE A DECISION due to the fact that time is short.", "", []Suggestion{})
	assert.Equal(t, []Suggestion{
		{From: "due to the fact that", To: "because", Reason: "Simpler connector"},
		{From: "make a decision", To: "decide", Reason: "Use a strong verb"},
	}, got)
}

func TestFallbackCapsAndOrders(t *testing.T) {
	text := "very really regarding utilize make a decision due to the fact that a lot of in order to"
	got := Fallback(text, "", nil)
	require.Len(t, got, MaxSuggestions)
	for i, s := range got {
		assert.Equal(t, Checklist[i], s)
	}
}

func TestFallbackNoMatch(t *testing.T) {
	got := Fallback("Short and clear.", "", nil)
	require.NotNil(t, got)
	assert.Empty(t, got)
}

func TestPhraseBankPipeline(t *testing.T) {
	original := "I want to obtain information regarding the new features"
	got := Fallback(original, "", ParseSuggestions("I cannot help with that."))
	require.Len(t, got, 1)
	assert.Equal(t, "regarding", got[0].From)
	assert.Equal(t, "about", got[0].To)
}

func TestPhraseBankMalformedBlockUsesChecklist(t *testing.T) {
	original := "We will utilize the new tool"
	got := Fallback(original, "", ParseSuggestions(`Swaps: [{"from": "utilize", "to": ]`))
	require.Len(t, got, 1)
	assert.Equal(t, "utilize", got[0].From)
	assert.Equal(t, "use", got[0].To)
}
