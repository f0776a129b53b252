package ai

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dailynotes/api/internal/phrasing"
)

type fakeProvider struct {
	completeFn   func(ctx context.Context, system, user string) (string, error)
	transcribeFn func(ctx context.Context, filename string, audio io.Reader) (string, error)
}

func (f *fakeProvider) Complete(ctx context.Context, system, user string) (string, error) {
	if f.completeFn != nil {
		return f.completeFn(ctx, system, user)
	}
	return "", nil
}

func (f *fakeProvider) Transcribe(ctx context.Context, filename string, audio io.Reader) (string, error) {
	if f.transcribeFn != nil {
		return f.transcribeFn(ctx, filename, audio)
	}
	return "", nil
}

func TestRephraseCleansAndDerives(t *testing.T) {
	var gotSystem, gotUser string
	provider := &fakeProvider{completeFn: func(_ context.Context, system, user string) (string, error) {
		gotSystem, gotUser = system, user
		return "Here's a simpler version: I want to get info about the new features.\nOption 1: Tell me about the new stuff.", nil
	}}

	res, err := NewAssistant(provider, nil).Rephrase(context.Background(), "I want to obtain information regarding the new features")
	require.NoError(t, err)

	assert.Equal(t, rephraseSystemPrompt, gotSystem)
	assert.True(t, strings.HasSuffix(gotUser, "I want to obtain information regarding the new features"))
	assert.Equal(t, "I want to get info about the new features.\nOption 1: Tell me about the new stuff.", res.Rephrased)
	assert.Equal(t, []string{"Tell me about the new stuff."}, res.Alternatives)
	assert.Equal(t, 17, res.WordCount)
}

func TestRephraseDisabled(t *testing.T) {
	_, err := NewAssistant(Disabled{}, nil).Rephrase(context.Background(), "hello")
	assert.ErrorIs(t, err, ErrDisabled)
}

func TestPhraseBankUsesModelSuggestions(t *testing.T) {
	provider := &fakeProvider{completeFn: func(context.Context, string, string) (string, error) {
		return "```json\n[{\"from\":\"obtain\",\"to\":\"get\",\"reason\":\"More natural\"}]\n```", nil
	}}

	got := NewAssistant(provider, nil).PhraseBank(context.Background(), "obtain info regarding it", "")
	assert.Equal(t, []phrasing.Suggestion{{From: "obtain", To: "get", Reason: "More natural"}}, got)
}

func TestPhraseBankFallsBackWhenProviderDisabled(t *testing.T) {
	got := NewAssistant(nil, nil).PhraseBank(context.Background(), "I want to obtain information regarding the new features", "")
	assert.Contains(t, got, phrasing.Suggestion{From: "regarding", To: "about", Reason: "More natural preposition"})
}

func TestPhraseBankFallsBackOnEmptyArray(t *testing.T) {
	provider := &fakeProvider{completeFn: func(context.Context, string, string) (string, error) {
		return "[]", nil
	}}

	got := NewAssistant(provider, nil).PhraseBank(context.Background(), "", "We have a lot of tools to utilize.")
	require.Len(t, got, 2)
	assert.Equal(t, "many", got[0].To)
	assert.Equal(t, "use", got[1].To)
}

func TestCritique(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want CriticResult
	}{
		{
			name: "json object",
			raw:  `{"feedback":"Clear and warm.","suggestions":["Cut the last line"],"score":8}`,
			want: CriticResult{Feedback: "Clear and warm.", Suggestions: []string{"Cut the last line"}, Score: 8},
		},
		{
			name: "wrapped object, clamped score, capped suggestions",
			raw:  "Sure:\n{\"feedback\":\"ok\",\"suggestions\":[\"a\",\"\",\"b\",\"c\",\"d\",\"e\",\"f\"],\"score\":12.4}",
			want: CriticResult{Feedback: "ok", Suggestions: []string{"a", "b", "c", "d", "e"}, Score: 10},
		},
		{
			name: "negative score",
			raw:  `{"feedback":"rough","score":-3}`,
			want: CriticResult{Feedback: "rough", Suggestions: []string{}, Score: 0},
		},
		{
			name: "plain prose",
			raw:  "  Nice note, but too long.  ",
			want: CriticResult{Feedback: "Nice note, but too long.", Suggestions: []string{}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := &fakeProvider{completeFn: func(context.Context, string, string) (string, error) {
				return tt.raw, nil
			}}
			got, err := NewAssistant(provider, nil).Critique(context.Background(), "text")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCritiqueProviderError(t *testing.T) {
	boom := errors.New("upstream 500")
	provider := &fakeProvider{completeFn: func(context.Context, string, string) (string, error) {
		return "", boom
	}}
	_, err := NewAssistant(provider, nil).Critique(context.Background(), "text")
	assert.ErrorIs(t, err, boom)
}

func TestTranscribe(t *testing.T) {
	provider := &fakeProvider{transcribeFn: func(_ context.Context, filename string, audio io.Reader) (string, error) {
		body, err := io.ReadAll(audio)
		require.NoError(t, err)
		assert.Equal(t, "memo.webm", filename)
		assert.Equal(t, []byte("bytes"), body)
		return "  hello world \n", nil
	}}

	text, err := NewAssistant(provider, nil).Transcribe(context.Background(), "memo.webm", bytes.NewReader([]byte("bytes")))
	require.NoError(t, err)
	assert.Equal(t, "hello world", text)

	_, err = NewAssistant(Disabled{}, nil).Transcribe(context.Background(), "a.wav", bytes.NewReader(nil))
	assert.ErrorIs(t, err, ErrDisabled)
}
