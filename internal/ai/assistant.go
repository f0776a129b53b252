package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"regexp"
	"strings"

	"dailynotes/api/internal/logging"
	"dailynotes/api/internal/phrasing"
)

const (
	maxCriticSuggestions = 5
	maxScore             = 10
)

// RephraseResult is a cleaned rephrase with derived alternatives.
type RephraseResult struct {
	Rephrased    string   `json:"rephrased"`
	Alternatives []string `json:"alternatives"`
	WordCount    int      `json:"wordCount"`
}

// CriticResult is structured writing feedback.
type CriticResult struct {
	Feedback    string   `json:"feedback"`
	Suggestions []string `json:"suggestions"`
	Score       int      `json:"score"`
}

// Assistant turns provider output into the writing-coach results.
type Assistant struct {
	provider Provider
	cleaner  *phrasing.Cleaner
	log      logging.Logger
}

func NewAssistant(provider Provider, log logging.Logger) *Assistant {
	if provider == nil {
		provider = Disabled{}
	}
	if log == nil {
		log = logging.Nop{}
	}
	return &Assistant{
		provider: provider,
		cleaner:  phrasing.NewCleaner(phrasing.DefaultPrefixes...),
		log:      log.With("component", "ai"),
	}
}

func (a *Assistant) Rephrase(ctx context.Context, content string) (RephraseResult, error) {
	raw, err := a.provider.Complete(ctx, rephraseSystemPrompt, rephraseUserPrompt(content))
	if err != nil {
		return RephraseResult{}, fmt.Errorf("rephrase: %w", err)
	}
	rephrased := a.cleaner.Clean(raw)
	return RephraseResult{
		Rephrased:    rephrased,
		Alternatives: phrasing.ExtractAlternatives(rephrased),
		WordCount:    phrasing.WordCount(rephrased),
	}, nil
}

// PhraseBank never fails: provider errors and unusable output fall through to
// the local checklist.
func (a *Assistant) PhraseBank(ctx context.Context, original, rephrased string) []phrasing.Suggestion {
	raw, err := a.provider.Complete(ctx, phraseBankSystemPrompt, phraseBankUserPrompt(original, rephrased))
	if err != nil {
		a.log.Warn(ctx, "phrase bank provider call failed, using checklist", "error", err)
		raw = ""
	}
	return phrasing.Fallback(original, rephrased, phrasing.ParseSuggestions(raw))
}

func (a *Assistant) Critique(ctx context.Context, content string) (CriticResult, error) {
	raw, err := a.provider.Complete(ctx, criticSystemPrompt, criticUserPrompt(content))
	if err != nil {
		return CriticResult{}, fmt.Errorf("critique: %w", err)
	}
	return parseCritic(raw), nil
}

func (a *Assistant) Transcribe(ctx context.Context, filename string, audio io.Reader) (string, error) {
	text, err := a.provider.Transcribe(ctx, filename, audio)
	if err != nil {
		return "", fmt.Errorf("transcribe %s: %w", filename, err)
	}
	return strings.TrimSpace(text), nil
}

var jsonObjectBlock = regexp.MustCompile(`\{[\s\S]*\}`)

type rawCritic struct {
	Feedback    string   `json:"feedback"`
	Suggestions []string `json:"suggestions"`
	Score       float64  `json:"score"`
}

// parseCritic reads the model's JSON object, retrying on the outermost brace
// block. Prose that is not JSON becomes the feedback with no score.
func parseCritic(raw string) CriticResult {
	raw = strings.TrimSpace(raw)
	var parsed rawCritic
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		block := jsonObjectBlock.FindString(raw)
		parsed = rawCritic{}
		if block == "" || json.Unmarshal([]byte(block), &parsed) != nil {
			return CriticResult{Feedback: raw, Suggestions: []string{}}
		}
	}

	suggestions := make([]string, 0, maxCriticSuggestions)
	for _, s := range parsed.Suggestions {
		if s = strings.TrimSpace(s); s == "" {
			continue
		}
		suggestions = append(suggestions, s)
		if len(suggestions) == maxCriticSuggestions {
			break
		}
	}

	score := int(math.Round(parsed.Score))
	score = max(0, min(maxScore, score))
	return CriticResult{
		Feedback:    strings.TrimSpace(parsed.Feedback),
		Suggestions: suggestions,
		Score:       score,
	}
}
