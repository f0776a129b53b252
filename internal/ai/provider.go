// Package ai wraps the language-model provider behind the writing assistant:
// rephrasing, critique, phrase suggestions and transcription.
package ai

import (
	"context"
	"errors"
	"io"
)

// ErrDisabled is returned by every call of a provider that has no credentials.
var ErrDisabled = errors.New("ai: provider not configured")

// Provider is a text-completion and speech-to-text backend.
type Provider interface {
	Complete(ctx context.Context, system, user string) (string, error)
	Transcribe(ctx context.Context, filename string, audio io.Reader) (string, error)
}

// Disabled stands in when no API key is configured.
type Disabled struct{}

func (Disabled) Complete(context.Context, string, string) (string, error) {
	return "", ErrDisabled
}

func (Disabled) Transcribe(context.Context, string, io.Reader) (string, error) {
	return "", ErrDisabled
}
