package ai

import (
	"context"
	"fmt"
	"io"
	"net/http"

	openai "github.com/sashabaranov/go-openai"
)

const (
	DefaultModel           = openai.GPT4oMini
	DefaultTranscribeModel = openai.Whisper1
	defaultTemperature     = 1
)

// OpenAIOptions configures NewOpenAI. Empty fields take defaults.
type OpenAIOptions struct {
	APIKey          string
	BaseURL         string
	Model           string
	TranscribeModel string
	HTTPClient      *http.Client
}

// OpenAI is a Provider backed by the OpenAI chat and audio APIs.
type OpenAI struct {
	client          *openai.Client
	model           string
	transcribeModel string
}

func NewOpenAI(opts OpenAIOptions) *OpenAI {
	cfg := openai.DefaultConfig(opts.APIKey)
	if opts.BaseURL != "" {
		cfg.BaseURL = opts.BaseURL
	}
	if opts.HTTPClient != nil {
		cfg.HTTPClient = opts.HTTPClient
	}
	model := opts.Model
	if model == "" {
		model = DefaultModel
	}
	transcribeModel := opts.TranscribeModel
	if transcribeModel == "" {
		transcribeModel = DefaultTranscribeModel
	}
	return &OpenAI{
		client:          openai.NewClientWithConfig(cfg),
		model:           model,
		transcribeModel: transcribeModel,
	}
}

func (o *OpenAI) Complete(ctx context.Context, system, user string) (string, error) {
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		Temperature: defaultTemperature,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}

func (o *OpenAI) Transcribe(ctx context.Context, filename string, audio io.Reader) (string, error) {
	resp, err := o.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    o.transcribeModel,
		FilePath: filename,
		Reader:   audio,
	})
	if err != nil {
		return "", fmt.Errorf("transcription: %w", err)
	}
	return resp.Text, nil
}
