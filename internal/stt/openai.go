package stt

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

const DefaultModel = "gpt-4o-mini-transcribe"

type OpenAIOptions struct {
	APIKey string
	// BaseURL overrides the API root, e.g. a proxy or a test server.
	BaseURL  string
	Model    string
	Language string
	Logger   *zap.Logger
}

// OpenAI sends one audio file per call to the audio transcriptions endpoint.
// It never retries.
type OpenAI struct {
	client   *openai.Client
	model    string
	language string
	logger   *zap.Logger
}

func NewOpenAI(opts OpenAIOptions) (*OpenAI, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, errors.New("openai api key is required")
	}

	cfg := openai.DefaultConfig(opts.APIKey)
	if base := strings.TrimSpace(opts.BaseURL); base != "" {
		cfg.BaseURL = strings.TrimRight(base, "/")
	}

	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = DefaultModel
	}

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &OpenAI{
		client:   openai.NewClientWithConfig(cfg),
		model:    model,
		language: normalizeLanguage(opts.Language),
		logger:   logger,
	}, nil
}

func (o *OpenAI) Transcribe(ctx context.Context, audioPath string) (string, error) {
	if strings.TrimSpace(audioPath) == "" {
		return "", errors.New("audio path is required")
	}

	o.logger.Debug("requesting transcription",
		zap.String("audio", filepath.Base(audioPath)),
		zap.String("model", o.model),
		zap.String("language", o.language),
	)

	resp, err := o.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    o.model,
		FilePath: audioPath,
		Language: o.language,
		Format:   openai.AudioResponseFormatJSON,
	})
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			return "", fmt.Errorf("openai transcription (http %d): %w", apiErr.HTTPStatusCode, err)
		}
		return "", fmt.Errorf("openai transcription: %w", err)
	}

	return resp.Text, nil
}

// normalizeLanguage maps "auto" and blanks to no language hint.
func normalizeLanguage(input string) string {
	trimmed := strings.TrimSpace(strings.ToLower(input))
	if trimmed == "auto" {
		return ""
	}
	return trimmed
}
