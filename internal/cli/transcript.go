package cli

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/fmueller/chunkscribe/internal/pipeline"
	"go.uber.org/zap"
)

func isBlankTranscript(transcript string) bool {
	return strings.TrimSpace(transcript) == ""
}

// blankWarningTranscriber logs parts that came back without any text. The
// text itself is passed through untouched.
type blankWarningTranscriber struct {
	next   pipeline.Transcriber
	logger *zap.Logger
}

func (b blankWarningTranscriber) Transcribe(ctx context.Context, audioPath string) (string, error) {
	text, err := b.next.Transcribe(ctx, audioPath)
	if err != nil {
		return "", err
	}
	if isBlankTranscript(text) && b.logger != nil {
		b.logger.Warn("no speech detected in chunk", zap.String("audio", filepath.Base(audioPath)))
	}
	return text, nil
}
