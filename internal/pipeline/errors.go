package pipeline

import (
	"errors"
	"fmt"
)

var (
	ErrUsage         = errors.New("usage error")
	ErrConfiguration = errors.New("configuration error")
	ErrNotFound      = errors.New("audio file not found")
	ErrIO            = errors.New("i/o error")
	ErrTranscription = errors.New("transcription failed")
)

type Stage string

const (
	StageExport     Stage = "export"
	StageTranscribe Stage = "transcribe"
	StageWrite      Stage = "write transcript"
)

// ChunkError reports the stage and 1-based part index a run aborted on.
// It matches both its category sentinel and the underlying cause.
type ChunkError struct {
	Stage Stage
	Index int
	Err   error
}

func (e *ChunkError) Error() string {
	return fmt.Sprintf("%s part %d: %v", e.Stage, e.Index, e.Err)
}

func (e *ChunkError) Unwrap() []error {
	return []error{e.category(), e.Err}
}

func (e *ChunkError) category() error {
	if e.Stage == StageTranscribe {
		return ErrTranscription
	}
	return ErrIO
}
