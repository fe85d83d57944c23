package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/fmueller/chunkscribe/internal/chunk"
	"github.com/fmueller/chunkscribe/internal/transcript"
	"go.uber.org/zap"
)

// Source is decoded audio that can export any window as a standalone file.
type Source interface {
	DurationMS() int64
	Export(ctx context.Context, w chunk.Window, dst string) error
}

type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) (string, error)
}

type Runner struct {
	Source       Source
	Transcriber  Transcriber
	Names        chunk.Names
	ChunkMinutes int
	Logger       *zap.Logger

	// OnPlan receives the windows before any export starts.
	OnPlan func(windows []chunk.Window)
	// OnChunk is called after each part's transcript is on disk.
	OnChunk func(done, total int)
}

type Result struct {
	Windows    []chunk.Window
	Chunks     []transcript.Chunk
	MergedPath string
}

// Run processes every window in order and writes the merged transcript.
// The first failure aborts the run; files already written are left in place
// and the merged transcript is not written.
func (r *Runner) Run(ctx context.Context) (Result, error) {
	if r.Source == nil || r.Transcriber == nil {
		return Result{}, fmt.Errorf("%w: runner requires an audio source and a transcriber", ErrConfiguration)
	}

	durationMS := r.Source.DurationMS()
	windows, err := chunk.Plan(durationMS, r.ChunkMinutes)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrUsage, err)
	}

	log := r.log()
	result := Result{Windows: windows}
	if r.OnPlan != nil {
		r.OnPlan(windows)
	}
	if len(windows) == 0 {
		log.Warn("audio is empty; nothing to transcribe")
		return result, nil
	}

	log.Info("splitting audio",
		zap.Float64("total_minutes", float64(durationMS)/60_000),
		zap.Int("chunks", len(windows)),
		zap.Int("chunk_minutes", r.ChunkMinutes),
	)

	result.Chunks = make([]transcript.Chunk, 0, len(windows))
	for _, w := range windows {
		c, err := r.processWindow(ctx, w)
		if err != nil {
			return result, err
		}
		result.Chunks = append(result.Chunks, c)
		if r.OnChunk != nil {
			r.OnChunk(len(result.Chunks), len(windows))
		}
	}

	mergedPath := r.Names.MergedPath()
	if err := transcript.WriteText(mergedPath, transcript.Merge(result.Chunks)); err != nil {
		return result, fmt.Errorf("%w: merged transcript: %w", ErrIO, err)
	}
	result.MergedPath = mergedPath

	log.Info("full transcript saved", zap.String("path", mergedPath))
	return result, nil
}

func (r *Runner) processWindow(ctx context.Context, w chunk.Window) (transcript.Chunk, error) {
	log := r.log().With(zap.Int("part", w.Index))
	audioPath := r.Names.AudioPath(w.Index)

	log.Info("exporting chunk", zap.String("window", w.String()), zap.String("audio", audioPath))
	if err := r.Source.Export(ctx, w, audioPath); err != nil {
		return transcript.Chunk{}, &ChunkError{Stage: StageExport, Index: w.Index, Err: err}
	}

	started := time.Now()
	text, err := r.Transcriber.Transcribe(ctx, audioPath)
	if err != nil {
		log.Warn("transcription failed", zap.Duration("elapsed", time.Since(started)), zap.Error(err))
		return transcript.Chunk{}, &ChunkError{Stage: StageTranscribe, Index: w.Index, Err: err}
	}
	log.Debug("transcription finished", zap.Duration("elapsed", time.Since(started)), zap.Int("chars", len(text)))

	textPath := r.Names.TranscriptPath(w.Index)
	if err := transcript.WriteText(textPath, text); err != nil {
		return transcript.Chunk{}, &ChunkError{Stage: StageWrite, Index: w.Index, Err: err}
	}
	log.Info("saved transcript", zap.String("path", textPath))

	return transcript.Chunk{Window: w, Text: text}, nil
}

func (r *Runner) log() *zap.Logger {
	if r.Logger == nil {
		return zap.NewNop()
	}
	return r.Logger
}
