package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/fmueller/chunkscribe/internal/audio"
	"github.com/fmueller/chunkscribe/internal/chunk"
	"github.com/fmueller/chunkscribe/internal/config"
	"github.com/fmueller/chunkscribe/internal/pipeline"
	"github.com/fmueller/chunkscribe/internal/platform"
	"github.com/fmueller/chunkscribe/internal/stt"
	"go.uber.org/zap"
)

const defaultModelHint = stt.DefaultModel

func (a *appState) runTranscribe(ctx context.Context, args []string) error {
	if ctx == nil {
		ctx = context.Background()
	}

	rawMinutes := ""
	if len(args) > 1 {
		rawMinutes = args[1]
	}
	chunkMinutes, err := chunk.ParseChunkMinutes(rawMinutes)
	if err != nil {
		return fmt.Errorf("%w: %w", pipeline.ErrUsage, err)
	}

	loadConfig := a.loadConfigFn
	if loadConfig == nil {
		loadConfig = config.Load
	}
	configPath, err := platform.ResolveConfigPath(a.configFile)
	if err != nil {
		return fmt.Errorf("%w: %w", pipeline.ErrConfiguration, err)
	}
	cfg, err := loadConfig(config.LoadOptions{EnvFile: a.envFile, ConfigFile: configPath})
	if err != nil {
		return fmt.Errorf("%w: %w", pipeline.ErrConfiguration, err)
	}
	a.applyOverrides(&cfg)
	if rawMinutes == "" && cfg.File.ChunkMinutes > 0 {
		chunkMinutes = cfg.File.ChunkMinutes
	}

	audioPath, err := pipeline.ResolveInput(args[0])
	if err != nil {
		return err
	}
	names := chunk.NamesFor(audioPath)

	a.log().Info("audio file", zap.String("path", audioPath))
	a.log().Info("output folder", zap.String("path", names.Dir))

	newTranscriber := a.newTranscriberFn
	if newTranscriber == nil {
		newTranscriber = a.newOpenAITranscriber
	}
	transcriber, err := newTranscriber(cfg)
	if err != nil {
		return fmt.Errorf("%w: %w", pipeline.ErrConfiguration, err)
	}

	openSource := a.openSourceFn
	if openSource == nil {
		openSource = openAudioSource
	}
	a.log().Info("loading audio file...")
	stopSpinner := startSpinner(a.progressEnabled(), a.errWriter(), "Loading audio")
	source, err := openSource(ctx, audioPath, audio.Options{
		FFmpegPath:  firstSet(a.ffmpegPath, cfg.File.FFmpegPath),
		FFprobePath: firstSet(a.ffprobePath, cfg.File.FFprobePath),
		Logger:      a.log(),
	})
	stopSpinner()
	if err != nil {
		if errors.Is(err, audio.ErrToolNotFound) {
			return fmt.Errorf("%w: %w", pipeline.ErrConfiguration, err)
		}
		return fmt.Errorf("%w: load %s: %w", pipeline.ErrIO, audioPath, err)
	}

	progress := newChunkProgress(a.progressEnabled(), a.errWriter())
	defer progress.finish()

	runner := &pipeline.Runner{
		Source:       source,
		Transcriber:  blankWarningTranscriber{next: transcriber, logger: a.log()},
		Names:        names,
		ChunkMinutes: chunkMinutes,
		Logger:       a.log(),
		OnPlan:       func(windows []chunk.Window) { progress.start(len(windows)) },
		OnChunk:      func(done, _ int) { progress.set(done) },
	}

	result, err := runner.Run(ctx)
	if err != nil {
		return err
	}
	progress.finish()

	if result.MergedPath == "" {
		a.log().Warn("no audio to transcribe; no transcript written", zap.String("audio", audioPath))
		return nil
	}

	a.log().Info("done", zap.Int("parts", len(result.Chunks)))
	fmt.Fprintln(a.outWriter(), result.MergedPath)
	return nil
}

func (a *appState) applyOverrides(cfg *config.Config) {
	cfg.Model = firstSet(a.model, cfg.Model)
	cfg.Language = firstSet(a.language, cfg.Language)
}

func (a *appState) newOpenAITranscriber(cfg config.Config) (pipeline.Transcriber, error) {
	return stt.NewOpenAI(stt.OpenAIOptions{
		APIKey:   cfg.APIKey,
		BaseURL:  cfg.BaseURL,
		Model:    cfg.Model,
		Language: cfg.Language,
		Logger:   a.log(),
	})
}

func openAudioSource(ctx context.Context, path string, opts audio.Options) (pipeline.Source, error) {
	return audio.Open(ctx, path, opts)
}

func firstSet(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
