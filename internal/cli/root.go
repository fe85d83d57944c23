package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/fmueller/chunkscribe/internal/audio"
	"github.com/fmueller/chunkscribe/internal/config"
	"github.com/fmueller/chunkscribe/internal/logging"
	"github.com/fmueller/chunkscribe/internal/pipeline"
	"github.com/fmueller/chunkscribe/internal/version"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/spf13/cobra"
)

type appState struct {
	verbose     bool
	jsonLogs    bool
	noProgress  bool
	model       string
	language    string
	ffmpegPath  string
	ffprobePath string
	configFile  string
	envFile     string

	logger *zap.Logger
	out    io.Writer
	errOut io.Writer

	loadConfigFn     func(opts config.LoadOptions) (config.Config, error)
	openSourceFn     func(ctx context.Context, path string, opts audio.Options) (pipeline.Source, error)
	newTranscriberFn func(cfg config.Config) (pipeline.Transcriber, error)
}

func NewRootCmd() *cobra.Command {
	app := &appState{
		envFile: ".env",
		out:     os.Stdout,
	}
	app.loadConfigFn = config.Load
	app.openSourceFn = openAudioSource
	app.newTranscriberFn = app.newOpenAITranscriber

	return newRootCmd(app)
}

func newRootCmd(app *appState) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chunkscribe <audio_path> [chunk_minutes]",
		Short: "Split a long recording into chunks and transcribe each one",
		Long: "Split a long recording into fixed-length chunks (default 20 minutes), transcribe\n" +
			"each chunk with the OpenAI audio API and write per-part and merged transcripts\n" +
			"next to the input file. Requires " + config.APIKeyEnv + ".\n\n" +
			"An audio file literally named \"version\" must be given as ./version,\n" +
			"otherwise the version subcommand runs instead.",
		Args:          validateArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version.Resolve(),
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			app.errOut = cmd.ErrOrStderr()
			app.logger = logging.New(logging.Options{
				Verbose: app.verbose,
				JSON:    app.jsonLogs,
				Output:  app.errOut,
			})
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			app.out = cmd.OutOrStdout()
			return app.runTranscribe(cmd.Context(), args)
		},
	}

	cmd.SetVersionTemplate("{{.Name}} v{{.Version}}\n")
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return fmt.Errorf("%w: %w", pipeline.ErrUsage, err)
	})

	bindLoggingFlags(cmd, app)
	bindProgressFlag(cmd, app)
	bindTranscriptionFlags(cmd, app)
	bindToolFlags(cmd, app)
	bindConfigFlags(cmd, app)

	cmd.AddCommand(newVersionCmd())

	return cmd
}

func validateArgs(cmd *cobra.Command, args []string) error {
	if err := cobra.RangeArgs(1, 2)(cmd, args); err != nil {
		return fmt.Errorf("%w: %w", pipeline.ErrUsage, err)
	}
	return nil
}

func bindLoggingFlags(cmd *cobra.Command, app *appState) {
	cmd.PersistentFlags().BoolVar(&app.verbose, "verbose", app.verbose, "Enable verbose logs")
	cmd.PersistentFlags().BoolVar(&app.jsonLogs, "json", app.jsonLogs, "Enable JSON logging")
}

func bindProgressFlag(cmd *cobra.Command, app *appState) {
	cmd.Flags().BoolVar(&app.noProgress, "no-progress", app.noProgress, "Disable progress indicators")
}

func bindTranscriptionFlags(cmd *cobra.Command, app *appState) {
	cmd.Flags().StringVar(&app.model, "model", app.model, "Transcription model (default "+defaultModelHint+")")
	cmd.Flags().StringVar(&app.language, "language", app.language, "Language hint (auto|en|he|...)")
}

func bindToolFlags(cmd *cobra.Command, app *appState) {
	cmd.Flags().StringVar(&app.ffmpegPath, "ffmpeg", app.ffmpegPath, "Path to the ffmpeg executable")
	cmd.Flags().StringVar(&app.ffprobePath, "ffprobe", app.ffprobePath, "Path to the ffprobe executable")
}

func bindConfigFlags(cmd *cobra.Command, app *appState) {
	cmd.Flags().StringVar(&app.configFile, "config", app.configFile, "YAML config file (default: per-user config.yaml when present)")
	cmd.Flags().StringVar(&app.envFile, "env-file", app.envFile, "Env file loaded before reading "+config.APIKeyEnv+"; ignored when missing")
}

func (a *appState) log() *zap.Logger {
	if a.logger == nil {
		return zap.NewNop()
	}
	return a.logger
}

// progressEnabled reports whether progress output goes to a terminal. Writers
// without a file descriptor, such as buffers in tests, never get progress.
func (a *appState) progressEnabled() bool {
	if a.noProgress {
		return false
	}
	f, ok := a.errWriter().(interface{ Fd() uintptr })
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

func (a *appState) errWriter() io.Writer {
	if a.errOut == nil {
		return os.Stderr
	}
	return a.errOut
}

func (a *appState) outWriter() io.Writer {
	if a.out == nil {
		return os.Stdout
	}
	return a.out
}
