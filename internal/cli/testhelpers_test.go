package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/fmueller/chunkscribe/internal/audio"
	"github.com/fmueller/chunkscribe/internal/chunk"
	"github.com/fmueller/chunkscribe/internal/config"
	"github.com/fmueller/chunkscribe/internal/pipeline"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

func runCommand(t *testing.T, args []string) (stdout string, stderr string, err error) {
	t.Helper()

	return runApp(t, NewRootCmd(), args)
}

func runApp(t *testing.T, cmd *cobra.Command, args []string) (string, string, error) {
	t.Helper()

	outBuf := new(bytes.Buffer)
	errBuf := new(bytes.Buffer)

	cmd.SetOut(outBuf)
	cmd.SetErr(errBuf)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return outBuf.String(), errBuf.String(), err
}

type fakeSource struct {
	durationMS int64
}

func (s fakeSource) DurationMS() int64 {
	return s.durationMS
}

func (s fakeSource) Export(_ context.Context, w chunk.Window, dst string) error {
	return os.WriteFile(dst, []byte(w.String()), 0o644)
}

type scriptedTranscriber struct {
	texts  map[string]string
	failOn string
	calls  []string
}

func (s *scriptedTranscriber) Transcribe(_ context.Context, audioPath string) (string, error) {
	name := filepath.Base(audioPath)
	s.calls = append(s.calls, name)
	if name == s.failOn {
		return "", errors.New("openai transcription (http 502): bad gateway")
	}
	return s.texts[name], nil
}

type fakeDeps struct {
	loadCalls   int
	loadOpts    config.LoadOptions
	openCalls   int
	openedPath  string
	openOpts    audio.Options
	config      config.Config
	configErr   error
	transcriber *scriptedTranscriber
	durationMS  int64
}

func newFakeApp(deps *fakeDeps) *appState {
	return &appState{
		noProgress: true,
		loadConfigFn: func(opts config.LoadOptions) (config.Config, error) {
			deps.loadCalls++
			deps.loadOpts = opts
			if deps.configErr != nil {
				return config.Config{}, deps.configErr
			}
			return deps.config, nil
		},
		openSourceFn: func(_ context.Context, path string, opts audio.Options) (pipeline.Source, error) {
			deps.openCalls++
			deps.openedPath = path
			deps.openOpts = opts
			return fakeSource{durationMS: deps.durationMS}, nil
		},
		newTranscriberFn: func(cfg config.Config) (pipeline.Transcriber, error) {
			deps.config = cfg
			return deps.transcriber, nil
		},
	}
}

func writeInputAudio(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "lecture.mp3")
	require.NoError(t, os.WriteFile(path, []byte("fake mp3"), 0o644))
	return path
}
