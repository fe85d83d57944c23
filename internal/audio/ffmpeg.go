package audio

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/fmueller/chunkscribe/internal/chunk"
	"go.uber.org/zap"
)

var ErrToolNotFound = errors.New("audio tool not found")

const (
	ffmpegPathEnv  = "CHUNKSCRIBE_FFMPEG_PATH"
	ffprobePathEnv = "CHUNKSCRIBE_FFPROBE_PATH"

	defaultMP3Quality = 4
)

type Options struct {
	FFmpegPath  string
	FFprobePath string
	// MP3Quality is the libmp3lame VBR quality, 0 (best) to 9.
	MP3Quality int
	Logger     *zap.Logger
}

// File is a decoded source whose duration has been probed once.
type File struct {
	Path       string
	durationMS int64

	ffmpeg  string
	quality int
	logger  *zap.Logger
}

// Open probes path and returns a File ready for exporting windows. WAV files
// are measured from their header; anything else goes through ffprobe.
func Open(ctx context.Context, path string, opts Options) (*File, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	ffmpegPath, err := ResolveTool("ffmpeg", opts.FFmpegPath, ffmpegPathEnv)
	if err != nil {
		return nil, err
	}

	quality := opts.MP3Quality
	if quality <= 0 || quality > 9 {
		quality = defaultMP3Quality
	}

	file := &File{Path: path, ffmpeg: ffmpegPath, quality: quality, logger: logger}

	if strings.EqualFold(filepath.Ext(path), ".wav") {
		info, err := ProbeWAV(path)
		if err == nil {
			file.durationMS = info.DurationMS()
			logger.Debug("duration read from wav header",
				zap.String("audio", path),
				zap.Int64("duration_ms", file.durationMS),
				zap.Bool("streamed_header", info.Streamed),
			)
			return file, nil
		}
		logger.Debug("wav header probe failed; falling back to ffprobe", zap.String("audio", path), zap.Error(err))
	}

	ffprobePath, err := ResolveTool("ffprobe", opts.FFprobePath, ffprobePathEnv)
	if err != nil {
		return nil, err
	}

	durationMS, err := probeDuration(ctx, ffprobePath, path)
	if err != nil {
		return nil, err
	}
	file.durationMS = durationMS
	logger.Debug("duration probed", zap.String("audio", path), zap.Int64("duration_ms", durationMS))

	return file, nil
}

func (f *File) DurationMS() int64 {
	return f.durationMS
}

// Export re-encodes the window [w.StartMS, w.EndMS) of the source to an mp3 at dst.
func (f *File) Export(ctx context.Context, w chunk.Window, dst string) error {
	if w.EndMS <= w.StartMS {
		return fmt.Errorf("empty window %s", w)
	}

	args := exportArgs(f.Path, dst, w, f.quality)
	f.logger.Debug("running ffmpeg", zap.String("ffmpeg", f.ffmpeg), zap.Strings("args", args))

	cmd := exec.CommandContext(ctx, f.ffmpeg, args...)
	var stderr bytes.Buffer
	cmd.Stdout = &stderr
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("ffmpeg export %s: %w (%s)", filepath.Base(dst), err, strings.TrimSpace(stderr.String()))
	}

	return nil
}

func exportArgs(src, dst string, w chunk.Window, quality int) []string {
	return []string{
		"-nostdin", "-hide_banner", "-loglevel", "error", "-y",
		"-ss", formatSeconds(w.StartMS),
		"-t", formatSeconds(w.Length()),
		"-i", src,
		"-vn",
		"-c:a", "libmp3lame",
		"-q:a", strconv.Itoa(quality),
		dst,
	}
}

func formatSeconds(ms int64) string {
	return fmt.Sprintf("%d.%03d", ms/1000, ms%1000)
}

func probeDuration(ctx context.Context, ffprobe, path string) (int64, error) {
	cmd := exec.CommandContext(ctx, ffprobe,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return 0, fmt.Errorf("ffprobe %s: %w (%s)", path, err, strings.TrimSpace(stderr.String()))
	}

	return parseProbeDuration(stdout.String())
}

// parseProbeDuration converts ffprobe's seconds output to milliseconds,
// rounded to the nearest millisecond.
func parseProbeDuration(output string) (int64, error) {
	value := strings.TrimSpace(output)
	if lines := strings.Fields(value); len(lines) > 0 {
		value = lines[0]
	}
	if value == "" || value == "N/A" {
		return 0, fmt.Errorf("ffprobe reported no duration")
	}

	seconds, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("parse ffprobe duration %q: %w", value, err)
	}
	if seconds < 0 || math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		return 0, fmt.Errorf("ffprobe reported invalid duration %q", value)
	}

	return int64(math.Round(seconds * 1000)), nil
}

// ResolveTool finds an executable: explicit override first, then the
// environment variable, then PATH.
func ResolveTool(name, override, envVar string) (string, error) {
	if candidate := strings.TrimSpace(override); candidate != "" {
		if err := ensureExecutable(candidate); err != nil {
			return "", fmt.Errorf("%w: %s: %v", ErrToolNotFound, name, err)
		}
		return candidate, nil
	}

	if candidate := strings.TrimSpace(os.Getenv(envVar)); candidate != "" {
		if err := ensureExecutable(candidate); err != nil {
			return "", fmt.Errorf("%w: %s is not executable: %v", ErrToolNotFound, envVar, err)
		}
		return candidate, nil
	}

	path, err := exec.LookPath(name)
	if err != nil {
		return "", fmt.Errorf("%w: %s is not installed or not in PATH", ErrToolNotFound, name)
	}
	return path, nil
}

func ensureExecutable(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", path)
	}
	if runtime.GOOS != "windows" && info.Mode()&0o111 == 0 {
		return fmt.Errorf("%s is not executable", path)
	}
	return nil
}
