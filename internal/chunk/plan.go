package chunk

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const (
	DefaultMinutes = 20
	msPerMinute    = 60_000
)

var (
	ErrInvalidChunkMinutes = errors.New("chunk_minutes must be a positive integer (e.g. 20)")
	ErrInvalidDuration     = errors.New("audio duration must not be negative")
)

// Window is one half-open [StartMS, EndMS) range of the source audio.
// Index is 1-based.
type Window struct {
	Index   int
	StartMS int64
	EndMS   int64
}

func (w Window) Length() int64 {
	return w.EndMS - w.StartMS
}

func (w Window) StartMinutes() float64 {
	return float64(w.StartMS) / msPerMinute
}

func (w Window) EndMinutes() float64 {
	return float64(w.EndMS) / msPerMinute
}

func (w Window) String() string {
	return fmt.Sprintf("part %d: %.1f–%.1f min", w.Index, w.StartMinutes(), w.EndMinutes())
}

// Plan partitions [0, durationMS) into contiguous windows of chunkMinutes.
// The last window is shorter when durationMS is not an exact multiple.
// A zero duration yields no windows.
func Plan(durationMS int64, chunkMinutes int) ([]Window, error) {
	if chunkMinutes <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidChunkMinutes, chunkMinutes)
	}
	if durationMS < 0 {
		return nil, fmt.Errorf("%w: got %d ms", ErrInvalidDuration, durationMS)
	}

	chunkMS := int64(chunkMinutes) * msPerMinute
	count := (durationMS + chunkMS - 1) / chunkMS

	windows := make([]Window, 0, count)
	for i := int64(0); i < count; i++ {
		windows = append(windows, Window{
			Index:   int(i) + 1,
			StartMS: i * chunkMS,
			EndMS:   min((i+1)*chunkMS, durationMS),
		})
	}

	return windows, nil
}

// ParseChunkMinutes parses the optional chunk length argument.
func ParseChunkMinutes(raw string) (int, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return DefaultMinutes, nil
	}

	minutes, err := strconv.Atoi(trimmed)
	if err != nil {
		return 0, fmt.Errorf("%w: got %q", ErrInvalidChunkMinutes, raw)
	}
	if minutes <= 0 {
		return 0, fmt.Errorf("%w: got %d", ErrInvalidChunkMinutes, minutes)
	}

	return minutes, nil
}
