package cli

import (
	"io"
	"sync"
	"time"

	"github.com/schollz/progressbar/v3"
)

type stopFunc func()

func startSpinner(enabled bool, w io.Writer, description string) stopFunc {
	if !enabled {
		return func() {}
	}

	bar := progressbar.NewOptions(
		-1,
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWriter(w),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionThrottle(80*time.Millisecond),
		progressbar.OptionClearOnFinish(),
	)

	stopCh := make(chan struct{})
	doneCh := make(chan struct{})

	go func() {
		defer close(doneCh)
		ticker := time.NewTicker(120 * time.Millisecond)
		defer ticker.Stop()

		for {
			select {
			case <-stopCh:
				_ = bar.Finish()
				return
			case <-ticker.C:
				_ = bar.Add(1)
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			close(stopCh)
			<-doneCh
		})
	}
}

// chunkProgress shows finished parts out of the planned total. All methods
// are no-ops when disabled or before start.
type chunkProgress struct {
	enabled bool
	w       io.Writer
	bar     *progressbar.ProgressBar
	once    sync.Once
}

func newChunkProgress(enabled bool, w io.Writer) *chunkProgress {
	return &chunkProgress{enabled: enabled, w: w}
}

func (p *chunkProgress) start(total int) {
	if !p.enabled || total <= 0 || p.bar != nil {
		return
	}

	p.bar = progressbar.NewOptions(
		total,
		progressbar.OptionSetDescription("Transcribing"),
		progressbar.OptionSetWriter(p.w),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(20),
		progressbar.OptionSetElapsedTime(true),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionClearOnFinish(),
	)
	_ = p.bar.RenderBlank()
}

func (p *chunkProgress) set(done int) {
	if p.bar == nil {
		return
	}
	_ = p.bar.Set(done)
}

func (p *chunkProgress) finish() {
	if p.bar == nil {
		return
	}
	p.once.Do(func() {
		_ = p.bar.Finish()
	})
}
