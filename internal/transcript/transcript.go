package transcript

import (
	"fmt"
	"os"
	"strings"

	"github.com/fmueller/chunkscribe/internal/chunk"
)

// Chunk is the text returned for one window, kept verbatim.
type Chunk struct {
	chunk.Window
	Text string
}

func Header(w chunk.Window) string {
	return fmt.Sprintf("Part %d (%.1f–%.1f min)", w.Index, w.StartMinutes(), w.EndMinutes())
}

// Merge joins chunks in the given order. Each chunk is its header, a blank
// line and its text; chunks are separated by one blank line.
func Merge(chunks []Chunk) string {
	parts := make([]string, 0, len(chunks))
	for _, c := range chunks {
		parts = append(parts, Header(c.Window)+"\n\n"+c.Text)
	}
	return strings.Join(parts, "\n\n")
}

func WriteText(path string, text string) error {
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
