package chunk

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Names derives every output path of a run from the source audio path.
// All outputs live next to the source file.
type Names struct {
	Dir  string
	Base string
}

func NamesFor(audioPath string) Names {
	clean := filepath.Clean(audioPath)
	file := filepath.Base(clean)
	return Names{
		Dir:  filepath.Dir(clean),
		Base: strings.TrimSuffix(file, filepath.Ext(file)),
	}
}

func (n Names) AudioPath(index int) string {
	return filepath.Join(n.Dir, fmt.Sprintf("%s_part_%d.mp3", n.Base, index))
}

func (n Names) TranscriptPath(index int) string {
	return filepath.Join(n.Dir, fmt.Sprintf("%s_part_%d_transcript.txt", n.Base, index))
}

func (n Names) MergedPath() string {
	return filepath.Join(n.Dir, n.Base+"_full_transcript.txt")
}
