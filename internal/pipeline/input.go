package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
)

// ResolveInput returns the absolute path of an existing audio file.
func ResolveInput(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("%w: resolve %s: %v", ErrUsage, path, err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s", ErrNotFound, abs)
		}
		return "", fmt.Errorf("%w: stat %s: %w", ErrIO, abs, err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("%w: %s is a directory", ErrNotFound, abs)
	}

	return abs, nil
}
