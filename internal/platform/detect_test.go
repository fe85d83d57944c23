package platform

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultConfigPathForLinuxUsesXDG(t *testing.T) {
	t.Parallel()

	path, err := DefaultConfigPathFor("linux", "/home/dev", "/tmp/xdg-config")
	require.NoError(t, err)
	require.Equal(t, "/tmp/xdg-config/chunkscribe/config.yaml", path)
}

func TestDefaultConfigPathForLinuxFallback(t *testing.T) {
	t.Parallel()

	path, err := DefaultConfigPathFor("linux", "/home/dev", "")
	require.NoError(t, err)
	require.Equal(t, "/home/dev/.config/chunkscribe/config.yaml", path)
}

func TestDefaultConfigPathForDarwin(t *testing.T) {
	t.Parallel()

	path, err := DefaultConfigPathFor("darwin", "/Users/dev", "")
	require.NoError(t, err)
	require.Equal(t, "/Users/dev/Library/Application Support/chunkscribe/config.yaml", path)
}

func TestDefaultConfigPathForRejectsUnknownOS(t *testing.T) {
	t.Parallel()

	_, err := DefaultConfigPathFor("plan9", "/home/dev", "")
	require.Error(t, err)

	_, err = DefaultConfigPathFor("linux", "", "")
	require.Error(t, err)
}

func TestResolveConfigPathOverride(t *testing.T) {
	t.Parallel()

	path, err := ResolveConfigPath("/etc/chunkscribe/../chunkscribe/config.yaml")
	require.NoError(t, err)
	require.Equal(t, "/etc/chunkscribe/config.yaml", path)
}

func TestResolveConfigPathFindsDefaultFile(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("xdg lookup is linux only")
	}

	home := t.TempDir()
	xdg := filepath.Join(home, "xdg")
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", xdg)

	path, err := ResolveConfigPath("")
	require.NoError(t, err)
	require.Empty(t, path)

	want, err := DefaultConfigPathFor("linux", home, xdg)
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(filepath.Dir(want), 0o755))
	require.NoError(t, os.WriteFile(want, []byte("chunk_minutes: 10\n"), 0o644))

	path, err = ResolveConfigPath("")
	require.NoError(t, err)
	require.Equal(t, want, path)
}
