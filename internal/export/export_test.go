package export

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDirSaverWritesFile(t *testing.T) {
	dir := t.TempDir()
	saver := DirSaver{Dir: dir}

	saved, err := saver.Save("liked-videos.json", []byte(`[]`))
	require.NoError(t, err)
	require.True(t, saved)

	data, err := os.ReadFile(filepath.Join(dir, "liked-videos.json"))
	require.NoError(t, err)
	require.Equal(t, []byte(`[]`), data)
}

func TestDirSaverEmptyDirIsCancellation(t *testing.T) {
	saved, err := DirSaver{}.Save("liked-videos.json", []byte(`[]`))
	require.NoError(t, err)
	require.False(t, saved)
}

func TestDirSaverCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "exports")
	saved, err := DirSaver{Dir: dir}.Save("out.json", []byte(`{}`))
	require.NoError(t, err)
	require.True(t, saved)
}
