package sources

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeFiles(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte("Say "+name), 0o644))
	}
}

func TestDiscover(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "a.rock", "b.rockstar", "notes.txt", "songs/c.rock", "songs/deep/d.ROCK")

	files, err := Discover([]string{dir})
	require.NoError(t, err)
	require.Equal(t, []string{
		filepath.Join(dir, "a.rock"),
		filepath.Join(dir, "b.rockstar"),
	}, files)

	files, err = Discover([]string{dir + "/..."})
	require.NoError(t, err)
	require.ElementsMatch(t, []string{
		filepath.Join(dir, "a.rock"),
		filepath.Join(dir, "b.rockstar"),
		filepath.Join(dir, "songs", "c.rock"),
		filepath.Join(dir, "songs", "deep", "d.ROCK"),
	}, files)

	files, err = Discover([]string{filepath.Join(dir, "*.rock"), filepath.Join(dir, "a.rock")})
	require.NoError(t, err)
	require.Equal(t, []string{filepath.Join(dir, "a.rock")}, files)

	// Named files are taken as given
	files, err = Discover([]string{filepath.Join(dir, "notes.txt")})
	require.NoError(t, err)
	require.Equal(t, []string{filepath.Join(dir, "notes.txt")}, files)

	_, err = Discover([]string{filepath.Join(dir, "missing")})
	require.Error(t, err)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "a.rock")
	srcs, err := Load([]string{filepath.Join(dir, "a.rock")})
	require.NoError(t, err)
	require.Equal(t, []Source{{Name: filepath.Join(dir, "a.rock"), Code: "Say a.rock"}}, srcs)

	_, err = Load([]string{filepath.Join(dir, "b.rock")})
	require.Error(t, err)
}

func TestOutputPath(t *testing.T) {
	require.Equal(t, "songs/fizz.wasm", OutputPath("songs/fizz.rock", "", ".wasm"))
	require.Equal(t, filepath.Join("out", "fizz.wat"), OutputPath("songs/fizz.rock", "out", ".wat"))
	require.Equal(t, "README.wasm", OutputPath("README", "", ".wasm"))
}
