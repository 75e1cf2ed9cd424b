package walk_test

import (
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"hashdir/internal/walk"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestWalk_IndexesFilesInTraversalOrder(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "sub"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "z.txt"), []byte("zz"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("hello"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sub", "b.txt"), []byte("world"), 0o600))

	files, total, err := walk.Walk(dir, discardLogger())
	require.NoError(t, err)

	require.Len(t, files, 3)
	// WalkDir visits directory entries lexically, descending as it goes.
	assert.Equal(t, filepath.Join(dir, "a.txt"), files[0].Path)
	assert.Equal(t, filepath.Join(dir, "sub", "b.txt"), files[1].Path)
	assert.Equal(t, filepath.Join(dir, "z.txt"), files[2].Path)

	for i, f := range files {
		assert.Equal(t, i, f.Index)
	}

	assert.Equal(t, int64(len("hello")+len("world")+len("zz")), total)
	assert.Equal(t, int64(5), files[0].Size)
}

func TestWalk_EmptyDirectory(t *testing.T) {
	t.Parallel()

	files, total, err := walk.Walk(t.TempDir(), discardLogger())

	require.NoError(t, err)
	assert.Empty(t, files)
	assert.Zero(t, total)
}

func TestWalk_NonexistentRoot(t *testing.T) {
	t.Parallel()

	files, total, err := walk.Walk(filepath.Join(t.TempDir(), "missing"), discardLogger())

	require.Error(t, err)
	assert.ErrorIs(t, err, fs.ErrNotExist)
	assert.Empty(t, files)
	assert.Zero(t, total)
}

func TestWalk_SkipsUnreadableSubdirectory(t *testing.T) {
	t.Parallel()

	if os.Geteuid() == 0 {
		t.Skip("directory permissions are not enforced for root")
	}

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "readable.txt"), []byte("ok"), 0o600))

	locked := filepath.Join(dir, "locked")
	require.NoError(t, os.MkdirAll(locked, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(locked, "hidden.txt"), []byte("nope"), 0o600))
	require.NoError(t, os.Chmod(locked, 0o000))
	t.Cleanup(func() {
		_ = os.Chmod(locked, 0o755)
	})

	files, total, err := walk.Walk(dir, discardLogger())

	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, filepath.Join(dir, "readable.txt"), files[0].Path)
	assert.Equal(t, int64(len("ok")), total)
}

func TestWalk_UnicodeFilenames(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	name := "héllo wörld 🎉.txt"
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("data"), 0o600))

	files, _, err := walk.Walk(dir, discardLogger())

	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, name, filepath.Base(files[0].Path))
}

func TestWalk_SkipsSymlinks(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	target := filepath.Join(dir, "real.txt")
	require.NoError(t, os.WriteFile(target, []byte("content"), 0o600))
	if err := os.Symlink(target, filepath.Join(dir, "link.txt")); err != nil {
		t.Skipf("symlinks not supported here: %v", err)
	}

	files, total, err := walk.Walk(dir, discardLogger())

	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, target, files[0].Path)
	assert.Equal(t, int64(len("content")), total)
}
