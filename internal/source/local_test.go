package source

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codetyper/internal/errors"
	"codetyper/pkg/testutils"
)

func TestLocalEnumerateCountsAllFiles(t *testing.T) {
	tests := []struct {
		name  string
		files map[string]string
	}{
		{"flat", map[string]string{"a.txt": "a", "b.txt": "b"}},
		{"nested", map[string]string{"a.txt": "a", "x/b.txt": "b", "x/y/c.txt": "c", "x/y/z/d.txt": "d"}},
		{"only deep", map[string]string{"1/2/3/4/5/deep.txt": "deep"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			testutils.CreateTestFilesWithContent(t, dir, tt.files)

			files, err := NewLocal(dir).Enumerate(context.Background())
			require.NoError(t, err)
			assert.Len(t, files, len(tt.files))

			var want []string
			for name := range tt.files {
				want = append(want, filepath.Join(dir, filepath.FromSlash(name)))
			}
			sort.Strings(want)
			sort.Strings(files)
			assert.Equal(t, want, files)
		})
	}
}

func TestLocalEnumerateDefaultTree(t *testing.T) {
	dir := t.TempDir()
	testutils.CreateTestFilesWithDefault(t, dir)

	files, err := NewLocal(dir).Enumerate(context.Background())
	require.NoError(t, err)
	assert.Len(t, files, 5)
	assert.Contains(t, files, filepath.Join(dir, "src", "lib", "util.rs"))
}

func TestLocalEnumerateEmptyTree(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "empty", "nested"), 0o755))

	files, err := NewLocal(dir).Enumerate(context.Background())
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestLocalEnumerateMissingRoot(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing")

	_, err := NewLocal(missing).Enumerate(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsFilesystemFailure(err))

	var fileErr *errors.FileError
	require.True(t, errors.As(err, &fileErr))
	assert.Equal(t, missing, fileErr.Path())
}

func TestLocalEnumerateRootIsFile(t *testing.T) {
	dir := t.TempDir()
	testutils.CreateTestFilesWithContent(t, dir, map[string]string{"x.txt": "x"})

	_, err := NewLocal(filepath.Join(dir, "x.txt")).Enumerate(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsFilesystemFailure(err))
}

func TestLocalEnumerateSymlinkCycle(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need privileges on windows")
	}
	dir := t.TempDir()
	testutils.CreateTestFilesWithContent(t, dir, map[string]string{"a/file.txt": "x"})
	require.NoError(t, os.Symlink(dir, filepath.Join(dir, "a", "loop")))

	files, err := NewLocal(dir).Enumerate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "a", "file.txt")}, files)
}

func TestLocalEnumerateFollowsSymlinkedDir(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need privileges on windows")
	}
	outside := t.TempDir()
	testutils.CreateTestFilesWithContent(t, outside, map[string]string{"shared.txt": "s"})

	dir := t.TempDir()
	testutils.CreateTestFilesWithContent(t, dir, map[string]string{"own.txt": "o"})
	require.NoError(t, os.Symlink(outside, filepath.Join(dir, "linked")))

	files, err := NewLocal(dir).Enumerate(context.Background())
	require.NoError(t, err)
	sort.Strings(files)
	assert.Equal(t, []string{
		filepath.Join(dir, "linked", "shared.txt"),
		filepath.Join(dir, "own.txt"),
	}, files)
}

func TestLocalOpen(t *testing.T) {
	dir := t.TempDir()
	testutils.CreateTestFilesWithContent(t, dir, map[string]string{"x.txt": "ab"})
	local := NewLocal(dir)

	rc, err := local.Open(context.Background(), filepath.Join(dir, "x.txt"))
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Equal(t, "ab", string(data))

	_, err = local.Open(context.Background(), filepath.Join(dir, "nope.txt"))
	require.Error(t, err)
	assert.True(t, errors.IsFilesystemFailure(err))
}

func TestLocalRel(t *testing.T) {
	local := NewLocal(filepath.Join("home", "me", "proj"))
	assert.Equal(t, "src/a.go", local.Rel(filepath.Join("home", "me", "proj", "src", "a.go")))
	assert.Equal(t, "local:"+filepath.Join("home", "me", "proj"), local.Name())
}
