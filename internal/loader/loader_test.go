package loader

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codetyper/internal/errors"
	"codetyper/internal/source"
	"codetyper/pkg/testutils"
)

func TestLoadValidText(t *testing.T) {
	tests := []struct {
		name    string
		content string
		length  int
	}{
		{"ascii", "fn main() {}\n", 13},
		{"multibyte", "// héllo wörld ✓\n", 17},
		{"emoji", "🦀🦀", 2},
		{"empty", "", 0},
	}

	dir := t.TempDir()
	local := source.NewLocal(dir)
	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			name := fmt.Sprintf("f%d.txt", i)
			testutils.CreateTestFilesWithContent(t, dir, map[string]string{name: tt.content})
			id := filepath.Join(dir, name)

			content, err := Load(context.Background(), local, id)
			require.NoError(t, err)
			assert.Equal(t, id, content.ID)
			assert.Equal(t, tt.content, content.Text)
			assert.Equal(t, tt.length, content.Len())
		})
	}
}

func TestLoadInvalidUTF8(t *testing.T) {
	dir := t.TempDir()
	testutils.CreateTestFilesWithContent(t, dir, map[string]string{
		"binary.bin":    "\x00\x01\xff\xfe\x80",
		"truncated.txt": "abc\xe2\x82", // first two bytes of a three-byte rune
	})
	local := source.NewLocal(dir)

	for _, name := range []string{"binary.bin", "truncated.txt"} {
		t.Run(name, func(t *testing.T) {
			id := filepath.Join(dir, name)
			_, err := Load(context.Background(), local, id)
			require.Error(t, err)
			assert.True(t, errors.IsInvalidContent(err))

			var fileErr *errors.FileError
			require.True(t, errors.As(err, &fileErr))
			assert.Equal(t, id, fileErr.Path())
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	dir := t.TempDir()
	_, err := Load(context.Background(), source.NewLocal(dir), filepath.Join(dir, "gone.txt"))
	require.Error(t, err)
	assert.True(t, errors.IsFilesystemFailure(err))
}

func TestLoadDirectory(t *testing.T) {
	dir := t.TempDir()
	testutils.CreateTestFilesWithContent(t, dir, map[string]string{"sub/x.txt": "x"})

	_, err := Load(context.Background(), source.NewLocal(dir), filepath.Join(dir, "sub"))
	require.Error(t, err)
	assert.True(t, errors.IsFilesystemFailure(err))
}

// failingSource opens readers that fail part way through
type failingSource struct{}

func (failingSource) Name() string { return "failing" }

func (failingSource) Enumerate(context.Context) ([]string, error) { return nil, nil }

func (failingSource) Open(context.Context, string) (io.ReadCloser, error) {
	return io.NopCloser(io.MultiReader(strings.NewReader("partial"), errReader{})), nil
}

type errReader struct{}

func (errReader) Read([]byte) (int, error) { return 0, fmt.Errorf("connection reset") }

func TestLoadReadFailure(t *testing.T) {
	_, err := Load(context.Background(), failingSource{}, "x")
	require.Error(t, err)
	assert.True(t, errors.IsFilesystemFailure(err))
	assert.Contains(t, err.Error(), "connection reset")
}
