package testutils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// CreateTestFilesWithContent creates files below dir, making parent
// directories for nested names such as "a/b/c.txt"
func CreateTestFilesWithContent(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

// CreateTestFilesWithDefault creates a small source tree three levels deep
func CreateTestFilesWithDefault(t *testing.T, dir string) {
	t.Helper()
	files := map[string]string{
		"README.md":           "# sample\n",
		"src/main.rs":         "fn main() {\n    println!(\"hi\");\n}\n",
		"src/lib/mod.rs":      "pub mod util;\n",
		"src/lib/util.rs":     "pub fn add(a: i32, b: i32) -> i32 { a + b }\n",
		"tests/smoke_test.rs": "#[test]\nfn smoke() {}\n",
	}
	CreateTestFilesWithContent(t, dir, files)
}
