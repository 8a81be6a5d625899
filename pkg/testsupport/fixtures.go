package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/goliatone/go-richdoc/internal/document"
)

// LoadFixture reads a file relative to the calling test's package.
func LoadFixture(path string) ([]byte, error) {
	return os.ReadFile(filepath.Clean(path))
}

// MustLoadDocument decodes an editor JSON fixture or fails the test.
func MustLoadDocument(tb testing.TB, path string) *document.Node {
	tb.Helper()
	data, err := LoadFixture(path)
	if err != nil {
		tb.Fatalf("load fixture %s: %v", path, err)
	}
	root, err := document.Decode(data)
	if err != nil {
		tb.Fatalf("decode fixture %s: %v", path, err)
	}
	return root
}

// MustLoadGolden returns the expected output stored at path.
func MustLoadGolden(tb testing.TB, path string) string {
	tb.Helper()
	data, err := LoadFixture(path)
	if err != nil {
		tb.Fatalf("load golden %s: %v", path, err)
	}
	return string(data)
}
