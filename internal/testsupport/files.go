package testsupport

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"mediadock/internal/config"
)

// WriteImage places a size-byte file at <media_root>/images/<name>, as if it
// had been uploaded, and returns its absolute path. A size <= 0 writes one byte.
func WriteImage(t testing.TB, cfg *config.Config, name string, size int) string {
	t.Helper()

	path := filepath.Join(cfg.ImagesDir(), filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, bytes.Repeat([]byte{0x42}, max(size, 1)), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}
