package platform

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveDataDir(t *testing.T) {
	root := string(filepath.Separator)
	sandbox := filepath.Join(os.TempDir(), "tally-dev")

	t.Run("No Force Keeps Path", func(t *testing.T) {
		assert.Equal(t, "data", ResolveDataDir("data", false))
		assert.Equal(t, ".", ResolveDataDir("", false))
	})

	t.Run("Force Re-roots Outside Temp", func(t *testing.T) {
		outside := filepath.Join(root, "srv", "bank", "data")
		assert.Equal(t, filepath.Join(sandbox, "data"), ResolveDataDir(outside, true))
		assert.Equal(t, filepath.Join(sandbox, "default"), ResolveDataDir(root, true))
	})

	t.Run("Force Re-roots Relative Paths By Working Directory", func(t *testing.T) {
		t.Chdir(root)
		assert.Equal(t, filepath.Join(sandbox, "data"), ResolveDataDir("data", true))
		assert.Equal(t, filepath.Join(sandbox, "default"), ResolveDataDir(".", true))
	})

	t.Run("Force Trusts Temp Paths", func(t *testing.T) {
		dir := t.TempDir()
		assert.Equal(t, filepath.Clean(dir), ResolveDataDir(dir, true))
	})
}

func TestIsDevRunUnderTest(t *testing.T) {
	assert.True(t, IsDevRun())
}
