package platform

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindRoot(t *testing.T) {
	for _, marker := range rootMarkers {
		t.Run(marker, func(t *testing.T) {
			root := t.TempDir()
			nested := filepath.Join(root, "branch", "counter")
			require.NoError(t, os.MkdirAll(nested, 0755))
			require.NoError(t, os.WriteFile(filepath.Join(root, marker), nil, 0644))

			for _, start := range []string{root, filepath.Join(root, "branch"), nested} {
				got, err := FindRoot(start)
				require.NoError(t, err, start)
				assert.Equal(t, filepath.Clean(root), got, start)
			}
		})
	}
}

func TestFindRootNearestMarkerWins(t *testing.T) {
	project := t.TempDir()
	data := filepath.Join(project, "data")
	counter := filepath.Join(data, "counter")
	require.NoError(t, os.MkdirAll(counter, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(project, "tally.yaml"), []byte("data_dir: data\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(data, "accounts.dat"), nil, 0644))

	got, err := FindRoot(counter)
	require.NoError(t, err)
	assert.Equal(t, data, got)

	got, err = FindRoot(project)
	require.NoError(t, err)
	assert.Equal(t, project, got)
}
