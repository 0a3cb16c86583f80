package fs_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/tally/pkg/adapters/fs"
)

func TestWatch(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	repo, dir := setupRepo(t)
	changes, err := repo.Watch(ctx)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		state := repo.State().(fs.RepositoryState)
		return state.WatcherActive
	}, time.Second, 10*time.Millisecond)

	t.Run("Own Saves Are Ignored", func(t *testing.T) {
		require.NoError(t, repo.Save(ctx, sampleSnapshot()))

		select {
		case c := <-changes:
			t.Fatalf("unexpected change from own save: %v", c)
		case <-time.After(200 * time.Millisecond):
		}
	})

	t.Run("Foreign Writes Are Reported", func(t *testing.T) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, fs.DefaultLogsFile), []byte("garbage"), 0644))

		select {
		case c := <-changes:
			assert.Equal(t, fs.DefaultLogsFile, c.Resource)
			assert.Equal(t, "write", c.Op)
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for external change")
		}
	})

	t.Run("Unrelated Files Are Ignored", func(t *testing.T) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("hi"), 0644))

		select {
		case c := <-changes:
			t.Fatalf("unexpected change: %v", c)
		case <-time.After(200 * time.Millisecond):
		}
	})

	cancel()
	require.Eventually(t, func() bool {
		_, open := <-changes
		return !open
	}, 2*time.Second, 10*time.Millisecond)
}
