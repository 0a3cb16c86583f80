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
	"github.com/aretw0/tally/pkg/core"
)

// setupRepo creates an opened repository in a fresh directory.
func setupRepo(t *testing.T, opts ...func(*fs.Config)) (*fs.Repository, string) {
	t.Helper()

	dir := filepath.Join(t.TempDir(), "data")
	cfg := fs.Config{Dir: dir}
	for _, opt := range opts {
		opt(&cfg)
	}

	repo := fs.NewRepository(cfg)
	require.NoError(t, repo.Open(context.Background()))
	t.Cleanup(func() { _ = repo.Close() })
	return repo, dir
}

func sampleSnapshot() core.Snapshot {
	stamp := time.Date(2024, time.January, 2, 3, 4, 5, 0, time.Local)
	return core.Snapshot{
		Accounts: []core.AccountRecord{sampleAccount()},
		Logs: []core.LogRecord{
			{AccountID: 1, Entries: []core.Entry{{Text: "Account created", Time: stamp}}},
			{AccountID: 2, Entries: []core.Entry{{Text: "Account deleted", Time: stamp}}},
		},
	}
}

func TestOpen(t *testing.T) {
	t.Run("Creates Directory And Lock", func(t *testing.T) {
		_, dir := setupRepo(t)

		info, err := os.Stat(dir)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
		_, err = os.Stat(filepath.Join(dir, fs.DefaultLockFile))
		assert.NoError(t, err)
	})

	t.Run("Second Repository Is Refused", func(t *testing.T) {
		_, dir := setupRepo(t)

		other := fs.NewRepository(fs.Config{Dir: dir})
		err := other.Open(context.Background())
		assert.ErrorIs(t, err, fs.ErrLocked)
	})

	t.Run("Close Releases Lock", func(t *testing.T) {
		repo, dir := setupRepo(t)
		require.NoError(t, repo.Close())

		other := fs.NewRepository(fs.Config{Dir: dir})
		require.NoError(t, other.Open(context.Background()))
		assert.NoError(t, other.Close())
	})

	t.Run("Read Only Requires Directory", func(t *testing.T) {
		repo := fs.NewRepository(fs.Config{Dir: filepath.Join(t.TempDir(), "missing"), ReadOnly: true})
		assert.Error(t, repo.Open(context.Background()))
	})
}

func TestLoadMissingFiles(t *testing.T) {
	repo, _ := setupRepo(t)

	snap, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, snap.Accounts)
	assert.Empty(t, snap.Logs)
}

func TestSaveLoad(t *testing.T) {
	ctx := context.Background()
	repo, dir := setupRepo(t)

	in := sampleSnapshot()
	require.NoError(t, repo.Save(ctx, in))

	_, err := os.Stat(filepath.Join(dir, fs.DefaultAccountsFile))
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, fs.DefaultLogsFile))
	require.NoError(t, err)

	out, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, in.Accounts, out.Accounts)
	require.Len(t, out.Logs, 2)
	assert.Equal(t, in.Logs[1].Entries[0].Text, out.Logs[1].Entries[0].Text)
	assert.True(t, in.Logs[1].Entries[0].Time.Equal(out.Logs[1].Entries[0].Time))

	t.Run("Save Truncates", func(t *testing.T) {
		require.NoError(t, repo.Save(ctx, core.Snapshot{}))
		info, err := os.Stat(filepath.Join(dir, fs.DefaultAccountsFile))
		require.NoError(t, err)
		assert.Zero(t, info.Size())
	})
}

func TestLoadDamagedAccounts(t *testing.T) {
	ctx := context.Background()
	repo, dir := setupRepo(t)
	require.NoError(t, repo.Save(ctx, sampleSnapshot()))

	path := filepath.Join(dir, fs.DefaultAccountsFile)
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0644)
	require.NoError(t, err)
	_, err = f.Write([]byte{1, 2, 3})
	require.NoError(t, err)
	require.NoError(t, f.Close())

	snap, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, snap.Accounts, 1)
}

func TestSaveReadOnly(t *testing.T) {
	dir := t.TempDir()
	repo := fs.NewRepository(fs.Config{Dir: dir, ReadOnly: true})
	require.NoError(t, repo.Open(context.Background()))

	err := repo.Save(context.Background(), sampleSnapshot())
	assert.ErrorIs(t, err, core.ErrReadOnly)
}

func TestSaveRequiresOpen(t *testing.T) {
	repo := fs.NewRepository(fs.Config{Dir: t.TempDir()})
	assert.Error(t, repo.Save(context.Background(), sampleSnapshot()))
}

func TestCustomFileNames(t *testing.T) {
	ctx := context.Background()
	repo, dir := setupRepo(t, func(c *fs.Config) {
		c.AccountsFile = "acc.bin"
		c.LogsFile = "log.bin"
	})
	require.NoError(t, repo.Save(ctx, sampleSnapshot()))

	assert.Equal(t, filepath.Join(dir, "acc.bin"), repo.AccountsPath())
	_, err := os.Stat(repo.LogsPath())
	assert.NoError(t, err)
}

func TestRepositoryState(t *testing.T) {
	ctx := context.Background()
	repo, dir := setupRepo(t)
	require.NoError(t, repo.Save(ctx, sampleSnapshot()))

	state, ok := repo.State().(fs.RepositoryState)
	require.True(t, ok)
	assert.Equal(t, dir, state.Dir)
	assert.True(t, state.Locked)
	assert.Equal(t, 1, state.Saves)
	assert.NotNil(t, state.LastSave)
	assert.Equal(t, "repository", repo.ComponentType())
}
