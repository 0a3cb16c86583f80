package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/tally/internal/config"
)

func TestDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
	assert.Equal(t, int64(500), cfg.Policy.OpeningMinimum)
	assert.Equal(t, 5, cfg.StatementSize)
}

func TestYAMLFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	yaml := `data_dir: /var/lib/tally
lock_timeout: 5s
statement_size: 10
policy:
  minimum_balance: 10
  denomination: 10
  opening_minimum: 100
log:
  format: json
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.DefaultFile), []byte(yaml), 0644))

	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/tally", cfg.DataDir)
	assert.Equal(t, 5*time.Second, cfg.LockTimeout)
	assert.Equal(t, 10, cfg.StatementSize)
	assert.Equal(t, int64(10), cfg.Policy.MinimumBalance)
	assert.Equal(t, int64(100), cfg.Policy.OpeningMinimum)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "info", cfg.Log.Level, "unset keys keep defaults")
	assert.Equal(t, "accounts.dat", cfg.AccountsFile)
}

func TestExplicitFileMustExist(t *testing.T) {
	t.Chdir(t.TempDir())
	_, err := config.Load("missing.yaml")
	assert.Error(t, err)
}

func TestEnvironmentOverrides(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.DefaultFile), []byte("data_dir: fromfile\n"), 0644))

	t.Setenv("TALLY_DATA_DIR", "fromenv")
	t.Setenv("TALLY_POLICY_OPENING_MINIMUM", "0")
	t.Setenv("TALLY_LOG_LEVEL", "debug")

	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, "fromenv", cfg.DataDir)
	assert.Zero(t, cfg.Policy.OpeningMinimum)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestDotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("TALLY_ADMIN_CODE=9876\n"), 0644))
	t.Cleanup(func() { os.Unsetenv("TALLY_ADMIN_CODE") })

	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, "9876", cfg.AdminCode)
}

func TestValidate(t *testing.T) {
	cases := map[string]func(*config.Config){
		"empty data dir":      func(c *config.Config) { c.DataDir = "" },
		"same file names":     func(c *config.Config) { c.LogsFile = c.AccountsFile },
		"negative timeout":    func(c *config.Config) { c.LockTimeout = -time.Second },
		"missing admin code":  func(c *config.Config) { c.AdminCode = "" },
		"zero statement size": func(c *config.Config) { c.StatementSize = 0 },
		"negative floor":      func(c *config.Config) { c.Policy.MinimumBalance = -1 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := config.Default()
			mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
