// Package config loads the runtime configuration from a YAML file, an
// optional .env file and TALLY_* environment variables, in that order of
// increasing precedence.
package config

import (
	"errors"
	"fmt"
	iofs "io/fs"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/tally/pkg/core"
)

// DefaultFile is read when no config path is given and it exists.
const DefaultFile = "tally.yaml"

// EnvPrefix is prepended to every environment variable name.
const EnvPrefix = "TALLY_"

// Config is the full runtime configuration.
type Config struct {
	DataDir       string        `yaml:"data_dir" env:"DATA_DIR"`
	AccountsFile  string        `yaml:"accounts_file" env:"ACCOUNTS_FILE"`
	LogsFile      string        `yaml:"logs_file" env:"LOGS_FILE"`
	LockTimeout   time.Duration `yaml:"lock_timeout" env:"LOCK_TIMEOUT"`
	AdminCode     string        `yaml:"admin_code" env:"ADMIN_CODE"`
	StaffCode     string        `yaml:"staff_code" env:"STAFF_CODE"`
	StatementSize int           `yaml:"statement_size" env:"STATEMENT_SIZE"`
	Policy        core.Policy   `yaml:"policy" envPrefix:"POLICY_"`
	Log           LogConfig     `yaml:"log" envPrefix:"LOG_"`
}

// LogConfig selects the log handler.
type LogConfig struct {
	Level  string `yaml:"level" env:"LEVEL"`
	Format string `yaml:"format" env:"FORMAT"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		DataDir:       "data",
		AccountsFile:  "accounts.dat",
		LogsFile:      "logs.dat",
		LockTimeout:   2 * time.Second,
		AdminCode:     "1111",
		StaffCode:     "2222",
		StatementSize: 5,
		Policy: core.Policy{
			Denomination:   1,
			OpeningMinimum: 500,
		},
		Log: LogConfig{Level: "info", Format: "text"},
	}
}

// Load builds the configuration. An explicit path must exist; with an empty
// path DefaultFile is used only if present.
func Load(path string) (Config, error) {
	cfg := Default()

	file, required := path, true
	if file == "" {
		file, required = DefaultFile, false
	}
	if err := readFile(file, required, &cfg); err != nil {
		return Config{}, err
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, iofs.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to load .env: %w", err)
	}
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return Config{}, fmt.Errorf("failed to parse environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func readFile(path string, required bool, cfg *Config) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, iofs.ErrNotExist) && !required {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

// Validate checks values that would otherwise fail late.
func (c Config) Validate() error {
	if c.DataDir == "" {
		return errors.New("data_dir is required")
	}
	if c.AccountsFile == "" || c.LogsFile == "" {
		return errors.New("accounts_file and logs_file are required")
	}
	if c.AccountsFile == c.LogsFile {
		return errors.New("accounts_file and logs_file must differ")
	}
	if c.LockTimeout < 0 {
		return fmt.Errorf("lock_timeout cannot be negative: %s", c.LockTimeout)
	}
	if c.AdminCode == "" || c.StaffCode == "" {
		return errors.New("admin_code and staff_code are required")
	}
	if c.StatementSize < 1 {
		return fmt.Errorf("statement_size must be positive: %d", c.StatementSize)
	}
	return c.Policy.Validate()
}
