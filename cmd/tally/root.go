package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/aretw0/tally/internal/auth"
	"github.com/aretw0/tally/internal/config"
	"github.com/aretw0/tally/internal/logging"
	"github.com/aretw0/tally/internal/platform"
	"github.com/aretw0/tally/pkg/core"
)

var (
	configPath string
	dataDir    string
	verbose    bool
	logFormat  string

	cfg    config.Config
	logger *slog.Logger
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "tally",
	Short: "A teller ledger for current and savings accounts",
	Long: `Tally keeps customer accounts and their activity logs in two binary files.
Every change is validated, logged and saved before it is acknowledged.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		path, root := locateConfig()
		loaded, err := config.Load(path)
		if err != nil {
			return err
		}
		cfg = loaded

		if path != "" && !filepath.IsAbs(cfg.DataDir) {
			cfg.DataDir = filepath.Join(filepath.Dir(path), cfg.DataDir)
		} else if path == "" && root != "" && !dataDirExplicit() {
			cfg.DataDir = root
		}
		if cmd.Flags().Changed("data-dir") {
			cfg.DataDir = dataDir
		}
		if cmd.Flags().Changed("log-format") {
			cfg.Log.Format = logFormat
		}

		level, err := logging.ParseLevel(cfg.Log.Level)
		if err != nil {
			return err
		}
		if verbose {
			level = slog.LevelDebug
		}
		logger, err = logging.New(os.Stderr, logging.Options{Level: level, Format: cfg.Log.Format})
		if err != nil {
			return err
		}
		slog.SetDefault(logger)
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default: tally.yaml found upwards)")
	rootCmd.PersistentFlags().StringVarP(&dataDir, "data-dir", "d", "", "Directory holding accounts.dat and logs.dat")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "Log format: text or json")
}

// locateConfig returns the config file to load and the discovered root.
// Without --config the nearest directory holding tally.yaml or the data
// files is used.
func locateConfig() (string, string) {
	if configPath != "" {
		return configPath, ""
	}
	root, err := platform.FindRoot(".")
	if err != nil {
		return "", ""
	}
	candidate := filepath.Join(root, config.DefaultFile)
	if _, err := os.Stat(candidate); err == nil {
		return candidate, root
	}
	return "", root
}

func dataDirExplicit() bool {
	_, ok := os.LookupEnv(config.EnvPrefix + "DATA_DIR")
	return ok
}

func platformOptions(readOnly bool) []platform.Option {
	return []platform.Option{
		platform.WithLogger(logger),
		platform.WithPolicy(cfg.Policy),
		platform.WithLockTimeout(cfg.LockTimeout),
		platform.WithFiles(cfg.AccountsFile, cfg.LogsFile),
		platform.WithReadOnly(readOnly),
	}
}

// openLedger opens the configured data directory. Read-only ledgers skip
// the directory lock so they can run next to a console.
func openLedger(ctx context.Context, readOnly bool) (*core.Ledger, error) {
	return platform.New(ctx, cfg.DataDir, platformOptions(readOnly)...)
}

func newGate() (*auth.Gate, error) {
	return auth.NewGate(map[auth.Role]string{
		auth.Admin: cfg.AdminCode,
		auth.Staff: cfg.StaffCode,
	})
}

// withLedger runs fn against an open ledger and closes it afterwards.
func withLedger(ctx context.Context, readOnly bool, fn func(*core.Ledger) error) (err error) {
	ledger, err := openLedger(ctx, readOnly)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := ledger.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return fn(ledger)
}
