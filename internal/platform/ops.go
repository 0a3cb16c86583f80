package platform

import (
	"context"
	"log/slog"

	"github.com/aretw0/tally/pkg/adapters/fs"
	"github.com/aretw0/tally/pkg/core"
)

// Init opens the storage for the data directory dir and returns it ready for
// loading. An injected repository is returned as is.
func Init(ctx context.Context, dir string, opts ...Option) (core.Repository, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	if o.repository != nil {
		return o.repository, nil
	}
	repo, err := initFS(ctx, dir, o)
	if err != nil {
		return nil, err
	}
	return repo, nil
}

// initFS handles the initialization logic for the filesystem adapter.
func initFS(ctx context.Context, dir string, o *options) (*fs.Repository, error) {
	logger := o.logger
	if logger == nil {
		logger = slog.Default()
	}

	useTemp := o.devSafety && IsDevRun()
	resolved := ResolveDataDir(dir, useTemp)
	if useTemp && resolved != dir {
		logger.Warn("running in SAFE MODE (dev sandbox)", "original_path", dir, "resolved_path", resolved)
	}

	repo := fs.NewRepository(fs.Config{
		Dir:          resolved,
		AccountsFile: o.accountsFile,
		LogsFile:     o.logsFile,
		LockTimeout:  o.lockTimeout,
		ReadOnly:     o.readOnly,
		Logger:       logger,
	})
	if err := repo.Open(ctx); err != nil {
		return nil, err
	}
	return repo, nil
}
