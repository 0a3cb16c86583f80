package platform

import (
	"log/slog"
	"time"

	"github.com/aretw0/tally/pkg/core"
)

// options holds the internal configuration for a ledger instance.
type options struct {
	repository   core.Repository
	logger       *slog.Logger
	policy       *core.Policy
	clock        func() time.Time
	lockTimeout  time.Duration
	accountsFile string
	logsFile     string
	readOnly     bool
	devSafety    bool
}

// Option defines a functional option for configuring the ledger.
type Option func(*options)

// defaultOptions returns the default configuration.
func defaultOptions() *options {
	return &options{
		lockTimeout: 2 * time.Second,
		devSafety:   true,
	}
}

// WithLogger sets the logger shared by the ledger and the repository.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithRepository allows injecting a custom storage adapter (e.g. memory).
// If provided, the default filesystem adapter will be skipped.
func WithRepository(repo core.Repository) Option {
	return func(o *options) {
		o.repository = repo
	}
}

// WithPolicy sets the amount rules.
func WithPolicy(p core.Policy) Option {
	return func(o *options) {
		o.policy = &p
	}
}

// WithClock overrides the time source for log entries.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.clock = now
	}
}

// WithLockTimeout sets how long opening waits for another process to release
// the data directory. Zero tries once.
func WithLockTimeout(d time.Duration) Option {
	return func(o *options) {
		o.lockTimeout = d
	}
}

// WithFiles overrides the resource file names inside the data directory.
// Empty names keep the defaults.
func WithFiles(accounts, logs string) Option {
	return func(o *options) {
		o.accountsFile = accounts
		o.logsFile = logs
	}
}

// WithReadOnly opens the data directory without taking the lock. Every
// mutation then fails with a storage error wrapping core.ErrReadOnly.
func WithReadOnly(enabled bool) Option {
	return func(o *options) {
		o.readOnly = enabled
	}
}

// WithDevSafety controls the sandbox used when running via `go run`.
// By default (true), relative data dirs are moved to a temporary directory.
//
// CAUTION: Only disable this if you are sure your code is safe.
func WithDevSafety(enabled bool) Option {
	return func(o *options) {
		o.devSafety = enabled
	}
}
