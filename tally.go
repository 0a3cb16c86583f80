package tally

import (
	"context"
	"log/slog"
	"time"

	"github.com/aretw0/tally/internal/platform"
	"github.com/aretw0/tally/pkg/core"
)

// Version is the release of the library and the tally command.
const Version = "0.1.0"

// --- Types ---

// Ledger is the transactional account book.
type Ledger = core.Ledger

// Profile holds the customer details of an account.
type Profile = core.Profile

// Policy holds the amount rules applied to every money movement.
type Policy = core.Policy

// Account is a read-only view of a stored account.
type Account = core.Account

// Entry is a single timestamped log line.
type Entry = core.Entry

// History is the full log of a live or deleted account.
type History = core.History

// --- Configuration ---

// Option defines a functional option for opening a ledger.
type Option = platform.Option

// WithLogger sets the logger for the ledger and its storage.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithRepository allows injecting a custom storage adapter.
func WithRepository(repo core.Repository) Option {
	return platform.WithRepository(repo)
}

// WithPolicy replaces the default amount rules.
func WithPolicy(p Policy) Option {
	return platform.WithPolicy(p)
}

// WithClock sets the time source used to stamp log entries.
func WithClock(now func() time.Time) Option {
	return platform.WithClock(now)
}

// WithLockTimeout bounds how long opening waits for the directory lock.
func WithLockTimeout(d time.Duration) Option {
	return platform.WithLockTimeout(d)
}

// WithFiles overrides the accounts and logs file names.
func WithFiles(accounts, logs string) Option {
	return platform.WithFiles(accounts, logs)
}

// WithReadOnly opens the data directory without taking the lock. Saves fail.
func WithReadOnly(enabled bool) Option {
	return platform.WithReadOnly(enabled)
}

// WithDevSafety redirects data directories to a sandbox when
// running under go run or go test. Enabled by default.
func WithDevSafety(enabled bool) Option {
	return platform.WithDevSafety(enabled)
}

// --- Constructors ---

// New opens the data directory dir and returns a loaded ledger.
// The caller must Close it to release the directory lock.
func New(ctx context.Context, dir string, opts ...Option) (*Ledger, error) {
	return platform.New(ctx, dir, opts...)
}
