package fs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/aretw0/tally/pkg/core"
)

// Default resource names inside the data directory.
const (
	DefaultAccountsFile = "accounts.dat"
	DefaultLogsFile     = "logs.dat"
	DefaultLockFile     = ".tally.lock"
)

// Repository implements core.Repository with two binary resources: the
// fixed-record account file and the length-prefixed log file. Both are
// rewritten in full on every save.
type Repository struct {
	config Config

	mu            sync.RWMutex
	lock          *fileLock
	stamps        map[string]fileStamp
	saves         int
	lastSave      *time.Time
	watcherActive bool
}

// Config holds the configuration for the filesystem repository.
type Config struct {
	Dir          string
	AccountsFile string        // defaults to accounts.dat
	LogsFile     string        // defaults to logs.dat
	LockFile     string        // defaults to .tally.lock
	LockTimeout  time.Duration // how long Open waits for another owner
	ReadOnly     bool          // no lock is taken and Save fails
	Logger       *slog.Logger
}

// fileStamp identifies the content this repository last wrote to a file.
type fileStamp struct {
	size    int64
	modTime time.Time
}

// NewRepository creates a repository rooted at config.Dir. Nothing touches
// the disk until Open.
func NewRepository(config Config) *Repository {
	if config.AccountsFile == "" {
		config.AccountsFile = DefaultAccountsFile
	}
	if config.LogsFile == "" {
		config.LogsFile = DefaultLogsFile
	}
	if config.LockFile == "" {
		config.LockFile = DefaultLockFile
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	return &Repository{
		config: config,
		stamps: make(map[string]fileStamp),
	}
}

// AccountsPath returns the path of the account resource.
func (r *Repository) AccountsPath() string {
	return filepath.Join(r.config.Dir, r.config.AccountsFile)
}

// LogsPath returns the path of the log resource.
func (r *Repository) LogsPath() string {
	return filepath.Join(r.config.Dir, r.config.LogsFile)
}

// Open prepares the data directory and takes exclusive ownership of it.
func (r *Repository) Open(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.config.ReadOnly {
		info, err := os.Stat(r.config.Dir)
		if err != nil {
			return fmt.Errorf("data directory unavailable: %w", err)
		}
		if !info.IsDir() {
			return fmt.Errorf("data path is not a directory: %s", r.config.Dir)
		}
		return nil
	}

	if r.lock != nil {
		return nil
	}
	if err := os.MkdirAll(r.config.Dir, 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	lock, err := acquireLock(ctx, filepath.Join(r.config.Dir, r.config.LockFile), r.config.LockTimeout)
	if err != nil {
		return err
	}
	r.lock = lock
	r.config.Logger.Debug("data directory locked", "dir", r.config.Dir)
	return nil
}

// Close releases the data directory.
func (r *Repository) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.lock == nil {
		return nil
	}
	err := r.lock.release()
	r.lock = nil
	return err
}

// Load reads the account resource, then the log resource. Missing files
// mean an empty ledger. Damaged files fail closed: decoding stops at the
// damage, the intact prefix is kept and a warning is logged.
func (r *Repository) Load(ctx context.Context) (core.Snapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var snap core.Snapshot

	data, err := r.readResource(r.AccountsPath())
	if err != nil {
		return snap, err
	}
	snap.Accounts, err = DecodeAccounts(data)
	if err != nil {
		r.config.Logger.Warn("account resource damaged, keeping intact records",
			"path", r.AccountsPath(), "records", len(snap.Accounts), "error", err)
	}

	data, err = r.readResource(r.LogsPath())
	if err != nil {
		return snap, err
	}
	snap.Logs, err = DecodeLogs(data)
	if err != nil {
		r.config.Logger.Warn("log resource damaged, keeping intact records",
			"path", r.LogsPath(), "records", len(snap.Logs), "error", err)
	}

	r.config.Logger.Debug("resources loaded", "accounts", len(snap.Accounts), "logs", len(snap.Logs))
	return snap, nil
}

func (r *Repository) readResource(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filepath.Base(path), err)
	}
	r.remember(path)
	return data, nil
}

// Save truncates and rewrites both resources from s.
func (r *Repository) Save(ctx context.Context, s core.Snapshot) error {
	if r.config.ReadOnly {
		return core.ErrReadOnly
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	accounts, err := EncodeAccounts(s.Accounts)
	if err != nil {
		return err
	}
	logs, err := EncodeLogs(s.Logs)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.lock == nil {
		return fmt.Errorf("repository is not open: %s", r.config.Dir)
	}

	contents := map[string][]byte{
		r.AccountsPath(): accounts,
		r.LogsPath():     logs,
	}
	order := []string{r.AccountsPath(), r.LogsPath()}
	if err := writeFilesAtomic(contents, order, 0644); err != nil {
		return err
	}
	for _, path := range order {
		r.remember(path)
	}

	now := time.Now()
	r.saves++
	r.lastSave = &now
	r.config.Logger.Debug("resources saved", "accounts", len(s.Accounts), "logs", len(s.Logs))
	return nil
}

// remember records the current stamp of path. Callers hold r.mu.
func (r *Repository) remember(path string) {
	if info, err := os.Stat(path); err == nil {
		r.stamps[path] = fileStamp{size: info.Size(), modTime: info.ModTime()}
	}
}

// ownedByUs reports whether path still holds what this repository wrote.
func (r *Repository) ownedByUs(path string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	want, ok := r.stamps[path]
	if !ok {
		return false
	}
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Size() == want.size && info.ModTime().Equal(want.modTime)
}

var _ core.Repository = (*Repository)(nil)
var _ core.Closer = (*Repository)(nil)
