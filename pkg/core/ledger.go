package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Ledger composes the account store and the log store, and exposes every
// account lifecycle and money-movement operation. Each mutation validates
// fully, applies the change, appends a log entry, and persists; a failed
// save rolls the in-memory change back before ErrStorage is returned.
//
// A single mutex serializes all calls, so the persisted resources only ever
// see one writer.
type Ledger struct {
	mu     sync.Mutex
	repo   Repository
	store  *Store
	policy Policy
	logger *slog.Logger
	now    func() time.Time
	loaded bool
}

// LedgerOption configures a Ledger.
type LedgerOption func(*Ledger)

// WithPolicy sets the amount rules. Defaults to DefaultPolicy.
func WithPolicy(p Policy) LedgerOption {
	return func(l *Ledger) {
		l.policy = p
	}
}

// WithLogger sets the structured logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) LedgerOption {
	return func(l *Ledger) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithClock overrides the time source used to stamp log entries.
func WithClock(now func() time.Time) LedgerOption {
	return func(l *Ledger) {
		if now != nil {
			l.now = now
		}
	}
}

// NewLedger creates an empty ledger persisting through repo.
func NewLedger(repo Repository, opts ...LedgerOption) *Ledger {
	l := &Ledger{
		repo:   repo,
		store:  NewStore(),
		policy: DefaultPolicy(),
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load replaces the in-memory state with the repository contents. It is
// meant to run once at startup.
func (l *Ledger) Load(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	snap, err := l.repo.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load ledger: %w", err)
	}
	l.store = NewStoreFromSnapshot(snap)
	l.loaded = true
	l.logger.Debug("ledger loaded",
		"accounts", l.store.Len(),
		"archived", l.store.ArchivedLen(),
		"next_id", l.store.NextID(),
	)
	return nil
}

// Close releases the repository when it holds resources.
func (l *Ledger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if c, ok := l.repo.(Closer); ok {
		return c.Close()
	}
	return nil
}

// Policy returns the amount rules in force.
func (l *Ledger) Policy() Policy {
	return l.policy
}

// commit persists the current state. On failure undo runs before the error
// is returned. A save cut short by ctx returns the context error as is;
// anything else is a storage error.
func (l *Ledger) commit(ctx context.Context, op string, undo func()) error {
	err := l.repo.Save(ctx, l.store.Snapshot())
	if err == nil {
		return nil
	}
	undo()
	if cerr := ctx.Err(); cerr != nil && errors.Is(err, cerr) {
		l.logger.Warn("save abandoned, change rolled back", "op", op, "error", err)
		return err
	}
	l.logger.Error("save failed, change rolled back", "op", op, "error", err)
	return storageError(err)
}

func (l *Ledger) record(a *Account, format string, args ...any) {
	a.log.Append(Entry{
		Text: fmt.Sprintf(format, args...),
		Time: l.now().Truncate(time.Second),
	})
}

func (l *Ledger) reject(op string, id int, err error) {
	l.logger.Warn("operation rejected", "op", op, "account", id, "reason", err)
}

// authenticate resolves an account and checks its PIN.
func (l *Ledger) authenticate(id, pin int) (*Account, error) {
	a, err := l.store.Find(id)
	if err != nil {
		return nil, err
	}
	if a.PIN != pin {
		return nil, ErrBadPIN
	}
	return a, nil
}

func money(n int64) string {
	return fmt.Sprintf("%s %d", Currency, n)
}
