package core

import "context"

// Repository persists the whole ledger state. Adhering to this interface keeps
// the ledger independent of the storage format (binary files, memory, ...).
type Repository interface {
	// Load returns the last persisted state. A repository with nothing
	// stored yet returns an empty Snapshot and no error.
	Load(ctx context.Context) (Snapshot, error)

	// Save replaces the persisted state with s.
	Save(ctx context.Context, s Snapshot) error
}

// Closer is implemented by repositories holding resources (locks, watchers).
type Closer interface {
	Close() error
}

// AccountRecord is the persisted form of an active account.
type AccountRecord struct {
	ID       int
	Name     string
	Identity string
	Gender   Gender
	Type     AccountType
	PIN      int
	Balance  int64
}

// LogRecord is the persisted log sequence of one account id.
type LogRecord struct {
	AccountID int
	Entries   []Entry
}

// Snapshot is the full persisted state: active accounts in store order, and
// log records for active accounts (store order) followed by archived ones
// (archive order).
type Snapshot struct {
	Accounts []AccountRecord
	Logs     []LogRecord
}
