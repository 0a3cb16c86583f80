package core

import "context"

// History is the activity log of an account id, read from the active store
// or, after deletion, from the archive.
type History struct {
	AccountID int
	Archived  bool
	Entries   []Entry
}

// Balance returns the current balance. It appends nothing and saves nothing.
func (l *Ledger) Balance(ctx context.Context, id, pin int) (int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	a, err := l.authenticate(id, pin)
	if err != nil {
		return 0, err
	}
	return a.Balance, nil
}

// MiniStatement returns up to count most recent log entries, oldest first.
// count <= 0 returns the whole log.
func (l *Ledger) MiniStatement(ctx context.Context, id, pin, count int) ([]Entry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	a, err := l.authenticate(id, pin)
	if err != nil {
		return nil, err
	}
	if a.log.Len() == 0 {
		return nil, ErrNoLogs
	}
	return a.log.Tail(count), nil
}

// History returns the log of an active account, falling back to the archive
// for deleted ones. It is the only read path into archived data.
func (l *Ledger) History(ctx context.Context, id int) (History, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if a, err := l.store.Find(id); err == nil {
		return History{AccountID: id, Entries: a.log.Entries()}, nil
	}
	if lg, ok := l.store.Archived(id); ok {
		return History{AccountID: id, Archived: true, Entries: lg.Entries()}, nil
	}
	return History{}, ErrNotFound
}

// Account returns a copy of an active account.
func (l *Ledger) Account(ctx context.Context, id int) (Account, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	a, err := l.store.Find(id)
	if err != nil {
		return Account{}, err
	}
	return a.view(), nil
}

// Accounts returns copies of every active account in store order.
func (l *Ledger) Accounts(ctx context.Context) []Account {
	l.mu.Lock()
	defer l.mu.Unlock()

	all := l.store.Accounts()
	out := make([]Account, 0, len(all))
	for _, a := range all {
		out = append(out, a.view())
	}
	return out
}

// Exists reports whether id is an active account.
func (l *Ledger) Exists(ctx context.Context, id int) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	_, err := l.store.Find(id)
	return err == nil
}

// VerifyPIN checks credentials without touching the account.
func (l *Ledger) VerifyPIN(ctx context.Context, id, pin int) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	_, err := l.authenticate(id, pin)
	return err
}

// NextID returns the id the next created account will receive.
func (l *Ledger) NextID() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.store.NextID()
}
