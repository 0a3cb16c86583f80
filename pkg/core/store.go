package core

import "slices"

// Store owns the active accounts and the archive of deleted accounts' logs.
// An account id is a key of at most one of the two.
type Store struct {
	accounts     map[int]*Account
	order        []int
	archive      map[int]*Log
	archiveOrder []int
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		accounts: make(map[int]*Account),
		archive:  make(map[int]*Log),
	}
}

// NewStoreFromSnapshot rebuilds a store from persisted state. Account ids are
// restored verbatim; a log record is attached to the active account with the
// same id, or archived when no such account exists.
func NewStoreFromSnapshot(s Snapshot) *Store {
	st := NewStore()
	for _, r := range s.Accounts {
		if _, dup := st.accounts[r.ID]; dup {
			continue
		}
		st.insert(&Account{
			ID: r.ID,
			Profile: Profile{
				Name:     r.Name,
				Identity: r.Identity,
				Gender:   r.Gender,
				Type:     r.Type,
			},
			PIN:     r.PIN,
			Balance: r.Balance,
			log:     NewLog(),
		})
	}
	for _, r := range s.Logs {
		l := NewLog(r.Entries...)
		if a, ok := st.accounts[r.AccountID]; ok {
			a.log = l
			continue
		}
		st.archiveLog(r.AccountID, l)
	}
	return st
}

// Find returns the active account with the given id.
func (s *Store) Find(id int) (*Account, error) {
	a, ok := s.accounts[id]
	if !ok {
		return nil, ErrNotFound
	}
	return a, nil
}

// FindIdentity returns the active account holding a normalized identity.
func (s *Store) FindIdentity(identity string) (*Account, bool) {
	for _, id := range s.order {
		if a := s.accounts[id]; a.Identity == identity {
			return a, true
		}
	}
	return nil, false
}

// Archived returns the archived log of a deleted account.
func (s *Store) Archived(id int) (*Log, bool) {
	l, ok := s.archive[id]
	return l, ok
}

// Len returns the number of active accounts.
func (s *Store) Len() int {
	return len(s.order)
}

// ArchivedLen returns the number of archived log sequences.
func (s *Store) ArchivedLen() int {
	return len(s.archiveOrder)
}

// MaxAssignedID returns the highest id seen among active and archived
// accounts, or 0 for an empty store.
func (s *Store) MaxAssignedID() int {
	mx := 0
	for id := range s.accounts {
		mx = max(mx, id)
	}
	for id := range s.archive {
		mx = max(mx, id)
	}
	return mx
}

// NextID returns the id the next created account receives.
func (s *Store) NextID() int {
	return s.MaxAssignedID() + 1
}

// Accounts returns the active accounts in store order.
func (s *Store) Accounts() []*Account {
	out := make([]*Account, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.accounts[id])
	}
	return out
}

func (s *Store) insert(a *Account) {
	if a.log == nil {
		a.log = NewLog()
	}
	s.accounts[a.ID] = a
	s.order = append(s.order, a.ID)
}

// remove drops an active account without archiving its log.
func (s *Store) remove(id int) {
	delete(s.accounts, id)
	s.order = slices.DeleteFunc(s.order, func(v int) bool { return v == id })
}

// detach removes an active account and moves its log into the archive.
// It returns the account and its former position in store order.
func (s *Store) detach(id int) (*Account, int, error) {
	a, ok := s.accounts[id]
	if !ok {
		return nil, -1, ErrNotFound
	}
	pos := slices.Index(s.order, id)
	s.remove(id)
	s.archiveLog(id, a.log)
	a.log = nil
	return a, pos, nil
}

// reattach undoes detach.
func (s *Store) reattach(a *Account, pos int) {
	a.log = s.archive[a.ID]
	delete(s.archive, a.ID)
	s.archiveOrder = slices.DeleteFunc(s.archiveOrder, func(v int) bool { return v == a.ID })
	s.accounts[a.ID] = a
	if pos < 0 || pos > len(s.order) {
		pos = len(s.order)
	}
	s.order = slices.Insert(s.order, pos, a.ID)
}

func (s *Store) archiveLog(id int, l *Log) {
	if _, ok := s.archive[id]; !ok {
		s.archiveOrder = append(s.archiveOrder, id)
	}
	s.archive[id] = l
}

// Snapshot exports the store in persistence order.
func (s *Store) Snapshot() Snapshot {
	snap := Snapshot{
		Accounts: make([]AccountRecord, 0, len(s.order)),
		Logs:     make([]LogRecord, 0, len(s.order)+len(s.archiveOrder)),
	}
	for _, id := range s.order {
		a := s.accounts[id]
		snap.Accounts = append(snap.Accounts, AccountRecord{
			ID:       a.ID,
			Name:     a.Name,
			Identity: a.Identity,
			Gender:   a.Gender,
			Type:     a.Type,
			PIN:      a.PIN,
			Balance:  a.Balance,
		})
		snap.Logs = append(snap.Logs, LogRecord{AccountID: id, Entries: a.log.Entries()})
	}
	for _, id := range s.archiveOrder {
		snap.Logs = append(snap.Logs, LogRecord{AccountID: id, Entries: s.archive[id].Entries()})
	}
	return snap
}
