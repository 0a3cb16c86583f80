package core

import (
	"github.com/aretw0/introspection"
)

// LedgerState exposes internal state for observability.
type LedgerState struct {
	Accounts       int    `json:"accounts"`
	Archived       int    `json:"archived"`
	NextID         int    `json:"next_id"`
	Loaded         bool   `json:"loaded"`
	Policy         Policy `json:"policy"`
	RepositoryType string `json:"repository_type"`
}

// State implements introspection.Introspectable.
func (l *Ledger) State() any {
	l.mu.Lock()
	defer l.mu.Unlock()

	repoType := "unknown"
	if l.repo != nil {
		repoType = "repository"
		if comp, ok := l.repo.(introspection.Component); ok {
			repoType = comp.ComponentType()
		}
	}

	return LedgerState{
		Accounts:       l.store.Len(),
		Archived:       l.store.ArchivedLen(),
		NextID:         l.store.NextID(),
		Loaded:         l.loaded,
		Policy:         l.policy,
		RepositoryType: repoType,
	}
}

// ComponentType implements introspection.Component.
func (l *Ledger) ComponentType() string {
	return "ledger"
}

var _ introspection.Introspectable = (*Ledger)(nil)
var _ introspection.Component = (*Ledger)(nil)
