package fs

import (
	"time"

	"github.com/aretw0/introspection"
)

// RepositoryState exposes internal state for observability.
type RepositoryState struct {
	Dir           string     `json:"dir"`
	AccountsFile  string     `json:"accounts_file"`
	LogsFile      string     `json:"logs_file"`
	Locked        bool       `json:"locked"`
	ReadOnly      bool       `json:"read_only"`
	WatcherActive bool       `json:"watcher_active"`
	Saves         int        `json:"saves"`
	LastSave      *time.Time `json:"last_save,omitempty"`
}

// State implements introspection.Introspectable.
func (r *Repository) State() any {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return RepositoryState{
		Dir:           r.config.Dir,
		AccountsFile:  r.config.AccountsFile,
		LogsFile:      r.config.LogsFile,
		Locked:        r.lock != nil,
		ReadOnly:      r.config.ReadOnly,
		WatcherActive: r.watcherActive,
		Saves:         r.saves,
		LastSave:      r.lastSave,
	}
}

// ComponentType implements introspection.Component.
func (r *Repository) ComponentType() string {
	return "repository"
}

var _ introspection.Introspectable = (*Repository)(nil)
var _ introspection.Component = (*Repository)(nil)

func (r *Repository) setWatcherActive(active bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.watcherActive = active
}
