package core_test

import (
	"context"
	"errors"
	"sync"

	"github.com/aretw0/tally/pkg/core"
)

var errDiskFull = errors.New("disk full")

// memoryRepository keeps the last saved snapshot in memory. Setting fail
// makes every Save return errDiskFull; setting interrupt makes Save cancel
// the caller's context and give up.
type memoryRepository struct {
	mu        sync.Mutex
	snap      core.Snapshot
	saves     int
	fail      bool
	interrupt context.CancelFunc
}

func (m *memoryRepository) Load(ctx context.Context) (core.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snap, nil
}

func (m *memoryRepository) Save(ctx context.Context, s core.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.interrupt != nil {
		m.interrupt()
		return ctx.Err()
	}
	if m.fail {
		return errDiskFull
	}
	m.snap = s
	m.saves++
	return nil
}

func (m *memoryRepository) setFail(fail bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fail = fail
}

func (m *memoryRepository) savedCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

func (m *memoryRepository) interruptWith(cancel context.CancelFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.interrupt = cancel
}
