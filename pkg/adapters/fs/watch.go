package fs

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"runtime/debug"
	"sync"
	"time"

	"github.com/aretw0/lifecycle"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
)

// watchDebounce collapses the burst of events a single rename produces.
const watchDebounce = 50 * time.Millisecond

// ExternalChange reports that a resource was modified by someone other than
// this repository.
type ExternalChange struct {
	Resource string // base name, e.g. accounts.dat
	Op       string // "write" or "remove"
	Time     time.Time
}

func (c ExternalChange) String() string {
	return fmt.Sprintf("%s %s at %s", c.Resource, c.Op, c.Time.Format(time.RFC3339))
}

// Watch observes the data directory and emits a change whenever one of the
// two resources is touched by another process. Writes made through Save are
// filtered out. The channel is closed when ctx is cancelled.
func (r *Repository) Watch(ctx context.Context) (<-chan ExternalChange, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := watcher.Add(r.config.Dir); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", r.config.Dir, err)
	}

	pattern := fmt.Sprintf("{%s,%s}", r.config.AccountsFile, r.config.LogsFile)
	if !doublestar.ValidatePattern(pattern) {
		_ = watcher.Close()
		return nil, fmt.Errorf("invalid resource pattern: %s", pattern)
	}

	out := make(chan ExternalChange)
	r.setWatcherActive(true)

	lifecycle.Go(ctx, func(ctx context.Context) error {
		return r.watchLoop(ctx, watcher, pattern, out)
	}, lifecycle.WithErrorHandler(func(err error) {
		r.config.Logger.Error("watcher stopped", "error", err)
	}))

	return out, nil
}

func (r *Repository) watchLoop(ctx context.Context, watcher *fsnotify.Watcher, pattern string, out chan<- ExternalChange) (err error) {
	var (
		mu      sync.Mutex
		pending = make(map[string]*time.Timer)
		wg      sync.WaitGroup
	)

	defer func() {
		if recovered := recover(); recovered != nil {
			err = fmt.Errorf("watcher panic: %v", recovered)
			if r.config.Logger.Enabled(ctx, slog.LevelDebug) {
				r.config.Logger.Error("watcher panic", "error", err, "stack", string(debug.Stack()))
			}
		}
		mu.Lock()
		for name, t := range pending {
			if t.Stop() {
				wg.Done()
			}
			delete(pending, name)
		}
		mu.Unlock()
		wg.Wait()
		_ = watcher.Close()
		r.setWatcherActive(false)
		close(out)
	}()

	emit := func(name string, op string) {
		defer wg.Done()
		mu.Lock()
		delete(pending, name)
		mu.Unlock()

		path := filepath.Join(r.config.Dir, name)
		if op == "write" && r.ownedByUs(path) {
			return
		}
		change := ExternalChange{Resource: name, Op: op, Time: time.Now()}
		r.config.Logger.Debug("external change", "resource", name, "op", op)
		select {
		case out <- change:
		case <-ctx.Done():
		}
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher events channel closed")
			}
			name := filepath.Base(event.Name)
			if match, _ := doublestar.Match(pattern, name); !match {
				continue
			}
			op := classify(event)
			if op == "" {
				continue
			}

			mu.Lock()
			if t, exists := pending[name]; exists && t.Stop() {
				wg.Done()
			}
			wg.Add(1)
			pending[name] = time.AfterFunc(watchDebounce, func() { emit(name, op) })
			mu.Unlock()

		case wErr, ok := <-watcher.Errors:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher errors channel closed")
			}
			r.config.Logger.Error("fsnotify error", "error", wErr)
		}
	}
}

func classify(event fsnotify.Event) string {
	switch {
	case event.Has(fsnotify.Write), event.Has(fsnotify.Create):
		return "write"
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		return "remove"
	default:
		return ""
	}
}
