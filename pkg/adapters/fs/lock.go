package fs

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v4/process"
)

// ErrLocked is returned when another process owns the data directory.
var ErrLocked = errors.New("data directory is locked by another process")

// fileLock is a lock file created with O_EXCL holding the owner's pid. It
// marks exclusive ownership of the data directory for the lifetime of the
// process. A lock whose owner is no longer running is taken over.
type fileLock struct {
	path string
}

// acquireLock creates the lock file, retrying until timeout elapses.
// A zero timeout tries exactly once.
func acquireLock(ctx context.Context, path string, timeout time.Duration) (*fileLock, error) {
	deadline := time.Now().Add(timeout)
	for {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
		if err == nil {
			_, werr := f.WriteString(strconv.Itoa(os.Getpid()) + "\n")
			cerr := f.Close()
			if werr != nil || cerr != nil {
				os.Remove(path)
				return nil, fmt.Errorf("failed to write lock file: %w", errors.Join(werr, cerr))
			}
			return &fileLock{path: path}, nil
		}
		if !os.IsExist(err) {
			return nil, fmt.Errorf("failed to acquire lock: %w", err)
		}
		if pid, stale := staleOwner(ctx, path); stale {
			if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to remove stale lock of pid %d: %w", pid, err)
			}
			continue
		}
		if !time.Now().Before(deadline) {
			return nil, fmt.Errorf("%w: %s", ErrLocked, path)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(10 * time.Millisecond):
		}
	}
}

// staleOwner reports the pid recorded in the lock file and whether that
// process is gone. Unreadable or empty lock files count as held: the owner
// may still be writing its pid.
func staleOwner(ctx context.Context, path string) (int, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, false
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || pid <= 0 || pid > math.MaxInt32 || pid == os.Getpid() {
		return pid, false
	}
	alive, err := process.PidExistsWithContext(ctx, int32(pid))
	if err != nil {
		return pid, false
	}
	return pid, !alive
}

func (l *fileLock) release() error {
	if err := os.Remove(l.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to release lock: %w", err)
	}
	return nil
}
