package repository

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/compozy/bumpver/internal/domain"
	"github.com/gofrs/flock"
)

const (
	// DefaultLockTimeout is the maximum time to wait for the lock
	DefaultLockTimeout = 10 * time.Second
	// LockRetryInterval is the interval between lock attempts
	LockRetryInterval = 50 * time.Millisecond
)

// Locker serializes bump runs that share a tracker and manifests.
type Locker interface {
	// Lock blocks until the lock is held or ctx ends. The returned function
	// releases it.
	Lock(ctx context.Context) (unlock func() error, err error)
}

// fileLocker is a cross-process advisory lock on a lock file.
type fileLocker struct {
	path    string
	timeout time.Duration
}

// NewFileLocker returns a Locker backed by flock(2) on path. The lock file
// lives on the real filesystem whatever afero.Fs the stores use.
func NewFileLocker(path string, timeout time.Duration) Locker {
	if timeout <= 0 {
		timeout = DefaultLockTimeout
	}
	return &fileLocker{path: path, timeout: timeout}
}

func (l *fileLocker) Lock(ctx context.Context) (func() error, error) {
	if err := os.MkdirAll(filepath.Dir(l.path), DirPermissions); err != nil {
		return nil, domain.NewIOError("mkdir", filepath.Dir(l.path), err)
	}
	lock := flock.New(l.path)
	lockCtx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()
	locked, err := lock.TryLockContext(lockCtx, LockRetryInterval)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			err = fmt.Errorf("could not acquire lock within %s", l.timeout)
		}
		return nil, domain.NewIOError("lock", l.path, err)
	}
	if !locked {
		return nil, domain.NewIOError("lock", l.path, fmt.Errorf("could not acquire lock within %s", l.timeout))
	}
	return lock.Unlock, nil
}

// MutexLocker is an in-process Locker for in-memory filesystems.
type MutexLocker struct {
	mu sync.Mutex
}

// NewMutexLocker creates a MutexLocker.
func NewMutexLocker() *MutexLocker {
	return &MutexLocker{}
}

func (l *MutexLocker) Lock(_ context.Context) (func() error, error) {
	l.mu.Lock()
	return func() error {
		l.mu.Unlock()
		return nil
	}, nil
}
