// Package lockfile provides an exclusive file-based guard using flock.
//
// The virtual-branch store has no internal locking; it requires the caller
// to serialize access. A Lock held around store operations is one way to
// do that across processes:
//
//	guard := lockfile.New(handle.Path() + ".lock")
//	if err := guard.Lock(); err != nil { ... }
//	defer guard.Unlock()
package lockfile

import (
	"errors"
	"os"
	"syscall"
)

// Lock is an exclusive lock on a file path.
type Lock struct {
	path string
	file *os.File
}

// New creates a lock for the given path.
// The lock file will be created if it doesn't exist.
func New(path string) *Lock {
	return &Lock{path: path}
}

// Lock acquires the exclusive lock.
// Blocks until the lock is acquired.
func (l *Lock) Lock() error {
	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_RDWR, 0o600)
	if err != nil {
		return err
	}
	l.file = f

	// Acquire exclusive lock (blocking)
	if err := syscall.Flock(int(f.Fd()), syscall.LOCK_EX); err != nil {
		f.Close()
		l.file = nil
		return err
	}

	return nil
}

// TryLock attempts to acquire the exclusive lock without blocking.
// ok is false when another holder currently has it.
func (l *Lock) TryLock() (bool, error) {
	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_RDWR, 0o600)
	if err != nil {
		return false, err
	}

	if err := syscall.Flock(int(f.Fd()), syscall.LOCK_EX|syscall.LOCK_NB); err != nil {
		f.Close()
		if errors.Is(err, syscall.EWOULDBLOCK) {
			return false, nil
		}
		return false, err
	}

	l.file = f
	return true, nil
}

// Unlock releases the lock and closes the file.
// Unlocking a lock that is not held is a no-op.
func (l *Lock) Unlock() error {
	if l.file == nil {
		return nil
	}

	if err := syscall.Flock(int(l.file.Fd()), syscall.LOCK_UN); err != nil {
		l.file.Close()
		l.file = nil
		return err
	}

	err := l.file.Close()
	l.file = nil
	return err
}
