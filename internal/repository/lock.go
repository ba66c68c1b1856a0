package repository

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"syscall"
	"time"
)

// staleAfter is the age after which a lock is considered abandoned.
const staleAfter = 30 * time.Minute

// LockFile is the metadata written into the lock file.
type LockFile struct {
	PID       int       `json:"pid"`
	Hostname  string    `json:"hostname"`
	Holder    string    `json:"holder"` // command that took the lock
	Timestamp time.Time `json:"timestamp"`
}

// LockedError reports a lock held by another live process.
type LockedError struct {
	Holder string
	PID    int
	Age    time.Duration
}

func (e *LockedError) Error() string {
	return fmt.Sprintf("inspection data locked by %s (PID %d, %v ago)", e.Holder, e.PID, e.Age)
}

// FileLock guards the data directory against a second writer process.
type FileLock struct {
	path   string
	holder string
	file   *os.File
}

// NewFileLock creates a lock at path on behalf of holder.
func NewFileLock(path, holder string) *FileLock {
	return &FileLock{path: path, holder: holder}
}

// Acquire takes the lock without blocking. A lock left by a dead process or
// older than thirty minutes is taken over.
func (l *FileLock) Acquire() error {
	return l.acquire(true)
}

func (l *FileLock) acquire(maySteal bool) error {
	file, err := os.OpenFile(l.path, os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return fmt.Errorf("open lock file: %w", err)
	}

	if err := syscall.Flock(int(file.Fd()), syscall.LOCK_EX|syscall.LOCK_NB); err != nil {
		if closeErr := file.Close(); closeErr != nil {
			log.Printf("warning: failed to close lock file during error handling: %v", closeErr)
		}

		existing, readErr := l.readLockFile()
		if readErr == nil && maySteal && isStale(existing) {
			_ = os.Remove(l.path)
			return l.acquire(false)
		}
		if readErr == nil {
			return &LockedError{
				Holder: existing.Holder,
				PID:    existing.PID,
				Age:    time.Since(existing.Timestamp).Round(time.Second),
			}
		}
		return fmt.Errorf("failed to acquire lock: %w", err)
	}

	l.file = file

	hostname, _ := os.Hostname()
	data, err := json.MarshalIndent(LockFile{
		PID:       os.Getpid(),
		Hostname:  hostname,
		Holder:    l.holder,
		Timestamp: time.Now(),
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal lock metadata: %w", err)
	}
	if err := file.Truncate(0); err != nil {
		return fmt.Errorf("truncate lock file: %w", err)
	}
	if _, err := file.Seek(0, 0); err != nil {
		return fmt.Errorf("seek lock file: %w", err)
	}
	if _, err := file.Write(data); err != nil {
		return fmt.Errorf("write lock metadata: %w", err)
	}
	return nil
}

// Release drops the lock and removes the lock file.
func (l *FileLock) Release() error {
	if l.file == nil {
		return nil
	}

	if err := syscall.Flock(int(l.file.Fd()), syscall.LOCK_UN); err != nil {
		log.Printf("warning: failed to release flock: %v", err)
	}
	if err := l.file.Close(); err != nil {
		log.Printf("warning: failed to close lock file: %v", err)
	}
	l.file = nil
	return os.Remove(l.path)
}

func (l *FileLock) readLockFile() (*LockFile, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		return nil, err
	}
	var lock LockFile
	if err := json.Unmarshal(data, &lock); err != nil {
		return nil, err
	}
	return &lock, nil
}

func isStale(lock *LockFile) bool {
	process, err := os.FindProcess(lock.PID)
	if err != nil {
		return true
	}
	// FindProcess always succeeds on Unix; signal 0 probes liveness.
	if err := process.Signal(syscall.Signal(0)); err != nil {
		return true
	}
	return time.Since(lock.Timestamp) > staleAfter
}
