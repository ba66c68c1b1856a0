package repository

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"
)

// CopyOnWriteTx stages changes to a data directory in a private copy and
// swaps the copy in on commit.
type CopyOnWriteTx struct {
	baseDir   string // live inspections directory
	tempDir   string // <base>.tmp.<nanos>
	backupDir string // <base>.backup.<nanos>
	committed bool
}

// NewCopyOnWriteTx creates a transaction over baseDir.
func NewCopyOnWriteTx(baseDir string) *CopyOnWriteTx {
	stamp := time.Now().UnixNano()
	return &CopyOnWriteTx{
		baseDir:   baseDir,
		tempDir:   fmt.Sprintf("%s.tmp.%d", baseDir, stamp),
		backupDir: fmt.Sprintf("%s.backup.%d", baseDir, stamp),
	}
}

// Begin copies the live directory into the temp directory. Files are copied,
// not hard-linked, so writes in the transaction never reach the live tree.
func (tx *CopyOnWriteTx) Begin() error {
	if _, err := os.Stat(tx.baseDir); err != nil {
		if os.IsNotExist(err) {
			if err := os.MkdirAll(tx.tempDir, 0755); err != nil {
				return fmt.Errorf("create temp directory: %w", err)
			}
			return nil
		}
		return fmt.Errorf("stat base directory: %w", err)
	}

	if err := copyDirRecursive(tx.baseDir, tx.tempDir); err != nil {
		_ = os.RemoveAll(tx.tempDir)
		return fmt.Errorf("copy directory tree: %w", err)
	}
	return nil
}

// WriteFile writes content to a file within the transaction.
func (tx *CopyOnWriteTx) WriteFile(relativePath string, content []byte) error {
	if tx.committed {
		return fmt.Errorf("transaction already committed")
	}

	fullPath := filepath.Join(tx.tempDir, relativePath)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return fmt.Errorf("create parent directory: %w", err)
	}
	if err := os.WriteFile(fullPath, content, 0644); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	return nil
}

// ReadFile reads a file from the transaction.
func (tx *CopyOnWriteTx) ReadFile(relativePath string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(tx.tempDir, relativePath))
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	return data, nil
}

// RemoveAll deletes a file or directory within the transaction.
func (tx *CopyOnWriteTx) RemoveAll(relativePath string) error {
	if tx.committed {
		return fmt.Errorf("transaction already committed")
	}
	if err := os.RemoveAll(filepath.Join(tx.tempDir, relativePath)); err != nil {
		return fmt.Errorf("remove %s: %w", relativePath, err)
	}
	return nil
}

// Commit swaps the temp directory in place of the live one.
func (tx *CopyOnWriteTx) Commit() error {
	if tx.committed {
		return fmt.Errorf("transaction already committed")
	}

	baseExists := true
	if _, err := os.Stat(tx.baseDir); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("stat base directory: %w", err)
		}
		baseExists = false
	}

	if baseExists {
		if err := os.Rename(tx.baseDir, tx.backupDir); err != nil {
			return fmt.Errorf("backup base directory: %w", err)
		}
		if err := os.Rename(tx.tempDir, tx.baseDir); err != nil {
			if rollbackErr := os.Rename(tx.backupDir, tx.baseDir); rollbackErr != nil {
				return fmt.Errorf("commit failed and rollback failed: commit error: %w, rollback error: %v", err, rollbackErr)
			}
			return fmt.Errorf("commit base directory (rolled back): %w", err)
		}
		if err := os.RemoveAll(tx.backupDir); err != nil {
			log.Printf("warning: stale backup left at %s: %v", tx.backupDir, err)
		}
	} else {
		if err := os.MkdirAll(filepath.Dir(tx.baseDir), 0755); err != nil {
			return fmt.Errorf("create parent of base directory: %w", err)
		}
		if err := os.Rename(tx.tempDir, tx.baseDir); err != nil {
			return fmt.Errorf("commit base directory (new): %w", err)
		}
	}

	tx.committed = true
	return nil
}

// Rollback discards the temp directory.
func (tx *CopyOnWriteTx) Rollback() error {
	if tx.committed {
		return fmt.Errorf("cannot rollback committed transaction")
	}
	if err := os.RemoveAll(tx.tempDir); err != nil {
		return fmt.Errorf("rollback: %w", err)
	}
	return nil
}

// TempDir returns the path to the temporary directory.
func (tx *CopyOnWriteTx) TempDir() string {
	return tx.tempDir
}

// withTx runs fn inside a transaction on baseDir, committing on success and
// rolling back on any error.
func withTx(baseDir string, fn func(tx *CopyOnWriteTx) error) error {
	tx := NewCopyOnWriteTx(baseDir)
	if err := tx.Begin(); err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			log.Printf("rollback failed: %v", rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			log.Printf("rollback failed: %v", rbErr)
		}
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// readOptional reads a file in the transaction, treating a missing file as empty.
func readOptional(tx *CopyOnWriteTx, relativePath string) ([]byte, error) {
	data, err := tx.ReadFile(relativePath)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}
	return data, nil
}

func copyDirRecursive(src, dst string) error {
	srcInfo, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("stat source: %w", err)
	}
	if err := os.MkdirAll(dst, srcInfo.Mode()); err != nil {
		return fmt.Errorf("create destination: %w", err)
	}

	entries, err := os.ReadDir(src)
	if err != nil {
		return fmt.Errorf("read directory: %w", err)
	}
	for _, entry := range entries {
		srcPath := filepath.Join(src, entry.Name())
		dstPath := filepath.Join(dst, entry.Name())
		if entry.IsDir() {
			if err := copyDirRecursive(srcPath, dstPath); err != nil {
				return err
			}
			continue
		}
		if err := copyFile(srcPath, dstPath); err != nil {
			return err
		}
	}
	return nil
}

func copyFile(src, dst string) error {
	srcFile, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open source: %w", err)
	}
	defer srcFile.Close()

	srcInfo, err := srcFile.Stat()
	if err != nil {
		return fmt.Errorf("stat source: %w", err)
	}

	dstFile, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, srcInfo.Mode())
	if err != nil {
		return fmt.Errorf("create destination: %w", err)
	}
	if _, err := io.Copy(dstFile, srcFile); err != nil {
		_ = dstFile.Close()
		return fmt.Errorf("copy contents: %w", err)
	}
	if err := dstFile.Close(); err != nil {
		return fmt.Errorf("close destination: %w", err)
	}
	return nil
}
