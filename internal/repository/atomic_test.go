package repository

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCopyOnWriteTx_NewDirectory(t *testing.T) {
	baseDir := filepath.Join(t.TempDir(), "data", "inspections")

	tx := NewCopyOnWriteTx(baseDir)
	require.NoError(t, tx.Begin())
	require.NoError(t, tx.WriteFile("bus_inspection_v1/state.yaml", []byte("version: 1\n")))

	_, err := os.Stat(baseDir)
	assert.True(t, os.IsNotExist(err), "nothing reaches the live tree before commit")

	require.NoError(t, tx.Commit())

	data, err := os.ReadFile(filepath.Join(baseDir, "bus_inspection_v1", "state.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "version: 1\n", string(data))

	_, err = os.Stat(tx.TempDir())
	assert.True(t, os.IsNotExist(err))
}

func TestCopyOnWriteTx_ExistingDirectory(t *testing.T) {
	baseDir := filepath.Join(t.TempDir(), "inspections")
	statePath := filepath.Join(baseDir, "k", "state.yaml")
	require.NoError(t, os.MkdirAll(filepath.Dir(statePath), 0755))
	require.NoError(t, os.WriteFile(statePath, []byte("old"), 0644))

	tx := NewCopyOnWriteTx(baseDir)
	require.NoError(t, tx.Begin())

	data, err := tx.ReadFile("k/state.yaml")
	require.NoError(t, err)
	assert.Equal(t, "old", string(data))

	require.NoError(t, tx.WriteFile("k/state.yaml", []byte("new")))

	live, err := os.ReadFile(statePath)
	require.NoError(t, err)
	assert.Equal(t, "old", string(live), "writes stay in the temp copy")

	require.NoError(t, tx.Commit())

	live, err = os.ReadFile(statePath)
	require.NoError(t, err)
	assert.Equal(t, "new", string(live))

	matches, err := filepath.Glob(baseDir + ".backup.*")
	require.NoError(t, err)
	assert.Empty(t, matches, "backup removed after commit")
}

func TestCopyOnWriteTx_Rollback(t *testing.T) {
	baseDir := filepath.Join(t.TempDir(), "inspections")
	statePath := filepath.Join(baseDir, "k", "state.yaml")
	require.NoError(t, os.MkdirAll(filepath.Dir(statePath), 0755))
	require.NoError(t, os.WriteFile(statePath, []byte("old"), 0644))

	tx := NewCopyOnWriteTx(baseDir)
	require.NoError(t, tx.Begin())
	require.NoError(t, tx.WriteFile("k/state.yaml", []byte("new")))
	require.NoError(t, tx.Rollback())

	live, err := os.ReadFile(statePath)
	require.NoError(t, err)
	assert.Equal(t, "old", string(live))

	_, err = os.Stat(tx.TempDir())
	assert.True(t, os.IsNotExist(err))
}

func TestCopyOnWriteTx_CommittedGuards(t *testing.T) {
	baseDir := filepath.Join(t.TempDir(), "inspections")

	tx := NewCopyOnWriteTx(baseDir)
	require.NoError(t, tx.Begin())
	require.NoError(t, tx.WriteFile("k/a.yaml", []byte("a")))
	require.NoError(t, tx.Commit())

	assert.Error(t, tx.Commit())
	assert.Error(t, tx.Rollback())
	assert.Error(t, tx.WriteFile("k/b.yaml", []byte("b")))
	assert.Error(t, tx.RemoveAll("k"))
}

func TestCopyOnWriteTx_RemoveAll(t *testing.T) {
	baseDir := filepath.Join(t.TempDir(), "inspections")
	require.NoError(t, os.MkdirAll(filepath.Join(baseDir, "keep"), 0755))
	require.NoError(t, os.MkdirAll(filepath.Join(baseDir, "drop", "nested"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(baseDir, "drop", "nested", "f"), []byte("x"), 0644))

	tx := NewCopyOnWriteTx(baseDir)
	require.NoError(t, tx.Begin())
	require.NoError(t, tx.RemoveAll("drop"))
	require.NoError(t, tx.Commit())

	_, err := os.Stat(filepath.Join(baseDir, "drop"))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(baseDir, "keep"))
	assert.NoError(t, err)
}

func TestWithTx(t *testing.T) {
	baseDir := filepath.Join(t.TempDir(), "inspections")

	t.Run("commits on success", func(t *testing.T) {
		err := withTx(baseDir, func(tx *CopyOnWriteTx) error {
			return tx.WriteFile("k/f.yaml", []byte("ok"))
		})
		require.NoError(t, err)

		data, err := os.ReadFile(filepath.Join(baseDir, "k", "f.yaml"))
		require.NoError(t, err)
		assert.Equal(t, "ok", string(data))
	})

	t.Run("rolls back on error", func(t *testing.T) {
		boom := errors.New("boom")
		err := withTx(baseDir, func(tx *CopyOnWriteTx) error {
			if err := tx.WriteFile("k/f.yaml", []byte("changed")); err != nil {
				return err
			}
			return boom
		})
		require.ErrorIs(t, err, boom)

		data, err := os.ReadFile(filepath.Join(baseDir, "k", "f.yaml"))
		require.NoError(t, err)
		assert.Equal(t, "ok", string(data))

		matches, err := filepath.Glob(baseDir + ".tmp.*")
		require.NoError(t, err)
		assert.Empty(t, matches)
	})
}

func TestReadOptional(t *testing.T) {
	tx := NewCopyOnWriteTx(filepath.Join(t.TempDir(), "inspections"))
	require.NoError(t, tx.Begin())
	defer func() { _ = tx.Rollback() }()

	data, err := readOptional(tx, "missing.yaml")
	require.NoError(t, err)
	assert.Empty(t, data)
}
