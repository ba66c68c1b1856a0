package repository

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Abdullahalbalawi/Bus-inspection-web/pkg/schema"

	"gopkg.in/yaml.v3"
)

const (
	inspectionsDir = "inspections"
	stateFile      = "state.yaml"
	changelogFile  = "changelog.yaml"
)

// changelog is the on-disk event log for one storage key. LastSnapshot marks
// the SavedAt of the state file the events build on.
type changelog struct {
	Version             int           `yaml:"version"`
	StorageKey          string        `yaml:"storage_key"`
	Events              []eventRecord `yaml:"events"`
	LastSnapshot        time.Time     `yaml:"last_snapshot,omitempty"`
	EventsSinceSnapshot int           `yaml:"events_since_snapshot"`
}

// FileStore keeps each storage key in its own directory of YAML files:
//
//	<dataDir>/inspections/<key>/state.yaml
//	<dataDir>/inspections/<key>/changelog.yaml
//
// Every write goes through a copy-on-write transaction over the inspections
// directory.
type FileStore struct {
	baseDir string
}

// NewFileStore creates a YAML store rooted at dataDir.
func NewFileStore(dataDir string) *FileStore {
	return &FileStore{baseDir: filepath.Join(dataDir, inspectionsDir)}
}

// SaveState writes the state file and marks the changelog as snapshotted.
func (s *FileStore) SaveState(state *schema.SavedState) error {
	if state == nil {
		return fmt.Errorf("state cannot be nil")
	}
	if state.StorageKey == "" {
		return fmt.Errorf("state has no storage key")
	}

	data, err := yaml.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}

	return withTx(s.baseDir, func(tx *CopyOnWriteTx) error {
		if err := tx.WriteFile(filepath.Join(state.StorageKey, stateFile), data); err != nil {
			return fmt.Errorf("write state: %w", err)
		}

		log, err := readChangelog(tx, state.StorageKey)
		if err != nil {
			return err
		}
		log.LastSnapshot = state.SavedAt
		log.EventsSinceSnapshot = 0
		return writeChangelog(tx, state.StorageKey, log)
	})
}

// LoadState reads the state file and replays events recorded after it.
func (s *FileStore) LoadState(key string) (*schema.SavedState, error) {
	dir := filepath.Join(s.baseDir, key)

	var saved *schema.SavedState
	data, err := os.ReadFile(filepath.Join(dir, stateFile))
	switch {
	case err == nil:
		saved = &schema.SavedState{}
		if err := yaml.Unmarshal(data, saved); err != nil {
			return nil, fmt.Errorf("parse state: %w", err)
		}
	case !errors.Is(err, os.ErrNotExist):
		return nil, fmt.Errorf("read state: %w", err)
	}

	var log changelog
	data, err = os.ReadFile(filepath.Join(dir, changelogFile))
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &log); err != nil {
			return nil, fmt.Errorf("parse changelog: %w", err)
		}
	case !errors.Is(err, os.ErrNotExist):
		return nil, fmt.Errorf("read changelog: %w", err)
	}

	events := make([]schema.InspectionEvent, 0, len(log.Events))
	for _, rec := range log.Events {
		e, err := fromRecord(rec)
		if err != nil {
			return nil, fmt.Errorf("decode changelog: %w", err)
		}
		events = append(events, e)
	}

	return restore(key, saved, events)
}

// AppendEvents adds events to the key's changelog.
func (s *FileStore) AppendEvents(key string, events []schema.InspectionEvent) error {
	if len(events) == 0 {
		return nil
	}

	records := make([]eventRecord, 0, len(events))
	for _, e := range events {
		rec, err := toRecord(e)
		if err != nil {
			return err
		}
		records = append(records, rec)
	}

	return withTx(s.baseDir, func(tx *CopyOnWriteTx) error {
		log, err := readChangelog(tx, key)
		if err != nil {
			return err
		}
		log.Events = append(log.Events, records...)
		log.EventsSinceSnapshot += len(records)
		return writeChangelog(tx, key, log)
	})
}

// Clear removes everything stored under key.
func (s *FileStore) Clear(key string) error {
	if _, err := os.Stat(filepath.Join(s.baseDir, key)); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return withTx(s.baseDir, func(tx *CopyOnWriteTx) error {
		return tx.RemoveAll(key)
	})
}

// Close is a no-op for the file store.
func (s *FileStore) Close() error {
	return nil
}

func readChangelog(tx *CopyOnWriteTx, key string) (*changelog, error) {
	log := &changelog{Version: schema.SavedStateFormat, StorageKey: key}
	data, err := readOptional(tx, filepath.Join(key, changelogFile))
	if err != nil {
		return nil, fmt.Errorf("read changelog: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, log); err != nil {
			return nil, fmt.Errorf("parse changelog: %w", err)
		}
	}
	return log, nil
}

func writeChangelog(tx *CopyOnWriteTx, key string, log *changelog) error {
	data, err := yaml.Marshal(log)
	if err != nil {
		return fmt.Errorf("marshal changelog: %w", err)
	}
	if err := tx.WriteFile(filepath.Join(key, changelogFile), data); err != nil {
		return fmt.Errorf("write changelog: %w", err)
	}
	return nil
}
