package repository

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/Abdullahalbalawi/Bus-inspection-web/pkg/schema"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func backends(t *testing.T) map[string]func(t *testing.T) Store {
	return map[string]func(t *testing.T) Store{
		BackendYAML: func(t *testing.T) Store {
			return NewFileStore(t.TempDir())
		},
		BackendSQLite: func(t *testing.T) Store {
			s, err := NewSQLiteStore(t.TempDir())
			require.NoError(t, err)
			return s
		},
	}
}

func savedFixture() *schema.SavedState {
	state := schema.NewSavedState(schema.DefaultStorageKey, "INS-1")
	state.SavedAt = at(0)
	state.Header = schema.InspectionHeader{PlateNumber: "ABC 123", Date: "2026-10-16", SeatCount: "30"}
	state.Items = []schema.ItemRecord{
		{ID: schema.ItemID{Section: 0, Index: 0}, Name: "المحرك", Choice: "ممتاز", Passed: true},
		{ID: schema.ItemID{Section: 0, Index: 1}, Name: "الفرامل", Choice: "ضعيفة", Failed: true},
	}
	state.Markers = []schema.DamageMarker{{X: 12.35, Y: 80}}
	return state
}

func TestStore_RoundTrip(t *testing.T) {
	for name, open := range backends(t) {
		t.Run(name, func(t *testing.T) {
			s := open(t)
			defer s.Close()

			want := savedFixture()
			require.NoError(t, s.SaveState(want))

			got, err := s.LoadState(schema.DefaultStorageKey)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestStore_NotFound(t *testing.T) {
	for name, open := range backends(t) {
		t.Run(name, func(t *testing.T) {
			s := open(t)
			defer s.Close()

			_, err := s.LoadState("missing")
			assert.ErrorIs(t, err, ErrStateNotFound)
		})
	}
}

func TestStore_ReplaysEventsAfterSnapshot(t *testing.T) {
	for name, open := range backends(t) {
		t.Run(name, func(t *testing.T) {
			s := open(t)
			defer s.Close()
			key := schema.DefaultStorageKey

			before := &schema.ChoiceChanged{
				EventID_: "EVT-before001", ItemID: schema.ItemID{Section: 0, Index: 0}, ItemName: "المحرك",
				NewChoice: "ضعيف", State: schema.StateFailed, Timestamp_: at(-1),
			}
			require.NoError(t, s.AppendEvents(key, []schema.InspectionEvent{before}))
			require.NoError(t, s.SaveState(savedFixture()))

			after := []schema.InspectionEvent{
				&schema.ChoiceChanged{
					EventID_: "EVT-after0001", ItemID: schema.ItemID{Section: 0, Index: 1}, ItemName: "الفرامل",
					OldChoice: "ضعيفة", NewChoice: "جيدة", State: schema.StatePassed, Timestamp_: at(1),
				},
				&schema.MarkerAdded{EventID_: "EVT-after0002", Marker: schema.DamageMarker{X: 1, Y: 2}, Timestamp_: at(2)},
			}
			require.NoError(t, s.AppendEvents(key, after))

			got, err := s.LoadState(key)
			require.NoError(t, err)

			engine := got.Items[got.FindItem(schema.ItemID{Section: 0, Index: 0})]
			assert.Equal(t, "ممتاز", engine.Choice, "events older than the snapshot are not replayed")

			brakes := got.Items[got.FindItem(schema.ItemID{Section: 0, Index: 1})]
			assert.Equal(t, "جيدة", brakes.Choice)
			assert.True(t, brakes.Passed)
			assert.False(t, brakes.Failed)

			assert.Len(t, got.Markers, 2)
		})
	}
}

func TestStore_EventsWithoutState(t *testing.T) {
	for name, open := range backends(t) {
		t.Run(name, func(t *testing.T) {
			s := open(t)
			defer s.Close()

			require.NoError(t, s.AppendEvents("k", sampleEvents()))

			got, err := s.LoadState("k")
			require.NoError(t, err)
			assert.Equal(t, "k", got.StorageKey)
			assert.Len(t, got.Items, 2)
			assert.Len(t, got.Markers, 1)
		})
	}
}

func TestStore_Clear(t *testing.T) {
	for name, open := range backends(t) {
		t.Run(name, func(t *testing.T) {
			s := open(t)
			defer s.Close()
			key := schema.DefaultStorageKey

			require.NoError(t, s.SaveState(savedFixture()))
			require.NoError(t, s.AppendEvents(key, sampleEvents()))
			require.NoError(t, s.Clear(key))

			_, err := s.LoadState(key)
			assert.ErrorIs(t, err, ErrStateNotFound)

			assert.NoError(t, s.Clear(key), "clearing twice is fine")
		})
	}
}

func TestStore_KeysAreIsolated(t *testing.T) {
	for name, open := range backends(t) {
		t.Run(name, func(t *testing.T) {
			s := open(t)
			defer s.Close()

			a := savedFixture()
			a.StorageKey = "a"
			require.NoError(t, s.SaveState(a))
			require.NoError(t, s.AppendEvents("b", sampleEvents()))
			require.NoError(t, s.Clear("b"))

			got, err := s.LoadState("a")
			require.NoError(t, err)
			assert.Equal(t, "INS-1", got.InspectionID)
		})
	}
}

func TestStore_SaveStateRejectsInvalid(t *testing.T) {
	for name, open := range backends(t) {
		t.Run(name, func(t *testing.T) {
			s := open(t)
			defer s.Close()

			assert.Error(t, s.SaveState(nil))
			assert.Error(t, s.SaveState(&schema.SavedState{}))
		})
	}
}

func TestFileStore_Layout(t *testing.T) {
	dataDir := t.TempDir()
	s := NewFileStore(dataDir)
	key := schema.DefaultStorageKey

	require.NoError(t, s.AppendEvents(key, sampleEvents()))
	require.NoError(t, s.SaveState(savedFixture()))

	dir := filepath.Join(dataDir, inspectionsDir, key)
	_, err := os.Stat(filepath.Join(dir, stateFile))
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, changelogFile))
	require.NoError(t, err)
	var log changelog
	require.NoError(t, yaml.Unmarshal(data, &log))
	assert.Equal(t, key, log.StorageKey)
	assert.Len(t, log.Events, len(sampleEvents()))
	assert.Equal(t, 0, log.EventsSinceSnapshot)
	assert.True(t, log.LastSnapshot.Equal(at(0)))
}

func TestFileStore_CorruptState(t *testing.T) {
	dataDir := t.TempDir()
	dir := filepath.Join(dataDir, inspectionsDir, "k")
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, stateFile), []byte("items: [unclosed"), 0644))

	_, err := NewFileStore(dataDir).LoadState("k")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrStateNotFound))
}

func TestOpen(t *testing.T) {
	s, err := Open(BackendYAML, t.TempDir())
	require.NoError(t, err)
	assert.IsType(t, &FileStore{}, s)

	s, err = Open(BackendSQLite, t.TempDir())
	require.NoError(t, err)
	assert.IsType(t, &SQLiteStore{}, s)
	require.NoError(t, s.Close())

	_, err = Open("postgres", t.TempDir())
	assert.Error(t, err)
}
