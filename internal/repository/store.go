package repository

import (
	"errors"
	"fmt"

	"github.com/Abdullahalbalawi/Bus-inspection-web/pkg/schema"
)

// ErrStateNotFound is returned by LoadState when nothing was ever saved
// under the key.
var ErrStateNotFound = errors.New("no saved inspection state")

// Store persists raw inspection state and its event log under a storage key.
type Store interface {
	SaveState(state *schema.SavedState) error
	LoadState(key string) (*schema.SavedState, error)
	AppendEvents(key string, events []schema.InspectionEvent) error
	Clear(key string) error
	Close() error
}

// Backend names accepted by Open.
const (
	BackendYAML   = "yaml"
	BackendSQLite = "sqlite"
)

// Open returns the store backend named kind rooted at dataDir.
func Open(kind, dataDir string) (Store, error) {
	switch kind {
	case BackendYAML, "":
		return NewFileStore(dataDir), nil
	case BackendSQLite:
		return NewSQLiteStore(dataDir)
	default:
		return nil, fmt.Errorf("unknown store backend %q", kind)
	}
}

// restore rebuilds the state from the last saved snapshot plus any events
// recorded after it.
func restore(key string, saved *schema.SavedState, events []schema.InspectionEvent) (*schema.SavedState, error) {
	if saved == nil && len(events) == 0 {
		return nil, ErrStateNotFound
	}

	base := saved
	if base == nil {
		base = schema.NewSavedState(key, "")
	}
	if base.Items == nil {
		base.Items = []schema.ItemRecord{}
	}
	if base.Markers == nil {
		base.Markers = []schema.DamageMarker{}
	}

	var pending []schema.InspectionEvent
	for _, e := range events {
		if saved == nil || e.Timestamp().After(saved.SavedAt) {
			pending = append(pending, e)
		}
	}
	if len(pending) == 0 {
		return base, nil
	}
	return ReplayEvents(base, pending)
}
