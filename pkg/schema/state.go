package schema

import "time"

// DefaultStorageKey is the key the inspection state is persisted under.
const DefaultStorageKey = "bus_inspection_v1"

// SavedState is the raw evaluation state written to storage. Derived values
// (percentages, notes) are never persisted; they are recomputed on restore.
type SavedState struct {
	Version      int              `json:"version" yaml:"version"`
	StorageKey   string           `json:"storage_key" yaml:"storage_key"`
	InspectionID string           `json:"inspection_id" yaml:"inspection_id"`
	SavedAt      time.Time        `json:"saved_at" yaml:"saved_at"`
	Header       InspectionHeader `json:"header" yaml:"header"`
	Items        []ItemRecord     `json:"items" yaml:"items"`
	Markers      []DamageMarker   `json:"markers" yaml:"markers"`
}

// ItemRecord is the persisted form of one checklist item.
type ItemRecord struct {
	ID     ItemID `json:"id" yaml:"id"`
	Name   string `json:"name" yaml:"name"`
	Choice string `json:"choice,omitempty" yaml:"choice,omitempty"`
	Passed bool   `json:"passed,omitempty" yaml:"passed,omitempty"`
	Failed bool   `json:"failed,omitempty" yaml:"failed,omitempty"`
}

// NewSavedState returns an empty state for key.
func NewSavedState(key, inspectionID string) *SavedState {
	return &SavedState{
		Version:      SavedStateFormat,
		StorageKey:   key,
		InspectionID: inspectionID,
		Items:        []ItemRecord{},
		Markers:      []DamageMarker{},
	}
}

// FindItem returns the index of the record for id, or -1.
func (s *SavedState) FindItem(id ItemID) int {
	for i := range s.Items {
		if s.Items[i].ID == id {
			return i
		}
	}
	return -1
}
