package schema

import "time"

// InspectionEvent is the interface for all inspection changelog events.
type InspectionEvent interface {
	EventType() string
	EventID() string
	Timestamp() time.Time
}

// ChoiceChanged records a new evaluation choice and the state it produced.
type ChoiceChanged struct {
	EventID_   string    `json:"event_id" yaml:"event_id"`
	ItemID     ItemID    `json:"item_id" yaml:"item_id"`
	ItemName   string    `json:"item_name" yaml:"item_name"`
	View       ViewKind  `json:"view" yaml:"view"`
	OldChoice  string    `json:"old_choice" yaml:"old_choice"`
	NewChoice  string    `json:"new_choice" yaml:"new_choice"`
	State      ItemState `json:"state" yaml:"state"`
	Timestamp_ time.Time `json:"timestamp" yaml:"timestamp"`
}

func (e *ChoiceChanged) EventType() string    { return "ChoiceChanged" }
func (e *ChoiceChanged) EventID() string      { return e.EventID_ }
func (e *ChoiceChanged) Timestamp() time.Time { return e.Timestamp_ }

// CheckboxToggled records a pass/fail toggle on a checkbox-only item.
type CheckboxToggled struct {
	EventID_   string    `json:"event_id" yaml:"event_id"`
	ItemID     ItemID    `json:"item_id" yaml:"item_id"`
	ItemName   string    `json:"item_name" yaml:"item_name"`
	View       ViewKind  `json:"view" yaml:"view"`
	Passed     bool      `json:"passed" yaml:"passed"`
	Failed     bool      `json:"failed" yaml:"failed"`
	Timestamp_ time.Time `json:"timestamp" yaml:"timestamp"`
}

func (e *CheckboxToggled) EventType() string    { return "CheckboxToggled" }
func (e *CheckboxToggled) EventID() string      { return e.EventID_ }
func (e *CheckboxToggled) Timestamp() time.Time { return e.Timestamp_ }

// HeaderUpdated records a change of the inspection header.
type HeaderUpdated struct {
	EventID_   string           `json:"event_id" yaml:"event_id"`
	OldHeader  InspectionHeader `json:"old_header" yaml:"old_header"`
	NewHeader  InspectionHeader `json:"new_header" yaml:"new_header"`
	Timestamp_ time.Time        `json:"timestamp" yaml:"timestamp"`
}

func (e *HeaderUpdated) EventType() string    { return "HeaderUpdated" }
func (e *HeaderUpdated) EventID() string      { return e.EventID_ }
func (e *HeaderUpdated) Timestamp() time.Time { return e.Timestamp_ }

// MarkerAdded records a damage marker placed on the diagram.
type MarkerAdded struct {
	EventID_   string       `json:"event_id" yaml:"event_id"`
	Marker     DamageMarker `json:"marker" yaml:"marker"`
	Timestamp_ time.Time    `json:"timestamp" yaml:"timestamp"`
}

func (e *MarkerAdded) EventType() string    { return "MarkerAdded" }
func (e *MarkerAdded) EventID() string      { return e.EventID_ }
func (e *MarkerAdded) Timestamp() time.Time { return e.Timestamp_ }

// MarkerRemoved records a damage marker taken off the diagram.
type MarkerRemoved struct {
	EventID_   string       `json:"event_id" yaml:"event_id"`
	Marker     DamageMarker `json:"marker" yaml:"marker"`
	Timestamp_ time.Time    `json:"timestamp" yaml:"timestamp"`
}

func (e *MarkerRemoved) EventType() string    { return "MarkerRemoved" }
func (e *MarkerRemoved) EventID() string      { return e.EventID_ }
func (e *MarkerRemoved) Timestamp() time.Time { return e.Timestamp_ }

// FormCleared records a full reset of the form.
type FormCleared struct {
	EventID_        string    `json:"event_id" yaml:"event_id"`
	NewInspectionID string    `json:"new_inspection_id" yaml:"new_inspection_id"`
	Timestamp_      time.Time `json:"timestamp" yaml:"timestamp"`
}

func (e *FormCleared) EventType() string    { return "FormCleared" }
func (e *FormCleared) EventID() string      { return e.EventID_ }
func (e *FormCleared) Timestamp() time.Time { return e.Timestamp_ }
