package repository

import (
	"fmt"
	"sort"
	"time"

	"github.com/Abdullahalbalawi/Bus-inspection-web/pkg/schema"
)

// eventRecord is the serialized form of an inspection event.
type eventRecord struct {
	EventType       string                   `json:"event_type" yaml:"event_type"`
	EventID         string                   `json:"event_id" yaml:"event_id"`
	Timestamp       time.Time                `json:"timestamp" yaml:"timestamp"`
	ItemID          *schema.ItemID           `json:"item_id,omitempty" yaml:"item_id,omitempty"`
	ItemName        string                   `json:"item_name,omitempty" yaml:"item_name,omitempty"`
	View            schema.ViewKind          `json:"view,omitempty" yaml:"view,omitempty"`
	OldChoice       string                   `json:"old_choice,omitempty" yaml:"old_choice,omitempty"`
	NewChoice       string                   `json:"new_choice,omitempty" yaml:"new_choice,omitempty"`
	State           schema.ItemState         `json:"state,omitempty" yaml:"state,omitempty"`
	Passed          bool                     `json:"passed,omitempty" yaml:"passed,omitempty"`
	Failed          bool                     `json:"failed,omitempty" yaml:"failed,omitempty"`
	OldHeader       *schema.InspectionHeader `json:"old_header,omitempty" yaml:"old_header,omitempty"`
	NewHeader       *schema.InspectionHeader `json:"new_header,omitempty" yaml:"new_header,omitempty"`
	Marker          *schema.DamageMarker     `json:"marker,omitempty" yaml:"marker,omitempty"`
	NewInspectionID string                   `json:"new_inspection_id,omitempty" yaml:"new_inspection_id,omitempty"`
}

func toRecord(event schema.InspectionEvent) (eventRecord, error) {
	rec := eventRecord{
		EventType: event.EventType(),
		EventID:   event.EventID(),
		Timestamp: event.Timestamp(),
	}

	switch e := event.(type) {
	case *schema.ChoiceChanged:
		id := e.ItemID
		rec.ItemID = &id
		rec.ItemName = e.ItemName
		rec.View = e.View
		rec.OldChoice = e.OldChoice
		rec.NewChoice = e.NewChoice
		rec.State = e.State
	case *schema.CheckboxToggled:
		id := e.ItemID
		rec.ItemID = &id
		rec.ItemName = e.ItemName
		rec.View = e.View
		rec.Passed = e.Passed
		rec.Failed = e.Failed
	case *schema.HeaderUpdated:
		oldHeader, newHeader := e.OldHeader, e.NewHeader
		rec.OldHeader = &oldHeader
		rec.NewHeader = &newHeader
	case *schema.MarkerAdded:
		m := e.Marker
		rec.Marker = &m
	case *schema.MarkerRemoved:
		m := e.Marker
		rec.Marker = &m
	case *schema.FormCleared:
		rec.NewInspectionID = e.NewInspectionID
	default:
		return eventRecord{}, fmt.Errorf("unknown event type: %T", event)
	}
	return rec, nil
}

func fromRecord(rec eventRecord) (schema.InspectionEvent, error) {
	needItem := func() (schema.ItemID, error) {
		if rec.ItemID == nil {
			return schema.ItemID{}, fmt.Errorf("%s %s: missing item_id", rec.EventType, rec.EventID)
		}
		return *rec.ItemID, nil
	}

	switch rec.EventType {
	case "ChoiceChanged":
		id, err := needItem()
		if err != nil {
			return nil, err
		}
		return &schema.ChoiceChanged{
			EventID_:   rec.EventID,
			ItemID:     id,
			ItemName:   rec.ItemName,
			View:       rec.View,
			OldChoice:  rec.OldChoice,
			NewChoice:  rec.NewChoice,
			State:      rec.State,
			Timestamp_: rec.Timestamp,
		}, nil
	case "CheckboxToggled":
		id, err := needItem()
		if err != nil {
			return nil, err
		}
		return &schema.CheckboxToggled{
			EventID_:   rec.EventID,
			ItemID:     id,
			ItemName:   rec.ItemName,
			View:       rec.View,
			Passed:     rec.Passed,
			Failed:     rec.Failed,
			Timestamp_: rec.Timestamp,
		}, nil
	case "HeaderUpdated":
		if rec.NewHeader == nil {
			return nil, fmt.Errorf("HeaderUpdated %s: missing new_header", rec.EventID)
		}
		e := &schema.HeaderUpdated{EventID_: rec.EventID, NewHeader: *rec.NewHeader, Timestamp_: rec.Timestamp}
		if rec.OldHeader != nil {
			e.OldHeader = *rec.OldHeader
		}
		return e, nil
	case "MarkerAdded", "MarkerRemoved":
		if rec.Marker == nil {
			return nil, fmt.Errorf("%s %s: missing marker", rec.EventType, rec.EventID)
		}
		if rec.EventType == "MarkerAdded" {
			return &schema.MarkerAdded{EventID_: rec.EventID, Marker: *rec.Marker, Timestamp_: rec.Timestamp}, nil
		}
		return &schema.MarkerRemoved{EventID_: rec.EventID, Marker: *rec.Marker, Timestamp_: rec.Timestamp}, nil
	case "FormCleared":
		return &schema.FormCleared{EventID_: rec.EventID, NewInspectionID: rec.NewInspectionID, Timestamp_: rec.Timestamp}, nil
	default:
		return nil, fmt.Errorf("unknown event type: %s", rec.EventType)
	}
}

// ReplayEvents applies events to state in chronological order. Events with
// equal timestamps keep their log order.
func ReplayEvents(state *schema.SavedState, events []schema.InspectionEvent) (*schema.SavedState, error) {
	if state == nil {
		return nil, fmt.Errorf("state cannot be nil")
	}

	sorted := make([]schema.InspectionEvent, len(events))
	copy(sorted, events)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp().Before(sorted[j].Timestamp())
	})

	for _, event := range sorted {
		if err := applyEvent(state, event); err != nil {
			return nil, fmt.Errorf("apply event %s: %w", event.EventID(), err)
		}
	}
	return state, nil
}

func applyEvent(state *schema.SavedState, event schema.InspectionEvent) error {
	switch e := event.(type) {
	case *schema.ChoiceChanged:
		passed, failed := e.State.Flags()
		upsertItem(state, schema.ItemRecord{ID: e.ItemID, Name: e.ItemName, Choice: e.NewChoice, Passed: passed, Failed: failed})
	case *schema.CheckboxToggled:
		if e.Passed && e.Failed {
			return fmt.Errorf("item %s cannot be both passed and failed", e.ItemID)
		}
		upsertItem(state, schema.ItemRecord{ID: e.ItemID, Name: e.ItemName, Passed: e.Passed, Failed: e.Failed})
	case *schema.HeaderUpdated:
		state.Header = e.NewHeader
	case *schema.MarkerAdded:
		for _, m := range state.Markers {
			if m == e.Marker {
				return nil
			}
		}
		state.Markers = append(state.Markers, e.Marker)
	case *schema.MarkerRemoved:
		kept := state.Markers[:0]
		for _, m := range state.Markers {
			if m != e.Marker {
				kept = append(kept, m)
			}
		}
		state.Markers = kept
	case *schema.FormCleared:
		state.Items = []schema.ItemRecord{}
		state.Markers = []schema.DamageMarker{}
		state.Header = schema.InspectionHeader{}
		if e.NewInspectionID != "" {
			state.InspectionID = e.NewInspectionID
		}
	default:
		return fmt.Errorf("unknown event type: %T", event)
	}
	return nil
}

func upsertItem(state *schema.SavedState, rec schema.ItemRecord) {
	if i := state.FindItem(rec.ID); i >= 0 {
		state.Items[i] = rec
		return
	}
	state.Items = append(state.Items, rec)
}
