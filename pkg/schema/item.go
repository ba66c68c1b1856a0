package schema

import (
	"fmt"
	"math"
)

// ItemID identifies a checklist item by its zero-based position in the template.
type ItemID struct {
	Section int `json:"section" yaml:"section"`
	Index   int `json:"index" yaml:"index"`
}

// String renders the 1-based display form S<section>.I<item>.
func (id ItemID) String() string {
	return fmt.Sprintf("S%d.I%d", id.Section+1, id.Index+1)
}

// ParseItemID parses the S<section>.I<item> display form.
func ParseItemID(s string) (ItemID, error) {
	var section, index int
	if _, err := fmt.Sscanf(s, "S%d.I%d", &section, &index); err != nil {
		return ItemID{}, fmt.Errorf("invalid item id %q: want S<section>.I<item>", s)
	}
	if section < 1 || index < 1 {
		return ItemID{}, fmt.Errorf("invalid item id %q: positions start at 1", s)
	}
	if got := (ItemID{Section: section - 1, Index: index - 1}).String(); got != s {
		return ItemID{}, fmt.Errorf("invalid item id %q: trailing characters", s)
	}
	return ItemID{Section: section - 1, Index: index - 1}, nil
}

// ChecklistItem is the logical state of a single inspection row.
type ChecklistItem struct {
	ID               ItemID   `json:"id" yaml:"id"`
	Name             string   `json:"name" yaml:"name"`
	SectionName      string   `json:"section_name" yaml:"section_name"`
	Kind             ItemKind `json:"kind" yaml:"kind"`
	EvaluationChoice string   `json:"evaluation_choice,omitempty" yaml:"evaluation_choice,omitempty"`
	Passed           bool     `json:"passed" yaml:"passed"`
	Failed           bool     `json:"failed" yaml:"failed"`
}

// State returns the derived evaluation state.
func (c ChecklistItem) State() ItemState {
	return StateOf(c.Passed, c.Failed)
}

// DamageMarker is a point on the bus diagram, in percent of width and height.
type DamageMarker struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// NewDamageMarker rounds both coordinates to two decimals.
func NewDamageMarker(x, y float64) DamageMarker {
	return DamageMarker{X: round2(x), Y: round2(y)}
}

func (m DamageMarker) String() string {
	return fmt.Sprintf("(%.2f, %.2f)", m.X, m.Y)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Severity classifies a user-facing notification.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Notification is a short message shown to the inspector.
type Notification struct {
	Message  string   `json:"message" yaml:"message"`
	Severity Severity `json:"severity" yaml:"severity"`
}
