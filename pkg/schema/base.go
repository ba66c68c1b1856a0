package schema

import "strings"

// ItemKind describes which controls a checklist item exposes.
type ItemKind string

const (
	KindChoice   ItemKind = "choice"   // evaluation select drives pass/fail
	KindCheckbox ItemKind = "checkbox" // legacy row with pass/fail boxes only
	KindNotes    ItemKind = "notes"    // free text column
	KindDiagram  ItemKind = "diagram"  // damage diagram placement
)

// HasChoice reports whether the item carries an evaluation select.
func (k ItemKind) HasChoice() bool { return k == KindChoice }

// HasPassFail reports whether the item carries pass/fail controls.
func (k ItemKind) HasPassFail() bool { return k == KindChoice || k == KindCheckbox }

// ItemState is the evaluation state derived from the pass/fail flags.
type ItemState string

const (
	StatePending ItemState = "pending"
	StatePassed  ItemState = "passed"
	StateFailed  ItemState = "failed"
)

// StateOf derives the item state from its flags. Failed wins if both are set.
func StateOf(passed, failed bool) ItemState {
	switch {
	case failed:
		return StateFailed
	case passed:
		return StatePassed
	default:
		return StatePending
	}
}

// Flags returns the pass/fail flags for the state.
func (s ItemState) Flags() (passed, failed bool) {
	return s == StatePassed, s == StateFailed
}

// ViewKind names one of the two projections of the same checklist.
type ViewKind string

const (
	ViewPrimary   ViewKind = "primary"   // desktop table
	ViewSecondary ViewKind = "secondary" // mobile cards
)

// Views lists both projections in a fixed order.
var Views = []ViewKind{ViewPrimary, ViewSecondary}

// Valid reports whether v names a known projection.
func (v ViewKind) Valid() bool { return v == ViewPrimary || v == ViewSecondary }

// Section categories used by pattern rules.
const (
	CategoryMaintenance = "maintenance"
	CategoryAccidents   = "accidents"
	CategoryFleet       = "fleet"
	CategoryDriver      = "driver"
)

// Placeholder texts rendered by the evaluation select before a choice is made.
var placeholderChoices = []string{"-- اختر --", "-- اختر التقييم --"}

// NormalizeChoice trims the choice and maps placeholders to the empty string.
func NormalizeChoice(choice string) string {
	choice = strings.TrimSpace(choice)
	for _, p := range placeholderChoices {
		if choice == p {
			return ""
		}
	}
	return choice
}

// IsPlaceholderChoice reports whether the choice means "not evaluated".
func IsPlaceholderChoice(choice string) bool {
	return NormalizeChoice(choice) == ""
}

// ValidationLimits defines the constraints for various fields.
const (
	SeatCountMin     = 1
	SeatCountMax     = 100
	TemplateNameMax  = 100
	ItemNameMax      = 100
	MarkerCoordMin   = 0.0
	MarkerCoordMax   = 100.0
	SavedStateFormat = 1
)
