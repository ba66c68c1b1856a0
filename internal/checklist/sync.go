package checklist

import (
	"fmt"

	"github.com/Abdullahalbalawi/Bus-inspection-web/pkg/schema"
)

// Notification texts.
const (
	msgChoiceFailed   = "تنبيه: تم تسجيل فشل في بند \"%s\" بسبب التقييم \"%s\""
	msgCheckboxFailed = "تنبيه: تم تسجيل فشل في بند \"%s\""
	msgLocked         = "مربعات الاختيار يتم تحديدها تلقائياً حسب التقييم المختار"
)

// Change describes one converged mutation of an item.
type Change struct {
	ItemID    schema.ItemID
	ItemName  string
	Kind      schema.ItemKind
	View      schema.ViewKind
	OldChoice string
	NewChoice string
	OldState  schema.ItemState
	NewState  schema.ItemState
}

// SetChoice records an evaluation choice entered in view. Both projections,
// the item state and the owning section converge before the change listener
// runs. A placeholder or empty value resets the item to pending; any other
// value must be one of the item's options.
func (f *Form) SetChoice(id schema.ItemID, view schema.ViewKind, value string) (Change, error) {
	if err := f.begin(); err != nil {
		return Change{}, err
	}
	defer f.end()

	it, err := f.target(id, view)
	if err != nil {
		return Change{}, err
	}
	if !it.Kind.HasChoice() {
		return Change{}, fmt.Errorf("%w: %s has no evaluation choice", ErrNoControl, id)
	}

	choice := schema.NormalizeChoice(value)
	if choice != "" && !it.hasOption(choice) {
		return Change{}, fmt.Errorf("%w: %q for %s", ErrUnknownChoice, choice, id)
	}
	state := schema.StatePending
	if choice != "" {
		state = schema.StateFailed
		if it.pass[choice] {
			state = schema.StatePassed
		}
	}

	change := Change{
		ItemID:    id,
		ItemName:  it.Name,
		Kind:      it.Kind,
		View:      view,
		OldChoice: it.EvaluationChoice,
		NewChoice: choice,
		OldState:  it.State(),
		NewState:  state,
	}

	passed, failed := state.Flags()
	f.write(it, choice, passed, failed)
	f.recompute(f.sections[id.Section])

	if state == schema.StateFailed {
		f.notifier.Notify(schema.Notification{
			Message:  fmt.Sprintf(msgChoiceFailed, it.Name, choice),
			Severity: schema.SeverityError,
		})
	}
	f.emit(change)
	return change, nil
}

// TogglePass sets the pass control of a checkbox-only item. Checking it
// clears the fail control. Choice-driven items reject the toggle.
func (f *Form) TogglePass(id schema.ItemID, view schema.ViewKind, checked bool) (Change, error) {
	return f.toggle(id, view, true, checked)
}

// ToggleFail sets the fail control of a checkbox-only item. Checking it
// clears the pass control and raises a failure notification.
func (f *Form) ToggleFail(id schema.ItemID, view schema.ViewKind, checked bool) (Change, error) {
	return f.toggle(id, view, false, checked)
}

func (f *Form) toggle(id schema.ItemID, view schema.ViewKind, pass, checked bool) (Change, error) {
	if err := f.begin(); err != nil {
		return Change{}, err
	}
	defer f.end()

	it, err := f.target(id, view)
	if err != nil {
		return Change{}, err
	}
	switch it.Kind {
	case schema.KindChoice:
		f.notifier.Notify(schema.Notification{Message: msgLocked, Severity: schema.SeverityInfo})
		return Change{}, fmt.Errorf("%w: %s", ErrLockedControl, id)
	case schema.KindCheckbox:
	default:
		return Change{}, fmt.Errorf("%w: %s has no pass/fail controls", ErrNoControl, id)
	}

	passed, failed := it.Passed, it.Failed
	if pass {
		passed = checked
		if checked {
			failed = false
		}
	} else {
		failed = checked
		if checked {
			passed = false
		}
	}

	change := Change{
		ItemID:   id,
		ItemName: it.Name,
		Kind:     it.Kind,
		View:     view,
		OldState: it.State(),
		NewState: schema.StateOf(passed, failed),
	}

	f.write(it, "", passed, failed)
	f.recompute(f.sections[id.Section])

	if !pass && checked {
		f.notifier.Notify(schema.Notification{
			Message:  fmt.Sprintf(msgCheckboxFailed, it.Name),
			Severity: schema.SeverityError,
		})
	}
	f.emit(change)
	return change, nil
}

// Clear resets every item, both projections and the damage markers.
func (f *Form) Clear() error {
	if err := f.begin(); err != nil {
		return err
	}
	defer f.end()

	f.reset()
	f.RecomputeAll()
	return nil
}

// Records exports the raw state of every pass-capable item.
func (f *Form) Records() []schema.ItemRecord {
	var out []schema.ItemRecord
	for _, sec := range f.sections {
		for _, it := range sec.items {
			if !it.Kind.HasPassFail() {
				continue
			}
			out = append(out, schema.ItemRecord{
				ID:     it.ID,
				Name:   it.Name,
				Choice: it.EvaluationChoice,
				Passed: it.Passed,
				Failed: it.Failed,
			})
		}
	}
	return out
}

// Skipped lists the persisted entries Restore could not apply.
type Skipped struct {
	Items   []schema.ItemRecord
	Markers []schema.DamageMarker
}

// Empty reports whether everything was applied.
func (s Skipped) Empty() bool { return len(s.Items) == 0 && len(s.Markers) == 0 }

// Restore replaces the form state with persisted records. Choice items
// re-derive their state from the stored choice. Records that no longer match
// the template (unknown position, renamed item, unknown choice,
// contradictory flags) and
// markers outside the diagram are skipped and returned. Sections are always
// recomputed. No notifications are raised.
func (f *Form) Restore(records []schema.ItemRecord, markers []schema.DamageMarker) (Skipped, error) {
	if err := f.begin(); err != nil {
		return Skipped{}, err
	}
	defer f.end()

	f.reset()

	var skipped Skipped
	for _, rec := range records {
		it, err := f.lookup(rec.ID)
		if err != nil || it.Name != rec.Name {
			skipped.Items = append(skipped.Items, rec)
			continue
		}

		switch it.Kind {
		case schema.KindChoice:
			choice := schema.NormalizeChoice(rec.Choice)
			if choice != "" && !it.hasOption(choice) {
				skipped.Items = append(skipped.Items, rec)
				continue
			}
			state := schema.StatePending
			if choice != "" {
				state = schema.StateFailed
				if it.pass[choice] {
					state = schema.StatePassed
				}
			}
			passed, failed := state.Flags()
			f.write(it, choice, passed, failed)
		case schema.KindCheckbox:
			if rec.Passed && rec.Failed {
				skipped.Items = append(skipped.Items, rec)
				continue
			}
			f.write(it, "", rec.Passed, rec.Failed)
		default:
			skipped.Items = append(skipped.Items, rec)
		}
	}

	for _, m := range markers {
		if _, err := f.markers.Add(m.X, m.Y); err != nil {
			skipped.Markers = append(skipped.Markers, m)
		}
	}

	f.RecomputeAll()
	return skipped, nil
}

func (f *Form) begin() error {
	if f.propagating {
		return ErrReentrantUpdate
	}
	f.propagating = true
	return nil
}

func (f *Form) end() { f.propagating = false }

func (f *Form) target(id schema.ItemID, view schema.ViewKind) (*item, error) {
	if !view.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownView, view)
	}
	return f.lookup(id)
}

// write is the silent path: it updates the logical item and both
// projections without raising notifications or invoking the listener.
func (f *Form) write(it *item, choice string, passed, failed bool) {
	it.EvaluationChoice = choice
	it.Passed = passed
	it.Failed = failed
	for _, p := range it.views {
		p.Choice = choice
		p.Pass = passed
		p.Fail = failed
	}
}

func (f *Form) reset() {
	for _, sec := range f.sections {
		for _, it := range sec.items {
			f.write(it, "", false, false)
		}
	}
	f.markers.Reset()
}

func (f *Form) emit(c Change) {
	if f.listener != nil {
		f.listener(c)
	}
}
