// Package checklist holds the live inspection form: logical item state, its
// two projections, and the derived section scores and notes.
//
// A Form is not safe for concurrent use. Callers serialise access.
package checklist

import (
	"errors"
	"fmt"

	"github.com/Abdullahalbalawi/Bus-inspection-web/internal/scoring"
	"github.com/Abdullahalbalawi/Bus-inspection-web/pkg/schema"
)

var (
	// ErrReentrantUpdate is returned when a mutation is attempted while a
	// previous one is still propagating.
	ErrReentrantUpdate = errors.New("checklist: update while propagation in progress")
	ErrUnknownItem     = errors.New("checklist: unknown item")
	ErrUnknownView     = errors.New("checklist: unknown view")
	ErrLockedControl   = errors.New("checklist: pass/fail controls follow the evaluation choice")
	ErrNoControl       = errors.New("checklist: item has no such control")
	ErrUnknownChoice   = errors.New("checklist: choice is not an option of the item")
)

// Notifier receives user-facing notifications.
type Notifier interface {
	Notify(n schema.Notification)
}

// Projection is what one view shows for an item.
type Projection struct {
	Choice string `json:"choice" yaml:"choice"`
	Pass   bool   `json:"pass" yaml:"pass"`
	Fail   bool   `json:"fail" yaml:"fail"`
	Locked bool   `json:"locked" yaml:"locked"`
}

type item struct {
	schema.ChecklistItem
	options []string
	pass    map[string]bool
	perfect map[string]bool
	views   map[schema.ViewKind]*Projection
}

type section struct {
	index    int
	name     string
	category string
	items    []*item
	result   SectionResult
}

// Form is the live checklist built from a template.
type Form struct {
	tpl         *schema.Template
	scorer      *scoring.Scorer
	notifier    Notifier
	sections    []*section
	markers     *MarkerSet
	listener    func(Change)
	propagating bool
}

// New builds an empty form from tpl. Every item gets both projections at once.
func New(tpl *schema.Template, scorer *scoring.Scorer, notifier Notifier) (*Form, error) {
	if tpl == nil || scorer == nil {
		return nil, fmt.Errorf("checklist: template and scorer are required")
	}
	if notifier == nil {
		notifier = discard{}
	}

	f := &Form{tpl: tpl, scorer: scorer, notifier: notifier, markers: NewMarkerSet()}
	for si, st := range tpl.Sections {
		sec := &section{index: si, name: st.Name, category: st.Category}
		for ii, it := range st.Items {
			passOpts := it.PassOptions
			if len(passOpts) == 0 {
				passOpts = tpl.PassOptions
			}
			perfectOpts := it.PerfectOptions
			if len(perfectOpts) == 0 {
				perfectOpts = tpl.PerfectOptions
			}

			ci := &item{
				ChecklistItem: schema.ChecklistItem{
					ID:          schema.ItemID{Section: si, Index: ii},
					Name:        it.Name,
					SectionName: st.Name,
					Kind:        it.Kind,
				},
				options: it.Options,
				pass:    toSet(passOpts),
				perfect: toSet(perfectOpts),
				views:   make(map[schema.ViewKind]*Projection, len(schema.Views)),
			}
			for _, v := range schema.Views {
				ci.views[v] = &Projection{Locked: it.Kind == schema.KindChoice}
			}
			sec.items = append(sec.items, ci)
		}
		f.sections = append(f.sections, sec)
	}
	f.RecomputeAll()
	return f, nil
}

// OnChange registers the listener invoked after each converged mutation.
// The listener runs inside the propagation guard: mutating the form from it
// fails with ErrReentrantUpdate.
func (f *Form) OnChange(fn func(Change)) { f.listener = fn }

// Template returns the template the form was built from.
func (f *Form) Template() *schema.Template { return f.tpl }

// Busy reports whether a propagation is in flight.
func (f *Form) Busy() bool { return f.propagating }

// Item returns a copy of the logical state of an item.
func (f *Form) Item(id schema.ItemID) (schema.ChecklistItem, error) {
	it, err := f.lookup(id)
	if err != nil {
		return schema.ChecklistItem{}, err
	}
	return it.ChecklistItem, nil
}

// Items returns the logical state of every item in template order.
func (f *Form) Items() []schema.ChecklistItem {
	out := make([]schema.ChecklistItem, 0, f.tpl.ItemCount())
	for _, sec := range f.sections {
		for _, it := range sec.items {
			out = append(out, it.ChecklistItem)
		}
	}
	return out
}

// Options returns the evaluation choices of an item.
func (f *Form) Options(id schema.ItemID) ([]string, error) {
	it, err := f.lookup(id)
	if err != nil {
		return nil, err
	}
	return append([]string(nil), it.options...), nil
}

// Projection returns what view shows for the item.
func (f *Form) Projection(id schema.ItemID, view schema.ViewKind) (Projection, error) {
	it, err := f.lookup(id)
	if err != nil {
		return Projection{}, err
	}
	if !view.Valid() {
		return Projection{}, fmt.Errorf("%w: %q", ErrUnknownView, view)
	}
	return *it.views[view], nil
}

// Progress is the share of pass-capable items currently passed, in percent.
func (f *Form) Progress() int {
	total, passed := 0, 0
	for _, sec := range f.sections {
		for _, it := range sec.items {
			if !it.Kind.HasPassFail() {
				continue
			}
			total++
			if it.Passed {
				passed++
			}
		}
	}
	if total == 0 {
		return 0
	}
	return (passed*100 + total/2) / total
}

// FirstIncomplete returns the first choice item without an evaluation.
// Notes, diagram and checkbox-only items never block.
func (f *Form) FirstIncomplete() (schema.ChecklistItem, bool) {
	for _, sec := range f.sections {
		for _, it := range sec.items {
			if it.Kind == schema.KindChoice && it.EvaluationChoice == "" {
				return it.ChecklistItem, true
			}
		}
	}
	return schema.ChecklistItem{}, false
}

func (f *Form) lookup(id schema.ItemID) (*item, error) {
	if id.Section < 0 || id.Section >= len(f.sections) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownItem, id)
	}
	items := f.sections[id.Section].items
	if id.Index < 0 || id.Index >= len(items) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownItem, id)
	}
	return items[id.Index], nil
}

func (it *item) hasOption(choice string) bool {
	for _, o := range it.options {
		if o == choice {
			return true
		}
	}
	return false
}

func toSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}

type discard struct{}

func (discard) Notify(schema.Notification) {}
