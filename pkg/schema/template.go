package schema

// Template describes the checklist layout: ordered sections of ordered items.
type Template struct {
	Name           string            `json:"name" yaml:"name" validate:"required,max=100"`
	Version        string            `json:"version" yaml:"version" validate:"required"`
	PassOptions    []string          `json:"pass_options" yaml:"pass_options" validate:"required,min=1,dive,required"`
	PerfectOptions []string          `json:"perfect_options" yaml:"perfect_options" validate:"dive,required"`
	Sections       []SectionTemplate `json:"sections" yaml:"sections" validate:"required,min=1,dive"`
}

// SectionTemplate is one titled group of checklist items.
type SectionTemplate struct {
	Name     string         `json:"name" yaml:"name" validate:"required"`
	Category string         `json:"category" yaml:"category" validate:"required"`
	Items    []ItemTemplate `json:"items" yaml:"items" validate:"required,min=1,dive"`
}

// ItemTemplate is one checklist row. PassOptions and PerfectOptions override
// the template defaults when set.
type ItemTemplate struct {
	Name           string   `json:"name" yaml:"name" validate:"required,max=100"`
	Kind           ItemKind `json:"kind" yaml:"kind" validate:"required,oneof=choice checkbox notes diagram"`
	Options        []string `json:"options,omitempty" yaml:"options,omitempty" validate:"required_if=Kind choice,dive,required"`
	PassOptions    []string `json:"pass_options,omitempty" yaml:"pass_options,omitempty" validate:"dive,required"`
	PerfectOptions []string `json:"perfect_options,omitempty" yaml:"perfect_options,omitempty" validate:"dive,required"`
}

// ItemCount returns the number of items across all sections.
func (t *Template) ItemCount() int {
	n := 0
	for _, s := range t.Sections {
		n += len(s.Items)
	}
	return n
}

// Item returns the item template at id.
func (t *Template) Item(id ItemID) (ItemTemplate, bool) {
	if id.Section < 0 || id.Section >= len(t.Sections) {
		return ItemTemplate{}, false
	}
	items := t.Sections[id.Section].Items
	if id.Index < 0 || id.Index >= len(items) {
		return ItemTemplate{}, false
	}
	return items[id.Index], true
}
