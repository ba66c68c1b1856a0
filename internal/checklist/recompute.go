package checklist

import (
	"github.com/Abdullahalbalawi/Bus-inspection-web/internal/notes"
	"github.com/Abdullahalbalawi/Bus-inspection-web/internal/scoring"
	"github.com/Abdullahalbalawi/Bus-inspection-web/pkg/schema"
)

// SectionResult holds the values derived from a section's items.
type SectionResult struct {
	Index      int                  `json:"index" yaml:"index"`
	Name       string               `json:"name" yaml:"name"`
	Category   string               `json:"category" yaml:"category"`
	Percentage int                  `json:"percentage" yaml:"percentage"`
	Summary    notes.SectionSummary `json:"summary" yaml:"summary"`
	Insight    notes.Insight        `json:"insight" yaml:"insight"`
	Notes      string               `json:"notes" yaml:"notes"`
}

// Sections returns the derived results of every section in template order.
func (f *Form) Sections() []SectionResult {
	out := make([]SectionResult, len(f.sections))
	for i, sec := range f.sections {
		out[i] = sec.result
		out[i].Summary.Issues = append([]notes.Issue(nil), sec.result.Summary.Issues...)
	}
	return out
}

// Section returns the derived result of one section.
func (f *Form) Section(index int) (SectionResult, bool) {
	if index < 0 || index >= len(f.sections) {
		return SectionResult{}, false
	}
	return f.Sections()[index], true
}

// RecomputeAll refreshes the derived values of every section.
func (f *Form) RecomputeAll() {
	for _, sec := range f.sections {
		f.recompute(sec)
	}
}

// recompute derives percentage, summary and notes from the section's choice
// items only. It reads item state and nothing else, so repeating it with the
// same evaluations yields the same result.
func (f *Form) recompute(sec *section) {
	summary := notes.SectionSummary{Name: sec.name}
	evals := make([]scoring.Evaluation, 0, len(sec.items))

	for _, it := range sec.items {
		if it.Kind != schema.KindChoice {
			continue
		}
		summary.TotalItems++

		evaluated := it.EvaluationChoice != ""
		if evaluated {
			summary.EvaluatedItems++
		}
		evals = append(evals, scoring.Evaluation{
			ItemName:  it.Name,
			Choice:    it.EvaluationChoice,
			Passed:    it.Passed,
			Evaluated: evaluated,
		})

		switch {
		case it.Failed:
			summary.FailedItems++
			reason := it.EvaluationChoice
			if reason == "" {
				reason = notes.FailedReason
			}
			summary.Issues = append(summary.Issues, notes.Issue{Item: it.Name, Reason: reason})
		case it.Passed:
			summary.PassedItems++
			if evaluated && !it.perfect[it.EvaluationChoice] {
				summary.Issues = append(summary.Issues, notes.Issue{Item: it.Name, Reason: it.EvaluationChoice})
			}
		}
	}

	summary.Percentage = f.scorer.Aggregate(evals)
	sec.result = SectionResult{
		Index:      sec.index,
		Name:       sec.name,
		Category:   sec.category,
		Percentage: summary.Percentage,
		Summary:    summary,
		Insight:    notes.Generate(summary),
		Notes:      notes.Compose(summary),
	}
}
