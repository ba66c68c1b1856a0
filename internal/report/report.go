// Package report assembles the inspection report from a converged form
// snapshot.
package report

import (
	"fmt"
	"math"
	"time"

	"github.com/Abdullahalbalawi/Bus-inspection-web/internal/checklist"
	"github.com/Abdullahalbalawi/Bus-inspection-web/internal/notes"
	"github.com/Abdullahalbalawi/Bus-inspection-web/pkg/schema"
)

// Badge is the colour band shown next to a percentage.
type Badge string

const (
	BadgeGreen  Badge = "green"
	BadgeYellow Badge = "yellow"
	BadgeRed    Badge = "red"
)

// BadgeFor maps a percentage to its colour band.
func BadgeFor(percentage int) Badge {
	switch {
	case percentage >= 80:
		return BadgeGreen
	case percentage >= 50:
		return BadgeYellow
	default:
		return BadgeRed
	}
}

// Input is a converged snapshot of the form.
type Input struct {
	InspectionID string                    `json:"inspection_id"`
	Header       schema.InspectionHeader   `json:"header"`
	Sections     []checklist.SectionResult `json:"sections"`
	Markers      []schema.DamageMarker     `json:"markers"`
	Progress     int                       `json:"progress"`
}

// SectionReport is one section of the report.
type SectionReport struct {
	Name        string             `json:"name" yaml:"name"`
	Category    string             `json:"category" yaml:"category"`
	Percentage  int                `json:"percentage" yaml:"percentage"`
	PassRate    float64            `json:"pass_rate" yaml:"pass_rate"`
	Badge       Badge              `json:"badge" yaml:"badge"`
	Tone        notes.Tone         `json:"tone" yaml:"tone"`
	Total       int                `json:"total" yaml:"total"`
	Evaluated   int                `json:"evaluated" yaml:"evaluated"`
	Passed      int                `json:"passed" yaml:"passed"`
	Failed      int                `json:"failed" yaml:"failed"`
	Notes       string             `json:"notes" yaml:"notes"`
	Issues      []notes.Issue      `json:"issues,omitempty" yaml:"issues,omitempty"`
	Suggestions []notes.Suggestion `json:"suggestions,omitempty" yaml:"suggestions,omitempty"`
}

// Report is the assembled inspection report.
type Report struct {
	ID           string                  `json:"id" yaml:"id"`
	InspectionID string                  `json:"inspection_id" yaml:"inspection_id"`
	GeneratedAt  time.Time               `json:"generated_at" yaml:"generated_at"`
	FileName     string                  `json:"file_name" yaml:"file_name"`
	Header       schema.InspectionHeader `json:"header" yaml:"header"`
	Overall      int                     `json:"overall" yaml:"overall"`
	OverallBadge Badge                   `json:"overall_badge" yaml:"overall_badge"`
	Progress     int                     `json:"progress" yaml:"progress"`
	Sections     []SectionReport         `json:"sections" yaml:"sections"`
	Patterns     []Pattern               `json:"patterns,omitempty" yaml:"patterns,omitempty"`
	Markers      []schema.DamageMarker   `json:"markers,omitempty" yaml:"markers,omitempty"`
	Summary      string                  `json:"summary" yaml:"summary"`
}

// Build assembles a report. It reads the snapshot only.
func Build(in Input, now time.Time) (*Report, error) {
	if len(in.Sections) == 0 {
		return nil, fmt.Errorf("report: snapshot has no sections")
	}

	r := &Report{
		ID:           schema.NewReportID(),
		InspectionID: in.InspectionID,
		GeneratedAt:  now,
		FileName:     FileBaseName(in.Header.PlateNumber),
		Header:       in.Header,
		Progress:     in.Progress,
		Markers:      append([]schema.DamageMarker(nil), in.Markers...),
	}

	stats := make(map[string]SectionStats, len(in.Sections))
	sum := 0
	for _, s := range in.Sections {
		sum += s.Percentage
		stats[s.Category] = SectionStats{Percentage: s.Percentage, FailedItems: s.Summary.FailedItems}
		r.Sections = append(r.Sections, SectionReport{
			Name:        s.Name,
			Category:    s.Category,
			Percentage:  s.Percentage,
			PassRate:    s.Insight.PassRate,
			Badge:       BadgeFor(s.Percentage),
			Tone:        s.Insight.Tone,
			Total:       s.Summary.TotalItems,
			Evaluated:   s.Summary.Evaluated(),
			Passed:      s.Summary.PassedItems,
			Failed:      s.Summary.FailedItems,
			Notes:       s.Notes,
			Issues:      append([]notes.Issue(nil), s.Summary.Issues...),
			Suggestions: notes.Triage(s.Summary.Issues),
		})
	}

	r.Overall = int(math.Round(float64(sum) / float64(len(in.Sections))))
	r.OverallBadge = BadgeFor(r.Overall)
	r.Patterns = DetectPatterns(stats)
	r.Summary = Summarize(r.Overall, r.Sections, r.Patterns, now)
	return r, nil
}
