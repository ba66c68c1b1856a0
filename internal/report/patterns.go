package report

import "github.com/Abdullahalbalawi/Bus-inspection-web/pkg/schema"

// Pattern kinds.
const (
	PatternCorrelation = "correlation"
	PatternBehavior    = "behavior"
)

// SectionStats is the per-category input of pattern detection.
type SectionStats struct {
	Percentage  int
	FailedItems int
}

// Pattern is a cross-section observation.
type Pattern struct {
	Type        string `json:"type" yaml:"type"`
	Description string `json:"description" yaml:"description"`
}

type patternRule struct {
	kind        string
	description string
	match       func(map[string]SectionStats) bool
}

// patternRules are evaluated in order. A rule referencing a missing
// category never matches.
var patternRules = []patternRule{
	{
		kind:        PatternCorrelation,
		description: "انخفاض جودة الصيانة قد يكون مرتبطاً بزيادة الأضرار الخارجية",
		match: func(s map[string]SectionStats) bool {
			maint, ok1 := s[schema.CategoryMaintenance]
			acc, ok2 := s[schema.CategoryAccidents]
			return ok1 && ok2 && maint.Percentage < 60 && acc.FailedItems > 2
		},
	},
	{
		kind:        PatternBehavior,
		description: "أداء السائق يحتاج تحسين، مما قد يؤثر على سلامة الحافلة",
		match: func(s map[string]SectionStats) bool {
			driver, ok := s[schema.CategoryDriver]
			return ok && driver.Percentage < 70
		},
	},
}

// DetectPatterns returns the observations whose rule matches, in rule order.
func DetectPatterns(sections map[string]SectionStats) []Pattern {
	var out []Pattern
	for _, r := range patternRules {
		if r.match(sections) {
			out = append(out, Pattern{Type: r.kind, Description: r.description})
		}
	}
	return out
}
