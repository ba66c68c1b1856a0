package notes

import (
	"regexp"
	"sort"
)

// Priority ranks how urgently an issue must be handled.
type Priority string

const (
	PriorityCritical Priority = "critical"
	PriorityHigh     Priority = "high"
	PriorityMedium   Priority = "medium"
	PriorityLow      Priority = "low"
)

var priorityRank = map[Priority]int{
	PriorityCritical: 1,
	PriorityHigh:     2,
	PriorityMedium:   3,
	PriorityLow:      4,
}

// Label returns the Arabic label of the priority.
func (p Priority) Label() string {
	switch p {
	case PriorityCritical:
		return "حرج"
	case PriorityHigh:
		return "عالي"
	case PriorityMedium:
		return "متوسط"
	default:
		return "منخفض"
	}
}

// Suggestion is a maintenance action proposed for one issue.
type Suggestion struct {
	Item     string   `json:"item" yaml:"item"`
	Reason   string   `json:"reason" yaml:"reason"`
	Priority Priority `json:"priority" yaml:"priority"`
	Action   string   `json:"action" yaml:"action"`
	Timeline string   `json:"timeline" yaml:"timeline"`
	Cost     string   `json:"cost" yaml:"cost"`
}

type triageRule struct {
	pattern  *regexp.Regexp
	priority Priority
	action   string
	timeline string
	cost     string
}

var triageRules = []triageRule{
	{
		pattern:  regexp.MustCompile(`عطل كامل|متوقف|كسر كامل|غير موجود`),
		priority: PriorityCritical,
		action:   "استبدال فوري أو إصلاح شامل",
		timeline: "خلال 24 ساعة",
		cost:     "عالية",
	},
	{
		pattern:  regexp.MustCompile(`تحتاج استبدال|أضرار جسيمة|عطل جزئي|تالفة`),
		priority: PriorityHigh,
		action:   "جدولة صيانة عاجلة",
		timeline: "خلال 3 أيام",
		cost:     "متوسطة إلى عالية",
	},
	{
		pattern:  regexp.MustCompile(`تحتاج صيانة|متوسط|ناقص|تنظيف`),
		priority: PriorityMedium,
		action:   "صيانة دورية مجدولة",
		timeline: "خلال أسبوع",
		cost:     "منخفضة إلى متوسطة",
	},
}

// Analyze proposes an action for one issue from its reason text.
func Analyze(issue Issue) Suggestion {
	for _, r := range triageRules {
		if r.pattern.MatchString(issue.Reason) {
			return Suggestion{
				Item:     issue.Item,
				Reason:   issue.Reason,
				Priority: r.priority,
				Action:   r.action,
				Timeline: r.timeline,
				Cost:     r.cost,
			}
		}
	}
	return Suggestion{
		Item:     issue.Item,
		Reason:   issue.Reason,
		Priority: PriorityLow,
		Action:   "متابعة في الفحص القادم",
		Timeline: "حسب الجدول الدوري",
		Cost:     "منخفضة",
	}
}

// Triage analyzes every issue and orders the suggestions from most to least
// urgent. Issues of equal priority keep their input order.
func Triage(issues []Issue) []Suggestion {
	out := make([]Suggestion, 0, len(issues))
	for _, issue := range issues {
		out = append(out, Analyze(issue))
	}
	sort.SliceStable(out, func(i, j int) bool {
		return priorityRank[out[i].Priority] < priorityRank[out[j].Priority]
	})
	return out
}
