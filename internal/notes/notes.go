// Package notes renders deterministic narrative notes for a checklist section.
package notes

import (
	"fmt"
	"math"
	"strings"
)

// Tone is the register of a generated insight.
type Tone string

const (
	TonePositive Tone = "positive"
	ToneGood     Tone = "good"
	ToneWarning  Tone = "warning"
	ToneCritical Tone = "critical"
)

// Label returns the Arabic label of the tone.
func (t Tone) Label() string {
	switch t {
	case TonePositive:
		return "إيجابي"
	case ToneGood:
		return "جيد"
	case ToneWarning:
		return "تحذيري"
	case ToneCritical:
		return "حرج"
	default:
		return string(t)
	}
}

// Pass-rate thresholds for the tones.
const (
	positiveRate = 0.90
	goodRate     = 0.70
	warningRate  = 0.50
)

// Issue is one item worth noting, with the reason shown to the reader.
type Issue struct {
	Item   string `json:"item" yaml:"item"`
	Reason string `json:"reason" yaml:"reason"`
}

// FailedReason is used when a failed item has no recorded choice.
const FailedReason = "فشل"

// SectionSummary is the input of the note generator.
type SectionSummary struct {
	Name           string  `json:"name" yaml:"name"`
	TotalItems     int     `json:"total_items" yaml:"total_items"`
	EvaluatedItems int     `json:"evaluated_items" yaml:"evaluated_items"`
	PassedItems    int     `json:"passed_items" yaml:"passed_items"`
	FailedItems    int     `json:"failed_items" yaml:"failed_items"`
	Percentage     int     `json:"percentage" yaml:"percentage"`
	Issues         []Issue `json:"issues,omitempty" yaml:"issues,omitempty"`
}

// Evaluated returns the number of evaluated items, never fewer than the
// items counted as passed or failed.
func (s SectionSummary) Evaluated() int {
	if n := s.PassedItems + s.FailedItems; n > s.EvaluatedItems {
		return n
	}
	return s.EvaluatedItems
}

// PassRate is passed/total, independent of the weighted percentage.
func (s SectionSummary) PassRate() float64 {
	if s.TotalItems == 0 {
		return 0
	}
	return float64(s.PassedItems) / float64(s.TotalItems)
}

// Insight is the generated assessment of a section.
type Insight struct {
	Insight        string  `json:"insight" yaml:"insight"`
	Recommendation string  `json:"recommendation" yaml:"recommendation"`
	Tone           Tone    `json:"tone" yaml:"tone"`
	PassRate       float64 `json:"pass_rate" yaml:"pass_rate"`
}

// Generate derives the tone, insight and recommendation from the pass rate.
func Generate(s SectionSummary) Insight {
	rate := s.PassRate()
	pct := int(math.Round(rate * 100))

	switch {
	case rate >= positiveRate:
		return Insight{
			Insight:        fmt.Sprintf("أداء %s ممتاز بنسبة %d٪.", s.Name, pct),
			Recommendation: "يُنصح بالحفاظ على هذا المستوى من خلال الصيانة الدورية.",
			Tone:           TonePositive,
			PassRate:       rate,
		}
	case rate >= goodRate:
		rec := "متابعة دورية للبنود التي تحتاج تحسين."
		if s.FailedItems > 0 {
			rec = fmt.Sprintf("تم رصد %d بند/بنود تحتاج معالجة.", s.FailedItems)
		}
		return Insight{
			Insight:        fmt.Sprintf("أداء %s جيد بشكل عام (%d٪)، مع وجود بعض النقاط التي تحتاج متابعة.", s.Name, pct),
			Recommendation: rec,
			Tone:           ToneGood,
			PassRate:       rate,
		}
	case rate >= warningRate:
		return Insight{
			Insight:        fmt.Sprintf("⚠️ %s يحتاج اهتمام فوري (%d٪).", s.Name, pct),
			Recommendation: fmt.Sprintf("تم رصد %d مشكلة/مشاكل تتطلب تدخل عاجل لتفادي توقف الخدمة.", s.FailedItems),
			Tone:           ToneWarning,
			PassRate:       rate,
		}
	default:
		return Insight{
			Insight:        fmt.Sprintf("🚨 حالة %s حرجة جداً (%d٪)!", s.Name, pct),
			Recommendation: fmt.Sprintf("خطر توقف فوري. يجب إيقاف التشغيل ومعالجة جميع المشاكل (%d بنود فاشلة).", s.FailedItems),
			Tone:           ToneCritical,
			PassRate:       rate,
		}
	}
}

// Compose renders the full note text of a section.
func Compose(s SectionSummary) string {
	if s.TotalItems == 0 {
		return ""
	}
	evaluated := s.Evaluated()
	if evaluated == 0 {
		return incomplete(0, s.TotalItems)
	}

	in := Generate(s)
	var b strings.Builder
	switch {
	case len(s.Issues) > 0:
		b.WriteString(in.Insight)
		b.WriteString("\n\n📝 تفاصيل الملاحظات:\n")
		for i, issue := range s.Issues {
			if i > 0 {
				b.WriteString("\n")
			}
			fmt.Fprintf(&b, "- %s: %s", issue.Item, issue.Reason)
		}
		b.WriteString("\n\n⚠️ ")
		b.WriteString(in.Recommendation)
	case s.PassedItems == s.TotalItems:
		fmt.Fprintf(&b, "✅ %s\n\nجميع بنود %s اجتازت الفحص بنجاح. %s", in.Insight, s.Name, in.Recommendation)
	default:
		return incomplete(evaluated, s.TotalItems)
	}
	return b.String()
}

func incomplete(evaluated, total int) string {
	return fmt.Sprintf("⏳ لم يتم إكمال فحص جميع البنود بعد.\n\nتم فحص %d من %d بنود. يرجى إكمال الفحص للحصول على تقييم شامل.", evaluated, total)
}
