package report

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

const (
	summaryExcellent  = 80
	summaryAcceptable = 60
	highlightBelow    = 70
)

// Summarize renders the human-readable report summary.
func Summarize(overall int, sections []SectionReport, patterns []Pattern, now time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📋 تقرير فحص الحافلة - %s\n\n", now.Format("02-01-2006"))

	switch {
	case overall >= summaryExcellent:
		fmt.Fprintf(&b, "✅ الحالة العامة: ممتازة (%d٪)\n", overall)
		b.WriteString("الحافلة في حالة جيدة جداً وجاهزة للتشغيل.\n\n")
	case overall >= summaryAcceptable:
		fmt.Fprintf(&b, "⚠️ الحالة العامة: مقبولة (%d٪)\n", overall)
		b.WriteString("توجد بعض النقاط التي تحتاج معالجة قريباً.\n\n")
	default:
		fmt.Fprintf(&b, "🚨 الحالة العامة: غير مرضية (%d٪)\n", overall)
		b.WriteString("الحافلة تحتاج صيانة شاملة قبل التشغيل.\n\n")
	}

	b.WriteString("📊 أبرز الملاحظات:\n")
	for _, s := range sections {
		if s.Percentage < highlightBelow {
			fmt.Fprintf(&b, "  • %s: يحتاج اهتمام (%d٪)\n", s.Name, s.Percentage)
		}
	}

	if len(patterns) > 0 {
		b.WriteString("\n🔍 أنماط مكتشفة:\n")
		for _, p := range patterns {
			fmt.Fprintf(&b, "  • %s\n", p.Description)
		}
	}
	return b.String()
}

// DefaultFileName is used when the plate number leaves nothing usable.
const DefaultFileName = "تقرير_فحص_حافلة"

var (
	whitespace   = regexp.MustCompile(`\s+`)
	unsafeInName = regexp.MustCompile(`[^a-zA-Z0-9\x{0600}-\x{06FF}_-]`)
)

// FileBaseName derives the export file name from the plate number.
func FileBaseName(plate string) string {
	name := whitespace.ReplaceAllString(strings.TrimSpace(plate), "_")
	name = unsafeInName.ReplaceAllString(name, "")
	if name == "" {
		return DefaultFileName
	}
	return name
}
