package notes

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate_Tones(t *testing.T) {
	tests := []struct {
		name    string
		summary SectionSummary
		tone    Tone
		recHas  string
	}{
		{
			name:    "all passed",
			summary: SectionSummary{Name: "صيانة", TotalItems: 4, PassedItems: 4, Percentage: 100},
			tone:    TonePositive,
			recHas:  "الصيانة الدورية",
		},
		{
			name:    "good with failures",
			summary: SectionSummary{Name: "الأسطول", TotalItems: 10, PassedItems: 8, FailedItems: 2},
			tone:    ToneGood,
			recHas:  "2",
		},
		{
			name:    "good without failures",
			summary: SectionSummary{Name: "الأسطول", TotalItems: 10, PassedItems: 7},
			tone:    ToneGood,
			recHas:  "متابعة دورية",
		},
		{
			name:    "warning",
			summary: SectionSummary{Name: "السائق", TotalItems: 10, PassedItems: 5, FailedItems: 5},
			tone:    ToneWarning,
			recHas:  "5",
		},
		{
			name:    "critical quotes failed count",
			summary: SectionSummary{Name: "حوادث", TotalItems: 20, PassedItems: 9, FailedItems: 3},
			tone:    ToneCritical,
			recHas:  "3",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := Generate(tt.summary)
			assert.Equal(t, tt.tone, in.Tone)
			assert.Contains(t, in.Recommendation, tt.recHas)
			assert.Contains(t, in.Insight, tt.summary.Name)
		})
	}
}

func TestGenerate_PassRateIndependentOfPercentage(t *testing.T) {
	in := Generate(SectionSummary{Name: "حوادث", TotalItems: 20, PassedItems: 9, FailedItems: 3, Percentage: 95})
	assert.InDelta(t, 0.45, in.PassRate, 1e-9)
	assert.Equal(t, ToneCritical, in.Tone)
	assert.Contains(t, in.Insight, "45٪")
}

func TestCompose(t *testing.T) {
	t.Run("all passed", func(t *testing.T) {
		text := Compose(SectionSummary{Name: "صيانة", TotalItems: 4, PassedItems: 4, Percentage: 100})
		assert.True(t, strings.HasPrefix(text, "✅ "))
		assert.Contains(t, text, "جميع بنود صيانة اجتازت الفحص بنجاح.")
		assert.NotContains(t, text, "تفاصيل الملاحظات")
	})

	t.Run("issues listed in order", func(t *testing.T) {
		text := Compose(SectionSummary{
			Name:        "صيانة",
			TotalItems:  4,
			PassedItems: 2,
			FailedItems: 2,
			Issues: []Issue{
				{Item: "البطاريات", Reason: "ضعيفة"},
				{Item: "الإطارات", Reason: FailedReason},
			},
		})
		lines := strings.Split(text, "\n")
		require.GreaterOrEqual(t, len(lines), 7)
		assert.Equal(t, "", lines[1])
		assert.Equal(t, "📝 تفاصيل الملاحظات:", lines[2])
		assert.Equal(t, "- البطاريات: ضعيفة", lines[3])
		assert.Equal(t, "- الإطارات: فشل", lines[4])
		assert.Equal(t, "", lines[5])
		assert.True(t, strings.HasPrefix(lines[6], "⚠️ "))
	})

	t.Run("nothing evaluated", func(t *testing.T) {
		text := Compose(SectionSummary{Name: "السائق", TotalItems: 7})
		assert.Contains(t, text, "تم فحص 0 من 7 بنود")
	})

	t.Run("partially evaluated without issues", func(t *testing.T) {
		text := Compose(SectionSummary{Name: "السائق", TotalItems: 7, EvaluatedItems: 3, PassedItems: 3})
		assert.Contains(t, text, "تم فحص 3 من 7 بنود")
	})

	t.Run("empty section", func(t *testing.T) {
		assert.Empty(t, Compose(SectionSummary{Name: "فارغ"}))
	})

	t.Run("idempotent", func(t *testing.T) {
		s := SectionSummary{Name: "الأسطول", TotalItems: 6, PassedItems: 5, FailedItems: 1, Issues: []Issue{{Item: "الملصقات", Reason: "ناقصة"}}}
		assert.Equal(t, Compose(s), Compose(s))
	})
}

func TestTriage(t *testing.T) {
	issues := []Issue{
		{Item: "الملصقات", Reason: "موجودة وباهتة"},
		{Item: "الديكور والمقاعد", Reason: "تحتاج تنظيف"},
		{Item: "البطاريات", Reason: "تحتاج استبدال"},
		{Item: "كهرباء الحافلة", Reason: "عطل كامل"},
		{Item: "الأوراق الثبوتية", Reason: "ناقصة"},
	}

	got := Triage(issues)
	require.Len(t, got, 5)

	assert.Equal(t, PriorityCritical, got[0].Priority)
	assert.Equal(t, "كهرباء الحافلة", got[0].Item)
	assert.Equal(t, "خلال 24 ساعة", got[0].Timeline)

	assert.Equal(t, PriorityHigh, got[1].Priority)
	assert.Equal(t, "البطاريات", got[1].Item)

	assert.Equal(t, PriorityMedium, got[2].Priority)
	assert.Equal(t, "الديكور والمقاعد", got[2].Item, "equal priorities keep input order")
	assert.Equal(t, PriorityMedium, got[3].Priority)
	assert.Equal(t, "الأوراق الثبوتية", got[3].Item)

	assert.Equal(t, PriorityLow, got[4].Priority)
	assert.Equal(t, "منخفض", got[4].Priority.Label())
}
