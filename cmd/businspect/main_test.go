package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Abdullahalbalawi/Bus-inspection-web/internal/template"
	"github.com/Abdullahalbalawi/Bus-inspection-web/pkg/schema"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// run executes the root command in-process against dataDir.
func run(t *testing.T, dataDir string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("BUSINSPECT_DATA_DIR", dataDir)
	t.Setenv("BUSINSPECT_STORE", "yaml")
	t.Setenv("LOG_LEVEL", "error")

	headerInput = schema.InspectionHeader{}
	setView, toggleView = string(schema.ViewPrimary), string(schema.ViewPrimary)
	toggleOff = false
	reportFormat, reportOutDir = "text", ""

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func fillForm(t *testing.T, dataDir string) {
	t.Helper()
	_, err := run(t, dataDir, "header",
		"--plate", "ABC 1234", "--date", "2026-10-16", "--operation", "77",
		"--seats", "٣٠", "--school", "مدرسة النور", "--odometer", "125000")
	require.NoError(t, err)

	tpl, err := template.Default()
	require.NoError(t, err)
	for si, sec := range tpl.Sections {
		for ii, it := range sec.Items {
			if it.Kind != schema.KindChoice {
				continue
			}
			id := schema.ItemID{Section: si, Index: ii}
			_, err := run(t, dataDir, "set", id.String(), it.Options[0])
			require.NoError(t, err)
		}
	}
}

func TestTemplateCommand(t *testing.T) {
	out, err := run(t, t.TempDir(), "template")
	require.NoError(t, err)
	assert.Contains(t, out, "فحص الحافلة المدرسية")
	assert.Contains(t, out, "S1.I4")
	assert.Contains(t, out, "الإطارات")
	assert.Contains(t, out, "diagram")
}

func TestSetCommand(t *testing.T) {
	dataDir := t.TempDir()

	out, err := run(t, dataDir, "set", "S1.I4", "جديدة", "--view", "secondary")
	require.NoError(t, err)
	assert.Contains(t, out, "S1.I4 الإطارات: pending → passed")
	assert.Contains(t, out, "صيانة: 100٪")

	out, err = run(t, dataDir, "set", "S1.I4", "تحتاج استبدال فوري")
	require.NoError(t, err)
	assert.Contains(t, out, "passed → failed")
	assert.Contains(t, out, "✗ تنبيه")

	out, err = run(t, dataDir, "status")
	require.NoError(t, err)
	assert.Contains(t, out, "صيانة: 0٪")
	assert.Contains(t, out, "next: S1.I1")
}

func TestSetCommand_Errors(t *testing.T) {
	dataDir := t.TempDir()

	tests := []struct {
		name string
		args []string
	}{
		{"bad item id", []string{"set", "X9", "جديدة"}},
		{"unknown item", []string{"set", "S9.I1", "جديدة"}},
		{"bad view", []string{"set", "S1.I4", "جديدة", "--view", "mobile"}},
		{"notes item", []string{"set", "S1.I5", "نص"}},
		{"choice not offered", []string{"set", "S1.I4", "foo"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, dataDir, tt.args...)
			assert.Error(t, err)
		})
	}
}

func TestToggleCommand_LockedChoiceItem(t *testing.T) {
	out, err := run(t, t.TempDir(), "toggle", "S1.I4", "pass")
	require.Error(t, err)
	assert.Contains(t, out, "ℹ")
}

func TestMarkerCommands(t *testing.T) {
	dataDir := t.TempDir()

	out, err := run(t, dataDir, "marker", "add", "12.346", "40")
	require.NoError(t, err)
	assert.Contains(t, out, "(12.35, 40.00) placed")
	assert.Contains(t, out, "markers: 1")

	out, err = run(t, dataDir, "marker", "add", "12.35", "40")
	require.NoError(t, err)
	assert.Contains(t, out, "already placed")

	out, err = run(t, dataDir, "marker", "remove", "12.35", "40")
	require.NoError(t, err)
	assert.Contains(t, out, "markers: 0")

	_, err = run(t, dataDir, "marker", "add", "abc", "40")
	assert.Error(t, err)
}

func TestSaveAndReportCommands(t *testing.T) {
	dataDir := t.TempDir()

	out, err := run(t, dataDir, "save")
	require.Error(t, err)
	assert.Contains(t, out, `يرجى إكمال بند "رقم اللوحة"`)

	fillForm(t, dataDir)

	out, err = run(t, dataDir, "save")
	require.NoError(t, err)
	assert.Contains(t, out, "✓ تم الحفظ محلياً بنجاح")

	out, err = run(t, dataDir, "report")
	require.NoError(t, err)
	assert.Contains(t, out, "100٪")

	outDir := filepath.Join(t.TempDir(), "reports")
	out, err = run(t, dataDir, "report", "--format", "yaml", "--out-dir", outDir)
	require.NoError(t, err)
	assert.Contains(t, out, "ABC_1234.yaml")

	data, err := os.ReadFile(filepath.Join(outDir, "ABC_1234.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "overall: 100")

	_, err = run(t, dataDir, "report", "--format", "pdf")
	assert.Error(t, err)
}

func TestHeaderCommand_InvalidSeats(t *testing.T) {
	dataDir := t.TempDir()

	out, err := run(t, dataDir, "header", "--seats", "500")
	require.Error(t, err)
	assert.Contains(t, out, "عدد المقاعد")

	out, err = run(t, dataDir, "header", "--plate", "ABC 1234")
	require.NoError(t, err)
	assert.Contains(t, out, "رقم اللوحة: ABC 1234")
	assert.False(t, strings.Contains(out, "عدد المقاعد: 500"))
}

func TestClearCommand(t *testing.T) {
	dataDir := t.TempDir()
	fillForm(t, dataDir)

	out, err := run(t, dataDir, "clear")
	require.NoError(t, err)
	assert.Contains(t, out, "تم المسح!")

	out, err = run(t, dataDir, "status")
	require.NoError(t, err)
	assert.Contains(t, out, "progress: 0٪")
	assert.Contains(t, out, "next: S1.I1")
}

func TestCorruptStateCanBeCleared(t *testing.T) {
	dataDir := t.TempDir()
	keyDir := filepath.Join(dataDir, "inspections", schema.DefaultStorageKey)
	require.NoError(t, os.MkdirAll(keyDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(keyDir, "state.yaml"), []byte("items: [this is: not valid"), 0644))

	out, err := run(t, dataDir, "status")
	require.NoError(t, err)
	assert.Contains(t, out, "✗ تعذر استرجاع البيانات المحفوظة")

	out, err = run(t, dataDir, "clear")
	require.NoError(t, err)
	assert.Contains(t, out, "تم المسح!")

	out, err = run(t, dataDir, "status")
	require.NoError(t, err)
	assert.NotContains(t, out, "✗")
	assert.Contains(t, out, "progress: 0٪")
}
