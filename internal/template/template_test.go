package template

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Abdullahalbalawi/Bus-inspection-web/internal/scoring"
	"github.com/Abdullahalbalawi/Bus-inspection-web/pkg/schema"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	tpl, err := Default()
	require.NoError(t, err)

	require.Len(t, tpl.Sections, 4)
	categories := []string{
		schema.CategoryMaintenance,
		schema.CategoryAccidents,
		schema.CategoryFleet,
		schema.CategoryDriver,
	}
	for i, sec := range tpl.Sections {
		assert.Equal(t, categories[i], sec.Category)
	}

	item, ok := tpl.Item(schema.ItemID{Section: 1, Index: 4})
	require.True(t, ok)
	assert.Equal(t, schema.KindDiagram, item.Kind)

	assert.Contains(t, tpl.PassOptions, "جديدة")
	assert.Contains(t, tpl.PerfectOptions, "سليم")
}

func TestDefault_EveryOptionIsScored(t *testing.T) {
	tpl, err := Default()
	require.NoError(t, err)
	scorer, err := scoring.Default()
	require.NoError(t, err)

	choiceItems := 0
	for _, sec := range tpl.Sections {
		for _, item := range sec.Items {
			if item.Kind != schema.KindChoice {
				continue
			}
			choiceItems++
			for _, opt := range item.Options {
				_, ok := scorer.Table().Lookup(item.Name, opt)
				assert.True(t, ok, "%s / %s has no table score", item.Name, opt)
			}
		}
	}
	assert.Equal(t, scorer.Table().Len(), choiceItems)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	doc := `
name: custom
version: "2"
pass_options: [نعم]
sections:
  - name: عام
    category: general
    items:
      - name: الإضاءة
        kind: choice
        options: [نعم, لا]
      - name: حزام الأمان
        kind: checkbox
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0644))

	tpl, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "custom", tpl.Name)
	assert.Equal(t, 2, tpl.ItemCount())
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: x\nversion: \"1\"\nsections: []\n"), 0644))
	_, err = Load(path)
	assert.Error(t, err)
}

func TestLoadOrDefault(t *testing.T) {
	tpl, err := LoadOrDefault("")
	require.NoError(t, err)
	assert.Equal(t, "فحص الحافلة المدرسية", tpl.Name)
}
