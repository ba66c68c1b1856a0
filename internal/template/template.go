// Package template loads checklist templates.
package template

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/Abdullahalbalawi/Bus-inspection-web/pkg/schema"

	"gopkg.in/yaml.v3"
)

//go:embed bus_inspection.yaml
var busInspection []byte

// Default returns the embedded school bus inspection template.
func Default() (*schema.Template, error) {
	t, err := Parse(busInspection)
	if err != nil {
		return nil, fmt.Errorf("embedded template: %w", err)
	}
	return t, nil
}

// Load reads and validates a template file.
func Load(path string) (*schema.Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read template: %w", err)
	}
	t, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("template %s: %w", path, err)
	}
	return t, nil
}

// LoadOrDefault loads path, or the embedded template when path is empty.
func LoadOrDefault(path string) (*schema.Template, error) {
	if path == "" {
		return Default()
	}
	return Load(path)
}

// Parse decodes and validates a template document.
func Parse(data []byte) (*schema.Template, error) {
	var t schema.Template
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parse template: %w", err)
	}
	if err := schema.ValidateTemplate(&t); err != nil {
		return nil, err
	}
	return &t, nil
}
