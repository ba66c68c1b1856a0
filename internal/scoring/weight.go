package scoring

import "strings"

// Weighting gives safety-critical items a larger share of the section mean.
type Weighting struct {
	Default  float64  `yaml:"default"`
	Critical float64  `yaml:"critical"`
	Keywords []string `yaml:"keywords"`
}

// Weight depends only on the item name.
func (w *Weighting) Weight(itemName string) float64 {
	name := strings.ToLower(itemName)
	for _, kw := range w.Keywords {
		if strings.Contains(name, strings.ToLower(kw)) {
			return w.Critical
		}
	}
	return w.Default
}
