package scoring

import "strings"

// Band is one severity level of the linguistic fallback.
type Band struct {
	Level    string   `yaml:"level"`
	Score    int      `yaml:"score"`
	Keywords []string `yaml:"keywords"`
}

// Classifier scores free text by keyword bands when the table has no entry.
type Classifier struct {
	Default int    `yaml:"default"`
	Bands   []Band `yaml:"bands"`
}

// Classify returns the score of the first band with a keyword contained in
// text, testing bands in order. Unmatched text gets the default score.
func (c *Classifier) Classify(text string) int {
	text = strings.ToLower(text)
	for _, b := range c.Bands {
		for _, kw := range b.Keywords {
			if strings.Contains(text, strings.ToLower(kw)) {
				return b.Score
			}
		}
	}
	return c.Default
}
