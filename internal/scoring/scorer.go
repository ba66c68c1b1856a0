// Package scoring maps evaluation choices to numeric scores and aggregates
// them into weighted section percentages.
package scoring

import (
	"fmt"
	"math"
	"sync"

	"github.com/Abdullahalbalawi/Bus-inspection-web/pkg/schema"

	"gopkg.in/yaml.v3"
)

// Evaluation is the scoring input for one checklist item.
type Evaluation struct {
	ItemName  string
	Choice    string
	Passed    bool
	Evaluated bool
}

// Scorer combines the score table, the fallback classifier and item weights.
type Scorer struct {
	table      *Table
	classifier *Classifier
	weighting  *Weighting
}

// NewScorer creates a scorer from its parts.
func NewScorer(table *Table, classifier *Classifier, weighting *Weighting) *Scorer {
	return &Scorer{table: table, classifier: classifier, weighting: weighting}
}

var (
	defaultOnce   sync.Once
	defaultScorer *Scorer
	defaultErr    error
)

// Default returns the scorer built from the embedded score document.
func Default() (*Scorer, error) {
	defaultOnce.Do(func() {
		defaultScorer, defaultErr = Parse(defaultScores)
	})
	return defaultScorer, defaultErr
}

// Parse builds a scorer from a score document.
func Parse(data []byte) (*Scorer, error) {
	var doc struct {
		Items    yaml.Node  `yaml:"items"`
		Fallback Classifier `yaml:"fallback"`
		Weights  Weighting  `yaml:"weights"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse score document: %w", err)
	}

	table, err := parseTable(&doc.Items)
	if err != nil {
		return nil, err
	}
	if table.Len() == 0 {
		return nil, fmt.Errorf("score document has no items")
	}
	for _, b := range doc.Fallback.Bands {
		if b.Score < 0 || b.Score > 100 {
			return nil, fmt.Errorf("fallback band %s: score %d outside [0,100]", b.Level, b.Score)
		}
	}
	if doc.Weights.Default <= 0 || doc.Weights.Critical <= 0 {
		return nil, fmt.Errorf("weights must be positive")
	}

	fallback := doc.Fallback
	weights := doc.Weights
	return NewScorer(table, &fallback, &weights), nil
}

// Table returns the underlying score table.
func (s *Scorer) Table() *Table { return s.table }

// Weight returns the aggregation weight of an item.
func (s *Scorer) Weight(itemName string) float64 { return s.weighting.Weight(itemName) }

// Score resolves a choice through the table and then the classifier.
// Placeholder choices return false so callers can tell "not evaluated"
// apart from "evaluated at 0".
func (s *Scorer) Score(itemName, choice string) (int, bool) {
	choice = schema.NormalizeChoice(choice)
	if choice == "" {
		return 0, false
	}
	if score, ok := s.table.Lookup(itemName, choice); ok {
		return score, true
	}
	return s.classifier.Classify(choice), true
}

// ItemScore scores one evaluated item, falling back to its pass flag when
// no choice is recorded.
func (s *Scorer) ItemScore(e Evaluation) int {
	if score, ok := s.Score(e.ItemName, e.Choice); ok {
		return score
	}
	if e.Passed {
		return 100
	}
	return 0
}

// Aggregate returns the rounded weighted mean of the evaluated items.
// Unevaluated items are left out of both sums; no evaluated items yields 0.
func (s *Scorer) Aggregate(evals []Evaluation) int {
	var sum, total float64
	for _, e := range evals {
		if !e.Evaluated {
			continue
		}
		w := s.weighting.Weight(e.ItemName)
		sum += float64(s.ItemScore(e)) * w
		total += w
	}
	if total == 0 {
		return 0
	}
	return int(math.Round(sum / total))
}
