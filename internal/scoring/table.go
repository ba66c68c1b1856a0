package scoring

import (
	_ "embed"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed scores.yaml
var defaultScores []byte

// ChoiceScore is one evaluation choice and its score.
type ChoiceScore struct {
	Choice string
	Score  int
}

// Entry holds the ordered choices of one checklist item.
type Entry struct {
	Item    string
	Choices []ChoiceScore
}

func (e Entry) score(choice string) (int, bool) {
	for _, c := range e.Choices {
		if c.Choice == choice {
			return c.Score, true
		}
	}
	return 0, false
}

// Table maps (item name, choice) to a score in [0,100]. Entries keep the
// order of the source document; partial name matches resolve in that order.
type Table struct {
	entries []Entry
	index   map[string]int
}

// Lookup resolves a score by exact item name, then by partial item-name
// match in table order. The first entry defining the choice wins.
func (t *Table) Lookup(item, choice string) (int, bool) {
	if i, ok := t.index[item]; ok {
		if score, ok := t.entries[i].score(choice); ok {
			return score, true
		}
	}

	if item == "" {
		return 0, false
	}
	for _, e := range t.entries {
		if !strings.Contains(item, e.Item) && !strings.Contains(e.Item, item) {
			continue
		}
		if score, ok := e.score(choice); ok {
			return score, true
		}
	}
	return 0, false
}

// Entries returns a copy of the table entries in document order.
func (t *Table) Entries() []Entry {
	out := make([]Entry, len(t.entries))
	for i, e := range t.entries {
		out[i] = Entry{Item: e.Item, Choices: append([]ChoiceScore(nil), e.Choices...)}
	}
	return out
}

// Len returns the number of items in the table.
func (t *Table) Len() int { return len(t.entries) }

// parseTable walks the mapping node directly so document order survives.
func parseTable(node *yaml.Node) (*Table, error) {
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("items: expected mapping, got %s", nodeKind(node))
	}

	t := &Table{index: make(map[string]int, len(node.Content)/2)}
	for i := 0; i+1 < len(node.Content); i += 2 {
		name := strings.TrimSpace(node.Content[i].Value)
		choicesNode := node.Content[i+1]
		if name == "" {
			return nil, fmt.Errorf("items: empty item name at line %d", node.Content[i].Line)
		}
		if _, dup := t.index[name]; dup {
			return nil, fmt.Errorf("items: duplicate item %q at line %d", name, node.Content[i].Line)
		}
		if choicesNode.Kind != yaml.MappingNode {
			return nil, fmt.Errorf("items.%s: expected mapping, got %s", name, nodeKind(choicesNode))
		}

		entry := Entry{Item: name}
		for j := 0; j+1 < len(choicesNode.Content); j += 2 {
			choice := strings.TrimSpace(choicesNode.Content[j].Value)
			score, err := strconv.Atoi(choicesNode.Content[j+1].Value)
			if err != nil {
				return nil, fmt.Errorf("items.%s.%s: score must be an integer: %w", name, choice, err)
			}
			if score < 0 || score > 100 {
				return nil, fmt.Errorf("items.%s.%s: score %d outside [0,100]", name, choice, score)
			}
			if _, dup := entry.score(choice); dup {
				return nil, fmt.Errorf("items.%s: duplicate choice %q", name, choice)
			}
			entry.Choices = append(entry.Choices, ChoiceScore{Choice: choice, Score: score})
		}

		t.index[name] = len(t.entries)
		t.entries = append(t.entries, entry)
	}
	return t, nil
}

func nodeKind(n *yaml.Node) string {
	switch n.Kind {
	case yaml.MappingNode:
		return "mapping"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.ScalarNode:
		return "scalar"
	default:
		return "node"
	}
}
