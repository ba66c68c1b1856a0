// Package export runs report generation as a Genkit flow.
package export

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/Abdullahalbalawi/Bus-inspection-web/internal/report"

	"github.com/firebase/genkit/go/genkit"
	"gopkg.in/yaml.v3"
)

// FlowName is the name the report flow is registered under.
const FlowName = "inspectionReport"

// Format selects the rendering of an exported report.
type Format string

const (
	FormatText Format = "text"
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// ParseFormat validates a format name. Empty means text.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatText, nil
	case FormatText, FormatYAML, FormatJSON:
		return f, nil
	default:
		return "", fmt.Errorf("unknown export format %q (want text, yaml or json)", s)
	}
}

func (f Format) extension() string {
	switch f {
	case FormatYAML:
		return ".yaml"
	case FormatJSON:
		return ".json"
	default:
		return ".txt"
	}
}

// Source provides a converged snapshot of the form.
type Source interface {
	Snapshot(ctx context.Context) (report.Input, error)
}

// Request is the flow input.
type Request struct {
	Format Format `json:"format"`
}

// Result is the flow output.
type Result struct {
	Report   *report.Report `json:"report"`
	FileName string         `json:"file_name"`
	Content  string         `json:"content"`
}

// Exporter runs the registered report flow.
type Exporter struct {
	run func(context.Context, Request) (*Result, error)
}

// New registers the report flow on g. The flow reads a snapshot from src and
// never writes to it.
func New(g *genkit.Genkit, src Source, clock func() time.Time) *Exporter {
	if clock == nil {
		clock = time.Now
	}
	flow := genkit.DefineFlow(g, FlowName, func(ctx context.Context, req Request) (*Result, error) {
		format, err := ParseFormat(string(req.Format))
		if err != nil {
			return nil, err
		}
		in, err := src.Snapshot(ctx)
		if err != nil {
			return nil, fmt.Errorf("snapshot: %w", err)
		}
		r, err := report.Build(in, clock())
		if err != nil {
			return nil, err
		}
		content, err := Render(r, format)
		if err != nil {
			return nil, err
		}
		return &Result{Report: r, FileName: r.FileName + format.extension(), Content: content}, nil
	})
	return &Exporter{run: flow.Run}
}

// Export runs the report flow.
func (e *Exporter) Export(ctx context.Context, req Request) (*Result, error) {
	res, err := e.run(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("export %s: %w", FlowName, err)
	}
	return res, nil
}

// Render formats a report.
func Render(r *report.Report, format Format) (string, error) {
	switch format {
	case FormatYAML:
		data, err := yaml.Marshal(r)
		if err != nil {
			return "", fmt.Errorf("marshal report: %w", err)
		}
		return string(data), nil
	case FormatJSON:
		data, err := json.MarshalIndent(r, "", "  ")
		if err != nil {
			return "", fmt.Errorf("marshal report: %w", err)
		}
		return string(data), nil
	default:
		return renderText(r), nil
	}
}

func renderText(r *report.Report) string {
	var b strings.Builder
	b.WriteString(r.Summary)
	fmt.Fprintf(&b, "\nنسبة الإنجاز: %d٪\n", r.Progress)
	for _, s := range r.Sections {
		fmt.Fprintf(&b, "\n■ %s: %d٪ [%s]\n", s.Name, s.Percentage, s.Badge)
		if s.Notes != "" {
			b.WriteString(s.Notes)
			b.WriteString("\n")
		}
		for _, sg := range s.Suggestions {
			fmt.Fprintf(&b, "  → %s (%s): %s، %s، التكلفة %s\n", sg.Item, sg.Priority.Label(), sg.Action, sg.Timeline, sg.Cost)
		}
	}
	if len(r.Markers) > 0 {
		fmt.Fprintf(&b, "\nعلامات الأضرار: %d\n", len(r.Markers))
	}
	return b.String()
}
