// Package infopanel projects registry state into human readable cost listings.
//
// Render is a pure function of the metrics and total. Panel keeps the latest
// rendering current by subscribing to a registry and re-rendering in full on
// every mutation.
package infopanel

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/lehigh-university-libraries/printlayout/internal/models"
	"github.com/lehigh-university-libraries/printlayout/internal/registry"
)

// Report is one full rendering of the panel
type Report struct {
	Lines   []string              `json:"lines" yaml:"-"`
	Summary string                `json:"summary" yaml:"summary"`
	Entries []models.ImageMetrics `json:"entries" yaml:"entries"`
	Total   float64               `json:"total" yaml:"total"`
}

// Render builds one line per entry plus the total summary
func Render(metrics []models.ImageMetrics, total float64) Report {
	lines := make([]string, 0, len(metrics))
	for _, m := range metrics {
		lines = append(lines, Line(m))
	}
	return Report{
		Lines:   lines,
		Summary: Summary(total),
		Entries: metrics,
		Total:   total,
	}
}

// Line formats a single metrics entry
func Line(m models.ImageMetrics) string {
	area, cost := "-", "-"
	if m.Priced {
		area = fmt.Sprintf("%.2f", m.AreaM2)
		cost = fmt.Sprintf("%.2f", m.Cost)
	}
	return fmt.Sprintf("ID: %d, Name: %s, Width: %.2f cm, Height: %.2f cm, Area: %s m2, Aspect Ratio: %.2f, Cost: €%s, Left: %.0f, Top: %.0f",
		m.ID, m.Name, m.WidthCm, m.HeightCm, area, m.AspectRatio, cost, m.Left, m.Top)
}

// Summary formats the running total
func Summary(total float64) string {
	return "Total cost: € " + strconv.FormatFloat(total, 'f', -1, 64)
}

// Text joins the entry lines and the summary
func (r Report) Text() string {
	var b strings.Builder
	for _, l := range r.Lines {
		b.WriteString(l)
		b.WriteString("\n")
	}
	b.WriteString(r.Summary)
	b.WriteString("\n")
	return b.String()
}

// Formats accepted by Write
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Write encodes report to w in the given format
func Write(w io.Writer, report Report, format string) error {
	switch format {
	case "", FormatText:
		_, err := io.WriteString(w, report.Text())
		return err
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(report); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

// Panel holds the latest rendering of a registry
type Panel struct {
	latest   Report
	onRender func(Report)
	cancel   func()
}

// NewPanel renders reg now and again after each of its mutations.
// onRender, when set, receives every new Report.
func NewPanel(reg *registry.Registry, onRender func(Report)) *Panel {
	p := &Panel{onRender: onRender}
	p.update(reg.Snapshot())
	p.cancel = reg.Subscribe(p.update)
	return p
}

func (p *Panel) update(s registry.Snapshot) {
	p.latest = Render(s.Metrics, s.Total)
	if p.onRender != nil {
		p.onRender(p.latest)
	}
}

// Latest returns the most recent rendering
func (p *Panel) Latest() Report {
	return p.latest
}

// Close stops following the registry
func (p *Panel) Close() {
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
}
