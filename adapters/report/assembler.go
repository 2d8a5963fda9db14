package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"admreport/domain/binning"
	"admreport/domain/core"
	"admreport/domain/datamart"
	"admreport/domain/importance"
)

// Report is the fully derived output of one pipeline run, ready for
// rendering. Everything in it is already reduced and computed; the
// assembler only formats.
type Report struct {
	RunID       core.RunID                 `json:"run_id"`
	GeneratedAt time.Time                  `json:"generated_at"`
	Facets      []string                   `json:"facets,omitempty"`
	Models      datamart.ModelTable        `json:"models"`
	Bubble      []BubblePoint              `json:"bubble"`
	Classifiers []binning.PredictorMetrics `json:"classifiers"`
	Importance  []importance.Row           `json:"importance"`
	BoxPlots    []BoxPlotSummary           `json:"box_plots"`
	Matrix      PerformanceMatrix          `json:"matrix"`
	Heatmap     CalendarHeatmap            `json:"heatmap"`
	Trends      []ModelTrend               `json:"trends"`
}

// Assembler renders a Report into human-readable artifacts.
type Assembler struct{}

// NewAssembler creates a report assembler.
func NewAssembler() *Assembler {
	return &Assembler{}
}

// Markdown renders the full report as a markdown document.
func (a *Assembler) Markdown(rep *Report) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "# ADM Datamart Report\n\n")
	fmt.Fprintf(&b, "Run `%s`, generated %s. %d models.\n\n",
		rep.RunID.String(), rep.GeneratedAt.Format(time.RFC3339), len(rep.Models))

	a.writeModelOverview(&b, rep)
	a.writeClassifierSection(&b, rep)
	a.writeImportanceSection(&b, rep)
	a.writeBoxPlotSection(&b, rep)
	a.writeMatrixSection(&b, rep)
	a.writeHeatmapSection(&b, rep)
	a.writeTrendSection(&b, rep)
	return []byte(b.String())
}

// HTML renders the markdown report to a standalone HTML page.
func (a *Assembler) HTML(rep *Report) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.Tables)
	renderer := html.NewRenderer(html.RendererOptions{
		Title: "ADM Datamart Report",
		Flags: html.CommonFlags | html.CompletePage,
	})
	return markdown.ToHTML(a.Markdown(rep), p, renderer)
}

func (a *Assembler) writeModelOverview(b *strings.Builder, rep *Report) {
	b.WriteString("## Models\n\n")
	if len(rep.Bubble) == 0 {
		b.WriteString("No model rows in the export.\n\n")
		return
	}
	b.WriteString("| Model | Performance (AUC) | Success Rate (%) | Responses |\n")
	b.WriteString("|---|---|---|---|\n")
	for _, p := range rep.Bubble {
		fmt.Fprintf(b, "| %s | %.3f | %.2f | %d |\n", p.Name, p.Performance, p.SuccessRate, p.Responses)
	}
	b.WriteString("\n")
}

func (a *Assembler) writeClassifierSection(b *strings.Builder, rep *Report) {
	b.WriteString("## Classifier Performance\n\n")
	if len(rep.Classifiers) == 0 {
		b.WriteString("No classifier binning reported.\n\n")
		return
	}
	b.WriteString("| Model | Bins | Responses | KS | Max Lift |\n")
	b.WriteString("|---|---|---|---|---|\n")
	for _, c := range rep.Classifiers {
		fmt.Fprintf(b, "| %s | %d | %d | %.3f | %.2f |\n",
			c.ModelID, len(c.Bins), c.Responses, c.KS, maxLift(c.Lift))
	}
	b.WriteString("\n")
}

func (a *Assembler) writeImportanceSection(b *strings.Builder, rep *Report) {
	b.WriteString("## Variable Importance\n\n")
	if len(rep.Importance) == 0 {
		b.WriteString("No active predictors contributed importance.\n\n")
		return
	}
	if len(rep.Facets) > 0 {
		fmt.Fprintf(b, "Faceted by %s.\n\n", strings.Join(rep.Facets, ", "))
	}
	b.WriteString("| Facet | Rank | Predictor | Importance |\n")
	b.WriteString("|---|---|---|---|\n")
	for _, row := range rep.Importance {
		fmt.Fprintf(b, "| %s | %d | %s | %.4f |\n",
			row.Facet.String(), row.Rank, row.PredictorName, row.Importance)
	}
	b.WriteString("\n")
}

func (a *Assembler) writeBoxPlotSection(b *strings.Builder, rep *Report) {
	b.WriteString("## Predictor Performance\n\n")
	if len(rep.BoxPlots) == 0 {
		b.WriteString("No predictor binning reported.\n\n")
		return
	}
	b.WriteString("| Predictor | Source | Type | Models | Min | Q1 | Median | Q3 | Max | Mean |\n")
	b.WriteString("|---|---|---|---|---|---|---|---|---|---|\n")
	for _, s := range rep.BoxPlots {
		fmt.Fprintf(b, "| %s | %s | %s | %d | %.3f | %.3f | %.3f | %.3f | %.3f | %.3f |\n",
			s.PredictorName, s.Source, s.PredictorType, s.Models,
			s.Min, s.Q1, s.Median, s.Q3, s.Max, s.Mean)
	}
	b.WriteString("\n")
}

func (a *Assembler) writeMatrixSection(b *strings.Builder, rep *Report) {
	b.WriteString("## Model / Predictor Performance Matrix\n\n")
	m := rep.Matrix
	if len(m.ModelNames) == 0 {
		b.WriteString("No predictor performance to cross-tabulate.\n\n")
		return
	}
	b.WriteString("| Model | " + strings.Join(m.PredictorNames, " | ") + " |\n")
	b.WriteString("|---" + strings.Repeat("|---", len(m.PredictorNames)) + "|\n")
	for i, name := range m.ModelNames {
		cells := make([]string, len(m.Values[i]))
		for j, v := range m.Values[i] {
			cells[j] = formatMatrixCell(v)
		}
		fmt.Fprintf(b, "| %s | %s |\n", name, strings.Join(cells, " | "))
	}
	b.WriteString("\n")
}

func (a *Assembler) writeHeatmapSection(b *strings.Builder, rep *Report) {
	b.WriteString("## Response Calendar\n\n")
	h := rep.Heatmap
	if h.Empty() {
		b.WriteString("No snapshots within the lookback window.\n\n")
		return
	}
	days := make([]string, len(h.Days))
	for i, d := range h.Days {
		days[i] = d.Format("01-02")
	}
	b.WriteString("| Model | " + strings.Join(days, " | ") + " |\n")
	b.WriteString("|---" + strings.Repeat("|---", len(days)) + "|\n")
	for i, name := range h.ModelNames {
		cells := make([]string, len(h.Days))
		for j := range h.Days {
			cells[j] = formatHeatmapCell(h.Responses[i][j], h.Sign[i][j])
		}
		fmt.Fprintf(b, "| %s | %s |\n", name, strings.Join(cells, " | "))
	}
	b.WriteString("\n")
}

func (a *Assembler) writeTrendSection(b *strings.Builder, rep *Report) {
	b.WriteString("## Model History\n\n")
	if len(rep.Trends) == 0 {
		b.WriteString("No snapshot history available.\n\n")
		return
	}
	for _, trend := range rep.Trends {
		fmt.Fprintf(b, "### %s\n\n", trend.ModelName)
		b.WriteString("| Snapshot | Responses | Success Rate (%) | Performance (AUC) |\n")
		b.WriteString("|---|---|---|---|\n")
		for _, p := range trend.Points {
			fmt.Fprintf(b, "| %s | %d | %.2f | %.3f |\n",
				p.Time.Format("2006-01-02 15:04"), p.Responses, p.SuccessRate, p.Performance)
		}
		b.WriteString("\n")
	}
}

func maxLift(curve []binning.CurvePoint) float64 {
	max := 0.0
	for _, p := range curve {
		if p.Value > max {
			max = p.Value
		}
	}
	return max
}

func formatMatrixCell(v float64) string {
	if v != v { // NaN: predictor absent from this model
		return "–"
	}
	return fmt.Sprintf("%.1f", v)
}

func formatHeatmapCell(responses float64, sign int) string {
	if responses != responses {
		return "–"
	}
	arrow := "→"
	switch sign {
	case SignIncreased:
		arrow = "↑"
	case SignDecreased:
		arrow = "↓"
	}
	return fmt.Sprintf("%.0f %s", responses, arrow)
}
