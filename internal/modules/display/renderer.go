// Package display renders analysis reports as markdown, for the terminal or for files.
package display

import (
	"embed"
	"fmt"
	"io/fs"
	"math"
	"strings"
	"text/template"
	"time"

	"github.com/aristath/twostocks/internal/modules/optimization"
	"github.com/charmbracelet/glamour"
)

//go:embed templates/*.md
var templates embed.FS

// reportPartials maps partial template names to their files.
var reportPartials = map[string]string{
	"report_period":      "templates/report_period.md",
	"report_portfolio":   "templates/report_portfolio.md",
	"report_diagnostics": "templates/report_diagnostics.md",
}

type portfolioView struct {
	Title     string
	Portfolio optimization.PortfolioReport
	Assets    [2]optimization.AssetReport
}

var funcs = template.FuncMap{
	"pct":     formatPercent,
	"num":     formatNumber,
	"sharpe":  formatSharpe,
	"date":    formatDate,
	"last":    lastValue,
	"lowest":  lowest,
	"highest": highest,
	"portfolio": func(title string, p optimization.PortfolioReport, assets [2]optimization.AssetReport) portfolioView {
		return portfolioView{Title: title, Portfolio: p, Assets: assets}
	},
}

// RenderReport renders the report to a markdown string.
func RenderReport(report *optimization.Report) (string, error) {
	return renderTemplate("report", "templates/report.md", reportPartials, report)
}

// renderTemplate renders a main template that depends on several partials.
func renderTemplate(templateName, mainFile string, partials map[string]string, data any) (string, error) {
	mainContent, err := fs.ReadFile(templates, mainFile)
	if err != nil {
		return "", fmt.Errorf("reading template %q: %w", mainFile, err)
	}

	tmpl, err := template.New(templateName).Funcs(funcs).Parse(string(mainContent))
	if err != nil {
		return "", fmt.Errorf("parsing template %q: %w", mainFile, err)
	}

	for name, file := range partials {
		content, err := fs.ReadFile(templates, file)
		if err != nil {
			return "", fmt.Errorf("reading partial template %q: %w", file, err)
		}
		if _, err := tmpl.New(name).Parse(string(content)); err != nil {
			return "", fmt.Errorf("parsing partial template %q: %w", file, err)
		}
	}

	var b strings.Builder
	if err := tmpl.ExecuteTemplate(&b, templateName, data); err != nil {
		return "", fmt.Errorf("executing template %q: %w", templateName, err)
	}
	return b.String(), nil
}

// Terminal styles accepted by RenderTerminal.
const (
	StyleAuto  = "auto"
	StyleNoTTY = "notty"
	StyleDark  = "dark"
	StyleLight = "light"
)

// RenderTerminal formats markdown for a terminal with glamour.
func RenderTerminal(markdown, style string, width int) (string, error) {
	opts := []glamour.TermRendererOption{glamour.WithWordWrap(width)}
	if style == "" || style == StyleAuto {
		opts = append(opts, glamour.WithAutoStyle())
	} else {
		opts = append(opts, glamour.WithStandardStyle(style))
	}

	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return "", fmt.Errorf("creating terminal renderer: %w", err)
	}

	out, err := r.Render(markdown)
	if err != nil {
		return "", fmt.Errorf("rendering markdown: %w", err)
	}
	return out, nil
}

func formatPercent(v float64) string {
	return fmt.Sprintf("%.2f%%", v*100)
}

func formatNumber(v float64) string {
	return fmt.Sprintf("%.6f", v)
}

func formatSharpe(v *float64) string {
	if v == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.4f", *v)
}

func formatDate(t *time.Time) string {
	if t == nil {
		return "n/a"
	}
	return t.Format("2006-01-02")
}

func lastValue(values []float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	return values[len(values)-1]
}

func lowest(values []float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	m := values[0]
	for _, v := range values[1:] {
		m = math.Min(m, v)
	}
	return m
}

func highest(values []float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	m := values[0]
	for _, v := range values[1:] {
		m = math.Max(m, v)
	}
	return m
}
