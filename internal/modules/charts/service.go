// Package charts renders the investment opportunity set of a two-asset analysis.
package charts

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/aristath/twostocks/internal/modules/optimization"
	"github.com/rs/zerolog"
	gocharts "github.com/vicanso/go-charts/v2"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Kind selects the chart to render.
type Kind string

const (
	// KindScatter plots expected return against risk for every frontier point.
	KindScatter Kind = "scatter"
	// KindWeights plots expected return and risk against the weight of the first asset.
	KindWeights Kind = "weights"
)

// ParseKind validates a chart kind. An empty name selects the scatter chart.
func ParseKind(name string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(name))) {
	case "", KindScatter:
		return KindScatter, nil
	case KindWeights:
		return KindWeights, nil
	default:
		return "", fmt.Errorf("invalid chart kind: %s (must be scatter or weights)", name)
	}
}

// ChartDataPoint is one point of the opportunity set, in annualized percent.
type ChartDataPoint struct {
	W1     float64 `json:"w1"`
	Risk   float64 `json:"risk"`
	Return float64 `json:"return"`
}

var (
	frontierColor = drawing.ColorFromHex("708090")
	mvpColor      = drawing.ColorFromHex("d62728")
	tangencyColor = drawing.ColorFromHex("2ca02c")
	assetColor    = drawing.ColorFromHex("000000")
)

// Service renders report charts as PNG images.
type Service struct {
	width  int
	height int
	log    zerolog.Logger
}

// NewService creates a new charts service
func NewService(log zerolog.Logger) *Service {
	return &Service{
		width:  1024,
		height: 640,
		log:    log.With().Str("service", "charts").Logger(),
	}
}

// Render draws the requested chart kind.
func (s *Service) Render(kind Kind, report *optimization.Report) ([]byte, error) {
	switch kind {
	case KindScatter:
		return s.Scatter(report)
	case KindWeights:
		return s.Weights(report)
	default:
		return nil, fmt.Errorf("invalid chart kind: %s", kind)
	}
}

// FrontierData converts the report frontier to chart points.
func FrontierData(report *optimization.Report) []ChartDataPoint {
	points := make([]ChartDataPoint, 0, report.Frontier.Len())
	for p := range report.Frontier.All() {
		points = append(points, ChartDataPoint{
			W1:     p.W1,
			Risk:   p.StdDev * 100,
			Return: p.ExpectedReturn * 100,
		})
	}
	return points
}

// Scatter draws the frontier curve with the minimum-variance and tangency
// portfolios and both single-asset endpoints marked.
func (s *Service) Scatter(report *optimization.Report) ([]byte, error) {
	if err := checkReport(report); err != nil {
		return nil, err
	}

	data := FrontierData(report)
	xs := make([]float64, len(data))
	ys := make([]float64, len(data))
	for i, p := range data {
		xs[i] = p.Risk
		ys[i] = p.Return
	}
	first, last := data[0], data[len(data)-1]
	tickerA, tickerB := report.Assets[0].Ticker, report.Assets[1].Ticker

	graph := chart.Chart{
		Title:  fmt.Sprintf("Investment opportunity set: %s / %s", tickerA, tickerB),
		Width:  s.width,
		Height: s.height,
		Background: chart.Style{
			Padding: chart.Box{Top: 50, Left: 20, Right: 20, Bottom: 20},
		},
		XAxis: chart.XAxis{
			Name:           "Risk (standard deviation)",
			ValueFormatter: percentFormatter,
		},
		YAxis: chart.YAxis{
			Name:           "Return (expected return)",
			ValueFormatter: percentFormatter,
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    "Opportunity set",
				XValues: xs,
				YValues: ys,
				Style: chart.Style{
					StrokeWidth: chart.Disabled,
					DotWidth:    2,
					DotColor:    frontierColor,
				},
			},
			marker("Minimum-variance portfolio", report.MinimumVariance, 6, mvpColor),
			marker("Tangency portfolio", report.Tangency, 5, tangencyColor),
			point(tickerA, last.Risk, last.Return, 7, assetColor),
			point(tickerB, first.Risk, first.Return, 7, assetColor),
		},
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("failed to render scatter chart: %w", err)
	}

	s.log.Debug().
		Str("run_id", report.RunID).
		Int("points", len(data)).
		Int("bytes", buf.Len()).
		Msg("Rendered scatter chart")

	return buf.Bytes(), nil
}

// Weights draws expected return and risk as the weight of the first asset
// moves from 0 to 1.
func (s *Service) Weights(report *optimization.Report) ([]byte, error) {
	if err := checkReport(report); err != nil {
		return nil, err
	}

	data := FrontierData(report)
	labels := make([]string, len(data))
	returns := make([]float64, len(data))
	risks := make([]float64, len(data))
	yMin, yMax := 0.0, 0.0
	for i, p := range data {
		labels[i] = fmt.Sprintf("%.0f%%", p.W1*100)
		returns[i] = p.Return
		risks[i] = p.Risk
		yMin = min(yMin, p.Return, p.Risk)
		yMax = max(yMax, p.Return, p.Risk)
	}
	pad := (yMax - yMin) * 0.05
	if pad == 0 {
		pad = 1
	}
	yMin -= pad
	yMax += pad

	split := 10
	if len(labels) <= 10 {
		split = len(labels)
	}

	names := []string{"Expected return %", "Std dev %"}
	title := fmt.Sprintf("Weight of %s", report.Assets[0].Ticker)
	subtitle := fmt.Sprintf("%s / %s", report.Assets[0].Ticker, report.Assets[1].Ticker)

	painter, err := gocharts.LineRender([][]float64{returns, risks},
		gocharts.TitleTextOptionFunc(title, subtitle),
		gocharts.XAxisOptionFunc(gocharts.XAxisOption{Data: labels, BoundaryGap: gocharts.FalseFlag(), SplitNumber: split}),
		gocharts.YAxisOptionFunc(gocharts.YAxisOption{Min: &yMin, Max: &yMax, DivideCount: 5}),
		gocharts.LegendOptionFunc(gocharts.LegendOption{Data: names}),
		gocharts.ThemeOptionFunc(gocharts.ThemeLight),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to render weights chart: %w", err)
	}

	buf, err := painter.Bytes()
	if err != nil {
		return nil, fmt.Errorf("failed to generate chart bytes: %w", err)
	}

	s.log.Debug().
		Str("run_id", report.RunID).
		Int("points", len(data)).
		Int("bytes", len(buf)).
		Msg("Rendered weights chart")

	return buf, nil
}

func checkReport(report *optimization.Report) error {
	if report == nil || report.Frontier.Len() < 2 {
		return fmt.Errorf("report has no frontier to chart")
	}
	return nil
}

func marker(name string, p optimization.PortfolioReport, width float64, color drawing.Color) chart.ContinuousSeries {
	return point(name, p.StdDev*100, p.ExpectedReturn*100, width, color)
}

func point(name string, x, y, width float64, color drawing.Color) chart.ContinuousSeries {
	return chart.ContinuousSeries{
		Name:    name,
		XValues: []float64{x},
		YValues: []float64{y},
		Style: chart.Style{
			StrokeWidth: chart.Disabled,
			DotWidth:    width,
			DotColor:    color,
		},
	}
}

func percentFormatter(v interface{}) string {
	if f, ok := v.(float64); ok {
		return fmt.Sprintf("%.1f%%", f)
	}
	return ""
}
