package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/aristath/twostocks/internal/modules/charts"
	"github.com/aristath/twostocks/internal/modules/display"
	"github.com/aristath/twostocks/internal/modules/optimization"
	"github.com/google/subcommands"
)

type analyzeCmd struct {
	app  *app
	pair pairFlags

	json    bool
	chart   string
	noChart bool
	kind    string
	style   string
	width   int
}

func (*analyzeCmd) Name() string     { return "analyze" }
func (*analyzeCmd) Synopsis() string { return "analyze a pair of stocks and print the optimal portfolios" }
func (*analyzeCmd) Usage() string {
	return `twostocks analyze [-json] [-chart <file.png>] [-no-chart] [-period <p>] [-interval <i>] [-rf <rate>] [-step <s>] [TICKER1 TICKER2]

  Downloads both price histories, then prints the performance of each asset,
  their covariance and correlation, the minimum-variance portfolio and the
  tangency portfolio. Missing tickers are asked for on stdin.
`
}

func (c *analyzeCmd) SetFlags(f *flag.FlagSet) {
	c.pair.register(f)
	f.BoolVar(&c.json, "json", false, "Print the report as JSON")
	f.StringVar(&c.chart, "chart", "", "Write the investment opportunity set chart to this PNG file")
	f.BoolVar(&c.noChart, "no-chart", false, "Do not offer to plot the investment opportunity set")
	f.StringVar(&c.kind, "kind", string(charts.KindScatter), "Chart kind (scatter, weights)")
	f.StringVar(&c.style, "style", display.StyleAuto, "Terminal style (auto, notty, dark, light)")
	f.IntVar(&c.width, "width", 100, "Terminal word wrap width")
}

func (c *analyzeCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	kind, err := charts.ParseKind(c.kind)
	if err != nil {
		c.app.fail(err)
		return subcommands.ExitUsageError
	}
	req, err := c.pair.request(c.app, f.Args())
	if err != nil {
		c.app.fail(err)
		return subcommands.ExitUsageError
	}

	container, _, _, err := c.app.open()
	if err != nil {
		return c.app.fail(err)
	}
	defer container.Close()

	report, err := container.AnalysisService.Run(ctx, req)
	if err != nil {
		return c.app.fail(err)
	}

	if c.json {
		enc := json.NewEncoder(c.app.stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return c.app.fail(err)
		}
	} else {
		md, err := display.RenderReport(report)
		if err != nil {
			return c.app.fail(err)
		}
		out, err := display.RenderTerminal(md, c.style, c.width)
		if err != nil {
			return c.app.fail(err)
		}
		fmt.Fprint(c.app.stdout, out)
	}

	path := c.chart
	if path == "" && !c.noChart && !c.json && c.app.confirm("\nPlot the investment opportunity set? [Y/n] ") {
		path = chartFileName(report, kind)
	}
	if path == "" {
		return subcommands.ExitSuccess
	}

	png, err := container.ChartsService.Render(kind, report)
	if err != nil {
		return c.app.fail(err)
	}
	if err := os.WriteFile(path, png, 0644); err != nil {
		return c.app.fail(fmt.Errorf("writing chart: %w", err))
	}
	fmt.Fprintf(c.app.stdout, "Chart written to %s\n", path)

	return subcommands.ExitSuccess
}

var fileNameReplacer = strings.NewReplacer("^", "", "/", "_", "\\", "_", " ", "_", ":", "_")

// chartFileName names a chart after the pair, e.g. aapl_msft_scatter.png.
func chartFileName(report *optimization.Report, kind charts.Kind) string {
	name := fmt.Sprintf("%s_%s_%s.png", report.Assets[0].Ticker, report.Assets[1].Ticker, kind)
	return strings.ToLower(fileNameReplacer.Replace(name))
}
